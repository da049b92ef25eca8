package search

import (
	"slices"
	"testing"
)

func identity(s string) string { return s }

func TestSearch(t *testing.T) {
	tests := []struct {
		name            string
		query           string
		labels          []string
		want            []string
		enforceOrdering bool
	}{
		{
			name:   "empty input set",
			query:  "foo",
			labels: []string{},
			want:   []string{},
		},
		{
			name:   "single exact match",
			query:  "foo",
			labels: []string{"foo"},
			want:   []string{"foo"},
		},
		{
			name:   "single inner word match",
			query:  "foo",
			labels: []string{"this has foo in it"},
			want:   []string{"this has foo in it"},
		},
		{
			name:   "single partial match",
			query:  "foo",
			labels: []string{"food"},
			want:   []string{"food"},
		},
		{
			name:   "single near match",
			query:  "fou",
			labels: []string{"foo"},
			want:   []string{"foo"},
		},
		{
			name:   "single non-match",
			query:  "bar",
			labels: []string{"foo"},
			want:   []string{},
		},
		{
			name:            "match, near match, non-match",
			query:           "foo",
			labels:          []string{"fou", "bar", "foo"},
			want:            []string{"foo", "fou"},
			enforceOrdering: true,
		},
		{
			name:   "single multi-word exact match",
			query:  "hello there",
			labels: []string{"hello there"},
			want:   []string{"hello there"},
		},
		{
			name:            "multi-word separated near match and almost-near match",
			query:           "hello there",
			labels:          []string{"oh hello to you", "oh hello to you there"},
			want:            []string{"oh hello to you there", "oh hello to you"},
			enforceOrdering: true,
		},
		{
			name:            "multi-word separated near match and reverse match",
			query:           "hello there",
			labels:          []string{"hey there, hello!", "oh hello to you there"},
			want:            []string{"oh hello to you there", "hey there, hello!"},
			enforceOrdering: true,
		},
		{
			name:            "multi-word overlap match vs separate match",
			query:           "howdy how",
			labels:          []string{"howdy", "howdy there how are you"},
			want:            []string{"howdy there how are you", "howdy"},
			enforceOrdering: true,
		},
		{
			name:            "exact match vs exact match with additional words",
			query:           "howdy",
			labels:          []string{"howdy there how are you", "howdy"},
			want:            []string{"howdy", "howdy there how are you"},
			enforceOrdering: true,
		},
		{
			name:   "case insensitive",
			query:  "NODE",
			labels: []string{"Node A", "node b", "other"},
			want:   []string{"Node A", "node b"},
		},
		{
			name:   "all tokens must match",
			query:  "alpha zzzz",
			labels: []string{"alpha beta"},
			want:   []string{},
		},
		{
			name:   "empty query",
			query:  "",
			labels: []string{"foo"},
			want:   []string{},
		},
		{
			name:   "punctuation only query",
			query:  "!?",
			labels: []string{"foo"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.labels, identity).Search(tt.query)
			want := slices.Clone(tt.want)
			if !tt.enforceOrdering {
				slices.Sort(got)
				slices.Sort(want)
			}
			if len(got) == 0 && len(want) == 0 {
				return
			}
			if !slices.Equal(got, want) {
				t.Errorf("Search(%q) = %q, want %q", tt.query, got, want)
			}
		})
	}
}

func TestSearchLimit(t *testing.T) {
	ix := New([]string{"alpha", "alphabet", "alpine", "beta"}, identity)

	got := ix.SearchLimit("alp", 2)
	if len(got) != 2 {
		t.Fatalf("len(SearchLimit) = %d, want 2", len(got))
	}
	if got[0] != "alpha" {
		t.Errorf("SearchLimit()[0] = %q, want %q", got[0], "alpha")
	}

	if all := ix.SearchLimit("alp", 0); len(all) != 3 {
		t.Errorf("len(SearchLimit(0)) = %d, want 3", len(all))
	}
}

func TestRankScoresAscending(t *testing.T) {
	ix := New([]string{"fou", "foo", "food", "this has foo in it"}, identity)
	ranked := ix.Rank("foo")
	if len(ranked) != 4 {
		t.Fatalf("len(Rank) = %d, want 4", len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score < ranked[i-1].Score {
			t.Errorf("Rank not ascending at %d: %v < %v", i, ranked[i].Score, ranked[i-1].Score)
		}
	}
	if ranked[0].Item != "foo" || ranked[0].Score != 0 {
		t.Errorf("Rank()[0] = %+v, want foo with score 0", ranked[0])
	}
}

func TestIndexOverStructs(t *testing.T) {
	type node struct {
		id    string
		label string
	}
	nodes := []*node{{"1", "Payments API"}, {"2", "Billing worker"}, {"3", "payment queue"}}
	ix := New(nodes, func(n *node) string { return n.label })

	if ix.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ix.Len())
	}
	got := ix.Search("payment")
	if len(got) != 2 {
		t.Fatalf("len(Search) = %d, want 2", len(got))
	}
	if got[0] != nodes[2] {
		t.Errorf("Search()[0] = %+v, want exact word match %+v", got[0], nodes[2])
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"Hello, World!", []string{"hello", "world"}},
		{"hey there, hello!", []string{"hey", "there", "hello"}},
		{"v2_api-node", []string{"v2", "api", "node"}},
		{"Ünïcode wörds", []string{"ünïcode", "wörds"}},
	}

	for _, tt := range tests {
		got := Tokenize(tt.in)
		if !slices.Equal(got, tt.want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSubstringDistance(t *testing.T) {
	tests := []struct {
		pattern, text string
		want          int
	}{
		{"foo", "foo", 0},
		{"foo", "food", 0},
		{"foo", "xfoox", 0},
		{"fou", "foo", 1},
		{"bar", "foo", 3},
		{"there", "hello", 3},
		{"abc", "", 3},
	}

	for _, tt := range tests {
		if got := substringDistance([]rune(tt.pattern), []rune(tt.text)); got != tt.want {
			t.Errorf("substringDistance(%q, %q) = %d, want %d", tt.pattern, tt.text, got, tt.want)
		}
	}
}
