package importer

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/graphdata"
	"github.com/matzehuels/graphit/pkg/jsonvalue"
)

func marshal(t *testing.T, v jsonvalue.Value) string {
	t.Helper()
	b, err := jsonvalue.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	return string(b)
}

func TestCreateFromColumns(t *testing.T) {
	tests := []struct {
		name     string
		cols     Columns
		want     string
		warnings int
	}{
		{
			name: "empty",
			cols: Columns{},
			want: `{"nodes":[],"links":[]}`,
		},
		{
			name: "simple",
			cols: Columns{
				NodeIDs:       []string{"a", "b", "c"},
				NodeLabels:    []string{"node a", "node b", "node c"},
				LinkSourceIDs: []string{"a", "b"},
				LinkTargetIDs: []string{"b", "c"},
			},
			want: `{"nodes":[{"id":"a","label":"node a"},{"id":"b","label":"node b"},{"id":"c","label":"node c"}],` +
				`"links":[{"source":"a","target":"b","stroke":"solid"},{"source":"b","target":"c","stroke":"solid"}]}`,
		},
		{
			name: "label falls back to id",
			cols: Columns{
				NodeIDs:    []string{"a", "b", "c"},
				NodeLabels: []string{"A", ""},
			},
			want: `{"nodes":[{"id":"a","label":"A"},{"id":"b","label":"b"},{"id":"c","label":"c"}],"links":[]}`,
		},
		{
			name: "empty colors become null",
			cols: Columns{
				NodeIDs:    []string{"a", "b"},
				NodeLabels: []string{"A", "B"},
				NodeColors: []string{"red"},
			},
			want: `{"nodes":[{"id":"a","label":"A","color":"red"},{"id":"b","label":"B","color":null}],"links":[]}`,
		},
		{
			name: "skipped rows",
			cols: Columns{
				NodeIDs:       []string{"a", "", "c"},
				NodeLabels:    []string{"A", "B", "C"},
				LinkSourceIDs: []string{"a", "", "c"},
				LinkTargetIDs: []string{"c", "a"},
			},
			want:     `{"nodes":[{"id":"a","label":"A"},{"id":"c","label":"C"}],"links":[{"source":"a","target":"c","stroke":"solid"}]}`,
			warnings: 3,
		},
		{
			name: "strokes",
			cols: Columns{
				LinkSourceIDs: []string{"a", "b", "c"},
				LinkTargetIDs: []string{"b", "c", "a"},
				LinkStrokes:   []string{"dashed", "wavy"},
			},
			want: `{"nodes":[],"links":[{"source":"a","target":"b","stroke":"dashed"},` +
				`{"source":"b","target":"c","stroke":"solid"},{"source":"c","target":"a","stroke":"solid"}]}`,
			warnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CreateFromColumns(tt.cols)
			if got := marshal(t, res.Document); got != tt.want {
				t.Errorf("document = %s, want %s", got, tt.want)
			}
			if len(res.Warnings) != tt.warnings {
				t.Errorf("warnings = %v, want %d", res.Warnings, tt.warnings)
			}
		})
	}
}

func TestTranspose(t *testing.T) {
	tests := []struct {
		in   [][]any
		want [][]any
	}{
		{[][]any{}, [][]any{}},
		{[][]any{{"x"}}, [][]any{{"x"}}},
		{[][]any{{nil}}, [][]any{{}}},
		{[][]any{{"x", nil}}, [][]any{{"x"}, {}}},
		{
			[][]any{{"A", "B", "C"}, {"a1", "b1", "c1"}},
			[][]any{{"A", "a1"}, {"B", "b1"}, {"C", "c1"}},
		},
		{
			[][]any{{"A", "B", "C"}, {"a1", "b1"}},
			[][]any{{"A", "a1"}, {"B", "b1"}, {"C"}},
		},
		{
			[][]any{{"A", "B", "C"}, {"a1", nil, "c1"}},
			[][]any{{"A", "a1"}, {"B"}, {"C", "c1"}},
		},
	}

	for _, tt := range tests {
		got := Transpose(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("Transpose(%v) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if len(got[i]) != len(tt.want[i]) || (len(got[i]) > 0 && !reflect.DeepEqual(got[i], tt.want[i])) {
				t.Errorf("Transpose(%v) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}

func TestExtractNamedColumns(t *testing.T) {
	table := [][]any{
		{"A", "B"},
		{"a1", "b1"},
		{"a2", "b2"},
	}

	tests := []struct {
		name  string
		rows  [][]any
		names []string
		want  [][]string
	}{
		{"empty", [][]any{}, []string{}, [][]string{}},
		{"one column", table, []string{"A"}, [][]string{{"a1", "a2"}}},
		{"two columns", table, []string{"A", "B"}, [][]string{{"a1", "a2"}, {"b1", "b2"}}},
		{"requested order", table, []string{"B", "A"}, [][]string{{"b1", "b2"}, {"a1", "a2"}}},
		{"stringifying", [][]any{{"A"}, {"a1"}, {2.0}}, []string{"A"}, [][]string{{"a1", "2"}}},
		{"missing column", table, []string{"A", "Z"}, [][]string{{"a1", "a2"}, nil}},
		{"trailing empties trimmed", [][]any{{"A"}, {"a1"}, {""}, {nil}}, []string{"A"}, [][]string{{"a1"}}},
		{"header only", [][]any{{"A"}}, []string{"A"}, [][]string{{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractNamedColumns(Transpose(tt.rows), tt.names)
			if err != nil {
				t.Fatalf("ExtractNamedColumns error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractNamedColumns() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestExtractNamedColumnsDuplicateName(t *testing.T) {
	_, err := ExtractNamedColumns(nil, []string{"id", "label", "id"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestLooksLikeHTML(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"hello", false},
		{"3 < 4", false},
		{"3 < 4 / 5 > 6", false},
		{"click <a>here</a>", true},
		{"click <a>here</ a>", true},
		{"two<br/>lines", true},
	}

	for _, tt := range tests {
		if got := LooksLikeHTML(tt.in); got != tt.want {
			t.Errorf("LooksLikeHTML(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTabularToObjects(t *testing.T) {
	s := func(v string) jsonvalue.Value { return jsonvalue.String(v) }

	tests := []struct {
		name    string
		headers []string
		rows    [][]jsonvalue.Value
		want    string
	}{
		{"empty", nil, nil, `[]`},
		{"headers but no data", []string{"a"}, nil, `[]`},
		{"data but no headers", nil, [][]jsonvalue.Value{{s("1a")}}, `[{}]`},
		{
			"straightforward", []string{"a", "b"},
			[][]jsonvalue.Value{{s("1a"), s("1b")}, {s("2a"), s("2b")}},
			`[{"a":"1a","b":"1b"},{"a":"2a","b":"2b"}]`,
		},
		{
			"ragged", []string{"a", "b"},
			[][]jsonvalue.Value{{s("1a"), s("1b")}, {s("2a")}, {nil, s("3b")}},
			`[{"a":"1a","b":"1b"},{"a":"2a"},{"b":"3b"}]`,
		},
		{"extra row data", []string{"a"}, [][]jsonvalue.Value{{s("1a"), s("1b")}}, `[{"a":"1a"}]`},
		{"extra headers", []string{"a", "b"}, [][]jsonvalue.Value{{s("1a")}}, `[{"a":"1a"}]`},
		{"empty row", []string{"a"}, [][]jsonvalue.Value{{}, {s("2a")}}, `[{},{"a":"2a"}]`},
		{
			"nulls and empties are kept", []string{"a"},
			[][]jsonvalue.Value{{s("1a")}, {s("")}, {jsonvalue.Null{}}, {}},
			`[{"a":"1a"},{"a":""},{"a":null},{}]`,
		},
		{
			"non-string values", []string{"a"},
			[][]jsonvalue.Value{{jsonvalue.Number(0)}, {jsonvalue.Bool(false)}, {jsonvalue.ObjectOf("foo", jsonvalue.Number(1))}},
			`[{"a":0},{"a":false},{"a":{"foo":1}}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objs := TabularToObjects(tt.headers, tt.rows)
			arr := make(jsonvalue.Array, len(objs))
			for i, o := range objs {
				arr[i] = o
			}
			if got := marshal(t, arr); got != tt.want {
				t.Errorf("TabularToObjects() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCreateFromSheetData(t *testing.T) {
	nodes := Transpose([][]any{
		{"label", "id", "notes"},
		{"<b>A</b>", "a", "x"},
		{"B", "b"},
	})
	links := Transpose([][]any{
		{"source", "target"},
		{"a", "b"},
	})

	res, err := CreateFromSheetData(nodes, links)
	if err != nil {
		t.Fatalf("CreateFromSheetData error: %v", err)
	}
	want := `{"nodes":[{"id":"a","label":"<b>A</b>"},{"id":"b","label":"B"}],` +
		`"links":[{"source":"a","target":"b","stroke":"solid"}],"displayConfig":{"nodeRenderMode":"raw_html"}}`
	if got := marshal(t, res.Document); got != want {
		t.Errorf("document = %s, want %s", got, want)
	}

	doc, err := graphdata.Load(res.Document)
	if err != nil {
		t.Fatalf("imported document does not load: %v", err)
	}
	if doc.Nodes[1].Color != nil || doc.DisplayConfig.NodeRenderMode != graphdata.RenderModeRawHTML {
		t.Errorf("loaded = %+v", doc)
	}
}

func TestCreateFromSheetDataMissingColumn(t *testing.T) {
	tests := []struct {
		name         string
		nodes, links [][]any
	}{
		{"no label column", Transpose([][]any{{"id"}, {"a"}}), Transpose([][]any{{"source", "target"}})},
		{"no target column", Transpose([][]any{{"id", "label"}}), Transpose([][]any{{"source"}, {"a"}})},
		{"empty sheets", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CreateFromSheetData(tt.nodes, tt.links); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestConnect(t *testing.T) {
	res := CreateFromColumns(Columns{})
	Connect(res.Document, "sheet-42")

	doc, err := graphdata.Load(res.Document)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if id := doc.DataSource.ConnectedSpreadsheetID; id == nil || *id != "sheet-42" {
		t.Errorf("ConnectedSpreadsheetID = %v, want sheet-42", id)
	}
}

func TestReadCSV(t *testing.T) {
	in := "id,label,color\na,Alpha,red\nb,Beta\n"
	cols, err := ReadCSV(strings.NewReader(in), ',')
	if err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}
	want := [][]any{{"id", "a", "b"}, {"label", "Alpha", "Beta"}, {"color", "red"}}
	if !reflect.DeepEqual(cols, want) {
		t.Errorf("ReadCSV() = %v, want %v", cols, want)
	}

	if _, err := ReadCSV(strings.NewReader("a,\"b\n"), ','); err == nil {
		t.Error("ReadCSV() with unterminated quote should fail")
	}
}

func TestImportFiles(t *testing.T) {
	dir := t.TempDir()
	nodesPath := filepath.Join(dir, "nodes.tsv")
	linksPath := filepath.Join(dir, "links.csv")
	if err := os.WriteFile(nodesPath, []byte("id\tlabel\na\tA\nb\tB\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(linksPath, []byte("source,target,stroke\na,b,dashed\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := ImportFiles(nodesPath, linksPath)
	if err != nil {
		t.Fatalf("ImportFiles error: %v", err)
	}
	want := `{"nodes":[{"id":"a","label":"A"},{"id":"b","label":"B"}],"links":[{"source":"a","target":"b","stroke":"dashed"}]}`
	if got := marshal(t, res.Document); got != want {
		t.Errorf("document = %s, want %s", got, want)
	}

	if _, err := ImportFiles(filepath.Join(dir, "missing.csv"), linksPath); err == nil {
		t.Error("ImportFiles() with missing file should fail")
	}
}
