package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/graphit/pkg/document"
)

func load(t *testing.T, s string) *document.GraphDocument {
	t.Helper()
	doc, err := document.Load([]byte(s), "")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return doc
}

func TestToDOT(t *testing.T) {
	doc := load(t, `{"nodes":[{"id":"a","label":"Alpha","color":"#ff0000","isLocked":true,"x":1,"y":2},{"id":"b","label":"Beta"}],
		"links":[{"source":"a","target":"b"},{"source":"b","target":"a","stroke":"dashed"}]}`)

	dot := ToDOT(doc, Options{})

	tests := []struct {
		name string
		want string
	}{
		{"header", "digraph G {"},
		{"layered", "rankdir=TB;"},
		{"colored node", `"a" [label="Alpha", fillcolor="#ff0000", penwidth=2];`},
		{"plain node", `"b" [label="Beta"];`},
		{"solid edge", `"a" -> "b";`},
		{"dashed edge", `"b" -> "a" [style=dashed];`},
	}
	for _, tt := range tests {
		if !strings.Contains(dot, tt.want) {
			t.Errorf("%s: DOT missing %q:\n%s", tt.name, tt.want, dot)
		}
	}
	if strings.Contains(dot, "pos=") {
		t.Errorf("positions emitted without UsePositions:\n%s", dot)
	}
}

func TestToDOTPositions(t *testing.T) {
	doc := load(t, `{"nodes":[{"id":"a","label":"A","x":1.5,"y":2},{"id":"b","label":"B"}]}`)

	dot := ToDOT(doc, Options{UsePositions: true, ShowIDs: true})
	if !strings.Contains(dot, "layout=neato;") {
		t.Errorf("DOT missing neato layout:\n%s", dot)
	}
	if !strings.Contains(dot, `pos="1.5,-2!"`) {
		t.Errorf("DOT missing pinned position:\n%s", dot)
	}
	if strings.Count(dot, "pos=") != 1 {
		t.Errorf("unplaced node should not be pinned:\n%s", dot)
	}
	if !strings.Contains(dot, `label="A\na"`) {
		t.Errorf("DOT missing id line:\n%s", dot)
	}
}

func TestFmtLabelRawHTML(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"<b>bold</b> text", "bold text"},
		{"two<br/>lines", "two lines"},
		{"fish &amp; chips", "fish & chips"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		n := &document.Node{ID: "x", Label: tt.label}
		if got := fmtLabel(n, true, false); got != tt.want {
			t.Errorf("fmtLabel(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}

	n := &document.Node{ID: "x", Label: "<b>kept</b>"}
	if got := fmtLabel(n, false, false); got != "<b>kept</b>" {
		t.Errorf("basic mode label = %q, want unchanged", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() without viewBox = %s", got)
	}
}
