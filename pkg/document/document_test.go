package document

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/graphdata"
	"github.com/matzehuels/graphit/pkg/jsonvalue"
)

const basicJSON = `{
	"nodes": [
		{"id": "a", "label": "node a"},
		{"id": "b", "label": "node b"},
		{"id": "c", "label": "node c"}
	],
	"links": [
		{"source": "a", "target": "b"}
	]
}`

func mustLoad(t *testing.T, s, name string) *GraphDocument {
	t.Helper()
	doc, err := Load([]byte(s), name)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return doc
}

func mustObject(t *testing.T, s string) *jsonvalue.Object {
	t.Helper()
	o, err := jsonvalue.ParseObject([]byte(s))
	if err != nil {
		t.Fatalf("ParseObject(%q) error: %v", s, err)
	}
	return o
}

func nodeIDs(doc *GraphDocument) []string {
	ids := make([]string, len(doc.Nodes))
	for i, n := range doc.Nodes {
		ids[i] = n.ID
	}
	return ids
}

func TestEmpty(t *testing.T) {
	doc := Empty()

	if doc.Name != DefaultName {
		t.Errorf("Name = %q, want %q", doc.Name, DefaultName)
	}
	if len(doc.Nodes) != 0 || len(doc.Links) != 0 {
		t.Errorf("nodes/links = %d/%d, want 0/0", len(doc.Nodes), len(doc.Links))
	}
	if doc.LayoutState().LayoutType != graphdata.DefaultLayoutType {
		t.Errorf("LayoutType = %q, want %q", doc.LayoutState().LayoutType, graphdata.DefaultLayoutType)
	}
	if doc.LayoutState().ForceSimulationConfig.ParticleCharge != graphdata.DefaultParticleCharge {
		t.Errorf("ParticleCharge = %v, want %v", doc.LayoutState().ForceSimulationConfig.ParticleCharge, graphdata.DefaultParticleCharge)
	}
	if doc.ZoomState().Scale != 1 {
		t.Errorf("Scale = %v, want 1", doc.ZoomState().Scale)
	}
}

func TestLoadBasicData(t *testing.T) {
	doc := mustLoad(t, basicJSON, "")

	if len(doc.Nodes) != 3 {
		t.Fatalf("len(Nodes) = %d, want 3", len(doc.Nodes))
	}
	if doc.Nodes[0].ID != "a" || doc.Nodes[2].Label != "node c" {
		t.Errorf("Nodes = %v", nodeIDs(doc))
	}
	if doc.Nodes[0].IsLocked {
		t.Error("Nodes[0].IsLocked = true, want false")
	}
	if len(doc.Links) != 1 {
		t.Fatalf("len(Links) = %d, want 1", len(doc.Links))
	}
	if doc.Links[0].Source != doc.Nodes[0] || doc.Links[0].Target != doc.Nodes[1] {
		t.Error("link endpoints should be the live node pointers")
	}
	if doc.Links[0].Stroke != graphdata.StrokeSolid {
		t.Errorf("Stroke = %q, want %q", doc.Links[0].Stroke, graphdata.StrokeSolid)
	}
	if doc.Name != DefaultName {
		t.Errorf("Name = %q, want %q", doc.Name, DefaultName)
	}
}

func TestLoadName(t *testing.T) {
	if doc := mustLoad(t, `{}`, "my name"); doc.Name != "my name" {
		t.Errorf("Name = %q, want %q", doc.Name, "my name")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"not json", `{nope`, errors.ErrCodeInvalidInput},
		{"unsupported version", `{"version":0}`, errors.ErrCodeUnsupportedVersion},
		{"missing label", `{"nodes":[{"id":"a"}]}`, errors.ErrCodeValidation},
		{"dangling source", `{"nodes":[{"id":"a","label":"a"}],"links":[{"source":"x","target":"a"}]}`, errors.ErrCodeDanglingReference},
		{"dangling target", `{"nodes":[{"id":"a","label":"a"}],"links":[{"source":"a","target":"x"}]}`, errors.ErrCodeDanglingReference},
		{"duplicate node", `{"nodes":[{"id":"a","label":"a"},{"id":"a","label":"b"}]}`, errors.ErrCodeDuplicateKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Load([]byte(tt.input), "")
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
			if doc != nil {
				t.Error("Load() returned a document on error")
			}
		})
	}
}

func TestLockedNodesArePinned(t *testing.T) {
	doc := mustLoad(t, `{"nodes":[{"id":"a","label":"a","isLocked":true,"x":10,"y":20},{"id":"b","label":"b","x":1}]}`, "")

	a := doc.Nodes[0]
	if a.FX == nil || *a.FX != 10 || a.FY == nil || *a.FY != 20 {
		t.Errorf("locked node pin = (%v, %v), want (10, 20)", a.FX, a.FY)
	}
	if a.FX == a.X {
		t.Error("pin should not alias the position")
	}

	b := doc.Nodes[1]
	if b.FX != nil || b.FY != nil {
		t.Error("unlocked node should not be pinned")
	}
	if b.Y != nil {
		t.Errorf("Y = %v, want nil for null y", *b.Y)
	}
}

func TestClone(t *testing.T) {
	doc := mustLoad(t, basicJSON, "named doc")
	clone, err := doc.Clone()
	if err != nil {
		t.Fatalf("Clone error: %v", err)
	}

	if clone.Name != doc.Name {
		t.Errorf("Name = %q, want %q", clone.Name, doc.Name)
	}
	if len(clone.Nodes) != len(doc.Nodes) || len(clone.Links) != len(doc.Links) {
		t.Fatalf("clone sizes differ")
	}
	if clone.Nodes[0] == doc.Nodes[0] || clone.Links[0] == doc.Links[0] {
		t.Error("clone shares node or link identity")
	}
	if clone.Links[0].Source != clone.Nodes[0] || clone.Links[0].Target != clone.Nodes[1] {
		t.Error("clone links should point at clone nodes")
	}
	if clone.Links[0].Source == doc.Nodes[0] {
		t.Error("clone link points at original node")
	}
}

func TestSaveCopiesSimulationState(t *testing.T) {
	doc := mustLoad(t, basicJSON, "")
	doc.Nodes[0].MoveTo(1.5, -2)
	doc.Nodes[1].Lock()

	reloaded := mustLoadSaved(t, doc)
	a := reloaded.Nodes[0]
	if a.X == nil || *a.X != 1.5 || a.Y == nil || *a.Y != -2 {
		t.Errorf("position = (%v, %v), want (1.5, -2)", a.X, a.Y)
	}
	if !reloaded.Nodes[1].IsLocked {
		t.Error("lock state was not saved")
	}
	if reloaded.Nodes[2].X != nil {
		t.Error("unplaced node gained a position")
	}
}

func mustLoadSaved(t *testing.T, doc *GraphDocument) *GraphDocument {
	t.Helper()
	data, err := doc.Save()
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	return mustLoad(t, string(data), doc.Name)
}

func TestSaveFormat(t *testing.T) {
	doc := mustLoad(t, `{"nodes":[{"id":"a","label":"<b>a</b>","color":null,"x":null}]}`, "")
	data, err := doc.Save()
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	out := string(data)

	if !strings.HasPrefix(out, "{\n  \"version\": 1,\n  \"nodes\": [") {
		t.Errorf("Save() not pretty printed:\n%s", out)
	}
	for _, key := range []string{`"color"`, `"x"`, `"y"`} {
		if strings.Contains(out, key) {
			t.Errorf("Save() should omit null %s:\n%s", key, out)
		}
	}
	if !strings.Contains(out, `"isLocked": false`) {
		t.Errorf("Save() should keep isLocked:\n%s", out)
	}
	if !strings.Contains(out, `"label": "<b>a</b>"`) {
		t.Errorf("Save() should not escape markup:\n%s", out)
	}
	if !strings.Contains(out, `"connectedSpreadsheetId": null`) {
		t.Errorf("Save() should keep dataSource nulls:\n%s", out)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		`{}`,
		basicJSON,
		`{"nodes":[{"id":"a","label":"a","color":"#f00","isLocked":true,"x":3,"y":4},{"id":"b","label":"b"}],
		  "links":[{"source":"a","target":"b","stroke":"dashed"},{"source":"b","target":"a"}],
		  "zoomState":{"centerX":5,"centerY":6,"scale":2},
		  "layoutState":{"forceSimulationConfig":{"linkDistance":50}},
		  "displayConfig":{"nodeRenderMode":"raw_html"},
		  "dataSource":{"connectedSpreadsheetId":"sheet-1"}}`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			data, err := graphdata.Load(mustObject(t, input))
			if err != nil {
				t.Fatalf("graphdata.Load error: %v", err)
			}
			want, err := graphdata.Load(mustObject(t, input))
			if err != nil {
				t.Fatalf("graphdata.Load error: %v", err)
			}

			doc, err := FromDocument(data)
			if err != nil {
				t.Fatalf("FromDocument error: %v", err)
			}
			got := mustLoadSaved(t, doc).data
			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip = %+v, want %+v", got, want)
			}
		})
	}
}

func TestExplicitNullColorRoundTripsToDefault(t *testing.T) {
	// Save drops null color; the reload gets the default, which is also null.
	doc := mustLoad(t, `{"nodes":[{"id":"a","label":"a","color":null}]}`, "")
	reloaded := mustLoadSaved(t, doc)
	if reloaded.Nodes[0].Color != nil {
		t.Errorf("Color = %v, want nil", *reloaded.Nodes[0].Color)
	}
}

func TestAccessors(t *testing.T) {
	doc := mustLoad(t, `{"zoomState":{"centerX":1,"centerY":2,"scale":3},"dataSource":{"connectedSpreadsheetId":"abc"}}`, "")

	if z := doc.ZoomState(); z.CenterX != 1 || z.CenterY != 2 || z.Scale != 3 {
		t.Errorf("ZoomState() = %+v", z)
	}
	if doc.DisplayConfig().NodeRenderMode != graphdata.RenderModeBasic {
		t.Errorf("DisplayConfig() = %+v", doc.DisplayConfig())
	}
	ds := doc.DataSource()
	if ds.ConnectedSpreadsheetID == nil || *ds.ConnectedSpreadsheetID != "abc" {
		t.Fatalf("DataSource() = %+v", ds)
	}
	*ds.ConnectedSpreadsheetID = "changed"
	if *doc.DataSource().ConnectedSpreadsheetID != "abc" {
		t.Error("DataSource() exposes internal state")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	doc := mustLoad(t, basicJSON, "")
	doc.Nodes[0].MoveTo(7, 8)

	snap, err := doc.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if snap.Nodes[0].X == nil || *snap.Nodes[0].X != 7 {
		t.Errorf("snapshot X = %v, want 7", snap.Nodes[0].X)
	}
	snap.Nodes[0].Label = "mutated"
	if doc.Nodes[0].Label != "node a" {
		t.Error("mutating snapshot changed the document")
	}
}

func TestCopyDataFromSimulationDetectsMismatch(t *testing.T) {
	doc := mustLoad(t, basicJSON, "")
	doc.Nodes[0], doc.Nodes[1] = doc.Nodes[1], doc.Nodes[0]

	if _, err := doc.Save(); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Save() error = %v, want INTERNAL_ERROR", err)
	}

	doc = mustLoad(t, basicJSON, "")
	doc.Nodes = append(doc.Nodes, &Node{ID: "extra"})
	if _, err := doc.Save(); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Save() error = %v, want INTERNAL_ERROR", err)
	}
}

func TestNodeSearchHelper(t *testing.T) {
	doc := mustLoad(t, `{"nodes":[{"id":"1","label":"fou"},{"id":"2","label":"bar"},{"id":"3","label":"foo"}]}`, "")

	helper := doc.NodeSearchHelper()
	if helper != doc.NodeSearchHelper() {
		t.Error("NodeSearchHelper() should be built once")
	}

	got := helper.Search("foo")
	if len(got) != 2 || got[0].ID != "3" || got[1].ID != "1" {
		t.Errorf("Search(foo) = %v", got)
	}
	if got[0] != doc.Nodes[2] {
		t.Error("search should return live nodes")
	}

	clone, err := doc.Clone()
	if err != nil {
		t.Fatalf("Clone error: %v", err)
	}
	if clone.searchBuilt {
		t.Error("a new document should start without a search index")
	}
}

func TestNodeByID(t *testing.T) {
	doc := mustLoad(t, basicJSON, "")
	if n, ok := doc.NodeByID("b"); !ok || n != doc.Nodes[1] {
		t.Errorf("NodeByID(b) = %v, %v", n, ok)
	}
	if _, ok := doc.NodeByID("missing"); ok {
		t.Error("NodeByID(missing) found a node")
	}
}

func TestNodeLockUnlock(t *testing.T) {
	n := &Node{ID: "a"}
	n.MoveTo(1, 2)
	n.Lock()
	if !n.IsLocked || *n.FX != 1 || *n.FY != 2 {
		t.Errorf("Lock() = %+v", n)
	}
	n.MoveTo(3, 4)
	if *n.FX != 3 {
		t.Errorf("locked MoveTo FX = %v, want 3", *n.FX)
	}
	n.Unlock()
	if n.IsLocked || n.FX != nil || n.FY != nil {
		t.Errorf("Unlock() = %+v", n)
	}
}
