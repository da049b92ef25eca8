package document

import (
	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/graphdata"
	"github.com/matzehuels/graphit/pkg/jsonvalue"
	"github.com/matzehuels/graphit/pkg/search"
)

// DefaultName is used when a document is loaded without a name.
const DefaultName = "Untitled"

// GraphDocument is a named document with a live node/link graph.
type GraphDocument struct {
	Name  string
	Nodes []*Node
	Links []*Link

	data *graphdata.Document

	searchIndex *search.Index[*Node]
	searchBuilt bool
}

// =============================================================================
// Construction
// =============================================================================

// Empty returns the document loaded from "{}".
func Empty() *GraphDocument {
	doc, err := Load([]byte("{}"), "")
	if err != nil {
		// "{}" always loads.
		panic(err)
	}
	return doc
}

// Load parses jsonText, validates and defaults it, and builds the live
// graph. An empty name becomes [DefaultName].
//
// Unparseable text fails with INVALID_INPUT. Loader failures keep their
// codes (VALIDATION_ERROR, UNSUPPORTED_VERSION). Links naming a missing node
// fail with DANGLING_REFERENCE.
func Load(jsonText []byte, name string) (*GraphDocument, error) {
	v, err := jsonvalue.Parse(jsonText)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse document")
	}
	return LoadValue(v, name)
}

// LoadValue is like [Load] for an already parsed value.
func LoadValue(v jsonvalue.Value, name string) (*GraphDocument, error) {
	data, err := graphdata.Load(v)
	if err != nil {
		return nil, err
	}
	return New(name, data)
}

// FromDocument builds a GraphDocument with the default name.
func FromDocument(data *graphdata.Document) (*GraphDocument, error) {
	return New("", data)
}

// New builds the live graph for data. The GraphDocument takes ownership of
// data; callers must not modify it afterwards.
//
// Repeated node ids fail with DUPLICATE_KEY and unresolved link endpoints
// with DANGLING_REFERENCE.
func New(name string, data *graphdata.Document) (*GraphDocument, error) {
	if name == "" {
		name = DefaultName
	}
	g := &GraphDocument{
		Name:  name,
		Nodes: make([]*Node, 0, len(data.Nodes)),
		Links: make([]*Link, 0, len(data.Links)),
		data:  data,
	}

	byID := make(map[string]*Node, len(data.Nodes))
	for i, sn := range data.Nodes {
		if _, dup := byID[sn.ID]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateKey, "duplicate node id %q", sn.ID).
				WithField(fieldIndex("nodes", i, "id"))
		}
		n := &Node{
			ID:       sn.ID,
			Label:    sn.Label,
			Color:    copyString(sn.Color),
			IsLocked: sn.IsLocked,
			X:        copyFloat(sn.X),
			Y:        copyFloat(sn.Y),
		}
		if n.IsLocked {
			n.FX = copyFloat(n.X)
			n.FY = copyFloat(n.Y)
		}
		byID[n.ID] = n
		g.Nodes = append(g.Nodes, n)
	}

	for i, sl := range data.Links {
		source, ok := byID[sl.Source]
		if !ok {
			return nil, errors.New(errors.ErrCodeDanglingReference, "link source %q is not a node", sl.Source).
				WithField(fieldIndex("links", i, "source"))
		}
		target, ok := byID[sl.Target]
		if !ok {
			return nil, errors.New(errors.ErrCodeDanglingReference, "link target %q is not a node", sl.Target).
				WithField(fieldIndex("links", i, "target"))
		}
		g.Links = append(g.Links, &Link{Source: source, Target: target, Stroke: sl.Stroke})
	}
	return g, nil
}

// =============================================================================
// Accessors
// =============================================================================

// LayoutState returns the document layout configuration.
func (g *GraphDocument) LayoutState() graphdata.LayoutState { return g.data.LayoutState }

// ZoomState returns the saved viewport.
func (g *GraphDocument) ZoomState() graphdata.ZoomState { return g.data.ZoomState }

// DisplayConfig returns the label rendering configuration.
func (g *GraphDocument) DisplayConfig() graphdata.DisplayConfig { return g.data.DisplayConfig }

// DataSource returns the external data source pointer.
func (g *GraphDocument) DataSource() graphdata.DataSource {
	return graphdata.DataSource{ConnectedSpreadsheetID: copyString(g.data.DataSource.ConnectedSpreadsheetID)}
}

// NodeByID returns the live node with the given id.
func (g *GraphDocument) NodeByID(id string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// NodeSearchHelper returns the fuzzy label index over Nodes, building it on
// first use.
func (g *GraphDocument) NodeSearchHelper() *search.Index[*Node] {
	if !g.searchBuilt {
		g.searchIndex = search.New(g.Nodes, func(n *Node) string { return n.Label })
		g.searchBuilt = true
	}
	return g.searchIndex
}

// =============================================================================
// Serialization
// =============================================================================

// Snapshot synchronizes the live graph and returns an independent copy of
// the serializable document.
func (g *GraphDocument) Snapshot() (*graphdata.Document, error) {
	data, err := g.saveSGD()
	if err != nil {
		return nil, err
	}
	v, err := data.ToValue()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return graphdata.ApplyDefaults(v)
}

// SaveValue synchronizes the live graph and returns the wire form. Null
// node color, x and y are omitted.
func (g *GraphDocument) SaveValue() (*jsonvalue.Object, error) {
	data, err := g.saveSGD()
	if err != nil {
		return nil, err
	}
	v, err := data.ToValue()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	nodes, _ := v.GetArray("nodes")
	for _, n := range nodes {
		obj, ok := n.(*jsonvalue.Object)
		if !ok {
			continue
		}
		for _, key := range []string{"color", "x", "y"} {
			if _, isNull := obj.Get(key).(jsonvalue.Null); isNull {
				obj.Delete(key)
			}
		}
	}
	return v, nil
}

// Save returns the document as JSON indented with two spaces.
//
// Nodes with null color, x or y are written without those keys, so a
// reload yields the defaults for them rather than explicit nulls.
func (g *GraphDocument) Save() ([]byte, error) {
	v, err := g.SaveValue()
	if err != nil {
		return nil, err
	}
	return jsonvalue.MarshalIndent(v, "", "  ")
}

// Clone returns an independent copy made by saving and reloading.
func (g *GraphDocument) Clone() (*GraphDocument, error) {
	data, err := g.Save()
	if err != nil {
		return nil, err
	}
	return Load(data, g.Name)
}

// saveSGD synchronizes the live graph into the serializable document and
// returns it.
func (g *GraphDocument) saveSGD() (*graphdata.Document, error) {
	if err := g.copyDataFromSimulation(); err != nil {
		return nil, err
	}
	return g.data, nil
}

// copyDataFromSimulation writes live lock and position state back into the
// serializable nodes, and live link endpoints into the serializable links.
func (g *GraphDocument) copyDataFromSimulation() error {
	if len(g.Nodes) != len(g.data.Nodes) || len(g.Links) != len(g.data.Links) {
		return errors.New(errors.ErrCodeInternal, "live graph has %d nodes and %d links, document has %d and %d",
			len(g.Nodes), len(g.Links), len(g.data.Nodes), len(g.data.Links))
	}
	for i, n := range g.Nodes {
		sn := &g.data.Nodes[i]
		if n.ID != sn.ID {
			return errors.New(errors.ErrCodeInternal, "ids don't match: live %q, document %q", n.ID, sn.ID).
				WithField(fieldIndex("nodes", i, "id"))
		}
		sn.IsLocked = n.IsLocked
		sn.X = copyFloat(n.X)
		sn.Y = copyFloat(n.Y)
	}
	for i, l := range g.Links {
		sl := &g.data.Links[i]
		sl.Source = l.Source.ID
		sl.Target = l.Target.ID
	}
	return nil
}
