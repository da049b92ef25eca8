package graphdata

import "github.com/matzehuels/graphit/pkg/jsonvalue"

// Layout and display constants.
const (
	LayoutForceSimulation = "force_simulation"

	RenderModeBasic   = "basic"
	RenderModeRawHTML = "raw_html"

	StrokeSolid  = "solid"
	StrokeDashed = "dashed"
)

// Default values of the document table.
const (
	DefaultLayoutType         = LayoutForceSimulation
	DefaultOriginPullStrength = 0.001
	DefaultParticleCharge     = 500
	DefaultChargeDistanceMax  = 300
	DefaultLinkDistance       = 100
	DefaultNodeRenderMode     = RenderModeBasic
	DefaultLinkStroke         = StrokeSolid
)

// IsLinkStroke reports whether s is a known link stroke.
func IsLinkStroke(s string) bool {
	return s == StrokeSolid || s == StrokeDashed
}

// Document is a fully defaulted graph document. Every field reachable from
// the default table is populated; nullable fields use nil for null.
type Document struct {
	Version       int           `json:"version"`
	Nodes         []Node        `json:"nodes"`
	Links         []Link        `json:"links"`
	ZoomState     ZoomState     `json:"zoomState"`
	LayoutState   LayoutState   `json:"layoutState"`
	DisplayConfig DisplayConfig `json:"displayConfig"`
	DataSource    DataSource    `json:"dataSource"`
}

// Node is a serialized graph node.
type Node struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Color    *string  `json:"color"`
	IsLocked bool     `json:"isLocked"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
}

// Link is a serialized edge between two node ids.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Stroke string `json:"stroke"`
}

// ZoomState is the viewport transform.
type ZoomState struct {
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	Scale   float64 `json:"scale"`
}

// LayoutState selects and tunes the layout algorithm.
type LayoutState struct {
	LayoutType            string                `json:"layoutType"`
	ForceSimulationConfig ForceSimulationConfig `json:"forceSimulationConfig"`
}

// ForceSimulationConfig holds the force-directed layout parameters.
type ForceSimulationConfig struct {
	OriginPullStrength float64 `json:"originPullStrength"`
	ParticleCharge     float64 `json:"particleCharge"`
	ChargeDistanceMax  float64 `json:"chargeDistanceMax"`
	LinkDistance       float64 `json:"linkDistance"`
}

// DisplayConfig controls how node labels are rendered.
type DisplayConfig struct {
	NodeRenderMode string `json:"nodeRenderMode"`
}

// DataSource points at the external spreadsheet a document was imported
// from, if any.
type DataSource struct {
	ConnectedSpreadsheetID *string `json:"connectedSpreadsheetId"`
}

// ToValue converts d to its JSON value form with every field present.
func (d *Document) ToValue() (*jsonvalue.Object, error) {
	out := *d
	if out.Nodes == nil {
		out.Nodes = []Node{}
	}
	if out.Links == nil {
		out.Links = []Link{}
	}
	v, err := jsonvalue.Encode(&out)
	if err != nil {
		return nil, err
	}
	return v.(*jsonvalue.Object), nil
}

// NodeByID returns the node with the given id.
func (d *Document) NodeByID(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
