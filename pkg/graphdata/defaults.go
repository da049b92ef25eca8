package graphdata

import "github.com/matzehuels/graphit/pkg/jsonvalue"

// LatestVersion is the version every loaded document is upgraded to.
const LatestVersion = 1

// Defaults returns the canonical default table for documents. A fresh table
// is built on every call so callers may not corrupt it.
//
// Required fields (node id and label, link source and target) have no
// default; validation enforces them instead.
func Defaults() *jsonvalue.Object {
	return jsonvalue.ObjectOf(
		"version", jsonvalue.Number(LatestVersion),
		"nodes", jsonvalue.Array{jsonvalue.ObjectOf(
			"color", jsonvalue.Null{},
			"isLocked", jsonvalue.Bool(false),
			"x", jsonvalue.Null{},
			"y", jsonvalue.Null{},
		)},
		"links", jsonvalue.Array{jsonvalue.ObjectOf(
			"stroke", jsonvalue.String(DefaultLinkStroke),
		)},
		"zoomState", jsonvalue.ObjectOf(
			"centerX", jsonvalue.Number(0),
			"centerY", jsonvalue.Number(0),
			"scale", jsonvalue.Number(1),
		),
		"layoutState", jsonvalue.ObjectOf(
			"layoutType", jsonvalue.String(DefaultLayoutType),
			"forceSimulationConfig", jsonvalue.ObjectOf(
				"originPullStrength", jsonvalue.Number(DefaultOriginPullStrength),
				"particleCharge", jsonvalue.Number(DefaultParticleCharge),
				"chargeDistanceMax", jsonvalue.Number(DefaultChargeDistanceMax),
				"linkDistance", jsonvalue.Number(DefaultLinkDistance),
			),
		),
		"displayConfig", jsonvalue.ObjectOf(
			"nodeRenderMode", jsonvalue.String(DefaultNodeRenderMode),
		),
		"dataSource", jsonvalue.ObjectOf(
			"connectedSpreadsheetId", jsonvalue.Null{},
		),
	)
}
