// Package pkg provides the core libraries for graphit, a data layer for
// graph editor documents.
//
// # Overview
//
// A graph document is a JSON object holding nodes, links and editor state
// (zoom, layout forces, render mode, data source). Documents are versioned;
// every load validates the input against its version's schema, upgrades it
// to the latest version and fills in defaults. The pkg directory is
// organized by concern:
//
//  1. [jsonvalue] - Ordered JSON values that keep object key order
//  2. [defaults] - Fill missing fields from a defaults table
//  3. [graphdata] - The versioned wire format, schema validation and loading
//  4. [merge] - Deep merge with identity matching for arrays
//  5. [document] - The live GraphDocument: load, save, clone, merge
//  6. [search] - Fuzzy word search over node labels
//
// Supporting packages:
//
//   - [codec]: JSON and YAML encodings of documents
//   - [importer]: build documents from spreadsheet columns and CSV files
//   - [store]: persist documents (file, memory, SQLite, Redis, MongoDB)
//   - [render] and [render/nodelink]: Graphviz DOT, SVG, PDF and PNG output
//   - [observability]: hooks for metrics and logging
//   - [errors]: coded errors with field paths
//
// # Data Flow
//
//	JSON/YAML text
//	     ↓
//	[codec] (decode to ordered values)
//	     ↓
//	[graphdata] (validate, upgrade, apply defaults)
//	     ↓
//	[document] (live nodes and links, search index)
//	     ↓
//	[document] Merge / Save, [render/nodelink], [store]
//
// # Quick Start
//
//	doc, err := document.Load(data, "My graph")
//	if err != nil {
//	    return err // coded: VALIDATION_ERROR, DANGLING_REFERENCE, ...
//	}
//
//	merged, err := doc.Merge(incoming) // incoming is a *jsonvalue.Object
//	hits := merged.NodeSearchHelper().SearchLimit("billing", 10)
//	out, err := merged.Save()
//
// [jsonvalue]: https://pkg.go.dev/github.com/matzehuels/graphit/pkg/jsonvalue
// [defaults]: https://pkg.go.dev/github.com/matzehuels/graphit/pkg/defaults
// [graphdata]: https://pkg.go.dev/github.com/matzehuels/graphit/pkg/graphdata
// [merge]: https://pkg.go.dev/github.com/matzehuels/graphit/pkg/merge
// [document]: https://pkg.go.dev/github.com/matzehuels/graphit/pkg/document
// [search]: https://pkg.go.dev/github.com/matzehuels/graphit/pkg/search
// [codec]: https://pkg.go.dev/github.com/matzehuels/graphit/pkg/codec
// [importer]: https://pkg.go.dev/github.com/matzehuels/graphit/pkg/importer
// [store]: https://pkg.go.dev/github.com/matzehuels/graphit/pkg/store
// [render]: https://pkg.go.dev/github.com/matzehuels/graphit/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/graphit/pkg/render/nodelink
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphit/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphit/pkg/errors
package pkg
