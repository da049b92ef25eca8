// Package importer builds graph documents from spreadsheet-style tables.
//
// A graph spreadsheet has two sheets. The nodes sheet has a header row with
// an "id" and a "label" column and optionally a "color" column. The links
// sheet has "source" and "target" columns and optionally a "stroke" column.
// Column order does not matter and unknown columns are ignored.
//
// Sheet data is handled column-major, the way spreadsheet APIs return it:
// each inner slice is one column, and its first cell is the header.
// [ReadCSV] reads a row-major CSV file and transposes it.
//
// # Import Pipeline
//
//	nodes, _ := importer.ReadCSV(nodesFile, ',')
//	links, _ := importer.ReadCSV(linksFile, ',')
//	res, err := importer.CreateFromSheetData(nodes, links)
//	// res.Document is a serialized document without defaults;
//	// pass it to graphdata.Load or merge it into an existing document.
//
// The result is deliberately partial. Positions and lock state never come
// from a spreadsheet, so merging an import into an existing document keeps
// the layout of nodes that are still present.
//
// # HTML Labels
//
// If any label looks like HTML markup (see [LooksLikeHTML]), the result sets
// displayConfig.nodeRenderMode to "raw_html".
package importer
