// Package nodelink renders graph documents as node-link diagrams.
//
// # Usage
//
// Convert a document to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Layout
//
// By default the diagram is laid out top to bottom by Graphviz dot, which
// ignores saved node positions. With [Options].UsePositions the neato engine
// is used instead and every placed node is pinned at its saved coordinates,
// so the export matches what the editor shows.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
