// Package render provides format conversion for rendered graph documents.
//
// # Overview
//
// Diagrams are produced as SVG by the [nodelink] subpackage. The [ToPDF] and
// [ToPNG] functions convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg).
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/matzehuels/graphit/pkg/render/nodelink
package render
