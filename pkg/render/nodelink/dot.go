package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphit/pkg/document"
	"github.com/matzehuels/graphit/pkg/graphdata"
	"github.com/matzehuels/graphit/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// ShowIDs appends the node id under each label.
	ShowIDs bool

	// UsePositions pins placed nodes at their saved x/y coordinates and lays
	// out the rest with neato. When false, dot computes a layered layout.
	UsePositions bool
}

// ToDOT converts a graph document to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Node colors become fill colors, locked nodes get a bold outline and dashed
// links a dashed edge. Labels of raw_html documents are reduced to their text.
func ToDOT(doc *document.GraphDocument, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.UsePositions {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  overlap=false;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	rawHTML := doc.DisplayConfig().NodeRenderMode == graphdata.RenderModeRawHTML
	for _, n := range doc.Nodes {
		label := fmtLabel(n, rawHTML, opts.ShowIDs)
		attrs := fmtAttrs(n, label, opts.UsePositions)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range doc.Links {
		if l.Stroke == graphdata.StrokeDashed {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", l.Source.ID, l.Target.ID)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", l.Source.ID, l.Target.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

func fmtLabel(n *document.Node, rawHTML, showID bool) string {
	label := n.Label
	if rawHTML {
		label = strings.TrimSpace(html.UnescapeString(tagRe.ReplaceAllString(label, " ")))
		label = strings.Join(strings.Fields(label), " ")
	}
	if showID && label != n.ID {
		return label + "\n" + n.ID
	}
	return label
}

func fmtAttrs(n *document.Node, label string, usePositions bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Color != nil && *n.Color != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", *n.Color))
	}
	if n.IsLocked {
		attrs = append(attrs, "penwidth=2")
	}
	if usePositions && n.X != nil && n.Y != nil {
		// Graphviz y grows upwards.
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(*n.X), fmtFloat(-*n.Y)))
	}
	return attrs
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
