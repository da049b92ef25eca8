package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphit/pkg/codec"
	"github.com/matzehuels/graphit/pkg/document"
	"github.com/matzehuels/graphit/pkg/render/nodelink"
)

// Export formats beyond the document codecs.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
)

var exportFormats = []string{codec.FormatJSON, codec.FormatYAML, formatDOT, formatSVG, formatPDF, formatPNG}

type exportOpts struct {
	output    string
	format    string
	positions bool
	showIDs   bool
	scale     float64
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{scale: 2}

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write a document as JSON, YAML, DOT or an image",
		Long: `Write a document as JSON, YAML, DOT or an image.

JSON and YAML output is the saved document, upgraded and with defaults
filled in. DOT, SVG, PDF and PNG draw the graph with Graphviz: node colors
become fill colors, locked nodes get a heavier border and dashed links
stay dashed. PDF and PNG need rsvg-convert on PATH.

The format defaults to the output file's extension.`,
		Example: `  graphit export graph.json -o graph.svg
  graphit export graph.json -f dot --positions | neato -Tpng > graph.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := exportFormat(opts.format, opts.output)
			if err != nil {
				return err
			}
			opts.format = format
			return c.runExport(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "format: "+strings.Join(exportFormats, ", "))
	cmd.Flags().BoolVar(&opts.positions, "positions", false, "pin nodes at their saved positions")
	cmd.Flags().BoolVar(&opts.showIDs, "ids", false, "show node ids under labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

// exportFormat resolves the output format from the flag or the output
// extension, defaulting to JSON.
func exportFormat(flag, output string) (string, error) {
	format := strings.ToLower(flag)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	switch format {
	case "":
		return codec.FormatJSON, nil
	case "yml":
		return codec.FormatYAML, nil
	case "gv":
		return formatDOT, nil
	}
	for _, f := range exportFormats {
		if f == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("unsupported export format %q (want one of %s)", format, strings.Join(exportFormats, ", "))
}

func (c *CLI) runExport(ctx context.Context, w io.Writer, path string, opts exportOpts) error {
	doc, err := loadDocument(ctx, c.documentService(), path)
	if err != nil {
		return err
	}

	switch opts.format {
	case codec.FormatJSON, codec.FormatYAML:
		if err := writeDocument(w, doc, opts.format, opts.output); err != nil {
			return err
		}
	default:
		data, err := renderGraph(ctx, doc, opts)
		if err != nil {
			return err
		}
		out, err := openOutput(w, opts.output)
		if err != nil {
			return err
		}
		defer out.Close()
		if _, err := out.Write(data); err != nil {
			return err
		}
	}
	if opts.output != "" {
		printFile(opts.output)
	}
	return nil
}

// renderGraph draws doc in one of the Graphviz formats.
func renderGraph(ctx context.Context, doc *document.GraphDocument, opts exportOpts) ([]byte, error) {
	dot := nodelink.ToDOT(doc, nodelink.Options{ShowIDs: opts.showIDs, UsePositions: opts.positions})
	if opts.format == formatDOT {
		return []byte(dot), nil
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s", strings.ToUpper(opts.format)))
	spinner.Start()
	defer spinner.Stop()

	switch opts.format {
	case formatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case formatPDF:
		return nodelink.RenderPDF(ctx, dot)
	case formatPNG:
		return nodelink.RenderPNG(ctx, dot, opts.scale)
	default:
		return nil, fmt.Errorf("unsupported render format %q", opts.format)
	}
}
