package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphit/pkg/document"
	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/graphdata"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check that documents load",
		Long: `Check that documents load.

Each file is validated against its version's schema, upgraded to the
latest version and checked for dangling links and duplicate node ids.
Failures are reported with their error code and field path.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args)
		},
	}
}

func (c *CLI) runValidate(ctx context.Context, paths []string) error {
	svc := c.documentService()
	failed := 0
	for _, path := range paths {
		doc, err := loadDocument(ctx, svc, path)
		if err != nil {
			failed++
			printError("%s", path)
			printDetail("%s: %s", codeOf(err), errors.UserMessage(err))
			continue
		}
		printSuccess("%s  %s", path, formatStats(len(doc.Nodes), len(doc.Links), countLocked(doc)))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents invalid", failed, len(paths))
	}
	return nil
}

// infoCommand creates the info command.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Summarize a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd.Context(), c.documentService(), args[0])
			if err != nil {
				return err
			}
			printInfoTable(cmd.OutOrStdout(), doc)
			return nil
		},
	}
}

func printInfoTable(w io.Writer, doc *document.GraphDocument) {
	layout := doc.LayoutState()
	zoom := doc.ZoomState()
	force := layout.ForceSimulationConfig

	fmt.Fprintln(w, StyleTitle.Render(doc.Name))
	printKeyValue(w, "Version", strconv.Itoa(graphdata.LatestVersion))
	printKeyValue(w, "Graph", formatStats(len(doc.Nodes), len(doc.Links), countLocked(doc)))
	printKeyValue(w, "Render mode", doc.DisplayConfig().NodeRenderMode)
	printKeyValue(w, "Layout", layout.LayoutType)
	printKeyValue(w, "Forces", fmt.Sprintf("pull %g · charge %g · max %g · link %g",
		force.OriginPullStrength, force.ParticleCharge, force.ChargeDistanceMax, force.LinkDistance))
	printKeyValue(w, "Zoom", fmt.Sprintf("%g at (%g, %g)", zoom.Scale, zoom.CenterX, zoom.CenterY))
	if id := doc.DataSource().ConnectedSpreadsheetID; id != nil {
		printKeyValue(w, "Spreadsheet", *id)
	}
	if unplaced := countUnplaced(doc); unplaced > 0 {
		printKeyValue(w, "Unplaced", plural(unplaced, "node"))
	}
}

func countLocked(doc *document.GraphDocument) int {
	n := 0
	for _, node := range doc.Nodes {
		if node.IsLocked {
			n++
		}
	}
	return n
}

func countUnplaced(doc *document.GraphDocument) int {
	n := 0
	for _, node := range doc.Nodes {
		if node.X == nil || node.Y == nil {
			n++
		}
	}
	return n
}

func codeOf(err error) string {
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "ERROR"
}
