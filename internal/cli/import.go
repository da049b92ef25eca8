package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphit/internal/watcher"
	"github.com/matzehuels/graphit/pkg/document"
	"github.com/matzehuels/graphit/pkg/importer"
)

type importOpts struct {
	nodes   string
	links   string
	into    string
	connect string
	output  string
	format  string
}

func (o *importOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.nodes, "nodes", "", "nodes sheet (CSV, or TSV by extension)")
	cmd.Flags().StringVar(&o.links, "links", "", "links sheet (CSV, or TSV by extension)")
	cmd.Flags().StringVar(&o.into, "into", "", "merge the import into this document")
	cmd.Flags().StringVar(&o.connect, "connect", "", "record a spreadsheet id as the data source")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "output format: json, yaml (default from output extension)")
	_ = cmd.MarkFlagRequired("nodes")
	_ = cmd.MarkFlagRequired("links")
}

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var opts importOpts

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Build a document from node and link sheets",
		Long: `Build a document from node and link sheets.

Sheets have a header row. The nodes sheet needs "id" and "label" columns
and may have a "color" column; the links sheet needs "source" and "target"
and may have "stroke". Rows with an empty id or endpoint are skipped with
a warning. Labels containing HTML tags switch the document to raw HTML
rendering.

With --into the import is merged into an existing document, keeping the
positions and locks of nodes that are still present.`,
		Example: `  graphit import --nodes nodes.csv --links links.csv -o graph.json
  graphit import --nodes nodes.tsv --links links.tsv --into graph.json -o graph.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.runImport(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return c.writeImport(cmd.OutOrStdout(), doc, opts)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

// runImport reads the sheets and loads or merges the result.
func (c *CLI) runImport(ctx context.Context, opts importOpts) (*document.GraphDocument, error) {
	prog := newProgress(loggerFromContext(ctx))
	svc := c.documentService()

	res, err := importer.ImportFiles(opts.nodes, opts.links)
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		printWarning("%s", w)
	}
	if opts.connect != "" {
		importer.Connect(res.Document, opts.connect)
	}

	var doc *document.GraphDocument
	if opts.into != "" {
		base, err := loadDocument(ctx, svc, opts.into)
		if err != nil {
			return nil, err
		}
		if doc, err = svc.Merge(ctx, base, res.Document); err != nil {
			return nil, fmt.Errorf("merge into %s: %w", opts.into, err)
		}
	} else {
		if doc, err = svc.Load(ctx, res.Document, documentName(opts.nodes)); err != nil {
			return nil, err
		}
	}
	prog.done("Imported %s", formatStats(len(doc.Nodes), len(doc.Links), countLocked(doc)))
	return doc, nil
}

func (c *CLI) writeImport(w io.Writer, doc *document.GraphDocument, opts importOpts) error {
	if err := writeDocument(w, doc, opts.format, opts.output); err != nil {
		return err
	}
	if opts.output != "" {
		printFile(opts.output)
	}
	return nil
}

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var opts importOpts

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-import sheets whenever they change",
		Long: `Re-import sheets whenever they change.

Runs an import once, then again after each change to the nodes or links
sheet. With --into, each import is merged into the current output so
positions survive across edits of the sheets.`,
		Example: `  graphit watch --nodes nodes.csv --links links.csv --into graph.json -o graph.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output == "" {
				return fmt.Errorf("watch needs --output")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return c.runWatch(ctx, cmd.OutOrStdout(), opts)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func (c *CLI) runWatch(ctx context.Context, w io.Writer, opts importOpts) error {
	logger := loggerFromContext(ctx)

	rebuild := func() {
		doc, err := c.runImport(ctx, opts)
		if err != nil {
			printError("import failed: %v", err)
			return
		}
		if err := c.writeImport(w, doc, opts); err != nil {
			printError("write %s: %v", opts.output, err)
			return
		}
		if opts.into != "" {
			// Later imports build on the previous result.
			opts.into = opts.output
		}
	}
	rebuild()

	printInfo("Watching %s and %s", opts.nodes, opts.links)
	err := watcher.New([]string{opts.nodes, opts.links}, func(changed []string) {
		logger.Info("sheets changed", "files", changed)
		rebuild()
	}).WithLogger(logger).Watch(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}
