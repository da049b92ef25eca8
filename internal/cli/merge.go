package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

type mergeOpts struct {
	output string
	format string
}

// mergeCommand creates the merge command.
func (c *CLI) mergeCommand() *cobra.Command {
	var opts mergeOpts

	cmd := &cobra.Command{
		Use:   "merge <base> <incoming>",
		Short: "Merge an incoming document into a base document",
		Long: `Merge an incoming document into a base document.

Nodes and links are matched by identity (node id, link source and target).
Matched entries keep the base's fields and take the incoming values where
they are set. Entries missing from the incoming document are removed, new
ones are added. A collection absent from the incoming document is kept as
is. Settings objects are merged key by key.

The result is validated like any loaded document.`,
		Example: `  graphit merge graph.json import.json -o graph.json
  graphit merge graph.yaml - < update.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMerge(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: json, yaml (default from output extension)")

	return cmd
}

func (c *CLI) runMerge(ctx context.Context, w io.Writer, basePath, incomingPath string, opts mergeOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	svc := c.documentService()

	base, err := loadDocument(ctx, svc, basePath)
	if err != nil {
		return err
	}
	incoming, err := readObject(incomingPath)
	if err != nil {
		return err
	}
	merged, err := svc.Merge(ctx, base, incoming)
	if err != nil {
		return err
	}
	if err := writeDocument(w, merged, opts.format, opts.output); err != nil {
		return err
	}
	prog.done("Merged into %d nodes, %d links", len(merged.Nodes), len(merged.Links))
	if opts.output != "" {
		printFile(opts.output)
	}
	return nil
}
