package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphit/pkg/document"
	"github.com/matzehuels/graphit/pkg/search"
)

type searchOpts struct {
	limit       int
	interactive bool
	jsonOut     bool
}

// searchHit is the --json form of a search result.
type searchHit struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	var opts searchOpts

	cmd := &cobra.Command{
		Use:   "search <file> [query]",
		Short: "Search node labels",
		Long: `Search node labels.

Every query word must match a word of the label, either as a prefix or as
a close fuzzy match. Results are ranked best first.

With --interactive the query can be refined as you type.`,
		Example: `  graphit search graph.json "billing work"
  graphit search graph.json -i`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				opts.limit = c.Config.Search.Limit
			}
			query := ""
			if len(args) == 2 {
				query = args[1]
			}
			if query == "" && !opts.interactive {
				return fmt.Errorf("a query is required unless --interactive is set")
			}
			return c.runSearch(cmd.Context(), cmd.OutOrStdout(), args[0], query, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "maximum results, 0 for all (default from config)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "search as you type")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print results as JSON")

	return cmd
}

func (c *CLI) runSearch(ctx context.Context, w io.Writer, path, query string, opts searchOpts) error {
	svc := c.documentService()
	doc, err := loadDocument(ctx, svc, path)
	if err != nil {
		return err
	}

	if opts.interactive {
		return runInteractiveSearch(w, doc, query, opts.limit)
	}

	results := svc.Rank(ctx, doc, query, opts.limit)
	return printResults(w, results, opts.jsonOut)
}

func printResults(w io.Writer, results []search.Result[*document.Node], jsonOut bool) error {
	if jsonOut {
		hits := make([]searchHit, len(results))
		for i, r := range results {
			hits[i] = searchHit{ID: r.Item.ID, Label: r.Item.Label, Score: r.Score}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}
	if len(results) == 0 {
		printInfo("No matching nodes")
		return nil
	}
	fmt.Fprintln(w, resultsTable(results, -1).Render())
	return nil
}

func runInteractiveSearch(w io.Writer, doc *document.GraphDocument, query string, limit int) error {
	final, err := tea.NewProgram(NewSearchModel(doc, query, limit)).Run()
	if err != nil {
		return fmt.Errorf("interactive search: %w", err)
	}
	m, ok := final.(SearchModel)
	if !ok || m.Selected == nil {
		return nil
	}
	printNode(w, m.Selected)
	return nil
}

// printNode writes the details of a selected node.
func printNode(w io.Writer, n *document.Node) {
	fmt.Fprintln(w, StyleTitle.Render(n.Label))
	printKeyValue(w, "ID", n.ID)
	if n.Color != nil {
		printKeyValue(w, "Color", *n.Color)
	}
	if n.X != nil && n.Y != nil {
		printKeyValue(w, "Position", fmt.Sprintf("%g, %g", *n.X, *n.Y))
	}
	if n.IsLocked {
		printKeyValue(w, "Locked", "yes")
	}
	if words := search.Tokenize(n.Label); len(words) > 1 {
		printKeyValue(w, "Words", strings.Join(words, ", "))
	}
}
