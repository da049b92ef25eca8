package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage documents in the configured store",
		Long: `Manage documents in the configured store.

The backend comes from the config file, GRAPHIT_STORE_BACKEND or --store.
Documents are validated before they are stored.`,
	}

	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storePutCommand())
	cmd.AddCommand(c.storeGetCommand())
	cmd.AddCommand(c.storeMergeCommand())
	cmd.AddCommand(c.storeSearchCommand())
	cmd.AddCommand(c.storeRemoveCommand())

	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored documents",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, closeStore, err := c.storedService(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			entries, err := svc.List(ctx)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No stored documents")
				printNextStep("Store one with", "graphit store put graph.json")
				return nil
			}

			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{e.ID, e.Name, formatRelativeTime(e.UpdatedAt)}
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("ID", "Name", "Updated").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == headerRow {
						return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
					}
					if col == 2 {
						return lipgloss.NewStyle().Foreground(colorDim)
					}
					return lipgloss.NewStyle()
				})
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

func (c *CLI) storePutCommand() *cobra.Command {
	var id, name string

	cmd := &cobra.Command{
		Use:   "put <file>",
		Short: "Store a document file",
		Long: `Store a document file.

Without --id a new document is created. With --id the stored document is
replaced, or created under that id if it does not exist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, closeStore, err := c.storedService(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			doc, err := loadDocument(ctx, svc, args[0])
			if err != nil {
				return err
			}
			if name != "" {
				doc.Name = name
			}
			entry, err := svc.Put(ctx, id, doc)
			if err != nil {
				return err
			}
			printSuccess("Stored %s", StyleValue.Render(entry.Name))
			printDetail("id: %s", entry.ID)
			fmt.Fprintln(cmd.OutOrStdout(), entry.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "document id (default: new id)")
	cmd.Flags().StringVar(&name, "name", "", "document name (default: file name)")
	return cmd
}

func (c *CLI) storeGetCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, closeStore, err := c.storedService(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			doc, _, err := svc.Open(ctx, args[0])
			if err != nil {
				return err
			}
			if err := writeDocument(cmd.OutOrStdout(), doc, format, output); err != nil {
				return err
			}
			if output != "" {
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, yaml (default from output extension)")
	return cmd
}

func (c *CLI) storeMergeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <id> <incoming>",
		Short: "Merge a document file into a stored document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, closeStore, err := c.storedService(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			incoming, err := readObject(args[1])
			if err != nil {
				return err
			}
			entry, err := svc.MergeStored(ctx, args[0], incoming)
			if err != nil {
				return err
			}
			printSuccess("Merged %s into %s", args[1], StyleValue.Render(entry.Name))
			return nil
		},
	}
}

func (c *CLI) storeSearchCommand() *cobra.Command {
	var opts searchOpts

	cmd := &cobra.Command{
		Use:   "search <id> <query>",
		Short: "Search node labels of a stored document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				opts.limit = c.Config.Search.Limit
			}
			ctx := cmd.Context()
			svc, closeStore, err := c.storedService(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			doc, _, err := svc.Open(ctx, args[0])
			if err != nil {
				return err
			}
			return printResults(cmd.OutOrStdout(), svc.Rank(ctx, doc, args[1], opts.limit), opts.jsonOut)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "maximum results, 0 for all (default from config)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print results as JSON")
	return cmd
}

func (c *CLI) storeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete stored documents",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, closeStore, err := c.storedService(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			for _, id := range args {
				if err := svc.Delete(ctx, id); err != nil {
					return err
				}
				printSuccess("Deleted %s", id)
			}
			return nil
		},
	}
}

// formatRelativeTime renders t relative to now, falling back to a date
// for anything older than a week.
func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Local().Format("Jan 2, 2006")
	}
}
