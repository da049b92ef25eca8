package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/graphit/pkg/document"
	"github.com/matzehuels/graphit/pkg/search"
)

// headerRow is the row index lipgloss tables pass for the header.
const headerRow = -1

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listPromptStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
)

// =============================================================================
// SearchModel - Interactive node search
// =============================================================================

// SearchModel is the bubbletea model for searching node labels as you type.
type SearchModel struct {
	Index    *search.Index[*document.Node]
	Query    string
	Limit    int
	Results  []search.Result[*document.Node]
	Cursor   int
	Selected *document.Node
}

// NewSearchModel creates a search model over doc's nodes, starting from
// query. limit caps the shown results; zero or less shows all.
func NewSearchModel(doc *document.GraphDocument, query string, limit int) SearchModel {
	m := SearchModel{Index: doc.NodeSearchHelper(), Limit: limit}
	return m.setQuery(query)
}

func (m SearchModel) setQuery(q string) SearchModel {
	m.Query = q
	m.Results = m.Index.Rank(q)
	if m.Limit > 0 && len(m.Results) > m.Limit {
		m.Results = m.Results[:m.Limit]
	}
	if m.Cursor >= len(m.Results) {
		m.Cursor = max(len(m.Results)-1, 0)
	}
	return m
}

func (m SearchModel) Init() tea.Cmd {
	return nil
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyUp:
		if m.Cursor > 0 {
			m.Cursor--
		}
	case tea.KeyDown:
		if m.Cursor < len(m.Results)-1 {
			m.Cursor++
		}
	case tea.KeyEnter:
		if len(m.Results) > 0 {
			m.Selected = m.Results[m.Cursor].Item
			return m, tea.Quit
		}
	case tea.KeyBackspace:
		if r := []rune(m.Query); len(r) > 0 {
			return m.setQuery(string(r[:len(r)-1])), nil
		}
	case tea.KeySpace:
		return m.setQuery(m.Query + " "), nil
	case tea.KeyRunes:
		return m.setQuery(m.Query + string(key.Runes)), nil
	}
	return m, nil
}

func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Search Nodes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to search  ↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n\n")
	b.WriteString(listPromptStyle.Render("> ") + m.Query)
	b.WriteString("\n\n")

	if len(m.Results) == 0 {
		if strings.TrimSpace(m.Query) != "" {
			b.WriteString(listDimStyle.Render("  no matches"))
		}
		return b.String()
	}

	b.WriteString(resultsTable(m.Results, m.Cursor).Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d of %d nodes]", m.Cursor+1, len(m.Results), m.Index.Len())))
	return b.String()
}

// resultsTable renders ranked nodes. cursor marks the current row; a
// negative cursor marks none.
func resultsTable(results []search.Result[*document.Node], cursor int) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(results))
	for i, r := range results {
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		locked := ""
		if r.Item.IsLocked {
			locked = iconLocked
		}
		rows[i] = []string{marker, r.Item.ID, r.Item.Label, locked, fmt.Sprintf("%.3f", r.Score)}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Label", "", "Score").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return headerStyle
			case row == cursor:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case col == 4:
				return lipgloss.NewStyle().Foreground(colorDim)
			default:
				return lipgloss.NewStyle()
			}
		})
}
