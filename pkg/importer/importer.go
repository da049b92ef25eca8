package importer

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/matzehuels/graphit/pkg/errors"
	"github.com/matzehuels/graphit/pkg/graphdata"
	"github.com/matzehuels/graphit/pkg/jsonvalue"
)

// Sheet column names.
const (
	ColumnID    = "id"
	ColumnLabel = "label"
	ColumnColor = "color"

	ColumnSource = "source"
	ColumnTarget = "target"
	ColumnStroke = "stroke"
)

var looksLikeHTML = regexp.MustCompile(`<\s*/[^>]*>|<[^>]*/\s*>`)

// Columns holds the extracted sheet columns. A nil NodeColors or LinkStrokes
// means the sheet had no such column.
type Columns struct {
	NodeIDs    []string
	NodeLabels []string
	NodeColors []string

	LinkSourceIDs []string
	LinkTargetIDs []string
	LinkStrokes   []string
}

// Result is an imported document plus the problems that were skipped over.
type Result struct {
	Document *jsonvalue.Object
	Warnings []string
}

// =============================================================================
// Document Construction
// =============================================================================

// CreateFromSheetData extracts the well-known columns from column-major
// nodes and links sheet data and builds a document from them.
//
// A sheet missing a required column fails with INVALID_INPUT.
func CreateFromSheetData(nodesData, linksData [][]any) (*Result, error) {
	nodeCols, err := ExtractNamedColumns(nodesData, []string{ColumnID, ColumnLabel, ColumnColor})
	if err != nil {
		return nil, err
	}
	linkCols, err := ExtractNamedColumns(linksData, []string{ColumnSource, ColumnTarget, ColumnStroke})
	if err != nil {
		return nil, err
	}

	required := []struct {
		sheet, name string
		values      []string
	}{
		{"nodes", ColumnID, nodeCols[0]},
		{"nodes", ColumnLabel, nodeCols[1]},
		{"links", ColumnSource, linkCols[0]},
		{"links", ColumnTarget, linkCols[1]},
	}
	for _, r := range required {
		if r.values == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s sheet has no %q column", r.sheet, r.name)
		}
	}

	res := CreateFromColumns(Columns{
		NodeIDs:       nodeCols[0],
		NodeLabels:    nodeCols[1],
		NodeColors:    nodeCols[2],
		LinkSourceIDs: linkCols[0],
		LinkTargetIDs: linkCols[1],
		LinkStrokes:   linkCols[2],
	})

	nodes, _ := res.Document.GetArray("nodes")
	for _, n := range nodes {
		label, _ := n.(*jsonvalue.Object).GetString("label")
		if LooksLikeHTML(label) {
			res.Document.Set("displayConfig", jsonvalue.ObjectOf(
				"nodeRenderMode", jsonvalue.String(graphdata.RenderModeRawHTML),
			))
			break
		}
	}
	return res, nil
}

// CreateFromColumns builds a serialized document from column values.
//
// Rows with an empty id are skipped. A missing or empty label falls back to
// the id. With a color column, empty colors become null. Links with an empty
// endpoint are skipped, and unknown strokes are ignored in favor of the
// default stroke. Every skipped value is reported as a warning.
func CreateFromColumns(cols Columns) *Result {
	res := &Result{}

	nodes := jsonvalue.Array{}
	for i, id := range cols.NodeIDs {
		if id == "" {
			res.warnf("nodes row %d: empty id, skipped", i+1)
			continue
		}
		label := nth(cols.NodeLabels, i)
		// Blank cells fall back too, not only rows past the end of the column.
		if label == "" {
			label = id
		}
		node := jsonvalue.ObjectOf("id", jsonvalue.String(id), "label", jsonvalue.String(label))
		if cols.NodeColors != nil {
			if color := nth(cols.NodeColors, i); color != "" {
				node.Set("color", jsonvalue.String(color))
			} else {
				node.Set("color", jsonvalue.Null{})
			}
		}
		nodes = append(nodes, node)
	}

	links := jsonvalue.Array{}
	for i, source := range cols.LinkSourceIDs {
		target := nth(cols.LinkTargetIDs, i)
		if source == "" || target == "" {
			res.warnf("links row %d: missing source or target, skipped", i+1)
			continue
		}
		stroke := graphdata.DefaultLinkStroke
		if s := nth(cols.LinkStrokes, i); s != "" {
			if graphdata.IsLinkStroke(s) {
				stroke = s
			} else {
				res.warnf("links row %d: unknown stroke %q, using %q", i+1, s, stroke)
			}
		}
		links = append(links, jsonvalue.ObjectOf(
			"source", jsonvalue.String(source),
			"target", jsonvalue.String(target),
			"stroke", jsonvalue.String(stroke),
		))
	}

	res.Document = jsonvalue.ObjectOf("nodes", nodes, "links", links)
	return res
}

// Connect records sheetID as the document's data source.
func Connect(doc *jsonvalue.Object, sheetID string) {
	doc.Set("dataSource", jsonvalue.ObjectOf("connectedSpreadsheetId", jsonvalue.String(sheetID)))
}

// LooksLikeHTML reports whether s contains a closing or self-closing tag.
// A lone "<" or ">" is not enough.
func LooksLikeHTML(s string) bool {
	return looksLikeHTML.MatchString(s)
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func nth(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// =============================================================================
// Column Extraction
// =============================================================================

// ExtractNamedColumns finds the columns whose header matches each of names
// and returns their values as strings, header excluded, with trailing empty
// cells trimmed. The result has one entry per name, nil where no column
// matched. If two columns share a header the later one wins.
//
// Requesting the same name twice fails with INVALID_INPUT.
func ExtractNamedColumns(data [][]any, names []string) ([][]string, error) {
	wanted := make(map[string]int, len(names))
	for i, name := range names {
		if _, dup := wanted[name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate column name: %s", name)
		}
		wanted[name] = i
	}

	found := make([]int, len(names))
	for i := range found {
		found[i] = -1
	}
	for src, column := range data {
		if len(column) == 0 {
			continue
		}
		if i, ok := wanted[CellString(column[0])]; ok {
			found[i] = src
		}
	}

	out := make([][]string, len(names))
	for i, src := range found {
		if src >= 0 {
			out[i] = columnValues(data[src])
		}
	}
	return out, nil
}

func columnValues(column []any) []string {
	if len(column) < 2 {
		return []string{}
	}
	values := make([]string, len(column)-1)
	for i, cell := range column[1:] {
		values[i] = CellString(cell)
	}
	end := len(values)
	for end > 0 && values[end-1] == "" {
		end--
	}
	return values[:end]
}

// CellString renders a sheet cell as text. Nil cells are empty.
func CellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case jsonvalue.String:
		return string(v)
	case jsonvalue.Number:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case jsonvalue.Null:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
