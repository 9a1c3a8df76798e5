package pivot

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pkg/errors"
)

var ErrMalformedGrid = errors.New("malformed pivot grid")

// Grid is a pivot table read back from its delimited text form.
type Grid struct {
	// Corner is the first field of the header row.
	Corner string
	// Groups are the spanning header cells: the shown teams followed by the
	// sprint totals block.
	Groups []string
	// Span is the number of columns each group spans.
	Span int
	// Rows are every row after the first, trailing empty field removed. The
	// first of them holds the metric names.
	Rows [][]string
}

// Parse reads a grid the way a schema-less consumer does: rows split on
// newlines, fields on the delimiter, and the group span inferred from the run
// of empty fields following the first group.
func Parse(text string) (*Grid, error) {
	if text == "" {
		return nil, errors.Wrap(ErrMalformedGrid, "empty input")
	}

	lines := strings.Split(text, "\n")
	header := strings.Split(lines[0], Delimiter)
	if len(header) < 2 || header[len(header)-1] != "" {
		return nil, errors.Wrapf(ErrMalformedGrid, "header row %q", lines[0])
	}
	// the last field is the empty remainder after the trailing delimiter
	fields := header[:len(header)-1]

	span := 1
	for i := 2; i < len(fields) && fields[i] == ""; i++ {
		span++
	}

	grid := &Grid{
		Corner: fields[0],
		Span:   span,
	}
	for i := 1; i < len(fields); i += span {
		grid.Groups = append(grid.Groups, fields[i])
	}

	for _, line := range lines[1:] {
		row := strings.Split(line, Delimiter)
		if len(row) < 2 || row[len(row)-1] != "" {
			return nil, errors.Wrapf(ErrMalformedGrid, "row %q", line)
		}
		grid.Rows = append(grid.Rows, row[:len(row)-1])
	}

	return grid, nil
}

// String serializes the grid back to its delimited text form.
func (g *Grid) String() string {
	var sb strings.Builder
	padding := strings.Repeat(Delimiter, g.Span-1)

	sb.WriteString(g.Corner + Delimiter)
	for _, group := range g.Groups {
		sb.WriteString(group + Delimiter + padding)
	}

	for _, row := range g.Rows {
		sb.WriteString("\n")
		for _, field := range row {
			sb.WriteString(field + Delimiter)
		}
	}

	return sb.String()
}

func (g *Grid) writer() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault

	header := table.Row{g.Corner}
	for _, group := range g.Groups {
		for i := 0; i < g.Span; i++ {
			header = append(header, group)
		}
	}
	tw.AppendHeader(header, table.RowConfig{AutoMerge: true})

	for i, fields := range g.Rows {
		row := make(table.Row, 0, len(fields))
		for _, f := range fields {
			row = append(row, f)
		}
		switch {
		case i == 0:
			tw.AppendHeader(row)
		case i == len(g.Rows)-1:
			tw.AppendFooter(row)
		default:
			tw.AppendRow(row)
		}
	}

	return tw
}

// Pretty renders the grid as a box drawn text table with merged group
// headers.
func (g *Grid) Pretty() string {
	return g.writer().Render()
}

// HTML renders the grid as an HTML table with group headers spanning their
// metric columns.
func (g *Grid) HTML() string {
	return g.writer().RenderHTML()
}
