package page

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"scorecard/internal/grade"
	"scorecard/internal/roster"
	"scorecard/internal/scorecard"

	"github.com/fatih/color"
)

var (
	colorGood  = color.New(color.FgGreen, color.Bold)
	colorFair  = color.New(color.FgYellow)
	colorBad   = color.New(color.FgRed, color.Bold)
	colorFaint = color.New(color.Faint)
	colorBold  = color.New(color.Bold)
)

// colorCell picks a color from where the rank falls in the vocabulary:
// the top third is good, the bottom third bad.
func colorCell(c scorecard.Cell, t *grade.Table) *color.Color {
	if c.Fragment == nil {
		return nil
	}
	if c.Fragment.NoRecord {
		return colorFaint
	}
	if c.Role == roster.RolePassFail {
		if c.SortKey == grade.PassRank {
			return colorGood
		}
		return colorBad
	}

	n := len(t.Grades())
	switch {
	case c.SortKey > n:
		return nil
	case c.SortKey*3 <= n:
		return colorGood
	case c.SortKey*3 > 2*n:
		return colorBad
	default:
		return colorFair
	}
}

// terminalText is the plain text a cell shows in the terminal.
func terminalText(c scorecard.Cell) string {
	if c.Fragment == nil {
		return c.Value
	}
	if c.Role == roster.RoleOverall && c.Fragment.Label != "" && !c.Fragment.NoRecord {
		return c.Fragment.Text + " " + c.Fragment.Label
	}
	return c.Fragment.Text
}

// WriteTable prints rows of ds as an aligned, colored table. The free-text
// reason column is left out.
func WriteTable(w io.Writer, ds *scorecard.Dataset, rows []roster.Row) error {
	var cols []int
	for i, c := range ds.Card.Layout.Columns {
		if c.Role != roster.RoleText {
			cols = append(cols, i)
		}
	}
	if len(cols) == 0 {
		return nil
	}

	widths := make([]int, len(cols))
	headers := make([]string, len(cols))
	for j, i := range cols {
		headers[j] = ds.Card.Layout.Columns[i].Title
		widths[j] = utf8.RuneCountInString(headers[j])
	}

	cells := make([][]scorecard.Cell, len(rows))
	for r, row := range rows {
		all := ds.Cells(row)
		cells[r] = make([]scorecard.Cell, len(cols))
		for j, i := range cols {
			cells[r][j] = all[i]
			if n := utf8.RuneCountInString(terminalText(all[i])); n > widths[j] {
				widths[j] = n
			}
		}
	}

	parts := make([]string, len(cols))
	for j, h := range headers {
		parts[j] = colorBold.Sprint(pad(h, widths[j]))
	}
	if _, err := fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  ")); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	for j, width := range widths {
		parts[j] = strings.Repeat("-", width)
	}
	if _, err := fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  ")); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	for _, row := range cells {
		for j, c := range row {
			// Pad on the raw text so color codes do not skew alignment.
			text := pad(terminalText(c), widths[j])
			if clr := colorCell(c, ds.Card.Table); clr != nil {
				text = clr.Sprint(text)
			}
			parts[j] = text
		}
		if _, err := fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  ")); err != nil {
			return fmt.Errorf("failed to write table: %w", err)
		}
	}

	if ds.Dropped > 0 {
		if _, err := fmt.Fprintf(w, "\n  %s\n", colorFaint.Sprintf("%d incomplete rows skipped", ds.Dropped)); err != nil {
			return fmt.Errorf("failed to write table: %w", err)
		}
	}
	return nil
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
