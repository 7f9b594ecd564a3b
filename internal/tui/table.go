package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	columnGap   = "  "
	ellipsis    = "…"
	minColWidth = 4
)

// Table renders rows in columns sized to their widest cell. Widths are
// measured in terminal cells, so wide runes in scenario names line up.
type Table struct {
	headers  []string
	styles   *TableStyles
	maxWidth int
}

// NewTable creates a table with the given headers.
func NewTable(headers []string, styles *TableStyles) *Table {
	if styles == nil {
		styles = NewTableStyles()
	}
	return &Table{headers: headers, styles: styles}
}

// WithMaxWidth caps the rendered line width. The widest column is
// truncated until the line fits. Zero disables the cap.
func (t *Table) WithMaxWidth(width int) *Table {
	t.maxWidth = width
	return t
}

// Widths returns the column widths Render would use for rows.
func (t *Table) Widths(rows [][]string) []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	if t.maxWidth <= 0 {
		return widths
	}
	for lineWidth(widths) > t.maxWidth {
		widest := 0
		for i := range widths {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minColWidth {
			break
		}
		widths[widest]--
	}
	return widths
}

// Render writes the header and rows to w.
func (t *Table) Render(w io.Writer, rows [][]string) {
	if len(t.headers) == 0 {
		return
	}
	widths := t.Widths(rows)

	parts := make([]string, len(t.headers))
	for i, h := range t.headers {
		parts[i] = t.styles.Header.Render(fit(h, widths[i]))
	}
	_, _ = fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, columnGap), " "))

	for _, row := range rows {
		for i := range t.headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			style, _ := t.styles.StatusStyle(cell)
			parts[i] = style.Render(fit(cell, widths[i]))
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, columnGap), " "))
	}
}

// fit truncates s to width cells and pads it on the right.
func fit(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, ellipsis)
	}
	return runewidth.FillRight(s, width)
}

func lineWidth(widths []int) int {
	total := 0
	for i, w := range widths {
		if i > 0 {
			total += len(columnGap)
		}
		total += w
	}
	return total
}
