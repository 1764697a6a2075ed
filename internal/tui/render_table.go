package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"

	"opsdash/internal/panel"
	"opsdash/internal/tui/styles"
)

// buildTable constructs a scrollable table for a table payload.
// Columns keep their declared order; widths are split evenly across
// the available width with a small floor so narrow terminals stay
// readable.
func buildTable(p *panel.TablePayload, width, height int, focused bool) table.Model {
	colWidth := 12
	if len(p.Columns) > 0 {
		colWidth = (width / len(p.Columns)) - 2
		if colWidth < 6 {
			colWidth = 6
		}
	}

	cols := make([]table.Column, len(p.Columns))
	for i, c := range p.Columns {
		name := c.Display
		if name == "" {
			name = c.Name
		}
		cols[i] = table.Column{Title: name, Width: colWidth}
	}

	rows := make([]table.Row, len(p.Rows))
	for i, raw := range p.Rows {
		row := make(table.Row, len(p.Columns))
		for j, c := range p.Columns {
			row[j] = formatCell(raw[c.Name], c.Format)
		}
		rows[i] = row
	}

	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(focused),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = styles.TableHeader
	s.Cell = styles.TableCell
	s.Selected = styles.TableSelectedRow
	if !focused {
		s.Selected = styles.TableCell
	}
	t.SetStyles(s)

	return t
}

// tableFooter renders the pagination and sort status line under a
// table. Pagination is server-authoritative: the footer reports the
// server's page numbers, never a locally computed count.
func tableFooter(p *panel.TablePayload) string {
	parts := ""
	if pg := p.Pagination; pg != nil {
		parts = fmt.Sprintf("page %d/%d · %d rows", pg.CurrentPage, pg.TotalPages, pg.TotalRows)
	}
	if s := p.Sort; s != nil && s.Column != "" {
		label := fmt.Sprintf("sort: %s %s", displayName(p, s.Column), s.Order)
		if parts != "" {
			parts += " · "
		}
		parts += label
	}
	if parts == "" {
		return ""
	}
	return styles.MutedText.Render(parts)
}

// displayName resolves a column's display title from its wire name.
func displayName(p *panel.TablePayload, column string) string {
	for _, c := range p.Columns {
		if c.Name == column {
			if c.Display != "" {
				return c.Display
			}
			break
		}
	}
	return column
}

// nextSort cycles a column through ascending, descending, and
// unsorted. Selecting a different column starts at ascending.
func nextSort(current *panel.Sort, column string) *panel.Sort {
	if current == nil || current.Column != column {
		return &panel.Sort{Column: column, Order: "asc"}
	}
	switch current.Order {
	case "asc":
		return &panel.Sort{Column: column, Order: "desc"}
	case "desc":
		return nil
	}
	return &panel.Sort{Column: column, Order: "asc"}
}
