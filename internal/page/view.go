package page

import (
	"html/template"
	"time"

	"scorecard/internal/grade"
	"scorecard/internal/roster"
	"scorecard/internal/scorecard"
)

// Column is one table header.
type Column struct {
	Key    string
	Title  string
	Role   roster.Role
	Graded bool
}

// Cell is a rendered table cell. Graded cells carry markup and a numeric
// sort key; the rest are plain text.
type Cell struct {
	scorecard.Cell
	Markup template.HTML
}

// Row is one table row plus the content of its detail view.
type Row struct {
	ID     string
	Cells  []Cell
	Detail scorecard.Detail
}

// View is everything the page template needs.
type View struct {
	Name        string
	Title       string
	Columns     []Column
	Rows        []Row
	Facets      roster.Facets
	Grades      []string
	SortIndex   int
	PartyIndex  int
	GradeIndex  int
	Dropped     int
	Error       string
	GeneratedAt time.Time
}

// NewView builds the page model for rows of ds. loadErr, if any, is shown
// above the (then empty) table.
func NewView(ds *scorecard.Dataset, rows []roster.Row, loadErr error) View {
	layout := ds.Card.Layout
	v := View{
		Name:        ds.Card.Name,
		Title:       ds.Card.Title,
		Columns:     make([]Column, len(layout.Columns)),
		Rows:        make([]Row, 0, len(rows)),
		Facets:      ds.Facets,
		Grades:      append(ds.Card.Table.Grades(), grade.NoRecord),
		SortIndex:   layout.Key(ds.Card.SortColumn),
		PartyIndex:  layout.Index(roster.RolePartyState),
		GradeIndex:  layout.Index(roster.RoleOverall),
		Dropped:     ds.Dropped,
		GeneratedAt: ds.LoadedAt,
	}
	if loadErr != nil {
		v.Error = loadErr.Error()
	}

	for i, c := range layout.Columns {
		v.Columns[i] = Column{Key: c.Key, Title: c.Title, Role: c.Role, Graded: c.Role.GradeBearing()}
	}

	for _, r := range rows {
		det, _ := ds.Detail(r.ID)
		row := Row{ID: r.ID, Detail: det}
		for _, c := range ds.Cells(r) {
			row.Cells = append(row.Cells, newCell(c))
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

func newCell(c scorecard.Cell) Cell {
	cell := Cell{Cell: c}
	if c.Fragment != nil {
		cell.Markup = c.Fragment.HTML()
	}
	return cell
}

// DetailCells returns the detail view's graded cells with markup.
func (r Row) DetailCells() []Cell {
	cells := make([]Cell, len(r.Detail.Grades))
	for i, c := range r.Detail.Grades {
		cells[i] = newCell(c)
	}
	return cells
}

// OverallCell returns the rendered overall cell, or nil when the layout has none.
func (r Row) OverallCell() *Cell {
	if r.Detail.Overall == nil {
		return nil
	}
	c := newCell(*r.Detail.Overall)
	return &c
}
