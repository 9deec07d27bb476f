package scorecard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"scorecard/internal/config"
	"scorecard/internal/grade"
	"scorecard/internal/roster"
	"scorecard/internal/source"

	"github.com/rs/zerolog/log"
)

// Dataset is one loaded scorecard. It is never modified after Load returns.
type Dataset struct {
	Card     config.Scorecard
	Rows     []roster.Row
	Facets   roster.Facets
	Dropped  int
	LoadedAt time.Time

	index map[string]int
}

// Cell is one field of a row with its sort key and, for grade-bearing
// columns, its rendered fragment.
type Cell struct {
	Key      string          `json:"key"`
	Title    string          `json:"title"`
	Role     roster.Role     `json:"role"`
	Value    string          `json:"value"`
	SortKey  int             `json:"sort_key"`
	Fragment *grade.Fragment `json:"fragment,omitempty"`
}

// Detail is everything the detail view shows for one row.
type Detail struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PartyState string `json:"party_state"`
	Party      string `json:"party"`
	State      string `json:"state"`
	Reason     string `json:"reason"`
	Grades     []Cell `json:"grades"`
	Overall    *Cell  `json:"overall,omitempty"`
}

// Load fetches and normalizes one scorecard. A failed fetch is logged and
// yields an empty dataset together with the error, so callers can still
// render the page.
func Load(ctx context.Context, card config.Scorecard, fetcher source.Fetcher) (*Dataset, error) {
	normalizer, err := roster.NewNormalizer(card.Layout)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare scorecard %s: %w", card.Name, err)
	}

	start := time.Now()
	payload, err := fetcher.Fetch(ctx)
	if err != nil {
		log.Error().Err(err).Str("scorecard", card.Name).Msg("Failed to fetch scorecard sheet")
		return newDataset(card, roster.Result{}), fmt.Errorf("failed to fetch scorecard %s: %w", card.Name, err)
	}

	records := payload.Records
	if !payload.Parsed() {
		records = roster.ParseCSV(payload.Text)
	}
	res := normalizer.NormalizeAll(records)
	ds := newDataset(card, res)

	log.Info().
		Str("scorecard", card.Name).
		Int("rows", len(ds.Rows)).
		Int("dropped", ds.Dropped).
		Dur("elapsed", time.Since(start)).
		Msg("Loaded scorecard")
	return ds, nil
}

// FromRecords builds a dataset from records that are already in memory.
func FromRecords(card config.Scorecard, records [][]string) (*Dataset, error) {
	normalizer, err := roster.NewNormalizer(card.Layout)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare scorecard %s: %w", card.Name, err)
	}
	return newDataset(card, normalizer.NormalizeAll(records)), nil
}

func newDataset(card config.Scorecard, res roster.Result) *Dataset {
	if card.Table == nil {
		card.Table = grade.Standard
	}
	ds := &Dataset{
		Card:     card,
		Rows:     res.Rows,
		Facets:   roster.FacetsOf(res.Rows),
		Dropped:  res.Dropped,
		LoadedAt: time.Now(),
		index:    make(map[string]int, len(res.Rows)),
	}
	if ds.Rows == nil {
		ds.Rows = []roster.Row{}
	}
	for i, r := range ds.Rows {
		ds.index[r.ID] = i
	}
	return ds
}

// Cells renders every field of r in layout order.
func (d *Dataset) Cells(r roster.Row) []Cell {
	cells := make([]Cell, len(d.Card.Layout.Columns))
	for i, c := range d.Card.Layout.Columns {
		cells[i] = d.cell(c, r.Field(i))
	}
	return cells
}

func (d *Dataset) cell(c roster.Column, v string) Cell {
	cell := Cell{Key: c.Key, Title: c.Title, Role: c.Role, Value: v, SortKey: d.sortKey(c.Role, v)}
	var f grade.Fragment
	switch c.Role {
	case roster.RoleGrade:
		f = grade.Render(v)
	case roster.RolePassFail:
		f = grade.RenderPassFail(v)
	case roster.RoleOverall:
		f = d.Card.Table.RenderOverall(v)
	default:
		return cell
	}
	cell.Fragment = &f
	return cell
}

// sortKey is the numeric order of a grade-bearing value; other roles sort
// as 0.
func (d *Dataset) sortKey(role roster.Role, v string) int {
	switch role {
	case roster.RoleGrade, roster.RoleOverall:
		return d.Card.Table.Rank(v)
	case roster.RolePassFail:
		return grade.PassFailRank(v)
	}
	return 0
}

// Detail looks up one row by ID.
func (d *Dataset) Detail(id string) (Detail, bool) {
	i, ok := d.index[id]
	if !ok {
		return Detail{}, false
	}
	r := d.Rows[i]
	det := Detail{
		ID:         r.ID,
		Name:       r.Name,
		PartyState: r.PartyState,
		Party:      r.Party,
		State:      r.State,
		Reason:     r.Reason,
		Grades:     []Cell{},
	}
	for _, c := range d.Cells(r) {
		switch c.Role {
		case roster.RoleOverall:
			det.Overall = &c
		case roster.RoleGrade, roster.RolePassFail:
			det.Grades = append(det.Grades, c)
		}
	}
	return det, true
}

// Ordered returns the rows sorted by the scorecard's default sort column,
// best first, or in sheet order when it has none.
func (d *Dataset) Ordered() []roster.Row {
	return d.SortBy(d.Card.SortColumn)
}

// SortBy returns a copy of the rows stably sorted on the column with the
// given key. Unknown keys keep sheet order.
func (d *Dataset) SortBy(key string) []roster.Row {
	rows := make([]roster.Row, len(d.Rows))
	copy(rows, d.Rows)

	i := d.Card.Layout.Key(key)
	if i < 0 {
		return rows
	}
	role := d.Card.Layout.Columns[i].Role
	if !role.GradeBearing() {
		sort.SliceStable(rows, func(a, b int) bool { return rows[a].Field(i) < rows[b].Field(i) })
		return rows
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return d.sortKey(role, rows[a].Field(i)) < d.sortKey(role, rows[b].Field(i))
	})
	return rows
}
