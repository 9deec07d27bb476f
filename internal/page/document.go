package page

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"scorecard/internal/roster"
	"scorecard/internal/scorecard"
)

// Document is the JSON form of a scorecard, served by the API and written
// by `render --format json`.
type Document struct {
	Name        string          `json:"name"`
	Title       string          `json:"title"`
	GeneratedAt time.Time       `json:"generated_at"`
	Columns     []roster.Column `json:"columns"`
	Facets      roster.Facets   `json:"facets"`
	Total       int             `json:"total"`
	Dropped     int             `json:"dropped"`
	Error       string          `json:"error,omitempty"`
	Query       scorecard.Query `json:"query"`
	Rows        []DocumentRow   `json:"rows"`
}

// DocumentRow is one row with every cell rendered.
type DocumentRow struct {
	roster.Row
	Cells []scorecard.Cell `json:"cells"`
}

// NewDocument builds the JSON document for rows of ds, typically the result
// of ds.Filter(q).
func NewDocument(ds *scorecard.Dataset, rows []roster.Row, q scorecard.Query, loadErr error) Document {
	doc := Document{
		Name:        ds.Card.Name,
		Title:       ds.Card.Title,
		GeneratedAt: ds.LoadedAt,
		Columns:     ds.Card.Layout.Columns,
		Facets:      ds.Facets,
		Total:       len(ds.Rows),
		Dropped:     ds.Dropped,
		Query:       q,
		Rows:        make([]DocumentRow, 0, len(rows)),
	}
	if loadErr != nil {
		doc.Error = loadErr.Error()
	}
	for _, r := range rows {
		doc.Rows = append(doc.Rows, DocumentRow{Row: r, Cells: ds.Cells(r)})
	}
	return doc
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
