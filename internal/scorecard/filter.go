package scorecard

import (
	"strings"

	"scorecard/internal/roster"
)

// Query narrows a dataset the way the page's search box and dropdowns do.
// Empty fields match everything.
type Query struct {
	// Q is a case-insensitive substring of the name, party/state or reason.
	Q string `json:"q,omitempty"`
	// Party matches the start of the party/state value ("D" matches "D / DE").
	Party string `json:"party,omitempty"`
	// State matches the state segment exactly.
	State string `json:"state,omitempty"`
	// Grade matches the start of the overall grade, so "A" also matches A+ and A-.
	Grade string `json:"grade,omitempty"`
}

func (q Query) IsZero() bool {
	return q == Query{}
}

// Match reports whether r satisfies every set field of q.
func (q Query) Match(layout roster.Layout, r roster.Row) bool {
	if s := strings.TrimSpace(q.Q); s != "" {
		needle := strings.ToLower(s)
		if !containsFold(r.Name, needle) && !containsFold(r.PartyState, needle) && !containsFold(r.Reason, needle) {
			return false
		}
	}
	if p := strings.TrimSpace(q.Party); p != "" && !hasPrefixFold(r.PartyState, p) {
		return false
	}
	if s := strings.TrimSpace(q.State); s != "" && !strings.EqualFold(r.State, s) {
		return false
	}
	if g := strings.TrimSpace(q.Grade); g != "" {
		i := layout.Index(roster.RoleOverall)
		if i < 0 || !hasPrefixFold(r.Field(i), g) {
			return false
		}
	}
	return true
}

// Filter returns the ordered rows matching q.
func (d *Dataset) Filter(q Query) []roster.Row {
	return q.Apply(d.Card.Layout, d.Ordered())
}

// Apply returns a new slice of the rows matching q. rows is not modified.
func (q Query) Apply(layout roster.Layout, rows []roster.Row) []roster.Row {
	out := make([]roster.Row, 0, len(rows))
	if q.IsZero() {
		return append(out, rows...)
	}
	for _, r := range rows {
		if q.Match(layout, r) {
			out = append(out, r)
		}
	}
	return out
}

func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
