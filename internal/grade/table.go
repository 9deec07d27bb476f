package grade

import (
	"fmt"
	"strings"
)

// Table is an immutable grade vocabulary: the ordered list of letter grades
// (best first) and the human readable label shown on the overall pill.
//
// Ranks are positional: the first grade ranks 1, the last ranks len(order).
// Tokens outside the vocabulary rank Unranked(), which sorts after every
// known grade; NoRecord always ranks last.
type Table struct {
	order  []string
	ranks  map[string]int
	labels map[string]string
}

// NewTable builds a Table from an ordered vocabulary and a grade -> label map.
// Labels for grades outside the vocabulary are ignored.
func NewTable(order []string, labels map[string]string) (*Table, error) {
	if len(order) == 0 {
		return nil, fmt.Errorf("grade table needs at least one grade")
	}

	t := &Table{
		order:  make([]string, 0, len(order)),
		ranks:  make(map[string]int, len(order)),
		labels: make(map[string]string, len(labels)),
	}
	for _, raw := range order {
		g := strings.TrimSpace(raw)
		if IsNoRecord(g) {
			return nil, fmt.Errorf("grade %q is reserved for missing records", raw)
		}
		key := strings.ToUpper(g)
		if _, dup := t.ranks[key]; dup {
			return nil, fmt.Errorf("duplicate grade %q", g)
		}
		t.order = append(t.order, g)
		t.ranks[key] = len(t.order)
	}
	for g, label := range labels {
		key := strings.ToUpper(strings.TrimSpace(g))
		if _, ok := t.ranks[key]; ok {
			t.labels[key] = label
		}
	}
	return t, nil
}

// MustTable is NewTable for package-level vocabularies known to be valid.
func MustTable(order []string, labels map[string]string) *Table {
	t, err := NewTable(order, labels)
	if err != nil {
		panic(err)
	}
	return t
}

// Grades returns a copy of the vocabulary, best first.
func (t *Table) Grades() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Labels returns a copy of the grade -> label map, keyed by the grade as it
// appears in the vocabulary.
func (t *Table) Labels() map[string]string {
	out := make(map[string]string, len(t.labels))
	for _, g := range t.order {
		if label, ok := t.labels[strings.ToUpper(g)]; ok {
			out[g] = label
		}
	}
	return out
}

// Known reports whether g is part of the vocabulary.
func (t *Table) Known(g string) bool {
	_, ok := t.ranks[strings.ToUpper(strings.TrimSpace(g))]
	return ok
}

// Unranked is the rank shared by all tokens outside the vocabulary.
func (t *Table) Unranked() int {
	return len(t.order) + 1
}

// NoRecordRank is the rank of the missing-record sentinel.
func (t *Table) NoRecordRank() int {
	return len(t.order) + 2
}

// Rank maps any token to its sort key. It never fails.
func (t *Table) Rank(g string) int {
	if IsNoRecord(g) {
		return t.NoRecordRank()
	}
	if r, ok := t.ranks[strings.ToUpper(strings.TrimSpace(g))]; ok {
		return r
	}
	return t.Unranked()
}

// Label returns the overall-pill label for g, echoing the raw token when the
// vocabulary has no label for it.
func (t *Table) Label(g string) string {
	if IsNoRecord(g) {
		return NoRecord
	}
	g = strings.TrimSpace(g)
	if label, ok := t.labels[strings.ToUpper(g)]; ok && label != "" {
		return label
	}
	return g
}

// Standard is the A+..F vocabulary used by the house and 2026 senate cards.
var Standard = MustTable(
	[]string{"A+", "A", "B", "C", "D", "F"},
	map[string]string{
		"A+": "Champion",
		"A":  "Great",
		"B":  "Good",
		"C":  "Okay",
		"D":  "Poor",
		"F":  "Fail",
	},
)

// SenateTariff adds A- and uses the free-trade labels of the senate tariff card.
var SenateTariff = MustTable(
	[]string{"A+", "A", "A-", "B", "C", "D", "F"},
	map[string]string{
		"A+": "Champion",
		"A":  "Ally",
		"A-": "Defender",
		"B":  "Good",
		"C":  "Okay",
		"D":  "Poor",
		"F":  "Protectionist",
	},
)
