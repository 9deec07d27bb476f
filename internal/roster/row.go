package roster

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"scorecard/internal/grade"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// rowNamespace seeds the name-based row IDs so they stay stable across loads.
var rowNamespace = uuid.MustParse("6f1c3c52-8f4e-4c2b-9d55-1f0c6e1a7b31")

// Row is one normalized legislator record. Fields always has exactly
// Layout.Width() entries.
type Row struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	PartyState string   `json:"party_state"`
	Party      string   `json:"party"`
	State      string   `json:"state"`
	Reason     string   `json:"reason,omitempty"`
	Fields     []string `json:"fields"`
}

// Field returns the i-th normalized field, or "" when out of range.
func (r Row) Field(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return r.Fields[i]
}

// Result is the outcome of normalizing a whole sheet.
type Result struct {
	Rows          []Row
	Dropped       int
	HeaderSkipped bool
}

// Normalizer turns raw records into Rows for one layout.
type Normalizer struct {
	layout Layout
}

// NewNormalizer validates the layout and returns a Normalizer for it.
func NewNormalizer(layout Layout) (*Normalizer, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	return &Normalizer{layout: layout}, nil
}

// Layout returns the layout rows are normalized to.
func (n *Normalizer) Layout() Layout {
	return n.layout
}

// Normalize converts one raw record. It reports false when the record is too
// short to be a viable row.
func (n *Normalizer) Normalize(record []string) (Row, bool) {
	if len(record) < n.layout.MinimumFields() {
		return Row{}, false
	}

	fields := make([]string, n.layout.Width())
	for i, c := range n.layout.Columns {
		v := extractField(record, i)
		if c.Role.GradeBearing() {
			v = grade.Canonical(v)
		}
		fields[i] = v
	}

	row := Row{Fields: fields}
	row.Name = fields[n.layout.Index(RoleName)]
	if i := n.layout.Index(RolePartyState); i >= 0 {
		row.PartyState = fields[i]
		row.Party, row.State = SplitPartyState(row.PartyState)
	}
	if i := n.layout.Index(RoleText); i >= 0 {
		row.Reason = fields[i]
	}
	row.ID = uuid.NewSHA1(rowNamespace, []byte(row.Name+"|"+row.PartyState)).String()
	return row, true
}

// NormalizeAll normalizes every record of a sheet in order. A leading header
// row is detected and skipped, blank records are ignored, and records too
// short to be viable are dropped and counted.
func (n *Normalizer) NormalizeAll(records [][]string) Result {
	var res Result
	if len(records) > 0 && IsHeader(records[0]) {
		res.HeaderSkipped = true
		records = records[1:]
	}

	seen := make(map[string]int)
	for i, record := range records {
		if isBlankRecord(record) {
			continue
		}
		row, ok := n.Normalize(record)
		if !ok {
			log.Debug().
				Int("record", i+1).
				Int("fields", len(record)).
				Int("min_fields", n.layout.MinimumFields()).
				Msg("Dropping record with insufficient fields")
			res.Dropped++
			continue
		}
		base := row.ID
		if count := seen[base]; count > 0 {
			row.ID = fmt.Sprintf("%s-%d", base, count)
		}
		seen[base]++
		res.Rows = append(res.Rows, row)
	}

	log.Debug().
		Str("layout", n.layout.Name).
		Int("records", len(records)).
		Int("rows", len(res.Rows)).
		Int("dropped", res.Dropped).
		Bool("header_skipped", res.HeaderSkipped).
		Msg("Normalized records")

	return res
}

// IsHeader reports whether a record looks like the sheet's header row.
func IsHeader(record []string) bool {
	return len(record) > 0 && strings.Contains(strings.ToLower(record[0]), "name")
}

// SplitPartyState decomposes values like "D / DE" or "D-CO" into the party
// initial and the state after the delimiter. A bare "R" has no state.
func SplitPartyState(s string) (party, state string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	first, _ := utf8.DecodeRuneInString(s)
	party = string(unicode.ToUpper(first))
	for _, delim := range []string{"/", "-"} {
		if i := strings.LastIndex(s, delim); i >= 0 {
			state = strings.TrimSpace(s[i+len(delim):])
			break
		}
	}
	return party, state
}

// extractField safely extracts a trimmed field at the given index.
func extractField(record []string, index int) string {
	if index < len(record) {
		return strings.TrimSpace(record[index])
	}
	return ""
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
