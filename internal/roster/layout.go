package roster

import (
	"fmt"
)

// Role tells the normalizer and the renderers how to treat a column.
type Role string

const (
	RoleName       Role = "name"
	RolePartyState Role = "party_state"
	RoleGrade      Role = "grade"
	RolePassFail   Role = "pass_fail"
	RoleOverall    Role = "overall"
	RoleText       Role = "text"
)

// GradeBearing reports whether values in this role are grades that collapse
// to the no-record sentinel when blank.
func (r Role) GradeBearing() bool {
	switch r {
	case RoleGrade, RolePassFail, RoleOverall:
		return true
	}
	return false
}

// Column is one positional field of a scorecard row.
type Column struct {
	Key   string `yaml:"key" json:"key"`
	Title string `yaml:"title" json:"title"`
	Role  Role   `yaml:"role" json:"role"`
}

// Layout is the positional schema of a scorecard sheet.
type Layout struct {
	Name    string   `yaml:"name" json:"name"`
	Columns []Column `yaml:"columns" json:"columns"`
	// MinFields is the fewest raw fields a row may have before it is dropped
	// rather than padded. Zero means the full width.
	MinFields int `yaml:"min_fields" json:"min_fields"`
}

// Width is the number of fields in a normalized row.
func (l Layout) Width() int {
	return len(l.Columns)
}

// MinimumFields resolves the MinFields default.
func (l Layout) MinimumFields() int {
	if l.MinFields <= 0 || l.MinFields > l.Width() {
		return l.Width()
	}
	return l.MinFields
}

// Index returns the position of the first column with the given role, or -1.
func (l Layout) Index(role Role) int {
	for i, c := range l.Columns {
		if c.Role == role {
			return i
		}
	}
	return -1
}

// Key returns the position of the column with the given key, or -1.
func (l Layout) Key(key string) int {
	for i, c := range l.Columns {
		if c.Key == key {
			return i
		}
	}
	return -1
}

// Validate checks that the layout can be normalized and rendered.
func (l Layout) Validate() error {
	if len(l.Columns) == 0 {
		return fmt.Errorf("layout %q has no columns", l.Name)
	}
	counts := make(map[Role]int)
	for i, c := range l.Columns {
		switch c.Role {
		case RoleName, RolePartyState, RoleGrade, RolePassFail, RoleOverall, RoleText:
		default:
			return fmt.Errorf("layout %q column %d has unknown role %q", l.Name, i, c.Role)
		}
		counts[c.Role]++
	}
	if counts[RoleName] != 1 {
		return fmt.Errorf("layout %q needs exactly one name column, found %d", l.Name, counts[RoleName])
	}
	for _, role := range []Role{RolePartyState, RoleOverall} {
		if counts[role] > 1 {
			return fmt.Errorf("layout %q has %d %s columns, at most one allowed", l.Name, counts[role], role)
		}
	}
	return nil
}

func col(key, title string, role Role) Column {
	return Column{Key: key, Title: title, Role: role}
}

// HouseTariff is the ten column house tariff messaging index.
var HouseTariff = Layout{
	Name:      "house-tariff",
	MinFields: 1,
	Columns: []Column{
		col("name", "Name", RoleName),
		col("district", "Party / State", RolePartyState),
		col("pre_trump", "Pre-Trump", RoleGrade),
		col("authority", "Congressional Authority", RolePassFail),
		col("canada", "Canada", RoleGrade),
		col("mexico", "Mexico", RoleGrade),
		col("liberation", "Liberation Day", RoleGrade),
		col("strategic", "Strategic", RoleGrade),
		col("overall", "Overall", RoleOverall),
		col("reason", "Reason", RoleText),
	},
}

// SenateTariff is the eleven column senate tariff messaging index.
var SenateTariff = Layout{
	Name:      "senate-tariff",
	MinFields: 1,
	Columns: []Column{
		col("name", "Name", RoleName),
		col("district", "Party / State", RolePartyState),
		col("pre_trump", "Pre-Trump", RoleGrade),
		col("authority", "Senate Authority", RolePassFail),
		col("sjres81", "S.J.Res. 81 (Brazil)", RoleGrade),
		col("sjres77", "S.J.Res. 77 (Canada)", RoleGrade),
		col("sjres88", "S.J.Res. 88 (IEEPA)", RoleGrade),
		col("sec232301", "232 / 301", RoleGrade),
		col("messaging", "Messaging", RoleGrade),
		col("overall", "Overall", RoleOverall),
		col("reason", "Reason", RoleText),
	},
}

// Senate2026 is the eleven column 2026 senate messaging index.
var Senate2026 = Layout{
	Name:      "senate-2026",
	MinFields: 10,
	Columns: []Column{
		col("name", "Name", RoleName),
		col("party_state", "Party / State", RolePartyState),
		col("pre_trump", "Pre-Trump", RoleGrade),
		col("authority", "Congressional Authority", RolePassFail),
		col("sj81", "S.J. 81", RoleGrade),
		col("sj77", "S.J. 77", RoleGrade),
		col("sj88", "S.J. 88", RoleGrade),
		col("sec232", "Section 232", RoleGrade),
		col("messaging", "Messaging", RoleGrade),
		col("overall", "Final Grade", RoleOverall),
		col("reason", "Explanation", RoleText),
	},
}
