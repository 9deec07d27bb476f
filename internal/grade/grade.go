package grade

import (
	"strings"
)

// NoRecord is the single internal spelling for a missing grade.
const NoRecord = "No Record"

// noRecordGlyph is shown in place of a grade when there is nothing to show.
const noRecordGlyph = "–"

// placeholders are raw spreadsheet spellings that all mean "no record".
var placeholders = []string{"", "-", "–", "—", NoRecord, "NS"}

// IsNoRecord reports whether v is blank or one of the no-record placeholders.
func IsNoRecord(v string) bool {
	v = strings.TrimSpace(v)
	for _, p := range placeholders {
		if strings.EqualFold(v, p) {
			return true
		}
	}
	return false
}

// Canonical trims v, collapses every placeholder spelling to NoRecord and
// upper-cases letter grades ("a+" -> "A+"). Other tokens keep their case.
func Canonical(v string) string {
	if IsNoRecord(v) {
		return NoRecord
	}
	v = strings.TrimSpace(v)
	if isLetterGrade(v) {
		return strings.ToUpper(v)
	}
	return v
}

// isLetterGrade matches A-D or F in either case, optionally followed by
// + or -.
func isLetterGrade(v string) bool {
	if len(v) == 0 || len(v) > 2 || !strings.ContainsRune("ABCDFabcdf", rune(v[0])) {
		return false
	}
	return len(v) == 1 || v[1] == '+' || v[1] == '-'
}

// CSSKey turns a grade into a class-name friendly key ("A+" -> "Aplus").
func CSSKey(g string) string {
	g = strings.TrimSpace(g)
	if IsNoRecord(g) {
		return "no-record"
	}
	g = strings.ReplaceAll(g, "+", "plus")
	g = strings.ReplaceAll(g, "-", "minus")
	return strings.Join(strings.Fields(g), "-")
}
