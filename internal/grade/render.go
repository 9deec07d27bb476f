package grade

import (
	"fmt"
	"html"
	"html/template"
	"strings"
)

// Kind identifies which markup a Fragment renders to.
type Kind int

const (
	KindCircle Kind = iota
	KindPassFail
	KindOverall
)

// Pass/fail sort keys.
const (
	PassRank     = 0
	FailRank     = 1
	PassNoRecord = 2
)

const noRecordTitle = "No Record / New Senator"

// Fragment is the display form of one grade-bearing cell.
type Fragment struct {
	Kind     Kind   `json:"-"`
	Class    string `json:"class"`
	Text     string `json:"text"`
	Label    string `json:"label,omitempty"`
	Title    string `json:"title,omitempty"`
	NoRecord bool   `json:"no_record,omitempty"`
}

// Render builds the colored circle for a single grade.
func Render(g string) Fragment {
	if IsNoRecord(g) {
		return Fragment{
			Kind:     KindCircle,
			Class:    "grade-circle no-record",
			Text:     noRecordGlyph,
			Title:    noRecordTitle,
			NoRecord: true,
		}
	}
	g = Canonical(g)
	return Fragment{
		Kind:  KindCircle,
		Class: "grade-circle grade-" + CSSKey(g),
		Text:  g,
	}
}

// RenderPassFail renders the authority verdict. "pass" in any case is a pass,
// a blank or placeholder value has no record, and everything else fails.
func RenderPassFail(v string) Fragment {
	switch {
	case IsNoRecord(v):
		f := Render(NoRecord)
		f.Kind = KindPassFail
		return f
	case isPass(v):
		return Fragment{Kind: KindPassFail, Class: "pass", Text: "Pass"}
	default:
		return Fragment{Kind: KindPassFail, Class: "fail", Text: "Fail"}
	}
}

// PassFailRank is the sort key matching RenderPassFail.
func PassFailRank(v string) int {
	switch {
	case IsNoRecord(v):
		return PassNoRecord
	case isPass(v):
		return PassRank
	default:
		return FailRank
	}
}

func isPass(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "pass")
}

// RenderOverall builds the combined pill for the final grade: a rank colored
// circle plus the vocabulary label.
func (t *Table) RenderOverall(g string) Fragment {
	if IsNoRecord(g) {
		return Fragment{
			Kind:     KindOverall,
			Class:    "overall-pill overall-no-record",
			Text:     noRecordGlyph,
			Label:    NoRecord,
			Title:    noRecordTitle,
			NoRecord: true,
		}
	}
	g = Canonical(g)
	return Fragment{
		Kind:  KindOverall,
		Class: "overall-pill overall-" + CSSKey(g),
		Text:  g,
		Label: t.Label(g),
	}
}

// HTML renders the fragment to escaped markup.
func (f Fragment) HTML() template.HTML {
	var b strings.Builder
	switch f.Kind {
	case KindOverall:
		circle := "grade-circle"
		if f.NoRecord {
			circle += " no-record"
		} else {
			circle += " grade-" + CSSKey(f.Text)
		}
		fmt.Fprintf(&b, `<span class="%s"%s><span class="%s">%s</span><span class="grade-label">%s</span></span>`,
			html.EscapeString(f.Class), titleAttr(f.Title), html.EscapeString(circle),
			html.EscapeString(f.Text), html.EscapeString(f.Label))
	default:
		fmt.Fprintf(&b, `<span class="%s"%s>%s</span>`,
			html.EscapeString(f.Class), titleAttr(f.Title), html.EscapeString(f.Text))
	}
	return template.HTML(b.String()) //nolint:gosec // every interpolated value is escaped above
}

func titleAttr(title string) string {
	if title == "" {
		return ""
	}
	return fmt.Sprintf(` title="%s"`, html.EscapeString(title))
}
