package roster

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"quoted comma", `"Smith, John",A,B`, []string{"Smith, John", "A", "B"}},
		{"pass fail", `"Doe, Jane",A,Pass`, []string{"Doe, Jane", "A", "Pass"}},
		{"trims", ` Jane Doe , D / DE ,A+ `, []string{"Jane Doe", "D / DE", "A+"}},
		{"empty fields", `a,,c,`, []string{"a", "", "c", ""}},
		{"escaped quote", `"He said ""no"", twice",F`, []string{`He said "no", twice`, "F"}},
		{"carriage return", "a,b\r", []string{"a", "b"}},
		{"single field", `only`, []string{"only"}},
		{"unterminated quote", `"open, field,A`, []string{"open, field,A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, SplitLine(tt.in)); diff != "" {
				t.Errorf("SplitLine(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParseCSV(t *testing.T) {
	text := "\ufeffName,Party,Grade\n\"Doe, Jane\",D / DE,A+\n\nRoe,R-TX,F\n"
	want := [][]string{
		{"Name", "Party", "Grade"},
		{"Doe, Jane", "D / DE", "A+"},
		{"Roe", "R-TX", "F"},
	}
	if diff := cmp.Diff(want, ParseCSV(text)); diff != "" {
		t.Errorf("ParseCSV mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCSV_MultilineQuotedField(t *testing.T) {
	text := "Jane,D / DE,\"first line\nsecond line\"\n"
	got := ParseCSV(text)
	assert.Len(t, got, 1)
	assert.Equal(t, "first line\nsecond line", got[0][2])
}

func TestParseCSV_VariableWidth(t *testing.T) {
	got := ParseCSV("a,b,c\nd\n")
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"d"}}, got)
}

func TestParseCSV_Empty(t *testing.T) {
	assert.Nil(t, ParseCSV(""))
	assert.Nil(t, ParseCSV("  \n\n"))
}

func TestParseCSV_UnterminatedQuote(t *testing.T) {
	got := ParseCSV("a,\"b\nc,d")
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, got)
}

func TestParseCSV_UnterminatedQuoteKeepsLaterRows(t *testing.T) {
	text := "Name,Party / State,Grade,Explanation\n" +
		"Jane Doe,D / DE,A+,\"Free trader, mostly\n" +
		"John Roe,R / TX,F,Backs every tariff\n" +
		"Ann Lee,D / CO,B,Mixed record\n"
	want := [][]string{
		{"Name", "Party / State", "Grade", "Explanation"},
		{"Jane Doe", "D / DE", "A+", "Free trader, mostly"},
		{"John Roe", "R / TX", "F", "Backs every tariff"},
		{"Ann Lee", "D / CO", "B", "Mixed record"},
	}
	if diff := cmp.Diff(want, ParseCSV(text)); diff != "" {
		t.Errorf("ParseCSV mismatch (-want +got):\n%s", diff)
	}
}

func TestSwallowedRows(t *testing.T) {
	header := []string{"Name", "Party", "Grade"}
	assert.False(t, swallowedRows([][]string{header, {"Jane", "D", "first line\nsecond line"}}))
	assert.True(t, swallowedRows([][]string{header, {"Jane", "D", "open\nRoe,R,F"}}))
	assert.False(t, swallowedRows(nil))
}

func TestSplitLines(t *testing.T) {
	got := splitLines("\"Doe, Jane\",A\r\n\n  \nRoe,F\n")
	assert.Equal(t, [][]string{{"Doe, Jane", "A"}, {"Roe", "F"}}, got)
}
