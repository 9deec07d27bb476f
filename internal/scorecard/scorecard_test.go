package scorecard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"scorecard/internal/config"
	"scorecard/internal/grade"
	"scorecard/internal/roster"
	"scorecard/internal/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const senateCSV = `Name,Party/State,Pre-Trump,Authority,SJRes 81,SJRes 77,SJRes 88,232/301,Messaging,Overall,Reason
Jane Doe,D-CO,A,pass,A,A,A-,B,A,A-,"Voted for every resolution, mostly"
John Roe,R-TX,F,fail,F,F,F,F,D,F,Supported every tariff
Sam Poe,I-VT,,,,,,,,,
Short Row
Ann Lee,D-DE,B,Pass,A,B,C,NS,B,B,Mixed record
`

type staticFetcher struct {
	payload source.Payload
	err     error
	calls   int
}

func (f *staticFetcher) Fetch(context.Context) (source.Payload, error) {
	f.calls++
	return f.payload, f.err
}

func senateCard(t *testing.T) config.Scorecard {
	t.Helper()
	card, ok := config.Preset("senate-tariff")
	require.True(t, ok)
	card.Layout.MinFields = 2
	return card
}

func loadSenate(t *testing.T) *Dataset {
	t.Helper()
	ds, err := Load(context.Background(), senateCard(t), &staticFetcher{payload: source.Payload{Text: senateCSV}})
	require.NoError(t, err)
	return ds
}

func TestLoad(t *testing.T) {
	ds := loadSenate(t)
	require.Len(t, ds.Rows, 4)
	assert.Equal(t, 1, ds.Dropped)
	assert.Equal(t, []string{"D", "I", "R"}, ds.Facets.Parties)
	assert.Equal(t, []string{"CO", "DE", "TX", "VT"}, ds.Facets.States)
	assert.Equal(t, "Voted for every resolution, mostly", ds.Rows[0].Reason)
	assert.Equal(t, grade.NoRecord, ds.Rows[2].Field(9))
}

func TestLoad_FetchFailureYieldsEmptyDataset(t *testing.T) {
	ds, err := Load(context.Background(), senateCard(t), &staticFetcher{err: errors.New("connection refused")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	require.NotNil(t, ds)
	assert.Empty(t, ds.Rows)
	assert.NotNil(t, ds.Rows)
	assert.Empty(t, ds.Facets.States)
}

func TestLoad_ParsedPayload(t *testing.T) {
	card, ok := config.Preset("house-tariff")
	require.True(t, ok)

	f := &staticFetcher{payload: source.Payload{Records: [][]string{
		{"Name", "District", "Pre", "Auth", "Can", "Mex", "Lib", "Strat", "Overall", "Reason"},
		{"Pat Kay", "R / OH", "C", "fail", "D", "D", "F", "C", "D", "Quiet"},
	}}}
	ds, err := Load(context.Background(), card, f)
	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "OH", ds.Rows[0].State)
}

func TestCells(t *testing.T) {
	ds := loadSenate(t)
	cells := ds.Cells(ds.Rows[0])
	require.Len(t, cells, 11)

	assert.Nil(t, cells[0].Fragment, "name has no fragment")
	assert.Equal(t, 0, cells[0].SortKey)

	assert.Equal(t, 2, cells[2].SortKey)
	assert.Equal(t, "grade-circle grade-A", cells[2].Fragment.Class)

	assert.Equal(t, grade.PassRank, cells[3].SortKey)
	assert.Equal(t, "pass", cells[3].Fragment.Class)

	assert.Equal(t, 3, cells[9].SortKey)
	assert.Equal(t, "Defender", cells[9].Fragment.Label)
}

func TestDetail(t *testing.T) {
	ds := loadSenate(t)
	id := ds.Rows[1].ID

	det, ok := ds.Detail(id)
	require.True(t, ok)
	assert.Equal(t, "John Roe", det.Name)
	assert.Equal(t, "R-TX", det.PartyState)
	assert.Equal(t, "TX", det.State)
	assert.Equal(t, "Supported every tariff", det.Reason)
	require.Len(t, det.Grades, 7)
	assert.Equal(t, "fail", det.Grades[1].Fragment.Class)
	require.NotNil(t, det.Overall)
	assert.Equal(t, "Protectionist", det.Overall.Fragment.Label)

	_, ok = ds.Detail("nope")
	assert.False(t, ok)
}

func TestDetail_NoRecordRow(t *testing.T) {
	ds := loadSenate(t)
	det, ok := ds.Detail(ds.Rows[2].ID)
	require.True(t, ok)
	for _, c := range det.Grades {
		assert.True(t, c.Fragment.NoRecord, c.Key)
	}
	assert.Equal(t, "overall-pill overall-no-record", det.Overall.Fragment.Class)
}

func TestOrdered_SortsByOverall(t *testing.T) {
	ds := loadSenate(t)
	var names []string
	for _, r := range ds.Ordered() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Jane Doe", "Ann Lee", "John Roe", "Sam Poe"}, names)
	assert.Equal(t, "Jane Doe", ds.Rows[0].Name, "source order untouched")
	assert.Equal(t, "John Roe", ds.Rows[1].Name)
}

func TestSortBy_TextColumnAndUnknownKey(t *testing.T) {
	ds := loadSenate(t)
	rows := ds.SortBy("name")
	assert.Equal(t, "Ann Lee", rows[0].Name)
	assert.Equal(t, "Sam Poe", rows[3].Name)

	rows = ds.SortBy("nope")
	assert.Equal(t, "Jane Doe", rows[0].Name)
}

func TestFilter(t *testing.T) {
	ds := loadSenate(t)
	names := func(rows []roster.Row) []string {
		out := []string{}
		for _, r := range rows {
			out = append(out, r.Name)
		}
		return out
	}

	assert.Len(t, ds.Filter(Query{}), 4)
	assert.Equal(t, []string{"Jane Doe", "Ann Lee"}, names(ds.Filter(Query{Party: "d"})))
	assert.Equal(t, []string{"John Roe"}, names(ds.Filter(Query{State: "tx"})))
	assert.Equal(t, []string{"Jane Doe"}, names(ds.Filter(Query{Q: "MOSTLY"})))
	assert.Equal(t, []string{"Jane Doe"}, names(ds.Filter(Query{Grade: "A"})))
	assert.Equal(t, []string{"Sam Poe"}, names(ds.Filter(Query{Grade: "no record"})))
	assert.Equal(t, []string{"Ann Lee"}, names(ds.Filter(Query{Party: "D", Q: "mixed"})))
	assert.Empty(t, ds.Filter(Query{State: "C"}))
}

func TestQueryApply_LeavesInputUntouched(t *testing.T) {
	ds := loadSenate(t)
	before := append([]roster.Row(nil), ds.Rows...)

	got := Query{Party: "R"}.Apply(ds.Card.Layout, ds.Rows)
	require.NotEmpty(t, got)
	assert.Equal(t, before, ds.Rows)

	all := Query{}.Apply(ds.Card.Layout, ds.Rows)
	all[0] = roster.Row{}
	assert.Equal(t, before, ds.Rows)
}

func TestService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(senateCSV))
	}))
	defer srv.Close()

	card := senateCard(t)
	card.Source.URL = srv.URL
	svc, err := NewService([]config.Scorecard{card}, FetcherOptions{HTTPClient: srv.Client()})
	require.NoError(t, err)

	ds, err := svc.Load(context.Background(), "senate-tariff")
	require.NoError(t, err)
	assert.Len(t, ds.Rows, 4)

	_, err = svc.Load(context.Background(), "house-tariff")
	assert.ErrorIs(t, err, ErrUnknownScorecard)
}

func TestNewFetcher_SheetsNeedsClient(t *testing.T) {
	card := config.Scorecard{Name: "api", Source: config.SheetSource{Kind: source.KindSheets, SpreadsheetID: "id", Range: "A1:K"}}
	_, err := NewFetcher(card, FetcherOptions{})
	assert.Error(t, err)
	assert.True(t, NeedsSheets([]config.Scorecard{card}))
	assert.False(t, NeedsSheets(config.Presets()))
}
