package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"scorecard/internal/config"
	"scorecard/internal/grade"
	"scorecard/internal/roster"
	"scorecard/internal/scorecard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
	)
}

var testCard = config.Scorecard{
	Name:  "mini",
	Title: "Mini Scorecard",
	Layout: roster.Layout{
		Name: "mini",
		Columns: []roster.Column{
			{Key: "name", Title: "Name", Role: roster.RoleName},
			{Key: "district", Title: "Party / State", Role: roster.RolePartyState},
			{Key: "authority", Title: "Authority", Role: roster.RolePassFail},
			{Key: "overall", Title: "Overall", Role: roster.RoleOverall},
		},
	},
	Table:      grade.Standard,
	SortColumn: "overall",
}

var testRecords = [][]string{
	{"Name", "Party / State", "Authority", "Overall"},
	{"John Roe", "R / TX", "fail", "F"},
	{"Jane Doe", "D / DE", "pass", "A+"},
	{"Ann Lee", "D / CO", "pass", "B"},
}

type fakeLoader struct {
	calls atomic.Int32
	err   error
	delay time.Duration
}

func (f *fakeLoader) Cards() []config.Scorecard {
	return []config.Scorecard{testCard}
}

func (f *fakeLoader) Load(ctx context.Context, name string) (*scorecard.Dataset, error) {
	f.calls.Add(1)
	if name != testCard.Name {
		return nil, fmt.Errorf("%w %q", scorecard.ErrUnknownScorecard, name)
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		ds, _ := scorecard.FromRecords(testCard, nil)
		return ds, f.err
	}
	return scorecard.FromRecords(testCard, testRecords)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestIndex(t *testing.T) {
	h := New(&fakeLoader{}, Config{}).Routes()
	rec := get(t, h, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `href="/mini"`)
}

func TestPage(t *testing.T) {
	h := New(&fakeLoader{}, Config{}).Routes()
	rec := get(t, h, "/mini")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Mini Scorecard</h1>")
	assert.Contains(t, body, `data-order="1"`)
	assert.Less(t, strings.Index(body, "Jane Doe"), strings.Index(body, "John Roe"))
}

func TestPage_UnknownScorecard(t *testing.T) {
	h := New(&fakeLoader{}, Config{}).Routes()
	assert.Equal(t, http.StatusNotFound, get(t, h, "/nope").Code)
}

func TestPage_FetchFailureRendersEmptyTable(t *testing.T) {
	h := New(&fakeLoader{err: errors.New("upstream returned 503")}, Config{}).Routes()
	rec := get(t, h, "/mini")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream returned 503")
	assert.NotContains(t, rec.Body.String(), "Jane Doe")
}

func TestListCards(t *testing.T) {
	h := New(&fakeLoader{}, Config{}).Routes()
	rec := get(t, h, "/api/")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Scorecards []struct{ Name, Title string }
		Count      int
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "mini", body.Scorecards[0].Name)
}

func TestRows(t *testing.T) {
	h := New(&fakeLoader{}, Config{}).Routes()

	rec := get(t, h, "/api/mini")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc struct {
		Total int
		Rows  []struct {
			ID   string
			Name string
		}
		Facets roster.Facets
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, 3, doc.Total)
	require.Len(t, doc.Rows, 3)
	assert.Equal(t, "Jane Doe", doc.Rows[0].Name)
	assert.Equal(t, []string{"CO", "DE", "TX"}, doc.Facets.States)

	rec = get(t, h, "/api/mini?party=D&grade=B")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, "Ann Lee", doc.Rows[0].Name)

	rec = get(t, h, "/api/mini?state=tx")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, "John Roe", doc.Rows[0].Name)
}

func TestRows_Errors(t *testing.T) {
	h := New(&fakeLoader{}, Config{}).Routes()
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/nope").Code)

	h = New(&fakeLoader{err: errors.New("timeout")}, Config{}).Routes()
	rec := get(t, h, "/api/mini")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "timeout")
}

func TestMember(t *testing.T) {
	h := New(&fakeLoader{}, Config{}).Routes()

	var list struct {
		Rows []struct{ ID, Name string }
	}
	require.NoError(t, json.Unmarshal(get(t, h, "/api/mini").Body.Bytes(), &list))
	var id string
	for _, r := range list.Rows {
		if r.Name == "John Roe" {
			id = r.ID
		}
	}
	require.NotEmpty(t, id)

	rec := get(t, h, "/api/mini/members/"+id)
	require.Equal(t, http.StatusOK, rec.Code)
	var det scorecard.Detail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &det))
	assert.Equal(t, "John Roe", det.Name)
	require.NotNil(t, det.Overall)
	assert.Equal(t, "Fail", det.Overall.Fragment.Label)
	require.Len(t, det.Grades, 1)
	assert.Equal(t, "fail", det.Grades[0].Fragment.Class)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/mini/members/missing").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/nope/members/"+id).Code)
}

func TestDatasetIsCached(t *testing.T) {
	loader := &fakeLoader{}
	h := New(loader, Config{CacheTTL: time.Minute}).Routes()

	get(t, h, "/mini")
	get(t, h, "/api/mini")
	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestFailedLoadIsNotCached(t *testing.T) {
	loader := &fakeLoader{err: errors.New("boom")}
	h := New(loader, Config{}).Routes()

	get(t, h, "/mini")
	get(t, h, "/mini")
	assert.Equal(t, int32(2), loader.calls.Load())
}

func TestConcurrentLoadsShareOneFetch(t *testing.T) {
	loader := &fakeLoader{delay: 50 * time.Millisecond}
	s := New(loader, Config{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ds, err := s.dataset(context.Background(), "mini")
			assert.NoError(t, err)
			assert.Len(t, ds.Rows, 3)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, loader.calls.Load(), int32(2))
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	s := New(&fakeLoader{}, Config{Port: 0})
	srv := s.HTTPServer()
	srv.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
