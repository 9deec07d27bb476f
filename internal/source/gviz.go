package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// The gviz endpoint wraps its JSON in a JSONP style call:
//
//	/*O_o*/
//	google.visualization.Query.setResponse({...});
const (
	gvizPrefix = "/*O_o*/\ngoogle.visualization.Query.setResponse("
	gvizSuffix = ");"
)

// GVizURL builds the Google Visualization query URL for one sheet tab.
func GVizURL(spreadsheetID, sheet string) string {
	q := url.Values{}
	q.Set("tqx", "out:json")
	if sheet != "" {
		q.Set("sheet", sheet)
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/gviz/tq?%s", url.PathEscape(spreadsheetID), q.Encode())
}

// GVizFetcher downloads a sheet through the Google Visualization endpoint.
type GVizFetcher struct {
	URL    string
	Client *http.Client
}

func (f *GVizFetcher) Fetch(ctx context.Context) (Payload, error) {
	log.Debug().Str("url", f.URL).Msg("Fetching gviz sheet")
	body, err := get(ctx, f.Client, f.URL)
	if err != nil {
		return Payload{}, err
	}

	records, err := DecodeGViz(body)
	if err != nil {
		return Payload{}, err
	}
	log.Debug().Int("records", len(records)).Msg("Decoded gviz sheet")
	return Payload{Records: records}, nil
}

// DecodeGViz strips the response envelope and returns the table cells as
// records. Null or missing cells become "".
func DecodeGViz(body []byte) ([][]string, error) {
	payload, err := stripGVizEnvelope(body)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("failed to decode gviz response: invalid JSON")
	}

	doc := gjson.ParseBytes(payload)
	if doc.Get("status").String() == "error" {
		return nil, fmt.Errorf("gviz query failed: %s", doc.Get("errors.0.detailed_message").String())
	}

	records := [][]string{}
	doc.Get("table.rows").ForEach(func(_, row gjson.Result) bool {
		record := []string{}
		row.Get("c").ForEach(func(_, cell gjson.Result) bool {
			record = append(record, cellValue(cell))
			return true
		})
		records = append(records, record)
		return true
	})
	return records, nil
}

func stripGVizEnvelope(body []byte) ([]byte, error) {
	body = bytes.TrimSpace(body)
	if bytes.HasPrefix(body, []byte(gvizPrefix)) && bytes.HasSuffix(body, []byte(gvizSuffix)) {
		return body[len(gvizPrefix) : len(body)-len(gvizSuffix)], nil
	}

	// Some proxies drop the comment line; fall back to the outermost object.
	start := bytes.IndexByte(body, '{')
	end := bytes.LastIndexByte(body, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("failed to decode gviz response: no JSON object found")
	}
	return body[start : end+1], nil
}

func cellValue(cell gjson.Result) string {
	if !cell.Exists() || cell.Type == gjson.Null {
		return ""
	}
	if v := cell.Get("v"); v.Exists() && v.Type != gjson.Null {
		return v.String()
	}
	if f := cell.Get("f"); f.Exists() && f.Type != gjson.Null {
		return f.String()
	}
	return ""
}
