package scorecard

import (
	"fmt"
	"net/http"

	"scorecard/internal/config"
	"scorecard/internal/retry"
	"scorecard/internal/source"
)

// FetcherOptions carries the shared clients fetchers are built from.
type FetcherOptions struct {
	HTTPClient *http.Client
	// Sheets is required only by scorecards whose source kind is "sheets".
	Sheets source.SheetReader
	Retry  retry.Config
}

// NewFetcher builds the fetcher for a scorecard's source, wrapped in the
// retry policy.
func NewFetcher(card config.Scorecard, opts FetcherOptions) (source.Fetcher, error) {
	client := opts.HTTPClient
	if client == nil {
		client = source.NewHTTPClient()
	}

	var f source.Fetcher
	switch card.Source.Kind {
	case source.KindCSV:
		f = &source.CSVFetcher{URL: card.Source.Endpoint(), Client: client}
	case source.KindGViz:
		f = &source.GVizFetcher{URL: card.Source.Endpoint(), Client: client}
	case source.KindSheets:
		if opts.Sheets == nil {
			return nil, fmt.Errorf("scorecard %q reads the Sheets API but no Sheets client is configured", card.Name)
		}
		f = &source.SheetsFetcher{Reader: opts.Sheets, SpreadsheetID: card.Source.SpreadsheetID, Range: card.Source.Range}
	default:
		return nil, fmt.Errorf("scorecard %q has unknown source kind %q", card.Name, card.Source.Kind)
	}

	return &source.Retrying{Fetcher: f, Name: "fetch " + card.Name, Config: opts.Retry}, nil
}

// NeedsSheets reports whether any scorecard reads through the Sheets API.
func NeedsSheets(cards []config.Scorecard) bool {
	for _, c := range cards {
		if c.Source.Kind == source.KindSheets {
			return true
		}
	}
	return false
}
