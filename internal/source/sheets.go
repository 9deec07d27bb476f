package source

import (
	"context"

	"scorecard/internal/sheets"

	"github.com/rs/zerolog/log"
)

// SheetReader is the part of the Sheets API client a fetch needs.
type SheetReader interface {
	ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error)
}

// SheetsFetcher reads a range through the Sheets API.
type SheetsFetcher struct {
	Reader        SheetReader
	SpreadsheetID string
	Range         string
}

func (f *SheetsFetcher) Fetch(ctx context.Context) (Payload, error) {
	log.Debug().
		Str("spreadsheet_id", f.SpreadsheetID).
		Str("range", f.Range).
		Msg("Fetching sheet through Sheets API")

	values, err := f.Reader.ReadSheet(ctx, f.SpreadsheetID, f.Range)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Records: sheets.Records(values)}, nil
}
