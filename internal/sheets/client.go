package sheets

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type Client struct {
	service *sheets.Service
}

// NewClient builds a read-only Sheets client. Credentials come from the
// options: an API key for public sheets, a service account file otherwise.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}, opts...)
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service: service,
	}, nil
}

// NewClientFromEnv picks credentials the way the CLI does: a service account
// file when one is given, else an API key.
func NewClientFromEnv(ctx context.Context, credentialsFile, apiKey string) (*Client, error) {
	switch {
	case credentialsFile != "":
		log.Debug().Str("credentials_file", credentialsFile).Msg("Using service account for Sheets API")
		return NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	case apiKey != "":
		log.Debug().Msg("Using API key for Sheets API")
		return NewClient(ctx, option.WithAPIKey(apiKey))
	default:
		return nil, fmt.Errorf("sheets API needs GOOGLE_CREDENTIALS_FILE or GOOGLE_API_KEY")
	}
}

func (c *Client) ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, range_).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	log.Debug().
		Str("spreadsheet_id", spreadsheetID).
		Str("range", range_).
		Int("rows", len(resp.Values)).
		Msg("Read sheet values")
	return resp.Values, nil
}

// Records converts raw API values into string records. Nil cells become "".
func Records(values [][]interface{}) [][]string {
	records := make([][]string, 0, len(values))
	for _, row := range values {
		record := make([]string, len(row))
		for i := range row {
			record[i] = extractStringField(row, i)
		}
		records = append(records, record)
	}
	return records
}

// extractStringField safely extracts a string field from a row at the given index
func extractStringField(row []interface{}, index int) string {
	if len(row) > index && row[index] != nil {
		return fmt.Sprintf("%v", row[index])
	}
	return ""
}
