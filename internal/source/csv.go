package source

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// CSVFetcher downloads a sheet published as CSV.
type CSVFetcher struct {
	URL    string
	Client *http.Client
}

func (f *CSVFetcher) Fetch(ctx context.Context) (Payload, error) {
	log.Debug().Str("url", f.URL).Msg("Fetching CSV sheet")
	body, err := get(ctx, f.Client, f.URL)
	if err != nil {
		return Payload{}, err
	}

	text := strings.TrimPrefix(string(body), "\ufeff")
	log.Debug().Int("bytes", len(text)).Msg("Fetched CSV sheet")
	return Payload{Text: text}, nil
}
