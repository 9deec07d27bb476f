package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"scorecard/internal/retry"

	"github.com/rs/zerolog/log"
)

// Kind names where a scorecard's sheet comes from.
type Kind string

const (
	KindCSV    Kind = "csv"
	KindGViz   Kind = "gviz"
	KindSheets Kind = "sheets"
)

// Payload is what a fetch produced: raw CSV text, or records that were
// already split into cells by the upstream format.
type Payload struct {
	Text    string
	Records [][]string
}

// Parsed reports whether the payload already carries records.
func (p Payload) Parsed() bool {
	return p.Records != nil
}

// Fetcher retrieves one scorecard sheet.
type Fetcher interface {
	Fetch(ctx context.Context) (Payload, error)
}

// NewHTTPClient is the client used by the HTTP fetchers.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 15 * time.Second,
	}
}

// get performs a GET and returns the body of a 200 response.
func get(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = NewHTTPClient()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("url", url).
		Int("status_code", resp.StatusCode).
		Str("content_type", resp.Header.Get("Content-Type")).
		Msg("Received sheet response")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, retry.Permanent(err)
		}
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// Retrying wraps a Fetcher with the retry policy in Config.
type Retrying struct {
	Fetcher Fetcher
	Name    string
	Config  retry.Config
}

func (r *Retrying) Fetch(ctx context.Context) (Payload, error) {
	return retry.WithRetry(ctx, r.Name, r.Config, r.Fetcher.Fetch)
}
