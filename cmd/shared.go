package cmd

import (
	"context"
	"fmt"
	"os"

	"scorecard/internal/config"
	"scorecard/internal/scorecard"
	"scorecard/internal/sheets"

	"github.com/rs/zerolog/log"
)

const defaultConfigPath = "scorecards.yaml"

// loadCards reads the scorecard definitions named by --config, falling back
// to SCORECARD_CONFIG and then scorecards.yaml in the working directory.
func loadCards() ([]config.Scorecard, error) {
	path := configPath
	if path == "" {
		path = config.GetEnvWithDefault(config.EnvConfigPath, defaultConfigPath)
	}
	cards, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Int("scorecards", len(cards)).Msg("Scorecards configured")
	return cards, nil
}

// newService wires the configured scorecards to their fetchers. A Sheets API
// client is only created when some scorecard needs one.
func newService(ctx context.Context) (*scorecard.Service, error) {
	cards, err := loadCards()
	if err != nil {
		return nil, err
	}

	resilience, err := config.ResilienceFor(os.Getenv(config.EnvResilience))
	if err != nil {
		return nil, err
	}
	opts := scorecard.FetcherOptions{Retry: resilience.SheetFetch}

	if scorecard.NeedsSheets(cards) {
		client, err := sheets.NewClientFromEnv(ctx, os.Getenv(config.EnvCredentialsFile), os.Getenv(config.EnvAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets client: %w", err)
		}
		opts.Sheets = client
	}

	return scorecard.NewService(cards, opts)
}

// queryFlags are the filter flags shared by render and show.
type queryFlags struct {
	q, party, state, grade string
}

func (f *queryFlags) query() scorecard.Query {
	return scorecard.Query{Q: f.q, Party: f.party, State: f.state, Grade: f.grade}
}
