package scorecard

import (
	"context"
	"errors"
	"fmt"

	"scorecard/internal/config"
	"scorecard/internal/source"
)

// ErrUnknownScorecard is returned for names no scorecard is configured under.
var ErrUnknownScorecard = errors.New("unknown scorecard")

// Service knows every configured scorecard and how to fetch it.
type Service struct {
	cards    []config.Scorecard
	fetchers map[string]source.Fetcher
}

func NewService(cards []config.Scorecard, opts FetcherOptions) (*Service, error) {
	s := &Service{
		cards:    cards,
		fetchers: make(map[string]source.Fetcher, len(cards)),
	}
	for _, c := range cards {
		f, err := NewFetcher(c, opts)
		if err != nil {
			return nil, err
		}
		s.fetchers[c.Name] = f
	}
	return s, nil
}

// Cards returns the scorecards in configuration order.
func (s *Service) Cards() []config.Scorecard {
	return s.cards
}

// Card looks up a scorecard by name.
func (s *Service) Card(name string) (config.Scorecard, bool) {
	for _, c := range s.cards {
		if c.Name == name {
			return c, true
		}
	}
	return config.Scorecard{}, false
}

// Load fetches the named scorecard. See the package level Load for the
// failure behavior.
func (s *Service) Load(ctx context.Context, name string) (*Dataset, error) {
	card, ok := s.Card(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownScorecard, name)
	}
	return Load(ctx, card, s.fetchers[name])
}
