package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"scorecard/internal/config"
	"scorecard/internal/scorecard"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Loader fetches scorecards by name.
type Loader interface {
	Cards() []config.Scorecard
	Load(ctx context.Context, name string) (*scorecard.Dataset, error)
}

// Config holds configuration for the web server.
type Config struct {
	Port     int
	CacheTTL time.Duration
}

// Server serves scorecard pages and the JSON API. Loaded datasets are kept
// for CacheTTL; failed loads are not cached.
type Server struct {
	loader Loader
	cfg    Config
	cache  *cache.Cache
	loads  singleflight.Group
}

func New(loader Loader, cfg Config) *Server {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &Server{
		loader: loader,
		cfg:    cfg,
		cache:  cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", s.Index)
	r.Get("/{card}", s.Page)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", s.ListCards)
		r.Get("/{card}", s.Rows)
		r.Get("/{card}/members/{id}", s.Member)
	})
	return r
}

// HTTPServer wraps the router in an http.Server listening on cfg.Port.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting scorecard server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down scorecard server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// dataset returns the cached dataset for name, loading it at most once
// concurrently. On a fetch failure the empty dataset is returned with the
// error so pages can still render.
func (s *Server) dataset(ctx context.Context, name string) (*scorecard.Dataset, error) {
	if v, ok := s.cache.Get(name); ok {
		return v.(*scorecard.Dataset), nil
	}

	type result struct {
		ds  *scorecard.Dataset
		err error
	}
	v, _, _ := s.loads.Do(name, func() (interface{}, error) {
		// Shared by every waiter, so not bound to the first caller's cancellation.
		ds, err := s.loader.Load(context.WithoutCancel(ctx), name)
		if err == nil {
			s.cache.Set(name, ds, cache.DefaultExpiration)
		}
		return result{ds: ds, err: err}, nil
	})
	res := v.(result)
	return res.ds, res.err
}
