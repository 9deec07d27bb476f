package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"scorecard/internal/config"
	"scorecard/internal/server"

	"github.com/spf13/cobra"
)

var (
	port     int
	cacheTTL time.Duration

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the scorecard web server",
		Long: `Start an HTTP server with one page per scorecard and a JSON API:

  GET /                              list of scorecards
  GET /{card}                        scorecard page
  GET /api/{card}?q=&party=&state=&grade=   filtered rows
  GET /api/{card}/members/{id}       detail view of one row

Fetched sheets are cached for --cache-ttl (or SCORECARD_CACHE_TTL).`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default $PORT or 8080)")
	serveCmd.Flags().DurationVar(&cacheTTL, "cache-ttl", 0, "how long fetched sheets are reused (default $SCORECARD_CACHE_TTL or 5m)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService(ctx)
	if err != nil {
		return err
	}

	if port == 0 {
		port, err = strconv.Atoi(config.GetEnvWithDefault(config.EnvPort, "8080"))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", config.EnvPort, err)
		}
	}
	if cacheTTL == 0 {
		cacheTTL = config.GetEnvDuration(config.EnvCacheTTL, 5*time.Minute)
	}

	srv := server.New(svc, server.Config{Port: port, CacheTTL: cacheTTL})
	return server.Run(ctx, srv.HTTPServer())
}
