package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"scorecard/internal/page"
	"scorecard/internal/scorecard"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	renderFormat string
	renderOutput string
	renderAll    bool
	renderFlags  queryFlags

	renderCmd = &cobra.Command{
		Use:   "render [scorecard]",
		Short: "Render a scorecard as a static HTML page or JSON document",
		Long: `Render fetches one scorecard and writes a self-contained HTML page
(or, with --format json, the JSON document) to stdout or --output.

With --all every configured scorecard is fetched concurrently and written
to <output>/<name>.html (or .json).

A fetch failure is logged and an empty page is still written.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if renderAll {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: runRender,
	}
)

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "html", "output format: html or json")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (directory with --all); default stdout")
	renderCmd.Flags().BoolVar(&renderAll, "all", false, "render every configured scorecard")
	renderCmd.Flags().StringVar(&renderFlags.q, "q", "", "free-text filter (json only)")
	renderCmd.Flags().StringVar(&renderFlags.party, "party", "", "party filter (json only)")
	renderCmd.Flags().StringVar(&renderFlags.state, "state", "", "state filter (json only)")
	renderCmd.Flags().StringVar(&renderFlags.grade, "grade", "", "overall grade filter (json only)")
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderFormat != "html" && renderFormat != "json" {
		return fmt.Errorf("unknown format %q (want html or json)", renderFormat)
	}

	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}

	if !renderAll {
		if renderOutput == "" {
			return renderOne(cmd.Context(), svc, args[0], cmd.OutOrStdout())
		}
		return renderFile(cmd.Context(), svc, args[0], renderOutput)
	}

	dir := renderOutput
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(4)
	for _, card := range svc.Cards() {
		g.Go(func() error {
			var buf bytes.Buffer
			if err := renderOne(ctx, svc, card.Name, &buf); err != nil {
				return err
			}
			path := filepath.Join(dir, card.Name+"."+renderFormat)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			log.Info().Str("scorecard", card.Name).Str("path", path).Msg("Wrote scorecard")
			return nil
		})
	}
	return g.Wait()
}

// renderFile renders one scorecard into path.
func renderFile(ctx context.Context, svc *scorecard.Service, name, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()
	return renderOne(ctx, svc, name, f)
}

// renderOne writes one scorecard. Fetch failures are already logged by
// Load and only change what the page shows.
func renderOne(ctx context.Context, svc *scorecard.Service, name string, w io.Writer) error {
	ds, loadErr := svc.Load(ctx, name)
	if ds == nil {
		return loadErr
	}

	if renderFormat == "json" {
		q := renderFlags.query()
		return page.WriteJSON(w, page.NewDocument(ds, ds.Filter(q), q, loadErr))
	}
	return page.WriteHTML(w, page.NewView(ds, ds.Ordered(), loadErr))
}
