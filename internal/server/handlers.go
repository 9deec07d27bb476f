package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"scorecard/internal/page"
	"scorecard/internal/scorecard"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Index lists the configured scorecards.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := page.WriteIndex(&buf, s.loader.Cards()); err != nil {
		log.Error().Err(err).Msg("Failed to render index")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

// Page renders one scorecard. A failed fetch still renders the page, with
// an empty table and the error shown.
func (s *Server) Page(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "card")
	ds, err := s.dataset(r.Context(), name)
	if errors.Is(err, scorecard.ErrUnknownScorecard) {
		http.NotFound(w, r)
		return
	}
	if ds == nil {
		log.Error().Err(err).Str("scorecard", name).Msg("Failed to load scorecard")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := page.WriteHTML(&buf, page.NewView(ds, ds.Ordered(), err)); err != nil {
		log.Error().Err(err).Str("scorecard", name).Msg("Failed to render scorecard page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

// ListCards returns the name and title of every scorecard.
func (s *Server) ListCards(w http.ResponseWriter, r *http.Request) {
	type card struct {
		Name  string `json:"name"`
		Title string `json:"title"`
	}
	cards := []card{}
	for _, c := range s.loader.Cards() {
		cards = append(cards, card{Name: c.Name, Title: c.Title})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"scorecards": cards,
		"count":      len(cards),
	})
}

// Rows returns the rows of one scorecard, filtered by the q, party, state
// and grade query parameters.
func (s *Server) Rows(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "card")
	ds, err := s.dataset(r.Context(), name)
	if errors.Is(err, scorecard.ErrUnknownScorecard) {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "Scorecard not found"})
		return
	}
	if ds == nil {
		log.Error().Err(err).Str("scorecard", name).Msg("Failed to load scorecard")
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	params := r.URL.Query()
	q := scorecard.Query{
		Q:     params.Get("q"),
		Party: params.Get("party"),
		State: params.Get("state"),
		Grade: params.Get("grade"),
	}

	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}
	respondJSON(w, status, page.NewDocument(ds, ds.Filter(q), q, err))
}

// Member returns the detail view of one row.
func (s *Server) Member(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "card")
	ds, err := s.dataset(r.Context(), name)
	if errors.Is(err, scorecard.ErrUnknownScorecard) {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "Scorecard not found"})
		return
	}
	if err != nil {
		respondJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	det, ok := ds.Detail(chi.URLParam(r, "id"))
	if !ok {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "Member not found"})
		return
	}
	respondJSON(w, http.StatusOK, det)
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Debug().Err(err).Msg("Failed to write response")
	}
}

// respondJSON sends data as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("JSON encoding error")
	}
}

// requestLogger logs each request through zerolog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Handled request")
	})
}
