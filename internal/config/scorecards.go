package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"scorecard/internal/grade"
	"scorecard/internal/roster"
	"scorecard/internal/source"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// SheetSource says where a scorecard's sheet lives.
type SheetSource struct {
	Kind          source.Kind `yaml:"kind" json:"kind"`
	URL           string      `yaml:"url,omitempty" json:"url,omitempty"`
	SpreadsheetID string      `yaml:"spreadsheet_id,omitempty" json:"spreadsheet_id,omitempty"`
	Range         string      `yaml:"range,omitempty" json:"range,omitempty"`
	Sheet         string      `yaml:"sheet,omitempty" json:"sheet,omitempty"`
}

// Endpoint is the URL an HTTP fetcher requests. A gviz source given only a
// spreadsheet ID gets the standard query URL.
func (s SheetSource) Endpoint() string {
	if s.URL == "" && s.Kind == source.KindGViz && s.SpreadsheetID != "" {
		return source.GVizURL(s.SpreadsheetID, s.Sheet)
	}
	return s.URL
}

func (s SheetSource) Validate() error {
	switch s.Kind {
	case source.KindCSV, source.KindGViz:
		if s.Endpoint() == "" {
			return fmt.Errorf("%s source needs a url", s.Kind)
		}
	case source.KindSheets:
		if s.SpreadsheetID == "" || s.Range == "" {
			return fmt.Errorf("sheets source needs spreadsheet_id and range")
		}
	case "":
		return fmt.Errorf("source kind is required")
	default:
		return fmt.Errorf("unknown source kind %q", s.Kind)
	}
	return nil
}

// merge overlays the non-empty fields of o onto s.
func (s SheetSource) merge(o SheetSource) SheetSource {
	if o.Kind != "" && o.Kind != s.Kind {
		// A different kind makes the preset's location meaningless.
		s = SheetSource{Kind: o.Kind}
	}
	if o.URL != "" {
		s.URL = o.URL
	}
	if o.SpreadsheetID != "" {
		s.SpreadsheetID = o.SpreadsheetID
	}
	if o.Range != "" {
		s.Range = o.Range
	}
	if o.Sheet != "" {
		s.Sheet = o.Sheet
	}
	return s
}

// Scorecard is a fully resolved scorecard definition.
type Scorecard struct {
	Name   string
	Title  string
	Source SheetSource
	Layout roster.Layout
	Table  *grade.Table
	// SortColumn is the key of the column the page orders by initially.
	// Empty keeps sheet order.
	SortColumn string
}

// Entry is one scorecard as written in the YAML file. Any field left out is
// taken from the named preset.
type Entry struct {
	Name       string            `yaml:"name"`
	Title      string            `yaml:"title"`
	Preset     string            `yaml:"preset"`
	Source     *SheetSource      `yaml:"source"`
	Layout     *roster.Layout    `yaml:"layout"`
	MinFields  int               `yaml:"min_fields"`
	Grades     []string          `yaml:"grades"`
	Labels     map[string]string `yaml:"labels"`
	SortColumn string            `yaml:"sort_column"`
}

// File is the top level of the scorecard config file.
type File struct {
	Scorecards []Entry `yaml:"scorecards"`
}

const (
	publishedSenateCSV = "https://docs.google.com/spreadsheets/d/e/2PACX-1vQaiqHpsgzBh1dcGZCqO0GG1cTa6gfArPxuuo4AhYcrlijksH4aqeRnY2r18FeTwa_1jJojRSCHLu-y/pub?gid=0&single=true&output=csv"
	houseSheetID       = "1Kptpi3Rc2DydW4P7hkABFS0IsgOyIoFFixnGBGzNVp4"
)

// Presets returns the built-in scorecards in display order.
func Presets() []Scorecard {
	return []Scorecard{
		{
			Name:   "house-tariff",
			Title:  "House Tariff Messaging Index",
			Source: SheetSource{Kind: source.KindGViz, SpreadsheetID: houseSheetID, Sheet: "Sheet1"},
			Layout: roster.HouseTariff,
			Table:  grade.Standard,
		},
		{
			Name:       "senate-tariff",
			Title:      "Senate Tariff Messaging Index",
			Source:     SheetSource{Kind: source.KindCSV, URL: publishedSenateCSV},
			Layout:     roster.SenateTariff,
			Table:      grade.SenateTariff,
			SortColumn: "overall",
		},
		{
			Name:   "senate-2026",
			Title:  "2026 Senate Scorecard",
			Source: SheetSource{Kind: source.KindCSV, URL: publishedSenateCSV},
			Layout: roster.Senate2026,
			Table:  grade.Standard,
		},
	}
}

// Preset looks up a built-in scorecard by name.
func Preset(name string) (Scorecard, bool) {
	for _, p := range Presets() {
		if p.Name == name {
			return p, true
		}
	}
	return Scorecard{}, false
}

// Load reads the scorecard file at path. A missing file, or a file that
// declares no scorecards, yields the built-in presets.
func Load(path string) ([]Scorecard, error) {
	if path == "" {
		return Presets(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug().Str("path", path).Msg("No scorecard config file, using presets")
			return Presets(), nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if len(f.Scorecards) == 0 {
		log.Debug().Str("path", path).Msg("Config declares no scorecards, using presets")
		return Presets(), nil
	}

	cards := make([]Scorecard, 0, len(f.Scorecards))
	seen := make(map[string]bool)
	for i, e := range f.Scorecards {
		card, err := e.Resolve()
		if err != nil {
			return nil, fmt.Errorf("scorecard %d in %s: %w", i+1, path, err)
		}
		if seen[card.Name] {
			return nil, fmt.Errorf("duplicate scorecard name %q in %s", card.Name, path)
		}
		seen[card.Name] = true
		cards = append(cards, card)
	}

	log.Debug().Str("path", path).Int("scorecards", len(cards)).Msg("Loaded scorecard config")
	return cards, nil
}

// Resolve applies the entry on top of its preset and validates the result.
func (e Entry) Resolve() (Scorecard, error) {
	var card Scorecard
	if e.Preset != "" {
		p, ok := Preset(e.Preset)
		if !ok {
			return Scorecard{}, fmt.Errorf("unknown preset %q", e.Preset)
		}
		card = p
	}

	if e.Name != "" {
		card.Name = e.Name
	}
	if card.Name == "" {
		return Scorecard{}, fmt.Errorf("scorecard name is required")
	}
	if strings.ContainsAny(card.Name, "/ ") {
		return Scorecard{}, fmt.Errorf("scorecard name %q may not contain spaces or slashes", card.Name)
	}
	if e.Title != "" {
		card.Title = e.Title
	}
	if card.Title == "" {
		card.Title = card.Name
	}

	if e.Source != nil {
		card.Source = card.Source.merge(*e.Source)
	}
	if err := card.Source.Validate(); err != nil {
		return Scorecard{}, fmt.Errorf("scorecard %q: %w", card.Name, err)
	}

	if e.Layout != nil {
		card.Layout = *e.Layout
		if card.Layout.Name == "" {
			card.Layout.Name = card.Name
		}
	}
	if e.MinFields > 0 {
		card.Layout.MinFields = e.MinFields
	}
	if err := card.Layout.Validate(); err != nil {
		return Scorecard{}, fmt.Errorf("scorecard %q: %w", card.Name, err)
	}

	table, err := e.table(card.Table)
	if err != nil {
		return Scorecard{}, fmt.Errorf("scorecard %q: %w", card.Name, err)
	}
	card.Table = table

	if e.SortColumn != "" {
		card.SortColumn = e.SortColumn
	}
	if card.SortColumn != "" && card.Layout.Key(card.SortColumn) < 0 {
		return Scorecard{}, fmt.Errorf("scorecard %q: sort column %q is not in the layout", card.Name, card.SortColumn)
	}
	return card, nil
}

// table builds the grade vocabulary: explicit grades replace the preset's
// (and its labels), explicit labels are laid over whatever remains.
func (e Entry) table(base *grade.Table) (*grade.Table, error) {
	if base == nil {
		base = grade.Standard
	}
	if len(e.Grades) == 0 && len(e.Labels) == 0 {
		return base, nil
	}

	order := base.Grades()
	labels := map[string]string{}
	if len(e.Grades) > 0 {
		order = e.Grades
	} else {
		for g, label := range base.Labels() {
			labels[strings.ToUpper(g)] = label
		}
	}
	for g, label := range e.Labels {
		labels[strings.ToUpper(strings.TrimSpace(g))] = label
	}
	return grade.NewTable(order, labels)
}
