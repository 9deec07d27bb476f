package roster

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

type tokenState int

const (
	stateUnquoted tokenState = iota
	stateQuoted
	stateQuoteInQuoted
)

// SplitLine splits a single CSV line on commas that are not enclosed in
// double quotes. Enclosing quotes are dropped, a doubled quote inside a quoted
// section is a literal quote, and every field is trimmed.
//
// Malformed input (an unterminated quote) is split best-effort: the rest of
// the line becomes the last field.
func SplitLine(line string) []string {
	line = strings.TrimRight(line, "\r\n")

	var (
		fields []string
		field  strings.Builder
		state  = stateUnquoted
	)
	flush := func() {
		fields = append(fields, strings.TrimSpace(field.String()))
		field.Reset()
	}

	for _, r := range line {
		switch state {
		case stateUnquoted:
			switch r {
			case ',':
				flush()
			case '"':
				state = stateQuoted
			default:
				field.WriteRune(r)
			}
		case stateQuoted:
			if r == '"' {
				state = stateQuoteInQuoted
			} else {
				field.WriteRune(r)
			}
		case stateQuoteInQuoted:
			switch r {
			case '"':
				field.WriteRune('"')
				state = stateQuoted
			case ',':
				flush()
				state = stateUnquoted
			default:
				field.WriteRune(r)
				state = stateUnquoted
			}
		}
	}
	flush()
	return fields
}

// ParseCSV parses a whole CSV document into records. Quoted fields may span
// lines and rows may have any width. If the document cannot be read as CSV,
// or a quoted field has swallowed whole rows, it is split line by line with
// SplitLine instead so a bad quote only breaks its own line.
func ParseCSV(text string) [][]string {
	text = strings.TrimPrefix(text, "\ufeff")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().
				Err(err).
				Int("records_read", len(records)).
				Msg("CSV reader failed, falling back to line splitting")
			return splitLines(text)
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		records = append(records, record)
	}

	if swallowedRows(records) {
		log.Warn().
			Int("records_read", len(records)).
			Msg("Quoted field spans whole rows, falling back to line splitting")
		return splitLines(text)
	}

	log.Debug().Int("records", len(records)).Msg("Parsed CSV document")
	return records
}

// swallowedRows reports whether a multi-line field contains a continuation
// line as wide as the header row, which means an unbalanced quote pulled
// later rows into one cell.
func swallowedRows(records [][]string) bool {
	if len(records) == 0 || len(records[0]) < 2 {
		return false
	}
	width := len(records[0])
	for _, record := range records[1:] {
		for _, field := range record {
			lines := strings.Split(field, "\n")
			for _, line := range lines[1:] {
				if strings.Count(line, ",")+1 >= width {
					return true
				}
			}
		}
	}
	return false
}

func splitLines(text string) [][]string {
	var records [][]string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, SplitLine(line))
	}
	return records
}
