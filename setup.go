package main

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// setupEnvironment loads .env and configures the global logger. ENV=production
// switches to JSON lines with unix timestamps and a warn default; otherwise
// logs go to a console writer on stderr, colored when stderr is a terminal.
func setupEnvironment() {
	envErr := godotenv.Load()

	production := os.Getenv("ENV") == "production"
	if production {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		})
	}

	levelStr := strings.ToLower(strings.TrimSpace(os.Getenv("LOGLEVEL")))
	switch level, err := zerolog.ParseLevel(levelStr); {
	case levelStr == "" && production:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case levelStr == "":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case levelStr == "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case err != nil:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	default:
		zerolog.SetGlobalLevel(level)
	}

	// reported only now so the message goes through the configured logger
	if envErr == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found; using the process environment.")
	}
}
