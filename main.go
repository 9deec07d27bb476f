package main

import (
	"os"

	"scorecard/cmd"

	"github.com/rs/zerolog/log"
)

func main() {
	setupEnvironment()
	log.Debug().Msg("Starting scorecard")

	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
