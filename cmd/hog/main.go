package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/hog/config"
	"github.com/domino14/hog/rules"
	"github.com/domino14/hog/shell"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	log.Logger = log.Output(output)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	r := rules.DefaultRules()
	if cfg.RulesPath != "" {
		var err error
		r, err = rules.Load(cfg.RulesPath)
		if err != nil {
			log.Fatal().Err(err).Msg("loading rules")
		}
	}

	ctrl, err := shell.NewController(cfg, r)
	if err != nil {
		log.Fatal().Err(err).Msg("precomputing distributions")
	}

	ctx := context.Background()
	if cfg.Shell {
		if err := ctrl.Loop(ctx); err != nil {
			log.Fatal().Err(err).Msg("shell")
		}
		return
	}

	// one-shot: solve, print the summary, save the tables
	for _, line := range []string{"solve", "summary", "save"} {
		out, err := ctrl.Execute(ctx, line)
		if err != nil {
			log.Fatal().Err(err).Msgf("running %s", line)
		}
		fmt.Println(out)
	}
}
