package main

import (
	"fmt"
	"net/http"
	"os"

	envconfig "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"durak/experiments"
	"durak/experiments/metrics"
	"durak/server"
)

type config struct {
	Addr        string `env:"DURAK_ADDR" envDefault:":8080"`
	Games       int    `env:"DURAK_GAMES" envDefault:"100"`
	BaseSeed    uint64 `env:"DURAK_SEED" envDefault:"1"`
	Parallelism int    `env:"DURAK_PARALLELISM" envDefault:"8"`
	OutDir      string `env:"DURAK_OUT_DIR" envDefault:"results"`
	SaveReplays bool   `env:"DURAK_SAVE_REPLAYS" envDefault:"false"`
	LogLevel    string `env:"DURAK_LOG_LEVEL" envDefault:"info"`
}

func main() {
	_ = godotenv.Load()

	var cfg config
	if err := envconfig.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "bad configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad log level %q: %v\n", cfg.LogLevel, err)
		os.Exit(1)
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	command := "selfplay"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "selfplay":
		err = runSelfplay(cfg)
	case "serve":
		err = runServer(cfg)
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [selfplay|serve]\n", os.Args[0])
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("command failed")
	}
}

// runSelfplay plays the baseline players against each other in batch and
// stores game, move and configuration records under OutDir.
func runSelfplay(cfg config) error {
	random1 := metrics.PlayerConfig{ID: 1, Kind: "random", Seed: cfg.BaseSeed}
	random2 := metrics.PlayerConfig{ID: 2, Kind: "random", Seed: cfg.BaseSeed + 1}
	lowball := metrics.PlayerConfig{ID: 3, Kind: "lowball"}

	matchUps := []experiments.Matchup{
		{Player1: random1, Player2: random2},
		{Player1: random1, Player2: lowball},
		{Player1: lowball, Player2: random2},
	}

	return experiments.Run(experiments.Config{
		Games:       cfg.Games,
		BaseSeed:    cfg.BaseSeed,
		Parallelism: cfg.Parallelism,
		OutDir:      cfg.OutDir,
		SaveReplays: cfg.SaveReplays,
	}, matchUps)
}

func runServer(cfg config) error {
	s := server.New(server.WithLogger(log.Logger))
	log.Info().Str("addr", cfg.Addr).Msg("serving games")
	return http.ListenAndServe(cfg.Addr, s.Router())
}
