// Package experiments runs batched self-play match-ups between configured
// players and stores per-game and per-move records as CSV.
package experiments

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"durak/env"
	"durak/experiments/metrics"
	"durak/player"
	"durak/replay"
)

type Config struct {
	Games       int    // per match-up
	BaseSeed    uint64 // game i is dealt with BaseSeed+i
	Parallelism int    // concurrent games; each gets its own Env
	OutDir      string
	SaveReplays bool
}

type Matchup struct {
	Player1 metrics.PlayerConfig
	Player2 metrics.PlayerConfig
}

type job struct {
	id      int
	seed    uint64
	matchup Matchup
}

type result struct {
	game  metrics.GameRecord
	moves []metrics.MoveRecord
	rec   *replay.Record
	err   error
}

func newPlayer(config metrics.PlayerConfig, offset uint64) (env.Player, error) {
	switch config.Kind {
	case "random":
		return player.NewRandom(config.Seed + offset), nil
	case "lowball":
		return player.NewLowball(), nil
	}
	return nil, fmt.Errorf("unknown player kind %q", config.Kind)
}

// Run executes every match-up and writes the collected records. Games run on
// a bounded pool of goroutines; environments are never shared.
func Run(config Config, matchUps []Matchup) error {
	writer, err := metrics.NewWriter(config.OutDir)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	seen := map[int]bool{}
	var configs []metrics.PlayerConfig
	for _, m := range matchUps {
		for _, c := range []metrics.PlayerConfig{m.Player1, m.Player2} {
			if !seen[c.ID] {
				seen[c.ID] = true
				configs = append(configs, c)
			}
		}
	}
	if err := writer.WritePlayerConfigs(configs); err != nil {
		return fmt.Errorf("failed to store player configs: %w", err)
	}

	jobs := make(chan job)
	results := make(chan result, config.Games*len(matchUps))

	parallelism := config.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < parallelism; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- runGame(j, config.SaveReplays)
			}
		}()
	}

	log.Info().Int("matchups", len(matchUps)).Int("games", config.Games).
		Msg("starting self-play experiment")

	id := 0
	for _, matchup := range matchUps {
		log.Info().
			Interface("player1", matchup.Player1).
			Interface("player2", matchup.Player2).
			Msg("starting matchup")
		for i := 0; i < config.Games; i++ {
			jobs <- job{id: id, seed: config.BaseSeed + uint64(id), matchup: matchup}
			id++
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	var gameRecords []metrics.GameRecord
	var moveRecords []metrics.MoveRecord
	for r := range results {
		if r.err != nil {
			return r.err
		}
		gameRecords = append(gameRecords, r.game)
		moveRecords = append(moveRecords, r.moves...)
		if r.rec != nil {
			path := filepath.Join(writer.Dir(), "replays", fmt.Sprintf("game_%d.json", r.game.ID))
			if err := r.rec.Save(path); err != nil {
				return err
			}
		}
	}
	sort.Slice(gameRecords, func(i, j int) bool { return gameRecords[i].ID < gameRecords[j].ID })
	sort.Slice(moveRecords, func(i, j int) bool {
		if moveRecords[i].Game != moveRecords[j].Game {
			return moveRecords[i].Game < moveRecords[j].Game
		}
		return moveRecords[i].Turn < moveRecords[j].Turn
	})

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to store game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return fmt.Errorf("failed to store move records: %w", err)
	}

	log.Info().Str("dir", writer.Dir()).Int("games", len(gameRecords)).
		Msg("finished self-play experiment")
	return nil
}

func runGame(j job, saveReplay bool) result {
	e := env.New()
	e.Reset(j.seed)

	p1, err := newPlayer(j.matchup.Player1, uint64(j.id))
	if err != nil {
		return result{err: err}
	}
	p2, err := newPlayer(j.matchup.Player2, uint64(j.id))
	if err != nil {
		return result{err: err}
	}
	players := [2]env.Player{p1, p2}

	start := time.Now()
	var moves []metrics.MoveRecord
	for steps := 0; !e.IsDone(); steps++ {
		if steps >= env.MaxSteps {
			return result{err: fmt.Errorf("game %d exceeded %d steps", j.id, env.MaxSteps)}
		}
		acting := e.ActingPlayer()
		actions := e.LegalActions()
		index, err := players[acting].ChooseAction(e.Observe(acting), actions, e.History(acting))
		if err != nil {
			return result{err: fmt.Errorf("game %d player %s: %w", j.id, acting, err)}
		}
		obs, _, _, info, err := e.Step(index)
		if err != nil {
			return result{err: fmt.Errorf("game %d: %w", j.id, err)}
		}
		moves = append(moves, metrics.MoveRecord{
			Game:     j.id,
			Turn:     info.Turn,
			Player:   info.Mover.String(),
			Action:   info.Action.String(),
			Legal:    len(actions),
			DeckSize: obs.DeckSize,
		})
	}

	winner := "draw"
	if w, ok := e.Winner(); ok {
		winner = w.String()
	}
	r1, r2 := e.Rewards()
	res := result{
		game: metrics.GameRecord{
			ID:       j.id,
			Seed:     j.seed,
			Player1:  j.matchup.Player1.ID,
			Player2:  j.matchup.Player2.ID,
			Winner:   winner,
			Turns:    len(moves),
			Reward1:  r1,
			Reward2:  r2,
			Duration: time.Since(start),
		},
		moves: moves,
	}
	if saveReplay {
		res.rec = replay.FromEnv(e)
	}
	return res
}
