// Package replay persists games as a serialized log of seed, rules and
// timestamped actions, plus a final-state snapshot. Because the engine is
// deterministic, replaying the log reproduces every intermediate state
// exactly.
package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"durak/env"
	"durak/game"
)

// Record is the round-trippable form of a completed or in-progress game.
type Record struct {
	Seed    uint64            `json:"seed"`
	Rules   game.Rules        `json:"rules"`
	Actions []env.TimedAction `json:"actions"`
	Final   *game.GameState   `json:"final_state,omitempty"`
}

// FromEnv snapshots the environment's current game.
func FromEnv(e *env.Env) *Record {
	return &Record{
		Seed:    e.Seed(),
		Rules:   e.Rules(),
		Actions: e.ActionLog(),
		Final:   e.Snapshot(),
	}
}

// Save writes the record as JSON, creating parent directories as needed.
func (r *Record) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create replay directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write replay: %w", err)
	}
	return nil
}

// Load reads a record previously written by Save.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read replay: %w", err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	return &record, nil
}

// Replay re-derives the game from the seed and the logged actions. The
// callback, when non-nil, sees the state after every applied action.
func (r *Record) Replay(visit func(step int, gs *game.GameState)) (*game.GameState, error) {
	gs := game.NewGameState(r.Seed, r.Rules)
	for i, entry := range r.Actions {
		action, err := game.ActionFromID(entry.ActionID)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		if gs.ActingPlayer != entry.Player {
			return nil, fmt.Errorf("step %d: logged player %s, engine expects %s",
				i, entry.Player, gs.ActingPlayer)
		}
		if err := gs.Apply(action); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		if visit != nil {
			visit(i, gs)
		}
	}
	return gs, nil
}

// Verify replays the log and checks the result against the stored final
// snapshot.
func (r *Record) Verify() error {
	final, err := r.Replay(nil)
	if err != nil {
		return err
	}
	if r.Final == nil {
		return nil
	}
	if !final.Equal(r.Final) {
		return fmt.Errorf("replayed state diverges from stored snapshot at turn %d", final.Turn)
	}
	return nil
}
