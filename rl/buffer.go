// Package rl holds the experience-replay buffer used to feed self-play
// transitions into off-policy training.
package rl

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/rand"

	"durak/env"
	"durak/game"
)

// Experience is one transition from the acting player's perspective.
type Experience struct {
	State    game.Observable `json:"state"`
	ActionID int             `json:"action_id"`
	Reward   float64         `json:"reward"`
	Next     game.Observable `json:"next_state"`
}

// Buffer is a bounded experience store with its own seeded sampling stream.
// Not safe for concurrent use; give each collector goroutine its own buffer.
type Buffer struct {
	experiences []Experience
	capacity    int
	rng         *rand.Rand
}

func NewBuffer(capacity int, seed uint64) *Buffer {
	return &Buffer{
		capacity: capacity,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

func (b *Buffer) Len() int {
	return len(b.experiences)
}

// Add appends a transition, evicting the oldest once at capacity.
func (b *Buffer) Add(experience Experience) {
	if b.capacity > 0 && len(b.experiences) >= b.capacity {
		b.experiences = b.experiences[1:]
	}
	b.experiences = append(b.experiences, experience)
}

// Sample draws n distinct transitions uniformly; n is clamped to the buffer
// size.
func (b *Buffer) Sample(n int) []Experience {
	if n > len(b.experiences) {
		n = len(b.experiences)
	}
	sample := make([]Experience, 0, n)
	for _, idx := range b.rng.Perm(len(b.experiences))[:n] {
		sample = append(sample, b.experiences[idx])
	}
	return sample
}

// Save writes the buffer contents as JSON.
func (b *Buffer) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create experience directory: %w", err)
	}
	data, err := json.Marshal(b.experiences)
	if err != nil {
		return fmt.Errorf("failed to encode experience: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write experience: %w", err)
	}
	return nil
}

// Load replaces the buffer contents with a previously saved file, trimming to
// capacity from the oldest end.
func (b *Buffer) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read experience: %w", err)
	}
	var experiences []Experience
	if err := json.Unmarshal(data, &experiences); err != nil {
		return fmt.Errorf("failed to decode experience: %w", err)
	}
	if b.capacity > 0 && len(experiences) > b.capacity {
		experiences = experiences[len(experiences)-b.capacity:]
	}
	b.experiences = experiences
	return nil
}

// Collect plays one game on the environment and appends one transition per
// step, each seen from the player who moved. The environment must have been
// reset.
func Collect(buffer *Buffer, e *env.Env, p1, p2 env.Player) (float64, float64, error) {
	if e.IsDone() {
		return 0, 0, errors.New("environment is already terminal")
	}
	players := [2]env.Player{p1, p2}

	for steps := 0; !e.IsDone(); steps++ {
		if steps >= env.MaxSteps {
			return 0, 0, fmt.Errorf("game exceeded %d steps", env.MaxSteps)
		}
		acting := e.ActingPlayer()
		state := e.Observe(acting)
		actions := e.LegalActions()

		index, err := players[acting].ChooseAction(state, actions, e.History(acting))
		if err != nil {
			return 0, 0, fmt.Errorf("player %s: %w", acting, err)
		}
		_, reward, _, info, err := e.Step(index)
		if err != nil {
			return 0, 0, err
		}
		buffer.Add(Experience{
			State:    state,
			ActionID: info.Action.ID(),
			Reward:   reward,
			Next:     e.Observe(acting),
		})
	}

	r1, r2 := e.Rewards()
	return r1, r2, nil
}
