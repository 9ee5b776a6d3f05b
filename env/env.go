package env

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"durak/game"
)

// ErrInvalidActionIndex signals an index outside the current action list. The
// step is aborted and the state unchanged.
var ErrInvalidActionIndex = errors.New("action index out of range")

// ErrNotReset is returned when stepping an environment with no active game.
var ErrNotReset = errors.New("environment has not been reset")

// MaxSteps bounds a single game; a well-formed game ends far earlier.
const MaxSteps = 10000

// Player is the decision capability injected into the loop: given the
// player's observation, the legal actions and that player's past
// observations, return an index into the action list.
type Player interface {
	ChooseAction(obs game.Observable, actions game.ActionList, history []game.Observable) (int, error)
}

// TimedAction is one entry of the game's action log.
type TimedAction struct {
	Player    game.PlayerID `json:"player"`
	ActionID  int           `json:"action_id"`
	Timestamp time.Time     `json:"timestamp"`
}

// Info carries per-step metadata alongside the observation.
type Info struct {
	Turn   int           `json:"turn"`
	Mover  game.PlayerID `json:"mover"`
	Action game.Action   `json:"action"`
}

// Env owns one GameState and drives it step by step. An instance is
// single-threaded and fully isolated from other instances: run one Env per
// goroutine for batched self-play.
type Env struct {
	state   *game.GameState
	rules   game.Rules
	seed    uint64
	history []*game.GameState
	actions []TimedAction
	logger  zerolog.Logger
}

type Option func(e *Env)

func WithRules(rules game.Rules) Option {
	return func(e *Env) {
		e.rules = rules
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Env) {
		e.logger = logger
	}
}

func New(options ...Option) *Env {
	e := &Env{
		rules:  game.DefaultRules(),
		logger: log.Logger,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Reset deals a fresh game from the seed and returns the initial observation
// for the starting acting player.
func (e *Env) Reset(seed uint64) game.Observable {
	e.state = game.NewGameState(seed, e.rules)
	e.seed = seed
	e.history = nil
	e.actions = nil
	e.logger.Debug().
		Uint64("seed", seed).
		Stringer("attacker", e.state.Attacker()).
		Stringer("trump", e.state.TrumpSuit()).
		Msg("game reset")
	return e.state.Observe(e.state.ActingPlayer)
}

// ResetRandom seeds from the wall clock and reports the seed it used.
func (e *Env) ResetRandom() (game.Observable, uint64) {
	seed := uint64(time.Now().UnixNano())
	return e.Reset(seed), seed
}

// Seed returns the seed of the current game.
func (e *Env) Seed() uint64 {
	return e.seed
}

// Rules returns the rule variant the environment plays.
func (e *Env) Rules() game.Rules {
	return e.rules
}

// Observe projects the current state for one seat, zero before the first
// reset.
func (e *Env) Observe(p game.PlayerID) game.Observable {
	if e.state == nil {
		return game.Observable{}
	}
	return e.state.Observe(p)
}

// ActingPlayer returns the seat expected to act next, Player1 before the
// first reset.
func (e *Env) ActingPlayer() game.PlayerID {
	if e.state == nil {
		return game.Player1
	}
	return e.state.ActingPlayer
}

// LegalActions recomputes the action list for the current acting player.
func (e *Env) LegalActions() game.ActionList {
	if e.state == nil {
		return nil
	}
	return e.state.LegalActions()
}

// Step resolves index against the fresh action list, applies the action and
// returns the next acting player's observation, the reward delta for the
// player who just moved and the terminal flag.
func (e *Env) Step(index int) (game.Observable, float64, bool, Info, error) {
	if e.state == nil {
		return game.Observable{}, 0, false, Info{}, ErrNotReset
	}
	actions := e.state.LegalActions()
	if index < 0 || index >= len(actions) {
		return game.Observable{}, 0, e.IsDone(), Info{},
			fmt.Errorf("%w: index %d with %d legal actions", ErrInvalidActionIndex, index, len(actions))
	}

	mover := e.state.ActingPlayer
	action := actions[index]
	e.history = append(e.history, e.state.Copy())
	if err := e.state.Apply(action); err != nil {
		e.history = e.history[:len(e.history)-1]
		return game.Observable{}, 0, e.IsDone(), Info{}, fmt.Errorf("apply %s: %w", action, err)
	}
	e.actions = append(e.actions, TimedAction{
		Player:    mover,
		ActionID:  action.ID(),
		Timestamp: time.Now().UTC(),
	})

	done := e.state.IsOver()
	var reward float64
	if done {
		r1, r2 := e.state.Rewards()
		if mover == game.Player1 {
			reward = r1
		} else {
			reward = r2
		}
	}

	e.logger.Debug().
		Int("turn", e.state.Turn).
		Stringer("player", mover).
		Stringer("action", action).
		Bool("done", done).
		Msg("step")

	info := Info{Turn: e.state.Turn, Mover: mover, Action: action}
	return e.state.Observe(e.state.ActingPlayer), reward, done, info, nil
}

// IsDone reports whether the current game reached a terminal state.
func (e *Env) IsDone() bool {
	return e.state != nil && e.state.IsOver()
}

// Rewards returns the terminal reward pair, zeros while the game runs.
func (e *Env) Rewards() (float64, float64) {
	if e.state == nil {
		return 0, 0
	}
	return e.state.Rewards()
}

// Winner returns the winning seat; ok is false while running and on a draw.
func (e *Env) Winner() (game.PlayerID, bool) {
	if e.state == nil {
		return 0, false
	}
	return e.state.Winner()
}

// History returns the player's past observations, oldest first, one per
// applied action, not including the current state.
func (e *Env) History(p game.PlayerID) []game.Observable {
	observations := make([]game.Observable, len(e.history))
	for i, snapshot := range e.history {
		observations[i] = snapshot.Observe(p)
	}
	return observations
}

// ActionLog returns the timestamped actions applied so far.
func (e *Env) ActionLog() []TimedAction {
	entries := make([]TimedAction, len(e.actions))
	copy(entries, e.actions)
	return entries
}

// Snapshot deep-copies the current engine state, for replay persistence.
func (e *Env) Snapshot() *game.GameState {
	if e.state == nil {
		return nil
	}
	return e.state.Copy()
}

// Play drives both player callbacks in turn order until the game is over and
// returns the final reward pair. Player errors are not swallowed; they abort
// the game and propagate. Resets with a clock seed when no game is active.
func (e *Env) Play(p1, p2 Player) (float64, float64, error) {
	if e.state == nil {
		e.ResetRandom()
	}
	players := [2]Player{p1, p2}

	for steps := 0; !e.IsDone(); steps++ {
		if steps >= MaxSteps {
			return 0, 0, fmt.Errorf("game exceeded %d steps", MaxSteps)
		}
		acting := e.state.ActingPlayer
		obs := e.state.Observe(acting)
		actions := e.state.LegalActions()

		index, err := players[acting].ChooseAction(obs, actions, e.History(acting))
		if err != nil {
			return 0, 0, fmt.Errorf("player %s: %w", acting, err)
		}
		if _, _, _, _, err := e.Step(index); err != nil {
			return 0, 0, err
		}
	}

	r1, r2 := e.Rewards()
	if winner, ok := e.Winner(); ok {
		e.logger.Info().Stringer("winner", winner).Int("turns", e.state.Turn).Msg("game over")
	} else {
		e.logger.Info().Int("turns", e.state.Turn).Msg("game drawn")
	}
	return r1, r2, nil
}
