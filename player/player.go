// Package player provides example implementations of the env.Player
// decision interface.
package player

import (
	"errors"

	"golang.org/x/exp/rand"

	"durak/env"
	"durak/game"
)

var _ env.Player = (*Random)(nil)
var _ env.Player = (*Lowball)(nil)

// Random picks uniformly among the legal actions, with its own seeded RNG
// stream so games stay reproducible.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (p *Random) ChooseAction(_ game.Observable, actions game.ActionList, _ []game.Observable) (int, error) {
	if len(actions) == 0 {
		return 0, errors.New("no actions available")
	}
	if len(actions) == 1 {
		return 0, nil
	}
	return p.rng.Intn(len(actions)), nil
}

// Lowball is a greedy baseline: it always plays its cheapest legal card,
// hoarding trumps and high ranks, and otherwise passes or takes.
type Lowball struct{}

func NewLowball() *Lowball {
	return &Lowball{}
}

func (p *Lowball) ChooseAction(obs game.Observable, actions game.ActionList, _ []game.Observable) (int, error) {
	if len(actions) == 0 {
		return 0, errors.New("no actions available")
	}
	trump := obs.VisibleCard.Suit

	best := -1
	for i, a := range actions {
		if a.Kind != game.KindAttack && a.Kind != game.KindDefend {
			continue
		}
		if best == -1 || cheaper(a.Card, actions[best].Card, trump) {
			best = i
		}
	}
	if best >= 0 {
		return best, nil
	}
	// No card worth playing: StopAttack or Take, whichever the phase offers.
	return 0, nil
}

// cheaper orders cards by expendability: non-trumps before trumps, low ranks
// before high.
func cheaper(a, b game.Card, trump game.Suit) bool {
	aTrump := a.Suit == trump
	bTrump := b.Suit == trump
	if aTrump != bTrump {
		return !aTrump
	}
	return a.Rank < b.Rank
}
