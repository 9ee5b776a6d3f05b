package player

import (
	"testing"

	"github.com/stretchr/testify/require"

	"durak/env"
	"durak/game"
)

func TestRandomStaysInRange(t *testing.T) {
	p := NewRandom(1)
	actions := game.ActionList{
		game.StopAttack(),
		game.Attack(game.Card{Rank: 6, Suit: game.Spades}),
		game.Attack(game.Card{Rank: 10, Suit: game.Hearts}),
	}
	for i := 0; i < 100; i++ {
		index, err := p.ChooseAction(game.Observable{}, actions, nil)
		require.NoError(t, err)
		require.GreaterOrEqual(t, index, 0)
		require.Less(t, index, len(actions))
	}
}

func TestRandomIsReproducible(t *testing.T) {
	actions := game.ActionList{
		game.Take(),
		game.Defend(game.Card{Rank: 7, Suit: game.Clubs}),
		game.Defend(game.Card{Rank: 9, Suit: game.Clubs}),
		game.Defend(game.Card{Rank: 14, Suit: game.Spades}),
	}
	a, b := NewRandom(42), NewRandom(42)
	for i := 0; i < 50; i++ {
		got, err := a.ChooseAction(game.Observable{}, actions, nil)
		require.NoError(t, err)
		want, err := b.ChooseAction(game.Observable{}, actions, nil)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestRandomRejectsEmptyActionList(t *testing.T) {
	_, err := NewRandom(1).ChooseAction(game.Observable{}, nil, nil)
	require.Error(t, err)
}

func TestLowballPlaysCheapestCard(t *testing.T) {
	trumpIndicator := game.Card{Rank: 8, Suit: game.Hearts}
	obs := game.Observable{VisibleCard: trumpIndicator}

	testcases := []struct {
		name    string
		actions game.ActionList
		want    game.Action
	}{
		{
			name: "low rank before high",
			actions: game.ActionList{
				game.Attack(game.Card{Rank: 12, Suit: game.Spades}),
				game.Attack(game.Card{Rank: 7, Suit: game.Clubs}),
			},
			want: game.Attack(game.Card{Rank: 7, Suit: game.Clubs}),
		},
		{
			name: "hoards trumps",
			actions: game.ActionList{
				game.Attack(game.Card{Rank: 6, Suit: game.Hearts}),
				game.Attack(game.Card{Rank: 14, Suit: game.Spades}),
			},
			want: game.Attack(game.Card{Rank: 14, Suit: game.Spades}),
		},
		{
			name: "defends with lowest trump when forced",
			actions: game.ActionList{
				game.Take(),
				game.Defend(game.Card{Rank: 13, Suit: game.Hearts}),
				game.Defend(game.Card{Rank: 9, Suit: game.Hearts}),
			},
			want: game.Defend(game.Card{Rank: 9, Suit: game.Hearts}),
		},
		{
			name:    "takes when no card is playable",
			actions: game.ActionList{game.Take()},
			want:    game.Take(),
		},
	}

	p := NewLowball()
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			index, err := p.ChooseAction(obs, tc.actions, nil)
			require.NoError(t, err)
			require.Equal(t, tc.want, tc.actions[index])
		})
	}
}

func TestBaselinesFinishGames(t *testing.T) {
	players := map[string]env.Player{
		"random":  NewRandom(3),
		"lowball": NewLowball(),
	}
	for name, p := range players {
		t.Run(name, func(t *testing.T) {
			finished := 0
			for seed := uint64(1); seed <= 5; seed++ {
				e := env.New()
				e.Reset(seed)
				r1, r2, err := e.Play(p, NewRandom(seed*31))
				require.NoError(t, err)
				if e.IsDone() {
					finished++
					require.InDelta(t, 0, r1+r2, 1e-9, "rewards are zero-sum")
				}
			}
			require.Greater(t, finished, 0)
		})
	}
}
