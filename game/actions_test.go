package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func allActions() ActionList {
	actions := ActionList{StopAttack(), Take()}
	for i := 0; i < DeckSize; i++ {
		card, _ := CardFromIndex(i)
		actions = append(actions, Attack(card))
	}
	for i := 0; i < DeckSize; i++ {
		card, _ := CardFromIndex(i)
		actions = append(actions, Defend(card))
	}
	return actions
}

func TestActionIDRoundTrip(t *testing.T) {
	for _, action := range allActions() {
		back, err := ActionFromID(action.ID())
		require.NoError(t, err)
		require.Equal(t, action, back)
	}

	_, err := ActionFromID(NumActions)
	require.Error(t, err)
	_, err = ActionFromID(-1)
	require.Error(t, err)
}

func TestActionBitmap(t *testing.T) {
	actions := allActions()
	bitmap := actions.Bitmap()
	require.Len(t, bitmap, NumActions)

	back, err := ActionsFromBitmap(bitmap)
	require.NoError(t, err)
	require.Equal(t, actions, back)

	_, err = ActionsFromBitmap(make([]bool, 10))
	require.Error(t, err)
}

func TestActionLabels(t *testing.T) {
	actions := ActionList{
		Attack(Card{Rank: 6, Suit: Spades}),
		Defend(Card{Rank: 14, Suit: Hearts}),
		StopAttack(),
		Take(),
	}
	require.Equal(t, []string{"Attack(6♠)", "Defend(A♥)", "StopAttack", "Take"}, actions.Labels())
	require.Equal(t, []int{2, 38 + Card{Rank: 14, Suit: Hearts}.Index(), 0, 1}, actions.IDs())
}

func TestActionJSON(t *testing.T) {
	t.Run("card actions carry their payload", func(t *testing.T) {
		data, err := json.Marshal(Attack(Card{Rank: 7, Suit: Clubs}))
		require.NoError(t, err)
		require.JSONEq(t, `{"action_type":"Attack","card":{"rank":7,"suit":"Clubs"}}`, string(data))

		var back Action
		require.NoError(t, json.Unmarshal(data, &back))
		require.Equal(t, Attack(Card{Rank: 7, Suit: Clubs}), back)
	})

	t.Run("bare actions omit the card", func(t *testing.T) {
		data, err := json.Marshal(Take())
		require.NoError(t, err)
		require.JSONEq(t, `{"action_type":"Take"}`, string(data))

		var back Action
		require.NoError(t, json.Unmarshal(data, &back))
		require.Equal(t, Take(), back)
	})

	t.Run("rejects malformed actions", func(t *testing.T) {
		var a Action
		require.Error(t, json.Unmarshal([]byte(`{"action_type":"Attack"}`), &a))
		require.Error(t, json.Unmarshal([]byte(`{"action_type":"Fold"}`), &a))
	})
}
