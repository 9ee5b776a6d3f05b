package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCardIndexRoundTrip(t *testing.T) {
	for i := 0; i < DeckSize; i++ {
		card, err := CardFromIndex(i)
		require.NoError(t, err)
		require.Equal(t, i, card.Index())
	}

	_, err := CardFromIndex(DeckSize)
	require.Error(t, err)
	_, err = CardFromIndex(-1)
	require.Error(t, err)
}

func TestCardString(t *testing.T) {
	cases := []struct {
		card Card
		want string
	}{
		{Card{Rank: 6, Suit: Spades}, "6♠"},
		{Card{Rank: 10, Suit: Diamonds}, "10♦"},
		{Card{Rank: 11, Suit: Clubs}, "J♣"},
		{Card{Rank: 12, Suit: Hearts}, "Q♥"},
		{Card{Rank: 13, Suit: Spades}, "K♠"},
		{Card{Rank: 14, Suit: Spades}, "A♠"},
	}
	for _, c := range cases {
		if got := c.card.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestBeats(t *testing.T) {
	trump := Spades

	t.Run("higher rank of same suit beats", func(t *testing.T) {
		attack := Card{Rank: 8, Suit: Hearts}
		require.True(t, Card{Rank: 9, Suit: Hearts}.Beats(attack, trump))
		require.False(t, Card{Rank: 7, Suit: Hearts}.Beats(attack, trump))
		require.False(t, Card{Rank: 8, Suit: Hearts}.Beats(attack, trump))
	})

	t.Run("other suit never beats regardless of rank", func(t *testing.T) {
		attack := Card{Rank: 8, Suit: Hearts}
		require.False(t, Card{Rank: 14, Suit: Diamonds}.Beats(attack, trump))
	})

	t.Run("any trump beats non-trump", func(t *testing.T) {
		attack := Card{Rank: 14, Suit: Hearts}
		require.True(t, Card{Rank: 6, Suit: Spades}.Beats(attack, trump))
	})

	t.Run("trump attack only beaten by higher trump", func(t *testing.T) {
		attack := Card{Rank: 10, Suit: Spades}
		require.True(t, Card{Rank: 11, Suit: Spades}.Beats(attack, trump))
		require.False(t, Card{Rank: 9, Suit: Spades}.Beats(attack, trump))
		require.False(t, Card{Rank: 14, Suit: Hearts}.Beats(attack, trump))
	})
}

func TestCardJSON(t *testing.T) {
	card := Card{Rank: 14, Suit: Diamonds}
	data, err := json.Marshal(card)
	require.NoError(t, err)
	require.JSONEq(t, `{"rank":14,"suit":"Diamonds"}`, string(data))

	var back Card
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, card, back)

	var bad Card
	require.Error(t, json.Unmarshal([]byte(`{"rank":6,"suit":"Cups"}`), &bad))
}

func TestDeck(t *testing.T) {
	t.Run("36 unique cards", func(t *testing.T) {
		deck := NewDeck(7)
		require.Equal(t, DeckSize, deck.Len())
		seen := map[Card]bool{}
		for _, c := range deck.Cards() {
			seen[c] = true
		}
		require.Len(t, seen, DeckSize)
	})

	t.Run("same seed same order", func(t *testing.T) {
		a, b := NewDeck(99), NewDeck(99)
		require.Equal(t, a.Cards(), b.Cards())
	})

	t.Run("draw comes from the top, bottom drawn last", func(t *testing.T) {
		deck := NewDeck(3)
		bottom, ok := deck.Bottom()
		require.True(t, ok)

		var last Card
		for deck.Len() > 0 {
			c, ok := deck.Draw()
			require.True(t, ok)
			last = c
		}
		require.Equal(t, bottom, last)

		_, ok = deck.Draw()
		require.False(t, ok)
	})

	t.Run("draw n never errors on exhaustion", func(t *testing.T) {
		deck := NewDeck(5)
		drawn := deck.DrawN(40)
		require.Len(t, drawn, DeckSize)
		require.Empty(t, deck.DrawN(3))
	})
}
