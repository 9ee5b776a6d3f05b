package game

import (
	"golang.org/x/exp/rand"
)

// Deck is a seeded, shuffled draw pile. Cards are drawn from the top (the end
// of the slice); the bottom card is the face-up trump indicator and is the
// last card drawn.
type Deck struct {
	cards []Card
	seed  uint64
}

// NewDeck builds all 36 cards and shuffles them with the given seed. The seed
// is recorded for reproducibility.
func NewDeck(seed uint64) *Deck {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range []Suit{Spades, Hearts, Diamonds, Clubs} {
		for rank := uint8(MinRank); rank <= MaxRank; rank++ {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Deck{cards: cards, seed: seed}
}

// Seed returns the shuffle seed the deck was built with.
func (d *Deck) Seed() uint64 {
	return d.seed
}

func (d *Deck) Len() int {
	return len(d.cards)
}

// Bottom returns the face-down pile's bottom card, which doubles as the trump
// indicator. ok is false once the deck is empty.
func (d *Deck) Bottom() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	return d.cards[0], true
}

// Draw removes one card from the top of the deck.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, true
}

// DrawN removes up to n cards from the top, returning fewer if the deck is
// exhausted. Exhaustion is never an error.
func (d *Deck) DrawN(n int) []Card {
	var drawn []Card
	for i := 0; i < n; i++ {
		card, ok := d.Draw()
		if !ok {
			break
		}
		drawn = append(drawn, card)
	}
	return drawn
}

// Cards returns the remaining cards bottom-first. The caller must not mutate
// the returned slice.
func (d *Deck) Cards() []Card {
	return d.cards
}

func (d *Deck) copy() *Deck {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	return &Deck{cards: cards, seed: d.seed}
}

// deckFromCards restores a deck snapshot, bottom-first. Used by replay
// loading.
func deckFromCards(cards []Card, seed uint64) *Deck {
	c := make([]Card, len(cards))
	copy(c, cards)
	return &Deck{cards: c, seed: seed}
}
