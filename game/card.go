package game

import (
	"encoding/json"
	"fmt"
)

// Suit of a card. The numeric values are part of the wire/encoding contract
// and must not be reordered.
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

const (
	MinRank      = 6  // lowest rank in a 36-card deck
	MaxRank      = 14 // ace
	RanksPerSuit = MaxRank - MinRank + 1
	DeckSize     = 4 * RanksPerSuit
	HandSize     = 6 // hands are replenished up to this many cards
)

var suitNames = map[Suit]string{
	Spades:   "Spades",
	Hearts:   "Hearts",
	Diamonds: "Diamonds",
	Clubs:    "Clubs",
}

var suitSymbols = map[Suit]string{
	Spades:   "♠",
	Hearts:   "♥",
	Diamonds: "♦",
	Clubs:    "♣",
}

func (s Suit) String() string {
	return suitSymbols[s]
}

// Name returns the long suit name used in JSON ("Spades", "Hearts", ...).
func (s Suit) Name() string {
	return suitNames[s]
}

func (s Suit) MarshalJSON() ([]byte, error) {
	name, ok := suitNames[s]
	if !ok {
		return nil, fmt.Errorf("invalid suit %d", s)
	}
	return json.Marshal(name)
}

func (s *Suit) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for suit, n := range suitNames {
		if n == name {
			*s = suit
			return nil
		}
	}
	return fmt.Errorf("invalid suit %q", name)
}

// Card is an immutable rank/suit value. Equality is by (rank, suit).
type Card struct {
	Rank uint8 `json:"rank"`
	Suit Suit  `json:"suit"`
}

// Index maps a card to its stable position in 0..35: suit*9 + rank - 6.
func (c Card) Index() int {
	return int(c.Suit)*RanksPerSuit + int(c.Rank) - MinRank
}

// CardFromIndex is the inverse of Index.
func CardFromIndex(i int) (Card, error) {
	if i < 0 || i >= DeckSize {
		return Card{}, fmt.Errorf("card index %d out of range", i)
	}
	return Card{
		Suit: Suit(i / RanksPerSuit),
		Rank: uint8(i%RanksPerSuit) + MinRank,
	}, nil
}

func (c Card) String() string {
	rank := fmt.Sprintf("%d", c.Rank)
	switch c.Rank {
	case 11:
		rank = "J"
	case 12:
		rank = "Q"
	case 13:
		rank = "K"
	case 14:
		rank = "A"
	}
	return rank + c.Suit.String()
}

// Beats reports whether c, played by the defender, beats the attack card
// under the given trump suit: same suit and higher rank, or trump over
// non-trump. A trump attack can only be beaten by a higher trump.
func (c Card) Beats(attack Card, trump Suit) bool {
	if attack.Suit == trump {
		return c.Suit == trump && c.Rank > attack.Rank
	}
	if c.Suit == trump {
		return true
	}
	return c.Suit == attack.Suit && c.Rank > attack.Rank
}
