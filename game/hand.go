package game

import "sort"

// Hand is the set of cards owned by one player. Order is the deterministic
// insertion order; all mutation goes through the turn engine.
type Hand []Card

func (h Hand) Contains(c Card) bool {
	for _, card := range h {
		if card == c {
			return true
		}
	}
	return false
}

// Remove deletes the first occurrence of c, reporting whether it was present.
func (h *Hand) Remove(c Card) bool {
	for i, card := range *h {
		if card == c {
			*h = append((*h)[:i], (*h)[i+1:]...)
			return true
		}
	}
	return false
}

func (h *Hand) Add(cards ...Card) {
	*h = append(*h, cards...)
}

// Sorted returns a copy ordered by suit then rank, for display.
func (h Hand) Sorted() Hand {
	sorted := make(Hand, len(h))
	copy(sorted, h)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Suit != sorted[j].Suit {
			return sorted[i].Suit < sorted[j].Suit
		}
		return sorted[i].Rank < sorted[j].Rank
	})
	return sorted
}

// Bitmap returns a 36-wide one-hot encoding of the hand over card indices.
func (h Hand) Bitmap() []uint8 {
	bitmap := make([]uint8, DeckSize)
	for _, c := range h {
		bitmap[c.Index()] = 1
	}
	return bitmap
}

func (h Hand) copy() Hand {
	c := make(Hand, len(h))
	copy(c, h)
	return c
}

// lowestTrump returns the lowest trump card in the hand, ok=false when the
// hand holds no trump. Used to pick the first attacker at deal time.
func (h Hand) lowestTrump(trump Suit) (Card, bool) {
	var lowest Card
	found := false
	for _, c := range h {
		if c.Suit != trump {
			continue
		}
		if !found || c.Rank < lowest.Rank {
			lowest = c
			found = true
		}
	}
	return lowest, found
}
