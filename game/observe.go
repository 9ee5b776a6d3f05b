package game

// Observable is the per-player read-only projection of GameState: own hand,
// the table, the trump indicator and counts only for everything hidden. It is
// recomputed fresh on each request and never mutated by the engine.
type Observable struct {
	Player           PlayerID `json:"player"`
	ActingPlayer     PlayerID `json:"acting_player"`
	Hand             []Card   `json:"player_hand"`
	AttackTable      []Card   `json:"attack_table"`
	DefenseTable     []Card   `json:"defense_table"`
	DeckSize         int      `json:"deck_size"`
	VisibleCard      Card     `json:"visible_card"`
	DefenderHasTaken bool     `json:"defender_has_taken"`
	Defender         PlayerID `json:"defender"`
	CardsInOppHand   int      `json:"cards_in_opp_hand"`
}

// Observe projects the state as seen from one seat.
func (gs *GameState) Observe(p PlayerID) Observable {
	hand := make([]Card, len(gs.Hands[p]))
	copy(hand, gs.Hands[p])
	attack := make([]Card, len(gs.AttackTable))
	copy(attack, gs.AttackTable)
	defense := make([]Card, len(gs.DefenseTable))
	copy(defense, gs.DefenseTable)

	return Observable{
		Player:           p,
		ActingPlayer:     gs.ActingPlayer,
		Hand:             hand,
		AttackTable:      attack,
		DefenseTable:     defense,
		DeckSize:         gs.Deck.Len(),
		VisibleCard:      gs.VisibleCard,
		DefenderHasTaken: gs.DefenderHasTaken,
		Defender:         gs.Defender,
		CardsInOppHand:   len(gs.Hands[p.Other()]),
	}
}

// EncodedSize is the fixed width of Encode's output: acting one-hot(2), hand
// bitmap(36), attack bitmap(36), defense bitmap(36), deck size(1), visible
// card bitmap(36), defender-has-taken(1), defender one-hot(2), opponent hand
// count(1).
const EncodedSize = 2 + 3*DeckSize + 1 + DeckSize + 1 + 2 + 1

// Encode flattens the observation into a fixed-shape byte vector. The segment
// order is stable across calls and part of the engine-version contract.
func (o Observable) Encode() []uint8 {
	out := make([]uint8, 0, EncodedSize)
	out = append(out, oneHot(2, int(o.ActingPlayer))...)
	out = append(out, Hand(o.Hand).Bitmap()...)
	out = append(out, Hand(o.AttackTable).Bitmap()...)
	out = append(out, Hand(o.DefenseTable).Bitmap()...)
	out = append(out, uint8(o.DeckSize))
	out = append(out, Hand{o.VisibleCard}.Bitmap()...)
	if o.DefenderHasTaken {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	out = append(out, oneHot(2, int(o.Defender))...)
	out = append(out, uint8(o.CardsInOppHand))
	return out
}

// StateShape reports the encoded observation shape for array consumers.
func StateShape() []int {
	return []int{EncodedSize}
}

func oneHot(size, index int) []uint8 {
	v := make([]uint8, size)
	v[index] = 1
	return v
}
