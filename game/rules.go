package game

// Rules captures the table-size variant knobs that differ between Durak
// house rules. The defaults follow the common two-player game: at most six
// attack cards per round, and never more outstanding attacks than the
// defender holds cards.
type Rules struct {
	// MaxTableSize caps the number of attack cards per round.
	MaxTableSize int `json:"max_table_size"`
	// CapToDefenderHand forbids attacks the defender could not possibly
	// cover: outstanding attacks are limited to the defender's hand size.
	CapToDefenderHand bool `json:"cap_to_defender_hand"`
}

func DefaultRules() Rules {
	return Rules{
		MaxTableSize:      HandSize,
		CapToDefenderHand: true,
	}
}
