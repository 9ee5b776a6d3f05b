package game

// PlayerID identifies one of the two seats.
type PlayerID uint8

const (
	Player1 PlayerID = iota
	Player2
)

// Other returns the opposing seat.
func (p PlayerID) Other() PlayerID {
	if p == Player1 {
		return Player2
	}
	return Player1
}

func (p PlayerID) String() string {
	if p == Player1 {
		return "Player1"
	}
	return "Player2"
}
