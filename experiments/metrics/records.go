package metrics

import "time"

// PlayerConfig describes one configured player entering a match-up.
type PlayerConfig struct {
	ID   int
	Kind string // "random" or "lowball"
	Seed uint64
}

// GameRecord summarizes one finished self-play game.
type GameRecord struct {
	ID       int
	Seed     uint64
	Player1  int // PlayerConfig.ID in seat 1
	Player2  int // PlayerConfig.ID in seat 2
	Winner   string
	Turns    int
	Reward1  float64
	Reward2  float64
	Duration time.Duration
}

// MoveRecord captures one applied action within a game.
type MoveRecord struct {
	Game     int // GameRecord.ID
	Turn     int
	Player   string
	Action   string
	Legal    int // size of the action list the move was picked from
	DeckSize int
}
