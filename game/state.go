package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrIllegalAction signals a caller protocol violation: the submitted action
// is not in the current legal-action set. The step is rejected and the state
// left unchanged.
var ErrIllegalAction = errors.New("illegal action")

// GameState is the authoritative, engine-private state of one game. It is
// created once per game, mutated exclusively through Apply, and owned by a
// single environment instance. Engine-internal invariant violations panic;
// caller protocol violations return ErrIllegalAction.
type GameState struct {
	Deck             *Deck
	AttackTable      []Card
	DefenseTable     []Card
	Hands            [2]Hand
	ActingPlayer     PlayerID
	Defender         PlayerID
	VisibleCard      Card
	DefenderHasTaken bool
	Graveyard        []Card
	Rules            Rules
	Turn             int
}

// NewGameState deals a fresh game from the given seed: shuffle, six cards
// each, bottom card face up as the trump indicator. The first attacker is the
// player holding the lowest trump, Player1 when neither does.
func NewGameState(seed uint64, rules Rules) *GameState {
	deck := NewDeck(seed)
	hand1 := Hand(deck.DrawN(HandSize))
	hand2 := Hand(deck.DrawN(HandSize))
	visible, ok := deck.Bottom()
	if !ok {
		panic("deck exhausted during deal")
	}

	attacker := firstAttacker(hand1, hand2, visible.Suit)
	return &GameState{
		Deck:         deck,
		Hands:        [2]Hand{hand1, hand2},
		ActingPlayer: attacker,
		Defender:     attacker.Other(),
		VisibleCard:  visible,
		Rules:        rules,
	}
}

func firstAttacker(hand1, hand2 Hand, trump Suit) PlayerID {
	low1, ok1 := hand1.lowestTrump(trump)
	low2, ok2 := hand2.lowestTrump(trump)
	switch {
	case ok1 && ok2:
		if low1.Rank < low2.Rank {
			return Player1
		}
		return Player2
	case ok1:
		return Player1
	case ok2:
		return Player2
	default:
		return Player1
	}
}

// Attacker returns the round's attacking seat.
func (gs *GameState) Attacker() PlayerID {
	return gs.Defender.Other()
}

// TrumpSuit is the suit of the visible indicator card.
func (gs *GameState) TrumpSuit() Suit {
	return gs.VisibleCard.Suit
}

// NumUndefended counts attack cards not yet matched by a defense card.
func (gs *GameState) NumUndefended() int {
	return len(gs.AttackTable) - len(gs.DefenseTable)
}

// LegalActions enumerates the exhaustive legal-action set for the acting
// player. It is recomputed fresh per call and empty only in terminal states.
func (gs *GameState) LegalActions() ActionList {
	if gs.IsOver() {
		return nil
	}
	if gs.ActingPlayer == gs.Defender {
		return gs.legalDefenses()
	}
	return gs.legalAttacks()
}

func (gs *GameState) legalAttacks() ActionList {
	hand := gs.Hands[gs.Attacker()]

	if len(gs.AttackTable) == 0 {
		actions := make(ActionList, 0, len(hand))
		for _, c := range hand {
			actions = append(actions, Attack(c))
		}
		return actions
	}

	actions := ActionList{StopAttack()}
	if !gs.tableHasRoom() {
		return actions
	}
	ranks := gs.tableRanks()
	for _, c := range hand {
		if ranks[c.Rank] {
			actions = append(actions, Attack(c))
		}
	}
	return actions
}

// tableHasRoom reports whether another attack card may be added this round.
func (gs *GameState) tableHasRoom() bool {
	if len(gs.AttackTable) >= gs.Rules.MaxTableSize {
		return false
	}
	if gs.Rules.CapToDefenderHand && gs.NumUndefended() >= len(gs.Hands[gs.Defender]) {
		return false
	}
	return true
}

func (gs *GameState) tableRanks() map[uint8]bool {
	ranks := make(map[uint8]bool)
	for _, c := range gs.AttackTable {
		ranks[c.Rank] = true
	}
	for _, c := range gs.DefenseTable {
		ranks[c.Rank] = true
	}
	return ranks
}

func (gs *GameState) legalDefenses() ActionList {
	if gs.NumUndefended() == 0 {
		panic("defender acting with no outstanding attack")
	}
	actions := ActionList{Take()}
	oldest := gs.AttackTable[len(gs.DefenseTable)]
	trump := gs.TrumpSuit()
	for _, c := range gs.Hands[gs.Defender] {
		if c.Beats(oldest, trump) {
			actions = append(actions, Defend(c))
		}
	}
	return actions
}

// Apply advances the state machine by one action. The action must come from
// the current LegalActions list; anything else fails the step without
// advancing the game.
func (gs *GameState) Apply(a Action) error {
	if gs.IsOver() {
		return fmt.Errorf("%w: game is over", ErrIllegalAction)
	}
	if !gs.LegalActions().Contains(a) {
		return fmt.Errorf("%w: %s by %s", ErrIllegalAction, a, gs.ActingPlayer)
	}

	switch a.Kind {
	case KindAttack:
		gs.applyAttack(a.Card)
	case KindDefend:
		gs.applyDefend(a.Card)
	case KindTake:
		gs.applyTake()
	case KindStopAttack:
		gs.applyStopAttack()
	default:
		panic(fmt.Sprintf("invalid action kind %d", a.Kind))
	}
	gs.Turn++
	return nil
}

// applyAttack places a card on the attack table. The attacker keeps acting
// until they pass with StopAttack. The first attack of a round clears the
// previous round's take flag, so a take is observable only until the next
// round opens.
func (gs *GameState) applyAttack(c Card) {
	hand := &gs.Hands[gs.Attacker()]
	if !hand.Remove(c) {
		panic(fmt.Sprintf("attack card %s not in attacker hand", c))
	}
	if len(gs.AttackTable) == 0 {
		gs.DefenderHasTaken = false
	}
	gs.AttackTable = append(gs.AttackTable, c)
}

// applyDefend beats the oldest undefended attack card. The round resolves as
// a successful defense once the table cap is reached or the defender runs out
// of cards; otherwise control returns to the attacker when everything on the
// table is matched.
func (gs *GameState) applyDefend(c Card) {
	hand := &gs.Hands[gs.Defender]
	if !hand.Remove(c) {
		panic(fmt.Sprintf("defense card %s not in defender hand", c))
	}
	gs.DefenseTable = append(gs.DefenseTable, c)

	if len(gs.DefenseTable) >= gs.Rules.MaxTableSize || len(*hand) == 0 {
		gs.resolveDefense()
		return
	}
	if gs.NumUndefended() == 0 {
		gs.ActingPlayer = gs.Attacker()
	}
}

// applyTake ends the round in the attacker's favor: the defender picks up the
// whole table and the roles stay as they are. The defender keeps what they
// took and draws nothing.
func (gs *GameState) applyTake() {
	hand := &gs.Hands[gs.Defender]
	hand.Add(gs.AttackTable...)
	hand.Add(gs.DefenseTable...)
	gs.AttackTable = nil
	gs.DefenseTable = nil
	gs.DefenderHasTaken = true
	gs.refill(true)
	gs.ActingPlayer = gs.Attacker()
}

// applyStopAttack either resolves a fully matched table as a successful
// defense or, with attacks still outstanding, hands priority to the defender.
func (gs *GameState) applyStopAttack() {
	if gs.NumUndefended() == 0 && len(gs.DefenseTable) > 0 {
		gs.resolveDefense()
		return
	}
	gs.ActingPlayer = gs.Defender
}

// resolveDefense discards the table face down, swaps the roles and replenishes
// both hands. Must be called before the role swap so the round's attacker
// draws first.
func (gs *GameState) resolveDefense() {
	gs.Graveyard = append(gs.Graveyard, gs.AttackTable...)
	gs.Graveyard = append(gs.Graveyard, gs.DefenseTable...)
	gs.AttackTable = nil
	gs.DefenseTable = nil
	gs.DefenderHasTaken = false
	gs.refill(false)
	gs.Defender = gs.Defender.Other()
	gs.ActingPlayer = gs.Defender.Other()
}

// refill replenishes hands up to six from the deck, attacker first, defender
// last. With skipDefender the defender draws nothing beyond what remains in
// hand.
func (gs *GameState) refill(skipDefender bool) {
	attacker := gs.Attacker()
	for _, p := range []PlayerID{attacker, attacker.Other()} {
		if skipDefender && p == gs.Defender {
			continue
		}
		hand := &gs.Hands[p]
		if missing := HandSize - len(*hand); missing > 0 {
			hand.Add(gs.Deck.DrawN(missing)...)
		}
	}
}

// IsOver reports the terminal condition: deck empty and at least one empty
// hand at a round boundary.
func (gs *GameState) IsOver() bool {
	if len(gs.AttackTable) > 0 || gs.Deck.Len() > 0 {
		return false
	}
	return len(gs.Hands[Player1]) == 0 || len(gs.Hands[Player2]) == 0
}

// Winner returns the winning seat. ok is false while the game is running and
// on a draw (both hands empty).
func (gs *GameState) Winner() (PlayerID, bool) {
	if !gs.IsOver() {
		return 0, false
	}
	empty1 := len(gs.Hands[Player1]) == 0
	empty2 := len(gs.Hands[Player2]) == 0
	switch {
	case empty1 && empty2:
		return 0, false
	case empty1:
		return Player1, true
	default:
		return Player2, true
	}
}

// Rewards returns the terminal reward pair (+1 winner, -1 durak, 0/0 for a
// draw or a running game).
func (gs *GameState) Rewards() (float64, float64) {
	winner, ok := gs.Winner()
	if !ok {
		return 0, 0
	}
	if winner == Player1 {
		return 1, -1
	}
	return -1, 1
}

// Copy deep-copies the state, for history snapshots.
func (gs *GameState) Copy() *GameState {
	// append to a nil slice preserves nilness for empty inputs, keeping the
	// copy JSON-identical to the source (Equal distinguishes null from []).
	attack := append([]Card(nil), gs.AttackTable...)
	defense := append([]Card(nil), gs.DefenseTable...)
	graveyard := append([]Card(nil), gs.Graveyard...)

	return &GameState{
		Deck:             gs.Deck.copy(),
		AttackTable:      attack,
		DefenseTable:     defense,
		Hands:            [2]Hand{gs.Hands[Player1].copy(), gs.Hands[Player2].copy()},
		ActingPlayer:     gs.ActingPlayer,
		Defender:         gs.Defender,
		VisibleCard:      gs.VisibleCard,
		DefenderHasTaken: gs.DefenderHasTaken,
		Graveyard:        graveyard,
		Rules:            gs.Rules,
		Turn:             gs.Turn,
	}
}

// Equal compares two states field by field, deck order included.
func (gs *GameState) Equal(other *GameState) bool {
	if other == nil {
		return false
	}
	a, err := json.Marshal(gs)
	if err != nil {
		return false
	}
	b, err := json.Marshal(other)
	if err != nil {
		return false
	}
	return string(a) == string(b)
}

type gameStateJSON struct {
	Seed             uint64 `json:"seed"`
	Deck             []Card `json:"deck"`
	AttackTable      []Card `json:"attack_table"`
	DefenseTable     []Card `json:"defense_table"`
	Hand1            []Card `json:"hand1"`
	Hand2            []Card `json:"hand2"`
	ActingPlayer     uint8  `json:"acting_player"`
	Defender         uint8  `json:"defender"`
	VisibleCard      Card   `json:"visible_card"`
	DefenderHasTaken bool   `json:"defender_has_taken"`
	Graveyard        []Card `json:"graveyard"`
	Rules            Rules  `json:"rules"`
	Turn             int    `json:"turn"`
}

func (gs *GameState) MarshalJSON() ([]byte, error) {
	return json.Marshal(gameStateJSON{
		Seed:             gs.Deck.Seed(),
		Deck:             gs.Deck.Cards(),
		AttackTable:      gs.AttackTable,
		DefenseTable:     gs.DefenseTable,
		Hand1:            gs.Hands[Player1],
		Hand2:            gs.Hands[Player2],
		ActingPlayer:     uint8(gs.ActingPlayer),
		Defender:         uint8(gs.Defender),
		VisibleCard:      gs.VisibleCard,
		DefenderHasTaken: gs.DefenderHasTaken,
		Graveyard:        gs.Graveyard,
		Rules:            gs.Rules,
		Turn:             gs.Turn,
	})
}

func (gs *GameState) UnmarshalJSON(data []byte) error {
	var in gameStateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	gs.Deck = deckFromCards(in.Deck, in.Seed)
	gs.AttackTable = in.AttackTable
	gs.DefenseTable = in.DefenseTable
	gs.Hands = [2]Hand{Hand(in.Hand1), Hand(in.Hand2)}
	gs.ActingPlayer = PlayerID(in.ActingPlayer)
	gs.Defender = PlayerID(in.Defender)
	gs.VisibleCard = in.VisibleCard
	gs.DefenderHasTaken = in.DefenderHasTaken
	gs.Graveyard = in.Graveyard
	gs.Rules = in.Rules
	gs.Turn = in.Turn
	return nil
}
