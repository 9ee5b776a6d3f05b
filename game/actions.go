package game

import (
	"encoding/json"
	"fmt"
)

// ActionKind discriminates the closed set of action variants.
type ActionKind uint8

const (
	KindStopAttack ActionKind = iota
	KindTake
	KindAttack
	KindDefend
)

// Global action-space layout, stable per engine version: StopAttack=0, Take=1,
// Attack(card)=2+card index, Defend(card)=38+card index.
const (
	idStopAttack = 0
	idTake       = 1
	idAttackBase = 2
	idDefendBase = idAttackBase + DeckSize

	// NumActions is the fixed width of the global action space.
	NumActions = 2 + 2*DeckSize
)

// Action is a tagged variant: Attack and Defend carry a card payload,
// StopAttack and Take do not.
type Action struct {
	Kind ActionKind
	Card Card
}

func StopAttack() Action {
	return Action{Kind: KindStopAttack}
}

func Take() Action {
	return Action{Kind: KindTake}
}

func Attack(c Card) Action {
	return Action{Kind: KindAttack, Card: c}
}

func Defend(c Card) Action {
	return Action{Kind: KindDefend, Card: c}
}

// ID returns the action's stable position in the global action space.
func (a Action) ID() int {
	switch a.Kind {
	case KindStopAttack:
		return idStopAttack
	case KindTake:
		return idTake
	case KindAttack:
		return idAttackBase + a.Card.Index()
	case KindDefend:
		return idDefendBase + a.Card.Index()
	}
	panic(fmt.Sprintf("invalid action kind %d", a.Kind))
}

// ActionFromID is the inverse of ID.
func ActionFromID(id int) (Action, error) {
	switch {
	case id == idStopAttack:
		return StopAttack(), nil
	case id == idTake:
		return Take(), nil
	case id >= idAttackBase && id < idDefendBase:
		card, err := CardFromIndex(id - idAttackBase)
		if err != nil {
			return Action{}, err
		}
		return Attack(card), nil
	case id >= idDefendBase && id < NumActions:
		card, err := CardFromIndex(id - idDefendBase)
		if err != nil {
			return Action{}, err
		}
		return Defend(card), nil
	}
	return Action{}, fmt.Errorf("action id %d out of range", id)
}

// String renders the stable action label, e.g. "Attack(6♠)" or "Take".
func (a Action) String() string {
	switch a.Kind {
	case KindStopAttack:
		return "StopAttack"
	case KindTake:
		return "Take"
	case KindAttack:
		return fmt.Sprintf("Attack(%s)", a.Card)
	case KindDefend:
		return fmt.Sprintf("Defend(%s)", a.Card)
	}
	return "Invalid"
}

type actionJSON struct {
	ActionType string `json:"action_type"`
	Card       *Card  `json:"card,omitempty"`
}

func (a Action) MarshalJSON() ([]byte, error) {
	out := actionJSON{}
	switch a.Kind {
	case KindStopAttack:
		out.ActionType = "StopAttack"
	case KindTake:
		out.ActionType = "Take"
	case KindAttack:
		out.ActionType = "Attack"
		card := a.Card
		out.Card = &card
	case KindDefend:
		out.ActionType = "Defend"
		card := a.Card
		out.Card = &card
	default:
		return nil, fmt.Errorf("invalid action kind %d", a.Kind)
	}
	return json.Marshal(out)
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var in actionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.ActionType {
	case "StopAttack":
		*a = StopAttack()
	case "Take":
		*a = Take()
	case "Attack", "Defend":
		if in.Card == nil {
			return fmt.Errorf("%s action requires a card", in.ActionType)
		}
		if in.ActionType == "Attack" {
			*a = Attack(*in.Card)
		} else {
			*a = Defend(*in.Card)
		}
	default:
		return fmt.Errorf("invalid action type %q", in.ActionType)
	}
	return nil
}

// ActionList is the ordered legal-action set for the acting player. Index
// positions are stable for the state the list was generated from and are the
// currency of the environment's Step contract.
type ActionList []Action

func (al ActionList) Contains(a Action) bool {
	for _, action := range al {
		if action == a {
			return true
		}
	}
	return false
}

// Labels returns the stable string label per action.
func (al ActionList) Labels() []string {
	labels := make([]string, len(al))
	for i, a := range al {
		labels[i] = a.String()
	}
	return labels
}

// IDs returns the parallel global action ids.
func (al ActionList) IDs() []int {
	ids := make([]int, len(al))
	for i, a := range al {
		ids[i] = a.ID()
	}
	return ids
}

// Bitmap marks the currently legal global action ids in a fixed-width mask.
func (al ActionList) Bitmap() []bool {
	bitmap := make([]bool, NumActions)
	for _, a := range al {
		bitmap[a.ID()] = true
	}
	return bitmap
}

// ActionsFromBitmap rebuilds an action list from a global-space mask, in id
// order.
func ActionsFromBitmap(bitmap []bool) (ActionList, error) {
	if len(bitmap) != NumActions {
		return nil, fmt.Errorf("bitmap length %d, want %d", len(bitmap), NumActions)
	}
	var actions ActionList
	for id, set := range bitmap {
		if !set {
			continue
		}
		action, err := ActionFromID(id)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}
