package wizard

import "fmt"

// StateID names a wizard state
type StateID string

type transitionKind int

const (
	kindStay transitionKind = iota
	kindAdvance
	kindJump
	kindReenter
	kindSatisfied
	kindLeave
	kindCancel
)

var kindNames = map[transitionKind]string{
	kindStay:      "stay",
	kindAdvance:   "advance",
	kindJump:      "jump",
	kindReenter:   "reenter",
	kindSatisfied: "satisfied",
	kindLeave:     "leave",
	kindCancel:    "cancel",
}

// Transition is the outcome of a step handler
type Transition struct {
	kind   transitionKind
	target StateID
}

// Stay keeps the cursor where it is; the user is asked again.
func Stay() Transition { return Transition{kind: kindStay} }

// Advance moves the cursor to the next declared state.
func Advance() Transition { return Transition{kind: kindAdvance} }

// Jump moves the cursor to target. The target handler runs on the next event.
func Jump(target StateID) Transition { return Transition{kind: kindJump, target: target} }

// Reenter moves the cursor to target and runs its handler in the same turn.
func Reenter(target StateID) Transition { return Transition{kind: kindReenter, target: target} }

// Satisfied reports that the current state's data is already present and
// proceeds to target within the same turn.
func Satisfied(target StateID) Transition { return Transition{kind: kindSatisfied, target: target} }

// Leave ends the wizard and clears its state.
func Leave() Transition { return Transition{kind: kindLeave} }

// Cancel ends the wizard and runs the scene's cancellation hook.
func Cancel() Transition { return Transition{kind: kindCancel} }

// Target returns the destination state for Jump, Reenter and Satisfied.
func (t Transition) Target() StateID { return t.target }

func (t Transition) needsTarget() bool {
	return t.kind == kindJump || t.kind == kindReenter || t.kind == kindSatisfied
}

func (t Transition) String() string {
	if t.needsTarget() {
		return fmt.Sprintf("%s(%s)", kindNames[t.kind], t.target)
	}
	return kindNames[t.kind]
}
