// Package wizard runs multi-step conversations as named-state machines whose
// state lives in the persisted session between turns.
package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lacasita/telegram-bot-go/internal/model"
	"github.com/lacasita/telegram-bot-go/internal/reply"
)

var (
	ErrUnknownState      = errors.New("unknown wizard state")
	ErrTransitionDenied  = errors.New("transition not allowed")
	ErrHopLimit          = errors.New("wizard exceeded hop limit")
	ErrNoNextState       = errors.New("no state after the last one")
	ErrSceneMismatch     = errors.New("session belongs to another scene")
	ErrUnknownScene      = errors.New("unknown wizard scene")
	ErrInvalidDefinition = errors.New("invalid wizard definition")
)

// Event is the part of an inbound update a step may look at
type Event struct {
	Text     string
	Callback string
	Edited   bool
}

// IsCommand reports whether the text is a slash command
func (e Event) IsCommand() bool {
	return strings.HasPrefix(strings.TrimSpace(e.Text), "/")
}

// Input bundles what a turn hands to a scene
type Input struct {
	Event Event
	User  *model.User
	Reply *reply.Outbox
}

// Context is what a step handler works with. Data is a private copy; it is
// persisted only when the handler returns without error.
type Context[T any] struct {
	State StateID
	Event Event
	Data  *T
	User  *model.User
	Reply *reply.Outbox
}

// Handler processes one event in a state
type Handler[T any] func(ctx context.Context, c *Context[T]) (Transition, error)

// Hook runs on scene entry or cancellation
type Hook[T any] func(ctx context.Context, c *Context[T]) error

// Step is a named state with its handler and the states it may move to with
// Jump, Reenter or Satisfied.
type Step[T any] struct {
	ID      StateID
	Handle  Handler[T]
	Allowed []StateID
}

// Result describes where a turn left the wizard
type Result struct {
	// State is nil once the wizard has left or been cancelled.
	State     *model.WizardState
	Cancelled bool
	// Satisfied lists states skipped because their data was already present.
	Satisfied []StateID
}

// Done reports whether the wizard has ended
func (r Result) Done() bool { return r.State == nil }

// Runner is the type-erased view of a scene used by the bot
type Runner interface {
	ID() string
	Enter(ctx context.Context, in Input) (Result, error)
	Handle(ctx context.Context, st model.WizardState, in Input) (Result, error)
}

// Scene is an immutable wizard definition over working data T
type Scene[T any] struct {
	id       string
	steps    []Step[T]
	index    map[StateID]int
	onEnter  Hook[T]
	onCancel Hook[T]
}

// Option configures a scene
type Option[T any] func(*Scene[T])

// OnEnter sets the prompt sent when the scene starts
func OnEnter[T any](h Hook[T]) Option[T] {
	return func(s *Scene[T]) { s.onEnter = h }
}

// OnCancel sets the hook run once when a step returns Cancel
func OnCancel[T any](h Hook[T]) Option[T] {
	return func(s *Scene[T]) { s.onCancel = h }
}

// NewScene validates and builds a scene. State ids must be unique and every
// allowed target must be declared.
func NewScene[T any](id string, steps []Step[T], opts ...Option[T]) (*Scene[T], error) {
	if id == "" || len(steps) == 0 {
		return nil, fmt.Errorf("%w: scene needs an id and at least one step", ErrInvalidDefinition)
	}
	s := &Scene[T]{
		id:    id,
		steps: slices.Clone(steps),
		index: make(map[StateID]int, len(steps)),
	}
	for i, step := range s.steps {
		if step.Handle == nil {
			return nil, fmt.Errorf("%w: %s/%s has no handler", ErrInvalidDefinition, id, step.ID)
		}
		if _, dup := s.index[step.ID]; dup {
			return nil, fmt.Errorf("%w: %s/%s declared twice", ErrInvalidDefinition, id, step.ID)
		}
		s.index[step.ID] = i
	}
	for _, step := range s.steps {
		for _, target := range step.Allowed {
			if _, ok := s.index[target]; !ok {
				return nil, fmt.Errorf("%w: %s/%s allows unknown state %s", ErrInvalidDefinition, id, step.ID, target)
			}
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MustScene is NewScene for package-level definitions
func MustScene[T any](id string, steps []Step[T], opts ...Option[T]) *Scene[T] {
	s, err := NewScene(id, steps, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// ID returns the scene id
func (s *Scene[T]) ID() string { return s.id }

// States returns the declared state ids in order
func (s *Scene[T]) States() []StateID {
	ids := make([]StateID, len(s.steps))
	for i, step := range s.steps {
		ids[i] = step.ID
	}
	return ids
}

// Enter starts the scene with zero-valued data at the first state
func (s *Scene[T]) Enter(ctx context.Context, in Input) (Result, error) {
	var data T
	c := s.newContext(s.steps[0].ID, &data, in)
	if s.onEnter != nil {
		if err := s.onEnter(ctx, c); err != nil {
			return Result{}, fmt.Errorf("enter %s: %w", s.id, err)
		}
	}
	return s.persist(s.steps[0].ID, &data)
}

// Handle runs the current state's handler and follows same-turn transitions.
// On any error the returned Result is zero and the caller keeps its previous state.
func (s *Scene[T]) Handle(ctx context.Context, st model.WizardState, in Input) (Result, error) {
	if st.SceneID != s.id {
		return Result{}, fmt.Errorf("%w: %s != %s", ErrSceneMismatch, st.SceneID, s.id)
	}
	idx, ok := s.index[StateID(st.Cursor)]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s/%s", ErrUnknownState, s.id, st.Cursor)
	}

	var data T
	if len(st.Data) > 0 {
		if err := json.Unmarshal(st.Data, &data); err != nil {
			return Result{}, fmt.Errorf("decode %s data: %w", s.id, err)
		}
	}

	c := s.newContext(s.steps[idx].ID, &data, in)
	var satisfied []StateID

	for hops := 0; hops < len(s.steps); hops++ {
		step := s.steps[idx]
		c.State = step.ID

		tr, err := step.Handle(ctx, c)
		if err != nil {
			return Result{}, fmt.Errorf("%s/%s: %w", s.id, step.ID, err)
		}

		if tr.needsTarget() && !slices.Contains(step.Allowed, tr.target) {
			return Result{}, fmt.Errorf("%w: %s/%s -> %s", ErrTransitionDenied, s.id, step.ID, tr)
		}

		switch tr.kind {
		case kindStay:
			return s.persistWith(step.ID, &data, satisfied)
		case kindAdvance:
			if idx+1 >= len(s.steps) {
				return Result{}, fmt.Errorf("%w: %s/%s", ErrNoNextState, s.id, step.ID)
			}
			return s.persistWith(s.steps[idx+1].ID, &data, satisfied)
		case kindJump:
			return s.persistWith(tr.target, &data, satisfied)
		case kindReenter:
			idx = s.index[tr.target]
		case kindSatisfied:
			satisfied = append(satisfied, step.ID)
			idx = s.index[tr.target]
		case kindLeave:
			return Result{Satisfied: satisfied}, nil
		case kindCancel:
			if s.onCancel != nil {
				if err := s.onCancel(ctx, c); err != nil {
					return Result{}, fmt.Errorf("cancel %s: %w", s.id, err)
				}
			}
			return Result{Cancelled: true, Satisfied: satisfied}, nil
		}
	}

	return Result{}, fmt.Errorf("%w: %s after %d hops", ErrHopLimit, s.id, len(s.steps))
}

func (s *Scene[T]) newContext(state StateID, data *T, in Input) *Context[T] {
	return &Context[T]{
		State: state,
		Event: in.Event,
		Data:  data,
		User:  in.User,
		Reply: in.Reply,
	}
}

func (s *Scene[T]) persist(cursor StateID, data *T) (Result, error) {
	return s.persistWith(cursor, data, nil)
}

func (s *Scene[T]) persistWith(cursor StateID, data *T, satisfied []StateID) (Result, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Result{}, fmt.Errorf("encode %s data: %w", s.id, err)
	}
	return Result{
		State:     &model.WizardState{SceneID: s.id, Cursor: string(cursor), Data: raw},
		Satisfied: satisfied,
	}, nil
}

// Registry maps scene ids to runners
type Registry struct {
	scenes map[string]Runner
}

// NewRegistry builds a registry from runners
func NewRegistry(runners ...Runner) *Registry {
	r := &Registry{scenes: make(map[string]Runner, len(runners))}
	for _, runner := range runners {
		r.scenes[runner.ID()] = runner
	}
	return r
}

// Lookup returns the runner for a scene id
func (r *Registry) Lookup(id string) (Runner, error) {
	runner, ok := r.scenes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScene, id)
	}
	return runner, nil
}
