package repository

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// State constants for statekit integration. A repository starts
// uninitialized and becomes indexed only through a successful Init.
const (
	StateUninitialized = "uninitialized"
	StateIndexed       = "indexed"
)

// EventIndexed marks a completed acquisition plus indexing pass.
const EventIndexed = "indexed"

// stateContext carries state data for the repository machine.
type stateContext struct {
	Name string
}

// StateMachine tracks the lifecycle of a repository instance. There is no
// intermediate indexing state exposed to callers; a failed Init leaves the
// machine uninitialized.
type StateMachine struct {
	interpreter *statekit.Interpreter[stateContext]
}

// NewStateMachine builds the two-state repository lifecycle machine.
func NewStateMachine(name string) (*StateMachine, error) {
	builder := statekit.NewMachine[stateContext]("repository-machine").
		WithInitial(statekit.StateID(StateUninitialized)).
		WithContext(stateContext{Name: name})

	builder.State(StateUninitialized).
		On(EventIndexed).Target(StateIndexed).
		Done()

	// Re-indexing keeps the machine in the indexed state.
	builder.State(StateIndexed).
		On(EventIndexed).Target(StateIndexed).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &StateMachine{interpreter: interpreter}, nil
}

// MarkIndexed records a successful acquisition and indexing pass.
func (sm *StateMachine) MarkIndexed() {
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(EventIndexed)})
}

// Current returns the current lifecycle state.
func (sm *StateMachine) Current() string {
	return string(sm.interpreter.State().Value)
}

// IsIndexed reports whether the repository holds a usable plugin list.
func (sm *StateMachine) IsIndexed() bool {
	return sm.Current() == StateIndexed
}
