// Package statemachine implements a stateless finite transition table.
//
// Unlike a classic state machine instance that tracks its own current
// state, the table is consulted per record: callers pass the state read
// from storage and receive the state an event leads to. This makes a
// single table safe to share across every record it governs.
package statemachine

import "sync"

// State represents a state in the transition table.
type State interface {
	Name() string
}

// Event represents an event that can trigger a state transition.
type Event interface {
	Name() string
}

// StringState provides a simple string-based State implementation.
type StringState string

func (s StringState) Name() string {
	return string(s)
}

// StringEvent provides a simple string-based Event implementation.
type StringEvent string

func (e StringEvent) Name() string {
	return string(e)
}

// Machine is a thread-safe transition table. Nested maps give O(1)
// lookups: [fromState][event] -> toState.
type Machine struct {
	mu          sync.RWMutex
	transitions map[string]map[string]State
}

// New returns an empty transition table.
func New() *Machine {
	return &Machine{
		transitions: make(map[string]map[string]State),
	}
}

// AddTransition registers that event moves records from one state to another.
// Registering the same from/event pair twice overwrites the earlier target.
func (m *Machine) AddTransition(from State, event Event, to State) error {
	if from == nil || to == nil || event == nil {
		return ErrInvalidTransition
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	fromName := from.Name()
	if _, ok := m.transitions[fromName]; !ok {
		m.transitions[fromName] = make(map[string]State)
	}
	m.transitions[fromName][event.Name()] = to
	return nil
}

// Next returns the state that event leads to from the given state.
// Returns ErrNoTransitionAvailable when the table has no such edge.
func (m *Machine) Next(from State, event Event) (State, error) {
	if from == nil || event == nil {
		return nil, ErrInvalidTransition
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	events, ok := m.transitions[from.Name()]
	if !ok {
		return nil, NewErrNoTransitionAvailable(from.Name(), event.Name())
	}
	to, ok := events[event.Name()]
	if !ok {
		return nil, NewErrNoTransitionAvailable(from.Name(), event.Name())
	}
	return to, nil
}

// Can reports whether event is legal from the given state.
func (m *Machine) Can(from State, event Event) bool {
	_, err := m.Next(from, event)
	return err == nil
}
