package state

import (
	"sync"

	"github.com/acustudio/acu-annotator/internal/spec"
)

// Store is the transactional wrapper around the reducer: it owns the current
// state plus undo/redo snapshot stacks. All calls serialize through a mutex
// so a single Apply is atomic even when adapters share the store across
// goroutines (autosave tick vs. key handling).
//
// History depth is unbounded; snapshots are full deep copies, which is fine
// for a single-document editing session.
type Store struct {
	mu       sync.Mutex
	registry spec.Registry
	state    AppState
	undo     []AppState
	redo     []AppState
}

// NewStore returns a store over a fresh initial state.
func NewStore(reg spec.Registry) *Store {
	return &Store{registry: reg, state: NewAppState()}
}

// Apply runs cmd through the reducer. Either the command fully succeeds
// (snapshot pushed, redo cleared, new state installed) or fully fails
// (state and both history stacks untouched, error surfaced to the caller).
func (st *Store) Apply(cmd Command) (AppState, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	next, err := Reduce(st.state, cmd, st.registry)
	if err != nil {
		return st.state.Clone(), err
	}
	st.undo = append(st.undo, st.state)
	st.redo = nil
	st.state = next
	return st.state.Clone(), nil
}

// Undo restores the most recent snapshot; no-op when history is empty.
func (st *Store) Undo() AppState {
	st.mu.Lock()
	defer st.mu.Unlock()

	if len(st.undo) == 0 {
		return st.state.Clone()
	}
	st.redo = append(st.redo, st.state)
	st.state = st.undo[len(st.undo)-1]
	st.undo = st.undo[:len(st.undo)-1]
	return st.state.Clone()
}

// Redo is the symmetric inverse of Undo; no-op when the redo stack is empty.
func (st *Store) Redo() AppState {
	st.mu.Lock()
	defer st.mu.Unlock()

	if len(st.redo) == 0 {
		return st.state.Clone()
	}
	st.undo = append(st.undo, st.state)
	st.state = st.redo[len(st.redo)-1]
	st.redo = st.redo[:len(st.redo)-1]
	return st.state.Clone()
}

// State returns a snapshot of the current state for display.
func (st *Store) State() AppState {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.Clone()
}

// CanUndo reports whether an undo snapshot is available.
func (st *Store) CanUndo() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.undo) > 0
}

// CanRedo reports whether a redo snapshot is available.
func (st *Store) CanRedo() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.redo) > 0
}

// ClearHistory drops both history stacks, keeping the current state.
func (st *Store) ClearHistory() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.undo = nil
	st.redo = nil
}
