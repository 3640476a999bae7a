package state

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(newRegistry(t))
}

func TestApplyPushesHistory(t *testing.T) {
	store := newStore(t)
	assert.False(t, store.CanUndo())
	assert.False(t, store.CanRedo())

	st, err := store.Apply(NewSection{Name: "S1"})
	require.NoError(t, err)
	assert.Len(t, st.Sections, 1)
	assert.True(t, store.CanUndo())
	assert.False(t, store.CanRedo())
}

func TestUndoRedoRoundTrip(t *testing.T) {
	store := newStore(t)

	const n = 5
	for i := 0; i < n; i++ {
		_, err := store.Apply(NewSection{Name: fmt.Sprintf("S%d", i+1)})
		require.NoError(t, err)
	}
	require.Len(t, store.State().Sections, n)

	for i := n - 1; i >= 0; i-- {
		st := store.Undo()
		assert.Len(t, st.Sections, i)
	}
	assert.False(t, store.CanUndo())
	assert.True(t, store.CanRedo())

	for i := 1; i <= n; i++ {
		st := store.Redo()
		assert.Len(t, st.Sections, i)
	}
	assert.False(t, store.CanRedo())
}

func TestRedoClearedByNewApply(t *testing.T) {
	store := newStore(t)

	_, err := store.Apply(NewSection{Name: "S1"})
	require.NoError(t, err)
	_, err = store.Apply(NewSection{Name: "S2"})
	require.NoError(t, err)

	store.Undo()
	require.True(t, store.CanRedo())

	_, err = store.Apply(NewSection{Name: "S2b"})
	require.NoError(t, err)
	assert.False(t, store.CanRedo(), "new work invalidates the redo stack")
}

func TestFailedApplyLeavesEverything(t *testing.T) {
	store := newStore(t)
	_, err := store.Apply(NewSection{Name: "S1"})
	require.NoError(t, err)

	st, err := store.Apply(StartComponent{Token: "warpdrive"})
	require.Error(t, err)
	assert.Equal(t, ModeSectionActive, st.Mode)

	// History untouched: one undo step from the one successful apply
	assert.True(t, store.CanUndo())
	store.Undo()
	assert.False(t, store.CanUndo())
}

func TestUndoRedoBeyondHistory(t *testing.T) {
	store := newStore(t)

	st := store.Undo()
	assert.Empty(t, st.Sections)
	st = store.Redo()
	assert.Empty(t, st.Sections)
}

func TestSnapshotsAreIsolated(t *testing.T) {
	store := newStore(t)
	_, err := store.Apply(NewSection{Name: "S1"})
	require.NoError(t, err)
	_, err = store.Apply(StartComponent{Token: "gas"})
	require.NoError(t, err)

	snap := store.State()
	snap.Sections[0].Name = "mutated"
	snap.Editing.Values["handing"] = "tampered"

	fresh := store.State()
	assert.Equal(t, "S1", fresh.Sections[0].Name)
	assert.Nil(t, fresh.Editing.Values["handing"])
}

func TestClearHistory(t *testing.T) {
	store := newStore(t)
	_, err := store.Apply(NewSection{Name: "S1"})
	require.NoError(t, err)
	store.Undo()

	store.ClearHistory()
	assert.False(t, store.CanUndo())
	assert.False(t, store.CanRedo())
}

func TestUndoRestoresDraft(t *testing.T) {
	store := newStore(t)
	_, err := store.Apply(NewSection{Name: "S1"})
	require.NoError(t, err)
	_, err = store.Apply(StartComponent{Token: "gas"})
	require.NoError(t, err)
	_, err = store.Apply(SetFieldValue{Value: "l", AutoAdvance: true})
	require.NoError(t, err)

	st := store.Undo()
	require.NotNil(t, st.Editing)
	assert.Nil(t, st.Editing.Values["handing"])

	st = store.Redo()
	assert.Equal(t, "Left", st.Editing.Values["handing"])
}
