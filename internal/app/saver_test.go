package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acustudio/acu-annotator/internal/config"
	"github.com/acustudio/acu-annotator/internal/export"
	"github.com/acustudio/acu-annotator/internal/registry"
	"github.com/acustudio/acu-annotator/internal/state"
)

func newTestSaver(t *testing.T, dir string) (*Saver, *state.Store) {
	t.Helper()

	reg, err := registry.New("", nil)
	require.NoError(t, err)

	store := state.NewStore(reg)
	cfg := config.DefaultConfig()
	cfg.AutosaveDir = filepath.Join(dir, ".acu_autosave")

	return NewSaver(store, export.New(reg), cfg), store
}

func annotateUnit(t *testing.T, store *state.Store, pdfPath string) {
	t.Helper()

	mustApply := func(cmd state.Command) {
		t.Helper()
		_, err := store.Apply(cmd)
		require.NoError(t, err)
	}

	mustApply(state.SetPDFDocument{Path: pdfPath, PageCount: 3})
	mustApply(state.SetUnitMeta{Meta: state.Meta{UnitTag: "AHU-23"}})
	mustApply(state.NewSection{})
	mustApply(state.StartComponent{Token: "gas"})
	mustApply(state.SetFieldValue{Value: "Left", AutoAdvance: true})
	mustApply(state.SetFieldValue{Value: "rack"})
	mustApply(state.CommitComponent{})
}

func TestSaveWritesExportAndMarksSaved(t *testing.T) {
	dir := t.TempDir()
	saver, store := newTestSaver(t, dir)
	annotateUnit(t, store, filepath.Join(dir, "AHU-23.pdf"))

	path, err := saver.Save()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "AHU-23_p1.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "AHU-23", doc["Unit Tag"])

	assert.False(t, store.State().Dirty, "explicit save should clear the dirty flag")
}

func TestAutosaveSkipsCleanState(t *testing.T) {
	dir := t.TempDir()
	saver, _ := newTestSaver(t, dir)

	path, err := saver.Autosave()
	require.NoError(t, err)
	assert.Empty(t, path, "clean state should not autosave")
}

func TestAutosaveKeepsDirtyFlag(t *testing.T) {
	dir := t.TempDir()
	saver, store := newTestSaver(t, dir)
	annotateUnit(t, store, filepath.Join(dir, "AHU-23.pdf"))

	path, err := saver.Autosave()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".acu_autosave", "AHU-23_p1.autosave.json"), path)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected autosave file to exist: %v", err)
	}

	assert.True(t, store.State().Dirty, "autosave must not clear the dirty flag")
}

func TestSaveAgainAfterUndoRedo(t *testing.T) {
	dir := t.TempDir()
	saver, store := newTestSaver(t, dir)
	annotateUnit(t, store, filepath.Join(dir, "AHU-23.pdf"))

	_, err := saver.Save()
	require.NoError(t, err)

	store.Undo()
	store.Redo()

	path, err := saver.Save()
	require.NoError(t, err)
	assert.FileExists(t, path)
}
