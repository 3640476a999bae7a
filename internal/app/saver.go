// Package app wires the store, exporter and configuration into the save
// workflows the adapters trigger.
package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/acustudio/acu-annotator/internal/config"
	"github.com/acustudio/acu-annotator/internal/export"
	"github.com/acustudio/acu-annotator/internal/state"
)

const (
	autosaveTemplate = "{tag}_p{page}.autosave.json"
	filePerm         = 0o644
)

// Saver performs explicit saves and periodic autosaves. Both paths build and
// validate the document before touching disk; an invalid document never gets
// written.
type Saver struct {
	store    *state.Store
	exporter *export.Exporter
	cfg      *config.Config
}

// NewSaver returns a saver over the given store, exporter and configuration.
func NewSaver(store *state.Store, exporter *export.Exporter, cfg *config.Config) *Saver {
	return &Saver{store: store, exporter: exporter, cfg: cfg}
}

// Save exports the current state to the configured filename and marks the
// state saved. Validation failures abort with the first few messages joined
// so the caller can surface them.
func (s *Saver) Save() (string, error) {
	st := s.store.State()
	doc := s.exporter.Build(st)
	if ok, errs := s.exporter.Validate(doc); !ok {
		return "", fmt.Errorf("cannot save: %s", summarizeErrors(errs))
	}

	text, err := s.exporter.Dumps(doc, s.cfg.Pretty)
	if err != nil {
		return "", err
	}

	path := s.exporter.Filename(st, s.cfg.FilenameTemplate)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, config.DefaultDirPerm); err != nil {
			return "", fmt.Errorf("cannot create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(text), filePerm); err != nil {
		return "", fmt.Errorf("cannot write %s: %w", path, err)
	}

	if _, err := s.store.Apply(state.MarkSaved{}); err != nil {
		return path, err
	}
	return path, nil
}

// Autosave writes a background snapshot into the autosave directory. Clean
// or invalid states are skipped silently; a successful autosave does NOT
// clear the dirty flag, only an explicit Save does.
func (s *Saver) Autosave() (string, error) {
	st := s.store.State()
	if !st.Dirty {
		return "", nil
	}

	doc := s.exporter.Build(st)
	if ok, _ := s.exporter.Validate(doc); !ok {
		return "", nil
	}

	text, err := s.exporter.Dumps(doc, s.cfg.Pretty)
	if err != nil {
		return "", err
	}

	name := filepath.Base(s.exporter.Filename(st, autosaveTemplate))
	path := filepath.Join(s.cfg.AutosaveDir, name)
	if err := os.MkdirAll(s.cfg.AutosaveDir, config.DefaultDirPerm); err != nil {
		return "", fmt.Errorf("cannot create autosave directory %s: %w", s.cfg.AutosaveDir, err)
	}
	if err := os.WriteFile(path, []byte(text), filePerm); err != nil {
		return "", fmt.Errorf("cannot write autosave %s: %w", path, err)
	}

	log.Printf("autosaved to %s", path)
	return path, nil
}

// summarizeErrors joins the first five validation messages.
func summarizeErrors(errs []string) string {
	const maxShown = 5
	if len(errs) > maxShown {
		return fmt.Sprintf("%s (and %d more)", strings.Join(errs[:maxShown], "; "), len(errs)-maxShown)
	}
	return strings.Join(errs, "; ")
}
