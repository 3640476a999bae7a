package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/acustudio/acu-annotator/internal/registry"
	"github.com/acustudio/acu-annotator/internal/spec"
	"github.com/acustudio/acu-annotator/internal/state"
)

// FieldChip is one field cell in the editing strip.
type FieldChip struct {
	Name   string
	Value  string
	Active bool
}

// HudModel is everything the view needs to paint the prompt panel. It is
// computed fresh from the state on every render so it carries no state of
// its own.
type HudModel struct {
	Title   string
	Fields  []FieldChip
	Hints   []string
	TokenUI string
	Foot    string
	Toasts  []string
}

const maxVisibleToasts = 3

// buildHUD derives the prompt panel content from the current state, the
// in-progress token buffer and the active toast messages.
func buildHUD(st state.AppState, reg *registry.Registry, tokenBuffer string, tokenActive bool, toasts []string) HudModel {
	var m HudModel

	if st.Mode == state.ModeFieldEditing && st.Editing != nil {
		buildEditingHUD(&m, st, reg)
	} else {
		if sec := st.ActiveSection(); sec != nil {
			m.Title = fmt.Sprintf("Section S%d — type a token (e.g., 'gas', 'ec', 'filters')", sec.Number)
		} else {
			m.Title = "No sections — press Enter to create one"
		}
		if tokenActive && tokenBuffer != "" {
			m.TokenUI = "token: " + strings.Join(strings.Split(tokenBuffer, ""), " ") + " ▎"
		}
	}

	pageCount := st.PDF.PageCount
	if pageCount < 1 {
		pageCount = 1
	}
	m.Foot = fmt.Sprintf("Page %d/%d  •  Zoom %d%%  •  Ctrl+S to save", st.PDF.Page+1, pageCount, int(st.PDF.Zoom*100))

	if len(toasts) > maxVisibleToasts {
		toasts = toasts[len(toasts)-maxVisibleToasts:]
	}
	m.Toasts = toasts
	return m
}

func buildEditingHUD(m *HudModel, st state.AppState, reg *registry.Registry) {
	d := st.Editing
	ts, ok := reg.Spec(d.TypeID)
	if ok && ts.Label != "" {
		m.Title = ts.Label
	} else {
		m.Title = d.TypeID
	}

	for i, fname := range d.FieldSequence {
		value := "?"
		if v := d.Values[fname]; v != nil {
			value = fmt.Sprintf("%v", v)
		}
		m.Fields = append(m.Fields, FieldChip{Name: fname, Value: value, Active: i == d.Index})
	}

	if ok && d.Index >= 0 && d.Index < len(d.FieldSequence) {
		m.Hints = fieldHints(ts.Fields[d.FieldSequence[d.Index]])
	}
}

// fieldHints summarizes the legal inputs for a field: single-char enum keys
// when the spec defines them, canonical values otherwise, Y/N for booleans
// and the bounds for integers.
func fieldHints(fdef spec.FieldSpec) []string {
	switch fdef.Kind {
	case spec.KindEnum:
		var shortKeys []string
		for k := range fdef.Map {
			if len(k) == 1 {
				shortKeys = append(shortKeys, k)
			}
		}
		if len(shortKeys) > 0 {
			sort.Strings(shortKeys)
			return []string{strings.ToUpper(strings.Join(shortKeys, "/"))}
		}
		seen := make(map[string]bool, len(fdef.Map))
		var values []string
		for _, v := range fdef.Map {
			if !seen[v] {
				seen[v] = true
				values = append(values, v)
			}
		}
		sort.Strings(values)
		return []string{strings.Join(values, "/")}
	case spec.KindBool:
		return []string{"Y/N"}
	case spec.KindInt:
		switch {
		case fdef.Min != nil && fdef.Max != nil:
			return []string{fmt.Sprintf("[%s..%s]", formatBound(*fdef.Min), formatBound(*fdef.Max))}
		case fdef.Min != nil:
			return []string{"≥ " + formatBound(*fdef.Min)}
		case fdef.Max != nil:
			return []string{"≤ " + formatBound(*fdef.Max)}
		default:
			return []string{"int"}
		}
	case spec.KindNumber:
		return []string{"number"}
	default:
		return nil
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
