package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/acustudio/acu-annotator/internal/spec"
)

// Zoom bounds for the PDF view.
const (
	MinZoom = 0.25
	MaxZoom = 4.0
)

// Reduce is the pure state transition function. It never mutates the input
// state: all work happens on a deep copy, and on any failure the original
// state is returned untouched alongside the error.
func Reduce(state AppState, cmd Command, reg spec.Registry) (AppState, error) {
	s := state.Clone()

	switch c := cmd.(type) {
	case NewSection:
		if s.Mode == ModeFieldEditing && s.Editing != nil {
			return state, errors.New("finish or cancel the current component before creating a new section")
		}
		number := 1
		if n := len(s.Sections); n > 0 {
			number = s.Sections[n-1].Number + 1
		}
		sec := Section{
			ID:     newID("sec", number),
			Number: number,
			Name:   c.Name,
			Length: cloneIntPtr(c.Length),
		}
		s.Sections = append(s.Sections, sec)
		s.ActiveSectionID = sec.ID
		s.Mode = ModeSectionActive
		s.Dirty = true
		return s, nil

	case StartComponent:
		if s.Mode != ModeSectionActive {
			return state, errors.New("starting a component requires an active section")
		}
		if s.ActiveSection() == nil {
			return state, errors.New("no active section found")
		}
		typeID := c.TypeID
		if typeID == "" && c.Token != "" {
			if resolved, ok := reg.ResolveToken(c.Token); ok {
				typeID = resolved
			}
		}
		if typeID == "" {
			return state, fmt.Errorf("unknown component token/type: %s", firstNonEmpty(c.Token, c.TypeID))
		}
		ts, ok := reg.Spec(typeID)
		if !ok {
			return state, fmt.Errorf("unknown component token/type: %s", typeID)
		}
		values := make(map[string]any, len(ts.FieldSequence))
		for _, f := range ts.FieldSequence {
			values[f] = nil
		}
		label := ts.Label
		if label == "" {
			label = typeID
		}
		s.Editing = &EditingDraft{
			TypeID:            typeID,
			Label:             label,
			BaseFieldSequence: append([]string(nil), ts.FieldSequence...),
			FieldSequence:     ts.VisibleFields(values),
			Index:             0,
			Values:            values,
		}
		s.Mode = ModeFieldEditing
		return s, nil

	case SetFieldValue:
		if s.Mode != ModeFieldEditing || s.Editing == nil {
			return state, errors.New("setting a field value requires an active draft")
		}
		d := s.Editing
		if d.Index < 0 || d.Index >= len(d.FieldSequence) {
			return state, errors.New("field index out of range")
		}
		fieldName := d.FieldSequence[d.Index]
		normalized, err := reg.NormalizeValue(d.TypeID, fieldName, c.Value)
		if err != nil {
			return state, err
		}
		d.Values[fieldName] = normalized
		s.Dirty = true
		if ts, ok := reg.Spec(d.TypeID); ok {
			if ts.AutoDefault != nil {
				ts.AutoDefault(d.Values, fieldName, normalized)
			}
			reindexDraft(d, ts.VisibleFields(d.Values), fieldName)
		}
		if c.AutoAdvance {
			if d.Index >= len(d.FieldSequence)-1 && allRequiredSet(d, reg) {
				if err := commitDraft(&s); err != nil {
					return state, err
				}
				return s, nil
			}
			if d.Index < len(d.FieldSequence)-1 {
				d.Index++
			}
		}
		return s, nil

	case NextField:
		if s.Mode != ModeFieldEditing || s.Editing == nil {
			return s, nil
		}
		d := s.Editing
		last := len(d.FieldSequence) - 1
		if d.Index >= last && allRequiredSet(d, reg) {
			if err := commitDraft(&s); err != nil {
				return state, err
			}
			return s, nil
		}
		if d.Index < last {
			d.Index++
		}
		return s, nil

	case PrevField:
		if s.Mode != ModeFieldEditing || s.Editing == nil {
			return s, nil
		}
		if s.Editing.Index > 0 {
			s.Editing.Index--
		}
		return s, nil

	case CommitComponent:
		if s.Mode != ModeFieldEditing || s.Editing == nil {
			return s, nil
		}
		if !allRequiredSet(s.Editing, reg) {
			return state, errors.New("cannot commit: required fields are missing")
		}
		if err := commitDraft(&s); err != nil {
			return state, err
		}
		return s, nil

	case CancelDraft:
		if s.Mode != ModeFieldEditing || s.Editing == nil {
			return s, nil
		}
		s.Editing = nil
		s.Mode = ModeSectionActive
		return s, nil

	case RenameSection:
		sec := findSection(&s, c.SectionID)
		if sec == nil {
			return state, errors.New("unknown section")
		}
		sec.Name = c.Name
		s.Dirty = true
		return s, nil

	case SetSectionLength:
		sec := findSection(&s, c.SectionID)
		if sec == nil {
			return state, errors.New("unknown section")
		}
		sec.Length = cloneIntPtr(c.Length)
		s.Dirty = true
		return s, nil

	case ResetSection:
		sec := findSection(&s, c.SectionID)
		if sec == nil {
			return state, errors.New("unknown section")
		}
		sec.Components = nil
		if c.ClearLength {
			sec.Length = nil
		}
		if s.Mode == ModeFieldEditing {
			s.Editing = nil
			s.Mode = ModeSectionActive
		}
		s.Dirty = true
		return s, nil

	case NavPage:
		if s.PDF.PageCount > 0 {
			s.PDF.Page = clampInt(s.PDF.Page+c.Delta, 0, s.PDF.PageCount-1)
		}
		return s, nil

	case SetPage:
		if s.PDF.PageCount > 0 {
			s.PDF.Page = clampInt(c.Page, 0, s.PDF.PageCount-1)
		}
		return s, nil

	case SetZoom:
		s.PDF.Zoom = clampFloat(c.Zoom, MinZoom, MaxZoom)
		return s, nil

	case MarkSaved:
		when := c.When
		if when.IsZero() {
			when = time.Now()
		}
		s.Dirty = false
		s.LastAutosaveAt = when
		return s, nil

	case PrevSection:
		if len(s.Sections) > 0 {
			idx := activeSectionIndex(&s)
			s.ActiveSectionID = s.Sections[maxInt(idx-1, 0)].ID
			s.Mode = ModeSectionActive
		}
		return s, nil

	case NextSection:
		if len(s.Sections) > 0 {
			idx := activeSectionIndex(&s)
			s.ActiveSectionID = s.Sections[minInt(idx+1, len(s.Sections)-1)].ID
			s.Mode = ModeSectionActive
		}
		return s, nil

	case SetPDFDocument:
		s.PDF.Path = c.Path
		s.PDF.PageCount = c.PageCount
		s.PDF.Page = 0
		return s, nil

	case SetUnitMeta:
		s.Meta = c.Meta.clone()
		s.Dirty = true
		return s, nil
	}

	// Unhandled command: no-op, forward compatible.
	return s, nil
}

// reindexDraft installs the recomputed visible sequence and keeps the cursor
// sensible: if the field under it vanished, the cursor moves to the next
// still-visible field after the old position, or clamps to the last one.
func reindexDraft(d *EditingDraft, visible []string, current string) {
	newIdx := indexOf(visible, current)
	if newIdx < 0 {
		newIdx = len(visible) - 1
		after := false
		for _, f := range d.BaseFieldSequence {
			if f == current {
				after = true
				continue
			}
			if !after {
				continue
			}
			if i := indexOf(visible, f); i >= 0 {
				newIdx = i
				break
			}
		}
	}
	if newIdx < 0 {
		newIdx = 0
	}
	d.FieldSequence = visible
	d.Index = newIdx
}

// commitDraft finalizes the open draft into a Component on the active
// section. Callers have already checked required fields where the command
// demands it; the missing-section check stays as a defensive guard.
func commitDraft(s *AppState) error {
	d := s.Editing
	if d == nil {
		return nil
	}
	sec := s.ActiveSection()
	if sec == nil {
		return errors.New("no active section")
	}
	fields := make(map[string]any, len(d.BaseFieldSequence))
	for _, f := range d.BaseFieldSequence {
		fields[f] = d.Values[f]
	}
	sec.Components = append(sec.Components, Component{
		ID:     newID("cmp", len(sec.Components)+1),
		TypeID: d.TypeID,
		Label:  d.Label,
		Fields: fields,
	})
	s.Editing = nil
	s.Mode = ModeSectionActive
	s.Dirty = true
	return nil
}

func allRequiredSet(d *EditingDraft, reg spec.Registry) bool {
	ts, ok := reg.Spec(d.TypeID)
	if !ok {
		return true
	}
	for _, f := range ts.RequiredFields {
		if d.Values[f] == nil {
			return false
		}
	}
	return true
}

func findSection(s *AppState, sectionID string) *Section {
	for i := range s.Sections {
		if s.Sections[i].ID == sectionID {
			return &s.Sections[i]
		}
	}
	return nil
}

func activeSectionIndex(s *AppState) int {
	if s.ActiveSectionID != "" {
		for i := range s.Sections {
			if s.Sections[i].ID == s.ActiveSectionID {
				return i
			}
		}
	}
	return 0
}

func newID(prefix string, n int) string {
	return fmt.Sprintf("%s-%d-%s", prefix, n, uuid.NewString()[:8])
}

func indexOf(seq []string, name string) int {
	for i, f := range seq {
		if f == name {
			return i
		}
	}
	return -1
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
