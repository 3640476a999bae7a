// Package state implements the annotation core: the immutable application
// state, the command vocabulary, the pure reducer and the transactional
// store with undo/redo history. Adapters (TUI, save/autosave, tests) drive
// it exclusively through commands; the core performs no I/O.
package state

import "time"

// Mode identifies where the annotation workflow currently sits.
type Mode int

const (
	// ModeIdle means no section has been created or selected yet.
	ModeIdle Mode = iota

	// ModeSectionActive means a section is selected and tokens may start
	// component drafts.
	ModeSectionActive

	// ModeFieldEditing means a component draft is being filled field by
	// field.
	ModeFieldEditing
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeSectionActive:
		return "SECTION_ACTIVE"
	case ModeFieldEditing:
		return "FIELD_EDITING"
	}
	return "UNKNOWN"
}

// PDFState is pure view/navigation state for the loaded drawing; it is not
// business data and navigation changes never mark the state dirty.
type PDFState struct {
	Path      string
	Page      int // 0-based
	PageCount int
	Zoom      float64
}

// Meta carries unit-level properties consumed only by export. It is owned
// by the state but populated by external collaborators (dimension
// detection, config), via SetUnitMeta.
type Meta struct {
	UnitTag       string
	IndoorOutdoor string
	UnitLength    *float64
	WidthWithBase *float64
	BaseHeight    *float64
	CabinetHeight *float64
	CabinetWidth  *float64
}

// Component is a committed, typed piece of equipment on a section. Fields
// holds exactly one entry per declared base field of the type; unset
// optionals stay nil.
type Component struct {
	ID     string
	TypeID string
	Label  string
	Fields map[string]any
}

// Section is a physical segment of the unit. Numbers are sequential in
// creation order and never renumbered.
type Section struct {
	ID         string
	Number     int
	Name       string
	Length     *int // inches
	Components []Component
}

// EditingDraft is an in-progress component, present only in
// ModeFieldEditing.
type EditingDraft struct {
	TypeID string
	Label  string

	// BaseFieldSequence is the type's full canonical field order, fixed
	// for the draft's lifetime.
	BaseFieldSequence []string

	// FieldSequence is the currently visible subset of the base sequence,
	// recomputed after every field write.
	FieldSequence []string

	// Index is the cursor position within FieldSequence.
	Index int

	// Values is keyed by every base field; nil until set.
	Values map[string]any
}

// AppState is the root application state. Transitions never mutate it in
// place; the reducer works on a deep copy.
type AppState struct {
	PDF             PDFState
	Sections        []Section
	ActiveSectionID string
	Mode            Mode
	Editing         *EditingDraft
	Dirty           bool
	LastAutosaveAt  time.Time
	Meta            Meta
}

// NewAppState returns the initial state.
func NewAppState() AppState {
	return AppState{PDF: PDFState{Zoom: 1.0}}
}

// ActiveSection looks up the active section; O(n) but sections are few.
func (s *AppState) ActiveSection() *Section {
	if s.ActiveSectionID == "" {
		return nil
	}
	for i := range s.Sections {
		if s.Sections[i].ID == s.ActiveSectionID {
			return &s.Sections[i]
		}
	}
	return nil
}

// Clone returns a deep copy sharing nothing mutable with the receiver.
func (s AppState) Clone() AppState {
	out := s
	out.Meta = s.Meta.clone()
	if s.Sections != nil {
		out.Sections = make([]Section, len(s.Sections))
		for i, sec := range s.Sections {
			out.Sections[i] = sec.clone()
		}
	}
	if s.Editing != nil {
		d := *s.Editing
		d.BaseFieldSequence = append([]string(nil), s.Editing.BaseFieldSequence...)
		d.FieldSequence = append([]string(nil), s.Editing.FieldSequence...)
		d.Values = cloneValues(s.Editing.Values)
		out.Editing = &d
	}
	return out
}

func (sec Section) clone() Section {
	out := sec
	out.Length = cloneIntPtr(sec.Length)
	if sec.Components != nil {
		out.Components = make([]Component, len(sec.Components))
		for i, c := range sec.Components {
			cc := c
			cc.Fields = cloneValues(c.Fields)
			out.Components[i] = cc
		}
	}
	return out
}

func (m Meta) clone() Meta {
	out := m
	out.UnitLength = cloneFloatPtr(m.UnitLength)
	out.WidthWithBase = cloneFloatPtr(m.WidthWithBase)
	out.BaseHeight = cloneFloatPtr(m.BaseHeight)
	out.CabinetHeight = cloneFloatPtr(m.CabinetHeight)
	out.CabinetWidth = cloneFloatPtr(m.CabinetWidth)
	return out
}

func cloneValues(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
