package state

import "time"

// Command is the closed set of intents adapters dispatch at the core. The
// reducer is a total match over this union; unknown commands are no-ops for
// forward compatibility.
type Command interface {
	isCommand()
}

// NewSection appends a section with the next sequential number and makes it
// active. Illegal while a component draft is open.
type NewSection struct {
	Name   string
	Length *int // inches
}

// StartComponent opens a component draft by token or explicit type id
// (token preferred from the keyboard). Requires an active section.
type StartComponent struct {
	Token  string
	TypeID string
}

// SetFieldValue validates and writes a value into the field under the
// draft's cursor. With AutoAdvance the cursor moves on, committing when the
// draft is complete at the last visible field.
type SetFieldValue struct {
	Value       any
	AutoAdvance bool
}

// NextField advances the cursor; at the last visible field with all
// required fields set it commits the draft instead.
type NextField struct{}

// PrevField moves the cursor back one field; it never clears values.
type PrevField struct{}

// CommitComponent commits the draft explicitly; fails while required fields
// are missing.
type CommitComponent struct{}

// CancelDraft discards the draft and returns to the section.
type CancelDraft struct{}

// RenameSection sets a section's display name.
type RenameSection struct {
	SectionID string
	Name      string
}

// SetSectionLength sets or clears a section's length in inches.
type SetSectionLength struct {
	SectionID string
	Length    *int
}

// ResetSection clears a section's component list, optionally its length,
// and abandons any open draft.
type ResetSection struct {
	SectionID   string
	ClearLength bool
}

// NavPage moves the current page by delta, clamped to the document.
type NavPage struct {
	Delta int
}

// SetPage jumps to a 0-based page, clamped to the document.
type SetPage struct {
	Page int
}

// SetZoom sets an absolute zoom factor; the reducer clamps the bounds.
type SetZoom struct {
	Zoom float64
}

// MarkSaved acknowledges a successful external save: clears the dirty flag
// and records the save time. A zero When defaults to now at apply time.
type MarkSaved struct {
	When time.Time
}

// PrevSection activates the section before the current one (clamped).
type PrevSection struct{}

// NextSection activates the section after the current one (clamped).
type NextSection struct{}

// SetPDFDocument injects freshly probed PDF metadata after a file is
// opened. View-only: resets the page cursor and does not mark dirty.
type SetPDFDocument struct {
	Path      string
	PageCount int
}

// SetUnitMeta injects unit-level properties (tag, indoor/outdoor flag,
// physical dimensions) supplied by external detection or configuration.
type SetUnitMeta struct {
	Meta Meta
}

func (NewSection) isCommand()       {}
func (StartComponent) isCommand()   {}
func (SetFieldValue) isCommand()    {}
func (NextField) isCommand()        {}
func (PrevField) isCommand()        {}
func (CommitComponent) isCommand()  {}
func (CancelDraft) isCommand()      {}
func (RenameSection) isCommand()    {}
func (SetSectionLength) isCommand() {}
func (ResetSection) isCommand()     {}
func (NavPage) isCommand()          {}
func (SetPage) isCommand()          {}
func (SetZoom) isCommand()          {}
func (MarkSaved) isCommand()        {}
func (PrevSection) isCommand()      {}
func (NextSection) isCommand()      {}
func (SetPDFDocument) isCommand()   {}
func (SetUnitMeta) isCommand()      {}
