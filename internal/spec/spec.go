// Package spec holds the declarative description of annotatable component
// types: field lists, requiredness, normalization rules and token aliases.
// It is the shared vocabulary between the registry, the reducer and the
// export layer.
package spec

// FieldKind identifies how a field value is normalized and validated.
type FieldKind string

const (
	KindEnum   FieldKind = "enum"
	KindBool   FieldKind = "bool"
	KindInt    FieldKind = "int"
	KindNumber FieldKind = "number"
)

// FieldSpec describes a single typed field of a component.
type FieldSpec struct {
	Kind FieldKind

	// Label overrides the humanized export label when set.
	Label string

	// Map holds case-insensitive input token -> canonical value pairs for
	// enum fields.
	Map map[string]string

	// Min and Max are inclusive bounds for int and number fields.
	Min *float64
	Max *float64
}

// TypeSpec is the full declarative spec for one component type.
type TypeSpec struct {
	TypeID  string
	Label   string
	TypeKey string

	// FieldSequence is the canonical entry order of all declared fields.
	FieldSequence []string

	// RequiredFields must be non-nil before a draft can commit.
	RequiredFields []string

	Fields  map[string]FieldSpec
	Aliases []string

	// Visibility and AutoDefault are the per-type conditional-field hooks.
	// Both are optional; types without conditional fields leave them nil.
	Visibility  VisibilityFunc
	AutoDefault AutoDefaultFunc
}

// VisibleFields returns the subset of the canonical field sequence that is
// currently visible given the draft values so far.
func (s TypeSpec) VisibleFields(values map[string]any) []string {
	if s.Visibility == nil {
		return append([]string(nil), s.FieldSequence...)
	}
	return s.Visibility(s.FieldSequence, values)
}

// Registry is the minimal contract the reducer depends on, keeping it
// decoupled from the concrete registry and its plugin machinery.
type Registry interface {
	// ResolveToken maps a user-typed token to a type id, case-insensitively.
	ResolveToken(token string) (string, bool)

	// Spec returns the full spec for a type id.
	Spec(typeID string) (TypeSpec, bool)

	// NormalizeValue validates a raw field value and returns its canonical
	// form, or a descriptive error naming the problem.
	NormalizeValue(typeID, field string, value any) (any, error)
}

// Bound is a convenience constructor for inclusive field bounds.
func Bound(v float64) *float64 {
	return &v
}
