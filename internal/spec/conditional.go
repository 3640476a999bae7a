package spec

// VisibilityFunc recomputes the visible subset of a type's base field
// sequence from the draft values entered so far.
type VisibilityFunc func(base []string, values map[string]any) []string

// AutoDefaultFunc adjusts dependent values in place after a field write.
// changed is the field that was just set, value its normalized result.
type AutoDefaultFunc func(values map[string]any, changed string, value any)

// FieldCondition gates a dependent field on an exact answer to a
// controlling field elsewhere in the same type.
type FieldCondition struct {
	// Field is the controlling field.
	Field string

	// Equals is the answer that makes the dependent field visible.
	Equals any

	// HiddenValue is auto-filled into the dependent field when the
	// controlling field is answered with anything else.
	HiddenValue any
}

// ConditionalVisibility builds a VisibilityFunc from per-field conditions:
// a field listed in conds is hidden unless its controlling field currently
// holds the expected answer.
func ConditionalVisibility(conds map[string]FieldCondition) VisibilityFunc {
	return func(base []string, values map[string]any) []string {
		visible := make([]string, 0, len(base))
		for _, f := range base {
			if cond, gated := conds[f]; gated && values[cond.Field] != cond.Equals {
				continue
			}
			visible = append(visible, f)
		}
		return visible
	}
}

// ConditionalDefaults builds an AutoDefaultFunc from the same conditions:
// answering a controlling field away from the expected value fills its
// dependents with their hidden defaults, answering it back clears them so
// they must be re-entered.
func ConditionalDefaults(conds map[string]FieldCondition) AutoDefaultFunc {
	return func(values map[string]any, changed string, value any) {
		for dep, cond := range conds {
			if cond.Field != changed {
				continue
			}
			if value == cond.Equals {
				values[dep] = nil
			} else {
				values[dep] = cond.HiddenValue
			}
		}
	}
}
