// Package registry provides the concrete component-type registry: built-in
// specs for all ACU components, optional YAML plugin specs, caller-supplied
// extras for tests, and token/alias resolution with value normalization.
package registry

import (
	"fmt"

	"github.com/acustudio/acu-annotator/internal/spec"
)

// Registry resolves user-typed tokens to component types and normalizes
// field values against their specs. Specs merge in three layers - built-ins,
// caller-supplied extras, then YAML plugins - where a later layer replaces an
// earlier spec with the same type id wholesale.
type Registry struct {
	specs map[string]spec.TypeSpec

	// order keeps type ids in first-registration order; the alias index is
	// rebuilt in this order so earlier-registered mappings win collisions.
	order   []string
	aliases map[string]string
}

// New builds a registry from the built-in specs, then the extra specs, then
// any YAML plugin specs found under pluginsDir (empty dir path is a no-op).
func New(pluginsDir string, extra []spec.TypeSpec) (*Registry, error) {
	r := &Registry{
		specs:   make(map[string]spec.TypeSpec),
		aliases: make(map[string]string),
	}
	for _, ts := range builtinSpecs() {
		if err := r.register(ts); err != nil {
			return nil, err
		}
	}
	for _, ts := range extra {
		if err := r.register(ts); err != nil {
			return nil, err
		}
	}
	plugins, err := LoadPluginSpecs(pluginsDir)
	if err != nil {
		return nil, err
	}
	for _, ts := range plugins {
		if err := r.register(ts); err != nil {
			return nil, err
		}
	}
	r.rebuildAliasIndex()
	return r, nil
}

// ResolveToken maps a token to a type id, case-insensitively, across every
// type's id, label and aliases.
func (r *Registry) ResolveToken(token string) (string, bool) {
	key := normToken(token)
	if key == "" {
		return "", false
	}
	tid, ok := r.aliases[key]
	return tid, ok
}

// Spec returns the full spec for a type id.
func (r *Registry) Spec(typeID string) (spec.TypeSpec, bool) {
	ts, ok := r.specs[typeID]
	return ts, ok
}

// NormalizeValue validates a raw field value against the field's spec and
// returns its canonical form.
func (r *Registry) NormalizeValue(typeID, field string, value any) (any, error) {
	ts, ok := r.specs[typeID]
	if !ok {
		return nil, fmt.Errorf("unknown component type: %s", typeID)
	}
	fdef, ok := ts.Fields[field]
	if !ok {
		return nil, fmt.Errorf("unknown field for %s: %s", typeID, field)
	}
	switch fdef.Kind {
	case spec.KindEnum:
		return normalizeEnum(value, fdef.Map)
	case spec.KindBool:
		return normalizeBool(value)
	case spec.KindInt:
		return normalizeInt(value, fdef.Min, fdef.Max)
	case spec.KindNumber:
		return normalizeNumber(value, fdef.Min, fdef.Max)
	}
	return nil, fmt.Errorf("unsupported field kind %q for %s.%s", fdef.Kind, typeID, field)
}

// TypeKeys returns every registered export type key in registration order.
func (r *Registry) TypeKeys() []string {
	keys := make([]string, 0, len(r.order))
	for _, tid := range r.order {
		keys = append(keys, r.specs[tid].TypeKey)
	}
	return keys
}

// TypeIDForKey maps an export type key back to its type id.
func (r *Registry) TypeIDForKey(typeKey string) (string, bool) {
	for _, tid := range r.order {
		if r.specs[tid].TypeKey == typeKey {
			return tid, true
		}
	}
	return "", false
}

// AllSpecs returns every registered spec in registration order.
func (r *Registry) AllSpecs() []spec.TypeSpec {
	out := make([]spec.TypeSpec, 0, len(r.order))
	for _, tid := range r.order {
		out = append(out, r.specs[tid])
	}
	return out
}

// AppendAlias adds an extra token for an already-registered type (used for
// config-supplied aliases) and rebuilds the alias index. The first-writer
// collision policy still applies, so an existing mapping is never stolen.
func (r *Registry) AppendAlias(typeID, token string) error {
	ts, ok := r.specs[typeID]
	if !ok {
		return fmt.Errorf("unknown component type: %s", typeID)
	}
	for _, a := range ts.Aliases {
		if normToken(a) == normToken(token) {
			return nil
		}
	}
	ts.Aliases = append(append([]string(nil), ts.Aliases...), token)
	r.specs[typeID] = ts
	r.rebuildAliasIndex()
	return nil
}

// register normalizes defaults and validates internal consistency. A spec
// whose field sequence names an undeclared field is a configuration error
// caught here, at load time.
func (r *Registry) register(ts spec.TypeSpec) error {
	if ts.TypeID == "" {
		return fmt.Errorf("component spec missing type_id")
	}
	if ts.Label == "" {
		ts.Label = ts.TypeID
	}
	if ts.TypeKey == "" {
		ts.TypeKey = ts.TypeID
	}
	if ts.Fields == nil {
		ts.Fields = make(map[string]spec.FieldSpec)
	}
	for _, fname := range ts.FieldSequence {
		if _, ok := ts.Fields[fname]; !ok {
			return fmt.Errorf("spec for %s references unknown field %q in field_sequence", ts.TypeID, fname)
		}
	}
	if _, seen := r.specs[ts.TypeID]; !seen {
		r.order = append(r.order, ts.TypeID)
	}
	r.specs[ts.TypeID] = ts
	return nil
}

func (r *Registry) rebuildAliasIndex() {
	r.aliases = make(map[string]string)
	for _, tid := range r.order {
		ts := r.specs[tid]
		tokens := make([]string, 0, len(ts.Aliases)+2)
		tokens = append(tokens, ts.Aliases...)
		tokens = append(tokens, tid, ts.Label)
		for _, t := range tokens {
			key := normToken(t)
			if key == "" {
				continue
			}
			if _, taken := r.aliases[key]; !taken {
				r.aliases[key] = tid
			}
		}
	}
}
