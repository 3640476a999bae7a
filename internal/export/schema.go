package export

import (
	"sort"

	"github.com/acustudio/acu-annotator/internal/spec"
)

// Schema returns a draft-07 flavored JSON schema describing the export
// document, with per-component subschemas derived from the registry. It is
// informational, for tooling and editor hints; Validate does the real checks.
func (x *Exporter) Schema() map[string]any {
	comps := map[string]any{}
	for _, ts := range x.registry.AllSpecs() {
		props := map[string]any{}
		var required []string
		for _, fname := range ts.FieldSequence {
			fdef := ts.Fields[fname]
			props[fieldLabel(fname, fdef)] = fieldSchema(fdef)
		}
		for _, fname := range ts.RequiredFields {
			required = append(required, fieldLabel(fname, ts.Fields[fname]))
		}
		if required == nil {
			required = []string{}
		}
		comps[ts.TypeKey] = map[string]any{
			"type":                 "object",
			"properties":           props,
			"required":             required,
			"additionalProperties": false,
		}
	}

	return map[string]any{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"title":   "ACU Export",
		"type":    "object",
		"properties": map[string]any{
			"Unit Tag": map[string]any{"type": []string{"string", "null"}},
			"Unit Properties": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"Indoor/Outdoor": map[string]any{"type": []string{"string", "null"}},
					"Unit size": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"Unit Length":        map[string]any{"type": []string{"number", "null"}},
							"Width (with base)":  map[string]any{"type": []string{"number", "null"}},
							"Height (base only)": map[string]any{"type": []string{"number", "null"}},
							"Cabinet height":     map[string]any{"type": []string{"number", "null"}},
							"Cabinet width":      map[string]any{"type": []string{"number", "null"}},
							"Section quantity":   map[string]any{"type": "integer"},
							"Section length": map[string]any{
								"type": "array",
								"items": map[string]any{
									"type": "object",
									"properties": map[string]any{
										"Section Number": map[string]any{"type": "integer"},
										"Length":         map[string]any{"type": []string{"number", "null"}},
										"Name":           map[string]any{"type": []string{"string", "null"}},
										"Components": map[string]any{
											"type": "array",
											// The component type block key varies per
											// component, so items stay open here and
											// Validate enforces the real contract.
											"items": map[string]any{
												"type": "object",
												"properties": map[string]any{
													"Label": map[string]any{"type": "string"},
												},
												"additionalProperties": true,
											},
										},
									},
									"required":             []string{"Section Number"},
									"additionalProperties": true,
								},
							},
						},
						"required":             []string{"Section quantity", "Section length"},
						"additionalProperties": true,
					},
				},
				"required":             []string{"Unit size"},
				"additionalProperties": true,
			},
		},
		"required":             []string{"Unit Properties"},
		"additionalProperties": true,
		"definitions": map[string]any{
			"components": comps,
		},
	}
}

func fieldSchema(fdef spec.FieldSpec) map[string]any {
	var node map[string]any
	switch fdef.Kind {
	case spec.KindEnum:
		node = map[string]any{"type": "string", "enum": canonicalValues(fdef.Map)}
	case spec.KindBool:
		node = map[string]any{"type": "string", "enum": []string{"Yes", "No"}}
	case spec.KindInt:
		node = map[string]any{"type": "integer"}
		if fdef.Min != nil {
			node["minimum"] = *fdef.Min
		}
		if fdef.Max != nil {
			node["maximum"] = *fdef.Max
		}
	case spec.KindNumber:
		node = map[string]any{"type": "number"}
		if fdef.Min != nil {
			node["minimum"] = *fdef.Min
		}
		if fdef.Max != nil {
			node["maximum"] = *fdef.Max
		}
	default:
		node = map[string]any{"type": "string"}
	}
	// Optional fields serialize as null until answered.
	return map[string]any{"anyOf": []any{node, map[string]any{"type": "null"}}}
}

func canonicalValues(aliasMap map[string]string) []string {
	seen := make(map[string]bool, len(aliasMap))
	var out []string
	for _, v := range aliasMap {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	if out == nil {
		out = []string{}
	}
	return out
}
