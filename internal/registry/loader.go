package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/acustudio/acu-annotator/internal/spec"
)

// pluginCondition is the declarative form of a conditional field: the field
// is hidden unless `field` currently equals `equals`.
type pluginCondition struct {
	Field  string `yaml:"field"`
	Equals any    `yaml:"equals"`
}

type pluginField struct {
	Type        string            `yaml:"type"`
	Label       string            `yaml:"label"`
	Map         map[string]string `yaml:"map"`
	Min         *float64          `yaml:"min"`
	Max         *float64          `yaml:"max"`
	VisibleWhen *pluginCondition  `yaml:"visible_when"`
	HiddenValue any               `yaml:"hidden_value"`
}

type pluginSpec struct {
	TypeID         string                 `yaml:"type_id"`
	Label          string                 `yaml:"label"`
	TypeKey        string                 `yaml:"type_key"`
	FieldSequence  []string               `yaml:"field_sequence"`
	RequiredFields []string               `yaml:"required_fields"`
	Fields         map[string]pluginField `yaml:"fields"`
	Aliases        []string               `yaml:"aliases"`
}

type pluginDoc struct {
	Components []pluginSpec `yaml:"components"`
}

// LoadPluginSpecs reads YAML component specs from a directory. Files may
// hold either a single spec or a list under a "components" key. A missing
// or empty directory path is a safe no-op.
func LoadPluginSpecs(dir string) ([]spec.TypeSpec, error) {
	if dir == "" {
		return nil, nil
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, nil
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	var out []spec.TypeSpec
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read plugin spec %s: %w", path, err)
		}
		specs, err := parsePluginFile(path, data)
		if err != nil {
			return nil, err
		}
		out = append(out, specs...)
	}
	return out, nil
}

func parsePluginFile(path string, data []byte) ([]spec.TypeSpec, error) {
	var doc pluginDoc
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Components) > 0 {
		out := make([]spec.TypeSpec, 0, len(doc.Components))
		for _, ps := range doc.Components {
			if ps.TypeID == "" {
				return nil, fmt.Errorf("%s: component missing type_id", path)
			}
			out = append(out, ps.toTypeSpec())
		}
		return out, nil
	}

	var single pluginSpec
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("parse plugin spec %s: %w", path, err)
	}
	if single.TypeID == "" {
		return nil, fmt.Errorf("%s: spec missing type_id", path)
	}
	return []spec.TypeSpec{single.toTypeSpec()}, nil
}

func (ps pluginSpec) toTypeSpec() spec.TypeSpec {
	ts := spec.TypeSpec{
		TypeID:         ps.TypeID,
		Label:          ps.Label,
		TypeKey:        ps.TypeKey,
		FieldSequence:  append([]string(nil), ps.FieldSequence...),
		RequiredFields: append([]string(nil), ps.RequiredFields...),
		Aliases:        append([]string(nil), ps.Aliases...),
		Fields:         make(map[string]spec.FieldSpec, len(ps.Fields)),
	}
	conds := make(map[string]spec.FieldCondition)
	for name, pf := range ps.Fields {
		kind := spec.FieldKind(pf.Type)
		if pf.Type == "" {
			kind = spec.KindEnum
		}
		ts.Fields[name] = spec.FieldSpec{
			Kind:  kind,
			Label: pf.Label,
			Map:   pf.Map,
			Min:   pf.Min,
			Max:   pf.Max,
		}
		if pf.VisibleWhen != nil {
			conds[name] = spec.FieldCondition{
				Field:       pf.VisibleWhen.Field,
				Equals:      pf.VisibleWhen.Equals,
				HiddenValue: pf.HiddenValue,
			}
		}
	}
	if len(conds) > 0 {
		ts.Visibility = spec.ConditionalVisibility(conds)
		ts.AutoDefault = spec.ConditionalDefaults(conds)
	}
	return ts
}
