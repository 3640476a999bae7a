// Package export projects a finished annotation state into the canonical
// JSON document, validates it against registry specs, and renders output
// filenames from a template. Writing to disk is the caller's job:
//
//	xp := export.New(reg)
//	doc := xp.Build(store.State())
//	if ok, errs := xp.Validate(doc); ok {
//	    text, _ := xp.Dumps(doc, true)
//	    path := xp.Filename(store.State(), "{tag}_p{page}.json")
//	    os.WriteFile(path, []byte(text), 0o644)
//	}
package export

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/acustudio/acu-annotator/internal/registry"
	"github.com/acustudio/acu-annotator/internal/spec"
	"github.com/acustudio/acu-annotator/internal/state"
)

// DefaultFilenameTemplate is the canonical output name pattern.
const DefaultFilenameTemplate = "{tag}_p{page}.json"

// Exporter builds, validates and serializes export documents.
type Exporter struct {
	registry *registry.Registry
}

// New returns an exporter over the given registry.
func New(reg *registry.Registry) *Exporter {
	return &Exporter{registry: reg}
}

// Build projects the state into the canonical document. Missing optional
// data becomes null; Build never fails for a minimally-sane state.
func (x *Exporter) Build(st state.AppState) *Document {
	doc := &Document{
		UnitTag: optionalString(unitTag(st)),
		UnitProperties: UnitProperties{
			IndoorOutdoor: optionalString(st.Meta.IndoorOutdoor),
			UnitSize: UnitSize{
				UnitLength:    st.Meta.UnitLength,
				WidthWithBase: st.Meta.WidthWithBase,
				BaseHeight:    st.Meta.BaseHeight,
				CabinetHeight: st.Meta.CabinetHeight,
				CabinetWidth:  st.Meta.CabinetWidth,
				SectionLength: []SectionEntry{},
			},
		},
	}
	for _, sec := range st.Sections {
		entry := SectionEntry{
			SectionNumber: sec.Number,
			Length:        sec.Length,
			Name:          sec.Name,
		}
		for _, comp := range sec.Components {
			entry.Components = append(entry.Components, x.buildComponent(comp))
		}
		doc.UnitProperties.UnitSize.SectionLength = append(doc.UnitProperties.UnitSize.SectionLength, entry)
	}
	doc.UnitProperties.UnitSize.SectionQuantity = len(doc.UnitProperties.UnitSize.SectionLength)
	return doc
}

func (x *Exporter) buildComponent(comp state.Component) ComponentEntry {
	ts, known := x.registry.Spec(comp.TypeID)
	typeKey := comp.TypeID
	label := comp.Label
	if label == "" {
		label = comp.TypeID
	}
	if known {
		typeKey = ts.TypeKey
		label = ts.Label
	}

	var fields FieldBlock
	for _, fname := range componentFieldOrder(ts, comp.Fields) {
		fields.Set(fieldLabel(fname, ts.Fields[fname]), comp.Fields[fname])
	}
	return ComponentEntry{
		Label:  label,
		Blocks: []TypeBlock{{Key: typeKey, Fields: fields}},
	}
}

// componentFieldOrder yields the spec's canonical order, followed by any
// stray keys (unknown type, stale plugin) sorted for determinism.
func componentFieldOrder(ts spec.TypeSpec, fields map[string]any) []string {
	order := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, fname := range ts.FieldSequence {
		if _, ok := fields[fname]; ok {
			order = append(order, fname)
			seen[fname] = true
		}
	}
	var strays []string
	for fname := range fields {
		if !seen[fname] {
			strays = append(strays, fname)
		}
	}
	sort.Strings(strays)
	return append(order, strays...)
}

// Validate checks every component against its registry spec: required
// fields present and non-null, enums canonical, booleans exactly "Yes"/"No",
// integers typed and in bounds. Violations accumulate so the caller can
// report everything wrong at once; Validate never panics or errors out.
func (x *Exporter) Validate(doc *Document) (bool, []string) {
	var errs []string
	if doc == nil {
		return false, []string{"Missing: Unit Properties"}
	}
	for si, sec := range doc.UnitProperties.UnitSize.SectionLength {
		for ci, comp := range sec.Components {
			x.validateComponent(si+1, ci+1, comp, &errs)
		}
	}
	return len(errs) == 0, errs
}

func (x *Exporter) validateComponent(si, ci int, comp ComponentEntry, errs *[]string) {
	typeKey, fields, found := detectTypeBlock(comp, x.registry)
	if !found {
		*errs = append(*errs, fmt.Sprintf(
			"Section %d Component %d: Could not determine component type for label '%s'", si, ci, comp.Label))
		return
	}
	typeID := typeKey
	if tid, ok := x.registry.TypeIDForKey(typeKey); ok {
		typeID = tid
	}
	ts, ok := x.registry.Spec(typeID)
	if !ok {
		return
	}

	for _, fname := range ts.RequiredFields {
		label := fieldLabel(fname, ts.Fields[fname])
		if v, has := fields.Get(label); !has || v == nil {
			*errs = append(*errs, fmt.Sprintf(
				"Section %d Component %d (%s): missing required '%s'", si, ci, comp.Label, label))
		}
	}

	for _, fname := range ts.FieldSequence {
		fdef := ts.Fields[fname]
		label := fieldLabel(fname, fdef)
		v, has := fields.Get(label)
		if !has || v == nil {
			continue
		}
		switch fdef.Kind {
		case spec.KindEnum:
			if len(fdef.Map) > 0 && !isCanonicalEnum(v, fdef.Map) {
				*errs = append(*errs, fmt.Sprintf(
					"Section %d Component %d (%s): invalid value for '%s': %v", si, ci, comp.Label, label, v))
			}
		case spec.KindBool:
			if v != "Yes" && v != "No" {
				*errs = append(*errs, fmt.Sprintf(
					"Section %d Component %d (%s): boolean must be 'Yes' or 'No' for '%s'", si, ci, comp.Label, label))
			}
		case spec.KindInt:
			iv, isInt := asInt(v)
			if !isInt {
				*errs = append(*errs, fmt.Sprintf(
					"Section %d Component %d (%s): integer expected for '%s', got %v", si, ci, comp.Label, label, v))
				continue
			}
			if fdef.Min != nil && float64(iv) < *fdef.Min {
				*errs = append(*errs, fmt.Sprintf(
					"Section %d Component %d (%s): '%s' < %s", si, ci, comp.Label, label, formatNumber(*fdef.Min)))
			}
			if fdef.Max != nil && float64(iv) > *fdef.Max {
				*errs = append(*errs, fmt.Sprintf(
					"Section %d Component %d (%s): '%s' > %s", si, ci, comp.Label, label, formatNumber(*fdef.Max)))
			}
		}
		// Numbers and free strings are accepted as-is.
	}
}

// detectTypeBlock picks the type block whose key the registry knows,
// falling back to the first block when none matches.
func detectTypeBlock(comp ComponentEntry, reg *registry.Registry) (string, FieldBlock, bool) {
	if len(comp.Blocks) == 0 {
		return "", FieldBlock{}, false
	}
	for _, b := range comp.Blocks {
		if _, ok := reg.TypeIDForKey(b.Key); ok {
			return b.Key, b.Fields, true
		}
	}
	return comp.Blocks[0].Key, comp.Blocks[0].Fields, true
}

// Dumps serializes the document: 2-space indentation when pretty, compact
// separators otherwise. Key order is stable as constructed.
func (x *Exporter) Dumps(doc *Document, pretty bool) (string, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return "", fmt.Errorf("serialize export document: %w", err)
	}
	return string(data), nil
}

// Parse reads a previously exported document back, preserving field order,
// so external files can be re-validated.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse export document: %w", err)
	}
	return &doc, nil
}

// Filename fills {tag} and {page} into the template. The tag is sanitized
// for the filesystem and falls back to "Unit"; the page is 1-based. A bare
// filename (no directory component) is placed next to the current PDF.
func (x *Exporter) Filename(st state.AppState, template string) string {
	tag := sanitizeFilename(unitTag(st))
	page := st.PDF.Page + 1
	name := strings.NewReplacer(
		"{tag}", tag,
		"{page}", strconv.Itoa(page),
	).Replace(template)
	if filepath.Dir(name) != "." {
		return name
	}
	if st.PDF.Path != "" {
		return filepath.Join(filepath.Dir(st.PDF.Path), name)
	}
	return name
}

// unitTag prefers the explicit meta tag, falling back to the PDF filename
// stem.
func unitTag(st state.AppState) string {
	if st.Meta.UnitTag != "" {
		return st.Meta.UnitTag
	}
	if st.PDF.Path != "" {
		base := filepath.Base(st.PDF.Path)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return ""
}

func sanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\/:*?"<>|`, r) {
			continue
		}
		b.WriteRune(r)
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "Unit"
	}
	return out
}

// fieldLabel prefers the spec's declared label, then the humanized name.
func fieldLabel(fname string, fdef spec.FieldSpec) string {
	if fdef.Label != "" {
		return fdef.Label
	}
	return humanizeField(fname)
}

// specialFieldLabels are exact-cased labels the samples use; everything
// else gets underscores replaced and the first letter capitalized.
var specialFieldLabels = map[string]string{
	"heater_size":            "Heater Size",
	"mounting_location":      "Mounting location",
	"backdraft_dampers":      "Backdraft dampers",
	"vertically_mounted":     "Vertically mounted",
	"face_and_bypass_damper": "Face and bypass damper",
	"construction_type":      "Construction type",
}

func humanizeField(fname string) string {
	if label, ok := specialFieldLabels[fname]; ok {
		return label
	}
	s := strings.ToLower(strings.Join(strings.Split(fname, "_"), " "))
	if s == "" {
		return fname
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// isCanonicalEnum accepts only the spec's canonical values, not the input
// aliases; exported documents carry fully normalized values.
func isCanonicalEnum(v any, aliasMap map[string]string) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	for _, canonical := range aliasMap {
		if s == canonical {
			return true
		}
	}
	return false
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
