package export

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acustudio/acu-annotator/internal/registry"
	"github.com/acustudio/acu-annotator/internal/state"
)

func newExporter(t *testing.T) (*Exporter, *registry.Registry) {
	t.Helper()
	reg, err := registry.New("", nil)
	require.NoError(t, err)
	return New(reg), reg
}

// annotatedState builds a unit with one section holding a gas heater, the
// way the reducer would produce it.
func annotatedState(t *testing.T, reg *registry.Registry) state.AppState {
	t.Helper()
	store := state.NewStore(reg)
	cmds := []state.Command{
		state.SetPDFDocument{Path: "/drawings/AHU-23.pdf", PageCount: 4},
		state.SetUnitMeta{Meta: state.Meta{UnitTag: "AHU-23", IndoorOutdoor: "Indoor"}},
		state.NewSection{Name: "S1"},
		state.StartComponent{Token: "gas"},
		state.SetFieldValue{Value: "l", AutoAdvance: true},
		state.SetFieldValue{Value: "rack"},
		state.CommitComponent{},
	}
	for _, cmd := range cmds {
		_, err := store.Apply(cmd)
		require.NoError(t, err)
	}
	return store.State()
}

func TestBuildShape(t *testing.T) {
	xp, reg := newExporter(t)
	doc := xp.Build(annotatedState(t, reg))

	require.NotNil(t, doc.UnitTag)
	assert.Equal(t, "AHU-23", *doc.UnitTag)
	require.NotNil(t, doc.UnitProperties.IndoorOutdoor)
	assert.Equal(t, "Indoor", *doc.UnitProperties.IndoorOutdoor)

	size := doc.UnitProperties.UnitSize
	assert.Equal(t, 1, size.SectionQuantity)
	require.Len(t, size.SectionLength, 1)

	sec := size.SectionLength[0]
	assert.Equal(t, 1, sec.SectionNumber)
	assert.Equal(t, "S1", sec.Name)
	assert.Nil(t, sec.Length)
	require.Len(t, sec.Components, 1)

	comp := sec.Components[0]
	assert.Equal(t, "Gas Heater", comp.Label)
	require.Len(t, comp.Blocks, 1)
	assert.Equal(t, "GasHeater", comp.Blocks[0].Key)

	v, ok := comp.Blocks[0].Fields.Get("Handing")
	require.True(t, ok)
	assert.Equal(t, "Left", v)
	v, ok = comp.Blocks[0].Fields.Get("Heater Size")
	require.True(t, ok)
	assert.Equal(t, "Rack", v)
}

func TestBuildEmptyState(t *testing.T) {
	xp, _ := newExporter(t)
	doc := xp.Build(state.NewAppState())

	assert.Nil(t, doc.UnitTag)
	assert.Equal(t, 0, doc.UnitProperties.UnitSize.SectionQuantity)
	assert.NotNil(t, doc.UnitProperties.UnitSize.SectionLength, "empty list, not null")

	ok, errs := xp.Validate(doc)
	assert.True(t, ok)
	assert.Empty(t, errs)
}

func TestDumpsKeyOrder(t *testing.T) {
	xp, reg := newExporter(t)
	doc := xp.Build(annotatedState(t, reg))

	text, err := xp.Dumps(doc, true)
	require.NoError(t, err)

	// Top-level and nested keys appear in the contract order
	ordered := []string{
		`"Unit Tag"`,
		`"Unit Properties"`,
		`"Indoor/Outdoor"`,
		`"Unit size"`,
		`"Unit Length"`,
		`"Width (with base)"`,
		`"Height (base only)"`,
		`"Cabinet height"`,
		`"Cabinet width"`,
		`"Section quantity"`,
		`"Section length"`,
		`"Section Number"`,
		`"Label"`,
		`"GasHeater"`,
		`"Handing"`,
		`"Heater Size"`,
	}
	last := -1
	for _, key := range ordered {
		idx := strings.Index(text, key)
		require.GreaterOrEqual(t, idx, 0, "missing key %s", key)
		assert.Greater(t, idx, last, "key %s out of order", key)
		last = idx
	}
}

func TestDumpsPrettyAndCompact(t *testing.T) {
	xp, reg := newExporter(t)
	doc := xp.Build(annotatedState(t, reg))

	pretty, err := xp.Dumps(doc, true)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(pretty, "{\n  \"Unit Tag\""))

	compact, err := xp.Dumps(doc, false)
	require.NoError(t, err)
	assert.NotContains(t, compact, "\n")
	assert.Less(t, len(compact), len(pretty))

	// Both parse to the same document
	a, err := Parse([]byte(pretty))
	require.NoError(t, err)
	b, err := Parse([]byte(compact))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestValidateMissingRequiredField(t *testing.T) {
	xp, _ := newExporter(t)

	doc, err := Parse([]byte(`{
		"Unit Tag": "AHU-23",
		"Unit Properties": {
			"Indoor/Outdoor": null,
			"Unit size": {
				"Unit Length": null,
				"Width (with base)": null,
				"Height (base only)": null,
				"Cabinet height": null,
				"Cabinet width": null,
				"Section quantity": 1,
				"Section length": [
					{
						"Section Number": 1,
						"Length": null,
						"Components": [
							{"Label": "Gas Heater", "GasHeater": {"Handing": "Left"}}
						]
					}
				]
			}
		}
	}`))
	require.NoError(t, err)

	ok, errs := xp.Validate(doc)
	assert.False(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "Section 1 Component 1 (Gas Heater): missing required 'Heater Size'", errs[0])
}

func TestValidateValueChecks(t *testing.T) {
	xp, _ := newExporter(t)

	doc, err := Parse([]byte(`{
		"Unit Tag": null,
		"Unit Properties": {
			"Indoor/Outdoor": null,
			"Unit size": {
				"Section quantity": 1,
				"Section length": [
					{
						"Section Number": 1,
						"Length": null,
						"Components": [
							{"Label": "Gas Heater", "GasHeater": {"Handing": "Sideways", "Heater Size": "Rack"}},
							{"Label": "EC Fans", "ECM": {"Mounting location": "Left", "Backdraft dampers": "Maybe"}},
							{"Label": "Plate Heat Exchanger", "PlateHEX": {"Stack qty": 9}},
							{"Label": "UV Lights", "UVLights": {"Qty": "four"}},
							{"Label": "Mystery", "Gadget": {"Dial": 3}}
						]
					}
				]
			}
		}
	}`))
	require.NoError(t, err)

	ok, errs := xp.Validate(doc)
	assert.False(t, ok)

	joined := strings.Join(errs, "\n")
	assert.Contains(t, joined, "invalid value for 'Handing': Sideways")
	assert.Contains(t, joined, "boolean must be 'Yes' or 'No' for 'Backdraft dampers'")
	assert.Contains(t, joined, "'Stack qty' > 3")
	assert.Contains(t, joined, "integer expected for 'Qty', got four")
	// Unknown type block falls back to the first candidate and passes
	assert.NotContains(t, joined, "Mystery")
}

func TestValidateNilDocument(t *testing.T) {
	xp, _ := newExporter(t)
	ok, errs := xp.Validate(nil)
	assert.False(t, ok)
	assert.Equal(t, []string{"Missing: Unit Properties"}, errs)
}

func TestFilename(t *testing.T) {
	xp, reg := newExporter(t)

	st := annotatedState(t, reg)
	assert.Equal(t, filepath.Join("/drawings", "AHU-23_p1.json"),
		xp.Filename(st, "{tag}_p{page}.json"))

	// Page is 1-based in the filename
	next, err := state.Reduce(st, state.NavPage{Delta: 2}, reg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/drawings", "AHU-23_p3.json"),
		xp.Filename(next, "{tag}_p{page}.json"))

	// Template with a directory stays where it points
	assert.Equal(t, "out/AHU-23_p1.json", xp.Filename(st, "out/{tag}_p{page}.json"))
}

func TestFilenameSanitization(t *testing.T) {
	xp, reg := newExporter(t)
	store := state.NewStore(reg)
	_, err := store.Apply(state.SetUnitMeta{Meta: state.Meta{UnitTag: `AHU/23:*?"rooftop"`}})
	require.NoError(t, err)

	name := xp.Filename(store.State(), "{tag}_p{page}.json")
	assert.Equal(t, "AHU23rooftop_p1.json", name)
}

func TestFilenameFallsBackToPDFStemAndUnit(t *testing.T) {
	xp, reg := newExporter(t)
	store := state.NewStore(reg)

	// No tag, no PDF
	assert.Equal(t, "Unit_p1.json", xp.Filename(store.State(), "{tag}_p{page}.json"))

	// No tag, PDF stem takes over
	_, err := store.Apply(state.SetPDFDocument{Path: "/drawings/RTU-7.pdf", PageCount: 2})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/drawings", "RTU-7_p1.json"),
		xp.Filename(store.State(), "{tag}_p{page}.json"))
}

func TestRoundTripRevalidates(t *testing.T) {
	xp, reg := newExporter(t)
	doc := xp.Build(annotatedState(t, reg))

	text, err := xp.Dumps(doc, true)
	require.NoError(t, err)

	parsed, err := Parse([]byte(text))
	require.NoError(t, err)

	ok, errs := xp.Validate(parsed)
	assert.True(t, ok, "round-tripped document should validate: %v", errs)

	// Field order survives the round trip
	labels := parsed.UnitProperties.UnitSize.SectionLength[0].Components[0].Blocks[0].Fields.Labels()
	assert.Equal(t, []string{"Handing", "Heater Size"}, labels)
}

func TestHumanizeField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"heater_size", "Heater Size"},
		{"mounting_location", "Mounting location"},
		{"backdraft_dampers", "Backdraft dampers"},
		{"vertically_mounted", "Vertically mounted"},
		{"face_and_bypass_damper", "Face and bypass damper"},
		{"construction_type", "Construction type"},
		{"kits_qty", "Kits qty"},
		{"face_bypass_damper", "Face bypass damper"},
		{"qty", "Qty"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, humanizeField(tt.in))
		})
	}
}

func TestSchema(t *testing.T) {
	xp, _ := newExporter(t)
	schema := xp.Schema()

	assert.Equal(t, "http://json-schema.org/draft-07/schema#", schema["$schema"])
	assert.Equal(t, "ACU Export", schema["title"])

	defs := schema["definitions"].(map[string]any)
	comps := defs["components"].(map[string]any)
	gas := comps["GasHeater"].(map[string]any)
	assert.ElementsMatch(t, []string{"Handing", "Heater Size"}, gas["required"])

	props := gas["properties"].(map[string]any)
	require.Contains(t, props, "Handing")

	// The whole thing serializes
	_, err := json.Marshal(schema)
	require.NoError(t, err)
}
