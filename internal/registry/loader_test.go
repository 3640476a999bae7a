package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlugin(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadPluginSpecsEmptyDir(t *testing.T) {
	specs, err := LoadPluginSpecs("")
	require.NoError(t, err)
	assert.Empty(t, specs)

	specs, err = LoadPluginSpecs("/nonexistent/plugins")
	require.NoError(t, err)
	assert.Empty(t, specs)
}

func TestLoadSingleSpec(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "damper.yaml", `
type_id: Damper
label: Isolation Damper
field_sequence: [actuator, qty]
required_fields: [actuator]
fields:
  actuator:
    type: enum
    map: {e: Electric, p: Pneumatic}
  qty:
    type: int
    min: 1
    max: 6
aliases: [damper, iso]
`)

	reg, err := New(dir, nil)
	require.NoError(t, err)

	typeID, ok := reg.ResolveToken("iso")
	require.True(t, ok)
	assert.Equal(t, "Damper", typeID)

	ts, ok := reg.Spec("Damper")
	require.True(t, ok)
	assert.Equal(t, "Isolation Damper", ts.Label)
	assert.Equal(t, "Damper", ts.TypeKey, "type key defaults to the type id")

	got, err := reg.NormalizeValue("Damper", "actuator", "e")
	require.NoError(t, err)
	assert.Equal(t, "Electric", got)

	_, err = reg.NormalizeValue("Damper", "qty", 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum is 6")
}

func TestLoadComponentsList(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "pack.yaml", `
components:
  - type_id: Silencer
    field_sequence: [qty]
    fields:
      qty: {type: int, min: 0}
    aliases: [silencer]
  - type_id: Louver
    field_sequence: [width]
    fields:
      width: {type: number, min: 0}
    aliases: [louver]
`)

	reg, err := New(dir, nil)
	require.NoError(t, err)

	for _, token := range []string{"silencer", "louver"} {
		_, ok := reg.ResolveToken(token)
		assert.True(t, ok, "token %s should resolve", token)
	}
}

func TestLoadSpecWithVisibleWhen(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "vfd.yaml", `
type_id: VFD
field_sequence: [bypass_included, bypass_qty]
fields:
  bypass_included:
    type: bool
  bypass_qty:
    type: int
    min: 0
    visible_when: {field: bypass_included, equals: "Yes"}
    hidden_value: 0
aliases: [vfd]
`)

	reg, err := New(dir, nil)
	require.NoError(t, err)

	ts, ok := reg.Spec("VFD")
	require.True(t, ok)
	require.NotNil(t, ts.Visibility)
	require.NotNil(t, ts.AutoDefault)

	// Hidden until the controlling bool is answered Yes
	values := map[string]any{"bypass_included": nil, "bypass_qty": nil}
	assert.Equal(t, []string{"bypass_included"}, ts.VisibleFields(values))

	values["bypass_included"] = "Yes"
	assert.Equal(t, []string{"bypass_included", "bypass_qty"}, ts.VisibleFields(values))

	// Answering No fills the hidden default
	ts.AutoDefault(values, "bypass_included", "No")
	assert.Equal(t, 0, values["bypass_qty"])
}

func TestLoadSpecMissingTypeID(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "broken.yaml", `
label: No Identity
fields:
  qty: {type: int}
`)

	_, err := LoadPluginSpecs(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing type_id")
}

func TestPluginOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "filters.yaml", `
type_id: Filters
field_sequence: [type, merv]
required_fields: [type, merv]
fields:
  type:
    type: enum
    map: {p: Panel, c: Combo}
  merv:
    type: int
    min: 1
    max: 16
aliases: [filter, filters]
`)

	reg, err := New(dir, nil)
	require.NoError(t, err)

	ts, ok := reg.Spec("Filters")
	require.True(t, ok)
	assert.Equal(t, []string{"type", "merv"}, ts.FieldSequence)
}
