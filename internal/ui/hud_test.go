package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acustudio/acu-annotator/internal/registry"
	"github.com/acustudio/acu-annotator/internal/spec"
	"github.com/acustudio/acu-annotator/internal/state"
)

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New("", nil)
	require.NoError(t, err)
	return reg
}

func TestBuildHUDIdle(t *testing.T) {
	reg := newTestRegistry(t)
	st := state.NewAppState()

	hud := buildHUD(st, reg, "", false, nil)

	assert.Equal(t, "No sections — press Enter to create one", hud.Title)
	assert.Empty(t, hud.Fields)
	assert.Empty(t, hud.TokenUI)
	assert.Contains(t, hud.Foot, "Page 1/1")
	assert.Contains(t, hud.Foot, "Zoom 100%")
}

func TestBuildHUDSectionWithToken(t *testing.T) {
	reg := newTestRegistry(t)
	store := state.NewStore(reg)
	_, err := store.Apply(state.NewSection{Name: "S1"})
	require.NoError(t, err)

	hud := buildHUD(store.State(), reg, "ga", true, nil)

	assert.Contains(t, hud.Title, "Section S1")
	assert.Equal(t, "token: g a ▎", hud.TokenUI)
}

func TestBuildHUDEditing(t *testing.T) {
	reg := newTestRegistry(t)
	store := state.NewStore(reg)
	_, err := store.Apply(state.NewSection{Name: "S1"})
	require.NoError(t, err)
	_, err = store.Apply(state.StartComponent{Token: "gas"})
	require.NoError(t, err)

	hud := buildHUD(store.State(), reg, "", false, nil)

	assert.Equal(t, "Gas Heater", hud.Title)
	require.Len(t, hud.Fields, 2)
	assert.Equal(t, FieldChip{Name: "handing", Value: "?", Active: true}, hud.Fields[0])
	assert.Equal(t, FieldChip{Name: "heater_size", Value: "?", Active: false}, hud.Fields[1])
	assert.Equal(t, []string{"L/R"}, hud.Hints)

	// Answer the first field and the chip picks up the value
	_, err = store.Apply(state.SetFieldValue{Value: "l", AutoAdvance: true})
	require.NoError(t, err)

	hud = buildHUD(store.State(), reg, "", false, nil)
	assert.Equal(t, FieldChip{Name: "handing", Value: "Left", Active: false}, hud.Fields[0])
	assert.True(t, hud.Fields[1].Active)
}

func TestBuildHUDToastsCapped(t *testing.T) {
	reg := newTestRegistry(t)
	st := state.NewAppState()

	hud := buildHUD(st, reg, "", false, []string{"one", "two", "three", "four"})

	assert.Equal(t, []string{"two", "three", "four"}, hud.Toasts)
}

func TestFieldHints(t *testing.T) {
	tests := []struct {
		name string
		fdef spec.FieldSpec
		want []string
	}{
		{
			name: "enum with single-char keys",
			fdef: spec.FieldSpec{Kind: spec.KindEnum, Map: map[string]string{
				"l": "Left", "left": "Left", "r": "Right", "right": "Right",
			}},
			want: []string{"L/R"},
		},
		{
			name: "enum without short keys lists values",
			fdef: spec.FieldSpec{Kind: spec.KindEnum, Map: map[string]string{
				"single": "Single", "rack": "Rack",
			}},
			want: []string{"Rack/Single"},
		},
		{
			name: "bool",
			fdef: spec.FieldSpec{Kind: spec.KindBool},
			want: []string{"Y/N"},
		},
		{
			name: "int with both bounds",
			fdef: spec.FieldSpec{Kind: spec.KindInt, Min: spec.Bound(1), Max: spec.Bound(8)},
			want: []string{"[1..8]"},
		},
		{
			name: "int with min only",
			fdef: spec.FieldSpec{Kind: spec.KindInt, Min: spec.Bound(0)},
			want: []string{"≥ 0"},
		},
		{
			name: "int with max only",
			fdef: spec.FieldSpec{Kind: spec.KindInt, Max: spec.Bound(10)},
			want: []string{"≤ 10"},
		},
		{
			name: "unbounded int",
			fdef: spec.FieldSpec{Kind: spec.KindInt},
			want: []string{"int"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fieldHints(tt.fdef))
		})
	}
}
