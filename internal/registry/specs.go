package registry

import "github.com/acustudio/acu-annotator/internal/spec"

// handingMap is the left/right enum shared by heaters, coils and heat pipes.
func handingMap() map[string]string {
	return map[string]string{
		"l": "Left", "left": "Left",
		"r": "Right", "right": "Right",
	}
}

// mountMap is the remote/left/right/end mounting enum; withNone adds the
// "None" option used by dependent mount fields.
func mountMap(withNone bool) map[string]string {
	m := map[string]string{
		"m": "Remote", "remote": "Remote",
		"l": "Left", "left": "Left",
		"r": "Right", "right": "Right",
		"e": "End", "end": "End",
	}
	if withNone {
		m["n"] = "None"
		m["none"] = "None"
	}
	return m
}

// coilConditions gates the kit and controller quantity/mount pairs on their
// "included" booleans: hidden until answered "Yes", auto-filled with
// 0/"None" when answered "No".
var coilConditions = map[string]spec.FieldCondition{
	"kits_qty":          {Field: "kits_included", Equals: "Yes", HiddenValue: 0},
	"kits_mount":        {Field: "kits_included", Equals: "Yes", HiddenValue: "None"},
	"controllers_qty":   {Field: "controllers_included", Equals: "Yes", HiddenValue: 0},
	"controllers_mount": {Field: "controllers_included", Equals: "Yes", HiddenValue: "None"},
}

// builtinSpecs returns the built-in specs for every ACU component type.
func builtinSpecs() []spec.TypeSpec {
	return []spec.TypeSpec{
		{
			TypeID:         "ECM",
			Label:          "EC Fans",
			TypeKey:        "ECM",
			FieldSequence:  []string{"mounting_location", "backdraft_dampers", "vertically_mounted"},
			RequiredFields: []string{"mounting_location"},
			Fields: map[string]spec.FieldSpec{
				"mounting_location":  {Kind: spec.KindEnum, Map: mountMap(false)},
				"backdraft_dampers":  {Kind: spec.KindBool},
				"vertically_mounted": {Kind: spec.KindBool},
			},
			Aliases: []string{"ec", "ecm", "ecfans", "ec_fans", "fan", "fans"},
		},
		{
			TypeID:        "DDPL",
			Label:         "DDPL",
			TypeKey:       "DDPL",
			FieldSequence: []string{"vertically_mounted", "vfd_mount", "jbox_mount"},
			Fields: map[string]spec.FieldSpec{
				"vertically_mounted": {Kind: spec.KindBool},
				"vfd_mount":          {Kind: spec.KindEnum, Map: mountMap(true)},
				"jbox_mount":         {Kind: spec.KindEnum, Map: mountMap(true)},
			},
			Aliases: []string{"ddpl", "ddlf", "ddl", "direct_drive_plenum"},
		},
		{
			TypeID:  "Coil",
			Label:   "Coil",
			TypeKey: "Coil",
			FieldSequence: []string{
				"handing",
				"face_bypass_damper",
				"construction",
				"staggered",
				"kits_included", "kits_qty", "kits_mount",
				"controllers_included", "controllers_qty", "controllers_mount",
			},
			RequiredFields: []string{"handing", "construction"},
			Fields: map[string]spec.FieldSpec{
				"handing":            {Kind: spec.KindEnum, Map: handingMap()},
				"face_bypass_damper": {Kind: spec.KindBool},
				"construction": {Kind: spec.KindEnum, Map: map[string]string{
					"single": "Single", "s": "Single",
					"stacked": "Stacked", "st": "Stacked",
				}},
				"staggered":            {Kind: spec.KindBool},
				"kits_included":        {Kind: spec.KindBool},
				"kits_qty":             {Kind: spec.KindInt, Min: spec.Bound(0)},
				"kits_mount":           {Kind: spec.KindEnum, Map: mountMap(true)},
				"controllers_included": {Kind: spec.KindBool},
				"controllers_qty":      {Kind: spec.KindInt, Min: spec.Bound(0)},
				"controllers_mount":    {Kind: spec.KindEnum, Map: mountMap(true)},
			},
			Aliases:     []string{"coil", "coils", "cw_coil", "hw_coil"},
			Visibility:  spec.ConditionalVisibility(coilConditions),
			AutoDefault: spec.ConditionalDefaults(coilConditions),
		},
		{
			TypeID:        "Humidifier",
			Label:         "Humidifier",
			TypeKey:       "Humidifier",
			FieldSequence: []string{"qty"},
			Fields: map[string]spec.FieldSpec{
				"qty": {Kind: spec.KindInt, Min: spec.Bound(0)},
			},
			Aliases: []string{"humidifier", "humidifiers", "hum"},
		},
		{
			TypeID:         "GasHeater",
			Label:          "Gas Heater",
			TypeKey:        "GasHeater",
			FieldSequence:  []string{"handing", "heater_size"},
			RequiredFields: []string{"handing", "heater_size"},
			Fields: map[string]spec.FieldSpec{
				"handing": {Kind: spec.KindEnum, Map: handingMap()},
				"heater_size": {Kind: spec.KindEnum, Map: map[string]string{
					"1": "Single", "single": "Single",
					"2": "Rack", "rack": "Rack",
				}},
			},
			Aliases: []string{"gas", "gas_heater", "gh"},
		},
		{
			TypeID:         "ElectricHeater",
			Label:          "Electric Heater",
			TypeKey:        "ElectricHeater",
			FieldSequence:  []string{"handing"},
			RequiredFields: []string{"handing"},
			Fields: map[string]spec.FieldSpec{
				"handing": {Kind: spec.KindEnum, Map: handingMap()},
			},
			Aliases: []string{"electric", "eh", "elec_heater", "heater_electric"},
		},
		{
			TypeID:         "HeatPipe",
			Label:          "Heat Pipe",
			TypeKey:        "HeatPipe",
			FieldSequence:  []string{"handing", "type"},
			RequiredFields: []string{"handing", "type"},
			Fields: map[string]spec.FieldSpec{
				"handing": {Kind: spec.KindEnum, Map: handingMap()},
				"type": {Kind: spec.KindEnum, Map: map[string]string{
					"wahp": "WAHP", "wrap": "WAHP", "wraparound": "WAHP",
					"sbs": "SBS",
				}},
			},
			Aliases: []string{"heatpipe", "hp", "wahp", "sbs"},
		},
		{
			TypeID:         "PlateHEX",
			Label:          "Plate Heat Exchanger",
			TypeKey:        "PlateHEX",
			FieldSequence:  []string{"stack_qty", "bypass_dampers"},
			RequiredFields: []string{"stack_qty"},
			Fields: map[string]spec.FieldSpec{
				"stack_qty":      {Kind: spec.KindInt, Min: spec.Bound(1), Max: spec.Bound(3)},
				"bypass_dampers": {Kind: spec.KindInt, Min: spec.Bound(0), Max: spec.Bound(2)},
			},
			Aliases: []string{"plate", "phe", "plate_hex", "plate_exchanger"},
		},
		{
			TypeID:        "Accubloc",
			Label:         "Accubloc",
			TypeKey:       "Accubloc",
			FieldSequence: []string{"qty"},
			Fields: map[string]spec.FieldSpec{
				"qty": {Kind: spec.KindInt, Min: spec.Bound(0)},
			},
			Aliases: []string{"accubloc", "ab", "accu"},
		},
		{
			TypeID:         "WheelHEX",
			Label:          "Wheel Heat Exchanger",
			TypeKey:        "WheelHEX",
			FieldSequence:  []string{"qty", "bypass_dampers", "vfd_mount"},
			RequiredFields: []string{"qty"},
			Fields: map[string]spec.FieldSpec{
				"qty":            {Kind: spec.KindInt, Min: spec.Bound(1), Max: spec.Bound(2)},
				"bypass_dampers": {Kind: spec.KindInt, Min: spec.Bound(0), Max: spec.Bound(2)},
				"vfd_mount": {Kind: spec.KindEnum, Map: map[string]string{
					"l": "Left", "left": "Left",
					"r": "Right", "right": "Right",
					"e": "End", "end": "End",
					"n": "None", "none": "None",
				}},
			},
			Aliases: []string{"wheel", "rotary", "erw", "wheel_hex", "rotor"},
		},
		{
			TypeID:         "UVLights",
			Label:          "UV Lights",
			TypeKey:        "UVLights",
			FieldSequence:  []string{"qty"},
			RequiredFields: []string{"qty"},
			Fields: map[string]spec.FieldSpec{
				"qty": {Kind: spec.KindInt, Min: spec.Bound(1)},
			},
			Aliases: []string{"uv", "uv_lights", "uvlight", "uvs"},
		},
		{
			TypeID:         "Filters",
			Label:          "Filters",
			TypeKey:        "Filters",
			FieldSequence:  []string{"type"},
			RequiredFields: []string{"type"},
			Fields: map[string]spec.FieldSpec{
				"type": {Kind: spec.KindEnum, Map: map[string]string{
					"panel": "Panel", "p": "Panel",
					"combo": "Combo", "c": "Combo",
					"angled": "Angled", "a": "Angled",
				}},
			},
			Aliases: []string{"filter", "filters", "pre", "final"},
		},
		{
			TypeID:        "Misc",
			Label:         "Misc",
			TypeKey:       "Misc",
			FieldSequence: []string{"lights_qty", "safety_grating_qty", "internal_door_qty", "afms_qty"},
			Fields: map[string]spec.FieldSpec{
				"lights_qty":         {Kind: spec.KindInt, Min: spec.Bound(0)},
				"safety_grating_qty": {Kind: spec.KindInt, Min: spec.Bound(0)},
				"internal_door_qty":  {Kind: spec.KindInt, Min: spec.Bound(0)},
				"afms_qty":           {Kind: spec.KindInt, Min: spec.Bound(0)},
			},
			Aliases: []string{"misc", "lights", "grating", "door", "afms"},
		},
	}
}
