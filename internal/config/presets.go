package config

import "sort"

// Presets are named override sets per lab.
var Presets = map[string]map[string]map[string]string{
	"refraction": {
		"tir":   {"from": "glass", "to": "air", "angle": "60"},
		"glass": {"from": "air", "to": "glass", "angle": "40"},
		"prism": {"mode": "prism"},
		"lens":  {"mode": "lens", "lens": "convex", "source": "1"},
	},
	"gates": {
		"nand": {"gate": "NAND", "a": "on", "b": "off"},
		"xor":  {"gate": "XOR", "a": "on", "b": "on"},
		"not":  {"gate": "NOT", "a": "off"},
	},
	"circuit": {
		"closed": {"connected": "on", "voltage": "10", "resistance": "5"},
		"short":  {"connected": "on", "voltage": "24", "resistance": "1"},
	},
	"gravity": {
		"close":  {"distance": "40"},
		"uneven": {"m1": "10", "m2": "1", "distance": "120"},
	},
	"faraday": {
		"push": {"drive": "1"},
		"pull": {"drive": "-1"},
	},
	"polarization": {
		"crossed":  {"polarizer": "0", "analyser": "90"},
		"parallel": {"polarizer": "30", "analyser": "30"},
	},
	"charles": {
		"hot":   {"temperature": "1", "load": "0.1"},
		"heavy": {"temperature": "0.3", "load": "1"},
	},
	"radiation": {
		"deflect": {"emfield": "on", "beta": "on", "gamma": "on", "gold": "off"},
		"shield":  {"shield": "on", "beta": "on", "gamma": "on", "gold": "off"},
		"scatter": {"gold": "on", "alpha": "on"},
	},
	"pendulum": {
		"wide":  {"amplitude": "60"},
		"short": {"length": "100"},
	},
	"projectile": {
		"launch": {"launch": "on"},
		"lob":    {"angle": "75", "speed": "40", "launch": "on"},
	},
	"wave": {
		"constructive": {"phase": "0"},
		"destructive":  {"phase": "3.14159"},
		"unequal":      {"amp1": "70", "amp2": "20", "phase": "3.14159"},
	},
	"wires": {
		"attract": {"direction": "same", "intensity": "1"},
		"repel":   {"direction": "opposite", "intensity": "1"},
	},
	"atom": {
		"excited": {"energy": "0.9"},
		"flat":    {"energy": "0.5", "view3d": "off"},
	},
	"bandgap": {
		"conduction": {"energy": "0.9"},
	},
	"bands": {
		"excite": {"stage": "excitation"},
		"emit":   {"stage": "emission"},
	},
	"semiconductor": {
		"germanium": {"material": "Germanium", "frequency": "1"},
		"uv":        {"material": "GaAs", "frequency": "3", "amount": "2"},
	},
	"orbitals": {
		"neon": {"electrons": "10"},
		"iron": {"electrons": "26"},
	},
	"states": {
		"ice":   {"heat": "-10"},
		"water": {"heat": "40"},
		"steam": {"heat": "120"},
	},
	"carnot": {
		"slow": {"speed": "0.25"},
	},
}

func GetPreset(lab, preset string) map[string]string {
	labPresets, ok := Presets[lab]
	if !ok {
		return nil
	}
	p, ok := labPresets[preset]
	if !ok {
		return nil
	}
	return p
}

func ListPresets(lab string) []string {
	labPresets, ok := Presets[lab]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(labPresets))
	for name := range labPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
