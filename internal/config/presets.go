package config

import "sort"

var Presets = map[string]map[string]*Config{
	"flat": {
		"cartesian": {
			Name: "minkowski", Description: "Minkowski space in Cartesian coordinates",
			Coordinates: []string{"t", "x", "y", "z"},
			Metric:      diagonal("-1", "1", "1", "1"),
			Stages:      []string{"christoffel", "riemann", "einstein"},
		},
		"spherical": {
			Name: "minkowski-spherical", Description: "Minkowski space in spherical coordinates",
			Coordinates: []string{"t", "r", "theta", "phi"},
			Metric:      diagonal("-1", "1", "r^2", "r^2*sin(theta)^2"),
			Stages:      []string{"christoffel", "riemann"},
		},
	},
	"cosmology": {
		"flrw": {
			Name: "flrw", Description: "spatially flat FLRW universe filled with a perfect fluid",
			Coordinates:  []string{"t", "x", "y", "z"},
			Metric:       diagonal("-1", "a(t)^2", "a(t)^2", "a(t)^2"),
			StressEnergy: diagonal("rho(t)", "p(t)*a(t)^2", "p(t)*a(t)^2", "p(t)*a(t)^2"),
			Stages:       []string{"christoffel", "ricci", "ricci-scalar", "einstein"},
			Bianchi:      true,
		},
		"flrw-curved": {
			Name: "flrw-curved", Description: "FLRW universe with spatial curvature k",
			Coordinates: []string{"t", "r", "theta", "phi"},
			Metric:      diagonal("-1", "a(t)^2/(1 - k*r^2)", "a(t)^2*r^2", "a(t)^2*r^2*sin(theta)^2"),
			Stages:      []string{"ricci-scalar", "einstein"},
		},
		"bianchi-i": {
			Name: "bianchi-i", Description: "anisotropic Bianchi type I universe",
			Coordinates: []string{"t", "x", "y", "z"},
			Metric:      diagonal("-1", "a(t)^2", "b(t)^2", "c(t)^2"),
			Stages:      []string{"einstein"},
			Bianchi:     true,
		},
		"de-sitter": {
			Name: "de-sitter", Description: "static patch of de Sitter space with radius l",
			Coordinates: []string{"t", "r", "theta", "phi"},
			Metric:      diagonal("-(1 - r^2/l^2)", "1/(1 - r^2/l^2)", "r^2", "r^2*sin(theta)^2"),
			Stages:      []string{"ricci", "ricci-scalar", "einstein"},
		},
	},
	"black-hole": {
		"schwarzschild": {
			Name: "schwarzschild", Description: "Schwarzschild black hole of mass M",
			Coordinates: []string{"t", "r", "theta", "phi"},
			Metric:      diagonal("-(1 - 2*M/r)", "1/(1 - 2*M/r)", "r^2", "r^2*sin(theta)^2"),
			Stages:      []string{"christoffel", "riemann", "ricci", "einstein"},
			Kretschmann: true,
		},
		"reissner-nordstrom": {
			Name: "reissner-nordstrom", Description: "charged black hole of mass M and charge Q",
			Coordinates: []string{"t", "r", "theta", "phi"},
			Metric:      diagonal("-(1 - 2*M/r + Q^2/r^2)", "1/(1 - 2*M/r + Q^2/r^2)", "r^2", "r^2*sin(theta)^2"),
			Stages:      []string{"ricci", "ricci-scalar", "einstein"},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(family, variant string) *Config {
	variants, ok := Presets[family]
	if !ok {
		return nil
	}
	cfg, ok := variants[variant]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// FindPreset accepts "family/variant" or a bare variant name that is
// unique across families.
func FindPreset(name string) *Config {
	family, variant := splitPreset(name)
	if family != "" {
		return GetPreset(family, variant)
	}
	var found *Config
	for _, f := range ListFamilies() {
		if cfg := GetPreset(f, variant); cfg != nil {
			if found != nil {
				return nil
			}
			found = cfg
		}
	}
	return found
}

func ListPresets(family string) []string {
	variants, ok := Presets[family]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListFamilies() []string {
	families := make([]string, 0, len(Presets))
	for f := range Presets {
		families = append(families, f)
	}
	sort.Strings(families)
	return families
}
