package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Name != "minkowski" {
		t.Errorf("expected name minkowski, got %s", cfg.Name)
	}
	if len(cfg.Coordinates) != 4 {
		t.Errorf("expected 4 coordinates, got %d", len(cfg.Coordinates))
	}
	if _, err := cfg.BuildMetric(); err != nil {
		t.Errorf("default metric invalid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("black-hole", "schwarzschild")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Coordinates[1] != "r" {
		t.Errorf("expected coordinate r, got %s", cfg.Coordinates[1])
	}
	if !cfg.Kretschmann {
		t.Error("expected kretschmann enabled")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("black-hole", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "flrw"); cfg != nil {
		t.Error("expected nil for nonexistent family")
	}
}

func TestGetPreset_ReturnsCopy(t *testing.T) {
	cfg := GetPreset("cosmology", "flrw")
	cfg.Metric[0][0] = "1"
	if again := GetPreset("cosmology", "flrw"); again.Metric[0][0] != "-1" {
		t.Error("preset mutated through returned config")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("cosmology")
	if len(presets) == 0 {
		t.Error("expected presets for cosmology")
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent family")
	}
}

func TestAllPresetsBuild(t *testing.T) {
	for _, family := range ListFamilies() {
		for _, name := range ListPresets(family) {
			t.Run(family+"/"+name, func(t *testing.T) {
				cfg := GetPreset(family, name)
				m, err := cfg.BuildMetric()
				if err != nil {
					t.Fatalf("BuildMetric: %v", err)
				}
				if err := m.CheckInvertible(); err != nil {
					t.Errorf("CheckInvertible: %v", err)
				}
				if _, err := cfg.BuildStressEnergy(); err != nil {
					t.Errorf("BuildStressEnergy: %v", err)
				}
			})
		}
	}
}

func TestFindPreset(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"black-hole/schwarzschild", "schwarzschild"},
		{"schwarzschild", "schwarzschild"},
		{"flrw", "flrw"},
		{"cartesian", "minkowski"},
		{"missing", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := FindPreset(tt.name)
			switch {
			case tt.want == "" && cfg != nil:
				t.Errorf("expected nil, got %s", cfg.Name)
			case tt.want != "" && (cfg == nil || cfg.Name != tt.want):
				t.Errorf("FindPreset(%q) = %v", tt.name, cfg)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	if _, err := Resolve("nope"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
	cfg, err := Resolve("")
	if err != nil || cfg.Name != "minkowski" {
		t.Errorf("Resolve(\"\") = %v, %v", cfg, err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flrw.yaml")
	cfg := GetPreset("cosmology", "flrw")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if loaded.Name != "flrw" || loaded.Metric[1][1] != "a(t)^2" || !loaded.Bianchi {
		t.Errorf("loaded config differs: %+v", loaded)
	}
	if len(loaded.StressEnergy) != 4 {
		t.Errorf("expected stress-energy rows, got %d", len(loaded.StressEnergy))
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("name: custom\nlatex: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "custom" || !cfg.LaTeX || len(cfg.Metric) != 4 {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestBuildStressEnergy(t *testing.T) {
	cfg := GetPreset("cosmology", "flrw")
	tt, err := cfg.BuildStressEnergy()
	if err != nil {
		t.Fatal(err)
	}
	if tt.At(0, 0).String() != "rho(t)" {
		t.Errorf("T_tt = %s", tt.At(0, 0))
	}

	vacuum := GetPreset("black-hole", "schwarzschild")
	zero, err := vacuum.BuildStressEnergy()
	if err != nil || !zero.IsZero() {
		t.Errorf("expected zero stress-energy, got %v", err)
	}

	cfg.StressEnergy[2] = []string{"0", "0"}
	if _, err := cfg.BuildStressEnergy(); err == nil {
		t.Error("expected error for short row")
	}
}
