package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/genrel/internal/metric"
	"github.com/san-kum/genrel/internal/sym"
	"github.com/san-kum/genrel/internal/tensor"
)

const DefaultPreset = "flat/cartesian"

var ErrUnknownPreset = errors.New("config: unknown preset")

// Config describes one metric and what to compute from it.
type Config struct {
	Name         string     `yaml:"name"`
	Description  string     `yaml:"description,omitempty"`
	Coordinates  []string   `yaml:"coordinates"`
	Metric       [][]string `yaml:"metric"`
	StressEnergy [][]string `yaml:"stress_energy,omitempty"`
	Stages       []string   `yaml:"stages,omitempty"`
	LaTeX        bool       `yaml:"latex"`
	Bianchi      bool       `yaml:"bianchi"`
	Kretschmann  bool       `yaml:"kretschmann"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:        "minkowski",
		Coordinates: []string{"t", "x", "y", "z"},
		Metric:      diagonal("-1", "1", "1", "1"),
		Stages:      []string{"einstein"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Resolve loads a YAML file when nameOrPath names one, and otherwise looks
// the name up among the presets.
func Resolve(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		nameOrPath = DefaultPreset
	}
	if st, err := os.Stat(nameOrPath); err == nil && !st.IsDir() {
		return Load(nameOrPath)
	}
	cfg := FindPreset(nameOrPath)
	if cfg == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, nameOrPath)
	}
	return cfg, nil
}

// BuildMetric parses the metric entries.
func (c *Config) BuildMetric() (*metric.Metric, error) {
	m, err := metric.FromRows(c.Name, c.Metric, c.Coordinates)
	if err != nil {
		return nil, fmt.Errorf("metric %s: %w", c.Name, err)
	}
	return m, nil
}

// BuildStressEnergy parses T_{αβ}. A config without one describes vacuum
// and yields the zero tensor.
func (c *Config) BuildStressEnergy() (tensor.Tensor, error) {
	if len(c.StressEnergy) == 0 {
		return tensor.Build(2, func(tensor.Index) sym.Expr { return sym.Expr{} }), nil
	}
	if len(c.StressEnergy) != tensor.Dim {
		return tensor.Tensor{}, fmt.Errorf("stress-energy %s: %d rows, want %d", c.Name, len(c.StressEnergy), tensor.Dim)
	}
	data := make([]sym.Expr, 0, tensor.Dim*tensor.Dim)
	for i, row := range c.StressEnergy {
		if len(row) != tensor.Dim {
			return tensor.Tensor{}, fmt.Errorf("stress-energy %s: row %d has %d entries", c.Name, i, len(row))
		}
		for j, s := range row {
			e, err := sym.Parse(s)
			if err != nil {
				return tensor.Tensor{}, fmt.Errorf("stress-energy %s: T[%d][%d]: %w", c.Name, i, j, err)
			}
			data = append(data, e)
		}
	}
	return tensor.New(2, data)
}

func (c *Config) Clone() *Config {
	out := *c
	out.Coordinates = append([]string(nil), c.Coordinates...)
	out.Metric = cloneRows(c.Metric)
	out.StressEnergy = cloneRows(c.StressEnergy)
	out.Stages = append([]string(nil), c.Stages...)
	return &out
}

func cloneRows(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

func diagonal(entries ...string) [][]string {
	rows := make([][]string, len(entries))
	for i := range rows {
		rows[i] = make([]string, len(entries))
		for j := range rows[i] {
			rows[i][j] = "0"
		}
		rows[i][i] = entries[i]
	}
	return rows
}

func splitPreset(name string) (family, variant string) {
	if f, v, ok := strings.Cut(name, "/"); ok {
		return f, v
	}
	return "", name
}
