package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/genrel/internal/experiment"
	"github.com/san-kum/genrel/internal/gr"
	"github.com/san-kum/genrel/internal/sym"
	"github.com/san-kum/genrel/internal/tensor"
)

const (
	metadataFile   = "metadata.json"
	componentsFile = "components.csv"
)

var componentHeader = []string{"stage", "index", "expr", "latex"}

type Store struct {
	baseDir string
	logger  *slog.Logger
	newID   func() string
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func New(baseDir string, opts ...Option) *Store {
	s := &Store{baseDir: baseDir, logger: slog.New(slog.DiscardHandler), newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type StageSummary struct {
	Stage   string        `json:"stage"`
	Elapsed time.Duration `json:"elapsed_ns"`
	NonZero int           `json:"nonzero"`
	Size    int           `json:"size"`
}

type RunMetadata struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
	Coordinates []string       `json:"coordinates"`
	Metric      [][]string     `json:"metric"`
	Stages      []StageSummary `json:"stages"`
	RicciScalar string         `json:"ricci_scalar"`
	Kretschmann string         `json:"kretschmann,omitempty"`
	Equations   []string       `json:"equations"`
}

// Component is one nonzero tensor entry as stored in components.csv.
type Component struct {
	Stage string
	Index string
	Expr  string
	LaTeX string
}

// Save writes the outcome under a fresh run ID and returns it. A run that
// fails to write leaves no directory behind.
func (s *Store) Save(out *experiment.Outcome) (runID string, err error) {
	runID = s.newID()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
			runID = ""
		}
	}()

	res := out.Result
	meta := RunMetadata{
		ID:          runID,
		Name:        out.Config.Name,
		Description: out.Config.Description,
		Timestamp:   time.Now(),
		Coordinates: out.Config.Coordinates,
		Metric:      out.Config.Metric,
		RicciScalar: res.RicciScalar.String(),
		Equations:   make([]string, 0, len(out.Equations)),
	}
	for _, t := range res.Timings {
		meta.Stages = append(meta.Stages, StageSummary{Stage: string(t.Stage), Elapsed: t.Elapsed, NonZero: t.NonZero, Size: t.Size})
	}
	if res.Kretschmann != nil {
		meta.Kretschmann = res.Kretschmann.String()
	}
	for _, eq := range out.Equations {
		meta.Equations = append(meta.Equations, eq.String())
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	n, err := writeComponents(filepath.Join(runDir, componentsFile), res, out.Selected)
	if err != nil {
		return "", err
	}

	s.logger.Info("[STORAGE] run saved", "id", runID, "metric", meta.Name, "components", n)
	return runID, nil
}

func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeFile(f, &err)

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeComponents(path string, res *gr.Result, stages []gr.Stage) (n int, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer closeFile(f, &err)

	w := csv.NewWriter(f)
	if err := w.Write(componentHeader); err != nil {
		return 0, err
	}

	for _, st := range stages {
		t, ok := res.Stage(st)
		if !ok {
			continue
		}
		var werr error
		t.Each(func(idx tensor.Index, e sym.Expr) {
			if werr != nil || e.IsZero() {
				return
			}
			werr = w.Write([]string{string(st), idx.String(), e.String(), e.LaTeX()})
			n++
		})
		if werr != nil {
			return n, werr
		}
	}
	w.Flush()
	return n, w.Error()
}

// closeFile closes f and reports the close error unless err is already set.
func closeFile(f *os.File, err *error) {
	if cerr := f.Close(); *err == nil {
		*err = cerr
	}
}

// List returns saved runs, newest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Debug("[STORAGE] skipping run", "dir", entry.Name(), "error", err)
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadComponents(runID string) ([]Component, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, componentsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(componentHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []Component{}, nil
	}

	out := make([]Component, 0, len(records)-1)
	for _, rec := range records[1:] {
		out = append(out, Component{Stage: rec[0], Index: rec[1], Expr: rec[2], LaTeX: rec[3]})
	}
	return out, nil
}
