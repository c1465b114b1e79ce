package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/genrel/internal/config"
	"github.com/san-kum/genrel/internal/experiment"
	"github.com/san-kum/genrel/internal/sym"
)

func runPreset(t *testing.T, family, name string) *experiment.Outcome {
	t.Helper()
	exp := experiment.New(config.GetPreset(family, name), nil, nil)
	require.NoError(t, exp.Setup())
	out, err := exp.Run(context.Background())
	require.NoError(t, err)
	return out
}

func TestSaveLoad(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "runs"))
	require.NoError(t, s.Init())

	out := runPreset(t, "cosmology", "flrw")
	id, err := s.Save(out)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	meta, err := s.Load(id)
	require.NoError(t, err)
	require.Equal(t, "flrw", meta.Name)
	require.Equal(t, out.Config.Metric, meta.Metric)
	require.Len(t, meta.Equations, 2)
	require.Len(t, meta.Stages, len(out.Result.Timings))
	require.Empty(t, meta.Kretschmann)

	comps, err := s.LoadComponents(id)
	require.NoError(t, err)
	require.NotEmpty(t, comps)
	seen := map[string]bool{}
	for _, c := range comps {
		seen[c.Stage] = true
		require.NotEqual(t, "0", c.Expr)
		require.NotEmpty(t, c.LaTeX)
	}
	for _, st := range out.Selected {
		require.True(t, seen[string(st)], "stage %s missing", st)
	}
}

func TestSaveKretschmann(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.Save(runPreset(t, "black-hole", "schwarzschild"))
	require.NoError(t, err)

	meta, err := s.Load(id)
	require.NoError(t, err)
	k, err := sym.Parse(meta.Kretschmann)
	require.NoError(t, err)
	require.True(t, k.Equal(sym.MustParse("48*M^2/r^6")), "K = %s", k)
	require.Empty(t, meta.Equations)
}

func TestList(t *testing.T) {
	s := New(t.TempDir())
	runs, err := s.List()
	require.NoError(t, err)
	require.Empty(t, runs)

	first, err := s.Save(runPreset(t, "flat", "cartesian"))
	require.NoError(t, err)
	second, err := s.Save(runPreset(t, "flat", "spherical"))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(s.baseDir, "junk"), 0755))

	runs, err = s.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	ids := []string{runs[0].ID, runs[1].ID}
	require.ElementsMatch(t, []string{first, second}, ids)
}

func TestListMissingDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := s.List()
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestLoadMissing(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Load("nope")
	require.Error(t, err)
	_, err = s.LoadComponents("nope")
	require.Error(t, err)
}

func TestSaveFailureRemovesRunDir(t *testing.T) {
	s := New(t.TempDir())
	s.newID = func() string { return "broken" }
	runDir := filepath.Join(s.baseDir, "broken")
	// A directory where the CSV file belongs makes the second write fail.
	require.NoError(t, os.MkdirAll(filepath.Join(runDir, componentsFile), 0755))

	id, err := s.Save(runPreset(t, "flat", "cartesian"))
	require.Error(t, err)
	require.Empty(t, id)
	_, statErr := os.Stat(runDir)
	require.True(t, os.IsNotExist(statErr), "run dir left behind: %v", statErr)

	runs, err := s.List()
	require.NoError(t, err)
	require.Empty(t, runs)
}
