package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/genrel/internal/config"
	"github.com/san-kum/genrel/internal/gr"
	"github.com/san-kum/genrel/internal/metric"
)

func TestRegistryList(t *testing.T) {
	reg := NewRegistry()
	names := reg.List()
	require.Len(t, names, len(gr.Stages))
	for i, s := range gr.Stages {
		require.Equal(t, string(s), names[i])
	}

	info, err := reg.Get("christoffel")
	require.NoError(t, err)
	require.Equal(t, "Γ", info.Symbol)
	require.Equal(t, 1, info.Upper)

	_, err = reg.Get("torsion")
	require.Error(t, err)
}

func TestRunBeforeSetup(t *testing.T) {
	exp := New(config.DefaultConfig(), nil, nil)
	_, err := exp.Run(context.Background())
	require.Error(t, err)
}

func TestRunMinkowski(t *testing.T) {
	exp := New(config.DefaultConfig(), nil, nil)
	require.NoError(t, exp.Setup())

	out, err := exp.Run(context.Background())
	require.NoError(t, err)
	require.True(t, out.Result.Einstein.IsZero())
	require.Empty(t, out.Equations)
	require.Equal(t, []gr.Stage{gr.StageEinstein}, out.Selected)
}

func TestRunFLRWEquations(t *testing.T) {
	cfg := config.GetPreset("cosmology", "flrw")
	exp := New(cfg, nil, nil)
	require.NoError(t, exp.Setup())

	out, err := exp.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, out.Result.Bianchi)
	require.True(t, out.Result.Bianchi.IsZero())
	require.Len(t, out.Equations, 2)
	for _, eq := range out.Equations {
		require.True(t, eq.Has("G"), "equation %s lacks G", eq)
	}
}

func TestStagesDefaultsToAll(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Stages = nil
	cfg.Kretschmann = true
	exp := New(cfg, nil, nil)

	stages, err := exp.Stages()
	require.NoError(t, err)
	require.Contains(t, stages, gr.StageKretschmann)
	require.NotContains(t, stages, gr.StageBianchi)
}

func TestUnknownStage(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Stages = []string{"weyl"}
	exp := New(cfg, nil, nil)
	require.NoError(t, exp.Setup())

	_, err := exp.Run(context.Background())
	require.Error(t, err)
}

func TestSetupBadMetric(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Metric[0][1] = "1"
	exp := New(cfg, nil, nil)
	require.True(t, errors.Is(exp.Setup(), metric.ErrAsymmetric))
}

func TestRunCanceled(t *testing.T) {
	exp := New(config.DefaultConfig(), nil, nil)
	require.NoError(t, exp.Setup())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := exp.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
