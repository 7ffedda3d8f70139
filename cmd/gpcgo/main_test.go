package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gpcgo"
	"github.com/hupe1980/gpcgo/basis"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBench(t *testing.T) {
	out, err := execute(t, "bench", "--dims", "2", "--order", "3", "--samples", "64", "--repeat", "2", "--gradient", "--grid", "lhs")
	require.NoError(t, err)
	assert.Regexp(t, `basis rows\s+10\n`, out)
	assert.Regexp(t, `slots\s+3\n`, out)
	assert.Contains(t, out, "residual")
}

func TestBenchTrace(t *testing.T) {
	cmd := newRootCmd()
	var out, spans bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&spans)
	cmd.SetArgs([]string{"bench", "--samples", "16", "--repeat", "1", "--trace", "--log-level", "error"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Contains(t, spans.String(), "gpcgo.BuildDesignMatrix")
	assert.Contains(t, spans.String(), "gpcgo.Evaluate")
}

func TestBenchValidation(t *testing.T) {
	_, err := execute(t, "bench", "--samples", "0")
	assert.Error(t, err)

	_, err = execute(t, "bench", "--grid", "sobol")
	assert.Error(t, err)

	_, err = execute(t, "bench", "--family", "chebyshev")
	assert.ErrorIs(t, err, basis.ErrInvalidFamily)

	_, err = execute(t, "bench", "--log-format", "xml")
	assert.Error(t, err)
}

func TestBenchConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engine:
  families:
    - kind: legendre
      lo: 0
      hi: 1
    - kind: hermite
      mean: 0
      std: 1
  workers: 2
order: 2
samples: 32
outputs: 2
grid: random
repeat: 1
`), 0o600))

	out, err := execute(t, "bench", "--config", path)
	require.NoError(t, err)
	assert.Regexp(t, `basis rows\s+6\n`, out)
	assert.Regexp(t, `outputs\s+2\n`, out)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("engine:\n  families: []\nsamples: 4\n"), 0o600))
	_, err = execute(t, "bench", "--config", bad)
	assert.Error(t, err)
}

func TestRunBenchResidual(t *testing.T) {
	cfg := benchConfig{
		Engine:  gpcgo.Config{Families: []basis.Spec{{Kind: basis.Hermite, Std: 1}}, Gradient: true},
		Dims:    3,
		Order:   3,
		Samples: 100,
		Outputs: 2,
		Grid:    "random",
		Seed:    9,
		Repeat:  1,
	}
	r, err := runBench(context.Background(), cfg, gpcgo.NoopLogger(), gpcgo.NoopMetricsCollector{})
	require.NoError(t, err)
	assert.Equal(t, 20, r.Basis)
	assert.Equal(t, 4, r.Slots)
	assert.Less(t, r.Residual, 1e-9)
}

func TestPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hermite.html")
	_, err := execute(t, "plot", "--family", "hermite", "--max-degree", "3", "--points", "21", "--derivative", "--out", path)
	require.NoError(t, err)

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(html), "echarts")
	assert.Contains(t, string(html), "degree 3")
	assert.Contains(t, string(html), "hermite polynomials (derivative)")

	_, err = execute(t, "plot", "--points", "1", "--out", path)
	assert.Error(t, err)
}

func TestPlotRange(t *testing.T) {
	leg, err := basis.NewLegendre(2, 5)
	require.NoError(t, err)
	lo, hi, err := plotRange(leg)
	require.NoError(t, err)
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 5.0, hi)

	lag, err := basis.NewLaguerre(0, 1, 1)
	require.NoError(t, err)
	lo, hi, err = plotRange(lag)
	require.NoError(t, err)
	assert.Equal(t, 1.0, lo)
	assert.Greater(t, hi, 5.0)
}
