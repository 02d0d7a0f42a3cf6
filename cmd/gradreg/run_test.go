package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gradreg/core/model"
	"github.com/YuminosukeSato/gradreg/linear"
	"github.com/YuminosukeSato/gradreg/pkg/errors"
	"github.com/YuminosukeSato/gradreg/pkg/log"
)

func writeCSV(t *testing.T, dir string, rows ...string) string {
	t.Helper()
	path := filepath.Join(dir, "train.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o600))
	return path
}

func TestRunWritesReports(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		DataPath:  writeCSV(t, dir, "0,1", "1,3", "2,5", "3,7"),
		Alpha:     0.1,
		Iters:     1500,
		PNGPath:   filepath.Join(dir, "cost.png"),
		HTMLPath:  filepath.Join(dir, "cost.html"),
		ModelPath: filepath.Join(dir, "model.json"),
		LogLevel:  "debug",
		LogFormat: "json",
	}
	require.NoError(t, cfg.Validate())
	logger, _ := log.NewTestLogger(log.LevelDebug)

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &stdout, logger))

	out := stdout.String()
	assert.Contains(t, out, "iterations")
	assert.Contains(t, out, "1500")
	assert.Contains(t, out, "r2")
	assert.True(t, logger.ContainsMessage("training finished"))
	assert.Equal(t, 3, strings.Count(logBuffer(t, logger), "report written"))

	png, err := os.ReadFile(cfg.PNGPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	html, err := os.ReadFile(cfg.HTMLPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Iterations vs Cost")

	f, err := os.Open(cfg.ModelPath)
	require.NoError(t, err)
	defer f.Close()
	mw, err := model.ReadWeights(f)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mw.Intercept, 1e-6)
	require.Len(t, mw.Coefficients, 1)
	assert.InDelta(t, 2.0, mw.Coefficients[0], 1e-6)
	assert.Len(t, mw.CostHistory, 1500)

	reg := linear.NewGDRegressor()
	require.NoError(t, reg.ImportWeights(mw))
	pred, err := reg.Predict(mat.NewDense(1, 1, []float64{5}))
	require.NoError(t, err)
	assert.InDelta(t, 11.0, pred.At(0, 0), 1e-5)
}

func TestRunModelKeepsNormalization(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		DataPath:  writeCSV(t, dir, "1,10,25", "2,30,67", "3,20,49", "4,40,91", "5,10,33"),
		Alpha:     0.1,
		Iters:     3000,
		ModelPath: filepath.Join(dir, "model.json"),
		LogLevel:  "info",
		LogFormat: "json",
	}
	logger, _ := log.NewTestLogger(log.LevelInfo)
	require.NoError(t, run(context.Background(), cfg, &bytes.Buffer{}, logger))

	f, err := os.Open(cfg.ModelPath)
	require.NoError(t, err)
	defer f.Close()
	mw, err := model.ReadWeights(f)
	require.NoError(t, err)
	require.Len(t, mw.FeatureMean, 2)

	// y = 3 + 2*x1 + 2*x2
	reg := linear.NewGDRegressor()
	require.NoError(t, reg.ImportWeights(mw))
	pred, err := reg.Predict(mat.NewDense(1, 2, []float64{6, 15}))
	require.NoError(t, err)
	assert.InDelta(t, 45.0, pred.At(0, 0), 1e-4)
}

func TestRunMissingFile(t *testing.T) {
	cfg := Config{
		DataPath:  filepath.Join(t.TempDir(), "missing.csv"),
		Alpha:     0.01,
		Iters:     10,
		LogLevel:  "info",
		LogFormat: "json",
	}
	logger, _ := log.NewTestLogger(log.LevelInfo)
	err := run(context.Background(), cfg, &bytes.Buffer{}, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.csv")
}

func TestRunCanceledSkipsOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		DataPath:  writeCSV(t, dir, "0,1", "1,3"),
		Alpha:     0.1,
		Iters:     5,
		ModelPath: filepath.Join(dir, "model.json"),
		LogLevel:  "info",
		LogFormat: "json",
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logger, _ := log.NewTestLogger(log.LevelInfo)
	err := run(ctx, cfg, &bytes.Buffer{}, logger)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, cfg.ModelPath)
}

func TestNewLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		log.SetLogger(nil)
		slog.SetDefault(prev)
		errors.SetZerologWarnFunc(nil)
	})

	var buf bytes.Buffer
	logger, err := newLogger(Config{LogLevel: "info", LogFormat: "zerolog"}, &buf)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown", log.SamplesKey, 4)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"data.samples":4`)

	buf.Reset()
	logger, err = newLogger(Config{LogLevel: "debug", LogFormat: "json"}, &buf)
	require.NoError(t, err)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), `"severity":"DEBUG"`)
}

func logBuffer(t *testing.T, logger *log.TestLogger) string {
	t.Helper()
	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	var sb strings.Builder
	for _, e := range entries {
		if msg, ok := e["message"].(string); ok {
			sb.WriteString(msg)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
