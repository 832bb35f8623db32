package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"

	"github.com/ChizhovVadim/KifuGo/internal/domain"
	"github.com/ChizhovVadim/KifuGo/internal/store"
)

func seedDatabase(t *testing.T, games ...domain.GameRecord) string {
	t.Helper()
	var path = filepath.Join(t.TempDir(), "data.db")
	var s, err = store.Open(context.Background(), path, store.Options{Migrate: true})
	require.NoError(t, err)
	defer s.Close()
	for _, g := range games {
		_, err = s.Insert(context.Background(), g)
		require.NoError(t, err)
	}
	return path
}

func writeConfig(t *testing.T) string {
	t.Helper()
	var path = filepath.Join(t.TempDir(), "kifu.toml")
	var text = `
[board]
height = 1
width = 1
channels = 2

[log]
level = "error"
`
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	var app = newApp()
	app.Writer = &out
	var err = app.Run(append([]string{"kifu"}, args...))
	return out.String(), err
}

func TestStatsCommand(t *testing.T) {
	var db = seedDatabase(t,
		domain.GameRecord{Winner: 0, Records: []byte{10, 20, 30, 40}},
		domain.GameRecord{Winner: 1, Records: []byte{1, 2}},
		domain.GameRecord{Winner: 0, Records: []byte{3, 4}},
	)
	var out, err = run(t, "-c", writeConfig(t), "--db", db, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "games: 3")
	assert.Contains(t, out, "data count: 4")
	assert.Contains(t, out, "black winrate: 66.67%")
}

func TestCheckCommand(t *testing.T) {
	var db = seedDatabase(t,
		domain.GameRecord{Winner: 0, Records: []byte{1, 2, 3, 4, 5}},
	)
	var out, err = run(t, "-c", writeConfig(t), "--db", db, "check")
	require.Error(t, err)
	assert.Contains(t, out, "truncated records: 1")

	_, err = run(t, "-c", writeConfig(t), "--db", db, "--policy", "strict", "stats")
	assert.Error(t, err)
}

func TestGenerationsCommand(t *testing.T) {
	var zero, one = 0, 1
	var db = seedDatabase(t,
		domain.GameRecord{Winner: 0, Generation: &zero, Records: []byte{1, 2}},
		domain.GameRecord{Winner: 0, Generation: &one, Records: []byte{1, 2}},
		domain.GameRecord{Winner: 1, Generation: &one, Records: []byte{1, 2}},
	)
	var out, err = run(t, "-c", writeConfig(t), "--db", db, "generations")
	require.NoError(t, err)
	assert.Contains(t, out, "GENERATION")
	assert.Regexp(t, `(?m)^1\s+2$`, out)
}

func TestExportCommand(t *testing.T) {
	var one = 1
	var db = seedDatabase(t,
		domain.GameRecord{Winner: 0, Records: []byte{0, 255}},
		domain.GameRecord{Winner: 1, Generation: &one, Records: []byte{51, 102, 0, 0}},
	)
	var dir = filepath.Join(t.TempDir(), "out")
	var metricsFile = filepath.Join(t.TempDir(), "kifu.prom")
	var _, err = run(t, "-c", writeConfig(t), "--db", db, "-g", "1",
		"export", "-o", dir, "--normalize", "batch-max", "--metrics-file", metricsFile)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "x.npy"))
	require.NoError(t, err)
	defer f.Close()
	var x = new(tensor.Dense)
	require.NoError(t, x.ReadNpy(f))
	assert.Equal(t, tensor.Shape{2, 1, 1, 2}, x.Shape())
	assert.Equal(t, []float32{0.5, 1, 0, 0}, x.Data())

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `kifu_snapshots_total{generation="1"} 2`)
}

func TestExportEmpty(t *testing.T) {
	var db = seedDatabase(t)
	var _, err = run(t, "-c", writeConfig(t), "--db", db, "export", "-o", t.TempDir())
	assert.Error(t, err)
}
