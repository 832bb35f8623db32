package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChizhovVadim/KifuGo/internal/decoder"
	"github.com/ChizhovVadim/KifuGo/internal/normalize"
	"github.com/ChizhovVadim/KifuGo/pkg/board"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	var path = filepath.Join(t.TempDir(), "kifu.toml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	var cfg = Default()
	require.NoError(t, cfg.Validate())

	var dc, err = cfg.DecoderConfig()
	require.NoError(t, err)
	assert.Equal(t, board.Shape{Height: 9, Width: 9, Channels: 4}, dc.Shape)
	assert.Equal(t, decoder.PolicyTruncate, dc.Policy)

	norm, err := cfg.NormalizePolicy()
	require.NoError(t, err)
	assert.Equal(t, normalize.Policy{Mode: normalize.Fixed, Divisor: 255}, norm)
}

func TestLoad(t *testing.T) {
	var path = writeConfig(t, `
[board]
preset = "planes2"

[decode]
policy = "strict"
require_non_empty = true
first_player = 1

[normalize]
mode = "batch-max"

[store]
path = "/tmp/kifu.db"
generation = 3
max_snapshots = 100000

[export]
layout = "channels-last"

[log]
level = "debug"
`)
	var cfg, err = Load(path)
	require.NoError(t, err)

	dc, err := cfg.DecoderConfig()
	require.NoError(t, err)
	assert.Equal(t, board.Shape{Height: 9, Width: 9, Channels: 2}, dc.Shape)
	assert.Equal(t, board.ChannelsFirst, dc.Layout)
	assert.Equal(t, decoder.PolicyStrict, dc.Policy)
	assert.True(t, dc.RequireNonEmpty)
	assert.Equal(t, 1, dc.FirstPlayer)

	require.NotNil(t, cfg.Store.Generation)
	assert.Equal(t, 3, *cfg.Store.Generation)
	assert.Equal(t, 1024, cfg.Store.PageSize)

	l, err := cfg.ExportLayout()
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, board.ChannelsLast, *l)

	level, err := ParseLevel(cfg.Log.Level)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestExplicitDimensions(t *testing.T) {
	var cfg = Default()
	cfg.Board = BoardConfig{Height: 1, Width: 1, Channels: 2, Layout: "chw"}
	var shape, layout, err = cfg.Shape()
	require.NoError(t, err)
	assert.Equal(t, board.Shape{Height: 1, Width: 1, Channels: 2}, shape)
	assert.Equal(t, board.ChannelsFirst, layout)
}

func TestLoadRejects(t *testing.T) {
	for _, text := range []string{
		"[board]\npreset = \"planes3\"\n",
		"[decode]\npolicy = \"lenient\"\n",
		"[normalize]\nmode = \"auto\"\n",
		"[normalize]\nmode = \"fixed\"\ndivisor = 0\n",
		"[store]\nbusy_timeout = \"soon\"\n",
		"[log]\nlevel = \"trace\"\n",
		"[unknown]\nkey = 1\n",
	} {
		var _, err = Load(writeConfig(t, text))
		assert.Error(t, err, text)
	}
}

func TestExampleConfig(t *testing.T) {
	var cfg, err = Load(filepath.Join("..", "..", "kifu.example.toml"))
	require.NoError(t, err)
	norm, err := cfg.NormalizePolicy()
	require.NoError(t, err)
	assert.Equal(t, 14.0, norm.Divisor)
	assert.Nil(t, cfg.Store.Generation)
}
