package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ChizhovVadim/KifuGo/internal/decoder"
	"github.com/ChizhovVadim/KifuGo/internal/domain"
	"github.com/ChizhovVadim/KifuGo/internal/normalize"
	"github.com/ChizhovVadim/KifuGo/pkg/board"
)

// Config : top-level configuration.
type Config struct {
	Board     BoardConfig     `toml:"board"`
	Decode    DecodeConfig    `toml:"decode"`
	Normalize NormalizeConfig `toml:"normalize"`
	Store     StoreConfig     `toml:"store"`
	Export    ExportConfig    `toml:"export"`
	Log       LogConfig       `toml:"log"`
}

// BoardConfig selects the snapshot geometry, either through a preset name or
// explicit dimensions. Explicit dimensions win over the preset.
type BoardConfig struct {
	Preset   string `toml:"preset"`
	Height   int    `toml:"height"`
	Width    int    `toml:"width"`
	Channels int    `toml:"channels"`
	Layout   string `toml:"layout"`
}

type DecodeConfig struct {
	Policy          string `toml:"policy"`
	RequireNonEmpty bool   `toml:"require_non_empty"`
	FirstPlayer     int    `toml:"first_player"`
}

type NormalizeConfig struct {
	Mode    string  `toml:"mode"`
	Divisor float64 `toml:"divisor"`
}

type StoreConfig struct {
	Path         string `toml:"path"`
	Generation   *int   `toml:"generation"`
	PageSize     int    `toml:"page_size"`
	MaxSnapshots int    `toml:"max_snapshots"`
	BusyTimeout  string `toml:"busy_timeout"`
	OpenRetries  uint   `toml:"open_retries"`
}

type ExportConfig struct {
	Dir         string `toml:"dir"`
	Layout      string `toml:"layout"`
	MetricsFile string `toml:"metrics_file"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Board: BoardConfig{
			Preset: "planes4",
		},
		Decode: DecodeConfig{
			Policy:      decoder.PolicyTruncate.String(),
			FirstPlayer: domain.WinnerBlack,
		},
		Normalize: NormalizeConfig{
			Mode:    normalize.Fixed.String(),
			Divisor: normalize.DefaultDivisor,
		},
		Store: StoreConfig{
			Path:        "db/data.db",
			PageSize:    1024,
			BusyTimeout: "5s",
			OpenRetries: 5,
		},
		Export: ExportConfig{
			Dir: "dataset",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	var cfg = Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&cfg)
	if err != nil {
		return cfg, fmt.Errorf("config %v: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if _, err := c.DecoderConfig(); err != nil {
		return err
	}
	if _, err := c.NormalizePolicy(); err != nil {
		return err
	}
	if _, err := c.ExportLayout(); err != nil {
		return err
	}
	if _, err := c.BusyTimeout(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Store.PageSize < 0 || c.Store.MaxSnapshots < 0 {
		return fmt.Errorf("page_size and max_snapshots must not be negative")
	}
	return nil
}

func (c Config) Shape() (board.Shape, board.Layout, error) {
	var shape board.Shape
	var layout = board.ChannelsLast
	if c.Board.Preset != "" {
		var p, ok = board.LookupPreset(c.Board.Preset)
		if !ok {
			return shape, layout, fmt.Errorf("unknown board preset %q", c.Board.Preset)
		}
		shape, layout = p.Shape, p.Layout
	}
	if c.Board.Height != 0 {
		shape.Height = c.Board.Height
	}
	if c.Board.Width != 0 {
		shape.Width = c.Board.Width
	}
	if c.Board.Channels != 0 {
		shape.Channels = c.Board.Channels
	}
	if c.Board.Layout != "" {
		var l, err = board.ParseLayout(c.Board.Layout)
		if err != nil {
			return shape, layout, err
		}
		layout = l
	}
	return shape, layout, shape.Validate()
}

func (c Config) DecoderConfig() (decoder.Config, error) {
	var shape, layout, err = c.Shape()
	if err != nil {
		return decoder.Config{}, err
	}
	policy, err := decoder.ParsePolicy(c.Decode.Policy)
	if err != nil {
		return decoder.Config{}, err
	}
	return decoder.Config{
		Shape:           shape,
		Layout:          layout,
		Policy:          policy,
		RequireNonEmpty: c.Decode.RequireNonEmpty,
		FirstPlayer:     c.Decode.FirstPlayer,
	}, nil
}

func (c Config) NormalizePolicy() (normalize.Policy, error) {
	return normalize.Parse(c.Normalize.Mode, c.Normalize.Divisor)
}

// ExportLayout returns the layout exported tensors use; nil keeps the stored one.
func (c Config) ExportLayout() (*board.Layout, error) {
	if c.Export.Layout == "" {
		return nil, nil
	}
	var l, err = board.ParseLayout(c.Export.Layout)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (c Config) BusyTimeout() (time.Duration, error) {
	if c.Store.BusyTimeout == "" {
		return 0, nil
	}
	var d, err = time.ParseDuration(c.Store.BusyTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid busy_timeout: %w", err)
	}
	return d, nil
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}
