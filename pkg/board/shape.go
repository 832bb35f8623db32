package board

import (
	"fmt"
	"strings"
)

const (
	Size       = 9
	PieceTypes = 14
)

type Layout int

const (
	ChannelsLast Layout = iota
	ChannelsFirst
)

func (l Layout) String() string {
	switch l {
	case ChannelsLast:
		return "channels-last"
	case ChannelsFirst:
		return "channels-first"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "channels-last", "hwc", "":
		return ChannelsLast, nil
	case "channels-first", "chw":
		return ChannelsFirst, nil
	default:
		return ChannelsLast, fmt.Errorf("unknown layout %q", s)
	}
}

// Shape is the geometry of one snapshot. Channel count depends on the piece
// encoding the games were recorded with.
type Shape struct {
	Height   int
	Width    int
	Channels int
}

// Size is the number of bytes one snapshot occupies in a record buffer.
func (s Shape) Size() int {
	return s.Height * s.Width * s.Channels
}

func (s Shape) Validate() error {
	if s.Height <= 0 || s.Width <= 0 || s.Channels <= 0 {
		return fmt.Errorf("bad snapshot shape %v", s)
	}
	return nil
}

// Dims returns the snapshot dimensions in the order bytes are stored.
func (s Shape) Dims(l Layout) []int {
	if l == ChannelsFirst {
		return []int{s.Channels, s.Height, s.Width}
	}
	return []int{s.Height, s.Width, s.Channels}
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Height, s.Width, s.Channels)
}

type Preset struct {
	Name   string
	Shape  Shape
	Layout Layout
}

// Encodings the self-play writer has used so far:
// two planes (one per side), four planes (side x current/previous board)
// and one-hot piece planes for side x board x piece type.
var presets = []Preset{
	{Name: "planes2", Shape: Shape{Size, Size, 2}, Layout: ChannelsFirst},
	{Name: "planes4", Shape: Shape{Size, Size, 4}, Layout: ChannelsLast},
	{Name: "planes4-chw", Shape: Shape{Size, Size, 4}, Layout: ChannelsFirst},
	{Name: "pieces56", Shape: Shape{Size, Size, 2 * 2 * PieceTypes}, Layout: ChannelsLast},
}

func Presets() []Preset {
	var result = make([]Preset, len(presets))
	copy(result, presets)
	return result
}

func LookupPreset(name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
