package normalize

import (
	"fmt"
	"strings"

	"github.com/ChizhovVadim/KifuGo/internal/domain"
)

type Mode int

const (
	// Fixed divides every value by a constant divisor.
	Fixed Mode = iota
	// BatchMax divides every value by the largest value of the batch.
	BatchMax
)

const DefaultDivisor = 255

func (m Mode) String() string {
	if m == BatchMax {
		return "batch-max"
	}
	return "fixed"
}

type Policy struct {
	Mode    Mode
	Divisor float64
}

func Parse(mode string, divisor float64) (Policy, error) {
	switch strings.ToLower(mode) {
	case "fixed":
		if divisor <= 0 {
			return Policy{}, fmt.Errorf("fixed normalization needs positive divisor, got %v", divisor)
		}
		return Policy{Mode: Fixed, Divisor: divisor}, nil
	case "batch-max", "max":
		return Policy{Mode: BatchMax}, nil
	default:
		return Policy{}, fmt.Errorf("unknown normalization mode %q", mode)
	}
}

// Validate rejects a fixed policy without a positive divisor, including the zero Policy.
func (p Policy) Validate() error {
	if p.Mode == Fixed && p.Divisor <= 0 {
		return fmt.Errorf("fixed normalization needs positive divisor, got %v", p.Divisor)
	}
	return nil
}

func (p Policy) String() string {
	if p.Mode == Fixed {
		return fmt.Sprintf("fixed(%v)", p.Divisor)
	}
	return p.Mode.String()
}

// Scale returns the divisor the policy uses for this batch.
// An all-zero batch under BatchMax is scaled by 1.
func (p Policy) Scale(examples []domain.Example) float64 {
	if p.Mode == Fixed {
		return p.Divisor
	}
	var max uint8
	for i := range examples {
		var m = examples[i].Snapshot.Max()
		if m > max {
			max = m
		}
	}
	if max == 0 {
		return 1
	}
	return float64(max)
}

// Apply flattens snapshots in order and scales them.
func (p Policy) Apply(examples []domain.Example) []float32 {
	return ApplyScale(examples, p.Scale(examples))
}

// ApplyScale flattens snapshots in order and divides every value by scale.
func ApplyScale(examples []domain.Example, scale float64) []float32 {
	var size int
	for i := range examples {
		size += len(examples[i].Snapshot.Data)
	}
	var result = make([]float32, 0, size)
	for i := range examples {
		for _, v := range examples[i].Snapshot.Data {
			result = append(result, float32(float64(v)/scale))
		}
	}
	return result
}
