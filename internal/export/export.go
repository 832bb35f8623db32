package export

import (
	"fmt"
	"os"
	"path/filepath"

	"gorgonia.org/tensor"

	"github.com/ChizhovVadim/KifuGo/internal/decoder"
	"github.com/ChizhovVadim/KifuGo/internal/domain"
	"github.com/ChizhovVadim/KifuGo/internal/normalize"
	"github.com/ChizhovVadim/KifuGo/pkg/board"
)

const (
	InputsFile = "x.npy"
	LabelsFile = "y.npy"
)

// Batch holds the inputs and winner labels handed to the trainer.
type Batch struct {
	X      *tensor.Dense
	Y      *tensor.Dense
	Layout board.Layout
	Scale  float64
}

// Build stacks the snapshots into an N x snapshot tensor in their stored layout.
func Build(examples []domain.Example, norm normalize.Policy) (*Batch, error) {
	if len(examples) == 0 {
		return nil, decoder.ErrEmptyDataset
	}
	var err = norm.Validate()
	if err != nil {
		return nil, err
	}
	var first = examples[0].Snapshot
	for i := range examples {
		var s = examples[i].Snapshot
		if s.Shape != first.Shape || s.Layout != first.Layout {
			return nil, fmt.Errorf("example %v: shape %v/%v differs from %v/%v",
				i, s.Shape, s.Layout, first.Shape, first.Layout)
		}
	}

	var labels = make([]int64, len(examples))
	for i := range examples {
		labels[i] = int64(examples[i].Label)
	}

	var scale = norm.Scale(examples)
	var shape = append([]int{len(examples)}, first.Shape.Dims(first.Layout)...)
	return &Batch{
		X:      tensor.New(tensor.WithShape(shape...), tensor.WithBacking(normalize.ApplyScale(examples, scale))),
		Y:      tensor.New(tensor.WithShape(len(examples)), tensor.WithBacking(labels)),
		Layout: first.Layout,
		Scale:  scale,
	}, nil
}

// ToLayout converts every snapshot to layout l.
func ToLayout(examples []domain.Example, l board.Layout) []domain.Example {
	var result = make([]domain.Example, len(examples))
	for i := range examples {
		result[i] = domain.Example{
			Snapshot: examples[i].Snapshot.ToLayout(l),
			Label:    examples[i].Label,
		}
	}
	return result
}

func (b *Batch) WriteNpy(dir string) error {
	var err = os.MkdirAll(dir, os.ModePerm)
	if err != nil {
		return err
	}
	err = writeNpy(filepath.Join(dir, InputsFile), b.X)
	if err != nil {
		return err
	}
	return writeNpy(filepath.Join(dir, LabelsFile), b.Y)
}

func writeNpy(path string, t *tensor.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = t.WriteNpy(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("write %v: %w", path, err)
	}
	return f.Close()
}
