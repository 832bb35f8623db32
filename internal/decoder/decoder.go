package decoder

import (
	"fmt"
	"strings"

	"github.com/ChizhovVadim/KifuGo/internal/domain"
	"github.com/ChizhovVadim/KifuGo/pkg/board"
)

type Policy int

const (
	// PolicyTruncate drops a trailing partial snapshot.
	PolicyTruncate Policy = iota
	// PolicyStrict fails on the first record that is not a whole number of snapshots.
	PolicyStrict
)

func (p Policy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "truncate"
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "truncate", "":
		return PolicyTruncate, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyTruncate, fmt.Errorf("unknown malformed record policy %q", s)
	}
}

type Config struct {
	Shape           board.Shape
	Layout          board.Layout
	Policy          Policy
	RequireNonEmpty bool
	FirstPlayer     int
}

type Result struct {
	Examples []domain.Example
	Summary  Summary
}

type Decoder struct {
	config Config
}

func New(config Config) (*Decoder, error) {
	var err = config.Shape.Validate()
	if err != nil {
		return nil, err
	}
	return &Decoder{config: config}, nil
}

func (d *Decoder) Config() Config {
	return d.config
}

// Decode turns records into examples, one per snapshot, keeping record order
// and the chronological order of snapshots inside a record.
// RequireNonEmpty is not checked here, see Check.
func (d *Decoder) Decode(records []domain.GameRecord) (*Result, error) {
	var size = d.config.Shape.Size()
	var result = &Result{}
	for i := range records {
		var rec = &records[i]
		var count = len(rec.Records) / size
		var rest = len(rec.Records) % size
		if rest != 0 {
			if d.config.Policy == PolicyStrict {
				return nil, &MalformedRecordError{
					ID:           rec.ID,
					Length:       len(rec.Records),
					SnapshotSize: size,
				}
			}
			result.Summary.TruncatedRecords++
			result.Summary.DiscardedBytes += rest
		}
		for j := 0; j < count; j++ {
			result.Examples = append(result.Examples, domain.Example{
				Snapshot: board.Snapshot{
					Shape:  d.config.Shape,
					Layout: d.config.Layout,
					Data:   rec.Records[j*size : (j+1)*size : (j+1)*size],
				},
				Label: rec.Winner,
			})
		}
		result.Summary.Games++
		result.Summary.Snapshots += count
		if rec.Winner == d.config.FirstPlayer {
			result.Summary.FirstPlayerWins++
		}
	}
	return result, nil
}

// Check applies RequireNonEmpty to a complete result.
func (d *Decoder) Check(result *Result) error {
	if d.config.RequireNonEmpty && result.Summary.Snapshots == 0 {
		return fmt.Errorf("%v games decoded: %w", result.Summary.Games, ErrEmptyDataset)
	}
	return nil
}

func Decode(records []domain.GameRecord, config Config) (*Result, error) {
	var d, err = New(config)
	if err != nil {
		return nil, err
	}
	result, err := d.Decode(records)
	if err != nil {
		return nil, err
	}
	err = d.Check(result)
	if err != nil {
		return nil, err
	}
	return result, nil
}
