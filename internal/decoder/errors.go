package decoder

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrEmptyDataset    = errors.New("empty dataset")
)

// MalformedRecordError reports a buffer whose length is not a whole number
// of snapshots.
type MalformedRecordError struct {
	ID           int64
	Length       int
	SnapshotSize int
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %v: length %v is not a multiple of snapshot size %v",
		e.ID, e.Length, e.SnapshotSize)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}
