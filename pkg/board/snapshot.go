package board

// Snapshot is a read-only view of one board state inside a record buffer.
type Snapshot struct {
	Shape  Shape
	Layout Layout
	Data   []uint8
}

func (s Snapshot) index(row, col, ch int) int {
	if s.Layout == ChannelsFirst {
		return (ch*s.Shape.Height+row)*s.Shape.Width + col
	}
	return (row*s.Shape.Width+col)*s.Shape.Channels + ch
}

func (s Snapshot) At(row, col, ch int) uint8 {
	return s.Data[s.index(row, col, ch)]
}

// ToLayout returns the snapshot with bytes reordered for layout l.
// The receiver is returned unchanged when it already uses l.
func (s Snapshot) ToLayout(l Layout) Snapshot {
	if s.Layout == l {
		return s
	}
	var result = Snapshot{
		Shape:  s.Shape,
		Layout: l,
		Data:   make([]uint8, len(s.Data)),
	}
	for row := 0; row < s.Shape.Height; row++ {
		for col := 0; col < s.Shape.Width; col++ {
			for ch := 0; ch < s.Shape.Channels; ch++ {
				result.Data[result.index(row, col, ch)] = s.At(row, col, ch)
			}
		}
	}
	return result
}

func (s Snapshot) Max() uint8 {
	var result uint8
	for _, v := range s.Data {
		if v > result {
			result = v
		}
	}
	return result
}
