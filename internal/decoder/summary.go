package decoder

type Summary struct {
	Games            int
	Snapshots        int
	FirstPlayerWins  int
	TruncatedRecords int
	DiscardedBytes   int
}

// BlackWinRate is the share of games won by the first player.
func (s Summary) BlackWinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.FirstPlayerWins) / float64(s.Games)
}

func (s *Summary) Add(other Summary) {
	s.Games += other.Games
	s.Snapshots += other.Snapshots
	s.FirstPlayerWins += other.FirstPlayerWins
	s.TruncatedRecords += other.TruncatedRecords
	s.DiscardedBytes += other.DiscardedBytes
}
