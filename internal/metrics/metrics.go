package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ChizhovVadim/KifuGo/internal/decoder"
)

const namespace = "kifu"

// DecodeMetrics counts what a decode run saw. The registry is private so
// several runs can coexist in one process.
type DecodeMetrics struct {
	registry         *prometheus.Registry
	games            prometheus.Counter
	snapshots        prometheus.Counter
	firstPlayerWins  prometheus.Counter
	truncatedRecords prometheus.Counter
	discardedBytes   prometheus.Counter
}

func NewDecodeMetrics(generation string) *DecodeMetrics {
	var reg = prometheus.NewRegistry()
	var factory = promauto.With(reg)
	var labels = prometheus.Labels{"generation": generation}
	var counter = func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}
	return &DecodeMetrics{
		registry:         reg,
		games:            counter("games_total", "Game records decoded."),
		snapshots:        counter("snapshots_total", "Board snapshots decoded."),
		firstPlayerWins:  counter("first_player_wins_total", "Games won by the first player."),
		truncatedRecords: counter("truncated_records_total", "Records with a trailing partial snapshot."),
		discardedBytes:   counter("discarded_bytes_total", "Bytes dropped from truncated records."),
	}
}

func (m *DecodeMetrics) Observe(s decoder.Summary) {
	m.games.Add(float64(s.Games))
	m.snapshots.Add(float64(s.Snapshots))
	m.firstPlayerWins.Add(float64(s.FirstPlayerWins))
	m.truncatedRecords.Add(float64(s.TruncatedRecords))
	m.discardedBytes.Add(float64(s.DiscardedBytes))
}

func (m *DecodeMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the counters in the node exporter textfile format.
func (m *DecodeMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
