package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	rconCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nodestack",
			Subsystem: "rcon",
			Name:      "commands_total",
			Help:      "Total RCON commands relayed to managed instances.",
		},
		[]string{"instance", "outcome"},
	)
	rconRoundTrip = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nodestack",
			Subsystem: "rcon",
			Name:      "command_duration_seconds",
			Help:      "RCON command round-trip duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"instance", "outcome"},
	)
	saveDecodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nodestack",
			Subsystem: "savefile",
			Name:      "decodes_total",
			Help:      "Save-file NBT decode attempts.",
		},
		[]string{"outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(rconCommands, rconRoundTrip, saveDecodes)
	})
}

func RecordCommand(instance, outcome string, duration time.Duration) {
	RegisterMetrics()
	rconCommands.WithLabelValues(instance, outcome).Inc()
	rconRoundTrip.WithLabelValues(instance, outcome).Observe(duration.Seconds())
}

func RecordSaveDecode(outcome string) {
	RegisterMetrics()
	saveDecodes.WithLabelValues(outcome).Inc()
}
