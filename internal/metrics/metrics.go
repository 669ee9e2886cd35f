package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics
var (
	storeMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tierlist_store_mutations_total",
		Help: "Store mutations by operation and result",
	}, []string{"op", "result"})

	storeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tierlist_store_op_duration_seconds",
		Help:    "Duration of store operations including the backend round trip",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	tierUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tierlist_tier_updates_total",
		Help: "Successful tier updates by kit",
	}, []string{"kit"})

	players = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tierlist_players",
		Help: "Number of players in the collection root after the last write",
	})

	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tierlist_logins_total",
		Help: "Admin login attempts by result",
	}, []string{"result"})
)

func ObserveMutation(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeMutations.WithLabelValues(op, result).Inc()
	storeDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func ObserveRead(op string, start time.Time) {
	storeDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func TierUpdated(kit string) {
	tierUpdates.WithLabelValues(kit).Inc()
}

func SetPlayers(n int) {
	players.Set(float64(n))
}

func LoginAttempt(result string) {
	logins.WithLabelValues(result).Inc()
}
