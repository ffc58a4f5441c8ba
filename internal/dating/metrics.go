package dating

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "akwa_compatibility_score",
			Help:    "Distribution of pairwise compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	compatibilityOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "akwa_compatibility_outcomes_total",
			Help: "Scored pairs by outcome",
		},
		[]string{"outcome"},
	)

	swipesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "akwa_swipes_total",
			Help: "Swipes recorded by action",
		},
		[]string{"action"},
	)

	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "akwa_matches_total",
			Help: "Total number of mutual matches created",
		},
	)

	rankingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "akwa_ranking_duration_seconds",
			Help:    "Time spent producing a discovery result",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type", "cache"},
	)

	activeUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "akwa_active_users",
			Help: "Users active in the last 7 days",
		},
	)

	storedMatches = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "akwa_stored_matches",
			Help: "Matches currently stored",
		},
	)
)

// Outcome labels for compatibilityOutcomes
const (
	outcomeCompatible   = "compatible"
	outcomeIncompatible = "incompatible"
	outcomeDealbreaker  = "dealbreaker"
)

func RecordCompatibility(score int, compatible, dealbreaker bool) {
	compatibilityScores.Observe(float64(score))
	switch {
	case dealbreaker:
		compatibilityOutcomes.WithLabelValues(outcomeDealbreaker).Inc()
	case compatible:
		compatibilityOutcomes.WithLabelValues(outcomeCompatible).Inc()
	default:
		compatibilityOutcomes.WithLabelValues(outcomeIncompatible).Inc()
	}
}

func RecordSwipe(action string) {
	swipesTotal.WithLabelValues(action).Inc()
}

func RecordMatch() {
	matchesTotal.Inc()
}

func RecordRanking(mode string, cached bool, d time.Duration) {
	label := "miss"
	if cached {
		label = "hit"
	}
	rankingDuration.WithLabelValues(mode, label).Observe(d.Seconds())
}

// MetricsCollector refreshes gauges that come from the database
type MetricsCollector struct {
	repo Repository
}

func NewMetricsCollector(repo Repository) *MetricsCollector {
	return &MetricsCollector{repo: repo}
}

func (m *MetricsCollector) Collect(ctx context.Context) error {
	stats, err := m.repo.GetAdminStats(ctx)
	if err != nil {
		return err
	}
	activeUsers.Set(float64(stats.ActiveUsers))
	storedMatches.Set(float64(stats.TotalMatches))
	zap.L().Debug("metrics collected",
		zap.Int("active_users", stats.ActiveUsers),
		zap.Int("total_matches", stats.TotalMatches))
	return nil
}
