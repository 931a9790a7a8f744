package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation status label values.
const (
	StatusSuccess = "success"
	StatusInvalid = "invalid"
	StatusFailure = "failure"
)

// rankedSchoolsBuckets covers result sizes from 1 to 262144.
const rankedSchoolsBuckets = 10

type Metrics struct {
	Operations        *prometheus.CounterVec
	OperationSeconds  *prometheus.HistogramVec
	RankingSeconds    *prometheus.HistogramVec
	RankedSchools     prometheus.Histogram
	SeedRows          *prometheus.CounterVec
	GeocodingSeconds  *prometheus.HistogramVec
	GeocodingErrors   prometheus.Counter
	SeedActiveWorkers prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Operations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "locus_operations_total",
			Help: "Total number of school operations by outcome.",
		}, []string{"operation", "status"}),
		OperationSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "locus_operation_duration_seconds",
			Help:    "Duration of school operations, validation included.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		RankingSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "locus_ranking_duration_seconds",
			Help:    "Duration of ranking calls by strategy.",
			Buckets: prometheus.DefBuckets,
		}, []string{"strategy"}),
		RankedSchools: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "locus_ranked_schools",
			Help:    "Number of schools returned by a proximity query.",
			Buckets: prometheus.ExponentialBuckets(1, 4, rankedSchoolsBuckets),
		}),
		SeedRows: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "locus_seed_rows_total",
			Help: "Total number of CSV rows processed by the loader.",
		}, []string{"status"}),
		GeocodingSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "locus_geocoding_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		GeocodingErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "locus_geocoding_errors_total",
			Help: "Total number of errors received from the geocoding provider API.",
		}),
		SeedActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "locus_seed_active_workers",
			Help: "Current number of loader workers processing rows.",
		}),
	}
}
