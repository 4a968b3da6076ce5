package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "pv_estimator_"

	ResultSuccess  = "success"
	ResultError    = "error"
	ResultFallback = "fallback"
)

var (
	registerOnce sync.Once

	estimatesTotal   *prometheus.CounterVec
	estimateDuration *prometheus.HistogramVec

	providerRequests  *prometheus.CounterVec
	providerCacheHits *prometheus.CounterVec

	reportExports *prometheus.CounterVec
)

// Init registers the metrics with the default registry. Before Init every
// observer below is a no-op.
func Init() {
	registerOnce.Do(func() {
		estimatesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "estimates_total",
				Help: "Total estimates computed by data source and capped flag",
			},
			[]string{"source", "capped"},
		)
		estimateDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "estimate_duration_seconds",
				Help:    "Estimate request duration in seconds, provider lookups included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		)
		providerRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "provider_requests_total",
				Help: "Outbound provider requests by provider and result",
			},
			[]string{"provider", "result"},
		)
		providerCacheHits = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "provider_cache_hits_total",
				Help: "Provider lookups served from cache",
			},
			[]string{"provider"},
		)
		reportExports = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_exports_total",
				Help: "Report exports by format",
			},
			[]string{"format"},
		)

		prometheus.MustRegister(
			estimatesTotal,
			estimateDuration,
			providerRequests,
			providerCacheHits,
			reportExports,
		)
	})
}

// ObserveEstimate records one computed estimate.
func ObserveEstimate(source string, capped bool, duration time.Duration) {
	if estimatesTotal != nil {
		estimatesTotal.WithLabelValues(source, strconv.FormatBool(capped)).Inc()
	}
	if estimateDuration != nil {
		estimateDuration.WithLabelValues(source).Observe(duration.Seconds())
	}
}

// IncProviderRequest counts an outbound provider call.
func IncProviderRequest(provider, result string) {
	if result == "" {
		result = ResultSuccess
	}
	if providerRequests != nil {
		providerRequests.WithLabelValues(provider, result).Inc()
	}
}

// IncProviderCacheHit counts a provider lookup served from cache.
func IncProviderCacheHit(provider string) {
	if providerCacheHits != nil {
		providerCacheHits.WithLabelValues(provider).Inc()
	}
}

// IncReportExport counts a rendered report.
func IncReportExport(format string) {
	if reportExports != nil {
		reportExports.WithLabelValues(format).Inc()
	}
}
