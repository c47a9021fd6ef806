package vm

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the counters and histograms an embedding service can
// register against its own prometheus.Registerer to get visibility into
// call volume, gas consumption, and halt reasons without this module
// taking a dependency on any particular metrics backend's push/scrape
// wiring -- it only depends on the client library's types.
type Metrics struct {
	CallsTotal    *prometheus.CounterVec
	GasUsed       prometheus.Histogram
	HaltsTotal    *prometheus.CounterVec
	AnalysisCacheHits   prometheus.Counter
	AnalysisCacheMisses prometheus.Counter
}

// NewMetrics constructs and registers a Metrics set. Call sites that don't
// want metrics can simply not construct one; every hook point that reports
// to Metrics takes a possibly-nil pointer and no-ops when it is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "evmcore",
			Name:      "calls_total",
			Help:      "Number of call/create messages processed, by kind.",
		}, []string{"kind"}),
		GasUsed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "evmcore",
			Name:      "gas_used",
			Help:      "Gas consumed per top-level call.",
			Buckets:   prometheus.ExponentialBuckets(1000, 4, 12),
		}),
		HaltsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "evmcore",
			Name:      "halts_total",
			Help:      "Terminating halt reason, by kind.",
		}, []string{"halt"}),
		AnalysisCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "evmcore",
			Name:      "analysis_cache_hits_total",
			Help:      "Bytecode analysis cache hits.",
		}),
		AnalysisCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "evmcore",
			Name:      "analysis_cache_misses_total",
			Help:      "Bytecode analysis cache misses.",
		}),
	}
	reg.MustRegister(m.CallsTotal, m.GasUsed, m.HaltsTotal, m.AnalysisCacheHits, m.AnalysisCacheMisses)
	return m
}

// Observe records the outcome of one top-level Call.
func (m *Metrics) Observe(kind CallKind, result *CallResult) {
	if m == nil {
		return
	}
	m.CallsTotal.WithLabelValues(callKindLabel(kind)).Inc()
	m.GasUsed.Observe(float64(result.GasUsed))
	m.HaltsTotal.WithLabelValues(result.Halt.String()).Inc()
}

func callKindLabel(k CallKind) string {
	switch k {
	case CallKindCall:
		return "call"
	case CallKindCallCode:
		return "callcode"
	case CallKindDelegateCall:
		return "delegatecall"
	case CallKindStaticCall:
		return "staticcall"
	case CallKindCreate:
		return "create"
	case CallKindCreate2:
		return "create2"
	default:
		return "unknown"
	}
}
