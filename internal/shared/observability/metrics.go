package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// File results recorded by FilesProcessed.
const (
	ResultUnchanged = "unchanged"
	ResultChanged   = "changed"
	ResultFailed    = "failed"
)

// Metrics definitions
var (
	FilesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mjson5fmt_files_processed_total",
		Help: "Total number of files formatted, by result.",
	}, []string{"result"})

	FormatDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mjson5fmt_format_seconds",
		Help:    "Time spent formatting a single document.",
		Buckets: prometheus.DefBuckets,
	})

	ParseErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mjson5fmt_parse_errors_total",
		Help: "Total number of documents rejected with a syntax error.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mjson5fmt_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WatcherWritesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mjson5fmt_watcher_writes_dropped_total",
		Help: "Total number of watch-triggered writes skipped by the rate limiter.",
	})

	ParsersInUse = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mjson5fmt_treesitter_parsers_in_use",
		Help: "Current number of pooled tree-sitter parsers checked out.",
	})
)
