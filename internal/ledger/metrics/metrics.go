package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the ledger module.
// Tracks year lifecycle counts, copy volume, and summary latency.
type Metrics struct {
	YearsCreated      prometheus.Counter
	YearsClosed       prometheus.Counter
	EntriesCopied     prometheus.Counter
	SummarizeDuration prometheus.Histogram
}

// New creates a Metrics instance with all ledger module metrics registered.
func New() *Metrics {
	return &Metrics{
		YearsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mizan_years_created_total",
			Help: "Total number of ledger years created",
		}),
		YearsClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mizan_years_closed_total",
			Help: "Total number of ledger years closed",
		}),
		EntriesCopied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mizan_entries_copied_total",
			Help: "Total number of entries duplicated across years",
		}),
		SummarizeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mizan_summarize_duration_seconds",
			Help:    "Duration of per-year summary computations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementYearsCreated records a successful year creation.
func (m *Metrics) IncrementYearsCreated() {
	m.YearsCreated.Inc()
}

// IncrementYearsClosed records a successful close transition.
func (m *Metrics) IncrementYearsClosed() {
	m.YearsClosed.Inc()
}

// AddEntriesCopied records the size of a completed copy operation.
func (m *Metrics) AddEntriesCopied(n int) {
	m.EntriesCopied.Add(float64(n))
}

// ObserveSummarize records the duration of a summary computation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSummarize(start time.Time) {
	m.SummarizeDuration.Observe(time.Since(start).Seconds())
}
