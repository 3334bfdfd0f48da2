package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Message processing results.
const (
	ResultProcessed    = "processed"
	ResultStale        = "stale"
	ResultNotAssistant = "not_assistant"
	ResultFailed       = "failed"
)

// Metrics holds Prometheus metrics for message processing.
//
// All metrics are prefixed with "replica_matcher_".
//
// Metrics:
//   - replica_matcher_messages_total{result} - Count of observed messages by result
//   - replica_matcher_rule_hits_total{rule} - Count of names accepted per extraction rule
//   - replica_matcher_names_rejected_total - Count of name matches rejected as duplicates, short or stopwords
//   - replica_matcher_people_extracted - Histogram of people extracted per message
//   - replica_matcher_people_current - Size of the current ranked list
//   - replica_matcher_trigger_errors_total - Count of malformed trigger markers
//   - replica_matcher_processing_duration_seconds - Histogram of extract, filter and rank time
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	MessagesTotal      *prometheus.CounterVec
	RuleHitsTotal      *prometheus.CounterVec
	NamesRejectedTotal prometheus.Counter
	PeopleExtracted    prometheus.Histogram
	PeopleCurrent      prometheus.Gauge
	TriggerErrorsTotal prometheus.Counter
	ProcessingDuration prometheus.Histogram
}

// New creates the metrics and registers them with reg.
// Use a fresh prometheus.NewRegistry() per instance in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MessagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "replica_matcher_messages_total",
				Help: "Total number of observed messages by result",
			},
			[]string{"result"},
		),
		RuleHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "replica_matcher_rule_hits_total",
				Help: "Total number of names accepted per extraction rule",
			},
			[]string{"rule"},
		),
		NamesRejectedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "replica_matcher_names_rejected_total",
			Help: "Total number of name matches rejected by the extractor",
		}),
		PeopleExtracted: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "replica_matcher_people_extracted",
			Help:    "Number of people extracted from one message",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21, 50},
		}),
		PeopleCurrent: factory.NewGauge(prometheus.GaugeOpts{
			Name: "replica_matcher_people_current",
			Help: "Number of people in the current ranked list",
		}),
		TriggerErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "replica_matcher_trigger_errors_total",
			Help: "Total number of malformed trigger markers",
		}),
		ProcessingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "replica_matcher_processing_duration_seconds",
			Help:    "Duration of extracting, filtering and ranking one message",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
}

func (m *Metrics) RecordMessage(result string) {
	if m == nil {
		return
	}
	m.MessagesTotal.WithLabelValues(result).Inc()
}

// RecordExtraction records one extractor run.
func (m *Metrics) RecordExtraction(ruleHits map[string]int, rejected, extracted int) {
	if m == nil {
		return
	}
	for rule, hits := range ruleHits {
		m.RuleHitsTotal.WithLabelValues(rule).Add(float64(hits))
	}
	m.NamesRejectedTotal.Add(float64(rejected))
	m.PeopleExtracted.Observe(float64(extracted))
}

func (m *Metrics) RecordCurrent(size int) {
	if m == nil {
		return
	}
	m.PeopleCurrent.Set(float64(size))
}

func (m *Metrics) RecordTriggerError() {
	if m == nil {
		return
	}
	m.TriggerErrorsTotal.Inc()
}

func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.ProcessingDuration.Observe(d.Seconds())
}
