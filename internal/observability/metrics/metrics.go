// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wa_interaction_ingress"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Webhook metrics
	WebhookRequests *prometheus.CounterVec
	MessagesTotal   *prometheus.CounterVec

	// Submit pipeline metrics
	SubmitsTotal   prometheus.Counter
	SubmitFailures *prometheus.CounterVec
	SubmitDuration prometheus.Histogram

	// Confirm metrics
	ConfirmsTotal *prometheus.CounterVec

	// Collaborator metrics
	MediaDownloadBytes prometheus.Counter
	STTLatency         *prometheus.HistogramVec
	STTErrors          *prometheus.CounterVec
	ExtractionLatency  prometheus.Histogram
	ExtractionErrors   prometheus.Counter

	// Store metrics
	StoreInserts    prometheus.Counter
	StoreDuplicates prometheus.Counter
	StoreErrors     *prometheus.CounterVec

	// Notifier metrics
	NotifySends  prometheus.Counter
	NotifyErrors prometheus.Counter

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		WebhookRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_requests_total",
			Help:      "Total number of webhook requests by method and status",
		}, []string{"method", "status"}),
		MessagesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Total number of inbound messages by type",
		}, []string{"type"}),

		SubmitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submits_total",
			Help:      "Total number of submit operations started",
		}),
		SubmitFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submit_failures_total",
			Help:      "Total number of submit operations aborted, by stage",
		}, []string{"stage"}),
		SubmitDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submit_duration_seconds",
			Help:      "End-to-end duration of submit operations in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}),

		ConfirmsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confirms_total",
			Help:      "Total number of confirm operations by result",
		}, []string{"result"}),

		MediaDownloadBytes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_download_bytes_total",
			Help:      "Total audio bytes downloaded from the platform",
		}),
		STTLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stt_latency_seconds",
			Help:      "Speech-to-text processing latency in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"provider"}),
		STTErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stt_errors_total",
			Help:      "Total number of STT errors",
		}, []string{"provider"}),
		ExtractionLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_latency_seconds",
			Help:      "Field-extraction call latency in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 15},
		}),
		ExtractionErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_errors_total",
			Help:      "Total number of extraction errors",
		}),

		StoreInserts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_inserts_total",
			Help:      "Total number of provisional records inserted",
		}),
		StoreDuplicates: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_duplicates_total",
			Help:      "Total number of inserts skipped as redelivered duplicates",
		}),
		StoreErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Total number of storage errors by operation",
		}, []string{"operation"}),

		NotifySends: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_sends_total",
			Help:      "Total number of outbound text messages sent",
		}),
		NotifyErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_errors_total",
			Help:      "Total number of outbound send failures",
		}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordWebhookRequest records a completed webhook request.
func (m *Metrics) RecordWebhookRequest(method, status string) {
	m.WebhookRequests.WithLabelValues(method, status).Inc()
}

// RecordMessage records an inbound message by type.
func (m *Metrics) RecordMessage(msgType string) {
	m.MessagesTotal.WithLabelValues(msgType).Inc()
}

// RecordSubmitStart records a submit operation starting.
func (m *Metrics) RecordSubmitStart() {
	m.SubmitsTotal.Inc()
}

// RecordSubmitFailure records a submit operation aborted at the given stage.
func (m *Metrics) RecordSubmitFailure(stage string) {
	m.SubmitFailures.WithLabelValues(stage).Inc()
}

// RecordSubmitDuration records the end-to-end duration of a submit.
func (m *Metrics) RecordSubmitDuration(seconds float64) {
	m.SubmitDuration.Observe(seconds)
}

// RecordConfirm records a confirm operation outcome.
func (m *Metrics) RecordConfirm(result string) {
	m.ConfirmsTotal.WithLabelValues(result).Inc()
}

// RecordMediaDownload records audio bytes downloaded.
func (m *Metrics) RecordMediaDownload(bytes int) {
	m.MediaDownloadBytes.Add(float64(bytes))
}

// RecordSTT records an STT call outcome and latency.
func (m *Metrics) RecordSTT(provider string, err error, latencySeconds float64) {
	m.STTLatency.WithLabelValues(provider).Observe(latencySeconds)
	if err != nil {
		m.STTErrors.WithLabelValues(provider).Inc()
	}
}

// RecordExtraction records an extraction call outcome and latency.
func (m *Metrics) RecordExtraction(err error, latencySeconds float64) {
	m.ExtractionLatency.Observe(latencySeconds)
	if err != nil {
		m.ExtractionErrors.Inc()
	}
}

// RecordInsert records a provisional insert outcome.
func (m *Metrics) RecordInsert(duplicate bool) {
	if duplicate {
		m.StoreDuplicates.Inc()
		return
	}
	m.StoreInserts.Inc()
}

// RecordStoreError records a storage error for an operation.
func (m *Metrics) RecordStoreError(operation string) {
	m.StoreErrors.WithLabelValues(operation).Inc()
}

// RecordNotify records an outbound send attempt.
func (m *Metrics) RecordNotify(err error) {
	m.NotifySends.Inc()
	if err != nil {
		m.NotifyErrors.Inc()
	}
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
