// Package events provides event publishing functionality.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"wa-interaction-ingress-service/internal/observability/metrics"
)

// Publisher publishes interaction lifecycle events to separate Kafka topics.
type Publisher struct {
	writerRecorded  *kafka.Writer
	writerConfirmed *kafka.Writer
	principal       string
	topicRecorded   string
	topicConfirmed  string
	enabled         bool
	metrics         *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers        []string
	TopicRecorded  string
	TopicConfirmed string
	Principal      string
	Enabled        bool
}

// New creates a new Kafka event publisher with separate topics for recorded
// and confirmed interaction events.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{
			enabled: false,
			metrics: m,
		}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:      cfg.Principal,
			topicRecorded:  cfg.TopicRecorded,
			topicConfirmed: cfg.TopicConfirmed,
			enabled:        false,
			metrics:        m,
		}
	}

	// Longer dial timeouts for DNS resolution in Kubernetes
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	writerRecorded := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.TopicRecorded,
		Balancer:     &kafka.Hash{},
		Dialer:       dialer,
		BatchTimeout: 10 * time.Millisecond,
	})
	writerConfirmed := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.TopicConfirmed,
		Balancer:     &kafka.Hash{},
		Dialer:       dialer,
		BatchTimeout: 10 * time.Millisecond,
	})

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicRecorded", cfg.TopicRecorded).
		Str("topicConfirmed", cfg.TopicConfirmed).
		Msg("Kafka publisher enabled")

	return &Publisher{
		writerRecorded:  writerRecorded,
		writerConfirmed: writerConfirmed,
		principal:       cfg.Principal,
		topicRecorded:   cfg.TopicRecorded,
		topicConfirmed:  cfg.TopicConfirmed,
		enabled:         true,
		metrics:         m,
	}
}

// PublishRecorded publishes an interaction-recorded event, keyed by customer.
func (p *Publisher) PublishRecorded(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerRecorded, p.topicRecorded, "recorded", key, event)
}

// PublishConfirmed publishes an interaction-confirmed event, keyed by customer.
func (p *Publisher) PublishConfirmed(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerConfirmed, p.topicConfirmed, "confirmed", key, event)
}

// publish is the internal method that writes to a specific Kafka writer.
func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	// If Kafka is disabled, just log
	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(topic)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerRecorded != nil {
		if e := p.writerRecorded.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing recorded writer")
			err = e
		}
	}
	if p.writerConfirmed != nil {
		if e := p.writerConfirmed.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing confirmed writer")
			err = e
		}
	}
	return err
}
