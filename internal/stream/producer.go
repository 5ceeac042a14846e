package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"

	"ticketry/internal/bookings"
	"ticketry/internal/shared/config"
	"ticketry/pkg/logger"
)

// Producer publishes booking lifecycle records to Kafka. Publishing is
// best-effort: a broker failure is logged and dropped, never surfaced into
// the booking transaction that triggered it.
type Producer interface {
	PublishBookingEvent(ctx context.Context, event *bookings.LifecycleEvent)
	HealthCheck(ctx context.Context) error
	Close() error
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewProducer creates a Kafka producer for the booking event stream.
// Returns nil when the stream is disabled in config; the engine treats a
// nil publisher as a no-op.
func NewProducer(cfg *config.Config, log *logger.Logger) (Producer, error) {
	if !cfg.Stream.Enabled {
		return nil, nil
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// Hash on event ID so all records for one event land in one partition,
	// preserving per-event ordering for consumers
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Stream.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaProducer{
		producer: producer,
		topic:    cfg.Stream.Topic,
		log:      log,
	}, nil
}

func (p *kafkaProducer) PublishBookingEvent(ctx context.Context, event *bookings.LifecycleEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.log.ErrorContext(ctx, "failed to marshal booking event", "error", err, "event_type", event.Type)
		return
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(strconv.FormatUint(uint64(event.EventID), 10)),
		Value:     sarama.ByteEncoder(payload),
		Headers:   recordHeaders(event),
		Timestamp: event.Timestamp,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.log.ErrorContext(ctx, "failed to publish booking event",
			"error", err,
			"event_type", event.Type,
			"event_id", event.EventID,
		)
		return
	}

	p.log.DebugContext(ctx, "booking event published",
		"event_type", event.Type,
		"event_id", event.EventID,
		"partition", partition,
		"offset", offset,
	)
}

func recordHeaders(event *bookings.LifecycleEvent) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("record_id"), Value: []byte(event.ID)},
		{Key: []byte("record_type"), Value: []byte(event.Type)},
		{Key: []byte("created_at"), Value: []byte(event.Timestamp.Format(time.RFC3339))},
	}
}

func (p *kafkaProducer) HealthCheck(ctx context.Context) error {
	if p.producer == nil {
		return fmt.Errorf("producer is not initialized")
	}
	if p.topic == "" {
		return fmt.Errorf("stream topic is not configured")
	}
	return nil
}

func (p *kafkaProducer) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}
