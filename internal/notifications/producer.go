package notifications

import (
	"context"
	"fmt"
	"time"

	"cineshow/internal/shared/config"
	"cineshow/pkg/logger"

	"github.com/IBM/sarama"
)

// Producer publishes notification messages to the broker.
type Producer interface {
	Publish(ctx context.Context, msg *Message) error
	Close() error
	HealthCheck(ctx context.Context) error
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *logger.Logger
}

// NewKafkaProducer creates a sync producer with idempotent writes and full
// ISR acks: a published fan-out must not be lost or duplicated by the broker.
func NewKafkaProducer(cfg config.KafkaConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaProducer{
		producer: producer,
		topic:    cfg.NotificationTopic,
		logger:   logger.GetDefault(),
	}, nil
}

func (p *kafkaProducer) Publish(ctx context.Context, msg *Message) error {
	value, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification message: %w", err)
	}

	kafkaMsg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(msg.GetPartitionKey()),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("message_id"), Value: []byte(msg.ID.String())},
			{Key: []byte("message_type"), Value: []byte(msg.Type)},
			{Key: []byte("recipients"), Value: []byte(fmt.Sprintf("%d", len(msg.Recipients)))},
			{Key: []byte("created_at"), Value: []byte(msg.CreatedAt.Format(time.RFC3339))},
		},
		Timestamp: msg.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(kafkaMsg)
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	p.logger.InfoContext(ctx, "Notification published",
		"type", string(msg.Type),
		"recipients", len(msg.Recipients),
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (p *kafkaProducer) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}

func (p *kafkaProducer) HealthCheck(ctx context.Context) error {
	if p.producer == nil {
		return fmt.Errorf("producer is nil")
	}
	if p.topic == "" {
		return fmt.Errorf("notification topic not configured")
	}
	return nil
}
