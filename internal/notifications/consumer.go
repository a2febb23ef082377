package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cineshow/internal/shared/config"
	"cineshow/pkg/logger"

	"github.com/IBM/sarama"
)

// Consumer drains the notification topic and hands each message to the
// dispatcher.
type Consumer interface {
	Start(ctx context.Context, numWorkers int) error
	Stop() error
}

type kafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	topics        []string
	dispatcher    *Dispatcher
	logger        *logger.Logger
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

func NewKafkaConsumer(cfg config.KafkaConfig, dispatcher *Dispatcher) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	consumerGroup, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroup, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &kafkaConsumer{
		consumerGroup: consumerGroup,
		topics:        []string{cfg.NotificationTopic},
		dispatcher:    dispatcher,
		logger:        logger.GetDefault(),
	}, nil
}

func (c *kafkaConsumer) Start(ctx context.Context, numWorkers int) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go c.handleErrors()

	for i := 0; i < numWorkers; i++ {
		c.wg.Add(1)
		go func(workerID int) {
			defer c.wg.Done()
			c.runWorker(ctx, workerID)
		}(i)
	}

	c.logger.Info("Notification consumer workers started", "workers", numWorkers, "topics", c.topics)
	return nil
}

func (c *kafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &consumerGroupHandler{
		dispatcher: c.dispatcher,
		workerID:   workerID,
		logger:     c.logger,
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := c.consumerGroup.Consume(ctx, c.topics, handler); err != nil {
				c.logger.Error("Consumer worker error", "worker", workerID, "error", err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (c *kafkaConsumer) handleErrors() {
	for err := range c.consumerGroup.Errors() {
		c.logger.Error("Consumer group error", "error", err)
	}
}

func (c *kafkaConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	if err := c.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	c.wg.Wait()
	return nil
}

type consumerGroupHandler struct {
	dispatcher *Dispatcher
	workerID   int
	logger     *logger.Logger
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}
			h.processMessage(session.Context(), message)
			// A malformed message is logged and committed; redelivery
			// would fail the same way forever.
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *consumerGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) {
	msg, err := FromJSON(message.Value)
	if err != nil {
		h.logger.Error("Failed to unmarshal notification message",
			"worker", h.workerID, "offset", message.Offset, "error", err)
		return
	}

	report := h.dispatcher.Dispatch(ctx, msg)
	h.logger.LogDispatchReport(ctx, string(msg.Type), report.Sent, report.Failed)
}
