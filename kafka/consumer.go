// Package kafka consumes render job messages. The generic consumer is
// decoupled from the job schema so tests and future message types can
// plug in their own handlers.
package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/IBM/sarama"
)

// MessageHandler defines the interface for handling consumed messages.
type MessageHandler interface {
	// HandleMessage processes a Kafka message and returns whether to mark it
	// as processed. Unmarked messages are redelivered, so handlers return
	// shouldMark=false only for retryable failures.
	HandleMessage(ctx context.Context, message []byte) (shouldMark bool, err error)
}

// Consumer runs a sarama consumer group and feeds each message to its
// handler.
type Consumer struct {
	consumer sarama.ConsumerGroup
	handler  MessageHandler
	topic    string
	groupID  string
	ready    chan bool
}

// ConsumerConfig holds Kafka consumer configuration.
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Handler MessageHandler
}

// NewConsumer builds a consumer group client for one topic.
func NewConsumer(config ConsumerConfig) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	client, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		consumer: client,
		handler:  config.Handler,
		topic:    config.Topic,
		groupID:  config.GroupID,
		ready:    make(chan bool),
	}, nil
}

// Start begins consuming messages from Kafka.
func (c *Consumer) Start(ctx context.Context) error {
	handler := &consumerGroupHandler{
		messageHandler: c.handler,
		ready:          c.ready,
	}

	go func() {
		for {
			if err := c.consumer.Consume(ctx, []string{c.topic}, handler); err != nil {
				if err == context.Canceled {
					log.Println("Kafka consumer context canceled")
					return
				}
				log.Printf("Error from Kafka consumer: %v", err)
			}

			if ctx.Err() != nil {
				return
			}
			handler.ready = make(chan bool)
		}
	}()

	<-c.ready
	log.Printf("✅ Kafka consumer started (group: %s, topic: %s)", c.groupID, c.topic)

	go func() {
		for err := range c.consumer.Errors() {
			log.Printf("❌ Kafka consumer error: %v", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the consumer.
func (c *Consumer) Close() error {
	log.Println("Closing Kafka consumer...")
	return c.consumer.Close()
}

// consumerGroupHandler implements sarama.ConsumerGroupHandler.
type consumerGroupHandler struct {
	messageHandler MessageHandler
	ready          chan bool
}

// Setup is run at the beginning of a new session, before ConsumeClaim.
func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim runs the consume loop for one claim.
func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			log.Printf("📥 Kafka message: topic=%s partition=%d offset=%d key=%s",
				message.Topic, message.Partition, message.Offset, string(message.Key))

			shouldMark, err := h.messageHandler.HandleMessage(session.Context(), message.Value)
			if err != nil {
				log.Printf("❌ Failed to handle message: %v", err)
			}

			if shouldMark {
				session.MarkMessage(message, "")
			}

		case <-session.Context().Done():
			return nil
		}
	}
}

// TypedMessageHandler decodes JSON messages into T before handling them.
// Render jobs plug in as TypedMessageHandler[RenderJob].
type TypedMessageHandler[T any] struct {
	// Validate decides whether a decoded message should be processed.
	Validate func(msg *T) bool
	// Process does the work for one message.
	Process func(ctx context.Context, msg *T) error
	// AlwaysMark marks malformed or invalid messages instead of leaving
	// them for redelivery.
	AlwaysMark bool
}

// HandleMessage implements MessageHandler.
func (h *TypedMessageHandler[T]) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	var msg T
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("❌ Failed to unmarshal message: %v", err)
		return h.AlwaysMark, nil // Mark to skip invalid messages
	}

	if h.Validate != nil && !h.Validate(&msg) {
		return h.AlwaysMark, nil
	}

	if err := h.Process(ctx, &msg); err != nil {
		return false, err // Don't mark - allow retry
	}

	return true, nil
}
