package kafka

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"storyreel/runner"
	"storyreel/types"
)

// JobConsumerConfig holds configuration for the render job consumer.
type JobConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Runner  *runner.Runner
}

// NewJobConsumer creates a consumer that renders storyboard jobs from the
// topic. Malformed or invalid jobs are marked and skipped; render failures
// leave the message unmarked for retry.
func NewJobConsumer(config JobConsumerConfig) (*Consumer, error) {
	handler := &TypedMessageHandler[types.RenderJob]{
		Validate: func(job *types.RenderJob) bool {
			if err := job.Validate(); err != nil {
				log.Printf("⚠️  Skipping invalid job: %v", err)
				return false
			}
			return true
		},
		Process: func(ctx context.Context, job *types.RenderJob) error {
			log.Printf("🎬 Rendering storyboard job: task=%s frames=%d", job.TaskID, len(job.Storyboard.Frames))

			if err := config.Runner.Run(ctx, job); err != nil {
				log.Printf("❌ Failed to render task %s: %v", job.TaskID, err)
				return err
			}

			log.Printf("✅ Rendered task %s", job.TaskID)
			return nil
		},
		AlwaysMark: true, // Mark validation failures, but not render failures
	}

	return NewConsumer(ConsumerConfig{
		Brokers: config.Brokers,
		Topic:   config.Topic,
		GroupID: config.GroupID,
		Handler: handler,
	})
}

// StartJobConsumerWithGracefulShutdown runs the job consumer until SIGINT
// or SIGTERM.
func StartJobConsumerWithGracefulShutdown(config JobConsumerConfig) error {
	consumer, err := NewJobConsumer(config)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		return err
	}

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigterm:
		log.Println("Received termination signal")
	case <-ctx.Done():
		log.Println("Context canceled")
	}

	cancel()

	// Give some time for in-flight renders to finish their current step.
	time.Sleep(2 * time.Second)

	return consumer.Close()
}

// GetBrokers parses the Kafka broker list from the environment.
func GetBrokers() []string {
	brokers := os.Getenv("KAFKA_BOOTSTRAP_SERVERS")
	if brokers == "" {
		brokers = "localhost:9093"
	}
	return strings.Split(brokers, ",")
}

// GetTopic returns the render job topic name from the environment.
func GetTopic() string {
	topic := os.Getenv("KAFKA_TOPIC_RENDER_JOBS")
	if topic == "" {
		topic = "storyboard-render-jobs"
	}
	return topic
}

// GetGroupID returns the consumer group ID from the environment.
func GetGroupID() string {
	groupID := os.Getenv("KAFKA_CONSUMER_GROUP_ID")
	if groupID == "" {
		groupID = "storyreel-render-group"
	}
	return groupID
}
