package queue

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"

	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
	queueport "github.com/ama3it/image-workers-backend/internal/domain/port/queue"
)

// TaskHandler processes one dequeued task
type TaskHandler func(ctx context.Context, task queueport.Task) error

// Consumer reads tasks from the Kafka topic one at a time and hands them to a
// handler. Offsets are committed after handling whether or not the handler
// succeeded: a permanently failing job is recorded as FAILED in the database,
// and re-handling it forever would stall the whole partition.
type Consumer struct {
	reader *kafka.Reader
	logger coreport.Logger
}

// NewConsumer creates a new Kafka task consumer
func NewConsumer(config Config, logger coreport.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: config.Brokers,
		Topic:   config.Topic,
		GroupID: config.GroupID,
	})
	return &Consumer{
		reader: reader,
		logger: logger,
	}
}

// Run consumes tasks until ctx is canceled. The fetch-handle-commit loop is
// synchronous, so at most one task is in flight per consumer.
func (c *Consumer) Run(ctx context.Context, handler TaskHandler) error {
	c.logger.Info("Task consumer started", nil)

	for {
		message, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("Task consumer stopping", nil)
				return nil
			}
			c.logger.Error("Failed to fetch task message", map[string]any{
				"error": err.Error(),
			})
			return err
		}

		var task queueport.Task
		if err := json.Unmarshal(message.Value, &task); err != nil {
			c.logger.Error("Discarding malformed task message", map[string]any{
				"offset": message.Offset,
				"error":  err.Error(),
			})
		} else if err := handler(ctx, task); err != nil {
			c.logger.Error("Task handling failed", map[string]any{
				"job_id": task.JobID.String(),
				"offset": message.Offset,
				"error":  err.Error(),
			})
		}

		if err := c.reader.CommitMessages(ctx, message); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			c.logger.Error("Failed to commit task offset", map[string]any{
				"offset": message.Offset,
				"error":  err.Error(),
			})
			return err
		}
	}
}

// Close releases the underlying reader
func (c *Consumer) Close() error {
	return c.reader.Close()
}
