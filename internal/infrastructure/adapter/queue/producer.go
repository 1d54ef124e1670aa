package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
	queueport "github.com/ama3it/image-workers-backend/internal/domain/port/queue"
)

// Config holds the Kafka connection settings shared by producer and consumer
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Producer implements TaskQueue on a Kafka topic. Messages are keyed by job ID
// so redeliveries and partition ordering stay per-job.
type Producer struct {
	writer *kafka.Writer
	logger coreport.Logger
}

// NewProducer creates a new Kafka-backed task producer
func NewProducer(config Config, logger coreport.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
	}
	return &Producer{
		writer: writer,
		logger: logger,
	}
}

// Enqueue submits a task for asynchronous processing
func (p *Producer) Enqueue(ctx context.Context, task queueport.Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encoding task: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(task.JobID.String()),
		Value: payload,
	})
	if err != nil {
		p.logger.Error("Failed to enqueue task", map[string]any{
			"job_id": task.JobID.String(),
			"error":  err.Error(),
		})
		return fmt.Errorf("writing task message: %w", err)
	}

	p.logger.Info("Task enqueued", map[string]any{
		"job_id":   task.JobID.String(),
		"image_id": task.ImageID.String(),
		"job_type": string(task.JobType),
	})
	return nil
}

// Close releases the underlying producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
