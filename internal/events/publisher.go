package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/DeadlyParkour777/cpp-simulator/internal/types"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Publisher interface {
	PublishExecution(ctx context.Context, result *types.ExecutionResult) error
}

type kafkaPublisher struct {
	writer MessageWriter
	now    func() time.Time
}

func NewKafkaPublisher(writer MessageWriter) Publisher {
	return &kafkaPublisher{writer: writer, now: time.Now}
}

func NewWriter(brokers []string, topic string) *kafka.Writer {
	return kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: int(kafka.RequireOne),
	})
}

func (p *kafkaPublisher) PublishExecution(ctx context.Context, result *types.ExecutionResult) error {
	event := NewExecutionEvent(result, p.now())

	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal execution event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ExecutionID),
		Value: message,
		Time:  event.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to write execution event: %w", err)
	}
	return nil
}

// NewExecutionEvent summarizes a result without its program output.
func NewExecutionEvent(result *types.ExecutionResult, at time.Time) types.ExecutionEvent {
	outcome := OutcomeOK
	if result.ExitCode != 0 {
		outcome = OutcomeError
	}
	return types.ExecutionEvent{
		ExecutionID:   uuid.NewString(),
		Outcome:       outcome,
		ExitCode:      result.ExitCode,
		ExecutionTime: result.ExecutionTime,
		Memory:        result.Memory,
		CreatedAt:     at.UTC(),
	}
}

type noopPublisher struct{}

// NewNoopPublisher is used when no brokers are configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishExecution(context.Context, *types.ExecutionResult) error {
	return nil
}

// PublishAsync hands the event to the publisher off the request path.
// Failures are logged and never surface to the caller.
func PublishAsync(p Publisher, result *types.ExecutionResult, timeout time.Duration) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := p.PublishExecution(ctx, result); err != nil {
			log.Printf("Failed to publish execution event: %v", err)
		}
	}()
}
