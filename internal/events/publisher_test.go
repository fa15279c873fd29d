package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DeadlyParkour777/cpp-simulator/internal/types"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	writeFn func(ctx context.Context, msgs ...kafka.Message) error
	written []kafka.Message
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.written = append(f.written, msgs...)
	if f.writeFn == nil {
		return nil
	}
	return f.writeFn(ctx, msgs...)
}

func TestPublishExecution(t *testing.T) {
	writer := &fakeWriter{}
	publisher := NewKafkaPublisher(writer)

	result := &types.ExecutionResult{Stdout: "secret output", ExitCode: 0, ExecutionTime: 12.5, Memory: 2048}
	if err := publisher.PublishExecution(context.Background(), result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(writer.written) != 1 {
		t.Fatalf("expected 1 message, got %d", len(writer.written))
	}
	msg := writer.written[0]

	var event types.ExecutionEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if _, err := uuid.Parse(event.ExecutionID); err != nil {
		t.Fatalf("expected uuid execution id, got %q", event.ExecutionID)
	}
	if string(msg.Key) != event.ExecutionID {
		t.Fatalf("expected message key to be the execution id")
	}
	if event.Outcome != OutcomeOK || event.ExecutionTime != 12.5 || event.Memory != 2048 {
		t.Fatalf("unexpected event: %+v", event)
	}

	var raw map[string]any
	json.Unmarshal(msg.Value, &raw)
	if _, ok := raw["stdout"]; ok {
		t.Fatalf("event must not carry program output")
	}
}

func TestPublishExecution_WriterError(t *testing.T) {
	writer := &fakeWriter{
		writeFn: func(_ context.Context, _ ...kafka.Message) error { return errors.New("broker down") },
	}

	err := NewKafkaPublisher(writer).PublishExecution(context.Background(), &types.ExecutionResult{ExitCode: 1})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewExecutionEvent_Outcome(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	event := NewExecutionEvent(&types.ExecutionResult{ExitCode: 1}, at)
	if event.Outcome != OutcomeError || event.ExitCode != 1 {
		t.Fatalf("unexpected event: %+v", event)
	}
	if !event.CreatedAt.Equal(at) || event.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", event.CreatedAt)
	}
}

func TestNoopPublisher(t *testing.T) {
	if err := NewNoopPublisher().PublishExecution(context.Background(), &types.ExecutionResult{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
