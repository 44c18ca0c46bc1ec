package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("expected a write deadline")
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducer_PublishEncodesJSONWithKey(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{}
	p := NewProducerWithWriter(w, "ride-events", 0)

	payload := map[string]any{"type": "RIDE_COMPLETED", "fare": 35.0}
	if err := p.Publish(context.Background(), "ride-1", payload); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "ride-1" {
		t.Errorf("key = %q", w.msgs[0].Key)
	}
	var decoded map[string]any
	if err := json.Unmarshal(w.msgs[0].Value, &decoded); err != nil {
		t.Fatalf("value is not JSON: %v", err)
	}
	if decoded["type"] != "RIDE_COMPLETED" || decoded["fare"] != 35.0 {
		t.Errorf("unexpected payload %v", decoded)
	}
}

func TestProducer_PublishWrapsWriteError(t *testing.T) {
	t.Parallel()

	cause := errors.New("broker unreachable")
	p := NewProducerWithWriter(&recordingWriter{err: cause}, "ride-events", 0)
	if err := p.Publish(context.Background(), "k", "v"); !errors.Is(err, cause) {
		t.Errorf("expected wrapped broker error, got %v", err)
	}
}

func TestProducer_Close(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{}
	p := NewProducerWithWriter(w, "ride-events", 0)
	if err := p.Close(); err != nil || !w.closed {
		t.Errorf("close: err=%v closed=%v", err, w.closed)
	}
	if p.Topic() != "ride-events" {
		t.Errorf("topic = %q", p.Topic())
	}
}
