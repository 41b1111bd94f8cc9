package events

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"go.uber.org/zap"
)

// StdoutWriter prints every event as one structured JSON line. It is the
// writer used when no broker is configured.
type StdoutWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewStdoutWriter() *StdoutWriter {
	return newStreamWriter(os.Stdout)
}

func newStreamWriter(out io.Writer) *StdoutWriter {
	return &StdoutWriter{enc: json.NewEncoder(out)}
}

func (s *StdoutWriter) Write(ctx context.Context, topic string, e cloudevents.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := struct {
		Topic string            `json:"topic"`
		Event cloudevents.Event `json:"event"`
	}{Topic: topic, Event: e}

	if err := s.enc.Encode(line); err != nil {
		zap.S().Named("stdout_writer").Errorw("failed to write event", "id", e.ID(), "error", err)
		return err
	}
	return nil
}

func (s *StdoutWriter) Close(_ context.Context) error {
	return nil
}
