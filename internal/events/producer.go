package events

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	ProjectMessageKind string = "pv-planner.events.project"
	CatalogMessageKind string = "pv-planner.events.catalog"
	defaultTopic       string = "pv-planner.events"
	defaultSource      string = "pv-planner"
)

// Writer is the interface to be implemented by the underlying writer.
type Writer interface {
	Write(ctx context.Context, topic string, e cloudevents.Event) error
	Close(ctx context.Context) error
}

// EventProducer is a wrapper around a Writer with the buffer.
// Writes only enqueue, so a slow writer never blocks the caller.
type EventProducer struct {
	buffer  *buffer
	wakeCh  chan struct{}
	doneCh  chan struct{}
	writer  Writer
	topic   string
	source  string
	size    int
	stopped chan struct{}
}

func NewEventProducer(w Writer, opts ...ProducerOptions) *EventProducer {
	ep := &EventProducer{
		wakeCh:  make(chan struct{}, 1),
		doneCh:  make(chan struct{}),
		stopped: make(chan struct{}),
		writer:  w,
		topic:   defaultTopic,
		source:  defaultSource,
	}

	for _, o := range opts {
		o(ep)
	}
	ep.buffer = newBuffer(ep.size)

	go ep.run()
	return ep
}

func (ep *EventProducer) Write(ctx context.Context, kind string, body io.Reader) error {
	d, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	ep.buffer.PushBack(&message{
		Kind: kind,
		Data: d,
	})

	select {
	case ep.wakeCh <- struct{}{}:
	default:
	}

	return nil
}

// Publish marshals v to JSON and enqueues it as an event of kind.
func (ep *EventProducer) Publish(ctx context.Context, kind string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ep.Write(ctx, kind, bytes.NewReader(data))
}

// Close stops the producer once the pending events are written and closes the writer.
func (ep *EventProducer) Close() error {
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	g, ctx := errgroup.WithContext(closeCtx)
	g.Go(func() error {
		close(ep.doneCh)
		select {
		case <-ep.stopped:
		case <-ctx.Done():
			return ctx.Err()
		}
		return ep.writer.Close(ctx)
	})
	if err := g.Wait(); err != nil {
		zap.S().Named("event_producer").Errorf("event producer closed with error: %s", err)
		return err
	}

	zap.S().Named("event_producer").Infow("event producer closed", "dropped", ep.buffer.Dropped())

	return nil
}

func (ep *EventProducer) run() {
	defer close(ep.stopped)
	for {
		ep.drain()

		select {
		case <-ep.wakeCh:
		case <-ep.doneCh:
			ep.drain()
			return
		}
	}
}

func (ep *EventProducer) drain() {
	for msg := ep.buffer.Pop(); msg != nil; msg = ep.buffer.Pop() {
		e := cloudevents.NewEvent()
		e.SetID(uuid.NewString())
		e.SetSource(ep.source)
		e.SetType(msg.Kind)
		e.SetTime(time.Now())
		_ = e.SetData(*cloudevents.StringOfApplicationJSON(), msg.Data)

		if err := ep.writer.Write(context.TODO(), ep.topic, e); err != nil {
			zap.S().Named("event_producer").Errorw("failed to send event", "error", err, "event", e)
		}
	}
}
