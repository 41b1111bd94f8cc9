package events

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("producer", func() {
	It("writes events in order", func() {
		w := newTestWriter()
		ep := NewEventProducer(w, WithOutputTopic("bom"))

		Expect(ep.Write(context.TODO(), ProjectMessageKind, bytes.NewReader([]byte(`{"n":1}`)))).To(Succeed())
		Expect(ep.Write(context.TODO(), CatalogMessageKind, bytes.NewReader([]byte(`{"n":2}`)))).To(Succeed())

		Eventually(w.Len).Should(Equal(2))
		msgs := w.Events()
		Expect(msgs[0].Type()).To(Equal(ProjectMessageKind))
		Expect(msgs[0].Source()).To(Equal("pv-planner"))
		Expect(msgs[1].Type()).To(Equal(CatalogMessageKind))
		Expect(w.Topics()).To(HaveEach("bom"))

		Expect(ep.Close()).To(Succeed())
		Expect(w.Closed()).To(BeTrue())
	})

	It("publishes json bodies", func() {
		w := newTestWriter()
		ep := NewEventProducer(w, WithSource("test"))

		id := uuid.New()
		Expect(ep.Publish(context.TODO(), ProjectMessageKind, ProjectEvent{ProjectID: id, Action: ProjectBooked, Items: 9})).To(Succeed())
		Expect(ep.Close()).To(Succeed())

		Expect(w.Len()).To(Equal(1))
		e := w.Events()[0]
		Expect(e.Source()).To(Equal("test"))

		var got ProjectEvent
		Expect(json.Unmarshal(e.Data(), &got)).To(Succeed())
		Expect(got.ProjectID).To(Equal(id))
		Expect(got.Action).To(Equal(ProjectBooked))
		Expect(got.Items).To(Equal(9))
	})

	It("flushes pending events on close", func() {
		w := newTestWriter()
		ep := NewEventProducer(w)

		for i := 0; i < 50; i++ {
			Expect(ep.Publish(context.TODO(), CatalogMessageKind, CatalogEvent{Action: MaterialUpserted})).To(Succeed())
		}
		Expect(ep.Close()).To(Succeed())
		Expect(w.Len()).To(Equal(50))
	})

	It("prints one json line per event", func() {
		var out bytes.Buffer
		ep := NewEventProducer(newStreamWriter(&out), WithOutputTopic("bom"))

		Expect(ep.Publish(context.TODO(), CatalogMessageKind, CatalogEvent{Action: MaterialDeleted, MaterialID: "mod-400"})).To(Succeed())
		Expect(ep.Close()).To(Succeed())

		var line struct {
			Topic string          `json:"topic"`
			Event json.RawMessage `json:"event"`
		}
		Expect(json.Unmarshal(bytes.TrimSpace(out.Bytes()), &line)).To(Succeed())
		Expect(line.Topic).To(Equal("bom"))

		e := cloudevents.NewEvent()
		Expect(json.Unmarshal(line.Event, &e)).To(Succeed())
		Expect(e.Type()).To(Equal(CatalogMessageKind))

		var got CatalogEvent
		Expect(json.Unmarshal(e.Data(), &got)).To(Succeed())
		Expect(got.MaterialID).To(Equal("mod-400"))
	})
})

type testwriter struct {
	mu       sync.Mutex
	messages []cloudevents.Event
	topics   []string
	closed   bool
}

func newTestWriter() *testwriter {
	return &testwriter{messages: []cloudevents.Event{}}
}

func (t *testwriter) Write(ctx context.Context, topic string, e cloudevents.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, e)
	t.topics = append(t.topics, topic)
	return nil
}

func (t *testwriter) Close(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

func (t *testwriter) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

func (t *testwriter) Events() []cloudevents.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]cloudevents.Event{}, t.messages...)
}

func (t *testwriter) Topics() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string{}, t.topics...)
}

func (t *testwriter) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
