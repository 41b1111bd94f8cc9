package v1alpha1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	api "github.com/solarwerk/pv-planner/api/v1alpha1"
	"github.com/solarwerk/pv-planner/internal/events"
	handlers "github.com/solarwerk/pv-planner/internal/handlers/v1alpha1"
)

type eventWriter struct {
	mu     sync.Mutex
	events []cloudevents.Event
}

func (w *eventWriter) Write(_ context.Context, _ string, e cloudevents.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, e)
	return nil
}

func (w *eventWriter) Close(_ context.Context) error { return nil }

func (w *eventWriter) Events() []cloudevents.Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]cloudevents.Event{}, w.events...)
}

var _ = Describe("handler events", func() {
	It("publishes project and catalog changes", func() {
		s, _ := newTestStore()
		defer s.Close()
		seedCatalog(s)

		w := &eventWriter{}
		producer := events.NewEventProducer(w)
		router := newTestRouter(s, handlers.WithEventProducer(producer))

		rr := doRequest(router, http.MethodPost, "/api/v1/projects", api.ProjectCreate{Name: "roof", Configuration: testConfiguration()})
		Expect(rr.Code).To(Equal(http.StatusCreated))
		project := decode[api.Project](rr)

		rr = doRequest(router, http.MethodPost, "/api/v1/projects/"+project.Id.String()+"/book", nil)
		Expect(rr.Code).To(Equal(http.StatusOK))

		rr = doRequest(router, http.MethodDelete, "/api/v1/materials/ties", nil)
		Expect(rr.Code).To(Equal(http.StatusNoContent))

		// a failed request publishes nothing
		rr = doRequest(router, http.MethodPost, "/api/v1/projects/"+project.Id.String()+"/book", nil)
		Expect(rr.Code).To(Equal(http.StatusConflict))

		Expect(producer.Close()).To(Succeed())

		published := w.Events()
		Expect(published).To(HaveLen(3))
		Expect(published[0].Type()).To(Equal(events.ProjectMessageKind))
		Expect(published[2].Type()).To(Equal(events.CatalogMessageKind))

		var booked events.ProjectEvent
		Expect(json.Unmarshal(published[1].Data(), &booked)).To(Succeed())
		Expect(booked.Action).To(Equal(events.ProjectBooked))
		Expect(booked.ProjectID).To(Equal(project.Id))
		Expect(booked.Items).To(Equal(9))

		var deleted events.CatalogEvent
		Expect(json.Unmarshal(published[2].Data(), &deleted)).To(Succeed())
		Expect(deleted).To(Equal(events.CatalogEvent{Action: events.MaterialDeleted, MaterialID: "ties"}))
	})
})
