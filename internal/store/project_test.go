package store_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/solarwerk/pv-planner/internal/bom"
	st "github.com/solarwerk/pv-planner/internal/store"
	"github.com/solarwerk/pv-planner/internal/store/model"
)

var _ = Describe("project store", Ordered, func() {
	var (
		s      st.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		s, gormdb = newTestStore()
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM bookings;")
		gormdb.Exec("DELETE FROM projects;")
	})

	Context("create", func() {
		It("assigns an id and stores the configuration", func() {
			cfg := bom.Configuration{
				ModuleID:     "mod-400",
				Roof:         bom.RoofTile,
				OrientationA: []bom.LayoutRow{{ModuleCount: 10}},
			}
			p, err := s.Project().Create(context.TODO(), model.Project{
				Name:          "roof north",
				Customer:      "miller",
				Configuration: model.MakeJSONField(cfg),
			})
			Expect(err).To(BeNil())
			Expect(p.ID).ToNot(Equal(uuid.Nil))

			got, err := s.Project().Get(context.TODO(), p.ID)
			Expect(err).To(BeNil())
			Expect(got.Name).To(Equal("roof north"))
			Expect(got.Configuration.Data.ModuleID).To(Equal("mod-400"))
			Expect(got.Configuration.Data.OrientationA).To(HaveLen(1))
			Expect(got.IsBooked()).To(BeFalse())
			Expect(got.LineItems()).To(BeNil())
		})

		It("returns not found for an unknown project", func() {
			_, err := s.Project().Get(context.TODO(), uuid.New())
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})
	})

	Context("list", func() {
		It("filters by customer and booking state", func() {
			a, err := s.Project().Create(context.TODO(), model.Project{Name: "a", Customer: "miller"})
			Expect(err).To(BeNil())
			_, err = s.Project().Create(context.TODO(), model.Project{Name: "b", Customer: "smith"})
			Expect(err).To(BeNil())

			_, err = s.Project().MarkBooked(context.TODO(), a.ID, time.Now())
			Expect(err).To(BeNil())

			projects, err := s.Project().List(context.TODO(), st.NewProjectQueryFilter().ByCustomer("miller"))
			Expect(err).To(BeNil())
			Expect(projects).To(HaveLen(1))

			projects, err = s.Project().List(context.TODO(), st.NewProjectQueryFilter().Booked(false))
			Expect(err).To(BeNil())
			Expect(projects).To(HaveLen(1))
			Expect(projects[0].Name).To(Equal("b"))
		})
	})

	Context("update", func() {
		It("replaces configuration and bom", func() {
			p, err := s.Project().Create(context.TODO(), model.Project{Name: "garage"})
			Expect(err).To(BeNil())

			overrides := bom.Recommendations{bom.WallboxClass: {BreakerID: "b-32"}}
			p, err = s.Project().UpdateConfiguration(context.TODO(), p.ID, bom.Configuration{ModuleID: "mod-400"}, overrides)
			Expect(err).To(BeNil())
			Expect(p.Overrides.Data[bom.WallboxClass].BreakerID).To(Equal("b-32"))

			items := []bom.LineItem{{MaterialID: "mod-400", Quantity: 10, Category: "module"}}
			p, err = s.Project().UpdateBOM(context.TODO(), p.ID, items, []string{"check strings"})
			Expect(err).To(BeNil())
			Expect(p.LineItems()).To(Equal(items))
			Expect(p.Warnings.Data).To(ConsistOf("check strings"))
		})

		It("reports an unknown project", func() {
			_, err := s.Project().UpdateBOM(context.TODO(), uuid.New(), nil, nil)
			Expect(err).To(MatchError(st.ErrRecordNotFound))

			_, err = s.Project().UpdateConfiguration(context.TODO(), uuid.New(), bom.Configuration{}, nil)
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})

		It("leaves a booked project untouched", func() {
			items := []bom.LineItem{{MaterialID: "mod-400", Quantity: 10, Category: "module"}}
			p, err := s.Project().Create(context.TODO(), model.Project{
				Name:          "shed",
				Configuration: model.MakeJSONField(bom.Configuration{ModuleID: "mod-400"}),
				BOM:           model.MakeJSONField(items),
			})
			Expect(err).To(BeNil())

			booked, err := s.Project().MarkBooked(context.TODO(), p.ID, time.Now())
			Expect(err).To(BeNil())
			Expect(booked).To(BeTrue())

			_, err = s.Project().UpdateConfiguration(context.TODO(), p.ID, bom.Configuration{ModuleID: "mod-300"}, nil)
			Expect(err).To(MatchError(st.ErrProjectBooked))
			_, err = s.Project().UpdateBOM(context.TODO(), p.ID, nil, nil)
			Expect(err).To(MatchError(st.ErrProjectBooked))

			got, err := s.Project().Get(context.TODO(), p.ID)
			Expect(err).To(BeNil())
			Expect(got.Configuration.Data.ModuleID).To(Equal("mod-400"))
			Expect(got.LineItems()).To(Equal(items))
		})
	})

	Context("booking", func() {
		It("books a project only once", func() {
			p, err := s.Project().Create(context.TODO(), model.Project{Name: "barn"})
			Expect(err).To(BeNil())

			booked, err := s.Project().MarkBooked(context.TODO(), p.ID, time.Now())
			Expect(err).To(BeNil())
			Expect(booked).To(BeTrue())

			booked, err = s.Project().MarkBooked(context.TODO(), p.ID, time.Now())
			Expect(err).To(BeNil())
			Expect(booked).To(BeFalse())

			_, err = s.Project().MarkBooked(context.TODO(), uuid.New(), time.Now())
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})

		It("stores and preloads bookings", func() {
			p, err := s.Project().Create(context.TODO(), model.Project{Name: "barn"})
			Expect(err).To(BeNil())

			err = s.Booking().Create(context.TODO(), model.BookingList{
				{ProjectID: p.ID, MaterialID: "mod-400", Quantity: 10, StockAfter: 30},
				{ProjectID: p.ID, MaterialID: "inv-10", Quantity: 1, StockAfter: 1},
			})
			Expect(err).To(BeNil())

			bookings, err := s.Booking().ListByProject(context.TODO(), p.ID)
			Expect(err).To(BeNil())
			Expect(bookings).To(HaveLen(2))

			got, err := s.Project().Get(context.TODO(), p.ID)
			Expect(err).To(BeNil())
			Expect(got.Bookings).To(HaveLen(2))
		})

		It("deletes a project with its bookings", func() {
			p, err := s.Project().Create(context.TODO(), model.Project{Name: "barn"})
			Expect(err).To(BeNil())
			err = s.Booking().Create(context.TODO(), model.BookingList{{ProjectID: p.ID, MaterialID: "mod-400", Quantity: 1}})
			Expect(err).To(BeNil())

			Expect(s.Project().Delete(context.TODO(), p.ID)).To(Succeed())

			bookings, err := s.Booking().ListByProject(context.TODO(), p.ID)
			Expect(err).To(BeNil())
			Expect(bookings).To(BeEmpty())
		})
	})
})
