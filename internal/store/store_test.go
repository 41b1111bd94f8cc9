package store_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	st "github.com/solarwerk/pv-planner/internal/store"
	"github.com/solarwerk/pv-planner/internal/store/model"
)

var _ = Describe("Store", Ordered, func() {
	var (
		store  st.Store
		gormDB *gorm.DB
	)

	BeforeAll(func() {
		store, gormDB = newTestStore()
		Expect(store).ToNot(BeNil())
	})

	AfterAll(func() {
		store.Close()
	})

	AfterEach(func() {
		gormDB.Exec("DELETE FROM bookings;")
		gormDB.Exec("DELETE FROM projects;")
		gormDB.Exec("DELETE FROM materials;")
		gormDB.Exec("DELETE FROM parameters;")
	})

	Context("transaction", func() {
		It("insert a material successfully", func() {
			ctx, err := store.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			m, err := store.Material().Upsert(ctx, model.Material{ID: "mod-400", CategoryID: "module"})
			Expect(err).To(BeNil())
			Expect(m).ToNot(BeNil())

			_, cerr := st.Commit(ctx)
			Expect(cerr).To(BeNil())

			count := 0
			err = gormDB.Raw("SELECT COUNT(*) from materials;").Scan(&count).Error
			Expect(err).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("rollback a material successfully", func() {
			ctx, err := store.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			_, err = store.Material().Upsert(ctx, model.Material{ID: "mod-400", CategoryID: "module"})
			Expect(err).To(BeNil())

			// a nested transaction context joins the running one
			nested, err := store.NewTransactionContext(ctx)
			Expect(err).To(BeNil())
			Expect(st.FromContext(nested)).To(Equal(st.FromContext(ctx)))

			_, rerr := st.Rollback(ctx)
			Expect(rerr).To(BeNil())

			count := 0
			err = gormDB.Raw("SELECT COUNT(*) from materials;").Scan(&count).Error
			Expect(err).To(BeNil())
			Expect(count).To(Equal(0))
		})

		It("refuses to finish a transaction twice", func() {
			ctx, err := store.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			tx := st.FromContext(ctx)
			Expect(tx).ToNot(BeNil())

			_, err = st.Commit(ctx)
			Expect(err).To(BeNil())
			_, err = st.Rollback(ctx)
			Expect(err).ToNot(BeNil())
		})

		It("commits when the callback succeeds", func() {
			err := st.WithTransaction(context.TODO(), store, func(ctx context.Context) error {
				_, err := store.Material().Upsert(ctx, model.Material{ID: "hook", CategoryID: "mounting"})
				return err
			})
			Expect(err).To(BeNil())

			_, err = store.Material().Get(context.TODO(), "hook")
			Expect(err).To(BeNil())
		})

		It("rolls back when the callback fails", func() {
			failure := errors.New("stock exhausted")
			err := st.WithTransaction(context.TODO(), store, func(ctx context.Context) error {
				if _, err := store.Material().Upsert(ctx, model.Material{ID: "hook", CategoryID: "mounting"}); err != nil {
					return err
				}
				return failure
			})
			Expect(errors.Is(err, failure)).To(BeTrue())

			_, err = store.Material().Get(context.TODO(), "hook")
			Expect(errors.Is(err, st.ErrRecordNotFound)).To(BeTrue())
		})

		It("joins a transaction already carried by the context", func() {
			ctx, err := store.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			err = st.WithTransaction(ctx, store, func(inner context.Context) error {
				Expect(st.FromContext(inner)).To(Equal(st.FromContext(ctx)))
				_, err := store.Material().Upsert(inner, model.Material{ID: "hook", CategoryID: "mounting"})
				return err
			})
			Expect(err).To(BeNil())

			// the owner decides
			_, err = st.Rollback(ctx)
			Expect(err).To(BeNil())

			_, err = store.Material().Get(context.TODO(), "hook")
			Expect(errors.Is(err, st.ErrRecordNotFound)).To(BeTrue())
		})
	})

	Context("seed", func() {
		It("inserts missing rows and keeps existing ones", func() {
			_, err := store.Material().Upsert(context.TODO(), model.Material{ID: "m1", CategoryID: "module", Stock: 7})
			Expect(err).To(BeNil())

			materials := model.MaterialList{
				{ID: "m1", CategoryID: "module", Stock: 100},
				{ID: "m2", CategoryID: "inverter", Stock: 3},
			}
			err = store.Seed(context.TODO(), materials, map[string]any{"dcCableLengthPerString": 12})
			Expect(err).To(BeNil())

			m1, err := store.Material().Get(context.TODO(), "m1")
			Expect(err).To(BeNil())
			Expect(m1.Stock).To(Equal(7.0))

			m2, err := store.Material().Get(context.TODO(), "m2")
			Expect(err).To(BeNil())
			Expect(m2.CategoryID).To(Equal("inverter"))

			p, err := store.Parameter().Get(context.TODO(), model.DefaultsParameterID)
			Expect(err).To(BeNil())
			Expect(p.ValueMap()).To(HaveKeyWithValue("dcCableLengthPerString", BeNumerically("==", 12)))
		})
	})

	Context("statistics", func() {
		It("counts materials and projects", func() {
			for _, m := range []model.Material{
				{ID: "m1", CategoryID: "module", Stock: 10},
				{ID: "m2", CategoryID: "module", Stock: 0},
				{ID: "i1", CategoryID: "inverter", Stock: -1},
			} {
				_, err := store.Material().Upsert(context.TODO(), m)
				Expect(err).To(BeNil())
			}
			_, err := store.Project().Create(context.TODO(), model.Project{Name: "roof"})
			Expect(err).To(BeNil())

			stats, err := store.Statistics(context.TODO())
			Expect(err).To(BeNil())
			Expect(stats.TotalMaterials).To(Equal(3))
			Expect(stats.MaterialsByCategory).To(HaveKeyWithValue("module", 2))
			Expect(stats.OutOfStock).To(Equal(2))
			Expect(stats.TotalProjects).To(Equal(1))
			Expect(stats.BookedProjects).To(Equal(0))
		})
	})
})
