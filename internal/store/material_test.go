package store_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	st "github.com/solarwerk/pv-planner/internal/store"
	"github.com/solarwerk/pv-planner/internal/store/model"
)

var _ = Describe("material store", Ordered, func() {
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
		gormdb.Exec("DELETE FROM materials;")
	})

	Context("upsert", func() {
		It("creates and then updates a material", func() {
			created, err := s.Material().Upsert(context.TODO(), model.Material{
				ID:          "mod-400",
				CategoryID:  "module",
				Description: "Module 400 Wp",
				Spec:        model.MakeJSONField(map[string]any{"width": 1134}),
			})
			Expect(err).To(BeNil())
			Expect(created.Description).To(Equal("Module 400 Wp"))
			Expect(created.SpecMap()).To(HaveKeyWithValue("width", BeNumerically("==", 1134)))

			updated, err := s.Material().Upsert(context.TODO(), model.Material{
				ID:          "mod-400",
				CategoryID:  "module",
				Description: "Module 400 Wp black",
				Stock:       12,
			})
			Expect(err).To(BeNil())
			Expect(updated.Description).To(Equal("Module 400 Wp black"))
			Expect(updated.Stock).To(Equal(12.0))

			count := 0
			tx := gormdb.Raw("SELECT COUNT(*) FROM materials;").Scan(&count)
			Expect(tx.Error).To(BeNil())
			Expect(count).To(Equal(1))
		})
	})

	Context("list", func() {
		BeforeEach(func() {
			for _, m := range []model.Material{
				{ID: "inv-10", CategoryID: "inverter", Stock: 2},
				{ID: "mod-400", CategoryID: "module", Stock: 40},
				{ID: "clamp-end", CategoryID: "mounting", Stock: 0},
			} {
				_, err := s.Material().Upsert(context.TODO(), m)
				Expect(err).To(BeNil())
			}
		})

		It("lists all materials ordered by id", func() {
			materials, err := s.Material().List(context.TODO(), nil)
			Expect(err).To(BeNil())
			Expect(materials).To(HaveLen(3))
			Expect(materials[0].ID).To(Equal("clamp-end"))
		})

		It("filters by category", func() {
			materials, err := s.Material().List(context.TODO(), st.NewMaterialQueryFilter().ByCategory("inverter"))
			Expect(err).To(BeNil())
			Expect(materials).To(HaveLen(1))
			Expect(materials[0].ID).To(Equal("inv-10"))
		})

		It("filters by ids", func() {
			materials, err := s.Material().List(context.TODO(), st.NewMaterialQueryFilter().ByIDs([]string{"inv-10", "mod-400", "missing"}))
			Expect(err).To(BeNil())
			Expect(materials).To(HaveLen(2))
		})

		It("filters materials out of stock", func() {
			materials, err := s.Material().List(context.TODO(), st.NewMaterialQueryFilter().OutOfStock())
			Expect(err).To(BeNil())
			Expect(materials).To(HaveLen(1))
			Expect(materials[0].ID).To(Equal("clamp-end"))
		})
	})

	Context("stock", func() {
		It("adjusts the stock without float drift", func() {
			_, err := s.Material().Upsert(context.TODO(), model.Material{ID: "cable", CategoryID: "dc", Stock: 0.3})
			Expect(err).To(BeNil())

			m, err := s.Material().AdjustStock(context.TODO(), "cable", decimal.NewFromFloat(-0.1))
			Expect(err).To(BeNil())
			Expect(m.Stock).To(Equal(0.2))

			reloaded, err := s.Material().Get(context.TODO(), "cable")
			Expect(err).To(BeNil())
			Expect(reloaded.Stock).To(Equal(0.2))
		})

		It("fails for an unknown material", func() {
			_, err := s.Material().AdjustStock(context.TODO(), "missing", decimal.NewFromInt(1))
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})
	})

	Context("delete", func() {
		It("deletes a material", func() {
			_, err := s.Material().Upsert(context.TODO(), model.Material{ID: "x", CategoryID: "dc"})
			Expect(err).To(BeNil())

			Expect(s.Material().Delete(context.TODO(), "x")).To(Succeed())

			_, err = s.Material().Get(context.TODO(), "x")
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})

		It("reports a missing material", func() {
			err := s.Material().Delete(context.TODO(), "missing")
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})
	})
})

var _ = Describe("parameter store", Ordered, func() {
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

	It("returns not found for a missing record", func() {
		_, err := s.Parameter().Get(context.TODO(), model.DefaultsParameterID)
		Expect(err).To(MatchError(st.ErrRecordNotFound))
	})

	It("serves cached records until they are replaced", func() {
		_, err := s.Parameter().Put(context.TODO(), model.Parameter{
			ID:     model.DefaultsParameterID,
			Record: model.MakeJSONField(map[string]any{"decalQuantity": 1}),
		})
		Expect(err).To(BeNil())

		p, err := s.Parameter().Get(context.TODO(), model.DefaultsParameterID)
		Expect(err).To(BeNil())
		Expect(p.ValueMap()).To(HaveKeyWithValue("decalQuantity", BeNumerically("==", 1)))

		// written behind the cache's back
		tx := gormdb.Exec("UPDATE parameters SET record = ? WHERE id = ?", `{"decalQuantity":5}`, model.DefaultsParameterID)
		Expect(tx.Error).To(BeNil())

		p, err = s.Parameter().Get(context.TODO(), model.DefaultsParameterID)
		Expect(err).To(BeNil())
		Expect(p.ValueMap()).To(HaveKeyWithValue("decalQuantity", BeNumerically("==", 1)))

		_, err = s.Parameter().Put(context.TODO(), model.Parameter{
			ID:     model.DefaultsParameterID,
			Record: model.MakeJSONField(map[string]any{"decalQuantity": 2}),
		})
		Expect(err).To(BeNil())

		p, err = s.Parameter().Get(context.TODO(), model.DefaultsParameterID)
		Expect(err).To(BeNil())
		Expect(p.ValueMap()).To(HaveKeyWithValue("decalQuantity", BeNumerically("==", 2)))
	})
})
