package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/solarwerk/pv-planner/internal/bom"
	"github.com/solarwerk/pv-planner/internal/service"
	"github.com/solarwerk/pv-planner/internal/store"
	"github.com/solarwerk/pv-planner/internal/store/model"
)

var _ = Describe("BOM Service", Ordered, func() {
	var (
		s       store.Store
		catalog *service.CatalogCache
		memo    *service.DerivationMemo
		svc     *service.BOMService
	)

	BeforeAll(func() {
		s, _ = newTestStore()
		seedCatalog(s)
	})

	BeforeEach(func() {
		catalog = service.NewCatalogCache(s)
		memo = service.NewDerivationMemo(16)
		svc = service.NewBOMService(catalog, memo)
	})

	AfterAll(func() {
		s.Close()
	})

	Context("Derive", func() {
		It("derives the bom from the stored catalog and defaults", func() {
			result, err := svc.Derive(context.TODO(), "test", testConfiguration(), nil)
			Expect(err).To(BeNil())
			Expect(result.Warnings).To(BeEmpty())
			Expect(result.CatalogVersion).To(Equal(uint64(1)))
			Expect(result.Fingerprint).To(HaveLen(64))

			quantities := map[string]float64{}
			for _, item := range result.BOM {
				quantities[item.MaterialID] = item.Quantity
			}
			Expect(quantities).To(Equal(map[string]float64{
				"mod-400": 10,
				"inv-10":  1,
				"hook":    10,
				"mc4":     4,
				"dc-6":    40,
				"dongle":  1,
				"ties":    20,
				"b20":     1,
				"cab-2.5": 10,
			}))
			Expect(result.Chosen[bom.InverterClass].CableID).To(Equal("cab-2.5"))
		})

		It("memoizes equal inputs", func() {
			first, err := svc.Derive(context.TODO(), "test", testConfiguration(), nil)
			Expect(err).To(BeNil())
			Expect(memo.Len()).To(Equal(1))

			second, err := svc.Derive(context.TODO(), "test", testConfiguration(), nil)
			Expect(err).To(BeNil())
			Expect(memo.Len()).To(Equal(1))
			Expect(second.Fingerprint).To(Equal(first.Fingerprint))
			Expect(second.BOM).To(Equal(first.BOM))
		})

		It("applies overrides", func() {
			overrides := bom.Recommendations{bom.InverterClass: {BreakerID: "b-custom", CableID: "ties"}}
			result, err := svc.Derive(context.TODO(), "test", testConfiguration(), overrides)
			Expect(err).To(BeNil())
			Expect(result.Chosen[bom.InverterClass].CableID).To(Equal("ties"))
			Expect(result.Recommendations[bom.InverterClass].CableID).To(Equal("cab-2.5"))

			for _, item := range result.BOM {
				Expect(item.MaterialID).ToNot(Equal("b20"))
				Expect(item.MaterialID).ToNot(Equal("b-custom"))
				if item.MaterialID == "ties" {
					// 20 flat-rate ties plus 10 m of "cable"
					Expect(item.Quantity).To(Equal(30.0))
				}
			}
		})

		It("returns an empty bom for an empty configuration", func() {
			result, err := svc.Derive(context.TODO(), "test", bom.Configuration{}, nil)
			Expect(err).To(BeNil())
			Expect(result.BOM).To(BeEmpty())
			Expect(result.Warnings).To(BeEmpty())
		})

		It("picks up catalog changes after invalidation", func() {
			first, err := svc.Derive(context.TODO(), "test", testConfiguration(), nil)
			Expect(err).To(BeNil())

			svc.Invalidate()
			Expect(memo.Len()).To(Equal(0))

			second, err := svc.Derive(context.TODO(), "test", testConfiguration(), nil)
			Expect(err).To(BeNil())
			Expect(second.CatalogVersion).To(Equal(first.CatalogVersion + 1))
			Expect(second.Fingerprint).ToNot(Equal(first.Fingerprint))
		})
	})
})

var _ = Describe("Catalog Cache", Ordered, func() {
	var s store.Store

	BeforeAll(func() {
		s, _ = newTestStore()
	})

	AfterAll(func() {
		s.Close()
	})

	It("falls back to default values without a defaults record", func() {
		cache := service.NewCatalogCache(s)
		snapshot, err := cache.Snapshot(context.TODO())
		Expect(err).To(BeNil())
		Expect(snapshot.Catalog.Len()).To(Equal(0))
		Expect(snapshot.Defaults.ConnectorPairsPerString).To(Equal(2.0))
		Expect(snapshot.Defaults.CableLengthFor(bom.WallboxClass)).To(Equal(10.0))
	})

	It("keeps the snapshot until it is refreshed", func() {
		cache := service.NewCatalogCache(s)
		first, err := cache.Snapshot(context.TODO())
		Expect(err).To(BeNil())

		seedCatalog(s)

		again, err := cache.Snapshot(context.TODO())
		Expect(err).To(BeNil())
		Expect(again).To(BeIdenticalTo(first))

		refreshed, err := cache.Refresh(context.TODO())
		Expect(err).To(BeNil())
		Expect(refreshed.Version).To(Equal(first.Version + 1))
		Expect(refreshed.Catalog.Len()).To(Equal(len(testMaterials())))
	})

	It("does not publish a load overtaken by an invalidation", func() {
		seedCatalog(s)
		gated := newGatedMaterials(s.Material())
		cache := service.NewCatalogCache(&wrappedStore{Store: s, materials: gated})

		done := make(chan *service.CatalogSnapshot, 1)
		go func() {
			defer GinkgoRecover()
			snapshot, err := cache.Refresh(context.TODO())
			Expect(err).To(BeNil())
			done <- snapshot
		}()

		Eventually(gated.loaded).Should(BeClosed())
		_, err := s.Material().Upsert(context.TODO(), model.Material{ID: "new-mat", CategoryID: "module"})
		Expect(err).To(BeNil())
		cache.Invalidate()
		close(gated.release)

		var refreshed *service.CatalogSnapshot
		Eventually(done).Should(Receive(&refreshed))
		_, found := refreshed.Catalog.ByID("new-mat")
		Expect(found).To(BeTrue())
		Expect(refreshed.Version).To(Equal(uint64(1)))

		current, err := cache.Snapshot(context.TODO())
		Expect(err).To(BeNil())
		Expect(current).To(BeIdenticalTo(refreshed))
	})
})
