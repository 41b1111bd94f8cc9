package v1alpha1_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	api "github.com/solarwerk/pv-planner/api/v1alpha1"
	"github.com/solarwerk/pv-planner/internal/bom"
	handlers "github.com/solarwerk/pv-planner/internal/handlers/v1alpha1"
	"github.com/solarwerk/pv-planner/internal/store"
	"github.com/solarwerk/pv-planner/pkg/requestid"
)

type fakeUploader struct {
	names   []string
	content [][]byte
}

func (f *fakeUploader) Upload(_ context.Context, name string, content []byte, _ string) (string, error) {
	f.names = append(f.names, name)
	f.content = append(f.content, content)
	return "bom-exports/" + name, nil
}

var _ = Describe("api handlers", Ordered, func() {
	var (
		s        store.Store
		gormdb   *gorm.DB
		router   http.Handler
		uploader *fakeUploader
	)

	BeforeAll(func() {
		s, gormdb = newTestStore()
	})

	BeforeEach(func() {
		seedCatalog(s)
		uploader = &fakeUploader{}
		router = newTestRouter(s, handlers.WithExportUploader(uploader))
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM bookings;")
		gormdb.Exec("DELETE FROM projects;")
		gormdb.Exec("DELETE FROM materials;")
		gormdb.Exec("DELETE FROM parameters;")
	})

	AfterAll(func() {
		s.Close()
	})

	createProject := func() api.Project {
		rr := doRequest(router, http.MethodPost, "/api/v1/projects", api.ProjectCreate{
			Name:          "Müller Süd",
			Customer:      "Müller",
			Configuration: testConfiguration(),
		})
		Expect(rr.Code).To(Equal(http.StatusCreated))
		return decode[api.Project](rr)
	}

	Context("health", func() {
		It("reports ok", func() {
			rr := doRequest(router, http.MethodGet, "/health", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(decode[api.Health](rr).Status).To(Equal("ok"))
		})
	})

	Context("derive", func() {
		It("derives the bom of a configuration", func() {
			rr := doRequest(router, http.MethodPost, "/api/v1/bom/derive", api.DeriveRequest{Configuration: testConfiguration()})
			Expect(rr.Code).To(Equal(http.StatusOK))

			derivation := decode[api.Derivation](rr)
			Expect(derivation.Bom).To(HaveLen(9))
			Expect(derivation.Bom[0].MaterialID).To(Equal("mod-400"))
			Expect(derivation.Bom[0].Quantity).To(Equal(10.0))
			Expect(derivation.Warnings).To(BeEmpty())
			Expect(derivation.Fingerprint).NotTo(BeEmpty())
		})

		It("derives an empty bom without modules", func() {
			rr := doRequest(router, http.MethodPost, "/api/v1/bom/derive", api.DeriveRequest{})
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(decode[api.Derivation](rr).Bom).To(BeEmpty())
		})

		It("rejects an empty body", func() {
			rr := doRequest(router, http.MethodPost, "/api/v1/bom/derive", nil)
			Expect(rr.Code).To(Equal(http.StatusBadRequest))

			apiErr := decode[api.Error](rr)
			Expect(apiErr.Message).To(ContainSubstring("empty body"))
			Expect(apiErr.RequestId).NotTo(BeNil())
			Expect(*apiErr.RequestId).To(Equal(rr.Header().Get(requestid.Header)))
		})

		It("rejects an unknown roof type", func() {
			cfg := testConfiguration()
			cfg.Roof = "thatched"
			rr := doRequest(router, http.MethodPost, "/api/v1/bom/derive", api.DeriveRequest{Configuration: cfg})
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("materials", func() {
		It("lists materials by category", func() {
			rr := doRequest(router, http.MethodGet, "/api/v1/materials?category=dc", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))

			materials := decode[api.MaterialList](rr)
			Expect(materials).To(HaveLen(2))
			Expect(materials[0].Id).To(Equal("dc-6"))
		})

		It("rejects an invalid outOfStock filter", func() {
			rr := doRequest(router, http.MethodGet, "/api/v1/materials?outOfStock=maybe", nil)
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
		})

		It("upserts a material", func() {
			rr := doRequest(router, http.MethodPut, "/api/v1/materials/bat-5", api.Material{
				CategoryId:  "battery",
				Description: "Battery 5 kWh",
				Stock:       4,
			})
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(decode[api.Material](rr).Id).To(Equal("bat-5"))

			rr = doRequest(router, http.MethodGet, "/api/v1/materials/bat-5", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(decode[api.Material](rr).Stock).To(Equal(4.0))
		})

		It("rejects a material without category", func() {
			rr := doRequest(router, http.MethodPut, "/api/v1/materials/bat-5", api.Material{Description: "Battery"})
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 404 for a missing material", func() {
			rr := doRequest(router, http.MethodGet, "/api/v1/materials/none", nil)
			Expect(rr.Code).To(Equal(http.StatusNotFound))

			rr = doRequest(router, http.MethodDelete, "/api/v1/materials/none", nil)
			Expect(rr.Code).To(Equal(http.StatusNotFound))
		})

		It("deletes a material", func() {
			rr := doRequest(router, http.MethodDelete, "/api/v1/materials/ties", nil)
			Expect(rr.Code).To(Equal(http.StatusNoContent))

			rr = doRequest(router, http.MethodPost, "/api/v1/bom/derive", api.DeriveRequest{Configuration: testConfiguration()})
			Expect(rr.Code).To(Equal(http.StatusOK))
			for _, item := range decode[api.Derivation](rr).Bom {
				Expect(item.MaterialID).NotTo(Equal("ties"))
			}
		})
	})

	Context("parameters", func() {
		It("reads and replaces the defaults record", func() {
			rr := doRequest(router, http.MethodGet, "/api/v1/parameters", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(decode[api.Parameters](rr)).To(HaveKeyWithValue("defaultCableTieMaterial", "ties"))

			rr = doRequest(router, http.MethodPut, "/api/v1/parameters", api.Parameters{
				"defaultCableTieMaterial": "ties",
				"cableTies":               3,
			})
			Expect(rr.Code).To(Equal(http.StatusOK))

			rr = doRequest(router, http.MethodPost, "/api/v1/bom/derive", api.DeriveRequest{Configuration: testConfiguration()})
			Expect(rr.Code).To(Equal(http.StatusOK))
			var ties float64
			for _, item := range decode[api.Derivation](rr).Bom {
				if item.MaterialID == "ties" {
					ties = item.Quantity
				}
			}
			Expect(ties).To(Equal(30.0))
		})
	})

	Context("projects", func() {
		It("creates and reads a project", func() {
			project := createProject()
			Expect(project.Bom).To(HaveLen(9))

			rr := doRequest(router, http.MethodGet, "/api/v1/projects/"+project.Id.String(), nil)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(decode[api.Project](rr).Name).To(Equal("Müller Süd"))

			rr = doRequest(router, http.MethodGet, "/api/v1/projects?customer=M%C3%BCller", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(decode[api.ProjectList](rr)).To(HaveLen(1))
		})

		It("rejects an invalid project name", func() {
			rr := doRequest(router, http.MethodPost, "/api/v1/projects", api.ProjectCreate{Name: "roof$$$"})
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 for a malformed id and 404 for an unknown one", func() {
			rr := doRequest(router, http.MethodGet, "/api/v1/projects/not-a-uuid", nil)
			Expect(rr.Code).To(Equal(http.StatusBadRequest))

			rr = doRequest(router, http.MethodGet, "/api/v1/projects/6f1d3c1e-8f4b-4f7e-9d0a-1b2c3d4e5f60", nil)
			Expect(rr.Code).To(Equal(http.StatusNotFound))
		})

		It("applies manual edits", func() {
			project := createProject()

			rr := doRequest(router, http.MethodPut, "/api/v1/projects/"+project.Id.String()+"/bom", api.ManualItemsUpdate{
				Items: []api.ManualItem{{MaterialId: "ties", Quantity: 0}, {MaterialId: "mc4", Quantity: 6}},
			})
			Expect(rr.Code).To(Equal(http.StatusOK))

			items := map[string]bom.LineItem{}
			for _, item := range decode[api.Project](rr).Bom {
				items[item.MaterialID] = item
			}
			Expect(items).NotTo(HaveKey("ties"))
			Expect(items["mc4"].Quantity).To(Equal(6.0))
			Expect(items["mc4"].IsManual).To(BeTrue())
		})

		It("books a project once", func() {
			project := createProject()

			rr := doRequest(router, http.MethodPost, "/api/v1/projects/"+project.Id.String()+"/book", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))
			booked := decode[api.Project](rr)
			Expect(booked.BookedAt).NotTo(BeNil())
			Expect(booked.Bookings).To(HaveLen(9))

			rr = doRequest(router, http.MethodGet, "/api/v1/materials/mod-400", nil)
			Expect(decode[api.Material](rr).Stock).To(Equal(90.0))

			rr = doRequest(router, http.MethodPost, "/api/v1/projects/"+project.Id.String()+"/book", nil)
			Expect(rr.Code).To(Equal(http.StatusConflict))

			rr = doRequest(router, http.MethodPut, "/api/v1/projects/"+project.Id.String()+"/configuration", api.ConfigurationUpdate{Configuration: testConfiguration()})
			Expect(rr.Code).To(Equal(http.StatusConflict))
		})

		It("exports the bom as csv", func() {
			project := createProject()

			rr := doRequest(router, http.MethodGet, "/api/v1/projects/"+project.Id.String()+"/bom.csv", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Header().Get("Content-Disposition")).To(ContainSubstring("attachment"))

			reader := csv.NewReader(bytes.NewReader(rr.Body.Bytes()))
			reader.FieldsPerRecord = -1
			records, err := reader.ReadAll()
			Expect(err).To(BeNil())
			Expect(records).NotTo(BeEmpty())

			var materials []string
			for _, rec := range records {
				if len(rec) > 1 {
					materials = append(materials, rec[1])
				}
			}
			Expect(materials).To(ContainElements("mod-400", "inv-10", "ties"))
		})

		It("exports the bom as xlsx", func() {
			project := createProject()

			rr := doRequest(router, http.MethodGet, "/api/v1/projects/"+project.Id.String()+"/bom.xlsx", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))

			f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
			Expect(err).To(BeNil())
			defer f.Close()
			Expect(f.GetSheetList()).To(ContainElement("BOM"))
		})

		It("archives an export", func() {
			project := createProject()

			rr := doRequest(router, http.MethodPost, "/api/v1/projects/"+project.Id.String()+"/export?format=csv", nil)
			Expect(rr.Code).To(Equal(http.StatusCreated))
			Expect(decode[api.ExportReference](rr).Location).To(HaveSuffix(".csv"))
			Expect(uploader.names).NotTo(BeEmpty())

			rr = doRequest(router, http.MethodPost, "/api/v1/projects/"+project.Id.String()+"/export?format=pdf", nil)
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
		})

		It("deletes a project", func() {
			project := createProject()

			rr := doRequest(router, http.MethodDelete, "/api/v1/projects/"+project.Id.String(), nil)
			Expect(rr.Code).To(Equal(http.StatusNoContent))

			rr = doRequest(router, http.MethodGet, "/api/v1/projects/"+project.Id.String(), nil)
			Expect(rr.Code).To(Equal(http.StatusNotFound))
		})
	})
})

var _ = Describe("export archive", func() {
	It("is unavailable without an uploader", func() {
		s, _ := newTestStore()
		defer s.Close()

		rr := doRequest(newTestRouter(s), http.MethodPost, "/api/v1/projects/6f1d3c1e-8f4b-4f7e-9d0a-1b2c3d4e5f60/export", nil)
		Expect(rr.Code).To(Equal(http.StatusServiceUnavailable))
	})
})
