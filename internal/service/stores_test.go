package service_test

import (
	"context"
	"errors"
	"sync"

	"github.com/solarwerk/pv-planner/internal/store"
	"github.com/solarwerk/pv-planner/internal/store/model"
)

var errCatalogUnavailable = errors.New("catalog unavailable")

// gatedMaterials blocks the first List call after it has read the materials
// until release is closed.
type gatedMaterials struct {
	store.Material
	once    sync.Once
	loaded  chan struct{}
	release chan struct{}
}

func newGatedMaterials(m store.Material) *gatedMaterials {
	return &gatedMaterials{Material: m, loaded: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedMaterials) List(ctx context.Context, filter *store.MaterialQueryFilter) (model.MaterialList, error) {
	materials, err := g.Material.List(ctx, filter)
	g.once.Do(func() {
		close(g.loaded)
		<-g.release
	})
	return materials, err
}

type failingMaterials struct {
	store.Material
}

func (failingMaterials) List(context.Context, *store.MaterialQueryFilter) (model.MaterialList, error) {
	return nil, errCatalogUnavailable
}

// wrappedStore replaces the material repository of a store.
type wrappedStore struct {
	store.Store
	materials store.Material
}

func (w *wrappedStore) Material() store.Material {
	return w.materials
}
