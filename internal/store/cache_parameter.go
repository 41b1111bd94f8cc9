package store

import (
	"context"
	"sync"

	"github.com/solarwerk/pv-planner/internal/store/model"
)

// CacheParameterStore is wrapper around Parameter which caches records by id.
// Writes through the wrapper invalidate the cached record.
type CacheParameterStore struct {
	delegate   Parameter
	parameters map[string]model.Parameter
	mu         sync.Mutex
}

func NewCacheParameterStore(delegate Parameter) Parameter {
	return &CacheParameterStore{
		delegate:   delegate,
		parameters: make(map[string]model.Parameter),
	}
}

func (p *CacheParameterStore) Get(ctx context.Context, id string) (*model.Parameter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// inside a transaction the cache may be stale
	if FromContext(ctx) == nil {
		if parameter, found := p.parameters[id]; found {
			return &parameter, nil
		}
	}

	parameter, err := p.delegate.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if FromContext(ctx) == nil {
		p.parameters[id] = *parameter
	}
	return parameter, nil
}

func (p *CacheParameterStore) Put(ctx context.Context, parameter model.Parameter) (*model.Parameter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.parameters, parameter.ID)

	return p.delegate.Put(ctx, parameter)
}
