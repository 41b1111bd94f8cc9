package service

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/solarwerk/pv-planner/internal/bom"
	"github.com/solarwerk/pv-planner/internal/bom/rules"
)

// DerivationMemo is a bounded least-recently-used cache of derivations.
// Cached derivations are shared and must not be modified.
type DerivationMemo struct {
	mu      sync.Mutex
	size    int
	entries map[string]*list.Element
	order   *list.List
}

type memoEntry struct {
	key        string
	derivation rules.Derivation
}

// NewDerivationMemo returns a memo holding at most size derivations.
// A size of zero or less disables memoization.
func NewDerivationMemo(size int) *DerivationMemo {
	return &DerivationMemo{
		size:    size,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Fingerprint digests the canonical JSON of the derivation inputs.
// encoding/json sorts map keys, so equal inputs give equal fingerprints.
func Fingerprint(cfg bom.Configuration, overrides bom.Recommendations, catalogVersion uint64) (string, error) {
	raw, err := json.Marshal(struct {
		Configuration  bom.Configuration   `json:"configuration"`
		Overrides      bom.Recommendations `json:"overrides"`
		CatalogVersion uint64              `json:"catalogVersion"`
	}{cfg, overrides, catalogVersion})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func (m *DerivationMemo) Get(key string) (rules.Derivation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, found := m.entries[key]
	if !found {
		return rules.Derivation{}, false
	}
	m.order.MoveToFront(elem)
	return elem.Value.(*memoEntry).derivation, true
}

func (m *DerivationMemo) Put(key string, d rules.Derivation) {
	if m.size <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, found := m.entries[key]; found {
		elem.Value.(*memoEntry).derivation = d
		m.order.MoveToFront(elem)
		return
	}

	m.entries[key] = m.order.PushFront(&memoEntry{key: key, derivation: d})
	for m.order.Len() > m.size {
		oldest := m.order.Back()
		m.order.Remove(oldest)
		delete(m.entries, oldest.Value.(*memoEntry).key)
	}
}

func (m *DerivationMemo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

// Reset drops every entry.
func (m *DerivationMemo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*list.Element)
	m.order.Init()
}
