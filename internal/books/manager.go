package books

import (
	"sync"

	"github.com/sdallo/bookshelf/internal/pool"
)

// StorePool pools exclusive Store handles for one backing database.
type StorePool = pool.Pool[Store]

// StoreLease is a scoped exclusive lease on one pooled Store.
type StoreLease = pool.Item[Store]

// Manager maps named store pools and tracks which one is current. It is the
// single registry shared across the process; all mutation is serialized
// through its mutex.
type Manager struct {
	mu      sync.Mutex
	pools   map[string]*StorePool
	current string
}

// NewManager returns an empty registry.
func NewManager() *Manager {
	return &Manager{pools: make(map[string]*StorePool)}
}

// AddPool registers a pool under name. Registering an already-known name
// fails with ErrPoolExists.
func (m *Manager) AddPool(name string, p *StorePool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pools[name]; ok {
		return ErrPoolExists
	}
	m.pools[name] = p
	return nil
}

// RemovePool unregisters and returns the named pool, or nil when unknown.
// If the removed pool was current, the current selection is cleared.
func (m *Manager) RemovePool(name string) *StorePool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pools[name]
	if !ok {
		return nil
	}
	delete(m.pools, name)
	if m.current == name {
		m.current = ""
	}
	return p
}

// SetCurrent selects the pool subsequent Current calls lease from.
func (m *Manager) SetCurrent(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pools[name]; !ok {
		return ErrPoolNotFound
	}
	m.current = name
	return nil
}

// IsCurrentSet reports whether a current pool is selected.
func (m *Manager) IsCurrentSet() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != ""
}

// Pools lists the registered pool names.
func (m *Manager) Pools() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.pools))
	for name := range m.pools {
		names = append(names, name)
	}
	return names
}

// Current leases a Store from the current pool. The registry lock is not
// held while acquiring, so a slow store creator cannot stall other
// registry operations.
func (m *Manager) Current() (*StoreLease, error) {
	m.mu.Lock()
	if m.current == "" {
		m.mu.Unlock()
		return nil, ErrNoCurrentPool
	}
	p, ok := m.pools[m.current]
	m.mu.Unlock()
	if !ok {
		return nil, ErrPoolNotFound
	}
	return p.Acquire()
}
