package storage

import (
	"context"
	"sync"

	"github.com/ammi749/gamekeys/internal/domain"
)

// MemoryStore holds client state in memory only. Used in tests and for
// ephemeral runs where nothing should outlive the process.
type MemoryStore struct {
	mu         sync.RWMutex
	cart       *domain.Cart
	tokens     *domain.TokenPair
	pendingID  int64
	hasPending bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) LoadCart(context.Context) (domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cart == nil {
		return domain.Cart{}, ErrNotFound
	}
	return *m.cart, nil
}

func (m *MemoryStore) SaveCart(_ context.Context, cart domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = &cart
	return nil
}

func (m *MemoryStore) LoadTokens(context.Context) (domain.TokenPair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.tokens == nil {
		return domain.TokenPair{}, ErrNotFound
	}
	return *m.tokens, nil
}

func (m *MemoryStore) SaveTokens(_ context.Context, pair domain.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = &pair
	return nil
}

func (m *MemoryStore) ClearTokens(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = nil
	return nil
}

func (m *MemoryStore) PendingOrder(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.hasPending {
		return 0, ErrNotFound
	}
	return m.pendingID, nil
}

func (m *MemoryStore) SetPendingOrder(_ context.Context, orderID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingID = orderID
	m.hasPending = true
	return nil
}

func (m *MemoryStore) ClearPendingOrder(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingID = 0
	m.hasPending = false
	return nil
}
