package memory

import (
	"sync"
	"time"

	"github.com/Apurer/paydesk/internal/domains/payments/domain"
	"github.com/Apurer/paydesk/internal/domains/payments/ports"
)

var _ ports.OrderStore = (*OrderStore)(nil)

// OrderStore is the process-wide in-memory correlation table keyed by owner id.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
	policy ports.PutPolicy
}

// Option configures an OrderStore.
type Option func(*OrderStore)

// WithBacking injects the map holding the rows. The store takes ownership of it.
func WithBacking(orders map[string]domain.Order) Option {
	return func(s *OrderStore) {
		if orders != nil {
			s.orders = orders
		}
	}
}

// WithPolicy selects the duplicate submission policy. Defaults to PolicyReplace.
func WithPolicy(policy ports.PutPolicy) Option {
	return func(s *OrderStore) {
		if policy != "" {
			s.policy = policy
		}
	}
}

// NewOrderStore constructs an empty store.
func NewOrderStore(opts ...Option) *OrderStore {
	s := &OrderStore{
		orders: map[string]domain.Order{},
		policy: ports.PolicyReplace,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Policy reports the active put policy.
func (s *OrderStore) Policy() ports.PutPolicy {
	return s.policy
}

func (s *OrderStore) Put(ownerID string, order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.policy == ports.PolicyRejectExisting {
		if _, exists := s.orders[ownerID]; exists {
			return ports.ErrOrderExists
		}
	}
	order.OwnerID = ownerID
	s.orders[ownerID] = order
	return nil
}

func (s *OrderStore) Get(ownerID string) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[ownerID]
	return order, ok
}

func (s *OrderStore) Remove(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, ownerID)
}

// Len returns the number of pending orders.
func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// EvictCreatedBefore removes every order created before cutoff and returns them.
func (s *OrderStore) EvictCreatedBefore(cutoff time.Time) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var evicted []domain.Order
	for owner, order := range s.orders {
		if order.ExpiredAt(cutoff) {
			evicted = append(evicted, order)
			delete(s.orders, owner)
		}
	}
	return evicted
}
