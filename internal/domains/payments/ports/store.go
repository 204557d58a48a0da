package ports

import (
	"errors"
	"time"

	"github.com/Apurer/paydesk/internal/domains/payments/domain"
)

// ErrOrderExists is returned by Put under PolicyRejectExisting when the owner already has an order.
var ErrOrderExists = errors.New("owner already has a pending order")

// PutPolicy decides what Put does when the owner already holds an order.
type PutPolicy string

const (
	// PolicyReplace overwrites the previous order without telling the caller.
	PolicyReplace PutPolicy = "replace"
	// PolicyRejectExisting keeps the previous order and returns ErrOrderExists.
	PolicyRejectExisting PutPolicy = "reject"
)

// OrderStore is the correlation table: one slot per requester identity.
// Calls never block on I/O.
type OrderStore interface {
	// Put stores the order for ownerID according to the store's PutPolicy.
	Put(ownerID string, order domain.Order) error
	// Get returns a copy of the pending order for ownerID.
	Get(ownerID string) (domain.Order, bool)
	// Remove deletes the pending order; absent owners are a no-op.
	Remove(ownerID string)
}

// Evictor is implemented by stores that support the optional expiry sweep.
type Evictor interface {
	EvictCreatedBefore(cutoff time.Time) []domain.Order
}
