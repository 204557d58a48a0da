package domain

import (
	"errors"
	"strings"
	"time"
)

// State enumerates order progression. A missing row means no active order.
type State string

const (
	StateOpen State = "open"
)

var (
	ErrEmptyOwner   = errors.New("owner id is required")
	ErrEmptyOrderID = errors.New("order id is required")
	ErrEmptyProduct = errors.New("product is required")
	ErrEmptyPrice   = errors.New("price is required")
	ErrInvalidState = errors.New("order state is invalid")
)

// Order is one in-flight request for an operator to verify a manual payment.
type Order struct {
	OwnerID   string
	OrderID   string
	Method    Method
	Product   string
	Price     string
	CreatedAt time.Time
	State     State
}

// NewOrder validates and constructs an open order. Product and price are kept
// exactly as submitted; they only have to contain something besides whitespace.
func NewOrder(ownerID, orderID string, method Method, product, price string, createdAt time.Time) (*Order, error) {
	order := &Order{
		OwnerID:   strings.TrimSpace(ownerID),
		OrderID:   strings.TrimSpace(orderID),
		Method:    method,
		Product:   product,
		Price:     price,
		CreatedAt: createdAt,
		State:     StateOpen,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.OwnerID == "" {
		return ErrEmptyOwner
	}
	if o.OrderID == "" {
		return ErrEmptyOrderID
	}
	if strings.TrimSpace(o.Product) == "" {
		return ErrEmptyProduct
	}
	if strings.TrimSpace(o.Price) == "" {
		return ErrEmptyPrice
	}
	if o.State != StateOpen {
		return ErrInvalidState
	}
	return nil
}

// ExpiredAt reports whether the order was created before cutoff.
func (o *Order) ExpiredAt(cutoff time.Time) bool {
	return o.CreatedAt.Before(cutoff)
}

// PaymentNote is the text requesters paste into the payment note so staff can match transfers.
func (o *Order) PaymentNote() string {
	return o.OrderID + " | " + o.Product + " | " + o.Price
}
