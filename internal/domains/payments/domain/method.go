package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Method enumerates the payment channels a requester can choose.
type Method string

const (
	MethodPayPal Method = "paypal"
	MethodCard   Method = "card"
)

var ErrUnknownMethod = errors.New("payment method is unknown")

// ParseMethod normalizes a configured or submitted method value.
func ParseMethod(raw string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(raw)))
	switch m {
	case MethodPayPal, MethodCard:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, raw)
	}
}

// Label is the human-facing name of the method.
func (m Method) Label() string {
	switch m {
	case MethodPayPal:
		return "PayPal"
	case MethodCard:
		return "Card"
	default:
		return string(m)
	}
}

// Description is shown next to the method in the selection prompt.
func (m Method) Description() string {
	switch m {
	case MethodPayPal:
		return "Pay via PayPal (send screenshot to confirm)"
	case MethodCard:
		return "Pay by card via payment link (send screenshot to confirm)"
	default:
		return ""
	}
}

// DestinationKind tells how a requester reaches the payee.
type DestinationKind string

const (
	DestinationHandle DestinationKind = "handle"
	DestinationLink   DestinationKind = "link"
)

// Destination is where the requester sends money for a method.
type Destination struct {
	Kind  DestinationKind
	Value string
}

// DestinationKindFor maps a method to the kind of destination it needs.
func DestinationKindFor(m Method) DestinationKind {
	if m == MethodCard {
		return DestinationLink
	}
	return DestinationHandle
}

// Catalog is the ordered set of enabled methods and their configured destinations.
// An enabled method may lack a destination; that is reported at form submission.
type Catalog struct {
	methods      []Method
	destinations map[Method]Destination
}

// NewCatalog builds a catalog; duplicate methods keep their first position.
func NewCatalog(methods []Method, destinations map[Method]string) Catalog {
	c := Catalog{destinations: map[Method]Destination{}}
	seen := map[Method]bool{}
	for _, m := range methods {
		if seen[m] {
			continue
		}
		seen[m] = true
		c.methods = append(c.methods, m)
	}
	for m, value := range destinations {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		c.destinations[m] = Destination{Kind: DestinationKindFor(m), Value: value}
	}
	return c
}

// Methods returns the enabled methods in configured order.
func (c Catalog) Methods() []Method {
	return append([]Method(nil), c.methods...)
}

// Enabled reports whether m is offered to requesters.
func (c Catalog) Enabled(m Method) bool {
	for _, candidate := range c.methods {
		if candidate == m {
			return true
		}
	}
	return false
}

// Destination returns the configured destination for an enabled method.
func (c Catalog) Destination(m Method) (Destination, bool) {
	if !c.Enabled(m) {
		return Destination{}, false
	}
	d, ok := c.destinations[m]
	return d, ok
}
