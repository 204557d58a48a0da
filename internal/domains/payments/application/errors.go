package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/paydesk/internal/domains/payments/domain"
)

var (
	// ErrInvalidInput signals the event violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrConfiguration signals a method without a configured destination.
	ErrConfiguration = errors.New("payment configuration error")
	// ErrUnknownEvent is returned for event variants the router does not know.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrNoReplier is returned when a reply is needed but the event carries no replier.
	ErrNoReplier = errors.New("event has no replier")
	// ErrPanic wraps a recovered panic from a handler.
	ErrPanic = errors.New("handler panicked")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyOwner) ||
		errors.Is(err, domain.ErrEmptyOrderID) ||
		errors.Is(err, domain.ErrEmptyProduct) ||
		errors.Is(err, domain.ErrEmptyPrice) ||
		errors.Is(err, domain.ErrInvalidState) ||
		errors.Is(err, domain.ErrUnknownMethod) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
