package ports

import (
	"context"

	"github.com/Apurer/paydesk/internal/domains/payments/domain"
)

// Outcome summarizes what the router did with an event.
type Outcome string

const (
	OutcomeIgnored     Outcome = "ignored"
	OutcomePrompted    Outcome = "prompted"
	OutcomeOrderOpened Outcome = "order_opened"
	OutcomeConfirmed   Outcome = "confirmed"
	OutcomeConfigError Outcome = "config_error"
	OutcomeDuplicate   Outcome = "duplicate"
	OutcomeAborted     Outcome = "aborted"
	OutcomeFailed      Outcome = "failed"
)

// Router handles inbound events (inbound/driving port). The returned error is
// informational: the router has already replied to the requester where possible.
type Router interface {
	Handle(ctx context.Context, event domain.Event, replier Replier) (Outcome, error)
}
