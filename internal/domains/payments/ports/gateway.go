package ports

import (
	"context"
	"errors"

	"github.com/Apurer/paydesk/internal/domains/payments/domain"
)

// ErrChannelUnavailable signals the operator channel could not be resolved.
var ErrChannelUnavailable = errors.New("operator channel unavailable")

// Replier answers the requester that produced the event being handled.
type Replier interface {
	Reply(ctx context.Context, reply domain.Reply) error
}

// ChannelRef identifies a resolved operator channel.
type ChannelRef struct {
	ID      string
	GuildID string
	Name    string
}

// OperatorChannel resolves and writes to the fixed staff channel.
type OperatorChannel interface {
	Resolve(ctx context.Context, guildID string) (ChannelRef, error)
	Send(ctx context.Context, channel ChannelRef, notification domain.Notification) error
}
