package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/paydesk/internal/domains/payments/domain"
	"github.com/Apurer/paydesk/internal/domains/payments/ports"
)

// DefaultAckText is sent to the requester once staff have been notified.
const DefaultAckText = "✅ Screenshot received. Our staff will verify your payment shortly."

// Dispatcher emits the staff notification and the requester acknowledgement.
type Dispatcher struct {
	channel ports.OperatorChannel
	ackText string
}

// NewDispatcher wires the operator channel. An empty ackText selects DefaultAckText.
func NewDispatcher(channel ports.OperatorChannel, ackText string) *Dispatcher {
	if ackText == "" {
		ackText = DefaultAckText
	}
	return &Dispatcher{channel: channel, ackText: ackText}
}

// Resolve looks up the operator channel for the guild the proof was posted in.
func (d *Dispatcher) Resolve(ctx context.Context, guildID string) (ports.ChannelRef, error) {
	if d == nil || d.channel == nil {
		return ports.ChannelRef{}, fmt.Errorf("%w: dispatcher not configured", ports.ErrChannelUnavailable)
	}
	ref, err := d.channel.Resolve(ctx, guildID)
	if err != nil {
		if errors.Is(err, ports.ErrChannelUnavailable) {
			return ports.ChannelRef{}, err
		}
		return ports.ChannelRef{}, fmt.Errorf("%w: %w", ports.ErrChannelUnavailable, err)
	}
	return ref, nil
}

// Notify sends the structured report to staff. It is not retried.
func (d *Dispatcher) Notify(ctx context.Context, channel ports.ChannelRef, n domain.Notification) error {
	if err := d.channel.Send(ctx, channel, n); err != nil {
		return fmt.Errorf("send notification for order %s: %w", n.OrderID, err)
	}
	return nil
}

// Acknowledge confirms receipt to the requester.
func (d *Dispatcher) Acknowledge(ctx context.Context, replier ports.Replier) error {
	if replier == nil {
		return ErrNoReplier
	}
	if err := replier.Reply(ctx, domain.Notice{Kind: domain.NoticeAcknowledged, Text: d.ackText}); err != nil {
		return fmt.Errorf("acknowledge requester: %w", err)
	}
	return nil
}
