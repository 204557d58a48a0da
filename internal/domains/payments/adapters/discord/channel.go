package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Apurer/paydesk/internal/domains/payments/domain"
	"github.com/Apurer/paydesk/internal/domains/payments/ports"
)

// ChannelSession is the subset of *discordgo.Session used for the staff channel.
type ChannelSession interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ ports.OperatorChannel = (*OperatorChannel)(nil)

// OperatorChannel posts proof notifications to the fixed staff channel.
type OperatorChannel struct {
	session   ChannelSession
	channelID string
}

// NewOperatorChannel wires the staff channel id.
func NewOperatorChannel(session ChannelSession, channelID string) *OperatorChannel {
	return &OperatorChannel{session: session, channelID: strings.TrimSpace(channelID)}
}

// Resolve fetches the staff channel and checks it belongs to the guild the proof came from.
func (c *OperatorChannel) Resolve(ctx context.Context, guildID string) (ports.ChannelRef, error) {
	if c == nil || c.session == nil || c.channelID == "" {
		return ports.ChannelRef{}, fmt.Errorf("%w: staff channel not configured", ports.ErrChannelUnavailable)
	}
	ch, err := c.session.Channel(c.channelID, discordgo.WithContext(ctx))
	if err != nil {
		return ports.ChannelRef{}, fmt.Errorf("%w: fetch %s: %w", ports.ErrChannelUnavailable, c.channelID, err)
	}
	if ch == nil {
		return ports.ChannelRef{}, fmt.Errorf("%w: %s not found", ports.ErrChannelUnavailable, c.channelID)
	}
	if guildID != "" && ch.GuildID != guildID {
		return ports.ChannelRef{}, fmt.Errorf("%w: %s is not in guild %s", ports.ErrChannelUnavailable, c.channelID, guildID)
	}
	return ports.ChannelRef{ID: ch.ID, GuildID: ch.GuildID, Name: ch.Name}, nil
}

func (c *OperatorChannel) Send(ctx context.Context, channel ports.ChannelRef, n domain.Notification) error {
	if channel.ID == "" {
		return errors.New("operator channel reference is empty")
	}
	if _, err := c.session.ChannelMessageSendComplex(channel.ID, RenderNotification(n), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("post to %s: %w", channel.ID, err)
	}
	return nil
}
