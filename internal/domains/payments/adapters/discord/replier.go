package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/Apurer/paydesk/internal/domains/payments/domain"
	"github.com/Apurer/paydesk/internal/domains/payments/ports"
)

// InteractionSession is the subset of *discordgo.Session used to answer interactions.
type InteractionSession interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// MessageSession is the subset of *discordgo.Session used to answer chat messages.
type MessageSession interface {
	ChannelMessageSendReply(channelID string, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var (
	_ ports.Replier = (*InteractionReplier)(nil)
	_ ports.Replier = (*MessageReplier)(nil)
)

// InteractionReplier answers one interaction. The first reply is the interaction
// response; later replies go out as ephemeral follow-ups.
type InteractionReplier struct {
	session     InteractionSession
	interaction *discordgo.Interaction

	mu        sync.Mutex
	responded bool
}

// NewInteractionReplier binds a replier to an interaction.
func NewInteractionReplier(session InteractionSession, interaction *discordgo.Interaction) *InteractionReplier {
	return &InteractionReplier{session: session, interaction: interaction}
}

func (r *InteractionReplier) Reply(ctx context.Context, reply domain.Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.responded {
		params, err := RenderFollowup(reply)
		if err != nil {
			return err
		}
		if _, err := r.session.FollowupMessageCreate(r.interaction, false, params, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("interaction follow-up: %w", err)
		}
		return nil
	}
	resp, err := RenderInteractionResponse(reply)
	if err != nil {
		return err
	}
	if err := r.session.InteractionRespond(r.interaction, resp, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("interaction respond: %w", err)
	}
	r.responded = true
	return nil
}

// MessageReplier answers a chat message with a threaded reply.
type MessageReplier struct {
	session MessageSession
	message *discordgo.Message
}

// NewMessageReplier binds a replier to a message.
func NewMessageReplier(session MessageSession, message *discordgo.Message) *MessageReplier {
	return &MessageReplier{session: session, message: message}
}

func (r *MessageReplier) Reply(ctx context.Context, reply domain.Reply) error {
	notice, ok := reply.(domain.Notice)
	if !ok {
		return fmt.Errorf("%w: %T as message reply", ErrUnsupportedReply, reply)
	}
	if _, err := r.session.ChannelMessageSendReply(r.message.ChannelID, notice.Text, r.message.Reference(), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("message reply: %w", err)
	}
	return nil
}
