package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/paydesk/internal/domains/payments/domain"
)

type fakeInteractionSession struct {
	responses  []*discordgo.InteractionResponse
	followups  []*discordgo.WebhookParams
	respondErr error
}

func (f *fakeInteractionSession) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	if f.respondErr != nil {
		return f.respondErr
	}
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeInteractionSession) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.followups = append(f.followups, data)
	return &discordgo.Message{}, nil
}

type fakeMessageSession struct {
	channelID string
	content   string
	reference *discordgo.MessageReference
}

func (f *fakeMessageSession) ChannelMessageSendReply(channelID string, content string, reference *discordgo.MessageReference, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channelID, f.content, f.reference = channelID, content, reference
	return &discordgo.Message{}, nil
}

func TestInteractionReplier_FirstRespondsThenFollowsUp(t *testing.T) {
	session := &fakeInteractionSession{}
	replier := NewInteractionReplier(session, &discordgo.Interaction{ID: "i-1"})
	ctx := context.Background()

	require.NoError(t, replier.Reply(ctx, domain.Notice{Text: "first"}))
	require.NoError(t, replier.Reply(ctx, domain.Notice{Text: "second"}))

	require.Len(t, session.responses, 1)
	require.Equal(t, "first", session.responses[0].Data.Content)
	require.Len(t, session.followups, 1)
	require.Equal(t, "second", session.followups[0].Content)
}

func TestInteractionReplier_FailedRespondCanRetry(t *testing.T) {
	session := &fakeInteractionSession{respondErr: errors.New("unknown interaction")}
	replier := NewInteractionReplier(session, &discordgo.Interaction{ID: "i-1"})

	require.Error(t, replier.Reply(context.Background(), domain.Notice{Text: "first"}))
	session.respondErr = nil
	require.NoError(t, replier.Reply(context.Background(), domain.Notice{Text: "generic"}))
	require.Len(t, session.responses, 1)
	require.Empty(t, session.followups)
}

func TestMessageReplier_RepliesInThread(t *testing.T) {
	session := &fakeMessageSession{}
	msg := &discordgo.Message{ID: "m-1", ChannelID: "c-1", GuildID: "g-1"}
	replier := NewMessageReplier(session, msg)

	require.NoError(t, replier.Reply(context.Background(), domain.Notice{Kind: domain.NoticeAcknowledged, Text: "thanks"}))
	require.Equal(t, "c-1", session.channelID)
	require.Equal(t, "thanks", session.content)
	require.Equal(t, "m-1", session.reference.MessageID)

	err := replier.Reply(context.Background(), domain.FormPrompt{})
	require.ErrorIs(t, err, ErrUnsupportedReply)
}
