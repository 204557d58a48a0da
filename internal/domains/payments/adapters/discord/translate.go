package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Apurer/paydesk/internal/domains/payments/domain"
)

// InteractionEvent converts a gateway interaction into a router event. Interaction
// types the payment flow never uses (autocomplete, ping) report false.
func InteractionEvent(i *discordgo.Interaction, eventID string, at time.Time) (domain.Event, bool) {
	if i == nil {
		return nil, false
	}
	env := domain.Envelope{EventID: eventID, OwnerID: interactionOwner(i), Timestamp: at}
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return domain.CommandInvoked{Envelope: env, CommandName: i.ApplicationCommandData().Name}, true
	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		chosen := ""
		if len(data.Values) > 0 {
			chosen = data.Values[0]
		}
		return domain.SelectionMade{Envelope: env, CorrelationID: data.CustomID, ChosenValue: chosen}, true
	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		values := textInputValues(data.Components)
		return domain.FormSubmitted{
			Envelope:      env,
			CorrelationID: data.CustomID,
			Fields: domain.FormFields{
				Product: values[ProductInputID],
				Price:   values[PriceInputID],
			},
		}, true
	default:
		return nil, false
	}
}

// MessageEvent converts a gateway message into a router event.
func MessageEvent(m *discordgo.Message, eventID string, at time.Time) domain.MessagePosted {
	event := domain.MessagePosted{
		Envelope:        domain.Envelope{EventID: eventID, Timestamp: at},
		GuildID:         m.GuildID,
		HasGuildContext: m.GuildID != "",
	}
	if m.Author != nil {
		event.OwnerID = m.Author.ID
		event.AuthorTag = m.Author.String()
		event.IsBotAuthor = m.Author.Bot
	}
	for _, att := range m.Attachments {
		if att == nil {
			continue
		}
		event.Attachments = append(event.Attachments, domain.Attachment{Name: att.Filename, URL: att.URL})
	}
	return event
}

func interactionOwner(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// textInputValues flattens modal rows into input id → value.
func textInputValues(components []discordgo.MessageComponent) map[string]string {
	values := map[string]string{}
	var walk func([]discordgo.MessageComponent)
	walk = func(list []discordgo.MessageComponent) {
		for _, c := range list {
			switch v := c.(type) {
			case *discordgo.ActionsRow:
				walk(v.Components)
			case discordgo.ActionsRow:
				walk(v.Components)
			case *discordgo.TextInput:
				values[v.CustomID] = v.Value
			case discordgo.TextInput:
				values[v.CustomID] = v.Value
			}
		}
	}
	walk(components)
	return values
}
