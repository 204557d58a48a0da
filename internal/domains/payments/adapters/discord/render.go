package discord

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Apurer/paydesk/internal/domains/payments/domain"
)

// Component ids of the order form inputs.
const (
	ProductInputID = "product_name"
	PriceInputID   = "product_price"
)

// ErrUnsupportedReply is returned when a reply cannot be rendered for the target.
var ErrUnsupportedReply = errors.New("reply type not supported here")

const methodPromptText = "Select a payment method.\n✅ After payment, **send a screenshot to confirm**."

// RenderInteractionResponse turns a router reply into the first response to an interaction.
func RenderInteractionResponse(reply domain.Reply) (*discordgo.InteractionResponse, error) {
	switch r := reply.(type) {
	case domain.MethodPrompt:
		return &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:    methodPromptText,
				Flags:      discordgo.MessageFlagsEphemeral,
				Components: []discordgo.MessageComponent{methodSelect(r)},
			},
		}, nil
	case domain.FormPrompt:
		return &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseModal,
			Data: &discordgo.InteractionResponseData{
				CustomID:   r.CorrelationID,
				Title:      "Order details",
				Components: orderForm(),
			},
		}, nil
	case domain.PaymentInstructions:
		return &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("✅ Order created! Follow the %s instructions below.", r.Order.Method.Label()),
				Embeds:  []*discordgo.MessageEmbed{instructionsEmbed(r)},
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		}, nil
	case domain.Notice:
		return &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: r.Text,
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedReply, reply)
	}
}

// RenderFollowup renders a reply sent after the interaction was already answered.
// Forms cannot be sent as follow-ups.
func RenderFollowup(reply domain.Reply) (*discordgo.WebhookParams, error) {
	if _, isForm := reply.(domain.FormPrompt); isForm {
		return nil, fmt.Errorf("%w: form as follow-up", ErrUnsupportedReply)
	}
	resp, err := RenderInteractionResponse(reply)
	if err != nil {
		return nil, err
	}
	return &discordgo.WebhookParams{
		Content:    resp.Data.Content,
		Components: resp.Data.Components,
		Embeds:     resp.Data.Embeds,
		Flags:      resp.Data.Flags,
	}, nil
}

// RenderNotification builds the staff channel message for a submitted proof.
func RenderNotification(n domain.Notification) *discordgo.MessageSend {
	at := n.SubmittedAt
	if at.IsZero() {
		at = time.Now()
	}
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("New %s Payment Screenshot", n.Method.Label()),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("%s (%s)", fallback(n.RequesterTag, "unknown"), n.RequesterID)},
			{Name: "Order ID", Value: n.OrderID, Inline: true},
			{Name: "Method", Value: n.Method.Label(), Inline: true},
			{Name: "Product", Value: n.Product},
			{Name: "Price", Value: n.Price},
			{Name: "Screenshot URL", Value: fallback(n.ProofURL, n.ProofName)},
		},
		Timestamp: at.UTC().Format(time.RFC3339),
	}
	if n.ProofURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: n.ProofURL}
	}
	return &discordgo.MessageSend{
		Content: "🧾 Payment proof submitted:",
		Embeds:  []*discordgo.MessageEmbed{embed},
	}
}

func methodSelect(prompt domain.MethodPrompt) discordgo.ActionsRow {
	options := make([]discordgo.SelectMenuOption, 0, len(prompt.Methods))
	for _, m := range prompt.Methods {
		options = append(options, discordgo.SelectMenuOption{
			Label:       m.Label(),
			Value:       string(m),
			Description: m.Description(),
		})
	}
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    prompt.CorrelationID,
			Placeholder: "Choose a payment method...",
			Options:     options,
		},
	}}
}

func orderForm() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    ProductInputID,
				Label:       "What product are you buying?",
				Style:       discordgo.TextInputShort,
				Placeholder: "Example: VIP 1 month",
				Required:    true,
			},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    PriceInputID,
				Label:       "Price (include currency)",
				Style:       discordgo.TextInputShort,
				Placeholder: "Example: 9.99 EUR",
				Required:    true,
			},
		}},
	}
}

func instructionsEmbed(r domain.PaymentInstructions) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s Payment Instructions", r.Order.Method.Label()),
		Description: strings.Join(instructionSteps(r), "\n"),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Order ID", Value: r.Order.OrderID, Inline: true},
			{Name: "Product", Value: r.Order.Product},
			{Name: "Price", Value: r.Order.Price},
		},
	}
}

func instructionSteps(r domain.PaymentInstructions) []string {
	note := fmt.Sprintf("`%s`", r.Order.PaymentNote())
	if r.Destination.Kind == domain.DestinationLink {
		return []string{
			fmt.Sprintf("**1) Open the payment link:** %s", r.Destination.Value),
			fmt.Sprintf("**2) Pay exactly:** **%s**", r.Order.Price),
			"",
			"**3) In the payment reference/note, paste this exactly:**",
			note,
			"",
			"✅ **After payment, send a screenshot to confirm.**",
		}
	}
	return []string{
		fmt.Sprintf("**1) Open %s → Send**", r.Order.Method.Label()),
		fmt.Sprintf("**2) Send to:** **%s**", r.Destination.Value),
		"",
		fmt.Sprintf("**3) In %s note/message, paste this exactly:**", r.Order.Method.Label()),
		note,
		"",
		"✅ **After payment, send a screenshot to confirm.**",
	}
}

func fallback(value, alt string) string {
	if strings.TrimSpace(value) == "" {
		return alt
	}
	return value
}
