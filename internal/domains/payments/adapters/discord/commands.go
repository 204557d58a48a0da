package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Apurer/paydesk/internal/domains/payments/application"
)

// CommandRegistrar is the subset of *discordgo.Session used to register slash commands.
type CommandRegistrar interface {
	ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
}

// PaymentCommand describes the slash command that starts the flow.
func PaymentCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        application.CommandPayment,
		Description: "Start a payment flow",
	}
}

// RegisterCommands creates the payment command in one guild.
func RegisterCommands(ctx context.Context, registrar CommandRegistrar, appID, guildID string) (*discordgo.ApplicationCommand, error) {
	appID = strings.TrimSpace(appID)
	guildID = strings.TrimSpace(guildID)
	if appID == "" || guildID == "" {
		return nil, errors.New("application id and guild id are required to register commands")
	}
	cmd, err := registrar.ApplicationCommandCreate(appID, guildID, PaymentCommand(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("register /%s: %w", application.CommandPayment, err)
	}
	return cmd, nil
}
