package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Apurer/paydesk/internal/app/bot"
	platformobservability "github.com/Apurer/paydesk/internal/platform/observability"
)

var envFile string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "paydesk",
		Short:         "Discord payment desk bot",
		Long:          "paydesk collects payment orders through a slash command and forwards screenshot proofs to a staff channel.",
		RunE:          runServe, // serve is the default action
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       bot.Version,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Connect to the gateway and handle payment flows",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "register-commands",
		Short: "Register the /payment slash command in GUILD_ID",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := bot.LoadConfig(envFile)
			if err != nil {
				return err
			}
			logger := platformobservability.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			return bot.RegisterCommands(cmd.Context(), cfg, logger)
		},
	})
	return root
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := bot.LoadConfig(envFile)
	if err != nil {
		return err
	}
	return bot.Run(cmd.Context(), cfg)
}
