package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	paymentsdiscord "github.com/Apurer/paydesk/internal/domains/payments/adapters/discord"
	paymentsids "github.com/Apurer/paydesk/internal/domains/payments/adapters/ids"
	paymentsmemory "github.com/Apurer/paydesk/internal/domains/payments/adapters/memory"
	paymentsobs "github.com/Apurer/paydesk/internal/domains/payments/adapters/observability"
	paymentsapp "github.com/Apurer/paydesk/internal/domains/payments/application"
	"github.com/Apurer/paydesk/internal/platform/health"
	platformobservability "github.com/Apurer/paydesk/internal/platform/observability"
)

const serviceName = "paydesk-bot"

// Version is stamped at build time with -ldflags.
var Version = "dev"

// Run boots the payment desk bot: gateway, event loop, expiry sweep, and liveness endpoint.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.ValidateServe(); err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName: serviceName,
		Version:     Version,
		Environment: cfg.Environment,
		LogLevel:    cfg.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	// Validated above.
	catalog, _ := cfg.Catalog()
	policy, _ := cfg.Policy()

	session, err := paymentsdiscord.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}
	store := paymentsmemory.NewOrderStore(paymentsmemory.WithPolicy(policy))
	dispatcher := paymentsapp.NewDispatcher(paymentsdiscord.NewOperatorChannel(session, cfg.StaffChannelID), cfg.AckText)
	coreRouter := paymentsapp.NewRouter(store, paymentsids.New(cfg.IDStrategy), catalog, dispatcher)
	router := paymentsobs.New(
		coreRouter,
		paymentsobs.WithLogger(logger),
		paymentsobs.WithTracer(instruments.Tracer("internal.payments.application")),
		paymentsobs.WithMeter(instruments.Meter("internal.payments.application")),
	)
	loop := paymentsdiscord.NewEventLoop(router, paymentsdiscord.DefaultQueueSize, logger)
	gateway := paymentsdiscord.NewGateway(session, loop, logger)

	sweeper := paymentsapp.NewSweeper(store, cfg.OrderTTL, cfg.SweepInterval,
		paymentsapp.WithEvictHook(paymentsobs.NewEvictionRecorder(logger, instruments.Meter("internal.payments.sweeper"))),
	)
	liveness := health.NewServer(cfg.Addr(), health.NewRouter(serviceName, probe{gateway: gateway, store: store}), logger)

	logger.Info("payment desk starting",
		slog.Any("methods", catalog.Methods()),
		slog.String("policy", string(policy)),
		slog.Duration("order_ttl", cfg.OrderTTL),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(gctx) })
	g.Go(func() error { return gateway.Run(gctx) })
	g.Go(func() error { return sweeper.Run(gctx) })
	g.Go(func() error { return liveness.Run(gctx) })
	if err := g.Wait(); err != nil {
		logger.Error("payment desk exited", slog.String("error", err.Error()))
		return err
	}
	logger.Info("payment desk stopped")
	return nil
}

// RegisterCommands publishes the slash command to the configured guild.
func RegisterCommands(ctx context.Context, cfg Config, logger *slog.Logger) error {
	if err := cfg.ValidateRegister(); err != nil {
		return err
	}
	session, err := paymentsdiscord.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}
	cmd, err := paymentsdiscord.RegisterCommands(ctx, session, cfg.ClientID, cfg.GuildID)
	if err != nil {
		return err
	}
	logger.Info("slash command registered", slog.String("name", cmd.Name), slog.String("guild", cfg.GuildID))
	return nil
}

type probe struct {
	gateway *paymentsdiscord.Gateway
	store   *paymentsmemory.OrderStore
}

func (p probe) Connected() bool    { return p.gateway.Connected() }
func (p probe) PendingOrders() int { return p.store.Len() }
