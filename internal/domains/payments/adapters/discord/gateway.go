package discord

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/Apurer/paydesk/internal/domains/payments/domain"
	"github.com/Apurer/paydesk/internal/domains/payments/ports"
)

// Intents requested from the gateway. Message content is needed to see attachments.
const Intents = discordgo.IntentGuilds | discordgo.IntentGuildMessages | discordgo.IntentMessageContent

// DefaultQueueSize bounds events waiting for the router.
const DefaultQueueSize = 64

type inbound struct {
	event   domain.Event
	replier ports.Replier
}

type lane struct {
	pending []inbound
}

// EventLoop feeds events to the router. Events from one owner are handled in
// arrival order; different owners are handled concurrently, so a slow call for
// one requester never holds up another.
type EventLoop struct {
	router ports.Router
	queue  chan inbound
	logger *slog.Logger

	mu       sync.Mutex
	lanes    map[string]*lane
	inflight sync.WaitGroup
}

// NewEventLoop builds a loop with a bounded intake queue.
func NewEventLoop(router ports.Router, size int, logger *slog.Logger) *EventLoop {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &EventLoop{
		router: router,
		queue:  make(chan inbound, size),
		logger: logger,
		lanes:  map[string]*lane{},
	}
}

// Submit enqueues an event, blocking while the queue is full. It reports false
// if ctx ended first.
func (l *EventLoop) Submit(ctx context.Context, event domain.Event, replier ports.Replier) bool {
	select {
	case l.queue <- inbound{event: event, replier: replier}:
		return true
	case <-ctx.Done():
		return false
	}
}

// Run hands queued events to per-owner lanes until ctx is done, then waits for
// in-flight handlers. Router errors end here.
func (l *EventLoop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.inflight.Wait()
			return nil
		case item := <-l.queue:
			l.dispatch(ctx, item)
		}
	}
}

func (l *EventLoop) dispatch(ctx context.Context, item inbound) {
	owner := ""
	if item.event != nil {
		owner = item.event.Meta().OwnerID
	}
	l.mu.Lock()
	if ln, busy := l.lanes[owner]; busy {
		ln.pending = append(ln.pending, item)
		l.mu.Unlock()
		return
	}
	ln := &lane{pending: []inbound{item}}
	l.lanes[owner] = ln
	l.mu.Unlock()

	l.inflight.Add(1)
	go l.drain(ctx, owner, ln)
}

// drain runs one owner's events back to back and retires the lane once it is empty.
func (l *EventLoop) drain(ctx context.Context, owner string, ln *lane) {
	defer l.inflight.Done()
	for {
		l.mu.Lock()
		if len(ln.pending) == 0 {
			delete(l.lanes, owner)
			l.mu.Unlock()
			return
		}
		item := ln.pending[0]
		ln.pending = ln.pending[1:]
		l.mu.Unlock()
		l.handle(ctx, item)
	}
}

func (l *EventLoop) handle(ctx context.Context, item inbound) {
	defer func() {
		if rec := recover(); rec != nil {
			l.logger.Error("event loop recovered from panic", slog.String("panic", fmt.Sprint(rec)))
		}
	}()
	_, _ = l.router.Handle(ctx, item.event, item.replier)
}

// Gateway owns the Discord session and translates its callbacks into loop events.
type Gateway struct {
	session   *discordgo.Session
	loop      *EventLoop
	logger    *slog.Logger
	connected atomic.Bool
	newID     func() string
	now       func() time.Time
}

// NewSession creates an unopened bot session with the required intents.
func NewSession(token string) (*discordgo.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("discord token is empty")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = Intents
	return session, nil
}

// NewGateway binds a session to the loop. The session is opened by Run.
func NewGateway(session *discordgo.Session, loop *EventLoop, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Gateway{
		session: session,
		loop:    loop,
		logger:  logger,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// Session exposes the underlying session for the channel and command adapters.
func (g *Gateway) Session() *discordgo.Session {
	return g.session
}

// Connected reports whether the gateway websocket is ready.
func (g *Gateway) Connected() bool {
	return g.connected.Load()
}

// Run opens the session, forwards events until ctx is done, then closes it.
func (g *Gateway) Run(ctx context.Context) error {
	removers := []func(){
		g.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
			g.connected.Store(true)
			user := ""
			if r.User != nil {
				user = r.User.String()
			}
			g.logger.Info("discord gateway ready", slog.String("user", user), slog.Int("guilds", len(r.Guilds)))
		}),
		g.session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) {
			g.connected.Store(false)
			g.logger.Warn("discord gateway disconnected")
		}),
		g.session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Resumed) {
			g.connected.Store(true)
		}),
		g.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			g.onInteraction(ctx, s, i)
		}),
		g.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
			g.onMessage(ctx, s, m)
		}),
	}
	defer func() {
		for _, remove := range removers {
			remove()
		}
	}()

	if err := g.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	<-ctx.Done()
	g.connected.Store(false)
	if err := g.session.Close(); err != nil {
		g.logger.Warn("failed to close discord session", slog.String("error", err.Error()))
	}
	return nil
}

func (g *Gateway) onInteraction(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	event, ok := InteractionEvent(i.Interaction, g.newID(), g.now())
	if !ok {
		return
	}
	if !g.loop.Submit(ctx, event, NewInteractionReplier(s, i.Interaction)) {
		g.logger.Warn("dropped interaction during shutdown", slog.String("event.id", event.Meta().EventID))
	}
}

func (g *Gateway) onMessage(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Message == nil {
		return
	}
	event := MessageEvent(m.Message, g.newID(), g.now())
	if !g.loop.Submit(ctx, event, NewMessageReplier(s, m.Message)) {
		g.logger.Warn("dropped message during shutdown", slog.String("event.id", event.EventID))
	}
}
