package discord

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/paydesk/internal/domains/payments/domain"
	"github.com/Apurer/paydesk/internal/domains/payments/ports"
)

type orderingRouter struct {
	mu     sync.Mutex
	seen   []string
	active int
	maxPar int
	done   chan struct{}
	want   int
}

func (r *orderingRouter) Handle(_ context.Context, event domain.Event, _ ports.Replier) (ports.Outcome, error) {
	r.mu.Lock()
	r.active++
	if r.active > r.maxPar {
		r.maxPar = r.active
	}
	r.mu.Unlock()

	time.Sleep(time.Millisecond)
	if event.Meta().EventID == "boom" {
		r.finish(event)
		panic("handler bug")
	}
	r.finish(event)
	return ports.OutcomeIgnored, nil
}

func (r *orderingRouter) finish(event domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active--
	r.seen = append(r.seen, event.Meta().EventID)
	if len(r.seen) == r.want {
		close(r.done)
	}
}

func TestEventLoop_SameOwnerHandledInOrder(t *testing.T) {
	router := &orderingRouter{done: make(chan struct{}), want: 4}
	loop := NewEventLoop(router, 8, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, id := range []string{"e1", "e2", "boom", "e3"} {
		require.True(t, loop.Submit(ctx, domain.CommandInvoked{Envelope: domain.Envelope{EventID: id}}, nil))
	}
	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()

	select {
	case <-router.done:
	case <-time.After(2 * time.Second):
		t.Fatal("events were not handled")
	}
	cancel()
	require.NoError(t, <-errCh)

	router.mu.Lock()
	defer router.mu.Unlock()
	require.Equal(t, []string{"e1", "e2", "boom", "e3"}, router.seen)
	require.Equal(t, 1, router.maxPar)
}

type blockingRouter struct {
	release chan struct{}
	handled chan string
}

func (r *blockingRouter) Handle(_ context.Context, event domain.Event, _ ports.Replier) (ports.Outcome, error) {
	if event.Meta().OwnerID == "slow" {
		<-r.release
	}
	r.handled <- event.Meta().EventID
	return ports.OutcomeIgnored, nil
}

func waitHandled(t *testing.T, handled <-chan string) string {
	t.Helper()
	select {
	case id := <-handled:
		return id
	case <-time.After(time.Second):
		t.Fatal("event was not handled")
		return ""
	}
}

func TestEventLoop_HungOwnerDoesNotBlockOthers(t *testing.T) {
	router := &blockingRouter{release: make(chan struct{}), handled: make(chan string, 4)}
	loop := NewEventLoop(router, 4, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slow := domain.Envelope{EventID: "slow-1", OwnerID: "slow"}
	require.True(t, loop.Submit(ctx, domain.MessagePosted{Envelope: slow}, nil))
	slow.EventID = "slow-2"
	require.True(t, loop.Submit(ctx, domain.CommandInvoked{Envelope: slow}, nil))
	require.True(t, loop.Submit(ctx, domain.CommandInvoked{Envelope: domain.Envelope{EventID: "other-1", OwnerID: "other"}}, nil))

	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()

	require.Equal(t, "other-1", waitHandled(t, router.handled))

	close(router.release)
	require.Equal(t, "slow-1", waitHandled(t, router.handled))
	require.Equal(t, "slow-2", waitHandled(t, router.handled))

	cancel()
	require.NoError(t, <-errCh)
}

func TestEventLoop_SubmitStopsWithContext(t *testing.T) {
	loop := NewEventLoop(&orderingRouter{done: make(chan struct{})}, 1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, loop.Submit(ctx, domain.CommandInvoked{}, nil))
	cancel()
	require.False(t, loop.Submit(ctx, domain.CommandInvoked{}, nil))
}

func TestNewSession(t *testing.T) {
	_, err := NewSession("  ")
	require.Error(t, err)

	session, err := NewSession("token")
	require.NoError(t, err)
	require.Equal(t, "Bot token", session.Token)
	require.Equal(t, Intents, session.Identify.Intents)

	gateway := NewGateway(session, NewEventLoop(&orderingRouter{}, 0, nil), nil)
	require.False(t, gateway.Connected())
	require.Same(t, session, gateway.Session())
}
