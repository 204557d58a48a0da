package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Apurer/paydesk/internal/domains/payments/domain"
	"github.com/Apurer/paydesk/internal/domains/payments/ports"
)

const (
	// CommandPayment starts the payment flow.
	CommandPayment = "payment"
	// SelectionCorrelationID tags the method selection control.
	SelectionCorrelationID = "payment_method_select"
	// FormCorrelationPrefix tags order forms; the method follows the prefix.
	FormCorrelationPrefix = "payment_modal:"
	// GenericFailureText answers any failure without a more specific reply.
	GenericFailureText = "❌ Something went wrong."
)

// FormCorrelationID builds the form tag for a method.
func FormCorrelationID(m domain.Method) string {
	return FormCorrelationPrefix + string(m)
}

// ConfigurationErrorText is shown when a method has no destination.
func ConfigurationErrorText(m domain.Method) string {
	if m == "" {
		return "❌ This payment method is not configured. Please contact staff."
	}
	return fmt.Sprintf("❌ %s payments are not configured. Please contact staff.", m.Label())
}

// DuplicateOrderText is shown under the reject policy when an order is already pending.
func DuplicateOrderText(existing domain.Order) string {
	return fmt.Sprintf("⏳ You already have a pending order (`%s`). Send your payment screenshot to confirm it first.", existing.OrderID)
}

// Router drives the per-owner order state machine from inbound events.
type Router struct {
	store      ports.OrderStore
	ids        ports.IdentifierGenerator
	catalog    domain.Catalog
	dispatcher *Dispatcher
	now        func() time.Time
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) RouterOption {
	return func(r *Router) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRouter wires the router with its collaborators.
func NewRouter(store ports.OrderStore, ids ports.IdentifierGenerator, catalog domain.Catalog, dispatcher *Dispatcher, opts ...RouterOption) *Router {
	r := &Router{
		store:      store,
		ids:        ids,
		catalog:    catalog,
		dispatcher: dispatcher,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Handle routes one event. Nothing panics past this call; failures are answered
// with a generic reply where the event supports one and returned for logging.
func (r *Router) Handle(ctx context.Context, event domain.Event, replier ports.Replier) (outcome ports.Outcome, err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		outcome, err = ports.OutcomeFailed, fmt.Errorf("%w: %v", ErrPanic, rec)
		if _, isMessage := event.(domain.MessagePosted); !isMessage {
			_, err = r.fail(ctx, replier, err)
		}
	}()

	switch e := event.(type) {
	case domain.CommandInvoked:
		return r.handleCommand(ctx, e, replier)
	case domain.SelectionMade:
		return r.handleSelection(ctx, e, replier)
	case domain.FormSubmitted:
		return r.handleForm(ctx, e, replier)
	case domain.MessagePosted:
		return r.handleMessage(ctx, e, replier)
	default:
		return ports.OutcomeIgnored, fmt.Errorf("%w: %T", ErrUnknownEvent, event)
	}
}

func (r *Router) handleCommand(ctx context.Context, e domain.CommandInvoked, replier ports.Replier) (ports.Outcome, error) {
	if e.CommandName != CommandPayment {
		return ports.OutcomeIgnored, nil
	}
	methods := r.catalog.Methods()
	var prompt domain.Reply
	switch len(methods) {
	case 0:
		return r.fail(ctx, replier, fmt.Errorf("%w: no payment methods enabled", ErrConfiguration))
	case 1:
		prompt = domain.FormPrompt{CorrelationID: FormCorrelationID(methods[0]), Method: methods[0]}
	default:
		prompt = domain.MethodPrompt{CorrelationID: SelectionCorrelationID, Methods: methods}
	}
	if err := reply(ctx, replier, prompt); err != nil {
		return r.fail(ctx, replier, err)
	}
	return ports.OutcomePrompted, nil
}

func (r *Router) handleSelection(ctx context.Context, e domain.SelectionMade, replier ports.Replier) (ports.Outcome, error) {
	if e.CorrelationID != SelectionCorrelationID {
		return ports.OutcomeIgnored, nil
	}
	method, err := domain.ParseMethod(e.ChosenValue)
	if err != nil {
		return r.fail(ctx, replier, mapError(err))
	}
	if !r.catalog.Enabled(method) {
		return r.fail(ctx, replier, fmt.Errorf("%w: method %q is not enabled", ErrInvalidInput, method))
	}
	if err := reply(ctx, replier, domain.FormPrompt{CorrelationID: FormCorrelationID(method), Method: method}); err != nil {
		return r.fail(ctx, replier, err)
	}
	return ports.OutcomePrompted, nil
}

func (r *Router) handleForm(ctx context.Context, e domain.FormSubmitted, replier ports.Replier) (ports.Outcome, error) {
	raw, ok := strings.CutPrefix(e.CorrelationID, FormCorrelationPrefix)
	if !ok {
		return ports.OutcomeIgnored, nil
	}
	method, parseErr := domain.ParseMethod(raw)
	destination, configured := r.catalog.Destination(method)
	if parseErr != nil || !configured {
		cause := fmt.Errorf("%w: no destination for method %q", ErrConfiguration, raw)
		notice := domain.Notice{Kind: domain.NoticeConfiguration, Text: ConfigurationErrorText(method)}
		if err := reply(ctx, replier, notice); err != nil {
			return ports.OutcomeConfigError, errors.Join(cause, err)
		}
		return ports.OutcomeConfigError, cause
	}

	order, err := domain.NewOrder(e.OwnerID, r.ids.Next(), method, e.Fields.Product, e.Fields.Price, r.now())
	if err != nil {
		return r.fail(ctx, replier, mapError(err))
	}
	if err := r.store.Put(order.OwnerID, *order); err != nil {
		if errors.Is(err, ports.ErrOrderExists) {
			existing, _ := r.store.Get(order.OwnerID)
			notice := domain.Notice{Kind: domain.NoticeFailure, Text: DuplicateOrderText(existing)}
			if rerr := reply(ctx, replier, notice); rerr != nil {
				return ports.OutcomeDuplicate, errors.Join(err, rerr)
			}
			return ports.OutcomeDuplicate, nil
		}
		return r.fail(ctx, replier, err)
	}
	if err := reply(ctx, replier, domain.PaymentInstructions{Order: *order, Destination: destination}); err != nil {
		// The order stays open; the requester can still confirm with a screenshot.
		_, err = r.fail(ctx, replier, err)
		return ports.OutcomeOrderOpened, err
	}
	return ports.OutcomeOrderOpened, nil
}

func (r *Router) handleMessage(ctx context.Context, e domain.MessagePosted, replier ports.Replier) (ports.Outcome, error) {
	if !e.HasGuildContext || e.IsBotAuthor {
		return ports.OutcomeIgnored, nil
	}
	order, ok := r.store.Get(e.OwnerID)
	if !ok {
		return ports.OutcomeIgnored, nil
	}
	proof, ok := domain.ClassifyProof(e.Attachments)
	if !ok {
		return ports.OutcomeIgnored, nil
	}

	channel, err := r.dispatcher.Resolve(ctx, e.GuildID)
	if err != nil {
		return ports.OutcomeAborted, err
	}
	notification := domain.NewNotification(order, e.AuthorTag, proof, r.now())
	if err := r.dispatcher.Notify(ctx, channel, notification); err != nil {
		return ports.OutcomeAborted, err
	}
	r.store.Remove(e.OwnerID)
	if err := r.dispatcher.Acknowledge(ctx, replier); err != nil {
		return ports.OutcomeConfirmed, err
	}
	return ports.OutcomeConfirmed, nil
}

// fail attempts the generic failure reply; if that also fails the attempt is abandoned.
func (r *Router) fail(ctx context.Context, replier ports.Replier, cause error) (ports.Outcome, error) {
	notice := domain.Notice{Kind: domain.NoticeFailure, Text: GenericFailureText}
	if err := reply(ctx, replier, notice); err != nil {
		return ports.OutcomeFailed, errors.Join(cause, err)
	}
	return ports.OutcomeFailed, cause
}

func reply(ctx context.Context, replier ports.Replier, msg domain.Reply) error {
	if replier == nil {
		return ErrNoReplier
	}
	return replier.Reply(ctx, msg)
}

var _ ports.Router = (*Router)(nil)
