package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	paymentsdomain "github.com/Apurer/paydesk/internal/domains/payments/domain"
	paymentsports "github.com/Apurer/paydesk/internal/domains/payments/ports"
)

const tracerName = "github.com/Apurer/paydesk/internal/domains/payments/adapters/observability/router"

// Router decorates the payments router with tracing, logging, and metrics. It is
// the outer boundary: errors are recorded here and never passed further.
type Router struct {
	inner   paymentsports.Router
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics routerMetrics
}

type Option func(*Router)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(r *Router) {
		r.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(r *Router) {
		r.metrics = newRouterMetrics(m)
	}
}

// New wraps the core router.
func New(inner paymentsports.Router, opts ...Option) *Router {
	r := &Router{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newRouterMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.tracer == nil {
		r.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return r
}

func (r *Router) Handle(ctx context.Context, event paymentsdomain.Event, replier paymentsports.Replier) (paymentsports.Outcome, error) {
	attrs := eventAttrs(event)
	ctx, span := r.tracer.Start(ctx, "PaymentsRouter.Handle", trace.WithAttributes(attrs...))
	defer span.End()

	outcome, err := r.inner.Handle(ctx, event, replier)
	span.SetAttributes(attribute.String("outcome", string(outcome)))
	r.metrics.recordEvent(ctx, event, outcome)

	logAttrs := eventLogAttrs(event, outcome)
	switch {
	case err != nil:
		r.handleError(ctx, span, err, "event handling failed", logAttrs...)
	case outcome == paymentsports.OutcomeIgnored:
		r.log(ctx, slog.LevelDebug, "event ignored", logAttrs...)
	default:
		r.log(ctx, slog.LevelInfo, "event handled", logAttrs...)
	}
	return outcome, err
}

func (r *Router) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if r.logger == nil {
		return
	}
	r.logger.LogAttrs(ctx, level, msg, attrs...)
}

func (r *Router) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	r.log(ctx, slog.LevelError, msg, attrs...)
}

func eventAttrs(event paymentsdomain.Event) []attribute.KeyValue {
	if event == nil {
		return nil
	}
	meta := event.Meta()
	return []attribute.KeyValue{
		attribute.String("event.kind", string(event.Kind())),
		attribute.String("event.id", meta.EventID),
		attribute.String("owner.id", meta.OwnerID),
	}
}

func eventLogAttrs(event paymentsdomain.Event, outcome paymentsports.Outcome) []slog.Attr {
	attrs := []slog.Attr{slog.String("outcome", string(outcome))}
	if event == nil {
		return attrs
	}
	meta := event.Meta()
	return append(attrs,
		slog.String("event.kind", string(event.Kind())),
		slog.String("event.id", meta.EventID),
		slog.String("owner.id", meta.OwnerID),
	)
}

type routerMetrics struct {
	events          metric.Int64Counter
	ordersOpened    metric.Int64Counter
	ordersConfirmed metric.Int64Counter
}

func newRouterMetrics(m metric.Meter) routerMetrics {
	if m == nil {
		return routerMetrics{}
	}
	events, _ := m.Int64Counter("payments.router.events", metric.WithDescription("Inbound events handled, by kind and outcome"))
	opened, _ := m.Int64Counter("payments.orders.opened", metric.WithDescription("Orders opened from form submissions"))
	confirmed, _ := m.Int64Counter("payments.orders.confirmed", metric.WithDescription("Orders confirmed with proof of payment"))
	return routerMetrics{events: events, ordersOpened: opened, ordersConfirmed: confirmed}
}

func (m routerMetrics) recordEvent(ctx context.Context, event paymentsdomain.Event, outcome paymentsports.Outcome) {
	kind := "unknown"
	if event != nil {
		kind = string(event.Kind())
	}
	if m.events != nil {
		m.events.Add(ctx, 1, metric.WithAttributes(
			attribute.String("event.kind", kind),
			attribute.String("outcome", string(outcome)),
		))
	}
	switch outcome {
	case paymentsports.OutcomeOrderOpened:
		if m.ordersOpened != nil {
			m.ordersOpened.Add(ctx, 1)
		}
	case paymentsports.OutcomeConfirmed:
		if m.ordersConfirmed != nil {
			m.ordersConfirmed.Add(ctx, 1)
		}
	}
}

var _ paymentsports.Router = (*Router)(nil)
