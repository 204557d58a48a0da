package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	paymentsdomain "github.com/Apurer/paydesk/internal/domains/payments/domain"
	paymentsports "github.com/Apurer/paydesk/internal/domains/payments/ports"
)

type stubRouter struct {
	outcome paymentsports.Outcome
	err     error
	calls   int
}

func (s *stubRouter) Handle(context.Context, paymentsdomain.Event, paymentsports.Replier) (paymentsports.Outcome, error) {
	s.calls++
	return s.outcome, s.err
}

type telemetry struct {
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	logs   *bytes.Buffer
	opts   []Option
}

func newTelemetry() *telemetry {
	spans := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	logs := &bytes.Buffer{}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return &telemetry{
		spans:  spans,
		reader: reader,
		logs:   logs,
		opts: []Option{
			WithTracer(tp.Tracer("test")),
			WithMeter(mp.Meter("test")),
			WithLogger(slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		},
	}
}

func (tel *telemetry) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, tel.reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func formEvent() paymentsdomain.FormSubmitted {
	return paymentsdomain.FormSubmitted{Envelope: paymentsdomain.Envelope{EventID: "evt-1", OwnerID: "U1"}}
}

func TestRouter_RecordsSpanAndMetrics(t *testing.T) {
	tel := newTelemetry()
	inner := &stubRouter{outcome: paymentsports.OutcomeOrderOpened}
	router := New(inner, tel.opts...)

	outcome, err := router.Handle(context.Background(), formEvent(), nil)
	require.NoError(t, err)
	require.Equal(t, paymentsports.OutcomeOrderOpened, outcome)
	require.Equal(t, 1, inner.calls)

	ended := tel.spans.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, "PaymentsRouter.Handle", ended[0].Name())
	require.Contains(t, ended[0].Attributes(), attribute.String("event.kind", "form_submitted"))
	require.Contains(t, ended[0].Attributes(), attribute.String("outcome", "order_opened"))

	require.EqualValues(t, 1, tel.counter(t, "payments.router.events"))
	require.EqualValues(t, 1, tel.counter(t, "payments.orders.opened"))
	require.Contains(t, tel.logs.String(), `"msg":"event handled"`)
}

func TestRouter_ErrorsAreRecordedAndReturned(t *testing.T) {
	tel := newTelemetry()
	boom := errors.New("channel missing")
	router := New(&stubRouter{outcome: paymentsports.OutcomeAborted, err: boom}, tel.opts...)

	outcome, err := router.Handle(context.Background(), paymentsdomain.MessagePosted{}, nil)
	require.ErrorIs(t, err, boom)
	require.Equal(t, paymentsports.OutcomeAborted, outcome)

	ended := tel.spans.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, codes.Error, ended[0].Status().Code)
	require.Contains(t, tel.logs.String(), `"level":"ERROR"`)
	require.Contains(t, tel.logs.String(), "channel missing")
}

func TestRouter_IgnoredEventsLogAtDebug(t *testing.T) {
	tel := newTelemetry()
	router := New(&stubRouter{outcome: paymentsports.OutcomeIgnored}, tel.opts...)

	_, err := router.Handle(context.Background(), paymentsdomain.MessagePosted{}, nil)
	require.NoError(t, err)
	require.Contains(t, tel.logs.String(), `"level":"DEBUG"`)
	require.EqualValues(t, 0, tel.counter(t, "payments.orders.confirmed"))
}

func TestRouter_DefaultsWithoutOptions(t *testing.T) {
	router := New(&stubRouter{outcome: paymentsports.OutcomeConfirmed})
	outcome, err := router.Handle(context.Background(), paymentsdomain.CommandInvoked{}, nil)
	require.NoError(t, err)
	require.Equal(t, paymentsports.OutcomeConfirmed, outcome)
}

func TestEvictionRecorder_CountsOrders(t *testing.T) {
	tel := &telemetry{reader: sdkmetric.NewManualReader(), logs: &bytes.Buffer{}}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(tel.reader))
	record := NewEvictionRecorder(slog.New(slog.NewJSONHandler(tel.logs, nil)), mp.Meter("test"))

	record(context.Background(), []paymentsdomain.Order{
		{OwnerID: "U1", OrderID: "A", Method: paymentsdomain.MethodPayPal},
		{OwnerID: "U2", OrderID: "B", Method: paymentsdomain.MethodCard},
	})
	require.EqualValues(t, 2, tel.counter(t, "payments.orders.evicted"))
	require.Contains(t, tel.logs.String(), "pending order expired")
}
