package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	paymentsdomain "github.com/Apurer/paydesk/internal/domains/payments/domain"
)

// NewEvictionRecorder returns a sweeper hook that logs and counts expired orders.
func NewEvictionRecorder(logger *slog.Logger, m metric.Meter) func(context.Context, []paymentsdomain.Order) {
	var evicted metric.Int64Counter
	if m != nil {
		evicted, _ = m.Int64Counter("payments.orders.evicted", metric.WithDescription("Pending orders evicted by the expiry sweep"))
	}
	return func(ctx context.Context, orders []paymentsdomain.Order) {
		for _, order := range orders {
			if evicted != nil {
				evicted.Add(ctx, 1, metric.WithAttributes(attribute.String("order.method", string(order.Method))))
			}
			if logger != nil {
				logger.LogAttrs(ctx, slog.LevelInfo, "pending order expired",
					slog.String("owner.id", order.OwnerID),
					slog.String("order.id", order.OrderID),
					slog.Time("order.created_at", order.CreatedAt),
				)
			}
		}
	}
}
