package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersdomain "github.com/petstore/go-petstore-server/internal/domains/orders/domain"
	ordersports "github.com/petstore/go-petstore-server/internal/domains/orders/ports"
)

const tracerName = "github.com/petstore/go-petstore-server/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, customerID, petID int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder",
		trace.WithAttributes(attribute.Int64("order.customer_id", customerID), attribute.Int64("order.pet_id", petID)))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int64("customer.id", customerID), slog.Int64("pet.id", petID))
	result, err := s.inner.PlaceOrder(ctx, customerID, petID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.Int64("pet.id", petID))
	}
	s.metrics.recordPlaced(ctx, result.Status)
	s.logInfo(ctx, "order placed", slog.Int64("order.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) ApproveOrder(ctx context.Context, orderID int64) (*ordersdomain.Order, error) {
	return s.transition(ctx, "OrderService.ApproveOrder", orderID, s.inner.ApproveOrder)
}

func (s *Service) FulfillOrder(ctx context.Context, orderID int64) (*ordersdomain.Order, error) {
	return s.transition(ctx, "OrderService.FulfillOrder", orderID, s.inner.FulfillOrder)
}

func (s *Service) CancelOrder(ctx context.Context, orderID int64) (*ordersdomain.Order, error) {
	return s.transition(ctx, "OrderService.CancelOrder", orderID, s.inner.CancelOrder)
}

func (s *Service) transition(ctx context.Context, span string, orderID int64, op func(context.Context, int64) (*ordersdomain.Order, error)) (*ordersdomain.Order, error) {
	ctx, sp := s.tracer.Start(ctx, span, trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer sp.End()

	result, err := op(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, sp, err, "order transition failed", slog.Int64("order.id", orderID))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logInfo(ctx, "order transitioned", slog.Int64("order.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) GetOrderByID(ctx context.Context, id int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrderByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrderByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) ListCustomerOrders(ctx context.Context, customerID int64) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListCustomerOrders",
		trace.WithAttributes(attribute.Int64("order.customer_id", customerID)))
	defer span.End()

	result, err := s.inner.ListCustomerOrders(ctx, customerID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list customer orders", slog.Int64("customer.id", customerID))
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) Inventory(ctx context.Context) (map[string]int32, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Inventory")
	defer span.End()

	result, err := s.inner.Inventory(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to calculate inventory")
	}
	span.SetAttributes(attribute.Int("inventory.status.count", len(result)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersPlaced      metric.Int64Counter
	ordersTransitions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.placed", metric.WithDescription("Number of orders placed"))
	ordersTransitions, _ := m.Int64Counter("orders.service.transitions", metric.WithDescription("Number of order status transitions"))
	return serviceMetrics{ordersPlaced: ordersPlaced, ordersTransitions: ordersTransitions}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, status ordersdomain.Status) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status ordersdomain.Status) {
	if m.ordersTransitions != nil {
		m.ordersTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

var _ ordersports.Service = (*Service)(nil)
