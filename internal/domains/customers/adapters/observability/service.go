package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	customersdomain "github.com/petstore/go-petstore-server/internal/domains/customers/domain"
	customersports "github.com/petstore/go-petstore-server/internal/domains/customers/ports"
)

const tracerName = "github.com/petstore/go-petstore-server/internal/domains/customers/adapters/observability/service"

// Service decorates the customer service with tracing, logging, and metrics.
type Service struct {
	inner      customersports.Service
	tracer     trace.Tracer
	logger     *slog.Logger
	registered metric.Int64Counter
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
		if m != nil {
			s.registered, _ = m.Int64Counter("customers.service.registered", metric.WithDescription("Number of customers registered"))
		}
	}
}

// New wraps the core customer service.
func New(inner customersports.Service, opts ...Option) customersports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
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

func (s *Service) Register(ctx context.Context, name, email, phone string) (*customersdomain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.Register")
	defer span.End()

	result, err := s.inner.Register(ctx, name, email, phone)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register customer")
	}
	if s.registered != nil {
		s.registered.Add(ctx, 1)
	}
	s.logInfo(ctx, "customer registered", slog.Int64("customer.id", result.ID))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*customersdomain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.GetByID", trace.WithAttributes(attribute.Int64("customer.id", id)))
	defer span.End()

	result, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load customer", slog.Int64("customer.id", id))
	}
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

var _ customersports.Service = (*Service)(nil)
