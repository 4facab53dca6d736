package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	types "github.com/petstore/go-petstore-server/internal/domains/pets/application/types"
	petsports "github.com/petstore/go-petstore-server/internal/domains/pets/ports"
)

const tracerName = "github.com/petstore/go-petstore-server/internal/domains/pets/adapters/observability/service"

// Service decorates the pets service with tracing, logging, and metrics.
type Service struct {
	inner   petsports.Service
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

// New wraps the core pets service.
func New(inner petsports.Service, opts ...Option) petsports.Service {
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

func (s *Service) AddPet(ctx context.Context, input types.AddPetInput) (*types.PetProjection, error) {
	ctx, span := s.tracer.Start(ctx, "PetService.AddPet",
		trace.WithAttributes(attribute.String("pet.name", input.Name)))
	defer span.End()

	s.logInfo(ctx, "adding pet", slog.String("pet.name", input.Name))
	result, err := s.inner.AddPet(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add pet", slog.String("pet.name", input.Name))
	}
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "pet added", slog.Int64("pet.id", result.Entity.ID), slog.String("status", string(result.Entity.Status)))
	return result, nil
}

func (s *Service) UpdatePet(ctx context.Context, input types.UpdatePetInput) (*types.PetProjection, error) {
	ctx, span := s.tracer.Start(ctx, "PetService.UpdatePet", trace.WithAttributes(attribute.Int64("pet.id", input.ID)))
	defer span.End()

	result, err := s.inner.UpdatePet(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update pet", slog.Int64("pet.id", input.ID))
	}
	s.logInfo(ctx, "pet updated", slog.Int64("pet.id", result.Entity.ID))
	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, input types.UpdatePetStatusInput) (*types.PetProjection, error) {
	ctx, span := s.tracer.Start(ctx, "PetService.UpdateStatus",
		trace.WithAttributes(attribute.Int64("pet.id", input.ID), attribute.String("pet.status", input.Status)))
	defer span.End()

	result, err := s.inner.UpdateStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update pet status",
			slog.Int64("pet.id", input.ID), slog.String("target", input.Status))
	}
	s.metrics.recordStatusChange(ctx, string(result.Entity.Status))
	s.logInfo(ctx, "pet status updated", slog.Int64("pet.id", result.Entity.ID), slog.String("status", string(result.Entity.Status)))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, input types.PetIdentifier) (*types.PetProjection, error) {
	ctx, span := s.tracer.Start(ctx, "PetService.GetByID", trace.WithAttributes(attribute.Int64("pet.id", input.ID)))
	defer span.End()

	result, err := s.inner.GetByID(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load pet", slog.Int64("pet.id", input.ID))
	}
	return result, nil
}

func (s *Service) FindByStatus(ctx context.Context, input types.FindPetsByStatusInput) ([]*types.PetProjection, error) {
	ctx, span := s.tracer.Start(ctx, "PetService.FindByStatus")
	defer span.End()

	result, err := s.inner.FindByStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to find pets by status")
	}
	span.SetAttributes(attribute.Int("pets.count", len(result)))
	return result, nil
}

func (s *Service) List(ctx context.Context) ([]*types.PetProjection, error) {
	ctx, span := s.tracer.Start(ctx, "PetService.List")
	defer span.End()

	result, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list pets")
	}
	span.SetAttributes(attribute.Int("pets.count", len(result)))
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
	petsCreated   metric.Int64Counter
	statusChanges metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	petsCreated, _ := m.Int64Counter("pets.service.created", metric.WithDescription("Number of pets added to the catalog"))
	statusChanges, _ := m.Int64Counter("pets.service.status_changes", metric.WithDescription("Number of administrative status changes"))
	return serviceMetrics{petsCreated: petsCreated, statusChanges: statusChanges}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.petsCreated != nil {
		m.petsCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordStatusChange(ctx context.Context, status string) {
	if m.statusChanges != nil {
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("pet.status", status)))
	}
}

var _ petsports.Service = (*Service)(nil)
