package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"portfolio/internal/models"
	"portfolio/internal/storage"
)

// InstrumentedStorage wraps a storage.Storage implementation with
// OpenTelemetry tracing and metrics instrumentation.
type InstrumentedStorage struct {
	inner    storage.Storage
	tracer   trace.Tracer
	duration metric.Float64Histogram
	errors   metric.Int64Counter
}

// NewInstrumentedStorage creates a new storage wrapper that records trace spans,
// operation latency histograms, and error counters for every storage method call.
func NewInstrumentedStorage(inner storage.Storage) (*InstrumentedStorage, error) {
	tracer := otel.Tracer("portfolio/storage")
	meter := otel.Meter("portfolio/storage")

	duration, err := meter.Float64Histogram(
		"storage.operation.duration",
		metric.WithDescription("Duration of storage operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	errCounter, err := meter.Int64Counter(
		"storage.operation.errors",
		metric.WithDescription("Number of storage operation errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return &InstrumentedStorage{
		inner:    inner,
		tracer:   tracer,
		duration: duration,
		errors:   errCounter,
	}, nil
}

func (s *InstrumentedStorage) startSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "storage."+operation,
		trace.WithAttributes(append([]attribute.KeyValue{
			attribute.String("storage.operation", operation),
		}, attrs...)...),
	)
	return ctx, span
}

func (s *InstrumentedStorage) record(ctx context.Context, span trace.Span, operation string, start time.Time, err error) {
	elapsed := time.Since(start).Seconds()
	attrs := metric.WithAttributes(attribute.String("operation", operation))

	s.duration.Record(ctx, elapsed, attrs)

	if err != nil {
		s.errors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}

func (s *InstrumentedStorage) TopScores(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	ctx, span := s.startSpan(ctx, "TopScores", attribute.Int("limit", limit))
	start := time.Now()
	result, err := s.inner.TopScores(ctx, limit)
	s.record(ctx, span, "TopScores", start, err)
	return result, err
}

func (s *InstrumentedStorage) SubmitScore(ctx context.Context, username string, score int) (bool, error) {
	ctx, span := s.startSpan(ctx, "SubmitScore", attribute.Int("score", score))
	start := time.Now()
	updated, err := s.inner.SubmitScore(ctx, username, score)
	s.record(ctx, span, "SubmitScore", start, err)
	return updated, err
}

func (s *InstrumentedStorage) LikeCount(ctx context.Context, slug string) (int64, error) {
	ctx, span := s.startSpan(ctx, "LikeCount", attribute.String("slug", slug))
	start := time.Now()
	count, err := s.inner.LikeCount(ctx, slug)
	s.record(ctx, span, "LikeCount", start, err)
	return count, err
}

func (s *InstrumentedStorage) IncrementLikes(ctx context.Context, slug string) (int64, error) {
	ctx, span := s.startSpan(ctx, "IncrementLikes", attribute.String("slug", slug))
	start := time.Now()
	count, err := s.inner.IncrementLikes(ctx, slug)
	s.record(ctx, span, "IncrementLikes", start, err)
	return count, err
}

func (s *InstrumentedStorage) Ping(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "Ping")
	start := time.Now()
	err := s.inner.Ping(ctx)
	s.record(ctx, span, "Ping", start, err)
	return err
}

func (s *InstrumentedStorage) Close() error {
	return s.inner.Close()
}
