package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bidcompare/internal/comparison"
	"bidcompare/internal/config"
	"bidcompare/internal/exporter"
	"bidcompare/internal/infrastructure"
	"bidcompare/pkg/contracts/domain"
)

// Metric status labels
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusRejected = "rejected"
)

// ComparisonReport is a comparison result with its rendered workbooks.
// MatrixExcel and ChaptersExcel are nil when there is nothing to show.
type ComparisonReport struct {
	Result        *domain.ComparisonResult
	Excel         []byte
	MatrixExcel   []byte
	ChaptersExcel []byte
}

// ComparisonService runs comparison batches
type ComparisonService struct {
	engine   *comparison.Engine
	maxFiles int
	metrics  *infrastructure.ComparisonMetrics
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewComparisonService creates a comparison service. metrics may be nil;
// a nil tracer falls back to the global provider.
func NewComparisonService(cfg config.CompareConfig, metrics *infrastructure.ComparisonMetrics, tracer trace.Tracer, logger *slog.Logger) *ComparisonService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.ServiceName)
	}

	s := &ComparisonService{
		maxFiles: cfg.MaxFiles,
		metrics:  metrics,
		tracer:   tracer,
		logger:   infrastructure.WithComponent(logger, "comparison_service"),
	}
	s.engine = comparison.NewEngine(logger,
		comparison.WithConcurrency(cfg.MaxConcurrency),
		comparison.WithObserver(s))

	s.logger.Info("ComparisonService initialized",
		slog.Int("max_concurrency", cfg.MaxConcurrency),
		slog.Int("max_files", cfg.MaxFiles))
	return s
}

// DocumentParsed implements comparison.DocumentObserver
func (s *ComparisonService) DocumentParsed(ctx context.Context, name, format string, items int, err error, elapsed time.Duration) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	s.metrics.RecordDocument(ctx, format, status, items, elapsed)
	infrastructure.AddSpanEvent(ctx, "document.parsed",
		attribute.String("file", name),
		attribute.String("format", format),
		attribute.String("status", status),
		attribute.Int("items", items))
}

// Compare runs one comparison batch over docs
func (s *ComparisonService) Compare(ctx context.Context, docs []comparison.Document) (*domain.ComparisonResult, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	if s.maxFiles > 0 && len(docs) > s.maxFiles {
		return nil, fmt.Errorf("%w: %d documents, at most %d allowed", ErrTooManyFiles, len(docs), s.maxFiles)
	}

	ctx, span := s.tracer.Start(ctx, "comparison.batch",
		trace.WithAttributes(attribute.Int("documents", len(docs))))
	defer span.End()

	start := time.Now()
	s.logger.InfoContext(ctx, "comparison started", slog.Int("documents", len(docs)))

	result, err := s.engine.Compare(ctx, docs)
	if err != nil {
		status := StatusError
		if errors.Is(err, comparison.ErrNoValidBids) {
			status = StatusRejected
		}
		s.metrics.RecordBatch(ctx, status, 0, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "comparison failed",
			slog.String("status", status),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.metrics.RecordBatch(ctx, StatusOK, len(result.Bids), time.Since(start))
	span.SetAttributes(
		attribute.String("batch.id", result.ID),
		attribute.Int("providers", len(result.Bids)),
		attribute.Int("rows", len(result.Matrix.Rows)),
		attribute.Int("rejected", len(result.Errors)))
	s.logger.InfoContext(ctx, "comparison completed",
		slog.String("batch_id", result.ID),
		slog.Int("providers", len(result.Bids)),
		slog.Int("rejected", len(result.Errors)),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

// Report runs a batch and renders the full, matrix and chapter workbooks
func (s *ComparisonService) Report(ctx context.Context, docs []comparison.Document) (*ComparisonReport, error) {
	result, err := s.Compare(ctx, docs)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "comparison.render")
	defer span.End()

	report := &ComparisonReport{Result: result}
	if report.Excel, err = exporter.ReportWorkbook(result); err != nil {
		return nil, s.renderFailed(ctx, span, "report", err)
	}
	if report.MatrixExcel, err = exporter.MatrixWorkbook(result.Matrix); err != nil {
		return nil, s.renderFailed(ctx, span, "matrix", err)
	}
	if report.ChaptersExcel, err = exporter.ChapterWorkbook(result.Chapters); err != nil {
		return nil, s.renderFailed(ctx, span, "chapters", err)
	}
	return report, nil
}

func (s *ComparisonService) renderFailed(ctx context.Context, span trace.Span, workbook string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.ErrorContext(ctx, "workbook rendering failed",
		slog.String("workbook", workbook),
		slog.String("error", err.Error()))
	return fmt.Errorf("failed to render %s workbook: %w", workbook, err)
}
