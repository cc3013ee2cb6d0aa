package comparison

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"bidcompare/internal/dataprocessing"
	apperrors "bidcompare/internal/errors"
	"bidcompare/pkg/contracts/domain"
)

// ErrNoValidBids is returned when no document in a batch could be parsed
var ErrNoValidBids = errors.New("could not read any files")

// BatchError carries the per-document messages of a batch in which no
// document could be parsed. It unwraps to ErrNoValidBids.
type BatchError struct {
	Errors []string
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s (%d failed)", ErrNoValidBids, len(e.Errors))
}

func (e *BatchError) Unwrap() error { return ErrNoValidBids }

// Document is one input file. NameHint, when set, replaces Name as the
// provider name of a document without a sender name.
type Document struct {
	Name     string
	NameHint string
	Data     []byte
}

// DocumentObserver is notified after each document is parsed
type DocumentObserver interface {
	DocumentParsed(ctx context.Context, name, format string, items int, err error, elapsed time.Duration)
}

// Engine runs comparison batches
type Engine struct {
	concurrency int
	logger      *slog.Logger
	observer    DocumentObserver
	now         func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithConcurrency bounds the number of documents parsed at once
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithObserver sets the per-document observer
func WithObserver(o DocumentObserver) Option {
	return func(e *Engine) { e.observer = o }
}

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine
func NewEngine(logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		concurrency: 4,
		logger:      logger.With(slog.String("component", "comparison")),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type parsed struct {
	hint  string
	items []domain.LineItem
	err   error
}

// Compare parses every document and builds the comparison. Documents are
// parsed concurrently; providers are registered in input order. Documents
// that fail are reported in the result's Errors. When none succeeds the
// error is a *BatchError. A cancelled context aborts the batch.
func (e *Engine) Compare(ctx context.Context, docs []Document) (*domain.ComparisonResult, error) {
	results := make([]parsed, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, doc := range docs {
		if len(doc.Data) == 0 {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			hint, items, err := dataprocessing.ParseDocument(doc.Name, doc.Data)
			results[i] = parsed{hint: hint, items: items, err: err}
			if e.observer != nil {
				e.observer.DocumentParsed(gctx, doc.Name, dataprocessing.DocumentFormat(doc.Name), len(items), err, time.Since(start))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	registry := NewRegistry()
	var bids []domain.BidDocument
	errs := []string{}
	for i, doc := range docs {
		if len(doc.Data) == 0 {
			errs = append(errs, fmt.Sprintf("%s is empty.", doc.Name))
			continue
		}
		res := results[i]
		if res.err != nil {
			e.logger.WarnContext(ctx, "document rejected",
				slog.String("file", doc.Name),
				slog.String("error", res.err.Error()))
			errs = append(errs, apperrors.Message(res.err))
			continue
		}

		candidate := res.hint
		if candidate == "" {
			candidate = doc.NameHint
		}
		if candidate == "" {
			candidate = doc.Name
		}
		provider := registry.Register(candidate)
		bids = append(bids, domain.BidDocument{Provider: provider, Filename: doc.Name, Items: res.items})

		e.logger.DebugContext(ctx, "document parsed",
			slog.String("file", doc.Name),
			slog.String("provider", provider),
			slog.Int("items", len(res.items)))
	}

	if len(bids) == 0 {
		return nil, &BatchError{Errors: errs}
	}

	result := Build(bids)
	result.ID = uuid.New().String()
	result.Errors = errs
	result.GeneratedAt = e.now().UTC()

	e.logger.InfoContext(ctx, "comparison built",
		slog.String("batch_id", result.ID),
		slog.Int("providers", len(bids)),
		slog.Int("rows", len(result.Matrix.Rows)),
		slog.Int("chapters", len(result.Chapters.Rows)),
		slog.Int("errors", len(errs)))
	return result, nil
}

// Build computes every comparison output from registered bids
func Build(bids []domain.BidDocument) *domain.ComparisonResult {
	providers := make([]string, len(bids))
	aggregates := make([][]domain.AggregatedItem, len(bids))
	for i, bid := range bids {
		providers[i] = bid.Provider
		aggregates[i] = Aggregate(bid.Items)
	}

	titles := dataprocessing.ResolveChapterTitles(bids)

	return &domain.ComparisonResult{
		Bids:     bids,
		Matrix:   BuildMatrix(bids, aggregates, titles),
		Chapters: BuildChapters(providers, aggregates, titles),
		Titles:   titles,
		Summary:  Summarize(bids),
	}
}
