package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	ledgermetrics "mizan/internal/ledger/metrics"
	"mizan/internal/ledger/models"
	id "mizan/pkg/domain"
	"mizan/pkg/money"
)

// YearStore persists ledger years.
type YearStore interface {
	CreateIfNumberAvailable(ctx context.Context, y *models.Year) error
	FindByID(ctx context.Context, yearID id.YearID) (*models.Year, error)
	// FindByIDForUpdate locks the year row for the duration of the
	// surrounding transaction so status checks serialize against Close.
	FindByIDForUpdate(ctx context.Context, yearID id.YearID) (*models.Year, error)
	FindByNumber(ctx context.Context, number int) (*models.Year, error)
	List(ctx context.Context) ([]*models.Year, error)
	// Close transitions OPEN -> CLOSED atomically (compare-and-set).
	// Returns sentinel.ErrNotFound for unknown years and
	// sentinel.ErrInvalidState when the year is already closed.
	Close(ctx context.Context, yearID id.YearID, closedAt time.Time) (*models.Year, error)
}

// EntryStore persists asset entries.
type EntryStore interface {
	Create(ctx context.Context, e *models.Entry) error
	FindByID(ctx context.Context, entryID id.EntryID) (*models.Entry, error)
	Update(ctx context.Context, e *models.Entry) error
	Delete(ctx context.Context, entryID id.EntryID) error
	ListByYear(ctx context.Context, yearID id.YearID) ([]*models.Entry, error)
	TotalByYear(ctx context.Context, yearID id.YearID) (money.Amount, error)
}

// PaidEntryStore persists payment entries.
type PaidEntryStore interface {
	Create(ctx context.Context, p *models.PaidEntry) error
	FindByID(ctx context.Context, paidID id.PaidEntryID) (*models.PaidEntry, error)
	Update(ctx context.Context, p *models.PaidEntry) error
	Delete(ctx context.Context, paidID id.PaidEntryID) error
	ListByYear(ctx context.Context, yearID id.YearID) ([]*models.PaidEntry, error)
	TotalByYear(ctx context.Context, yearID id.YearID) (money.Amount, error)
}

// StoreTx provides a transactional boundary for multi-step mutations.
// Implementations wrap a database transaction or, in-memory, a coarse lock.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// SummaryCache is a read-through cache for computed summaries.
// Implementations absorb their own failures: a miss and a cache error
// look the same to the service, which recomputes either way.
type SummaryCache interface {
	GetSummary(ctx context.Context, yearID id.YearID) (models.Summary, bool)
	SetSummary(ctx context.Context, yearID id.YearID, s models.Summary)
	GetOverview(ctx context.Context) ([]models.YearSummary, bool)
	SetOverview(ctx context.Context, rows []models.YearSummary)
	// Invalidate drops the year's summary and the cross-year overview.
	Invalidate(ctx context.Context, yearID id.YearID)
}

// Service orchestrates the year ledger: year lifecycle, the two entry
// ledgers, summary computation, and cross-year entry copies.
type Service struct {
	years    YearStore
	entries  EntryStore
	payments PaidEntryStore
	logger   *slog.Logger
	metrics  *ledgermetrics.Metrics
	cache    SummaryCache
	tx       StoreTx
	tracer   trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *ledgermetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithCache(c SummaryCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithStoreTx supplies the transactional boundary; production wiring
// passes a database-backed implementation.
func WithStoreTx(tx StoreTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

// New constructs a Service. Without WithStoreTx the service falls back
// to an in-memory coarse lock, suitable for the in-memory stores only.
func New(years YearStore, entries EntryStore, payments PaidEntryStore, opts ...Option) *Service {
	s := &Service{
		years:    years,
		entries:  entries,
		payments: payments,
		tracer:   otel.Tracer("mizan/internal/ledger"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = newInMemoryStoreTx()
	}
	return s
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}

func (s *Service) logError(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.ErrorContext(ctx, msg, args...)
	}
}

func (s *Service) invalidateSummaries(ctx context.Context, yearID id.YearID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, yearID)
	}
}
