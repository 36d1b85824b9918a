// Package handler exposes the year ledger over HTTP.
//
// Routes follow the store-service-handler layering: handlers decode and
// validate DTOs, delegate to the service, and translate domain errors to
// the uniform JSON error envelope.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mizan/internal/ledger/models"
	id "mizan/pkg/domain"
	"mizan/pkg/money"
	"mizan/pkg/platform/httputil"
	"mizan/pkg/requestcontext"
)

// Service defines the ledger operations the HTTP layer depends on.
type Service interface {
	GetOrCreateYear(ctx context.Context, number int) (*models.Year, error)
	GetYear(ctx context.Context, yearID id.YearID) (*models.Year, error)
	CloseYear(ctx context.Context, yearID id.YearID) (*models.Year, error)

	AddEntry(ctx context.Context, yearID id.YearID, name string, assetType models.AssetType, amount money.Amount) (*models.Entry, error)
	UpdateEntry(ctx context.Context, entryID id.EntryID, name string, assetType models.AssetType, amount money.Amount) (*models.Entry, error)
	DeleteEntry(ctx context.Context, entryID id.EntryID) error
	ListEntries(ctx context.Context, yearID id.YearID) ([]*models.Entry, error)

	AddPayment(ctx context.Context, yearID id.YearID, name string, amount money.Amount) (*models.PaidEntry, error)
	UpdatePayment(ctx context.Context, paidID id.PaidEntryID, name string, amount money.Amount) (*models.PaidEntry, error)
	DeletePayment(ctx context.Context, paidID id.PaidEntryID) error
	ListPayments(ctx context.Context, yearID id.YearID) ([]*models.PaidEntry, error)

	Summarize(ctx context.Context, yearID id.YearID) (models.Summary, error)
	Overview(ctx context.Context) ([]models.YearSummary, error)
	CopyEntries(ctx context.Context, sourceID, targetID id.YearID) (int, error)
}

// Handler wires ledger endpoints to the ledger service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a ledger handler with its dependencies.
// A nil logger discards log output.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts ledger endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/years", func(r chi.Router) {
		r.Post("/", h.HandleCreateYear)
		r.Get("/summary", h.HandleOverview)

		r.Route("/{yearID}", func(r chi.Router) {
			r.Get("/", h.HandleGetYear)
			r.Post("/close", h.HandleCloseYear)
			r.Get("/summary", h.HandleSummary)
			r.Post("/copy-entries", h.HandleCopyEntries)

			r.Get("/entries", h.HandleListEntries)
			r.Post("/entries", h.HandleAddEntry)
			r.Get("/payments", h.HandleListPayments)
			r.Post("/payments", h.HandleAddPayment)
		})
	})

	r.Route("/entries/{entryID}", func(r chi.Router) {
		r.Put("/", h.HandleUpdateEntry)
		r.Delete("/", h.HandleDeleteEntry)
	})
	r.Route("/payments/{paidID}", func(r chi.Router) {
		r.Put("/", h.HandleUpdatePayment)
		r.Delete("/", h.HandleDeletePayment)
	})
}

func (h *Handler) yearIDFromPath(w http.ResponseWriter, r *http.Request) (id.YearID, bool) {
	yearID, err := id.ParseYearID(chi.URLParam(r, "yearID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.YearID{}, false
	}
	return yearID, true
}

// HandleCreateYear handles POST /years. Idempotent: an existing year is
// returned unchanged rather than conflicting.
func (h *Handler) HandleCreateYear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateYearRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	year, err := h.service.GetOrCreateYear(ctx, req.Year)
	if err != nil {
		h.logger.ErrorContext(ctx, "year create failed",
			"request_id", requestID,
			"year", req.Year,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fromYear(year))
}

// HandleGetYear handles GET /years/{yearID}, returning the year with
// both of its ledgers.
func (h *Handler) HandleGetYear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	yearID, ok := h.yearIDFromPath(w, r)
	if !ok {
		return
	}

	year, err := h.service.GetYear(ctx, yearID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	entries, err := h.service.ListEntries(ctx, yearID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	payments, err := h.service.ListPayments(ctx, yearID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, YearDetailResponse{
		YearResponse: fromYear(year),
		Entries:      fromEntries(entries),
		PaidEntries:  fromPaidEntries(payments),
	})
}

// HandleCloseYear handles POST /years/{yearID}/close.
func (h *Handler) HandleCloseYear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	yearID, ok := h.yearIDFromPath(w, r)
	if !ok {
		return
	}

	year, err := h.service.CloseYear(ctx, yearID)
	if err != nil {
		h.logger.WarnContext(ctx, "year close rejected",
			"request_id", requestID,
			"year_id", yearID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fromYear(year))
}

// HandleOverview handles GET /years/summary.
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.service.Overview(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromOverview(rows))
}

// HandleSummary handles GET /years/{yearID}/summary.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	yearID, ok := h.yearIDFromPath(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Summarize(ctx, yearID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromSummary(summary))
}

// HandleCopyEntries handles POST /years/{yearID}/copy-entries, where
// the path names the target year and the body names the source.
func (h *Handler) HandleCopyEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	targetID, ok := h.yearIDFromPath(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CopyEntriesRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	count, err := h.service.CopyEntries(ctx, req.ParsedSourceYearID(), targetID)
	if err != nil {
		h.logger.ErrorContext(ctx, "entry copy failed",
			"request_id", requestID,
			"source_year_id", req.SourceYearID,
			"target_year_id", targetID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "entries copied",
		"request_id", requestID,
		"target_year_id", targetID.String(),
		"count", count,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, CopyEntriesResponse{Count: count})
}

// HandleListEntries handles GET /years/{yearID}/entries.
func (h *Handler) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	yearID, ok := h.yearIDFromPath(w, r)
	if !ok {
		return
	}
	entries, err := h.service.ListEntries(ctx, yearID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromEntries(entries))
}

// HandleAddEntry handles POST /years/{yearID}/entries.
func (h *Handler) HandleAddEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	yearID, ok := h.yearIDFromPath(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[EntryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	entry, err := h.service.AddEntry(ctx, yearID, req.Name, req.ParsedAssetType(), req.ParsedAmount())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromEntry(entry))
}

// HandleUpdateEntry handles PUT /entries/{entryID}.
func (h *Handler) HandleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	entryID, err := id.ParseEntryID(chi.URLParam(r, "entryID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[EntryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	entry, err := h.service.UpdateEntry(ctx, entryID, req.Name, req.ParsedAssetType(), req.ParsedAmount())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromEntry(entry))
}

// HandleDeleteEntry handles DELETE /entries/{entryID}.
func (h *Handler) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entryID, err := id.ParseEntryID(chi.URLParam(r, "entryID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteEntry(ctx, entryID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListPayments handles GET /years/{yearID}/payments.
func (h *Handler) HandleListPayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	yearID, ok := h.yearIDFromPath(w, r)
	if !ok {
		return
	}
	payments, err := h.service.ListPayments(ctx, yearID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromPaidEntries(payments))
}

// HandleAddPayment handles POST /years/{yearID}/payments.
func (h *Handler) HandleAddPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	yearID, ok := h.yearIDFromPath(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PaymentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	paid, err := h.service.AddPayment(ctx, yearID, req.Name, req.ParsedAmount())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromPaidEntry(paid))
}

// HandleUpdatePayment handles PUT /payments/{paidID}.
func (h *Handler) HandleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	paidID, err := id.ParsePaidEntryID(chi.URLParam(r, "paidID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[PaymentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	paid, err := h.service.UpdatePayment(ctx, paidID, req.Name, req.ParsedAmount())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromPaidEntry(paid))
}

// HandleDeletePayment handles DELETE /payments/{paidID}.
func (h *Handler) HandleDeletePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	paidID, err := id.ParsePaidEntryID(chi.URLParam(r, "paidID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeletePayment(ctx, paidID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
