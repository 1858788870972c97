package analytics

import (
	"net/http"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"

	"github.com/ddalicious/cafepos/internal/archive"
	"github.com/ddalicious/cafepos/internal/order"
)

// Handler serves derived statistics over the open ledger and the archive.
// It is strictly read-only.
type Handler struct {
	ledger   order.LedgerRepo
	sessions archive.SessionRepo
	logger   aqm.Logger
	config   *aqm.Config
	tlm      *telemetry.HTTP
	now      func() time.Time
}

// NewHandler creates a new Handler for analytics queries.
func NewHandler(ledger order.LedgerRepo, sessions archive.SessionRepo, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		ledger:   ledger,
		sessions: sessions,
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
		now:      time.Now,
	}
}

// RegisterRoutes registers the analytics routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/analytics", h.GetReport)
}

// GetReport handles GET /analytics?range=today|last-7-days|last-30-days|all
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetReport")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	rng := Range(r.URL.Query().Get("range"))
	if rng == "" {
		rng = RangeAll
	}
	if !rng.Valid() {
		aqm.RespondError(w, http.StatusBadRequest, "Invalid range")
		return
	}

	open, err := h.ledger.List(ctx)
	if err != nil {
		log.Error("cannot read open ledger", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not read open ledger")
		return
	}

	sessions, err := h.sessions.List(ctx)
	if err != nil {
		log.Error("cannot read archive", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not read archive")
		return
	}

	combined := make([]*order.Order, 0, len(open))
	combined = append(combined, open...)
	for _, s := range sessions {
		combined = append(combined, s.Orders...)
	}

	aqm.RespondSuccess(w, Compute(combined, rng, h.now()))
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}
