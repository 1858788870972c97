package archive

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
)

// Import payloads can be whole legacy exports, so the cap is generous.
const MaxBodyBytes = 8 << 20

// Handler exposes the archive over HTTP: closing sales, browsing and pruning
// sessions, and the two-phase legacy import.
type Handler struct {
	manager *Manager
	logger  aqm.Logger
	config  *aqm.Config
	tlm     *telemetry.HTTP
}

// NewHandler creates a new Handler for archive operations.
func NewHandler(manager *Manager, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		manager: manager,
		logger:  logger,
		config:  config,
		tlm:     telemetry.NewHTTP(),
	}
}

// RegisterRoutes registers all routes for the archive.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/archive", func(r chi.Router) {
		r.Get("/", h.ListSessions)
		r.Post("/close", h.CloseSale)
		r.Delete("/{id}", h.DeleteSession)
		r.Delete("/{sessionID}/orders/{orderID}", h.DeleteOrderFromSession)
		r.Route("/import", func(r chi.Router) {
			r.Post("/preview", h.PreviewImport)
			r.Post("/confirm", h.ConfirmImport)
		})
	})
}

type closeSalePayload struct {
	Mode      CloseMode  `json:"mode"`
	Scope     CloseScope `json:"scope"`
	SessionID string     `json:"sessionId"`
	Name      string     `json:"name"`
}

// CloseSale handles POST /archive/close
func (h *Handler) CloseSale(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CloseSale")
	defer finish()
	log := h.log(r)

	body, ok := h.readBody(w, r, log)
	if !ok {
		return
	}

	var payload closeSalePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Debug("error decoding JSON", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	session, err := h.manager.CloseSale(r.Context(), CloseSaleInput{
		Mode:      payload.Mode,
		Scope:     payload.Scope,
		SessionID: payload.SessionID,
		Name:      payload.Name,
	})
	switch {
	case errors.Is(err, ErrNothingToClose):
		aqm.RespondError(w, http.StatusConflict, "No orders to close")
		return
	case errors.Is(err, ErrSessionNotFound):
		aqm.RespondError(w, http.StatusNotFound, "Sale session not found")
		return
	case err != nil:
		log.Error("cannot close sale", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not close sale")
		return
	}

	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, session)
}

// ListSessions handles GET /archive
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListSessions")
	defer finish()
	log := h.log(r)

	query := r.URL.Query().Get("q")
	sortBy := SortBy(r.URL.Query().Get("sort"))

	sessions, err := h.manager.ListSessions(r.Context(), query, sortBy)
	if err != nil {
		log.Error("cannot list sale sessions", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not list sale sessions")
		return
	}

	aqm.RespondSuccess(w, sessions)
}

// DeleteSession handles DELETE /archive/{id}. Deleting an absent session is
// a no-op.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteSession")
	defer finish()
	log := h.log(r)

	id := chi.URLParam(r, "id")
	if id == "" {
		aqm.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return
	}

	if err := h.manager.DeleteSession(r.Context(), id); err != nil {
		log.Error("cannot delete sale session", "error", err, "id", id)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not delete sale session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteOrderFromSession handles DELETE /archive/{sessionID}/orders/{orderID}
func (h *Handler) DeleteOrderFromSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteOrderFromSession")
	defer finish()
	log := h.log(r)

	sessionID := chi.URLParam(r, "sessionID")
	orderID := chi.URLParam(r, "orderID")
	if sessionID == "" || orderID == "" {
		aqm.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return
	}

	if err := h.manager.DeleteOrderFromSession(r.Context(), sessionID, orderID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			aqm.RespondError(w, http.StatusNotFound, "Sale session not found")
			return
		}
		log.Error("cannot delete order from session", "error", err, "session_id", sessionID, "order_id", orderID)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not delete order from session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PreviewImport handles POST /archive/import/preview. The body is the raw
// legacy export; the response is the candidate sessions, nothing persisted.
func (h *Handler) PreviewImport(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PreviewImport")
	defer finish()
	log := h.log(r)

	body, ok := h.readBody(w, r, log)
	if !ok {
		return
	}

	sessions, err := h.manager.PreviewImport(body)
	if err != nil {
		if errors.Is(err, ErrInvalidImportFormat) {
			log.Debug("rejected import payload", "error", err)
			aqm.RespondError(w, http.StatusBadRequest, "Invalid import format")
			return
		}
		log.Error("cannot preview import", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not preview import")
		return
	}

	aqm.RespondSuccess(w, sessions)
}

type confirmImportPayload struct {
	Sessions []*SaleSession `json:"sessions"`
}

// ConfirmImport handles POST /archive/import/confirm
func (h *Handler) ConfirmImport(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ConfirmImport")
	defer finish()
	log := h.log(r)

	body, ok := h.readBody(w, r, log)
	if !ok {
		return
	}

	var payload confirmImportPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Debug("error decoding JSON", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := h.manager.ConfirmImport(r.Context(), payload.Sessions); err != nil {
		if errors.Is(err, ErrInvalidImportFormat) {
			aqm.RespondError(w, http.StatusBadRequest, "Invalid import format")
			return
		}
		log.Error("cannot confirm import", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not confirm import")
		return
	}

	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, payload.Sessions)
}

// Helper methods

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

func (h *Handler) readBody(w http.ResponseWriter, r *http.Request, log aqm.Logger) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return nil, false
	}
	return body, true
}
