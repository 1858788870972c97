package menu

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
)

const MaxBodyBytes = 1 << 20

// Handler handles HTTP requests for the menu catalog.
type Handler struct {
	itemRepo    MenuItemRepo
	displayRepo DisplayOrderRepo
	logger      aqm.Logger
	config      *aqm.Config
	tlm         *telemetry.HTTP
}

// NewHandler creates a new Handler for menu catalog operations.
func NewHandler(itemRepo MenuItemRepo, displayRepo DisplayOrderRepo, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		itemRepo:    itemRepo,
		displayRepo: displayRepo,
		logger:      logger,
		config:      config,
		tlm:         telemetry.NewHTTP(),
	}
}

// RegisterRoutes registers all routes for the menu catalog.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/menu", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Post("/", h.CreateMenuItem)
			r.Get("/", h.ListMenuItems)
			r.Get("/{id}", h.GetMenuItem)
			r.Put("/{id}", h.UpdateMenuItem)
			r.Delete("/{id}", h.DeleteMenuItem)
		})
		r.Route("/display-order", func(r chi.Router) {
			r.Get("/", h.GetDisplayOrder)
			r.Put("/", h.SetDisplayOrder)
		})
	})
}

// CreateMenuItem handles POST /menu/items
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateMenuItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	item, ok := h.decodeMenuItemPayload(w, r, log)
	if !ok {
		return
	}

	item.EnsureID()

	if validationErrors := ValidateMenuItem(item); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	if err := h.itemRepo.Create(ctx, item); err != nil {
		log.Error("cannot create menu item", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not create menu item")
		return
	}

	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, item)
}

// ListMenuItems handles GET /menu/items. The optional category query filters
// by drink or food, and the persisted display order is applied to the result.
func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListMenuItems")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var items []*MenuItem
	var err error
	if category := Category(r.URL.Query().Get("category")); category != "" {
		if !category.Valid() {
			aqm.RespondError(w, http.StatusBadRequest, "Invalid category")
			return
		}
		items, err = h.itemRepo.ListByCategory(ctx, category)
	} else {
		items, err = h.itemRepo.List(ctx)
	}
	if err != nil {
		log.Error("cannot list menu items", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not list menu items")
		return
	}

	ids, err := h.displayRepo.Get(ctx)
	if err != nil {
		log.Error("cannot load display order", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load display order")
		return
	}

	aqm.RespondSuccess(w, ApplyDisplayOrder(items, ids))
}

// GetMenuItem handles GET /menu/items/{id}
func (h *Handler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetMenuItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	item, err := h.itemRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading menu item", "error", err, "id", id)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load menu item")
		return
	}
	if item == nil {
		aqm.RespondError(w, http.StatusNotFound, "Menu item not found")
		return
	}

	aqm.RespondSuccess(w, item)
}

// UpdateMenuItem handles PUT /menu/items/{id}
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateMenuItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	item, ok := h.decodeMenuItemPayload(w, r, log)
	if !ok {
		return
	}

	item.ID = id

	if validationErrors := ValidateMenuItem(item); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	if err := h.itemRepo.Save(ctx, item); err != nil {
		if errors.Is(err, ErrMenuItemNotFound) {
			aqm.RespondError(w, http.StatusNotFound, "Menu item not found")
			return
		}
		log.Error("cannot update menu item", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not update menu item")
		return
	}

	aqm.RespondSuccess(w, item)
}

// DeleteMenuItem handles DELETE /menu/items/{id}. Past orders keep their own
// copy of the item, so deletion never rewrites history.
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteMenuItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.itemRepo.Delete(ctx, id); err != nil {
		log.Error("cannot delete menu item", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not delete menu item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetDisplayOrder handles GET /menu/display-order
func (h *Handler) GetDisplayOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetDisplayOrder")
	defer finish()
	log := h.log(r)

	ids, err := h.displayRepo.Get(r.Context())
	if err != nil {
		log.Error("cannot load display order", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load display order")
		return
	}

	aqm.RespondSuccess(w, ids)
}

// SetDisplayOrder handles PUT /menu/display-order
func (h *Handler) SetDisplayOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetDisplayOrder")
	defer finish()
	log := h.log(r)

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	var ids []string
	if err := json.Unmarshal(body, &ids); err != nil {
		log.Debug("error decoding JSON", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := h.displayRepo.Set(r.Context(), ids); err != nil {
		log.Error("cannot save display order", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not save display order")
		return
	}

	aqm.RespondSuccess(w, ids)
}

// Helper methods

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log aqm.Logger) (string, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		log.Debug("missing id parameter")
		aqm.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return "", false
	}
	return id, true
}

func (h *Handler) decodeMenuItemPayload(w http.ResponseWriter, r *http.Request, log aqm.Logger) (*MenuItem, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return nil, false
	}

	var item MenuItem
	if err := json.Unmarshal(body, &item); err != nil {
		log.Debug("error decoding JSON", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return nil, false
	}

	return &item, true
}

func (h *Handler) respondValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  "Validation failed",
		"errors": errors,
	})
}
