package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ddalicious/cafepos/internal/menu"
)

const MaxBodyBytes = 1 << 20

// Handler exposes the order builder (cart) and the open ledger over HTTP.
type Handler struct {
	cart     *Cart
	ledger   LedgerRepo
	menuRepo menu.MenuItemRepo
	logger   aqm.Logger
	config   *aqm.Config
	tlm      *telemetry.HTTP
	now      func() time.Time
}

// NewHandler creates a new Handler for order operations.
func NewHandler(cart *Cart, ledger LedgerRepo, menuRepo menu.MenuItemRepo, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		cart:     cart,
		ledger:   ledger,
		menuRepo: menuRepo,
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
		now:      time.Now,
	}
}

// RegisterRoutes registers all routes for the order builder and ledger.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/lines", h.AddLine)
		r.Patch("/lines/{index}", h.ChangeQuantity)
		r.Delete("/lines/{index}", h.RemoveLine)
		r.Post("/checkout", h.Checkout)
	})
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Delete("/{id}", h.DeleteOrder)
	})
}

type addLinePayload struct {
	MenuItemID string `json:"menuItemId"`
	AddOns     []struct {
		Name     string `json:"name"`
		Quantity int64  `json:"quantity"`
	} `json:"addOns"`
	CustomText string `json:"customText"`
}

type cartView struct {
	Lines []OrderItem     `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// AddLine handles POST /cart/lines. Add-on selections are resolved against
// the current catalog definition so prices are snapshotted server-side.
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddLine")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var payload addLinePayload
	if !h.decodePayload(w, r, log, &payload) {
		return
	}

	item, err := h.menuRepo.Get(ctx, payload.MenuItemID)
	if err != nil {
		log.Error("cannot load menu item", "error", err, "id", payload.MenuItemID)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load menu item")
		return
	}
	if item == nil {
		aqm.RespondError(w, http.StatusNotFound, "Menu item not found")
		return
	}

	selections := make([]SelectedAddOn, 0, len(payload.AddOns))
	for _, sel := range payload.AddOns {
		def, ok := item.FindAddOn(sel.Name)
		if !ok {
			aqm.RespondError(w, http.StatusBadRequest, fmt.Sprintf("Unknown add-on %q", sel.Name))
			return
		}
		selections = append(selections, SelectedAddOn{
			Name:          def.Name,
			Price:         def.Price,
			AllowQuantity: def.AllowQuantity,
			Quantity:      sel.Quantity,
		})
	}

	h.cart.AddLine(*item, selections, strings.TrimSpace(payload.CustomText))
	h.respondCart(w)
}

// GetCart handles GET /cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetCart")
	defer finish()

	h.respondCart(w)
}

// ClearCart handles DELETE /cart
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ClearCart")
	defer finish()

	h.cart.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// ChangeQuantity handles PATCH /cart/lines/{index}
func (h *Handler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ChangeQuantity")
	defer finish()
	log := h.log(r)

	index, ok := h.parseIndexParam(w, r, log)
	if !ok {
		return
	}

	var payload struct {
		Delta int64 `json:"delta"`
	}
	if !h.decodePayload(w, r, log, &payload) {
		return
	}

	if err := h.cart.ChangeQuantity(index, payload.Delta); err != nil {
		aqm.RespondError(w, http.StatusNotFound, "Cart line not found")
		return
	}
	h.respondCart(w)
}

// RemoveLine handles DELETE /cart/lines/{index}
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveLine")
	defer finish()
	log := h.log(r)

	index, ok := h.parseIndexParam(w, r, log)
	if !ok {
		return
	}

	if err := h.cart.RemoveLine(index); err != nil {
		aqm.RespondError(w, http.StatusNotFound, "Cart line not found")
		return
	}
	h.respondCart(w)
}

// Checkout handles POST /cart/checkout
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Checkout")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var payload struct {
		AmountTendered decimal.Decimal `json:"amountTendered"`
	}
	if !h.decodePayload(w, r, log, &payload) {
		return
	}

	receipt, err := h.cart.Checkout(ctx, payload.AmountTendered, h.ledger)
	switch {
	case errors.Is(err, ErrEmptyCart):
		aqm.RespondError(w, http.StatusConflict, "Cart is empty")
		return
	case errors.Is(err, ErrInsufficientPayment):
		aqm.RespondError(w, http.StatusUnprocessableEntity, "Insufficient payment")
		return
	case err != nil:
		log.Error("cannot finalize order", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not finalize order")
		return
	}

	log.Info("order finalized", "order_id", receipt.Order.ID, "total", receipt.Order.Total.StringFixed(2))
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, receipt)
}

// ListOrders handles GET /orders. date=today narrows to the current calendar
// day; q matches order IDs and item names.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var orders []*Order
	var err error
	if r.URL.Query().Get("date") == "today" {
		orders, err = h.ledger.ListByDate(ctx, h.now().Format(DateKeyLayout))
	} else {
		orders, err = h.ledger.List(ctx)
	}
	if err != nil {
		log.Error("cannot list orders", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not list orders")
		return
	}

	if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q"))); q != "" {
		orders = filterOrders(orders, q)
	}

	aqm.RespondSuccess(w, orders)
}

// DeleteOrder handles DELETE /orders/{id}. A missing order is a no-op.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteOrder")
	defer finish()
	log := h.log(r)

	id := chi.URLParam(r, "id")
	if id == "" {
		aqm.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return
	}

	if err := h.ledger.Delete(r.Context(), id); err != nil {
		log.Error("cannot delete order", "error", err, "id", id)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not delete order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func filterOrders(orders []*Order, q string) []*Order {
	matched := make([]*Order, 0, len(orders))
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.ID), q) {
			matched = append(matched, o)
			continue
		}
		for _, item := range o.Items {
			if strings.Contains(strings.ToLower(item.MenuItem.Name), q) {
				matched = append(matched, o)
				break
			}
		}
	}
	return matched
}

// Helper methods

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

func (h *Handler) respondCart(w http.ResponseWriter) {
	aqm.RespondSuccess(w, cartView{Lines: h.cart.Lines(), Total: h.cart.Total()})
}

func (h *Handler) parseIndexParam(w http.ResponseWriter, r *http.Request, log aqm.Logger) (int, bool) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		log.Debug("invalid index parameter", "index", raw, "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid index parameter")
		return 0, false
	}
	return index, true
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request, log aqm.Logger, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return false
	}

	if err := json.Unmarshal(body, v); err != nil {
		log.Debug("error decoding JSON", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}
	return true
}
