package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Hectotor/Inventory-web-sub000/internal/common"
)

// Handler exposes order endpoints. Customers only ever see their own
// orders; staff see the whole company, managers restricted to their agency.
type Handler struct {
	service         *Service
	defaultPageSize int
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service         *Service
	DefaultPageSize int
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	size := cfg.DefaultPageSize
	if size <= 0 {
		size = 20
	}
	return &Handler{service: cfg.Service, defaultPageSize: size}
}

type placeOrderRequest struct {
	CustomerID string `json:"customerId"`
}

// Place handles POST /api/v1/orders.
func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	id, ok := common.IdentityFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return
	}

	var req placeOrderRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
			return
		}
	}

	o, err := h.service.Place(r.Context(), id, PlaceParams{CustomerID: req.CustomerID})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, viewOf(o))
}

// Get handles GET /api/v1/orders/{orderID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := common.IdentityFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return
	}

	o, err := h.service.Repo.Get(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !id.IsStaff() && o.CustomerID != id.UserID {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
		return
	}
	common.JSONData(w, http.StatusOK, viewOf(o))
}

// List handles GET /api/v1/orders.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := common.IdentityFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return
	}

	f, ok := h.filterFor(w, r, id)
	if !ok {
		return
	}
	pg := common.ParsePagination(r, h.defaultPageSize)

	items, err := h.service.Repo.List(r.Context(), pg, f)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": pg,
	})
}

// Stats handles GET /api/v1/orders/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	id, ok := common.IdentityFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return
	}

	f, ok := h.filterFor(w, r, id)
	if !ok {
		return
	}

	stats, err := h.service.Stats(r.Context(), f)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, stats)
}

// filterFor builds the list filter from query parameters, clamped by role:
// customers see only themselves, managers only their own agency. The agency
// value "ALL" (or none) means company wide and is reserved for admins.
func (h *Handler) filterFor(w http.ResponseWriter, r *http.Request, id common.Identity) (ListFilter, bool) {
	var f ListFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		st, err := ParseStatus(raw)
		if err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "unknown status", nil)
			return ListFilter{}, false
		}
		f.Status = st
	}

	switch {
	case !id.IsStaff():
		f.CustomerID = id.UserID
	default:
		f.CustomerID = r.URL.Query().Get("customer")
		agency := r.URL.Query().Get("agency")
		if agency == common.AgencyAll {
			agency = ""
		}
		if id.Role == common.RoleManager && id.AgencyID != "" {
			if agency != "" && agency != id.AgencyID {
				common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "managers are limited to their own agency", nil)
				return ListFilter{}, false
			}
			agency = id.AgencyID
		}
		f.AgencyID = agency
	}
	return f, true
}

type orderView struct {
	Order
	TotalExclTax string `json:"totalExclTax"`
	TotalInclTax string `json:"totalInclTax"`
}

func viewOf(o Order) orderView {
	return orderView{
		Order:        o,
		TotalExclTax: o.TotalExclTax().StringFixed(2),
		TotalInclTax: o.TotalInclTax().StringFixed(2),
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusUnprocessableEntity, "EMPTY_CART", "cart is empty", nil)
	case errors.Is(err, ErrCustomerUnknown):
		common.JSONError(w, http.StatusUnprocessableEntity, "UNKNOWN_CUSTOMER", "customer not found", nil)
	case errors.Is(err, ErrNotCustomer):
		common.JSONError(w, http.StatusUnprocessableEntity, "NOT_A_CUSTOMER", "orders can only be placed for customer accounts", nil)
	case errors.Is(err, ErrInvalidTransition):
		common.JSONError(w, http.StatusConflict, "INVALID_TRANSITION", "status can only move forward", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
