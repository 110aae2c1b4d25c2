package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Hectotor/Inventory-web-sub000/internal/common"
)

// Handler exposes the cart of the authenticated user.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service, validate: validator.New()}
}

type cartView struct {
	Lines        []Line `json:"lines"`
	ItemCount    int64  `json:"itemCount"`
	TotalExclTax string `json:"totalExclTax"`
	TotalInclTax string `json:"totalInclTax"`
}

func viewOf(c Cart) cartView {
	lines := c.Lines
	if lines == nil {
		lines = []Line{}
	}
	return cartView{
		Lines:        lines,
		ItemCount:    c.ItemCount(),
		TotalExclTax: c.TotalExclTax().StringFixed(2),
		TotalInclTax: c.TotalInclTax().StringFixed(2),
	}
}

// Get handles GET /api/v1/cart.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := common.IdentityFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return
	}
	c, err := h.service.Get(r.Context(), id.CompanyID, id.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, viewOf(c))
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Qty       int64  `json:"qty" validate:"required,gt=0"`
}

// AddItem handles POST /api/v1/cart/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := common.IdentityFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return
	}
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "validation failed", err.Error())
		return
	}
	c, err := h.service.AddItem(r.Context(), id.CompanyID, id.UserID, req.ProductID, req.Qty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, viewOf(c))
}

type setQuantityRequest struct {
	Qty int64 `json:"qty" validate:"gte=0"`
}

// SetQuantity handles PUT /api/v1/cart/items/{productID}.
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := common.IdentityFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return
	}
	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	c, err := h.service.SetQuantity(r.Context(), id.CompanyID, id.UserID, chi.URLParam(r, "productID"), req.Qty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, viewOf(c))
}

// RemoveItem handles DELETE /api/v1/cart/items/{productID}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := common.IdentityFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return
	}
	c, err := h.service.RemoveItem(r.Context(), id.CompanyID, id.UserID, chi.URLParam(r, "productID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, viewOf(c))
}

// Clear handles DELETE /api/v1/cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	id, ok := common.IdentityFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return
	}
	if err := h.service.Clear(r.Context(), id.CompanyID, id.UserID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProductUnavailable):
		common.JSONError(w, http.StatusConflict, "PRODUCT_UNAVAILABLE", "product is not available", nil)
	case errors.Is(err, ErrInvalidQuantity):
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "quantity must be positive", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
