package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Hectotor/Inventory-web-sub000/internal/common"
)

// Handler exposes product endpoints. Reads are open to every authenticated
// user of the company; writes require a staff role at the routing layer.
type Handler struct {
	repo            *Repo
	validate        *validator.Validate
	defaultPageSize int
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Repo            *Repo
	DefaultPageSize int
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	size := cfg.DefaultPageSize
	if size <= 0 {
		size = 20
	}
	return &Handler{
		repo:            cfg.Repo,
		validate:        validator.New(),
		defaultPageSize: size,
	}
}

// List handles GET /api/v1/products.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	pg := common.ParsePagination(r, h.defaultPageSize)
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	items, err := h.repo.List(r.Context(), pg, includeInactive)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": pg,
	})
}

// Get handles GET /api/v1/products/{productID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")
	p, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, p)
}

type createProductRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=200"`
	SubName      *string `json:"subName" validate:"omitempty,max=200"`
	PriceExclTax string  `json:"priceExclTax" validate:"required"`
	TaxRate      *string `json:"taxRate"`
}

// Create handles POST /api/v1/products.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "validation failed", err.Error())
		return
	}

	price, err := parsePrice(req.PriceExclTax)
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid price", nil)
		return
	}
	rate, err := parseRate(req.TaxRate)
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid tax rate", nil)
		return
	}

	p, err := h.repo.Create(r.Context(), CreateParams{
		Name:         strings.TrimSpace(req.Name),
		SubName:      req.SubName,
		PriceExclTax: price,
		TaxRate:      rate,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, p)
}

type updateProductRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	SubName      *string `json:"subName" validate:"omitempty,max=200"`
	PriceExclTax *string `json:"priceExclTax"`
	TaxRate      *string `json:"taxRate"`
	ClearTaxRate bool    `json:"clearTaxRate"`
	Active       *bool   `json:"active"`
}

// Update handles PATCH /api/v1/products/{productID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "validation failed", err.Error())
		return
	}

	params := UpdateParams{
		Name:         req.Name,
		SubName:      req.SubName,
		ClearTaxRate: req.ClearTaxRate,
		Active:       req.Active,
	}
	if req.PriceExclTax != nil {
		price, err := parsePrice(*req.PriceExclTax)
		if err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid price", nil)
			return
		}
		params.PriceExclTax = &price
	}
	if req.TaxRate != nil {
		rate, err := parseRate(req.TaxRate)
		if err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid tax rate", nil)
			return
		}
		params.TaxRate = rate
	}

	p, err := h.repo.Update(r.Context(), chi.URLParam(r, "productID"), params)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, p)
}

func parsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, errors.New("negative price")
	}
	return d, nil
}

func parseRate(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*s))
	if err != nil {
		return nil, err
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return nil, errors.New("rate out of range")
	}
	return &d, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
