package agency

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Hectotor/Inventory-web-sub000/internal/common"
)

// Handler exposes agency endpoints. Reads are available to staff; creation
// is admin only at the routing layer.
type Handler struct {
	repo     *Repo
	validate *validator.Validate
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Repo *Repo
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{repo: cfg.Repo, validate: validator.New()}
}

// List handles GET /api/v1/agencies.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if items == nil {
		items = []Agency{}
	}
	common.JSONData(w, http.StatusOK, items)
}

// Get handles GET /api/v1/agencies/{agencyID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.repo.Get(r.Context(), chi.URLParam(r, "agencyID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, a)
}

type createAgencyRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// Create handles POST /api/v1/agencies.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAgencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "validation failed", err.Error())
		return
	}

	a, err := h.repo.Create(r.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, a)
}

// ListWarehouses handles GET /api/v1/agencies/{agencyID}/warehouses.
func (h *Handler) ListWarehouses(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListWarehouses(r.Context(), chi.URLParam(r, "agencyID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if items == nil {
		items = []Warehouse{}
	}
	common.JSONData(w, http.StatusOK, items)
}

type createWarehouseRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// CreateWarehouse handles POST /api/v1/agencies/{agencyID}/warehouses.
func (h *Handler) CreateWarehouse(w http.ResponseWriter, r *http.Request) {
	var req createWarehouseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "validation failed", err.Error())
		return
	}

	wh, err := h.repo.CreateWarehouse(r.Context(), chi.URLParam(r, "agencyID"), strings.TrimSpace(req.Name))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, wh)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "agency not found", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
