package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Hectotor/Inventory-web-sub000/internal/common"
)

// Handler exposes user management endpoints. Routing restricts all of them
// to staff; role changes additionally require admin.
type Handler struct {
	repo            *Repo
	provisioner     *Provisioner
	validate        *validator.Validate
	defaultPageSize int
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Repo            *Repo
	Provisioner     *Provisioner
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
		provisioner:     cfg.Provisioner,
		validate:        validator.New(),
		defaultPageSize: size,
	}
}

// List handles GET /api/v1/users.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	pg := common.ParsePagination(r, h.defaultPageSize)
	role := r.URL.Query().Get("role")
	if role != "" && !common.ValidRole(role) {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "unknown role", nil)
		return
	}

	items, err := h.repo.List(r.Context(), pg, role)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": pg,
	})
}

// Get handles GET /api/v1/users/{userID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.repo.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, u)
}

type createUserRequest struct {
	AgencyID  *string `json:"agencyId"`
	Role      string  `json:"role" validate:"required,oneof=admin manager customer"`
	Email     string  `json:"email" validate:"required,email"`
	Name      string  `json:"name" validate:"required,min=1,max=200"`
	TaxExempt bool    `json:"taxExempt"`
	TaxRate   *string `json:"taxRate"`
}

// Create handles POST /api/v1/users: inserts the profile, then provisions
// credentials at the identity provider. Provisioning failure is reported but
// the profile stays; the operation can be retried from the provider side.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "validation failed", err.Error())
		return
	}
	rate, err := parseRate(req.TaxRate)
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid tax rate", nil)
		return
	}

	u, err := h.repo.Create(r.Context(), CreateParams{
		AgencyID:  req.AgencyID,
		Role:      req.Role,
		Email:     strings.TrimSpace(req.Email),
		Name:      strings.TrimSpace(req.Name),
		TaxExempt: req.TaxExempt,
		TaxRate:   rate,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	message, err := h.provisioner.Provision(r.Context(), u)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("user_id", u.ID).Msg("account provisioning failed")
		common.JSON(w, http.StatusCreated, map[string]any{
			"data":    u,
			"warning": "profile created but credential provisioning failed",
		})
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{
		"data":    u,
		"message": message,
	})
}

type updateUserRequest struct {
	AgencyID     *string `json:"agencyId"`
	Role         *string `json:"role" validate:"omitempty,oneof=admin manager customer"`
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	TaxExempt    *bool   `json:"taxExempt"`
	TaxRate      *string `json:"taxRate"`
	ClearTaxRate bool    `json:"clearTaxRate"`
}

// Update handles PATCH /api/v1/users/{userID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "validation failed", err.Error())
		return
	}

	if req.Role != nil {
		id, ok := common.IdentityFrom(r.Context())
		if !ok || !id.IsAdmin() {
			common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "only admins can change roles", nil)
			return
		}
	}

	rate, err := parseRate(req.TaxRate)
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid tax rate", nil)
		return
	}

	u, err := h.repo.Update(r.Context(), chi.URLParam(r, "userID"), UpdateParams{
		AgencyID:     req.AgencyID,
		Role:         req.Role,
		Name:         req.Name,
		TaxExempt:    req.TaxExempt,
		TaxRate:      rate,
		ClearTaxRate: req.ClearTaxRate,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, u)
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
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
	case errors.Is(err, ErrDuplicateEmail):
		common.JSONError(w, http.StatusConflict, "DUPLICATE_EMAIL", "email already in use", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
