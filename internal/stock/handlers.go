package stock

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Hectotor/Inventory-web-sub000/internal/common"
)

// Handler exposes stock levels, alerts and the spreadsheet export. Routing
// restricts the whole group to staff; managers are additionally clamped to
// their own agency here.
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

// List handles GET /api/v1/stocks.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	stocks, agency, ok := h.scopedStocks(w, r)
	if !ok {
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":   stocks,
		"agency": agencyLabel(agency),
	})
}

// Alerts handles GET /api/v1/stocks/alerts.
func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	stocks, agency, ok := h.scopedStocks(w, r)
	if !ok {
		return
	}
	alerts := LowStock(stocks)
	if alerts == nil {
		alerts = []Alert{}
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":   alerts,
		"agency": agencyLabel(agency),
	})
}

// Export handles GET /api/v1/stocks/export and streams an XLSX workbook.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	stocks, _, ok := h.scopedStocks(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="stocks-%s.xlsx"`, time.Now().UTC().Format("2006-01-02")))
	if err := WriteXLSX(w, stocks); err != nil {
		// Headers may already be out; nothing useful left to send.
		return
	}
}

type upsertStockRequest struct {
	ProductID      string  `json:"productId" validate:"required"`
	AgencyID       string  `json:"agencyId" validate:"required"`
	LocationType   string  `json:"locationType" validate:"required,oneof=WAREHOUSE TRUCK"`
	LocationID     string  `json:"locationId" validate:"required"`
	Qty            string  `json:"qty" validate:"required"`
	AlertThreshold *string `json:"alertThreshold"`
	ClearThreshold bool    `json:"clearThreshold"`
}

// Upsert handles PUT /api/v1/stocks.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	id, ok := common.IdentityFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return
	}

	var req upsertStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "validation failed", err.Error())
		return
	}
	if id.Role == common.RoleManager && id.AgencyID != "" && req.AgencyID != id.AgencyID {
		common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "managers are limited to their own agency", nil)
		return
	}

	qty, err := decimal.NewFromString(strings.TrimSpace(req.Qty))
	if err != nil || qty.IsNegative() {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid quantity", nil)
		return
	}
	var threshold *decimal.Decimal
	if req.AlertThreshold != nil {
		t, err := decimal.NewFromString(strings.TrimSpace(*req.AlertThreshold))
		if err != nil || t.IsNegative() {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid threshold", nil)
			return
		}
		threshold = &t
	}

	s, err := h.repo.Upsert(r.Context(), UpsertParams{
		ProductID:      req.ProductID,
		AgencyID:       req.AgencyID,
		LocationType:   LocationType(req.LocationType),
		LocationID:     req.LocationID,
		Qty:            qty,
		AlertThreshold: threshold,
		ClearThreshold: req.ClearThreshold,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, s)
}

// scopedStocks loads the company's stock rows and applies the agency scope:
// query parameter for admins, the manager's own agency otherwise.
func (h *Handler) scopedStocks(w http.ResponseWriter, r *http.Request) ([]Stock, string, bool) {
	id, ok := common.IdentityFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return nil, "", false
	}

	agency := r.URL.Query().Get("agency")
	if agency == common.AgencyAll {
		agency = ""
	}
	if id.Role == common.RoleManager && id.AgencyID != "" {
		if agency != "" && agency != id.AgencyID {
			common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "managers are limited to their own agency", nil)
			return nil, "", false
		}
		agency = id.AgencyID
	}

	stocks, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.writeError(w, err)
		return nil, "", false
	}
	return FilterByAgency(stocks, agency), agency, true
}

func agencyLabel(agency string) string {
	if agency == "" {
		return common.AgencyAll
	}
	return agency
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "stock not found", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
