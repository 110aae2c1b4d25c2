package order

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Hectotor/Inventory-web-sub000/internal/common"
)

type updateStatusRequest struct {
	Status string `json:"status"`
}

// PatchStatus handles PATCH /api/v1/orders/{orderID}/status. Routing
// restricts it to staff.
func (h *Handler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	to, err := ParseStatus(req.Status)
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "unknown status", nil)
		return
	}

	o, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "orderID"), to)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, o)
}
