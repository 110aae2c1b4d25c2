package company

import (
	"net/http"

	"github.com/Hectotor/Inventory-web-sub000/internal/common"
)

// Middleware copies the authenticated caller's company onto the context so
// repositories downstream scope every query to it. It must run after the
// auth middleware.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := common.IdentityFrom(r.Context())
		if !ok || id.CompanyID == "" {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "no company resolved for caller", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(With(r.Context(), id.CompanyID)))
	})
}
