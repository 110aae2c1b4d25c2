// Package user manages company accounts and their tax profile. Account
// credentials live in the external identity provider; this service only
// stores the profile referenced by orders and stock scoping.
package user

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is an account inside one company.
type User struct {
	ID        string           `json:"id"`
	CompanyID string           `json:"companyId"`
	AgencyID  *string          `json:"agencyId,omitempty"`
	Role      string           `json:"role"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	TaxExempt bool             `json:"taxExempt"`
	TaxRate   *decimal.Decimal `json:"taxRate,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}
