// Package agency manages the company's agencies and their warehouses.
package agency

import "time"

// Agency is a regional branch of a company.
type Agency struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Warehouse is a fixed stock location attached to one agency.
type Warehouse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	AgencyID  string    `json:"agencyId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
