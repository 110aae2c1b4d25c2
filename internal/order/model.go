// Package order turns a cart snapshot into a priced, persisted order and
// tracks its delivery lifecycle.
package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the delivery lifecycle state of an order.
type Status string

const (
	StatusPreparation Status = "PREPARATION"
	StatusTaken       Status = "TAKEN"
	StatusInDelivery  Status = "IN_DELIVERY"
	StatusDelivered   Status = "DELIVERED"
)

var statusRank = map[Status]int{
	StatusPreparation: 0,
	StatusTaken:       1,
	StatusInDelivery:  2,
	StatusDelivered:   3,
}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := statusRank[s]; !ok {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// Rank is the position of the status in the lifecycle.
func (s Status) Rank() int {
	return statusRank[s]
}

// CanTransition reports whether an order may move from one status to
// another. The lifecycle only moves forward; skipping intermediate states
// is allowed, going back is not.
func CanTransition(from, to Status) bool {
	_, okFrom := statusRank[from]
	_, okTo := statusRank[to]
	return okFrom && okTo && to.Rank() > from.Rank()
}

// Line is one priced product on an order. Amounts are frozen at placement
// time; later price or rate changes never touch an existing order.
type Line struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"productId"`
	ProductName      string          `json:"productName"`
	Qty              int64           `json:"qty"`
	UnitPriceExclTax decimal.Decimal `json:"unitPriceExclTax"`
	TaxRate          decimal.Decimal `json:"taxRate"`
	TotalExclTax     decimal.Decimal `json:"totalExclTax"`
	TotalInclTax     decimal.Decimal `json:"totalInclTax"`
}

// Order is a placed order with its lines.
type Order struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"companyId"`
	CustomerID string    `json:"customerId"`
	SalesRepID *string   `json:"salesRepId,omitempty"`
	CreatedBy  string    `json:"createdBy"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	Lines      []Line    `json:"lines,omitempty"`
}

// TotalExclTax sums the line totals excluding tax.
func (o Order) TotalExclTax() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.TotalExclTax)
	}
	return total
}

// TotalInclTax sums the line totals including tax.
func (o Order) TotalInclTax() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.TotalInclTax)
	}
	return total
}
