package stock

import "github.com/Hectotor/Inventory-web-sub000/internal/common"

// FilterByAgency keeps only the rows of one agency. An empty value or the
// sentinel "ALL" returns the input unchanged.
func FilterByAgency(stocks []Stock, agencyID string) []Stock {
	if agencyID == "" || agencyID == common.AgencyAll {
		return stocks
	}
	out := make([]Stock, 0, len(stocks))
	for _, s := range stocks {
		if s.AgencyID == agencyID {
			out = append(out, s)
		}
	}
	return out
}
