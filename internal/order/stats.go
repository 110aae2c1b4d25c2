package order

// Stats is the per-status breakdown shown on the dashboard.
type Stats struct {
	Preparation int `json:"preparation"`
	Taken       int `json:"taken"`
	InDelivery  int `json:"inDelivery"`
	Delivered   int `json:"delivered"`
	Total       int `json:"total"`
}

// TallyStatuses folds a list of statuses into dashboard counters. Unknown
// values count toward the total only, so a widened lifecycle never makes
// the board lie about volume.
func TallyStatuses(statuses []Status) Stats {
	var s Stats
	for _, st := range statuses {
		switch st {
		case StatusPreparation:
			s.Preparation++
		case StatusTaken:
			s.Taken++
		case StatusInDelivery:
			s.InDelivery++
		case StatusDelivered:
			s.Delivered++
		}
		s.Total++
	}
	return s
}
