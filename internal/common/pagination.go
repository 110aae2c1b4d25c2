package common

import (
	"net/http"
	"strconv"
)

// Pagination carries the page window parsed from a list request.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Offset converts the 1-based page into a row offset.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination extracts page and limit query parameters, clamping limit to
// a sane ceiling.
func ParsePagination(r *http.Request, defaultLimit int) Pagination {
	pg := Pagination{Page: 1, Limit: defaultLimit}
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		pg.Page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		pg.Limit = l
	}
	if pg.Limit > 100 {
		pg.Limit = 100
	}
	return pg
}
