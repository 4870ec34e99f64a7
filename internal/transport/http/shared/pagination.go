package shared

import (
	"net/http"
	"strconv"
)

type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination reads 1-based page/limit query params, falling back
// to page 1 and defaultLimit.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	page := 1
	limit := defaultLimit
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

// Meta builds the pagination block of list responses. totalKey names
// the per-entity total field, e.g. "totalDepartments".
func Meta(p Pagination, total int, totalKey string) map[string]any {
	totalPages := total / p.Limit
	if total%p.Limit != 0 {
		totalPages++
	}
	return map[string]any{
		"currentPage": p.Page,
		"totalPages":  totalPages,
		totalKey:      total,
		"limit":       p.Limit,
	}
}
