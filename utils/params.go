package utils

import (
	"net/http"
	"strconv"
)

type QueryOptions struct {
	Page          int
	Limit         int
	Search        string
	Status        string
	PaymentMethod string
	DateRange     string
	StartDate     string
	EndDate       string
}

func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 10
	}

	return QueryOptions{
		Page:          page,
		Limit:         limit,
		Search:        q.Get("search"),
		Status:        q.Get("status"),
		PaymentMethod: q.Get("paymentMethod"),
		DateRange:     q.Get("dateRange"),
		StartDate:     q.Get("startDate"),
		EndDate:       q.Get("endDate"),
	}
}

// Pagination is the envelope block returned by every paginated listing.
type Pagination struct {
	TotalDocs   int64 `json:"totalDocs"`
	TotalPages  int64 `json:"totalPages"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

func NewPagination(totalDocs int64, page, limit int) Pagination {
	totalPages := (totalDocs + int64(limit) - 1) / int64(limit)
	return Pagination{
		TotalDocs:   totalDocs,
		TotalPages:  totalPages,
		Page:        page,
		Limit:       limit,
		HasNextPage: int64(page) < totalPages,
		HasPrevPage: page > 1,
	}
}
