package utils

import (
	"fmt"
	"net/http"
	"strconv"
)

func GetPaginationParams(r *http.Request) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	return page, limit
}

var sortableColumns = map[string]bool{
	"created_at": true,
	"amount":     true,
	"status":     true,
}

// AddSorting appends an ORDER BY clause from the sortby/order query
// params. Column names are checked against a whitelist; anything else is
// ignored.
func AddSorting(r *http.Request, query string) string {
	sortBy := r.URL.Query().Get("sortby")
	if !sortableColumns[sortBy] {
		return query
	}

	order := "ASC"
	if r.URL.Query().Get("order") == "desc" {
		order = "DESC"
	}

	return fmt.Sprintf("%s ORDER BY %s %s", query, sortBy, order)
}
