package routers

import (
	"net/http"

	"duespay/internal/api/handlers/dues"
)

func duesRouter(h *dues.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/dues/create", h.CreateDueHandler)

	mux.HandleFunc("/dues/member", h.GetMyDuesHandler)

	mux.HandleFunc("/dues/{id}/summary", h.GetDueSummaryHandler)

	return mux
}
