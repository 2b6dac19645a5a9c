package routers

import (
	"net/http"

	"duespay/internal/api/handlers/claims"
)

func claimsRouter(h *claims.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/claims/{due_id}/submit", h.SubmitClaimHandler)

	mux.HandleFunc("/claims/{due_id}/pending", h.ListPendingClaimsHandler)

	mux.HandleFunc("/claims/{id}/verify", h.VerifyClaimHandler)

	mux.HandleFunc("/claims/{id}/reject", h.RejectClaimHandler)

	mux.HandleFunc("/claims/member", h.ListMyClaimsHandler)

	return mux
}
