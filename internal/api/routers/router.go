package routers

import (
	"net/http"

	"duespay/internal/api/handlers/claims"
	"duespay/internal/api/handlers/dues"
	"duespay/internal/api/handlers/receipts"
)

func MainRouter(dh *dues.Handler, ch *claims.Handler, rh *receipts.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	uRouter := usersRouter()
	mux.Handle("/users/", uRouter)

	dRouter := duesRouter(dh)
	mux.Handle("/dues/", dRouter)

	cRouter := claimsRouter(ch)
	mux.Handle("/claims/", cRouter)

	rRouter := receiptsRouter(rh)
	mux.Handle("/receipts/", rRouter)

	return mux
}
