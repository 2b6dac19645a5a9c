package routers

import (
	"net/http"

	"duespay/internal/api/handlers/receipts"
)

func receiptsRouter(h *receipts.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/receipts/upload", h.UploadReceiptHandler)

	mux.HandleFunc("/receipts/{ref}", h.GetReceiptHandler)

	return mux
}
