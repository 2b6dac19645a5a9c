package receipts

import (
	"io"
	"net/http"

	"duespay/internal/services"
	"duespay/pkg/utils"
)

const maxReceiptBytes = 5 << 20

// Handler accepts receipt uploads and serves them back by opaque
// reference. The reference is what a payment claim records as its proof
// pointer.
type Handler struct {
	Store *services.ReceiptStore
}

func New(store *services.ReceiptStore) *Handler {
	return &Handler{Store: store}
}

// FUNC TO UPLOAD A RECEIPT IMAGE
func (h *Handler) UploadReceiptHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxReceiptBytes)
	if err := r.ParseMultipartForm(maxReceiptBytes); err != nil {
		utils.WriteError(w, "receipt upload too large or malformed", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("receipt")
	if err != nil {
		utils.WriteError(w, "receipt file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.WriteError(w, "failed to read receipt upload", http.StatusInternalServerError)
		return
	}

	ref, err := h.Store.Store(data)
	if err != nil {
		utils.Logger.Errorf("failed to store receipt: %v", err)
		utils.WriteError(w, "failed to store receipt", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"receipt_ref": ref,
		},
	})
}

// FUNC TO SERVE A STORED RECEIPT
func (h *Handler) GetReceiptHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path, err := h.Store.Resolve(r.PathValue("ref"))
	if err != nil {
		utils.WriteError(w, "receipt not found", http.StatusNotFound)
		return
	}

	http.ServeFile(w, r, path)
}
