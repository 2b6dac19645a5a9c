package dues

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"duespay/internal/api/handlers"
	"duespay/internal/ledger"
	"duespay/internal/models"
	"duespay/internal/repositories/mysqlstore"
	"duespay/pkg/utils"

	"github.com/shopspring/decimal"
)

// Handler exposes due management (coordinator) and the member's own dues
// view. Ledger fields are always freshly derived before they leave the
// server.
type Handler struct {
	Engine *ledger.Engine
	Store  *mysqlstore.Dues
}

func New(engine *ledger.Engine, store *mysqlstore.Dues) *Handler {
	return &Handler{Engine: engine, Store: store}
}

// FUNC TO CREATE A DUE
func (h *Handler) CreateDueHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if handlers.RequesterRole(r) != models.RoleCoordinator {
		utils.WriteError(w, "only finance coordinators can create dues", http.StatusForbidden)
		return
	}

	type request struct {
		OwnerID           int             `json:"owner_id"`
		Title             string          `json:"title"`
		TotalAmountDue    decimal.Decimal `json:"total_amount_due"`
		MethodRestriction string          `json:"method_restriction"`
		DueDate           string          `json:"due_date"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.OwnerID <= 0 || req.Title == "" {
		utils.WriteError(w, "owner_id and title are required", http.StatusBadRequest)
		return
	}
	if req.TotalAmountDue.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "total amount due must be greater than 0", http.StatusBadRequest)
		return
	}

	if req.MethodRestriction == "" {
		req.MethodRestriction = ledger.RestrictAll
	}
	switch req.MethodRestriction {
	case ledger.RestrictAll, ledger.RestrictOnlineOnly, ledger.RestrictCashOnly:
	default:
		utils.WriteError(w, "invalid method restriction", http.StatusBadRequest)
		return
	}

	due := &models.Due{
		OwnerID:           req.OwnerID,
		Title:             req.Title,
		TotalAmountDue:    req.TotalAmountDue,
		MethodRestriction: req.MethodRestriction,
		Status:            ledger.StatusPending,
	}
	if req.DueDate != "" {
		if _, err := time.Parse("2006-01-02 15:04:05", req.DueDate); err != nil {
			utils.WriteError(w, "due_date must be formatted as 2006-01-02 15:04:05", http.StatusBadRequest)
			return
		}
		due.DueDate.String = req.DueDate
		due.DueDate.Valid = true
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	created, err := h.Store.CreateDue(ctx, due)
	if err != nil {
		utils.WriteError(w, "failed to create due", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "due created",
		"data":    created,
	})
}

// FUNC TO GET THE REQUESTER'S DUES
func (h *Handler) GetMyDuesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequesterID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	owned, err := h.Store.ListByOwner(ctx, userID)
	if err != nil {
		utils.WriteError(w, "failed to list dues", http.StatusInternalServerError)
		return
	}

	dues := []models.Due{}
	for _, due := range owned {
		fresh, err := h.Engine.Recompute(ctx, due.ID)
		if err != nil {
			utils.Logger.Errorf("failed to recompute ledger for due %d: %v", due.ID, err)
			utils.WriteError(w, "failed to derive due status", http.StatusInternalServerError)
			return
		}
		dues = append(dues, *fresh)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(dues),
		"data":   dues,
	})
}

// FUNC TO GET A DUE SUMMARY WITH CLAIM HISTORY
func (h *Handler) GetDueSummaryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	dueID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid due ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.RequesterID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.Engine.Summary(ctx, dueID)
	if err != nil {
		var nferr *ledger.NotFoundError
		if errors.As(err, &nferr) {
			utils.WriteError(w, nferr.Error(), http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to build due summary: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Members only see their own dues; coordinators see all of them.
	if summary.Due.OwnerID != userID && handlers.RequesterRole(r) != models.RoleCoordinator {
		utils.WriteError(w, "this due does not belong to you", http.StatusForbidden)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}
