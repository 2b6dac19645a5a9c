package claims

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"duespay/internal/api/handlers"
	"duespay/internal/ledger"
	"duespay/internal/models"
	"duespay/pkg/utils"
)

// Handler exposes the payment-claim workflow: member submission, the
// coordinator's verify/reject decisions, and claim listings.
type Handler struct {
	Engine *ledger.Engine
	DB     *sql.DB
}

func New(engine *ledger.Engine, db *sql.DB) *Handler {
	return &Handler{Engine: engine, DB: db}
}

func writeLedgerError(w http.ResponseWriter, err error) {
	var verr *ledger.ValidationError
	var nferr *ledger.NotFoundError
	switch {
	case errors.As(err, &verr):
		utils.WriteFieldError(w, verr.Message, verr.Code, verr.Field, http.StatusBadRequest)
	case errors.As(err, &nferr):
		utils.WriteError(w, nferr.Error(), http.StatusNotFound)
	case errors.Is(err, ledger.ErrAlreadyDecided):
		utils.WriteError(w, "this claim was already decided by another coordinator, refresh to see its final state", http.StatusConflict)
	default:
		utils.Logger.Errorf("claim operation failed: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}

// FUNC TO SUBMIT A PAYMENT CLAIM
func (h *Handler) SubmitClaimHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	dueID, err := strconv.Atoi(r.PathValue("due_id"))
	if err != nil {
		utils.WriteError(w, "invalid due ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.RequesterID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req ledger.SubmitRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	claim, err := h.Engine.SubmitClaim(ctx, dueID, userID, req)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "payment claim submitted, awaiting coordinator verification",
		"data":    claim,
	})
}

// FUNC TO VERIFY A PENDING CLAIM
func (h *Handler) VerifyClaimHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	deciderID, ok := h.requireCoordinator(w, r)
	if !ok {
		return
	}

	claimID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid claim ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.Engine.Verify(ctx, claimID, deciderID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	go h.notifyDecision(result.Claim, result.Due)

	message := "payment claim verified"
	if result.Overpayment {
		message = "payment claim verified; verified payments exceed the due total, manual reconciliation required"
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": message,
		"data":    result,
	})
}

// FUNC TO REJECT A PENDING CLAIM
func (h *Handler) RejectClaimHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	deciderID, ok := h.requireCoordinator(w, r)
	if !ok {
		return
	}

	claimID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid claim ID", http.StatusBadRequest)
		return
	}

	type request struct {
		Note string `json:"note"`
	}
	var req request
	if r.Body != nil {
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			utils.WriteError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.Engine.Reject(ctx, claimID, deciderID, req.Note)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	go h.notifyDecision(result.Claim, result.Due)

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "payment claim rejected",
		"data":    result,
	})
}

// FUNC TO LIST PENDING CLAIMS FOR A DUE
func (h *Handler) ListPendingClaimsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, ok := h.requireCoordinator(w, r); !ok {
		return
	}

	dueID, err := strconv.Atoi(r.PathValue("due_id"))
	if err != nil {
		utils.WriteError(w, "invalid due ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pending, err := h.Engine.PendingClaims(ctx, dueID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	if pending == nil {
		pending = []models.PaymentClaim{}
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(pending),
		"data":   pending,
	})
}

// FUNC TO LIST THE REQUESTER'S OWN CLAIMS
func (h *Handler) ListMyClaimsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.DB == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	userID, ok := handlers.RequesterID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	page, limit := utils.GetPaginationParams(r)
	offset := (page - 1) * limit

	query := `
		SELECT id, due_id, claim_code, amount, method, payment_type, status, decision_note, decided_at, created_at
		FROM payment_claims
		WHERE submitter_id = ?
	`
	query = utils.AddSorting(r, query)
	query += " LIMIT ? OFFSET ?"

	rows, err := h.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		utils.Logger.Errorf("error fetching claims: %v", err)
		utils.WriteError(w, "error fetching claims", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	claims := []models.PaymentClaim{}
	for rows.Next() {
		var c models.PaymentClaim
		err = rows.Scan(&c.ID, &c.DueID, &c.ClaimCode, &c.Amount, &c.Method, &c.PaymentType,
			&c.Status, &c.DecisionNote, &c.DecidedAt, &c.CreatedAt)
		if err != nil {
			utils.Logger.Errorf("error scanning claim: %v", err)
			utils.WriteError(w, "error fetching claims", http.StatusInternalServerError)
			return
		}
		claims = append(claims, c)
	}
	if err = rows.Err(); err != nil {
		utils.WriteError(w, "error finalizing claims read", http.StatusInternalServerError)
		return
	}

	response := struct {
		Status   string                `json:"status"`
		Count    int                   `json:"count"`
		Page     int                   `json:"page"`
		PageSize int                   `json:"page_size"`
		Data     []models.PaymentClaim `json:"data"`
	}{
		Status:   "success",
		Count:    len(claims),
		Page:     page,
		PageSize: limit,
		Data:     claims,
	}

	utils.WriteJSON(w, response)
}

// requireCoordinator enforces the server-side role check at the decision
// entry points; the client's routing is never trusted.
func (h *Handler) requireCoordinator(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := handlers.RequesterID(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return 0, false
	}
	if handlers.RequesterRole(r) != models.RoleCoordinator {
		utils.WriteError(w, "only finance coordinators can decide payment claims", http.StatusForbidden)
		return 0, false
	}
	return userID, true
}

// notifyDecision emails the submitter about the decision. Best effort;
// a failed email never affects the API response.
func (h *Handler) notifyDecision(claim *models.PaymentClaim, due *models.Due) {
	if h.DB == nil {
		return
	}

	var firstName, email string
	err := h.DB.QueryRow("SELECT first_name, email FROM users WHERE id = ?", claim.SubmitterID).Scan(&firstName, &email)
	if err != nil {
		utils.Logger.Errorf("failed to look up submitter %d for decision email: %v", claim.SubmitterID, err)
		return
	}

	decidedAt := time.Now()
	if claim.DecidedAt.Valid {
		if t, err := time.Parse("2006-01-02 15:04:05", claim.DecidedAt.String); err == nil {
			decidedAt = t
		}
	}

	verified := claim.Status == ledger.ClaimVerified
	if err := utils.SendClaimDecisionEmail(email, firstName, claim.ClaimCode, due.Title, claim.Amount.StringFixed(2), verified, claim.DecisionNote, decidedAt); err != nil {
		utils.Logger.Errorf("failed to send decision email to %s: %v", email, err)
	}
}
