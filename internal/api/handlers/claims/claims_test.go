package claims_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"duespay/internal/api/handlers/claims"
	"duespay/internal/ledger"
	"duespay/internal/models"
	"duespay/internal/repositories/memstore"
	"duespay/pkg/utils"

	"github.com/shopspring/decimal"
)

// asUser injects the context values the JWT middleware would set, so the
// handlers can be exercised without minting real tokens.
func asUser(h http.Handler, userID int, role string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), utils.ContextKey("userId"), float64(userID))
		ctx = context.WithValue(ctx, utils.ContextKey("role"), role)
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newTestMux(h *claims.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/claims/{due_id}/submit", h.SubmitClaimHandler)
	mux.HandleFunc("/claims/{due_id}/pending", h.ListPendingClaimsHandler)
	mux.HandleFunc("/claims/{id}/verify", h.VerifyClaimHandler)
	mux.HandleFunc("/claims/{id}/reject", h.RejectClaimHandler)
	return mux
}

func setup(t *testing.T, total string) (*memstore.Store, *ledger.Engine, *http.ServeMux, *models.Due) {
	t.Helper()
	store := memstore.New()
	engine := ledger.NewEngine(store, store)
	due := store.AddDue(&models.Due{
		OwnerID:           7,
		Title:             "Org Shirt",
		TotalAmountDue:    decimal.RequireFromString(total),
		MethodRestriction: ledger.RestrictAll,
	})
	return store, engine, newTestMux(claims.New(engine, nil)), due
}

func postJSON(t *testing.T, h http.Handler, userID int, role, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	asUser(h, userID, role).ServeHTTP(rec, req)
	return rec
}

func TestSubmitThenVerifyFlow(t *testing.T) {
	_, engine, mux, due := setup(t, "1000")

	rec := postJSON(t, mux, 7, models.RoleMember, fmt.Sprintf("/claims/%d/submit", due.ID), map[string]interface{}{
		"amount":       "400",
		"method":       "gcash",
		"reference_id": "GC-20260315-001",
		"receipt_ref":  "9a3f3c1e-d0cf-4f57-a2bd-74c7bb5c8e01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, body %s", rec.Code, rec.Body.String())
	}

	var submitResp struct {
		Data models.PaymentClaim `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &submitResp); err != nil {
		t.Fatalf("failed to decode submit response: %v", err)
	}
	if submitResp.Data.Status != ledger.ClaimPending {
		t.Errorf("claim status = %q, want %q", submitResp.Data.Status, ledger.ClaimPending)
	}
	if submitResp.Data.ClaimCode == "" {
		t.Error("claim code missing from submit response")
	}

	rec = postJSON(t, mux, 99, models.RoleCoordinator, fmt.Sprintf("/claims/%d/verify", submitResp.Data.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d, body %s", rec.Code, rec.Body.String())
	}

	var verifyResp struct {
		Data ledger.VerifyResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &verifyResp); err != nil {
		t.Fatalf("failed to decode verify response: %v", err)
	}
	if verifyResp.Data.Overpayment {
		t.Error("unexpected overpayment signal")
	}
	if !verifyResp.Data.Due.Remaining.Equal(decimal.RequireFromString("600")) {
		t.Errorf("remaining = %s, want 600", verifyResp.Data.Due.Remaining)
	}

	// Recompute sees only the verified claim; fresh read stays stable.
	fresh, err := engine.Recompute(context.Background(), due.ID)
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	if fresh.Status != ledger.StatusPartiallyPaid {
		t.Errorf("due status = %q, want %q", fresh.Status, ledger.StatusPartiallyPaid)
	}
}

func TestSubmitValidationErrorShape(t *testing.T) {
	_, _, mux, due := setup(t, "1000")

	rec := postJSON(t, mux, 7, models.RoleMember, fmt.Sprintf("/claims/%d/submit", due.ID), map[string]interface{}{
		"amount": "400",
		"method": "cash",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}

	var errResp struct {
		Status    string `json:"status"`
		ErrorCode string `json:"error_code"`
		Field     string `json:"field"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if errResp.ErrorCode != ledger.CodeConfirmationRequired {
		t.Errorf("error_code = %q, want %q", errResp.ErrorCode, ledger.CodeConfirmationRequired)
	}
}

func TestVerifyTwiceConflicts(t *testing.T) {
	_, engine, mux, due := setup(t, "1000")

	claim, err := engine.SubmitClaim(context.Background(), due.ID, 7, ledger.SubmitRequest{
		Amount:        decimal.RequireFromString("400"),
		Method:        ledger.MethodCash,
		CashConfirmed: true,
	})
	if err != nil {
		t.Fatalf("SubmitClaim failed: %v", err)
	}

	rec := postJSON(t, mux, 99, models.RoleCoordinator, fmt.Sprintf("/claims/%d/verify", claim.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("first verify status = %d", rec.Code)
	}

	rec = postJSON(t, mux, 100, models.RoleCoordinator, fmt.Sprintf("/claims/%d/verify", claim.ID), nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("second verify status = %d, want 409; body %s", rec.Code, rec.Body.String())
	}
}

func TestRejectRecordsNote(t *testing.T) {
	_, engine, mux, due := setup(t, "1000")

	claim, err := engine.SubmitClaim(context.Background(), due.ID, 7, ledger.SubmitRequest{
		Amount:        decimal.RequireFromString("400"),
		Method:        ledger.MethodCash,
		CashConfirmed: true,
	})
	if err != nil {
		t.Fatalf("SubmitClaim failed: %v", err)
	}

	rec := postJSON(t, mux, 99, models.RoleCoordinator, fmt.Sprintf("/claims/%d/reject", claim.ID), map[string]interface{}{
		"note": "reference number does not match any GCash transaction",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("reject status = %d, body %s", rec.Code, rec.Body.String())
	}

	var rejectResp struct {
		Data ledger.VerifyResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rejectResp); err != nil {
		t.Fatalf("failed to decode reject response: %v", err)
	}
	if rejectResp.Data.Claim.Status != ledger.ClaimRejected {
		t.Errorf("claim status = %q, want %q", rejectResp.Data.Claim.Status, ledger.ClaimRejected)
	}
	if rejectResp.Data.Claim.DecisionNote == "" {
		t.Error("decision note missing from reject response")
	}
	if !rejectResp.Data.Due.Remaining.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("remaining = %s, want 1000 (reject leaves the ledger alone)", rejectResp.Data.Due.Remaining)
	}
}

func TestDecisionsRequireCoordinatorRole(t *testing.T) {
	_, engine, mux, due := setup(t, "1000")

	claim, err := engine.SubmitClaim(context.Background(), due.ID, 7, ledger.SubmitRequest{
		Amount:        decimal.RequireFromString("400"),
		Method:        ledger.MethodCash,
		CashConfirmed: true,
	})
	if err != nil {
		t.Fatalf("SubmitClaim failed: %v", err)
	}

	rec := postJSON(t, mux, 7, models.RoleMember, fmt.Sprintf("/claims/%d/verify", claim.ID), nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("member verify status = %d, want 403", rec.Code)
	}

	rec = postJSON(t, mux, 7, models.RoleMember, fmt.Sprintf("/claims/%d/reject", claim.ID), nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("member reject status = %d, want 403", rec.Code)
	}

	// The claim must still be pending after the forbidden attempts.
	fresh, err := engine.Summary(context.Background(), due.ID)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if fresh.Claims[0].Status != ledger.ClaimPending {
		t.Errorf("claim status = %q, want pending after forbidden attempts", fresh.Claims[0].Status)
	}
}

func TestListPendingClaims(t *testing.T) {
	_, engine, mux, due := setup(t, "1000")

	for _, amount := range []string{"100", "200"} {
		if _, err := engine.SubmitClaim(context.Background(), due.ID, 7, ledger.SubmitRequest{
			Amount:        decimal.RequireFromString(amount),
			Method:        ledger.MethodCash,
			CashConfirmed: true,
		}); err != nil {
			t.Fatalf("SubmitClaim failed: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/claims/%d/pending", due.ID), nil)
	rec := httptest.NewRecorder()
	asUser(mux, 99, models.RoleCoordinator).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("pending list status = %d, body %s", rec.Code, rec.Body.String())
	}

	var listResp struct {
		Count int                   `json:"count"`
		Data  []models.PaymentClaim `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to decode pending list: %v", err)
	}
	if listResp.Count != 2 || len(listResp.Data) != 2 {
		t.Errorf("pending count = %d (len %d), want 2", listResp.Count, len(listResp.Data))
	}

	// Members cannot see the coordinator queue.
	rec = httptest.NewRecorder()
	asUser(mux, 7, models.RoleMember).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("member pending list status = %d, want 403", rec.Code)
	}
}

func TestSubmitMissingDue(t *testing.T) {
	_, _, mux, _ := setup(t, "1000")

	rec := postJSON(t, mux, 7, models.RoleMember, "/claims/404/submit", map[string]interface{}{
		"amount":         "400",
		"method":         "cash",
		"cash_confirmed": true,
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404; body %s", rec.Code, rec.Body.String())
	}
}
