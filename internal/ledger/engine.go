package ledger

import (
	"context"
	"sync"
	"time"

	"duespay/internal/models"

	"github.com/shopspring/decimal"
)

// Engine runs the payment-claim lifecycle: submission (validator-guarded
// create), verification and rejection (single terminal transition per
// claim), and the full ledger recomputation that keeps a due's paid and
// remaining amounts a pure function of its verified claims.
type Engine struct {
	dues   DueStore
	claims ClaimStore

	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewEngine(dues DueStore, claims ClaimStore) *Engine {
	return &Engine{
		dues:   dues,
		claims: claims,
		locks:  make(map[int]*sync.Mutex),
	}
}

// VerifyResult pairs the decided claim with the due's recomputed ledger.
// Overpayment is a warning, not a failure: the verification succeeded and
// the due needs manual reconciliation.
type VerifyResult struct {
	Due         *models.Due          `json:"due"`
	Claim       *models.PaymentClaim `json:"claim"`
	Overpayment bool                 `json:"overpayment"`
}

// DueSummary is a due with its full claim history, freshly derived.
type DueSummary struct {
	Due    *models.Due           `json:"due"`
	Claims []models.PaymentClaim `json:"claims"`
}

// dueLock returns the mutex serializing ledger recomputation for one due.
func (e *Engine) dueLock(dueID int) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[dueID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[dueID] = l
	}
	return l
}

// SubmitClaim validates a submission against the due's current ledger and
// records it as a pending claim. The ledger itself is untouched until a
// coordinator verifies.
func (e *Engine) SubmitClaim(ctx context.Context, dueID, submitterID int, req SubmitRequest) (*models.PaymentClaim, error) {
	due, err := e.Recompute(ctx, dueID)
	if err != nil {
		return nil, err
	}

	validated, verr := Validate(due, req)
	if verr != nil {
		return nil, verr
	}

	claim := &models.PaymentClaim{
		DueID:       dueID,
		SubmitterID: submitterID,
		Amount:      validated.Amount,
		Method:      validated.Method,
		PaymentType: validated.PaymentType,
		ReferenceID: validated.ReferenceID,
		ReceiptRef:  validated.ReceiptRef,
		Status:      ClaimPending,
	}
	return e.claims.CreateClaim(ctx, claim)
}

// Verify moves a pending claim to verified and recomputes the owning
// due's ledger. The transition happens first, so a racing second decision
// surfaces ErrAlreadyDecided before any ledger work; the recomputation is
// idempotent and safe to retry if persistence fails after the transition.
func (e *Engine) Verify(ctx context.Context, claimID, deciderID int) (*VerifyResult, error) {
	claim, err := e.claims.Transition(ctx, claimID, ClaimVerified, deciderID, "")
	if err != nil {
		return nil, err
	}

	due, overpaid, err := e.recompute(ctx, claim.DueID)
	if err != nil {
		return nil, err
	}

	return &VerifyResult{Due: due, Claim: claim, Overpayment: overpaid}, nil
}

// Reject moves a pending claim to rejected. The ledger is untouched
// because rejected claims never contributed to the paid amount; the claim
// row is kept as an audit record.
func (e *Engine) Reject(ctx context.Context, claimID, deciderID int, note string) (*VerifyResult, error) {
	claim, err := e.claims.Transition(ctx, claimID, ClaimRejected, deciderID, note)
	if err != nil {
		return nil, err
	}

	due, err := e.dues.GetDue(ctx, claim.DueID)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{Due: due, Claim: claim}, nil
}

// Recompute rebuilds a due's ledger from its verified claims and persists
// the snapshot. Calling it twice with no new claims yields the same
// result.
func (e *Engine) Recompute(ctx context.Context, dueID int) (*models.Due, error) {
	due, _, err := e.recompute(ctx, dueID)
	return due, err
}

func (e *Engine) recompute(ctx context.Context, dueID int) (*models.Due, bool, error) {
	lock := e.dueLock(dueID)
	lock.Lock()
	defer lock.Unlock()

	due, err := e.dues.GetDue(ctx, dueID)
	if err != nil {
		return nil, false, err
	}

	verified, err := e.claims.ListVerifiedByDue(ctx, dueID)
	if err != nil {
		return nil, false, err
	}

	paid := decimal.Zero
	for _, c := range verified {
		paid = paid.Add(c.Amount)
	}

	total := due.TotalAmountDue
	overpaid := paid.GreaterThan(total.Add(Epsilon))

	remaining := total.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	status := DeriveStatus(total, paid, parseDueDate(due), time.Now())

	due.AmountPaid = paid
	due.Remaining = remaining
	due.Status = status
	due.Overpaid = overpaid

	if err := e.dues.SaveLedger(ctx, due.ID, paid, remaining, status, overpaid); err != nil {
		return nil, false, err
	}
	return due, overpaid, nil
}

// Summary returns the due with a fresh ledger and its full claim history.
func (e *Engine) Summary(ctx context.Context, dueID int) (*DueSummary, error) {
	due, err := e.Recompute(ctx, dueID)
	if err != nil {
		return nil, err
	}
	claims, err := e.claims.ListByDue(ctx, dueID)
	if err != nil {
		return nil, err
	}
	return &DueSummary{Due: due, Claims: claims}, nil
}

// PendingClaims lists the claims awaiting a decision for one due.
func (e *Engine) PendingClaims(ctx context.Context, dueID int) ([]models.PaymentClaim, error) {
	if _, err := e.dues.GetDue(ctx, dueID); err != nil {
		return nil, err
	}
	return e.claims.ListPendingByDue(ctx, dueID)
}

func parseDueDate(due *models.Due) *time.Time {
	if !due.DueDate.Valid || due.DueDate.String == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02 15:04:05", due.DueDate.String)
	if err != nil {
		return nil
	}
	return &t
}
