package ledger

import (
	"context"

	"duespay/internal/models"

	"github.com/shopspring/decimal"
)

// DueStore persists dues and their ledger snapshot. The snapshot columns
// are only ever written by a full recomputation, never incremented.
type DueStore interface {
	GetDue(ctx context.Context, id int) (*models.Due, error)
	SaveLedger(ctx context.Context, dueID int, paid, remaining decimal.Decimal, status string, overpaid bool) error
}

// ClaimStore persists payment claims. Transition must be atomic and
// conditional on the claim still being pending; a decided claim yields
// ErrAlreadyDecided. Claims are never deleted.
type ClaimStore interface {
	CreateClaim(ctx context.Context, claim *models.PaymentClaim) (*models.PaymentClaim, error)
	GetClaim(ctx context.Context, id int) (*models.PaymentClaim, error)
	ListByDue(ctx context.Context, dueID int) ([]models.PaymentClaim, error)
	ListPendingByDue(ctx context.Context, dueID int) ([]models.PaymentClaim, error)
	ListVerifiedByDue(ctx context.Context, dueID int) ([]models.PaymentClaim, error)
	Transition(ctx context.Context, claimID int, newStatus string, deciderID int, note string) (*models.PaymentClaim, error)
}
