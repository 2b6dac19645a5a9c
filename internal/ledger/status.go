package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Due statuses derived from the verified-claim set.
const (
	StatusPending       = "pending"
	StatusPartiallyPaid = "partially_paid"
	StatusPaid          = "paid"
	StatusOverdue       = "overdue"
)

// Claim statuses. A claim leaves "pending" exactly once.
const (
	ClaimPending  = "pending"
	ClaimVerified = "verified"
	ClaimRejected = "rejected"
)

// Payment methods and due-level method restrictions.
const (
	MethodGCash = "gcash"
	MethodMaya  = "maya"
	MethodCash  = "cash"

	RestrictAll        = "all"
	RestrictOnlineOnly = "online_only"
	RestrictCashOnly   = "cash_only"
)

// Payment types. A claim for exactly the remaining balance is full,
// anything strictly less is partial.
const (
	TypeFull    = "full"
	TypePartial = "partial"
)

// Epsilon is the currency-rounding tolerance for "fully paid" and
// overpayment checks.
var Epsilon = decimal.New(1, -2)

// DeriveStatus computes a due's status from its ledger. It is the single
// derivation used by the recomputation path and every read path, never a
// stored value trusted on its own.
func DeriveStatus(total, paid decimal.Decimal, dueDate *time.Time, now time.Time) string {
	if paid.GreaterThanOrEqual(total.Sub(Epsilon)) {
		return StatusPaid
	}
	if paid.GreaterThan(decimal.Zero) {
		return StatusPartiallyPaid
	}
	if dueDate != nil && now.After(*dueDate) {
		return StatusOverdue
	}
	return StatusPending
}
