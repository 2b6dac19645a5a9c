package ledger

import (
	"strings"

	"duespay/internal/models"

	"github.com/shopspring/decimal"
)

// SubmitRequest is a payment claim as the member submitted it, before
// validation.
type SubmitRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	ReferenceID   string          `json:"reference_id"`
	ReceiptRef    string          `json:"receipt_ref"`
	CashConfirmed bool            `json:"cash_confirmed"`
}

// ValidatedClaim is a submission that passed all checks against a ledger
// snapshot. PaymentType records whether it settles the due in full.
type ValidatedClaim struct {
	Amount      decimal.Decimal
	Method      string
	PaymentType string
	ReferenceID string
	ReceiptRef  string
}

// Validate checks a submission against a snapshot of the due. It has no
// side effects; the snapshot's remaining balance may already be stale by
// the time a coordinator verifies, which is resolved at verification time.
func Validate(due *models.Due, req SubmitRequest) (*ValidatedClaim, *ValidationError) {
	method := strings.ToLower(strings.TrimSpace(req.Method))

	switch method {
	case MethodGCash, MethodMaya, MethodCash:
	default:
		return nil, &ValidationError{
			Code:    CodeMethodNotAllowed,
			Field:   "method",
			Message: "unknown payment method",
		}
	}

	switch due.MethodRestriction {
	case RestrictOnlineOnly:
		if method == MethodCash {
			return nil, &ValidationError{
				Code:    CodeMethodNotAllowed,
				Field:   "method",
				Message: "this due only accepts online payments",
			}
		}
	case RestrictCashOnly:
		if method != MethodCash {
			return nil, &ValidationError{
				Code:    CodeMethodNotAllowed,
				Field:   "method",
				Message: "this due only accepts cash payments",
			}
		}
	}

	if method == MethodGCash || method == MethodMaya {
		if strings.TrimSpace(req.ReferenceID) == "" {
			return nil, &ValidationError{
				Code:    CodeMissingProof,
				Field:   "reference_id",
				Message: "reference number is required for online payments",
			}
		}
		if strings.TrimSpace(req.ReceiptRef) == "" {
			return nil, &ValidationError{
				Code:    CodeMissingProof,
				Field:   "receipt_ref",
				Message: "receipt upload is required for online payments",
			}
		}
	}

	if method == MethodCash && !req.CashConfirmed {
		return nil, &ValidationError{
			Code:    CodeConfirmationRequired,
			Field:   "cash_confirmed",
			Message: "please confirm the cash handover before submitting",
		}
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, &ValidationError{
			Code:    CodeInvalidAmount,
			Field:   "amount",
			Message: "amount must be greater than 0",
		}
	}

	if due.Remaining.LessThanOrEqual(decimal.Zero) {
		return nil, &ValidationError{
			Code:    CodeAlreadySettled,
			Message: "this due is already fully paid",
		}
	}

	paymentType := TypePartial
	switch req.Amount.Cmp(due.Remaining) {
	case 0:
		paymentType = TypeFull
	case 1:
		return nil, &ValidationError{
			Code:    CodeInvalidAmount,
			Field:   "amount",
			Message: "amount exceeds the remaining balance",
		}
	}

	return &ValidatedClaim{
		Amount:      req.Amount,
		Method:      method,
		PaymentType: paymentType,
		ReferenceID: strings.TrimSpace(req.ReferenceID),
		ReceiptRef:  strings.TrimSpace(req.ReceiptRef),
	}, nil
}
