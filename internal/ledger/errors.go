package ledger

import (
	"errors"
	"fmt"
)

// Validation error codes returned by the submission validator.
const (
	CodeMethodNotAllowed     = "method_not_allowed"
	CodeMissingProof         = "missing_proof"
	CodeConfirmationRequired = "confirmation_required"
	CodeInvalidAmount        = "invalid_amount"
	CodeAlreadySettled       = "already_settled"
)

// ValidationError reports a field-level submission problem. It never
// indicates a state change; the submitter can correct the input and retry.
type ValidationError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrAlreadyDecided is returned when a transition races with an earlier
// decision on the same claim. Decisions are final, so the caller must
// re-fetch the claim instead of retrying.
var ErrAlreadyDecided = errors.New("claim has already been decided")

type NotFoundError struct {
	Kind string
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}
