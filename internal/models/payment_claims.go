package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type PaymentClaim struct {
	ID           int             `json:"id,omitempty" db:"id,omitempty"`
	DueID        int             `json:"due_id,omitempty" db:"due_id,omitempty"`
	SubmitterID  int             `json:"submitter_id,omitempty" db:"submitter_id,omitempty"`
	ClaimCode    string          `json:"claim_code,omitempty" db:"claim_code,omitempty"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	Method       string          `json:"method,omitempty" db:"method,omitempty"`
	PaymentType  string          `json:"payment_type,omitempty" db:"payment_type,omitempty"`
	ReferenceID  string          `json:"reference_id,omitempty" db:"reference_id,omitempty"`
	ReceiptRef   string          `json:"receipt_ref,omitempty" db:"receipt_ref,omitempty"`
	Status       string          `json:"status,omitempty" db:"status,omitempty"`
	DecisionNote string          `json:"decision_note,omitempty" db:"decision_note,omitempty"`
	DecidedBy    sql.NullInt64   `json:"decided_by,omitempty" db:"decided_by,omitempty"`
	DecidedAt    sql.NullString  `json:"decided_at,omitempty" db:"decided_at,omitempty"`
	CreatedAt    sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
