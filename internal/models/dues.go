package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Due struct {
	ID                int             `json:"id,omitempty" db:"id,omitempty"`
	OwnerID           int             `json:"owner_id,omitempty" db:"owner_id,omitempty"`
	Title             string          `json:"title,omitempty" db:"title,omitempty"`
	TotalAmountDue    decimal.Decimal `json:"total_amount_due" db:"total_amount_due"`
	MethodRestriction string          `json:"method_restriction,omitempty" db:"method_restriction,omitempty"`
	DueDate           sql.NullString  `json:"due_date,omitempty" db:"due_date,omitempty"`
	AmountPaid        decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	Remaining         decimal.Decimal `json:"remaining" db:"remaining"`
	Status            string          `json:"status,omitempty" db:"status,omitempty"`
	Overpaid          bool            `json:"overpaid,omitempty" db:"overpaid,omitempty"`
	CreatedAt         sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
