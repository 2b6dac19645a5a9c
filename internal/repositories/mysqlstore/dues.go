package mysqlstore

import (
	"context"
	"database/sql"
	"time"

	"duespay/internal/ledger"
	"duespay/internal/models"
	"duespay/pkg/utils"

	"github.com/shopspring/decimal"
)

// Dues is the MySQL-backed due store. The ledger columns on the dues row
// are a snapshot only; they are overwritten wholesale by SaveLedger and
// never incremented.
type Dues struct {
	DB *sql.DB
}

func NewDues(db *sql.DB) *Dues {
	return &Dues{DB: db}
}

const dueColumns = "id, owner_id, title, total_amount_due, method_restriction, due_date, amount_paid, remaining, status, overpaid, created_at"

func scanDue(row *sql.Row) (*models.Due, error) {
	var due models.Due
	err := row.Scan(&due.ID, &due.OwnerID, &due.Title, &due.TotalAmountDue, &due.MethodRestriction,
		&due.DueDate, &due.AmountPaid, &due.Remaining, &due.Status, &due.Overpaid, &due.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &due, nil
}

func (s *Dues) GetDue(ctx context.Context, id int) (*models.Due, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT "+dueColumns+" FROM dues WHERE id = ?", id)
	due, err := scanDue(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &ledger.NotFoundError{Kind: "due", ID: id}
		}
		return nil, utils.ErrorHandler(err, "failed to retrieve due")
	}
	return due, nil
}

func (s *Dues) SaveLedger(ctx context.Context, dueID int, paid, remaining decimal.Decimal, status string, overpaid bool) error {
	res, err := s.DB.ExecContext(ctx,
		"UPDATE dues SET amount_paid = ?, remaining = ?, status = ?, overpaid = ? WHERE id = ?",
		paid, remaining, status, overpaid, dueID)
	if err != nil {
		return utils.ErrorHandler(err, "failed to save due ledger")
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		// RowsAffected is 0 both for a missing row and for an unchanged
		// snapshot, so confirm the due exists before reporting not found.
		var exists bool
		if err := s.DB.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM dues WHERE id = ?)", dueID).Scan(&exists); err == nil && !exists {
			return &ledger.NotFoundError{Kind: "due", ID: dueID}
		}
	}
	return nil
}

func (s *Dues) CreateDue(ctx context.Context, due *models.Due) (*models.Due, error) {
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO dues (owner_id, title, total_amount_due, method_restriction, due_date, amount_paid, remaining, status, overpaid, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?, FALSE, ?)`,
		due.OwnerID, due.Title, due.TotalAmountDue, due.MethodRestriction, due.DueDate,
		due.TotalAmountDue, due.Status, time.Now().Format("2006-01-02 15:04:05"))
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to create due")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to read due id")
	}
	due.ID = int(id)
	due.AmountPaid = decimal.Zero
	due.Remaining = due.TotalAmountDue
	return due, nil
}

func (s *Dues) ListByOwner(ctx context.Context, ownerID int) ([]models.Due, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT "+dueColumns+" FROM dues WHERE owner_id = ? ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to list dues")
	}
	defer rows.Close()

	var dues []models.Due
	for rows.Next() {
		var due models.Due
		err := rows.Scan(&due.ID, &due.OwnerID, &due.Title, &due.TotalAmountDue, &due.MethodRestriction,
			&due.DueDate, &due.AmountPaid, &due.Remaining, &due.Status, &due.Overpaid, &due.CreatedAt)
		if err != nil {
			return nil, utils.ErrorHandler(err, "failed to scan due")
		}
		dues = append(dues, due)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.ErrorHandler(err, "failed to read dues")
	}
	return dues, nil
}
