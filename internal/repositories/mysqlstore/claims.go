package mysqlstore

import (
	"context"
	"database/sql"
	"time"

	"duespay/internal/ledger"
	"duespay/internal/models"
	"duespay/internal/services"
	"duespay/pkg/utils"
)

// Claims is the MySQL-backed payment claim store. Rows are never deleted;
// a decided claim stays as an audit record.
type Claims struct {
	DB *sql.DB
}

func NewClaims(db *sql.DB) *Claims {
	return &Claims{DB: db}
}

const claimColumns = "id, due_id, submitter_id, claim_code, amount, method, payment_type, reference_id, receipt_ref, status, decision_note, decided_by, decided_at, created_at"

func scanClaim(scan func(dest ...interface{}) error) (*models.PaymentClaim, error) {
	var c models.PaymentClaim
	err := scan(&c.ID, &c.DueID, &c.SubmitterID, &c.ClaimCode, &c.Amount, &c.Method, &c.PaymentType,
		&c.ReferenceID, &c.ReceiptRef, &c.Status, &c.DecisionNote, &c.DecidedBy, &c.DecidedAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Claims) CreateClaim(ctx context.Context, claim *models.PaymentClaim) (*models.PaymentClaim, error) {
	claim.ClaimCode = services.GenerateReference("CLM")

	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO payment_claims (due_id, submitter_id, claim_code, amount, method, payment_type, reference_id, receipt_ref, status, decision_note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, '', ?)`,
		claim.DueID, claim.SubmitterID, claim.ClaimCode, claim.Amount, claim.Method, claim.PaymentType,
		claim.ReferenceID, claim.ReceiptRef, ledger.ClaimPending, time.Now().Format("2006-01-02 15:04:05"))
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to create payment claim")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to read claim id")
	}
	return s.GetClaim(ctx, int(id))
}

func (s *Claims) GetClaim(ctx context.Context, id int) (*models.PaymentClaim, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT "+claimColumns+" FROM payment_claims WHERE id = ?", id)
	claim, err := scanClaim(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &ledger.NotFoundError{Kind: "claim", ID: id}
		}
		return nil, utils.ErrorHandler(err, "failed to retrieve claim")
	}
	return claim, nil
}

func (s *Claims) ListByDue(ctx context.Context, dueID int) ([]models.PaymentClaim, error) {
	return s.listByDue(ctx, dueID, "")
}

func (s *Claims) ListPendingByDue(ctx context.Context, dueID int) ([]models.PaymentClaim, error) {
	return s.listByDue(ctx, dueID, ledger.ClaimPending)
}

func (s *Claims) ListVerifiedByDue(ctx context.Context, dueID int) ([]models.PaymentClaim, error) {
	return s.listByDue(ctx, dueID, ledger.ClaimVerified)
}

func (s *Claims) listByDue(ctx context.Context, dueID int, status string) ([]models.PaymentClaim, error) {
	query := "SELECT " + claimColumns + " FROM payment_claims WHERE due_id = ?"
	args := []interface{}{dueID}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to list claims")
	}
	defer rows.Close()

	var claims []models.PaymentClaim
	for rows.Next() {
		claim, err := scanClaim(rows.Scan)
		if err != nil {
			return nil, utils.ErrorHandler(err, "failed to scan claim")
		}
		claims = append(claims, *claim)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.ErrorHandler(err, "failed to read claims")
	}
	return claims, nil
}

// Transition atomically moves a pending claim to its terminal status. The
// conditional UPDATE is the concurrency guard: a claim that already left
// pending is reported as already decided, never silently re-decided.
func (s *Claims) Transition(ctx context.Context, claimID int, newStatus string, deciderID int, note string) (*models.PaymentClaim, error) {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE payment_claims
		SET status = ?, decided_by = ?, decided_at = ?, decision_note = ?
		WHERE id = ? AND status = ?`,
		newStatus, deciderID, time.Now().Format("2006-01-02 15:04:05"), note, claimID, ledger.ClaimPending)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to transition claim")
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to read transition result")
	}
	if rowsAffected == 0 {
		var exists bool
		err := s.DB.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM payment_claims WHERE id = ?)", claimID).Scan(&exists)
		if err != nil {
			return nil, utils.ErrorHandler(err, "failed to check claim")
		}
		if !exists {
			return nil, &ledger.NotFoundError{Kind: "claim", ID: claimID}
		}
		return nil, ledger.ErrAlreadyDecided
	}

	return s.GetClaim(ctx, claimID)
}
