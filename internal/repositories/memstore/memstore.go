// Package memstore holds an in-memory implementation of the ledger store
// interfaces. It backs the engine and handler tests; the API server uses
// the MySQL store.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"duespay/internal/ledger"
	"duespay/internal/models"

	"github.com/shopspring/decimal"
)

type Store struct {
	mu          sync.Mutex
	dues        map[int]*models.Due
	claims      map[int]*models.PaymentClaim
	nextDueID   int
	nextClaimID int
}

func New() *Store {
	return &Store{
		dues:        make(map[int]*models.Due),
		claims:      make(map[int]*models.PaymentClaim),
		nextDueID:   1,
		nextClaimID: 1,
	}
}

// AddDue seeds a due and returns it with an assigned id.
func (s *Store) AddDue(due *models.Due) *models.Due {
	s.mu.Lock()
	defer s.mu.Unlock()

	due.ID = s.nextDueID
	s.nextDueID++
	if due.Remaining.IsZero() && due.AmountPaid.IsZero() {
		due.Remaining = due.TotalAmountDue
	}
	if due.Status == "" {
		due.Status = ledger.StatusPending
	}
	copied := *due
	s.dues[due.ID] = &copied
	return due
}

func (s *Store) GetDue(ctx context.Context, id int) (*models.Due, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	due, ok := s.dues[id]
	if !ok {
		return nil, &ledger.NotFoundError{Kind: "due", ID: id}
	}
	copied := *due
	return &copied, nil
}

func (s *Store) SaveLedger(ctx context.Context, dueID int, paid, remaining decimal.Decimal, status string, overpaid bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	due, ok := s.dues[dueID]
	if !ok {
		return &ledger.NotFoundError{Kind: "due", ID: dueID}
	}
	due.AmountPaid = paid
	due.Remaining = remaining
	due.Status = status
	due.Overpaid = overpaid
	return nil
}

func (s *Store) CreateClaim(ctx context.Context, claim *models.PaymentClaim) (*models.PaymentClaim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claim.ID = s.nextClaimID
	s.nextClaimID++
	claim.ClaimCode = fmt.Sprintf("CLM-%06d", claim.ID)
	claim.CreatedAt.String = time.Now().Format("2006-01-02 15:04:05")
	claim.CreatedAt.Valid = true
	copied := *claim
	s.claims[claim.ID] = &copied
	return claim, nil
}

func (s *Store) GetClaim(ctx context.Context, id int) (*models.PaymentClaim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claim, ok := s.claims[id]
	if !ok {
		return nil, &ledger.NotFoundError{Kind: "claim", ID: id}
	}
	copied := *claim
	return &copied, nil
}

func (s *Store) ListByDue(ctx context.Context, dueID int) ([]models.PaymentClaim, error) {
	return s.listByDue(dueID, "")
}

func (s *Store) ListPendingByDue(ctx context.Context, dueID int) ([]models.PaymentClaim, error) {
	return s.listByDue(dueID, ledger.ClaimPending)
}

func (s *Store) ListVerifiedByDue(ctx context.Context, dueID int) ([]models.PaymentClaim, error) {
	return s.listByDue(dueID, ledger.ClaimVerified)
}

func (s *Store) listByDue(dueID int, status string) ([]models.PaymentClaim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.PaymentClaim
	for id := 1; id < s.nextClaimID; id++ {
		claim, ok := s.claims[id]
		if !ok || claim.DueID != dueID {
			continue
		}
		if status != "" && claim.Status != status {
			continue
		}
		out = append(out, *claim)
	}
	return out, nil
}

func (s *Store) Transition(ctx context.Context, claimID int, newStatus string, deciderID int, note string) (*models.PaymentClaim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claim, ok := s.claims[claimID]
	if !ok {
		return nil, &ledger.NotFoundError{Kind: "claim", ID: claimID}
	}
	if claim.Status != ledger.ClaimPending {
		return nil, ledger.ErrAlreadyDecided
	}

	claim.Status = newStatus
	claim.DecisionNote = note
	claim.DecidedBy.Int64 = int64(deciderID)
	claim.DecidedBy.Valid = true
	claim.DecidedAt.String = time.Now().Format("2006-01-02 15:04:05")
	claim.DecidedAt.Valid = true

	copied := *claim
	return &copied, nil
}
