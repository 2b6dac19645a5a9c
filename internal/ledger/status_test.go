package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name    string
		total   string
		paid    string
		dueDate *time.Time
		want    string
	}{
		{"nothing paid, no due date", "1000", "0", nil, StatusPending},
		{"nothing paid, future due date", "1000", "0", &future, StatusPending},
		{"nothing paid, past due date", "1000", "0", &past, StatusOverdue},
		{"partially paid", "1000", "400", nil, StatusPartiallyPaid},
		{"partially paid past due date stays partial", "1000", "400", &past, StatusPartiallyPaid},
		{"fully paid", "1000", "1000", nil, StatusPaid},
		{"paid within rounding epsilon", "100", "99.99", nil, StatusPaid},
		{"just below epsilon is partial", "100", "99.98", nil, StatusPartiallyPaid},
		{"overpaid still reads paid", "1000", "1100", &past, StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := decimal.RequireFromString(tt.total)
			paid := decimal.RequireFromString(tt.paid)
			got := DeriveStatus(total, paid, tt.dueDate, now)
			if got != tt.want {
				t.Errorf("DeriveStatus(%s, %s) = %q, want %q", tt.total, tt.paid, got, tt.want)
			}
		})
	}
}
