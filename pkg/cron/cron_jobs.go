package cron

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"duespay/internal/ledger"
	"duespay/pkg/utils"

	"github.com/robfig/cron/v3"
)

func StartCronJobs(db *sql.DB, engine *ledger.Engine) *cron.Cron {
	c := cron.New()

	// Runs every 6 hours — refresh ledger snapshots of dues whose due
	// date has passed, so stored statuses flip to overdue without
	// waiting for a read.
	_, err := c.AddFunc("0 */6 * * *", func() {
		if err := RefreshOverdueLedgers(db, engine); err != nil {
			utils.Logger.Errorf("Cron job failed to refresh overdue ledgers: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule overdue refresh job: %v", err)
	}

	// Runs daily at midnight — remind members with outstanding overdue
	// balances.
	_, err = c.AddFunc("0 0 * * *", func() {
		if err := SendDueReminders(db); err != nil {
			utils.Logger.Errorf("Cron job failed to send due reminders: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule due reminder job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (overdue refresh every 6h, due reminders daily at midnight)")
	return c
}

// -------------------------------------------------------------
// Refresh ledger snapshots for dues past their due date
// -------------------------------------------------------------
func RefreshOverdueLedgers(db *sql.DB, engine *ledger.Engine) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT id FROM dues
		WHERE due_date IS NOT NULL AND due_date < ? AND status IN ('pending', 'partially_paid')
	`, time.Now().Format("2006-01-02 15:04:05"))
	if err != nil {
		return err
	}
	defer rows.Close()

	var refreshed int
	for rows.Next() {
		var dueID int
		if err := rows.Scan(&dueID); err != nil {
			utils.Logger.Errorf("Failed to scan due row: %v", err)
			continue
		}
		if _, err := engine.Recompute(ctx, dueID); err != nil {
			utils.Logger.Errorf("Failed to recompute ledger for due %d: %v", dueID, err)
			continue
		}
		refreshed++
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if refreshed > 0 {
		utils.Logger.Infof("Refreshed ledger snapshots for %d overdue dues", refreshed)
	}
	return nil
}

// -------------------------------------------------------------
// Send daily reminders for overdue dues (email sends run concurrently)
// -------------------------------------------------------------
func SendDueReminders(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT u.email, u.first_name, d.title, d.remaining, d.due_date
		FROM dues d
		JOIN users u ON d.owner_id = u.id
		WHERE d.due_date IS NOT NULL AND d.due_date < ? AND d.remaining > 0
	`, time.Now().Format("2006-01-02 15:04:05"))
	if err != nil {
		return err
	}
	defer rows.Close()

	var wg sync.WaitGroup
	errChan := make(chan error, 10)

	for rows.Next() {
		var (
			email, firstName, title string
			remaining               float64
			dueDateRaw              sql.NullString
		)

		if err := rows.Scan(&email, &firstName, &title, &remaining, &dueDateRaw); err != nil {
			utils.Logger.Errorf("Failed to scan due reminder row: %v", err)
			continue
		}

		dueDate := time.Now()
		if dueDateRaw.Valid {
			if parsed, err := time.Parse("2006-01-02 15:04:05", dueDateRaw.String); err == nil {
				dueDate = parsed
			}
		}

		wg.Add(1)
		go func(email, firstName, title string, remaining float64, dueDate time.Time) {
			defer wg.Done()

			remainingStr := fmt.Sprintf("%.2f", remaining)

			if err := utils.SendDueReminderEmail(email, firstName, remainingStr, title, dueDate); err != nil {
				errChan <- fmt.Errorf("failed to send due reminder to %s: %v", email, err)
				return
			}

			utils.Logger.Infof("Sent due reminder to %s (%s) — ₱%.2f remaining for '%s'",
				firstName, email, remaining, title)
		}(email, firstName, title, remaining, dueDate)
	}

	wg.Wait()
	close(errChan)

	for e := range errChan {
		utils.Logger.Error(e)
	}

	if err := rows.Err(); err != nil {
		utils.Logger.Errorf("Error iterating due reminder rows: %v", err)
		return err
	}

	return nil
}
