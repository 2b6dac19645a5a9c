package ledger

import (
	"testing"

	"duespay/internal/models"

	"github.com/shopspring/decimal"
)

func testDue(total, remaining, restriction string) *models.Due {
	return &models.Due{
		ID:                1,
		TotalAmountDue:    decimal.RequireFromString(total),
		Remaining:         decimal.RequireFromString(remaining),
		MethodRestriction: restriction,
	}
}

func TestValidateCashRequiresConfirmation(t *testing.T) {
	due := testDue("1000", "1000", RestrictAll)

	for _, amount := range []string{"1", "500", "1000"} {
		_, verr := Validate(due, SubmitRequest{
			Amount:        decimal.RequireFromString(amount),
			Method:        MethodCash,
			CashConfirmed: false,
		})
		if verr == nil || verr.Code != CodeConfirmationRequired {
			t.Errorf("amount %s: expected ConfirmationRequired, got %v", amount, verr)
		}
	}
}

func TestValidateOnlineRequiresProof(t *testing.T) {
	due := testDue("1000", "1000", RestrictAll)

	_, verr := Validate(due, SubmitRequest{
		Amount:     decimal.RequireFromString("500"),
		Method:     MethodGCash,
		ReceiptRef: "9a3f3c1e-d0cf-4f57-a2bd-74c7bb5c8e01",
	})
	if verr == nil || verr.Code != CodeMissingProof {
		t.Fatalf("expected MissingProof for empty reference, got %v", verr)
	}
	if verr.Field != "reference_id" {
		t.Errorf("expected field reference_id, got %q", verr.Field)
	}

	_, verr = Validate(due, SubmitRequest{
		Amount:      decimal.RequireFromString("500"),
		Method:      MethodMaya,
		ReferenceID: "REF-123456",
	})
	if verr == nil || verr.Code != CodeMissingProof {
		t.Fatalf("expected MissingProof for missing receipt, got %v", verr)
	}
	if verr.Field != "receipt_ref" {
		t.Errorf("expected field receipt_ref, got %q", verr.Field)
	}
}

func TestValidateMethodRestriction(t *testing.T) {
	onlineOnly := testDue("1000", "1000", RestrictOnlineOnly)
	_, verr := Validate(onlineOnly, SubmitRequest{
		Amount:        decimal.RequireFromString("500"),
		Method:        MethodCash,
		CashConfirmed: true,
	})
	if verr == nil || verr.Code != CodeMethodNotAllowed {
		t.Errorf("cash on online_only: expected MethodNotAllowed, got %v", verr)
	}

	cashOnly := testDue("1000", "1000", RestrictCashOnly)
	_, verr = Validate(cashOnly, SubmitRequest{
		Amount:      decimal.RequireFromString("500"),
		Method:      MethodGCash,
		ReferenceID: "REF-123456",
		ReceiptRef:  "9a3f3c1e-d0cf-4f57-a2bd-74c7bb5c8e01",
	})
	if verr == nil || verr.Code != CodeMethodNotAllowed {
		t.Errorf("gcash on cash_only: expected MethodNotAllowed, got %v", verr)
	}

	_, verr = Validate(testDue("1000", "1000", RestrictAll), SubmitRequest{
		Amount: decimal.RequireFromString("500"),
		Method: "bank_transfer",
	})
	if verr == nil || verr.Code != CodeMethodNotAllowed {
		t.Errorf("unknown method: expected MethodNotAllowed, got %v", verr)
	}
}

func TestValidateAmountBounds(t *testing.T) {
	due := testDue("1000", "1000", RestrictAll)

	_, verr := Validate(due, SubmitRequest{
		Amount:        decimal.Zero,
		Method:        MethodCash,
		CashConfirmed: true,
	})
	if verr == nil || verr.Code != CodeInvalidAmount {
		t.Errorf("zero amount: expected InvalidAmount, got %v", verr)
	}

	_, verr = Validate(due, SubmitRequest{
		Amount:        decimal.RequireFromString("-50"),
		Method:        MethodCash,
		CashConfirmed: true,
	})
	if verr == nil || verr.Code != CodeInvalidAmount {
		t.Errorf("negative amount: expected InvalidAmount, got %v", verr)
	}

	_, verr = Validate(due, SubmitRequest{
		Amount:        decimal.RequireFromString("1000.01"),
		Method:        MethodCash,
		CashConfirmed: true,
	})
	if verr == nil || verr.Code != CodeInvalidAmount {
		t.Errorf("amount above remaining: expected InvalidAmount, got %v", verr)
	}
}

func TestValidatePaymentType(t *testing.T) {
	due := testDue("1000", "600", RestrictAll)

	validated, verr := Validate(due, SubmitRequest{
		Amount:        decimal.RequireFromString("600"),
		Method:        MethodCash,
		CashConfirmed: true,
	})
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if validated.PaymentType != TypeFull {
		t.Errorf("amount equal to remaining: expected %q, got %q", TypeFull, validated.PaymentType)
	}

	validated, verr = Validate(due, SubmitRequest{
		Amount:        decimal.RequireFromString("599.99"),
		Method:        MethodCash,
		CashConfirmed: true,
	})
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if validated.PaymentType != TypePartial {
		t.Errorf("amount below remaining: expected %q, got %q", TypePartial, validated.PaymentType)
	}
}

func TestValidateSettledDue(t *testing.T) {
	due := testDue("1000", "0", RestrictAll)

	_, verr := Validate(due, SubmitRequest{
		Amount:        decimal.RequireFromString("100"),
		Method:        MethodCash,
		CashConfirmed: true,
	})
	if verr == nil || verr.Code != CodeAlreadySettled {
		t.Errorf("settled due: expected AlreadySettled, got %v", verr)
	}
}
