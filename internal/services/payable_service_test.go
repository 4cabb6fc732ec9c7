package services

import (
	"context"
	"testing"

	"moneyboard/internal/dates"
	"moneyboard/internal/models"
	"moneyboard/internal/pagination"
	"moneyboard/internal/testutil"
)

func TestCreatePayable(t *testing.T) {
	ctx := context.Background()

	t.Run("one_off", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		category := testutil.CreateTestCategory(t, db, tenant.ID, nil)

		p, err := svc.CreatePayable(ctx, tenant.ID, PayableInput{
			Description: "Car insurance",
			Amount:      testutil.Money("420.00"),
			DueDate:     dates.New(2024, 6, 30),
			CategoryID:  category.ID,
			Notes:       "annual",
		})
		testutil.AssertNoError(t, err)

		if p.Status != models.PayableStatusPending {
			t.Errorf("expected pending, got %s", p.Status)
		}
		if p.CurrentInstallment != nil || p.TotalInstallments != nil {
			t.Errorf("expected no installments on a one-off payable")
		}
	})

	t.Run("recurring_starts_at_first_installment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		category := testutil.CreateTestCategory(t, db, tenant.ID, nil)

		p, err := svc.CreatePayable(ctx, tenant.ID, PayableInput{
			Description: "Phone", Amount: testutil.Money("30"), DueDate: dates.New(2024, 1, 10),
			CategoryID: category.ID, IsRecurring: true, TotalInstallments: intPtr(12),
		})
		testutil.AssertNoError(t, err)

		if p.CurrentInstallment == nil || *p.CurrentInstallment != 1 {
			t.Errorf("expected current installment 1, got %v", p.CurrentInstallment)
		}
		if p.TotalInstallments == nil || *p.TotalInstallments != 12 {
			t.Errorf("expected 12 installments, got %v", p.TotalInstallments)
		}
	})

	t.Run("installments_require_recurrence", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		category := testutil.CreateTestCategory(t, db, tenant.ID, nil)

		_, err := svc.CreatePayable(ctx, tenant.ID, PayableInput{
			Description: "Phone", Amount: testutil.Money("30"), DueDate: dates.New(2024, 1, 10),
			CategoryID: category.ID, TotalInstallments: intPtr(3),
		})
		testutil.AssertAppError(t, err, "INVALID_INSTALLMENTS")
	})

	t.Run("zero_installments", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		category := testutil.CreateTestCategory(t, db, tenant.ID, nil)

		_, err := svc.CreatePayable(ctx, tenant.ID, PayableInput{
			Description: "Phone", Amount: testutil.Money("30"), DueDate: dates.New(2024, 1, 10),
			CategoryID: category.ID, IsRecurring: true, TotalInstallments: intPtr(0),
		})
		testutil.AssertAppError(t, err, "INVALID_INSTALLMENTS")
	})

	t.Run("required_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		category := testutil.CreateTestCategory(t, db, tenant.ID, nil)
		valid := PayableInput{
			Description: "Rent", Amount: testutil.Money("900"), DueDate: dates.New(2024, 1, 1), CategoryID: category.ID,
		}

		tests := []struct {
			name   string
			mutate func(in *PayableInput)
		}{
			{"missing_description", func(in *PayableInput) { in.Description = "  " }},
			{"zero_amount", func(in *PayableInput) { in.Amount = testutil.Money("0") }},
			{"missing_due_date", func(in *PayableInput) { in.DueDate = dates.Date{} }},
			{"missing_category", func(in *PayableInput) { in.CategoryID = "" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				in := valid
				tt.mutate(&in)
				_, err := svc.CreatePayable(ctx, tenant.ID, in)
				testutil.AssertAppError(t, err, "INVALID_INPUT")
			})
		}
	})

	t.Run("foreign_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		other := testutil.CreateTestTenant(t, db)
		category := testutil.CreateTestCategory(t, db, other.ID, nil)

		_, err := svc.CreatePayable(ctx, tenant.ID, PayableInput{
			Description: "Rent", Amount: testutil.Money("900"), DueDate: dates.New(2024, 1, 1), CategoryID: category.ID,
		})
		testutil.AssertAppError(t, err, "INVALID_CATEGORY")
	})
}

func TestPayPayable(t *testing.T) {
	ctx := context.Background()

	t.Run("two_installment_scenario", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		category := testutil.CreateTestCategory(t, db, tenant.ID, nil)
		account := testutil.CreateTestAccountWithBalance(t, db, tenant.ID, "500")

		first, err := svc.CreatePayable(ctx, tenant.ID, PayableInput{
			Description: "Laptop", Amount: testutil.Money("100"), DueDate: dates.New(2024, 1, 15),
			CategoryID: category.ID, IsRecurring: true, TotalInstallments: intPtr(2), Notes: "store card",
		})
		testutil.AssertNoError(t, err)

		result, err := svc.PayPayable(ctx, tenant.ID, first.ID, PaymentInput{AccountID: account.ID})
		testutil.AssertNoError(t, err)
		testutil.AssertBalance(t, db, account.ID, "400")

		if result.Payable.Status != models.PayableStatusPaid {
			t.Errorf("expected paid, got %s", result.Payable.Status)
		}
		if result.Payable.PaidTransactionID == nil || *result.Payable.PaidTransactionID != result.TransactionID {
			t.Errorf("expected payable linked to transaction %s", result.TransactionID)
		}
		if result.Payable.PaidAccountID == nil || *result.Payable.PaidAccountID != account.ID {
			t.Errorf("expected payable linked to account %s", account.ID)
		}
		if result.PaidAt.IsZero() {
			t.Error("expected paid timestamp")
		}

		next := result.Next
		if next == nil {
			t.Fatal("expected a successor payable")
		}
		if got := next.DueDate.String(); got != "2024-02-15" {
			t.Errorf("expected due date 2024-02-15, got %s", got)
		}
		if next.CurrentInstallment == nil || *next.CurrentInstallment != 2 {
			t.Errorf("expected installment 2, got %v", next.CurrentInstallment)
		}
		if next.Status != models.PayableStatusPending || next.Notes != "store card" || next.Description != "Laptop" {
			t.Errorf("successor did not carry fields forward: %+v", next)
		}
		testutil.AssertDecimal(t, next.Amount, "100")

		result, err = svc.PayPayable(ctx, tenant.ID, next.ID, PaymentInput{AccountID: account.ID})
		testutil.AssertNoError(t, err)
		testutil.AssertBalance(t, db, account.ID, "300")
		if result.Next != nil {
			t.Errorf("expected no third payable, got %s", result.Next.ID)
		}
		if n := testutil.CountRows(t, db, &models.Payable{}); n != 2 {
			t.Errorf("expected 2 payables in total, got %d", n)
		}
	})

	t.Run("three_installments_spawn_two_successors", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		category := testutil.CreateTestCategory(t, db, tenant.ID, nil)
		account := testutil.CreateTestAccountWithBalance(t, db, tenant.ID, "1000")

		p, err := svc.CreatePayable(ctx, tenant.ID, PayableInput{
			Description: "Course", Amount: testutil.Money("75.50"), DueDate: dates.New(2024, 1, 31),
			CategoryID: category.ID, IsRecurring: true, TotalInstallments: intPtr(3),
		})
		testutil.AssertNoError(t, err)

		successors := 0
		var dueDates []string
		for current := p; current != nil; {
			dueDates = append(dueDates, current.DueDate.String())
			result, err := svc.PayPayable(ctx, tenant.ID, current.ID, PaymentInput{AccountID: account.ID})
			testutil.AssertNoError(t, err)
			current = result.Next
			if current != nil {
				successors++
			}
			if successors > 3 {
				t.Fatal("recurrence did not terminate")
			}
		}

		if successors != 2 {
			t.Errorf("expected 2 successors, got %d", successors)
		}
		want := []string{"2024-01-31", "2024-02-29", "2024-03-29"}
		for i := range want {
			if i >= len(dueDates) || dueDates[i] != want[i] {
				t.Errorf("expected due dates %v, got %v", want, dueDates)
				break
			}
		}
		testutil.AssertBalance(t, db, account.ID, "773.50")
	})

	t.Run("unbounded_recurrence", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		category := testutil.CreateTestCategory(t, db, tenant.ID, nil)
		account := testutil.CreateTestAccount(t, db, tenant.ID)

		p, err := svc.CreatePayable(ctx, tenant.ID, PayableInput{
			Description: "Gym", Amount: testutil.Money("40"), DueDate: dates.New(2024, 12, 5),
			CategoryID: category.ID, IsRecurring: true,
		})
		testutil.AssertNoError(t, err)

		result, err := svc.PayPayable(ctx, tenant.ID, p.ID, PaymentInput{AccountID: account.ID})
		testutil.AssertNoError(t, err)
		if result.Next == nil {
			t.Fatal("expected a successor for an unbounded payable")
		}
		if got := result.Next.DueDate.String(); got != "2025-01-05" {
			t.Errorf("expected 2025-01-05, got %s", got)
		}
		if result.Next.TotalInstallments != nil {
			t.Errorf("expected unbounded successor")
		}
	})

	t.Run("uses_payment_date_and_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		category := testutil.CreateTestCategory(t, db, tenant.ID, nil)
		account := testutil.CreateTestAccountWithBalance(t, db, tenant.ID, "100")
		payable := testutil.CreateTestPayable(t, db, tenant.ID, category.ID, "12.34", dates.New(2024, 3, 1))

		paymentDate := dates.New(2024, 3, 4)
		result, err := svc.PayPayable(ctx, tenant.ID, payable.ID, PaymentInput{AccountID: account.ID, PaymentDate: &paymentDate})
		testutil.AssertNoError(t, err)

		tx := result.Transaction
		if tx.Type != models.TransactionTypeExpense {
			t.Errorf("expected expense, got %s", tx.Type)
		}
		if tx.Date.String() != "2024-03-04" {
			t.Errorf("expected payment date 2024-03-04, got %s", tx.Date)
		}
		if tx.CategoryID == nil || *tx.CategoryID != category.ID {
			t.Errorf("expected category %s on transaction", category.ID)
		}
		if result.Next != nil {
			t.Error("one-off payable must not spawn a successor")
		}
		testutil.AssertBalance(t, db, account.ID, "87.66")
	})

	t.Run("already_paid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		category := testutil.CreateTestCategory(t, db, tenant.ID, nil)
		account := testutil.CreateTestAccountWithBalance(t, db, tenant.ID, "100")
		payable := testutil.CreateTestPayable(t, db, tenant.ID, category.ID, "10", dates.New(2024, 3, 1))

		_, err := svc.PayPayable(ctx, tenant.ID, payable.ID, PaymentInput{AccountID: account.ID})
		testutil.AssertNoError(t, err)

		_, err = svc.PayPayable(ctx, tenant.ID, payable.ID, PaymentInput{AccountID: account.ID})
		testutil.AssertAppError(t, err, "PAYABLE_ALREADY_PROCESSED")
		testutil.AssertBalance(t, db, account.ID, "90")
	})

	t.Run("cancelled", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		category := testutil.CreateTestCategory(t, db, tenant.ID, nil)
		account := testutil.CreateTestAccountWithBalance(t, db, tenant.ID, "100")
		payable := testutil.CreateTestPayable(t, db, tenant.ID, category.ID, "10", dates.New(2024, 3, 1))

		_, err := svc.CancelPayable(ctx, tenant.ID, payable.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.PayPayable(ctx, tenant.ID, payable.ID, PaymentInput{AccountID: account.ID})
		testutil.AssertAppError(t, err, "PAYABLE_ALREADY_PROCESSED")
	})

	t.Run("missing_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		other := testutil.CreateTestTenant(t, db)
		category := testutil.CreateTestCategory(t, db, tenant.ID, nil)
		foreign := testutil.CreateTestAccountWithBalance(t, db, other.ID, "100")
		payable := testutil.CreateTestPayable(t, db, tenant.ID, category.ID, "10", dates.New(2024, 3, 1))

		_, err := svc.PayPayable(ctx, tenant.ID, payable.ID, PaymentInput{AccountID: foreign.ID})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
		testutil.AssertBalance(t, db, foreign.ID, "100")

		reloaded, err := svc.GetPayableByID(ctx, tenant.ID, payable.ID)
		testutil.AssertNoError(t, err)
		if !reloaded.IsPending() {
			t.Errorf("expected payable to stay pending, got %s", reloaded.Status)
		}
	})

	t.Run("missing_payable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		account := testutil.CreateTestAccount(t, db, tenant.ID)

		_, err := svc.PayPayable(ctx, tenant.ID, "missing", PaymentInput{AccountID: account.ID})
		testutil.AssertAppError(t, err, "PAYABLE_NOT_FOUND")
	})
}

func TestUpdatePayable(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (PayableServicer, *models.Payable, *models.Account, func()) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		category := testutil.CreateTestCategory(t, db, tenant.ID, nil)
		account := testutil.CreateTestAccountWithBalance(t, db, tenant.ID, "1000")
		p, err := svc.CreatePayable(ctx, tenant.ID, PayableInput{
			Description: "Loan", Amount: testutil.Money("100"), DueDate: dates.New(2024, 1, 10),
			CategoryID: category.ID, IsRecurring: true, TotalInstallments: intPtr(5),
		})
		testutil.AssertNoError(t, err)
		return svc, p, account, func() { testutil.TeardownTestDB(t, db) }
	}

	t.Run("pending_financial_edit", func(t *testing.T) {
		svc, p, _, done := setup(t)
		defer done()

		due := dates.New(2024, 1, 20)
		updated, err := svc.UpdatePayable(ctx, p.TenantID, p.ID, PayableUpdateFields{
			Description: strPtr("Car loan"),
			Amount:      ptrMoney("120"),
			DueDate:     &due,
		})
		testutil.AssertNoError(t, err)
		if updated.Description != "Car loan" || updated.DueDate.String() != "2024-01-20" {
			t.Errorf("unexpected payable after update: %+v", updated)
		}
		testutil.AssertDecimal(t, updated.Amount, "120")
	})

	t.Run("installment_floor", func(t *testing.T) {
		svc, p, account, done := setup(t)
		defer done()

		result, err := svc.PayPayable(ctx, p.TenantID, p.ID, PaymentInput{AccountID: account.ID})
		testutil.AssertNoError(t, err)
		second := result.Next

		_, err = svc.UpdatePayable(ctx, p.TenantID, second.ID, PayableUpdateFields{TotalInstallments: intPtr(1)})
		testutil.AssertAppError(t, err, "INSTALLMENTS_BELOW_PROGRESS")

		updated, err := svc.UpdatePayable(ctx, p.TenantID, second.ID, PayableUpdateFields{TotalInstallments: intPtr(2)})
		testutil.AssertNoError(t, err)
		if *updated.TotalInstallments != 2 {
			t.Errorf("expected 2 installments, got %d", *updated.TotalInstallments)
		}
	})

	t.Run("non_pending_only_notes", func(t *testing.T) {
		svc, p, account, done := setup(t)
		defer done()

		_, err := svc.PayPayable(ctx, p.TenantID, p.ID, PaymentInput{AccountID: account.ID})
		testutil.AssertNoError(t, err)

		_, err = svc.UpdatePayable(ctx, p.TenantID, p.ID, PayableUpdateFields{Amount: ptrMoney("1")})
		testutil.AssertAppError(t, err, "PAYABLE_NOT_EDITABLE")

		updated, err := svc.UpdatePayable(ctx, p.TenantID, p.ID, PayableUpdateFields{Notes: strPtr("paid by card")})
		testutil.AssertNoError(t, err)
		if updated.Notes != "paid by card" || updated.Status != models.PayableStatusPaid {
			t.Errorf("unexpected payable after notes edit: %+v", updated)
		}
	})

	t.Run("disable_recurrence_clears_installments", func(t *testing.T) {
		svc, p, _, done := setup(t)
		defer done()

		off := false
		updated, err := svc.UpdatePayable(ctx, p.TenantID, p.ID, PayableUpdateFields{IsRecurring: &off})
		testutil.AssertNoError(t, err)
		if updated.IsRecurring || updated.TotalInstallments != nil || updated.CurrentInstallment != nil {
			t.Errorf("expected recurrence cleared, got %+v", updated)
		}

		_, err = svc.UpdatePayable(ctx, p.TenantID, p.ID, PayableUpdateFields{TotalInstallments: intPtr(3)})
		testutil.AssertAppError(t, err, "INVALID_INSTALLMENTS")
	})

	t.Run("clear_total_installments", func(t *testing.T) {
		svc, p, _, done := setup(t)
		defer done()

		updated, err := svc.UpdatePayable(ctx, p.TenantID, p.ID, PayableUpdateFields{ClearTotalInstallments: true})
		testutil.AssertNoError(t, err)
		if updated.TotalInstallments != nil || !updated.IsRecurring {
			t.Errorf("expected unbounded recurring payable, got %+v", updated)
		}
	})

	t.Run("invalid_category", func(t *testing.T) {
		svc, p, _, done := setup(t)
		defer done()

		_, err := svc.UpdatePayable(ctx, p.TenantID, p.ID, PayableUpdateFields{CategoryID: strPtr("missing")})
		testutil.AssertAppError(t, err, "INVALID_CATEGORY")
	})
}

func TestDeleteAndCancelPayable(t *testing.T) {
	ctx := context.Background()

	t.Run("delete_pending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		category := testutil.CreateTestCategory(t, db, tenant.ID, nil)
		payable := testutil.CreateTestPayable(t, db, tenant.ID, category.ID, "10", dates.New(2024, 3, 1))

		testutil.AssertNoError(t, svc.DeletePayable(ctx, tenant.ID, payable.ID))
		_, err := svc.GetPayableByID(ctx, tenant.ID, payable.ID)
		testutil.AssertAppError(t, err, "PAYABLE_NOT_FOUND")
	})

	t.Run("delete_paid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		category := testutil.CreateTestCategory(t, db, tenant.ID, nil)
		account := testutil.CreateTestAccountWithBalance(t, db, tenant.ID, "100")
		payable := testutil.CreateTestPayable(t, db, tenant.ID, category.ID, "10", dates.New(2024, 3, 1))
		_, err := svc.PayPayable(ctx, tenant.ID, payable.ID, PaymentInput{AccountID: account.ID})
		testutil.AssertNoError(t, err)

		err = svc.DeletePayable(ctx, tenant.ID, payable.ID)
		testutil.AssertAppError(t, err, "PAYABLE_ALREADY_PROCESSED")
	})

	t.Run("cancel_pending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		category := testutil.CreateTestCategory(t, db, tenant.ID, nil)
		payable := testutil.CreateTestPayable(t, db, tenant.ID, category.ID, "10", dates.New(2024, 3, 1))

		cancelled, err := svc.CancelPayable(ctx, tenant.ID, payable.ID)
		testutil.AssertNoError(t, err)
		if cancelled.Status != models.PayableStatusCancelled {
			t.Errorf("expected cancelled, got %s", cancelled.Status)
		}

		_, err = svc.CancelPayable(ctx, tenant.ID, payable.ID)
		testutil.AssertAppError(t, err, "PAYABLE_ALREADY_PROCESSED")
	})

	t.Run("other_tenant", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayableService(db, NewCategoryService(db))
		tenant := testutil.CreateTestTenant(t, db)
		other := testutil.CreateTestTenant(t, db)
		category := testutil.CreateTestCategory(t, db, other.ID, nil)
		payable := testutil.CreateTestPayable(t, db, other.ID, category.ID, "10", dates.New(2024, 3, 1))

		err := svc.DeletePayable(ctx, tenant.ID, payable.ID)
		testutil.AssertAppError(t, err, "PAYABLE_NOT_FOUND")
	})
}

func TestGetPayables(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPayableService(db, NewCategoryService(db))
	tenant := testutil.CreateTestTenant(t, db)
	category := testutil.CreateTestCategory(t, db, tenant.ID, nil)
	account := testutil.CreateTestAccountWithBalance(t, db, tenant.ID, "100")

	early := testutil.CreateTestPayable(t, db, tenant.ID, category.ID, "10", dates.New(2024, 1, 1))
	testutil.CreateTestPayable(t, db, tenant.ID, category.ID, "20", dates.New(2024, 3, 1))
	testutil.CreateTestPayable(t, db, tenant.ID, category.ID, "30", dates.New(2024, 2, 1))
	_, err := svc.PayPayable(ctx, tenant.ID, early.ID, PaymentInput{AccountID: account.ID})
	testutil.AssertNoError(t, err)

	t.Run("pending_first_by_due_date", func(t *testing.T) {
		page, err := svc.GetPayables(ctx, tenant.ID, pagination.PageRequest{}, PayableFilter{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 3 {
			t.Fatalf("expected 3 payables, got %d", page.TotalItems)
		}
		got := []string{page.Data[0].DueDate.String(), page.Data[1].DueDate.String(), page.Data[2].DueDate.String()}
		want := []string{"2024-02-01", "2024-03-01", "2024-01-01"}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("expected order %v, got %v", want, got)
				break
			}
		}
	})

	t.Run("status_and_due_filter", func(t *testing.T) {
		pending := models.PayableStatusPending
		before := dates.New(2024, 2, 15)
		page, err := svc.GetPayables(ctx, tenant.ID, pagination.PageRequest{}, PayableFilter{Status: &pending, DueBefore: &before})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 1 {
			t.Errorf("expected 1 payable, got %d", page.TotalItems)
		}
	})
}
