package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfgworks/erp/internal/domain/finance"
	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/domain/shared/valueobject"
)

func newTestPayable(t *testing.T, number string, amount int64) *finance.AccountsPayable {
	t.Helper()
	cause := finance.NewPurchaseOrderCause(uuid.New(), "PO-20260826-00001")
	payable, err := finance.NewAccountsPayable(
		number,
		cause,
		uuid.New(),
		"Hanbit Precision",
		valueobject.NewMoneyKRWFromInt(amount),
		nil,
	)
	require.NoError(t, err)
	payable.ClearDomainEvents()
	return payable
}

func recordTestPayment(t *testing.T, payable *finance.AccountsPayable, amount int64) {
	t.Helper()
	payment, err := finance.NewVendorPayment(
		time.Now(),
		valueobject.NewMoneyKRWFromInt(amount),
		finance.PaymentMethodBankTransfer,
		uuid.New(),
	)
	require.NoError(t, err)
	require.NoError(t, payable.AddPayment(payment))
	payable.ClearDomainEvents()
}

func TestGormAccountsPayableRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccountsPayableRepository(db)
	ctx := context.Background()

	payable := newTestPayable(t, "AP-20260826-00001", 1_000_000)
	require.NoError(t, repo.Save(ctx, payable))

	t.Run("FindByID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, payable.ID)
		require.NoError(t, err)
		assert.Equal(t, payable.PayableNumber, found.PayableNumber)
		assert.Equal(t, payable.VendorID, found.VendorID)
		assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(1_000_000)))
		assert.Equal(t, finance.PayableStatusPending, found.Status)
	})

	t.Run("FindByID not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("FindByNumber", func(t *testing.T) {
		found, err := repo.FindByNumber(ctx, "AP-20260826-00001")
		require.NoError(t, err)
		assert.Equal(t, payable.ID, found.ID)
	})

	t.Run("FindByCause", func(t *testing.T) {
		found, err := repo.FindByCause(ctx, finance.CauseTypePurchaseOrder, payable.Cause.ID)
		require.NoError(t, err)
		assert.Equal(t, payable.ID, found.ID)

		_, err = repo.FindByCause(ctx, finance.CauseTypePurchaseOrder, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormAccountsPayableRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccountsPayableRepository(db)
	ctx := context.Background()

	payable := newTestPayable(t, "AP-20260826-00002", 500_000)
	require.NoError(t, repo.Save(ctx, payable))

	t.Run("persists payment and new balance", func(t *testing.T) {
		recordTestPayment(t, payable, 200_000)
		require.NoError(t, repo.SaveWithLock(ctx, payable))

		found, err := repo.FindByID(ctx, payable.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.PayableStatusPartiallyPaid, found.Status)
		assert.True(t, found.PaidAmount.Equal(decimal.NewFromInt(200_000)))
		assert.True(t, found.OutstandingAmount.Equal(decimal.NewFromInt(300_000)))
		require.Len(t, found.Payments, 1)
		assert.Equal(t, payable.ID, found.Payments[0].PayableID)
	})

	t.Run("rejects stale version", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, payable.ID)
		require.NoError(t, err)

		// Another writer gets in first
		current, err := repo.FindByID(ctx, payable.ID)
		require.NoError(t, err)
		recordTestPayment(t, current, 100_000)
		require.NoError(t, repo.SaveWithLock(ctx, current))

		recordTestPayment(t, stale, 50_000)
		err = repo.SaveWithLock(ctx, stale)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
	})
}

func TestGormAccountsPayableRepository_Queries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccountsPayableRepository(db)
	ctx := context.Background()

	vendorID := uuid.New()
	open := newTestPayable(t, "AP-20260826-00003", 300_000)
	open.VendorID = vendorID
	require.NoError(t, repo.Save(ctx, open))

	paid := newTestPayable(t, "AP-20260826-00004", 100_000)
	recordTestPayment(t, paid, 100_000)
	require.NoError(t, repo.Save(ctx, paid))

	cancelled := newTestPayable(t, "AP-20260826-00005", 50_000)
	require.NoError(t, cancelled.Cancel())
	cancelled.ClearDomainEvents()
	require.NoError(t, repo.Save(ctx, cancelled))

	t.Run("FindOutstanding skips paid and cancelled", func(t *testing.T) {
		outstanding, err := repo.FindOutstanding(ctx, finance.AccountsPayableFilter{})
		require.NoError(t, err)
		require.Len(t, outstanding, 1)
		assert.Equal(t, open.ID, outstanding[0].ID)
	})

	t.Run("FindByVendor", func(t *testing.T) {
		payables, err := repo.FindByVendor(ctx, vendorID, finance.AccountsPayableFilter{})
		require.NoError(t, err)
		require.Len(t, payables, 1)
		assert.Equal(t, open.ID, payables[0].ID)
	})

	t.Run("FindAll with status filter", func(t *testing.T) {
		status := finance.PayableStatusPaid
		payables, err := repo.FindAll(ctx, finance.AccountsPayableFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, payables, 1)
		assert.Equal(t, paid.ID, payables[0].ID)
	})

	t.Run("Count", func(t *testing.T) {
		count, err := repo.Count(ctx, finance.AccountsPayableFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		status := finance.PayableStatusCancelled
		count, err = repo.Count(ctx, finance.AccountsPayableFilter{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("search by vendor name", func(t *testing.T) {
		payables, err := repo.FindAll(ctx, finance.AccountsPayableFilter{
			Filter: shared.Filter{Search: "Hanbit"},
		})
		require.NoError(t, err)
		assert.Len(t, payables, 3)
	})
}

func TestGormAccountsPayableRepository_GeneratePayableNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccountsPayableRepository(db)
	ctx := context.Background()

	datePart := time.Now().Format("20060102")

	first, err := repo.GeneratePayableNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("AP-%s-00001", datePart), first)

	payable := newTestPayable(t, first, 10_000)
	require.NoError(t, repo.Save(ctx, payable))

	second, err := repo.GeneratePayableNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("AP-%s-00002", datePart), second)
}
