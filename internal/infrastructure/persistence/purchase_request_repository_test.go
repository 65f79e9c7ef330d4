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

	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/domain/shared/valueobject"
	"github.com/mfgworks/erp/internal/domain/trade"
)

func newTestRequest(t *testing.T, number string) *trade.PurchaseRequest {
	t.Helper()
	quantity, err := valueobject.NewQuantity(decimal.NewFromInt(100), "EA")
	require.NoError(t, err)

	request, err := trade.NewPurchaseRequest(
		number,
		nil,
		trade.NeedTypeMaterial,
		uuid.New(),
		"SUS304 sheet 2mm",
		quantity,
		time.Now().AddDate(0, 0, 14),
	)
	require.NoError(t, err)
	request.ClearDomainEvents()
	return request
}

func TestGormPurchaseRequestRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseRequestRepository(db)
	ctx := context.Background()

	request := newTestRequest(t, "PR-20260826-00001")
	vendorA, vendorB := uuid.New(), uuid.New()
	require.NoError(t, request.SendRFQ([]uuid.UUID{vendorA, vendorB}))
	request.ClearDomainEvents()
	require.NoError(t, repo.Save(ctx, request))

	t.Run("FindByID loads RFQ lines", func(t *testing.T) {
		found, err := repo.FindByID(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.PurchaseRequestStatusRFQSent, found.Status)
		require.Len(t, found.RFQLines, 2)
		assert.Equal(t, found.ID, found.RFQLines[0].RequestID)
	})

	t.Run("FindByNumber", func(t *testing.T) {
		found, err := repo.FindByNumber(ctx, "PR-20260826-00001")
		require.NoError(t, err)
		assert.Equal(t, request.ID, found.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormPurchaseRequestRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseRequestRepository(db)
	ctx := context.Background()

	request := newTestRequest(t, "PR-20260826-00002")
	require.NoError(t, request.SendRFQ([]uuid.UUID{uuid.New(), uuid.New()}))
	request.ClearDomainEvents()
	require.NoError(t, repo.Save(ctx, request))

	t.Run("persists vendor selection", func(t *testing.T) {
		lineID := request.RFQLines[0].ID
		require.NoError(t, request.SelectVendor(lineID))
		request.ClearDomainEvents()
		require.NoError(t, repo.SaveWithLock(ctx, request))

		found, err := repo.FindByID(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.PurchaseRequestStatusVendorSelected, found.Status)
		selected := found.SelectedRFQLine()
		require.NotNil(t, selected)
		assert.Equal(t, lineID, selected.ID)
	})

	t.Run("persists cleared selection flags", func(t *testing.T) {
		lineID := request.RFQLines[0].ID
		require.NoError(t, request.RevertVendorSelection(lineID))
		request.ClearDomainEvents()
		require.NoError(t, repo.SaveWithLock(ctx, request))

		found, err := repo.FindByID(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.PurchaseRequestStatusRFQSent, found.Status)
		assert.Nil(t, found.SelectedRFQLine(), "selection flag must flip back to false in storage")
	})

	t.Run("rejects stale version", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, request.ID)
		require.NoError(t, err)

		current, err := repo.FindByID(ctx, request.ID)
		require.NoError(t, err)
		require.NoError(t, current.SelectVendor(current.RFQLines[1].ID))
		current.ClearDomainEvents()
		require.NoError(t, repo.SaveWithLock(ctx, current))

		require.NoError(t, stale.SelectVendor(stale.RFQLines[0].ID))
		stale.ClearDomainEvents()
		err = repo.SaveWithLock(ctx, stale)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
	})
}

func TestGormPurchaseRequestRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseRequestRepository(db)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		request := newTestRequest(t, fmt.Sprintf("PR-20260826-%05d", i))
		if i == 3 {
			require.NoError(t, request.Cancel("duplicate need"))
			request.ClearDomainEvents()
		}
		require.NoError(t, repo.Save(ctx, request))
	}

	t.Run("filters by status", func(t *testing.T) {
		status := trade.PurchaseRequestStatusCancelled
		result, err := repo.FindAll(ctx, trade.PurchaseRequestFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "duplicate need", result.Items[0].CancelReason)
	})

	t.Run("search matches description", func(t *testing.T) {
		result, err := repo.FindAll(ctx, trade.PurchaseRequestFilter{
			Filter: shared.Filter{Search: "SUS304"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.Total)
	})

	t.Run("paginates", func(t *testing.T) {
		result, err := repo.FindAll(ctx, trade.PurchaseRequestFilter{
			Filter: shared.Filter{Page: 2, PageSize: 2},
		})
		require.NoError(t, err)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 2, result.Page)
	})
}

func TestGormPurchaseRequestRepository_GenerateRequestNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseRequestRepository(db)
	ctx := context.Background()

	datePart := time.Now().Format("20060102")

	number, err := repo.GenerateRequestNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PR-%s-00001", datePart), number)
}
