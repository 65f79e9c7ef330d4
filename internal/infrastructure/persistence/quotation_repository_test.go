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

func newTestQuotation(t *testing.T, number string) *trade.Quotation {
	t.Helper()
	quotation, err := trade.NewQuotation(number, uuid.New(), uuid.New(), 30, uuid.New())
	require.NoError(t, err)
	_, err = quotation.AddLineItem(uuid.New(), "CNC Milling Jig", decimal.NewFromInt(2), valueobject.NewMoneyKRWFromInt(150_000))
	require.NoError(t, err)
	quotation.ClearDomainEvents()
	return quotation
}

func TestGormQuotationRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuotationRepository(db)
	ctx := context.Background()

	quotation := newTestQuotation(t, "QT-20260826-00001")
	require.NoError(t, repo.Save(ctx, quotation))

	t.Run("FindByID loads items", func(t *testing.T) {
		found, err := repo.FindByID(ctx, quotation.ID)
		require.NoError(t, err)
		assert.Equal(t, "QT-20260826-00001", found.QuotationNumber)
		require.Len(t, found.Items, 1)
		assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(300_000)))
	})

	t.Run("FindByID not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormQuotationRepository_SaveRemovesOrphanedItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuotationRepository(db)
	ctx := context.Background()

	quotation := newTestQuotation(t, "QT-20260826-00002")
	item, err := quotation.AddLineItem(uuid.New(), "Anodizing Batch", decimal.NewFromInt(1), valueobject.NewMoneyKRWFromInt(80_000))
	require.NoError(t, err)
	quotation.ClearDomainEvents()
	require.NoError(t, repo.Save(ctx, quotation))

	require.NoError(t, quotation.RemoveLineItem(item.ID))
	quotation.ClearDomainEvents()
	require.NoError(t, repo.Save(ctx, quotation))

	found, err := repo.FindByID(ctx, quotation.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "CNC Milling Jig", found.Items[0].ProductName)

	var count int64
	require.NoError(t, db.Model(&trade.QuotationLineItem{}).Where("quotation_id = ?", quotation.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "removed item row must be deleted")
}

func TestGormQuotationRepository_Versions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuotationRepository(db)
	ctx := context.Background()

	v1 := newTestQuotation(t, "QT-20260826-00003")
	require.NoError(t, v1.Submit())
	require.NoError(t, v1.Approve(uuid.New()))
	v1.ClearDomainEvents()
	require.NoError(t, repo.Save(ctx, v1))

	v2, err := v1.CreateNewVersion(uuid.New())
	require.NoError(t, err)
	v2.ClearDomainEvents()
	require.NoError(t, repo.Save(ctx, v2))

	t.Run("FindVersions returns all versions oldest first", func(t *testing.T) {
		versions, err := repo.FindVersions(ctx, "QT-20260826-00003")
		require.NoError(t, err)
		require.Len(t, versions, 2)
		assert.Equal(t, 1, versions[0].VersionNumber)
		assert.Equal(t, 2, versions[1].VersionNumber)
	})

	t.Run("FindByNumber returns latest version", func(t *testing.T) {
		found, err := repo.FindByNumber(ctx, "QT-20260826-00003")
		require.NoError(t, err)
		assert.Equal(t, 2, found.VersionNumber)
		assert.Equal(t, v2.ID, found.ID)
	})
}

func TestGormQuotationRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuotationRepository(db)
	ctx := context.Background()

	projectID := uuid.New()
	for i := 1; i <= 3; i++ {
		q := newTestQuotation(t, fmt.Sprintf("QT-20260826-%05d", i))
		if i == 1 {
			q.ProjectID = projectID
		}
		require.NoError(t, repo.Save(ctx, q))
	}

	t.Run("paginates", func(t *testing.T) {
		result, err := repo.FindAll(ctx, trade.QuotationFilter{
			Filter: shared.Filter{Page: 1, PageSize: 2},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.Total)
		assert.Len(t, result.Items, 2)
		assert.Equal(t, 2, result.TotalPages)
	})

	t.Run("filters by project", func(t *testing.T) {
		result, err := repo.FindAll(ctx, trade.QuotationFilter{ProjectID: &projectID})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, projectID, result.Items[0].ProjectID)
	})

	t.Run("filters by status", func(t *testing.T) {
		status := trade.QuotationStatusDraft
		result, err := repo.FindAll(ctx, trade.QuotationFilter{Status: &status})
		require.NoError(t, err)
		assert.Len(t, result.Items, 3)
	})
}

func TestGormQuotationRepository_GenerateQuotationNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuotationRepository(db)
	ctx := context.Background()

	datePart := time.Now().Format("20060102")

	number, err := repo.GenerateQuotationNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("QT-%s-00001", datePart), number)

	quotation := newTestQuotation(t, number)
	require.NoError(t, repo.Save(ctx, quotation))

	next, err := repo.GenerateQuotationNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("QT-%s-00002", datePart), next)
}
