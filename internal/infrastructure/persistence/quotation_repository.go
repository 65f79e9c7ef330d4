package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/domain/trade"
)

// GormQuotationRepository implements QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindByID finds a quotation by ID with its line items
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Quotation, error) {
	var quotation trade.Quotation
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&quotation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

// FindByNumber finds the latest version carrying the quotation number
func (r *GormQuotationRepository) FindByNumber(ctx context.Context, number string) (*trade.Quotation, error) {
	var quotation trade.Quotation
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("quotation_number = ?", number).
		Order("version_number DESC").
		First(&quotation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

// FindAll finds quotations with filtering and pagination
func (r *GormQuotationRepository) FindAll(ctx context.Context, filter trade.QuotationFilter) (shared.Paginated[*trade.Quotation], error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[*trade.Quotation]{}, err
	}

	query := r.db.WithContext(ctx).Model(&trade.Quotation{}).Preload("Items")
	query = r.applyFilter(query, filter)
	query = applyPagination(query, filter.Filter)

	orderBy := ValidateSortField(filter.OrderBy, QuotationSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var quotations []*trade.Quotation
	if err := query.Find(&quotations).Error; err != nil {
		return shared.Paginated[*trade.Quotation]{}, err
	}

	page, pageSize := normalizePage(filter.Filter)
	return shared.NewPaginated(quotations, total, page, pageSize), nil
}

// FindVersions finds every version of a quotation, oldest first
func (r *GormQuotationRepository) FindVersions(ctx context.Context, quotationNumber string) ([]*trade.Quotation, error) {
	var quotations []*trade.Quotation
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("quotation_number = ?", quotationNumber).
		Order("version_number ASC").
		Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// Save creates or updates a quotation with its line items. Items removed
// from the aggregate are deleted from the line item table.
func (r *GormQuotationRepository) Save(ctx context.Context, quotation *trade.Quotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(quotation).Error; err != nil {
			return err
		}

		keepIDs := make([]uuid.UUID, len(quotation.Items))
		for i, item := range quotation.Items {
			keepIDs[i] = item.ID
		}
		orphans := tx.Where("quotation_id = ?", quotation.ID)
		if len(keepIDs) > 0 {
			orphans = orphans.Where("id NOT IN ?", keepIDs)
		}
		return orphans.Delete(&trade.QuotationLineItem{}).Error
	})
}

// Count counts quotations matching the filter
func (r *GormQuotationRepository) Count(ctx context.Context, filter trade.QuotationFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&trade.Quotation{})
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateQuotationNumber generates the next quotation number.
// Format: QT-YYYYMMDD-XXXXX
func (r *GormQuotationRepository) GenerateQuotationNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("QT-%s-", time.Now().Format("20060102"))
	return nextDocumentNumber(r.db.WithContext(ctx), &trade.Quotation{}, "quotation_number", prefix)
}

func (r *GormQuotationRepository) applyFilter(query *gorm.DB, filter trade.QuotationFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("quotation_number LIKE ?", pattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	return query
}

// normalizePage applies the default page settings for result metadata
func normalizePage(filter shared.Filter) (page, pageSize int) {
	page, pageSize = filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return page, pageSize
}

// Ensure GormQuotationRepository implements QuotationRepository
var _ trade.QuotationRepository = (*GormQuotationRepository)(nil)
