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

// GormPurchaseRequestRepository implements PurchaseRequestRepository using GORM
type GormPurchaseRequestRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRequestRepository creates a new GormPurchaseRequestRepository
func NewGormPurchaseRequestRepository(db *gorm.DB) *GormPurchaseRequestRepository {
	return &GormPurchaseRequestRepository{db: db}
}

// FindByID finds a purchase request by ID with its RFQ lines
func (r *GormPurchaseRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseRequest, error) {
	var request trade.PurchaseRequest
	if err := r.db.WithContext(ctx).
		Preload("RFQLines", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByNumber finds by request number
func (r *GormPurchaseRequestRepository) FindByNumber(ctx context.Context, number string) (*trade.PurchaseRequest, error) {
	var request trade.PurchaseRequest
	if err := r.db.WithContext(ctx).
		Preload("RFQLines").
		Where("request_number = ?", number).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindAll finds purchase requests with filtering and pagination
func (r *GormPurchaseRequestRepository) FindAll(ctx context.Context, filter trade.PurchaseRequestFilter) (shared.Paginated[*trade.PurchaseRequest], error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[*trade.PurchaseRequest]{}, err
	}

	query := r.db.WithContext(ctx).Model(&trade.PurchaseRequest{}).Preload("RFQLines")
	query = r.applyFilter(query, filter)
	query = applyPagination(query, filter.Filter)

	orderBy := ValidateSortField(filter.OrderBy, PurchaseRequestSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var requests []*trade.PurchaseRequest
	if err := query.Find(&requests).Error; err != nil {
		return shared.Paginated[*trade.PurchaseRequest]{}, err
	}

	page, pageSize := normalizePage(filter.Filter)
	return shared.NewPaginated(requests, total, page, pageSize), nil
}

// Save creates or updates a purchase request with its RFQ lines
func (r *GormPurchaseRequestRepository) Save(ctx context.Context, request *trade.PurchaseRequest) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(request).Error
}

// SaveWithLock saves with optimistic locking. RFQ lines are written
// individually because selection flags flip both ways and a partial struct
// update would drop the false values.
func (r *GormPurchaseRequestRepository) SaveWithLock(ctx context.Context, request *trade.PurchaseRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&trade.PurchaseRequest{}).
			Where("id = ? AND version = ?", request.ID, request.Version-1).
			Updates(map[string]interface{}{
				"status":        request.Status,
				"cancel_reason": request.CancelReason,
				"cancelled_at":  request.CancelledAt,
				"closed_at":     request.ClosedAt,
				"version":       request.Version,
				"updated_at":    time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The record has been modified by another transaction")
		}

		for i := range request.RFQLines {
			if err := tx.Save(&request.RFQLines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Count counts purchase requests matching the filter
func (r *GormPurchaseRequestRepository) Count(ctx context.Context, filter trade.PurchaseRequestFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&trade.PurchaseRequest{})
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateRequestNumber generates the next request number.
// Format: PR-YYYYMMDD-XXXXX
func (r *GormPurchaseRequestRepository) GenerateRequestNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("PR-%s-", time.Now().Format("20060102"))
	return nextDocumentNumber(r.db.WithContext(ctx), &trade.PurchaseRequest{}, "request_number", prefix)
}

func (r *GormPurchaseRequestRepository) applyFilter(query *gorm.DB, filter trade.PurchaseRequestFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("request_number LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.NeedType != nil {
		query = query.Where("need_type = ?", *filter.NeedType)
	}
	return query
}

// Ensure GormPurchaseRequestRepository implements PurchaseRequestRepository
var _ trade.PurchaseRequestRepository = (*GormPurchaseRequestRepository)(nil)
