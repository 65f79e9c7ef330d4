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

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by ID
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds by purchase order number
func (r *GormPurchaseOrderRepository) FindByNumber(ctx context.Context, poNumber string) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Where("po_number = ?", poNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByRequest finds all orders raised from a purchase request
func (r *GormPurchaseOrderRepository) FindByRequest(ctx context.Context, purchaseRequestID uuid.UUID) ([]*trade.PurchaseOrder, error) {
	var orders []*trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Where("purchase_request_id = ?", purchaseRequestID).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAll finds purchase orders with filtering and pagination
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter trade.PurchaseOrderFilter) (shared.Paginated[*trade.PurchaseOrder], error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[*trade.PurchaseOrder]{}, err
	}

	query := r.db.WithContext(ctx).Model(&trade.PurchaseOrder{})
	query = r.applyFilter(query, filter)
	query = applyPagination(query, filter.Filter)

	orderBy := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var orders []*trade.PurchaseOrder
	if err := query.Find(&orders).Error; err != nil {
		return shared.Paginated[*trade.PurchaseOrder]{}, err
	}

	page, pageSize := normalizePage(filter.Filter)
	return shared.NewPaginated(orders, total, page, pageSize), nil
}

// Save creates or updates a purchase order
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// Count counts purchase orders matching the filter
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, filter trade.PurchaseOrderFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&trade.PurchaseOrder{})
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GeneratePONumber generates the next purchase order number.
// Format: PO-YYYYMMDD-XXXXX
func (r *GormPurchaseOrderRepository) GeneratePONumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("PO-%s-", time.Now().Format("20060102"))
	return nextDocumentNumber(r.db.WithContext(ctx), &trade.PurchaseOrder{}, "po_number", prefix)
}

func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter trade.PurchaseOrderFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("po_number LIKE ? OR vendor_name LIKE ?", pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	return query
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
