package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mfgworks/erp/internal/domain/finance"
	"github.com/mfgworks/erp/internal/domain/shared"
)

// outstandingStatuses are the payable statuses that still carry a balance
var outstandingStatuses = []finance.PayableStatus{
	finance.PayableStatusPending,
	finance.PayableStatusPartiallyPaid,
}

// GormAccountsPayableRepository implements AccountsPayableRepository using GORM
type GormAccountsPayableRepository struct {
	db *gorm.DB
}

// NewGormAccountsPayableRepository creates a new GormAccountsPayableRepository
func NewGormAccountsPayableRepository(db *gorm.DB) *GormAccountsPayableRepository {
	return &GormAccountsPayableRepository{db: db}
}

// FindByID finds an accounts payable by ID with its payment ledger
func (r *GormAccountsPayableRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.AccountsPayable, error) {
	var payable finance.AccountsPayable
	if err := r.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC, created_at ASC")
		}).
		First(&payable, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	payable.RebindPayments()
	return &payable, nil
}

// FindByNumber finds by payable number
func (r *GormAccountsPayableRepository) FindByNumber(ctx context.Context, payableNumber string) (*finance.AccountsPayable, error) {
	var payable finance.AccountsPayable
	if err := r.db.WithContext(ctx).
		Preload("Payments").
		Where("payable_number = ?", payableNumber).
		First(&payable).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	payable.RebindPayments()
	return &payable, nil
}

// FindByCause finds by the originating disbursement cause
func (r *GormAccountsPayableRepository) FindByCause(ctx context.Context, causeType finance.CauseType, causeID uuid.UUID) (*finance.AccountsPayable, error) {
	var payable finance.AccountsPayable
	if err := r.db.WithContext(ctx).
		Preload("Payments").
		Where("cause_type = ? AND cause_id = ?", causeType, causeID).
		First(&payable).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	payable.RebindPayments()
	return &payable, nil
}

// FindAll finds payables with filtering
func (r *GormAccountsPayableRepository) FindAll(ctx context.Context, filter finance.AccountsPayableFilter) ([]finance.AccountsPayable, error) {
	query := r.db.WithContext(ctx).Model(&finance.AccountsPayable{}).Preload("Payments")
	query = r.applyFilter(query, filter)
	return r.find(query)
}

// FindByVendor finds payables owed to a vendor
func (r *GormAccountsPayableRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID, filter finance.AccountsPayableFilter) ([]finance.AccountsPayable, error) {
	query := r.db.WithContext(ctx).Model(&finance.AccountsPayable{}).
		Preload("Payments").
		Where("vendor_id = ?", vendorID)
	query = r.applyFilter(query, filter)
	return r.find(query)
}

// FindOutstanding finds all payables still carrying a balance, oldest first
func (r *GormAccountsPayableRepository) FindOutstanding(ctx context.Context, filter finance.AccountsPayableFilter) ([]finance.AccountsPayable, error) {
	query := r.db.WithContext(ctx).Model(&finance.AccountsPayable{}).
		Preload("Payments").
		Where("status IN ?", outstandingStatuses).
		Order("created_at ASC")
	query = r.applyFilterWithoutOrdering(query, filter)
	query = applyPagination(query, filter.Filter)
	return r.find(query)
}

func (r *GormAccountsPayableRepository) find(query *gorm.DB) ([]finance.AccountsPayable, error) {
	var payables []finance.AccountsPayable
	if err := query.Find(&payables).Error; err != nil {
		return nil, err
	}
	for i := range payables {
		payables[i].RebindPayments()
	}
	return payables, nil
}

// Save creates or updates an accounts payable and its payment ledger
func (r *GormAccountsPayableRepository) Save(ctx context.Context, payable *finance.AccountsPayable) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(payable).Error
}

// SaveWithLock saves with optimistic locking. The caller must have
// incremented the aggregate version; the update is applied only when the
// stored row still carries the previous version.
func (r *GormAccountsPayableRepository) SaveWithLock(ctx context.Context, payable *finance.AccountsPayable) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&finance.AccountsPayable{}).
			Where("id = ? AND version = ?", payable.ID, payable.Version-1).
			Updates(map[string]interface{}{
				"paid_amount":        payable.PaidAmount,
				"outstanding_amount": payable.OutstandingAmount,
				"status":             payable.Status,
				"due_date":           payable.DueDate,
				"paid_at":            payable.PaidAt,
				"cancelled_at":       payable.CancelledAt,
				"version":            payable.Version,
				"updated_at":         time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The record has been modified by another transaction")
		}

		// The payment ledger is append-only; rows already present are untouched
		for _, payment := range payable.Payments {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(payment).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Count counts payables matching the filter
func (r *GormAccountsPayableRepository) Count(ctx context.Context, filter finance.AccountsPayableFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&finance.AccountsPayable{})
	query = r.applyFilterWithoutOrdering(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GeneratePayableNumber generates the next payable number.
// Format: AP-YYYYMMDD-XXXXX
func (r *GormAccountsPayableRepository) GeneratePayableNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("AP-%s-", time.Now().Format("20060102"))
	return nextDocumentNumber(r.db.WithContext(ctx), &finance.AccountsPayable{}, "payable_number", prefix)
}

func (r *GormAccountsPayableRepository) applyFilter(query *gorm.DB, filter finance.AccountsPayableFilter) *gorm.DB {
	query = r.applyFilterWithoutOrdering(query, filter)
	query = applyPagination(query, filter.Filter)

	orderBy := ValidateSortField(filter.OrderBy, PayableSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormAccountsPayableRepository) applyFilterWithoutOrdering(query *gorm.DB, filter finance.AccountsPayableFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("payable_number LIKE ? OR vendor_name LIKE ? OR cause_reference LIKE ?",
			pattern, pattern, pattern)
	}
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CauseType != nil {
		query = query.Where("cause_type = ?", *filter.CauseType)
	}
	if filter.CauseID != nil {
		query = query.Where("cause_id = ?", *filter.CauseID)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	if filter.Overdue != nil && *filter.Overdue {
		query = query.Where("due_date < ? AND status IN ?", time.Now(), outstandingStatuses)
	}
	return query
}

// applyPagination applies page-based offset and limit
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

// nextDocumentNumber finds the highest sequential number under the prefix and
// returns the next one, zero-padded to five digits.
func nextDocumentNumber(db *gorm.DB, model interface{}, column, prefix string) (string, error) {
	var maxNumber string
	if err := db.Model(model).
		Select(column).
		Where(column+" LIKE ?", prefix+"%").
		Order(column + " DESC").
		Limit(1).
		Pluck(column, &maxNumber).Error; err != nil {
		return "", err
	}

	var nextNum int
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "-")
		if len(parts) == 3 {
			fmt.Sscanf(parts[2], "%d", &nextNum)
		}
	}
	nextNum++

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// Ensure GormAccountsPayableRepository implements AccountsPayableRepository
var _ finance.AccountsPayableRepository = (*GormAccountsPayableRepository)(nil)
