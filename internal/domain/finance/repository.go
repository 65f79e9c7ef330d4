package finance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mfgworks/erp/internal/domain/shared"
)

// AccountsPayableFilter defines filtering options for payable queries
type AccountsPayableFilter struct {
	shared.Filter
	VendorID  *uuid.UUID     // Filter by vendor
	Status    *PayableStatus // Filter by status
	CauseType *CauseType     // Filter by cause type
	CauseID   *uuid.UUID     // Filter by cause document
	DueFrom   *time.Time     // Filter by due date range start
	DueTo     *time.Time     // Filter by due date range end
	Overdue   *bool          // Filter only overdue payables
}

// AccountsPayableRepository defines the persistence contract for payables
type AccountsPayableRepository interface {
	// FindByID finds an accounts payable by ID
	FindByID(ctx context.Context, id uuid.UUID) (*AccountsPayable, error)

	// FindByNumber finds by payable number
	FindByNumber(ctx context.Context, payableNumber string) (*AccountsPayable, error)

	// FindByCause finds by the originating disbursement cause
	FindByCause(ctx context.Context, causeType CauseType, causeID uuid.UUID) (*AccountsPayable, error)

	// FindAll finds payables with filtering
	FindAll(ctx context.Context, filter AccountsPayableFilter) ([]AccountsPayable, error)

	// FindByVendor finds payables owed to a vendor
	FindByVendor(ctx context.Context, vendorID uuid.UUID, filter AccountsPayableFilter) ([]AccountsPayable, error)

	// FindOutstanding finds all payables still carrying a balance
	FindOutstanding(ctx context.Context, filter AccountsPayableFilter) ([]AccountsPayable, error)

	// Save creates or updates an accounts payable and its payment ledger
	Save(ctx context.Context, payable *AccountsPayable) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payable *AccountsPayable) error

	// Count counts payables matching the filter
	Count(ctx context.Context, filter AccountsPayableFilter) (int64, error)

	// GeneratePayableNumber generates the next payable number
	GeneratePayableNumber(ctx context.Context) (string, error)
}
