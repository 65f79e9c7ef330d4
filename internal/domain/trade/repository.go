package trade

import (
	"context"

	"github.com/google/uuid"

	"github.com/mfgworks/erp/internal/domain/shared"
)

// QuotationFilter narrows quotation queries
type QuotationFilter struct {
	shared.Filter
	Status     *QuotationStatus
	ProjectID  *uuid.UUID
	CustomerID *uuid.UUID
}

// QuotationRepository defines persistence operations for quotations
type QuotationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)
	FindByNumber(ctx context.Context, number string) (*Quotation, error)
	FindAll(ctx context.Context, filter QuotationFilter) (shared.Paginated[*Quotation], error)
	FindVersions(ctx context.Context, quotationNumber string) ([]*Quotation, error)
	Save(ctx context.Context, quotation *Quotation) error
	Count(ctx context.Context, filter QuotationFilter) (int64, error)
	GenerateQuotationNumber(ctx context.Context) (string, error)
}

// PurchaseRequestFilter narrows purchase request queries
type PurchaseRequestFilter struct {
	shared.Filter
	Status    *PurchaseRequestStatus
	ProjectID *uuid.UUID
	NeedType  *NeedType
}

// PurchaseRequestRepository defines persistence operations for purchase requests
type PurchaseRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseRequest, error)
	FindByNumber(ctx context.Context, number string) (*PurchaseRequest, error)
	FindAll(ctx context.Context, filter PurchaseRequestFilter) (shared.Paginated[*PurchaseRequest], error)
	Save(ctx context.Context, request *PurchaseRequest) error
	SaveWithLock(ctx context.Context, request *PurchaseRequest) error
	Count(ctx context.Context, filter PurchaseRequestFilter) (int64, error)
	GenerateRequestNumber(ctx context.Context) (string, error)
}

// PurchaseOrderFilter narrows purchase order queries
type PurchaseOrderFilter struct {
	shared.Filter
	Status   *PurchaseOrderStatus
	VendorID *uuid.UUID
}

// PurchaseOrderRepository defines persistence operations for purchase orders
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByNumber(ctx context.Context, poNumber string) (*PurchaseOrder, error)
	FindByRequest(ctx context.Context, purchaseRequestID uuid.UUID) ([]*PurchaseOrder, error)
	FindAll(ctx context.Context, filter PurchaseOrderFilter) (shared.Paginated[*PurchaseOrder], error)
	Save(ctx context.Context, order *PurchaseOrder) error
	Count(ctx context.Context, filter PurchaseOrderFilter) (int64, error)
	GeneratePONumber(ctx context.Context) (string, error)
}
