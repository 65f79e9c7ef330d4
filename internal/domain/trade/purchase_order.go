package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/domain/shared/valueobject"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusCreated   PurchaseOrderStatus = "CREATED"
	PurchaseOrderStatusSent      PurchaseOrderStatus = "SENT"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusCreated, PurchaseOrderStatusSent,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the order is in a terminal state
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusReceived || s == PurchaseOrderStatusCancelled
}

// PurchaseOrder is a commitment to a vendor, placed for the winning RFQ line
// of a purchase request. Receipt and cancellation facts feed back into the
// originating request and into accounts payable through domain events.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	PONumber          string              `gorm:"type:varchar(50);not null;uniqueIndex" json:"po_number"`
	PurchaseRequestID uuid.UUID           `gorm:"type:uuid;not null;index" json:"purchase_request_id"`
	RFQLineID         uuid.UUID           `gorm:"type:uuid;not null" json:"rfq_line_id"`
	VendorID          uuid.UUID           `gorm:"type:uuid;not null;index" json:"vendor_id"`
	VendorName        string              `gorm:"type:varchar(200);not null" json:"vendor_name"`
	Quantity          decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"quantity"`
	Unit              string              `gorm:"type:varchar(20)" json:"unit"`
	UnitCost          decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"unit_cost"`
	TotalAmount       decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	Currency          string              `gorm:"type:varchar(3);not null;default:'KRW'" json:"currency"`
	ExpectedDate      time.Time           `gorm:"not null" json:"expected_date"`
	Status            PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'CREATED'" json:"status"`
	CancelReason      string              `gorm:"type:varchar(500)" json:"cancel_reason,omitempty"`
	SentAt            *time.Time          `json:"sent_at,omitempty"`
	ReceivedAt        *time.Time          `json:"received_at,omitempty"`
	CancelledAt       *time.Time          `json:"cancelled_at,omitempty"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in CREATED status
func NewPurchaseOrder(
	poNumber string,
	purchaseRequestID uuid.UUID,
	rfqLineID uuid.UUID,
	vendorID uuid.UUID,
	vendorName string,
	quantity valueobject.Quantity,
	unitCost valueobject.Money,
	expectedDate time.Time,
) (*PurchaseOrder, error) {
	if poNumber == "" {
		return nil, shared.NewDomainError("INVALID_PO_NUMBER", "PO number cannot be empty")
	}
	if purchaseRequestID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REQUEST", "Purchase request ID cannot be empty")
	}
	if rfqLineID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RFQ_LINE", "RFQ line ID cannot be empty")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	if vendorName == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor name cannot be empty")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_UNIT_COST", "Unit cost cannot be negative")
	}
	if expectedDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_EXPECTED_DATE", "Expected date is required")
	}

	total := unitCost.Multiply(quantity.Value())

	po := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PONumber:          poNumber,
		PurchaseRequestID: purchaseRequestID,
		RFQLineID:         rfqLineID,
		VendorID:          vendorID,
		VendorName:        vendorName,
		Quantity:          quantity.Value(),
		Unit:              quantity.Unit(),
		UnitCost:          unitCost.Amount(),
		TotalAmount:       total.Amount(),
		Currency:          string(unitCost.Currency()),
		ExpectedDate:      expectedDate,
		Status:            PurchaseOrderStatusCreated,
	}

	po.AddDomainEvent(NewPurchaseOrderCreatedEvent(po))

	return po, nil
}

// MarkSent records that the order left for the vendor
func (po *PurchaseOrder) MarkSent() error {
	if po.Status != PurchaseOrderStatusCreated {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot send purchase order in %s status", po.Status))
	}

	now := time.Now()
	po.Status = PurchaseOrderStatusSent
	po.SentAt = &now
	po.Touch()
	po.IncrementVersion()

	return nil
}

// Receive records that the ordered goods or services arrived in full
func (po *PurchaseOrder) Receive() error {
	if po.Status != PurchaseOrderStatusCreated && po.Status != PurchaseOrderStatusSent {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot receive purchase order in %s status", po.Status))
	}

	now := time.Now()
	po.Status = PurchaseOrderStatusReceived
	po.ReceivedAt = &now
	po.Touch()
	po.IncrementVersion()

	po.AddDomainEvent(NewPurchaseOrderReceivedEvent(po))

	return nil
}

// Cancel cancels the order before receipt
func (po *PurchaseOrder) Cancel(reason string) error {
	if po.Status == PurchaseOrderStatusReceived {
		return shared.NewDomainError(shared.CodeInvalidState, "Cannot cancel a received purchase order")
	}
	if po.Status == PurchaseOrderStatusCancelled {
		return shared.NewDomainError(shared.CodeInvalidState, "Purchase order is already cancelled")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	po.Status = PurchaseOrderStatusCancelled
	po.CancelReason = reason
	po.CancelledAt = &now
	po.Touch()
	po.IncrementVersion()

	po.AddDomainEvent(NewPurchaseOrderCancelledEvent(po))

	return nil
}

// GetTotalAmount returns the order total as a money value
func (po *PurchaseOrder) GetTotalAmount() valueobject.Money {
	m, err := valueobject.NewMoney(po.TotalAmount, valueobject.Currency(po.Currency))
	if err != nil {
		return valueobject.NewMoneyKRW(po.TotalAmount)
	}
	return m
}

// GetQuantity returns the ordered quantity as a value object
func (po *PurchaseOrder) GetQuantity() valueobject.Quantity {
	return valueobject.MustNewQuantity(po.Quantity, po.Unit)
}
