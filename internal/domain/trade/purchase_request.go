package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/domain/shared/valueobject"
)

// PurchaseRequestStatus represents the status of a purchase request
type PurchaseRequestStatus string

const (
	PurchaseRequestStatusDraft          PurchaseRequestStatus = "DRAFT"
	PurchaseRequestStatusRFQSent        PurchaseRequestStatus = "RFQ_SENT"
	PurchaseRequestStatusVendorSelected PurchaseRequestStatus = "VENDOR_SELECTED"
	PurchaseRequestStatusOrdered        PurchaseRequestStatus = "ORDERED"
	PurchaseRequestStatusClosed         PurchaseRequestStatus = "CLOSED"
	PurchaseRequestStatusCancelled      PurchaseRequestStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseRequestStatus
func (s PurchaseRequestStatus) IsValid() bool {
	switch s {
	case PurchaseRequestStatusDraft, PurchaseRequestStatusRFQSent, PurchaseRequestStatusVendorSelected,
		PurchaseRequestStatusOrdered, PurchaseRequestStatusClosed, PurchaseRequestStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseRequestStatus
func (s PurchaseRequestStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the request is in a terminal state
func (s PurchaseRequestStatus) IsTerminal() bool {
	return s == PurchaseRequestStatusClosed || s == PurchaseRequestStatusCancelled
}

// NeedType identifies what kind of need the request covers
type NeedType string

const (
	NeedTypeService  NeedType = "SERVICE"
	NeedTypeMaterial NeedType = "MATERIAL"
)

// IsValid checks if the need type is valid
func (t NeedType) IsValid() bool {
	return t == NeedTypeService || t == NeedTypeMaterial
}

// RFQLine is one vendor solicited during the RFQ step. The line ID is what a
// purchase order cancellation refers back to when a selection is reverted.
type RFQLine struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;index" json:"request_id"`
	VendorID  uuid.UUID `gorm:"type:uuid;not null" json:"vendor_id"`
	Selected  bool      `gorm:"not null;default:false" json:"selected"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for GORM
func (RFQLine) TableName() string {
	return "purchase_request_rfq_lines"
}

// PurchaseRequest is an internal requisition. Its later lifecycle is driven
// both by direct commands and by purchase order facts arriving as events.
type PurchaseRequest struct {
	shared.BaseAggregateRoot
	RequestNumber string                `gorm:"type:varchar(50);not null;uniqueIndex" json:"request_number"`
	ProjectID     *uuid.UUID            `gorm:"type:uuid;index" json:"project_id,omitempty"`
	NeedType      NeedType              `gorm:"type:varchar(20);not null" json:"need_type"`
	NeedID        uuid.UUID             `gorm:"type:uuid;not null" json:"need_id"`
	Description   string                `gorm:"type:varchar(500)" json:"description"`
	Quantity      decimal.Decimal       `gorm:"type:decimal(18,4);not null" json:"quantity"`
	Unit          string                `gorm:"type:varchar(20)" json:"unit"`
	RequiredDate  time.Time             `gorm:"not null" json:"required_date"`
	Status        PurchaseRequestStatus `gorm:"type:varchar(20);not null;default:'DRAFT'" json:"status"`
	RFQLines      []RFQLine             `gorm:"foreignKey:RequestID;references:ID" json:"rfq_lines"`
	CancelReason  string                `gorm:"type:varchar(500)" json:"cancel_reason,omitempty"`
	CancelledAt   *time.Time            `json:"cancelled_at,omitempty"`
	ClosedAt      *time.Time            `json:"closed_at,omitempty"`
}

// TableName returns the table name for GORM
func (PurchaseRequest) TableName() string {
	return "purchase_requests"
}

// NewPurchaseRequest creates a new purchase request in DRAFT status
func NewPurchaseRequest(
	requestNumber string,
	projectID *uuid.UUID,
	needType NeedType,
	needID uuid.UUID,
	description string,
	quantity valueobject.Quantity,
	requiredDate time.Time,
) (*PurchaseRequest, error) {
	if requestNumber == "" {
		return nil, shared.NewDomainError("INVALID_REQUEST_NUMBER", "Request number cannot be empty")
	}
	if !needType.IsValid() {
		return nil, shared.NewDomainError("INVALID_NEED_TYPE", "Need type is not valid")
	}
	if needID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_NEED", "Need ID cannot be empty")
	}
	if requiredDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_REQUIRED_DATE", "Required date is required")
	}

	pr := &PurchaseRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RequestNumber:     requestNumber,
		ProjectID:         projectID,
		NeedType:          needType,
		NeedID:            needID,
		Description:       description,
		Quantity:          quantity.Value(),
		Unit:              quantity.Unit(),
		RequiredDate:      requiredDate,
		Status:            PurchaseRequestStatusDraft,
		RFQLines:          make([]RFQLine, 0),
	}

	pr.AddDomainEvent(NewPurchaseRequestCreatedEvent(pr))

	return pr, nil
}

// SendRFQ solicits the given vendors and moves the request to RFQ_SENT
func (pr *PurchaseRequest) SendRFQ(vendorIDs []uuid.UUID) error {
	if pr.Status != PurchaseRequestStatusDraft {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot send RFQ for request in %s status", pr.Status))
	}
	if len(vendorIDs) == 0 {
		return shared.NewDomainError("NO_VENDORS", "At least one vendor is required to send an RFQ")
	}

	seen := make(map[uuid.UUID]bool, len(vendorIDs))
	for _, vendorID := range vendorIDs {
		if vendorID == uuid.Nil {
			return shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
		}
		if seen[vendorID] {
			return shared.NewDomainError("DUPLICATE_VENDOR", "Duplicate vendor in RFQ list")
		}
		seen[vendorID] = true
	}

	now := time.Now()
	for _, vendorID := range vendorIDs {
		pr.RFQLines = append(pr.RFQLines, RFQLine{
			ID:        uuid.New(),
			RequestID: pr.ID,
			VendorID:  vendorID,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	pr.Status = PurchaseRequestStatusRFQSent
	pr.Touch()
	pr.IncrementVersion()

	pr.AddDomainEvent(NewPurchaseRequestRFQSentEvent(pr, vendorIDs))

	return nil
}

// SelectVendor marks one RFQ line as the winning vendor
func (pr *PurchaseRequest) SelectVendor(rfqLineID uuid.UUID) error {
	if pr.Status != PurchaseRequestStatusRFQSent {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot select a vendor for request in %s status", pr.Status))
	}

	for i := range pr.RFQLines {
		if pr.RFQLines[i].ID == rfqLineID {
			pr.RFQLines[i].Selected = true
			pr.RFQLines[i].UpdatedAt = time.Now()
			pr.Status = PurchaseRequestStatusVendorSelected
			pr.Touch()
			pr.IncrementVersion()
			pr.AddDomainEvent(NewPurchaseRequestVendorSelectedEvent(pr, &pr.RFQLines[i]))
			return nil
		}
	}
	return shared.NewDomainError("RFQ_LINE_NOT_FOUND", "RFQ line not found in purchase request")
}

// MarkOrdered records that a purchase order was placed for the selection
func (pr *PurchaseRequest) MarkOrdered() error {
	if pr.Status != PurchaseRequestStatusVendorSelected {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot mark request ordered in %s status", pr.Status))
	}

	pr.Status = PurchaseRequestStatusOrdered
	pr.Touch()
	pr.IncrementVersion()

	pr.AddDomainEvent(NewPurchaseRequestOrderedEvent(pr))

	return nil
}

// Close fulfils the request after the ordered goods or services arrived.
// VENDOR_SELECTED is accepted alongside ORDERED so that a receipt outrunning
// the ordered fact still completes the request.
func (pr *PurchaseRequest) Close() error {
	if pr.Status != PurchaseRequestStatusOrdered && pr.Status != PurchaseRequestStatusVendorSelected {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot close request in %s status", pr.Status))
	}

	now := time.Now()
	pr.Status = PurchaseRequestStatusClosed
	pr.ClosedAt = &now
	pr.Touch()
	pr.IncrementVersion()

	pr.AddDomainEvent(NewPurchaseRequestClosedEvent(pr))

	return nil
}

// RevertVendorSelection reopens the identified RFQ line after its purchase
// order was cancelled, reverting the request to RFQ_SENT.
func (pr *PurchaseRequest) RevertVendorSelection(rfqLineID uuid.UUID) error {
	if pr.Status != PurchaseRequestStatusVendorSelected && pr.Status != PurchaseRequestStatusOrdered {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot revert vendor selection for request in %s status", pr.Status))
	}

	for i := range pr.RFQLines {
		if pr.RFQLines[i].ID == rfqLineID {
			if !pr.RFQLines[i].Selected {
				return shared.NewDomainError(shared.CodeInvalidState, "RFQ line is not the selected vendor")
			}
			pr.RFQLines[i].Selected = false
			pr.RFQLines[i].UpdatedAt = time.Now()
			pr.Status = PurchaseRequestStatusRFQSent
			pr.Touch()
			pr.IncrementVersion()
			pr.AddDomainEvent(NewPurchaseRequestSelectionRevertedEvent(pr, rfqLineID))
			return nil
		}
	}
	return shared.NewDomainError("RFQ_LINE_NOT_FOUND", "RFQ line not found in purchase request")
}

// Cancel cancels the request. An ORDERED request cannot be cancelled
// directly; its purchase order must be cancelled first.
func (pr *PurchaseRequest) Cancel(reason string) error {
	if pr.Status.IsTerminal() {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot cancel request in %s status", pr.Status))
	}
	if pr.Status == PurchaseRequestStatusOrdered {
		return shared.NewDomainError(shared.CodeInvalidState,
			"Cannot cancel an ordered request; cancel its purchase order instead")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	pr.Status = PurchaseRequestStatusCancelled
	pr.CancelReason = reason
	pr.CancelledAt = &now
	pr.Touch()
	pr.IncrementVersion()

	pr.AddDomainEvent(NewPurchaseRequestCancelledEvent(pr))

	return nil
}

// SelectedRFQLine returns the currently selected RFQ line, or nil
func (pr *PurchaseRequest) SelectedRFQLine() *RFQLine {
	for i := range pr.RFQLines {
		if pr.RFQLines[i].Selected {
			return &pr.RFQLines[i]
		}
	}
	return nil
}

// FindRFQLine returns the RFQ line with the given ID, or nil
func (pr *PurchaseRequest) FindRFQLine(rfqLineID uuid.UUID) *RFQLine {
	for i := range pr.RFQLines {
		if pr.RFQLines[i].ID == rfqLineID {
			return &pr.RFQLines[i]
		}
	}
	return nil
}

// GetQuantity returns the requested quantity as a value object
func (pr *PurchaseRequest) GetQuantity() valueobject.Quantity {
	return valueobject.MustNewQuantity(pr.Quantity, pr.Unit)
}
