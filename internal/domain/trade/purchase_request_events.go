package trade

import (
	"github.com/google/uuid"

	"github.com/mfgworks/erp/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePurchaseRequest = "PurchaseRequest"

// Event type constants
const (
	EventTypePurchaseRequestCreated           = "PurchaseRequestCreated"
	EventTypePurchaseRequestRFQSent           = "PurchaseRequestRFQSent"
	EventTypePurchaseRequestVendorSelected    = "PurchaseRequestVendorSelected"
	EventTypePurchaseRequestOrdered           = "PurchaseRequestOrdered"
	EventTypePurchaseRequestClosed            = "PurchaseRequestClosed"
	EventTypePurchaseRequestSelectionReverted = "PurchaseRequestSelectionReverted"
	EventTypePurchaseRequestCancelled         = "PurchaseRequestCancelled"
)

// PurchaseRequestCreatedEvent is raised when a new purchase request is created
type PurchaseRequestCreatedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	NeedType      NeedType  `json:"need_type"`
	NeedID        uuid.UUID `json:"need_id"`
}

// NewPurchaseRequestCreatedEvent creates a new PurchaseRequestCreatedEvent
func NewPurchaseRequestCreatedEvent(pr *PurchaseRequest) *PurchaseRequestCreatedEvent {
	return &PurchaseRequestCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRequestCreated, AggregateTypePurchaseRequest, pr.ID),
		RequestID:       pr.ID,
		RequestNumber:   pr.RequestNumber,
		NeedType:        pr.NeedType,
		NeedID:          pr.NeedID,
	}
}

// EventType returns the event type name
func (e *PurchaseRequestCreatedEvent) EventType() string {
	return EventTypePurchaseRequestCreated
}

// PurchaseRequestRFQSentEvent is raised when an RFQ goes out to vendors
type PurchaseRequestRFQSentEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID   `json:"request_id"`
	RequestNumber string      `json:"request_number"`
	VendorIDs     []uuid.UUID `json:"vendor_ids"`
}

// NewPurchaseRequestRFQSentEvent creates a new PurchaseRequestRFQSentEvent
func NewPurchaseRequestRFQSentEvent(pr *PurchaseRequest, vendorIDs []uuid.UUID) *PurchaseRequestRFQSentEvent {
	return &PurchaseRequestRFQSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRequestRFQSent, AggregateTypePurchaseRequest, pr.ID),
		RequestID:       pr.ID,
		RequestNumber:   pr.RequestNumber,
		VendorIDs:       vendorIDs,
	}
}

// EventType returns the event type name
func (e *PurchaseRequestRFQSentEvent) EventType() string {
	return EventTypePurchaseRequestRFQSent
}

// PurchaseRequestVendorSelectedEvent is raised when a winning vendor is picked
type PurchaseRequestVendorSelectedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	RFQLineID     uuid.UUID `json:"rfq_line_id"`
	VendorID      uuid.UUID `json:"vendor_id"`
}

// NewPurchaseRequestVendorSelectedEvent creates a new PurchaseRequestVendorSelectedEvent
func NewPurchaseRequestVendorSelectedEvent(pr *PurchaseRequest, line *RFQLine) *PurchaseRequestVendorSelectedEvent {
	return &PurchaseRequestVendorSelectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRequestVendorSelected, AggregateTypePurchaseRequest, pr.ID),
		RequestID:       pr.ID,
		RequestNumber:   pr.RequestNumber,
		RFQLineID:       line.ID,
		VendorID:        line.VendorID,
	}
}

// EventType returns the event type name
func (e *PurchaseRequestVendorSelectedEvent) EventType() string {
	return EventTypePurchaseRequestVendorSelected
}

// PurchaseRequestOrderedEvent is raised when a purchase order covers the request
type PurchaseRequestOrderedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID `json:"request_id"`
	RequestNumber string    `json:"request_number"`
}

// NewPurchaseRequestOrderedEvent creates a new PurchaseRequestOrderedEvent
func NewPurchaseRequestOrderedEvent(pr *PurchaseRequest) *PurchaseRequestOrderedEvent {
	return &PurchaseRequestOrderedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRequestOrdered, AggregateTypePurchaseRequest, pr.ID),
		RequestID:       pr.ID,
		RequestNumber:   pr.RequestNumber,
	}
}

// EventType returns the event type name
func (e *PurchaseRequestOrderedEvent) EventType() string {
	return EventTypePurchaseRequestOrdered
}

// PurchaseRequestClosedEvent is raised when the request is fulfilled
type PurchaseRequestClosedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID `json:"request_id"`
	RequestNumber string    `json:"request_number"`
}

// NewPurchaseRequestClosedEvent creates a new PurchaseRequestClosedEvent
func NewPurchaseRequestClosedEvent(pr *PurchaseRequest) *PurchaseRequestClosedEvent {
	return &PurchaseRequestClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRequestClosed, AggregateTypePurchaseRequest, pr.ID),
		RequestID:       pr.ID,
		RequestNumber:   pr.RequestNumber,
	}
}

// EventType returns the event type name
func (e *PurchaseRequestClosedEvent) EventType() string {
	return EventTypePurchaseRequestClosed
}

// PurchaseRequestSelectionRevertedEvent is raised when a vendor selection is undone
type PurchaseRequestSelectionRevertedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	RFQLineID     uuid.UUID `json:"rfq_line_id"`
}

// NewPurchaseRequestSelectionRevertedEvent creates a new PurchaseRequestSelectionRevertedEvent
func NewPurchaseRequestSelectionRevertedEvent(pr *PurchaseRequest, rfqLineID uuid.UUID) *PurchaseRequestSelectionRevertedEvent {
	return &PurchaseRequestSelectionRevertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRequestSelectionReverted, AggregateTypePurchaseRequest, pr.ID),
		RequestID:       pr.ID,
		RequestNumber:   pr.RequestNumber,
		RFQLineID:       rfqLineID,
	}
}

// EventType returns the event type name
func (e *PurchaseRequestSelectionRevertedEvent) EventType() string {
	return EventTypePurchaseRequestSelectionReverted
}

// PurchaseRequestCancelledEvent is raised when the request is cancelled
type PurchaseRequestCancelledEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	Reason        string    `json:"reason"`
}

// NewPurchaseRequestCancelledEvent creates a new PurchaseRequestCancelledEvent
func NewPurchaseRequestCancelledEvent(pr *PurchaseRequest) *PurchaseRequestCancelledEvent {
	return &PurchaseRequestCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRequestCancelled, AggregateTypePurchaseRequest, pr.ID),
		RequestID:       pr.ID,
		RequestNumber:   pr.RequestNumber,
		Reason:          pr.CancelReason,
	}
}

// EventType returns the event type name
func (e *PurchaseRequestCancelledEvent) EventType() string {
	return EventTypePurchaseRequestCancelled
}
