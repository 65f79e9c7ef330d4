package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgworks/erp/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePurchaseOrder = "PurchaseOrder"

// Event type constants
const (
	EventTypePurchaseOrderCreated   = "PurchaseOrderCreated"
	EventTypePurchaseOrderReceived  = "PurchaseOrderReceived"
	EventTypePurchaseOrderCancelled = "PurchaseOrderCancelled"
)

// PurchaseOrderCreatedEvent is raised when a purchase order is placed.
// The handler on the purchase request side moves the request to ORDERED.
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID   uuid.UUID       `json:"purchase_order_id"`
	PONumber          string          `json:"po_number"`
	PurchaseRequestID uuid.UUID       `json:"purchase_request_id"`
	RFQLineID         uuid.UUID       `json:"rfq_line_id"`
	VendorID          uuid.UUID       `json:"vendor_id"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(po *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, po.ID),
		PurchaseOrderID:   po.ID,
		PONumber:          po.PONumber,
		PurchaseRequestID: po.PurchaseRequestID,
		RFQLineID:         po.RFQLineID,
		VendorID:          po.VendorID,
		TotalAmount:       po.TotalAmount,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCreatedEvent) EventType() string {
	return EventTypePurchaseOrderCreated
}

// PurchaseOrderReceivedEvent is raised when the order is received in full.
// It closes the purchase request and opens an accounts payable.
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID   uuid.UUID       `json:"purchase_order_id"`
	PONumber          string          `json:"po_number"`
	PurchaseRequestID uuid.UUID       `json:"purchase_request_id"`
	VendorID          uuid.UUID       `json:"vendor_id"`
	VendorName        string          `json:"vendor_name"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Currency          string          `json:"currency"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(po *PurchaseOrder) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, po.ID),
		PurchaseOrderID:   po.ID,
		PONumber:          po.PONumber,
		PurchaseRequestID: po.PurchaseRequestID,
		VendorID:          po.VendorID,
		VendorName:        po.VendorName,
		TotalAmount:       po.TotalAmount,
		Currency:          po.Currency,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderReceivedEvent) EventType() string {
	return EventTypePurchaseOrderReceived
}

// PurchaseOrderCancelledEvent is raised when the order is cancelled before
// receipt. It reverts the vendor selection on the purchase request.
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID   uuid.UUID `json:"purchase_order_id"`
	PONumber          string    `json:"po_number"`
	PurchaseRequestID uuid.UUID `json:"purchase_request_id"`
	RFQLineID         uuid.UUID `json:"rfq_line_id"`
	Reason            string    `json:"reason"`
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(po *PurchaseOrder) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, AggregateTypePurchaseOrder, po.ID),
		PurchaseOrderID:   po.ID,
		PONumber:          po.PONumber,
		PurchaseRequestID: po.PurchaseRequestID,
		RFQLineID:         po.RFQLineID,
		Reason:            po.CancelReason,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCancelledEvent) EventType() string {
	return EventTypePurchaseOrderCancelled
}
