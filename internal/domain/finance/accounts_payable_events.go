package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgworks/erp/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeAccountsPayable = "AccountsPayable"

// Event type constants
const (
	EventTypeAccountsPayableCreated   = "AccountsPayableCreated"
	EventTypeVendorPaymentRecorded    = "VendorPaymentRecorded"
	EventTypeAccountsPayablePaid      = "AccountsPayablePaid"
	EventTypeAccountsPayableCancelled = "AccountsPayableCancelled"
)

// AccountsPayableCreatedEvent is raised when a disbursement obligation arises
type AccountsPayableCreatedEvent struct {
	shared.BaseDomainEvent
	PayableID      uuid.UUID       `json:"payable_id"`
	PayableNumber  string          `json:"payable_number"`
	CauseType      CauseType       `json:"cause_type"`
	CauseID        uuid.UUID       `json:"cause_id"`
	CauseReference string          `json:"cause_reference"`
	VendorID       uuid.UUID       `json:"vendor_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
}

// NewAccountsPayableCreatedEvent creates a new AccountsPayableCreatedEvent
func NewAccountsPayableCreatedEvent(ap *AccountsPayable) *AccountsPayableCreatedEvent {
	return &AccountsPayableCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountsPayableCreated, AggregateTypeAccountsPayable, ap.ID),
		PayableID:       ap.ID,
		PayableNumber:   ap.PayableNumber,
		CauseType:       ap.Cause.Type,
		CauseID:         ap.Cause.ID,
		CauseReference:  ap.Cause.ReferenceNumber,
		VendorID:        ap.VendorID,
		TotalAmount:     ap.TotalAmount,
		DueDate:         ap.DueDate,
	}
}

// EventType returns the event type name
func (e *AccountsPayableCreatedEvent) EventType() string {
	return EventTypeAccountsPayableCreated
}

// VendorPaymentRecordedEvent is raised when a payment is recorded that does
// not settle the payable in full
type VendorPaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PayableID         uuid.UUID       `json:"payable_id"`
	PayableNumber     string          `json:"payable_number"`
	PaymentID         uuid.UUID       `json:"payment_id"`
	PaymentAmount     decimal.Decimal `json:"payment_amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
}

// NewVendorPaymentRecordedEvent creates a new VendorPaymentRecordedEvent
func NewVendorPaymentRecordedEvent(ap *AccountsPayable, payment *VendorPayment) *VendorPaymentRecordedEvent {
	return &VendorPaymentRecordedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeVendorPaymentRecorded, AggregateTypeAccountsPayable, ap.ID),
		PayableID:         ap.ID,
		PayableNumber:     ap.PayableNumber,
		PaymentID:         payment.ID,
		PaymentAmount:     payment.Amount,
		PaidAmount:        ap.PaidAmount,
		OutstandingAmount: ap.OutstandingAmount,
	}
}

// EventType returns the event type name
func (e *VendorPaymentRecordedEvent) EventType() string {
	return EventTypeVendorPaymentRecorded
}

// AccountsPayablePaidEvent is raised when the outstanding balance reaches zero
type AccountsPayablePaidEvent struct {
	shared.BaseDomainEvent
	PayableID     uuid.UUID       `json:"payable_id"`
	PayableNumber string          `json:"payable_number"`
	VendorID      uuid.UUID       `json:"vendor_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewAccountsPayablePaidEvent creates a new AccountsPayablePaidEvent
func NewAccountsPayablePaidEvent(ap *AccountsPayable) *AccountsPayablePaidEvent {
	return &AccountsPayablePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountsPayablePaid, AggregateTypeAccountsPayable, ap.ID),
		PayableID:       ap.ID,
		PayableNumber:   ap.PayableNumber,
		VendorID:        ap.VendorID,
		TotalAmount:     ap.TotalAmount,
	}
}

// EventType returns the event type name
func (e *AccountsPayablePaidEvent) EventType() string {
	return EventTypeAccountsPayablePaid
}

// AccountsPayableCancelledEvent is raised when a pending payable is cancelled
type AccountsPayableCancelledEvent struct {
	shared.BaseDomainEvent
	PayableID     uuid.UUID `json:"payable_id"`
	PayableNumber string    `json:"payable_number"`
	VendorID      uuid.UUID `json:"vendor_id"`
}

// NewAccountsPayableCancelledEvent creates a new AccountsPayableCancelledEvent
func NewAccountsPayableCancelledEvent(ap *AccountsPayable) *AccountsPayableCancelledEvent {
	return &AccountsPayableCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountsPayableCancelled, AggregateTypeAccountsPayable, ap.ID),
		PayableID:       ap.ID,
		PayableNumber:   ap.PayableNumber,
		VendorID:        ap.VendorID,
	}
}

// EventType returns the event type name
func (e *AccountsPayableCancelledEvent) EventType() string {
	return EventTypeAccountsPayableCancelled
}
