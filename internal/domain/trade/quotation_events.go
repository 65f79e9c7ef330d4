package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgworks/erp/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeQuotation = "Quotation"

// Event type constants
const (
	EventTypeQuotationCreated        = "QuotationCreated"
	EventTypeQuotationSubmitted      = "QuotationSubmitted"
	EventTypeQuotationApproved       = "QuotationApproved"
	EventTypeQuotationRejected       = "QuotationRejected"
	EventTypeQuotationSent           = "QuotationSent"
	EventTypeQuotationAccepted       = "QuotationAccepted"
	EventTypeQuotationVersionCreated = "QuotationVersionCreated"
)

// QuotationCreatedEvent is raised when a new quotation draft is created
type QuotationCreatedEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID `json:"quotation_id"`
	QuotationNumber string    `json:"quotation_number"`
	ProjectID       uuid.UUID `json:"project_id"`
	CustomerID      uuid.UUID `json:"customer_id"`
	VersionNumber   int       `json:"version_number"`
}

// NewQuotationCreatedEvent creates a new QuotationCreatedEvent
func NewQuotationCreatedEvent(q *Quotation) *QuotationCreatedEvent {
	return &QuotationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationCreated, AggregateTypeQuotation, q.ID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		ProjectID:       q.ProjectID,
		CustomerID:      q.CustomerID,
		VersionNumber:   q.VersionNumber,
	}
}

// EventType returns the event type name
func (e *QuotationCreatedEvent) EventType() string {
	return EventTypeQuotationCreated
}

// QuotationSubmittedEvent is raised when a draft is submitted for approval
type QuotationSubmittedEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID       `json:"quotation_id"`
	QuotationNumber string          `json:"quotation_number"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// NewQuotationSubmittedEvent creates a new QuotationSubmittedEvent
func NewQuotationSubmittedEvent(q *Quotation) *QuotationSubmittedEvent {
	return &QuotationSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationSubmitted, AggregateTypeQuotation, q.ID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		TotalAmount:     q.TotalAmount,
	}
}

// EventType returns the event type name
func (e *QuotationSubmittedEvent) EventType() string {
	return EventTypeQuotationSubmitted
}

// QuotationApprovedEvent is raised when a pending quotation is approved
type QuotationApprovedEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID       `json:"quotation_id"`
	QuotationNumber string          `json:"quotation_number"`
	ApprovedByID    uuid.UUID       `json:"approved_by_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// NewQuotationApprovedEvent creates a new QuotationApprovedEvent
func NewQuotationApprovedEvent(q *Quotation) *QuotationApprovedEvent {
	approvedBy := uuid.Nil
	if q.ApprovedByID != nil {
		approvedBy = *q.ApprovedByID
	}
	return &QuotationApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationApproved, AggregateTypeQuotation, q.ID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		ApprovedByID:    approvedBy,
		TotalAmount:     q.TotalAmount,
	}
}

// EventType returns the event type name
func (e *QuotationApprovedEvent) EventType() string {
	return EventTypeQuotationApproved
}

// QuotationRejectedEvent is raised when a pending quotation is rejected
type QuotationRejectedEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID `json:"quotation_id"`
	QuotationNumber string    `json:"quotation_number"`
	Reason          string    `json:"reason"`
}

// NewQuotationRejectedEvent creates a new QuotationRejectedEvent
func NewQuotationRejectedEvent(q *Quotation) *QuotationRejectedEvent {
	return &QuotationRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationRejected, AggregateTypeQuotation, q.ID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		Reason:          q.RejectionReason,
	}
}

// EventType returns the event type name
func (e *QuotationRejectedEvent) EventType() string {
	return EventTypeQuotationRejected
}

// QuotationSentEvent is raised when an approved quotation is sent
type QuotationSentEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID `json:"quotation_id"`
	QuotationNumber string    `json:"quotation_number"`
	CustomerID      uuid.UUID `json:"customer_id"`
}

// NewQuotationSentEvent creates a new QuotationSentEvent
func NewQuotationSentEvent(q *Quotation) *QuotationSentEvent {
	return &QuotationSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationSent, AggregateTypeQuotation, q.ID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		CustomerID:      q.CustomerID,
	}
}

// EventType returns the event type name
func (e *QuotationSentEvent) EventType() string {
	return EventTypeQuotationSent
}

// QuotationAcceptedEvent is raised when the customer accepts a sent quotation
type QuotationAcceptedEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID       `json:"quotation_id"`
	QuotationNumber string          `json:"quotation_number"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// NewQuotationAcceptedEvent creates a new QuotationAcceptedEvent
func NewQuotationAcceptedEvent(q *Quotation) *QuotationAcceptedEvent {
	return &QuotationAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationAccepted, AggregateTypeQuotation, q.ID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		CustomerID:      q.CustomerID,
		TotalAmount:     q.TotalAmount,
	}
}

// EventType returns the event type name
func (e *QuotationAcceptedEvent) EventType() string {
	return EventTypeQuotationAccepted
}

// QuotationVersionCreatedEvent is raised when a new version is derived
type QuotationVersionCreatedEvent struct {
	shared.BaseDomainEvent
	QuotationID         uuid.UUID `json:"quotation_id"`
	QuotationNumber     string    `json:"quotation_number"`
	VersionNumber       int       `json:"version_number"`
	PreviousQuotationID uuid.UUID `json:"previous_quotation_id"`
}

// NewQuotationVersionCreatedEvent creates a new QuotationVersionCreatedEvent
func NewQuotationVersionCreatedEvent(q *Quotation, previousID uuid.UUID) *QuotationVersionCreatedEvent {
	return &QuotationVersionCreatedEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeQuotationVersionCreated, AggregateTypeQuotation, q.ID),
		QuotationID:         q.ID,
		QuotationNumber:     q.QuotationNumber,
		VersionNumber:       q.VersionNumber,
		PreviousQuotationID: previousID,
	}
}

// EventType returns the event type name
func (e *QuotationVersionCreatedEvent) EventType() string {
	return EventTypeQuotationVersionCreated
}
