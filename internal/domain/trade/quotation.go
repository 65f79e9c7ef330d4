package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/domain/shared/valueobject"
)

// QuotationStatus represents the status of a quotation
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "DRAFT"
	QuotationStatusPending  QuotationStatus = "PENDING"
	QuotationStatusApproved QuotationStatus = "APPROVED"
	QuotationStatusRejected QuotationStatus = "REJECTED"
	QuotationStatusSent     QuotationStatus = "SENT"
	QuotationStatusAccepted QuotationStatus = "ACCEPTED"
)

// IsValid checks if the status is a valid QuotationStatus
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusPending, QuotationStatusApproved,
		QuotationStatusRejected, QuotationStatusSent, QuotationStatusAccepted:
		return true
	}
	return false
}

// String returns the string representation of QuotationStatus
func (s QuotationStatus) String() string {
	return string(s)
}

// CanCreateNewVersion returns true if a new version may be derived from this
// status. A DRAFT is itself the latest mutable draft, so it never spawns one.
func (s QuotationStatus) CanCreateNewVersion() bool {
	return s == QuotationStatusApproved || s == QuotationStatusRejected || s == QuotationStatusSent
}

// QuotationLineItem represents a priced line in a quotation
type QuotationLineItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	QuotationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"quotation_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	ProductName string          `gorm:"type:varchar(200);not null" json:"product_name"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"line_total"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for GORM
func (QuotationLineItem) TableName() string {
	return "quotation_line_items"
}

// NewQuotationLineItem creates a new quotation line item
func NewQuotationLineItem(quotationID, productID uuid.UUID, productName string, quantity decimal.Decimal, unitPrice valueobject.Money) (*QuotationLineItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &QuotationLineItem{
		ID:          uuid.New(),
		QuotationID: quotationID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		LineTotal:   quantity.Mul(unitPrice.Amount()),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// GetLineTotalMoney returns the line total as Money value object
func (i *QuotationLineItem) GetLineTotalMoney() valueobject.Money {
	return valueobject.NewMoneyKRW(i.LineTotal)
}

// Quotation is a priced proposal to a customer. Line items are mutable only
// while the quotation is a DRAFT; every later change of substance happens by
// deriving a new version.
type Quotation struct {
	shared.BaseAggregateRoot
	QuotationNumber string              `gorm:"type:varchar(50);not null;index" json:"quotation_number"`
	ProjectID       uuid.UUID           `gorm:"type:uuid;not null;index" json:"project_id"`
	CustomerID      uuid.UUID           `gorm:"type:uuid;not null;index" json:"customer_id"`
	VersionNumber   int                 `gorm:"not null;default:1" json:"version_number"`
	Status          QuotationStatus     `gorm:"type:varchar(20);not null;default:'DRAFT'" json:"status"`
	Items           []QuotationLineItem `gorm:"foreignKey:QuotationID;references:ID" json:"items"`
	TotalAmount     decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"total_amount"`
	ValidityDays    int                 `gorm:"not null" json:"validity_days"`
	ExpiryDate      *time.Time          `json:"expiry_date,omitempty"`
	CreatedByID     uuid.UUID           `gorm:"type:uuid;not null" json:"created_by_id"`
	SubmittedAt     *time.Time          `json:"submitted_at,omitempty"`
	ApprovedAt      *time.Time          `json:"approved_at,omitempty"`
	ApprovedByID    *uuid.UUID          `gorm:"type:uuid" json:"approved_by_id,omitempty"`
	RejectionReason string              `gorm:"type:varchar(500)" json:"rejection_reason,omitempty"`
	SentAt          *time.Time          `json:"sent_at,omitempty"`
	AcceptedAt      *time.Time          `json:"accepted_at,omitempty"`
}

// TableName returns the table name for GORM
func (Quotation) TableName() string {
	return "quotations"
}

// NewQuotation creates a new quotation in DRAFT status at version 1
func NewQuotation(quotationNumber string, projectID, customerID uuid.UUID, validityDays int, createdByID uuid.UUID) (*Quotation, error) {
	if quotationNumber == "" {
		return nil, shared.NewDomainError("INVALID_QUOTATION_NUMBER", "Quotation number cannot be empty")
	}
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if validityDays <= 0 {
		return nil, shared.NewDomainError("INVALID_VALIDITY", "Validity days must be positive")
	}
	if createdByID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CREATOR", "Created-by user ID cannot be empty")
	}

	q := &Quotation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		QuotationNumber:   quotationNumber,
		ProjectID:         projectID,
		CustomerID:        customerID,
		VersionNumber:     1,
		Status:            QuotationStatusDraft,
		Items:             make([]QuotationLineItem, 0),
		TotalAmount:       decimal.Zero,
		ValidityDays:      validityDays,
		CreatedByID:       createdByID,
	}
	expiry := q.CreatedAt.AddDate(0, 0, validityDays)
	q.ExpiryDate = &expiry

	q.AddDomainEvent(NewQuotationCreatedEvent(q))

	return q, nil
}

// AddLineItem adds a line item. Only allowed while DRAFT.
func (q *Quotation) AddLineItem(productID uuid.UUID, productName string, quantity decimal.Decimal, unitPrice valueobject.Money) (*QuotationLineItem, error) {
	if q.Status != QuotationStatusDraft {
		return nil, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot modify line items of quotation in %s status", q.Status))
	}

	item, err := NewQuotationLineItem(q.ID, productID, productName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	q.Items = append(q.Items, *item)
	q.recalculateTotal()
	q.Touch()
	q.IncrementVersion()

	return item, nil
}

// UpdateLineItem updates quantity and unit price of an item. DRAFT only.
func (q *Quotation) UpdateLineItem(itemID uuid.UUID, quantity decimal.Decimal, unitPrice valueobject.Money) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot modify line items of quotation in %s status", q.Status))
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	for i := range q.Items {
		if q.Items[i].ID == itemID {
			q.Items[i].Quantity = quantity
			q.Items[i].UnitPrice = unitPrice.Amount()
			q.Items[i].LineTotal = quantity.Mul(unitPrice.Amount())
			q.Items[i].UpdatedAt = time.Now()
			q.recalculateTotal()
			q.Touch()
			q.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found in quotation")
}

// RemoveLineItem removes an item. DRAFT only.
func (q *Quotation) RemoveLineItem(itemID uuid.UUID) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot modify line items of quotation in %s status", q.Status))
	}

	for i := range q.Items {
		if q.Items[i].ID == itemID {
			q.Items = append(q.Items[:i], q.Items[i+1:]...)
			q.recalculateTotal()
			q.Touch()
			q.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found in quotation")
}

// Submit moves the quotation to PENDING approval. Requires at least one item.
func (q *Quotation) Submit() error {
	if q.Status != QuotationStatusDraft {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot submit quotation in %s status", q.Status))
	}
	if len(q.Items) == 0 {
		return shared.NewDomainError("EMPTY_QUOTATION", "Cannot submit quotation without line items")
	}

	now := time.Now()
	q.Status = QuotationStatusPending
	q.SubmittedAt = &now
	q.Touch()
	q.IncrementVersion()

	q.AddDomainEvent(NewQuotationSubmittedEvent(q))

	return nil
}

// Approve approves a pending quotation. The validity window restarts from
// the approval date.
func (q *Quotation) Approve(approvedByID uuid.UUID) error {
	if q.Status != QuotationStatusPending {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot approve quotation in %s status", q.Status))
	}
	if approvedByID == uuid.Nil {
		return shared.NewDomainError("INVALID_APPROVER", "Approved-by user ID cannot be empty")
	}

	now := time.Now()
	expiry := now.AddDate(0, 0, q.ValidityDays)
	q.Status = QuotationStatusApproved
	q.ApprovedAt = &now
	q.ApprovedByID = &approvedByID
	q.ExpiryDate = &expiry
	q.Touch()
	q.IncrementVersion()

	q.AddDomainEvent(NewQuotationApprovedEvent(q))

	return nil
}

// Reject rejects a pending quotation. A reason is required.
func (q *Quotation) Reject(reason string) error {
	if q.Status != QuotationStatusPending {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot reject quotation in %s status", q.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}

	q.Status = QuotationStatusRejected
	q.RejectionReason = reason
	q.Touch()
	q.IncrementVersion()

	q.AddDomainEvent(NewQuotationRejectedEvent(q))

	return nil
}

// MarkSent records that the approved quotation was delivered to the customer
func (q *Quotation) MarkSent() error {
	if q.Status != QuotationStatusApproved {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot send quotation in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuotationStatusSent
	q.SentAt = &now
	q.Touch()
	q.IncrementVersion()

	q.AddDomainEvent(NewQuotationSentEvent(q))

	return nil
}

// Accept records the customer's acceptance of a sent quotation
func (q *Quotation) Accept() error {
	if q.Status != QuotationStatusSent {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot accept quotation in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuotationStatusAccepted
	q.AcceptedAt = &now
	q.Touch()
	q.IncrementVersion()

	q.AddDomainEvent(NewQuotationAcceptedEvent(q))

	return nil
}

// CreateNewVersion derives a fresh DRAFT quotation with version+1 and cloned
// line items. Permitted from APPROVED, REJECTED or SENT.
func (q *Quotation) CreateNewVersion(createdByID uuid.UUID) (*Quotation, error) {
	if !q.Status.CanCreateNewVersion() {
		return nil, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot create a new version from quotation in %s status", q.Status))
	}
	if createdByID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CREATOR", "Created-by user ID cannot be empty")
	}

	next := &Quotation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		QuotationNumber:   q.QuotationNumber,
		ProjectID:         q.ProjectID,
		CustomerID:        q.CustomerID,
		VersionNumber:     q.VersionNumber + 1,
		Status:            QuotationStatusDraft,
		Items:             make([]QuotationLineItem, 0, len(q.Items)),
		ValidityDays:      q.ValidityDays,
		CreatedByID:       createdByID,
	}
	expiry := next.CreatedAt.AddDate(0, 0, next.ValidityDays)
	next.ExpiryDate = &expiry

	now := time.Now()
	for _, item := range q.Items {
		next.Items = append(next.Items, QuotationLineItem{
			ID:          uuid.New(),
			QuotationID: next.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	next.recalculateTotal()

	next.AddDomainEvent(NewQuotationVersionCreatedEvent(next, q.ID))

	return next, nil
}

// IsExpired returns true when the validity window has passed
func (q *Quotation) IsExpired() bool {
	if q.ExpiryDate == nil {
		return false
	}
	return time.Now().After(*q.ExpiryDate)
}

// IsDraft returns true if the quotation is a draft
func (q *Quotation) IsDraft() bool {
	return q.Status == QuotationStatusDraft
}

// GetTotalAmountMoney returns the quotation total as Money
func (q *Quotation) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyKRW(q.TotalAmount)
}

// FindLineItem returns the line item with the given ID, or nil
func (q *Quotation) FindLineItem(itemID uuid.UUID) *QuotationLineItem {
	for i := range q.Items {
		if q.Items[i].ID == itemID {
			return &q.Items[i]
		}
	}
	return nil
}

func (q *Quotation) recalculateTotal() {
	total := decimal.Zero
	for _, item := range q.Items {
		total = total.Add(item.LineTotal)
	}
	q.TotalAmount = total
}
