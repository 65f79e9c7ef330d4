package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/domain/shared/valueobject"
)

// PayableStatus represents the status of an accounts payable
type PayableStatus string

const (
	PayableStatusPending       PayableStatus = "PENDING"        // No payments recorded yet
	PayableStatusPartiallyPaid PayableStatus = "PARTIALLY_PAID" // 0 < paid < total
	PayableStatusPaid          PayableStatus = "PAID"           // Fully paid, balance = 0
	PayableStatusCancelled     PayableStatus = "CANCELLED"      // Cancelled before any payment
)

// IsValid checks if the status is a valid PayableStatus
func (s PayableStatus) IsValid() bool {
	switch s {
	case PayableStatusPending, PayableStatusPartiallyPaid, PayableStatusPaid, PayableStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PayableStatus
func (s PayableStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the payable is in a terminal state
func (s PayableStatus) IsTerminal() bool {
	return s == PayableStatusPaid || s == PayableStatusCancelled
}

// CanAcceptPayment returns true if payments can be recorded in this status
func (s PayableStatus) CanAcceptPayment() bool {
	return s == PayableStatusPending || s == PayableStatusPartiallyPaid
}

// CauseType identifies the kind of business event that created the obligation
type CauseType string

const (
	CauseTypePurchaseOrder CauseType = "PURCHASE_ORDER"
	CauseTypeManual        CauseType = "MANUAL"
)

// IsValid checks if the cause type is valid
func (t CauseType) IsValid() bool {
	switch t {
	case CauseTypePurchaseOrder, CauseTypeManual:
		return true
	}
	return false
}

// DisbursementCause is a tagged reference to the originating business event
// (e.g. a received purchase order). It carries the cause type, id and a
// display reference so the payable never needs to load the cause aggregate.
type DisbursementCause struct {
	Type            CauseType `gorm:"column:cause_type;type:varchar(30);not null" json:"type"`
	ID              uuid.UUID `gorm:"column:cause_id;type:uuid;not null;index" json:"id"`
	ReferenceNumber string    `gorm:"column:cause_reference;type:varchar(50);not null" json:"reference_number"`
}

// NewPurchaseOrderCause builds a cause referencing a received purchase order
func NewPurchaseOrderCause(purchaseOrderID uuid.UUID, poNumber string) DisbursementCause {
	return DisbursementCause{
		Type:            CauseTypePurchaseOrder,
		ID:              purchaseOrderID,
		ReferenceNumber: poNumber,
	}
}

// NewManualCause builds a cause for manually raised obligations
func NewManualCause(documentID uuid.UUID, reference string) DisbursementCause {
	return DisbursementCause{
		Type:            CauseTypeManual,
		ID:              documentID,
		ReferenceNumber: reference,
	}
}

// Validate checks the cause is fully specified
func (c DisbursementCause) Validate() error {
	if !c.Type.IsValid() {
		return shared.NewDomainError("INVALID_CAUSE_TYPE", "Disbursement cause type is not valid")
	}
	if c.ID == uuid.Nil {
		return shared.NewDomainError("INVALID_CAUSE_ID", "Disbursement cause ID cannot be empty")
	}
	if c.ReferenceNumber == "" {
		return shared.NewDomainError("INVALID_CAUSE_REFERENCE", "Disbursement cause reference cannot be empty")
	}
	return nil
}

// Aging bucket labels for overdue reporting
const (
	AgingBucketCurrent = "Current"
	AgingBucket30Days  = "30 Days"
	AgingBucket60Days  = "60 Days"
	AgingBucket90Plus  = "90+ Days"
)

// AccountsPayable is an obligation to pay a vendor. It owns a ledger of
// vendor payments and is the single writer of its own state: the balance is
// mutated only through AddPayment and the lifecycle only through Cancel.
type AccountsPayable struct {
	shared.BaseAggregateRoot
	PayableNumber     string            `gorm:"type:varchar(50);not null;uniqueIndex" json:"payable_number"`
	Cause             DisbursementCause `gorm:"embedded" json:"cause"`
	VendorID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"vendor_id"`
	VendorName        string            `gorm:"type:varchar(200);not null" json:"vendor_name"`
	TotalAmount       decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	PaidAmount        decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"paid_amount"`
	OutstandingAmount decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"outstanding_amount"`
	Status            PayableStatus     `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	DueDate           *time.Time        `gorm:"index" json:"due_date,omitempty"`
	Payments          []*VendorPayment  `gorm:"foreignKey:PayableID;references:ID" json:"payments"`
	PaidAt            *time.Time        `json:"paid_at,omitempty"`
	CancelledAt       *time.Time        `json:"cancelled_at,omitempty"`
}

// TableName returns the table name for GORM
func (AccountsPayable) TableName() string {
	return "accounts_payables"
}

// NewAccountsPayable creates a new accounts payable in PENDING status
func NewAccountsPayable(
	payableNumber string,
	cause DisbursementCause,
	vendorID uuid.UUID,
	vendorName string,
	totalAmount valueobject.Money,
	dueDate *time.Time,
) (*AccountsPayable, error) {
	if payableNumber == "" {
		return nil, shared.NewDomainError("INVALID_PAYABLE_NUMBER", "Payable number cannot be empty")
	}
	if len(payableNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_PAYABLE_NUMBER", "Payable number cannot exceed 50 characters")
	}
	if err := cause.Validate(); err != nil {
		return nil, err
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	if vendorName == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR_NAME", "Vendor name cannot be empty")
	}
	if !totalAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount must be positive")
	}

	ap := &AccountsPayable{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PayableNumber:     payableNumber,
		Cause:             cause,
		VendorID:          vendorID,
		VendorName:        vendorName,
		TotalAmount:       totalAmount.Amount(),
		PaidAmount:        decimal.Zero,
		OutstandingAmount: totalAmount.Amount(),
		Status:            PayableStatusPending,
		DueDate:           dueDate,
		Payments:          make([]*VendorPayment, 0),
	}

	ap.AddDomainEvent(NewAccountsPayableCreatedEvent(ap))

	return ap, nil
}

// AddPayment records a payment against the payable. The payment is attached
// (its back-reference set) only after every guard passes, so either the full
// transition succeeds or nothing changes.
func (ap *AccountsPayable) AddPayment(payment *VendorPayment) error {
	if payment == nil {
		return shared.NewDomainError("INVALID_PAYMENT", "Payment cannot be nil")
	}
	if !ap.Status.CanAcceptPayment() {
		return shared.NewDomainError(shared.CodePaymentNotAllowed,
			fmt.Sprintf("Cannot add payment to payable in %s status", ap.Status))
	}
	if payment.Amount.GreaterThan(ap.OutstandingAmount) {
		return shared.NewDomainError(shared.CodePaymentExceedsBalance,
			fmt.Sprintf("Payment amount %s exceeds remaining balance %s",
				payment.Amount.String(), ap.OutstandingAmount.String()))
	}

	if err := payment.attachTo(ap); err != nil {
		return err
	}
	ap.Payments = append(ap.Payments, payment)

	ap.PaidAmount = ap.PaidAmount.Add(payment.Amount)
	ap.OutstandingAmount = ap.TotalAmount.Sub(ap.PaidAmount)

	if ap.OutstandingAmount.IsZero() {
		now := time.Now()
		ap.Status = PayableStatusPaid
		ap.PaidAt = &now
		ap.AddDomainEvent(NewAccountsPayablePaidEvent(ap))
	} else {
		ap.Status = PayableStatusPartiallyPaid
		ap.AddDomainEvent(NewVendorPaymentRecordedEvent(ap, payment))
	}

	ap.Touch()
	ap.IncrementVersion()

	return nil
}

// Cancel cancels the payable. Cancellation is terminal and only reachable
// from PENDING with an empty payment ledger; there is no partial-refund path.
func (ap *AccountsPayable) Cancel() error {
	if ap.Status == PayableStatusCancelled {
		return shared.NewDomainError(shared.CodeInvalidState, "Payable is already cancelled")
	}
	if ap.Status == PayableStatusPaid {
		return shared.NewDomainError(shared.CodeInvalidState, "Cannot cancel a fully paid payable")
	}
	if len(ap.Payments) > 0 {
		return shared.NewDomainError(shared.CodeInvalidState, "Cannot cancel payable with existing payments")
	}

	now := time.Now()
	ap.Status = PayableStatusCancelled
	ap.CancelledAt = &now
	ap.Touch()
	ap.IncrementVersion()

	ap.AddDomainEvent(NewAccountsPayableCancelledEvent(ap))

	return nil
}

// SetDueDate updates the due date
func (ap *AccountsPayable) SetDueDate(dueDate *time.Time) error {
	if ap.Status.IsTerminal() {
		return shared.NewDomainError(shared.CodeInvalidState, "Cannot modify due date for payable in terminal state")
	}

	ap.DueDate = dueDate
	ap.Touch()
	ap.IncrementVersion()

	return nil
}

// PaymentLedger returns the payments in insertion order as a read-only view
func (ap *AccountsPayable) PaymentLedger() []*VendorPayment {
	ledger := make([]*VendorPayment, len(ap.Payments))
	copy(ledger, ap.Payments)
	return ledger
}

// PaymentCount returns the number of recorded payments
func (ap *AccountsPayable) PaymentCount() int {
	return len(ap.Payments)
}

// RebindPayments restores the payments' owning back-references after the
// aggregate is loaded from persistence.
func (ap *AccountsPayable) RebindPayments() {
	for _, p := range ap.Payments {
		p.payable = ap
	}
}

// IsFullyPaid returns true when the outstanding balance has reached zero
func (ap *AccountsPayable) IsFullyPaid() bool {
	return ap.Status == PayableStatusPaid
}

// IsCancelled returns true if the payable is cancelled
func (ap *AccountsPayable) IsCancelled() bool {
	return ap.Status == PayableStatusCancelled
}

// IsOverdue returns true iff a due date is set, the due date is strictly
// before today (a due date equal to today is not overdue) and the payable is
// not fully paid.
func (ap *AccountsPayable) IsOverdue() bool {
	if ap.DueDate == nil {
		return false
	}
	if ap.IsFullyPaid() {
		return false
	}
	return startOfDay(*ap.DueDate).Before(startOfDay(time.Now()))
}

// DaysOverdue returns the number of whole days past due (0 if not overdue)
func (ap *AccountsPayable) DaysOverdue() int {
	if !ap.IsOverdue() {
		return 0
	}
	due := startOfDay(*ap.DueDate)
	today := startOfDay(time.Now())
	return int(today.Sub(due).Hours() / 24)
}

// AgingBucket classifies the payable for overdue reporting. Fully paid
// payables always report Current regardless of due date.
func (ap *AccountsPayable) AgingBucket() string {
	if !ap.IsOverdue() {
		return AgingBucketCurrent
	}
	switch d := ap.DaysOverdue(); {
	case d <= 30:
		return AgingBucket30Days
	case d <= 60:
		return AgingBucket60Days
	default:
		return AgingBucket90Plus
	}
}

// GetTotalAmountMoney returns total amount as Money
func (ap *AccountsPayable) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyKRW(ap.TotalAmount)
}

// GetPaidAmountMoney returns paid amount as Money
func (ap *AccountsPayable) GetPaidAmountMoney() valueobject.Money {
	return valueobject.NewMoneyKRW(ap.PaidAmount)
}

// GetOutstandingAmountMoney returns the remaining balance as Money
func (ap *AccountsPayable) GetOutstandingAmountMoney() valueobject.Money {
	return valueobject.NewMoneyKRW(ap.OutstandingAmount)
}

// startOfDay truncates a timestamp to its calendar date
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
