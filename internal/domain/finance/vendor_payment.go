package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/domain/shared/valueobject"
)

// PaymentMethod represents how a vendor payment was made
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCheck        PaymentMethod = "CHECK"
	PaymentMethodCard         PaymentMethod = "CARD"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCash, PaymentMethodCheck, PaymentMethodCard:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// VendorPayment is a single payment recorded against an AccountsPayable.
// It is constructed standalone and attached to exactly one payable inside
// AccountsPayable.AddPayment; once attached it is immutable.
type VendorPayment struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	PayableID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"payable_id"`
	PaymentDate     time.Time       `gorm:"not null" json:"payment_date"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Method          PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	RecordedByID    uuid.UUID       `gorm:"type:uuid;not null" json:"recorded_by_id"`
	ReferenceNumber string          `gorm:"type:varchar(100)" json:"reference_number,omitempty"`
	Notes           string          `gorm:"type:varchar(500)" json:"notes,omitempty"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`

	payable *AccountsPayable `gorm:"-"`
}

// TableName returns the table name for GORM
func (VendorPayment) TableName() string {
	return "vendor_payments"
}

// NewVendorPayment creates a free-standing vendor payment record.
// The payment has no owning payable until it is passed to AddPayment.
func NewVendorPayment(paymentDate time.Time, amount valueobject.Money, method PaymentMethod, recordedByID uuid.UUID) (*VendorPayment, error) {
	if paymentDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_DATE", "Payment date is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if recordedByID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECORDER", "Recorded-by user ID cannot be empty")
	}

	return &VendorPayment{
		ID:           uuid.New(),
		PaymentDate:  paymentDate,
		Amount:       amount.Amount(),
		Method:       method,
		RecordedByID: recordedByID,
		CreatedAt:    time.Now(),
	}, nil
}

// SetReferenceNumber sets the external reference before attachment
func (p *VendorPayment) SetReferenceNumber(ref string) error {
	if p.IsAttached() {
		return shared.NewDomainError("IMMUTABLE_PAYMENT", "Payment cannot be modified once attached")
	}
	p.ReferenceNumber = ref
	return nil
}

// SetNotes sets free-form notes before attachment
func (p *VendorPayment) SetNotes(notes string) error {
	if p.IsAttached() {
		return shared.NewDomainError("IMMUTABLE_PAYMENT", "Payment cannot be modified once attached")
	}
	p.Notes = notes
	return nil
}

// attachTo binds the payment to its owning payable. Only AddPayment calls
// this; there is no public setter for the back-reference.
func (p *VendorPayment) attachTo(payable *AccountsPayable) error {
	if p.IsAttached() {
		return shared.NewDomainError("ALREADY_ATTACHED", "Payment already belongs to a payable")
	}
	p.PayableID = payable.ID
	p.payable = payable
	return nil
}

// IsAttached returns true once the payment has an owning payable
func (p *VendorPayment) IsAttached() bool {
	return p.PayableID != uuid.Nil
}

// GetAmountMoney returns the amount as Money value object
func (p *VendorPayment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyKRW(p.Amount)
}

// IsPartialPayment returns true only when the payment is attached and its
// amount is strictly less than the owning payable's total. An exact match
// is not partial.
func (p *VendorPayment) IsPartialPayment() bool {
	if p.payable == nil {
		return false
	}
	return p.Amount.LessThan(p.payable.TotalAmount)
}
