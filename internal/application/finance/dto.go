package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgworks/erp/internal/domain/finance"
)

// CreateManualPayableRequest is the input for booking a payable by hand,
// outside the purchase order flow
type CreateManualPayableRequest struct {
	VendorID    uuid.UUID       `json:"vendor_id" binding:"required"`
	VendorName  string          `json:"vendor_name" binding:"required"`
	DocumentID  uuid.UUID       `json:"document_id" binding:"required"`
	Reference   string          `json:"reference" binding:"required"`
	TotalAmount decimal.Decimal `json:"total_amount" binding:"required"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
}

// RecordPaymentRequest is the input for recording a vendor payment
type RecordPaymentRequest struct {
	PaymentDate     time.Time       `json:"payment_date" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Method          string          `json:"method" binding:"required"`
	RecordedByID    uuid.UUID       `json:"recorded_by_id" binding:"required"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
}

// VendorPaymentResponse is the API view of one ledger entry
type VendorPaymentResponse struct {
	ID              uuid.UUID       `json:"id"`
	PaymentDate     time.Time       `json:"payment_date"`
	Amount          decimal.Decimal `json:"amount"`
	Method          string          `json:"method"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	RecordedByID    uuid.UUID       `json:"recorded_by_id"`
}

// PayableResponse is the API view of an accounts payable
type PayableResponse struct {
	ID                uuid.UUID               `json:"id"`
	PayableNumber     string                  `json:"payable_number"`
	CauseType         string                  `json:"cause_type"`
	CauseID           uuid.UUID               `json:"cause_id"`
	CauseReference    string                  `json:"cause_reference"`
	VendorID          uuid.UUID               `json:"vendor_id"`
	VendorName        string                  `json:"vendor_name"`
	TotalAmount       decimal.Decimal         `json:"total_amount"`
	PaidAmount        decimal.Decimal         `json:"paid_amount"`
	OutstandingAmount decimal.Decimal         `json:"outstanding_amount"`
	Status            string                  `json:"status"`
	DueDate           *time.Time              `json:"due_date,omitempty"`
	Overdue           bool                    `json:"overdue"`
	DaysOverdue       int                     `json:"days_overdue"`
	AgingBucket       string                  `json:"aging_bucket"`
	Payments          []VendorPaymentResponse `json:"payments"`
	PaidAt            *time.Time              `json:"paid_at,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

// ToPayableResponse maps a payable aggregate to its response
func ToPayableResponse(ap *finance.AccountsPayable) PayableResponse {
	payments := make([]VendorPaymentResponse, 0, len(ap.Payments))
	for _, p := range ap.PaymentLedger() {
		payments = append(payments, VendorPaymentResponse{
			ID:              p.ID,
			PaymentDate:     p.PaymentDate,
			Amount:          p.Amount,
			Method:          string(p.Method),
			ReferenceNumber: p.ReferenceNumber,
			Notes:           p.Notes,
			RecordedByID:    p.RecordedByID,
		})
	}
	return PayableResponse{
		ID:                ap.ID,
		PayableNumber:     ap.PayableNumber,
		CauseType:         string(ap.Cause.Type),
		CauseID:           ap.Cause.ID,
		CauseReference:    ap.Cause.ReferenceNumber,
		VendorID:          ap.VendorID,
		VendorName:        ap.VendorName,
		TotalAmount:       ap.TotalAmount,
		PaidAmount:        ap.PaidAmount,
		OutstandingAmount: ap.OutstandingAmount,
		Status:            ap.Status.String(),
		DueDate:           ap.DueDate,
		Overdue:           ap.IsOverdue(),
		DaysOverdue:       ap.DaysOverdue(),
		AgingBucket:       ap.AgingBucket(),
		Payments:          payments,
		PaidAt:            ap.PaidAt,
		CreatedAt:         ap.CreatedAt,
		UpdatedAt:         ap.UpdatedAt,
	}
}

// PayableListFilter filters payable list queries
type PayableListFilter struct {
	Status   string
	VendorID *uuid.UUID
	Overdue  *bool
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// AgingReportLine is one row of the payables aging report
type AgingReportLine struct {
	VendorID    uuid.UUID       `json:"vendor_id"`
	VendorName  string          `json:"vendor_name"`
	Current     decimal.Decimal `json:"current"`
	Days30      decimal.Decimal `json:"days_30"`
	Days60      decimal.Decimal `json:"days_60"`
	Days90Plus  decimal.Decimal `json:"days_90_plus"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// AgingReport groups outstanding balances by vendor and aging bucket
type AgingReport struct {
	AsOf  time.Time         `json:"as_of"`
	Lines []AgingReportLine `json:"lines"`
	Total decimal.Decimal   `json:"total"`
}
