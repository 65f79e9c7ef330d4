package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgworks/erp/internal/domain/trade"
)

// CreateQuotationRequest is the input for creating a quotation draft
type CreateQuotationRequest struct {
	ProjectID    uuid.UUID                `json:"project_id" binding:"required"`
	CustomerID   uuid.UUID                `json:"customer_id" binding:"required"`
	ValidityDays int                      `json:"validity_days" binding:"required"`
	CreatedByID  uuid.UUID                `json:"created_by_id" binding:"required"`
	Items        []QuotationLineItemInput `json:"items"`
}

// QuotationLineItemInput is one line of a quotation request
type QuotationLineItemInput struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// QuotationLineItemResponse is one line of a quotation response
type QuotationLineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// QuotationResponse is the API view of a quotation
type QuotationResponse struct {
	ID              uuid.UUID                   `json:"id"`
	QuotationNumber string                      `json:"quotation_number"`
	ProjectID       uuid.UUID                   `json:"project_id"`
	CustomerID      uuid.UUID                   `json:"customer_id"`
	VersionNumber   int                         `json:"version_number"`
	Status          string                      `json:"status"`
	Items           []QuotationLineItemResponse `json:"items"`
	TotalAmount     decimal.Decimal             `json:"total_amount"`
	ValidityDays    int                         `json:"validity_days"`
	ExpiryDate      *time.Time                  `json:"expiry_date,omitempty"`
	RejectionReason string                      `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// ToQuotationResponse maps a quotation aggregate to its response
func ToQuotationResponse(q *trade.Quotation) QuotationResponse {
	items := make([]QuotationLineItemResponse, 0, len(q.Items))
	for _, item := range q.Items {
		items = append(items, QuotationLineItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}
	return QuotationResponse{
		ID:              q.ID,
		QuotationNumber: q.QuotationNumber,
		ProjectID:       q.ProjectID,
		CustomerID:      q.CustomerID,
		VersionNumber:   q.VersionNumber,
		Status:          q.Status.String(),
		Items:           items,
		TotalAmount:     q.TotalAmount,
		ValidityDays:    q.ValidityDays,
		ExpiryDate:      q.ExpiryDate,
		RejectionReason: q.RejectionReason,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}

// CreatePurchaseRequestRequest is the input for creating a purchase request
type CreatePurchaseRequestRequest struct {
	ProjectID    *uuid.UUID      `json:"project_id,omitempty"`
	NeedType     trade.NeedType  `json:"need_type" binding:"required"`
	NeedID       uuid.UUID       `json:"need_id" binding:"required"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	Unit         string          `json:"unit"`
	RequiredDate time.Time       `json:"required_date" binding:"required"`
}

// RFQLineResponse is the API view of one solicited vendor
type RFQLineResponse struct {
	ID       uuid.UUID `json:"id"`
	VendorID uuid.UUID `json:"vendor_id"`
	Selected bool      `json:"selected"`
}

// PurchaseRequestResponse is the API view of a purchase request
type PurchaseRequestResponse struct {
	ID            uuid.UUID         `json:"id"`
	RequestNumber string            `json:"request_number"`
	ProjectID     *uuid.UUID        `json:"project_id,omitempty"`
	NeedType      string            `json:"need_type"`
	NeedID        uuid.UUID         `json:"need_id"`
	Description   string            `json:"description"`
	Quantity      decimal.Decimal   `json:"quantity"`
	Unit          string            `json:"unit"`
	RequiredDate  time.Time         `json:"required_date"`
	Status        string            `json:"status"`
	RFQLines      []RFQLineResponse `json:"rfq_lines"`
	CancelReason  string            `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ToPurchaseRequestResponse maps a purchase request aggregate to its response
func ToPurchaseRequestResponse(pr *trade.PurchaseRequest) PurchaseRequestResponse {
	lines := make([]RFQLineResponse, 0, len(pr.RFQLines))
	for _, line := range pr.RFQLines {
		lines = append(lines, RFQLineResponse{
			ID:       line.ID,
			VendorID: line.VendorID,
			Selected: line.Selected,
		})
	}
	return PurchaseRequestResponse{
		ID:            pr.ID,
		RequestNumber: pr.RequestNumber,
		ProjectID:     pr.ProjectID,
		NeedType:      string(pr.NeedType),
		NeedID:        pr.NeedID,
		Description:   pr.Description,
		Quantity:      pr.Quantity,
		Unit:          pr.Unit,
		RequiredDate:  pr.RequiredDate,
		Status:        pr.Status.String(),
		RFQLines:      lines,
		CancelReason:  pr.CancelReason,
		CreatedAt:     pr.CreatedAt,
		UpdatedAt:     pr.UpdatedAt,
	}
}

// CreatePurchaseOrderRequest is the input for placing a purchase order
type CreatePurchaseOrderRequest struct {
	PurchaseRequestID uuid.UUID       `json:"purchase_request_id" binding:"required"`
	RFQLineID         uuid.UUID       `json:"rfq_line_id" binding:"required"`
	VendorName        string          `json:"vendor_name" binding:"required"`
	Quantity          decimal.Decimal `json:"quantity" binding:"required"`
	Unit              string          `json:"unit"`
	UnitCost          decimal.Decimal `json:"unit_cost" binding:"required"`
	ExpectedDate      time.Time       `json:"expected_date" binding:"required"`
}

// PurchaseOrderResponse is the API view of a purchase order
type PurchaseOrderResponse struct {
	ID                uuid.UUID       `json:"id"`
	PONumber          string          `json:"po_number"`
	PurchaseRequestID uuid.UUID       `json:"purchase_request_id"`
	RFQLineID         uuid.UUID       `json:"rfq_line_id"`
	VendorID          uuid.UUID       `json:"vendor_id"`
	VendorName        string          `json:"vendor_name"`
	Quantity          decimal.Decimal `json:"quantity"`
	Unit              string          `json:"unit"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Currency          string          `json:"currency"`
	ExpectedDate      time.Time       `json:"expected_date"`
	Status            string          `json:"status"`
	CancelReason      string          `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToPurchaseOrderResponse maps a purchase order aggregate to its response
func ToPurchaseOrderResponse(po *trade.PurchaseOrder) PurchaseOrderResponse {
	return PurchaseOrderResponse{
		ID:                po.ID,
		PONumber:          po.PONumber,
		PurchaseRequestID: po.PurchaseRequestID,
		RFQLineID:         po.RFQLineID,
		VendorID:          po.VendorID,
		VendorName:        po.VendorName,
		Quantity:          po.Quantity,
		Unit:              po.Unit,
		UnitCost:          po.UnitCost,
		TotalAmount:       po.TotalAmount,
		Currency:          po.Currency,
		ExpectedDate:      po.ExpectedDate,
		Status:            po.Status.String(),
		CancelReason:      po.CancelReason,
		CreatedAt:         po.CreatedAt,
		UpdatedAt:         po.UpdatedAt,
	}
}

// QuotationListFilter filters quotation list queries
type QuotationListFilter struct {
	Status     string
	ProjectID  *uuid.UUID
	CustomerID *uuid.UUID
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
}

// PurchaseRequestListFilter filters purchase request list queries
type PurchaseRequestListFilter struct {
	Status    string
	ProjectID *uuid.UUID
	NeedType  string
	Page      int
	PageSize  int
	OrderBy   string
	OrderDir  string
}

// PurchaseOrderListFilter filters purchase order list queries
type PurchaseOrderListFilter struct {
	Status   string
	VendorID *uuid.UUID
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}
