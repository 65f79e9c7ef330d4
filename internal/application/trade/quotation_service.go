package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/domain/shared/valueobject"
	"github.com/mfgworks/erp/internal/domain/trade"
)

// QuotationService handles quotation business operations
type QuotationService struct {
	quotationRepo  trade.QuotationRepository
	eventPublisher shared.EventPublisher
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(quotationRepo trade.QuotationRepository) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *QuotationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new quotation draft, optionally with initial line items
func (s *QuotationService) Create(ctx context.Context, req CreateQuotationRequest) (*QuotationResponse, error) {
	quotationNumber, err := s.quotationRepo.GenerateQuotationNumber(ctx)
	if err != nil {
		return nil, err
	}

	quotation, err := trade.NewQuotation(quotationNumber, req.ProjectID, req.CustomerID, req.ValidityDays, req.CreatedByID)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		unitPrice := valueobject.NewMoneyKRW(item.UnitPrice)
		if _, err := quotation.AddLineItem(item.ProductID, item.ProductName, item.Quantity, unitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.saveAndPublish(ctx, quotation); err != nil {
		return nil, err
	}

	response := ToQuotationResponse(quotation)
	return &response, nil
}

// GetByID retrieves a quotation by ID
func (s *QuotationService) GetByID(ctx context.Context, quotationID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	response := ToQuotationResponse(quotation)
	return &response, nil
}

// List retrieves quotations with filtering and pagination
func (s *QuotationService) List(ctx context.Context, filter QuotationListFilter) ([]QuotationResponse, int64, error) {
	domainFilter := trade.QuotationFilter{Filter: shared.DefaultFilter()}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Status != "" {
		status := trade.QuotationStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown quotation status")
		}
		domainFilter.Status = &status
	}
	domainFilter.ProjectID = filter.ProjectID
	domainFilter.CustomerID = filter.CustomerID

	page, err := s.quotationRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]QuotationResponse, 0, len(page.Items))
	for _, q := range page.Items {
		responses = append(responses, ToQuotationResponse(q))
	}
	return responses, page.Total, nil
}

// AddLineItem adds a line item to a draft quotation
func (s *QuotationService) AddLineItem(ctx context.Context, quotationID, productID uuid.UUID, productName string, quantity, unitPrice decimal.Decimal) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	if _, err := quotation.AddLineItem(productID, productName, quantity, valueobject.NewMoneyKRW(unitPrice)); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return nil, err
	}

	response := ToQuotationResponse(quotation)
	return &response, nil
}

// UpdateLineItem changes quantity and price of a draft line item
func (s *QuotationService) UpdateLineItem(ctx context.Context, quotationID, itemID uuid.UUID, quantity, unitPrice decimal.Decimal) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	if err := quotation.UpdateLineItem(itemID, quantity, valueobject.NewMoneyKRW(unitPrice)); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return nil, err
	}

	response := ToQuotationResponse(quotation)
	return &response, nil
}

// RemoveLineItem removes a draft line item
func (s *QuotationService) RemoveLineItem(ctx context.Context, quotationID, itemID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	if err := quotation.RemoveLineItem(itemID); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return nil, err
	}

	response := ToQuotationResponse(quotation)
	return &response, nil
}

// Submit submits a draft quotation for approval
func (s *QuotationService) Submit(ctx context.Context, quotationID uuid.UUID) (*QuotationResponse, error) {
	return s.transition(ctx, quotationID, func(q *trade.Quotation) error {
		return q.Submit()
	})
}

// Approve approves a pending quotation
func (s *QuotationService) Approve(ctx context.Context, quotationID, approvedByID uuid.UUID) (*QuotationResponse, error) {
	return s.transition(ctx, quotationID, func(q *trade.Quotation) error {
		return q.Approve(approvedByID)
	})
}

// Reject rejects a pending quotation with a reason
func (s *QuotationService) Reject(ctx context.Context, quotationID uuid.UUID, reason string) (*QuotationResponse, error) {
	return s.transition(ctx, quotationID, func(q *trade.Quotation) error {
		return q.Reject(reason)
	})
}

// MarkSent records delivery of an approved quotation to the customer
func (s *QuotationService) MarkSent(ctx context.Context, quotationID uuid.UUID) (*QuotationResponse, error) {
	return s.transition(ctx, quotationID, func(q *trade.Quotation) error {
		return q.MarkSent()
	})
}

// Accept records the customer's acceptance
func (s *QuotationService) Accept(ctx context.Context, quotationID uuid.UUID) (*QuotationResponse, error) {
	return s.transition(ctx, quotationID, func(q *trade.Quotation) error {
		return q.Accept()
	})
}

// CreateNewVersion derives a new draft version from an existing quotation
func (s *QuotationService) CreateNewVersion(ctx context.Context, quotationID, createdByID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	next, err := quotation.CreateNewVersion(createdByID)
	if err != nil {
		return nil, err
	}

	if err := s.saveAndPublish(ctx, next); err != nil {
		return nil, err
	}

	response := ToQuotationResponse(next)
	return &response, nil
}

// ListVersions returns all versions sharing a quotation number
func (s *QuotationService) ListVersions(ctx context.Context, quotationNumber string) ([]QuotationResponse, error) {
	versions, err := s.quotationRepo.FindVersions(ctx, quotationNumber)
	if err != nil {
		return nil, err
	}
	responses := make([]QuotationResponse, 0, len(versions))
	for _, q := range versions {
		responses = append(responses, ToQuotationResponse(q))
	}
	return responses, nil
}

func (s *QuotationService) transition(ctx context.Context, quotationID uuid.UUID, op func(*trade.Quotation) error) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	if err := op(quotation); err != nil {
		return nil, err
	}

	if err := s.saveAndPublish(ctx, quotation); err != nil {
		return nil, err
	}

	response := ToQuotationResponse(quotation)
	return &response, nil
}

func (s *QuotationService) saveAndPublish(ctx context.Context, quotation *trade.Quotation) error {
	events := quotation.GetDomainEvents()
	quotation.ClearDomainEvents()

	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		for _, event := range events {
			// event handling is async, a publish failure must not fail the command
			_ = s.eventPublisher.Publish(ctx, event)
		}
	}
	return nil
}
