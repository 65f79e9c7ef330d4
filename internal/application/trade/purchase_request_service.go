package trade

import (
	"context"

	"github.com/google/uuid"

	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/domain/shared/valueobject"
	"github.com/mfgworks/erp/internal/domain/trade"
)

// PurchaseRequestService handles purchase request business operations
type PurchaseRequestService struct {
	requestRepo    trade.PurchaseRequestRepository
	eventPublisher shared.EventPublisher
}

// NewPurchaseRequestService creates a new PurchaseRequestService
func NewPurchaseRequestService(requestRepo trade.PurchaseRequestRepository) *PurchaseRequestService {
	return &PurchaseRequestService{
		requestRepo: requestRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseRequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new purchase request in DRAFT status
func (s *PurchaseRequestService) Create(ctx context.Context, req CreatePurchaseRequestRequest) (*PurchaseRequestResponse, error) {
	requestNumber, err := s.requestRepo.GenerateRequestNumber(ctx)
	if err != nil {
		return nil, err
	}

	quantity, err := valueobject.NewQuantity(req.Quantity, req.Unit)
	if err != nil {
		return nil, err
	}

	request, err := trade.NewPurchaseRequest(requestNumber, req.ProjectID, req.NeedType,
		req.NeedID, req.Description, quantity, req.RequiredDate)
	if err != nil {
		return nil, err
	}

	if err := s.saveAndPublish(ctx, request, false); err != nil {
		return nil, err
	}

	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// GetByID retrieves a purchase request by ID
func (s *PurchaseRequestService) GetByID(ctx context.Context, requestID uuid.UUID) (*PurchaseRequestResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// List retrieves purchase requests with filtering and pagination
func (s *PurchaseRequestService) List(ctx context.Context, filter PurchaseRequestListFilter) ([]PurchaseRequestResponse, int64, error) {
	domainFilter := trade.PurchaseRequestFilter{Filter: shared.DefaultFilter()}
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
		status := trade.PurchaseRequestStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown purchase request status")
		}
		domainFilter.Status = &status
	}
	if filter.NeedType != "" {
		needType := trade.NeedType(filter.NeedType)
		if !needType.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_NEED_TYPE", "Unknown need type")
		}
		domainFilter.NeedType = &needType
	}
	domainFilter.ProjectID = filter.ProjectID

	page, err := s.requestRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PurchaseRequestResponse, 0, len(page.Items))
	for _, pr := range page.Items {
		responses = append(responses, ToPurchaseRequestResponse(pr))
	}
	return responses, page.Total, nil
}

// SendRFQ solicits the given vendors for the request
func (s *PurchaseRequestService) SendRFQ(ctx context.Context, requestID uuid.UUID, vendorIDs []uuid.UUID) (*PurchaseRequestResponse, error) {
	return s.transition(ctx, requestID, func(pr *trade.PurchaseRequest) error {
		return pr.SendRFQ(vendorIDs)
	})
}

// SelectVendor marks the winning RFQ line
func (s *PurchaseRequestService) SelectVendor(ctx context.Context, requestID, rfqLineID uuid.UUID) (*PurchaseRequestResponse, error) {
	return s.transition(ctx, requestID, func(pr *trade.PurchaseRequest) error {
		return pr.SelectVendor(rfqLineID)
	})
}

// Cancel cancels a request that has no purchase order yet
func (s *PurchaseRequestService) Cancel(ctx context.Context, requestID uuid.UUID, reason string) (*PurchaseRequestResponse, error) {
	return s.transition(ctx, requestID, func(pr *trade.PurchaseRequest) error {
		return pr.Cancel(reason)
	})
}

func (s *PurchaseRequestService) transition(ctx context.Context, requestID uuid.UUID, op func(*trade.PurchaseRequest) error) (*PurchaseRequestResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := op(request); err != nil {
		return nil, err
	}

	if err := s.saveAndPublish(ctx, request, true); err != nil {
		return nil, err
	}

	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

func (s *PurchaseRequestService) saveAndPublish(ctx context.Context, request *trade.PurchaseRequest, withLock bool) error {
	events := request.GetDomainEvents()
	request.ClearDomainEvents()

	var err error
	if withLock {
		err = s.requestRepo.SaveWithLock(ctx, request)
	} else {
		err = s.requestRepo.Save(ctx, request)
	}
	if err != nil {
		return err
	}

	if s.eventPublisher != nil {
		for _, event := range events {
			_ = s.eventPublisher.Publish(ctx, event)
		}
	}
	return nil
}
