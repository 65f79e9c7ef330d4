package trade

import (
	"context"

	"github.com/google/uuid"

	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/domain/shared/valueobject"
	"github.com/mfgworks/erp/internal/domain/trade"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo      trade.PurchaseOrderRepository
	requestRepo    trade.PurchaseRequestRepository
	eventPublisher shared.EventPublisher
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(orderRepo trade.PurchaseOrderRepository, requestRepo trade.PurchaseRequestRepository) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:   orderRepo,
		requestRepo: requestRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create places a purchase order for the selected RFQ line of a request.
// The vendor comes from the line itself, so an order can only ever go to
// the vendor that actually won the selection.
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, req.PurchaseRequestID)
	if err != nil {
		return nil, err
	}

	line := request.FindRFQLine(req.RFQLineID)
	if line == nil {
		return nil, shared.NewDomainError("RFQ_LINE_NOT_FOUND", "RFQ line not found in purchase request")
	}
	if !line.Selected {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "RFQ line is not the selected vendor")
	}

	poNumber, err := s.orderRepo.GeneratePONumber(ctx)
	if err != nil {
		return nil, err
	}

	quantity, err := valueobject.NewQuantity(req.Quantity, req.Unit)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewPurchaseOrder(poNumber, request.ID, line.ID, line.VendorID,
		req.VendorName, quantity, valueobject.NewMoneyKRW(req.UnitCost), req.ExpectedDate)
	if err != nil {
		return nil, err
	}

	if err := s.saveAndPublish(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	domainFilter := trade.PurchaseOrderFilter{Filter: shared.DefaultFilter()}
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
		status := trade.PurchaseOrderStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown purchase order status")
		}
		domainFilter.Status = &status
	}
	domainFilter.VendorID = filter.VendorID

	page, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PurchaseOrderResponse, 0, len(page.Items))
	for _, po := range page.Items {
		responses = append(responses, ToPurchaseOrderResponse(po))
	}
	return responses, page.Total, nil
}

// MarkSent records that the order went out to the vendor
func (s *PurchaseOrderService) MarkSent(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, orderID, func(po *trade.PurchaseOrder) error {
		return po.MarkSent()
	})
}

// Receive records full receipt of the ordered goods or services
func (s *PurchaseOrderService) Receive(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, orderID, func(po *trade.PurchaseOrder) error {
		return po.Receive()
	})
}

// Cancel cancels an order before receipt
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, orderID, func(po *trade.PurchaseOrder) error {
		return po.Cancel(reason)
	})
}

func (s *PurchaseOrderService) transition(ctx context.Context, orderID uuid.UUID, op func(*trade.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := op(order); err != nil {
		return nil, err
	}

	if err := s.saveAndPublish(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

func (s *PurchaseOrderService) saveAndPublish(ctx context.Context, order *trade.PurchaseOrder) error {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		for _, event := range events {
			_ = s.eventPublisher.Publish(ctx, event)
		}
	}
	return nil
}
