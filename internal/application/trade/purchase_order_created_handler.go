package trade

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/domain/trade"
)

// PurchaseOrderCreatedHandler handles PurchaseOrderCreatedEvent and moves
// the originating purchase request to ORDERED.
//
// The handler is state-guarded rather than delivery-guarded: a redelivered
// event finds the request already ORDERED and does nothing, so processing
// the same event twice is safe.
type PurchaseOrderCreatedHandler struct {
	requestRepo trade.PurchaseRequestRepository
	logger      *zap.Logger
}

// NewPurchaseOrderCreatedHandler creates a new handler for purchase order created events
func NewPurchaseOrderCreatedHandler(requestRepo trade.PurchaseRequestRepository, logger *zap.Logger) *PurchaseOrderCreatedHandler {
	return &PurchaseOrderCreatedHandler{
		requestRepo: requestRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PurchaseOrderCreatedHandler) EventTypes() []string {
	return []string{trade.EventTypePurchaseOrderCreated}
}

// Handle processes a PurchaseOrderCreatedEvent by marking the request ordered
func (h *PurchaseOrderCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	createdEvent, ok := event.(*trade.PurchaseOrderCreatedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", trade.EventTypePurchaseOrderCreated),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypePurchaseOrderCreated, event.EventType())
	}

	request, err := h.requestRepo.FindByID(ctx, createdEvent.PurchaseRequestID)
	if err != nil {
		h.logger.Error("failed to load purchase request",
			zap.String("request_id", createdEvent.PurchaseRequestID.String()),
			zap.String("po_number", createdEvent.PONumber),
			zap.Error(err),
		)
		return fmt.Errorf("failed to load purchase request: %w", err)
	}

	if request.Status != trade.PurchaseRequestStatusVendorSelected {
		h.logger.Info("purchase request not awaiting an order, skipping",
			zap.String("request_id", request.ID.String()),
			zap.String("status", request.Status.String()),
			zap.String("po_number", createdEvent.PONumber),
		)
		return nil
	}

	if err := request.MarkOrdered(); err != nil {
		return fmt.Errorf("failed to mark request ordered: %w", err)
	}

	request.ClearDomainEvents()
	if err := h.requestRepo.SaveWithLock(ctx, request); err != nil {
		h.logger.Error("failed to save purchase request",
			zap.String("request_id", request.ID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save purchase request: %w", err)
	}

	h.logger.Info("purchase request marked ordered",
		zap.String("request_id", request.ID.String()),
		zap.String("request_number", request.RequestNumber),
		zap.String("po_number", createdEvent.PONumber),
	)

	return nil
}

// Ensure PurchaseOrderCreatedHandler implements shared.EventHandler
var _ shared.EventHandler = (*PurchaseOrderCreatedHandler)(nil)
