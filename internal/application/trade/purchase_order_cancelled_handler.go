package trade

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/domain/trade"
)

// PurchaseOrderCancelledHandler handles PurchaseOrderCancelledEvent and
// reverts the vendor selection on the originating purchase request, putting
// it back to RFQ_SENT so another vendor can be chosen.
type PurchaseOrderCancelledHandler struct {
	requestRepo trade.PurchaseRequestRepository
	logger      *zap.Logger
}

// NewPurchaseOrderCancelledHandler creates a new handler for purchase order cancelled events
func NewPurchaseOrderCancelledHandler(requestRepo trade.PurchaseRequestRepository, logger *zap.Logger) *PurchaseOrderCancelledHandler {
	return &PurchaseOrderCancelledHandler{
		requestRepo: requestRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PurchaseOrderCancelledHandler) EventTypes() []string {
	return []string{trade.EventTypePurchaseOrderCancelled}
}

// Handle processes a PurchaseOrderCancelledEvent by reverting the selection
func (h *PurchaseOrderCancelledHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	cancelledEvent, ok := event.(*trade.PurchaseOrderCancelledEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", trade.EventTypePurchaseOrderCancelled),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypePurchaseOrderCancelled, event.EventType())
	}

	request, err := h.requestRepo.FindByID(ctx, cancelledEvent.PurchaseRequestID)
	if err != nil {
		h.logger.Error("failed to load purchase request",
			zap.String("request_id", cancelledEvent.PurchaseRequestID.String()),
			zap.String("po_number", cancelledEvent.PONumber),
			zap.Error(err),
		)
		return fmt.Errorf("failed to load purchase request: %w", err)
	}

	if request.Status != trade.PurchaseRequestStatusVendorSelected &&
		request.Status != trade.PurchaseRequestStatusOrdered {
		h.logger.Info("purchase request has no selection to revert, skipping",
			zap.String("request_id", request.ID.String()),
			zap.String("status", request.Status.String()),
			zap.String("po_number", cancelledEvent.PONumber),
		)
		return nil
	}

	if err := request.RevertVendorSelection(cancelledEvent.RFQLineID); err != nil {
		return fmt.Errorf("failed to revert vendor selection: %w", err)
	}

	request.ClearDomainEvents()
	if err := h.requestRepo.SaveWithLock(ctx, request); err != nil {
		h.logger.Error("failed to save purchase request",
			zap.String("request_id", request.ID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save purchase request: %w", err)
	}

	h.logger.Info("vendor selection reverted after order cancellation",
		zap.String("request_id", request.ID.String()),
		zap.String("request_number", request.RequestNumber),
		zap.String("po_number", cancelledEvent.PONumber),
		zap.String("reason", cancelledEvent.Reason),
	)

	return nil
}

// Ensure PurchaseOrderCancelledHandler implements shared.EventHandler
var _ shared.EventHandler = (*PurchaseOrderCancelledHandler)(nil)
