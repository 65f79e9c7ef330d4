package trade

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/domain/trade"
)

// PurchaseOrderReceivedHandler handles PurchaseOrderReceivedEvent and closes
// the originating purchase request.
//
// Closing is accepted from VENDOR_SELECTED as well as ORDERED: the receipt
// can overtake the created fact when events are delivered out of order, and
// the request is done either way.
type PurchaseOrderReceivedHandler struct {
	requestRepo trade.PurchaseRequestRepository
	logger      *zap.Logger
}

// NewPurchaseOrderReceivedHandler creates a new handler for purchase order received events
func NewPurchaseOrderReceivedHandler(requestRepo trade.PurchaseRequestRepository, logger *zap.Logger) *PurchaseOrderReceivedHandler {
	return &PurchaseOrderReceivedHandler{
		requestRepo: requestRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PurchaseOrderReceivedHandler) EventTypes() []string {
	return []string{trade.EventTypePurchaseOrderReceived}
}

// Handle processes a PurchaseOrderReceivedEvent by closing the request
func (h *PurchaseOrderReceivedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	receivedEvent, ok := event.(*trade.PurchaseOrderReceivedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", trade.EventTypePurchaseOrderReceived),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypePurchaseOrderReceived, event.EventType())
	}

	request, err := h.requestRepo.FindByID(ctx, receivedEvent.PurchaseRequestID)
	if err != nil {
		h.logger.Error("failed to load purchase request",
			zap.String("request_id", receivedEvent.PurchaseRequestID.String()),
			zap.String("po_number", receivedEvent.PONumber),
			zap.Error(err),
		)
		return fmt.Errorf("failed to load purchase request: %w", err)
	}

	if request.Status != trade.PurchaseRequestStatusOrdered &&
		request.Status != trade.PurchaseRequestStatusVendorSelected {
		h.logger.Info("purchase request not open for closing, skipping",
			zap.String("request_id", request.ID.String()),
			zap.String("status", request.Status.String()),
			zap.String("po_number", receivedEvent.PONumber),
		)
		return nil
	}

	if err := request.Close(); err != nil {
		return fmt.Errorf("failed to close purchase request: %w", err)
	}

	request.ClearDomainEvents()
	if err := h.requestRepo.SaveWithLock(ctx, request); err != nil {
		h.logger.Error("failed to save purchase request",
			zap.String("request_id", request.ID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save purchase request: %w", err)
	}

	h.logger.Info("purchase request closed on receipt",
		zap.String("request_id", request.ID.String()),
		zap.String("request_number", request.RequestNumber),
		zap.String("po_number", receivedEvent.PONumber),
	)

	return nil
}

// Ensure PurchaseOrderReceivedHandler implements shared.EventHandler
var _ shared.EventHandler = (*PurchaseOrderReceivedHandler)(nil)
