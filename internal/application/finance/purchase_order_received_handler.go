package finance

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mfgworks/erp/internal/domain/finance"
	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/domain/shared/valueobject"
	"github.com/mfgworks/erp/internal/domain/trade"
)

// defaultPaymentTermDays is applied when a received order carries no
// negotiated payment terms
const defaultPaymentTermDays = 30

// PurchaseOrderReceivedHandler handles PurchaseOrderReceivedEvent and opens
// an AccountsPayable for the received order.
//
// Idempotency is anchored on the disbursement cause: one purchase order can
// ever produce one payable, so a redelivered event finds the existing payable
// and does nothing.
type PurchaseOrderReceivedHandler struct {
	payableRepo     finance.AccountsPayableRepository
	logger          *zap.Logger
	paymentTermDays int
}

// PurchaseOrderReceivedHandlerOption configures the handler
type PurchaseOrderReceivedHandlerOption func(*PurchaseOrderReceivedHandler)

// WithPaymentTermDays overrides the default payment term applied to payables
// raised from received orders
func WithPaymentTermDays(days int) PurchaseOrderReceivedHandlerOption {
	return func(h *PurchaseOrderReceivedHandler) {
		if days > 0 {
			h.paymentTermDays = days
		}
	}
}

// NewPurchaseOrderReceivedHandler creates a new handler for purchase order received events
func NewPurchaseOrderReceivedHandler(payableRepo finance.AccountsPayableRepository, logger *zap.Logger, opts ...PurchaseOrderReceivedHandlerOption) *PurchaseOrderReceivedHandler {
	h := &PurchaseOrderReceivedHandler{
		payableRepo:     payableRepo,
		logger:          logger,
		paymentTermDays: defaultPaymentTermDays,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *PurchaseOrderReceivedHandler) EventTypes() []string {
	return []string{trade.EventTypePurchaseOrderReceived}
}

// Handle processes a PurchaseOrderReceivedEvent by creating an AccountsPayable
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

	if receivedEvent.TotalAmount.IsZero() {
		h.logger.Info("skipping payable creation, received amount is zero",
			zap.String("po_id", receivedEvent.PurchaseOrderID.String()),
			zap.String("po_number", receivedEvent.PONumber),
		)
		return nil
	}

	existing, err := h.payableRepo.FindByCause(ctx, finance.CauseTypePurchaseOrder, receivedEvent.PurchaseOrderID)
	if err != nil && !shared.IsNotFound(err) {
		h.logger.Error("failed to check existing payable",
			zap.String("po_id", receivedEvent.PurchaseOrderID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to check existing payable: %w", err)
	}
	if existing != nil {
		h.logger.Warn("payable already exists for purchase order, skipping",
			zap.String("po_id", receivedEvent.PurchaseOrderID.String()),
			zap.String("po_number", receivedEvent.PONumber),
			zap.String("existing_payable_id", existing.ID.String()),
		)
		return nil
	}

	payableNumber, err := h.payableRepo.GeneratePayableNumber(ctx)
	if err != nil {
		h.logger.Error("failed to generate payable number",
			zap.String("po_id", receivedEvent.PurchaseOrderID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to generate payable number: %w", err)
	}

	dueDate := time.Now().AddDate(0, 0, h.paymentTermDays)
	amount := valueobject.NewMoneyKRW(receivedEvent.TotalAmount)

	cause := finance.NewPurchaseOrderCause(receivedEvent.PurchaseOrderID, receivedEvent.PONumber)
	payable, err := finance.NewAccountsPayable(payableNumber, cause,
		receivedEvent.VendorID, receivedEvent.VendorName, amount, &dueDate)
	if err != nil {
		h.logger.Error("failed to create accounts payable",
			zap.String("po_id", receivedEvent.PurchaseOrderID.String()),
			zap.String("po_number", receivedEvent.PONumber),
			zap.Error(err),
		)
		return fmt.Errorf("failed to create accounts payable: %w", err)
	}

	payable.ClearDomainEvents()
	if err := h.payableRepo.Save(ctx, payable); err != nil {
		h.logger.Error("failed to save accounts payable",
			zap.String("po_id", receivedEvent.PurchaseOrderID.String()),
			zap.String("payable_number", payableNumber),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save accounts payable: %w", err)
	}

	h.logger.Info("accounts payable created",
		zap.String("payable_id", payable.ID.String()),
		zap.String("payable_number", payableNumber),
		zap.String("po_number", receivedEvent.PONumber),
		zap.String("vendor_id", receivedEvent.VendorID.String()),
		zap.String("vendor_name", receivedEvent.VendorName),
		zap.String("amount", receivedEvent.TotalAmount.String()),
		zap.Time("due_date", dueDate),
	)

	return nil
}

// Ensure PurchaseOrderReceivedHandler implements shared.EventHandler
var _ shared.EventHandler = (*PurchaseOrderReceivedHandler)(nil)
