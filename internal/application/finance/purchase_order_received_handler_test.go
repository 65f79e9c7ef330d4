package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mfgworks/erp/internal/domain/finance"
	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/domain/shared/valueobject"
	"github.com/mfgworks/erp/internal/domain/trade"
)

func receivedOrder(t *testing.T) *trade.PurchaseOrder {
	t.Helper()
	qty := valueobject.MustNewQuantity(decimal.NewFromInt(40), "EA")
	po, err := trade.NewPurchaseOrder("PO-2026-0200", uuid.New(), uuid.New(), uuid.New(),
		"Sejin Materials", qty, valueobject.NewMoneyKRWFromInt(25000), time.Now().AddDate(0, 0, 7))
	require.NoError(t, err)
	require.NoError(t, po.Receive())
	return po
}

func TestPurchaseOrderReceivedHandler_CreatesPayable(t *testing.T) {
	po := receivedOrder(t)
	event := trade.NewPurchaseOrderReceivedEvent(po)

	repo := new(MockAccountsPayableRepository)
	repo.On("FindByCause", mock.Anything, finance.CauseTypePurchaseOrder, po.ID).Return(nil, shared.ErrNotFound)
	repo.On("GeneratePayableNumber", mock.Anything).Return("AP-2026-0001", nil)

	var saved *finance.AccountsPayable
	repo.On("Save", mock.Anything, mock.AnythingOfType("*finance.AccountsPayable")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*finance.AccountsPayable)
		}).Return(nil)

	handler := NewPurchaseOrderReceivedHandler(repo, zap.NewNop())
	err := handler.Handle(context.Background(), event)

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "AP-2026-0001", saved.PayableNumber)
	assert.Equal(t, finance.CauseTypePurchaseOrder, saved.Cause.Type)
	assert.Equal(t, po.ID, saved.Cause.ID)
	assert.Equal(t, "PO-2026-0200", saved.Cause.ReferenceNumber)
	assert.Equal(t, po.VendorID, saved.VendorID)
	assert.Equal(t, "Sejin Materials", saved.VendorName)
	assert.True(t, saved.TotalAmount.Equal(decimal.NewFromInt(1000000)))
	assert.Equal(t, finance.PayableStatusPending, saved.Status)
	require.NotNil(t, saved.DueDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *saved.DueDate, time.Minute)
	repo.AssertExpectations(t)
}

func TestPurchaseOrderReceivedHandler_IdempotentOnRedelivery(t *testing.T) {
	po := receivedOrder(t)
	event := trade.NewPurchaseOrderReceivedEvent(po)

	existingDue := time.Now().AddDate(0, 0, 30)
	existing, err := finance.NewAccountsPayable("AP-2026-0001",
		finance.NewPurchaseOrderCause(po.ID, po.PONumber), po.VendorID, po.VendorName,
		valueobject.NewMoneyKRW(po.TotalAmount), &existingDue)
	require.NoError(t, err)

	repo := new(MockAccountsPayableRepository)
	repo.On("FindByCause", mock.Anything, finance.CauseTypePurchaseOrder, po.ID).Return(existing, nil)

	handler := NewPurchaseOrderReceivedHandler(repo, zap.NewNop())
	err = handler.Handle(context.Background(), event)

	require.NoError(t, err, "redelivery is a no-op, not a failure")
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "GeneratePayableNumber", mock.Anything)
}

func TestPurchaseOrderReceivedHandler_LookupFailurePropagates(t *testing.T) {
	po := receivedOrder(t)
	event := trade.NewPurchaseOrderReceivedEvent(po)

	repo := new(MockAccountsPayableRepository)
	repo.On("FindByCause", mock.Anything, finance.CauseTypePurchaseOrder, po.ID).Return(nil, assert.AnError)

	handler := NewPurchaseOrderReceivedHandler(repo, zap.NewNop())
	err := handler.Handle(context.Background(), event)

	require.Error(t, err)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPurchaseOrderReceivedHandler_ZeroAmountSkipped(t *testing.T) {
	po := receivedOrder(t)
	event := trade.NewPurchaseOrderReceivedEvent(po)
	event.TotalAmount = decimal.Zero

	repo := new(MockAccountsPayableRepository)
	handler := NewPurchaseOrderReceivedHandler(repo, zap.NewNop())

	err := handler.Handle(context.Background(), event)
	require.NoError(t, err)
	repo.AssertNotCalled(t, "FindByCause", mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseOrderReceivedHandler_WrongEventType(t *testing.T) {
	po := receivedOrder(t)

	repo := new(MockAccountsPayableRepository)
	handler := NewPurchaseOrderReceivedHandler(repo, zap.NewNop())

	err := handler.Handle(context.Background(), trade.NewPurchaseOrderCreatedEvent(po))
	assert.Error(t, err)
}

func TestPurchaseOrderReceivedHandler_EventTypes(t *testing.T) {
	handler := NewPurchaseOrderReceivedHandler(new(MockAccountsPayableRepository), zap.NewNop())
	assert.Equal(t, []string{trade.EventTypePurchaseOrderReceived}, handler.EventTypes())
}
