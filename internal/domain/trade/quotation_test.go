package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/domain/shared/valueobject"
)

func newTestQuotation(t *testing.T) *Quotation {
	t.Helper()
	q, err := NewQuotation("QT-2026-0001", uuid.New(), uuid.New(), 30, uuid.New())
	require.NoError(t, err)
	return q
}

func addTestItem(t *testing.T, q *Quotation, qty int64, price int64) *QuotationLineItem {
	t.Helper()
	item, err := q.AddLineItem(uuid.New(), "CNC milled bracket", decimal.NewFromInt(qty), valueobject.NewMoneyKRWFromInt(price))
	require.NoError(t, err)
	return item
}

func TestNewQuotation(t *testing.T) {
	q := newTestQuotation(t)

	assert.Equal(t, QuotationStatusDraft, q.Status)
	assert.Equal(t, 1, q.VersionNumber)
	assert.True(t, q.TotalAmount.IsZero())
	assert.Empty(t, q.Items)
	require.NotNil(t, q.ExpiryDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *q.ExpiryDate, time.Minute)

	events := q.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeQuotationCreated, events[0].EventType())
}

func TestNewQuotation_Validation(t *testing.T) {
	projectID := uuid.New()
	customerID := uuid.New()
	creatorID := uuid.New()

	tests := []struct {
		name         string
		number       string
		projectID    uuid.UUID
		customerID   uuid.UUID
		validityDays int
		creatorID    uuid.UUID
	}{
		{"empty number", "", projectID, customerID, 30, creatorID},
		{"nil project", "QT-1", uuid.Nil, customerID, 30, creatorID},
		{"nil customer", "QT-1", projectID, uuid.Nil, 30, creatorID},
		{"zero validity", "QT-1", projectID, customerID, 0, creatorID},
		{"negative validity", "QT-1", projectID, customerID, -5, creatorID},
		{"nil creator", "QT-1", projectID, customerID, 30, uuid.Nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuotation(tt.number, tt.projectID, tt.customerID, tt.validityDays, tt.creatorID)
			assert.Error(t, err)
		})
	}
}

func TestQuotation_AddLineItem_RecalculatesTotal(t *testing.T) {
	q := newTestQuotation(t)

	addTestItem(t, q, 10, 5000)
	addTestItem(t, q, 2, 120000)

	assert.Len(t, q.Items, 2)
	assert.True(t, q.TotalAmount.Equal(decimal.NewFromInt(290000)), "total was %s", q.TotalAmount)
}

func TestQuotation_AddLineItem_RejectsInvalid(t *testing.T) {
	q := newTestQuotation(t)

	_, err := q.AddLineItem(uuid.Nil, "part", decimal.NewFromInt(1), valueobject.NewMoneyKRWFromInt(100))
	assert.Error(t, err)

	_, err = q.AddLineItem(uuid.New(), "", decimal.NewFromInt(1), valueobject.NewMoneyKRWFromInt(100))
	assert.Error(t, err)

	_, err = q.AddLineItem(uuid.New(), "part", decimal.Zero, valueobject.NewMoneyKRWFromInt(100))
	assert.Error(t, err)

	_, err = q.AddLineItem(uuid.New(), "part", decimal.NewFromInt(1), valueobject.NewMoneyKRWFromInt(-100))
	assert.Error(t, err)
}

func TestQuotation_UpdateLineItem(t *testing.T) {
	q := newTestQuotation(t)
	item := addTestItem(t, q, 10, 5000)

	err := q.UpdateLineItem(item.ID, decimal.NewFromInt(4), valueobject.NewMoneyKRWFromInt(7500))
	require.NoError(t, err)

	updated := q.FindLineItem(item.ID)
	require.NotNil(t, updated)
	assert.True(t, updated.LineTotal.Equal(decimal.NewFromInt(30000)))
	assert.True(t, q.TotalAmount.Equal(decimal.NewFromInt(30000)))
}

func TestQuotation_UpdateLineItem_NotFound(t *testing.T) {
	q := newTestQuotation(t)
	addTestItem(t, q, 1, 100)

	err := q.UpdateLineItem(uuid.New(), decimal.NewFromInt(2), valueobject.NewMoneyKRWFromInt(100))
	assert.Error(t, err)
}

func TestQuotation_RemoveLineItem(t *testing.T) {
	q := newTestQuotation(t)
	item := addTestItem(t, q, 10, 5000)
	addTestItem(t, q, 1, 1000)

	err := q.RemoveLineItem(item.ID)
	require.NoError(t, err)

	assert.Len(t, q.Items, 1)
	assert.True(t, q.TotalAmount.Equal(decimal.NewFromInt(1000)))
}

func TestQuotation_LineItemsLockedAfterSubmit(t *testing.T) {
	q := newTestQuotation(t)
	item := addTestItem(t, q, 1, 1000)
	require.NoError(t, q.Submit())

	_, err := q.AddLineItem(uuid.New(), "part", decimal.NewFromInt(1), valueobject.NewMoneyKRWFromInt(100))
	assert.ErrorContains(t, err, "PENDING")

	err = q.UpdateLineItem(item.ID, decimal.NewFromInt(2), valueobject.NewMoneyKRWFromInt(100))
	assert.Error(t, err)

	err = q.RemoveLineItem(item.ID)
	assert.Error(t, err)
}

func TestQuotation_Submit_RequiresItems(t *testing.T) {
	q := newTestQuotation(t)

	err := q.Submit()
	require.Error(t, err)
	assert.Equal(t, "EMPTY_QUOTATION", shared.ErrorCode(err))
	assert.Equal(t, QuotationStatusDraft, q.Status)
}

func TestQuotation_ApprovalFlow(t *testing.T) {
	q := newTestQuotation(t)
	addTestItem(t, q, 1, 1000)

	require.NoError(t, q.Submit())
	assert.Equal(t, QuotationStatusPending, q.Status)
	require.NotNil(t, q.SubmittedAt)

	approver := uuid.New()
	require.NoError(t, q.Approve(approver))
	assert.Equal(t, QuotationStatusApproved, q.Status)
	require.NotNil(t, q.ApprovedByID)
	assert.Equal(t, approver, *q.ApprovedByID)

	require.NoError(t, q.MarkSent())
	assert.Equal(t, QuotationStatusSent, q.Status)

	require.NoError(t, q.Accept())
	assert.Equal(t, QuotationStatusAccepted, q.Status)
}

func TestQuotation_Approve_ResetsValidityWindow(t *testing.T) {
	q := newTestQuotation(t)
	addTestItem(t, q, 1, 1000)
	require.NoError(t, q.Submit())

	require.NoError(t, q.Approve(uuid.New()))

	require.NotNil(t, q.ExpiryDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, q.ValidityDays), *q.ExpiryDate, time.Minute)
	assert.False(t, q.IsExpired())
}

func TestQuotation_Reject_RequiresReason(t *testing.T) {
	q := newTestQuotation(t)
	addTestItem(t, q, 1, 1000)
	require.NoError(t, q.Submit())

	err := q.Reject("")
	assert.Error(t, err)

	require.NoError(t, q.Reject("price too high"))
	assert.Equal(t, QuotationStatusRejected, q.Status)
	assert.Equal(t, "price too high", q.RejectionReason)
}

func TestQuotation_GuardedTransitions(t *testing.T) {
	q := newTestQuotation(t)
	addTestItem(t, q, 1, 1000)

	assert.Error(t, q.Approve(uuid.New()))
	assert.Error(t, q.Reject("reason"))
	assert.Error(t, q.MarkSent())
	assert.Error(t, q.Accept())

	require.NoError(t, q.Submit())
	assert.Error(t, q.Submit())
	assert.Error(t, q.Accept())
}

func TestQuotation_CreateNewVersion(t *testing.T) {
	q := newTestQuotation(t)
	addTestItem(t, q, 3, 2000)
	require.NoError(t, q.Submit())
	require.NoError(t, q.Reject("needs discount"))

	creator := uuid.New()
	next, err := q.CreateNewVersion(creator)
	require.NoError(t, err)

	assert.Equal(t, 2, next.VersionNumber)
	assert.Equal(t, QuotationStatusDraft, next.Status)
	assert.Equal(t, q.QuotationNumber, next.QuotationNumber)
	assert.NotEqual(t, q.ID, next.ID)
	require.Len(t, next.Items, 1)
	assert.NotEqual(t, q.Items[0].ID, next.Items[0].ID)
	assert.True(t, next.TotalAmount.Equal(q.TotalAmount))

	events := next.GetDomainEvents()
	require.Len(t, events, 1)
	versionEvent, ok := events[0].(*QuotationVersionCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, q.ID, versionEvent.PreviousQuotationID)
}

func TestQuotation_CreateNewVersion_NotFromDraftOrPending(t *testing.T) {
	q := newTestQuotation(t)
	addTestItem(t, q, 1, 1000)

	_, err := q.CreateNewVersion(uuid.New())
	assert.Error(t, err)

	require.NoError(t, q.Submit())
	_, err = q.CreateNewVersion(uuid.New())
	assert.Error(t, err)
}

func TestQuotation_CreateNewVersion_NewDraftIsMutable(t *testing.T) {
	q := newTestQuotation(t)
	addTestItem(t, q, 1, 1000)
	require.NoError(t, q.Submit())
	require.NoError(t, q.Approve(uuid.New()))

	next, err := q.CreateNewVersion(uuid.New())
	require.NoError(t, err)

	_, err = next.AddLineItem(uuid.New(), "anodizing", decimal.NewFromInt(1), valueobject.NewMoneyKRWFromInt(50000))
	require.NoError(t, err)
	assert.Len(t, next.Items, 2)

	// the source quotation is untouched
	assert.Len(t, q.Items, 1)
	assert.Equal(t, QuotationStatusApproved, q.Status)
}
