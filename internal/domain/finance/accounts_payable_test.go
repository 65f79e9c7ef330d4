package finance

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

func newTestPayable(t *testing.T, total int64, dueDate *time.Time) *AccountsPayable {
	t.Helper()
	ap, err := NewAccountsPayable(
		"AP-2026-00001",
		NewPurchaseOrderCause(uuid.New(), "PO-2026-00042"),
		uuid.New(),
		"Hansung Precision Co.",
		valueobject.NewMoneyKRWFromInt(total),
		dueDate,
	)
	require.NoError(t, err)
	ap.ClearDomainEvents()
	return ap
}

func newTestPayment(t *testing.T, amount int64) *VendorPayment {
	t.Helper()
	p, err := NewVendorPayment(time.Now(), valueobject.NewMoneyKRWFromInt(amount), PaymentMethodBankTransfer, uuid.New())
	require.NoError(t, err)
	return p
}

func daysAgo(n int) *time.Time {
	d := time.Now().AddDate(0, 0, -n)
	return &d
}

// Status enum

func TestPayableStatus_IsValid(t *testing.T) {
	tests := []struct {
		status   PayableStatus
		expected bool
	}{
		{PayableStatusPending, true},
		{PayableStatusPartiallyPaid, true},
		{PayableStatusPaid, true},
		{PayableStatusCancelled, true},
		{PayableStatus("INVALID"), false},
		{PayableStatus(""), false},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.IsValid())
		})
	}
}

func TestPayableStatus_CanAcceptPayment(t *testing.T) {
	tests := []struct {
		status   PayableStatus
		expected bool
	}{
		{PayableStatusPending, true},
		{PayableStatusPartiallyPaid, true},
		{PayableStatusPaid, false},
		{PayableStatusCancelled, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.CanAcceptPayment())
		})
	}
}

// DisbursementCause

func TestDisbursementCause_Validate(t *testing.T) {
	valid := NewPurchaseOrderCause(uuid.New(), "PO-1")
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		cause DisbursementCause
	}{
		{"invalid type", DisbursementCause{Type: "WHATEVER", ID: uuid.New(), ReferenceNumber: "X"}},
		{"nil id", DisbursementCause{Type: CauseTypeManual, ID: uuid.Nil, ReferenceNumber: "X"}},
		{"empty reference", DisbursementCause{Type: CauseTypeManual, ID: uuid.New(), ReferenceNumber: ""}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cause.Validate())
		})
	}
}

// Construction

func TestNewAccountsPayable_ValidData(t *testing.T) {
	vendorID := uuid.New()
	poID := uuid.New()
	due := time.Now().AddDate(0, 0, 30)

	ap, err := NewAccountsPayable(
		"AP-2026-00007",
		NewPurchaseOrderCause(poID, "PO-2026-00099"),
		vendorID,
		"Daejin Metals",
		valueobject.NewMoneyKRWFromInt(1000),
		&due,
	)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, ap.ID)
	assert.Equal(t, "AP-2026-00007", ap.PayableNumber)
	assert.Equal(t, CauseTypePurchaseOrder, ap.Cause.Type)
	assert.Equal(t, poID, ap.Cause.ID)
	assert.Equal(t, "PO-2026-00099", ap.Cause.ReferenceNumber)
	assert.Equal(t, vendorID, ap.VendorID)
	assert.True(t, ap.TotalAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, ap.PaidAmount.IsZero())
	assert.True(t, ap.OutstandingAmount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, PayableStatusPending, ap.Status)
	assert.Empty(t, ap.Payments)

	events := ap.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeAccountsPayableCreated, events[0].EventType())
}

func TestNewAccountsPayable_Validation(t *testing.T) {
	cause := NewPurchaseOrderCause(uuid.New(), "PO-1")
	vendor := uuid.New()
	amount := valueobject.NewMoneyKRWFromInt(100)

	tests := []struct {
		name string
		run  func() (*AccountsPayable, error)
	}{
		{"empty number", func() (*AccountsPayable, error) {
			return NewAccountsPayable("", cause, vendor, "V", amount, nil)
		}},
		{"invalid cause", func() (*AccountsPayable, error) {
			return NewAccountsPayable("AP-1", DisbursementCause{}, vendor, "V", amount, nil)
		}},
		{"nil vendor", func() (*AccountsPayable, error) {
			return NewAccountsPayable("AP-1", cause, uuid.Nil, "V", amount, nil)
		}},
		{"empty vendor name", func() (*AccountsPayable, error) {
			return NewAccountsPayable("AP-1", cause, vendor, "", amount, nil)
		}},
		{"zero amount", func() (*AccountsPayable, error) {
			return NewAccountsPayable("AP-1", cause, vendor, "V", valueobject.ZeroKRW(), nil)
		}},
		{"negative amount", func() (*AccountsPayable, error) {
			return NewAccountsPayable("AP-1", cause, vendor, "V", valueobject.NewMoneyKRWFromInt(-10), nil)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ap, err := tc.run()
			assert.Error(t, err)
			assert.Nil(t, ap)
		})
	}
}

// AddPayment

func TestAccountsPayable_AddPayment_PartialThenFull(t *testing.T) {
	ap := newTestPayable(t, 1000, nil)

	require.NoError(t, ap.AddPayment(newTestPayment(t, 300)))
	assert.Equal(t, PayableStatusPartiallyPaid, ap.Status)
	assert.True(t, ap.PaidAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, ap.OutstandingAmount.Equal(decimal.NewFromInt(700)))

	require.NoError(t, ap.AddPayment(newTestPayment(t, 400)))
	assert.Equal(t, PayableStatusPartiallyPaid, ap.Status)
	assert.True(t, ap.OutstandingAmount.Equal(decimal.NewFromInt(300)))

	require.NoError(t, ap.AddPayment(newTestPayment(t, 300)))
	assert.Equal(t, PayableStatusPaid, ap.Status)
	assert.Equal(t, 3, ap.PaymentCount())
	assert.True(t, ap.OutstandingAmount.IsZero())
	assert.NotNil(t, ap.PaidAt)
}

func TestAccountsPayable_AddPayment_BalanceInvariant(t *testing.T) {
	ap := newTestPayable(t, 1000, nil)

	for _, amount := range []int64{250, 250, 100} {
		require.NoError(t, ap.AddPayment(newTestPayment(t, amount)))
		assert.False(t, ap.PaidAmount.IsNegative())
		assert.True(t, ap.PaidAmount.LessThanOrEqual(ap.TotalAmount))
		assert.True(t, ap.OutstandingAmount.Equal(ap.TotalAmount.Sub(ap.PaidAmount)))
	}
}

func TestAccountsPayable_AddPayment_ExceedsBalance(t *testing.T) {
	ap := newTestPayable(t, 1000, nil)
	require.NoError(t, ap.AddPayment(newTestPayment(t, 800)))

	err := ap.AddPayment(newTestPayment(t, 300))
	require.Error(t, err)
	assert.Equal(t, shared.CodePaymentExceedsBalance, shared.ErrorCode(err))
	assert.Contains(t, err.Error(), "exceeds remaining balance")

	// No partial mutation
	assert.Equal(t, PayableStatusPartiallyPaid, ap.Status)
	assert.True(t, ap.PaidAmount.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, 1, ap.PaymentCount())
}

func TestAccountsPayable_AddPayment_NotAllowedOnPaid(t *testing.T) {
	ap := newTestPayable(t, 500, nil)
	require.NoError(t, ap.AddPayment(newTestPayment(t, 500)))
	require.Equal(t, PayableStatusPaid, ap.Status)

	err := ap.AddPayment(newTestPayment(t, 1))
	require.Error(t, err)
	assert.Equal(t, shared.CodePaymentNotAllowed, shared.ErrorCode(err))
}

func TestAccountsPayable_AddPayment_NotAllowedOnCancelled(t *testing.T) {
	ap := newTestPayable(t, 500, nil)
	require.NoError(t, ap.Cancel())

	err := ap.AddPayment(newTestPayment(t, 100))
	require.Error(t, err)
	assert.Equal(t, shared.CodePaymentNotAllowed, shared.ErrorCode(err))
}

func TestAccountsPayable_AddPayment_ExactBalanceIsPaid(t *testing.T) {
	ap := newTestPayable(t, 1000, nil)
	p := newTestPayment(t, 1000)

	require.NoError(t, ap.AddPayment(p))
	assert.Equal(t, PayableStatusPaid, ap.Status)
	// Exact-match payment is not partial
	assert.False(t, p.IsPartialPayment())
}

func TestAccountsPayable_AddPayment_AttachesPayment(t *testing.T) {
	ap := newTestPayable(t, 1000, nil)
	p := newTestPayment(t, 400)
	assert.False(t, p.IsAttached())

	require.NoError(t, ap.AddPayment(p))
	assert.True(t, p.IsAttached())
	assert.Equal(t, ap.ID, p.PayableID)
	assert.True(t, p.IsPartialPayment())

	// A payment cannot be attached twice
	other := newTestPayable(t, 2000, nil)
	err := other.AddPayment(p)
	assert.Error(t, err)
	assert.Equal(t, 0, other.PaymentCount())
}

func TestAccountsPayable_AddPayment_Events(t *testing.T) {
	ap := newTestPayable(t, 1000, nil)

	require.NoError(t, ap.AddPayment(newTestPayment(t, 400)))
	require.NoError(t, ap.AddPayment(newTestPayment(t, 600)))

	events := ap.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventTypeVendorPaymentRecorded, events[0].EventType())
	assert.Equal(t, EventTypeAccountsPayablePaid, events[1].EventType())
}

func TestAccountsPayable_PaymentLedger_InsertionOrder(t *testing.T) {
	ap := newTestPayable(t, 1000, nil)
	first := newTestPayment(t, 300)
	second := newTestPayment(t, 400)
	require.NoError(t, ap.AddPayment(first))
	require.NoError(t, ap.AddPayment(second))

	ledger := ap.PaymentLedger()
	require.Len(t, ledger, 2)
	assert.Equal(t, first.ID, ledger[0].ID)
	assert.Equal(t, second.ID, ledger[1].ID)

	// Mutating the returned slice must not affect the aggregate
	ledger[0] = nil
	assert.Equal(t, first.ID, ap.PaymentLedger()[0].ID)
}

// Cancel

func TestAccountsPayable_Cancel_Pending(t *testing.T) {
	ap := newTestPayable(t, 1000, nil)

	require.NoError(t, ap.Cancel())
	assert.Equal(t, PayableStatusCancelled, ap.Status)
	assert.NotNil(t, ap.CancelledAt)

	events := ap.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeAccountsPayableCancelled, events[0].EventType())
}

func TestAccountsPayable_Cancel_WithExistingPayments(t *testing.T) {
	ap := newTestPayable(t, 1000, nil)
	require.NoError(t, ap.AddPayment(newTestPayment(t, 200)))

	err := ap.Cancel()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "existing payments")
	assert.Equal(t, PayableStatusPartiallyPaid, ap.Status)
}

func TestAccountsPayable_Cancel_FullyPaid(t *testing.T) {
	ap := newTestPayable(t, 1000, nil)
	require.NoError(t, ap.AddPayment(newTestPayment(t, 1000)))

	err := ap.Cancel()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fully paid")
}

func TestAccountsPayable_Cancel_AlreadyCancelled(t *testing.T) {
	ap := newTestPayable(t, 1000, nil)
	require.NoError(t, ap.Cancel())

	err := ap.Cancel()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already cancelled")
}

// Overdue and aging

func TestAccountsPayable_IsOverdue_NoDueDate(t *testing.T) {
	ap := newTestPayable(t, 1000, nil)
	assert.False(t, ap.IsOverdue())
	assert.Equal(t, AgingBucketCurrent, ap.AgingBucket())
}

func TestAccountsPayable_IsOverdue_DueToday(t *testing.T) {
	today := time.Now()
	ap := newTestPayable(t, 1000, &today)

	// A due date equal to today is not overdue
	assert.False(t, ap.IsOverdue())
	assert.Equal(t, 0, ap.DaysOverdue())
	assert.Equal(t, AgingBucketCurrent, ap.AgingBucket())
}

func TestAccountsPayable_IsOverdue_OneDayPast(t *testing.T) {
	ap := newTestPayable(t, 1000, daysAgo(1))

	assert.True(t, ap.IsOverdue())
	assert.Equal(t, 1, ap.DaysOverdue())
	assert.Equal(t, AgingBucket30Days, ap.AgingBucket())
}

func TestAccountsPayable_IsOverdue_FullyPaid(t *testing.T) {
	ap := newTestPayable(t, 1000, daysAgo(45))
	require.NoError(t, ap.AddPayment(newTestPayment(t, 1000)))

	assert.False(t, ap.IsOverdue())
	assert.Equal(t, AgingBucketCurrent, ap.AgingBucket())
}

func TestAccountsPayable_AgingBucket(t *testing.T) {
	tests := []struct {
		daysOverdue int
		expected    string
	}{
		{1, AgingBucket30Days},
		{15, AgingBucket30Days},
		{30, AgingBucket30Days},
		{31, AgingBucket60Days},
		{45, AgingBucket60Days},
		{60, AgingBucket60Days},
		{61, AgingBucket90Plus},
		{91, AgingBucket90Plus},
		{365, AgingBucket90Plus},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			ap := newTestPayable(t, 1000, daysAgo(tc.daysOverdue))
			assert.Equal(t, tc.daysOverdue, ap.DaysOverdue())
			assert.Equal(t, tc.expected, ap.AgingBucket())
		})
	}
}

// Misc

func TestAccountsPayable_SetDueDate(t *testing.T) {
	ap := newTestPayable(t, 1000, nil)
	due := time.Now().AddDate(0, 1, 0)

	require.NoError(t, ap.SetDueDate(&due))
	require.NotNil(t, ap.DueDate)
	assert.True(t, ap.DueDate.Equal(due))

	require.NoError(t, ap.Cancel())
	assert.Error(t, ap.SetDueDate(nil))
}

func TestAccountsPayable_RebindPayments(t *testing.T) {
	ap := newTestPayable(t, 1000, nil)
	require.NoError(t, ap.AddPayment(newTestPayment(t, 400)))

	// Simulate a reload losing the in-memory back-references
	for _, p := range ap.Payments {
		p.payable = nil
	}
	assert.False(t, ap.Payments[0].IsPartialPayment())

	ap.RebindPayments()
	assert.True(t, ap.Payments[0].IsPartialPayment())
}
