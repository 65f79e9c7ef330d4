package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgworks/erp/internal/domain/finance"
	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/domain/shared/valueobject"
)

// PayableService handles accounts payable business operations
type PayableService struct {
	payableRepo    finance.AccountsPayableRepository
	eventPublisher shared.EventPublisher
}

// NewPayableService creates a new PayableService
func NewPayableService(payableRepo finance.AccountsPayableRepository) *PayableService {
	return &PayableService{
		payableRepo: payableRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PayableService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateManual books a payable by hand for obligations that do not come out
// of the purchase order flow (utilities, rent, one-off services)
func (s *PayableService) CreateManual(ctx context.Context, req CreateManualPayableRequest) (*PayableResponse, error) {
	payableNumber, err := s.payableRepo.GeneratePayableNumber(ctx)
	if err != nil {
		return nil, err
	}

	cause := finance.NewManualCause(req.DocumentID, req.Reference)
	payable, err := finance.NewAccountsPayable(payableNumber, cause, req.VendorID, req.VendorName,
		valueobject.NewMoneyKRW(req.TotalAmount), req.DueDate)
	if err != nil {
		return nil, err
	}

	if err := s.saveAndPublish(ctx, payable, false); err != nil {
		return nil, err
	}

	response := ToPayableResponse(payable)
	return &response, nil
}

// GetByID retrieves a payable by ID
func (s *PayableService) GetByID(ctx context.Context, payableID uuid.UUID) (*PayableResponse, error) {
	payable, err := s.payableRepo.FindByID(ctx, payableID)
	if err != nil {
		return nil, err
	}
	response := ToPayableResponse(payable)
	return &response, nil
}

// List retrieves payables with filtering and pagination
func (s *PayableService) List(ctx context.Context, filter PayableListFilter) ([]PayableResponse, int64, error) {
	domainFilter := finance.AccountsPayableFilter{Filter: shared.DefaultFilter()}
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
		status := finance.PayableStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown payable status")
		}
		domainFilter.Status = &status
	}
	domainFilter.VendorID = filter.VendorID
	domainFilter.Overdue = filter.Overdue

	payables, err := s.payableRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.payableRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PayableResponse, 0, len(payables))
	for i := range payables {
		responses = append(responses, ToPayableResponse(&payables[i]))
	}
	return responses, total, nil
}

// RecordPayment records a vendor payment against a payable. The aggregate
// enforces the balance guards; the service only builds the payment and
// persists the outcome under optimistic locking.
func (s *PayableService) RecordPayment(ctx context.Context, payableID uuid.UUID, req RecordPaymentRequest) (*PayableResponse, error) {
	payable, err := s.payableRepo.FindByID(ctx, payableID)
	if err != nil {
		return nil, err
	}

	method := finance.PaymentMethod(req.Method)
	payment, err := finance.NewVendorPayment(req.PaymentDate, valueobject.NewMoneyKRW(req.Amount), method, req.RecordedByID)
	if err != nil {
		return nil, err
	}
	if req.ReferenceNumber != "" {
		if err := payment.SetReferenceNumber(req.ReferenceNumber); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := payment.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	if err := payable.AddPayment(payment); err != nil {
		return nil, err
	}

	if err := s.saveAndPublish(ctx, payable, true); err != nil {
		return nil, err
	}

	response := ToPayableResponse(payable)
	return &response, nil
}

// Cancel cancels a payable that carries no payments
func (s *PayableService) Cancel(ctx context.Context, payableID uuid.UUID) (*PayableResponse, error) {
	payable, err := s.payableRepo.FindByID(ctx, payableID)
	if err != nil {
		return nil, err
	}

	if err := payable.Cancel(); err != nil {
		return nil, err
	}

	if err := s.saveAndPublish(ctx, payable, true); err != nil {
		return nil, err
	}

	response := ToPayableResponse(payable)
	return &response, nil
}

// SetDueDate changes the due date of an open payable
func (s *PayableService) SetDueDate(ctx context.Context, payableID uuid.UUID, dueDate *time.Time) (*PayableResponse, error) {
	payable, err := s.payableRepo.FindByID(ctx, payableID)
	if err != nil {
		return nil, err
	}

	if err := payable.SetDueDate(dueDate); err != nil {
		return nil, err
	}

	if err := s.payableRepo.Save(ctx, payable); err != nil {
		return nil, err
	}

	response := ToPayableResponse(payable)
	return &response, nil
}

// AgingReport builds the payables aging report over all payables that still
// carry an outstanding balance, grouped per vendor and aging bucket
func (s *PayableService) AgingReport(ctx context.Context) (*AgingReport, error) {
	filter := finance.AccountsPayableFilter{Filter: shared.DefaultFilter()}
	payables, err := s.payableRepo.FindOutstanding(ctx, filter)
	if err != nil {
		return nil, err
	}

	byVendor := make(map[uuid.UUID]*AgingReportLine)
	order := make([]uuid.UUID, 0)
	total := decimal.Zero

	for i := range payables {
		ap := &payables[i]
		line, ok := byVendor[ap.VendorID]
		if !ok {
			line = &AgingReportLine{
				VendorID:    ap.VendorID,
				VendorName:  ap.VendorName,
				Current:     decimal.Zero,
				Days30:      decimal.Zero,
				Days60:      decimal.Zero,
				Days90Plus:  decimal.Zero,
				Outstanding: decimal.Zero,
			}
			byVendor[ap.VendorID] = line
			order = append(order, ap.VendorID)
		}

		outstanding := ap.OutstandingAmount
		switch ap.AgingBucket() {
		case finance.AgingBucket30Days:
			line.Days30 = line.Days30.Add(outstanding)
		case finance.AgingBucket60Days:
			line.Days60 = line.Days60.Add(outstanding)
		case finance.AgingBucket90Plus:
			line.Days90Plus = line.Days90Plus.Add(outstanding)
		default:
			line.Current = line.Current.Add(outstanding)
		}
		line.Outstanding = line.Outstanding.Add(outstanding)
		total = total.Add(outstanding)
	}

	lines := make([]AgingReportLine, 0, len(order))
	for _, vendorID := range order {
		lines = append(lines, *byVendor[vendorID])
	}

	return &AgingReport{
		AsOf:  time.Now(),
		Lines: lines,
		Total: total,
	}, nil
}

func (s *PayableService) saveAndPublish(ctx context.Context, payable *finance.AccountsPayable, withLock bool) error {
	events := payable.GetDomainEvents()
	payable.ClearDomainEvents()

	var err error
	if withLock {
		err = s.payableRepo.SaveWithLock(ctx, payable)
	} else {
		err = s.payableRepo.Save(ctx, payable)
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
