package invoice

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryStore keeps invoices in process memory. Used by tests and as a
// storage fallback when no MongoDB is configured.
type memoryStore struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]Invoice
}

// NewMemoryStore returns an empty in-memory invoice store.
func NewMemoryStore() Store {
	return &memoryStore{
		invoices: make(map[uuid.UUID]Invoice),
	}
}

func (s *memoryStore) Create(_ context.Context, params CreateParams) (Invoice, error) {
	if !params.Status.Valid() {
		return Invoice{}, ErrInvalidStatus
	}

	now := time.Now().UTC()
	due := params.DueDate
	if due.IsZero() {
		due = now
	}

	inv := Invoice{
		ID:             uuid.New(),
		UserID:         params.UserID,
		SubscriptionID: params.SubscriptionID,
		Amount:         params.Amount,
		Status:         params.Status,
		InvoiceDate:    now,
		DueDate:        due,
		LineItems:      slices.Clone(params.LineItems),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.ID] = inv
	return cloneInvoice(inv), nil
}

func (s *memoryStore) Get(_ context.Context, id uuid.UUID) (Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return Invoice{}, ErrNotFound
	}
	return cloneInvoice(inv), nil
}

func (s *memoryStore) ListByUser(_ context.Context, userID uuid.UUID) ([]Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Invoice, 0)
	for _, inv := range s.invoices {
		if inv.UserID == userID {
			out = append(out, cloneInvoice(inv))
		}
	}
	// Invoice date descending, newest first.
	slices.SortFunc(out, func(a, b Invoice) int {
		return b.InvoiceDate.Compare(a.InvoiceDate)
	})
	return out, nil
}

// MarkPaid performs the status check and the write under one lock, the
// in-memory equivalent of the Mongo store's conditional update filter.
func (s *memoryStore) MarkPaid(_ context.Context, id uuid.UUID) (Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return Invoice{}, ErrNotFound
	}
	if inv.Status != StatusUnpaid {
		return Invoice{}, ErrInvalidState
	}
	inv.Status = StatusPaid
	inv.UpdatedAt = time.Now().UTC()
	s.invoices[id] = inv
	return cloneInvoice(inv), nil
}

func cloneInvoice(inv Invoice) Invoice {
	inv.LineItems = slices.Clone(inv.LineItems)
	return inv
}
