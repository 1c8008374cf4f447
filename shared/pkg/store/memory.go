// shared/pkg/store/memory.go
package store

import (
	"context"
	"sync"

	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
)

type memData struct {
	bookings  map[string]domain.Booking
	expenses  map[string]domain.Expense
	entries   map[string]domain.LedgerEntry
	transfers map[string]domain.WireTransfer
}

func newMemData() *memData {
	return &memData{
		bookings:  make(map[string]domain.Booking),
		expenses:  make(map[string]domain.Expense),
		entries:   make(map[string]domain.LedgerEntry),
		transfers: make(map[string]domain.WireTransfer),
	}
}

func (d *memData) clone() *memData {
	c := &memData{
		bookings:  make(map[string]domain.Booking, len(d.bookings)),
		expenses:  make(map[string]domain.Expense, len(d.expenses)),
		entries:   make(map[string]domain.LedgerEntry, len(d.entries)),
		transfers: make(map[string]domain.WireTransfer, len(d.transfers)),
	}
	for k, v := range d.bookings {
		c.bookings[k] = v
	}
	for k, v := range d.expenses {
		c.expenses[k] = v
	}
	for k, v := range d.entries {
		c.entries[k] = v
	}
	for k, v := range d.transfers {
		c.transfers[k] = v
	}
	return c
}

// MemoryStore keeps every collection in process. Reads hand out copies, so
// callers may compute over them without holding any lock.
type MemoryStore struct {
	mu   sync.RWMutex
	data *memData
	tx   bool
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: newMemData()}
}

func (s *MemoryStore) Bookings() Repository[domain.Booking] {
	return &memRepo[domain.Booking]{s: s, kind: "booking", pick: func(d *memData) map[string]domain.Booking { return d.bookings }}
}

func (s *MemoryStore) Expenses() Repository[domain.Expense] {
	return &memRepo[domain.Expense]{s: s, kind: "expense", pick: func(d *memData) map[string]domain.Expense { return d.expenses }}
}

func (s *MemoryStore) Entries() Repository[domain.LedgerEntry] {
	return &memRepo[domain.LedgerEntry]{s: s, kind: "ledger entry", pick: func(d *memData) map[string]domain.LedgerEntry { return d.entries }}
}

func (s *MemoryStore) Transfers() Repository[domain.WireTransfer] {
	return &memRepo[domain.WireTransfer]{s: s, kind: "wire transfer", pick: func(d *memData) map[string]domain.WireTransfer { return d.transfers }}
}

// WithinTx stages writes on a private copy while holding the write lock and
// swaps it in only if fn succeeds. Nested calls join the outer transaction.
// fn must use the Store it is given, never s itself.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if s.tx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := &MemoryStore{data: s.data.clone(), tx: true}
	if err := fn(staged); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = staged.data
	return nil
}

type memRepo[T Entity] struct {
	s    *MemoryStore
	kind string
	pick func(*memData) map[string]T
}

func (r *memRepo[T]) List(ctx context.Context, q Query) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m := r.pick(r.s.data)
	out := make([]T, 0, len(m))
	for _, v := range m {
		if q.Match(v) {
			out = append(out, v)
		}
	}
	sortByDate(out)
	return out, nil
}

func (r *memRepo[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.pick(r.s.data)[id]
	if !ok {
		return zero, domain.NotFound(r.kind, id)
	}
	return v, nil
}

func (r *memRepo[T]) Upsert(ctx context.Context, entity T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := entity.EntityID()
	if id == "" {
		return domain.Invalid("%s id is required", r.kind)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.pick(r.s.data)[id] = entity
	return nil
}

func (r *memRepo[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m := r.pick(r.s.data)
	if _, ok := m[id]; !ok {
		return domain.NotFound(r.kind, id)
	}
	delete(m, id)
	return nil
}
