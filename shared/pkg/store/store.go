// shared/pkg/store/store.go
package store

import (
	"context"
	"sort"
	"time"

	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
)

// Entity is implemented by every record the store persists.
type Entity interface {
	EntityID() string
	EntityDate() time.Time
	EntityPropertyID() string
}

// Query narrows a listing by tenant and by the entity's own date field.
// Zero bounds are open; To is exclusive.
type Query struct {
	PropertyID string
	From       time.Time
	To         time.Time
}

// All matches every record.
var All = Query{}

// ForProperty scopes a query to one property. An empty id matches every property.
func ForProperty(propertyID string) Query {
	return Query{PropertyID: propertyID}
}

// Match reports whether e passes the query filters
func (q Query) Match(e Entity) bool {
	if q.PropertyID != "" && e.EntityPropertyID() != q.PropertyID {
		return false
	}
	d := e.EntityDate()
	if !q.From.IsZero() && d.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && !d.Before(q.To) {
		return false
	}
	return true
}

// Repository is the per-entity persistence contract. Get and Delete return
// domain.ErrNotFound for unknown ids; Upsert creates or overwrites by id.
type Repository[T Entity] interface {
	List(ctx context.Context, q Query) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Upsert(ctx context.Context, entity T) error
	Delete(ctx context.Context, id string) error
}

// Store groups the repositories. WithinTx runs fn against a transactional
// view; its writes become visible together or not at all.
type Store interface {
	Bookings() Repository[domain.Booking]
	Expenses() Repository[domain.Expense]
	Entries() Repository[domain.LedgerEntry]
	Transfers() Repository[domain.WireTransfer]
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

// Snapshot is a consistent copy of the collections of one property.
type Snapshot struct {
	Bookings  []domain.Booking
	Expenses  []domain.Expense
	Entries   []domain.LedgerEntry
	Transfers []domain.WireTransfer
}

// Load reads every collection inside one transaction so the copies agree.
func Load(ctx context.Context, s Store, q Query) (*Snapshot, error) {
	snap := &Snapshot{}
	err := s.WithinTx(ctx, func(tx Store) error {
		var err error
		if snap.Bookings, err = tx.Bookings().List(ctx, q); err != nil {
			return err
		}
		if snap.Expenses, err = tx.Expenses().List(ctx, q); err != nil {
			return err
		}
		if snap.Entries, err = tx.Entries().List(ctx, q); err != nil {
			return err
		}
		snap.Transfers, err = tx.Transfers().List(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func sortByDate[T Entity](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].EntityDate(), items[j].EntityDate()
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return items[i].EntityID() < items[j].EntityID()
	})
}
