package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(id, property string, date time.Time) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:            id,
		Description:   "entry " + id,
		Amount:        decimal.NewFromInt(10),
		Date:          date,
		Direction:     domain.DirectionIncome,
		Category:      domain.CategoryOtherIncome,
		PaymentMethod: domain.PaymentCash,
		PropertyID:    property,
	}
}

func TestMemoryStore_UpsertGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	repo := s.Entries()

	require.NoError(t, repo.Upsert(ctx, entry("e1", "p1", day(2024, 1, 5))))

	got, err := repo.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "entry e1", got.Description)

	updated := got
	updated.Description = "changed"
	require.NoError(t, repo.Upsert(ctx, updated))
	got, err = repo.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Description)

	require.NoError(t, repo.Delete(ctx, "e1"))
	_, err = repo.Get(ctx, "e1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, "e1"), domain.ErrNotFound))
}

func TestMemoryStore_UpsertRequiresID(t *testing.T) {
	err := NewMemoryStore().Entries().Upsert(context.Background(), entry("", "p1", day(2024, 1, 1)))
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestMemoryStore_ListFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	repo := s.Entries()
	require.NoError(t, repo.Upsert(ctx, entry("c", "p1", day(2024, 3, 1))))
	require.NoError(t, repo.Upsert(ctx, entry("a", "p1", day(2024, 1, 1))))
	require.NoError(t, repo.Upsert(ctx, entry("b", "p2", day(2024, 2, 1))))

	all, err := repo.List(ctx, All)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].ID, all[1].ID, all[2].ID})

	p1, err := repo.List(ctx, ForProperty("p1"))
	require.NoError(t, err)
	assert.Len(t, p1, 2)

	ranged, err := repo.List(ctx, Query{From: day(2024, 2, 1), To: day(2024, 3, 1)})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "b", ranged[0].ID)
}

func TestMemoryStore_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Entries().Upsert(ctx, entry("e1", "", day(2024, 1, 1))))

	list, err := s.Entries().List(ctx, All)
	require.NoError(t, err)
	list[0].Description = "mutated"

	got, err := s.Entries().Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "entry e1", got.Description)
}

func TestMemoryStore_WithinTxCommitsAtomically(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	err := s.WithinTx(ctx, func(tx Store) error {
		if err := tx.Entries().Upsert(ctx, entry("e1", "", day(2024, 1, 1))); err != nil {
			return err
		}
		return tx.Transfers().Upsert(ctx, domain.WireTransfer{ID: "t1", Date: day(2024, 1, 1), LinkedLedgerEntryID: "e1"})
	})
	require.NoError(t, err)

	_, err = s.Entries().Get(ctx, "e1")
	assert.NoError(t, err)
	tr, err := s.Transfers().Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "e1", tr.LinkedLedgerEntryID)
}

func TestMemoryStore_WithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Entries().Upsert(ctx, entry("keep", "", day(2024, 1, 1))))

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(tx Store) error {
		require.NoError(t, tx.Entries().Upsert(ctx, entry("e1", "", day(2024, 1, 1))))
		require.NoError(t, tx.Entries().Delete(ctx, "keep"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Entries().Get(ctx, "e1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = s.Entries().Get(ctx, "keep")
	assert.NoError(t, err)
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Entries().Upsert(ctx, entry("e1", "p1", day(2024, 1, 1))))
	require.NoError(t, s.Entries().Upsert(ctx, entry("e2", "p2", day(2024, 1, 1))))
	require.NoError(t, s.Bookings().Upsert(ctx, domain.Booking{ID: "b1", PropertyID: "p1", CheckIn: day(2024, 1, 1)}))

	snap, err := Load(ctx, s, ForProperty("p1"))
	require.NoError(t, err)
	assert.Len(t, snap.Entries, 1)
	assert.Len(t, snap.Bookings, 1)
	assert.Empty(t, snap.Expenses)
	assert.Empty(t, snap.Transfers)
}
