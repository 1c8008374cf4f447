package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
)

func timeParse(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func TestSearchEntries(t *testing.T) {
	entries := []domain.LedgerEntry{
		{ID: "1", Description: "Booking: Mario Rossi", Category: domain.CategoryBookingRevenue},
		{ID: "2", Description: "Pulizie", Notes: "Extra pulizia CAFFÈ", Category: domain.CategoryCleaning},
		{ID: "3", Description: "Bolletta", Category: domain.CategoryUtilities},
	}

	assert.Len(t, SearchEntries("", entries), 3)
	assert.Len(t, SearchEntries("   ", entries), 3)

	got := SearchEntries("mario", entries)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	got = SearchEntries("utilities", entries)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)

	got = SearchEntries("caffè", entries)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	assert.Empty(t, SearchEntries("nothing", entries))
}

func TestSearchTransfers(t *testing.T) {
	transfers := []domain.WireTransfer{
		{ID: "a", PayerName: "Giulia Bianchi", Reason: "Deposit"},
		{ID: "b", PayeeName: "Enel", ReferenceCode: "CRO-998"},
	}
	got := SearchTransfers("cro-99", transfers)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	got = SearchTransfers("DEPOSIT", transfers)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestSearchLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.UpsertEntry(ctx, domain.LedgerEntry{
		Description:   "Towels",
		Amount:        decimal.NewFromInt(30),
		Date:          date(2024, 5, 1),
		Direction:     domain.DirectionExpense,
		Category:      domain.CategoryOtherExpense,
		PaymentMethod: domain.PaymentCash,
	})
	require.NoError(t, err)
	_, err = f.svc.AddTransfer(ctx, transfer(domain.TransferReceived))
	require.NoError(t, err)

	res, err := f.svc.SearchLedger(ctx, "giulia")
	require.NoError(t, err)
	assert.Len(t, res.Transfers, 1)
	// the derived entry's description names the payer too
	assert.Len(t, res.Entries, 1)
}
