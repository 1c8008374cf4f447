package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/ledger/internal/models"
)

func record(id, property string, at time.Time) models.ReportRecord {
	return models.ReportRecord{
		ID:            id,
		PropertyID:    property,
		TotalIncome:   decimal.NewFromInt(300),
		TotalExpense:  decimal.NewFromInt(40),
		Discrepancies: []string{"missing_booking_entry b1: no entry"},
		CreatedAt:     at,
	}
}

func TestPostgresReportRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := record("r1", "p1", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	mock.ExpectExec("INSERT INTO reconciliation_reports").
		WithArgs(rec.ID, rec.PropertyID, rec.TotalIncome, rec.TotalExpense, rec.IsClean, sqlmock.AnyArg(), rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewPostgresReportRepository(db).Save(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReportRepository_History(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "property_id", "total_income", "total_expense", "is_clean", "discrepancies", "created_at"}).
		AddRow("r1", "p1", "300.00", "40.00", false, `{"missing_booking_entry b1: no entry","orphan x"}`, at)
	mock.ExpectQuery("SELECT (.+) FROM reconciliation_reports").WithArgs("p1", 5).WillReturnRows(rows)

	got, err := NewPostgresReportRepository(db).History(context.Background(), "p1", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"missing_booking_entry b1: no entry", "orphan x"}, got[0].Discrepancies)
	assert.True(t, got[0].TotalIncome.Equal(decimal.NewFromInt(300)))
}

func TestMemoryReportRepository(t *testing.T) {
	repo := NewMemoryReportRepository()
	ctx := context.Background()
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, record("old", "p1", base)))
	require.NoError(t, repo.Save(ctx, record("new", "p1", base.Add(time.Hour))))
	require.NoError(t, repo.Save(ctx, record("other", "p2", base)))

	got, err := repo.History(ctx, "p1", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)

	got, err = repo.History(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
