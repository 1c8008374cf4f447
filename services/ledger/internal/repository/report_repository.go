// services/ledger/internal/repository/report_repository.go
package repository

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/lib/pq"

	"github.com/CSINCE90/bnb-manager-macos-sub000/services/ledger/internal/models"
	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
)

// ReportRepository persists reconciliation reports
type ReportRepository interface {
	Save(ctx context.Context, report models.ReportRecord) error
	History(ctx context.Context, propertyID string, limit int) ([]models.ReportRecord, error)
}

// PostgresReportRepository stores reports in the reconciliation_reports table
type PostgresReportRepository struct {
	db *sql.DB
}

// NewPostgresReportRepository creates a Postgres-backed report repository
func NewPostgresReportRepository(db *sql.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

// Save inserts a report record
func (r *PostgresReportRepository) Save(ctx context.Context, report models.ReportRecord) error {
	query := `
		INSERT INTO reconciliation_reports
		(id, property_id, total_income, total_expense, is_clean, discrepancies, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.PropertyID,
		report.TotalIncome,
		report.TotalExpense,
		report.IsClean,
		pq.Array(report.Discrepancies),
		report.CreatedAt,
	)
	if err != nil {
		return domain.Persistence("save reconciliation report", err)
	}
	return nil
}

// History returns the latest reports for a property, newest first
func (r *PostgresReportRepository) History(ctx context.Context, propertyID string, limit int) ([]models.ReportRecord, error) {
	query := `
		SELECT id, property_id, total_income, total_expense, is_clean, discrepancies, created_at
		FROM reconciliation_reports
		WHERE ($1 = '' OR property_id = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, propertyID, limit)
	if err != nil {
		return nil, domain.Persistence("list reconciliation reports", err)
	}
	defer rows.Close()

	reports := make([]models.ReportRecord, 0)
	for rows.Next() {
		var rec models.ReportRecord
		err := rows.Scan(
			&rec.ID,
			&rec.PropertyID,
			&rec.TotalIncome,
			&rec.TotalExpense,
			&rec.IsClean,
			pq.Array(&rec.Discrepancies),
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, domain.Persistence("scan reconciliation report", err)
		}
		reports = append(reports, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("list reconciliation reports", err)
	}
	return reports, nil
}

// MemoryReportRepository keeps reports in process memory
type MemoryReportRepository struct {
	mu      sync.Mutex
	reports []models.ReportRecord
}

// NewMemoryReportRepository creates an empty in-memory report repository
func NewMemoryReportRepository() *MemoryReportRepository {
	return &MemoryReportRepository{}
}

func (r *MemoryReportRepository) Save(_ context.Context, report models.ReportRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report.Discrepancies = append([]string(nil), report.Discrepancies...)
	r.reports = append(r.reports, report)
	return nil
}

func (r *MemoryReportRepository) History(_ context.Context, propertyID string, limit int) ([]models.ReportRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.ReportRecord, 0, len(r.reports))
	for _, rec := range r.reports {
		if propertyID == "" || rec.PropertyID == propertyID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
