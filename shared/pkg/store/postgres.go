// shared/pkg/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// PostgresStore keeps each entity kind in its own table
type PostgresStore struct {
	db *sql.DB
	q  querier
}

// NewPostgresStore creates a store over db
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, q: db}
}

// Migrate creates the tables and indexes when they do not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.q.ExecContext(ctx, Schema); err != nil {
		return domain.Persistence("migrate", err)
	}
	return nil
}

func (s *PostgresStore) Bookings() Repository[domain.Booking] {
	return &pgRepo[domain.Booking]{q: s.q, t: bookingsTable}
}

func (s *PostgresStore) Expenses() Repository[domain.Expense] {
	return &pgRepo[domain.Expense]{q: s.q, t: expensesTable}
}

func (s *PostgresStore) Entries() Repository[domain.LedgerEntry] {
	return &pgRepo[domain.LedgerEntry]{q: s.q, t: entriesTable}
}

func (s *PostgresStore) Transfers() Repository[domain.WireTransfer] {
	return &pgRepo[domain.WireTransfer]{q: s.q, t: transfersTable}
}

// WithinTx runs fn in a transaction, rolling back when fn returns an error
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Persistence("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(&PostgresStore{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return domain.Persistence("commit transaction", err)
	}
	return nil
}

// table describes how one entity maps onto its relation. The first column is
// always the primary key.
type table[T Entity] struct {
	name    string
	kind    string
	dateCol string
	columns []string
	values  func(T) []interface{}
	scan    func(scanner) (T, error)
}

func (t table[T]) selectList() string {
	return strings.Join(t.columns, ", ")
}

func (t table[T]) upsertQuery() string {
	placeholders := make([]string, len(t.columns))
	updates := make([]string, 0, len(t.columns)-1)
	for i, c := range t.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if i > 0 && c != "created_at" {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
		t.name, t.selectList(), strings.Join(placeholders, ", "), strings.Join(updates, ", "),
	)
}

type pgRepo[T Entity] struct {
	q querier
	t table[T]
}

func (r *pgRepo[T]) List(ctx context.Context, q Query) ([]T, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE ($1 = '' OR property_id = $1)
		  AND ($2::timestamptz IS NULL OR %s >= $2)
		  AND ($3::timestamptz IS NULL OR %s < $3)
		ORDER BY %s ASC, id ASC
	`, r.t.selectList(), r.t.name, r.t.dateCol, r.t.dateCol, r.t.dateCol)

	rows, err := r.q.QueryContext(ctx, query, q.PropertyID, nullTime(q.From), nullTime(q.To))
	if err != nil {
		return nil, domain.Persistence("list "+r.t.name, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := r.t.scan(rows)
		if err != nil {
			return nil, domain.Persistence("scan "+r.t.name, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("list "+r.t.name, err)
	}
	return out, nil
}

func (r *pgRepo[T]) Get(ctx context.Context, id string) (T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", r.t.selectList(), r.t.name)

	v, err := r.t.scan(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, domain.NotFound(r.t.kind, id)
	}
	if err != nil {
		var zero T
		return zero, domain.Persistence("get "+r.t.kind, err)
	}
	return v, nil
}

func (r *pgRepo[T]) Upsert(ctx context.Context, entity T) error {
	if entity.EntityID() == "" {
		return domain.Invalid("%s id is required", r.t.kind)
	}
	_, err := r.q.ExecContext(ctx, r.t.upsertQuery(), r.t.values(entity)...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" {
			return domain.Invalid("%s %q: %s", r.t.kind, entity.EntityID(), pqErr.Message)
		}
		return domain.Persistence("upsert "+r.t.kind, err)
	}
	return nil
}

func (r *pgRepo[T]) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.t.name), id)
	if err != nil {
		return domain.Persistence("delete "+r.t.kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Persistence("delete "+r.t.kind, err)
	}
	if n == 0 {
		return domain.NotFound(r.t.kind, id)
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

var bookingsTable = table[domain.Booking]{
	name:    "bookings",
	kind:    "booking",
	dateCol: "check_in",
	columns: []string{"id", "guest_name", "email", "phone", "check_in", "check_out", "guest_count",
		"total_price", "status", "notes", "property_id", "created_at", "updated_at"},
	values: func(b domain.Booking) []interface{} {
		return []interface{}{b.ID, b.GuestName, b.Email, b.Phone, b.CheckIn, b.CheckOut, b.GuestCount,
			b.TotalPrice, b.Status, b.Notes, b.PropertyID, b.CreatedAt, b.UpdatedAt}
	},
	scan: func(row scanner) (domain.Booking, error) {
		var b domain.Booking
		err := row.Scan(&b.ID, &b.GuestName, &b.Email, &b.Phone, &b.CheckIn, &b.CheckOut, &b.GuestCount,
			&b.TotalPrice, &b.Status, &b.Notes, &b.PropertyID, &b.CreatedAt, &b.UpdatedAt)
		return b, err
	},
}

var expensesTable = table[domain.Expense]{
	name:    "expenses",
	kind:    "expense",
	dateCol: "date",
	columns: []string{"id", "property_id", "description", "amount", "date", "category", "created_at", "updated_at"},
	values: func(e domain.Expense) []interface{} {
		return []interface{}{e.ID, e.PropertyID, e.Description, e.Amount, e.Date, e.Category, e.CreatedAt, e.UpdatedAt}
	},
	scan: func(row scanner) (domain.Expense, error) {
		var e domain.Expense
		err := row.Scan(&e.ID, &e.PropertyID, &e.Description, &e.Amount, &e.Date, &e.Category, &e.CreatedAt, &e.UpdatedAt)
		return e, err
	},
}

var entriesTable = table[domain.LedgerEntry]{
	name:    "ledger_entries",
	kind:    "ledger entry",
	dateCol: "date",
	columns: []string{"id", "description", "amount", "date", "direction", "category", "payment_method",
		"notes", "linked_booking_id", "linked_transfer_id", "property_id", "created_at", "updated_at"},
	values: func(e domain.LedgerEntry) []interface{} {
		return []interface{}{e.ID, e.Description, e.Amount, e.Date, e.Direction, e.Category, e.PaymentMethod,
			e.Notes, e.LinkedBookingID, e.LinkedTransferID, e.PropertyID, e.CreatedAt, e.UpdatedAt}
	},
	scan: func(row scanner) (domain.LedgerEntry, error) {
		var e domain.LedgerEntry
		err := row.Scan(&e.ID, &e.Description, &e.Amount, &e.Date, &e.Direction, &e.Category, &e.PaymentMethod,
			&e.Notes, &e.LinkedBookingID, &e.LinkedTransferID, &e.PropertyID, &e.CreatedAt, &e.UpdatedAt)
		return e, err
	},
}

var transfersTable = table[domain.WireTransfer]{
	name:    "wire_transfers",
	kind:    "wire transfer",
	dateCol: "date",
	columns: []string{"id", "amount", "date", "value_date", "payer_name", "payee_name", "reason",
		"reference_code", "iban", "bank_name", "direction", "status", "fees", "notes",
		"linked_ledger_entry_id", "property_id", "created_at", "updated_at"},
	values: func(t domain.WireTransfer) []interface{} {
		return []interface{}{t.ID, t.Amount, t.Date, t.ValueDate, t.PayerName, t.PayeeName, t.Reason,
			t.ReferenceCode, t.IBAN, t.BankName, t.Direction, t.Status, t.Fees, t.Notes,
			t.LinkedLedgerEntryID, t.PropertyID, t.CreatedAt, t.UpdatedAt}
	},
	scan: func(row scanner) (domain.WireTransfer, error) {
		var t domain.WireTransfer
		err := row.Scan(&t.ID, &t.Amount, &t.Date, &t.ValueDate, &t.PayerName, &t.PayeeName, &t.Reason,
			&t.ReferenceCode, &t.IBAN, &t.BankName, &t.Direction, &t.Status, &t.Fees, &t.Notes,
			&t.LinkedLedgerEntryID, &t.PropertyID, &t.CreatedAt, &t.UpdatedAt)
		return t, err
	},
}
