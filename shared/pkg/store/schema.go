// shared/pkg/store/schema.go
package store

const Schema = `
CREATE TABLE IF NOT EXISTS bookings (
	id          VARCHAR(36) PRIMARY KEY,
	guest_name  VARCHAR(255) NOT NULL,
	email       VARCHAR(255) NOT NULL DEFAULT '',
	phone       VARCHAR(64) NOT NULL DEFAULT '',
	check_in    TIMESTAMPTZ NOT NULL,
	check_out   TIMESTAMPTZ NOT NULL,
	guest_count INTEGER NOT NULL CHECK (guest_count >= 1),
	total_price DECIMAL(19, 2) NOT NULL CHECK (total_price >= 0),
	status      VARCHAR(20) NOT NULL,
	notes       TEXT NOT NULL DEFAULT '',
	property_id VARCHAR(36) NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bookings_property_check_in ON bookings (property_id, check_in);

CREATE TABLE IF NOT EXISTS expenses (
	id          VARCHAR(36) PRIMARY KEY,
	property_id VARCHAR(36) NOT NULL DEFAULT '',
	description TEXT NOT NULL,
	amount      DECIMAL(19, 2) NOT NULL CHECK (amount >= 0),
	date        TIMESTAMPTZ NOT NULL,
	category    VARCHAR(20) NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_expenses_property_date ON expenses (property_id, date);

CREATE TABLE IF NOT EXISTS ledger_entries (
	id                 VARCHAR(36) PRIMARY KEY,
	description        TEXT NOT NULL,
	amount             DECIMAL(19, 2) NOT NULL CHECK (amount >= 0),
	date               TIMESTAMPTZ NOT NULL,
	direction          VARCHAR(10) NOT NULL,
	category           VARCHAR(20) NOT NULL,
	payment_method     VARCHAR(20) NOT NULL,
	notes              TEXT NOT NULL DEFAULT '',
	linked_booking_id  VARCHAR(36) NOT NULL DEFAULT '',
	linked_transfer_id VARCHAR(36) NOT NULL DEFAULT '',
	property_id        VARCHAR(36) NOT NULL DEFAULT '',
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ledger_entries_property_date ON ledger_entries (property_id, date);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_booking ON ledger_entries (linked_booking_id);

CREATE TABLE IF NOT EXISTS wire_transfers (
	id                     VARCHAR(36) PRIMARY KEY,
	amount                 DECIMAL(19, 2) NOT NULL CHECK (amount >= 0),
	date                   TIMESTAMPTZ NOT NULL,
	value_date             TIMESTAMPTZ,
	payer_name             VARCHAR(255) NOT NULL DEFAULT '',
	payee_name             VARCHAR(255) NOT NULL DEFAULT '',
	reason                 TEXT NOT NULL DEFAULT '',
	reference_code         VARCHAR(64) NOT NULL DEFAULT '',
	iban                   VARCHAR(34) NOT NULL DEFAULT '',
	bank_name              VARCHAR(255) NOT NULL DEFAULT '',
	direction              VARCHAR(10) NOT NULL,
	status                 VARCHAR(20) NOT NULL,
	fees                   DECIMAL(19, 2) NOT NULL DEFAULT 0 CHECK (fees >= 0),
	notes                  TEXT NOT NULL DEFAULT '',
	linked_ledger_entry_id VARCHAR(36) NOT NULL DEFAULT '',
	property_id            VARCHAR(36) NOT NULL DEFAULT '',
	created_at             TIMESTAMPTZ NOT NULL,
	updated_at             TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_wire_transfers_property_date ON wire_transfers (property_id, date);

CREATE TABLE IF NOT EXISTS reconciliation_reports (
	id            VARCHAR(36) PRIMARY KEY,
	property_id   VARCHAR(36) NOT NULL DEFAULT '',
	total_income  DECIMAL(19, 2) NOT NULL,
	total_expense DECIMAL(19, 2) NOT NULL,
	is_clean      BOOLEAN NOT NULL,
	discrepancies TEXT[] NOT NULL DEFAULT '{}',
	created_at    TIMESTAMPTZ NOT NULL
);
`
