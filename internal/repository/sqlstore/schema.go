package sqlstore

// AUTOINCREMENT (SQLite) and BIGSERIAL (PostgreSQL) never hand out an id twice,
// which the running balance relies on. Money and kilos are TEXT in SQLite and
// unscaled NUMERIC in PostgreSQL so decimals round-trip exactly on both.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS ledger_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ledger TEXT NOT NULL,
		date TIMESTAMP NOT NULL,
		amount TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('inflow', 'outflow')),
		description TEXT NOT NULL DEFAULT '',
		balance TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_entries_ledger_id ON ledger_entries(ledger, id)`,
	`CREATE TABLE IF NOT EXISTS production (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TIMESTAMP NOT NULL,
		kilos_in TEXT NOT NULL,
		kilos_out TEXT NOT NULL,
		surplus TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS purchase_orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer TEXT NOT NULL,
		date TIMESTAMP NOT NULL,
		kilos TEXT NOT NULL,
		remaining_kilos TEXT NOT NULL,
		price_per_kilo TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS deliveries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		purchase_order_id INTEGER NOT NULL REFERENCES purchase_orders(id),
		date TIMESTAMP NOT NULL,
		kilos TEXT NOT NULL,
		amount TEXT NOT NULL,
		payment_status TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TIMESTAMP NOT NULL,
		supplier TEXT NOT NULL,
		kilos TEXT NOT NULL,
		price_per_kilo TEXT NOT NULL,
		total TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TIMESTAMP NOT NULL,
		category TEXT NOT NULL,
		amount TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT '',
		monthly_salary TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS salary_payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		period TEXT NOT NULL,
		amount TEXT NOT NULL,
		paid_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS audit_events (
		id TEXT PRIMARY KEY,
		entity TEXT NOT NULL,
		entity_id INTEGER NOT NULL,
		action TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_events_at ON audit_events(at)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS ledger_entries (
		id BIGSERIAL PRIMARY KEY,
		ledger TEXT NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		amount NUMERIC NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('inflow', 'outflow')),
		description TEXT NOT NULL DEFAULT '',
		balance NUMERIC NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_entries_ledger_id ON ledger_entries(ledger, id)`,
	`CREATE TABLE IF NOT EXISTS production (
		id BIGSERIAL PRIMARY KEY,
		date TIMESTAMPTZ NOT NULL,
		kilos_in NUMERIC NOT NULL,
		kilos_out NUMERIC NOT NULL,
		surplus NUMERIC NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS purchase_orders (
		id BIGSERIAL PRIMARY KEY,
		customer TEXT NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		kilos NUMERIC NOT NULL,
		remaining_kilos NUMERIC NOT NULL,
		price_per_kilo NUMERIC NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS deliveries (
		id BIGSERIAL PRIMARY KEY,
		purchase_order_id BIGINT NOT NULL REFERENCES purchase_orders(id),
		date TIMESTAMPTZ NOT NULL,
		kilos NUMERIC NOT NULL,
		amount NUMERIC NOT NULL,
		payment_status TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id BIGSERIAL PRIMARY KEY,
		date TIMESTAMPTZ NOT NULL,
		supplier TEXT NOT NULL,
		kilos NUMERIC NOT NULL,
		price_per_kilo NUMERIC NOT NULL,
		total NUMERIC NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id BIGSERIAL PRIMARY KEY,
		date TIMESTAMPTZ NOT NULL,
		category TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT '',
		monthly_salary NUMERIC NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS salary_payments (
		id BIGSERIAL PRIMARY KEY,
		employee_id BIGINT NOT NULL REFERENCES employees(id),
		period TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		paid_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS audit_events (
		id TEXT PRIMARY KEY,
		entity TEXT NOT NULL,
		entity_id BIGINT NOT NULL,
		action TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_events_at ON audit_events(at)`,
}
