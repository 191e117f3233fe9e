package postgres

import "database/sql"

// Migrate creates the schema if it does not exist yet.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'user',
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS access_keys (
    id INTEGER PRIMARY KEY,
    key TEXT NOT NULL UNIQUE,
    user_id TEXT NOT NULL,
    user_email TEXT,
    user_name TEXT,
    payment_id TEXT,
    payment_method TEXT,
    plan TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active',
    created_at INTEGER NOT NULL,
    expires_at INTEGER NOT NULL,
    is_recurring INTEGER NOT NULL DEFAULT 0,
    subscription_id TEXT,
    FOREIGN KEY (user_id) REFERENCES accounts(id)
);

CREATE INDEX IF NOT EXISTS idx_access_keys_user ON access_keys(user_id);
CREATE INDEX IF NOT EXISTS idx_access_keys_payment ON access_keys(payment_id);
`)
	return err
}
