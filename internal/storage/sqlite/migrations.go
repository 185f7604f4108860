package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// Money columns are TEXT holding decimal strings: REAL would round.
// Dissolved clubs keep their row (with the stranded balance) so club ids
// stay dense and are never reused; only the member rows are deleted, which
// is what frees the identities for new clubs.
const schema = `
CREATE TABLE IF NOT EXISTS clubs (
    id INTEGER PRIMARY KEY,
    owner_idx INTEGER NOT NULL,
    next_payee_idx INTEGER NOT NULL,
    balance TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    dissolved INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS club_members (
    club_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    identity TEXT NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (club_id, position),
    FOREIGN KEY (club_id) REFERENCES clubs(id) ON DELETE CASCADE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_club_members_identity ON club_members(identity);

CREATE TABLE IF NOT EXISTS ledger_totals (
    identity TEXT PRIMARY KEY,
    deposited TEXT NOT NULL,
    withdrawn TEXT NOT NULL
);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
