package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// dateLayout is the calendar-day format stored in all DATE columns. Fine
// computation runs at day granularity, so no time component is stored.
const dateLayout = "2006-01-02"

const defaultLoanPeriodDays = 14

// Database provides high-level helpers around a SQLite connection. All
// integrity rules live at this boundary: enum CHECKs, foreign keys, the
// fine trigger, the event-capacity guard, and the volunteer counter.
type Database struct {
	db  *sql.DB
	log *zap.Logger

	loanPeriodDays int

	addItemStmt   *sql.Stmt
	addPersonStmt *sql.Stmt
}

// Option configures a Database at open time.
type Option func(*Database)

// WithLogger attaches a structured logger. The default is a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(d *Database) { d.log = log }
}

// WithLoanPeriod overrides the default 14-day due date offset.
func WithLoanPeriod(days int) Option {
	return func(d *Database) {
		if days > 0 {
			d.loanPeriodDays = days
		}
	}
}

// NewDatabase opens (or creates) the SQLite database at dbPath, applies
// schema migrations, and prepares common statements.
func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows one writer; a single pooled connection keeps concurrent
	// callers serialized instead of surfacing SQLITE_BUSY mid-transaction.
	db.SetMaxOpenConns(1)

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{
		db:             db,
		log:            zap.NewNop(),
		loanPeriodDays: defaultLoanPeriodDays,
	}
	for _, opt := range opts {
		opt(database)
	}
	if err := database.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	database.log.Info("database opened", zap.String("path", dbPath))
	return database, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	if d.addItemStmt != nil {
		d.addItemStmt.Close()
	}
	if d.addPersonStmt != nil {
		d.addPersonStmt.Close()
	}
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

// schemaStmts defines all tables. No ON DELETE CASCADE anywhere: deleting a
// row that is still referenced must fail.
var schemaStmts = []string{
	`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`,
	`CREATE TABLE IF NOT EXISTS items (
        item_id INTEGER PRIMARY KEY AUTOINCREMENT,
        title TEXT NOT NULL,
        author TEXT,
        publisher TEXT,
        publication_year INTEGER,
        item_type TEXT NOT NULL CHECK(item_type IN
            ('print_book','online_book','magazine','journal','cd','record')),
        isbn TEXT UNIQUE CHECK(isbn IS NULL OR length(isbn) IN (10, 13)),
        available_copies INTEGER NOT NULL DEFAULT 1 CHECK(available_copies >= 0),
        status TEXT NOT NULL DEFAULT 'available' CHECK(status IN
            ('available','borrowed','donated')),
        location TEXT
    );`,
	`CREATE TABLE IF NOT EXISTS persons (
        person_id INTEGER PRIMARY KEY AUTOINCREMENT,
        first_name TEXT NOT NULL,
        last_name TEXT NOT NULL,
        gender TEXT CHECK(gender IS NULL OR gender IN ('M','F','Other')),
        birth_date TEXT,
        email TEXT UNIQUE NOT NULL,
        phone TEXT,
        address TEXT,
        role TEXT NOT NULL DEFAULT 'Member' CHECK(role IN ('Member','Staff','Volunteer')),
        password_hash TEXT
    );`,
	`CREATE TABLE IF NOT EXISTS staff (
        person_id INTEGER PRIMARY KEY REFERENCES persons(person_id),
        position TEXT NOT NULL
    );`,
	`CREATE TABLE IF NOT EXISTS volunteers (
        person_id INTEGER PRIMARY KEY REFERENCES persons(person_id),
        participation_count INTEGER NOT NULL DEFAULT 0
    );`,
	`CREATE TABLE IF NOT EXISTS borrow_transactions (
        transaction_id INTEGER PRIMARY KEY AUTOINCREMENT,
        person_id INTEGER NOT NULL REFERENCES persons(person_id),
        item_id INTEGER NOT NULL REFERENCES items(item_id),
        borrow_date TEXT NOT NULL,
        due_date TEXT NOT NULL,
        return_date TEXT,
        fine REAL NOT NULL DEFAULT 0 CHECK(fine >= 0)
    );`,
	`CREATE TABLE IF NOT EXISTS donations (
        donation_id INTEGER PRIMARY KEY AUTOINCREMENT,
        person_id INTEGER NOT NULL REFERENCES persons(person_id),
        item_id INTEGER NOT NULL UNIQUE REFERENCES items(item_id),
        donation_date TEXT NOT NULL DEFAULT (DATE('now')),
        condition TEXT
    );`,
	`CREATE TABLE IF NOT EXISTS rooms (
        room_id INTEGER PRIMARY KEY AUTOINCREMENT,
        room_name TEXT NOT NULL,
        capacity INTEGER NOT NULL CHECK(capacity > 0)
    );`,
	`CREATE TABLE IF NOT EXISTS events (
        event_id INTEGER PRIMARY KEY AUTOINCREMENT,
        event_name TEXT NOT NULL,
        event_date TEXT NOT NULL,
        event_time TEXT,
        event_description TEXT,
        audience TEXT CHECK(audience IS NULL OR audience IN ('children','adults','both')),
        room_id INTEGER NOT NULL REFERENCES rooms(room_id)
    );`,
	`CREATE TABLE IF NOT EXISTS event_registrations (
        registration_id INTEGER PRIMARY KEY AUTOINCREMENT,
        person_id INTEGER NOT NULL REFERENCES persons(person_id),
        event_id INTEGER NOT NULL REFERENCES events(event_id),
        registration_date TEXT NOT NULL DEFAULT (DATE('now'))
    );`,
	`CREATE TABLE IF NOT EXISTS volunteer_registrations (
        registration_id INTEGER PRIMARY KEY AUTOINCREMENT,
        person_id INTEGER NOT NULL REFERENCES volunteers(person_id),
        event_id INTEGER NOT NULL REFERENCES events(event_id)
    );`,
	`CREATE TABLE IF NOT EXISTS help_requests (
        request_id INTEGER PRIMARY KEY AUTOINCREMENT,
        person_id INTEGER NOT NULL REFERENCES persons(person_id),
        staff_id INTEGER REFERENCES staff(person_id),
        request_date TEXT NOT NULL DEFAULT (DATE('now')),
        description TEXT NOT NULL,
        status TEXT NOT NULL DEFAULT 'pending'
    );`,
}

// triggerStmts are the integrity triggers. They run inside the writing
// statement, so their checks and side effects are atomic with it.
var triggerStmts = []string{
	// Late returns: fine = whole days late × 1.0 currency units, computed
	// exactly once at the open→closed transition. The inner UPDATE sets
	// only fine, so neither return_date trigger re-fires.
	`CREATE TRIGGER IF NOT EXISTS trg_calculate_fine
     AFTER UPDATE OF return_date ON borrow_transactions
     FOR EACH ROW
     WHEN NEW.return_date IS NOT NULL AND OLD.return_date IS NULL
          AND julianday(NEW.return_date) > julianday(NEW.due_date)
     BEGIN
         UPDATE borrow_transactions
         SET fine = (julianday(NEW.return_date) - julianday(NEW.due_date)) * 1.0
         WHERE transaction_id = NEW.transaction_id;
     END;`,
	// Closed transactions stay closed: a second return_date write aborts.
	`CREATE TRIGGER IF NOT EXISTS trg_reject_reclose
     BEFORE UPDATE OF return_date ON borrow_transactions
     FOR EACH ROW
     WHEN OLD.return_date IS NOT NULL
     BEGIN
         SELECT RAISE(ABORT, 'borrow transaction already closed');
     END;`,
	// Capacity guard: the recount happens inside the INSERT under the
	// writer lock, so at most capacity registrations can ever exist.
	`CREATE TRIGGER IF NOT EXISTS trg_event_capacity
     BEFORE INSERT ON event_registrations
     FOR EACH ROW
     BEGIN
         SELECT CASE
             WHEN ((SELECT COUNT(*) FROM event_registrations WHERE event_id = NEW.event_id) >=
                   (SELECT capacity FROM rooms WHERE room_id =
                       (SELECT room_id FROM events WHERE event_id = NEW.event_id)))
             THEN RAISE(ABORT, 'event capacity reached')
         END;
     END;`,
	// Denormalized participation counter, kept in sync with registrations.
	`CREATE TRIGGER IF NOT EXISTS trg_volunteer_participation
     AFTER INSERT ON volunteer_registrations
     FOR EACH ROW
     BEGIN
         UPDATE volunteers SET participation_count = participation_count + 1
         WHERE person_id = NEW.person_id;
     END;`,
}

func applyMigrations(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range schemaStmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	for _, stmt := range triggerStmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply triggers: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.addItemStmt, err = d.db.Prepare(
		`INSERT INTO items(title,author,publisher,publication_year,item_type,isbn,available_copies,status,location)
         VALUES(?,?,?,?,?,?,?,?,?)`); err != nil {
		return err
	}
	if d.addPersonStmt, err = d.db.Prepare(
		`INSERT INTO persons(first_name,last_name,gender,birth_date,email,phone,address,role)
         VALUES(?,?,?,?,?,?,?,?)`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Small helpers
// ---------------------------------------------------------------------------

func isoDate(t time.Time) string { return t.Format(dateLayout) }

// nullIfEmpty maps "" to NULL so optional text columns stay NULL-clean.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
