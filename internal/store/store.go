// Package store is a local session journal: last-active tab across runs and a
// log of receipts as they arrived. It caches preferences only — game truth
// stays host-authoritative and is never persisted here.
package store

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sunnyfarm/tablet/internal/protocol"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps the sqlite session journal. A nil *Store is safe to call: every
// method degrades to a no-op so store failures never break the panel.
type Store struct {
	db        *sql.DB
	sessionID string
}

// Open opens (or creates) the journal and applies pending migrations.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return &Store{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	err = m.Up()
	if err == migrate.ErrNoChange {
		return nil
	}
	return err
}

// Close ends the current session row and closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	if s.sessionID != "" {
		_, _ = s.db.Exec(`UPDATE session SET closed_at = ? WHERE id = ?`, now(), s.sessionID)
	}
	return s.db.Close()
}

// BeginSession opens a new session row carrying the given starting tab.
func (s *Store) BeginSession(tab string) error {
	if s == nil || s.db == nil {
		return nil
	}
	s.sessionID = uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO session (id, opened_at, last_active_tab) VALUES (?, ?, ?)`,
		s.sessionID, now(), tab,
	)
	return err
}

// SetLastTab records the active tab so the next run can restore it.
func (s *Store) SetLastTab(tab string) error {
	if s == nil || s.db == nil || s.sessionID == "" {
		return nil
	}
	_, err := s.db.Exec(`UPDATE session SET last_active_tab = ? WHERE id = ?`, tab, s.sessionID)
	return err
}

// LastTab returns the last-active tab of the most recent session, ok=false
// when no prior session exists.
func (s *Store) LastTab() (string, bool) {
	if s == nil || s.db == nil {
		return "", false
	}
	var tab string
	err := s.db.QueryRow(
		`SELECT last_active_tab FROM session ORDER BY opened_at DESC, id DESC LIMIT 1`,
	).Scan(&tab)
	if err != nil {
		return "", false
	}
	return tab, tab != ""
}

// LogReceipt journals one host receipt as received.
func (s *Store) LogReceipt(r protocol.Receipt) error {
	if s == nil || s.db == nil || s.sessionID == "" {
		return nil
	}
	items, err := json.Marshal(r.Items)
	if err != nil {
		return fmt.Errorf("marshal receipt items: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO receipt_log (session_id, received_at, total_payout, bonus_pct, paid_to_wallet, items)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.sessionID, now(), r.TotalPayout, r.BonusPct, boolToInt(r.PaidToWallet), string(items),
	)
	return err
}

// SessionReceipts reports how many receipts arrived this session and their
// combined payout.
func (s *Store) SessionReceipts() (count int, total float64) {
	if s == nil || s.db == nil || s.sessionID == "" {
		return 0, 0
	}
	_ = s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(total_payout), 0) FROM receipt_log WHERE session_id = ?`,
		s.sessionID,
	).Scan(&count, &total)
	return count, total
}

// now returns UTC time truncated to seconds (consistent with SQLite default).
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
