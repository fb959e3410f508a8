// Package sqlite stores submitted leads in a local SQLite database.
//
// It uses the pure-Go modernc.org/sqlite driver, so no cgo toolchain is needed.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/upskill/pkg/domain"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// LeadStore implements ports.LeadStore on SQLite.
type LeadStore struct {
	db *sql.DB
}

// NewLeadStore opens (or creates) the database file at path and migrates it.
func NewLeadStore(path string) (*LeadStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("sqlite: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: pragma %q: %w", p, err)
		}
	}

	s := &LeadStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *LeadStore) Close() error {
	return s.db.Close()
}

func (s *LeadStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS leads (
			id                TEXT PRIMARY KEY,
			session_id        TEXT    NOT NULL,
			company_name      TEXT    NOT NULL,
			contact_name      TEXT    NOT NULL,
			email             TEXT    NOT NULL,
			phone             TEXT    NOT NULL DEFAULT '',
			team_size         INTEGER NOT NULL,
			recommended_track TEXT    NOT NULL,
			delivery          TEXT    NOT NULL,
			quote_cents       INTEGER NOT NULL,
			created_at        INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_leads_created ON leads(created_at DESC);
	`)
	return err
}

// Save upserts the lead by ID.
func (s *LeadStore) Save(ctx context.Context, lead domain.Lead) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leads (id, session_id, company_name, contact_name, email, phone,
			team_size, recommended_track, delivery, quote_cents, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			session_id = excluded.session_id,
			company_name = excluded.company_name,
			contact_name = excluded.contact_name,
			email = excluded.email,
			phone = excluded.phone,
			team_size = excluded.team_size,
			recommended_track = excluded.recommended_track,
			delivery = excluded.delivery,
			quote_cents = excluded.quote_cents,
			created_at = excluded.created_at`,
		lead.ID, lead.SessionID, lead.CompanyName, lead.ContactName, lead.Email, lead.Phone,
		lead.TeamSize, string(lead.RecommendedTrack), string(lead.Delivery),
		int64(lead.QuoteValue), lead.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save lead %s: %w", lead.ID, err)
	}
	return nil
}

// List returns leads newest first.
func (s *LeadStore) List(ctx context.Context, limit int) ([]domain.Lead, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, company_name, contact_name, email, phone,
			team_size, recommended_track, delivery, quote_cents, created_at
		FROM leads
		ORDER BY created_at DESC, id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list leads: %w", err)
	}
	defer rows.Close()

	var out []domain.Lead
	for rows.Next() {
		var (
			l              domain.Lead
			track, mode    string
			cents, created int64
		)
		if err := rows.Scan(&l.ID, &l.SessionID, &l.CompanyName, &l.ContactName, &l.Email, &l.Phone,
			&l.TeamSize, &track, &mode, &cents, &created); err != nil {
			return nil, fmt.Errorf("sqlite: scan lead: %w", err)
		}
		l.RecommendedTrack = domain.Track(track)
		l.Delivery = domain.DeliveryMode(mode)
		l.QuoteValue = domain.Money(cents)
		l.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, l)
	}
	return out, rows.Err()
}
