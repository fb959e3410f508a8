// Package postgres stores submitted leads in PostgreSQL through GORM.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/upskill/pkg/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// leadRecord is the upskill_leads table row.
type leadRecord struct {
	ID               string    `gorm:"primaryKey;size:64"`
	SessionID        string    `gorm:"size:64;not null"`
	CompanyName      string    `gorm:"not null"`
	ContactName      string    `gorm:"not null"`
	Email            string    `gorm:"not null"`
	Phone            string
	TeamSize         int       `gorm:"not null"`
	RecommendedTrack string    `gorm:"size:32;not null"`
	Delivery         string    `gorm:"size:32;not null"`
	QuoteCents       int64     `gorm:"not null"`
	CreatedAt        time.Time `gorm:"index"`
}

func (leadRecord) TableName() string { return "upskill_leads" }

func toRecord(l domain.Lead) leadRecord {
	return leadRecord{
		ID:               l.ID,
		SessionID:        l.SessionID,
		CompanyName:      l.CompanyName,
		ContactName:      l.ContactName,
		Email:            l.Email,
		Phone:            l.Phone,
		TeamSize:         l.TeamSize,
		RecommendedTrack: string(l.RecommendedTrack),
		Delivery:         string(l.Delivery),
		QuoteCents:       int64(l.QuoteValue),
		CreatedAt:        l.CreatedAt.UTC(),
	}
}

func (r leadRecord) toLead() domain.Lead {
	return domain.Lead{
		ID:               r.ID,
		SessionID:        r.SessionID,
		CompanyName:      r.CompanyName,
		ContactName:      r.ContactName,
		Email:            r.Email,
		Phone:            r.Phone,
		TeamSize:         r.TeamSize,
		RecommendedTrack: domain.Track(r.RecommendedTrack),
		Delivery:         domain.DeliveryMode(r.Delivery),
		QuoteValue:       domain.Money(r.QuoteCents),
		CreatedAt:        r.CreatedAt.UTC(),
	}
}

// LeadStore implements ports.LeadStore on PostgreSQL.
type LeadStore struct {
	db *gorm.DB
}

// Open connects to dsn and migrates the leads table.
func Open(dsn string) (*LeadStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	return NewLeadStore(db)
}

// NewLeadStore wraps an existing connection and migrates the leads table.
func NewLeadStore(db *gorm.DB) (*LeadStore, error) {
	if err := db.AutoMigrate(&leadRecord{}); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return &LeadStore{db: db}, nil
}

// Save upserts the lead by ID.
func (s *LeadStore) Save(ctx context.Context, lead domain.Lead) error {
	rec := toRecord(lead)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("postgres: save lead %s: %w", lead.ID, err)
	}
	return nil
}

// List returns leads newest first.
func (s *LeadStore) List(ctx context.Context, limit int) ([]domain.Lead, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC").Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var recs []leadRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("postgres: list leads: %w", err)
	}

	out := make([]domain.Lead, len(recs))
	for i, r := range recs {
		out[i] = r.toLead()
	}
	return out, nil
}

// Close releases the connection pool.
func (s *LeadStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
