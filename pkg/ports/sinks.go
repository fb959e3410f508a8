package ports

import (
	"context"

	"github.com/aretw0/upskill/pkg/domain"
)

// LeadStore is the persistence sink for submitted assessments.
// Failures are reported to the caller, which logs and swallows them.
type LeadStore interface {
	// Save stores a lead. Saving the same lead ID twice must not create a duplicate.
	Save(ctx context.Context, lead domain.Lead) error

	// List returns the most recent leads first. A limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]domain.Lead, error)
}

// AnalyticsSink accepts named events with a property bag.
// A disabled sink must accept every call without error.
type AnalyticsSink interface {
	Emit(ctx context.Context, event domain.Event) error
}
