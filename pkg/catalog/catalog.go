package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/aretw0/upskill/pkg/domain"
)

// Catalog is the static reference data of an assessment: the ordered
// questions and the tracks with their pricing tables.
// It is loaded once at startup and treated as read-only afterwards.
type Catalog struct {
	// Currency is the symbol printed in front of amounts.
	Currency string
	// MinTeamSize is the smallest team size the contact step accepts.
	MinTeamSize int
	// MaxTeamSize is the largest team size accepted anywhere.
	MaxTeamSize int
	// DeliveryQuestionID is the single choice question whose option ids are delivery modes.
	DeliveryQuestionID int
	// DefaultDelivery is used when the delivery question has no answer.
	DefaultDelivery domain.DeliveryMode

	Questions []domain.Question
	Tracks    map[domain.Track]domain.TrackInfo
}

// DefaultMaxTeamSize is the largest team size of the built-in catalog.
const DefaultMaxTeamSize = 1000

// CheckTeamSize returns domain.ErrInvalidTeamSize unless n lies between
// MinTeamSize and MaxTeamSize.
func (c *Catalog) CheckTeamSize(n int) error {
	if n < c.MinTeamSize || n > c.MaxTeamSize {
		return fmt.Errorf("%w: team size must be between %d and %d, got %d", domain.ErrInvalidTeamSize, c.MinTeamSize, c.MaxTeamSize, n)
	}
	return nil
}

// Question looks up a question by id.
func (c *Catalog) Question(id int) (domain.Question, bool) {
	for _, q := range c.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return domain.Question{}, false
}

// Track returns the reference data of a track.
func (c *Catalog) Track(t domain.Track) (domain.TrackInfo, error) {
	info, ok := c.Tracks[t]
	if !ok {
		return domain.TrackInfo{}, fmt.Errorf("%w: %q", domain.ErrUnknownTrack, t)
	}
	return info, nil
}

// OrderedTracks returns the tracks in priority order.
func (c *Catalog) OrderedTracks() []domain.TrackInfo {
	out := make([]domain.TrackInfo, 0, len(c.Tracks))
	for _, t := range domain.TrackPriority {
		if info, ok := c.Tracks[t]; ok {
			out = append(out, info)
		}
	}
	return out
}

// DeliveryMode resolves the delivery mode chosen in the answers.
// The second result is false when the default had to be used.
func (c *Catalog) DeliveryMode(answers domain.AnswerSet) (domain.DeliveryMode, bool) {
	sel := answers.Selected(c.DeliveryQuestionID)
	if len(sel) == 0 {
		return c.DefaultDelivery, false
	}
	mode := domain.DeliveryMode(sel[0])
	if !mode.Valid() {
		return c.DefaultDelivery, false
	}
	return mode, true
}

// Validate checks every invariant of the catalog and reports all violations at once.
func (c *Catalog) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	seen := make(map[int]domain.Question)
	contactForms := 0
	for _, q := range c.Questions {
		if _, dup := seen[q.ID]; dup {
			fail("question %d: duplicate id", q.ID)
		}

		switch q.Kind {
		case domain.KindSingleChoice, domain.KindMultiChoice:
			if len(q.Options) == 0 {
				fail("question %d: choice question without options", q.ID)
			}
		case domain.KindContactForm:
			contactForms++
			if len(q.Options) > 0 {
				fail("question %d: contact form cannot have options", q.ID)
			}
		default:
			fail("question %d: unknown kind %q", q.ID, q.Kind)
		}

		optionIDs := make(map[string]bool)
		for _, o := range q.Options {
			if o.ID == "" {
				fail("question %d: option without id", q.ID)
			}
			if optionIDs[o.ID] {
				fail("question %d: duplicate option %q", q.ID, o.ID)
			}
			optionIDs[o.ID] = true
			if o.Affinity != domain.AffinityNone && o.Affinity != domain.AffinityAny && !domain.Track(o.Affinity).Valid() {
				fail("question %d option %q: unknown affinity %q", q.ID, o.ID, o.Affinity)
			}
		}

		if cond := q.Visibility; cond != nil {
			// Only questions already seen are earlier in catalog order.
			dep, ok := seen[cond.DependsOn]
			switch {
			case !ok:
				fail("question %d: visibility depends on %d which is not an earlier question", q.ID, cond.DependsOn)
			case !dep.Kind.IsChoice():
				fail("question %d: visibility depends on non-choice question %d", q.ID, cond.DependsOn)
			case len(cond.MatchesAnyOf) == 0:
				fail("question %d: visibility condition matches nothing", q.ID)
			default:
				for _, id := range cond.MatchesAnyOf {
					if _, ok := dep.Option(id); !ok {
						fail("question %d: visibility references unknown option %q of question %d", q.ID, id, dep.ID)
					}
				}
			}
		}
		seen[q.ID] = q
	}
	if contactForms != 1 {
		fail("catalog must contain exactly one contact form, found %d", contactForms)
	}

	if dq, ok := seen[c.DeliveryQuestionID]; !ok {
		fail("delivery question %d not found", c.DeliveryQuestionID)
	} else {
		if dq.Kind != domain.KindSingleChoice {
			fail("delivery question %d must be single choice", dq.ID)
		}
		if dq.Visibility != nil {
			fail("delivery question %d must always be visible", dq.ID)
		}
		for _, o := range dq.Options {
			if !domain.DeliveryMode(o.ID).Valid() {
				fail("delivery question %d: option %q is not a delivery mode", dq.ID, o.ID)
			}
		}
	}
	if !c.DefaultDelivery.Valid() {
		fail("default delivery %q is not a delivery mode", c.DefaultDelivery)
	}
	if c.MinTeamSize < 1 {
		fail("min team size must be positive, got %d", c.MinTeamSize)
	}
	if c.MaxTeamSize < c.MinTeamSize {
		fail("max team size %d is below min team size %d", c.MaxTeamSize, c.MinTeamSize)
	}

	for _, t := range domain.TrackPriority {
		info, ok := c.Tracks[t]
		if !ok {
			fail("track %q: missing", t)
			continue
		}
		errs = append(errs, validateTrack(t, info)...)
	}
	for t := range c.Tracks {
		if !slices.Contains(domain.TrackPriority, t) {
			fail("track %q: not a declared track", t)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidCatalog, errors.Join(errs...))
	}
	return nil
}

func validateTrack(t domain.Track, info domain.TrackInfo) []error {
	var errs []error
	if info.WorkshopCount() == 0 {
		errs = append(errs, fmt.Errorf("track %q: no workshops", t))
	}
	for _, mode := range domain.DeliveryModes {
		row, ok := info.Pricing[mode]
		if !ok {
			errs = append(errs, fmt.Errorf("track %q: no pricing for %q", t, mode))
			continue
		}
		if row.BasePriceFor8 < 0 || row.PerAdditionalHead < 0 || row.TravelSurcharge < 0 {
			errs = append(errs, fmt.Errorf("track %q %q: negative price", t, mode))
		}
		if mode != domain.DeliveryTheirOffice && row.TravelSurcharge != 0 {
			errs = append(errs, fmt.Errorf("track %q %q: travel surcharge only applies to %q", t, mode, domain.DeliveryTheirOffice))
		}
	}
	// Travel is priced as a separate surcharge, never baked into the base.
	if info.Pricing[domain.DeliveryTheirOffice].BasePriceFor8 != info.Pricing[domain.DeliveryOurLocation].BasePriceFor8 {
		errs = append(errs, fmt.Errorf("track %q: %q base price must equal %q base price", t, domain.DeliveryTheirOffice, domain.DeliveryOurLocation))
	}
	return errs
}
