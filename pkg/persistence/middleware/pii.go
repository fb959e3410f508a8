package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/upskill/pkg/domain"
	"github.com/aretw0/upskill/pkg/ports"
)

// Mask replaces scrubbed contact values.
const Mask = "***"

// DefaultContactPatterns match every personal contact field.
var DefaultContactPatterns = []string{`(?i)email`, `(?i)phone`, `(?i)contact_name`}

type piiMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware scrubs contact fields whose JSON name matches a pattern
// once a session shows its result. Sessions still answering are stored as is
// because the lead is built from the stored contact on submission.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		patterns[i] = re
	}
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, state *domain.WizardState) error {
	if !state.Terminal() {
		return m.next.Save(ctx, sessionID, state)
	}

	cloned := state.Clone()
	c := &cloned.Answers.Contact
	m.mask("company_name", &c.CompanyName)
	m.mask("contact_name", &c.ContactName)
	m.mask("email", &c.Email)
	m.mask("phone", &c.Phone)
	return m.next.Save(ctx, sessionID, &cloned)
}

func (m *piiMiddleware) mask(field string, value *string) {
	if *value == "" {
		return
	}
	for _, p := range m.patterns {
		if p.MatchString(field) {
			*value = Mask
			return
		}
	}
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.WizardState, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
