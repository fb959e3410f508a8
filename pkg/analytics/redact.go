package analytics

import (
	"context"
	"fmt"
	"maps"
	"regexp"

	"github.com/aretw0/upskill/pkg/domain"
	"github.com/aretw0/upskill/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

// DefaultPIIPatterns match the contact fields of the assessment.
var DefaultPIIPatterns = []string{`(?i)email`, `(?i)phone`, `(?i)contact_name`, `(?i)company`}

type redactor struct {
	next     ports.AnalyticsSink
	patterns []*regexp.Regexp
}

// Redact wraps a sink so that property values whose key matches any pattern are masked.
// Nested maps are masked too. The caller's event is never modified.
// It panics if a pattern does not compile; use NewRedact for configured patterns.
func Redact(next ports.AnalyticsSink, patterns ...string) ports.AnalyticsSink {
	sink, err := NewRedact(next, patterns...)
	if err != nil {
		panic(err)
	}
	return sink
}

// NewRedact is like Redact but reports invalid patterns as an error.
func NewRedact(next ports.AnalyticsSink, patterns ...string) (ports.AnalyticsSink, error) {
	if len(patterns) == 0 {
		patterns = DefaultPIIPatterns
	}
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
		compiled[i] = re
	}
	return &redactor{next: next, patterns: compiled}, nil
}

func (r *redactor) Emit(ctx context.Context, event domain.Event) error {
	event.Properties = deepCopyMap(event.Properties)
	maskMap(event.Properties, r.patterns)
	return r.next.Emit(ctx, event)
}

func deepCopyMap(m map[string]any) map[string]any {
	out := maps.Clone(m)
	for k, v := range out {
		if sub, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(sub)
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		masked := false
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				masked = true
				break
			}
		}
		if sub, ok := v.(map[string]any); ok && !masked {
			maskMap(sub, patterns)
		}
	}
}
