package catalog

import (
	"fmt"
	"os"

	"github.com/aretw0/upskill/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// fileMetadata is the on-disk shape of a catalog document.
// It uses "mapstructure" tags so the same keys work for YAML and JSON sources.
type fileMetadata struct {
	Currency         string         `mapstructure:"currency"`
	MinTeamSize      int            `mapstructure:"min_team_size"`
	MaxTeamSize      int            `mapstructure:"max_team_size"`
	DeliveryQuestion int            `mapstructure:"delivery_question"`
	DefaultDelivery  string         `mapstructure:"default_delivery"`
	Questions        []fileQuestion `mapstructure:"questions"`
	Tracks           []fileTrack    `mapstructure:"tracks"`
}

type fileQuestion struct {
	ID         int            `mapstructure:"id"`
	Prompt     string         `mapstructure:"prompt"`
	Kind       string         `mapstructure:"kind"`
	Options    []fileOption   `mapstructure:"options"`
	Visibility *fileCondition `mapstructure:"visibility"`
}

type fileOption struct {
	ID       string `mapstructure:"id"`
	Label    string `mapstructure:"label"`
	Score    int    `mapstructure:"score"`
	Affinity string `mapstructure:"affinity"`
}

type fileCondition struct {
	DependsOn    int      `mapstructure:"depends_on"`
	MatchesAnyOf []string `mapstructure:"matches_any_of"`
}

type fileTrack struct {
	Track       string                  `mapstructure:"track"`
	Title       string                  `mapstructure:"title"`
	Description string                  `mapstructure:"description"`
	Workshops   []string                `mapstructure:"workshops"`
	Pricing     map[string]filePriceRow `mapstructure:"pricing"`
}

// filePriceRow holds prices in whole currency units.
type filePriceRow struct {
	BasePriceFor8     int64 `mapstructure:"base_price_for_8"`
	PerAdditionalHead int64 `mapstructure:"per_additional_head"`
	TravelSurcharge   int64 `mapstructure:"travel_surcharge"`
}

// Load reads a catalog document (YAML or JSON) and validates it.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog document and validates it.
// Missing top-level settings fall back to the defaults of the built-in catalog.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	var meta fileMetadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &meta,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	cat := meta.toCatalog()
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func (m fileMetadata) toCatalog() *Catalog {
	defaults := Default()
	cat := &Catalog{
		Currency:           m.Currency,
		MinTeamSize:        m.MinTeamSize,
		MaxTeamSize:        m.MaxTeamSize,
		DeliveryQuestionID: m.DeliveryQuestion,
		DefaultDelivery:    domain.DeliveryMode(m.DefaultDelivery),
		Tracks:             make(map[domain.Track]domain.TrackInfo, len(m.Tracks)),
	}
	if cat.Currency == "" {
		cat.Currency = defaults.Currency
	}
	if cat.MinTeamSize == 0 {
		cat.MinTeamSize = defaults.MinTeamSize
	}
	if cat.MaxTeamSize == 0 {
		cat.MaxTeamSize = defaults.MaxTeamSize
	}
	if cat.DefaultDelivery == "" {
		cat.DefaultDelivery = defaults.DefaultDelivery
	}

	for _, fq := range m.Questions {
		q := domain.Question{
			ID:     fq.ID,
			Prompt: fq.Prompt,
			Kind:   domain.QuestionKind(fq.Kind),
		}
		for _, fo := range fq.Options {
			q.Options = append(q.Options, domain.Option{
				ID:       fo.ID,
				Label:    fo.Label,
				Score:    fo.Score,
				Affinity: domain.Affinity(fo.Affinity),
			})
		}
		if fq.Visibility != nil {
			q.Visibility = &domain.Condition{
				DependsOn:    fq.Visibility.DependsOn,
				MatchesAnyOf: fq.Visibility.MatchesAnyOf,
			}
		}
		cat.Questions = append(cat.Questions, q)
	}

	for _, ft := range m.Tracks {
		info := domain.TrackInfo{
			Track:       domain.Track(ft.Track),
			Title:       ft.Title,
			Description: ft.Description,
			Workshops:   ft.Workshops,
			Pricing:     make(domain.PricingTable, len(ft.Pricing)),
		}
		for mode, row := range ft.Pricing {
			info.Pricing[domain.DeliveryMode(mode)] = domain.PriceRow{
				BasePriceFor8:     domain.Units(row.BasePriceFor8),
				PerAdditionalHead: domain.Units(row.PerAdditionalHead),
				TravelSurcharge:   domain.Units(row.TravelSurcharge),
			}
		}
		cat.Tracks[info.Track] = info
	}
	return cat
}
