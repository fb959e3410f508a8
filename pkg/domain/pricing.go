package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Money is an amount in minor currency units (cents).
type Money int64

// Units converts whole currency units to Money.
func Units(n int64) Money {
	return Money(n * 100)
}

// Whole returns the amount in whole units, truncated toward zero.
func (m Money) Whole() int64 {
	return int64(m) / 100
}

// String formats the amount with thousands separators, e.g. "153,000.00".
func (m Money) String() string {
	neg := m < 0
	if neg {
		m = -m
	}
	whole := strconv.FormatInt(int64(m)/100, 10)
	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	fmt.Fprintf(&sb, ".%02d", int64(m)%100)
	return sb.String()
}

// DeliveryMode is the format in which training is delivered.
type DeliveryMode string

const (
	DeliveryRemote      DeliveryMode = "remote"
	DeliveryOurLocation DeliveryMode = "our_location"
	DeliveryTheirOffice DeliveryMode = "their_office"
	DeliveryHybrid      DeliveryMode = "hybrid"
)

// DeliveryModes lists every delivery mode in presentation order.
var DeliveryModes = []DeliveryMode{DeliveryRemote, DeliveryOurLocation, DeliveryTheirOffice, DeliveryHybrid}

// Valid reports whether m is a declared delivery mode.
func (m DeliveryMode) Valid() bool {
	return slices.Contains(DeliveryModes, m)
}

// Label returns the human readable name of the mode.
func (m DeliveryMode) Label() string {
	switch m {
	case DeliveryRemote:
		return "Remote (live online)"
	case DeliveryOurLocation:
		return "In person at our training center"
	case DeliveryTheirOffice:
		return "In person at your office"
	case DeliveryHybrid:
		return "Hybrid (in person + online)"
	}
	return string(m)
}

// BaseTeamSize is the head count included in the base price.
const BaseTeamSize = 8

// PriceRow prices one delivery mode of a track, before workshop scaling.
type PriceRow struct {
	BasePriceFor8     Money `json:"base_price_for_8"`
	PerAdditionalHead Money `json:"per_additional_head"`
	TravelSurcharge   Money `json:"travel_surcharge"`
}

// PricingTable holds a PriceRow for every delivery mode.
type PricingTable map[DeliveryMode]PriceRow

// DiscountTier is a volume discount applied from MinTeamSize upwards.
type DiscountTier struct {
	MinTeamSize int
	Percent     int
}

// DiscountTiers are evaluated in order; the first matching tier wins.
var DiscountTiers = []DiscountTier{
	{MinTeamSize: 25, Percent: 25},
	{MinTeamSize: 11, Percent: 15},
}

// DiscountPercentFor returns the volume discount for a team size.
func DiscountPercentFor(teamSize int) int {
	for _, tier := range DiscountTiers {
		if teamSize >= tier.MinTeamSize {
			return tier.Percent
		}
	}
	return 0
}

// QuoteBreakdown is the itemized price of a track for a team.
// It is derived from pricing inputs and never mutated.
type QuoteBreakdown struct {
	Track              Track        `json:"track"`
	Delivery           DeliveryMode `json:"delivery"`
	TeamSize           int          `json:"team_size"`
	WorkshopCount      int          `json:"workshop_count"`
	BasePrice          Money        `json:"base_price"`
	PerHeadPrice       Money        `json:"per_head_price"`
	AdditionalHeads    int          `json:"additional_heads"`
	AdditionalHeadCost Money        `json:"additional_head_cost"`
	TravelSurcharge    Money        `json:"travel_surcharge"`
	Subtotal           Money        `json:"subtotal"`
	DiscountPercent    int          `json:"discount_percent"`
	DiscountAmount     Money        `json:"discount_amount"`
	FinalTotal         Money        `json:"final_total"`
}

// WorkshopScaling returns the multiplier applied to the base row (workshops / 2).
func (q QuoteBreakdown) WorkshopScaling() float64 {
	return float64(q.WorkshopCount) / 2
}

// LineItem is one auditable row of a rendered quote.
type LineItem struct {
	Label  string `json:"label"`
	Amount Money  `json:"amount"`
}

// LineItems enumerates the breakdown in pricing order.
// Discount is reported as a negative amount so the items sum to FinalTotal.
func (q QuoteBreakdown) LineItems() []LineItem {
	return []LineItem{
		{Label: fmt.Sprintf("Base price (up to %d people, %d workshops, x%.1f)", BaseTeamSize, q.WorkshopCount, q.WorkshopScaling()), Amount: q.BasePrice},
		{Label: fmt.Sprintf("Additional participants (%d x %s)", q.AdditionalHeads, q.PerHeadPrice), Amount: q.AdditionalHeadCost},
		{Label: "Travel surcharge", Amount: q.TravelSurcharge},
		{Label: "Subtotal", Amount: q.Subtotal},
		{Label: fmt.Sprintf("Volume discount (%d%%)", q.DiscountPercent), Amount: -q.DiscountAmount},
		{Label: "Total", Amount: q.FinalTotal},
	}
}
