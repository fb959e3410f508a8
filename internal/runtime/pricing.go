package runtime

import (
	"fmt"

	"github.com/aretw0/upskill/pkg/domain"
)

// ComputeQuote prices a track for a delivery mode and team size.
//
// Base and per-head prices are scaled by workshopCount/2 and rounded half up to
// whole currency units. That is the only rounding step: the overage, travel
// surcharge and subtotal are exact, and the discount is taken from the exact subtotal.
// Team sizes below domain.BaseTeamSize have no overage. A team size whose
// total does not fit in Money is rejected with domain.ErrInvalidTeamSize.
func ComputeQuote(info domain.TrackInfo, mode domain.DeliveryMode, teamSize int) (domain.QuoteBreakdown, error) {
	if !mode.Valid() {
		return domain.QuoteBreakdown{}, fmt.Errorf("%w: %q", domain.ErrUnknownDeliveryMode, mode)
	}
	row, ok := info.Pricing[mode]
	if !ok {
		return domain.QuoteBreakdown{}, fmt.Errorf("%w: %q not priced for track %q", domain.ErrUnknownDeliveryMode, mode, info.Track)
	}
	if teamSize <= 0 {
		return domain.QuoteBreakdown{}, fmt.Errorf("%w: %d", domain.ErrInvalidTeamSize, teamSize)
	}

	workshops := info.WorkshopCount()
	base := scale(row.BasePriceFor8, workshops)
	perHead := scale(row.PerAdditionalHead, workshops)

	additional := max(0, teamSize-domain.BaseTeamSize)
	additionalCost, ok := mulMoney(perHead, int64(additional))
	if !ok {
		return domain.QuoteBreakdown{}, fmt.Errorf("%w: %d overflows the overage", domain.ErrInvalidTeamSize, teamSize)
	}
	subtotal, ok := addMoney(base, additionalCost)
	if ok {
		subtotal, ok = addMoney(subtotal, row.TravelSurcharge)
	}
	if !ok {
		return domain.QuoteBreakdown{}, fmt.Errorf("%w: %d overflows the subtotal", domain.ErrInvalidTeamSize, teamSize)
	}

	percent := domain.DiscountPercentFor(teamSize)
	scaled, ok := mulMoney(subtotal, int64(percent))
	if !ok {
		return domain.QuoteBreakdown{}, fmt.Errorf("%w: %d overflows the discount", domain.ErrInvalidTeamSize, teamSize)
	}
	discount := scaled / 100

	return domain.QuoteBreakdown{
		Track:              info.Track,
		Delivery:           mode,
		TeamSize:           teamSize,
		WorkshopCount:      workshops,
		BasePrice:          base,
		PerHeadPrice:       perHead,
		AdditionalHeads:    additional,
		AdditionalHeadCost: additionalCost,
		TravelSurcharge:    row.TravelSurcharge,
		Subtotal:           subtotal,
		DiscountPercent:    percent,
		DiscountAmount:     discount,
		FinalTotal:         subtotal - discount,
	}, nil
}

// scale multiplies by workshops/2 and rounds half up to whole units.
func scale(m domain.Money, workshops int) domain.Money {
	return domain.Units((int64(m)*int64(workshops) + 100) / 200)
}

// mulMoney returns m*n for n >= 0, and false when the product overflows.
func mulMoney(m domain.Money, n int64) (domain.Money, bool) {
	if n == 0 {
		return 0, true
	}
	p := m * domain.Money(n)
	return p, p/domain.Money(n) == m
}

func addMoney(a, b domain.Money) (domain.Money, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, false
	}
	return s, true
}
