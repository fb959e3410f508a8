// Package quote renders assessment results for people: a Markdown brochure
// of the recommended track and its itemized price.
package quote

import (
	"fmt"
	"strings"

	"github.com/aretw0/upskill/pkg/catalog"
	"github.com/aretw0/upskill/pkg/domain"
)

// Amount formats m with the catalog currency symbol.
func Amount(currency string, m domain.Money) string {
	if m < 0 {
		return "-" + currency + (-m).String()
	}
	return currency + m.String()
}

// Brochure renders the result as Markdown: title, description, workshops,
// delivery and every line item of the quote in pricing order.
func Brochure(cat *catalog.Catalog, result domain.Result) string {
	var sb strings.Builder

	info, err := cat.Track(result.Track)
	if err != nil {
		info = domain.TrackInfo{Track: result.Track, Title: string(result.Track)}
	}

	fmt.Fprintf(&sb, "# Recommended track: %s\n\n", info.Title)
	if info.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", info.Description)
	}

	if len(info.Workshops) > 0 {
		fmt.Fprintf(&sb, "## Workshops (%d)\n\n", len(info.Workshops))
		for _, w := range info.Workshops {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
		sb.WriteString("\n")
	}

	q := result.Quote
	sb.WriteString("## Your quote\n\n")
	fmt.Fprintf(&sb, "**Delivery:** %s  \n", result.Delivery.Label())
	fmt.Fprintf(&sb, "**Team size:** %d people\n\n", q.TeamSize)
	sb.WriteString(Table(cat.Currency, q))
	return sb.String()
}

// Table renders the line items as a Markdown table. Zero-value rows other
// than the subtotal and total are omitted.
func Table(currency string, q domain.QuoteBreakdown) string {
	var sb strings.Builder
	sb.WriteString("| Item | Amount |\n")
	sb.WriteString("|:-----|-------:|\n")
	items := q.LineItems()
	for i, item := range items {
		last := i == len(items)-1
		if item.Amount == 0 && item.Label != "Subtotal" && !last {
			continue
		}
		label, amount := item.Label, Amount(currency, item.Amount)
		if last {
			label, amount = "**"+label+"**", "**"+amount+"**"
		}
		fmt.Fprintf(&sb, "| %s | %s |\n", label, amount)
	}
	return sb.String()
}

// Plain renders every line item as aligned text, for logs and non-terminal output.
func Plain(currency string, q domain.QuoteBreakdown) string {
	var sb strings.Builder
	for _, item := range q.LineItems() {
		fmt.Fprintf(&sb, "%-50s %12s\n", item.Label, Amount(currency, item.Amount))
	}
	return sb.String()
}
