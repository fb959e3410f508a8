package quote_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/upskill/internal/presentation/quote"
	"github.com/aretw0/upskill/internal/runtime"
	"github.com/aretw0/upskill/pkg/catalog"
	"github.com/aretw0/upskill/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engineerQuote(t *testing.T, cat *catalog.Catalog, mode domain.DeliveryMode, size int) domain.QuoteBreakdown {
	t.Helper()
	info, err := cat.Track(domain.TrackEngineer)
	require.NoError(t, err)
	q, err := runtime.ComputeQuote(info, mode, size)
	require.NoError(t, err)
	return q
}

func TestBrochure(t *testing.T) {
	cat := catalog.Default()
	q := engineerQuote(t, cat, domain.DeliveryOurLocation, 12)
	info, _ := cat.Track(domain.TrackEngineer)

	md := quote.Brochure(cat, domain.Result{Track: domain.TrackEngineer, Delivery: domain.DeliveryOurLocation, Quote: q})

	assert.Contains(t, md, "# Recommended track: "+info.Title)
	for _, w := range info.Workshops {
		assert.Contains(t, md, "- "+w)
	}
	assert.Contains(t, md, domain.DeliveryOurLocation.Label())
	assert.Contains(t, md, "**Team size:** 12 people")
	assert.Contains(t, md, "| **Total** | **$153,000.00** |")
	assert.Contains(t, md, "Volume discount (15%)")
	assert.NotContains(t, md, "Travel surcharge", "zero rows are omitted")
}

func TestTable_KeepsSubtotalAndOrder(t *testing.T) {
	cat := catalog.Default()
	q := engineerQuote(t, cat, domain.DeliveryRemote, 8)

	table := quote.Table(cat.Currency, q)
	assert.Contains(t, table, "| Subtotal |")
	assert.NotContains(t, table, "Volume discount")

	base := strings.Index(table, "Base price")
	sub := strings.Index(table, "Subtotal")
	total := strings.Index(table, "**Total**")
	assert.True(t, base < sub && sub < total)
}

func TestPlain_ListsEveryLine(t *testing.T) {
	cat := catalog.Default()
	q := engineerQuote(t, cat, domain.DeliveryRemote, 8)

	lines := strings.Split(strings.TrimRight(quote.Plain(cat.Currency, q), "\n"), "\n")
	require.Len(t, lines, len(q.LineItems()))
	assert.True(t, strings.HasPrefix(lines[2], "Travel surcharge"))
	assert.True(t, strings.HasSuffix(lines[2], "$0.00"))
}

func TestAmount_Negative(t *testing.T) {
	assert.Equal(t, "-$1,234.50", quote.Amount("$", -domain.Money(123450)))
}

func TestPlainRenderer(t *testing.T) {
	out, err := quote.PlainRenderer()("# hi")
	require.NoError(t, err)
	assert.Equal(t, "# hi", out)
}

func TestNewRenderer_Notty(t *testing.T) {
	r, err := quote.NewRenderer("notty", 80)
	require.NoError(t, err)
	out, err := r("**Total**")
	require.NoError(t, err)
	assert.Contains(t, out, "Total")
}

func TestPrintBanner_NotATerminal(t *testing.T) {
	var buf bytes.Buffer
	quote.PrintBanner(&buf, "v0.1.0")
	assert.Contains(t, buf.String(), "|_|")
	assert.Contains(t, buf.String(), "v0.1.0")
	assert.NotContains(t, buf.String(), "\x1b[", "no escape codes off a terminal")
}
