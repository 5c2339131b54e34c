package pricing

import (
	"reflect"
	"testing"
)

func money(v int64) *Money {
	m := Money(v)
	return &m
}

func bulkFacts(regular int64, sale *Money, tiers ...Tier) Facts {
	return Facts{RegularPrice: regular, SalePrice: sale, BulkEnabled: true, Tiers: tiers}
}

func TestBasePriceSalePrecedence(t *testing.T) {
	if got := BasePrice(Facts{RegularPrice: 10_000, SalePrice: money(8_000)}); got != 8_000 {
		t.Fatalf("expected sale price 8000 as base, got %d", got)
	}
	if got := BasePrice(Facts{RegularPrice: 10_000, SalePrice: money(12_000)}); got != 10_000 {
		t.Fatalf("sale above regular must be ignored, got %d", got)
	}
	if got := BasePrice(Facts{RegularPrice: 10_000, SalePrice: money(10_000)}); got != 10_000 {
		t.Fatalf("sale equal to regular must be ignored, got %d", got)
	}
	if got := BasePrice(Facts{RegularPrice: -5}); got != 0 {
		t.Fatalf("invalid price must degrade to 0, got %d", got)
	}
	if got := BasePrice(Facts{RegularPrice: 0, SalePrice: money(-3)}); got != 0 {
		t.Fatalf("negative sale on zero regular must degrade to 0, got %d", got)
	}
}

func TestNormalizeTiersSortsAndFilters(t *testing.T) {
	tiers := NormalizeTiers([]Tier{
		{ID: "c", MinQty: 10, Kind: TierPercent, Value: 2000},
		{ID: "bad-qty", MinQty: 0, Kind: TierPercent, Value: 1000},
		{ID: "bad-value", MinQty: 3, Kind: TierFixed, Value: -1},
		{ID: "bad-kind", MinQty: 4, Kind: "bogus", Value: 500},
		{ID: "a", MinQty: 5, Kind: TierPercent, Value: 1000},
	})
	ids := make([]string, 0, len(tiers))
	for _, tier := range tiers {
		ids = append(ids, tier.ID)
	}
	if !reflect.DeepEqual(ids, []string{"a", "c"}) {
		t.Fatalf("expected [a c] after normalization, got %v", ids)
	}
}

func TestQuoteLineNoTierIdentity(t *testing.T) {
	facts := Facts{RegularPrice: 8_000, BulkEnabled: false, Tiers: []Tier{{ID: "a", MinQty: 2, Kind: TierPercent, Value: 1000}}}
	q := QuoteLine(facts, 3)
	if q.LineTotal != 24_000 || q.UnitPrice != 8_000 {
		t.Fatalf("bulk disabled must price at base exactly, got unit=%d total=%d", q.UnitPrice, q.LineTotal)
	}
	if q.AppliedTierID != "" || q.Discount != 0 {
		t.Fatalf("no tier must apply when bulk pricing is disabled")
	}

	empty := QuoteLine(Facts{RegularPrice: 8_000, BulkEnabled: true}, 3)
	if empty.LineTotal != 24_000 || empty.Discount != 0 {
		t.Fatalf("empty tier list must price at base exactly, got total=%d", empty.LineTotal)
	}
}

func TestQuoteLineSalePrecedence(t *testing.T) {
	q := QuoteLine(Facts{RegularPrice: 10_000, SalePrice: money(8_000)}, 3)
	if q.UnitPrice != 8_000 {
		t.Fatalf("expected unit price 8000, got %d", q.UnitPrice)
	}
	if q.LineTotal != 24_000 {
		t.Fatalf("expected line total 24000, got %d", q.LineTotal)
	}
}

func TestQuoteLineBestTier(t *testing.T) {
	facts := bulkFacts(10_000, nil,
		Tier{ID: "ten", MinQty: 5, Kind: TierPercent, Value: 1000},
		Tier{ID: "twenty", MinQty: 10, Kind: TierPercent, Value: 2000},
	)
	q := QuoteLine(facts, 12)
	if q.AppliedTierID != "twenty" {
		t.Fatalf("quantity 12 must reach the 20%% tier, applied %q", q.AppliedTierID)
	}
	if q.UnitPrice != 8_000 {
		t.Fatalf("expected unit price 8000 after 20%% off, got %d", q.UnitPrice)
	}
	if q.Discount != 24_000 {
		t.Fatalf("expected total discount 24000, got %d", q.Discount)
	}
	if q.NextTier != nil {
		t.Fatalf("no tier above quantity 12, got next %+v", q.NextTier)
	}
}

func TestQuoteLineBelowEveryThreshold(t *testing.T) {
	facts := bulkFacts(10_000, nil, Tier{ID: "five", MinQty: 5, Kind: TierPercent, Value: 1000})
	q := QuoteLine(facts, 2)
	if q.AppliedTierID != "" || q.Discount != 0 {
		t.Fatalf("quantity below every threshold must not discount")
	}
	if q.LineTotal != 20_000 {
		t.Fatalf("expected undiscounted total 20000, got %d", q.LineTotal)
	}
	if q.NextTier == nil || q.NextTier.ID != "five" {
		t.Fatalf("expected next tier hint for threshold 5, got %+v", q.NextTier)
	}
}

func TestQuoteLineFixedDiscountClamp(t *testing.T) {
	facts := bulkFacts(3_000, nil, Tier{ID: "fixed", MinQty: 2, Kind: TierFixed, Value: 5_000})
	q := QuoteLine(facts, 2)
	if q.UnitPrice != 0 {
		t.Fatalf("fixed discount above base must clamp unit price to 0, got %d", q.UnitPrice)
	}
	if q.Discount != 6_000 {
		t.Fatalf("clamped discount must equal base per unit, got %d", q.Discount)
	}
	if q.LineTotal != 0 {
		t.Fatalf("expected zero line total, got %d", q.LineTotal)
	}
}

func TestQuoteLinePercentAgainstSaleBase(t *testing.T) {
	// Bulk percentages apply to whichever price the customer would
	// otherwise pay, so a sale and a tier never compound on two bases.
	facts := bulkFacts(10_000, money(8_000), Tier{ID: "ten", MinQty: 2, Kind: TierPercent, Value: 1000})
	q := QuoteLine(facts, 2)
	if q.UnitPrice != 7_200 {
		t.Fatalf("expected 10%% off the sale price (7200), got %d", q.UnitPrice)
	}
	if q.Discount != 1_600 {
		t.Fatalf("expected discount 1600 against sale base, got %d", q.Discount)
	}
}

func TestQuoteLineDeterminism(t *testing.T) {
	facts := bulkFacts(9_999, money(7_777),
		Tier{ID: "a", MinQty: 3, Kind: TierPercent, Value: 1250},
		Tier{ID: "b", MinQty: 7, Kind: TierFixed, Value: 900},
	)
	first := QuoteLine(facts, 7)
	for i := 0; i < 50; i++ {
		if got := QuoteLine(facts, 7); got.UnitPrice != first.UnitPrice || got.LineTotal != first.LineTotal || got.Discount != first.Discount || got.AppliedTierID != first.AppliedTierID {
			t.Fatalf("iteration %d diverged: %+v vs %+v", i, got, first)
		}
	}
}

func TestQuoteLineUnitPriceMonotonic(t *testing.T) {
	facts := bulkFacts(10_000, nil,
		Tier{ID: "a", MinQty: 5, Kind: TierPercent, Value: 500},
		Tier{ID: "b", MinQty: 10, Kind: TierPercent, Value: 1500},
		Tier{ID: "c", MinQty: 25, Kind: TierFixed, Value: 2_500},
	)
	prev := QuoteLine(facts, 1).UnitPrice
	for qty := 2; qty <= 60; qty++ {
		unit := QuoteLine(facts, qty).UnitPrice
		if unit > prev {
			t.Fatalf("unit price rose from %d to %d at quantity %d", prev, unit, qty)
		}
		prev = unit
	}
}

func TestQuoteLineNonNegative(t *testing.T) {
	adversarial := []Facts{
		bulkFacts(100, nil, Tier{ID: "x", MinQty: 1, Kind: TierFixed, Value: 1_000_000}),
		bulkFacts(100, nil, Tier{ID: "x", MinQty: 1, Kind: TierPercent, Value: 25_000}),
		bulkFacts(0, nil, Tier{ID: "x", MinQty: 1, Kind: TierPercent, Value: 5000}),
		bulkFacts(-50, money(-20), Tier{ID: "x", MinQty: 1, Kind: TierFixed, Value: 10}),
	}
	for i, facts := range adversarial {
		for qty := 1; qty <= 5; qty++ {
			q := QuoteLine(facts, qty)
			if q.UnitPrice < 0 || q.Discount < 0 || q.LineTotal < 0 {
				t.Fatalf("case %d qty %d produced negative result: %+v", i, qty, q)
			}
		}
	}
}

func TestSummarizeAggregateConsistency(t *testing.T) {
	lines := []Line{
		{Facts: bulkFacts(10_000, nil, Tier{ID: "a", MinQty: 5, Kind: TierPercent, Value: 1000}), Qty: 6},
		{Facts: Facts{RegularPrice: 5_000, SalePrice: money(4_000)}, Qty: 2},
		{Facts: bulkFacts(2_000, nil, Tier{ID: "b", MinQty: 3, Kind: TierFixed, Value: 500}), Qty: 2},
	}
	s := Summarize(lines)

	var subtotal, savings, original Money
	for _, ln := range lines {
		q := QuoteLine(ln.Facts, ln.Qty)
		subtotal += q.LineTotal
		savings += q.Discount
		original += q.BasePrice * Money(ln.Qty)
	}
	if s.Subtotal != subtotal || s.Savings != savings || s.OriginalSubtotal != original {
		t.Fatalf("summary %+v diverges from recomputed lines (%d, %d, %d)", s, subtotal, savings, original)
	}
	if s.OriginalSubtotal-s.Savings != s.Subtotal {
		t.Fatalf("original - savings must equal subtotal: %+v", s)
	}
}

func TestSavingsPercentGuarded(t *testing.T) {
	if pct := (Summary{}).SavingsPercent(); pct != 0 {
		t.Fatalf("empty summary must report 0%%, got %f", pct)
	}
	s := Summary{Subtotal: 9_000, Savings: 1_000, OriginalSubtotal: 10_000}
	if pct := s.SavingsPercent(); pct != 10 {
		t.Fatalf("expected 10%%, got %f", pct)
	}
}

func TestComputeTotals(t *testing.T) {
	s := Summary{Subtotal: 100_000, Savings: 5_000, OriginalSubtotal: 105_000}
	totals := ComputeTotals(s, 1100, 15_000)
	if totals.Tax != 11_000 {
		t.Fatalf("expected 11%% tax 11000, got %d", totals.Tax)
	}
	if totals.Total != 126_000 {
		t.Fatalf("expected total 126000, got %d", totals.Total)
	}
	clamped := ComputeTotals(s, -5, -100)
	if clamped.Tax != 0 || clamped.Shipping != 0 {
		t.Fatalf("negative tax/shipping must clamp to zero: %+v", clamped)
	}
}
