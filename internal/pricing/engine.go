package pricing

import "sort"

// Money represents a monetary value stored in minor units.
type Money = int64

// TierKind enumerates the discount mechanisms a bulk tier can carry.
type TierKind string

const (
	// TierPercent discounts a percentage of the base price per unit.
	TierPercent TierKind = "percent"
	// TierFixed discounts a fixed amount of the base price per unit.
	TierFixed TierKind = "fixed"
)

// Tier is one quantity-discount threshold attached to a product.
// Value carries basis points for percent tiers and minor units for
// fixed tiers.
type Tier struct {
	ID     string
	MinQty int32
	Kind   TierKind
	Value  int64
}

// Facts are the read-only pricing inputs for a product. Tiers may
// arrive unordered and partially malformed; they are normalized before
// selection.
type Facts struct {
	RegularPrice Money
	SalePrice    *Money
	BulkEnabled  bool
	Tiers        []Tier
}

// Quote is the derived pricing result for one line. It is recomputed
// whenever quantity or facts change and is never persisted for carts;
// only order items snapshot it.
type Quote struct {
	BasePrice     Money
	UnitPrice     Money
	LineTotal     Money
	Discount      Money
	AppliedTierID string
	NextTier      *Tier
}

// Line pairs product pricing facts with a requested quantity.
type Line struct {
	Facts Facts
	Qty   int
}

// Summary folds quoted lines into cart or checkout level totals.
// OriginalSubtotal is the undiscounted base-price subtotal used only
// for displaying the savings percentage.
type Summary struct {
	Subtotal         Money
	Savings          Money
	OriginalSubtotal Money
}

// Totals layers the caller's flat tax and shipping policy on top of a
// bulk-priced summary.
type Totals struct {
	Subtotal Money
	Savings  Money
	Tax      Money
	Shipping Money
	Total    Money
}

// BasePrice resolves the discount base for a product: the sale price
// when it strictly undercuts the regular price, otherwise the regular
// price. Non-positive inputs degrade to zero so no discount math runs
// on an invalid price.
func BasePrice(f Facts) Money {
	base := f.RegularPrice
	if f.SalePrice != nil && *f.SalePrice > 0 && *f.SalePrice < f.RegularPrice {
		base = *f.SalePrice
	}
	if base <= 0 {
		return 0
	}
	return base
}

// NormalizeTiers drops unusable tier records and returns the remainder
// sorted ascending by threshold. Malformed entries are excluded, never
// an error; an empty result means no bulk pricing is available.
func NormalizeTiers(tiers []Tier) []Tier {
	out := make([]Tier, 0, len(tiers))
	for _, t := range tiers {
		if t.MinQty <= 0 || t.Value < 0 {
			continue
		}
		if t.Kind != TierPercent && t.Kind != TierFixed {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MinQty < out[j].MinQty })
	return out
}

// QuoteLine computes the pricing result for qty units of a product.
// Tiers are not cumulative: only the highest threshold the quantity
// reaches applies. The function never panics; invalid inputs degrade to
// a zero-priced line.
func QuoteLine(f Facts, qty int) Quote {
	base := BasePrice(f)
	q := Quote{BasePrice: base}
	if qty < 1 || base == 0 {
		return q
	}

	q.UnitPrice = base
	q.LineTotal = base * Money(qty)

	if !f.BulkEnabled {
		return q
	}
	tiers := NormalizeTiers(f.Tiers)
	if len(tiers) == 0 {
		return q
	}

	var applied *Tier
	for i := len(tiers) - 1; i >= 0; i-- {
		if int(tiers[i].MinQty) <= qty {
			applied = &tiers[i]
			break
		}
	}
	for i := range tiers {
		if int(tiers[i].MinQty) > qty {
			next := tiers[i]
			q.NextTier = &next
			break
		}
	}
	if applied == nil {
		return q
	}

	perUnit := perUnitDiscount(base, *applied)
	q.UnitPrice = base - perUnit
	q.LineTotal = q.UnitPrice * Money(qty)
	q.Discount = perUnit * Money(qty)
	q.AppliedTierID = applied.ID
	return q
}

// perUnitDiscount is clamped to [0, base] so a discount can neither go
// negative nor exceed what the customer would otherwise pay.
func perUnitDiscount(base Money, t Tier) Money {
	var d Money
	switch t.Kind {
	case TierPercent:
		d = (base * t.Value) / 10000
	case TierFixed:
		d = t.Value
	}
	if d < 0 {
		d = 0
	}
	if d > base {
		d = base
	}
	return d
}

// Summarize quotes every line and accumulates the totals shown in cart
// and checkout summaries. Lines with a quantity below one are skipped;
// callers reject those edits before they reach the engine.
func Summarize(lines []Line) Summary {
	var s Summary
	for _, ln := range lines {
		if ln.Qty < 1 {
			continue
		}
		q := QuoteLine(ln.Facts, ln.Qty)
		s.Subtotal += q.LineTotal
		s.Savings += q.Discount
		s.OriginalSubtotal += q.BasePrice * Money(ln.Qty)
	}
	return s
}

// SavingsPercent reports total savings relative to the undiscounted
// subtotal, guarded against division by zero.
func (s Summary) SavingsPercent() float64 {
	if s.OriginalSubtotal <= 0 {
		return 0
	}
	return float64(s.Savings) / float64(s.OriginalSubtotal) * 100
}

// ComputeTotals applies a flat tax rate in basis points and a shipping
// fee on top of the subtotal. Shipping thresholds and tax policy belong
// to the caller; the engine only folds the amounts in.
func ComputeTotals(s Summary, taxBps int, shipping Money) Totals {
	if taxBps < 0 {
		taxBps = 0
	}
	if shipping < 0 {
		shipping = 0
	}
	tax := (s.Subtotal * Money(taxBps)) / 10000
	return Totals{
		Subtotal: s.Subtotal,
		Savings:  s.Savings,
		Tax:      tax,
		Shipping: shipping,
		Total:    s.Subtotal + tax + shipping,
	}
}
