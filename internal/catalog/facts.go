package catalog

import (
	dbgen "github.com/sarmad153/nextrade-api/internal/db/gen"
	"github.com/sarmad153/nextrade-api/internal/pricing"
)

// PricingFacts extracts the pricing inputs from a product row. Every
// call site that prices a product goes through this single bridge so
// cart, checkout, and catalog all quote from the same facts.
func PricingFacts(p dbgen.Product) pricing.Facts {
	f := pricing.Facts{
		RegularPrice: p.RegularPrice,
		BulkEnabled:  p.BulkPricingEnabled,
		Tiers:        pricing.DecodeTiers(p.BulkTiers),
	}
	if p.SalePrice.Valid {
		sale := p.SalePrice.Int64
		f.SalePrice = &sale
	}
	return f
}
