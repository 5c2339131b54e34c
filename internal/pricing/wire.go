package pricing

import (
	"encoding/json"
	"fmt"
	"math"
)

// TierRecord mirrors the tier shape stored on products and exchanged
// with clients: percentage values as 0-100 decimals, fixed amounts in
// minor units.
type TierRecord struct {
	ID            string   `json:"id,omitempty"`
	MinQuantity   *int32   `json:"minQuantity"`
	DiscountType  string   `json:"discountType"`
	DiscountValue *float64 `json:"discountValue"`
}

// DecodeTiers parses a stored tier list. The payload is upstream data
// treated as opaque and possibly stale or malformed: entries that fail
// to decode or lack a threshold or value are dropped, never an error.
func DecodeTiers(raw []byte) []Tier {
	if len(raw) == 0 {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	records := make([]TierRecord, 0, len(entries))
	for _, entry := range entries {
		var rec TierRecord
		if err := json.Unmarshal(entry, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return TiersFromRecords(records)
}

// TiersFromRecords converts wire records into engine tiers, assigning
// positional identifiers to records without one so the applied tier can
// be reported identically at every call site.
func TiersFromRecords(records []TierRecord) []Tier {
	tiers := make([]Tier, 0, len(records))
	for i, rec := range records {
		if rec.MinQuantity == nil || rec.DiscountValue == nil {
			continue
		}
		t := Tier{ID: rec.ID, MinQty: *rec.MinQuantity}
		if t.ID == "" {
			t.ID = fmt.Sprintf("tier-%d", i+1)
		}
		switch rec.DiscountType {
		case "percentage", "percent":
			t.Kind = TierPercent
			t.Value = int64(math.Round(*rec.DiscountValue * 100))
		case "fixed":
			t.Kind = TierFixed
			t.Value = int64(math.Round(*rec.DiscountValue))
		default:
			continue
		}
		tiers = append(tiers, t)
	}
	return NormalizeTiers(tiers)
}

// RecordsFromTiers converts normalized tiers back into the wire shape
// for catalog responses.
func RecordsFromTiers(tiers []Tier) []TierRecord {
	records := make([]TierRecord, 0, len(tiers))
	for _, t := range tiers {
		minQty := t.MinQty
		var value float64
		var kind string
		switch t.Kind {
		case TierPercent:
			kind = "percentage"
			value = float64(t.Value) / 100
		case TierFixed:
			kind = "fixed"
			value = float64(t.Value)
		default:
			continue
		}
		records = append(records, TierRecord{
			ID:            t.ID,
			MinQuantity:   &minQty,
			DiscountType:  kind,
			DiscountValue: &value,
		})
	}
	return records
}
