package pricing

import "testing"

func TestDecodeTiersMalformedEntries(t *testing.T) {
	raw := []byte(`[
		{"minQuantity": 5, "discountType": "percentage", "discountValue": 10},
		{"discountType": "percentage", "discountValue": 15},
		{"minQuantity": 10, "discountType": "percentage"},
		{"minQuantity": "ten", "discountType": "fixed", "discountValue": 500},
		{"minQuantity": 20, "discountType": "fixed", "discountValue": 500}
	]`)
	tiers := DecodeTiers(raw)
	if len(tiers) != 2 {
		t.Fatalf("expected 2 usable tiers, got %d: %+v", len(tiers), tiers)
	}
	if tiers[0].MinQty != 5 || tiers[0].Kind != TierPercent || tiers[0].Value != 1000 {
		t.Fatalf("unexpected first tier: %+v", tiers[0])
	}
	if tiers[1].MinQty != 20 || tiers[1].Kind != TierFixed || tiers[1].Value != 500 {
		t.Fatalf("unexpected second tier: %+v", tiers[1])
	}
}

func TestDecodeTiersGarbage(t *testing.T) {
	if tiers := DecodeTiers([]byte(`not json`)); tiers != nil {
		t.Fatalf("garbage payload must yield no tiers, got %+v", tiers)
	}
	if tiers := DecodeTiers(nil); tiers != nil {
		t.Fatalf("empty payload must yield no tiers, got %+v", tiers)
	}
	if tiers := DecodeTiers([]byte(`{"minQuantity":5}`)); tiers != nil {
		t.Fatalf("non-array payload must yield no tiers, got %+v", tiers)
	}
}

func TestDecodeTiersFractionalPercent(t *testing.T) {
	raw := []byte(`[{"minQuantity": 3, "discountType": "percentage", "discountValue": 12.5}]`)
	tiers := DecodeTiers(raw)
	if len(tiers) != 1 || tiers[0].Value != 1250 {
		t.Fatalf("expected 12.5%% as 1250 bps, got %+v", tiers)
	}
}

func TestDecodeTiersPositionalIDs(t *testing.T) {
	raw := []byte(`[
		{"minQuantity": 10, "discountType": "percentage", "discountValue": 20},
		{"minQuantity": 5, "discountType": "percentage", "discountValue": 10}
	]`)
	tiers := DecodeTiers(raw)
	if len(tiers) != 2 {
		t.Fatalf("expected 2 tiers, got %d", len(tiers))
	}
	// Identifiers follow record positions so every call site reports the
	// same applied tier, regardless of sort order.
	if tiers[0].ID != "tier-2" || tiers[1].ID != "tier-1" {
		t.Fatalf("unexpected positional ids: %q, %q", tiers[0].ID, tiers[1].ID)
	}
}

func TestRecordsFromTiersRoundTrip(t *testing.T) {
	tiers := []Tier{
		{ID: "a", MinQty: 5, Kind: TierPercent, Value: 1250},
		{ID: "b", MinQty: 10, Kind: TierFixed, Value: 700},
	}
	records := RecordsFromTiers(tiers)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].DiscountType != "percentage" || *records[0].DiscountValue != 12.5 {
		t.Fatalf("unexpected percent record: %+v", records[0])
	}
	if records[1].DiscountType != "fixed" || *records[1].DiscountValue != 700 {
		t.Fatalf("unexpected fixed record: %+v", records[1])
	}
	back := TiersFromRecords(records)
	if len(back) != 2 || back[0] != tiers[0] || back[1] != tiers[1] {
		t.Fatalf("round trip diverged: %+v", back)
	}
}
