package discover

import (
	"reflect"
	"testing"
	"time"
)

func dealIDs(ds []Deal) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.ID
	}
	return out
}

func TestFilterDeals_RealDealGate(t *testing.T) {
	pool := []Deal{
		{ID: "real", Title: "40% off entrees", DiscountType: DiscountPercent, DiscountValue: 40},
		{ID: "vague", Title: "Daily special", DiscountType: DiscountSpecial},
	}

	got := FilterDeals(pool, DealQuery{}, testNow)
	if !reflect.DeepEqual(dealIDs(got), []string{"real"}) {
		t.Errorf("expected the vague special filtered out, got %v", dealIDs(got))
	}
}

func TestFilterDeals_ExpiryLocalCalendar(t *testing.T) {
	// Half past midnight local on Feb 17: a deal valid until the 16th
	// is gone. A UTC-anchored parse would be off by a day here.
	now := date(2026, time.February, 17, 0, 30)
	pool := []Deal{
		{ID: "expired", Title: "30% off skates", DiscountType: DiscountPercent, DiscountValue: 30, ValidUntil: "2026-02-16"},
		{ID: "current", Title: "30% off skis", DiscountType: DiscountPercent, DiscountValue: 30, ValidUntil: "2026-02-17"},
		{ID: "open-ended", Title: "30% off boards", DiscountType: DiscountPercent, DiscountValue: 30},
		{ID: "garbled", Title: "30% off poles", DiscountType: DiscountPercent, DiscountValue: 30, ValidUntil: "soon"},
	}

	got := FilterDeals(pool, DealQuery{}, now)
	if !reflect.DeepEqual(dealIDs(got), []string{"current", "open-ended", "garbled"}) {
		t.Errorf("expected only the truly expired deal dropped, got %v", dealIDs(got))
	}
}

func TestFilterDeals_ValidThroughEndOfExpiryDay(t *testing.T) {
	// Still the 16th locally at 18:00: the deal holds all day.
	now := date(2026, time.February, 16, 18, 0)
	pool := []Deal{
		{ID: "last-day", Title: "30% off skates", DiscountType: DiscountPercent, DiscountValue: 30, ValidUntil: "2026-02-16"},
	}

	got := FilterDeals(pool, DealQuery{}, now)
	if len(got) != 1 {
		t.Error("deal must stay visible through its expiry date's end of day")
	}
}

func TestFilterDeals_Search(t *testing.T) {
	pool := []Deal{
		{ID: "title", Title: "Half price pizza"},
		{ID: "desc", Title: "Tuesday deal", Description: "all pizza half price", DiscountType: DiscountPercent, DiscountValue: 50},
		{ID: "venue", Title: "Half price apps", VenueName: "Pizza Palace"},
		{ID: "miss", Title: "Half price wings"},
	}

	got := FilterDeals(pool, DealQuery{Search: "pizza"}, testNow)
	if !reflect.DeepEqual(dealIDs(got), []string{"desc", "title", "venue"}) {
		t.Errorf("expected matches across title/description/venue by score, got %v", dealIDs(got))
	}
}

func TestFilterDeals_CategorySetUnion(t *testing.T) {
	pool := []Deal{
		{ID: "d1", Title: "50% off pasta", DiscountType: DiscountPercent, DiscountValue: 50, Category: "Food & Drink"},
		{ID: "d2", Title: "20% off shoes", DiscountType: DiscountPercent, DiscountValue: 20, Category: "Retail"},
		{ID: "d3", Title: "30% off massage", DiscountType: DiscountPercent, DiscountValue: 30, Category: "Wellness"},
		{ID: "d4", Title: "40% off books", DiscountType: DiscountPercent, DiscountValue: 40, Category: "Retail"},
		{ID: "d5", Title: "25% off tacos", DiscountType: DiscountPercent, DiscountValue: 25, Category: "Food & Drink"},
	}

	got := FilterDeals(pool, DealQuery{Categories: []string{"Food & Drink", "Retail"}}, testNow)
	// The union of both categories, descending by score.
	if !reflect.DeepEqual(dealIDs(got), []string{"d1", "d4", "d2", "d5"}) {
		t.Errorf("expected union sorted by score, got %v", dealIDs(got))
	}
}

func TestFilterDeals_SortStableOnEqualScores(t *testing.T) {
	pool := []Deal{
		{ID: "first", Title: "20% off lunch", DiscountType: DiscountPercent, DiscountValue: 20},
		{ID: "second", Title: "20% off dinner", DiscountType: DiscountPercent, DiscountValue: 20},
		{ID: "third", Title: "20% off brunch", DiscountType: DiscountPercent, DiscountValue: 20},
	}

	got := FilterDeals(pool, DealQuery{}, testNow)
	if !reflect.DeepEqual(dealIDs(got), []string{"first", "second", "third"}) {
		t.Errorf("equal scores keep input order, got %v", dealIDs(got))
	}
}

func TestFilterDeals_Idempotent(t *testing.T) {
	pool := []Deal{
		{ID: "a", Title: "BOGO coffee"},
		{ID: "b", Title: "50% off mugs", DiscountType: DiscountPercent, DiscountValue: 50},
	}
	q := DealQuery{}

	first := FilterDeals(pool, q, testNow)
	second := FilterDeals(pool, q, testNow)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical arguments must produce identical output")
	}
}

func TestRelatedDeals_ByVenueID(t *testing.T) {
	target := Deal{ID: "d1", VenueID: "v9"}
	pool := []Deal{
		target,
		{ID: "d2", VenueID: "v9"},
		{ID: "d3", VenueID: "v2"},
		{ID: "d4", VenueID: "v9"},
	}

	got := RelatedDeals(target, pool)
	if !reflect.DeepEqual(dealIDs(got), []string{"d2", "d4"}) {
		t.Errorf("expected same-venue deals excluding the input, got %v", dealIDs(got))
	}
}

func TestRelatedDeals_ByVenueNameCaseInsensitive(t *testing.T) {
	target := Deal{ID: "d1", VenueName: "The Copper Kettle"}
	pool := []Deal{
		target,
		{ID: "d2", VenueName: "the copper kettle"},
		{ID: "d3", VenueName: "Kettle Corner"},
	}

	got := RelatedDeals(target, pool)
	if !reflect.DeepEqual(dealIDs(got), []string{"d2"}) {
		t.Errorf("expected case-insensitive name match, got %v", dealIDs(got))
	}
}

func TestRelatedDeals_NoVenueIdentity(t *testing.T) {
	got := RelatedDeals(Deal{ID: "d1"}, []Deal{{ID: "d2"}, {ID: "d3"}})
	if len(got) != 0 {
		t.Errorf("no venue identity means no related deals, got %v", dealIDs(got))
	}
}
