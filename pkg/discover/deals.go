package discover

import (
	"sort"
	"strings"
	"time"
)

// FilterDeals runs the deal filter pipeline over a pool and returns a
// fresh slice sorted descending by score, stable on ties. The pool is
// never modified.
func FilterDeals(pool []Deal, q DealQuery, now time.Time) []Deal {
	query := strings.ToLower(strings.TrimSpace(q.Search))

	type scored struct {
		deal  Deal
		score float64
	}
	kept := make([]scored, 0, len(pool))

	for _, d := range pool {
		s := Score(d)
		if s < RealDealThreshold {
			continue
		}
		if dealExpired(d, now) {
			continue
		}
		if query != "" && !dealMatches(d, query) {
			continue
		}
		if !dealInCategories(d, q.Categories) {
			continue
		}
		kept = append(kept, scored{deal: d, score: s})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})

	out := make([]Deal, len(kept))
	for i, s := range kept {
		out[i] = s.deal
	}
	return out
}

// dealExpired parses ValidUntil as a local calendar date so a deal
// valid through the 16th is shown all of the 16th and drops at local
// midnight, not at UTC midnight. A deal counts as expired only once
// the expiry date's end of day (23:59:59 local) is behind now.
// Absent or unparseable dates never expire: bad data fails open.
func dealExpired(d Deal, now time.Time) bool {
	if d.ValidUntil == "" {
		return false
	}
	day, err := time.ParseInLocation("2006-01-02", d.ValidUntil, now.Location())
	if err != nil {
		return false
	}
	endOfDay := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, now.Location())
	return endOfDay.Before(now)
}

// dealMatches tests a lower-cased query against title, description and
// venue name.
func dealMatches(d Deal, query string) bool {
	return strings.Contains(strings.ToLower(d.Title), query) ||
		strings.Contains(strings.ToLower(d.Description), query) ||
		strings.Contains(strings.ToLower(d.VenueName), query)
}

// dealInCategories tests the deal's raw category against the selected
// set. Raw, not normalized: normalization is a display concern used
// for building the option list, not for matching.
func dealInCategories(d Deal, cats []string) bool {
	if len(cats) == 0 {
		return true
	}
	for _, c := range cats {
		if c == "" || strings.EqualFold(c, "all") {
			return true
		}
		if d.Category == c {
			return true
		}
	}
	return false
}

// RelatedDeals returns every other deal at the same venue, matched by
// venue ID or case-insensitive venue name. Empty when the input deal
// has no venue identity. No cap; callers slice.
func RelatedDeals(deal Deal, pool []Deal) []Deal {
	name := strings.TrimSpace(deal.VenueName)
	if deal.VenueID == "" && name == "" {
		return nil
	}

	var out []Deal
	for _, d := range pool {
		if d.ID == deal.ID {
			continue
		}
		if deal.VenueID != "" && d.VenueID == deal.VenueID {
			out = append(out, d)
			continue
		}
		if name != "" && strings.EqualFold(strings.TrimSpace(d.VenueName), name) {
			out = append(out, d)
		}
	}
	return out
}
