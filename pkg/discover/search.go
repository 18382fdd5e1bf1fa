package discover

import (
	"strings"
	"time"
)

// DefaultSearchLimit caps each search section when the caller passes
// no limit of its own.
const DefaultSearchLimit = 5

// SearchAll runs one query independently across events, classes, deals
// and services. Each section has its own cap and keeps the pool's
// original order; a match in one section never displaces another
// section's results. A blank query short-circuits to an empty result
// without scanning any pool.
func SearchAll(query string, pools Pools, now time.Time, limit int) SearchResults {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return SearchResults{}
	}

	var res SearchResults

	for _, l := range pools.Listings {
		if len(res.Events) == limit && len(res.Classes) == limit {
			break
		}
		if l.Start.IsZero() || l.Start.Before(now) {
			continue
		}
		if !listingMatches(l, q) {
			continue
		}
		if l.Kind == KindClass {
			if len(res.Classes) < limit {
				res.Classes = append(res.Classes, l)
			}
		} else if len(res.Events) < limit {
			res.Events = append(res.Events, l)
		}
	}

	for _, d := range pools.Deals {
		if len(res.Deals) == limit {
			break
		}
		if !IsRealDeal(d) || dealExpired(d, now) {
			continue
		}
		if dealMatches(d, q) {
			res.Deals = append(res.Deals, d)
		}
	}

	for _, s := range pools.Services {
		if len(res.Services) == limit {
			break
		}
		if serviceMatches(s, q) {
			res.Services = append(res.Services, s)
		}
	}

	return res
}

func serviceMatches(s Service, query string) bool {
	return strings.Contains(strings.ToLower(s.Name), query) ||
		strings.Contains(strings.ToLower(s.Category), query) ||
		strings.Contains(strings.ToLower(s.Address), query)
}
