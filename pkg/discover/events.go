package discover

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// bookingStatusPattern is a known bad-data signature: the upstream
// scraper sometimes captures a booking widget's "(3 Reserved, 5 Open)"
// counter as the event title.
var bookingStatusPattern = regexp.MustCompile(`\(\d+ Reserved, \d+ Open\)`)

// ageRangePattern matches "3-5" or "Ages 3-5" in free text.
var ageRangePattern = regexp.MustCompile(`(?i)(?:ages?\s*)?(\d{1,2})\s*-\s*(\d{1,2})`)

// Time-of-day filter keys.
const (
	TimeMorning   = "morning"   // [05:00, 12:00)
	TimeAfternoon = "afternoon" // [12:00, 17:00)
	TimeEvening   = "evening"   // [17:00, 24:00)
)

// FilterListings runs the full event/class filter pipeline over a pool
// and returns a fresh sorted slice: featured first, then ascending by
// start, stable throughout. The pool is never modified.
func FilterListings(pool []Listing, q EventQuery, now time.Time) []Listing {
	window := ResolveDayWindow(q.Day, now)
	query := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]Listing, 0, len(pool))
	for _, l := range pool {
		if !validListing(l) {
			continue
		}
		if !matchesSection(l, q.Section) {
			continue
		}
		if !window.Contains(l.Start) {
			continue
		}
		if query != "" && !listingMatches(l, query) {
			continue
		}
		if !matchesAge(l, q.Age, q.KidsAgeRange) {
			continue
		}
		if !matchesCategories(l, q.Categories) {
			continue
		}
		if !matchesTimeOfDay(l, q.TimeOfDay) {
			continue
		}
		if !matchesPrice(l, q.Price) {
			continue
		}
		out = append(out, l)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Featured != out[j].Featured {
			return out[i].Featured
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// validListing drops records with no usable start instant and the
// scraper's known junk titles.
func validListing(l Listing) bool {
	if l.Start.IsZero() {
		return false
	}
	title := strings.TrimSpace(l.Title)
	if len(title) < 3 {
		return false
	}
	return !bookingStatusPattern.MatchString(title)
}

func matchesSection(l Listing, section string) bool {
	switch section {
	case string(KindEvent):
		return l.Kind == KindEvent
	case string(KindClass):
		return l.Kind == KindClass
	}
	return true
}

// listingMatches tests a lower-cased query against title, description,
// venue name and tags.
func listingMatches(l Listing, query string) bool {
	if strings.Contains(strings.ToLower(l.Title), query) ||
		strings.Contains(strings.ToLower(l.Description), query) ||
		strings.Contains(strings.ToLower(l.VenueName), query) {
		return true
	}
	for _, tag := range l.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func matchesAge(l Listing, age string, kidsRange *AgeRange) bool {
	switch age {
	case AgeKids:
		if !strings.Contains(strings.ToLower(l.AgeGroup), "kids") {
			return false
		}
		if kidsRange == nil {
			return true
		}
		return matchesKidsRange(l, *kidsRange)
	case AgeAdults:
		return strings.Contains(strings.ToLower(l.AgeGroup), "adults") ||
			strings.EqualFold(l.AgeGroup, "All Ages") ||
			strings.EqualFold(l.AgeGroup, "19+") ||
			strings.EqualFold(l.AgeGroup, "Teens & Adults")
	}
	return true
}

// matchesKidsRange parses an age band out of the listing text and
// tests overlap with the requested range. Text with no parseable band
// passes: age refinement narrows, it never excludes on missing data.
func matchesKidsRange(l Listing, r AgeRange) bool {
	text := strings.ToLower(l.Title + " " + l.Description)
	if r.Prenatal() {
		return strings.Contains(text, "prenatal") ||
			strings.Contains(text, "perinatal") ||
			strings.Contains(text, "pregnant")
	}

	m := ageRangePattern.FindStringSubmatch(text)
	if m == nil {
		return true
	}
	lo, _ := strconv.Atoi(m[1])
	hi, _ := strconv.Atoi(m[2])
	return lo <= r.Max && hi >= r.Min
}

// matchesCategories applies OR semantics across the selected set. An
// empty set or an "all" selection is unrestricted.
func matchesCategories(l Listing, cats []string) bool {
	if len(cats) == 0 {
		return true
	}
	for _, c := range cats {
		if c == "" || strings.EqualFold(c, "all") {
			return true
		}
		if matchesCategory(l, c) {
			return true
		}
	}
	return false
}

func matchesCategory(l Listing, c string) bool {
	// Kids/Family selections match on audience, not taxonomy: any
	// listing whose age group or tags mention them qualifies.
	if strings.EqualFold(c, "Kids") || strings.EqualFold(c, "Family") {
		needle := strings.ToLower(c)
		if strings.Contains(strings.ToLower(l.AgeGroup), needle) {
			return true
		}
		for _, tag := range l.Tags {
			if strings.Contains(strings.ToLower(tag), needle) {
				return true
			}
		}
		return false
	}

	if strings.EqualFold(l.Category, c) {
		return true
	}
	for _, tag := range l.Tags {
		if strings.EqualFold(tag, c) {
			return true
		}
	}
	return false
}

func matchesTimeOfDay(l Listing, key string) bool {
	switch key {
	case "", "anytime":
		return true
	case TimeMorning:
		return l.Start.Hour() >= 5 && l.Start.Hour() < 12
	case TimeAfternoon:
		return l.Start.Hour() >= 12 && l.Start.Hour() < 17
	case TimeEvening:
		return l.Start.Hour() >= 17
	}

	// Explicit "HH:MM" is an inclusive minimum start time of day.
	if cutoff, ok := parseClock(key); ok {
		return l.Start.Hour()*60+l.Start.Minute() >= cutoff
	}
	return true
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, bool) {
	hh, mm, found := strings.Cut(s, ":")
	if !found {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func matchesPrice(l Listing, price string) bool {
	switch price {
	case PriceFree:
		return strings.EqualFold(strings.TrimSpace(l.Price), "free")
	case PricePaid:
		// Unknown prices stay in: "possibly paid" beats hiding content.
		return !strings.EqualFold(strings.TrimSpace(l.Price), "free")
	}
	return true
}
