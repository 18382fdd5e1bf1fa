package discover

import "time"

// ListingKind distinguishes one-off events from recurring classes.
type ListingKind string

const (
	KindEvent ListingKind = "event"
	KindClass ListingKind = "class"
)

// DiscountType is the structured discount classification on a deal.
type DiscountType string

const (
	DiscountPercent  DiscountType = "percent"
	DiscountFixed    DiscountType = "fixed"
	DiscountFreeItem DiscountType = "free_item"
	DiscountBOGO     DiscountType = "bogo"
	DiscountSpecial  DiscountType = "special"
)

// Listing is a single event or class occurrence.
// A zero Start means the upstream record had a missing or unparseable
// date; every operation that touches listings drops such records.
type Listing struct {
	ID          string      `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description" db:"description"`
	Start       time.Time   `json:"start" db:"start"`
	VenueID     string      `json:"venue_id" db:"venue_id"`
	VenueName   string      `json:"venue_name" db:"venue_name"`
	Kind        ListingKind `json:"kind" db:"kind"`
	AgeGroup    string      `json:"age_group" db:"age_group"`
	Category    string      `json:"category" db:"category"`
	Tags        []string    `json:"tags" db:"-"`
	// Price is "free" (any casing), a numeric-looking string, or ""
	// when the upstream record carried no price (unknown).
	Price      string `json:"price" db:"price"`
	Featured   bool   `json:"featured" db:"featured"`
	Recurrence string `json:"recurrence" db:"recurrence"`
	TagsJSON   string `json:"-" db:"tags"`
}

// Deal is a promotional offer tied to a venue. The structured discount
// fields and the numeric savings fields are independently settable and
// may disagree; the scorer considers both.
type Deal struct {
	ID          string `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"`
	VenueID     string `json:"venue_id" db:"venue_id"`
	VenueName   string `json:"venue_name" db:"venue_name"`
	Schedule    string `json:"schedule" db:"schedule"`
	// ValidUntil is a local calendar date "YYYY-MM-DD"; "" never expires.
	ValidUntil string `json:"valid_until" db:"valid_until"`
	// Discount is the scraped free-text discount label ("40% off entrees").
	Discount       string       `json:"discount" db:"discount"`
	DiscountValue  float64      `json:"discount_value" db:"discount_value"`
	DiscountType   DiscountType `json:"discount_type" db:"discount_type"`
	SavingsPercent float64      `json:"savings_percent" db:"savings_percent"`
	OriginalPrice  float64      `json:"original_price" db:"original_price"`
	// DealPrice is nil when unknown; a pointer so "deal price is 0"
	// is distinguishable from "deal price absent".
	DealPrice *float64 `json:"deal_price" db:"-"`
	Featured  bool     `json:"featured" db:"featured"`
	Terms     string   `json:"terms" db:"terms"`
}

// Service is a plain business listing, searchable but never filtered.
type Service struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Category string `json:"category" db:"category"`
	Address  string `json:"address" db:"address"`
}

// AgeRange is an inclusive kids age band. The sentinel {-1, 0} means
// prenatal/expecting rather than a numeric range.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Prenatal reports whether the range is the prenatal sentinel.
func (r AgeRange) Prenatal() bool { return r.Min == -1 && r.Max == 0 }

// Age filter values.
const (
	AgeAll    = "all"
	AgeKids   = "kids"
	AgeAdults = "adults"
)

// Price filter values.
const (
	PriceAll  = "all"
	PriceFree = "free"
	PricePaid = "paid"
)

// EventQuery carries the UI filter selections for a listing query.
// The zero value is "no filtering".
type EventQuery struct {
	Section      string    `json:"section"` // "event", "class", or "" for both
	Day          string    `json:"day"`     // symbolic key or "YYYY-MM-DD"
	Age          string    `json:"age"`     // "all", "kids", "adults"
	KidsAgeRange *AgeRange `json:"kids_age_range,omitempty"`
	Categories   []string  `json:"categories,omitempty"` // empty or "all" = unrestricted
	TimeOfDay    string    `json:"time"`                 // symbolic range or "HH:MM" minimum
	Price        string    `json:"price"`                // "all", "free", "paid"
	Search       string    `json:"q"`
}

// DealQuery carries the UI filter selections for a deal query.
type DealQuery struct {
	Search     string   `json:"q"`
	Categories []string `json:"categories,omitempty"` // empty or "all" = unrestricted
}

// Pools holds the raw record collections the engine reads. The engine
// never mutates a pool; ownership stays with the caller.
type Pools struct {
	Listings []Listing
	Deals    []Deal
	Services []Service
}

// SearchResults is the per-section outcome of a cross-section search.
type SearchResults struct {
	Events   []Listing `json:"events"`
	Classes  []Listing `json:"classes"`
	Deals    []Deal    `json:"deals"`
	Services []Service `json:"services"`
}
