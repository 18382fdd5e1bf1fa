package discover

import (
	"reflect"
	"testing"
	"time"
)

// testNow is a Wednesday morning in the test zone.
var testNow = date(2026, time.March, 4, 9, 0)

func listing(id, title string, start time.Time, mod ...func(*Listing)) Listing {
	l := Listing{
		ID:    id,
		Title: title,
		Start: start,
		Kind:  KindEvent,
	}
	for _, m := range mod {
		m(&l)
	}
	return l
}

func ids(ls []Listing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

func TestFilterListings_DropsBadData(t *testing.T) {
	pool := []Listing{
		listing("ok", "Trivia Night", testNow.Add(2*time.Hour)),
		listing("no-start", "Live Jazz", time.Time{}),
		listing("junk-title", "(3 Reserved, 5 Open)", testNow.Add(2*time.Hour)),
		listing("tiny-title", "ab", testNow.Add(2*time.Hour)),
	}

	got := FilterListings(pool, EventQuery{Day: DayAnytime}, testNow)
	if !reflect.DeepEqual(ids(got), []string{"ok"}) {
		t.Errorf("expected only the clean record, got %v", ids(got))
	}
}

func TestFilterListings_Section(t *testing.T) {
	pool := []Listing{
		listing("e1", "Trivia Night", testNow.Add(time.Hour)),
		listing("c1", "Pottery Basics", testNow.Add(time.Hour), func(l *Listing) { l.Kind = KindClass }),
	}

	got := FilterListings(pool, EventQuery{Section: "class", Day: DayAnytime}, testNow)
	if !reflect.DeepEqual(ids(got), []string{"c1"}) {
		t.Errorf("expected classes only, got %v", ids(got))
	}

	got = FilterListings(pool, EventQuery{Section: "event", Day: DayAnytime}, testNow)
	if !reflect.DeepEqual(ids(got), []string{"e1"}) {
		t.Errorf("expected events only, got %v", ids(got))
	}

	got = FilterListings(pool, EventQuery{Day: DayAnytime}, testNow)
	if len(got) != 2 {
		t.Errorf("blank section keeps both kinds, got %v", ids(got))
	}
}

func TestFilterListings_DayWindow(t *testing.T) {
	pool := []Listing{
		listing("today", "Morning Market", testNow.Add(3*time.Hour)),
		listing("tomorrow", "Farmers Market", date(2026, time.March, 5, 10, 0)),
		listing("next-month", "Spring Gala", date(2026, time.April, 20, 19, 0)),
	}

	got := FilterListings(pool, EventQuery{Day: DayTomorrow}, testNow)
	if !reflect.DeepEqual(ids(got), []string{"tomorrow"}) {
		t.Errorf("expected tomorrow's listing only, got %v", ids(got))
	}
}

func TestFilterListings_Search(t *testing.T) {
	pool := []Listing{
		listing("title", "Salsa Dancing", testNow.Add(time.Hour)),
		listing("desc", "Social Evening", testNow.Add(time.Hour), func(l *Listing) { l.Description = "salsa for beginners" }),
		listing("venue", "Latin Night", testNow.Add(time.Hour), func(l *Listing) { l.VenueName = "Casa Salsa" }),
		listing("tag", "Dance Social", testNow.Add(time.Hour), func(l *Listing) { l.Tags = []string{"salsa", "dance"} }),
		listing("miss", "Trivia Night", testNow.Add(time.Hour)),
	}

	got := FilterListings(pool, EventQuery{Day: DayAnytime, Search: "  SALSA "}, testNow)
	if !reflect.DeepEqual(ids(got), []string{"title", "desc", "venue", "tag"}) {
		t.Errorf("expected matches across title/desc/venue/tags, got %v", ids(got))
	}

	got = FilterListings(pool, EventQuery{Day: DayAnytime, Search: "   "}, testNow)
	if len(got) != 5 {
		t.Errorf("whitespace query is a no-op, got %v", ids(got))
	}
}

func TestFilterListings_AgeKids(t *testing.T) {
	pool := []Listing{
		listing("kids", "Story Time", testNow.Add(time.Hour), func(l *Listing) { l.AgeGroup = "Kids" }),
		listing("adults", "Wine Tasting", testNow.Add(time.Hour), func(l *Listing) { l.AgeGroup = "Adults" }),
		listing("blank", "Open House", testNow.Add(time.Hour)),
	}

	got := FilterListings(pool, EventQuery{Day: DayAnytime, Age: AgeKids}, testNow)
	if !reflect.DeepEqual(ids(got), []string{"kids"}) {
		t.Errorf("expected kids-labeled records only, got %v", ids(got))
	}
}

func TestFilterListings_KidsAgeRangeOverlap(t *testing.T) {
	pool := []Listing{
		listing("band", "Soccer Ages 3-5", testNow.Add(time.Hour), func(l *Listing) { l.AgeGroup = "Kids" }),
		listing("inline", "Gymnastics", testNow.Add(time.Hour), func(l *Listing) {
			l.AgeGroup = "Kids"
			l.Description = "For kids 6-9 of all skill levels"
		}),
		listing("unparsed", "Craft Corner", testNow.Add(time.Hour), func(l *Listing) { l.AgeGroup = "Kids" }),
	}

	got := FilterListings(pool, EventQuery{Day: DayAnytime, Age: AgeKids, KidsAgeRange: &AgeRange{Min: 4, Max: 6}}, testNow)
	// 3-5 overlaps 4-6; 6-9 touches at 6; unparseable text fails open.
	if !reflect.DeepEqual(ids(got), []string{"band", "inline", "unparsed"}) {
		t.Errorf("expected overlap plus fail-open, got %v", ids(got))
	}

	got = FilterListings(pool, EventQuery{Day: DayAnytime, Age: AgeKids, KidsAgeRange: &AgeRange{Min: 10, Max: 12}}, testNow)
	if !reflect.DeepEqual(ids(got), []string{"unparsed"}) {
		t.Errorf("expected non-overlapping bands excluded, got %v", ids(got))
	}
}

func TestFilterListings_PrenatalSentinel(t *testing.T) {
	pool := []Listing{
		listing("prenatal", "Prenatal Yoga", testNow.Add(time.Hour), func(l *Listing) { l.AgeGroup = "Kids & Parents" }),
		listing("regular", "Toddler Gym Ages 1-3", testNow.Add(time.Hour), func(l *Listing) { l.AgeGroup = "Kids" }),
	}

	got := FilterListings(pool, EventQuery{Day: DayAnytime, Age: AgeKids, KidsAgeRange: &AgeRange{Min: -1, Max: 0}}, testNow)
	if !reflect.DeepEqual(ids(got), []string{"prenatal"}) {
		t.Errorf("prenatal sentinel matches prenatal text only, got %v", ids(got))
	}
}

func TestFilterListings_AgeAdults(t *testing.T) {
	pool := []Listing{
		listing("adults", "Wine Tasting", testNow.Add(time.Hour), func(l *Listing) { l.AgeGroup = "Adults" }),
		listing("all-ages", "Street Fair", testNow.Add(time.Hour), func(l *Listing) { l.AgeGroup = "All Ages" }),
		listing("nineteen", "Casino Night", testNow.Add(time.Hour), func(l *Listing) { l.AgeGroup = "19+" }),
		listing("teens", "Improv Drop-in", testNow.Add(time.Hour), func(l *Listing) { l.AgeGroup = "Teens & Adults" }),
		listing("kids", "Story Time", testNow.Add(time.Hour), func(l *Listing) { l.AgeGroup = "Kids" }),
	}

	got := FilterListings(pool, EventQuery{Day: DayAnytime, Age: AgeAdults}, testNow)
	if !reflect.DeepEqual(ids(got), []string{"adults", "all-ages", "nineteen", "teens"}) {
		t.Errorf("expected the four adult-eligible labels, got %v", ids(got))
	}
}

func TestFilterListings_Categories(t *testing.T) {
	pool := []Listing{
		listing("music", "Open Mic", testNow.Add(time.Hour), func(l *Listing) { l.Category = "Music" }),
		listing("tagged", "Park Meetup", testNow.Add(time.Hour), func(l *Listing) { l.Tags = []string{"Music", "outdoors"} }),
		listing("family", "Puppet Show", testNow.Add(time.Hour), func(l *Listing) { l.AgeGroup = "Kids & Family" }),
		listing("sports", "Fun Run", testNow.Add(time.Hour), func(l *Listing) { l.Category = "Sports" }),
	}

	got := FilterListings(pool, EventQuery{Day: DayAnytime, Categories: []string{"Music"}}, testNow)
	if !reflect.DeepEqual(ids(got), []string{"music", "tagged"}) {
		t.Errorf("category matches by equality or tag, got %v", ids(got))
	}

	// Family selection matches by audience, any age group mention.
	got = FilterListings(pool, EventQuery{Day: DayAnytime, Categories: []string{"Family"}}, testNow)
	if !reflect.DeepEqual(ids(got), []string{"family"}) {
		t.Errorf("family matches by age group, got %v", ids(got))
	}

	// OR semantics across the selected set.
	got = FilterListings(pool, EventQuery{Day: DayAnytime, Categories: []string{"Music", "Sports"}}, testNow)
	if !reflect.DeepEqual(ids(got), []string{"music", "tagged", "sports"}) {
		t.Errorf("expected the union across selections, got %v", ids(got))
	}

	// "all" anywhere in the set is unrestricted.
	got = FilterListings(pool, EventQuery{Day: DayAnytime, Categories: []string{"all"}}, testNow)
	if len(got) != 4 {
		t.Errorf("'all' selection keeps everything, got %v", ids(got))
	}
}

func TestFilterListings_TimeOfDay(t *testing.T) {
	pool := []Listing{
		listing("early", "Sunrise Hike", date(2026, time.March, 5, 6, 30)),
		listing("noonish", "Lunch Concert", date(2026, time.March, 5, 12, 0)),
		listing("late", "Night Market", date(2026, time.March, 5, 19, 0)),
	}

	cases := []struct {
		key  string
		want []string
	}{
		{TimeMorning, []string{"early"}},
		{TimeAfternoon, []string{"noonish"}},
		{TimeEvening, []string{"late"}},
		{"12:00", []string{"noonish", "late"}}, // inclusive minimum
		{"", []string{"early", "noonish", "late"}},
	}

	for _, tc := range cases {
		got := FilterListings(pool, EventQuery{Day: DayAnytime, TimeOfDay: tc.key}, testNow)
		if !reflect.DeepEqual(ids(got), tc.want) {
			t.Errorf("%q: expected %v, got %v", tc.key, tc.want, ids(got))
		}
	}
}

func TestFilterListings_Price(t *testing.T) {
	pool := []Listing{
		listing("free", "Community Yoga", testNow.Add(time.Hour), func(l *Listing) { l.Price = "Free" }),
		listing("paid", "Cooking Class", testNow.Add(time.Hour), func(l *Listing) { l.Price = "45" }),
		listing("unknown", "Gallery Opening", testNow.Add(time.Hour)),
	}

	got := FilterListings(pool, EventQuery{Day: DayAnytime, Price: PriceFree}, testNow)
	if !reflect.DeepEqual(ids(got), []string{"free"}) {
		t.Errorf("free means the literal word, got %v", ids(got))
	}

	// Unknown prices count as possibly paid and stay in.
	got = FilterListings(pool, EventQuery{Day: DayAnytime, Price: PricePaid}, testNow)
	if !reflect.DeepEqual(ids(got), []string{"paid", "unknown"}) {
		t.Errorf("paid excludes only literal free, got %v", ids(got))
	}
}

func TestFilterListings_SortFeaturedThenStart(t *testing.T) {
	pool := []Listing{
		listing("later", "Evening Show", testNow.Add(8*time.Hour)),
		listing("featured", "Headline Act", testNow.Add(10*time.Hour), func(l *Listing) { l.Featured = true }),
		listing("sooner", "Matinee", testNow.Add(2*time.Hour)),
	}

	got := FilterListings(pool, EventQuery{Day: DayAnytime}, testNow)
	if !reflect.DeepEqual(ids(got), []string{"featured", "sooner", "later"}) {
		t.Errorf("expected featured first then ascending start, got %v", ids(got))
	}
}

func TestFilterListings_StableOnTies(t *testing.T) {
	same := testNow.Add(2 * time.Hour)
	pool := []Listing{
		listing("a", "First In", same),
		listing("b", "Second In", same),
		listing("c", "Third In", same),
	}

	got := FilterListings(pool, EventQuery{Day: DayAnytime}, testNow)
	if !reflect.DeepEqual(ids(got), []string{"a", "b", "c"}) {
		t.Errorf("ties keep input order, got %v", ids(got))
	}
}

func TestFilterListings_Idempotent(t *testing.T) {
	pool := []Listing{
		listing("a", "Trivia Night", testNow.Add(2*time.Hour)),
		listing("b", "Matinee", testNow.Add(time.Hour), func(l *Listing) { l.Featured = true }),
	}
	q := EventQuery{Day: DayAnytime, Price: PricePaid}

	first := FilterListings(pool, q, testNow)
	second := FilterListings(pool, q, testNow)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical arguments must produce identical output")
	}
}
