package feed

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/mgeorgiev/localpulse/pkg/discover"
)

// EventFeed collects event and class listings from venue calendar
// feeds (RSS/Atom). The entry publish date carries the occurrence
// start; entries without one produce a zero start, which the
// discovery engine drops.
type EventFeed struct {
	client *http.Client
	parser *gofeed.Parser
	feeds  []Feed
}

// NewEventFeed creates a new event feed collector.
func NewEventFeed(feeds []Feed) *EventFeed {
	return &EventFeed{
		client: newClient(),
		parser: gofeed.NewParser(),
		feeds:  feeds,
	}
}

func (e *EventFeed) Name() string { return "events" }

// Collect fetches every configured feed. A failing feed is logged and
// skipped so one broken venue calendar cannot blank the whole pool.
func (e *EventFeed) Collect(ctx context.Context) ([]discover.Listing, error) {
	var all []discover.Listing

	for _, f := range e.feeds {
		listings, err := e.collectFeed(ctx, f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  event feed %s error: %v\n", f.Name, err)
			continue
		}
		all = append(all, listings...)
	}

	return all, nil
}

func (e *EventFeed) collectFeed(ctx context.Context, f Feed) ([]discover.Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request %s: %w", f.Name, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", f.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %s status %d", f.Name, resp.StatusCode)
	}

	parsed, err := e.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", f.Name, err)
	}

	listings := make([]discover.Listing, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		listings = append(listings, listingFromEntry(f, entry))
	}
	return listings, nil
}

// listingFromEntry maps one feed entry onto a listing record.
func listingFromEntry(f Feed, entry *gofeed.Item) discover.Listing {
	var start time.Time
	if entry.PublishedParsed != nil {
		start = *entry.PublishedParsed
	} else if entry.UpdatedParsed != nil {
		start = *entry.UpdatedParsed
	}

	category := ""
	if len(entry.Categories) > 0 {
		category = entry.Categories[0]
	}

	return discover.Listing{
		ID:          fmt.Sprintf("feed:%s:%s", f.Name, entry.GUID),
		Title:       entry.Title,
		Description: truncate(entry.Description, 500),
		Start:       start,
		VenueName:   entryVenue(f, entry),
		Kind:        kindFromEntry(entry),
		AgeGroup:    ageGroupFromTags(entry.Categories),
		Category:    category,
		Tags:        entry.Categories,
		Price:       priceFromText(entry.Title + " " + entry.Description),
	}
}

// kindFromEntry classifies an entry as a class when its title or
// categories say so; everything else is an event.
func kindFromEntry(entry *gofeed.Item) discover.ListingKind {
	text := strings.ToLower(entry.Title)
	for _, c := range entry.Categories {
		text += " " + strings.ToLower(c)
	}
	for _, marker := range []string{"class", "workshop", "course", "lesson"} {
		if strings.Contains(text, marker) {
			return discover.KindClass
		}
	}
	return discover.KindEvent
}

// ageGroupFromTags lifts an audience label out of the feed categories.
func ageGroupFromTags(tags []string) string {
	for _, t := range tags {
		lower := strings.ToLower(t)
		switch {
		case strings.Contains(lower, "kids"), strings.Contains(lower, "children"):
			return "Kids"
		case strings.Contains(lower, "adults"):
			return "Adults"
		case strings.Contains(lower, "all ages"):
			return "All Ages"
		}
	}
	return ""
}

// priceFromText marks obviously free listings; anything else stays
// unknown rather than guessing.
func priceFromText(text string) string {
	lower := strings.ToLower(text)
	for _, marker := range []string{"free admission", "free entry", "free event", "admission is free"} {
		if strings.Contains(lower, marker) {
			return "free"
		}
	}
	return ""
}
