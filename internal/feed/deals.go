package feed

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/mgeorgiev/localpulse/pkg/discover"
)

// validUntilPattern lifts an expiry date out of deal prose, e.g.
// "valid until 2026-04-01".
var validUntilPattern = regexp.MustCompile(`(?i)valid\s+(?:until|through)\s+(\d{4}-\d{2}-\d{2})`)

// DealFeed collects promotional deals from aggregator feeds. The feed
// carries titles and prose; the discovery engine's scorer does the
// value extraction, so the mapping stays deliberately thin.
type DealFeed struct {
	client *http.Client
	parser *gofeed.Parser
	feeds  []Feed
}

// NewDealFeed creates a new deal feed collector.
func NewDealFeed(feeds []Feed) *DealFeed {
	return &DealFeed{
		client: newClient(),
		parser: gofeed.NewParser(),
		feeds:  feeds,
	}
}

func (d *DealFeed) Name() string { return "deals" }

// Collect fetches every configured feed, skipping broken ones.
func (d *DealFeed) Collect(ctx context.Context) ([]discover.Deal, error) {
	var all []discover.Deal

	for _, f := range d.feeds {
		deals, err := d.collectFeed(ctx, f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  deal feed %s error: %v\n", f.Name, err)
			continue
		}
		all = append(all, deals...)
	}

	return all, nil
}

func (d *DealFeed) collectFeed(ctx context.Context, f Feed) ([]discover.Deal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request %s: %w", f.Name, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", f.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %s status %d", f.Name, resp.StatusCode)
	}

	parsed, err := d.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", f.Name, err)
	}

	deals := make([]discover.Deal, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		deals = append(deals, dealFromEntry(f, entry))
	}
	return deals, nil
}

// dealFromEntry maps one feed entry onto a deal record. The title
// doubles as the discount text; the scorer parses value out of it.
func dealFromEntry(f Feed, entry *gofeed.Item) discover.Deal {
	category := ""
	if len(entry.Categories) > 0 {
		category = entry.Categories[0]
	}

	return discover.Deal{
		ID:          fmt.Sprintf("feed:%s:%s", f.Name, entry.GUID),
		Title:       entry.Title,
		Description: truncate(entry.Description, 500),
		Category:    category,
		VenueName:   entryVenue(f, entry),
		Discount:    entry.Title,
		ValidUntil:  validUntilFromText(entry.Description),
	}
}

// validUntilFromText extracts a "valid until YYYY-MM-DD" date; absent
// dates mean the deal never expires, matching the engine's fail-open
// expiry rule.
func validUntilFromText(text string) string {
	m := validUntilPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return ""
	}
	return m[1]
}
