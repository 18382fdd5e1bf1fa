package feed

import (
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// Feed is a named RSS/Atom feed URL. Venue, when set, is the venue
// every record from this feed belongs to; otherwise the entry author
// is used.
type Feed struct {
	Name  string
	URL   string
	Venue string
}

const userAgent = "localpulse/1.0"

// newClient returns the HTTP client the collectors share.
func newClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// entryVenue resolves the venue name for a feed entry.
func entryVenue(f Feed, entry *gofeed.Item) string {
	if f.Venue != "" {
		return f.Venue
	}
	if entry.Author != nil {
		return entry.Author.Name
	}
	return ""
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
