package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mgeorgiev/localpulse/internal/feed"
	"github.com/mgeorgiev/localpulse/internal/store"
	"github.com/mgeorgiev/localpulse/pkg/alert"
	"github.com/mgeorgiev/localpulse/pkg/discover"
)

// Scheduler runs periodic feed ingestion and deal alerting.
type Scheduler struct {
	store     store.Store
	events    *feed.EventFeed
	deals     *feed.DealFeed
	alertMgr  *alert.Manager
	ingestInt time.Duration
	minScore  float64
}

// New creates a new scheduler.
func New(
	s store.Store,
	events *feed.EventFeed,
	deals *feed.DealFeed,
	alertMgr *alert.Manager,
	ingestInt time.Duration,
	minScore float64,
) *Scheduler {
	if ingestInt == 0 {
		ingestInt = 30 * time.Minute
	}
	if minScore == 0 {
		minScore = 85
	}
	return &Scheduler{
		store:     s,
		events:    events,
		deals:     deals,
		alertMgr:  alertMgr,
		ingestInt: ingestInt,
		minScore:  minScore,
	}
}

// Run starts the scheduler loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.ingestInt)
	defer ticker.Stop()

	// Run immediately on start.
	fmt.Fprintln(os.Stderr, "scheduler: initial ingest...")
	s.ingest(ctx)
	s.alertDeals(ctx)

	fmt.Fprintf(os.Stderr, "scheduler: running (ingest every %s)\n", s.ingestInt)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "scheduler: stopped")
			return ctx.Err()
		case <-ticker.C:
			fmt.Fprintln(os.Stderr, "scheduler: ingesting...")
			s.ingest(ctx)
			s.alertDeals(ctx)
		}
	}
}

// Ingest runs one collection pass across both collectors.
func (s *Scheduler) Ingest(ctx context.Context) {
	s.ingest(ctx)
}

func (s *Scheduler) ingest(ctx context.Context) {
	listings, err := s.events.Collect(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  %s error: %v\n", s.events.Name(), err)
	} else {
		if err := s.store.UpsertListings(ctx, listings); err != nil {
			fmt.Fprintf(os.Stderr, "  %s store error: %v\n", s.events.Name(), err)
		} else {
			fmt.Fprintf(os.Stderr, "  %s: %d listings\n", s.events.Name(), len(listings))
		}
	}

	deals, err := s.deals.Collect(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  %s error: %v\n", s.deals.Name(), err)
		return
	}
	if err := s.store.UpsertDeals(ctx, deals); err != nil {
		fmt.Fprintf(os.Stderr, "  %s store error: %v\n", s.deals.Name(), err)
		return
	}
	fmt.Fprintf(os.Stderr, "  %s: %d deals\n", s.deals.Name(), len(deals))
}

func (s *Scheduler) alertDeals(ctx context.Context) {
	if !s.alertMgr.HasNotifiers() {
		return
	}

	deals, err := s.store.ListDeals(ctx, store.DealOpts{Unalerted: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "  deal alert query error: %v\n", err)
		return
	}

	// Alert for high-scoring unalerted deals.
	for _, d := range deals {
		score := discover.Score(d)
		if score < s.minScore {
			continue
		}

		notification := &alert.Notification{
			Title:    d.Title,
			Body:     d.Description,
			Venue:    d.VenueName,
			Category: discover.NormalizeDealCategory(d.Category),
			Score:    score,
			Expires:  d.ValidUntil,
		}
		if label := discover.SavingsDisplay(d); label != nil {
			notification.Savings = label.Text
		}

		if err := s.alertMgr.Broadcast(ctx, notification); err != nil {
			fmt.Fprintf(os.Stderr, "  alert error for %q: %v\n", d.Title, err)
			continue
		}

		_ = s.store.MarkDealAlerted(ctx, d.ID)
		fmt.Fprintf(os.Stderr, "  alerted: %s (score: %.0f)\n", d.Title, score)
	}
}
