package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/mgeorgiev/localpulse/internal/config"
	"github.com/mgeorgiev/localpulse/internal/feed"
	"github.com/mgeorgiev/localpulse/internal/scheduler"
	"github.com/mgeorgiev/localpulse/internal/store"
	"github.com/mgeorgiev/localpulse/pkg/alert"
	"github.com/mgeorgiev/localpulse/pkg/discover"
	"github.com/mgeorgiev/localpulse/pkg/server"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func buildFeeds(cfg *config.Config) (*feed.EventFeed, *feed.DealFeed) {
	toFeeds := func(items []config.FeedItem) []feed.Feed {
		out := make([]feed.Feed, len(items))
		for i, item := range items {
			out[i] = feed.Feed{Name: item.Name, URL: item.URL, Venue: item.Venue}
		}
		return out
	}
	return feed.NewEventFeed(toFeeds(cfg.Feeds.Events)), feed.NewDealFeed(toFeeds(cfg.Feeds.Deals))
}

func buildAlertManager(cfg *config.Config) *alert.Manager {
	var notifiers []alert.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewDiscord(cfg.Alerts.Discord.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return alert.NewManager(notifiers)
}

func buildScheduler(cfg *config.Config, db store.Store) *scheduler.Scheduler {
	events, deals := buildFeeds(cfg)
	return scheduler.New(db, events, deals, buildAlertManager(cfg),
		cfg.Schedule.ParseIngestInterval(),
		cfg.Deals.AlertMinScore,
	)
}

func runIngest() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	buildScheduler(cfg, db).Ingest(context.Background())
	return nil
}

type eventFlags struct {
	jsonOutput bool
	section    string
	day        string
	age        string
	kidsAge    string
	categories []string
	timeOfDay  string
	price      string
	query      string
}

func runEvents(flags eventFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	listings, err := db.ListListings(context.Background(), store.ListingOpts{})
	if err != nil {
		return fmt.Errorf("list listings: %w", err)
	}

	q := discover.EventQuery{
		Section:      flags.section,
		Day:          flags.day,
		Age:          flags.age,
		KidsAgeRange: parseKidsAge(flags.kidsAge),
		Categories:   flags.categories,
		TimeOfDay:    flags.timeOfDay,
		Price:        flags.price,
		Search:       flags.query,
	}
	now := time.Now().In(cfg.Server.Location())
	filtered := discover.FilterListings(listings, q, now)

	if flags.jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(filtered)
	}

	if len(filtered) == 0 {
		fmt.Println("no listings found (try fetching feeds first: localpulse ingest)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "START\tKIND\tTITLE\tVENUE\tPRICE")
	for _, l := range filtered {
		price := l.Price
		if price == "" {
			price = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			l.Start.Format("Mon Jan 2 15:04"), l.Kind, l.Title, l.VenueName, price)
	}
	return w.Flush()
}

func runDeals(jsonOutput bool, categories []string, query string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	deals, err := db.ListDeals(context.Background(), store.DealOpts{})
	if err != nil {
		return fmt.Errorf("list deals: %w", err)
	}

	now := time.Now().In(cfg.Server.Location())
	filtered := discover.FilterDeals(deals, discover.DealQuery{
		Search:     query,
		Categories: categories,
	}, now)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(filtered)
	}

	if len(filtered) == 0 {
		fmt.Println("no deals found (try fetching feeds first: localpulse ingest)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tSAVINGS\tTITLE\tVENUE\tEXPIRES")
	for _, d := range filtered {
		savings := "-"
		if label := discover.SavingsDisplay(d); label != nil {
			savings = label.Text
		}
		expires := d.ValidUntil
		if expires == "" {
			expires = "-"
		}
		fmt.Fprintf(w, "%.0f\t%s\t%s\t%s\t%s\n",
			discover.Score(d), savings, d.Title, d.VenueName, expires)
	}
	return w.Flush()
}

func runSearch(query string, limit int, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	listings, err := db.ListListings(ctx, store.ListingOpts{})
	if err != nil {
		return fmt.Errorf("list listings: %w", err)
	}
	deals, err := db.ListDeals(ctx, store.DealOpts{})
	if err != nil {
		return fmt.Errorf("list deals: %w", err)
	}
	services, err := db.ListServices(ctx)
	if err != nil {
		return fmt.Errorf("list services: %w", err)
	}

	now := time.Now().In(cfg.Server.Location())
	results := discover.SearchAll(query, discover.Pools{
		Listings: listings,
		Deals:    deals,
		Services: services,
	}, now, limit)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, l := range results.Events {
		fmt.Fprintf(w, "event\t%s\t%s\t%s\n", l.Start.Format("Mon Jan 2 15:04"), l.Title, l.VenueName)
	}
	for _, l := range results.Classes {
		fmt.Fprintf(w, "class\t%s\t%s\t%s\n", l.Start.Format("Mon Jan 2 15:04"), l.Title, l.VenueName)
	}
	for _, d := range results.Deals {
		fmt.Fprintf(w, "deal\t%.0f\t%s\t%s\n", discover.Score(d), d.Title, d.VenueName)
	}
	for _, svc := range results.Services {
		fmt.Fprintf(w, "service\t%s\t%s\t%s\n", svc.Category, svc.Name, svc.Address)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	total := len(results.Events) + len(results.Classes) + len(results.Deals) + len(results.Services)
	if total == 0 {
		fmt.Printf("no results for %q\n", query)
	}
	return nil
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	srv := server.New(db, buildScheduler(cfg, db), cfg.Server.Location(), port)
	return srv.ListenAndServe()
}

func runDaemon(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	sched := buildScheduler(cfg, db)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Start scheduler in background.
	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "scheduler error: %v\n", err)
		}
	}()

	srv := server.New(db, sched, cfg.Server.Location(), port)
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nshutting down...")
	}()

	return srv.ListenAndServe()
}

// parseKidsAge parses "N-M" or "prenatal" into an age range; anything
// else means no range restriction.
func parseKidsAge(raw string) *discover.AgeRange {
	if raw == "" {
		return nil
	}
	if strings.EqualFold(raw, "prenatal") {
		return &discover.AgeRange{Min: -1, Max: 0}
	}
	lo, hi, ok := strings.Cut(raw, "-")
	if !ok {
		return nil
	}
	min, err1 := strconv.Atoi(strings.TrimSpace(lo))
	max, err2 := strconv.Atoi(strings.TrimSpace(hi))
	if err1 != nil || err2 != nil {
		return nil
	}
	return &discover.AgeRange{Min: min, Max: max}
}
