package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/mgeorgiev/localpulse/pkg/discover"
)

// ListingOpts controls listing queries.
type ListingOpts struct {
	Kind  discover.ListingKind
	Since time.Time
	Limit int
}

// DealOpts controls deal queries.
type DealOpts struct {
	Category  string
	Unalerted bool
	Limit     int
}

// Store is the persistence interface. It owns the record pools; the
// discovery engine only ever sees the slices these methods return.
type Store interface {
	UpsertListing(ctx context.Context, l *discover.Listing) error
	UpsertListings(ctx context.Context, ls []discover.Listing) error
	ListListings(ctx context.Context, opts ListingOpts) ([]discover.Listing, error)

	UpsertDeal(ctx context.Context, d *discover.Deal) error
	UpsertDeals(ctx context.Context, ds []discover.Deal) error
	ListDeals(ctx context.Context, opts DealOpts) ([]discover.Deal, error)
	MarkDealAlerted(ctx context.Context, dealID string) error

	UpsertService(ctx context.Context, s *discover.Service) error
	ListServices(ctx context.Context) ([]discover.Service, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertListing(ctx context.Context, l *discover.Listing) error {
	tagsJSON, _ := json.Marshal(l.Tags)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO listings (id, title, description, start, venue_id, venue_name, kind, age_group, category, tags, price, featured, recurrence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			start = excluded.start,
			age_group = excluded.age_group,
			category = excluded.category,
			tags = excluded.tags,
			price = excluded.price,
			featured = excluded.featured,
			recurrence = excluded.recurrence
	`, l.ID, l.Title, l.Description, l.Start, l.VenueID, l.VenueName, string(l.Kind),
		l.AgeGroup, l.Category, string(tagsJSON), l.Price, l.Featured, l.Recurrence)
	if err != nil {
		return fmt.Errorf("upsert listing %s: %w", l.ID, err)
	}
	return nil
}

func (s *SQLiteStore) UpsertListings(ctx context.Context, ls []discover.Listing) error {
	for i := range ls {
		if err := s.UpsertListing(ctx, &ls[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) ListListings(ctx context.Context, opts ListingOpts) ([]discover.Listing, error) {
	query := "SELECT * FROM listings WHERE 1=1"
	var args []any

	if opts.Kind != "" {
		query += " AND kind = ?"
		args = append(args, string(opts.Kind))
	}
	if !opts.Since.IsZero() {
		query += " AND start >= ?"
		args = append(args, opts.Since)
	}

	query += " ORDER BY start"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	var ls []discover.Listing
	if err := s.db.SelectContext(ctx, &ls, query, args...); err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}

	for i := range ls {
		json.Unmarshal([]byte(ls[i].TagsJSON), &ls[i].Tags)
	}
	return ls, nil
}

// dealRow shadows discover.Deal for scanning; deal_price is nullable
// and must round-trip as "absent", not as zero.
type dealRow struct {
	ID             string          `db:"id"`
	Title          string          `db:"title"`
	Description    string          `db:"description"`
	Category       string          `db:"category"`
	VenueID        string          `db:"venue_id"`
	VenueName      string          `db:"venue_name"`
	Schedule       string          `db:"schedule"`
	ValidUntil     string          `db:"valid_until"`
	Discount       string          `db:"discount"`
	DiscountValue  float64         `db:"discount_value"`
	DiscountType   string          `db:"discount_type"`
	SavingsPercent float64         `db:"savings_percent"`
	OriginalPrice  float64         `db:"original_price"`
	DealPrice      sql.NullFloat64 `db:"deal_price"`
	Featured       bool            `db:"featured"`
	Terms          string          `db:"terms"`
	Alerted        bool            `db:"alerted"`
}

func (r dealRow) toDeal() discover.Deal {
	d := discover.Deal{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		Category:       r.Category,
		VenueID:        r.VenueID,
		VenueName:      r.VenueName,
		Schedule:       r.Schedule,
		ValidUntil:     r.ValidUntil,
		Discount:       r.Discount,
		DiscountValue:  r.DiscountValue,
		DiscountType:   discover.DiscountType(r.DiscountType),
		SavingsPercent: r.SavingsPercent,
		OriginalPrice:  r.OriginalPrice,
		Featured:       r.Featured,
		Terms:          r.Terms,
	}
	if r.DealPrice.Valid {
		v := r.DealPrice.Float64
		d.DealPrice = &v
	}
	return d
}

func (s *SQLiteStore) UpsertDeal(ctx context.Context, d *discover.Deal) error {
	dealPrice := sql.NullFloat64{}
	if d.DealPrice != nil {
		dealPrice = sql.NullFloat64{Float64: *d.DealPrice, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO deals (id, title, description, category, venue_id, venue_name, schedule, valid_until, discount, discount_value, discount_type, savings_percent, original_price, deal_price, featured, terms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			category = excluded.category,
			schedule = excluded.schedule,
			valid_until = excluded.valid_until,
			discount = excluded.discount,
			discount_value = excluded.discount_value,
			discount_type = excluded.discount_type,
			savings_percent = excluded.savings_percent,
			original_price = excluded.original_price,
			deal_price = excluded.deal_price,
			featured = excluded.featured,
			terms = excluded.terms
	`, d.ID, d.Title, d.Description, d.Category, d.VenueID, d.VenueName, d.Schedule,
		d.ValidUntil, d.Discount, d.DiscountValue, string(d.DiscountType),
		d.SavingsPercent, d.OriginalPrice, dealPrice, d.Featured, d.Terms)
	if err != nil {
		return fmt.Errorf("upsert deal %s: %w", d.ID, err)
	}
	return nil
}

func (s *SQLiteStore) UpsertDeals(ctx context.Context, ds []discover.Deal) error {
	for i := range ds {
		if err := s.UpsertDeal(ctx, &ds[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) ListDeals(ctx context.Context, opts DealOpts) ([]discover.Deal, error) {
	query := "SELECT * FROM deals WHERE 1=1"
	var args []any

	if opts.Category != "" {
		query += " AND category = ?"
		args = append(args, opts.Category)
	}
	if opts.Unalerted {
		query += " AND alerted = 0"
	}

	query += " ORDER BY rowid"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	var rows []dealRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}

	ds := make([]discover.Deal, len(rows))
	for i, r := range rows {
		ds[i] = r.toDeal()
	}
	return ds, nil
}

func (s *SQLiteStore) MarkDealAlerted(ctx context.Context, dealID string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE deals SET alerted = 1 WHERE id = ?", dealID)
	if err != nil {
		return fmt.Errorf("mark deal alerted %s: %w", dealID, err)
	}
	return nil
}

func (s *SQLiteStore) UpsertService(ctx context.Context, svc *discover.Service) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO services (id, name, category, address)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			address = excluded.address
	`, svc.ID, svc.Name, svc.Category, svc.Address)
	if err != nil {
		return fmt.Errorf("upsert service %s: %w", svc.ID, err)
	}
	return nil
}

func (s *SQLiteStore) ListServices(ctx context.Context) ([]discover.Service, error) {
	var svcs []discover.Service
	if err := s.db.SelectContext(ctx, &svcs, "SELECT * FROM services ORDER BY name"); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return svcs, nil
}
