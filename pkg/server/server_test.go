package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mgeorgiev/localpulse/internal/store"
	"github.com/mgeorgiev/localpulse/pkg/discover"
)

// stubStore serves fixed pools; the handlers do all filtering in memory.
type stubStore struct {
	listings []discover.Listing
	deals    []discover.Deal
	services []discover.Service
}

func (s *stubStore) UpsertListing(context.Context, *discover.Listing) error   { return nil }
func (s *stubStore) UpsertListings(context.Context, []discover.Listing) error { return nil }
func (s *stubStore) ListListings(context.Context, store.ListingOpts) ([]discover.Listing, error) {
	return s.listings, nil
}
func (s *stubStore) UpsertDeal(context.Context, *discover.Deal) error   { return nil }
func (s *stubStore) UpsertDeals(context.Context, []discover.Deal) error { return nil }
func (s *stubStore) ListDeals(context.Context, store.DealOpts) ([]discover.Deal, error) {
	return s.deals, nil
}
func (s *stubStore) MarkDealAlerted(context.Context, string) error          { return nil }
func (s *stubStore) UpsertService(context.Context, *discover.Service) error { return nil }
func (s *stubStore) ListServices(context.Context) ([]discover.Service, error) {
	return s.services, nil
}
func (s *stubStore) Close() error { return nil }

func TestHandleEvents_FiltersAndClock(t *testing.T) {
	now := time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC)
	srv := New(&stubStore{
		listings: []discover.Listing{
			{ID: "past", Title: "Last month's fair", Start: now.AddDate(0, -1, 0), Kind: discover.KindEvent},
			{ID: "up", Title: "Pottery Night", Start: now.Add(48 * time.Hour), Kind: discover.KindClass},
			{ID: "soon", Title: "Jazz in the Park", Start: now.Add(24 * time.Hour), Kind: discover.KindEvent},
		},
	}, nil, time.UTC, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events?day=today&now="+url.QueryEscape(now.Format(time.RFC3339)), nil)
	rec := httptest.NewRecorder()
	srv.handleEvents(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data  []discover.Listing `json:"data"`
		Count int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	require.Equal(t, "soon", resp.Data[0].ID, "sorted by start ascending")
	require.Equal(t, "up", resp.Data[1].ID)
}

func TestHandleDeals_ScoredAndRanked(t *testing.T) {
	srv := New(&stubStore{
		deals: []discover.Deal{
			{ID: "weak", Title: "Ask about our specials"},
			{ID: "strong", Title: "50% off day passes"},
			{ID: "mid", Title: "20% off merch"},
		},
	}, nil, time.UTC, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
	rec := httptest.NewRecorder()
	srv.handleDeals(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []struct {
			ID      string                 `json:"id"`
			Score   float64                `json:"score"`
			Savings *discover.SavingsLabel `json:"savings"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2, "vague deal is filtered out")
	require.Equal(t, "strong", resp.Data[0].ID)
	require.NotNil(t, resp.Data[0].Savings)
	require.Equal(t, "50% OFF", resp.Data[0].Savings.Text)
}

func TestHandleRelatedDeals(t *testing.T) {
	srv := New(&stubStore{
		deals: []discover.Deal{
			{ID: "d1", Title: "30% off pizza", VenueName: "Forno Rosso"},
			{ID: "d2", Title: "Free dessert", VenueName: "forno rosso"},
			{ID: "d3", Title: "BOGO tickets", VenueName: "Cineplex"},
		},
	}, nil, time.UTC, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deals/related?id=d1", nil)
	rec := httptest.NewRecorder()
	srv.handleRelatedDeals(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []discover.Deal `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "d2", resp.Data[0].ID)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/deals/related?id=missing", nil)
	rec = httptest.NewRecorder()
	srv.handleRelatedDeals(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleCategories_CanonicalSet(t *testing.T) {
	srv := New(&stubStore{
		deals: []discover.Deal{
			{ID: "d1", Category: "pizza"},
			{ID: "d2", Category: "brewery"},
			{ID: "d3", Category: "mystery-cuisine"},
		},
	}, nil, time.UTC, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	rec := httptest.NewRecorder()
	srv.handleCategories(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []struct {
			Name  string `json:"name"`
			Deals int    `json:"deals"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, len(discover.CanonicalDealCategories()))

	counts := make(map[string]int)
	for _, c := range resp.Data {
		counts[c.Name] = c.Deals
	}
	require.Equal(t, 1, counts[discover.CategoryOther], "unknown raw categories land in Other")
}

func TestEventQueryFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/events?section=class&day=thisWeekend&age=kids&kids_age=4-6&category=Music&category=Arts&time=morning&price=free&q=drums", nil)

	q := eventQueryFromRequest(req)
	require.Equal(t, "class", q.Section)
	require.Equal(t, "thisWeekend", q.Day)
	require.Equal(t, "kids", q.Age)
	require.Equal(t, &discover.AgeRange{Min: 4, Max: 6}, q.KidsAgeRange)
	require.Equal(t, []string{"Music", "Arts"}, q.Categories)
	require.Equal(t, "morning", q.TimeOfDay)
	require.Equal(t, "free", q.Price)
	require.Equal(t, "drums", q.Search)
}

func TestParseKidsAge(t *testing.T) {
	require.Equal(t, &discover.AgeRange{Min: 7, Max: 10}, parseKidsAge("7-10"))
	require.True(t, parseKidsAge("prenatal").Prenatal())
	require.Nil(t, parseKidsAge("toddlers"))
	require.Nil(t, parseKidsAge("4-x"))
}
