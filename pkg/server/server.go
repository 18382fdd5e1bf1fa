package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mgeorgiev/localpulse/internal/scheduler"
	"github.com/mgeorgiev/localpulse/internal/store"
	"github.com/mgeorgiev/localpulse/pkg/discover"
)

// Server provides the HTTP API.
type Server struct {
	store store.Store
	sched *scheduler.Scheduler
	loc   *time.Location
	port  int
}

// New creates a new HTTP server.
func New(s store.Store, sched *scheduler.Scheduler, loc *time.Location, port int) *Server {
	if port == 0 {
		port = 8080
	}
	if loc == nil {
		loc = time.Local
	}
	return &Server{
		store: s,
		sched: sched,
		loc:   loc,
		port:  port,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/deals", s.handleDeals)
	mux.HandleFunc("/api/v1/deals/related", s.handleRelatedDeals)
	mux.HandleFunc("/api/v1/categories", s.handleCategories)
	mux.HandleFunc("/api/v1/search", s.handleSearch)
	mux.HandleFunc("/api/v1/refresh", s.handleRefresh)

	addr := fmt.Sprintf(":%d", s.port)
	fmt.Printf("localpulse server listening on %s\n", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestNow resolves the reference time for a request. A "now" query
// parameter (RFC 3339) overrides the clock, which keeps filter output
// reproducible.
func (s *Server) requestNow(r *http.Request) time.Time {
	if raw := r.URL.Query().Get("now"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t.In(s.loc)
		}
	}
	return time.Now().In(s.loc)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	listings, err := s.store.ListListings(r.Context(), store.ListingOpts{})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	q := eventQueryFromRequest(r)
	filtered := discover.FilterListings(listings, q, s.requestNow(r))

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  filtered,
		"count": len(filtered),
	})
}

func (s *Server) handleDeals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	deals, err := s.store.ListDeals(r.Context(), store.DealOpts{})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	q := discover.DealQuery{
		Search:     r.URL.Query().Get("q"),
		Categories: r.URL.Query()["category"],
	}
	filtered := discover.FilterDeals(deals, q, s.requestNow(r))

	type scoredDeal struct {
		discover.Deal
		Score   float64                `json:"score"`
		Savings *discover.SavingsLabel `json:"savings,omitempty"`
	}
	out := make([]scoredDeal, len(filtered))
	for i, d := range filtered {
		out[i] = scoredDeal{
			Deal:    d,
			Score:   discover.Score(d),
			Savings: discover.SavingsDisplay(d),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  out,
		"count": len(out),
	})
}

func (s *Server) handleRelatedDeals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing id parameter"})
		return
	}

	deals, err := s.store.ListDeals(r.Context(), store.DealOpts{})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var target *discover.Deal
	for i := range deals {
		if deals[i].ID == id {
			target = &deals[i]
			break
		}
	}
	if target == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "deal not found"})
		return
	}

	related := discover.RelatedDeals(*target, deals)
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  related,
		"count": len(related),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	deals, err := s.store.ListDeals(r.Context(), store.DealOpts{})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	counts := make(map[string]int)
	for _, d := range deals {
		counts[discover.NormalizeDealCategory(d.Category)]++
	}

	type categoryInfo struct {
		Name  string `json:"name"`
		Deals int    `json:"deals"`
	}
	var infos []categoryInfo
	for _, name := range discover.CanonicalDealCategories() {
		infos = append(infos, categoryInfo{Name: name, Deals: counts[name]})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  infos,
		"count": len(infos),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	ctx := r.Context()
	listings, err := s.store.ListListings(ctx, store.ListingOpts{})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	deals, err := s.store.ListDeals(ctx, store.DealOpts{})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	services, err := s.store.ListServices(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	results := discover.SearchAll(r.URL.Query().Get("q"), discover.Pools{
		Listings: listings,
		Deals:    deals,
		Services: services,
	}, s.requestNow(r), limit)

	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	s.sched.Ingest(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// eventQueryFromRequest maps URL query parameters onto a filter query.
// Unrecognized values pass through untouched; the engine treats them as
// no-ops.
func eventQueryFromRequest(r *http.Request) discover.EventQuery {
	params := r.URL.Query()
	q := discover.EventQuery{
		Section:    params.Get("section"),
		Day:        params.Get("day"),
		Age:        params.Get("age"),
		Categories: params["category"],
		TimeOfDay:  params.Get("time"),
		Price:      params.Get("price"),
		Search:     params.Get("q"),
	}
	if raw := params.Get("kids_age"); raw != "" {
		q.KidsAgeRange = parseKidsAge(raw)
	}
	return q
}

// parseKidsAge parses "N-M" or "prenatal" into an age range; anything
// else means no range restriction.
func parseKidsAge(raw string) *discover.AgeRange {
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

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
