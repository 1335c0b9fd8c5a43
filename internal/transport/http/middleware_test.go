package httptransport

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckAdminAuth(t *testing.T) {
	mk := func(hdr, val string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/api/admin/refresh", nil)
		if hdr != "" {
			r.Header.Set(hdr, val)
		}
		return r
	}

	if !CheckAdminAuth(mk("X-Admin-Key", "sekrit"), "sekrit") {
		t.Fatal("X-Admin-Key header rejected")
	}
	if !CheckAdminAuth(mk("Authorization", "Bearer sekrit"), "sekrit") {
		t.Fatal("bearer token rejected")
	}
	if CheckAdminAuth(mk("X-Admin-Key", "wrong"), "sekrit") {
		t.Fatal("wrong key accepted")
	}
	if CheckAdminAuth(mk("", ""), "sekrit") {
		t.Fatal("missing credentials accepted")
	}
}

func TestAdminAuthMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	handler := AdminAuthMiddleware("sekrit")(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no-key status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set("X-Admin-Key", "sekrit")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("keyed status = %d, want 204", rec.Code)
	}

	// An empty configured key disables the check entirely.
	open := AdminAuthMiddleware("")(next)
	rec = httptest.NewRecorder()
	open.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("open status = %d, want 204", rec.Code)
	}
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 50, 0},
		{"?limit=10&offset=20", 10, 20},
		{"?limit=0", 1, 0},
		{"?limit=9999", 500, 0},
		{"?offset=-5", 50, 0},
		{"?limit=abc&offset=xyz", 50, 0},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, "/x"+c.query, nil)
		limit, offset := ParsePagination(r)
		if limit != c.wantLimit || offset != c.wantOffset {
			t.Errorf("ParsePagination(%q) = %d,%d want %d,%d", c.query, limit, offset, c.wantLimit, c.wantOffset)
		}
	}
}

func TestParseGuildID(t *testing.T) {
	cases := map[string]int64{
		"":              0,
		"?guild_id=42":  42,
		"?guild_id=-1":  0,
		"?guild_id=abc": 0,
		"?guild_id=0":   0,
	}
	for q, want := range cases {
		r := httptest.NewRequest(http.MethodGet, "/x"+q, nil)
		if got := ParseGuildID(r); got != want {
			t.Errorf("ParseGuildID(%q) = %d, want %d", q, got, want)
		}
	}
}

func TestParseWeekStart(t *testing.T) {
	mk := func(q string) *http.Request {
		return httptest.NewRequest(http.MethodGet, "/x"+q, nil)
	}

	if ws, ok := parseWeekStart(mk("")); !ok || ws != nil {
		t.Fatalf("absent week_start = %v,%v want nil,true", ws, ok)
	}
	ws, ok := parseWeekStart(mk("?week_start=2025-06-02"))
	if !ok || ws == nil {
		t.Fatalf("date week_start rejected")
	}
	if ws.Year() != 2025 || ws.Month() != 6 || ws.Day() != 2 {
		t.Fatalf("parsed week_start = %v", ws)
	}
	if _, ok := parseWeekStart(mk("?week_start=junk")); ok {
		t.Fatal("malformed week_start accepted")
	}
}
