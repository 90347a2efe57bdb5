package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/md-rashed-zaman/courtreserve/libs/auth"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/availability"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/booking"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/storage"
)

const testSecret = "test-secret"

type fakeUsers map[int64]model.User

func (f fakeUsers) GetUser(_ context.Context, id int64) (model.User, error) {
	u, ok := f[id]
	if !ok {
		return model.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (f fakeUsers) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range f {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, storage.ErrNotFound
}

func newTestServer(t *testing.T) (*httptest.Server, *Authenticator, fakeUsers) {
	t.Helper()
	hash, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := fakeUsers{
		1: {ID: 1, Email: "admin@example.com", HashedPassword: hash, IsActive: true, IsAdmin: true},
		2: {ID: 2, Email: "ana@example.com", HashedPassword: hash, IsActive: true},
		3: {ID: 3, Email: "off@example.com", HashedPassword: hash},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authn := NewAuthenticator(users, testSecret, time.Hour, logger)

	mux := http.NewServeMux()
	NewAPI(Deps{Auth: authn, Logger: logger}).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, authn, users
}

func do(t *testing.T, method, target, token, body string) (*http.Response, string) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, target, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}

func detail(t *testing.T, body string) string {
	t.Helper()
	var out struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}
	return out.Detail
}

func tokenFor(t *testing.T, a *Authenticator, u model.User) string {
	t.Helper()
	tok, err := a.Token(u)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return tok
}

func TestLogin(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", `{"email":"ana@example.com","password":"nope"}`)
	if resp.StatusCode != http.StatusBadRequest || detail(t, body) != "Incorrect email or password" {
		t.Fatalf("bad password: %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", `{"email":"off@example.com","password":"secret123"}`)
	if resp.StatusCode != http.StatusBadRequest || detail(t, body) != "Inactive user" {
		t.Fatalf("inactive: %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", `{"email":"ANA@example.com","password":"secret123"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: %d %s", resp.StatusCode, body)
	}
	var tok tokenResponse
	if err := json.Unmarshal([]byte(body), &tok); err != nil {
		t.Fatalf("decode: %v", err)
	}
	claims, err := auth.ParseAndVerifyHS256(tok.AccessToken, testSecret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "2" || claims.Role != auth.RoleUser || tok.TokenType != "bearer" {
		t.Fatalf("claims = %+v, type %q", claims, tok.TokenType)
	}
}

func TestLoginForm(t *testing.T) {
	srv, _, _ := newTestServer(t)

	form := url.Values{"username": {"admin@example.com"}, "password": {"secret123"}}
	resp, err := http.PostForm(srv.URL+"/api/v1/auth/login", form)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestRequireAuth(t *testing.T) {
	srv, authn, users := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/v1/users/me", "", "")
	if resp.StatusCode != http.StatusUnauthorized || resp.Header.Get("WWW-Authenticate") != "Bearer" {
		t.Fatalf("no token: %d %s", resp.StatusCode, body)
	}

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/users/me", "garbage", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", resp.StatusCode)
	}

	ghost := tokenFor(t, authn, model.User{ID: 99})
	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/users/me", ghost, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unknown user: %d", resp.StatusCode)
	}

	resp, body = do(t, http.MethodGet, srv.URL+"/api/v1/users/me", tokenFor(t, authn, users[3]), "")
	if resp.StatusCode != http.StatusBadRequest || detail(t, body) != "Inactive user" {
		t.Fatalf("inactive: %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, http.MethodGet, srv.URL+"/api/v1/users/me", tokenFor(t, authn, users[2]), "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"email":"ana@example.com"`) {
		t.Fatalf("me: %d %s", resp.StatusCode, body)
	}
}

func TestAdminOnly(t *testing.T) {
	srv, authn, users := newTestServer(t)

	for _, path := range []string{
		"/api/v1/users",
		"/api/v1/admin/schedules",
		"/api/v1/admin/notifications",
		"/api/v1/reports/revenue?date_from=2025-01-01&date_to=2025-01-31",
	} {
		resp, body := do(t, http.MethodGet, srv.URL+path, tokenFor(t, authn, users[2]), "")
		if resp.StatusCode != http.StatusForbidden || detail(t, body) != "Insufficient permissions" {
			t.Fatalf("%s: %d %s", path, resp.StatusCode, body)
		}
	}
}

func TestAvailabilityValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)

	tests := []struct {
		query  string
		status int
		detail string
	}{
		{"", http.StatusUnprocessableEntity, "date is required"},
		{"date=10-01-2025", http.StatusUnprocessableEntity, `invalid date "10-01-2025"`},
		{"date=2025-01-10&slot_minutes=0", http.StatusBadRequest, "slot_minutes must be positive"},
		{"date=2025-01-10&slot_minutes=-30", http.StatusBadRequest, "slot_minutes must be positive"},
		{"date=2025-01-10&from_hour=8", http.StatusBadRequest, "from_hour and to_hour must be provided together"},
		{"date=2025-01-10&to_hour=12", http.StatusBadRequest, "from_hour and to_hour must be provided together"},
		{"date=2025-01-10&from_hour=12&to_hour=12", http.StatusBadRequest, "from_hour must be before to_hour"},
		{"date=2025-01-10&from_hour=8&to_hour=25", http.StatusUnprocessableEntity, "hours must be between 0 and 24"},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			resp, body := do(t, http.MethodGet, srv.URL+"/api/v1/courts/1/availability?"+tc.query, "", "")
			if resp.StatusCode != tc.status || detail(t, body) != tc.detail {
				t.Fatalf("got %d %s, want %d %q", resp.StatusCode, body, tc.status, tc.detail)
			}
		})
	}
}

func TestParseAvailabilityOverride(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?date=2025-01-10&slot_minutes=30&from_hour=8&to_hour=10", nil)
	p, status, msg := parseAvailability(req)
	if status != 0 {
		t.Fatalf("status %d: %s", status, msg)
	}
	if p.slot != 30*time.Minute || len(p.override) != 1 {
		t.Fatalf("params = %+v", p)
	}
	want := availability.MustWindow(
		time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC),
	)
	if !p.override[0].Equal(want) {
		t.Fatalf("override = %v, want %v", p.override[0], want)
	}
}

func TestCreateReservationValidation(t *testing.T) {
	srv, authn, users := newTestServer(t)
	tok := tokenFor(t, authn, users[2])

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"empty body", ``, http.StatusBadRequest},
		{"unknown field", `{"court_id":1,"bogus":true}`, http.StatusBadRequest},
		{"missing name", `{"court_id":1,"start_time":"2025-01-10T08:00:00","end_time":"2025-01-10T09:00:00"}`, http.StatusUnprocessableEntity},
		{"bad timestamp", `{"court_id":1,"start_time":"tomorrow","end_time":"2025-01-10T09:00:00","customer_name":"Ana"}`, http.StatusUnprocessableEntity},
		{"end before start", `{"court_id":1,"start_time":"2025-01-10T09:00:00","end_time":"2025-01-10T08:00:00","customer_name":"Ana"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, srv.URL+"/api/v1/reservations", tok, tc.body)
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d (%s), want %d", resp.StatusCode, body, tc.status)
			}
		})
	}
}

func TestReportRangeValidation(t *testing.T) {
	srv, authn, users := newTestServer(t)
	tok := tokenFor(t, authn, users[1])

	resp, body := do(t, http.MethodGet, srv.URL+"/api/v1/reports/revenue?date_from=2025-02-01&date_to=2025-01-01", tok, "")
	if resp.StatusCode != http.StatusBadRequest || detail(t, body) != "date_from must be before date_to" {
		t.Fatalf("inverted range: %d %s", resp.StatusCode, body)
	}
	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/reports/occupancy?date_from=2025-01-01", tok, "")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("missing date_to: %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/reports/occupancy?date_from=2025-01-01&date_to=2025-01-02&slot_minutes=0", tok, "")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("zero slot: %d", resp.StatusCode)
	}
}

func TestCalendarValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, _ := do(t, http.MethodGet, srv.URL+"/api/v1/calendars/courts/1.txt", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("wrong suffix: %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/calendars/courts/abc.ics", "", "")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("bad id: %d", resp.StatusCode)
	}
	for _, days := range []string{"0", "181", "x"} {
		resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/calendars/courts/1.ics?days="+days, "", "")
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("days=%s: %d", days, resp.StatusCode)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		detail string
	}{
		{booking.ErrCourtNotFound, http.StatusNotFound, "Court not found"},
		{fmt.Errorf("create: %w", booking.ErrSlotTaken), http.StatusBadRequest, "Time slot already booked"},
		{booking.ErrSlotConflict, http.StatusConflict, "Time slot already booked"},
		{booking.ErrForbidden, http.StatusForbidden, "Not authorized for this reservation"},
		{booking.ErrCancelled, http.StatusBadRequest, "Reservation is cancelled"},
		{availability.ErrInvalidInterval, http.StatusBadRequest, "end_time must be after start_time"},
		{errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range tests {
		status, msg, _ := statusFor(tc.err)
		if status != tc.status || msg != tc.detail {
			t.Fatalf("statusFor(%v) = %d %q, want %d %q", tc.err, status, msg, tc.status, tc.detail)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 1, 10, 8, 30, 0, 0, time.UTC)
	for _, in := range []string{
		"2025-01-10T08:30:00",
		"2025-01-10T08:30",
		"2025-01-10 08:30:00",
		"2025-01-10T08:30:00Z",
		"2025-01-10T05:30:00-03:00",
		"2025-01-10T08:30:00.000",
	} {
		got, err := parseTimestamp(in)
		if err != nil {
			t.Fatalf("parseTimestamp(%q): %v", in, err)
		}
		if !got.Equal(want) || got.Location() != time.UTC {
			t.Fatalf("parseTimestamp(%q) = %v", in, got)
		}
	}
	if _, err := parseTimestamp("10/01/2025"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestScheduleUpdateCourtField(t *testing.T) {
	current := model.ForCourt(5)
	tests := []struct {
		name   string
		body   string
		status int
		want   model.CourtScope
	}{
		{"absent keeps court", `{"is_active": false}`, http.StatusOK, model.ForCourt(5)},
		{"null moves to every court", `{"court_id": null}`, http.StatusOK, model.AnyCourt()},
		{"id moves to court", `{"court_id": 3}`, http.StatusOK, model.ForCourt(3)},
		{"negative id", `{"court_id": -1}`, http.StatusUnprocessableEntity, current},
		{"not a number", `{"court_id": "x"}`, http.StatusBadRequest, current},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPut, "/api/v1/admin/schedules/1", strings.NewReader(tc.body))
			w := httptest.NewRecorder()
			var req scheduleUpdate
			ok := decode(w, r, &req)
			if !ok {
				if w.Code != tc.status {
					t.Fatalf("status = %d, want %d (%s)", w.Code, tc.status, w.Body.String())
				}
				return
			}
			if tc.status != http.StatusOK {
				t.Fatalf("decode accepted %s", tc.body)
			}
			if got := req.CourtID.apply(current); got != tc.want {
				t.Fatalf("scope = %+v, want %+v", got, tc.want)
			}
		})
	}
}
