package notify

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/model"
)

type fakeStore struct {
	pending []model.Notification
	sent    map[int64]time.Time
	failed  map[int64]string
	reset   []int64
}

func newFakeStore(pending ...model.Notification) *fakeStore {
	return &fakeStore{pending: pending, sent: map[int64]time.Time{}, failed: map[int64]string{}}
}

func (s *fakeStore) InTx(_ context.Context, fn func(pgx.Tx) error) error { return fn(nil) }

func (s *fakeStore) ClaimPending(_ context.Context, _ pgx.Tx, limit int) ([]model.Notification, error) {
	if len(s.pending) > limit {
		return s.pending[:limit], nil
	}
	return s.pending, nil
}

func (s *fakeStore) ResetNotification(_ context.Context, _ pgx.Tx, id int64) (model.Notification, error) {
	s.reset = append(s.reset, id)
	for _, n := range s.pending {
		if n.ID == id {
			n.Status = model.NotificationPending
			return n, nil
		}
	}
	return model.Notification{}, errors.New("not found")
}

func (s *fakeStore) MarkNotificationSent(_ context.Context, _ pgx.Tx, id int64, at time.Time) error {
	s.sent[id] = at
	return nil
}

func (s *fakeStore) MarkNotificationFailed(_ context.Context, _ pgx.Tx, id int64, reason string) error {
	s.failed[id] = reason
	return nil
}

type recordingSender struct {
	failFor string
	sent    []string
}

func (s *recordingSender) Send(_ context.Context, to, subject, _ string) error {
	if to == s.failFor {
		return errors.New("mailbox unavailable")
	}
	s.sent = append(s.sent, to+"|"+subject)
	return nil
}

func notification(id int64, to, event string) model.Notification {
	payload, _ := json.Marshal(ReservationDetails{ReservationID: id, CourtID: 1, CourtName: "Cancha 1",
		StartTime: "2025-01-10T10:00:00", EndTime: "2025-01-10T11:00:00"})
	return model.Notification{ID: id, Recipient: to, EventType: event, Channel: "email", Payload: payload, Status: model.NotificationPending}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestDispatchPending(t *testing.T) {
	store := newFakeStore(
		notification(1, "ana@example.com", model.EventReservationCreated),
		notification(2, "broken@example.com", model.EventReservationConfirmed),
		notification(3, "luis@example.com", model.EventReservationCancelled),
	)
	sender := &recordingSender{failFor: "broken@example.com"}
	d := NewDispatcher(store, sender, quietLogger(), DispatcherConfig{BatchSize: 10})

	handled, err := d.DispatchPending(context.Background())
	if err != nil {
		t.Fatalf("DispatchPending: %v", err)
	}
	if handled != 3 {
		t.Fatalf("expected 3 handled, got %d", handled)
	}
	if len(store.sent) != 2 || store.failed[2] != "mailbox unavailable" {
		t.Fatalf("unexpected outcome sent=%v failed=%v", store.sent, store.failed)
	}
	if sender.sent[0] != "ana@example.com|Reservation #1 received" {
		t.Fatalf("unexpected first send %q", sender.sent[0])
	}
}

func TestResend(t *testing.T) {
	store := newFakeStore(notification(7, "ana@example.com", model.EventReservationConfirmed))
	d := NewDispatcher(store, &recordingSender{}, quietLogger(), DispatcherConfig{})
	fixed := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return fixed }

	n, err := d.Resend(context.Background(), 7)
	if err != nil {
		t.Fatalf("Resend: %v", err)
	}
	if n.Status != model.NotificationSent || n.SentAt == nil || !n.SentAt.Equal(fixed) {
		t.Fatalf("unexpected notification %+v", n)
	}
	if len(store.reset) != 1 || store.reset[0] != 7 {
		t.Fatalf("expected reset of 7, got %v", store.reset)
	}
	if _, err := d.Resend(context.Background(), 99); err == nil {
		t.Fatal("expected error for unknown notification")
	}
}

func TestComposeCreated(t *testing.T) {
	price := int64(2550)
	payload, _ := json.Marshal(ReservationDetails{
		ReservationID: 5, CourtName: "Cancha 2", CustomerName: "Ana",
		StartTime: "2025-01-10T10:00:00", EndTime: "2025-01-10T11:00:00",
		PriceCents: &price, ExpiresAt: "2025-01-09T18:15:00",
	})
	subject, body, err := Compose(model.Notification{EventType: model.EventReservationCreated, Payload: payload})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if subject != "Reservation #5 received" {
		t.Fatalf("unexpected subject %q", subject)
	}
	for _, want := range []string{"Hello Ana", "Cancha 2", "Price: 25.50", "confirm before 2025-01-09T18:15:00"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
	if _, _, err := Compose(model.Notification{Payload: []byte("{")}); err == nil {
		t.Fatal("expected payload decode error")
	}
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("a@x", "b@y", "Hi", "Body")
	if !strings.HasPrefix(msg, "From: a@x\r\nTo: b@y\r\nSubject: Hi\r\n") || !strings.HasSuffix(msg, "\r\n\r\nBody\r\n") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestDispatchRoutesByChannel(t *testing.T) {
	text := notification(4, "+54 11 5555-0000", model.EventReservationCreated)
	text.Channel = model.ChannelSMS
	store := newFakeStore(notification(3, "ana@example.com", model.EventReservationCreated), text)

	mail := &recordingSender{}
	sms := &recordingSender{}
	d := NewDispatcher(store, mail, quietLogger(), DispatcherConfig{
		Channels: map[string]Sender{model.ChannelSMS: sms},
	})
	if _, err := d.DispatchPending(context.Background()); err != nil {
		t.Fatalf("DispatchPending: %v", err)
	}
	if len(mail.sent) != 1 || !strings.HasPrefix(mail.sent[0], "ana@example.com|") {
		t.Fatalf("unexpected email sends %v", mail.sent)
	}
	if len(sms.sent) != 1 || !strings.HasPrefix(sms.sent[0], "+54 11 5555-0000|") {
		t.Fatalf("unexpected sms sends %v", sms.sent)
	}
}

func TestWebhookSMSSender(t *testing.T) {
	var got map[string]string
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewWebhookSMSSender(srv.URL, "tok")
	if err := s.Send(context.Background(), "+5411", "ignored", "see you at 10:00"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if auth != "Bearer tok" || got["to"] != "+5411" || got["body"] != "see you at 10:00" {
		t.Fatalf("unexpected request auth=%q body=%v", auth, got)
	}

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()
	if err := NewWebhookSMSSender(failing.URL, "").Send(context.Background(), "+5411", "", "x"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

// smtpSink answers just enough SMTP for one message and hands the DATA section to got.
func smtpSink(t *testing.T, got chan<- string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		rw := bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn))
		reply := func(s string) {
			rw.WriteString(s + "\r\n")
			rw.Flush()
		}
		reply("220 sink ready")
		var data strings.Builder
		inData := false
		for {
			line, err := rw.ReadString('\n')
			if err != nil {
				return
			}
			if inData {
				if line == ".\r\n" {
					inData = false
					got <- data.String()
					reply("250 queued")
					continue
				}
				data.WriteString(line)
				continue
			}
			switch cmd := strings.ToUpper(strings.TrimSpace(line)); {
			case strings.HasPrefix(cmd, "EHLO"):
				reply("250-sink")
				reply("250 8BITMIME")
			case strings.HasPrefix(cmd, "DATA"):
				inData = true
				reply("354 go ahead")
			case strings.HasPrefix(cmd, "QUIT"):
				reply("221 bye")
				return
			default:
				reply("250 ok")
			}
		}
	}()
	return ln.Addr().String()
}

func TestSMTPSenderDelivers(t *testing.T) {
	got := make(chan string, 1)
	host, port, _ := net.SplitHostPort(smtpSink(t, got))

	s := NewSMTPSender(host, port, "club@example.com")
	if err := s.Send(context.Background(), "ana@example.com", "Reserva", "Cancha 1 a las 10:00"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	msg := <-got
	if !strings.Contains(msg, "Subject: Reserva") || !strings.Contains(msg, "Cancha 1 a las 10:00") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestSMTPSenderStopsOnStalledRelay(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		// Accept and never greet.
		conn, err := ln.Accept()
		if err == nil {
			defer conn.Close()
			time.Sleep(5 * time.Second)
		}
	}()
	host, port, _ := net.SplitHostPort(ln.Addr().String())

	tests := []struct {
		name    string
		ctx     func() (context.Context, context.CancelFunc)
		timeout time.Duration
	}{
		{"context deadline", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 100*time.Millisecond)
		}, smtpTimeout},
		{"sender timeout", func() (context.Context, context.CancelFunc) {
			return context.WithCancel(context.Background())
		}, 100 * time.Millisecond},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSMTPSender(host, port, "")
			s.timeout = tc.timeout
			ctx, cancel := tc.ctx()
			defer cancel()

			start := time.Now()
			if err := s.Send(ctx, "ana@example.com", "s", "b"); err == nil {
				t.Fatal("expected error from a silent relay")
			}
			if elapsed := time.Since(start); elapsed > 2*time.Second {
				t.Fatalf("Send took %v", elapsed)
			}
		})
	}
}
