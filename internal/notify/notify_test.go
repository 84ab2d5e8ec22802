package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hyunseo-dev/lckbot/internal/store"
)

type fakeStore struct {
	rows map[string][]store.Record // table -> records
	err  error
}

func (f *fakeStore) ByDate(_ context.Context, table, date string) ([]store.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []store.Record
	for _, rec := range f.rows[table] {
		if rec.MatchDate == date {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) Placeholders(context.Context, string) ([]store.Record, error) {
	return nil, nil
}
func (f *fakeStore) Upcoming(context.Context, string, string) ([]store.Record, error) {
	return nil, nil
}
func (f *fakeStore) Upsert(context.Context, string, store.Record) error { return nil }
func (f *fakeStore) Delete(context.Context, string, string) error      { return nil }
func (f *fakeStore) Clear(context.Context, string) error               { return nil }

type fakeSender struct {
	sent    []string // messages
	urls    []string
	failOn  int // 1-based index of the send to fail; 0 = never
	attempt int
}

func (f *fakeSender) Send(_ context.Context, url, message string) error {
	f.attempt++
	if f.failOn != 0 && f.attempt == f.failOn {
		return errors.New("webhook down")
	}
	f.sent = append(f.sent, message)
	f.urls = append(f.urls, url)
	return nil
}

func newNotifier(gw store.Gateway, sender Sender, webhooks map[string]string) *Notifier {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(gw, sender, webhooks, time.UTC, time.Millisecond, logger)
}

func record(id, date string, hour int, opponent string) store.Record {
	return store.Record{
		MatchID:       id,
		MatchDate:     date,
		MatchTime:     "17:00",
		MatchDatetime: time.Date(2025, 10, 20, hour, 0, 0, 0, time.UTC),
		Opponent:      opponent,
		Tournament:    "Worlds",
	}
}

func TestRunSendsOnlyToday(t *testing.T) {
	gw := &fakeStore{rows: map[string][]store.Record{
		"t1_matches": {
			record("a", "2025-10-20", 17, "Gen.G"),
			record("b", "2025-10-21", 17, "HLE"),
		},
	}}
	sender := &fakeSender{}
	webhooks := map[string]string{"t1_matches": "https://discord.test/hook"}

	sent := newNotifier(gw, sender, webhooks).Run(context.Background(), "2025-10-20")

	if sent != 1 {
		t.Fatalf("expected 1 notification, got %d", sent)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sender called %d times", len(sender.sent))
	}
}

func TestRunSkipsTeamsWithoutWebhook(t *testing.T) {
	gw := &fakeStore{rows: map[string][]store.Record{
		"t1_matches":   {record("a", "2025-10-20", 17, "Gen.G")},
		"geng_matches": {record("b", "2025-10-20", 19, "T1")},
	}}
	sender := &fakeSender{}
	webhooks := map[string]string{"geng_matches": "https://discord.test/geng"}

	sent := newNotifier(gw, sender, webhooks).Run(context.Background(), "2025-10-20")

	if sent != 1 {
		t.Fatalf("expected 1 notification, got %d", sent)
	}
	if sender.urls[0] != "https://discord.test/geng" {
		t.Errorf("message went to %q", sender.urls[0])
	}
}

func TestRunContinuesAfterFailure(t *testing.T) {
	gw := &fakeStore{rows: map[string][]store.Record{
		"t1_matches": {
			record("a", "2025-10-20", 15, "Gen.G"),
			record("b", "2025-10-20", 19, "HLE"),
		},
	}}
	sender := &fakeSender{failOn: 1}
	webhooks := map[string]string{"t1_matches": "https://discord.test/hook"}

	sent := newNotifier(gw, sender, webhooks).Run(context.Background(), "2025-10-20")

	if sent != 1 {
		t.Fatalf("expected the second message to go out, sent=%d", sent)
	}
}

func TestRunStoreErrorSkipsTeam(t *testing.T) {
	gw := &fakeStore{err: errors.New("store unavailable")}
	sender := &fakeSender{}
	webhooks := map[string]string{"t1_matches": "https://discord.test/hook"}

	sent := newNotifier(gw, sender, webhooks).Run(context.Background(), "2025-10-20")

	if sent != 0 {
		t.Fatalf("expected 0 notifications, got %d", sent)
	}
}

func TestDiscordSenderPayload(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sender := NewDiscordSender("LOL 경기 알림봇")
	if err := sender.Send(context.Background(), srv.URL, "hello"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got.Content != "hello" || got.Username != "LOL 경기 알림봇" {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestDiscordSenderNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	sender := NewDiscordSender("bot")
	if err := sender.Send(context.Background(), srv.URL, "hello"); err == nil {
		t.Fatal("expected error on 429 response")
	}
}
