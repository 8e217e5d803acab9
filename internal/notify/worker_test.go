// AngelaMos | 2026
// worker_test.go

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/borka-sandviken/borka-api/internal/user"
)

type mockRecipients struct {
	recipientsFn func(ctx context.Context, prefKey string, limit int) ([]user.User, error)
}

func (m *mockRecipients) Recipients(ctx context.Context, prefKey string, limit int) ([]user.User, error) {
	if m.recipientsFn != nil {
		return m.recipientsFn(ctx, prefKey, limit)
	}
	return nil, nil
}

type recordingSender struct {
	mu     sync.Mutex
	sent   []Message
	failTo map[string]bool
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTo[msg.To] {
		return errors.New("device not registered")
	}
	s.sent = append(s.sent, msg)
	return nil
}

type staticNamer map[string]string

func (n staticNamer) NameForSlug(_ context.Context, slug string) string {
	if name, ok := n[slug]; ok {
		return name
	}
	return slug
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func subscriber(id, token string, categories ...string) user.User {
	prefs := user.DefaultNotificationPreferences()
	prefs.Enabled = true
	for _, c := range categories {
		prefs.Categories[c] = true
	}
	return user.User{ID: id, PushToken: &token, NotificationPreferences: prefs}
}

func TestProcessIsolatesFailures(t *testing.T) {
	var gotKey string
	var gotLimit int
	recipients := &mockRecipients{
		recipientsFn: func(_ context.Context, prefKey string, limit int) ([]user.User, error) {
			gotKey, gotLimit = prefKey, limit
			return []user.User{
				subscriber("u1", "ExponentPushToken[a]", user.PrefTournament),
				subscriber("u2", "ExponentPushToken[b]", user.PrefTournament),
				subscriber("u3", "ExponentPushToken[c]", user.PrefTournament),
			}, nil
		},
	}
	sender := &recordingSender{failTo: map[string]bool{"ExponentPushToken[b]": true}}

	w := NewWorker(WorkerConfig{
		Queue:      NewMemoryQueue(1, time.Millisecond),
		Recipients: recipients,
		Sender:     sender,
		Categories: staticNamer{user.PrefTournament: "Turnering"},
		Logger:     discardLogger(),
	})

	start := time.Date(2025, 3, 7, 17, 30, 0, 0, time.UTC)
	sent, failed, err := w.Process(context.Background(),
		NewEventJob("evt-9", user.PrefTournament, "Catan-SM", start))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if sent != 2 || failed != 1 {
		t.Errorf("sent, failed = %d, %d; want 2, 1", sent, failed)
	}
	if gotKey != user.PrefTournament || gotLimit != DefaultRecipientLimit {
		t.Errorf("recipients queried with %q, %d", gotKey, gotLimit)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("delivered %d messages", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.Title != "Nytt event: Catan-SM" || msg.Body != "Turnering - 07/03 17:30" {
		t.Errorf("message = %q / %q", msg.Title, msg.Body)
	}
	if msg.Data["event_id"] != "evt-9" || msg.Data["type"] != KindNewEvent || msg.Sound != "default" {
		t.Errorf("message data = %v sound %q", msg.Data, msg.Sound)
	}

	stats := w.Stats()
	if stats.Jobs != 1 || stats.Sent != 2 || stats.Failed != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestProcessSkipsUnsubscribed(t *testing.T) {
	optedOut := subscriber("u2", "tok-2", user.PrefNews)
	optedOut.NotificationPreferences.Enabled = false

	recipients := &mockRecipients{
		recipientsFn: func(context.Context, string, int) ([]user.User, error) {
			return []user.User{
				subscriber("u1", "tok-1", user.PrefNews),
				optedOut,
				{ID: "u3", NotificationPreferences: user.DefaultNotificationPreferences()},
			}, nil
		},
	}
	sender := &recordingSender{}

	w := NewWorker(WorkerConfig{Recipients: recipients, Sender: sender, Logger: discardLogger()})

	sent, _, err := w.Process(context.Background(), NewsJob("news-1", "Stängt", "Vi har stängt idag."))
	if err != nil {
		t.Fatal(err)
	}
	if sent != 1 || sender.sent[0].To != "tok-1" {
		t.Errorf("sent = %d, messages = %+v", sent, sender.sent)
	}
}

func TestProcessRejectsInvalidJob(t *testing.T) {
	w := NewWorker(WorkerConfig{Recipients: &mockRecipients{}, Sender: &recordingSender{}, Logger: discardLogger()})

	if _, _, err := w.Process(context.Background(), Job{Kind: "spam"}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if w.Stats().Dropped != 1 {
		t.Errorf("dropped = %d", w.Stats().Dropped)
	}
}

func TestRunDrainsQueue(t *testing.T) {
	queue := NewMemoryQueue(4, 10*time.Millisecond)
	sender := &recordingSender{}
	recipients := &mockRecipients{
		recipientsFn: func(context.Context, string, int) ([]user.User, error) {
			return []user.User{subscriber("u1", "tok", user.PrefNews)}, nil
		},
	}

	dispatcher := NewDispatcher(queue, nil)
	dispatcher.Enqueue(context.Background(), NewsJob("n1", "Rubrik", "Text"))
	dispatcher.Enqueue(context.Background(), NewsJob("n2", "Rubrik 2", "Text"))

	w := NewWorker(WorkerConfig{Queue: queue, Recipients: recipients, Sender: sender, Logger: discardLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for w.Stats().Jobs < 2 {
		select {
		case <-deadline:
			t.Fatal("worker did not drain the queue")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done

	if w.Stats().Sent != 2 {
		t.Errorf("sent = %d, want 2", w.Stats().Sent)
	}
}

func TestDispatcherDropsInvalidJobs(t *testing.T) {
	queue := NewMemoryQueue(1, time.Millisecond)
	d := NewDispatcher(queue, nil)

	d.Enqueue(context.Background(), Job{Kind: KindNewEvent})
	d.Enqueue(context.Background(), NewsJob("n1", "A", "B"))
	d.Enqueue(context.Background(), NewsJob("n2", "full", "queue"))

	n, _ := d.QueueLength(context.Background())
	if n != 1 {
		t.Errorf("queue length = %d, want 1", n)
	}
}

func TestBuildMessageNewsPreview(t *testing.T) {
	long := strings.Repeat("å", 120)
	msg := BuildMessage(context.Background(), NewsJob("n1", "Nytt", long), nil)

	if msg.Title != "BORKA Nyhet: Nytt" {
		t.Errorf("title = %q", msg.Title)
	}
	if msg.Body != strings.Repeat("å", 100)+"..." {
		t.Errorf("body = %q", msg.Body)
	}

	short := BuildMessage(context.Background(), NewsJob("n1", "Nytt", "kort"), nil)
	if short.Body != "kort" {
		t.Errorf("short body = %q", short.Body)
	}

	update := BuildMessage(context.Background(),
		EventUpdateJob("e1", user.PrefMemberNight, "Medlemskväll", time.Time{}), nil)
	if update.Body != "Tid eller plats har ändrats - kolla detaljerna!" {
		t.Errorf("update body = %q", update.Body)
	}
}

func TestExpoSender(t *testing.T) {
	var got Message
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if got.To == "ExponentPushToken[bad]" {
			_, _ = w.Write([]byte(`{"data":{"status":"error","message":"DeviceNotRegistered"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":{"status":"ok","id":"ticket-1"}}`))
	}))
	defer srv.Close()

	s := NewExpoSender(srv.URL, "secret", srv.Client())

	err := s.Send(context.Background(), Message{To: "ExponentPushToken[ok]", Title: "Hej", Sound: "default"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got.Title != "Hej" || auth != "Bearer secret" {
		t.Errorf("request = %+v auth %q", got, auth)
	}

	err = s.Send(context.Background(), Message{To: "ExponentPushToken[bad]"})
	if err == nil || !strings.Contains(err.Error(), "DeviceNotRegistered") {
		t.Errorf("Send(bad) error = %v", err)
	}
}
