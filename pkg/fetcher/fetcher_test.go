package fetcher

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/deepfield/pkg/links"
	"github.com/google/go-cmp/cmp"
)

var epoch = time.Date(2019, 4, 1, 12, 0, 0, 0, time.UTC)

func newTestGate(t *testing.T, delay time.Duration) (*Gate, *FakeClock) {
	t.Helper()
	clock := NewFakeClock(epoch)
	gate, err := NewGate(delay, clock)
	if err != nil {
		t.Fatalf("NewGate() error = %v", err)
	}
	return gate, clock
}

func TestGateBackToBack(t *testing.T) {
	gate, clock := newTestGate(t, 3*time.Second)
	ctx := context.Background()

	var starts []time.Time
	for i := 0; i < 5; i++ {
		if err := gate.Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
		starts = append(starts, clock.Now())
	}

	for i := 1; i < len(starts); i++ {
		if gap := starts[i].Sub(starts[i-1]); gap < 3*time.Second {
			t.Errorf("gap between request %d and %d = %v, want >= 3s", i-1, i, gap)
		}
	}

	want := []time.Duration{3 * time.Second, 3 * time.Second, 3 * time.Second, 3 * time.Second}
	if diff := cmp.Diff(want, clock.Sleeps()); diff != "" {
		t.Errorf("Sleeps() mismatch (-want +got):\n%s", diff)
	}
}

func TestGateDelayMeasuredFromStart(t *testing.T) {
	gate, clock := newTestGate(t, 3*time.Second)
	ctx := context.Background()

	if err := gate.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	// A fetch that outlasts the delay leaves nothing to wait for.
	clock.Advance(5 * time.Second)
	if err := gate.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if got := clock.Sleeps(); len(got) != 0 {
		t.Fatalf("Sleeps() = %v, want none after a slow fetch", got)
	}

	// A short fetch waits out the remainder only.
	clock.Advance(1 * time.Second)
	if err := gate.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]time.Duration{2 * time.Second}, clock.Sleeps()); diff != "" {
		t.Errorf("Sleeps() mismatch (-want +got):\n%s", diff)
	}
}

func TestGateZeroDelay(t *testing.T) {
	gate, clock := newTestGate(t, 0)
	for i := 0; i < 3; i++ {
		if err := gate.Wait(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if got := clock.Sleeps(); len(got) != 0 {
		t.Errorf("Sleeps() = %v, want none", got)
	}
}

func TestGateCancelled(t *testing.T) {
	gate, clock := newTestGate(t, 3*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := gate.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait() error = %v, want context.Canceled", err)
	}
	if got := clock.Sleeps(); len(got) != 0 {
		t.Errorf("Sleeps() = %v, want none", got)
	}
}

func TestNewGateNegative(t *testing.T) {
	if _, err := NewGate(-time.Second, nil); err == nil {
		t.Error("NewGate() with negative delay should fail")
	}
}

func TestCheckDelay(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	if err := CheckDelay(logger, DefaultCrawlDelay); err != nil {
		t.Fatalf("CheckDelay(default) error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("CheckDelay(default) logged %q, want nothing", buf.String())
	}

	if err := CheckDelay(logger, time.Second); err != nil {
		t.Fatalf("CheckDelay(1s) error = %v", err)
	}
	if !strings.Contains(buf.String(), `"level":"WARN"`) {
		t.Errorf("CheckDelay(1s) logged %q, want a warning", buf.String())
	}

	if err := CheckDelay(logger, -time.Second); err == nil {
		t.Error("CheckDelay(-1s) should fail")
	}
}

func TestFetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if strings.HasSuffix(r.URL.Path, "missing01.shtml") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("<html>" + r.URL.Path + "</html>"))
	}))
	defer srv.Close()

	gate, clock := newTestGate(t, 3*time.Second)
	f := NewFetcher(gate, Options{UserAgent: "deepfield-test", Timeout: 5 * time.Second})

	link := links.MustNew(srv.URL + "/players/t/troutmi01.shtml")
	body, err := f.Fetch(context.Background(), link)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(body) != "<html>/players/t/troutmi01.shtml</html>" {
		t.Errorf("Fetch() = %q", body)
	}
	if gotUA != "deepfield-test" {
		t.Errorf("User-Agent = %q, want deepfield-test", gotUA)
	}

	_, err = f.Fetch(context.Background(), links.MustNew(srv.URL+"/players/m/missing01.shtml"))
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("Fetch() error = %v, want ErrFetch", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("Fetch() error = %v, want 404 StatusError", err)
	}

	if got := len(clock.Sleeps()); got != 1 {
		t.Errorf("gate slept %d times, want 1", got)
	}
}

func TestFetchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	gate, _ := newTestGate(t, 0)
	f := NewFetcher(gate, Options{Timeout: time.Second})
	_, err := f.Fetch(context.Background(), links.MustNew(url+"/players/t/troutmi01.shtml"))
	if !errors.Is(err, ErrFetch) {
		t.Errorf("Fetch() error = %v, want ErrFetch", err)
	}
}
