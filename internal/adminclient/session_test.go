package adminclient

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestDoAttachesBearerToken(t *testing.T) {
	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := New(srv.URL, "tok-123", nil)
	defer s.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/bookings", nil)
	resp, err := s.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	resp.Body.Close()

	if auth, _ := gotAuth.Load().(string); auth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q", auth)
	}
}

func TestDoFailsAfterInactivity(t *testing.T) {
	s := New("http://unused.invalid", "tok", nil)
	s.InactivityTimeout = 10 * time.Millisecond
	defer s.Close()

	time.Sleep(20 * time.Millisecond)

	req, _ := http.NewRequest(http.MethodGet, "http://unused.invalid/", nil)
	if _, err := s.Do(req); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if s.Token() != "" {
		t.Fatal("token survived expiry")
	}
}

func TestVerifyFailureExpiresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	expired := make(chan string, 1)
	s := New(srv.URL, "revoked-token", func(reason string) { expired <- reason })
	s.VerifyInterval = 10 * time.Millisecond
	s.InactivityCheckInterval = time.Hour
	s.Start()
	defer s.Close()

	select {
	case reason := <-expired:
		if reason != "unauthorized" {
			t.Fatalf("reason = %q, want unauthorized", reason)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session never expired on failed verification")
	}

	if s.Token() != "" {
		t.Fatal("token survived failed verification")
	}
}

func TestInactivityLoopExpiresAndTouchDefers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	expired := make(chan string, 1)
	s := New(srv.URL, "tok", func(reason string) { expired <- reason })
	s.InactivityTimeout = 60 * time.Millisecond
	s.InactivityCheckInterval = 10 * time.Millisecond
	s.VerifyInterval = time.Hour
	s.Start()
	defer s.Close()

	// Activity within the timeout keeps the session alive.
	for i := 0; i < 5; i++ {
		time.Sleep(20 * time.Millisecond)
		s.Touch()
	}
	select {
	case reason := <-expired:
		t.Fatalf("session expired (%s) despite activity", reason)
	default:
	}

	// Now go idle past the timeout.
	select {
	case reason := <-expired:
		if reason != "inactivity" {
			t.Fatalf("reason = %q, want inactivity", reason)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session never expired after going idle")
	}
}

func TestCloseDoesNotFireOnExpire(t *testing.T) {
	var calls atomic.Int32
	s := New("http://unused.invalid", "tok", func(string) { calls.Add(1) })
	s.VerifyInterval = 5 * time.Millisecond
	s.InactivityCheckInterval = 5 * time.Millisecond
	s.Start()

	s.Close()
	time.Sleep(30 * time.Millisecond)

	if n := calls.Load(); n != 0 {
		t.Fatalf("onExpire fired %d times after Close", n)
	}
}

func TestExpireFiresOnce(t *testing.T) {
	var calls atomic.Int32
	s := New("http://unused.invalid", "tok", func(string) { calls.Add(1) })

	s.expire("inactivity")
	s.expire("unauthorized")

	if n := calls.Load(); n != 1 {
		t.Fatalf("onExpire fired %d times, want 1", n)
	}
}
