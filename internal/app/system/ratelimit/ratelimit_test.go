package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterWindow(t *testing.T) {
	l := New(2, time.Minute)
	defer l.Close()

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("k") || !l.Allow("k") {
		t.Fatal("first two events should pass")
	}
	if l.Allow("k") {
		t.Error("third event should be refused")
	}
	if got := l.Remaining("k"); got != 0 {
		t.Errorf("Remaining: got %d, want 0", got)
	}
	if !l.Allow("other") {
		t.Error("keys are independent")
	}

	now = now.Add(time.Minute)
	if !l.Allow("k") {
		t.Error("a new window should reset the budget")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	if got := ClientIP(r); got != "10.0.0.9" {
		t.Errorf("RemoteAddr: got %q", got)
	}
	r.Header.Set("X-Real-IP", "192.0.2.4")
	if got := ClientIP(r); got != "192.0.2.4" {
		t.Errorf("X-Real-IP: got %q", got)
	}
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(r); got != "203.0.113.7" {
		t.Errorf("X-Forwarded-For: got %q", got)
	}
}

func TestLoginLimiterPerLogin(t *testing.T) {
	ll := NewLoginLimiter()
	defer ll.Close()

	r := httptest.NewRequest("POST", "/login", nil)
	for i := 0; i < 5; i++ {
		if ok, _ := ll.Check(r, "Lea@Example.com"); !ok {
			t.Fatalf("attempt %d refused", i+1)
		}
	}
	if ok, msg := ll.Check(r, "lea@example.com"); ok || msg == "" {
		t.Error("sixth attempt for the same login should be refused")
	}

	ll.Succeeded("lea@example.com")
	if ok, _ := ll.Check(r, "lea@example.com"); !ok {
		t.Error("budget should be cleared after success")
	}
}
