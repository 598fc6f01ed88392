package network

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRotatorSkipsBannedProxies(t *testing.T) {
	r, err := NewRotator([]string{"http://p1:8080", "http://p2:8080"}, time.Minute)
	if err != nil {
		t.Fatalf("NewRotator() error = %v", err)
	}

	first, err := r.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	r.Report(first, 429)

	for i := 0; i < 3; i++ {
		next, err := r.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if next.String() == first.String() {
			t.Fatalf("Next() returned banned proxy %s", next)
		}
	}
}

func TestRotatorAllBanned(t *testing.T) {
	r, err := NewRotator([]string{"http://p1:8080"}, time.Minute)
	if err != nil {
		t.Fatalf("NewRotator() error = %v", err)
	}
	proxy, _ := r.Next()
	r.Report(proxy, 403)

	if _, err := r.Next(); !errors.Is(err, ErrNoProxies) {
		t.Fatalf("Next() error = %v, want ErrNoProxies", err)
	}
}

func TestHostLimiterKeysByHost(t *testing.T) {
	hl := NewHostLimiter(1, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := hl.WaitURL(ctx, "https://a.example.com/1"); err != nil {
		t.Fatalf("WaitURL(a) error = %v", err)
	}
	// A different host has its own bucket and must not wait.
	start := time.Now()
	if err := hl.WaitURL(ctx, "https://b.example.com/1"); err != nil {
		t.Fatalf("WaitURL(b) error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Fatalf("WaitURL(b) waited %s, want no wait", elapsed)
	}
}

func TestNewRotatorValidatesAndDedupes(t *testing.T) {
	r, err := NewRotator([]string{"http://p1:8080", " http://p1:8080 ", ""}, time.Minute)
	if err != nil {
		t.Fatalf("NewRotator() error = %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}

	if _, err := NewRotator([]string{"p1:8080"}, time.Minute); err == nil {
		t.Fatalf("expected error for proxy without scheme")
	}
}
