package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jimezsa/jobber/internal/models"
	"github.com/jimezsa/jobber/internal/network"
)

func newHTTPSession(t *testing.T) *HTTPSession {
	t.Helper()
	client, err := network.NewClient(nil, models.BrowserConfig{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return NewHTTPSession(client)
}

func TestHTTPSessionResolvesAgainstFinalURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/viewjob", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/careers/acme/job", http.StatusFound)
	})
	mux.HandleFunc("/careers/acme/job", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a id="contact" href="contact">Contact</a></body></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	page, err := newHTTPSession(t).Navigate(context.Background(), server.URL+"/viewjob?jk=1")
	if err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}
	if want := server.URL + "/careers/acme/job"; page.URL != want {
		t.Fatalf("page.URL = %q, want %q", page.URL, want)
	}
	anchor, err := page.Find("#contact")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got, want := anchor.Href(), server.URL+"/careers/acme/contact"; got != want {
		t.Fatalf("Href() = %q, want %q", got, want)
	}
}

func TestHTTPSessionErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := newHTTPSession(t).Navigate(context.Background(), server.URL+"/missing")
	if err == nil {
		t.Fatalf("Navigate() error = nil, want http 404")
	}
	if !strings.Contains(err.Error(), "http 404") {
		t.Fatalf("Navigate() error = %v, want http 404", err)
	}
}

func TestHTTPSessionSerializesNavigation(t *testing.T) {
	var active, peak int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		fmt.Fprint(w, `<html><body><p>ok</p></body></html>`)
	}))
	defer server.Close()

	session := newHTTPSession(t)
	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = session.Navigate(context.Background(), fmt.Sprintf("%s/page/%d", server.URL, i))
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Navigate(%d) error = %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&peak); got != 1 {
		t.Fatalf("peak concurrent navigations = %d, want 1", got)
	}
}
