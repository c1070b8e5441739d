package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Owen-Pu/Networking-Agent/internal/config"
	"github.com/Owen-Pu/Networking-Agent/internal/domain"
)

func newTestClient() *Client {
	return NewClient(config.FetchConfig{UserAgent: "test-agent"}).WithDelay(0)
}

func TestFetchPage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("unexpected user agent: %s", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer server.Close()

	body, err := newTestClient().FetchPage(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchPage error: %v", err)
	}
	if body != "<html><body>hello</body></html>" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestFetchPageNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := newTestClient().FetchPage(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}

	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %T", err)
	}
	if fetchErr.URL != server.URL {
		t.Fatalf("unexpected error URL: %s", fetchErr.URL)
	}
}

func TestFetchPageEmptyBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, err := newTestClient().FetchPage(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for empty body")
	}

	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %T", err)
	}
}
