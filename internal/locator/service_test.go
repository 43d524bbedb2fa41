package locator

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

// stubTransport answers every request with a fixed status and records the
// URL that was fetched.
type stubTransport struct {
	status  int
	lastURL *url.URL
}

func (t *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.lastURL = req.URL
	return &http.Response{
		StatusCode: t.status,
		Body:       io.NopCloser(strings.NewReader("")),
		Header:     make(http.Header),
	}, nil
}

func TestEmbedURL(t *testing.T) {
	svc := NewWithClient("test-key", http.DefaultClient)

	got := svc.EmbedURL("Newcastle upon Tyne")

	if !strings.HasPrefix(got, "https://www.google.com/maps/embed/v1/search?") {
		t.Fatalf("got URL %q, want the maps embed search endpoint", got)
	}

	parsed, err := url.Parse(got)
	if err != nil {
		t.Fatalf("embed URL does not parse: %v", err)
	}
	q := parsed.Query()
	if want := "Food Banks near Newcastle upon Tyne"; q.Get("q") != want {
		t.Errorf("got query %q, want %q", q.Get("q"), want)
	}
	if q.Get("key") != "test-key" {
		t.Errorf("got key %q, want test-key", q.Get("key"))
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "resolvable location", status: http.StatusOK},
		{name: "rejected query", status: http.StatusForbidden, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &stubTransport{status: tt.status}
			svc := NewWithClient("test-key", &http.Client{Transport: transport})

			got, err := svc.Lookup(context.Background(), "Leeds")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != svc.EmbedURL("Leeds") {
				t.Errorf("got URL %q, want the embed URL", got)
			}
			if transport.lastURL == nil || transport.lastURL.Host != "www.google.com" {
				t.Errorf("lookup fetched %v, want the maps host", transport.lastURL)
			}
		})
	}
}
