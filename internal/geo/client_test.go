package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLookupResolvesPublicIP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/8.8.8.8/json/", r.URL.Path)
		fmt.Fprint(w, `{"ip":"8.8.8.8","country_code":"US","country_name":"United States","currency":"USD","city":"Mountain View","timezone":"America/Los_Angeles"}`)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientOptions{BaseURL: srv.URL})
	loc := client.Lookup(context.Background(), "8.8.8.8")

	assert.Equal(t, "US", loc.CountryCode)
	assert.Equal(t, "USD", loc.Currency)
	assert.False(t, loc.Fallback)
}

func TestLookupPrivateIPFallsBack(t *testing.T) {
	client := NewClient(ClientOptions{BaseURL: "http://unreachable.invalid"})

	for _, ip := range []string{"127.0.0.1", "10.1.2.3", "192.168.0.1", "", "not-an-ip"} {
		loc := client.Lookup(context.Background(), ip)
		assert.True(t, loc.Fallback, "ip %q should fall back", ip)
		assert.Equal(t, "NG", loc.CountryCode)
		assert.Equal(t, "NGN", loc.Currency)
		assert.Equal(t, "Nigeria", loc.CountryName)
	}
}

func TestLookupProviderErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":true,"reason":"RateLimited"}`)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientOptions{BaseURL: srv.URL})
	loc := client.Lookup(context.Background(), "8.8.8.8")

	assert.True(t, loc.Fallback)
	assert.Equal(t, "NG", loc.CountryCode)
}

func TestLookupNonOKStatusFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientOptions{BaseURL: srv.URL})
	loc := client.Lookup(context.Background(), "8.8.8.8")

	assert.True(t, loc.Fallback)
}

func TestLookupTimeoutFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientOptions{BaseURL: srv.URL, Timeout: 30 * time.Millisecond})
	loc := client.Lookup(context.Background(), "8.8.8.8")

	assert.True(t, loc.Fallback)
}

func TestLookupMissingCurrencyDerived(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ip":"1.2.3.4","country_code":"GH","country_name":"Ghana"}`)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientOptions{BaseURL: srv.URL})
	loc := client.Lookup(context.Background(), "1.2.3.4")

	assert.Equal(t, "GH", loc.CountryCode)
	assert.Equal(t, "USD", loc.Currency)
}

func TestCurrencyFor(t *testing.T) {
	tests := []struct {
		country  string
		expected string
	}{
		{"NG", "NGN"},
		{"ng", "NGN"},
		{"US", "USD"},
		{"GH", "USD"},
		{"", "USD"},
	}

	for _, tt := range tests {
		if got := CurrencyFor(tt.country); got != tt.expected {
			t.Errorf("CurrencyFor(%q) = %q, want %q", tt.country, got, tt.expected)
		}
	}
}

func TestRegion(t *testing.T) {
	assert.Equal(t, "domestic", Region("NG"))
	assert.Equal(t, "regional", Region("GH"))
	assert.Equal(t, "international", Region("US"))
}
