package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	"github.com/MatheusMartinho/gambit-sub001/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) config.ProviderConfig {
	return config.ProviderConfig{
		Enabled: true,
		BaseURL: url,
		Timeout: time.Second,
		Retry:   config.RetryConfig{Attempts: 3, BaseDelay: 200 * time.Millisecond, MaxDelay: 2 * time.Second},
	}
}

func newTestBase(t *testing.T, h http.HandlerFunc) *Base {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	b := NewBase(models.ProviderBrapi, testConfig(srv.URL), nil, nil)
	b.sleep = func(context.Context, time.Duration) error { return nil }
	return b
}

func TestBaseRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	b := newTestBase(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	var out struct {
		OK bool `json:"ok"`
	}
	err := b.GetJSON(context.Background(), Request{Op: "quote", Ticker: "PETR4", Path: "/q"}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, int32(3), calls.Load())
}

func TestBaseGivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	b := newTestBase(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	err := b.GetJSON(context.Background(), Request{Op: "quote", Path: "/q"}, &struct{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrProviderUnavailable)
	assert.Equal(t, int32(3), calls.Load())

	var pe *models.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusTooManyRequests, pe.Status)
	assert.Equal(t, models.ProviderBrapi, pe.Provider)
}

func TestBaseClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   error
	}{
		{"not found", http.StatusNotFound, "", models.ErrTickerNotFound},
		{"unauthorized", http.StatusUnauthorized, "", models.ErrProviderUnavailable},
		{"malformed", http.StatusOK, `{"ok":`, models.ErrProviderMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int32
			b := newTestBase(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			err := b.GetJSON(context.Background(), Request{Op: "fundamentals", Path: "/f"}, &map[string]any{})
			assert.ErrorIs(t, err, tc.kind)
			assert.Equal(t, int32(1), calls.Load(), "final errors are not retried")
		})
	}
}

func TestBaseNetworkFailure(t *testing.T) {
	b := NewBase(models.ProviderYahoo, testConfig("http://127.0.0.1:1"), nil, nil)
	b.sleep = func(context.Context, time.Duration) error { return nil }

	_, err := b.GetRaw(context.Background(), Request{Op: "quote", Path: "/"})
	assert.ErrorIs(t, err, models.ErrProviderUnavailable)
}

func TestBackoff(t *testing.T) {
	b := NewBase(models.ProviderYahoo, testConfig("http://example.invalid"), nil, nil)
	assert.Equal(t, 200*time.Millisecond, b.Backoff(0))
	assert.Equal(t, 400*time.Millisecond, b.Backoff(1))
	assert.Equal(t, 1600*time.Millisecond, b.Backoff(3))
	assert.Equal(t, 2*time.Second, b.Backoff(10))
}
