package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alex-pricope/campaign-voting/allocation"
	"github.com/alex-pricope/campaign-voting/logging"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() allocation.ConfirmRequest {
	return allocation.ConfirmRequest{
		PaymentMethod:     allocation.PaymentStripe,
		VotesPerCandidate: map[string]int{"A": 6, "B": 4},
		Coupon:            allocation.Coupon{ID: "gold", Name: "Gold", Votes: 10, EligibleCandidateCounts: 2, Pricing: 5},
	}
}

func TestHTTPConfirmer(t *testing.T) {
	logging.Log = logrus.New()

	t.Run("Happy path - forwards request body and idempotency key", func(t *testing.T) {
		var got allocation.ConfirmRequest
		var key string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key = r.Header.Get("X-Idempotency-Key")
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"reference":"pay-123","redirectUrl":"https://pay.example/123"}`))
		}))
		defer server.Close()

		c := NewHTTPConfirmer(server.URL, time.Second)
		receipt, err := c.Confirm(context.Background(), testRequest())
		require.NoError(t, err)

		assert.Equal(t, testRequest(), got)
		assert.NotEmpty(t, key)
		assert.Equal(t, key, receipt.IdempotencyKey)
		assert.Equal(t, "pay-123", receipt.Reference)
		assert.Equal(t, "https://pay.example/123", receipt.RedirectURL)
	})

	t.Run("Unhappy path - non 2xx is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
		}))
		defer server.Close()

		_, err := NewHTTPConfirmer(server.URL, time.Second).Confirm(context.Background(), testRequest())
		require.Error(t, err)
		assert.Equal(t, ErrRejected, errors.Cause(err))
	})

	t.Run("Happy path - retry after timeout sends the same key", func(t *testing.T) {
		var mu sync.Mutex
		var keys []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			keys = append(keys, r.Header.Get("X-Idempotency-Key"))
			first := len(keys) == 1
			mu.Unlock()
			if first {
				time.Sleep(300 * time.Millisecond)
			}
			_, _ = w.Write([]byte(`{"reference":"pay-1"}`))
		}))
		defer server.Close()

		req := testRequest()
		req.IdempotencyKey = "checkout-abc"
		c := NewHTTPConfirmer(server.URL, 100*time.Millisecond)

		_, err := c.Confirm(context.Background(), req)
		require.Error(t, err)

		receipt, err := c.Confirm(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "checkout-abc", receipt.IdempotencyKey)

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{"checkout-abc", "checkout-abc"}, keys)
	})

	t.Run("Unhappy path - unreachable service", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := NewHTTPConfirmer(url, time.Second).Confirm(context.Background(), testRequest())
		assert.Error(t, err)
	})
}

func TestLogConfirmer(t *testing.T) {
	logging.Log = logrus.New()

	receipt, err := LogConfirmer{}.Confirm(context.Background(), testRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.IdempotencyKey)
	assert.False(t, receipt.ForwardedAt.IsZero())

	req := testRequest()
	req.IdempotencyKey = "checkout-abc"
	receipt, err = LogConfirmer{}.Confirm(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "checkout-abc", receipt.IdempotencyKey)
}
