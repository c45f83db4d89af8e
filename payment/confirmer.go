package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alex-pricope/campaign-voting/allocation"
	"github.com/alex-pricope/campaign-voting/logging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Confirmer is the external collaborator that takes over once an allocation
// is complete. It owns payment execution; callers only forward.
type Confirmer interface {
	Confirm(ctx context.Context, req allocation.ConfirmRequest) (*Receipt, error)
}

type Receipt struct {
	IdempotencyKey string    `json:"idempotencyKey"`
	Reference      string    `json:"reference,omitempty"`
	RedirectURL    string    `json:"redirectUrl,omitempty"`
	ForwardedAt    time.Time `json:"forwardedAt"`
}

var ErrRejected = errors.New("payment service rejected the confirmation")

// HTTPConfirmer posts the confirmation to a payment service.
type HTTPConfirmer struct {
	Endpoint string
	Client   *http.Client
}

func NewHTTPConfirmer(endpoint string, timeout time.Duration) *HTTPConfirmer {
	return &HTTPConfirmer{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: timeout},
	}
}

type paymentServiceResponse struct {
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirectUrl"`
}

func (c *HTTPConfirmer) Confirm(ctx context.Context, req allocation.ConfirmRequest) (*Receipt, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "marshal confirmation")
	}

	key := idempotencyKey(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build confirmation request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Idempotency-Key", key)

	res, err := c.Client.Do(httpReq)
	if err != nil {
		logging.Log.Errorf("PAYMENT: forwarding to %s failed: %v", c.Endpoint, err)
		return nil, errors.Wrap(err, "forward confirmation")
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read payment service response")
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		logging.Log.Warnf("PAYMENT: service answered %d for key %s", res.StatusCode, key)
		return nil, errors.Wrap(ErrRejected, fmt.Sprintf("status %d", res.StatusCode))
	}

	var out paymentServiceResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, errors.Wrap(err, "decode payment service response")
		}
	}

	logging.Log.Infof("PAYMENT: forwarded %s confirmation for coupon %s (key %s)", req.PaymentMethod, req.Coupon.ID, key)
	return &Receipt{
		IdempotencyKey: key,
		Reference:      out.Reference,
		RedirectURL:    out.RedirectURL,
		ForwardedAt:    time.Now().UTC(),
	}, nil
}

// LogConfirmer accepts every confirmation and only logs it.
type LogConfirmer struct{}

func (LogConfirmer) Confirm(_ context.Context, req allocation.ConfirmRequest) (*Receipt, error) {
	key := idempotencyKey(req)
	logging.Log.WithFields(logrus.Fields{
		"coupon":  req.Coupon.ID,
		"method":  req.PaymentMethod,
		"votes":   req.VotesPerCandidate,
		"request": key,
	}).Info("PAYMENT: confirmation accepted locally")
	return &Receipt{IdempotencyKey: key, ForwardedAt: time.Now().UTC()}, nil
}

// idempotencyKey returns the caller's key, or a fresh one for one-off calls.
func idempotencyKey(req allocation.ConfirmRequest) string {
	if req.IdempotencyKey != "" {
		return req.IdempotencyKey
	}
	return uuid.NewString()
}
