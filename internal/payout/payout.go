// Package payout confirms withdrawal transfers against an external rail.
package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/susu/internal/club"
	"github.com/mmynk/susu/internal/models"
)

var (
	_ club.Transferer = (*Client)(nil)
	_ club.Transferer = Disabled{}
)

// Client POSTs each transfer to the configured endpoint and treats any
// non-2xx answer as an unconfirmed payout.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a payout client for the given endpoint. Every call is
// bounded by timeout.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type transferRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// Transfer asks the rail to pay amount to the identity. It returns nil only
// when the rail confirmed the payout.
func (c *Client) Transfer(ctx context.Context, to models.Identity, amount decimal.Decimal) error {
	body, err := json.Marshal(transferRequest{
		To:     string(to),
		Amount: amount.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode transfer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build transfer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("payout call failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("payout rail answered %s", resp.Status)
	}
	return nil
}

// Disabled is the Transferer used when no payout rail is configured. It
// fails every transfer: a payout that cannot be confirmed must never reach
// the ledger, so withdrawals are effectively switched off.
type Disabled struct{}

// Transfer always fails.
func (Disabled) Transfer(ctx context.Context, to models.Identity, amount decimal.Decimal) error {
	return errors.New("no payout rail configured")
}
