package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Status of a participation payment as reported by the provider. The engine
// treats anything other than "succeeded" as unpaid.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Intent is an opaque handle the presentation layer hands to the provider's
// checkout flow.
type Intent struct {
	ID           string  `json:"id"`
	ClientSecret string  `json:"client_secret"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

// Client implements payment status and intent calls against the provider's
// HTTP API.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewClient initializes the provider HTTP client.
func NewClient(baseURL, apiToken string) *Client {
	if baseURL == "" {
		baseURL = "https://api.payments.local"
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), apiToken: apiToken, httpClient: &http.Client{Timeout: 8 * time.Second}}
}

// GetStatus returns the verified payment status for a voter in an election.
func (c *Client) GetStatus(ctx context.Context, electionID string, userID int64) (Status, error) {
	var out struct {
		Status string `json:"status"`
	}
	url := fmt.Sprintf("%s/v1/payments/%s/%d", c.baseURL, electionID, userID)
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return StatusPending, nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("payment api http %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	switch Status(out.Status) {
	case StatusPending, StatusSucceeded, StatusFailed:
		return Status(out.Status), nil
	default:
		return "", fmt.Errorf("unknown payment status %q", out.Status)
	}
}

// CreateIntent registers a payment intent for the computed participation fee.
func (c *Client) CreateIntent(ctx context.Context, electionID string, userID int64, amount float64, currency string) (*Intent, error) {
	body, err := json.Marshal(map[string]interface{}{
		"election_id": electionID,
		"user_id":     userID,
		"amount":      amount,
		"currency":    currency,
	})
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/v1/payment-intents"
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment api http %d", resp.StatusCode)
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, err
	}
	return &intent, nil
}
