package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// ChargeResponse is the subset of the StableLink charge object the backend
// needs for the shadow payment record; the full body is relayed to the
// caller untouched.
type ChargeResponse struct {
	ID       string  `json:"id"`
	Status   string  `json:"status"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// StableLinkClient creates charges against the StableLink API. The secret
// API key never leaves the server; browser clients go through the
// stablelink-create proxy endpoint.
type StableLinkClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewStableLinkClient(baseURL, apiKey string) *StableLinkClient {
	return &StableLinkClient{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// CreateCharge forwards the charge request body and returns the decoded
// charge alongside the raw provider response body.
func (c *StableLinkClient) CreateCharge(ctx context.Context, body []byte) (*ChargeResponse, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/charges", bytes.NewBuffer(body))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create charge request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("charge request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read charge response: %v", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Printf("StableLink charge creation failed with status %d: %s", resp.StatusCode, string(respBody))
		return nil, respBody, fmt.Errorf("stablelink returned status %d", resp.StatusCode)
	}

	var charge ChargeResponse
	if err := json.Unmarshal(respBody, &charge); err != nil {
		return nil, respBody, fmt.Errorf("failed to decode charge response: %v", err)
	}
	return &charge, respBody, nil
}
