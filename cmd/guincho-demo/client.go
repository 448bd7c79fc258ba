// README: Minimal HTTP client for the session API.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Snapshot mirrors the wire shape of the session snapshot; only the fields
// the demo reads are declared.
type Snapshot struct {
	Stage string `json:"stage"`
	Draft struct {
		Origin      string   `json:"origin"`
		Destination string   `json:"destination"`
		DistanceKm  *float64 `json:"distance_km"`
	} `json:"draft"`
	Computing bool `json:"computing"`
	Quoting   bool `json:"quoting"`
	Quote     *struct {
		DistanceKm float64 `json:"distance_km"`
		Price      Money   `json:"price"`
		Tier       string  `json:"tier"`
	} `json:"quote"`
	Request *struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		ETAMinutes int    `json:"eta_minutes"`
		Provider   struct {
			Name  string `json:"name"`
			Plate string `json:"plate"`
		} `json:"provider"`
	} `json:"request"`
}

type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type Receipt struct {
	Amount Money  `json:"amount"`
	Method string `json:"method"`
	Rating int    `json:"rating"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: 10 * time.Second}}
}

func (c *Client) EditOrigin(ctx context.Context, text string) error {
	return c.post(ctx, "/api/session/origin", map[string]string{"text": text}, nil)
}

func (c *Client) EditDestination(ctx context.Context, text string) error {
	return c.post(ctx, "/api/session/destination", map[string]string{"text": text}, nil)
}

func (c *Client) RequestQuote(ctx context.Context) error {
	return c.post(ctx, "/api/session/quote", nil, nil)
}

func (c *Client) Confirm(ctx context.Context) error {
	return c.post(ctx, "/api/session/confirm", nil, nil)
}

func (c *Client) Finalize(ctx context.Context) error {
	return c.post(ctx, "/api/session/finalize", nil, nil)
}

func (c *Client) Pay(ctx context.Context, method string, rating int) (Receipt, error) {
	var resp struct {
		Receipt Receipt `json:"receipt"`
	}
	err := c.post(ctx, "/api/session/pay", map[string]any{"method": method, "rating": rating}, &resp)
	return resp.Receipt, err
}

func (c *Client) Session(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/session", nil)
	if err != nil {
		return snap, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return snap, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return snap, fmt.Errorf("GET /api/session: %s", resp.Status)
	}
	return snap, json.NewDecoder(resp.Body).Decode(&snap)
}

// WaitFor polls the session snapshot until done returns true or the context
// expires.
func (c *Client) WaitFor(ctx context.Context, done func(Snapshot) bool) (Snapshot, error) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		snap, err := c.Session(ctx)
		if err != nil {
			return snap, err
		}
		if done(snap) {
			return snap, nil
		}
		select {
		case <-ctx.Done():
			return snap, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("POST %s: %s: %s", path, resp.Status, bytes.TrimSpace(msg))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
