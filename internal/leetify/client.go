// Package leetify is the HTTP client for the public Leetify CS profile API,
// the raw match provider feeding ingest and pricing.
package leetify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

const DefaultBaseURL = "https://api-public.cs-prod.leetify.com"

type Client struct {
	baseURL string
	client  *fasthttp.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// RecentMatches fetches the player's recent matches, newest first. The API
// has no limit parameter; callers truncate.
func (c *Client) RecentMatches(ctx context.Context, steam64 string) ([]Match, error) {
	url := fmt.Sprintf("%s/v3/profile/matches?steam64_id=%s", c.baseURL, steam64)
	matches, err := doRequest[[]Match](ctx, c, url)
	if err != nil {
		return nil, err
	}
	return *matches, nil
}

// Profile fetches the player's rank card, the elo inputs to pricing.
func (c *Client) Profile(ctx context.Context, steam64 string) (*Profile, error) {
	url := fmt.Sprintf("%s/v3/profile?steam64_id=%s", c.baseURL, steam64)
	return doRequest[Profile](ctx, c, url)
}

func doRequest[T any](ctx context.Context, c *Client, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("leetify request: %w", err)
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, fmt.Errorf("leetify request: %w", err)
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("leetify: status %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("leetify decode: %w", err)
	}
	return &result, nil
}
