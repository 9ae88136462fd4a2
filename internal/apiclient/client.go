package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"apucli/pkg/contracts/domain"
)

// Options configures a Client.
type Options struct {
	// Token is sent as "Authorization: Bearer <token>" when non-empty.
	Token string

	// Headers are extra headers applied to every request, on top of the
	// per-endpoint headers from the registry.
	Headers map[string]string

	// Timeout bounds each request. Zero means 30s.
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing calls; the beneficiary lookup
	// runs once per file and the platform rate-limits aggressively.
	// Zero disables throttling.
	RequestsPerSecond float64
	Burst             int
}

// Client fetches lookup data from the registry's endpoints.
type Client struct {
	registry *Registry
	http     *http.Client
	token    string
	extra    map[string]string
	limiter  *rate.Limiter
}

// New creates a lookup client over a loaded registry.
func New(registry *Registry, opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &Client{
		registry: registry,
		http:     &http.Client{Timeout: timeout},
		token:    opts.Token,
		extra:    opts.Headers,
		limiter:  limiter,
	}
}

// Chapters fetches the chapters lookup. The endpoint historically returns
// either a single object or a list; both are accepted.
func (c *Client) Chapters(ctx context.Context) ([]domain.Chapter, error) {
	body, err := c.get(ctx, EndpointChapters, nil)
	if err != nil {
		return nil, err
	}
	return DecodeChapters(body)
}

// Users fetches the users lookup. Accepts `{items: [...]}` or a bare array.
func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	body, err := c.get(ctx, EndpointUsers, nil)
	if err != nil {
		return nil, err
	}
	return DecodeUsers(body)
}

// Beneficiary fetches one beneficiary record, substituting the user id into
// the endpoint's URI template.
func (c *Client) Beneficiary(ctx context.Context, userID any) (map[string]any, error) {
	sub := map[string]string{"{{user_id}}": fmt.Sprint(userID)}
	body, err := c.get(ctx, EndpointBeneficiary, sub)
	if err != nil {
		return nil, err
	}

	var ben map[string]any
	if err := json.Unmarshal(body, &ben); err != nil {
		return nil, fmt.Errorf("unexpected beneficiary response: %w", err)
	}
	return ben, nil
}

func (c *Client) get(ctx context.Context, name string, substitutions map[string]string) ([]byte, error) {
	ep, err := c.registry.Endpoint(name)
	if err != nil {
		return nil, err
	}

	uri := ep.URI
	for from, to := range substitutions {
		uri = strings.ReplaceAll(uri, from, to)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", name, err)
	}
	for k, v := range ep.Headers {
		req.Header.Set(k, v)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range c.extra {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", name, err)
	}
	return body, nil
}

// DecodeChapters parses a chapters payload, tolerating a single object in
// place of a list. Shared with the offline snapshot path.
func DecodeChapters(body []byte) ([]domain.Chapter, error) {
	var list []domain.Chapter
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	var one domain.Chapter
	if err := json.Unmarshal(body, &one); err == nil {
		return []domain.Chapter{one}, nil
	}
	return nil, fmt.Errorf("unexpected chapters response")
}

// DecodeUsers parses a users payload: `{items: [...]}` or a bare array.
func DecodeUsers(body []byte) ([]domain.User, error) {
	var wrapped struct {
		Items []domain.User `json:"items"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Items != nil {
		return wrapped.Items, nil
	}

	var list []domain.User
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}
	return nil, fmt.Errorf("unexpected users response")
}
