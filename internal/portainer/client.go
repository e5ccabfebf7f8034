package portainer

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"StackSnap/internal/constants"
	"StackSnap/internal/logger"
)

// Client talks to the Portainer REST API using an access token.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	// RetryAttempts and RetryDelay bound how often transient request
	// failures are retried before giving up.
	RetryAttempts int
	RetryDelay    time.Duration
}

// NewClient creates a Portainer API client. baseURL is the root of the
// Portainer instance (e.g. https://portainer.example.com:9443), apiKey
// is an access token sent as X-API-Key.
func NewClient(baseURL, apiKey string, tlsSkipVerify bool) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid portainer url %q: %w", baseURL, err)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("portainer api key is required")
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if tlsSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		RetryAttempts: constants.APIRetryAttempts,
		RetryDelay:    constants.APIRetryDelay,
	}, nil
}

// BaseURL returns the configured Portainer root URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get performs a GET request with the access token, retrying transient
// failures up to RetryAttempts with RetryDelay between attempts.
func (c *Client) get(ctx context.Context, path string, out any) error {
	var lastErr error

	for attempt := 1; attempt <= c.RetryAttempts; attempt++ {
		if attempt > 1 {
			logger.Info(ctx, "Retrying {{_URL_}}%s{{|-|}} (attempt %d of %d)", c.baseURL+path, attempt, c.RetryAttempts)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.RetryDelay):
			}
		}

		lastErr = c.getOnce(ctx, path, out)
		if lastErr == nil {
			return nil
		}

		// Client errors will not succeed on retry
		var se *StatusError
		if errors.As(lastErr, &se) && se.Code >= 400 && se.Code < 500 {
			return lastErr
		}
	}

	return fmt.Errorf("request failed after %d attempts: %w", c.RetryAttempts, lastErr)
}

func (c *Client) getOnce(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	logger.Trace(ctx, "GET {{_URL_}}%s{{|-|}}", c.baseURL+path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Code: resp.StatusCode,
			URL:  c.baseURL + path,
			Body: strings.TrimSpace(string(body)),
		}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// StatusError is a non-200 API response.
type StatusError struct {
	Code int
	URL  string
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("portainer api returned %d for %s: %s", e.Code, e.URL, e.Body)
	}
	return fmt.Sprintf("portainer api returned %d for %s", e.Code, e.URL)
}

// Version fetches the Portainer server version, trying the current
// system status endpoint first and falling back to the pre-2.6 one.
func (c *Client) Version(ctx context.Context) (string, error) {
	var status systemStatusResponse
	err := c.get(ctx, "/api/system/status", &status)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			if err2 := c.get(ctx, "/api/status", &status); err2 == nil {
				return status.Version, nil
			}
		}
		return "", err
	}
	return status.Version, nil
}

// CheckVersion verifies the server is reachable and meets the minimum
// supported Portainer version.
func (c *Client) CheckVersion(ctx context.Context) error {
	raw, err := c.Version(ctx)
	if err != nil {
		return fmt.Errorf("cannot reach portainer at %s: %w", c.baseURL, err)
	}

	v, err := semver.NewVersion(raw)
	if err != nil {
		logger.Warn(ctx, "Cannot parse Portainer version {{_Version_}}%s{{|-|}}, continuing anyway", raw)
		return nil
	}

	minVersion := semver.MustParse(constants.MinPortainerVersion)
	if v.LessThan(minVersion) {
		return fmt.Errorf("portainer %s is older than the minimum supported %s", raw, constants.MinPortainerVersion)
	}

	logger.Info(ctx, "Portainer {{_Version_}}%s{{|-|}} at {{_URL_}}%s{{|-|}}", raw, c.baseURL)
	return nil
}

// ListStacks returns all stacks known to the Portainer instance.
func (c *Client) ListStacks(ctx context.Context) ([]Stack, error) {
	var stacks []Stack
	if err := c.get(ctx, "/api/stacks", &stacks); err != nil {
		return nil, err
	}
	return stacks, nil
}

// StackFile fetches the compose file content for a stack.
func (c *Client) StackFile(ctx context.Context, id int) (string, error) {
	var resp stackFileResponse
	if err := c.get(ctx, fmt.Sprintf("/api/stacks/%d/file", id), &resp); err != nil {
		return "", err
	}
	if resp.StackFileContent == "" {
		return "", fmt.Errorf("stack %d has no file content", id)
	}
	return resp.StackFileContent, nil
}
