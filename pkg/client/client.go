package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hoststatus/pkg/log"
	"hoststatus/pkg/models"

	"github.com/hashicorp/go-retryablehttp"
)

const maxErrorBody = 4096

// Options configures retries and timeouts of a Client.
type Options struct {
	RetryMax       int
	RetryWaitMin   time.Duration
	RetryWaitMax   time.Duration
	RequestTimeout time.Duration
}

// DefaultOptions mirrors the settings used by the command line tool.
func DefaultOptions() Options {
	return Options{
		RetryMax:       3,
		RetryWaitMin:   time.Second,
		RetryWaitMax:   30 * time.Second,
		RequestTimeout: 30 * time.Second,
	}
}

// Client talks to a host status service.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

// New creates a client for the service at baseURL (e.g. http://host:3000).
func New(baseURL string, opts Options) *Client {
	client := retryablehttp.NewClient()
	client.RetryMax = opts.RetryMax
	client.RetryWaitMin = opts.RetryWaitMin
	client.RetryWaitMax = opts.RetryWaitMax
	client.HTTPClient.Timeout = opts.RequestTimeout
	client.Logger = nil
	client.CheckRetry = retryOnConnectionError
	// Hand the last response back instead of a generic "giving up" error.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    client,
	}
}

// retryOnConnectionError retries only when no response was received. A
// response of any status is final: POST /stop must never run twice because a
// previous attempt answered 500.
func retryOnConnectionError(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if resp != nil {
		return false, nil
	}
	if err != nil {
		return true, nil //nolint:nilerr // retryablehttp reports the final error itself
	}
	return false, nil
}

// Status fetches the status report from GET /.
func (c *Client) Status(ctx context.Context) (*models.StatusReport, error) {
	var report models.StatusReport
	if err := c.getJSON(ctx, "/", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// NodeInfo fetches numeric host information from GET /node/info.
func (c *Client) NodeInfo(ctx context.Context) (*models.NodeInfo, error) {
	var info models.NodeInfo
	if err := c.getJSON(ctx, "/node/info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// StopContainers calls POST /stop and returns the plain text answer.
func (c *Client) StopContainers(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/stop")
	if err != nil {
		return "", err
	}
	defer closeBody(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ResponseError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return string(body), nil
}

func (c *Client) getJSON(ctx context.Context, path string, target interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return err
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ResponseError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close response body")
	}
}
