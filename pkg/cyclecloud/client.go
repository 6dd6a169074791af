// Package cyclecloud is the REST client for the cluster-management control
// plane. A Client is constructed explicitly and passed into the components
// that need it; there is no process-wide shared handle.
package cyclecloud

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hpcops/slurmbridge/pkg/log"
	"github.com/sethgrid/pester"
)

// API is the control-plane surface consumed by the topology builder and the
// node lifecycle orchestrator.
type API interface {
	// Status fetches the cluster status snapshot, optionally including the
	// flat list of existing nodes.
	Status(ctx context.Context, includeNodes bool) (*ClusterStatus, error)

	// StartNodes powers on the named nodes and returns the operation id
	// tracking them.
	StartNodes(ctx context.Context, names []string) (*StartResponse, error)

	// ShutdownNodes powers off the named nodes.
	ShutdownNodes(ctx context.Context, names []string) error

	// Nodes lists nodes, filtered by operation id when non-empty.
	Nodes(ctx context.Context, operationID string) ([]NodeRecord, error)

	// CreateNodes submits a batch creation request.
	CreateNodes(ctx context.Context, req *NodeCreationRequest) error
}

// Client talks to the control plane over HTTP with basic auth and bounded
// request retries.
type Client struct {
	baseURL  string
	cluster  string
	username string
	password string
	http     *pester.Client
	logger   log.Logger
}

var _ API = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithCredentials sets the basic-auth credentials.
func WithCredentials(username, password string) ClientOption {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// WithInsecureTLS disables certificate verification. The control plane
// commonly runs with a self-signed certificate inside the cluster.
func WithInsecureTLS() ClientOption {
	return func(c *Client) {
		c.http.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger.WithComponent("cyclecloud")
	}
}

// NewClient creates a Client for one named cluster.
func NewClient(baseURL, cluster string, options ...ClientOption) *Client {
	httpClient := pester.New()
	httpClient.MaxRetries = 3
	httpClient.Backoff = pester.ExponentialBackoff
	httpClient.Timeout = 60 * time.Second

	c := &Client{
		baseURL: baseURL,
		cluster: cluster,
		http:    httpClient,
		logger:  log.NewLogger().WithComponent("cyclecloud"),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Cluster returns the cluster name this client addresses.
func (c *Client) Cluster() string {
	return c.cluster
}

// Status fetches the cluster status snapshot.
func (c *Client) Status(ctx context.Context, includeNodes bool) (*ClusterStatus, error) {
	path := fmt.Sprintf("/clusters/%s/status", url.PathEscape(c.cluster))
	if includeNodes {
		path += "?nodes=true"
	}
	var status ClusterStatus
	if err := c.do(ctx, http.MethodGet, path, nil, &status); err != nil {
		return nil, fmt.Errorf("get cluster status: %w", err)
	}
	return &status, nil
}

// StartNodes powers on the named nodes.
func (c *Client) StartNodes(ctx context.Context, names []string) (*StartResponse, error) {
	path := fmt.Sprintf("/clusters/%s/nodes/start", url.PathEscape(c.cluster))
	var resp StartResponse
	if err := c.do(ctx, http.MethodPost, path, map[string]interface{}{"names": names}, &resp); err != nil {
		return nil, fmt.Errorf("start nodes: %w", err)
	}
	return &resp, nil
}

// ShutdownNodes powers off the named nodes.
func (c *Client) ShutdownNodes(ctx context.Context, names []string) error {
	path := fmt.Sprintf("/clusters/%s/nodes/shutdown", url.PathEscape(c.cluster))
	if err := c.do(ctx, http.MethodPost, path, map[string]interface{}{"names": names}, nil); err != nil {
		return fmt.Errorf("shutdown nodes: %w", err)
	}
	return nil
}

// Nodes lists nodes, optionally filtered by operation id.
func (c *Client) Nodes(ctx context.Context, operationID string) ([]NodeRecord, error) {
	path := fmt.Sprintf("/clusters/%s/nodes", url.PathEscape(c.cluster))
	if operationID != "" {
		path += "?operation=" + url.QueryEscape(operationID)
	}
	var resp NodeListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get nodes: %w", err)
	}
	return resp.Nodes, nil
}

// CreateNodes submits a batch creation request.
func (c *Client) CreateNodes(ctx context.Context, req *NodeCreationRequest) error {
	path := fmt.Sprintf("/clusters/%s/nodes/create", url.PathEscape(c.cluster))
	if err := c.do(ctx, http.MethodPost, path, req, nil); err != nil {
		return fmt.Errorf("create nodes: %w", err)
	}
	c.logger.Info("submitted node creation request",
		log.Str("request_id", req.RequestID), log.Int("sets", len(req.Sets)))
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	c.logger.Debug("control plane request", log.Str("method", method), log.Str("path", path))
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(payload))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
