// Package remote wraps the hosted backend's CRUD and realtime API for
// the collection-point resource.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/lmazzini/ecoponto/internal/errors"
	"github.com/lmazzini/ecoponto/internal/models"
)

// Config holds remote connection configuration.
type Config struct {
	// BaseURL is the project endpoint, e.g. https://xyz.example.co
	BaseURL string
	// APIKey is sent as both the apikey header and the bearer token.
	APIKey string
	// Timeout bounds every call; past it the caller takes the fallback
	// path. Defaults to 3 seconds.
	Timeout time.Duration
}

// Client talks to a PostgREST-style REST surface: one route per
// resource, filters in the query string, write behavior selected via
// Prefer headers.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new Client.
func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 3 * time.Second
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
	}
}

// List returns all rows of the resource ordered by display_order ascending.
func (c *Client) List(ctx context.Context, resource string) ([]models.PointRecord, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "display_order.asc")

	body, err := c.do(ctx, http.MethodGet, resource, query, nil, "")
	if err != nil {
		return nil, err
	}

	var recs []models.PointRecord
	if err := json.Unmarshal(body, &recs); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrParse, "malformed list response", err)
	}
	return recs, nil
}

// Insert creates one row and returns the canonical record the server
// stored, including the server-assigned id.
func (c *Client) Insert(ctx context.Context, resource string, rec models.PointRecord) (models.PointRecord, error) {
	// id stays client-side until the server assigns one
	rec.ID = ""

	body, err := c.do(ctx, http.MethodPost, resource, nil, []models.PointRecord{rec}, "return=representation")
	if err != nil {
		return models.PointRecord{}, err
	}

	created, err := decodeSingle(body)
	if err != nil {
		return models.PointRecord{}, err
	}
	return created, nil
}

// Update patches the row with the given id and returns the updated record.
func (c *Client) Update(ctx context.Context, resource, id string, rec models.PointRecord) (models.PointRecord, error) {
	rec.ID = ""

	query := url.Values{}
	query.Set("id", "eq."+id)

	body, err := c.do(ctx, http.MethodPatch, resource, query, rec, "return=representation")
	if err != nil {
		return models.PointRecord{}, err
	}

	updated, err := decodeSingle(body)
	if err != nil {
		return models.PointRecord{}, err
	}
	return updated, nil
}

// Upsert writes the whole batch in one call, merging on id. Used by the
// bulk reorder path.
func (c *Client) Upsert(ctx context.Context, resource string, recs []models.PointRecord) error {
	_, err := c.do(ctx, http.MethodPost, resource, nil, recs, "resolution=merge-duplicates")
	return err
}

// Delete removes the row with the given id.
func (c *Client) Delete(ctx context.Context, resource, id string) error {
	query := url.Values{}
	query.Set("id", "eq."+id)

	_, err := c.do(ctx, http.MethodDelete, resource, query, nil, "")
	return err
}

// do executes one bounded request and classifies failures: transport
// errors and timeouts are connectivity failures, any non-2xx status is a
// rejection that reached the server.
func (c *Client) do(ctx context.Context, method, resource string, query url.Values, payload any, prefer string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/rest/v1/" + resource
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, "failed to encode request", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, "failed to build request", err)
	}

	req.Header.Set("apikey", c.config.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConnectivity, fmt.Sprintf("%s %s unreachable", method, resource), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConnectivity, "failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.Newf(apperrors.ErrRemoteRejected,
			"%s %s rejected: status %d: %s", method, resource, resp.StatusCode, truncate(string(body), 200))
	}

	return body, nil
}

// decodeSingle unwraps the one-element array PostgREST returns for
// representation-returning writes.
func decodeSingle(body []byte) (models.PointRecord, error) {
	var recs []models.PointRecord
	if err := json.Unmarshal(body, &recs); err != nil {
		return models.PointRecord{}, apperrors.Wrap(apperrors.ErrParse, "malformed write response", err)
	}
	if len(recs) == 0 {
		return models.PointRecord{}, apperrors.New(apperrors.ErrParse, "write response contained no record")
	}
	return recs[0], nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
