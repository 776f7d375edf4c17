// Package gateway is the typed REST client for the AvtoMat backend. Every
// operation is a single attempt: no caching, no retries, errors surface
// immediately to the caller.
package gateway

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

	"github.com/avtomat-app/avtomat/internal/models"
	"github.com/google/uuid"
)

// Client talks to the backend REST API under a base path like
// http://localhost:8001/api.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a client with the given base URL and per-request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// ListCities fetches the selectable cities. An empty result is "no cities
// available", not an error.
func (c *Client) ListCities(ctx context.Context) ([]models.City, error) {
	var cities []models.City
	if err := c.get(ctx, "/cities/", nil, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

// ListSchools fetches driving schools, optionally filtered by city name.
func (c *Client) ListSchools(ctx context.Context, city string) ([]models.School, error) {
	query := url.Values{}
	if city != "" {
		query.Set("city", city)
	}
	var schools []models.School
	if err := c.get(ctx, "/schools/", query, &schools); err != nil {
		return nil, err
	}
	return schools, nil
}

// ListInstructors fetches instructors, optionally filtered by city name
// and transmission type.
func (c *Client) ListInstructors(ctx context.Context, city, autoType string) ([]models.Instructor, error) {
	query := url.Values{}
	if city != "" {
		query.Set("city", city)
	}
	if autoType != "" {
		query.Set("auto_type", autoType)
	}
	var instructors []models.Instructor
	if err := c.get(ctx, "/instructors/", query, &instructors); err != nil {
		return nil, err
	}
	return instructors, nil
}

// CreateApplication submits a filled application. 4xx responses come back
// as *ValidationError, everything else as *TransportError.
func (c *Client) CreateApplication(ctx context.Context, payload models.ApplicationCreate) (*models.Application, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Op: "encoding application", Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/applications/", nil, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var app models.Application
	if err := c.do(req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// GetApplication fetches a single application record by id.
func (c *Client) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	var app models.Application
	if err := c.get(ctx, fmt.Sprintf("/applications/%d/", id), nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, &TransportError{Op: "building request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	// Lets the backend correlate a retried submission without the client
	// assuming createApplication is idempotent.
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	op := fmt.Sprintf("%s %s", req.Method, req.URL.Path)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &ValidationError{Status: resp.StatusCode, Message: readDetail(resp.Body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// readDetail extracts a human-readable message from a DRF-style error
// body. Falls back to the raw body, capped, so a plain-text 4xx still
// says something.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var wrapper struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Detail != "" {
		return wrapper.Detail
	}

	// Field-error maps come back as {"student_phone": ["..."]}
	var fields map[string][]string
	if err := json.Unmarshal(raw, &fields); err == nil && len(fields) > 0 {
		var parts []string
		for field, msgs := range fields {
			parts = append(parts, field+": "+strings.Join(msgs, "; "))
		}
		return strings.Join(parts, "; ")
	}

	return strings.TrimSpace(string(raw))
}
