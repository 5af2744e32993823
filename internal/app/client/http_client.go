package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/exp/slog"

	"punchclock/internal/app/client/config"
	"punchclock/internal/domain/punch"
)

// ErrRemoteNotFound is returned when the server has no record for the
// requested offline id.
var ErrRemoteNotFound = errors.New("record not found on server")

// APIError is a non-2xx server response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Permanent reports whether retrying the same request can never
// succeed. The server rejected the payload itself, not the attempt.
func (e *APIError) Permanent() bool {
	return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
}

// HTTPClient talks to the punchclock server API.
type HTTPClient struct {
	client  *http.Client
	config  *config.Config
	log     *slog.Logger
	baseURL string
	token   string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) *HTTPClient {
	scheme := "http"
	if cfg.EnableTLS {
		scheme = "https"
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		config:  cfg,
		log:     log,
		baseURL: fmt.Sprintf("%s://%s/api/v1", scheme, cfg.ServerAddress),
		token:   cfg.Token,
	}
}

// SetToken replaces the bearer token used on subsequent requests.
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// HealthCheck probes the server health endpoint. A nil error means the
// server is reachable and ready.
func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Message: "health check failed"}
	}
	return nil
}

type recordPayload struct {
	OfflineID string             `json:"offline_id,omitempty"`
	Type      punch.Type         `json:"type"`
	Timestamp time.Time          `json:"timestamp"`
	Device    punch.Device       `json:"device"`
	Location  *punch.GeoLocation `json:"location,omitempty"`
}

type createResponseBody struct {
	Record   punch.TimeRecord `json:"record"`
	Inserted bool             `json:"inserted"`
}

type listResponseBody struct {
	Records []punch.TimeRecord `json:"records"`
	Total   int                `json:"total"`
}

// CreateRecord submits a pending record. The returned bool reports
// whether the server inserted a new row; false means a record with the
// same offline id already existed and the stored one is returned.
func (c *HTTPClient) CreateRecord(ctx context.Context, rec punch.PendingRecord) (*punch.TimeRecord, bool, error) {
	payload := recordPayload{
		OfflineID: rec.OfflineID,
		Type:      rec.Type,
		Timestamp: rec.Timestamp,
		Device:    rec.Device,
		Location:  rec.Location,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, false, fmt.Errorf("marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/records", bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("create record request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("record request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, false, c.apiError(resp)
	}

	var out createResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("decode record response: %w", err)
	}

	out.Record.Synced = true
	return &out.Record, out.Inserted, nil
}

// GetByOfflineID fetches the server's record for an offline id.
// Returns ErrRemoteNotFound when no such record exists.
func (c *HTTPClient) GetByOfflineID(ctx context.Context, offlineID string) (*punch.TimeRecord, error) {
	endpoint := c.baseURL + "/records/offline/" + url.PathEscape(offlineID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create lookup request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrRemoteNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}

	var record punch.TimeRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}

	record.Synced = true
	return &record, nil
}

// ListRange fetches the caller's records within [from, to).
func (c *HTTPClient) ListRange(ctx context.Context, from, to time.Time) ([]punch.TimeRecord, error) {
	endpoint := fmt.Sprintf("%s/records?from=%s&to=%s",
		c.baseURL,
		url.QueryEscape(from.Format(time.RFC3339)),
		url.QueryEscape(to.Format(time.RFC3339)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create list request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}

	var out listResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}

	for i := range out.Records {
		out.Records[i].Synced = true
	}
	return out.Records, nil
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *HTTPClient) apiError(resp *http.Response) error {
	var detail struct {
		Detail string `json:"detail"`
		Title  string `json:"title"`
	}
	message := resp.Status
	if body, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		if err := json.Unmarshal(body, &detail); err == nil {
			if detail.Detail != "" {
				message = detail.Detail
			} else if detail.Title != "" {
				message = detail.Title
			}
		}
	}
	return &APIError{Status: resp.StatusCode, Message: message}
}
