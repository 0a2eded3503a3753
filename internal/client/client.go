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

	"github.com/SscSPs/statement_review_app/internal/apperrors"
	"github.com/SscSPs/statement_review_app/internal/core/domain"
	"github.com/SscSPs/statement_review_app/internal/dto"
	"github.com/SscSPs/statement_review_app/internal/review"
)

// ErrUnauthorized is returned when the API rejects the bearer token.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response. It unwraps to the apperrors sentinel for its code.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return apperrors.FromCode(e.Code)
}

// Client wraps interactions with the review API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option is a functional option for configuring the client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New constructs a client for the API rooted at baseURL, e.g. http://localhost:8080/api/v1.
func New(baseURL, token string, options ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

var _ review.Backend = (*Client)(nil)

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response from %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	var body dto.ErrorResponse
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		body.Error = http.StatusText(status)
	}
	if len(body.Fields) > 0 {
		return &apperrors.ValidationError{Fields: body.Fields}
	}
	return &APIError{Status: status, Code: body.Code, Message: body.Error}
}

func filterQuery(filter domain.PendingFilter) url.Values {
	q := url.Values{}
	if filter.BatchID != nil {
		q.Set("batch_id", *filter.BatchID)
	}
	if filter.Status != nil {
		q.Set("status", string(*filter.Status))
	}
	return q
}

func pendingPath(pendingID string) string {
	return "/pending/" + url.PathEscape(pendingID)
}

func (c *Client) record(ctx context.Context, method, path string, in any) (*domain.PendingTransaction, error) {
	var res dto.PendingTransactionResponse
	if err := c.do(ctx, method, path, nil, in, &res); err != nil {
		return nil, err
	}
	p, err := res.ToDomain()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Upload(ctx context.Context, req dto.UploadRequest) (*dto.UploadResponse, error) {
	var res dto.UploadResponse
	if err := c.do(ctx, http.MethodPost, "/upload", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Query(ctx context.Context, filter domain.PendingFilter) ([]domain.PendingTransaction, error) {
	var res dto.ListPendingResponse
	if err := c.do(ctx, http.MethodGet, "/pending", filterQuery(filter), nil, &res); err != nil {
		return nil, err
	}
	out := make([]domain.PendingTransaction, 0, len(res.Transactions))
	for _, t := range res.Transactions {
		p, err := t.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *Client) Count(ctx context.Context, filter domain.PendingFilter) (int, error) {
	var res dto.CountResponse
	if err := c.do(ctx, http.MethodGet, "/pending/count", filterQuery(filter), nil, &res); err != nil {
		return 0, err
	}
	return res.Count, nil
}

func (c *Client) Get(ctx context.Context, pendingID string) (*domain.PendingTransaction, error) {
	return c.record(ctx, http.MethodGet, pendingPath(pendingID), nil)
}

func (c *Client) Update(ctx context.Context, pendingID string, req dto.UpdatePendingRequest) (*domain.PendingTransaction, error) {
	return c.record(ctx, http.MethodPut, pendingPath(pendingID), req)
}

func (c *Client) Approve(ctx context.Context, pendingID string) (*domain.PendingTransaction, error) {
	return c.record(ctx, http.MethodPost, pendingPath(pendingID)+"/approve", nil)
}

func (c *Client) Reject(ctx context.Context, pendingID string) (*domain.PendingTransaction, error) {
	return c.record(ctx, http.MethodPost, pendingPath(pendingID)+"/reject", nil)
}

func (c *Client) batch(ctx context.Context, batchID, action string) (*domain.BatchResult, error) {
	var res domain.BatchResult
	if err := c.do(ctx, http.MethodPost, "/batch/"+url.PathEscape(batchID)+"/"+action, nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ApproveAll(ctx context.Context, batchID string) (*domain.BatchResult, error) {
	return c.batch(ctx, batchID, string(domain.ActionApproveAll))
}

func (c *Client) RejectAll(ctx context.Context, batchID string) (*domain.BatchResult, error) {
	return c.batch(ctx, batchID, string(domain.ActionRejectAll))
}

// OutstandingBatches lists batches that still have pending records on the server.
func (c *Client) OutstandingBatches(ctx context.Context) ([]domain.BatchSummary, error) {
	var res dto.OutstandingBatchesResponse
	if err := c.do(ctx, http.MethodGet, "/batches/outstanding", nil, nil, &res); err != nil {
		return nil, err
	}
	return res.Batches, nil
}
