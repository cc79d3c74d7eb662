package consorciei

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cotahub/mdcota-etl/internal/logger"
)

const component = "Consorciei"

// maxAttempts matches the documented retry policy of the quote and BPM
// endpoints: one retry, then fail with a typed error.
const maxAttempts = 2

// Client talks to the Consorciei quote/company/representative API and the
// BPM notification endpoint used by the Santander real-time flow.
type Client struct {
	http    *http.Client
	baseURL string
	bpmURL  string
	token   string
	log     *logger.Logger
}

func New(baseURL, bpmURL, token string, log *logger.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		bpmURL:  bpmURL,
		token:   token,
		log:     log,
	}
}

// NewWithHTTPClient wires a custom HTTP client, used by tests.
func NewWithHTTPClient(httpClient *http.Client, baseURL, bpmURL, token string, log *logger.Logger) *Client {
	c := New(baseURL, bpmURL, token, log)
	c.http = httpClient
	return c
}

// Quote is the real-time share valuation returned for a quota.
type Quote struct {
	QuotaCode    string  `json:"quota_code"`
	GroupCode    string  `json:"group_code"`
	AssetValue   float64 `json:"asset_value"`
	PaidValue    float64 `json:"paid_value"`
	PendingValue float64 `json:"pending_value"`
	QuoteValue   float64 `json:"quote_value"`
}

// Company identifies the administrator-side legal entity behind a quota.
type Company struct {
	Document string `json:"document"`
	Name     string `json:"name"`
}

// Representative is a person authorized to act on behalf of a company.
type Representative struct {
	Document string `json:"document"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type errorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// GetQuote fetches the real-time valuation for a quota.
func (c *Client) GetQuote(ctx context.Context, quotaCode string) (*Quote, error) {
	var quote Quote
	url := fmt.Sprintf("%s/quotes/%s", c.baseURL, quotaCode)
	if err := c.getJSON(ctx, url, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// GetCompany fetches the company registered under the given CNPJ.
func (c *Client) GetCompany(ctx context.Context, document string) (*Company, error) {
	var company Company
	url := fmt.Sprintf("%s/companies/%s", c.baseURL, document)
	if err := c.getJSON(ctx, url, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// GetRepresentatives fetches the representatives of the given company.
func (c *Client) GetRepresentatives(ctx context.Context, companyDocument string) ([]Representative, error) {
	var reps []Representative
	url := fmt.Sprintf("%s/companies/%s/representatives", c.baseURL, companyDocument)
	if err := c.getJSON(ctx, url, &reps); err != nil {
		return nil, err
	}
	return reps, nil
}

// NotifyBPM posts a workflow event to the BPM endpoint.
func (c *Client) NotifyBPM(ctx context.Context, event string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal bpm payload: %w", err)
	}
	url := fmt.Sprintf("%s/events/%s", c.bpmURL, event)
	return c.do(ctx, http.MethodPost, url, body, nil)
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	return c.do(ctx, http.MethodGet, url, nil, out)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, out any) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request %s: %w", url, err)
			c.log.Warn(component, "Request failed, attempt=%d url=%s error=%v", attempt, url, err)
			continue
		}

		lastErr = c.handleResponse(resp, out)
		if lastErr == nil {
			return nil
		}
		c.log.Warn(component, "Request rejected, attempt=%d url=%s error=%v", attempt, url, lastErr)
	}
	return lastErr
}

func (c *Client) handleResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var body errorBody
		message := resp.Status
		if json.Unmarshal(raw, &body) == nil {
			if body.Message != "" {
				message = body.Message
			} else if body.Detail != "" {
				message = body.Detail
			}
		}
		return newAPIError(resp.StatusCode, message)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
