package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Attempt is one HTTP try of a push run, kept for the response log.
type Attempt struct {
	N      int       `json:"n"`
	Status int       `json:"status,omitempty"`
	Error  string    `json:"error,omitempty"`
	At     time.Time `json:"at"`
}

// Client pushes staged invoices to the external verification API with a
// bounded linear-backoff retry.
type Client struct {
	baseURL     string
	apiKey      string
	companyCode string

	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

type ClientConfig struct {
	URL         string
	APIKey      string
	CompanyCode string
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	return &Client{
		baseURL:     cfg.URL,
		apiKey:      cfg.APIKey,
		companyCode: cfg.CompanyCode,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
		sleep:       time.Sleep,
	}
}

type pushPayload struct {
	IdempotencyKey string          `json:"idempotency_key"`
	CompanyCode    string          `json:"company_code"`
	InvoiceNo      string          `json:"invoice_no"`
	SellerTaxCode  string          `json:"seller_tax_code"`
	BuyerTaxCode   string          `json:"buyer_tax_code"`
	Amount         int64           `json:"amount"`
	IssuedAt       time.Time       `json:"issued_at"`
	Event          json.RawMessage `json:"event,omitempty"`
}

// Push sends one staging record. It retries transient failures up to the
// configured ceiling, waiting delay×attempt between tries, and returns the
// attempt log either way. 200 and 201 succeed; so does 409, which means the
// remote already has this idempotency key from an earlier run.
func (c *Client) Push(ctx context.Context, st *Staging) ([]Attempt, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	body, err := json.Marshal(pushPayload{
		IdempotencyKey: fmt.Sprintf("staging_%s", st.ID),
		CompanyCode:    c.companyCode,
		InvoiceNo:      st.InvoiceNo,
		SellerTaxCode:  st.SellerTaxCode,
		BuyerTaxCode:   st.BuyerTaxCode,
		Amount:         st.Amount,
		IssuedAt:       st.IssuedAt,
		Event:          st.RawPayload,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}

	var attempts []Attempt

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		status, err := c.post(ctx, body)

		a := Attempt{N: attempt, Status: status, At: time.Now().UTC()}
		if err != nil {
			a.Error = err.Error()
		}

		attempts = append(attempts, a)

		switch {
		case err == nil && (status == http.StatusOK || status == http.StatusCreated):
			return attempts, nil
		case err == nil && status == http.StatusConflict:
			return attempts, nil
		}

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return attempts, ctx.Err()
			default:
			}

			c.sleep(c.retryDelay * time.Duration(attempt))
		}
	}

	last := attempts[len(attempts)-1]
	if last.Error != "" {
		return attempts, fmt.Errorf("push failed after %d attempts: %s", len(attempts), last.Error)
	}

	return attempts, fmt.Errorf("push failed after %d attempts: status %d", len(attempts), last.Status)
}

func (c *Client) post(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	return resp.StatusCode, nil
}
