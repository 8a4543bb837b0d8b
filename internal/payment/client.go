package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Gateway response envelope shared by the verify and rates endpoints.
type gatewayEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Customer identifies the payer on a gateway transaction.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Transaction is the gateway's view of one charge.
type Transaction struct {
	ID            int64    `json:"id"`
	TxRef         string   `json:"tx_ref"`
	FlwRef        string   `json:"flw_ref"`
	Amount        float64  `json:"amount"`
	ChargedAmount float64  `json:"charged_amount"`
	Currency      string   `json:"currency"`
	Status        string   `json:"status"`
	PaymentType   string   `json:"payment_type"`
	CreatedAt     string   `json:"created_at"`
	Customer      Customer `json:"customer"`
}

// VerifyResult pairs the envelope status with the transaction payload.
type VerifyResult struct {
	Status      string
	Message     string
	Transaction Transaction
}

// RateQuote is the gateway's conversion quote between two currencies.
type RateQuote struct {
	Rate        float64 `json:"rate"`
	Source      Money   `json:"source"`
	Destination Money   `json:"destination"`
}

// Money is an amount in one currency.
type Money struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// ClientOptions configures a gateway Client.
type ClientOptions struct {
	BaseURL    string
	SecretKey  func() string
	HTTPClient *http.Client
	RateLimit  rate.Limit
	Burst      int
}

// Client is a thin Flutterwave v3 API client. The secret key is resolved
// per request so rotated credentials take effect without a restart.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  func() string
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient creates a gateway client.
func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.flutterwave.com"
	}
	if opts.SecretKey == nil {
		opts.SecretKey = func() string { return "" }
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = rate.Limit(10)
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		secretKey:  opts.SecretKey,
		limiter:    rate.NewLimiter(opts.RateLimit, opts.Burst),
		logger:     log.With().Str("component", "payment-gateway").Logger(),
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*gatewayEnvelope, error) {
	key := c.secretKey()
	if key == "" {
		return nil, &ConfigurationError{Missing: "FLUTTERWAVE_SECRET_KEY"}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &GatewayError{Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var envelope gatewayEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return &envelope, nil
}

// VerifyTransaction fetches the gateway's record for one transaction id.
func (c *Client) VerifyTransaction(ctx context.Context, transactionID string) (*VerifyResult, error) {
	envelope, err := c.get(ctx, fmt.Sprintf("/v3/transactions/%s/verify", url.PathEscape(transactionID)), nil)
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{Status: envelope.Status, Message: envelope.Message}
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &result.Transaction); err != nil {
			return nil, fmt.Errorf("failed to decode transaction: %w", err)
		}
	}
	return result, nil
}

// TransactionsByRef lists the gateway transactions matching a reference,
// newest first per the gateway's ordering.
func (c *Client) TransactionsByRef(ctx context.Context, txRef string) ([]Transaction, error) {
	query := url.Values{"tx_ref": []string{txRef}}
	envelope, err := c.get(ctx, "/v3/transactions", query)
	if err != nil {
		return nil, err
	}

	var transactions []Transaction
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &transactions); err != nil {
			return nil, fmt.Errorf("failed to decode transaction list: %w", err)
		}
	}
	return transactions, nil
}

// ConvertRate quotes amount in the source currency converted to the
// destination currency using the gateway's transfer rates endpoint.
func (c *Client) ConvertRate(ctx context.Context, amount float64, from, to string) (*RateQuote, error) {
	query := url.Values{
		"amount":               []string{fmt.Sprintf("%.2f", amount)},
		"source_currency":      []string{from},
		"destination_currency": []string{to},
	}
	envelope, err := c.get(ctx, "/v3/transfers/rates", query)
	if err != nil {
		return nil, err
	}
	if envelope.Status != "success" {
		return nil, fmt.Errorf("rate quote failed: %s", envelope.Message)
	}

	var quote RateQuote
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &quote); err != nil {
			return nil, fmt.Errorf("failed to decode rate quote: %w", err)
		}
	}
	return &quote, nil
}
