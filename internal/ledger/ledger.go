// Package ledger appends verified payments to a spreadsheet, the
// storefront's only durable record of purchases.
package ledger

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Record is one row of the payments ledger.
type Record struct {
	EntryID       string    `json:"entry_id"`
	Timestamp     time.Time `json:"timestamp"`
	TransactionID string    `json:"transaction_id"`
	TxRef         string    `json:"tx_ref"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	CustomerEmail string    `json:"customer_email"`
	CustomerName  string    `json:"customer_name"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Quantity      int       `json:"quantity"`
}

// Row renders the record as one spreadsheet row. Column order is part of
// the ledger format and must not change once rows exist.
func (r Record) Row() []any {
	return []any{
		r.Timestamp.UTC().Format(time.RFC3339),
		r.TransactionID,
		r.TxRef,
		r.Amount,
		r.Currency,
		r.Status,
		r.CustomerEmail,
		r.CustomerName,
		r.ProductID,
		r.ProductName,
		r.Quantity,
	}
}

// ClientOptions configures a ledger Client.
type ClientOptions struct {
	BaseURL       string
	SpreadsheetID string
	Range         string
	Token         string
	HTTPClient    *http.Client
}

// Client appends rows to the ledger spreadsheet over the values:append
// endpoint.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	spreadsheetID string
	appendRange   string
	token         string
	logger        zerolog.Logger
}

// NewClient creates a ledger client.
func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://sheets.googleapis.com"
	}
	if opts.Range == "" {
		opts.Range = "payments"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		httpClient:    httpClient,
		baseURL:       strings.TrimSuffix(opts.BaseURL, "/"),
		spreadsheetID: opts.SpreadsheetID,
		appendRange:   opts.Range,
		token:         opts.Token,
		logger:        log.With().Str("component", "ledger").Logger(),
	}
}

type appendRequest struct {
	Values [][]any `json:"values"`
}

// Append writes one record to the end of the ledger sheet. A missing
// entry id is filled in before the row is sent.
func (c *Client) Append(ctx context.Context, rec Record) error {
	if c.spreadsheetID == "" || c.token == "" {
		return fmt.Errorf("ledger spreadsheet not configured")
	}
	if rec.EntryID == "" {
		rec.EntryID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	body, err := json.Marshal(appendRequest{Values: [][]any{rec.Row()}})
	if err != nil {
		return fmt.Errorf("failed to encode ledger row: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=USER_ENTERED&insertDataOption=INSERT_ROWS",
		c.baseURL, url.PathEscape(c.spreadsheetID), url.PathEscape(c.appendRange))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build ledger request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ledger append failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("ledger append returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	c.logger.Info().
		Str("tx_ref", rec.TxRef).
		Str("entry_id", rec.EntryID).
		Msg("Recorded payment in ledger")
	return nil
}
