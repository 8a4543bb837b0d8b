package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// envelopePrefix guards against HTML error pages served with a 200.
	envelopePrefix = "/*O_o*/"

	// The JSON payload sits between the setResponse( wrapper and the
	// trailing ); — fixed offsets in the gviz envelope.
	envelopeHeaderLen  = 47
	envelopeTrailerLen = 2
)

// gvizResponse mirrors the wrapped table envelope of the tabular backend.
type gvizResponse struct {
	Table struct {
		Rows []struct {
			C []*struct {
				V any `json:"v"`
			} `json:"c"`
		} `json:"rows"`
	} `json:"table"`
}

// Client fetches raw sheet grids from the spreadsheet backend.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	spreadsheetID string
	timeout       time.Duration
	concurrency   int
	logger        zerolog.Logger
}

// ClientOptions configures a sheets Client.
type ClientOptions struct {
	BaseURL       string
	SpreadsheetID string
	Timeout       time.Duration
	Concurrency   int
}

// NewClient creates a sheets client. Timeout defaults to 10s and bounds
// every single-sheet fetch; Concurrency bounds batch fan-out.
func NewClient(opts ClientOptions) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	return &Client{
		httpClient:    &http.Client{},
		baseURL:       opts.BaseURL,
		spreadsheetID: opts.SpreadsheetID,
		timeout:       opts.Timeout,
		concurrency:   opts.Concurrency,
		logger:        log.With().Str("component", "sheets").Logger(),
	}
}

// FetchRaw issues a single GET for one named sheet and parses the wrapped
// JSON envelope into a grid of cells. spreadsheetID overrides the default
// source when non-empty. No retries happen at this layer.
func (c *Client) FetchRaw(ctx context.Context, sheet, spreadsheetID string) (Grid, error) {
	if spreadsheetID == "" {
		spreadsheetID = c.spreadsheetID
	}
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID not configured")
	}
	if sheet == "" {
		return nil, fmt.Errorf("sheet name is required")
	}

	reqURL := fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?tqx=out:json&sheet=%s",
		c.baseURL, spreadsheetID, url.QueryEscape(sheet))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{Sheet: sheet}
		}
		return nil, fmt.Errorf("failed to fetch sheet %q: %w", sheet, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &NotFoundError{Sheet: sheet, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{Sheet: sheet}
		}
		return nil, fmt.Errorf("failed to read response for sheet %q: %w", sheet, err)
	}

	return parseEnvelope(sheet, body)
}

// parseEnvelope unwraps the gviz envelope and maps the table into a Grid.
func parseEnvelope(sheet string, body []byte) (Grid, error) {
	text := string(body)
	if len(text) < envelopeHeaderLen+envelopeTrailerLen ||
		text[:len(envelopePrefix)] != envelopePrefix {
		return nil, &FormatError{Sheet: sheet, Detail: "missing envelope wrapper"}
	}

	jsonText := text[envelopeHeaderLen : len(text)-envelopeTrailerLen]

	var envelope gvizResponse
	if err := json.Unmarshal([]byte(jsonText), &envelope); err != nil {
		return nil, &ParseError{Sheet: sheet, Err: err}
	}

	if envelope.Table.Rows == nil {
		return nil, &FormatError{Sheet: sheet, Detail: "missing table rows"}
	}

	grid := make(Grid, 0, len(envelope.Table.Rows))
	for _, row := range envelope.Table.Rows {
		cells := make(Row, 0, len(row.C))
		for _, cell := range row.C {
			if cell == nil {
				cells = append(cells, nil)
				continue
			}
			cells = append(cells, cell.V)
		}
		grid = append(grid, cells)
	}

	if len(grid) == 0 {
		return nil, &EmptyError{Sheet: sheet}
	}

	return grid, nil
}

// Sheet fetches one named sheet and runs the full normalization pipeline:
// validate the embedded sheet-name marker, strip leading metadata columns,
// and drop a leading header row. A name-marker mismatch yields no rows
// rather than an error.
func (c *Client) Sheet(ctx context.Context, sheet, spreadsheetID string) (Grid, error) {
	raw, err := c.FetchRaw(ctx, sheet, spreadsheetID)
	if err != nil {
		return nil, err
	}

	if !ValidateName(raw, sheet) {
		c.logger.Warn().
			Str("sheet", sheet).
			Msg("Sheet name marker mismatch, treating sheet as empty")
		return Grid{}, nil
	}

	return FilterHeader(Clean(raw)), nil
}
