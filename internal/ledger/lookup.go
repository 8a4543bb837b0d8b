package ledger

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/todaypicks/storefront/internal/sheets"
)

// Column positions inside a ledger row, matching Record.Row.
const (
	colTimestamp = iota
	colTransactionID
	colTxRef
	colAmount
	colCurrency
	colStatus
	colCustomerEmail
	colCustomerName
	colProductID
	colProductName
	colQuantity
)

// ErrNotFound is returned when no ledger row matches the reference.
var ErrNotFound = fmt.Errorf("purchase not found")

// rawFetcher is the slice of the sheets client the lookup needs.
type rawFetcher interface {
	FetchRaw(ctx context.Context, sheet, spreadsheetID string) (sheets.Grid, error)
}

// Reader resolves past purchases from the ledger sheet via the public
// gviz endpoint.
type Reader struct {
	fetcher       rawFetcher
	spreadsheetID string
	sheet         string
}

// NewReader creates a ledger reader over the given sheet.
func NewReader(fetcher rawFetcher, spreadsheetID, sheet string) *Reader {
	if sheet == "" {
		sheet = "payments"
	}
	return &Reader{fetcher: fetcher, spreadsheetID: spreadsheetID, sheet: sheet}
}

// FindByTxRef returns the most recent ledger record for a transaction
// reference, or ErrNotFound.
func (r *Reader) FindByTxRef(ctx context.Context, txRef string) (*Record, error) {
	if txRef == "" {
		return nil, ErrNotFound
	}

	grid, err := r.fetcher.FetchRaw(ctx, r.sheet, r.spreadsheetID)
	if err != nil {
		return nil, err
	}

	var found *Record
	for _, row := range grid {
		if sheets.CellString(row.At(colTxRef)) != txRef {
			continue
		}
		rec := recordFromRow(row)
		found = &rec
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, txRef)
	}
	return found, nil
}

func recordFromRow(row sheets.Row) Record {
	rec := Record{
		TransactionID: sheets.CellString(row.At(colTransactionID)),
		TxRef:         sheets.CellString(row.At(colTxRef)),
		Currency:      sheets.CellString(row.At(colCurrency)),
		Status:        sheets.CellString(row.At(colStatus)),
		CustomerEmail: sheets.CellString(row.At(colCustomerEmail)),
		CustomerName:  sheets.CellString(row.At(colCustomerName)),
		ProductID:     sheets.CellString(row.At(colProductID)),
		ProductName:   sheets.CellString(row.At(colProductName)),
	}
	if ts, err := time.Parse(time.RFC3339, sheets.CellString(row.At(colTimestamp))); err == nil {
		rec.Timestamp = ts
	}
	if amount, ok := sheets.CellFloat(row.At(colAmount)); ok {
		rec.Amount = amount
	}
	if qty, err := strconv.Atoi(sheets.CellString(row.At(colQuantity))); err == nil {
		rec.Quantity = qty
	}
	return rec
}
