package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() Record {
	return Record{
		Timestamp:     time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		TransactionID: "1234",
		TxRef:         "P123-1000-42",
		Amount:        50.00,
		Currency:      "USD",
		Status:        "successful",
		CustomerEmail: "ada@example.com",
		CustomerName:  "Ada",
		ProductID:     "P123",
		ProductName:   "Runner",
		Quantity:      1,
	}
}

func TestRecordRowOrder(t *testing.T) {
	row := testRecord().Row()

	expected := []any{
		"2026-08-30T12:00:00Z",
		"1234",
		"P123-1000-42",
		50.00,
		"USD",
		"successful",
		"ada@example.com",
		"Ada",
		"P123",
		"Runner",
		1,
	}
	assert.Equal(t, expected, row)
}

func TestAppendSendsRow(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody appendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientOptions{
		BaseURL:       srv.URL,
		SpreadsheetID: "ledger-1",
		Range:         "payments",
		Token:         "tok-1",
	})

	err := client.Append(context.Background(), testRecord())
	require.NoError(t, err)

	assert.Equal(t, "/v4/spreadsheets/ledger-1/values/payments:append", gotPath)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	require.Len(t, gotBody.Values, 1)
	require.Len(t, gotBody.Values[0], 11)
	assert.Equal(t, "P123-1000-42", gotBody.Values[0][2])
	assert.Equal(t, "successful", gotBody.Values[0][5])
}

func TestAppendUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientOptions{
		BaseURL:       srv.URL,
		SpreadsheetID: "ledger-1",
		Token:         "tok-1",
	})

	err := client.Append(context.Background(), testRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestAppendNotConfigured(t *testing.T) {
	client := NewClient(ClientOptions{})

	err := client.Append(context.Background(), testRecord())
	require.Error(t, err)
}
