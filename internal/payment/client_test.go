package payment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGatewayClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientOptions{
		BaseURL:   srv.URL,
		SecretKey: func() string { return "sk_test" },
	})
}

func TestVerifyTransactionRequest(t *testing.T) {
	client := newGatewayClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/transactions/1234/verify", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"status":"success","message":"ok","data":{"id":1234,"tx_ref":"P1-1-1","amount":50,"currency":"USD","status":"successful"}}`)
	})

	result, err := client.VerifyTransaction(context.Background(), "1234")
	require.NoError(t, err)

	assert.Equal(t, "success", result.Status)
	assert.Equal(t, int64(1234), result.Transaction.ID)
	assert.Equal(t, "successful", result.Transaction.Status)
}

func TestVerifyTransactionMissingSecret(t *testing.T) {
	client := NewClient(ClientOptions{BaseURL: "http://unused.invalid"})

	_, err := client.VerifyTransaction(context.Background(), "1234")

	var configErr *ConfigurationError
	require.ErrorAs(t, err, &configErr)
}

func TestVerifyTransactionUpstreamError(t *testing.T) {
	client := newGatewayClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status":"error","message":"invalid key"}`)
	})

	_, err := client.VerifyTransaction(context.Background(), "1234")

	var gatewayErr *GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.Equal(t, http.StatusUnauthorized, gatewayErr.Status)
}

func TestTransactionsByRef(t *testing.T) {
	client := newGatewayClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/transactions", r.URL.Path)
		assert.Equal(t, "P1-1-1", r.URL.Query().Get("tx_ref"))
		fmt.Fprint(w, `{"status":"success","data":[{"id":1,"tx_ref":"P1-1-1","status":"successful"}]}`)
	})

	transactions, err := client.TransactionsByRef(context.Background(), "P1-1-1")
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "successful", transactions[0].Status)
}

func TestConvertRate(t *testing.T) {
	client := newGatewayClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/transfers/rates", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("source_currency"))
		assert.Equal(t, "NGN", r.URL.Query().Get("destination_currency"))
		fmt.Fprint(w, `{"status":"success","data":{"rate":1500,"source":{"currency":"USD","amount":50},"destination":{"currency":"NGN","amount":75000}}}`)
	})

	quote, err := client.ConvertRate(context.Background(), 50, "USD", "NGN")
	require.NoError(t, err)

	assert.Equal(t, 1500.0, quote.Rate)
	assert.Equal(t, 75000.0, quote.Destination.Amount)
}

func TestConvertRateFailureStatus(t *testing.T) {
	client := newGatewayClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"error","message":"unsupported pair"}`)
	})

	_, err := client.ConvertRate(context.Background(), 50, "USD", "XXX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported pair")
}
