package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todaypicks/storefront/internal/cache"
	"github.com/todaypicks/storefront/internal/catalog"
	"github.com/todaypicks/storefront/internal/ledger"
	"github.com/todaypicks/storefront/internal/payment"
	"github.com/todaypicks/storefront/internal/sheets"
)

type stubFetcher struct {
	grids  map[string]sheets.Grid
	meta   []sheets.CategoryMeta
	header *sheets.CategoryHeader
}

func (s *stubFetcher) Sheet(ctx context.Context, sheet, spreadsheetID string) (sheets.Grid, error) {
	grid, ok := s.grids[sheet]
	if !ok {
		return nil, &sheets.NotFoundError{Sheet: sheet, Status: 404}
	}
	return grid, nil
}

func (s *stubFetcher) FetchRaw(ctx context.Context, sheet, spreadsheetID string) (sheets.Grid, error) {
	return s.Sheet(ctx, sheet, spreadsheetID)
}

func (s *stubFetcher) FetchAll(ctx context.Context, names []string, spreadsheetID string) map[string]sheets.Grid {
	results := make(map[string]sheets.Grid, len(names))
	for _, name := range names {
		grid := s.grids[name]
		if grid == nil {
			grid = sheets.Grid{}
		}
		results[name] = grid
	}
	return results
}

func (s *stubFetcher) CategoryMeta(ctx context.Context, spreadsheetID string) ([]sheets.CategoryMeta, error) {
	return s.meta, nil
}

func (s *stubFetcher) CategoryHeaderData(ctx context.Context, spreadsheetID string) (*sheets.CategoryHeader, error) {
	return s.header, nil
}

type stubGateway struct {
	verifyResult *payment.VerifyResult
}

func (s *stubGateway) VerifyTransaction(ctx context.Context, transactionID string) (*payment.VerifyResult, error) {
	return s.verifyResult, nil
}

func (s *stubGateway) TransactionsByRef(ctx context.Context, txRef string) ([]payment.Transaction, error) {
	return nil, nil
}

func (s *stubGateway) ConvertRate(ctx context.Context, amount float64, from, to string) (*payment.RateQuote, error) {
	return &payment.RateQuote{Rate: 1500, Destination: payment.Money{Currency: to, Amount: amount * 1500}}, nil
}

type stubLedger struct{}

func (stubLedger) Append(ctx context.Context, rec ledger.Record) error { return nil }

func newTestRouter(t *testing.T, gateway payment.Gateway) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fetcher := &stubFetcher{
		meta:   []sheets.CategoryMeta{{ID: "shoes", Name: "Shoes"}},
		header: &sheets.CategoryHeader{Title: "All Products", Description: "Everything"},
		grids: map[string]sheets.Grid{
			"shoes": {
				{"img.png", "Runner", "", "", "100", float64(25), "P1", "", "", ""},
				{"", "", "", "", "", "", "", "Great shoes", "shoes", "Shoes"},
			},
			catalog.DetailsSheet: {
				{"Material", "Leather", "P1"},
			},
		},
	}
	catalogService := catalog.NewService(fetcher, cache.New(), "spreadsheet-1", time.Minute)

	paymentService := payment.NewService(payment.ServiceOptions{
		Gateway:      gateway,
		Ledger:       stubLedger{},
		PublicKey:    func() string { return "pk_test" },
		BaseCurrency: "USD",
	})

	catalogAPI := &CatalogAPI{Catalog: catalogService}
	paymentsAPI := &PaymentsAPI{Payments: paymentService}

	router := gin.New()
	router.GET("/health", HealthCheck)
	router.GET("/api/products", catalogAPI.GetProducts)
	router.GET("/api/products/:category/:productId", catalogAPI.GetProduct)
	router.GET("/api/categories", catalogAPI.GetCategories)
	router.GET("/api/details/:productId", catalogAPI.GetDetails)
	router.POST("/api/payments/initiate", paymentsAPI.InitiatePayment)
	router.POST("/api/payments/verify", paymentsAPI.VerifyPayment)
	router.GET("/api/purchases", paymentsAPI.GetPurchase)
	return router
}

func doRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, &stubGateway{})

	w := doRequest(router, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestGetProductsAll(t *testing.T) {
	router := newTestRouter(t, &stubGateway{})

	w := doRequest(router, http.MethodGet, "/api/products", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ListingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalItems)
	assert.Equal(t, "All Products", resp.CurrentName)
}

func TestGetProductsUnknownCategory(t *testing.T) {
	router := newTestRouter(t, &stubGateway{})

	w := doRequest(router, http.MethodGet, "/api/products?category=hats", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProductWithDetails(t *testing.T) {
	router := newTestRouter(t, &stubGateway{})

	w := doRequest(router, http.MethodGet, "/api/products/shoes/P1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var product catalog.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.Equal(t, "Runner", product.Name)
	require.Len(t, product.ProDetails, 1)
	assert.Equal(t, "Leather", product.ProDetails[0].Value)
}

func TestGetProductNotFound(t *testing.T) {
	router := newTestRouter(t, &stubGateway{})

	w := doRequest(router, http.MethodGet, "/api/products/shoes/P404", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInitiatePayment(t *testing.T) {
	router := newTestRouter(t, &stubGateway{})

	w := doRequest(router, http.MethodPost, "/api/payments/initiate", payment.InitiateRequest{
		ProductID:          "P1",
		Price:              "100",
		DiscountPercentage: 25,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var payload payment.CheckoutPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, 75.0, payload.Amount)
	assert.NotEmpty(t, payload.TxRef)
}

func TestInitiatePaymentMissingFields(t *testing.T) {
	router := newTestRouter(t, &stubGateway{})

	w := doRequest(router, http.MethodPost, "/api/payments/initiate", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyPaymentReferenceMismatch(t *testing.T) {
	gateway := &stubGateway{verifyResult: &payment.VerifyResult{
		Status: "success",
		Transaction: payment.Transaction{
			ID: 1, TxRef: "P1-1000-42", Amount: 75, Currency: "USD", Status: "successful",
		},
	}}
	router := newTestRouter(t, gateway)

	w := doRequest(router, http.MethodPost, "/api/payments/verify", payment.VerifyRequest{
		TransactionID:  "1",
		TxRef:          "P1-1000-99",
		ExpectedAmount: 75,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "reference", resp["field"])
}

func TestVerifyPaymentSuccess(t *testing.T) {
	gateway := &stubGateway{verifyResult: &payment.VerifyResult{
		Status: "success",
		Transaction: payment.Transaction{
			ID: 1, TxRef: "P1-1000-42", Amount: 75, Currency: "USD", Status: "successful",
		},
	}}
	router := newTestRouter(t, gateway)

	w := doRequest(router, http.MethodPost, "/api/payments/verify", payment.VerifyRequest{
		TransactionID:  "1",
		TxRef:          "P1-1000-42",
		ExpectedAmount: 75,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var outcome payment.VerifyOutcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.True(t, outcome.Verified)
	assert.True(t, outcome.Recorded)
}

func TestGetPurchaseMissingRef(t *testing.T) {
	router := newTestRouter(t, &stubGateway{})

	w := doRequest(router, http.MethodGet, "/api/purchases", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
