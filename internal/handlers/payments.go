package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/todaypicks/storefront/internal/ledger"
	"github.com/todaypicks/storefront/internal/payment"
)

// PaymentsAPI exposes checkout initiation, verification and purchase
// lookups.
type PaymentsAPI struct {
	Payments *payment.Service
	Ledger   *ledger.Reader
}

// InitiatePayment prices a checkout and mints a transaction reference.
// POST /api/payments/initiate
func (a *PaymentsAPI) InitiatePayment(c *gin.Context) {
	var req payment.InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := a.Payments.Initiate(c.Request.Context(), req)
	if err != nil {
		log.Warn().Err(err).Str("product", req.ProductID).Msg("Failed to initiate checkout")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payload)
}

// VerifyPayment checks a completed charge against the gateway and records
// it in the ledger.
// POST /api/payments/verify
func (a *PaymentsAPI) VerifyPayment(c *gin.Context) {
	var req payment.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := a.Payments.Verify(c.Request.Context(), req)
	if err != nil {
		log.Warn().Err(err).Str("tx_ref", req.TxRef).Msg("Payment verification failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// PaymentStatus returns the latest gateway status for a reference.
// GET /api/payments/status?tx_ref=P123-1693305600000-42
func (a *PaymentsAPI) PaymentStatus(c *gin.Context) {
	txRef := c.Query("tx_ref")
	if txRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tx_ref is required"})
		return
	}

	tx, err := a.Payments.Status(c.Request.Context(), txRef)
	if err != nil {
		log.Warn().Err(err).Str("tx_ref", txRef).Msg("Failed to fetch payment status")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tx_ref":   tx.TxRef,
		"status":   tx.Status,
		"amount":   tx.Amount,
		"currency": tx.Currency,
	})
}

// ConvertCurrencyRequest represents a currency conversion request
type ConvertCurrencyRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	From   string  `json:"fromCurrency"`
	To     string  `json:"toCurrency" binding:"required"`
}

// ConvertCurrency quotes an amount in another currency.
// POST /api/convert-currency
func (a *PaymentsAPI) ConvertCurrency(c *gin.Context) {
	var req ConvertCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	converted, err := a.Payments.Convert(c.Request.Context(), req.Amount, req.From, req.To)
	if err != nil {
		log.Warn().Err(err).Str("to", req.To).Msg("Currency conversion failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"amount":          req.Amount,
		"fromCurrency":    req.From,
		"toCurrency":      req.To,
		"convertedAmount": converted,
	})
}

// GetPurchase looks a past purchase up in the ledger.
// GET /api/purchases?tx_ref=P123-1693305600000-42
func (a *PaymentsAPI) GetPurchase(c *gin.Context) {
	txRef := c.Query("tx_ref")
	if txRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tx_ref is required"})
		return
	}

	rec, err := a.Ledger.FindByTxRef(c.Request.Context(), txRef)
	if err != nil {
		log.Warn().Err(err).Str("tx_ref", txRef).Msg("Purchase lookup failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}
