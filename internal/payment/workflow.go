package payment

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/todaypicks/storefront/internal/ledger"
	"github.com/todaypicks/storefront/internal/pricing"
	"github.com/todaypicks/storefront/internal/telemetry"
)

// AmountTolerance is the largest accepted difference between the expected
// charge and what the gateway reports, covering float rounding on either
// side.
const AmountTolerance = 0.01

// State tracks where a checkout stands. The server keeps no session state
// machine; the state travels with the payload so the frontend and the
// ledger can tell initiated, gateway-confirmed and recorded charges apart.
type State string

const (
	StateAwaitingGateway State = "awaiting_gateway"
	StateVerified        State = "verified"
	StateRecorded        State = "recorded"
	StateFailed          State = "failed"
)

// Gateway is the slice of the Flutterwave client the workflow needs.
type Gateway interface {
	VerifyTransaction(ctx context.Context, transactionID string) (*VerifyResult, error)
	TransactionsByRef(ctx context.Context, txRef string) ([]Transaction, error)
	ConvertRate(ctx context.Context, amount float64, from, to string) (*RateQuote, error)
}

// Appender records verified payments durably.
type Appender interface {
	Append(ctx context.Context, rec ledger.Record) error
}

// ServiceOptions configures the payment workflow.
type ServiceOptions struct {
	Gateway      Gateway
	Ledger       Appender
	PublicKey    func() string
	BaseCurrency string
	RedirectBase string
}

// Service runs checkout initiation and verification.
type Service struct {
	gateway      Gateway
	ledger       Appender
	publicKey    func() string
	baseCurrency string
	redirectBase string
	logger       zerolog.Logger
}

// NewService creates the payment workflow service.
func NewService(opts ServiceOptions) *Service {
	if opts.PublicKey == nil {
		opts.PublicKey = func() string { return "" }
	}
	if opts.BaseCurrency == "" {
		opts.BaseCurrency = "USD"
	}
	return &Service{
		gateway:      opts.Gateway,
		ledger:       opts.Ledger,
		publicKey:    opts.PublicKey,
		baseCurrency: opts.BaseCurrency,
		redirectBase: strings.TrimSuffix(opts.RedirectBase, "/"),
		logger:       log.With().Str("component", "payment").Logger(),
	}
}

// InitiateRequest carries everything needed to price one checkout.
type InitiateRequest struct {
	ProductID          string  `json:"product_id" binding:"required"`
	ProductName        string  `json:"product_name"`
	Price              string  `json:"price" binding:"required"`
	DiscountPercentage float64 `json:"discount_percentage"`
	Quantity           int     `json:"quantity"`
	Currency           string  `json:"currency"`
	Country            string  `json:"country"`
	CustomerEmail      string  `json:"customer_email"`
	CustomerName       string  `json:"customer_name"`
}

// Customization styles the gateway's checkout modal.
type Customization struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CheckoutPayload is handed to the frontend to open the gateway's inline
// checkout. A fresh transaction reference is minted per call.
type CheckoutPayload struct {
	TxRef         string        `json:"tx_ref"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Country       string        `json:"country,omitempty"`
	DisplayAmount string        `json:"display_amount"`
	PublicKey     string        `json:"public_key"`
	RedirectURL   string        `json:"redirect_url,omitempty"`
	Customization Customization `json:"customizations"`
	State         State         `json:"state"`
	ProductID     string        `json:"product_id"`
	ProductName   string        `json:"product_name"`
	Quantity      int           `json:"quantity"`
	CustomerEmail string        `json:"customer_email,omitempty"`
	CustomerName  string        `json:"customer_name,omitempty"`
}

// Initiate prices the checkout: applies the discount, converts into the
// requested currency when it differs from the base, and mints a
// transaction reference.
func (s *Service) Initiate(ctx context.Context, req InitiateRequest) (*CheckoutPayload, error) {
	key := s.publicKey()
	if key == "" {
		return nil, &ConfigurationError{Missing: "FLUTTERWAVE_PUBLIC_KEY"}
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	unit, err := pricing.Discounted(req.Price, req.DiscountPercentage)
	if err != nil {
		return nil, &ValidationError{Field: FieldAmount, Message: err.Error()}
	}
	amount := pricing.Round2(unit * float64(quantity))

	currency := req.Currency
	if currency == "" {
		currency = s.baseCurrency
	}
	if currency != s.baseCurrency {
		converted, err := s.convert(ctx, amount, s.baseCurrency, currency)
		if err != nil {
			return nil, err
		}
		amount = converted
	}

	title := req.ProductName
	if title == "" {
		title = req.ProductID
	}
	redirectURL := ""
	if s.redirectBase != "" {
		redirectURL = s.redirectBase + "/payment/complete"
	}

	payload := &CheckoutPayload{
		TxRef:         NewTxRef(req.ProductID),
		Amount:        amount,
		Currency:      currency,
		Country:       req.Country,
		DisplayAmount: pricing.FormatMoney(amount, currency),
		PublicKey:     key,
		RedirectURL:   redirectURL,
		Customization: Customization{
			Title:       title,
			Description: fmt.Sprintf("Payment for %s", title),
		},
		State:         StateAwaitingGateway,
		ProductID:     req.ProductID,
		ProductName:   req.ProductName,
		Quantity:      quantity,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
	}

	s.logger.Info().
		Str("tx_ref", payload.TxRef).
		Str("product", req.ProductID).
		Float64("amount", amount).
		Str("currency", currency).
		Msg("Initiated checkout")
	return payload, nil
}

// Convert quotes an amount in another currency, preferring the gateway's
// destination amount over a local multiplication when both are present.
func (s *Service) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	if from == "" {
		from = s.baseCurrency
	}
	if to == "" || to == from {
		return pricing.Round2(amount), nil
	}
	return s.convert(ctx, amount, from, to)
}

func (s *Service) convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	quote, err := s.gateway.ConvertRate(ctx, amount, from, to)
	if err != nil {
		return 0, fmt.Errorf("currency conversion %s->%s failed: %w", from, to, err)
	}

	// A destination amount identical to the source across different
	// currencies means the gateway echoed the input; multiply manually.
	suspicious := quote.Destination.Amount == amount && quote.Rate != 1
	if quote.Destination.Amount > 0 && !suspicious {
		return pricing.Round2(quote.Destination.Amount), nil
	}
	if quote.Rate <= 0 {
		return 0, fmt.Errorf("currency conversion %s->%s returned no rate", from, to)
	}
	return pricing.Round2(amount * quote.Rate), nil
}

// VerifyRequest identifies a completed gateway charge and the terms it
// must match.
type VerifyRequest struct {
	TransactionID  string  `json:"transaction_id" binding:"required"`
	TxRef          string  `json:"tx_ref" binding:"required"`
	ExpectedAmount float64 `json:"amount" binding:"required"`
	Currency       string  `json:"currency"`
	ProductID      string  `json:"product_id"`
	ProductName    string  `json:"product_name"`
	Quantity       int     `json:"quantity"`
	CustomerEmail  string  `json:"customer_email"`
	CustomerName   string  `json:"customer_name"`
}

// VerifyOutcome reports a verified charge. Recorded is false when the
// ledger write failed; the verification itself still stands.
type VerifyOutcome struct {
	Verified    bool        `json:"verified"`
	Recorded    bool        `json:"recorded"`
	State       State       `json:"state"`
	Transaction Transaction `json:"transaction"`
}

// Verify re-fetches the transaction from the gateway and checks status,
// reference and amount against what the checkout expected. Each check
// fails with its own ValidationError field.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (*VerifyOutcome, error) {
	result, err := s.gateway.VerifyTransaction(ctx, req.TransactionID)
	if err != nil {
		telemetry.RecordPaymentVerification("error")
		return nil, err
	}
	tx := result.Transaction

	if result.Status != "success" || tx.Status != "successful" {
		telemetry.RecordPaymentVerification("status_mismatch")
		return nil, &ValidationError{
			Field:   FieldStatus,
			Message: fmt.Sprintf("transaction status is %q", tx.Status),
		}
	}

	if tx.TxRef != req.TxRef {
		telemetry.RecordPaymentVerification("reference_mismatch")
		return nil, &ValidationError{
			Field:   FieldReference,
			Message: fmt.Sprintf("transaction reference %q does not match %q", tx.TxRef, req.TxRef),
		}
	}

	if req.Currency != "" && tx.Currency != req.Currency {
		telemetry.RecordPaymentVerification("amount_mismatch")
		return nil, &ValidationError{
			Field:   FieldAmount,
			Message: fmt.Sprintf("transaction currency %q does not match %q", tx.Currency, req.Currency),
		}
	}
	if math.Abs(tx.Amount-req.ExpectedAmount) >= AmountTolerance {
		telemetry.RecordPaymentVerification("amount_mismatch")
		return nil, &ValidationError{
			Field:   FieldAmount,
			Message: fmt.Sprintf("transaction amount %.2f does not match expected %.2f", tx.Amount, req.ExpectedAmount),
		}
	}

	telemetry.RecordPaymentVerification("success")
	outcome := &VerifyOutcome{Verified: true, State: StateVerified, Transaction: tx}

	rec := ledger.Record{
		Timestamp:     time.Now(),
		TransactionID: strconv.FormatInt(tx.ID, 10),
		TxRef:         tx.TxRef,
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		Status:        tx.Status,
		CustomerEmail: firstNonEmpty(tx.Customer.Email, req.CustomerEmail),
		CustomerName:  firstNonEmpty(tx.Customer.Name, req.CustomerName),
		ProductID:     req.ProductID,
		ProductName:   req.ProductName,
		Quantity:      req.Quantity,
	}
	if rec.Quantity <= 0 {
		rec.Quantity = 1
	}

	if s.ledger == nil {
		return outcome, nil
	}
	if err := s.ledger.Append(ctx, rec); err != nil {
		telemetry.RecordLedgerAppendFailure()
		s.logger.Error().Err(err).
			Str("tx_ref", tx.TxRef).
			Int64("transaction_id", tx.ID).
			Msg("Failed to record verified payment in ledger")
		return outcome, nil
	}

	outcome.Recorded = true
	outcome.State = StateRecorded
	return outcome, nil
}

// Status returns the latest gateway status for a transaction reference.
func (s *Service) Status(ctx context.Context, txRef string) (*Transaction, error) {
	transactions, err := s.gateway.TransactionsByRef(ctx, txRef)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, fmt.Errorf("no transactions found for reference %q", txRef)
	}
	return &transactions[0], nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
