// Package payment drives checkout against the Flutterwave gateway:
// initiation, verification and the ledger handoff.
package payment

import "fmt"

// Validation failure fields, one per verification check so callers can
// tell the mismatches apart.
const (
	FieldStatus    = "status"
	FieldReference = "reference"
	FieldAmount    = "amount"
)

// ValidationError reports exactly which verification check a transaction
// failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("payment validation failed (%s): %s", e.Field, e.Message)
}

// ConfigurationError reports a missing gateway credential or setting.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("payment gateway not configured: missing %s", e.Missing)
}

// GatewayError wraps an upstream error from the payment provider.
type GatewayError struct {
	Status int
	Body   string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway returned status %d: %s", e.Status, e.Body)
}
