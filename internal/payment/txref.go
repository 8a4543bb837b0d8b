package payment

import (
	"fmt"
	"math/rand"
	"time"
)

// NewTxRef builds a transaction reference from the product id, the
// current time in epoch milliseconds and a random suffix. References are
// unique enough for correlation; the gateway transaction id remains the
// authoritative key.
func NewTxRef(productID string) string {
	return fmt.Sprintf("%s-%d-%d", productID, time.Now().UnixMilli(), rand.Intn(1000))
}
