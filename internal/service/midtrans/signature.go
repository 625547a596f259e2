package midtrans

import (
	"crypto/sha512"
	"encoding/hex"
)

// Signature computes the hex digest Midtrans sends as signature_key:
// SHA-512 over order_id, status_code, gross_amount and the server key
// concatenated without delimiter.
func Signature(orderID string, statusCode string, grossAmount string, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature reports whether a webhook payload is authentic.
// Must be checked before any payment state is touched.
func (c *Client) VerifySignature(orderID string, statusCode string, grossAmount string, signatureKey string) bool {
	return Signature(orderID, statusCode, grossAmount, c.serverKey) == signatureKey
}
