package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// exprIDLength is the number of hex characters kept from the digest.
const exprIDLength = 12

func SHA256(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])
}

// ExpressionID returns a short, stable identifier for an expression.
// Surrounding whitespace does not change the ID.
func ExpressionID(expression string) string {
	return "expr:" + SHA256(strings.TrimSpace(expression))[:exprIDLength]
}
