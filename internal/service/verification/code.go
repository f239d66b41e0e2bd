package verification

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeGenerator returns a fresh 6-digit numeric code
type CodeGenerator func() (string, error)

var codeRange = big.NewInt(900000)

// RandomCode draws a code uniformly from 100000..999999.
func RandomCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeRange)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
