package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"
)

const (
	transactionIDPrefix = "FP-"
	transactionIDLength = 9
	base36              = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// GenerateTransactionID returns a client-side id for results the API did not
// give one for, e.g. FP-K3J9ZQ2AB.
func GenerateTransactionID() string {
	var b strings.Builder
	b.WriteString(transactionIDPrefix)

	max := big.NewInt(int64(len(base36)))
	for i := 0; i < transactionIDLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// fallback: time-based entropy
			n = big.NewInt((time.Now().UnixNano() >> uint(i)) % int64(len(base36)))
		}
		b.WriteByte(base36[n.Int64()])
	}

	return b.String()
}
