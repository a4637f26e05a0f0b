package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewOrderNumber returns a human-facing order number of the form
// PY-YYYYMMDD-XXXXX. Uniqueness is enforced by the DB index, not here.
func NewOrderNumber(t time.Time) string {
	n, _ := rand.Int(rand.Reader, big.NewInt(100000))
	return fmt.Sprintf("PY-%s-%05d", t.UTC().Format("20060102"), n.Int64())
}
