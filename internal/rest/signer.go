package rest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signer computes the HMAC-SHA256 request signature expected by the
// authenticated endpoints. It stores the key as []byte to allow memory
// wiping.
type Signer struct {
	secretKey []byte
}

// NewSigner creates a signer from the account's secret credential.
func NewSigner(secretKey string) *Signer {
	return &Signer{secretKey: []byte(secretKey)}
}

// Sign returns the lowercase hex HMAC-SHA256 of the query-encoded parameter
// set. Deterministic: the same ordered parameters and secret always produce
// the same signature.
func (s *Signer) Sign(params *Params) string {
	mac := hmac.New(sha256.New, s.secretKey)
	mac.Write([]byte(params.Encode()))
	return hex.EncodeToString(mac.Sum(nil))
}

// Wipe clears the secret from memory.
func (s *Signer) Wipe() {
	if s == nil {
		return
	}
	for i := range s.secretKey {
		s.secretKey[i] = 0
	}
}
