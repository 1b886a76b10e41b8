package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Supported payment providers.
const (
	ProviderStableLink = "stablelink"
	ProviderCoinbase   = "coinbase"
)

// ErrBadSignature is returned for any missing, malformed or mismatched
// webhook signature. Callers map it to 401.
var ErrBadSignature = errors.New("invalid webhook signature")

// Verifier authenticates inbound provider callbacks. Both providers sign the
// raw request body with HMAC-SHA256 over a shared secret; the hex digest
// arrives in a provider-specific header, optionally prefixed with "sha256=".
type Verifier struct{}

// Verify checks the signature header against the raw body. It fails closed:
// a missing header or an unconfigured secret rejects the webhook before any
// of the body is parsed.
func (Verifier) Verify(provider string, body []byte, signature, secret string) error {
	switch provider {
	case ProviderStableLink, ProviderCoinbase:
		return verifyHMAC(body, signature, secret)
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrBadSignature, provider)
	}
}

func verifyHMAC(body []byte, signature, secret string) error {
	if secret == "" || signature == "" {
		return ErrBadSignature
	}

	want, err := hex.DecodeString(strings.TrimPrefix(signature, "sha256="))
	if err != nil {
		return ErrBadSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(mac.Sum(nil), want) {
		return ErrBadSignature
	}
	return nil
}
