package chatvolt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader is the request header carrying the webhook signature.
const SignatureHeader = "x-chatvolt-signature"

const signaturePrefix = "sha256="

// Sign computes the signature ChatVolt is expected to send for a payload:
// "sha256=" followed by the hex HMAC-SHA256 of the raw body bytes.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook signature header against the shared
// secret. The comparison is constant time over the decoded digest.
func VerifySignature(payload []byte, signatureHeader, secret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	if sig == "" || secret == "" {
		return false
	}
	if !strings.HasPrefix(sig, signaturePrefix) {
		return false
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(strings.TrimPrefix(sig, signaturePrefix)))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), decodedSig)
}
