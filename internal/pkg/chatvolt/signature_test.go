package chatvolt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	payload := []byte(`{"type":"message.received","data":{"conversation_id":"cv-1"}}`)
	secret := "super-secret"

	sig := Sign(payload, secret)
	require.True(t, strings.HasPrefix(sig, "sha256="))
	assert.True(t, VerifySignature(payload, sig, secret))
}

func TestVerifySignature_RejectsTamperedPayload(t *testing.T) {
	payload := []byte(`{"type":"message.received"}`)
	sig := Sign(payload, "super-secret")

	tampered := []byte(`{"type":"message.receivee"}`)
	assert.False(t, VerifySignature(tampered, sig, "super-secret"))
}

func TestVerifySignature_RejectsMutatedSignature(t *testing.T) {
	payload := []byte("body")
	sig := Sign(payload, "super-secret")

	// Flip one hex digit
	last := sig[len(sig)-1]
	flipped := byte('0')
	if last == '0' {
		flipped = '1'
	}
	mutated := sig[:len(sig)-1] + string(flipped)

	assert.False(t, VerifySignature(payload, mutated, "super-secret"))
}

func TestVerifySignature_RequiresPrefix(t *testing.T) {
	payload := []byte("body")
	sig := Sign(payload, "super-secret")

	bare := strings.TrimPrefix(sig, "sha256=")
	assert.False(t, VerifySignature(payload, bare, "super-secret"))
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	payload := []byte("body")
	sig := Sign(payload, "secret-a")
	assert.False(t, VerifySignature(payload, sig, "secret-b"))
}

func TestVerifySignature_EmptyInputs(t *testing.T) {
	assert.False(t, VerifySignature([]byte("body"), "", "secret"))
	assert.False(t, VerifySignature([]byte("body"), Sign([]byte("body"), "secret"), ""))
	assert.False(t, VerifySignature([]byte("body"), "sha256=not-hex", "secret"))
}
