package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "cv_live_...wxyz", MaskAPIKey("cv_live_1234567890abcdwxyz"))

	// Short keys are returned untouched instead of leaking their shape
	assert.Equal(t, "short", MaskAPIKey("short"))
	assert.Equal(t, "exactly12chr", MaskAPIKey("exactly12chr"))
	assert.Equal(t, "", MaskAPIKey(""))
}

func TestMaskAPIKeyLongKey(t *testing.T) {
	key := "0123456789abcdefghij"
	masked := MaskAPIKey(key)
	assert.Equal(t, "01234567...ghij", masked)
	assert.NotContains(t, masked, key[8:len(key)-4])
}

func TestChatVoltConfigValidate(t *testing.T) {
	cfg := ChatVoltConfig{UserID: 1, APIKey: "cv_live_1234567890", OrgID: "org_12345"}
	assert.NoError(t, cfg.Validate())

	cfg.APIKey = "too-short"
	assert.Error(t, cfg.Validate())

	cfg.APIKey = "cv_live_1234567890"
	cfg.OrgID = "org"
	assert.Error(t, cfg.Validate())
}

func TestChatVoltConfigHasWebhookSecret(t *testing.T) {
	cfg := ChatVoltConfig{}
	assert.False(t, cfg.HasWebhookSecret())
	cfg.WebhookSecret = "s3cret"
	assert.True(t, cfg.HasWebhookSecret())
}
