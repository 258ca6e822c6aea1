package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// ChatVoltConfig maps a ChatVolt organization identity to a local user.
// The (APIKey, OrgID) pair is intentionally not globally unique, matching
// the upstream contract; Resolve orders by id so a duplicated pair at least
// resolves deterministically to the oldest registration.
type ChatVoltConfig struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	APIKey        string    `gorm:"type:varchar(191);not null" json:"-" validate:"required,min=10"`
	OrgID         string    `gorm:"type:varchar(191);not null;index" json:"org_id" validate:"required,min=5"`
	WebhookSecret string    `gorm:"type:varchar(191)" json:"-"`
	Active        bool      `gorm:"default:true;index" json:"active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-" validate:"-"`
}

func (cfg *ChatVoltConfig) Validate() error {
	v := validator.New()

	return v.Struct(cfg)
}

// MaskedAPIKey returns the display form of the API key: the first 8 and
// last 4 characters joined by an ellipsis. The stored value is never masked.
func (cfg *ChatVoltConfig) MaskedAPIKey() string {
	return MaskAPIKey(cfg.APIKey)
}

func MaskAPIKey(key string) string {
	if len(key) <= 12 {
		return key
	}
	return key[:8] + "..." + key[len(key)-4:]
}

// HasWebhookSecret reports whether signature verification is configured.
func (cfg *ChatVoltConfig) HasWebhookSecret() bool {
	return cfg.WebhookSecret != ""
}
