package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/masteragentes/masteragentes/app/models"
)

// chatVoltConfigRepository implements the ChatVoltConfigRepository interface
type chatVoltConfigRepository struct {
	db *gorm.DB
}

// NewChatVoltConfigRepository creates a new credential store instance
func NewChatVoltConfigRepository(db *gorm.DB) ChatVoltConfigRepository {
	return &chatVoltConfigRepository{db: db}
}

// GetByUser retrieves the credential of a user regardless of active state
func (r *chatVoltConfigRepository) GetByUser(userID uint) (*models.ChatVoltConfig, error) {
	var cfg models.ChatVoltConfig
	err := r.db.Where("user_id = ?", userID).First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve returns the active credential matching the (apiKey, orgID) pair.
// Inactive and unknown credentials are indistinguishable to the caller.
// The pair is not globally unique; ordering by id keeps a duplicated pair
// resolving to the oldest registration.
func (r *chatVoltConfigRepository) Resolve(apiKey, orgID string) (*models.ChatVoltConfig, error) {
	var cfg models.ChatVoltConfig
	err := r.db.Where("api_key = ? AND org_id = ? AND active = ?", apiKey, orgID, true).
		Order("id").
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolveByOrg returns the active credential for an organization id alone.
// The webhook path authenticates with the shared secret instead of the API key.
func (r *chatVoltConfigRepository) ResolveByOrg(orgID string) (*models.ChatVoltConfig, error) {
	var cfg models.ChatVoltConfig
	err := r.db.Where("org_id = ? AND active = ?", orgID, true).
		Order("id").
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Upsert creates or replaces the credential of a user. An existing record
// has its key, org, secret and active flag overwritten.
func (r *chatVoltConfigRepository) Upsert(userID uint, apiKey, orgID, webhookSecret string) (*models.ChatVoltConfig, error) {
	existing, err := r.GetByUser(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.APIKey = apiKey
		existing.OrgID = orgID
		existing.WebhookSecret = webhookSecret
		existing.Active = true
		if err := r.db.Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}

	cfg := &models.ChatVoltConfig{
		UserID:        userID,
		APIKey:        apiKey,
		OrgID:         orgID,
		WebhookSecret: webhookSecret,
		Active:        true,
	}
	if err := r.db.Create(cfg).Error; err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetActive toggles the active flag, returning the number of rows updated
func (r *chatVoltConfigRepository) SetActive(userID uint, active bool) (int64, error) {
	result := r.db.Model(&models.ChatVoltConfig{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"active":     active,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// DeleteByUser removes the credential, returning the number of rows deleted
func (r *chatVoltConfigRepository) DeleteByUser(userID uint) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&models.ChatVoltConfig{})
	return result.RowsAffected, result.Error
}
