package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/masteragentes/masteragentes/app/models"
)

// conversationRepository implements the ConversationRepository interface
type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new conversation repository instance
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// Create creates a new conversation in the database
func (r *conversationRepository) Create(conv *models.Conversation) error {
	return r.db.Create(conv).Error
}

// Save persists changes to an existing conversation
func (r *conversationRepository) Save(conv *models.Conversation) error {
	return r.db.Save(conv).Error
}

// ListByUserWithAgent returns the conversations of a user, newest first,
// with the assigned agent preloaded. A limit of 0 returns all of them.
func (r *conversationRepository) ListByUserWithAgent(userID uint, limit int) ([]models.Conversation, error) {
	var conversations []models.Conversation
	query := r.db.Where("user_id = ?", userID).
		Preload("Agent").
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&conversations).Error
	return conversations, err
}

// ListByUserSince returns the conversations created since the given time
func (r *conversationRepository) ListByUserSince(userID uint, since time.Time) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.Where("user_id = ? AND created_at >= ?", userID, since).
		Find(&conversations).Error
	return conversations, err
}

// ListRecentByUser returns the most recently updated conversations with
// their agent preloaded
func (r *conversationRepository) ListRecentByUser(userID uint, limit int) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.Where("user_id = ?", userID).
		Preload("Agent").
		Order("updated_at DESC").
		Limit(limit).
		Find(&conversations).Error
	return conversations, err
}

// GetByExternalID retrieves a conversation by the remote system's id
func (r *conversationRepository) GetByExternalID(userID uint, externalID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.Where("user_id = ? AND external_id = ?", userID, externalID).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindOrCreateByExternalID returns the conversation with the given
// external id, creating it from conv when none exists. The boolean
// reports whether a row was created. A concurrent create racing on the
// (user_id, external_id) unique index is resolved by re-reading.
func (r *conversationRepository) FindOrCreateByExternalID(conv *models.Conversation) (*models.Conversation, bool, error) {
	if conv.ExternalID == nil || *conv.ExternalID == "" {
		return nil, false, errors.New("external id required")
	}

	existing, err := r.GetByExternalID(conv.UserID, *conv.ExternalID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if err := r.db.Create(conv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, err := r.GetByExternalID(conv.UserID, *conv.ExternalID)
			return existing, false, err
		}
		return nil, false, err
	}
	return conv, true, nil
}

// UpdateForUser replaces status and messages of a conversation owned by
// the given user. gorm.ErrRecordNotFound is returned when the conversation
// does not exist or belongs to someone else.
func (r *conversationRepository) UpdateForUser(userID, id uint, status string, messages models.MessageList) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.Where("user_id = ?", userID).First(&conv, id).Error; err != nil {
		return nil, err
	}

	if status != "" {
		conv.Status = status
	}
	if messages != nil {
		conv.Messages = messages
	}
	if err := r.db.Save(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// EndByExternalID marks every conversation with the given external id as
// ended. Matching zero rows is not an error.
func (r *conversationRepository) EndByExternalID(userID uint, externalID string) (int64, error) {
	result := r.db.Model(&models.Conversation{}).
		Where("user_id = ? AND external_id = ?", userID, externalID).
		Updates(map[string]interface{}{
			"status":     models.ConversationStatusEnded,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// CountByUser returns the total number of conversations of a user
func (r *conversationRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Conversation{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountByUserAndStatus returns the number of conversations in a given status
func (r *conversationRepository) CountByUserAndStatus(userID uint, status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Conversation{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error
	return count, err
}
