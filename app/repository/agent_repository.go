package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/masteragentes/masteragentes/app/models"
)

// agentRepository implements the AgentRepository interface
type agentRepository struct {
	db *gorm.DB
}

// NewAgentRepository creates a new agent repository instance
func NewAgentRepository(db *gorm.DB) AgentRepository {
	return &agentRepository{db: db}
}

// Create creates a new agent in the database
func (r *agentRepository) Create(agent *models.Agent) error {
	return r.db.Create(agent).Error
}

// GetByID retrieves an agent owned by the given user
func (r *agentRepository) GetByID(userID, id uint) (*models.Agent, error) {
	var agent models.Agent
	err := r.db.Where("user_id = ?", userID).First(&agent, id).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// ListByUser returns all agents of a user, newest first
func (r *agentRepository) ListByUser(userID uint) ([]models.Agent, error) {
	var agents []models.Agent
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&agents).Error
	return agents, err
}

// ListByUserWithConversationCount returns all agents of a user, newest
// first, each with the number of conversations assigned to it.
func (r *agentRepository) ListByUserWithConversationCount(userID uint) ([]AgentWithConversations, error) {
	agents, err := r.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	type agentCount struct {
		AgentID uint
		Total   int64
	}
	var counts []agentCount
	err = r.db.Model(&models.Conversation{}).
		Select("agent_id, COUNT(*) AS total").
		Where("user_id = ? AND agent_id IS NOT NULL", userID).
		Group("agent_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	byAgent := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byAgent[c.AgentID] = c.Total
	}

	result := make([]AgentWithConversations, len(agents))
	for i, a := range agents {
		result[i] = AgentWithConversations{
			Agent:             a,
			ConversationCount: byAgent[a.ID],
		}
	}
	return result, nil
}

// ListByUserSince returns the agents created since the given time
func (r *agentRepository) ListByUserSince(userID uint, since time.Time) ([]models.Agent, error) {
	var agents []models.Agent
	err := r.db.Where("user_id = ? AND created_at >= ?", userID, since).
		Find(&agents).Error
	return agents, err
}

// ListRecentByUser returns the most recently updated agents
func (r *agentRepository) ListRecentByUser(userID uint, limit int) ([]models.Agent, error) {
	var agents []models.Agent
	err := r.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&agents).Error
	return agents, err
}

// Update saves changes to an existing agent
func (r *agentRepository) Update(agent *models.Agent) error {
	return r.db.Save(agent).Error
}

// Delete removes an agent owned by the given user
func (r *agentRepository) Delete(userID, id uint) error {
	result := r.db.Where("user_id = ?", userID).Delete(&models.Agent{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByUser returns the total number of agents of a user
func (r *agentRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Agent{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountByUserAndStatus returns the number of agents in a given status
func (r *agentRepository) CountByUserAndStatus(userID uint, status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Agent{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error
	return count, err
}
