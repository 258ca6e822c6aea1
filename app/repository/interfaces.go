package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/masteragentes/masteragentes/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
}

// AgentRepository defines the interface for agent-related database operations.
// Every query is scoped to the owning user.
type AgentRepository interface {
	Create(agent *models.Agent) error
	GetByID(userID, id uint) (*models.Agent, error)
	ListByUser(userID uint) ([]models.Agent, error)
	ListByUserWithConversationCount(userID uint) ([]AgentWithConversations, error)
	ListByUserSince(userID uint, since time.Time) ([]models.Agent, error)
	ListRecentByUser(userID uint, limit int) ([]models.Agent, error)
	Update(agent *models.Agent) error
	Delete(userID, id uint) error
	CountByUser(userID uint) (int64, error)
	CountByUserAndStatus(userID uint, status string) (int64, error)
}

// ContactInput carries the identity fields of a webhook-originated contact.
type ContactInput struct {
	Name  string
	Email string
	Phone string
	Tags  []string
}

// IsEmpty reports whether no identity field is present.
func (in ContactInput) IsEmpty() bool {
	return in.Name == "" && in.Email == "" && in.Phone == ""
}

// ContactRepository defines the interface for contact-related database operations
type ContactRepository interface {
	Create(contact *models.Contact) error
	ListByUser(userID uint, limit int) ([]models.Contact, error)
	FindByIdentity(userID uint, email, phone string) (*models.Contact, error)
	UpsertByIdentity(userID uint, in ContactInput) (*models.Contact, error)
	Delete(userID, id uint) error
	CountByUser(userID uint) (int64, error)
}

// ConversationRepository defines the interface for conversation-related
// database operations
type ConversationRepository interface {
	Create(conv *models.Conversation) error
	Save(conv *models.Conversation) error
	ListByUserWithAgent(userID uint, limit int) ([]models.Conversation, error)
	ListByUserSince(userID uint, since time.Time) ([]models.Conversation, error)
	ListRecentByUser(userID uint, limit int) ([]models.Conversation, error)
	GetByExternalID(userID uint, externalID string) (*models.Conversation, error)
	FindOrCreateByExternalID(conv *models.Conversation) (*models.Conversation, bool, error)
	UpdateForUser(userID, id uint, status string, messages models.MessageList) (*models.Conversation, error)
	EndByExternalID(userID uint, externalID string) (int64, error)
	CountByUser(userID uint) (int64, error)
	CountByUserAndStatus(userID uint, status string) (int64, error)
}

// ChatVoltConfigRepository defines the interface for the credential store
type ChatVoltConfigRepository interface {
	GetByUser(userID uint) (*models.ChatVoltConfig, error)
	Resolve(apiKey, orgID string) (*models.ChatVoltConfig, error)
	ResolveByOrg(orgID string) (*models.ChatVoltConfig, error)
	Upsert(userID uint, apiKey, orgID, webhookSecret string) (*models.ChatVoltConfig, error)
	SetActive(userID uint, active bool) (int64, error)
	DeleteByUser(userID uint) (int64, error)
}

// AgentWithConversations represents an agent with its conversation count
type AgentWithConversations struct {
	Agent             models.Agent
	ConversationCount int64
}

// Repositories struct holds all repository instances
type Repositories struct {
	User           UserRepository
	Agent          AgentRepository
	Contact        ContactRepository
	Conversation   ConversationRepository
	ChatVoltConfig ChatVoltConfigRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:           NewUserRepository(db),
		Agent:          NewAgentRepository(db),
		Contact:        NewContactRepository(db),
		Conversation:   NewConversationRepository(db),
		ChatVoltConfig: NewChatVoltConfigRepository(db),
	}
}
