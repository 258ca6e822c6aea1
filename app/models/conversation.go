package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ConversationStatusActive = "active"
	ConversationStatusEnded  = "ended"

	ConversationOriginChatVolt = "chatvolt"

	// DefaultClientName is used when the bridge creates a conversation
	// without contact data.
	DefaultClientName = "ChatVolt Client"

	MessageTypeText = "text"

	MessageSenderUser = "user"
	MessageSenderBot  = "bot"
)

// Message is a single entry in a conversation transcript. The list is
// append-only; existing entries are never rewritten or reordered.
type Message struct {
	ID        string                 `json:"id,omitempty"`
	Text      string                 `json:"text"`
	Type      string                 `json:"type"`
	Sender    string                 `json:"sender"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// MessageList stores the conversation transcript as a JSON column.
type MessageList []Message

// Value implements the driver.Valuer interface
func (l MessageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]Message(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (l *MessageList) Scan(value interface{}) error {
	if value == nil {
		*l = MessageList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("invalid scan source")
	}
	if len(bytes) == 0 {
		*l = MessageList{}
		return nil
	}
	return json.Unmarshal(bytes, (*[]Message)(l))
}

type Conversation struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	UUID       string      `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;uniqueIndex;not null" json:"uuid"`
	UserID     uint        `gorm:"not null;index;uniqueIndex:ux_conversations_user_external,priority:1" json:"user_id"`
	ClientName string      `gorm:"type:varchar(150)" json:"client_name"`
	Phone      string      `gorm:"type:varchar(30)" json:"phone"`
	Email      string      `gorm:"type:varchar(200)" json:"email"`
	Status     string      `gorm:"type:varchar(20);default:'active'" json:"status"`
	Origin     string      `gorm:"type:varchar(30)" json:"origin"`
	// ExternalID is ChatVolt's conversation id and the idempotency key for
	// webhook-driven creation. The composite unique index closes the
	// find-or-create race; NULL rows (locally created conversations) are
	// exempt from it.
	ExternalID *string     `gorm:"type:varchar(191);uniqueIndex:ux_conversations_user_external,priority:2" json:"external_id"`
	Messages   MessageList `gorm:"type:longtext" json:"messages"`
	AgentID    *uint       `gorm:"index" json:"agent_id"`
	CreatedAt  time.Time   `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	User  User   `gorm:"foreignKey:UserID" json:"-" validate:"-"`
	Agent *Agent `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
}

func (cv *Conversation) BeforeCreate(tx *gorm.DB) error {
	if cv.UUID == "" {
		cv.UUID = uuid.New().String()
	}
	if cv.ClientName == "" {
		cv.ClientName = DefaultClientName
	}
	if cv.Status == "" {
		cv.Status = ConversationStatusActive
	}
	if cv.Messages == nil {
		cv.Messages = MessageList{}
	}
	return nil
}

// AppendMessage adds a message to the end of the transcript, preserving
// the order of everything already recorded.
func (cv *Conversation) AppendMessage(m Message) {
	if m.Type == "" {
		m.Type = MessageTypeText
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	cv.Messages = append(cv.Messages, m)
}

// IsActive reports whether the conversation is still open
func (cv *Conversation) IsActive() bool {
	return cv.Status == ConversationStatusActive
}
