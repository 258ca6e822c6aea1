package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AgentKindAttendance = "attendance"
	AgentKindSales      = "sales"
	AgentKindSupport    = "support"
	AgentKindLeads      = "leads"

	AgentStatusActive   = "active"
	AgentStatusInactive = "inactive"
	AgentStatusPaused   = "paused"
)

var hourPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// BusinessHours is the daily attendance window of an agent.
type BusinessHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ChatVoltBinding holds per-agent ChatVolt credentials inside the agent config.
type ChatVoltBinding struct {
	APIKey string `json:"api_key,omitempty"`
	OrgID  string `json:"org_id,omitempty"`
	BotID  string `json:"bot_id,omitempty"`
}

// N8NBinding holds an optional n8n automation hook.
type N8NBinding struct {
	URL   string `json:"url,omitempty"`
	Token string `json:"token,omitempty"`
}

// AgentIntegration groups third-party bindings in the agent config.
type AgentIntegration struct {
	ChatVolt *ChatVoltBinding `json:"chatvolt,omitempty"`
	N8N      *N8NBinding      `json:"n8n,omitempty"`
}

// AgentConfig is the structured agent configuration. Unknown keys are kept
// in Extra so configs written by newer clients survive a round trip.
type AgentConfig struct {
	WelcomeMessage string
	BusinessHours  *BusinessHours
	Integration    *AgentIntegration
	Extra          map[string]json.RawMessage
}

func (c AgentConfig) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(c.Extra)+3)
	for k, v := range c.Extra {
		out[k] = v
	}
	if c.WelcomeMessage != "" {
		b, err := json.Marshal(c.WelcomeMessage)
		if err != nil {
			return nil, err
		}
		out["welcome_message"] = b
	}
	if c.BusinessHours != nil {
		b, err := json.Marshal(c.BusinessHours)
		if err != nil {
			return nil, err
		}
		out["business_hours"] = b
	}
	if c.Integration != nil {
		b, err := json.Marshal(c.Integration)
		if err != nil {
			return nil, err
		}
		out["integration"] = b
	}
	return json.Marshal(out)
}

func (c *AgentConfig) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = AgentConfig{}
	if v, ok := raw["welcome_message"]; ok {
		if err := json.Unmarshal(v, &c.WelcomeMessage); err != nil {
			return err
		}
		delete(raw, "welcome_message")
	}
	if v, ok := raw["business_hours"]; ok {
		c.BusinessHours = &BusinessHours{}
		if err := json.Unmarshal(v, c.BusinessHours); err != nil {
			return err
		}
		delete(raw, "business_hours")
	}
	if v, ok := raw["integration"]; ok {
		c.Integration = &AgentIntegration{}
		if err := json.Unmarshal(v, c.Integration); err != nil {
			return err
		}
		delete(raw, "integration")
	}
	if len(raw) > 0 {
		c.Extra = raw
	}
	return nil
}

// Validate checks the schema of the known config fields.
func (c AgentConfig) Validate() error {
	if c.BusinessHours != nil {
		if !hourPattern.MatchString(c.BusinessHours.Start) || !hourPattern.MatchString(c.BusinessHours.End) {
			return errors.New("business_hours must use HH:MM format")
		}
	}
	return nil
}

// Value implements the driver.Valuer interface
func (c AgentConfig) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (c *AgentConfig) Scan(value interface{}) error {
	return scanJSONColumn(value, c)
}

// AgentStats carries the agent counters. Price feeds the product projection
// the ChatVolt proxy exposes; unknown keys are preserved in Extra.
type AgentStats struct {
	Price           float64
	SessionsHandled int64
	MessagesSent    int64
	Extra           map[string]json.RawMessage
}

func (s AgentStats) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(s.Extra)+3)
	for k, v := range s.Extra {
		out[k] = v
	}
	if s.Price != 0 {
		b, err := json.Marshal(s.Price)
		if err != nil {
			return nil, err
		}
		out["price"] = b
	}
	if s.SessionsHandled != 0 {
		b, err := json.Marshal(s.SessionsHandled)
		if err != nil {
			return nil, err
		}
		out["sessions_handled"] = b
	}
	if s.MessagesSent != 0 {
		b, err := json.Marshal(s.MessagesSent)
		if err != nil {
			return nil, err
		}
		out["messages_sent"] = b
	}
	return json.Marshal(out)
}

func (s *AgentStats) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = AgentStats{}
	if v, ok := raw["price"]; ok {
		if err := json.Unmarshal(v, &s.Price); err != nil {
			return err
		}
		delete(raw, "price")
	}
	if v, ok := raw["sessions_handled"]; ok {
		if err := json.Unmarshal(v, &s.SessionsHandled); err != nil {
			return err
		}
		delete(raw, "sessions_handled")
	}
	if v, ok := raw["messages_sent"]; ok {
		if err := json.Unmarshal(v, &s.MessagesSent); err != nil {
			return err
		}
		delete(raw, "messages_sent")
	}
	if len(raw) > 0 {
		s.Extra = raw
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s AgentStats) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (s *AgentStats) Scan(value interface{}) error {
	return scanJSONColumn(value, s)
}

type Agent struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UUID      string      `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;uniqueIndex;not null" json:"uuid"`
	UserID    uint        `gorm:"index;not null" json:"user_id"`
	Name      string      `gorm:"type:varchar(150)" json:"name" validate:"required,min=2,max=50"`
	Kind      string      `gorm:"type:varchar(20);not null" json:"kind" validate:"oneof=attendance sales support leads"`
	Status    string      `gorm:"type:varchar(20);default:'active'" json:"status" validate:"oneof=active inactive paused"`
	Config    AgentConfig `gorm:"type:longtext" json:"config"`
	Stats     AgentStats  `gorm:"type:longtext" json:"stats"`
	CreatedAt time.Time   `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-" validate:"-"`
}

func (a *Agent) Validate() error {
	v := validator.New()
	if err := v.Struct(a); err != nil {
		return err
	}
	return a.Config.Validate()
}

func (a *Agent) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == "" {
		a.UUID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = AgentStatusActive
	}
	return nil
}

// IsActive reports whether the agent status is active
func (a *Agent) IsActive() bool {
	return a.Status == AgentStatusActive
}

func scanJSONColumn(value interface{}, dst json.Unmarshaler) error {
	if value == nil {
		return dst.UnmarshalJSON([]byte("{}"))
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
		bytes = []byte("{}")
	}
	return dst.UnmarshalJSON(bytes)
}
