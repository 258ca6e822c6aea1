package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ContactOriginManual   = "manual"
	ContactOriginChatVolt = "chatvolt"

	// DefaultContactName is used when a webhook contact arrives without a name.
	DefaultContactName = "ChatVolt Contact"
)

type Contact struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UUID      string     `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;uniqueIndex;not null" json:"uuid"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	Name      string     `gorm:"type:varchar(150)" json:"name" validate:"required,min=2,max=150"`
	Email     string     `gorm:"type:varchar(200);index" json:"email" validate:"omitempty,email"`
	Phone     string     `gorm:"type:varchar(30);index" json:"phone"`
	Origin    string     `gorm:"type:varchar(30);default:'manual'" json:"origin"`
	Tags      StringList `gorm:"type:longtext" json:"tags"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-" validate:"-"`
}

func (ct *Contact) Validate() error {
	v := validator.New()

	return v.Struct(ct)
}

func (ct *Contact) BeforeCreate(tx *gorm.DB) error {
	if ct.UUID == "" {
		ct.UUID = uuid.New().String()
	}
	if ct.Origin == "" {
		ct.Origin = ContactOriginManual
	}
	if ct.Tags == nil {
		ct.Tags = StringList{}
	}
	return nil
}
