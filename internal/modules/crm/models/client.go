package models

import (
	"time"

	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/engagement"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a tracked customer with an engagement status
type Client struct {
	ID     uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	Name   string            `json:"name" gorm:"type:varchar(255);not null"`
	Phone  string            `json:"phone" gorm:"type:varchar(32);not null;uniqueIndex:idx_crm_clients_phone_active,where:deleted = false"`
	Status engagement.Status `json:"status" gorm:"type:varchar(20);not null;index:idx_crm_clients_status_last_interaction,priority:1"`

	LastInteractionAt time.Time     `json:"lastInteraction" gorm:"not null;index:idx_crm_clients_status_last_interaction,priority:2"`
	Interactions      []Interaction `json:"interactions" gorm:"foreignKey:ClientID;references:ID;constraint:OnDelete:CASCADE"`

	// Timestamps are set by the service clock, not by GORM
	CreatedAt time.Time `json:"createdAt" gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null;autoUpdateTime:false;index:,sort:desc"`

	Deleted bool `json:"deleted" gorm:"not null;default:false;index"`
}

// TableName specifies the table name for Client
func (Client) TableName() string {
	return "crm_clients"
}

// BeforeCreate sets UUID before creating
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Interaction is an immutable note recording contact with a client.
// Position is the append index within the client's history.
type Interaction struct {
	ID          uuid.UUID `json:"-" gorm:"type:uuid;primaryKey"`
	ClientID    uuid.UUID `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_crm_interactions_client_position,priority:1"`
	Position    int       `json:"-" gorm:"not null;uniqueIndex:idx_crm_interactions_client_position,priority:2"`
	OccurredAt  time.Time `json:"date" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
}

// TableName specifies the table name for Interaction
func (Interaction) TableName() string {
	return "crm_client_interactions"
}

// BeforeCreate sets UUID before creating
func (i *Interaction) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ClientStats counts non-deleted clients per status
type ClientStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Potential int64 `json:"potential"`
	Inactive  int64 `json:"inactive"`
}
