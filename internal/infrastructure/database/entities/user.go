package entities

import (
	"time"

	"alethiq-server/services/chat-api/internal/domain/identity"
)

// User represents the database schema for registered users
type User struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID     string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Username     string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Email        string `gorm:"type:varchar(128)"`
	PasswordHash string `gorm:"type:varchar(128);not null"`
	Role         string `gorm:"type:varchar(20);not null;default:'user'"`
}

// TableName specifies the table name for User.
func (User) TableName() string {
	return "users"
}

// NewSchemaUser converts a domain user to a database entity.
func NewSchemaUser(u *identity.User) *User {
	return &User{
		ID:           u.ID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		PublicID:     u.PublicID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}
}

// EtoD converts the entity to a domain user.
func (e *User) EtoD() *identity.User {
	return &identity.User{
		ID:           e.ID,
		PublicID:     e.PublicID,
		Username:     e.Username,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		Role:         e.Role,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
