package user

import (
	"time"
)

// User represents a registered account.
// The ID is the only stable identity; Email may change.
type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex;not null;type:text"`
	PasswordHash string `gorm:"not null;type:text"`
	Roles        Roles  `gorm:"not null;type:text;default:''"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Identity returns the verified snapshot used by request handlers.
func (u *User) Identity() *Identity {
	return &Identity{
		ID:    u.ID,
		Roles: NewRoles(u.Roles...),
	}
}

// Identity is the verified {id, roles} snapshot attached to a request.
type Identity struct {
	ID    uint  `json:"id"`
	Roles Roles `json:"roles"`
}

// HasRole reports whether the identity carries role.
func (i *Identity) HasRole(role string) bool {
	return i != nil && i.Roles.Has(role)
}

// Changes describes an admin update of an account.
// Nil fields are left untouched.
type Changes struct {
	Roles    *Roles `json:"roles,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// TokenPair represents access and refresh tokens.
// RefreshToken is empty when only an access token was minted.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}
