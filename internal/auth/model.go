package auth

import (
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOwner    Role = "owner"
	RoleTenant   Role = "tenant"
	RoleEmployee Role = "employee"
	RoleVisitor  Role = "visitor"
)

var allRoles = []Role{RoleAdmin, RoleOwner, RoleTenant, RoleEmployee, RoleVisitor}

// ParseRole validates s against the known roles.
func ParseRole(s string) (Role, bool) {
	for _, r := range allRoles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

func (r Role) String() string { return string(r) }

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone        *string   `gorm:"size:20;uniqueIndex" json:"phone,omitempty"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"size:20;not null;default:'visitor';index" json:"role"`
	FirstName    string    `gorm:"size:100;not null" json:"firstName"`
	LastName     string    `gorm:"size:100;not null" json:"lastName"`
	IsVerified   bool      `gorm:"not null;default:false" json:"isVerified"`
	ProfileImage string    `gorm:"size:255" json:"profileImage,omitempty"`
	FlatID       *uint     `gorm:"index" json:"flatId,omitempty"`
	TreePoints   int       `gorm:"not null;default:0;index" json:"treePoints"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// RefreshToken is one entry of a user's refresh-token allow-list. Only the
// sha256 of the token is stored.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	TokenHash string    `gorm:"size:64;not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User *User `json:"user"`
	TokenPair
}

type UserFilter struct {
	Role   string
	Search string
}
