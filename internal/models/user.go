package models

import (
	"regexp"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v4"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.]{3,30}$`)

// User represents a registered account. Accounts are created the first time
// a verified email from the identity provider completes signup.
type User struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Email       string `json:"email" gorm:"uniqueIndex;not null"`
	Username    string `json:"username" gorm:"size:30;uniqueIndex;not null"`
	DisplayName string `json:"display_name" gorm:"size:100;not null"`
	IsAdmin     bool   `json:"is_admin" gorm:"not null;default:false"`
	IsDeleted   bool   `json:"is_deleted" gorm:"not null;default:false"`
}

// NewUser builds a validated user. Uniqueness of the email and username is
// left to the repository and the storage engine.
func NewUser(email, username, displayName string) (*User, error) {
	u := &User{Email: email}
	if err := u.SetUsername(username); err != nil {
		return nil, err
	}
	if err := u.SetDisplayName(displayName); err != nil {
		return nil, err
	}
	return u, nil
}

// SetUsername validates and sets the username.
func (u *User) SetUsername(username string) error {
	if len(username) < 3 || len(username) > 30 {
		return ErrInvalidOperation("Username must be between 3 and 30 characters")
	}
	if !usernamePattern.MatchString(username) {
		return ErrInvalidOperation("Username must only consist of letters, numbers, underscore, or period")
	}
	u.Username = username
	return nil
}

// SetDisplayName validates and sets the display name. The length bound
// counts characters, not bytes.
func (u *User) SetDisplayName(displayName string) error {
	length := utf8.RuneCountInString(displayName)
	if length < 1 || length > 100 {
		return ErrInvalidOperation("Display name must be between 1 and 100 characters")
	}
	u.DisplayName = displayName
	return nil
}

// PublicUser is the externally safe projection of a user. The nickname is
// viewer-specific and only set when the query layer resolved one.
type PublicUser struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Nickname    string `json:"nickname,omitempty"`
}

// ToPublic returns the externally safe field subset of this user.
func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
	}
}

// FriendInfo pairs a friend with the nickname the viewer has set for them.
type FriendInfo struct {
	User     User
	Nickname string
}

// ToPublic returns the friend's public projection with the viewer's nickname.
func (f FriendInfo) ToPublic() PublicUser {
	pub := f.User.ToPublic()
	pub.Nickname = f.Nickname
	return pub
}

// CreateAccountRequest defines the request body for completing signup after
// the identity provider has verified the email.
type CreateAccountRequest struct {
	IDToken     string `json:"idToken" validate:"required"`
	Username    string `json:"username" validate:"required,min=3,max=30"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
}

// UpdateProfileRequest defines the request body for editing a profile.
type UpdateProfileRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
