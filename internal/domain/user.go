package domain

import "time"

// Roles assignable at registration. The role gates producer-only operations
// such as product registration and media upload.
const (
	RoleConsumer = "consumer"
	RoleProducer = "producer"
)

// ValidRoles lists every role accepted at registration.
var ValidRoles = []string{RoleConsumer, RoleProducer}

// IsValidRole reports whether the role is one of the assignable roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Preferences holds per-user application preferences.
type Preferences struct {
	Language      string `json:"language"`
	Notifications bool   `json:"notifications"`
	DarkMode      bool   `json:"darkMode"`
}

// DefaultPreferences returns the preferences assigned to new accounts.
func DefaultPreferences() Preferences {
	return Preferences{
		Language:      "pt-BR",
		Notifications: true,
		DarkMode:      false,
	}
}

// User is a registered account, consumer or producer.
type User struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         string      `json:"role"`
	Location     string      `json:"location,omitempty"`
	Preferences  Preferences `json:"preferences"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// RefreshToken is a stored, hashed refresh token. Only the SHA-256 hash of
// the token is persisted.
type RefreshToken struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// IsValid reports whether the token can still be exchanged.
func (t *RefreshToken) IsValid(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

// TokenPair bundles the tokens returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
