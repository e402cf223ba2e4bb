// Package user defines the user profile and its achievement rules
package user

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Domain errors
var (
	ErrMissingID    = errors.New("user id is required")
	ErrInvalidEmail = errors.New("invalid email format")
	ErrUserNotFound = errors.New("user not found")
)

// AvatarBaseURL is the avatar generator a profile picture is drawn from.
const AvatarBaseURL = "https://api.dicebear.com/7.x/adventurer/svg"

// User is a signed-in person's profile. The id is the subject issued by
// the identity provider.
type User struct {
	id        string
	email     string
	name      string
	avatarURL string
	rank      Rank
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a profile for a first-time user
func NewUser(id, email, name string) (*User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrMissingID
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	now := time.Now().UTC()
	return &User{
		id:        id,
		email:     email,
		name:      strings.TrimSpace(name),
		rank:      RankBeginner,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructUser rebuilds a profile loaded from storage
func ReconstructUser(id, email, name, avatarURL string, rank Rank, createdAt, updatedAt time.Time) *User {
	if rank == "" {
		rank = RankBeginner
	}
	return &User{
		id:        id,
		email:     email,
		name:      name,
		avatarURL: avatarURL,
		rank:      rank,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the user's ID
func (u *User) ID() string {
	return u.id
}

// Email returns the user's email
func (u *User) Email() string {
	return u.email
}

// Name returns the user's display name
func (u *User) Name() string {
	return u.name
}

// AvatarURL returns the user's avatar, empty until one is chosen
func (u *User) AvatarURL() string {
	return u.avatarURL
}

// Rank returns the last rank recorded for the user
func (u *User) Rank() Rank {
	return u.rank
}

// CreatedAt returns when the profile was created
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// UpdatedAt returns when the profile last changed
func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// ChangeAvatar replaces the avatar with one drawn from seed.
func (u *User) ChangeAvatar(seed string) string {
	u.avatarURL = AvatarURL(seed)
	u.updatedAt = time.Now().UTC()
	return u.avatarURL
}

// UpdateRank records the rank earned for total searches. It reports
// whether the rank changed.
func (u *User) UpdateRank(totalSearches int) bool {
	rank := RankFor(totalSearches)
	if rank == u.rank {
		return false
	}
	u.rank = rank
	u.updatedAt = time.Now().UTC()
	return true
}

// AvatarURL builds the avatar address for seed.
func AvatarURL(seed string) string {
	return fmt.Sprintf("%s?seed=%s", AvatarBaseURL, url.QueryEscape(seed))
}
