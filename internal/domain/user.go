package domain

import (
	"fmt"
	"time"
)

// MaxPasswordBytes is bcrypt's input limit.
const MaxPasswordBytes = 72

// Common validation errors
var (
	ErrEmptyUsername   = fmt.Errorf("%w: username cannot be empty", ErrValidation)
	ErrEmptyPassword   = fmt.Errorf("%w: password cannot be empty", ErrValidation)
	ErrPasswordTooLong = fmt.Errorf("%w: password must be at most 72 bytes long", ErrValidation)
)

// User represents a registered shopper.
// ID is assigned by the store on creation and is empty until then.
type User struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Password       string     `json:"-"` // Plaintext password, used only during registration
	HashedPassword string     `json:"-"`
	Cart           []CartLine `json:"cart"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewUser creates a new User with an empty cart and fresh timestamps.
//
// NOTE: The caller is responsible for hashing the password before storing the user.
func NewUser(username, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		Username:  username,
		Password:  password,
		Cart:      []CartLine{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.Username == "" {
		return ErrEmptyUsername
	}

	if u.Password != "" {
		if len(u.Password) > MaxPasswordBytes {
			return ErrPasswordTooLong
		}
		return nil
	}

	// Persisted users carry only the hash.
	if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}
