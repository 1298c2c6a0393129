package user

import (
	"fmt"
	"strings"
	"time"
)

// User is the signed-in identity. The JSON layout is the persisted format.
type User struct {
	Username  string    `json:"username"`
	LoginTime time.Time `json:"loginTime"`
}

// New builds a user for username signed in at loginTime.
func New(username string, loginTime time.Time) (User, error) {
	name, err := NormalizeUsername(username)
	if err != nil {
		return User{}, err
	}
	return User{Username: name, LoginTime: loginTime}, nil
}

// NormalizeUsername trims the username and rejects an empty result.
func NormalizeUsername(username string) (string, error) {
	name := strings.TrimSpace(username)
	if name == "" {
		return "", ErrInvalidUsername
	}
	return name, nil
}

// SessionKey identifies one sign-in of this user.
func (u User) SessionKey() string {
	return fmt.Sprintf("%s|%d", u.Username, u.LoginTime.UnixNano())
}
