package models

import "time"

// User is a vault account. PasswordHash is an argon2id PHC string and is
// never reversible; it must not leave the server.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
