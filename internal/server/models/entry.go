package models

import "time"

// PasswordEntry is a stored credential owned by exactly one user.
// EncryptedPassword is opaque AES-GCM ciphertext; Category and Tags are
// optional free-form labels.
type PasswordEntry struct {
	ID                int64
	UserID            int64
	Website           string
	AccountUsername   string
	EncryptedPassword string
	Category          string
	Tags              string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
