package models

import "time"

// User is a registered account. PasswordHash is an encoded bcrypt string
// and never leaves the server.
type User struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Avatar       string    `db:"avatar"`
	CreatedAt    time.Time `db:"created_at"`
}
