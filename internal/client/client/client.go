package client

import (
	"context"
	"time"
)

// User is the profile returned by Me.
type User struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

type Client interface {
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) error
	Me(ctx context.Context) (*User, error)
	Token() string
	SetToken(token string)
}
