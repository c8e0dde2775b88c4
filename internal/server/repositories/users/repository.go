// Package users is the credential store: persistence of registered accounts
// keyed by id and by normalised email.
package users

import (
	"context"

	"github.com/dmitrijs2005/devconnector/internal/server/models"
)

// Repository stores users. Email uniqueness is enforced by the store itself;
// Create returns common.ErrorAlreadyExists when it is violated and lookups
// return common.ErrorNotFound for missing rows.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
