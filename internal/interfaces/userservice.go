package interfaces

import (
	"context"

	"github.com/haguru/yelpcamp/internal/models"
)

type UserService interface {
	RegisterUser(ctx context.Context, email, username, password string) (string, error)
	AuthenticateUser(ctx context.Context, username, password string) (*models.User, error)
}
