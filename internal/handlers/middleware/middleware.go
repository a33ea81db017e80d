package middleware

import (
	"context"
	"vistoria/config"
	"vistoria/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// Authenticator resolves a bearer access token to an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

type Middleware struct {
	auth   Authenticator
	Config config.Config
	log    logger.Logger
}

func New(auth Authenticator, config config.Config) Middleware {
	return Middleware{
		auth:   auth,
		Config: config,
		log:    logger.New("middleware"),
	}
}
