package types

import (
	"vistoria/internal/models"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a controller operation.
type Actor struct {
	User *models.User
	IP   string
}

func (a Actor) UserID() *uuid.UUID {
	if a.User == nil {
		return nil
	}
	id := a.User.ID
	return &id
}

func (a Actor) IsAdmin() bool {
	return a.User != nil && a.User.IsAdmin()
}
