package service

import "github.com/noah-isme/academix-go-api/internal/models"

// Identity is the authenticated caller as decoded from the access token.
type Identity struct {
	UserID uint
	Role   models.Role
}
