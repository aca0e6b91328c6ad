package api

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/whendid/whendid/internal/common"
	"github.com/whendid/whendid/internal/config"
	"github.com/whendid/whendid/internal/models"
	"github.com/whendid/whendid/internal/repositories"
)

// EnsureAdmin creates the bootstrap admin account if it does not exist yet.
// It runs once at startup, guarded by an existence check, so restarts are
// no-ops and request handlers never touch bootstrap state.
func EnsureAdmin(ctx context.Context) error {
	username := config.Envs.AdminUsername

	_, err := repositories.GetUserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(config.Envs.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      true,
		CreatedAt:    time.Now(),
	}
	if err := repositories.CreateUser(ctx, admin); err != nil {
		return err
	}

	log.Printf("Admin user %q created", username)
	return nil
}
