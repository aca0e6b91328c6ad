package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/whendid/whendid/internal/common"
	"github.com/whendid/whendid/internal/models"
	"github.com/whendid/whendid/internal/repositories"
	"github.com/whendid/whendid/internal/utils"
)

// requireAdmin resolves the caller and rejects non-admins. The admin flag
// only unlocks user management, never other users' events or occurrences.
func requireAdmin(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, err := currentUser(r)
	if err != nil {
		respondAuthError(w, err)
		return nil, false
	}
	if !user.IsAdmin {
		utils.ErrorResponse(w, http.StatusForbidden, "Admin access required")
		return nil, false
	}
	return user, true
}

// GET /api/v1/admin/users
func AdminUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	users, err := repositories.GetAllUsers(r.Context())
	if err != nil {
		serverError(w, "Failed to load users", err)
		return
	}

	listed := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		listed = append(listed, models.PublicUser{
			ID:        u.ID,
			Username:  u.Username,
			IsAdmin:   u.IsAdmin,
			CreatedAt: u.CreatedAt,
		})
	}

	utils.JSONResponse(w, http.StatusOK, map[string]any{
		"users": listed,
	})
}

// POST /api/v1/admin/reset-password
//
// Resets a user's password to equal their username. Admin accounts cannot be
// targets: handing out username-equals-password on an admin would be an
// instant takeover.
func AdminResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var input struct {
		Username string `json:"username"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Username == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "Username is required")
		return
	}

	target, err := repositories.GetUserByUsername(r.Context(), input.Username)
	if errors.Is(err, common.ErrNotFound) {
		utils.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		serverError(w, "Failed to load user", err)
		return
	}
	if target.IsAdmin {
		utils.ErrorResponse(w, http.StatusForbidden, "Cannot reset an admin account")
		return
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(target.Username), bcrypt.DefaultCost)
	if err != nil {
		serverError(w, "Failed to hash password", err)
		return
	}
	target.PasswordHash = string(newHash)
	if err := repositories.UpdateUser(r.Context(), target); err != nil {
		serverError(w, "Failed to reset password", err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Password for %s has been reset to their username", target.Username),
	})
}
