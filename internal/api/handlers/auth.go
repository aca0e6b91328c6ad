package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/whendid/whendid/internal/api/middleware"
	"github.com/whendid/whendid/internal/common"
	"github.com/whendid/whendid/internal/config"
	"github.com/whendid/whendid/internal/models"
	"github.com/whendid/whendid/internal/repositories"
	"github.com/whendid/whendid/internal/utils"
)

const tokenValidity = 7 * 24 * time.Hour

// JWT Claims struct
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// currentUser resolves the authenticated user from the request context. The
// middleware only guarantees a syntactically valid token; the account itself
// must still exist in storage.
func currentUser(r *http.Request) (*models.User, error) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return nil, common.ErrUnauthorized
	}
	user, err := repositories.GetUserByID(r.Context(), userID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// setAuthCookie signs a session token for the user and attaches it as an
// HttpOnly cookie.
func setAuthCookie(w http.ResponseWriter, user *models.User) error {
	expiration := time.Now().Add(tokenValidity)
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(config.Envs.JWTSecret))
	if err != nil {
		return err
	}

	isProd := config.Envs.Environment == "production"
	sameSite := http.SameSiteLaxMode
	if isProd {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(tokenValidity.Seconds()),
		Secure:   isProd,
		HttpOnly: true,
		SameSite: sameSite,
	})
	return nil
}

// POST /api/v1/auth/register
func RegisterUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.Username == "" || input.Password == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	if n := utf8.RuneCountInString(input.Username); n < 2 || n > 20 {
		utils.ErrorResponse(w, http.StatusBadRequest, "Username must be 2-20 characters")
		return
	}
	if utf8.RuneCountInString(input.Password) < 4 {
		utils.ErrorResponse(w, http.StatusBadRequest, "Password must be at least 4 characters")
		return
	}

	// Check if username already exists
	_, err := repositories.GetUserByUsername(r.Context(), input.Username)
	switch {
	case err == nil:
		utils.ErrorResponse(w, http.StatusBadRequest, "Username is already taken")
		return
	case !errors.Is(err, common.ErrNotFound):
		serverError(w, "Registration failed", err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(w, "Failed to hash password", err)
		return
	}

	newUser := &models.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		PasswordHash: string(hashedPassword),
		IsAdmin:      false,
		CreatedAt:    time.Now(),
	}
	if err := repositories.CreateUser(r.Context(), newUser); err != nil {
		serverError(w, "Registration failed", err)
		return
	}

	if err := setAuthCookie(w, newUser); err != nil {
		serverError(w, "Failed to create token", err)
		return
	}

	utils.JSONResponse(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    newUser.Public(),
	})
}

// POST /api/v1/auth/login
func LoginUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.Username == "" || input.Password == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := repositories.GetUserByUsername(r.Context(), input.Username)
	switch {
	case errors.Is(err, common.ErrNotFound):
		utils.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	case err != nil:
		serverError(w, "Login failed", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		utils.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := setAuthCookie(w, user); err != nil {
		serverError(w, "Failed to create token", err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user.Public(),
	})
}

// POST /api/v1/auth/logout
func Logout(w http.ResponseWriter, r *http.Request) {
	isProd := config.Envs.Environment == "production"

	// maxAge < 0 deletes the cookie
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   isProd,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.JSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

// GET /api/v1/auth/me
func Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	user, err := currentUser(r)
	if err != nil {
		respondAuthError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, map[string]any{
		"user": user.Public(),
	})
}

// POST /api/v1/auth/change-password
func ChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	user, err := currentUser(r)
	if err != nil {
		respondAuthError(w, err)
		return
	}

	var input struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.OldPassword == "" || input.NewPassword == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "Old and new passwords are required")
		return
	}
	if utf8.RuneCountInString(input.NewPassword) < 4 {
		utils.ErrorResponse(w, http.StatusBadRequest, "New password must be at least 4 characters")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Old password is incorrect")
		return
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		serverError(w, "Failed to hash password", err)
		return
	}

	user.PasswordHash = string(newHash)
	if err := repositories.UpdateUser(r.Context(), user); err != nil {
		serverError(w, "Failed to change password", err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password changed successfully",
	})
}

// respondAuthError maps currentUser failures to a status code. Anything that
// is not a plain missing/invalid session is an internal error.
func respondAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, common.ErrUnauthorized) {
		utils.ErrorResponse(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	serverError(w, "Something went wrong", err)
}

// serverError logs the underlying failure and answers with a generic message
// so internal detail never reaches the client.
func serverError(w http.ResponseWriter, message string, err error) {
	log.Printf("%s: %v", message, err)
	utils.ErrorResponse(w, http.StatusInternalServerError, message)
}
