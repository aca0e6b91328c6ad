package middleware

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"github.com/whendid/whendid/internal/config"
	"github.com/whendid/whendid/internal/utils"
)

type contextKey string

const UserIDKey contextKey = "userID"

// CookieName is the session cookie carrying the signed JWT.
const CookieName = "auth_token"

var jwtSecret = config.Envs.JWTSecret

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(CookieName)
		if err != nil {
			utils.ErrorResponse(w, http.StatusUnauthorized, "Not logged in")
			return
		}

		token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			utils.ErrorResponse(w, http.StatusUnauthorized, "Not logged in")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			utils.ErrorResponse(w, http.StatusUnauthorized, "Not logged in")
			return
		}

		userID, ok := claims["userId"].(string)
		if !ok || userID == "" {
			utils.ErrorResponse(w, http.StatusUnauthorized, "Not logged in")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
