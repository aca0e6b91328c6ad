package api

import (
	"fmt"
	"log"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/whendid/whendid/docs"

	"github.com/rs/cors"
	"github.com/whendid/whendid/internal/api/handlers"
	"github.com/whendid/whendid/internal/api/middleware"
	"github.com/whendid/whendid/internal/config"
)

func SetupRouter() http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	// /api/v1/auth/ shadows the catch-all /api/v1/ pattern, so the
	// session-holding auth routes get the middleware wrapped on here.
	authMux := http.NewServeMux()
	authMux.HandleFunc("/register", handlers.RegisterUser)
	authMux.HandleFunc("/login", handlers.LoginUser)
	authMux.Handle("/logout", middleware.AuthMiddleware(http.HandlerFunc(handlers.Logout)))
	authMux.Handle("/me", middleware.AuthMiddleware(http.HandlerFunc(handlers.Me)))
	authMux.Handle("/change-password", middleware.AuthMiddleware(http.HandlerFunc(handlers.ChangePassword)))

	mainMux.Handle("/api/v1/auth/",
		http.StripPrefix("/api/v1/auth", authMux),
	)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()

	protectedMux.HandleFunc("/events", handlers.EventsIndex)
	protectedMux.HandleFunc("/events/{id}", handlers.EventByID)
	protectedMux.HandleFunc("/events/{id}/occurrences", handlers.EventOccurrences)
	protectedMux.HandleFunc("/occurrences/{id}", handlers.OccurrenceByID)

	protectedMux.HandleFunc("/admin/users", handlers.AdminUsers)
	protectedMux.HandleFunc("/admin/reset-password", handlers.AdminResetPassword)

	mainMux.Handle("/api/v1/",
		http.StripPrefix(
			"/api/v1",
			middleware.AuthMiddleware(protectedMux),
		),
	)

	log.Println("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(handler)
	return handler
}
