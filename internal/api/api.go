package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jotdown-io/jotdown/internal/auth"
	"github.com/jotdown-io/jotdown/internal/config"
	"github.com/jotdown-io/jotdown/internal/notes"
)

type Api struct {
	Config config.Config
	Router *chi.Mux
	authn  *auth.Authenticator
	notes  *notes.Store
}

func NewApi(cfg config.Config, db *sql.DB) (*Api, error) {
	if cfg.APIPort == 0 {
		return nil, errors.New("Must have at least a port to start API")
	}

	users := auth.NewUserStore(db, cfg.Database.Type)
	tokens := auth.NewTokenManager(cfg.Auth.SecretKey)

	api := &Api{
		Config: cfg,
		Router: chi.NewRouter(),
		authn:  auth.NewAuthenticator(users, tokens, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour),
		notes:  notes.NewStore(db, cfg.Database.Type),
	}

	api.setupRoutes()
	return api, nil
}

func (api *Api) setupRoutes() {
	r := api.Router

	// CORS first so the browser client can talk to us from another origin
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://*.local:*", "http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Public routes
	r.Get("/heartbeat", api.Heartbeat)
	r.Post("/login", api.LoginHandler)
	r.Get("/", api.HomeHandler)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireToken(api.authn))

		r.Post("/logout", api.LogoutHandler)

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", api.ListNotesHandler)
			r.Post("/", api.CreateNoteHandler)
			r.Get("/{noteID}", api.GetNoteHandler)
			r.Put("/{noteID}", api.UpdateNoteHandler)
			r.Delete("/{noteID}", api.DeleteNoteHandler)
		})
	})
}

func (api *Api) Serve() {
	log.Printf("Starting API server on 0.0.0.0:%d", api.Config.APIPort)
	log.Fatal(http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", api.Config.APIPort), api.Router))
}

func (api *Api) Heartbeat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
