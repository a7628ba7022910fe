// Package rest exposes the vault over HTTP/JSON. Routing is built on chi;
// protected routes sit behind the bearer-token middleware and read the caller
// identity from the request context only.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/services"
)

// UserService is the slice of the user service the transport needs.
type UserService interface {
	SignUp(ctx context.Context, email, username, password string) (*models.User, error)
	SignIn(ctx context.Context, identifier, password string) (*services.AuthResult, error)
	ResetPassword(ctx context.Context, userID int64, newPassword string) error
	DeleteAccount(ctx context.Context, userID int64) error
}

// EntryService is the slice of the entry service the transport needs.
type EntryService interface {
	Create(ctx context.Context, userID int64, website, accountUsername, password, category, tags string) (*models.PasswordEntry, error)
	List(ctx context.Context, userID int64) ([]*models.PasswordEntry, error)
	GetDecrypted(ctx context.Context, userID int64, website, accountUsername string) (string, error)
	UpdatePassword(ctx context.Context, entryID, userID int64, newPassword string) (*models.PasswordEntry, error)
	Delete(ctx context.Context, entryID, userID int64) error
}

type RESTServer struct {
	address       string
	users         UserService
	entries       EntryService
	logger        logging.Logger
	jwtSecret     []byte
	allowedOrigin string
}

func NewRESTServer(a string, l logging.Logger, us UserService, es EntryService, secretKey, allowedOrigin string) *RESTServer {
	return &RESTServer{
		address:       a,
		logger:        l.With("module", "rest_server"),
		users:         us,
		entries:       es,
		jwtSecret:     []byte(secretKey),
		allowedOrigin: allowedOrigin,
	}
}

// Router assembles the full route tree. Split out from Run so tests can mount
// it on httptest.Server.
func (s *RESTServer) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(s.requestLogger)

	r.Get("/health", s.health)

	r.Post("/api/auth/sign-up", s.signUp)
	r.Post("/api/auth/sign-in", s.signIn)

	r.Group(func(r chi.Router) {
		r.Use(s.bearerAuth)

		r.Post("/api/auth/reset-password", s.resetPassword)
		r.Delete("/api/auth/delete-account", s.deleteAccount)

		r.Get("/api/passwords", s.listEntries)
		r.Post("/api/passwords", s.createEntry)
		r.Get("/api/passwords/{website}/{accountUsername}", s.getDecryptedEntry)
		r.Put("/api/passwords/{entryID}", s.updateEntry)
		r.Delete("/api/passwords/{entryID}", s.deleteEntry)
	})

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *RESTServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *RESTServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
