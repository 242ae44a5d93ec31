package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/RicardoValus/tasks-project/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// bearerPattern accepts a case-insensitive scheme and exactly one
// whitespace-separated token.
var bearerPattern = regexp.MustCompile(`(?i)^Bearer\s+(\S+)$`)

// AuthHandler provides the login endpoint and the token authenticator.
type AuthHandler struct {
	authService *services.AuthService
	log         *logrus.Logger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(authService *services.AuthService, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// AuthRouter registers the login route on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler, limiter *LoginLimiter) {
	if limiter != nil {
		r.With(limiter.Middleware).Post("/login", handler.Login)
	} else {
		r.Post("/login", handler.Login)
	}
}

// Authenticate resolves the Authorization header to a request identity and
// runs once per request, before any resource logic.
//
// No header means a guest: the request proceeds and route policy decides.
// A malformed header, an unknown token or an expired token all end the
// request with a 401 challenge.
func (h *AuthHandler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := strings.TrimSpace(r.Header.Get("Authorization"))
		if auth == "" {
			ctx := withIdentity(r.Context(), GuestIdentity())
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		m := bearerPattern.FindStringSubmatch(auth)
		if m == nil {
			writeAuthProblem(w, "malformed authorization header")
			return
		}

		userID, err := h.authService.Authenticate(r.Context(), m[1])
		if err != nil {
			if errors.Is(err, services.ErrInvalidToken) {
				writeAuthProblem(w, "invalid or expired token")
				return
			}
			h.log.WithError(err).Error("token lookup failed")
			writeProblem(w, http.StatusInternalServerError, "failed to authenticate")
			return
		}

		ctx := withIdentity(r.Context(), AuthenticatedIdentity(userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns a freshly minted token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeProblem(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeProblem(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.log.WithError(err).Error("login failed")
		writeProblem(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, token)
}
