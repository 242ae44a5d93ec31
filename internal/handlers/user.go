package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/RicardoValus/tasks-project/internal/services"
	"github.com/RicardoValus/tasks-project/internal/store"
	"github.com/RicardoValus/tasks-project/types"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxNameLen     = 100
	maxEmailLen    = 150
	maxPasswordLen = 255
)

// UserHandler provides the registration endpoint.
type UserHandler struct {
	userService *services.UserService
	log         *logrus.Logger
}

func NewUserHandler(userService *services.UserService, log *logrus.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, handler *UserHandler) {
	r.Post("/", handler.Register)
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user account.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	messages := validateRegistration(req)
	if len(messages) > 0 {
		writeValidationProblem(w, messages)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.WithError(err).Error("failed to hash password")
		writeProblem(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	user, err := h.userService.Register(r.Context(), types.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeValidationProblem(w, map[string][]string{
				"email": {"email is already registered"},
			})
			return
		}
		h.log.WithError(err).Error("failed to create user")
		writeProblem(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func validateRegistration(req RegisterRequest) map[string][]string {
	messages := make(map[string][]string)

	if req.Name == "" {
		messages["name"] = append(messages["name"], "name is required")
	} else if utf8.RuneCountInString(req.Name) > maxNameLen {
		messages["name"] = append(messages["name"], "name must be at most 100 characters")
	}

	if req.Email == "" {
		messages["email"] = append(messages["email"], "email is required")
	} else if utf8.RuneCountInString(req.Email) > maxEmailLen || !strings.Contains(req.Email, "@") {
		messages["email"] = append(messages["email"], "email must be a valid address of at most 150 characters")
	}

	if req.Password == "" {
		messages["password"] = append(messages["password"], "password is required")
	} else if len(req.Password) > maxPasswordLen {
		messages["password"] = append(messages["password"], "password must be at most 255 characters")
	}

	return messages
}
