package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/RicardoValus/tasks-project/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterSuccess(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/users", "", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var user types.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)

	// The password hash must never appear in the payload.
	assert.NotContains(t, rec.Body.String(), "password")

	// The new account can log in right away.
	rec = doJSON(t, env.router, http.MethodPost, "/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		body   map[string]string
		fields []string
	}{
		{"empty", map[string]string{}, []string{"name", "email", "password"}},
		{"name too long", map[string]string{"name": strings.Repeat("n", 101), "email": "a@b.c", "password": "p"}, []string{"name"}},
		{"bad email", map[string]string{"name": "A", "email": "not-an-address", "password": "p"}, []string{"email"}},
		{"password too long", map[string]string{"name": "A", "email": "a@b.c", "password": strings.Repeat("p", 256)}, []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, env.router, http.MethodPost, "/users", "", tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var problem Problem
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			for _, field := range tt.fields {
				assert.Contains(t, problem.ValidationMessages, field)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "Alice", "alice@example.com", "secret123")

	rec := doJSON(t, env.router, http.MethodPost, "/users", "", map[string]string{
		"name":     "Imposter",
		"email":    "alice@example.com",
		"password": "other",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var problem Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Contains(t, problem.ValidationMessages, "email")
}
