package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestValidation(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name    string
		request any
		wantErr string
	}{
		{"valid register", CreateUserRequest{Name: "Ana", Email: "ana@example.com", Password: "password123"}, ""},
		{"register missing name", CreateUserRequest{Email: "ana@example.com", Password: "password123"}, "Name"},
		{"register bad email", CreateUserRequest{Name: "Ana", Email: "not-an-email", Password: "password123"}, "Email"},
		{"register short password", CreateUserRequest{Name: "Ana", Email: "ana@example.com", Password: "short"}, "Password"},
		{"register long password", CreateUserRequest{Name: "Ana", Email: "ana@example.com", Password: strings.Repeat("x", 73)}, "Password"},
		{"valid login", LoginRequest{Email: "ana@example.com", Password: "x"}, ""},
		{"login missing password", LoginRequest{Email: "ana@example.com"}, "Password"},
		{"valid password change", UpdatePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"}, ""},
		{"password change reuses current", UpdatePasswordRequest{CurrentPassword: "same-password", NewPassword: "same-password"}, "NewPassword"},
		{"password change too short", UpdatePasswordRequest{CurrentPassword: "old-password", NewPassword: "short"}, "NewPassword"},
		{"valid personal info", UpdatePersonalInfoRequest{Name: "Ana", Headline: "Backend engineer"}, ""},
		{"personal info missing name", UpdatePersonalInfoRequest{Headline: "Backend engineer"}, "Name"},
		{"valid fetch", FetchJobRequest{URL: "https://jobs.lever.co/acme/123"}, ""},
		{"fetch bad url", FetchJobRequest{URL: "not a url"}, "URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.request)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.wantErr, verrs[0].Field())
		})
	}
}

func TestUser_JSON(t *testing.T) {
	u := User{ID: uuid.New(), Name: "Ana", Email: "ana@example.com", PasswordSet: true}

	data, err := json.Marshal(LoginResponse{User: &u, Token: "tok"})
	require.NoError(t, err)

	var raw struct {
		User  map[string]any `json:"user"`
		Token string         `json:"token"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "tok", raw.Token)
	assert.Equal(t, "Ana", raw.User["name"])
	assert.Equal(t, true, raw.User["password_set"])
	assert.NotContains(t, raw.User, "phone", "empty optional fields are omitted")
	assert.NotContains(t, raw.User, "password_hash")
}
