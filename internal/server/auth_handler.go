package server

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/coverme/internal/types"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService, validate *validator.Validate) *AuthHandler {
	if validate == nil {
		validate = newValidator()
	}
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		validate:    validate,
	}
}

// Register creates an account and returns it with a token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if !h.bind(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.issueToken(w, http.StatusCreated, user)
}

// Login verifies credentials and returns the user with a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !h.bind(w, r, &req) {
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.issueToken(w, http.StatusOK, user)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, status int, user *types.User) {
	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	writeJSON(w, status, types.LoginResponse{User: user, Token: token})
}

// bind decodes and validates the body, writing a 400 on failure
func (h *AuthHandler) bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if err := validateStruct(h.validate, dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *AuthHandler) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= 500 {
		writeError(w, status, http.StatusText(status))
		return
	}
	writeError(w, status, err.Error())
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.userService.GetUser(r.Context(), userID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req types.UpdatePasswordRequest
	if !s.authHandler.bind(w, r, &req) {
		return
	}
	if err := s.userService.UpdatePassword(r.Context(), userID(r), req.CurrentPassword, req.NewPassword); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}
