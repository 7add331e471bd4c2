package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/resume-matcher/internal/db"
)

// CreateUserRequest is the payload for POST /auth/register.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdatePasswordRequest is the payload for PUT /auth/password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// LoginResponse carries the issued token alongside the user.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func userResponseFrom(u *db.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

// AuthHandler serves the authentication endpoints.
type AuthHandler struct {
	users    *UserService
	jwt      *JWTService
	validate *validator.Validate
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(users *UserService, jwt *JWTService) *AuthHandler {
	return &AuthHandler{
		users:    users,
		jwt:      jwt,
		validate: validator.New(),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, strings.ToLower(req.Email), req.Password)
	if err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	token, err := h.jwt.GenerateToken(user.ID)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	jsonResponse(w, http.StatusCreated, LoginResponse{
		Token: token,
		User:  userResponseFrom(user),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	user, err := h.users.Login(r.Context(), strings.ToLower(req.Email), req.Password)
	if err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	token, err := h.jwt.GenerateToken(user.ID)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	jsonResponse(w, http.StatusOK, LoginResponse{
		Token: token,
		User:  userResponseFrom(user),
	})
}

// UpdatePasswordWithUserID handles PUT /auth/password for the
// authenticated user.
func (h *AuthHandler) UpdatePasswordWithUserID(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if err := h.users.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

// extractValidationErrors flattens validator errors into one readable
// message.
func extractValidationErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request"
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "email":
			parts = append(parts, fe.Field()+" must be a valid email address")
		case "min":
			parts = append(parts, fe.Field()+" must be at least "+fe.Param()+" characters")
		case "max":
			parts = append(parts, fe.Field()+" must be at most "+fe.Param()+" characters")
		default:
			parts = append(parts, fe.Field()+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}
