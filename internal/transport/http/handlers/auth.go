package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/usecase"
)

// AuthHandler exposes signup and login endpoints.
type AuthHandler struct {
	auth *usecase.AuthService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// SignupRequest defines the account creation payload.
type SignupRequest struct {
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
}

// LoginRequest defines the login payload. The identifier may be an email
// address or a phone number.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

var signupErrorCases = []ErrorCase{
	{Err: usecase.ErrMissingCredentials, Status: http.StatusBadRequest, Message: "First name, last name, email and password are required"},
	{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: "Password does not meet requirements"},
	{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "Email or phone already registered"},
}

var loginErrorCases = []ErrorCase{
	{Err: usecase.ErrMissingCredentials, Status: http.StatusBadRequest, Message: "Please provide email and password"},
	{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "Incorrect email or password"},
}

// Signup creates an account and logs the new user straight in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "Invalid signup payload")
		return
	}

	if req.Password != req.PasswordConfirm {
		respondFailure(c, http.StatusBadRequest, "Passwords do not match")
		return
	}

	token, user, err := h.auth.Signup(c.Request.Context(), usecase.SignupInput{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Password:  req.Password,
	})
	if err != nil {
		respondWithMappedError(c, err, signupErrorCases, http.StatusInternalServerError, "Failed to create account")
		return
	}

	respondWithToken(c, http.StatusCreated, token, &user)
}

// Login authenticates by email or phone plus password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "Invalid login payload")
		return
	}

	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}

	token, user, err := h.auth.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		respondWithMappedError(c, err, loginErrorCases, http.StatusInternalServerError, "Authentication failed")
		return
	}

	respondWithToken(c, http.StatusOK, token, &user)
}
