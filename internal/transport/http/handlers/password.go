package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/transport/http/middleware"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/usecase"
)

// PasswordHandler exposes the credential recovery and rotation endpoints.
type PasswordHandler struct {
	reset *usecase.PasswordResetService
	users *usecase.UserService
}

// NewPasswordHandler constructs PasswordHandler.
func NewPasswordHandler(reset *usecase.PasswordResetService, users *usecase.UserService) *PasswordHandler {
	return &PasswordHandler{reset: reset, users: users}
}

// ForgotPasswordRequest initiates recovery for the account behind the email.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest carries the replacement password. The recovery secret
// travels in the URL path.
type ResetPasswordRequest struct {
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
}

// ChangePasswordRequest rotates the authenticated user's password.
type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required"`
	NewPasswordConfirm string `json:"newPasswordConfirm" binding:"required"`
}

var forgotPasswordErrorCases = []ErrorCase{
	{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "There is no user with that email address"},
	{Err: usecase.ErrResetDeliveryFailed, Status: http.StatusInternalServerError, Message: "There was an error sending the email, try again later"},
}

var resetPasswordErrorCases = []ErrorCase{
	{Err: usecase.ErrResetTokenInvalid, Status: http.StatusBadRequest, Message: "Token is invalid or has expired"},
	{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: "Password does not meet requirements"},
}

var changePasswordErrorCases = []ErrorCase{
	{Err: usecase.ErrCurrentPasswordInvalid, Status: http.StatusUnauthorized, Message: "Your current password is wrong"},
	{Err: usecase.ErrNewPasswordInvalid, Status: http.StatusBadRequest, Message: "New password must differ from the current one"},
	{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: "Password does not meet requirements"},
	{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "User no longer exists"},
}

// ForgotPassword mints a recovery token and mails the reset link.
func (h *PasswordHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "A valid email address is required")
		return
	}

	if err := h.reset.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondWithMappedError(c, err, forgotPasswordErrorCases, http.StatusInternalServerError, "Failed to process recovery request")
		return
	}

	respondMessage(c, http.StatusOK, "Token sent to email")
}

// ResetPassword consumes the mailed secret and installs the new password,
// logging the user in with a fresh token.
func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	rawToken := strings.TrimSpace(c.Param("token"))

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "Password and confirmation are required")
		return
	}

	if req.Password != req.PasswordConfirm {
		respondFailure(c, http.StatusBadRequest, "Passwords do not match")
		return
	}

	token, user, err := h.reset.ResetPassword(c.Request.Context(), rawToken, req.Password)
	if err != nil {
		respondWithMappedError(c, err, resetPasswordErrorCases, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	respondWithToken(c, http.StatusOK, token, &user)
}

// ChangePassword rotates the password of the authenticated user.
func (h *PasswordHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok || userID == "" {
		respondFailure(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "Current and new passwords are required")
		return
	}

	if req.NewPassword != req.NewPasswordConfirm {
		respondFailure(c, http.StatusBadRequest, "Passwords do not match")
		return
	}

	token, err := h.users.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondWithMappedError(c, err, changePasswordErrorCases, http.StatusInternalServerError, "Failed to change password")
		return
	}

	respondWithToken(c, http.StatusOK, token, nil)
}
