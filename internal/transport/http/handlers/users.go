package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/transport/http/middleware"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/usecase"
)

// UserHandler exposes profile and per-user activity endpoints.
type UserHandler struct {
	users        *usecase.UserService
	applications *usecase.ApplicationService
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users *usecase.UserService, applications *usecase.ApplicationService) *UserHandler {
	return &UserHandler{users: users, applications: applications}
}

// UpdateMeRequest carries the self-service profile fields. Absent fields are
// left untouched.
type UpdateMeRequest struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	Email        *string `json:"email"`
	ProfileImage *string `json:"profileImage"`
	Password     *string `json:"password"`
}

// ApplyRequest files a university placement request.
type ApplyRequest struct {
	AgencyID     string  `json:"agencyId" binding:"required"`
	UniversityID string  `json:"universityId" binding:"required"`
	UserNote     *string `json:"userNote"`
}

// ConsultationRequest files a consultation request.
type ConsultationRequest struct {
	AgencyID    string  `json:"agencyId" binding:"required"`
	Subject     string  `json:"subject" binding:"required"`
	Description *string `json:"description"`
}

var profileErrorCases = []ErrorCase{
	{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "User not found"},
	{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "Email already in use"},
	{Err: usecase.ErrNoProfileFields, Status: http.StatusBadRequest, Message: "No updatable fields provided"},
}

var requestErrorCases = []ErrorCase{
	{Err: usecase.ErrInvalidRequest, Status: http.StatusBadRequest, Message: "Invalid request payload"},
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := middleware.GetAuthenticatedUser(c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	respondData(c, http.StatusOK, newUserPayload(*user))
}

// UpdateMe applies the allow-listed profile fields. Password changes are
// rejected here and must go through the dedicated endpoint.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "Invalid profile payload")
		return
	}

	if req.Password != nil {
		respondFailure(c, http.StatusBadRequest, "This route is not for password updates, use /updateMyPassword")
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userID, usecase.UpdateProfileInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		respondWithMappedError(c, err, profileErrorCases, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	respondData(c, http.StatusOK, newUserPayload(*user))
}

// List returns users shaped by the query string.
func (h *UserHandler) List(c *gin.Context) {
	query := parseListQuery(c)

	users, err := h.users.List(c.Request.Context(), query)
	if err != nil {
		respondFailure(c, http.StatusInternalServerError, "Failed to list users")
		return
	}

	payloads := make([]UserPayload, 0, len(users))
	for _, user := range users {
		payloads = append(payloads, newUserPayload(user))
	}

	respondList(c, len(payloads), projectFields(payloads, query.Fields))
}

// Get returns a single user by id.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithMappedError(c, err, profileErrorCases, http.StatusInternalServerError, "Failed to load user")
		return
	}

	respondData(c, http.StatusOK, newUserPayload(*user))
}

// Apply files a placement request for the authenticated user.
func (h *UserHandler) Apply(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "agencyId and universityId are required")
		return
	}

	application, err := h.applications.Apply(c.Request.Context(), userID, usecase.ApplyInput{
		AgencyID:     req.AgencyID,
		UniversityID: req.UniversityID,
		UserNote:     req.UserNote,
	})
	if err != nil {
		respondWithMappedError(c, err, requestErrorCases, http.StatusInternalServerError, "Failed to file application")
		return
	}

	respondData(c, http.StatusCreated, newApplicationPayload(*application))
}

// Consultation files a consultation request for the authenticated user.
func (h *UserHandler) Consultation(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "agencyId and subject are required")
		return
	}

	consultation, err := h.applications.RequestConsultation(c.Request.Context(), userID, usecase.ConsultationInput{
		AgencyID:    req.AgencyID,
		Subject:     req.Subject,
		Description: req.Description,
	})
	if err != nil {
		respondWithMappedError(c, err, requestErrorCases, http.StatusInternalServerError, "Failed to file consultation request")
		return
	}

	respondData(c, http.StatusCreated, newConsultationPayload(*consultation))
}

// History returns the authenticated user's applications and consultations.
func (h *UserHandler) History(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	history, err := h.applications.UserHistory(c.Request.Context(), userID)
	if err != nil {
		respondFailure(c, http.StatusInternalServerError, "Failed to load history")
		return
	}

	payload := HistoryPayload{
		Applications:  make([]ApplicationPayload, 0, len(history.Applications)),
		Consultations: make([]ConsultationPayload, 0, len(history.Consultations)),
	}
	for _, application := range history.Applications {
		payload.Applications = append(payload.Applications, newApplicationPayload(application))
	}
	for _, consultation := range history.Consultations {
		payload.Consultations = append(payload.Consultations, newConsultationPayload(consultation))
	}

	respondData(c, http.StatusOK, payload)
}
