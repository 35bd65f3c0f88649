package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/domain"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

// FailureResponse is the uniform failure envelope. Client errors carry
// status "fail", server errors carry status "error".
type FailureResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func newFailureResponse(code int, message string) FailureResponse {
	status := statusFail
	if code >= http.StatusInternalServerError {
		status = statusError
	}
	return FailureResponse{Status: status, Message: message}
}

func respondFailure(c *gin.Context, code int, message string) {
	c.JSON(code, newFailureResponse(code, message))
}

// AuthResponse wraps a freshly issued token and, when available, the account
// it belongs to.
type AuthResponse struct {
	Status string       `json:"status"`
	Token  string       `json:"token"`
	Data   *UserPayload `json:"data,omitempty"`
}

func respondWithToken(c *gin.Context, code int, token string, user *domain.User) {
	resp := AuthResponse{Status: statusSuccess, Token: token}
	if user != nil {
		payload := newUserPayload(*user)
		resp.Data = &payload
	}
	c.JSON(code, resp)
}

// DataResponse wraps a single success payload.
type DataResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

func respondData(c *gin.Context, code int, data any) {
	c.JSON(code, DataResponse{Status: statusSuccess, Data: data})
}

// ListResponse wraps collection payloads together with the result count.
type ListResponse struct {
	Status  string `json:"status"`
	Results int    `json:"results"`
	Data    any    `json:"data"`
}

func respondList(c *gin.Context, results int, data any) {
	c.JSON(http.StatusOK, ListResponse{Status: statusSuccess, Results: results, Data: data})
}

// MessageResponse carries an informational success message.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func respondMessage(c *gin.Context, code int, message string) {
	c.JSON(code, MessageResponse{Status: statusSuccess, Message: message})
}

// UserPayload is the public view of an account.
type UserPayload struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone,omitempty"`
	ProfileImage *string   `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newUserPayload(user domain.User) UserPayload {
	return UserPayload{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		Phone:        user.Phone,
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt,
	}
}

// AgencyPayload is the public view of an agency.
type AgencyPayload struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Slug                  string    `json:"slug"`
	LogoURL               *string   `json:"logoUrl,omitempty"`
	Description           *string   `json:"description,omitempty"`
	ContactInfo           *string   `json:"contactInfo,omitempty"`
	SupportedUniversities []string  `json:"supportedUniversities,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
}

func newAgencyPayload(agency domain.Agency) AgencyPayload {
	return AgencyPayload{
		ID:                    agency.ID,
		Name:                  agency.Name,
		Slug:                  agency.Slug,
		LogoURL:               agency.LogoURL,
		Description:           agency.Description,
		ContactInfo:           agency.ContactInfo,
		SupportedUniversities: agency.SupportedUniversities,
		CreatedAt:             agency.CreatedAt,
	}
}

// UniversityPayload is the public view of a university.
type UniversityPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Country     string    `json:"country"`
	City        *string   `json:"city,omitempty"`
	Description *string   `json:"description,omitempty"`
	LogoURL     *string   `json:"logoUrl,omitempty"`
	Website     *string   `json:"website,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newUniversityPayload(university domain.University) UniversityPayload {
	return UniversityPayload{
		ID:          university.ID,
		Name:        university.Name,
		Country:     university.Country,
		City:        university.City,
		Description: university.Description,
		LogoURL:     university.LogoURL,
		Website:     university.Website,
		Rating:      university.Rating,
		CreatedAt:   university.CreatedAt,
	}
}

// AdPayload is the public view of a promotional banner.
type AdPayload struct {
	ID             string     `json:"id"`
	Title          *string    `json:"title,omitempty"`
	ImageURL       string     `json:"imageUrl"`
	TargetURL      *string    `json:"targetUrl,omitempty"`
	IsActive       bool       `json:"isActive"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func newAdPayload(ad domain.Ad) AdPayload {
	return AdPayload{
		ID:             ad.ID,
		Title:          ad.Title,
		ImageURL:       ad.ImageURL,
		TargetURL:      ad.TargetURL,
		IsActive:       ad.IsActive,
		ExpirationDate: ad.ExpirationDate,
		CreatedAt:      ad.CreatedAt,
	}
}

// ApplicationPayload is the public view of a placement request.
type ApplicationPayload struct {
	ID           string    `json:"id"`
	AgencyID     string    `json:"agencyId"`
	UniversityID string    `json:"universityId"`
	Status       string    `json:"status"`
	UserNote     *string   `json:"userNote,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func newApplicationPayload(application domain.Application) ApplicationPayload {
	return ApplicationPayload{
		ID:           application.ID,
		AgencyID:     application.AgencyID,
		UniversityID: application.UniversityID,
		Status:       string(application.Status),
		UserNote:     application.UserNote,
		CreatedAt:    application.CreatedAt,
		UpdatedAt:    application.UpdatedAt,
	}
}

// ConsultationPayload is the public view of a consultation request.
type ConsultationPayload struct {
	ID          string    `json:"id"`
	AgencyID    string    `json:"agencyId"`
	Subject     *string   `json:"subject,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newConsultationPayload(consultation domain.Consultation) ConsultationPayload {
	return ConsultationPayload{
		ID:          consultation.ID,
		AgencyID:    consultation.AgencyID,
		Subject:     consultation.Subject,
		Description: consultation.Description,
		Status:      string(consultation.Status),
		CreatedAt:   consultation.CreatedAt,
		UpdatedAt:   consultation.UpdatedAt,
	}
}

// HistoryPayload combines a user's applications and consultations.
type HistoryPayload struct {
	Applications  []ApplicationPayload  `json:"applications"`
	Consultations []ConsultationPayload `json:"consultations"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadyResponse describes readiness probe results with dependency checks.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// projectFields trims each element of a collection payload down to the
// requested keys. The id key always survives. Unknown keys are ignored.
func projectFields(data any, fields []string) any {
	if len(fields) == 0 {
		return data
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return data
	}

	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		return data
	}

	keep := map[string]struct{}{"id": {}}
	for _, field := range fields {
		keep[field] = struct{}{}
	}

	for _, item := range items {
		for key := range item {
			if _, ok := keep[key]; !ok {
				delete(item, key)
			}
		}
	}

	return items
}
