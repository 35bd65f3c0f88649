package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/usecase"
)

// CatalogHandler exposes CRUD endpoints for agencies, universities and ads.
type CatalogHandler struct {
	catalog *usecase.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *usecase.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

var catalogErrorCases = []ErrorCase{
	{Err: usecase.ErrResourceNotFound, Status: http.StatusNotFound, Message: "No resource found with that ID"},
	{Err: usecase.ErrResourceConflict, Status: http.StatusConflict, Message: "Resource already exists"},
	{Err: usecase.ErrInvalidResource, Status: http.StatusBadRequest, Message: "Invalid resource payload"},
}

// AgencyRequest carries the writable agency fields.
type AgencyRequest struct {
	Name                  string   `json:"name"`
	LogoURL               *string  `json:"logoUrl"`
	Description           *string  `json:"description"`
	ContactInfo           *string  `json:"contactInfo"`
	SupportedUniversities []string `json:"supportedUniversities"`
}

func (r AgencyRequest) toInput() usecase.CreateAgencyInput {
	return usecase.CreateAgencyInput{
		Name:                  r.Name,
		LogoURL:               r.LogoURL,
		Description:           r.Description,
		ContactInfo:           r.ContactInfo,
		SupportedUniversities: r.SupportedUniversities,
	}
}

// CreateAgency handles POST /agencies.
func (h *CatalogHandler) CreateAgency(c *gin.Context) {
	var req AgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "Invalid agency payload")
		return
	}

	agency, err := h.catalog.CreateAgency(c.Request.Context(), req.toInput())
	if err != nil {
		respondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "Failed to create agency")
		return
	}

	respondData(c, http.StatusCreated, newAgencyPayload(*agency))
}

// ListAgencies handles GET /agencies.
func (h *CatalogHandler) ListAgencies(c *gin.Context) {
	query := parseListQuery(c)

	agencies, err := h.catalog.Agencies(c.Request.Context(), query)
	if err != nil {
		respondFailure(c, http.StatusInternalServerError, "Failed to list agencies")
		return
	}

	payloads := make([]AgencyPayload, 0, len(agencies))
	for _, agency := range agencies {
		payloads = append(payloads, newAgencyPayload(agency))
	}

	respondList(c, len(payloads), projectFields(payloads, query.Fields))
}

// GetAgency handles GET /agencies/:id.
func (h *CatalogHandler) GetAgency(c *gin.Context) {
	agency, err := h.catalog.Agency(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "Failed to load agency")
		return
	}

	respondData(c, http.StatusOK, newAgencyPayload(*agency))
}

// UpdateAgency handles PATCH /agencies/:id.
func (h *CatalogHandler) UpdateAgency(c *gin.Context) {
	var req AgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "Invalid agency payload")
		return
	}

	agency, err := h.catalog.UpdateAgency(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		respondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "Failed to update agency")
		return
	}

	respondData(c, http.StatusOK, newAgencyPayload(*agency))
}

// DeleteAgency handles DELETE /agencies/:id.
func (h *CatalogHandler) DeleteAgency(c *gin.Context) {
	if err := h.catalog.DeleteAgency(c.Request.Context(), c.Param("id")); err != nil {
		respondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "Failed to delete agency")
		return
	}

	c.Status(http.StatusNoContent)
}

// UniversityRequest carries the writable university fields.
type UniversityRequest struct {
	Name        string   `json:"name"`
	Country     string   `json:"country"`
	City        *string  `json:"city"`
	Description *string  `json:"description"`
	LogoURL     *string  `json:"logoUrl"`
	Website     *string  `json:"website"`
	Rating      *float64 `json:"rating"`
}

func (r UniversityRequest) toInput() usecase.CreateUniversityInput {
	return usecase.CreateUniversityInput{
		Name:        r.Name,
		Country:     r.Country,
		City:        r.City,
		Description: r.Description,
		LogoURL:     r.LogoURL,
		Website:     r.Website,
		Rating:      r.Rating,
	}
}

// CreateUniversity handles POST /universities.
func (h *CatalogHandler) CreateUniversity(c *gin.Context) {
	var req UniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "Invalid university payload")
		return
	}

	university, err := h.catalog.CreateUniversity(c.Request.Context(), req.toInput())
	if err != nil {
		respondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "Failed to create university")
		return
	}

	respondData(c, http.StatusCreated, newUniversityPayload(*university))
}

// ListUniversities handles GET /universities.
func (h *CatalogHandler) ListUniversities(c *gin.Context) {
	query := parseListQuery(c)

	universities, err := h.catalog.Universities(c.Request.Context(), query)
	if err != nil {
		respondFailure(c, http.StatusInternalServerError, "Failed to list universities")
		return
	}

	payloads := make([]UniversityPayload, 0, len(universities))
	for _, university := range universities {
		payloads = append(payloads, newUniversityPayload(university))
	}

	respondList(c, len(payloads), projectFields(payloads, query.Fields))
}

// GetUniversity handles GET /universities/:id.
func (h *CatalogHandler) GetUniversity(c *gin.Context) {
	university, err := h.catalog.University(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "Failed to load university")
		return
	}

	respondData(c, http.StatusOK, newUniversityPayload(*university))
}

// UpdateUniversity handles PATCH /universities/:id.
func (h *CatalogHandler) UpdateUniversity(c *gin.Context) {
	var req UniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "Invalid university payload")
		return
	}

	university, err := h.catalog.UpdateUniversity(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		respondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "Failed to update university")
		return
	}

	respondData(c, http.StatusOK, newUniversityPayload(*university))
}

// DeleteUniversity handles DELETE /universities/:id.
func (h *CatalogHandler) DeleteUniversity(c *gin.Context) {
	if err := h.catalog.DeleteUniversity(c.Request.Context(), c.Param("id")); err != nil {
		respondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "Failed to delete university")
		return
	}

	c.Status(http.StatusNoContent)
}

// AdRequest carries the writable ad fields.
type AdRequest struct {
	Title          *string    `json:"title"`
	ImageURL       string     `json:"imageUrl"`
	TargetURL      *string    `json:"targetUrl"`
	IsActive       *bool      `json:"isActive"`
	ExpirationDate *time.Time `json:"expirationDate"`
}

func (r AdRequest) toInput() usecase.CreateAdInput {
	return usecase.CreateAdInput{
		Title:          r.Title,
		ImageURL:       r.ImageURL,
		TargetURL:      r.TargetURL,
		IsActive:       r.IsActive,
		ExpirationDate: r.ExpirationDate,
	}
}

// CreateAd handles POST /ads.
func (h *CatalogHandler) CreateAd(c *gin.Context) {
	var req AdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "Invalid ad payload")
		return
	}

	ad, err := h.catalog.CreateAd(c.Request.Context(), req.toInput())
	if err != nil {
		respondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "Failed to create ad")
		return
	}

	respondData(c, http.StatusCreated, newAdPayload(*ad))
}

// ListAds handles GET /ads.
func (h *CatalogHandler) ListAds(c *gin.Context) {
	query := parseListQuery(c)

	ads, err := h.catalog.Ads(c.Request.Context(), query)
	if err != nil {
		respondFailure(c, http.StatusInternalServerError, "Failed to list ads")
		return
	}

	payloads := make([]AdPayload, 0, len(ads))
	for _, ad := range ads {
		payloads = append(payloads, newAdPayload(ad))
	}

	respondList(c, len(payloads), projectFields(payloads, query.Fields))
}

// GetAd handles GET /ads/:id.
func (h *CatalogHandler) GetAd(c *gin.Context) {
	ad, err := h.catalog.Ad(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "Failed to load ad")
		return
	}

	respondData(c, http.StatusOK, newAdPayload(*ad))
}

// UpdateAd handles PATCH /ads/:id.
func (h *CatalogHandler) UpdateAd(c *gin.Context) {
	var req AdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, "Invalid ad payload")
		return
	}

	ad, err := h.catalog.UpdateAd(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		respondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "Failed to update ad")
		return
	}

	respondData(c, http.StatusOK, newAdPayload(*ad))
}

// DeleteAd handles DELETE /ads/:id.
func (h *CatalogHandler) DeleteAd(c *gin.Context) {
	if err := h.catalog.DeleteAd(c.Request.Context(), c.Param("id")); err != nil {
		respondWithMappedError(c, err, catalogErrorCases, http.StatusInternalServerError, "Failed to delete ad")
		return
	}

	c.Status(http.StatusNoContent)
}
