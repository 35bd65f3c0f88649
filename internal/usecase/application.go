package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/domain"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/port"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/repository"
)

// ErrInvalidRequest indicates a placement or consultation request is missing
// required fields or references an unknown catalog item.
var ErrInvalidRequest = errors.New("invalid request")

// ApplyInput carries a university placement request.
type ApplyInput struct {
	AgencyID     string
	UniversityID string
	UserNote     *string
}

// ConsultationInput carries a consultation request.
type ConsultationInput struct {
	AgencyID    string
	Subject     string
	Description *string
}

// History aggregates everything a user has requested on the platform.
type History struct {
	Applications  []domain.Application
	Consultations []domain.Consultation
}

// ApplicationService handles placement requests, consultations and the
// combined per-user history.
type ApplicationService struct {
	applications  port.ApplicationRepository
	consultations port.ConsultationRepository
	agencies      port.AgencyRepository
	universities  port.UniversityRepository
	logger        *zap.Logger
	now           func() time.Time
}

// NewApplicationService constructs ApplicationService.
func NewApplicationService(
	applications port.ApplicationRepository,
	consultations port.ConsultationRepository,
	agencies port.AgencyRepository,
	universities port.UniversityRepository,
	log *zap.Logger,
) *ApplicationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ApplicationService{
		applications:  applications,
		consultations: consultations,
		agencies:      agencies,
		universities:  universities,
		logger:        log,
		now:           time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *ApplicationService) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Apply files a placement request against an agency/university pair. Both
// references are checked before the row is written.
func (s *ApplicationService) Apply(ctx context.Context, userID string, input ApplyInput) (*domain.Application, error) {
	if input.AgencyID == "" || input.UniversityID == "" {
		return nil, fmt.Errorf("%w: agency and university are required", ErrInvalidRequest)
	}

	if _, err := s.agencies.GetByID(ctx, input.AgencyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown agency", ErrInvalidRequest)
		}
		return nil, fmt.Errorf("check agency: %w", err)
	}
	if _, err := s.universities.GetByID(ctx, input.UniversityID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown university", ErrInvalidRequest)
		}
		return nil, fmt.Errorf("check university: %w", err)
	}

	now := s.now().UTC()
	application := domain.Application{
		ID:           uuid.NewString(),
		UserID:       userID,
		AgencyID:     input.AgencyID,
		UniversityID: input.UniversityID,
		Status:       domain.ApplicationStatusPending,
		UserNote:     input.UserNote,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.applications.Create(ctx, application); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.logger.Info("application filed",
		zap.String("application_id", application.ID),
		zap.String("user_id", userID),
		zap.String("university_id", input.UniversityID),
	)

	return &application, nil
}

// RequestConsultation files a consultation request with an agency.
func (s *ApplicationService) RequestConsultation(ctx context.Context, userID string, input ConsultationInput) (*domain.Consultation, error) {
	subject := strings.TrimSpace(input.Subject)
	if input.AgencyID == "" || subject == "" {
		return nil, fmt.Errorf("%w: agency and subject are required", ErrInvalidRequest)
	}

	if _, err := s.agencies.GetByID(ctx, input.AgencyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown agency", ErrInvalidRequest)
		}
		return nil, fmt.Errorf("check agency: %w", err)
	}

	now := s.now().UTC()
	consultation := domain.Consultation{
		ID:          uuid.NewString(),
		UserID:      userID,
		AgencyID:    input.AgencyID,
		Subject:     &subject,
		Description: input.Description,
		Status:      domain.ConsultationStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.consultations.Create(ctx, consultation); err != nil {
		return nil, fmt.Errorf("create consultation: %w", err)
	}

	s.logger.Info("consultation requested",
		zap.String("consultation_id", consultation.ID),
		zap.String("user_id", userID),
	)

	return &consultation, nil
}

// UserHistory returns the user's applications and consultations, newest first.
func (s *ApplicationService) UserHistory(ctx context.Context, userID string) (*History, error) {
	applications, err := s.applications.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	consultations, err := s.consultations.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}

	return &History{
		Applications:  applications,
		Consultations: consultations,
	}, nil
}
