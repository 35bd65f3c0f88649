package port

import (
	"context"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/domain"
)

// ApplicationRepository exposes persistence behavior for placement requests.
type ApplicationRepository interface {
	Create(ctx context.Context, application domain.Application) error
	ListByUser(ctx context.Context, userID string) ([]domain.Application, error)
}

// ConsultationRepository exposes persistence behavior for consultation requests.
type ConsultationRepository interface {
	Create(ctx context.Context, consultation domain.Consultation) error
	ListByUser(ctx context.Context, userID string) ([]domain.Consultation, error)
}
