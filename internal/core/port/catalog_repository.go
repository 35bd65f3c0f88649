package port

import (
	"context"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/domain"
)

// AgencyRepository exposes persistence behavior for agencies.
type AgencyRepository interface {
	Create(ctx context.Context, agency domain.Agency) error
	GetByID(ctx context.Context, id string) (*domain.Agency, error)
	List(ctx context.Context, query ListQuery) ([]domain.Agency, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Agency, error)
	Delete(ctx context.Context, id string) error
}

// UniversityRepository exposes persistence behavior for universities.
type UniversityRepository interface {
	Create(ctx context.Context, university domain.University) error
	GetByID(ctx context.Context, id string) (*domain.University, error)
	List(ctx context.Context, query ListQuery) ([]domain.University, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.University, error)
	Delete(ctx context.Context, id string) error
}

// AdRepository exposes persistence behavior for promotional banners.
type AdRepository interface {
	Create(ctx context.Context, ad domain.Ad) error
	GetByID(ctx context.Context, id string) (*domain.Ad, error)
	List(ctx context.Context, query ListQuery) ([]domain.Ad, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Ad, error)
	Delete(ctx context.Context, id string) error
}
