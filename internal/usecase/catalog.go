package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/domain"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/port"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/repository"
)

var (
	// ErrResourceNotFound indicates the requested catalog item does not exist.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrResourceConflict indicates a uniqueness conflict (e.g., agency slug).
	ErrResourceConflict = errors.New("resource already exists")
	// ErrInvalidResource indicates required fields are missing or malformed.
	ErrInvalidResource = errors.New("invalid resource payload")
)

// CatalogService manages agencies, universities and promotional ads.
type CatalogService struct {
	agencies     port.AgencyRepository
	universities port.UniversityRepository
	ads          port.AdRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(
	agencies port.AgencyRepository,
	universities port.UniversityRepository,
	ads port.AdRepository,
	log *zap.Logger,
) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{
		agencies:     agencies,
		universities: universities,
		ads:          ads,
		logger:       log,
		now:          time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *CatalogService) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// slugify lowercases the name and collapses runs of non-alphanumeric
// characters into single hyphens.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// CreateAgencyInput carries the writable agency fields.
type CreateAgencyInput struct {
	Name                  string
	LogoURL               *string
	Description           *string
	ContactInfo           *string
	SupportedUniversities []string
}

// CreateAgency registers a new agency. The slug is derived from the name.
func (s *CatalogService) CreateAgency(ctx context.Context, input CreateAgencyInput) (*domain.Agency, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: agency name is required", ErrInvalidResource)
	}

	agency := domain.Agency{
		ID:                    uuid.NewString(),
		Name:                  name,
		Slug:                  slugify(name),
		LogoURL:               input.LogoURL,
		Description:           input.Description,
		ContactInfo:           input.ContactInfo,
		SupportedUniversities: input.SupportedUniversities,
		CreatedAt:             s.now().UTC(),
	}

	if err := s.agencies.Create(ctx, agency); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: agency slug %q", ErrResourceConflict, agency.Slug)
		}
		return nil, fmt.Errorf("create agency: %w", err)
	}

	s.logger.Info("agency created",
		zap.String("agency_id", agency.ID),
		zap.String("slug", agency.Slug),
	)

	return &agency, nil
}

// Agency returns a single agency by id.
func (s *CatalogService) Agency(ctx context.Context, id string) (*domain.Agency, error) {
	agency, err := s.agencies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("get agency: %w", err)
	}
	return agency, nil
}

// Agencies returns agencies matching the shaped query.
func (s *CatalogService) Agencies(ctx context.Context, query port.ListQuery) ([]domain.Agency, error) {
	agencies, err := s.agencies.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list agencies: %w", err)
	}
	return agencies, nil
}

// UpdateAgency applies the allow-listed fields. Renames refresh the slug.
func (s *CatalogService) UpdateAgency(ctx context.Context, id string, input CreateAgencyInput) (*domain.Agency, error) {
	fields := make(map[string]any)
	if name := strings.TrimSpace(input.Name); name != "" {
		fields["name"] = name
		fields["slug"] = slugify(name)
	}
	if input.LogoURL != nil {
		fields["logo_url"] = *input.LogoURL
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.ContactInfo != nil {
		fields["contact_info"] = *input.ContactInfo
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no updatable agency fields", ErrInvalidResource)
	}

	agency, err := s.agencies.Update(ctx, id, fields)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrResourceNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fmt.Errorf("%w: agency slug", ErrResourceConflict)
		}
		return nil, fmt.Errorf("update agency: %w", err)
	}
	return agency, nil
}

// DeleteAgency removes an agency.
func (s *CatalogService) DeleteAgency(ctx context.Context, id string) error {
	if err := s.agencies.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResourceNotFound
		}
		return fmt.Errorf("delete agency: %w", err)
	}
	return nil
}

// CreateUniversityInput carries the writable university fields.
type CreateUniversityInput struct {
	Name        string
	Country     string
	City        *string
	Description *string
	LogoURL     *string
	Website     *string
	Rating      *float64
}

// CreateUniversity registers a destination institution.
func (s *CatalogService) CreateUniversity(ctx context.Context, input CreateUniversityInput) (*domain.University, error) {
	name := strings.TrimSpace(input.Name)
	country := strings.TrimSpace(input.Country)
	if name == "" || country == "" {
		return nil, fmt.Errorf("%w: university name and country are required", ErrInvalidResource)
	}
	if input.Rating != nil && (*input.Rating < 0 || *input.Rating > 5) {
		return nil, fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidResource)
	}

	university := domain.University{
		ID:          uuid.NewString(),
		Name:        name,
		Country:     country,
		City:        input.City,
		Description: input.Description,
		LogoURL:     input.LogoURL,
		Website:     input.Website,
		Rating:      input.Rating,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.universities.Create(ctx, university); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: university %q", ErrResourceConflict, name)
		}
		return nil, fmt.Errorf("create university: %w", err)
	}

	return &university, nil
}

// University returns a single university by id.
func (s *CatalogService) University(ctx context.Context, id string) (*domain.University, error) {
	university, err := s.universities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("get university: %w", err)
	}
	return university, nil
}

// Universities returns universities matching the shaped query.
func (s *CatalogService) Universities(ctx context.Context, query port.ListQuery) ([]domain.University, error) {
	universities, err := s.universities.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	return universities, nil
}

// UpdateUniversity applies the allow-listed fields.
func (s *CatalogService) UpdateUniversity(ctx context.Context, id string, input CreateUniversityInput) (*domain.University, error) {
	fields := make(map[string]any)
	if name := strings.TrimSpace(input.Name); name != "" {
		fields["name"] = name
	}
	if country := strings.TrimSpace(input.Country); country != "" {
		fields["country"] = country
	}
	if input.City != nil {
		fields["city"] = *input.City
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.LogoURL != nil {
		fields["logo_url"] = *input.LogoURL
	}
	if input.Website != nil {
		fields["website"] = *input.Website
	}
	if input.Rating != nil {
		if *input.Rating < 0 || *input.Rating > 5 {
			return nil, fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidResource)
		}
		fields["rating"] = *input.Rating
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no updatable university fields", ErrInvalidResource)
	}

	university, err := s.universities.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("update university: %w", err)
	}
	return university, nil
}

// DeleteUniversity removes a university.
func (s *CatalogService) DeleteUniversity(ctx context.Context, id string) error {
	if err := s.universities.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResourceNotFound
		}
		return fmt.Errorf("delete university: %w", err)
	}
	return nil
}

// CreateAdInput carries the writable ad fields.
type CreateAdInput struct {
	Title          *string
	ImageURL       string
	TargetURL      *string
	IsActive       *bool
	ExpirationDate *time.Time
}

// CreateAd registers a promotional banner. Ads default to active.
func (s *CatalogService) CreateAd(ctx context.Context, input CreateAdInput) (*domain.Ad, error) {
	imageURL := strings.TrimSpace(input.ImageURL)
	if imageURL == "" {
		return nil, fmt.Errorf("%w: ad image url is required", ErrInvalidResource)
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	ad := domain.Ad{
		ID:             uuid.NewString(),
		Title:          input.Title,
		ImageURL:       imageURL,
		TargetURL:      input.TargetURL,
		IsActive:       active,
		ExpirationDate: input.ExpirationDate,
		CreatedAt:      s.now().UTC(),
	}

	if err := s.ads.Create(ctx, ad); err != nil {
		return nil, fmt.Errorf("create ad: %w", err)
	}

	return &ad, nil
}

// Ad returns a single ad by id.
func (s *CatalogService) Ad(ctx context.Context, id string) (*domain.Ad, error) {
	ad, err := s.ads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("get ad: %w", err)
	}
	return ad, nil
}

// Ads returns ads matching the shaped query. Expired banners are filtered
// out of public listings by the handler layer via the isActive filter.
func (s *CatalogService) Ads(ctx context.Context, query port.ListQuery) ([]domain.Ad, error) {
	ads, err := s.ads.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list ads: %w", err)
	}

	now := s.now()
	visible := ads[:0]
	for _, ad := range ads {
		if ad.ExpirationDate != nil && !ad.ExpirationDate.After(now) {
			continue
		}
		visible = append(visible, ad)
	}
	return visible, nil
}

// UpdateAd applies the allow-listed fields.
func (s *CatalogService) UpdateAd(ctx context.Context, id string, input CreateAdInput) (*domain.Ad, error) {
	fields := make(map[string]any)
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if imageURL := strings.TrimSpace(input.ImageURL); imageURL != "" {
		fields["image_url"] = imageURL
	}
	if input.TargetURL != nil {
		fields["target_url"] = *input.TargetURL
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}
	if input.ExpirationDate != nil {
		fields["expiration_date"] = *input.ExpirationDate
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no updatable ad fields", ErrInvalidResource)
	}

	ad, err := s.ads.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("update ad: %w", err)
	}
	return ad, nil
}

// DeleteAd removes an ad.
func (s *CatalogService) DeleteAd(ctx context.Context, id string) error {
	if err := s.ads.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResourceNotFound
		}
		return fmt.Errorf("delete ad: %w", err)
	}
	return nil
}
