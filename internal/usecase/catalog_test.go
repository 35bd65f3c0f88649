package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/domain"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/port"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/repository"
)

type agencyRepoMock struct {
	agencies map[string]domain.Agency
}

func newAgencyRepoMock() *agencyRepoMock {
	return &agencyRepoMock{agencies: make(map[string]domain.Agency)}
}

func (m *agencyRepoMock) Create(_ context.Context, agency domain.Agency) error {
	for _, existing := range m.agencies {
		if existing.Slug == agency.Slug {
			return repository.ErrDuplicate
		}
	}
	m.agencies[agency.ID] = agency
	return nil
}

func (m *agencyRepoMock) GetByID(_ context.Context, id string) (*domain.Agency, error) {
	if agency, ok := m.agencies[id]; ok {
		a := agency
		return &a, nil
	}
	return nil, repository.ErrNotFound
}

func (m *agencyRepoMock) List(_ context.Context, _ port.ListQuery) ([]domain.Agency, error) {
	out := make([]domain.Agency, 0, len(m.agencies))
	for _, agency := range m.agencies {
		out = append(out, agency)
	}
	return out, nil
}

func (m *agencyRepoMock) Update(_ context.Context, id string, fields map[string]any) (*domain.Agency, error) {
	agency, ok := m.agencies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for name, value := range fields {
		str, _ := value.(string)
		switch name {
		case "name":
			agency.Name = str
		case "slug":
			agency.Slug = str
		case "logo_url":
			agency.LogoURL = &str
		case "description":
			agency.Description = &str
		case "contact_info":
			agency.ContactInfo = &str
		}
	}
	m.agencies[id] = agency
	a := agency
	return &a, nil
}

func (m *agencyRepoMock) Delete(_ context.Context, id string) error {
	if _, ok := m.agencies[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.agencies, id)
	return nil
}

type universityRepoMock struct {
	universities map[string]domain.University
}

func newUniversityRepoMock() *universityRepoMock {
	return &universityRepoMock{universities: make(map[string]domain.University)}
}

func (m *universityRepoMock) Create(_ context.Context, university domain.University) error {
	m.universities[university.ID] = university
	return nil
}

func (m *universityRepoMock) GetByID(_ context.Context, id string) (*domain.University, error) {
	if university, ok := m.universities[id]; ok {
		u := university
		return &u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *universityRepoMock) List(_ context.Context, _ port.ListQuery) ([]domain.University, error) {
	out := make([]domain.University, 0, len(m.universities))
	for _, university := range m.universities {
		out = append(out, university)
	}
	return out, nil
}

func (m *universityRepoMock) Update(_ context.Context, id string, fields map[string]any) (*domain.University, error) {
	university, ok := m.universities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for name, value := range fields {
		switch name {
		case "name":
			university.Name = value.(string)
		case "country":
			university.Country = value.(string)
		case "rating":
			rating := value.(float64)
			university.Rating = &rating
		}
	}
	m.universities[id] = university
	u := university
	return &u, nil
}

func (m *universityRepoMock) Delete(_ context.Context, id string) error {
	if _, ok := m.universities[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.universities, id)
	return nil
}

type adRepoMock struct {
	ads map[string]domain.Ad
}

func newAdRepoMock() *adRepoMock {
	return &adRepoMock{ads: make(map[string]domain.Ad)}
}

func (m *adRepoMock) Create(_ context.Context, ad domain.Ad) error {
	m.ads[ad.ID] = ad
	return nil
}

func (m *adRepoMock) GetByID(_ context.Context, id string) (*domain.Ad, error) {
	if ad, ok := m.ads[id]; ok {
		a := ad
		return &a, nil
	}
	return nil, repository.ErrNotFound
}

func (m *adRepoMock) List(_ context.Context, _ port.ListQuery) ([]domain.Ad, error) {
	out := make([]domain.Ad, 0, len(m.ads))
	for _, ad := range m.ads {
		out = append(out, ad)
	}
	return out, nil
}

func (m *adRepoMock) Update(_ context.Context, id string, fields map[string]any) (*domain.Ad, error) {
	ad, ok := m.ads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for name, value := range fields {
		switch name {
		case "is_active":
			ad.IsActive = value.(bool)
		case "image_url":
			ad.ImageURL = value.(string)
		}
	}
	m.ads[id] = ad
	a := ad
	return &a, nil
}

func (m *adRepoMock) Delete(_ context.Context, id string) error {
	if _, ok := m.ads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.ads, id)
	return nil
}

func newCatalogFixture() (*CatalogService, *agencyRepoMock, *universityRepoMock, *adRepoMock) {
	agencies := newAgencyRepoMock()
	universities := newUniversityRepoMock()
	ads := newAdRepoMock()
	return NewCatalogService(agencies, universities, ads, nil), agencies, universities, ads
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Tehran Study Group", "tehran-study-group"},
		{"  ACME  Consulting!  ", "acme-consulting"},
		{"Über Agentur", "über-agentur"},
		{"--dashes--", "dashes"},
	}
	for _, tc := range cases {
		if got := slugify(tc.in); got != tc.want {
			t.Errorf("slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCreateAgencyDerivesSlug(t *testing.T) {
	service, _, _, _ := newCatalogFixture()

	agency, err := service.CreateAgency(context.Background(), CreateAgencyInput{
		Name: "Tehran Study Group",
	})
	if err != nil {
		t.Fatalf("CreateAgency: %v", err)
	}
	if agency.Slug != "tehran-study-group" {
		t.Fatalf("unexpected slug %q", agency.Slug)
	}
	if agency.ID == "" {
		t.Fatal("expected a generated id")
	}
}

func TestCreateAgencyConflictOnSlug(t *testing.T) {
	service, _, _, _ := newCatalogFixture()

	if _, err := service.CreateAgency(context.Background(), CreateAgencyInput{Name: "Tehran Study Group"}); err != nil {
		t.Fatalf("CreateAgency: %v", err)
	}
	_, err := service.CreateAgency(context.Background(), CreateAgencyInput{Name: "tehran STUDY group"})
	if !errors.Is(err, ErrResourceConflict) {
		t.Fatalf("expected ErrResourceConflict, got %v", err)
	}
}

func TestCreateAgencyRequiresName(t *testing.T) {
	service, _, _, _ := newCatalogFixture()

	if _, err := service.CreateAgency(context.Background(), CreateAgencyInput{Name: "   "}); !errors.Is(err, ErrInvalidResource) {
		t.Fatalf("expected ErrInvalidResource, got %v", err)
	}
}

func TestUpdateAgencyRenameRefreshesSlug(t *testing.T) {
	service, _, _, _ := newCatalogFixture()

	agency, err := service.CreateAgency(context.Background(), CreateAgencyInput{Name: "Tehran Study Group"})
	if err != nil {
		t.Fatalf("CreateAgency: %v", err)
	}

	updated, err := service.UpdateAgency(context.Background(), agency.ID, CreateAgencyInput{Name: "Shiraz Study Group"})
	if err != nil {
		t.Fatalf("UpdateAgency: %v", err)
	}
	if updated.Slug != "shiraz-study-group" {
		t.Fatalf("unexpected slug %q", updated.Slug)
	}
}

func TestUniversityRatingBounds(t *testing.T) {
	service, _, _, _ := newCatalogFixture()

	bad := 7.5
	_, err := service.CreateUniversity(context.Background(), CreateUniversityInput{
		Name:    "Test University",
		Country: "Germany",
		Rating:  &bad,
	})
	if !errors.Is(err, ErrInvalidResource) {
		t.Fatalf("expected ErrInvalidResource, got %v", err)
	}

	good := 4.5
	university, err := service.CreateUniversity(context.Background(), CreateUniversityInput{
		Name:    "Test University",
		Country: "Germany",
		Rating:  &good,
	})
	if err != nil {
		t.Fatalf("CreateUniversity: %v", err)
	}
	if university.Rating == nil || *university.Rating != 4.5 {
		t.Fatal("rating not applied")
	}
}

func TestDeleteCatalogItemNotFound(t *testing.T) {
	service, _, _, _ := newCatalogFixture()

	if err := service.DeleteAgency(context.Background(), "missing"); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
	if err := service.DeleteUniversity(context.Background(), "missing"); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
	if err := service.DeleteAd(context.Background(), "missing"); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestAdsFilterExpiredBanners(t *testing.T) {
	service, _, _, _ := newCatalogFixture()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	service.WithClock(func() time.Time { return base })

	live := base.Add(24 * time.Hour)
	dead := base.Add(-time.Hour)

	if _, err := service.CreateAd(context.Background(), CreateAdInput{ImageURL: "https://cdn.example.com/live.png", ExpirationDate: &live}); err != nil {
		t.Fatalf("CreateAd live: %v", err)
	}
	if _, err := service.CreateAd(context.Background(), CreateAdInput{ImageURL: "https://cdn.example.com/dead.png", ExpirationDate: &dead}); err != nil {
		t.Fatalf("CreateAd dead: %v", err)
	}
	if _, err := service.CreateAd(context.Background(), CreateAdInput{ImageURL: "https://cdn.example.com/forever.png"}); err != nil {
		t.Fatalf("CreateAd forever: %v", err)
	}

	ads, err := service.Ads(context.Background(), port.ListQuery{})
	if err != nil {
		t.Fatalf("Ads: %v", err)
	}
	if len(ads) != 2 {
		t.Fatalf("expected 2 visible ads, got %d", len(ads))
	}
	for _, ad := range ads {
		if ad.ImageURL == "https://cdn.example.com/dead.png" {
			t.Fatal("expired ad must not be listed")
		}
	}
}

func TestCreateAdDefaultsToActive(t *testing.T) {
	service, _, _, _ := newCatalogFixture()

	ad, err := service.CreateAd(context.Background(), CreateAdInput{ImageURL: "https://cdn.example.com/banner.png"})
	if err != nil {
		t.Fatalf("CreateAd: %v", err)
	}
	if !ad.IsActive {
		t.Fatal("new ads default to active")
	}
}
