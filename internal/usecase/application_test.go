package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/domain"
)

type applicationRepoMock struct {
	byUser map[string][]domain.Application
}

func newApplicationRepoMock() *applicationRepoMock {
	return &applicationRepoMock{byUser: make(map[string][]domain.Application)}
}

func (m *applicationRepoMock) Create(_ context.Context, application domain.Application) error {
	m.byUser[application.UserID] = append(m.byUser[application.UserID], application)
	return nil
}

func (m *applicationRepoMock) ListByUser(_ context.Context, userID string) ([]domain.Application, error) {
	return m.byUser[userID], nil
}

type consultationRepoMock struct {
	byUser map[string][]domain.Consultation
}

func newConsultationRepoMock() *consultationRepoMock {
	return &consultationRepoMock{byUser: make(map[string][]domain.Consultation)}
}

func (m *consultationRepoMock) Create(_ context.Context, consultation domain.Consultation) error {
	m.byUser[consultation.UserID] = append(m.byUser[consultation.UserID], consultation)
	return nil
}

func (m *consultationRepoMock) ListByUser(_ context.Context, userID string) ([]domain.Consultation, error) {
	return m.byUser[userID], nil
}

func newApplicationFixture(t *testing.T) (*ApplicationService, string, string) {
	t.Helper()

	agencies := newAgencyRepoMock()
	universities := newUniversityRepoMock()
	catalog := NewCatalogService(agencies, universities, newAdRepoMock(), nil)

	agency, err := catalog.CreateAgency(context.Background(), CreateAgencyInput{Name: "Tehran Study Group"})
	if err != nil {
		t.Fatalf("CreateAgency: %v", err)
	}
	university, err := catalog.CreateUniversity(context.Background(), CreateUniversityInput{
		Name:    "Technical University of Munich",
		Country: "Germany",
	})
	if err != nil {
		t.Fatalf("CreateUniversity: %v", err)
	}

	service := NewApplicationService(
		newApplicationRepoMock(),
		newConsultationRepoMock(),
		agencies,
		universities,
		nil,
	)
	return service, agency.ID, university.ID
}

func TestApplyCreatesPendingApplication(t *testing.T) {
	service, agencyID, universityID := newApplicationFixture(t)

	note := "I have an IELTS 7.5"
	application, err := service.Apply(context.Background(), "user-1", ApplyInput{
		AgencyID:     agencyID,
		UniversityID: universityID,
		UserNote:     &note,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if application.Status != domain.ApplicationStatusPending {
		t.Fatalf("expected pending status, got %q", application.Status)
	}
	if application.ID == "" {
		t.Fatal("expected a generated id")
	}
	if application.UserID != "user-1" {
		t.Fatalf("unexpected user %q", application.UserID)
	}
}

func TestApplyUnknownCatalogReferences(t *testing.T) {
	service, agencyID, universityID := newApplicationFixture(t)

	cases := []struct {
		name  string
		input ApplyInput
	}{
		{"missing ids", ApplyInput{}},
		{"unknown agency", ApplyInput{AgencyID: "ghost", UniversityID: universityID}},
		{"unknown university", ApplyInput{AgencyID: agencyID, UniversityID: "ghost"}},
	}
	for _, tc := range cases {
		if _, err := service.Apply(context.Background(), "user-1", tc.input); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("%s: expected ErrInvalidRequest, got %v", tc.name, err)
		}
	}
}

func TestRequestConsultation(t *testing.T) {
	service, agencyID, _ := newApplicationFixture(t)

	consultation, err := service.RequestConsultation(context.Background(), "user-1", ConsultationInput{
		AgencyID: agencyID,
		Subject:  "Visa process for Germany",
	})
	if err != nil {
		t.Fatalf("RequestConsultation: %v", err)
	}
	if consultation.Status != domain.ConsultationStatusPending {
		t.Fatalf("expected pending status, got %q", consultation.Status)
	}
	if consultation.Subject == nil || *consultation.Subject != "Visa process for Germany" {
		t.Fatal("subject not applied")
	}
}

func TestRequestConsultationRequiresSubject(t *testing.T) {
	service, agencyID, _ := newApplicationFixture(t)

	_, err := service.RequestConsultation(context.Background(), "user-1", ConsultationInput{
		AgencyID: agencyID,
		Subject:  "   ",
	})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestUserHistoryCombinesBothKinds(t *testing.T) {
	service, agencyID, universityID := newApplicationFixture(t)

	if _, err := service.Apply(context.Background(), "user-1", ApplyInput{AgencyID: agencyID, UniversityID: universityID}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, err := service.RequestConsultation(context.Background(), "user-1", ConsultationInput{AgencyID: agencyID, Subject: "Funding"}); err != nil {
		t.Fatalf("RequestConsultation: %v", err)
	}
	if _, err := service.Apply(context.Background(), "user-2", ApplyInput{AgencyID: agencyID, UniversityID: universityID}); err != nil {
		t.Fatalf("Apply other user: %v", err)
	}

	history, err := service.UserHistory(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("UserHistory: %v", err)
	}
	if len(history.Applications) != 1 {
		t.Fatalf("expected 1 application, got %d", len(history.Applications))
	}
	if len(history.Consultations) != 1 {
		t.Fatalf("expected 1 consultation, got %d", len(history.Consultations))
	}
}
