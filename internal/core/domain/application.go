package domain

import "time"

// ApplicationStatus enumerates the lifecycle of a placement request.
type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusReviewing ApplicationStatus = "reviewing"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
)

// Application is a user's request to apply to a university through an agency.
type Application struct {
	ID           string
	UserID       string
	AgencyID     string
	UniversityID string
	Status       ApplicationStatus
	UserNote     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ConsultationStatus enumerates consultation request states.
type ConsultationStatus string

const (
	ConsultationStatusPending   ConsultationStatus = "pending"
	ConsultationStatusScheduled ConsultationStatus = "scheduled"
	ConsultationStatusDone      ConsultationStatus = "done"
	ConsultationStatusCanceled  ConsultationStatus = "canceled"
)

// Consultation is a user's request for an advisory session with an agency.
type Consultation struct {
	ID          string
	UserID      string
	AgencyID    string
	Subject     *string
	Description *string
	Status      ConsultationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
