package domain

import "time"

// Agency is a study-abroad agency listed on the platform.
type Agency struct {
	ID                    string
	Name                  string
	Slug                  string
	LogoURL               *string
	Description           *string
	ContactInfo           *string
	SupportedUniversities []string
	CreatedAt             time.Time
}

// University is a destination institution agencies can place students at.
type University struct {
	ID          string
	Name        string
	Country     string
	City        *string
	Description *string
	LogoURL     *string
	Website     *string
	Rating      *float64
	CreatedAt   time.Time
}

// Ad is a promotional banner shown on the platform.
type Ad struct {
	ID             string
	Title          *string
	ImageURL       string
	TargetURL      *string
	IsActive       bool
	ExpirationDate *time.Time
	CreatedAt      time.Time
}
