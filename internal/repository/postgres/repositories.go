package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Users         *UserRepository
	Agencies      *AgencyRepository
	Universities  *UniversityRepository
	Ads           *AdRepository
	Applications  *ApplicationRepository
	Consultations *ConsultationRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(pool),
		Agencies:      NewAgencyRepository(pool),
		Universities:  NewUniversityRepository(pool),
		Ads:           NewAdRepository(pool),
		Applications:  NewApplicationRepository(pool),
		Consultations: NewConsultationRepository(pool),
	}
}
