package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/medpal/medpal-api/internal/repository"
)

type userRepository struct {
	db *sqlx.DB
}

type medicationRepository struct {
	db *sqlx.DB
}

type reminderRepository struct {
	db *sqlx.DB
}

type appointmentRepository struct {
	db *sqlx.DB
}

type contactRepository struct {
	db *sqlx.DB
}

type familyShareRepository struct {
	db *sqlx.DB
}

type healthMetricRepository struct {
	db *sqlx.DB
}

type outboxRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewMedicationRepository(db *sqlx.DB) repository.MedicationRepository {
	return &medicationRepository{db: db}
}

func NewReminderRepository(db *sqlx.DB) repository.ReminderRepository {
	return &reminderRepository{db: db}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewContactRepository(db *sqlx.DB) repository.ContactRepository {
	return &contactRepository{db: db}
}

func NewFamilyShareRepository(db *sqlx.DB) repository.FamilyShareRepository {
	return &familyShareRepository{db: db}
}

func NewHealthMetricRepository(db *sqlx.DB) repository.HealthMetricRepository {
	return &healthMetricRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}
