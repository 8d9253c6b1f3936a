package booking

import (
	"context"
	"errors"
)

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrSlotTaken is returned by CreateAppointment when the storage
	// uniqueness constraint on (doctor, date, time) rejects the insert.
	ErrSlotTaken = errors.New("slot already taken")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	ResolveDoctor(ctx context.Context, ref DoctorRef) (*Doctor, error)
	CreateDoctor(ctx context.Context, d *Doctor) error
	ListDoctors(ctx context.Context, onlyActive bool) ([]Doctor, error)

	ListSpecialties(ctx context.Context) ([]Specialty, error)

	GetPatientByDocument(ctx context.Context, document string) (*Patient, error)
	CreatePatient(ctx context.Context, p *Patient) error
	UpdatePatient(ctx context.Context, p *Patient) error

	// BookedTimes returns the HH:MM start times of appointments for the
	// doctor on the given date whose status is in statuses.
	BookedTimes(ctx context.Context, doctorID int64, date string, statuses []Status) ([]string, error)

	// CreateAppointment inserts the appointment and reports ErrSlotTaken
	// when another non-terminal appointment already holds the slot.
	CreateAppointment(ctx context.Context, a *Appointment) error

	GetAppointmentByID(ctx context.Context, id int64) (*Appointment, error)
	GetAppointmentDetail(ctx context.Context, id int64) (*AppointmentDetail, error)
	ListAppointments(ctx context.Context) ([]AppointmentDetail, error)
	ListAppointmentsBetween(ctx context.Context, doctorID int64, fromDate, toDate string) ([]AppointmentDetail, error)

	// UpdateAppointmentStatus performs a compare-and-set from one status to
	// another and returns ErrAppointmentNotFound when no row matched.
	UpdateAppointmentStatus(ctx context.Context, id int64, from, to Status) (*Appointment, error)
	DeleteAppointment(ctx context.Context, id int64) error
}
