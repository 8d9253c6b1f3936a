package api

import (
	"time"

	"github.com/clinicalocal/clinic-booking/internal/booking"
)

type BookAppointmentRequest struct {
	DoctorID string `json:"doctor_id"` // numeric ID or slug
	Date     string `json:"date"`
	Time     string `json:"time"`
	Document string `json:"document"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	EPS      string `json:"eps,omitempty"`
}

type AppointmentResponse struct {
	ID          int64          `json:"id"`
	DoctorID    int64          `json:"doctor_id"`
	PatientID   int64          `json:"patient_id"`
	SpecialtyID int64          `json:"specialty_id"`
	Slug        string         `json:"slug"`
	Date        string         `json:"date"`
	Time        string         `json:"time"`
	Status      booking.Status `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}

type AppointmentListItem struct {
	AppointmentResponse
	PatientName     string `json:"patient_name,omitempty"`
	PatientDocument string `json:"patient_document,omitempty"`
	DoctorName      string `json:"doctor_name,omitempty"`
}

type CreateDoctorRequest struct {
	Name        string `json:"name"`
	Document    string `json:"document"`
	Email       string `json:"email"`
	SpecialtyID int64  `json:"specialty_id"`
	Status      string `json:"status,omitempty"`
}

type DoctorResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	SpecialtyID int64  `json:"specialty_id"`
	Slug        string `json:"slug"`
	Status      string `json:"status"`
}

type RegisterPatientRequest struct {
	Document string `json:"document"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	EPS      string `json:"eps,omitempty"`
}

type PatientResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Document string  `json:"document"`
	Email    *string `json:"email,omitempty"`
	EPS      *string `json:"eps,omitempty"`
}

type SpecialtyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func toAppointmentResponse(a *booking.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		DoctorID:    a.DoctorID,
		PatientID:   a.PatientID,
		SpecialtyID: a.SpecialtyID,
		Slug:        a.Slug,
		Date:        a.Date,
		Time:        a.Time,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
	}
}

func toDoctorResponse(d *booking.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:          d.ID,
		Name:        d.Name,
		SpecialtyID: d.SpecialtyID,
		Slug:        d.Slug,
		Status:      string(d.Status),
	}
}

func toPatientResponse(p *booking.Patient) PatientResponse {
	return PatientResponse{
		ID:       p.ID,
		Name:     p.Name,
		Document: p.Document,
		Email:    p.Email,
		EPS:      p.EPS,
	}
}
