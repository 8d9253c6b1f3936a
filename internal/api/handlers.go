package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/clinicalocal/clinic-booking/internal/booking"
	redisclient "github.com/clinicalocal/clinic-booking/internal/redis"
	"github.com/clinicalocal/clinic-booking/internal/schedule"
)

// parseDoctorRef accepts either a numeric doctor ID or a public slug.
func parseDoctorRef(param string) booking.DoctorRef {
	if id, err := strconv.ParseInt(param, 10, 64); err == nil {
		return booking.DoctorByID(id)
	}
	return booking.DoctorBySlug(param)
}

func availabilityHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := parseDoctorRef(chi.URLParam(r, "doctor"))
		start := r.URL.Query().Get("start")

		availability, err := svc.Availability(r.Context(), ref, start)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, availability)
	}
}

func weeklyAgendaHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := parseDoctorRef(chi.URLParam(r, "doctor"))
		start := r.URL.Query().Get("start")

		agenda, err := svc.WeeklyAgenda(r.Context(), ref, start)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, agenda)
	}
}

func bookAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, err := svc.Book(r.Context(), booking.BookRequest{
			Doctor:   parseDoctorRef(req.DoctorID),
			Date:     req.Date,
			Time:     req.Time,
			Document: req.Document,
			Name:     req.Name,
			Email:    req.Email,
			EPS:      req.EPS,
		})
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func listAppointmentsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details, err := svc.ListAppointments(r.Context())
		if err != nil {
			handleBookingError(w, err)
			return
		}

		items := make([]AppointmentListItem, 0, len(details))
		for i := range details {
			d := &details[i]
			item := AppointmentListItem{AppointmentResponse: toAppointmentResponse(&d.Appointment)}
			if d.Patient != nil {
				item.PatientName = d.Patient.Name
				item.PatientDocument = d.Patient.Document
			}
			if d.Doctor != nil {
				item.DoctorName = d.Doctor.Name
			}
			items = append(items, item)
		}

		writeJSON(w, http.StatusOK, items)
	}
}

func transitionHandler(do func(ctx context.Context, id int64) (*booking.Appointment, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be numeric")
			return
		}

		appt, err := do(r.Context(), id)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func deleteAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be numeric")
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}

func listDoctorsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		onlyActive := r.URL.Query().Get("active") != ""

		doctors, err := svc.ListDoctors(r.Context(), onlyActive)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		out := make([]DoctorResponse, 0, len(doctors))
		for i := range doctors {
			out = append(out, toDoctorResponse(&doctors[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getDoctorHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctor, err := svc.GetDoctor(r.Context(), parseDoctorRef(chi.URLParam(r, "doctor")))
		if err != nil {
			handleBookingError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoctorResponse(doctor))
	}
}

func createDoctorHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateDoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		fields := make(map[string]string)
		if req.Name == "" {
			fields["name"] = "name is required"
		}
		if req.Document == "" {
			fields["document"] = "document is required"
		}
		if req.SpecialtyID == 0 {
			fields["specialty_id"] = "specialty_id is required"
		}
		if len(fields) > 0 {
			writeFieldErrors(w, fields)
			return
		}

		doctor, err := svc.CreateDoctor(r.Context(), &booking.Doctor{
			Name:        req.Name,
			Document:    req.Document,
			Email:       req.Email,
			SpecialtyID: req.SpecialtyID,
			Status:      booking.DoctorStatus(req.Status),
		})
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toDoctorResponse(doctor))
	}
}

func listSpecialtiesHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specialties, err := svc.ListSpecialties(r.Context())
		if err != nil {
			handleBookingError(w, err)
			return
		}

		out := make([]SpecialtyResponse, 0, len(specialties))
		for _, s := range specialties {
			out = append(out, SpecialtyResponse{ID: s.ID, Name: s.Name})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func registerPatientHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		patient, err := svc.RegisterPatient(r.Context(), booking.BookRequest{
			Document: req.Document,
			Name:     req.Name,
			Email:    req.Email,
			EPS:      req.EPS,
		})
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(patient))
	}
}

func handleBookingError(w http.ResponseWriter, err error) {
	var verr *booking.ValidationError

	switch {
	case errors.As(err, &verr):
		writeFieldErrors(w, verr.Fields)
	case errors.Is(err, booking.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, booking.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, booking.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, booking.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, "slot_unavailable", "the selected slot is no longer available")
	case errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	case errors.Is(err, booking.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, schedule.ErrInvalidSlotConfig):
		writeError(w, http.StatusInternalServerError, "schedule_config_invalid", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
