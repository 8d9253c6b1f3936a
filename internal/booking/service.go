package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicalocal/clinic-booking/internal/config"
	redisclient "github.com/clinicalocal/clinic-booking/internal/redis"
	"github.com/clinicalocal/clinic-booking/internal/schedule"
)

const agendaDays = 6 // Monday through Saturday

var (
	ErrSlotUnavailable   = errors.New("the selected slot is no longer available")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Notifier dispatches appointment status mails. Failures are always logged
// and swallowed by the service.
type Notifier interface {
	SendAppointmentStatusEmail(ctx context.Context, email string, detail *AppointmentDetail, status Status) error
}

// HoursSource yields the current working-hours configuration. It is invoked
// once per availability or booking call so changes apply without a restart.
type HoursSource func() config.WorkingHours

type Service struct {
	repo        Repository
	locker      redisclient.Locker
	notifier    Notifier
	hours       HoursSource
	mailTimeout time.Duration
	log         zerolog.Logger
}

func NewService(repo Repository, locker redisclient.Locker, notifier Notifier, hours HoursSource, mailTimeout time.Duration, log zerolog.Logger) *Service {
	if mailTimeout <= 0 {
		mailTimeout = 5 * time.Second
	}
	return &Service{
		repo:        repo,
		locker:      locker,
		notifier:    notifier,
		hours:       hours,
		mailTimeout: mailTimeout,
		log:         log,
	}
}

// Availability computes the free slot grid for a doctor across the Monday
// to Saturday window containing startParam. An unparseable startParam falls
// back to today; this endpoint is public facing.
func (s *Service) Availability(ctx context.Context, ref DoctorRef, startParam string) (map[string][]string, error) {
	doctor, err := s.repo.ResolveDoctor(ctx, ref)
	if err != nil {
		return nil, err
	}

	grid, err := s.slotGrid()
	if err != nil {
		return nil, err
	}

	base := time.Now()
	if startParam != "" {
		if parsed, perr := schedule.ParseDate(startParam); perr == nil {
			base = parsed
		}
	}
	monday := schedule.StartOfWeek(base)

	availability := make(map[string][]string, agendaDays)
	for _, day := range schedule.DaysOfWeek(monday, agendaDays) {
		date := day.Format(schedule.DateLayout)

		bookedTimes, err := s.repo.BookedTimes(ctx, doctor.ID, date, BookedStatuses)
		if err != nil {
			return nil, fmt.Errorf("load booked times for %s: %w", date, err)
		}

		booked := make(map[string]struct{}, len(bookedTimes))
		for _, bt := range bookedTimes {
			booked[truncateToMinute(bt)] = struct{}{}
		}

		free := make([]string, 0, len(grid))
		for _, slot := range grid {
			if _, taken := booked[slot.String()]; !taken {
				free = append(free, slot.String())
			}
		}
		availability[date] = free
	}

	return availability, nil
}

// BookRequest is a public booking submission. Name, Email and EPS are
// optional; Document identifies the patient.
type BookRequest struct {
	Doctor   DoctorRef
	Date     string
	Time     string
	Document string
	Name     string
	Email    string
	EPS      string
}

// Book admits a booking request: it validates the input, checks the slot
// under a per-slot lock, upserts the patient by document and creates the
// appointment in pending state. The storage layer's uniqueness constraint
// backs the in-lock conflict check, so two concurrent requests for the same
// slot can never both insert.
func (s *Service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	doctor, err := s.repo.ResolveDoctor(ctx, req.Doctor)
	if err != nil {
		return nil, err
	}

	req.Time = truncateToMinute(req.Time)

	var (
		created *Appointment
		patient *Patient
	)

	err = s.locker.WithAgendaLock(ctx, doctor.ID, req.Date, req.Time, func(lockCtx context.Context) error {
		bookedTimes, err := s.repo.BookedTimes(lockCtx, doctor.ID, req.Date, BookedStatuses)
		if err != nil {
			return fmt.Errorf("check slot: %w", err)
		}
		for _, bt := range bookedTimes {
			if truncateToMinute(bt) == req.Time {
				return ErrSlotUnavailable
			}
		}

		patient, err = s.upsertPatient(lockCtx, req)
		if err != nil {
			return err
		}

		appt := &Appointment{
			PatientID:   patient.ID,
			DoctorID:    doctor.ID,
			SpecialtyID: doctor.SpecialtyID,
			Slug:        DeriveSlug(req.Date, req.Time),
			Date:        req.Date,
			Time:        req.Time,
			Status:      StatusPending,
		}
		if err := s.repo.CreateAppointment(lockCtx, appt); err != nil {
			if errors.Is(err, ErrSlotTaken) {
				return ErrSlotUnavailable
			}
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(&AppointmentDetail{Appointment: *created, Patient: patient, Doctor: doctor}, StatusPending)

	return created, nil
}

// Approve moves a pending appointment to approved and notifies the patient.
func (s *Service) Approve(ctx context.Context, id int64) (*Appointment, error) {
	return s.transition(ctx, id, StatusPending, StatusApproved, true)
}

// Deny moves a pending appointment to rejected and notifies the patient.
func (s *Service) Deny(ctx context.Context, id int64) (*Appointment, error) {
	return s.transition(ctx, id, StatusPending, StatusRejected, true)
}

// Complete moves an approved appointment to completed.
func (s *Service) Complete(ctx context.Context, id int64) (*Appointment, error) {
	return s.transition(ctx, id, StatusApproved, StatusCompleted, false)
}

func (s *Service) transition(ctx context.Context, id int64, from, to Status, sendMail bool) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if appt.Status != from {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, to)
	}

	updated, err := s.repo.UpdateAppointmentStatus(ctx, id, from, to)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// Lost a race with another transition.
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
		}
		return nil, fmt.Errorf("update appointment status: %w", err)
	}

	if sendMail {
		detail, err := s.repo.GetAppointmentDetail(ctx, updated.ID)
		if err != nil {
			s.log.Error().Err(err).Int64("appointment_id", updated.ID).Msg("load appointment detail for notification")
		} else {
			s.notify(detail, to)
		}
	}

	return updated, nil
}

// Delete removes an appointment regardless of status. Administrative action.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetAppointmentByID(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteAppointment(ctx, id)
}

// AgendaEntry is one appointment in a doctor's weekly agenda.
type AgendaEntry struct {
	ID              int64  `json:"id"`
	Time            string `json:"time"`
	Status          Status `json:"status"`
	PatientName     string `json:"patient_name,omitempty"`
	PatientDocument string `json:"patient_document,omitempty"`
}

// WeeklyAgenda returns the doctor's appointments grouped by date for the
// Monday to Saturday window containing startParam.
func (s *Service) WeeklyAgenda(ctx context.Context, ref DoctorRef, startParam string) (map[string][]AgendaEntry, error) {
	doctor, err := s.repo.ResolveDoctor(ctx, ref)
	if err != nil {
		return nil, err
	}

	base := time.Now()
	if startParam != "" {
		if parsed, perr := schedule.ParseDate(startParam); perr == nil {
			base = parsed
		}
	}
	monday := schedule.StartOfWeek(base)
	saturday := monday.AddDate(0, 0, agendaDays-1)

	details, err := s.repo.ListAppointmentsBetween(ctx, doctor.ID,
		monday.Format(schedule.DateLayout), saturday.Format(schedule.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("load weekly agenda: %w", err)
	}

	agenda := make(map[string][]AgendaEntry)
	for _, d := range details {
		entry := AgendaEntry{
			ID:     d.ID,
			Time:   truncateToMinute(d.Time),
			Status: d.Status,
		}
		if d.Patient != nil {
			entry.PatientName = d.Patient.Name
			entry.PatientDocument = d.Patient.Document
		}
		agenda[d.Date] = append(agenda[d.Date], entry)
	}

	return agenda, nil
}

// ListAppointments returns all appointments for the admin index.
func (s *Service) ListAppointments(ctx context.Context) ([]AppointmentDetail, error) {
	return s.repo.ListAppointments(ctx)
}

// CreateDoctor registers a doctor, deriving the public slug from the name.
func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) (*Doctor, error) {
	if d.Status == "" {
		d.Status = DoctorActive
	}
	d.Slug = DeriveSlug(d.Name)
	if err := s.repo.CreateDoctor(ctx, d); err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}
	return d, nil
}

func (s *Service) ListDoctors(ctx context.Context, onlyActive bool) ([]Doctor, error) {
	return s.repo.ListDoctors(ctx, onlyActive)
}

func (s *Service) ListSpecialties(ctx context.Context) ([]Specialty, error) {
	return s.repo.ListSpecialties(ctx)
}

func (s *Service) GetDoctor(ctx context.Context, ref DoctorRef) (*Doctor, error) {
	return s.repo.ResolveDoctor(ctx, ref)
}

// RegisterPatient is the public upsert-by-document used by the agenda form.
func (s *Service) RegisterPatient(ctx context.Context, req BookRequest) (*Patient, error) {
	if strings.TrimSpace(req.Document) == "" {
		return nil, &ValidationError{Fields: map[string]string{"document": "document is required"}}
	}
	return s.upsertPatient(ctx, req)
}

// upsertPatient finds or creates the patient identified by document.
// Existing records are only touched where the incoming value is non-empty
// and differs, so blank form fields never erase stored data.
func (s *Service) upsertPatient(ctx context.Context, req BookRequest) (*Patient, error) {
	patient, err := s.repo.GetPatientByDocument(ctx, req.Document)
	if errors.Is(err, ErrPatientNotFound) {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = "Paciente " + truncateString(req.Document, 10)
		}
		patient = &Patient{
			Name:     name,
			Document: req.Document,
			Email:    nilIfEmpty(req.Email),
			EPS:      nilIfEmpty(req.EPS),
		}
		if err := s.repo.CreatePatient(ctx, patient); err != nil {
			return nil, fmt.Errorf("create patient: %w", err)
		}
		return patient, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	}

	changed := false
	if name := strings.TrimSpace(req.Name); name != "" && patient.Name != name {
		patient.Name = name
		changed = true
	}
	if email := strings.TrimSpace(req.Email); email != "" && deref(patient.Email) != email {
		patient.Email = &email
		changed = true
	}
	if eps := strings.TrimSpace(req.EPS); eps != "" && deref(patient.EPS) != eps {
		patient.EPS = &eps
		changed = true
	}

	if changed {
		if err := s.repo.UpdatePatient(ctx, patient); err != nil {
			return nil, fmt.Errorf("update patient: %w", err)
		}
	}

	return patient, nil
}

// notify dispatches a status mail without ever affecting the caller: the
// attempt runs in its own goroutine with a bounded context and failures are
// only logged.
func (s *Service) notify(detail *AppointmentDetail, status Status) {
	if s.notifier == nil || detail.Patient == nil {
		return
	}
	email := deref(detail.Patient.Email)
	if email == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.mailTimeout)
		defer cancel()

		if err := s.notifier.SendAppointmentStatusEmail(ctx, email, detail, status); err != nil {
			s.log.Error().
				Err(err).
				Int64("appointment_id", detail.ID).
				Str("status", string(status)).
				Msg("appointment mail dispatch failed")
		}
	}()
}

func (s *Service) slotGrid() ([]schedule.TimeOfDay, error) {
	wh := s.hours()

	start, err := schedule.ParseTimeOfDay(wh.Start)
	if err != nil {
		return nil, fmt.Errorf("%w: work start %q", schedule.ErrInvalidSlotConfig, wh.Start)
	}
	end, err := schedule.ParseTimeOfDay(wh.End)
	if err != nil {
		return nil, fmt.Errorf("%w: work end %q", schedule.ErrInvalidSlotConfig, wh.End)
	}

	return schedule.GenerateSlots(start, end, wh.SlotDuration)
}

// truncateToMinute reduces "HH:MM:SS" to "HH:MM".
func truncateToMinute(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}

func truncateString(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func nilIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
