// Package mail sends appointment status notifications over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/clinicalocal/clinic-booking/internal/booking"
	"github.com/clinicalocal/clinic-booking/internal/config"
)

type Mailer struct {
	cfg config.Config
}

func NewMailer(cfg config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendAppointmentStatusEmail renders and sends the status notification.
// The caller treats any returned error as non-fatal.
func (m *Mailer) SendAppointmentStatusEmail(ctx context.Context, email string, detail *booking.AppointmentDetail, status booking.Status) error {
	if m.cfg.SMTPHost == "" {
		return fmt.Errorf("smtp not configured")
	}

	body, err := renderBody(m.cfg.ClinicName, detail, status)
	if err != nil {
		return fmt.Errorf("render mail body: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.MailFrom)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", fmt.Sprintf("%s - Solicitud de cita (%s)", m.cfg.ClinicName, statusLabel(status)))
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPass)

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(msg)
	}()

	// gomail has no context support; bound the attempt ourselves.
	wait := m.cfg.MailTimeout
	if wait <= 0 {
		wait = 5 * time.Second
	}
	if dl, ok := ctx.Deadline(); ok {
		if until := time.Until(dl); until > 0 && until < wait {
			wait = until
		}
	}

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return context.DeadlineExceeded
	}
}

func renderBody(clinicName string, detail *booking.AppointmentDetail, status booking.Status) (string, error) {
	var buf bytes.Buffer
	err := notificationTmpl.Execute(&buf, templateData{
		ClinicName:  clinicName,
		PatientName: patientName(detail),
		DoctorName:  doctorName(detail),
		Date:        detail.Date,
		Time:        detail.Time,
		StatusLabel: statusLabel(status),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func patientName(detail *booking.AppointmentDetail) string {
	if detail.Patient != nil && detail.Patient.Name != "" {
		return detail.Patient.Name
	}
	return "Paciente"
}

func doctorName(detail *booking.AppointmentDetail) string {
	if detail.Doctor != nil && detail.Doctor.Name != "" {
		return detail.Doctor.Name
	}
	return "N/A"
}

func statusLabel(status booking.Status) string {
	switch status {
	case booking.StatusPending:
		return "Pendiente de aprobación"
	case booking.StatusApproved:
		return "Aceptada"
	case booking.StatusRejected:
		return "Rechazada"
	case booking.StatusCompleted:
		return "Completada"
	default:
		return string(status)
	}
}
