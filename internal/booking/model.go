package booking

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

// BookedStatuses are the statuses that occupy an agenda slot. Rejected and
// completed appointments free the slot. The same set is used for the
// availability grid and the admission conflict check.
var BookedStatuses = []Status{StatusPending, StatusApproved}

// Terminal reports whether no transition leaves the status.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

type DoctorStatus string

const (
	DoctorActive   DoctorStatus = "active"
	DoctorInactive DoctorStatus = "inactive"
)

type Specialty struct {
	ID   int64
	Name string
}

type Doctor struct {
	ID          int64
	Name        string
	Document    string
	Email       string
	SpecialtyID int64
	Slug        string // immutable once assigned, unique
	Status      DoctorStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Patient struct {
	ID        int64
	Name      string
	Document  string // external identifier, unique
	Email     *string
	EPS       *string // insurance provider
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Appointment struct {
	ID          int64
	PatientID   int64
	DoctorID    int64
	SpecialtyID int64 // copied from the doctor at booking time
	Slug        string
	Date        string // YYYY-MM-DD
	Time        string // HH:MM
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AppointmentDetail is an appointment hydrated with the people involved.
type AppointmentDetail struct {
	Appointment
	Patient *Patient
	Doctor  *Doctor
}

// DoctorRef identifies a doctor either by numeric ID or by public slug.
// It is resolved once at the entry boundary to a concrete Doctor.
type DoctorRef struct {
	id   int64
	slug string
}

func DoctorByID(id int64) DoctorRef      { return DoctorRef{id: id} }
func DoctorBySlug(slug string) DoctorRef { return DoctorRef{slug: slug} }

func (r DoctorRef) ByID() (int64, bool) {
	if r.slug != "" {
		return 0, false
	}
	return r.id, true
}

func (r DoctorRef) BySlug() (string, bool) {
	if r.slug == "" {
		return "", false
	}
	return r.slug, true
}
