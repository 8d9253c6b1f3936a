package booking

import (
	"sort"
	"strings"

	"github.com/clinicalocal/clinic-booking/internal/schedule"
)

// ValidationError carries one message per violated field. Every violated
// field is reported, not just the first.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return "invalid booking request: " + strings.Join(names, ", ")
}

func (r BookRequest) validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Date) == "" {
		fields["date"] = "date is required"
	} else if _, err := schedule.ParseDate(r.Date); err != nil {
		fields["date"] = "date must be a valid YYYY-MM-DD date"
	}

	if strings.TrimSpace(r.Time) == "" {
		fields["time"] = "time is required"
	} else if _, err := schedule.ParseTimeOfDay(r.Time); err != nil {
		fields["time"] = "time must be HH:MM"
	}

	if strings.TrimSpace(r.Document) == "" {
		fields["document"] = "document is required"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
