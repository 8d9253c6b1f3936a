package schedule

import (
	"errors"
	"testing"
)

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q) error = %v", s, err)
	}
	return tod
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "08:00", want: "08:00"},
		{in: "23:59", want: "23:59"},
		{in: "00:00", want: "00:00"},
		{in: "24:00", wantErr: true},
		{in: "08:60", wantErr: true},
		{in: "8:00", wantErr: true},
		{in: "0800", wantErr: true},
		{in: "", wantErr: true},
		{in: "ab:cd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTimeOfDay(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q) error = %v", tt.in, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestGenerateSlots(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		duration int
		want     []string
	}{
		{
			// 08:00-09:00 at 20 minutes includes the boundary slot.
			name:     "one hour at twenty minutes",
			start:    "08:00",
			end:      "09:00",
			duration: 20,
			want:     []string{"08:00", "08:20", "08:40", "09:00"},
		},
		{
			name:     "start equals end",
			start:    "10:00",
			end:      "10:00",
			duration: 15,
			want:     []string{"10:00"},
		},
		{
			name:     "duration does not land on end",
			start:    "08:00",
			end:      "08:50",
			duration: 20,
			want:     []string{"08:00", "08:20", "08:40"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := GenerateSlots(mustTime(t, tt.start), mustTime(t, tt.end), tt.duration)
			if err != nil {
				t.Fatalf("GenerateSlots() error = %v", err)
			}
			if len(slots) != len(tt.want) {
				t.Fatalf("GenerateSlots() = %v, want %v", slots, tt.want)
			}
			for i, s := range slots {
				if s.String() != tt.want[i] {
					t.Errorf("slot %d = %s, want %s", i, s, tt.want[i])
				}
			}
		})
	}
}

func TestGenerateSlotsInvalidConfig(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		duration int
	}{
		{name: "zero duration", start: "08:00", end: "17:00", duration: 0},
		{name: "negative duration", start: "08:00", end: "17:00", duration: -10},
		{name: "start after end", start: "17:00", end: "08:00", duration: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateSlots(mustTime(t, tt.start), mustTime(t, tt.end), tt.duration)
			if !errors.Is(err, ErrInvalidSlotConfig) {
				t.Errorf("GenerateSlots() error = %v, want ErrInvalidSlotConfig", err)
			}
		})
	}
}

func TestGenerateSlotsStrictlyIncreasing(t *testing.T) {
	slots, err := GenerateSlots(mustTime(t, "08:00"), mustTime(t, "17:00"), 20)
	if err != nil {
		t.Fatalf("GenerateSlots() error = %v", err)
	}

	if slots[0].String() != "08:00" {
		t.Errorf("first slot = %s, want work start", slots[0])
	}
	for i := 1; i < len(slots); i++ {
		if slots[i] <= slots[i-1] {
			t.Fatalf("slots not strictly increasing at %d: %s <= %s", i, slots[i], slots[i-1])
		}
	}
	if last := slots[len(slots)-1]; last > mustTime(t, "17:00") {
		t.Errorf("last slot %s after work end", last)
	}
}
