package medication

import (
	"math"
	"strings"
	"time"
)

const (
	DoseTaken  = "taken"
	DoseMissed = "missed"
)

const dateLayout = "2006-01-02"

// Medication is one prescription a patient is tracking. TimeSlots are daily
// "HH:MM" dose times; StartDate and EndDate are YYYY-MM-DD.
type Medication struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	GenericName     string     `json:"genericName"`
	Dosage          string     `json:"dosage"`
	Frequency       string     `json:"frequency"`
	TimeSlots       []string   `json:"timeSlots"`
	StartDate       string     `json:"startDate"`
	EndDate         string     `json:"endDate"`
	PrescribedBy    string     `json:"prescribedBy"`
	Instructions    string     `json:"instructions"`
	SideEffects     string     `json:"sideEffects"`
	Adherence       int        `json:"adherence"`
	TotalPills      int        `json:"totalPills"`
	PillsTaken      int        `json:"pillsTaken"`
	PillsRemaining  int        `json:"pillsRemaining"`
	LastTaken       *time.Time `json:"lastTaken"`
	NextDose        *time.Time `json:"nextDose"`
	ReminderEnabled bool       `json:"reminderEnabled"`
	Category        string     `json:"category"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (m Medication) Clone() Medication {
	out := m
	out.TimeSlots = append([]string(nil), m.TimeSlots...)
	if m.LastTaken != nil {
		t := *m.LastTaken
		out.LastTaken = &t
	}
	if m.NextDose != nil {
		t := *m.NextDose
		out.NextDose = &t
	}
	return out
}

// DoseInterval is the gap between doses implied by the frequency. Both the
// labels ("Twice daily") and the form keys ("twice_daily") are understood.
// Zero means as-needed.
func DoseInterval(frequency string) time.Duration {
	f := strings.ToLower(frequency)
	switch {
	case strings.Contains(f, "once"):
		return 24 * time.Hour
	case strings.Contains(f, "twice"):
		return 12 * time.Hour
	case strings.Contains(f, "three"):
		return 8 * time.Hour
	case strings.Contains(f, "four"):
		return 6 * time.Hour
	}
	return 0
}

// Adherence is taken doses over expected doses since the start date, as a
// capped percentage.
func Adherence(m Medication, taken int, now time.Time) int {
	start, err := time.Parse(dateLayout, m.StartDate)
	if err != nil {
		return 100
	}

	slots := len(m.TimeSlots)
	if slots == 0 {
		slots = 1
	}

	days := math.Ceil(now.Sub(start).Hours() / 24)
	expected := int(days) * slots
	if expected < 1 {
		expected = 1
	}

	pct := int(math.Round(float64(taken) / float64(expected) * 100))
	if pct > 100 {
		pct = 100
	}
	return pct
}

type Input struct {
	Name            string   `json:"name"`
	GenericName     string   `json:"genericName"`
	Dosage          string   `json:"dosage"`
	Frequency       string   `json:"frequency"`
	TimeSlots       []string `json:"timeSlots"`
	StartDate       string   `json:"startDate"`
	EndDate         string   `json:"endDate"`
	PrescribedBy    string   `json:"prescribedBy"`
	Instructions    string   `json:"instructions"`
	SideEffects     string   `json:"sideEffects"`
	TotalPills      int      `json:"totalPills"`
	ReminderEnabled bool     `json:"reminderEnabled"`
	Category        string   `json:"category"`
}

type LogEntry struct {
	ID             int64      `json:"id"`
	MedicationID   int64      `json:"medicationId"`
	MedicationName string     `json:"medicationName"`
	ScheduledTime  time.Time  `json:"scheduledTime"`
	TakenTime      *time.Time `json:"takenTime"`
	Status         string     `json:"status"`
	Notes          string     `json:"notes"`
}

// Intake is the result of marking a dose taken.
type Intake struct {
	Medication Medication `json:"medication"`
	Entry      LogEntry   `json:"entry"`
}

// Dose is one scheduled slot on a given day.
type Dose struct {
	MedicationID   int64     `json:"medicationId"`
	MedicationName string    `json:"medicationName"`
	Dosage         string    `json:"dosage"`
	TimeSlot       string    `json:"timeSlot"`
	ScheduledTime  time.Time `json:"scheduledTime"`
	Taken          bool      `json:"taken"`
}
