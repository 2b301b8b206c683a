package appointment

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled  Status = "Scheduled"
	StatusInProgress Status = "In-Progress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

var transitions = map[Status][]Status{
	StatusScheduled:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Completed and Cancelled are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseStatus accepts any casing ("cancelled", "in-progress").
func ParseStatus(raw string) (Status, bool) {
	for _, s := range []Status{StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled} {
		if strings.EqualFold(raw, string(s)) {
			return s, true
		}
	}
	return "", false
}

type Appointment struct {
	ID            int64     `json:"id"`
	AppointmentID string    `json:"appointmentId"`
	PatientID     int64     `json:"patientId"`
	PatientName   string    `json:"patientName"`
	DoctorID      string    `json:"doctorId"`
	DoctorName    string    `json:"doctorName"`
	Department    string    `json:"department"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Duration      int       `json:"duration"`
	Type          string    `json:"type"`
	Status        Status    `json:"status"`
	Reason        string    `json:"reason"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Input struct {
	PatientID   int64  `json:"patientId"`
	PatientName string `json:"patientName"`
	DoctorID    string `json:"doctorId"`
	DoctorName  string `json:"doctorName"`
	Department  string `json:"department"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Duration    int    `json:"duration"`
	Type        string `json:"type"`
	Reason      string `json:"reason"`
	Notes       string `json:"notes"`
}

type Patch struct {
	PatientID   *int64  `json:"patientId,omitempty"`
	PatientName *string `json:"patientName,omitempty"`
	DoctorID    *string `json:"doctorId,omitempty"`
	DoctorName  *string `json:"doctorName,omitempty"`
	Department  *string `json:"department,omitempty"`
	Date        *string `json:"date,omitempty"`
	Time        *string `json:"time,omitempty"`
	Duration    *int    `json:"duration,omitempty"`
	Type        *string `json:"type,omitempty"`
	Status      *Status `json:"status,omitempty"`
	Reason      *string `json:"reason,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func (pt Patch) Apply(a *Appointment) {
	if pt.PatientID != nil {
		a.PatientID = *pt.PatientID
	}
	if pt.PatientName != nil {
		a.PatientName = *pt.PatientName
	}
	if pt.DoctorID != nil {
		a.DoctorID = *pt.DoctorID
	}
	if pt.DoctorName != nil {
		a.DoctorName = *pt.DoctorName
	}
	if pt.Department != nil {
		a.Department = *pt.Department
	}
	if pt.Date != nil {
		a.Date = *pt.Date
	}
	if pt.Time != nil {
		a.Time = *pt.Time
	}
	if pt.Duration != nil {
		a.Duration = *pt.Duration
	}
	if pt.Type != nil {
		a.Type = *pt.Type
	}
	if pt.Status != nil {
		a.Status = *pt.Status
	}
	if pt.Reason != nil {
		a.Reason = *pt.Reason
	}
	if pt.Notes != nil {
		a.Notes = *pt.Notes
	}
}

// Filter fields are optional; set fields are combined with AND.
type Filter struct {
	PatientID int64
	DoctorID  string
	Date      string
	Status    Status
}

func (f Filter) Matches(a Appointment) bool {
	if f.PatientID != 0 && a.PatientID != f.PatientID {
		return false
	}
	if f.DoctorID != "" && a.DoctorID != f.DoctorID {
		return false
	}
	if f.Date != "" && a.Date != f.Date {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	return true
}

func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.PatientID != 0 {
		q.Set("patientId", strconv.FormatInt(f.PatientID, 10))
	}
	if f.DoctorID != "" {
		q.Set("doctorId", f.DoctorID)
	}
	if f.Date != "" {
		q.Set("date", f.Date)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	return q
}

func FilterFromQuery(q url.Values) Filter {
	f := Filter{
		DoctorID: q.Get("doctorId"),
		Date:     q.Get("date"),
		Status:   Status(q.Get("status")),
	}
	f.PatientID, _ = strconv.ParseInt(q.Get("patientId"), 10, 64)
	return f
}
