package doctor

import (
	"strings"
	"time"
)

// Hours is an opening window as ["HH:MM", "HH:MM"].
type Hours [2]string

type Doctor struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Specialization string           `json:"specialization"`
	Department     string           `json:"department"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone"`
	Experience     int              `json:"experience"`
	Qualification  string           `json:"qualification"`
	Availability   map[string]Hours `json:"availability"`
}

func (d Doctor) Clone() Doctor {
	out := d
	if d.Availability != nil {
		out.Availability = make(map[string]Hours, len(d.Availability))
		for day, h := range d.Availability {
			out.Availability[day] = h
		}
	}
	return out
}

// Availability answers "is this doctor working on date", keyed by the
// lowercase weekday name of the date.
type Availability struct {
	DoctorID  string `json:"doctorId"`
	Date      string `json:"date"`
	Weekday   string `json:"weekday"`
	Available bool   `json:"available"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
}

func (d Doctor) AvailabilityOn(day time.Time) Availability {
	weekday := strings.ToLower(day.Weekday().String())
	a := Availability{
		DoctorID: d.ID,
		Date:     day.Format("2006-01-02"),
		Weekday:  weekday,
	}
	if h, ok := d.Availability[weekday]; ok {
		a.Available = true
		a.Start, a.End = h[0], h[1]
	}
	return a
}
