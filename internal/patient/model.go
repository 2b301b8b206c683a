package patient

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

type EmergencyContact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

type Insurance struct {
	Provider     string `json:"provider"`
	PolicyNumber string `json:"policyNumber"`
}

type Patient struct {
	ID               int64            `json:"id"`
	PatientID        string           `json:"patientId"`
	Name             string           `json:"name"`
	Age              int              `json:"age"`
	Gender           string           `json:"gender"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	Address          string           `json:"address"`
	BloodGroup       string           `json:"bloodGroup"`
	Conditions       []string         `json:"conditions"`
	LastVisit        *string          `json:"lastVisit"`
	NextAppointment  *string          `json:"nextAppointment"`
	Status           Status           `json:"status"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	Insurance        *Insurance       `json:"insurance"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// Clone returns a copy that shares no mutable state with p.
func (p Patient) Clone() Patient {
	out := p
	if p.Conditions != nil {
		out.Conditions = append([]string(nil), p.Conditions...)
	}
	out.LastVisit = cloneString(p.LastVisit)
	out.NextAppointment = cloneString(p.NextAppointment)
	if p.Insurance != nil {
		ins := *p.Insurance
		out.Insurance = &ins
	}
	return out
}

// Input is the caller-supplied part of a new patient. Server-assigned fields
// (ids, status, timestamps) are not part of it.
type Input struct {
	Name             string           `json:"name"`
	Age              int              `json:"age"`
	Gender           string           `json:"gender"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	Address          string           `json:"address"`
	BloodGroup       string           `json:"bloodGroup"`
	Conditions       []string         `json:"conditions"`
	LastVisit        *string          `json:"lastVisit,omitempty"`
	NextAppointment  *string          `json:"nextAppointment,omitempty"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	Insurance        *Insurance       `json:"insurance,omitempty"`
}

// Patch lists the fields an update may change. Nil means "keep".
// An empty NextAppointment or LastVisit clears the value.
type Patch struct {
	Name             *string           `json:"name,omitempty"`
	Age              *int              `json:"age,omitempty"`
	Gender           *string           `json:"gender,omitempty"`
	Email            *string           `json:"email,omitempty"`
	Phone            *string           `json:"phone,omitempty"`
	Address          *string           `json:"address,omitempty"`
	BloodGroup       *string           `json:"bloodGroup,omitempty"`
	Conditions       []string          `json:"conditions,omitempty"`
	LastVisit        *string           `json:"lastVisit,omitempty"`
	NextAppointment  *string           `json:"nextAppointment,omitempty"`
	Status           *Status           `json:"status,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
	Insurance        *Insurance        `json:"insurance,omitempty"`
}

// Apply merges the patch onto p.
func (pt Patch) Apply(p *Patient) {
	if pt.Name != nil {
		p.Name = *pt.Name
	}
	if pt.Age != nil {
		p.Age = *pt.Age
	}
	if pt.Gender != nil {
		p.Gender = *pt.Gender
	}
	if pt.Email != nil {
		p.Email = *pt.Email
	}
	if pt.Phone != nil {
		p.Phone = *pt.Phone
	}
	if pt.Address != nil {
		p.Address = *pt.Address
	}
	if pt.BloodGroup != nil {
		p.BloodGroup = *pt.BloodGroup
	}
	if pt.Conditions != nil {
		p.Conditions = append([]string(nil), pt.Conditions...)
	}
	if pt.LastVisit != nil {
		p.LastVisit = optional(*pt.LastVisit)
	}
	if pt.NextAppointment != nil {
		p.NextAppointment = optional(*pt.NextAppointment)
	}
	if pt.Status != nil {
		p.Status = *pt.Status
	}
	if pt.EmergencyContact != nil {
		p.EmergencyContact = *pt.EmergencyContact
	}
	if pt.Insurance != nil {
		ins := *pt.Insurance
		p.Insurance = &ins
	}
}

// Filter mirrors the list query: search, status, page, limit.
// Page and Limit are echoed back as metadata only.
type Filter struct {
	Search string
	Status Status
	Page   int
	Limit  int
}

// Matches reports whether p passes the filter. Search is a case-insensitive
// substring match against the name or the patientId.
func (f Filter) Matches(p Patient) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.PatientID), q) {
			return false
		}
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	return true
}

func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// FilterFromQuery accepts both "search" and the search endpoint's "q".
func FilterFromQuery(q url.Values) Filter {
	f := Filter{
		Search: q.Get("search"),
		Status: Status(q.Get("status")),
	}
	if f.Search == "" {
		f.Search = q.Get("q")
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	return f
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
