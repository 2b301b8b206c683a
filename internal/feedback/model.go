package feedback

import (
	"net/url"
	"strconv"
	"time"
)

type Category string

const (
	CategoryPositive Category = "Positive"
	CategoryNeutral  Category = "Neutral"
	CategoryNegative Category = "Negative"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusReviewed  Status = "Reviewed"
	StatusAddressed Status = "Addressed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReviewed, StatusAddressed:
		return true
	}
	return false
}

// Ratings is the multi-dimensional score submitted from the doctor rating
// form. Every dimension is 1-5.
type Ratings struct {
	Overall       int `json:"overall"`
	WaitTime      int `json:"waitTime"`
	DoctorCare    int `json:"doctorCare"`
	StaffBehavior int `json:"staffBehavior"`
	Facilities    int `json:"facilities"`
}

// Feedback carries either a single Rating, a Ratings object, or both. When
// both are present Rating wins; see EffectiveRating.
type Feedback struct {
	ID            int64     `json:"id"`
	FeedbackID    string    `json:"feedbackId"`
	PatientID     int64     `json:"patientId"`
	PatientName   string    `json:"patientName"`
	AppointmentID int64     `json:"appointmentId"`
	DoctorID      string    `json:"doctorId"`
	DoctorName    string    `json:"doctorName"`
	Rating        *int      `json:"rating,omitempty"`
	Ratings       *Ratings  `json:"ratings,omitempty"`
	Comment       string    `json:"comment"`
	Category      Category  `json:"category"`
	IsAnonymous   bool      `json:"isAnonymous"`
	Status        Status    `json:"status"`
	Date          string    `json:"date"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// EffectiveRating is the score used for filtering and categorising. It is 0
// when the record carries no rating at all.
func (f Feedback) EffectiveRating() int {
	if f.Rating != nil {
		return *f.Rating
	}
	if f.Ratings != nil {
		return f.Ratings.Overall
	}
	return 0
}

func (f Feedback) Clone() Feedback {
	out := f
	if f.Rating != nil {
		r := *f.Rating
		out.Rating = &r
	}
	if f.Ratings != nil {
		r := *f.Ratings
		out.Ratings = &r
	}
	return out
}

// CategoryFor derives the category from a 1-5 score.
func CategoryFor(rating int) Category {
	switch {
	case rating >= 4:
		return CategoryPositive
	case rating == 3:
		return CategoryNeutral
	default:
		return CategoryNegative
	}
}

type Input struct {
	PatientID     int64    `json:"patientId"`
	PatientName   string   `json:"patientName"`
	AppointmentID int64    `json:"appointmentId"`
	DoctorID      string   `json:"doctorId"`
	DoctorName    string   `json:"doctorName"`
	Rating        *int     `json:"rating,omitempty"`
	Ratings       *Ratings `json:"ratings,omitempty"`
	Comment       string   `json:"comment"`
	Category      Category `json:"category,omitempty"`
	IsAnonymous   bool     `json:"isAnonymous"`
}

// Filter: PatientID is an exact match, MinRating a lower bound on the
// effective rating.
type Filter struct {
	PatientID int64
	MinRating int
}

func (f Filter) Matches(fb Feedback) bool {
	if f.PatientID != 0 && fb.PatientID != f.PatientID {
		return false
	}
	if f.MinRating != 0 && fb.EffectiveRating() < f.MinRating {
		return false
	}
	return true
}

func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.PatientID != 0 {
		q.Set("patientId", strconv.FormatInt(f.PatientID, 10))
	}
	if f.MinRating != 0 {
		q.Set("rating", strconv.Itoa(f.MinRating))
	}
	return q
}

func FilterFromQuery(q url.Values) Filter {
	var f Filter
	f.PatientID, _ = strconv.ParseInt(q.Get("patientId"), 10, 64)
	f.MinRating, _ = strconv.Atoi(q.Get("rating"))
	return f
}
