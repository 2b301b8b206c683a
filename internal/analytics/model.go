// Package analytics serves the dashboard's canned aggregate figures.
package analytics

type Overview struct {
	TotalPatients       int     `json:"totalPatients"`
	ActivePatients      int     `json:"activePatients"`
	TodayAppointments   int     `json:"todayAppointments"`
	WeeklyAppointments  int     `json:"weeklyAppointments"`
	MonthlyAppointments int     `json:"monthlyAppointments"`
	PendingFeedback     int     `json:"pendingFeedback"`
	AverageRating       float64 `json:"averageRating"`
}

type AgeBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type GenderCount struct {
	Gender string `json:"gender"`
	Count  int    `json:"count"`
}

type NewPatients struct {
	ThisWeek  int `json:"thisWeek"`
	LastWeek  int `json:"lastWeek"`
	ThisMonth int `json:"thisMonth"`
	LastMonth int `json:"lastMonth"`
}

type PatientStats struct {
	ByAge       []AgeBucket   `json:"byAge"`
	ByGender    []GenderCount `json:"byGender"`
	NewPatients NewPatients   `json:"newPatients"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

type AppointmentStats struct {
	ByStatus     []StatusCount     `json:"byStatus"`
	ByDepartment []DepartmentCount `json:"byDepartment"`
}

type AverageRatings struct {
	Overall       float64 `json:"overall"`
	WaitTime      float64 `json:"waitTime"`
	DoctorCare    float64 `json:"doctorCare"`
	StaffBehavior float64 `json:"staffBehavior"`
	Facilities    float64 `json:"facilities"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type FeedbackStats struct {
	AverageRatings AverageRatings  `json:"averageRatings"`
	ByCategory     []CategoryCount `json:"byCategory"`
}

// Snapshot is the whole dashboard fixture. It is read-only once built.
type Snapshot struct {
	Overview         Overview         `json:"overview"`
	PatientStats     PatientStats     `json:"patientStats"`
	AppointmentStats AppointmentStats `json:"appointmentStats"`
	FeedbackStats    FeedbackStats    `json:"feedbackStats"`
}

// Clone copies the slices so callers cannot edit the fixture.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.PatientStats.ByAge = append([]AgeBucket(nil), s.PatientStats.ByAge...)
	out.PatientStats.ByGender = append([]GenderCount(nil), s.PatientStats.ByGender...)
	out.AppointmentStats.ByStatus = append([]StatusCount(nil), s.AppointmentStats.ByStatus...)
	out.AppointmentStats.ByDepartment = append([]DepartmentCount(nil), s.AppointmentStats.ByDepartment...)
	out.FeedbackStats.ByCategory = append([]CategoryCount(nil), s.FeedbackStats.ByCategory...)
	return out
}
