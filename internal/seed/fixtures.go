// Package seed holds the fixed dataset every resource starts from, plus a
// generator for bulk fake patients.
package seed

import (
	"time"

	"github.com/hackgods/medi-assist/internal/analytics"
	"github.com/hackgods/medi-assist/internal/appointment"
	"github.com/hackgods/medi-assist/internal/doctor"
	"github.com/hackgods/medi-assist/internal/feedback"
	"github.com/hackgods/medi-assist/internal/medication"
	"github.com/hackgods/medi-assist/internal/patient"
)

// Dataset is a fresh copy of every seed collection. Each call to Load builds
// new values so stores never share backing arrays.
type Dataset struct {
	Patients      []patient.Patient
	Appointments  []appointment.Appointment
	Feedback      []feedback.Feedback
	Doctors       []doctor.Doctor
	Medications   []medication.Medication
	MedicationLog []medication.LogEntry
	Analytics     analytics.Snapshot
}

// Load builds the dataset. today feeds the overview's appointment count.
func Load(today time.Time) Dataset {
	d := Dataset{
		Patients:      Patients(),
		Appointments:  Appointments(),
		Feedback:      Feedback(),
		Doctors:       Doctors(),
		Medications:   Medications(),
		MedicationLog: MedicationLog(),
	}
	d.Analytics = Analytics(d.Patients, d.Appointments, today)
	return d
}

func ts(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		panic(err)
	}
	return t
}

func local(raw string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", raw)
	if err != nil {
		panic(err)
	}
	return t
}

func str(s string) *string { return &s }

func at(t time.Time) *time.Time { return &t }

func Patients() []patient.Patient {
	return []patient.Patient{
		{
			ID:              1,
			PatientID:       "PAT001",
			Name:            "Thabo Mthembu",
			Age:             35,
			Gender:          "Male",
			Email:           "thabo.mthembu@email.com",
			Phone:           "+27821234567",
			Address:         "123 Sandton Drive, Johannesburg, South Africa",
			BloodGroup:      "O+",
			Conditions:      []string{"Hypertension", "Diabetes Type 2"},
			LastVisit:       str("2025-01-15"),
			NextAppointment: str("2025-02-15"),
			Status:          patient.StatusActive,
			EmergencyContact: patient.EmergencyContact{
				Name:     "Nomsa Mthembu",
				Phone:    "+27821234568",
				Relation: "Wife",
			},
			Insurance: &patient.Insurance{Provider: "Discovery Health", PolicyNumber: "DH123456789"},
			CreatedAt: ts("2024-06-15T10:00:00Z"),
			UpdatedAt: ts("2025-01-15T14:30:00Z"),
		},
		{
			ID:              2,
			PatientID:       "PAT002",
			Name:            "Lindiwe van der Merwe",
			Age:             42,
			Gender:          "Female",
			Email:           "lindiwe.vandermerwe@email.com",
			Phone:           "+27834567890",
			Address:         "456 Kloof Street, Cape Town, South Africa",
			BloodGroup:      "A-",
			Conditions:      []string{"Asthma", "Migraine"},
			LastVisit:       str("2025-01-20"),
			NextAppointment: str("2025-02-20"),
			Status:          patient.StatusActive,
			EmergencyContact: patient.EmergencyContact{
				Name:     "Pieter van der Merwe",
				Phone:    "+27834567891",
				Relation: "Husband",
			},
			Insurance: &patient.Insurance{Provider: "Medihelp", PolicyNumber: "MH987654321"},
			CreatedAt: ts("2024-08-10T09:00:00Z"),
			UpdatedAt: ts("2025-01-20T11:15:00Z"),
		},
		{
			ID:         3,
			PatientID:  "PAT003",
			Name:       "Sipho Ndlovu",
			Age:        28,
			Gender:     "Male",
			Email:      "sipho.ndlovu@email.com",
			Phone:      "+27845678901",
			Address:    "789 Marine Drive, Durban, South Africa",
			BloodGroup: "B+",
			Conditions: []string{"Allergies"},
			LastVisit:  str("2025-01-10"),
			Status:     patient.StatusActive,
			EmergencyContact: patient.EmergencyContact{
				Name:     "Nozipho Ndlovu",
				Phone:    "+27845678902",
				Relation: "Sister",
			},
			CreatedAt: ts("2024-12-05T16:00:00Z"),
			UpdatedAt: ts("2025-01-10T13:45:00Z"),
		},
	}
}

func Appointments() []appointment.Appointment {
	return []appointment.Appointment{
		{
			ID:            1,
			AppointmentID: "APT001",
			PatientID:     1,
			PatientName:   "Thabo Mthembu",
			DoctorID:      "DOC001",
			DoctorName:    "Dr. Thandiwe Mbeki",
			Department:    "Cardiology",
			Date:          "2025-02-15",
			Time:          "10:00 AM",
			Duration:      30,
			Type:          "Follow-up",
			Status:        appointment.StatusScheduled,
			Reason:        "Hypertension monitoring",
			Notes:         "Regular blood pressure check",
			CreatedAt:     ts("2025-01-15T10:00:00Z"),
			UpdatedAt:     ts("2025-01-15T10:00:00Z"),
		},
		{
			ID:            2,
			AppointmentID: "APT002",
			PatientID:     2,
			PatientName:   "Lindiwe van der Merwe",
			DoctorID:      "DOC002",
			DoctorName:    "Dr. Kgotso Motsepe",
			Department:    "Pulmonology",
			Date:          "2025-02-16",
			Time:          "2:00 PM",
			Duration:      45,
			Type:          "Consultation",
			Status:        appointment.StatusCompleted,
			Reason:        "Asthma review",
			Notes:         "Patient responding well to treatment",
			CreatedAt:     ts("2025-01-20T09:00:00Z"),
			UpdatedAt:     ts("2025-02-16T14:45:00Z"),
		},
		{
			ID:            3,
			AppointmentID: "APT003",
			PatientID:     1,
			PatientName:   "Thabo Mthembu",
			DoctorID:      "DOC003",
			DoctorName:    "Dr. Zinhle Radebe",
			Department:    "Endocrinology",
			Date:          "2025-02-18",
			Time:          "11:30 AM",
			Duration:      30,
			Type:          "Follow-up",
			Status:        appointment.StatusCancelled,
			Reason:        "Diabetes consultation",
			Notes:         "Patient requested reschedule",
			CreatedAt:     ts("2025-01-25T12:00:00Z"),
			UpdatedAt:     ts("2025-02-17T16:20:00Z"),
		},
	}
}

func Feedback() []feedback.Feedback {
	return []feedback.Feedback{
		{
			ID:            1,
			FeedbackID:    "FB001",
			PatientID:     1,
			PatientName:   "Thabo Mthembu",
			AppointmentID: 1,
			DoctorID:      "DOC001",
			DoctorName:    "Dr. Thandiwe Mbeki",
			Ratings:       &feedback.Ratings{Overall: 5, WaitTime: 4, DoctorCare: 5, StaffBehavior: 5, Facilities: 4},
			Comment:       "Excellent service and care! Dr. Mbeki is very professional and explained everything clearly.",
			Category:      feedback.CategoryPositive,
			Status:        feedback.StatusReviewed,
			Date:          "2025-01-16",
			CreatedAt:     ts("2025-01-16T15:30:00Z"),
			UpdatedAt:     ts("2025-01-16T15:30:00Z"),
		},
		{
			ID:            2,
			FeedbackID:    "FB002",
			PatientID:     2,
			PatientName:   "Lindiwe van der Merwe",
			AppointmentID: 2,
			DoctorID:      "DOC002",
			DoctorName:    "Dr. Kgotso Motsepe",
			Ratings:       &feedback.Ratings{Overall: 4, WaitTime: 3, DoctorCare: 5, StaffBehavior: 4, Facilities: 4},
			Comment:       "Very professional staff, slight wait time but the care was excellent.",
			Category:      feedback.CategoryPositive,
			Status:        feedback.StatusPending,
			Date:          "2025-01-21",
			CreatedAt:     ts("2025-01-21T16:45:00Z"),
			UpdatedAt:     ts("2025-01-21T16:45:00Z"),
		},
	}
}

func weekdays(start, end, fridayEnd string) map[string]doctor.Hours {
	return map[string]doctor.Hours{
		"monday":    {start, end},
		"tuesday":   {start, end},
		"wednesday": {start, end},
		"thursday":  {start, end},
		"friday":    {start, fridayEnd},
	}
}

func Doctors() []doctor.Doctor {
	return []doctor.Doctor{
		{
			ID:             "DOC001",
			Name:           "Dr. Thandiwe Mbeki",
			Specialization: "Cardiology",
			Department:     "Cardiology",
			Email:          "t.mbeki@hospital.co.za",
			Phone:          "+27116543210",
			Experience:     15,
			Qualification:  "MB ChB, MMed (Cardiology)",
			Availability:   weekdays("09:00", "17:00", "15:00"),
		},
		{
			ID:             "DOC002",
			Name:           "Dr. Kgotso Motsepe",
			Specialization: "Pulmonology",
			Department:     "Pulmonology",
			Email:          "k.motsepe@hospital.co.za",
			Phone:          "+27214567890",
			Experience:     12,
			Qualification:  "MB ChB, MMed (Pulmonology)",
			Availability:   weekdays("10:00", "16:00", "14:00"),
		},
	}
}

func Medications() []medication.Medication {
	return []medication.Medication{
		{
			ID:              1,
			Name:            "Lisinopril",
			GenericName:     "Lisinopril",
			Dosage:          "10mg",
			Frequency:       "Once daily",
			TimeSlots:       []string{"08:00"},
			StartDate:       "2025-09-01",
			EndDate:         "2025-12-01",
			PrescribedBy:    "Dr. Sarah Johnson",
			Instructions:    "Take with food. Monitor blood pressure regularly.",
			SideEffects:     "Dizziness, dry cough, fatigue",
			Adherence:       85,
			TotalPills:      90,
			PillsTaken:      20,
			PillsRemaining:  70,
			LastTaken:       at(local("2025-09-24 08:15")),
			NextDose:        at(local("2025-09-25 08:00")),
			ReminderEnabled: true,
			Category:        "cardiovascular",
			CreatedAt:       ts("2025-09-01T08:00:00Z"),
			UpdatedAt:       ts("2025-09-24T08:15:00Z"),
		},
		{
			ID:              2,
			Name:            "Metformin",
			GenericName:     "Metformin HCl",
			Dosage:          "500mg",
			Frequency:       "Twice daily",
			TimeSlots:       []string{"08:00", "20:00"},
			StartDate:       "2025-08-15",
			EndDate:         "2025-11-15",
			PrescribedBy:    "Dr. Michael Chen",
			Instructions:    "Take with meals to reduce stomach upset.",
			SideEffects:     "Nausea, diarrhea, stomach upset",
			Adherence:       92,
			TotalPills:      180,
			PillsTaken:      45,
			PillsRemaining:  135,
			LastTaken:       at(local("2025-09-24 20:05")),
			NextDose:        at(local("2025-09-25 08:00")),
			ReminderEnabled: true,
			Category:        "diabetes",
			CreatedAt:       ts("2025-08-15T08:00:00Z"),
			UpdatedAt:       ts("2025-09-24T20:05:00Z"),
		},
		{
			ID:              3,
			Name:            "Vitamin D3",
			GenericName:     "Cholecalciferol",
			Dosage:          "1000 IU",
			Frequency:       "Once daily",
			TimeSlots:       []string{"08:00"},
			StartDate:       "2025-08-01",
			EndDate:         "2026-08-01",
			PrescribedBy:    "Dr. Emily Rodriguez",
			Instructions:    "Take with breakfast for better absorption.",
			SideEffects:     "Generally well tolerated",
			Adherence:       78,
			TotalPills:      365,
			PillsTaken:      54,
			PillsRemaining:  311,
			LastTaken:       at(local("2025-09-23 08:30")),
			NextDose:        at(local("2025-09-25 08:00")),
			ReminderEnabled: false,
			Category:        "supplement",
			CreatedAt:       ts("2025-08-01T08:00:00Z"),
			UpdatedAt:       ts("2025-09-23T08:30:00Z"),
		},
	}
}

func MedicationLog() []medication.LogEntry {
	return []medication.LogEntry{
		{ID: 1, MedicationID: 1, MedicationName: "Lisinopril", ScheduledTime: local("2025-09-24 08:00"), TakenTime: at(local("2025-09-24 08:15")), Status: medication.DoseTaken},
		{ID: 2, MedicationID: 2, MedicationName: "Metformin", ScheduledTime: local("2025-09-24 08:00"), TakenTime: at(local("2025-09-24 08:10")), Status: medication.DoseTaken},
		{ID: 3, MedicationID: 2, MedicationName: "Metformin", ScheduledTime: local("2025-09-24 20:00"), TakenTime: at(local("2025-09-24 20:05")), Status: medication.DoseTaken},
	}
}

// Analytics builds the dashboard fixture. The overview's patient and
// today's-appointment counts come from the seed collections; everything else
// is canned.
func Analytics(patients []patient.Patient, appts []appointment.Appointment, today time.Time) analytics.Snapshot {
	active := 0
	for _, p := range patients {
		if p.Status == patient.StatusActive {
			active++
		}
	}

	day := today.Format("2006-01-02")
	todays := 0
	for _, a := range appts {
		if a.Date == day {
			todays++
		}
	}

	return analytics.Snapshot{
		Overview: analytics.Overview{
			TotalPatients:       len(patients),
			ActivePatients:      active,
			TodayAppointments:   todays,
			WeeklyAppointments:  25,
			MonthlyAppointments: 120,
			PendingFeedback:     3,
			AverageRating:       4.5,
		},
		PatientStats: analytics.PatientStats{
			ByAge: []analytics.AgeBucket{
				{Range: "0-18", Count: 5},
				{Range: "19-35", Count: 15},
				{Range: "36-50", Count: 25},
				{Range: "51-65", Count: 20},
				{Range: "65+", Count: 10},
			},
			ByGender: []analytics.GenderCount{
				{Gender: "Male", Count: 40},
				{Gender: "Female", Count: 35},
			},
			NewPatients: analytics.NewPatients{ThisWeek: 8, LastWeek: 12, ThisMonth: 35, LastMonth: 28},
		},
		AppointmentStats: analytics.AppointmentStats{
			ByStatus: []analytics.StatusCount{
				{Status: "Scheduled", Count: 15},
				{Status: "Completed", Count: 120},
				{Status: "Cancelled", Count: 8},
				{Status: "No-show", Count: 3},
			},
			ByDepartment: []analytics.DepartmentCount{
				{Department: "Cardiology", Count: 35},
				{Department: "Pulmonology", Count: 28},
				{Department: "Endocrinology", Count: 22},
				{Department: "General Medicine", Count: 40},
			},
		},
		FeedbackStats: analytics.FeedbackStats{
			AverageRatings: analytics.AverageRatings{
				Overall:       4.5,
				WaitTime:      4.1,
				DoctorCare:    4.8,
				StaffBehavior: 4.3,
				Facilities:    4.2,
			},
			ByCategory: []analytics.CategoryCount{
				{Category: "Positive", Count: 85},
				{Category: "Neutral", Count: 10},
				{Category: "Negative", Count: 5},
			},
		},
	}
}
