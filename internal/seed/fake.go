package seed

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hackgods/medi-assist/internal/backend"
	"github.com/hackgods/medi-assist/internal/patient"
)

var (
	bloodGroups = []string{"O+", "O-", "A+", "A-", "B+", "B-", "AB+", "AB-"}
	conditions  = []string{
		"Hypertension",
		"Diabetes Type 2",
		"Asthma",
		"Migraine",
		"Allergies",
		"Arthritis",
		"High Cholesterol",
		"Hypothyroidism",
	}
	insurers  = []string{"Discovery Health", "Medihelp", "Bonitas", "Momentum Health", "Fedhealth"}
	relations = []string{"Wife", "Husband", "Sister", "Brother", "Mother", "Father", "Friend"}
)

// FakePatients generates count patients with ids startID+1 onward. The faker
// is passed in so callers control the seed.
func FakePatients(f *gofakeit.Faker, startID int64, count int) []patient.Patient {
	out := make([]patient.Patient, 0, count)

	for i := 0; i < count; i++ {
		id := startID + int64(i) + 1
		created := f.DateRange(time.Now().AddDate(-2, 0, 0), time.Now()).UTC()
		lastVisit := created.AddDate(0, 0, f.Number(0, 120)).Format("2006-01-02")

		p := patient.Patient{
			ID:         id,
			PatientID:  backend.HumanID("PAT", id),
			Name:       f.Name(),
			Age:        f.Number(1, 95),
			Gender:     f.RandomString([]string{"Male", "Female"}),
			Email:      f.Email(),
			Phone:      fmt.Sprintf("+278%08d", f.Number(0, 99999999)),
			Address:    fmt.Sprintf("%s, %s, South Africa", f.Street(), f.City()),
			BloodGroup: f.RandomString(bloodGroups),
			Conditions: pick(f, conditions, f.Number(0, 3)),
			LastVisit:  &lastVisit,
			Status:     patient.StatusActive,
			EmergencyContact: patient.EmergencyContact{
				Name:     f.Name(),
				Phone:    fmt.Sprintf("+278%08d", f.Number(0, 99999999)),
				Relation: f.RandomString(relations),
			},
			CreatedAt: created,
			UpdatedAt: created,
		}
		if f.Bool() {
			p.Insurance = &patient.Insurance{
				Provider:     f.RandomString(insurers),
				PolicyNumber: f.Regex("[A-Z]{2}[0-9]{9}"),
			}
		}
		if f.Number(0, 9) == 0 {
			p.Status = patient.StatusInactive
		}

		out = append(out, p)
	}

	return out
}

func pick(f *gofakeit.Faker, from []string, n int) []string {
	out := []string{}
	seen := map[string]bool{}
	for len(out) < n {
		c := f.RandomString(from)
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
