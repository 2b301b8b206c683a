package seed

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hackgods/medi-assist/internal/patient"
)

func TestLoadReturnsIndependentCopies(t *testing.T) {
	a := Load(time.Now())
	b := Load(time.Now())

	a.Patients[0].Conditions[0] = "changed"
	a.Doctors[0].Availability["monday"] = [2]string{"00:00", "00:00"}

	if b.Patients[0].Conditions[0] != "Hypertension" {
		t.Error("patients share backing storage between loads")
	}
	if b.Doctors[0].Availability["monday"][0] != "09:00" {
		t.Error("doctors share availability maps between loads")
	}
}

func TestAnalyticsOverviewFromCollections(t *testing.T) {
	today := time.Date(2025, 2, 16, 9, 0, 0, 0, time.UTC)
	snap := Analytics(Patients(), Appointments(), today)

	if snap.Overview.TotalPatients != 3 || snap.Overview.ActivePatients != 3 {
		t.Errorf("Expected 3/3 patients, got %d/%d", snap.Overview.TotalPatients, snap.Overview.ActivePatients)
	}
	if snap.Overview.TodayAppointments != 1 {
		t.Errorf("Expected 1 appointment on 2025-02-16, got %d", snap.Overview.TodayAppointments)
	}
	if snap.Overview.AverageRating != 4.5 {
		t.Errorf("Expected average rating 4.5, got %v", snap.Overview.AverageRating)
	}
}

func TestSeedIdentifiersAreSequential(t *testing.T) {
	for i, p := range Patients() {
		if p.ID != int64(i+1) {
			t.Errorf("patient %d has id %d", i, p.ID)
		}
	}
	for i, a := range Appointments() {
		if a.ID != int64(i+1) {
			t.Errorf("appointment %d has id %d", i, a.ID)
		}
	}
}

func TestFakePatients(t *testing.T) {
	f := gofakeit.New(42)
	got := FakePatients(f, 3, 50)

	if len(got) != 50 {
		t.Fatalf("Expected 50 patients, got %d", len(got))
	}
	seen := map[int64]bool{}
	for _, p := range got {
		if seen[p.ID] {
			t.Errorf("duplicate id %d", p.ID)
		}
		seen[p.ID] = true
		if p.ID <= 3 {
			t.Errorf("id %d overlaps the fixed seed", p.ID)
		}
		if p.Name == "" || p.Email == "" {
			t.Errorf("Expected name and email, got %+v", p)
		}
		if p.Status != patient.StatusActive && p.Status != patient.StatusInactive {
			t.Errorf("unexpected status %s", p.Status)
		}
		if p.Conditions == nil {
			t.Error("conditions must be an empty list, not nil")
		}
	}
	if got[0].PatientID != "PAT004" {
		t.Errorf("Expected PAT004, got %s", got[0].PatientID)
	}
}
