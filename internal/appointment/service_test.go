package appointment

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/medi-assist/internal/backend"
)

func seedAppointments() []Appointment {
	created := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	return []Appointment{
		{
			ID: 1, AppointmentID: "APT001", PatientID: 1, PatientName: "Thabo Mthembu",
			DoctorID: "DOC001", DoctorName: "Dr. Sarah Johnson", Department: "Cardiology",
			Date: "2025-02-15", Time: "09:00", Duration: 30, Type: "Follow-up",
			Status: StatusScheduled, Reason: "Blood pressure check",
			CreatedAt: created, UpdatedAt: created,
		},
		{
			ID: 2, AppointmentID: "APT002", PatientID: 2, PatientName: "Lindiwe van der Merwe",
			DoctorID: "DOC002", DoctorName: "Dr. Michael Chen", Department: "Pulmonology",
			Date: "2025-02-15", Time: "10:30", Duration: 45, Type: "Consultation",
			Status: StatusCompleted, Reason: "Asthma review",
			CreatedAt: created, UpdatedAt: created,
		},
		{
			ID: 3, AppointmentID: "APT003", PatientID: 1, PatientName: "Thabo Mthembu",
			DoctorID: "DOC001", DoctorName: "Dr. Sarah Johnson", Department: "Cardiology",
			Date: "2025-02-20", Time: "14:00", Duration: 30, Type: "Check-up",
			Status: StatusScheduled, Reason: "ECG results",
			CreatedAt: created, UpdatedAt: created,
		},
	}
}

func newTestService(seed []Appointment) (*Service, *MemoryRepository) {
	repo := NewMemoryRepository(seed)
	max, _ := repo.MaxID(context.Background())
	return NewService(repo, backend.NewCounter(max), backend.NoLatency(), zerolog.Nop()), repo
}

func TestCreateForcesScheduled(t *testing.T) {
	svc, repo := newTestService(seedAppointments())

	env := svc.Create(context.Background(), Input{PatientID: 2, DoctorID: "DOC002", Date: "2025-03-01", Time: "08:00"})
	if !env.Success {
		t.Fatalf("create failed: %s", env.Message)
	}
	if env.Data.Status != StatusScheduled {
		t.Errorf("Expected status Scheduled, got %s", env.Data.Status)
	}
	if env.Data.AppointmentID != "APT004" {
		t.Errorf("Expected APT004, got %s", env.Data.AppointmentID)
	}
	if env.Message != "Appointment scheduled successfully" {
		t.Errorf("Unexpected message %q", env.Message)
	}
	if repo.Len() != 4 {
		t.Errorf("Expected 4 appointments, got %d", repo.Len())
	}

	got := svc.GetByID(context.Background(), env.Data.ID)
	if !reflect.DeepEqual(env.Data, got.Data) {
		t.Errorf("round trip mismatch:\ncreated %+v\ngot     %+v", env.Data, got.Data)
	}
}

func TestGetAllFilters(t *testing.T) {
	svc, _ := newTestService(seedAppointments())

	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{"no filter", Filter{}, []int64{1, 2, 3}},
		{"patient", Filter{PatientID: 1}, []int64{1, 3}},
		{"date", Filter{Date: "2025-02-15"}, []int64{1, 2}},
		{"status", Filter{Status: StatusCompleted}, []int64{2}},
		{"doctor", Filter{DoctorID: "DOC001"}, []int64{1, 3}},
		{"patient and date", Filter{PatientID: 1, Date: "2025-02-15"}, []int64{1}},
		{"patient and status", Filter{PatientID: 2, Status: StatusScheduled}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := svc.GetAll(context.Background(), tt.filter)
			if !env.Success {
				t.Fatalf("getAll failed: %s", env.Message)
			}
			var got []int64
			for _, a := range env.Data {
				got = append(got, a.ID)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected ids %v, got %v", tt.want, got)
			}
			if *env.Total != len(tt.want) {
				t.Errorf("Expected total %d, got %d", len(tt.want), *env.Total)
			}
		})
	}
}

func TestUpdateToCancelled(t *testing.T) {
	svc, _ := newTestService(seedAppointments())
	cancelled := StatusCancelled

	env := svc.Update(context.Background(), 1, Patch{Status: &cancelled})
	if !env.Success {
		t.Fatalf("update failed: %s", env.Message)
	}
	if env.Data.Status != StatusCancelled {
		t.Errorf("Expected status Cancelled, got %s", env.Data.Status)
	}
	if env.Data.Reason != "Blood pressure check" {
		t.Errorf("unpatched field changed: %q", env.Data.Reason)
	}
	if !env.Data.UpdatedAt.After(env.Data.CreatedAt) {
		t.Error("updatedAt must advance")
	}
}

func TestUpdateDoesNotEnforceLifecycle(t *testing.T) {
	svc, _ := newTestService(seedAppointments())
	scheduled := StatusScheduled

	// Completed -> Scheduled is not a lifecycle move, but update accepts it.
	env := svc.Update(context.Background(), 2, Patch{Status: &scheduled})
	if !env.Success {
		t.Fatalf("update failed: %s", env.Message)
	}
	if env.Data.Status != StatusScheduled {
		t.Errorf("Expected status Scheduled, got %s", env.Data.Status)
	}
}

func TestUpdateFrozenClockStillIncreases(t *testing.T) {
	svc, _ := newTestService(seedAppointments())
	frozen := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return frozen })
	notes := "bring reports"

	first := svc.Update(context.Background(), 3, Patch{Notes: &notes})
	second := svc.Update(context.Background(), 3, Patch{Notes: &notes})

	if !second.Data.UpdatedAt.After(first.Data.UpdatedAt) {
		t.Errorf("Expected %v after %v", second.Data.UpdatedAt, first.Data.UpdatedAt)
	}
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		id      int64
		to      Status
		success bool
		kind    backend.Kind
	}{
		{"scheduled to in-progress", 1, StatusInProgress, true, backend.KindNone},
		{"scheduled to cancelled", 1, StatusCancelled, true, backend.KindNone},
		{"scheduled to completed", 1, StatusCompleted, false, backend.KindInvalid},
		{"completed is terminal", 2, StatusCancelled, false, backend.KindInvalid},
		{"missing", 99, StatusCancelled, false, backend.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(seedAppointments())
			before, _ := repo.GetByID(context.Background(), tt.id)

			env := svc.Transition(context.Background(), tt.id, tt.to, "")
			if env.Success != tt.success {
				t.Fatalf("Expected success=%v, got %v (%s)", tt.success, env.Success, env.Message)
			}
			if env.Kind != tt.kind {
				t.Errorf("Expected kind %q, got %q", tt.kind, env.Kind)
			}
			if !tt.success {
				if env.Data != nil {
					t.Error("failed transition must carry nil data")
				}
				after, _ := repo.GetByID(context.Background(), tt.id)
				if !reflect.DeepEqual(before, after) {
					t.Error("failed transition must not mutate the record")
				}
				return
			}
			if env.Data.Status != tt.to {
				t.Errorf("Expected status %s, got %s", tt.to, env.Data.Status)
			}
		})
	}
}

func TestCancelStoresReason(t *testing.T) {
	svc, _ := newTestService(seedAppointments())

	env := svc.Cancel(context.Background(), 3, "patient travelling")
	if !env.Success {
		t.Fatalf("cancel failed: %s", env.Message)
	}
	if env.Data.Notes != "patient travelling" {
		t.Errorf("Expected notes to carry the reason, got %q", env.Data.Notes)
	}
}

func TestMissingIDLeavesCollectionUnchanged(t *testing.T) {
	svc, repo := newTestService(seedAppointments())
	notes := "x"

	if env := svc.GetByID(context.Background(), 42); env.Success || env.Data != nil {
		t.Errorf("Expected failure with nil data, got %+v", env)
	}
	if env := svc.Update(context.Background(), 42, Patch{Notes: &notes}); env.Success || env.Kind != backend.KindNotFound {
		t.Errorf("Expected not_found, got %+v", env)
	}
	all, _ := repo.List(context.Background(), Filter{})
	if !reflect.DeepEqual(all, seedAppointments()) {
		t.Error("collection changed after failed update")
	}
}

func TestCancelledContextSkipsCreate(t *testing.T) {
	repo := NewMemoryRepository(nil)
	svc := NewService(repo, backend.NewCounter(0), backend.NewLatency(time.Second, 2*time.Second), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := svc.Create(ctx, Input{PatientID: 1})
	if env.Success || env.Kind != backend.KindCancelled {
		t.Errorf("Expected cancelled envelope, got %+v", env)
	}
	if repo.Len() != 0 {
		t.Errorf("Expected no insert, got %d records", repo.Len())
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
		ok   bool
	}{
		{"cancelled", StatusCancelled, true},
		{"In-Progress", StatusInProgress, true},
		{"in-progress", StatusInProgress, true},
		{"done", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseStatus(%q): Expected (%q, %v), got (%q, %v)", tt.raw, tt.want, tt.ok, got, ok)
		}
	}
}

func TestFilterQueryRoundTrip(t *testing.T) {
	f := Filter{PatientID: 7, DoctorID: "DOC002", Date: "2025-02-15", Status: StatusScheduled}
	if got := FilterFromQuery(f.Query()); got != f {
		t.Errorf("Expected %+v, got %+v", f, got)
	}
}
