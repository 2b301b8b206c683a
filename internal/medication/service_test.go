package medication

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/medi-assist/internal/backend"
)

func at(layout string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", layout)
	if err != nil {
		panic(err)
	}
	return t
}

func timePtr(t time.Time) *time.Time { return &t }

func seedMedications() ([]Medication, []LogEntry) {
	meds := []Medication{
		{
			ID: 1, Name: "Lisinopril", Dosage: "10mg", Frequency: "Once daily",
			TimeSlots: []string{"08:00"}, StartDate: "2025-09-01", EndDate: "2025-12-01",
			Adherence: 85, TotalPills: 90, PillsTaken: 20, PillsRemaining: 70,
			LastTaken: timePtr(at("2025-09-24 08:15")), NextDose: timePtr(at("2025-09-25 08:00")),
			ReminderEnabled: true, Category: "cardiovascular",
		},
		{
			ID: 2, Name: "Metformin", Dosage: "500mg", Frequency: "Twice daily",
			TimeSlots: []string{"08:00", "20:00"}, StartDate: "2025-08-15", EndDate: "2025-11-15",
			Adherence: 92, TotalPills: 180, PillsTaken: 45, PillsRemaining: 135,
			LastTaken: timePtr(at("2025-09-24 20:05")), NextDose: timePtr(at("2025-09-25 08:00")),
			ReminderEnabled: true, Category: "diabetes",
		},
		{
			ID: 3, Name: "Vitamin D3", Dosage: "1000 IU", Frequency: "Once daily",
			TimeSlots: []string{"08:00"}, StartDate: "2025-08-01", EndDate: "2026-08-01",
			Adherence: 78, TotalPills: 365, PillsTaken: 54, PillsRemaining: 311,
			LastTaken: timePtr(at("2025-09-23 08:30")), NextDose: timePtr(at("2025-09-25 08:00")),
			ReminderEnabled: false, Category: "supplement",
		},
	}
	log := []LogEntry{
		{ID: 1, MedicationID: 1, MedicationName: "Lisinopril", ScheduledTime: at("2025-09-24 08:00"), TakenTime: timePtr(at("2025-09-24 08:15")), Status: DoseTaken},
		{ID: 2, MedicationID: 2, MedicationName: "Metformin", ScheduledTime: at("2025-09-24 08:00"), TakenTime: timePtr(at("2025-09-24 08:10")), Status: DoseTaken},
		{ID: 3, MedicationID: 2, MedicationName: "Metformin", ScheduledTime: at("2025-09-24 20:00"), TakenTime: timePtr(at("2025-09-24 20:05")), Status: DoseTaken},
	}
	return meds, log
}

func newTestService(now time.Time) (*Service, *MemoryRepository) {
	meds, log := seedMedications()
	repo := NewMemoryRepository(meds, log)
	maxMed, _ := repo.MaxID(context.Background())
	maxLog, _ := repo.MaxLogID(context.Background())
	svc := NewService(repo, backend.NewCounter(maxMed), backend.NewCounter(maxLog), backend.NoLatency(), zerolog.Nop())
	svc.WithClock(func() time.Time { return now })
	return svc, repo
}

func TestGetAllByCategory(t *testing.T) {
	svc, _ := newTestService(at("2025-09-25 07:00"))

	tests := []struct {
		category string
		want     int
	}{
		{"", 3},
		{"all", 3},
		{"diabetes", 1},
		{"pain", 0},
	}
	for _, tt := range tests {
		env := svc.GetAll(context.Background(), tt.category)
		if len(env.Data) != tt.want {
			t.Errorf("category %q: Expected %d, got %d", tt.category, tt.want, len(env.Data))
		}
	}
}

func TestMarkTaken(t *testing.T) {
	now := at("2025-09-25 08:10")
	svc, repo := newTestService(now)

	env := svc.MarkTaken(context.Background(), 1, nil)
	if !env.Success {
		t.Fatalf("mark taken failed: %s", env.Message)
	}

	m := env.Data.Medication
	if m.PillsTaken != 21 || m.PillsRemaining != 69 {
		t.Errorf("Expected 21 taken / 69 remaining, got %d / %d", m.PillsTaken, m.PillsRemaining)
	}
	// 25 expected doses since 2025-09-01, 21 taken.
	if m.Adherence != 84 {
		t.Errorf("Expected adherence 84, got %d", m.Adherence)
	}
	if !m.LastTaken.Equal(now) {
		t.Errorf("Expected lastTaken %v, got %v", now, m.LastTaken)
	}
	if !m.NextDose.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("Expected next dose a day later, got %v", m.NextDose)
	}

	e := env.Data.Entry
	if e.ID != 4 || e.Status != DoseTaken || !e.ScheduledTime.Equal(at("2025-09-25 08:00")) {
		t.Errorf("Unexpected log entry %+v", e)
	}

	entries, _ := repo.Log(context.Background(), 1)
	if len(entries) != 2 || entries[0].ID != 4 {
		t.Errorf("Expected the new entry first, got %+v", entries)
	}
}

func TestMarkTakenExplicitSlot(t *testing.T) {
	svc, _ := newTestService(at("2025-09-25 20:30"))

	slot := at("2025-09-25 20:00")
	env := svc.MarkTaken(context.Background(), 2, &slot)
	if !env.Success {
		t.Fatalf("mark taken failed: %s", env.Message)
	}
	if !env.Data.Entry.ScheduledTime.Equal(slot) {
		t.Errorf("Expected scheduled %v, got %v", slot, env.Data.Entry.ScheduledTime)
	}
	if !env.Data.Medication.NextDose.Equal(at("2025-09-26 08:30")) {
		t.Errorf("Expected next dose 12h later, got %v", env.Data.Medication.NextDose)
	}
}

func TestMarkTakenFailures(t *testing.T) {
	svc, repo := newTestService(at("2025-09-25 08:10"))
	ctx := context.Background()

	missing := svc.MarkTaken(ctx, 99, nil)
	if missing.Success || missing.Kind != backend.KindNotFound {
		t.Errorf("Expected not_found, got %+v", missing)
	}

	_ = repo.Insert(ctx, Medication{ID: 10, Name: "Empty", Frequency: "Once daily", TotalPills: 30, PillsTaken: 30, PillsRemaining: 0})
	empty := svc.MarkTaken(ctx, 10, nil)
	if empty.Success || empty.Kind != backend.KindInvalid {
		t.Errorf("Expected invalid, got %+v", empty)
	}

	entries, _ := repo.Log(ctx, 0)
	if len(entries) != 3 {
		t.Errorf("failed intakes must not be logged, got %d entries", len(entries))
	}
}

func TestTodaysDoses(t *testing.T) {
	svc, _ := newTestService(at("2025-09-24 21:00"))

	env := svc.TodaysDoses(context.Background(), "")
	if !env.Success {
		t.Fatalf("todays doses failed: %s", env.Message)
	}

	want := []struct {
		id    int64
		slot  string
		taken bool
	}{
		{1, "08:00", true},
		{2, "08:00", true},
		{3, "08:00", false},
		{2, "20:00", true},
	}
	if len(env.Data) != len(want) {
		t.Fatalf("Expected %d doses, got %d", len(want), len(env.Data))
	}
	for i, w := range want {
		d := env.Data[i]
		if d.MedicationID != w.id || d.TimeSlot != w.slot || d.Taken != w.taken {
			t.Errorf("dose %d: Expected %d %s taken=%v, got %d %s taken=%v", i, w.id, w.slot, w.taken, d.MedicationID, d.TimeSlot, d.Taken)
		}
	}

	other := svc.TodaysDoses(context.Background(), "2025-09-25")
	for _, d := range other.Data {
		if d.Taken {
			t.Errorf("nothing was taken on 2025-09-25, got %+v", d)
		}
	}

	if bad := svc.TodaysDoses(context.Background(), "25/09/2025"); bad.Kind != backend.KindInvalid {
		t.Errorf("Expected invalid date, got %+v", bad)
	}
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService(at("2025-09-25 09:00"))

	env := svc.Create(context.Background(), Input{
		Name: "Omega-3", Frequency: "once_daily", TimeSlots: []string{"09:00", ""},
		StartDate: "2025-09-26", TotalPills: 30, ReminderEnabled: true,
	})
	if !env.Success {
		t.Fatalf("create failed: %s", env.Message)
	}
	m := env.Data
	if m.ID != 4 || m.Adherence != 100 || m.PillsRemaining != 30 || m.PillsTaken != 0 {
		t.Errorf("Unexpected medication %+v", m)
	}
	if len(m.TimeSlots) != 1 {
		t.Errorf("Expected blank slots dropped, got %v", m.TimeSlots)
	}
	if m.Category != "other" {
		t.Errorf("Expected category other, got %s", m.Category)
	}
	if m.NextDose == nil || !m.NextDose.Equal(at("2025-09-26 09:00")) {
		t.Errorf("Expected first dose on start date, got %v", m.NextDose)
	}
}

func TestCreateNormalizesTimeSlots(t *testing.T) {
	svc, _ := newTestService(at("2025-09-25 07:00"))
	ctx := context.Background()

	env := svc.Create(ctx, Input{
		Name: "Aspirin", Frequency: "Twice daily", TimeSlots: []string{"8:00", " 20:00 "},
		StartDate: "2025-09-25", TotalPills: 60,
	})
	if !env.Success {
		t.Fatalf("create failed: %s", env.Message)
	}
	if got := env.Data.TimeSlots; len(got) != 2 || got[0] != "08:00" || got[1] != "20:00" {
		t.Errorf("Expected [08:00 20:00], got %v", got)
	}

	slot := at("2025-09-25 08:00")
	if taken := svc.MarkTaken(ctx, env.Data.ID, &slot); !taken.Success {
		t.Fatalf("mark taken failed: %s", taken.Message)
	}

	doses := svc.TodaysDoses(ctx, "2025-09-25")
	var found bool
	for _, d := range doses.Data {
		if d.MedicationID != env.Data.ID {
			continue
		}
		if d.TimeSlot == "08:00" {
			found = true
			if !d.Taken {
				t.Errorf("Expected the 08:00 dose taken, got %+v", d)
			}
		}
		if d.TimeSlot == "20:00" && d.Taken {
			t.Errorf("Expected the 20:00 dose not taken, got %+v", d)
		}
	}
	if !found {
		t.Errorf("Expected an 08:00 dose, got %+v", doses.Data)
	}
}

func TestCreateRejectsBadTimeSlot(t *testing.T) {
	svc, repo := newTestService(at("2025-09-25 07:00"))

	env := svc.Create(context.Background(), Input{Name: "X", TimeSlots: []string{"morning"}})
	if env.Success || env.Kind != backend.KindInvalid {
		t.Errorf("Expected invalid, got %+v", env)
	}
	if all, _ := repo.List(context.Background(), ""); len(all) != 3 {
		t.Errorf("Expected no insert, got %d medications", len(all))
	}
}

func TestMarkTakenUntrackedSupply(t *testing.T) {
	svc, _ := newTestService(at("2025-09-25 08:10"))
	ctx := context.Background()

	created := svc.Create(ctx, Input{Name: "Drops", Frequency: "Once daily", TimeSlots: []string{"08:00"}, StartDate: "2025-09-25"})
	if !created.Success {
		t.Fatalf("create failed: %s", created.Message)
	}

	for i := 0; i < 2; i++ {
		env := svc.MarkTaken(ctx, created.Data.ID, nil)
		if !env.Success {
			t.Fatalf("mark taken %d failed: %s", i, env.Message)
		}
		if env.Data.Medication.PillsRemaining != 0 {
			t.Errorf("Expected remaining to stay 0, got %d", env.Data.Medication.PillsRemaining)
		}
		if env.Data.Medication.PillsTaken != i+1 {
			t.Errorf("Expected %d taken, got %d", i+1, env.Data.Medication.PillsTaken)
		}
	}
}

func TestSweepMissedDoses(t *testing.T) {
	svc, repo := newTestService(at("2025-09-26 12:00"))
	ctx := context.Background()

	n, err := svc.SweepMissedDoses(ctx, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	// Lisinopril: 25th and 26th 08:00. Metformin: 25th 08:00 and 20:00, 26th 08:00.
	if n != 5 {
		t.Errorf("Expected 5 missed doses, got %d", n)
	}

	lis, _ := repo.GetByID(ctx, 1)
	if !lis.NextDose.Equal(at("2025-09-27 08:00")) {
		t.Errorf("Expected Lisinopril next dose 2025-09-27 08:00, got %v", lis.NextDose)
	}
	met, _ := repo.GetByID(ctx, 2)
	if !met.NextDose.Equal(at("2025-09-26 20:00")) {
		t.Errorf("Expected Metformin next dose 2025-09-26 20:00, got %v", met.NextDose)
	}
	vit, _ := repo.GetByID(ctx, 3)
	if !vit.NextDose.Equal(at("2025-09-25 08:00")) {
		t.Errorf("reminders disabled, next dose must not move: %v", vit.NextDose)
	}

	again, _ := svc.SweepMissedDoses(ctx, time.Hour)
	if again != 0 {
		t.Errorf("Expected a second sweep to find nothing, got %d", again)
	}

	entries, _ := repo.Log(ctx, 0)
	missed := 0
	for _, e := range entries {
		if e.Status == DoseMissed {
			missed++
			if e.TakenTime != nil {
				t.Errorf("missed entry must not carry a taken time: %+v", e)
			}
		}
	}
	if missed != 5 {
		t.Errorf("Expected 5 missed entries, got %d", missed)
	}
}

func TestDoseInterval(t *testing.T) {
	tests := map[string]time.Duration{
		"Once daily":        24 * time.Hour,
		"twice_daily":       12 * time.Hour,
		"Three times daily": 8 * time.Hour,
		"four_times_daily":  6 * time.Hour,
		"as_needed":         0,
	}
	for freq, want := range tests {
		if got := DoseInterval(freq); got != want {
			t.Errorf("DoseInterval(%q): Expected %s, got %s", freq, want, got)
		}
	}
}

func TestAdherenceCapped(t *testing.T) {
	m := Medication{StartDate: "2025-09-24", TimeSlots: []string{"08:00"}}
	if got := Adherence(m, 10, at("2025-09-24 09:00")); got != 100 {
		t.Errorf("Expected 100, got %d", got)
	}
	if got := Adherence(m, 1, at("2025-09-20 09:00")); got != 100 {
		t.Errorf("start in the future: Expected 100, got %d", got)
	}
}

type countingLocker struct {
	calls int
	err   error
}

func (l *countingLocker) WithLock(ctx context.Context, _ string, fn func(context.Context) error) error {
	l.calls++
	if l.err != nil {
		return l.err
	}
	return fn(ctx)
}

func TestRunRemindersUsesLocker(t *testing.T) {
	svc, repo := newTestService(at("2025-09-26 12:00"))
	locker := &countingLocker{}
	svc.WithLocker(locker)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := svc.RunReminders(ctx, time.Hour, time.Hour); err != nil {
		t.Fatal(err)
	}

	if locker.calls != 1 {
		t.Errorf("Expected one locked sweep at startup, got %d", locker.calls)
	}
	// The memory repository ignores ctx, so the startup sweep still writes.
	entries, _ := repo.Log(context.Background(), 0)
	if len(entries) != 8 {
		t.Errorf("Expected 8 log entries after the sweep, got %d", len(entries))
	}
}
