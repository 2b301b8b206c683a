package doctor

import (
	"context"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hackgods/medi-assist/internal/backend"
)

func testDoctors() []Doctor {
	weekdays := func(start, end, friday string) map[string]Hours {
		return map[string]Hours{
			"monday":    {start, end},
			"tuesday":   {start, end},
			"wednesday": {start, end},
			"thursday":  {start, end},
			"friday":    {start, friday},
		}
	}
	return []Doctor{
		{ID: "DOC001", Name: "Dr. Thandiwe Mbeki", Department: "Cardiology", Availability: weekdays("09:00", "17:00", "15:00")},
		{ID: "DOC002", Name: "Dr. Kgotso Motsepe", Department: "Pulmonology", Availability: weekdays("10:00", "16:00", "14:00")},
	}
}

func newTestService() *Service {
	return NewService(NewMemoryRepository(testDoctors()), backend.NoLatency(), zerolog.Nop())
}

func TestGetAllReturnsEveryDoctor(t *testing.T) {
	env := newTestService().GetAll(context.Background())
	if !env.Success {
		t.Fatalf("getAll failed: %s", env.Message)
	}
	if len(env.Data) != 2 || *env.Total != 2 {
		t.Errorf("Expected 2 doctors, got %d", len(env.Data))
	}
	again := newTestService().GetAll(context.Background())
	if !reflect.DeepEqual(env.Data, again.Data) {
		t.Error("repeated reads differ")
	}
}

func TestGetByID(t *testing.T) {
	svc := newTestService()

	found := svc.GetByID(context.Background(), "DOC002")
	if !found.Success || found.Data.Name != "Dr. Kgotso Motsepe" {
		t.Errorf("Expected Dr. Kgotso Motsepe, got %+v", found)
	}

	missing := svc.GetByID(context.Background(), "DOC999")
	if missing.Success || missing.Data != nil || missing.Kind != backend.KindNotFound {
		t.Errorf("Expected not_found with nil data, got %+v", missing)
	}
}

func TestGetAvailability(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		date      string
		success   bool
		available bool
		start     string
		end       string
	}{
		{"monday", "DOC001", "2025-02-17", true, true, "09:00", "17:00"},
		{"short friday", "DOC001", "2025-02-21", true, true, "09:00", "15:00"},
		{"saturday off", "DOC002", "2025-02-22", true, false, "", ""},
		{"bad date", "DOC001", "17/02/2025", false, false, "", ""},
		{"unknown doctor", "DOC404", "2025-02-17", false, false, "", ""},
	}

	svc := newTestService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := svc.GetAvailability(context.Background(), tt.id, tt.date)
			if env.Success != tt.success {
				t.Fatalf("Expected success=%v, got %v (%s)", tt.success, env.Success, env.Message)
			}
			if !tt.success {
				return
			}
			if env.Data.Available != tt.available {
				t.Errorf("Expected available=%v, got %v", tt.available, env.Data.Available)
			}
			if env.Data.Start != tt.start || env.Data.End != tt.end {
				t.Errorf("Expected %s-%s, got %s-%s", tt.start, tt.end, env.Data.Start, env.Data.End)
			}
		})
	}
}
