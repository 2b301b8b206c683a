package analytics

import (
	"context"
	"reflect"
	"testing"

	"github.com/hackgods/medi-assist/internal/backend"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Overview: Overview{TotalPatients: 3, ActivePatients: 3, WeeklyAppointments: 25, AverageRating: 4.5},
		PatientStats: PatientStats{
			ByAge:    []AgeBucket{{Range: "0-18", Count: 5}, {Range: "19-35", Count: 15}},
			ByGender: []GenderCount{{Gender: "Male", Count: 40}, {Gender: "Female", Count: 35}},
		},
		AppointmentStats: AppointmentStats{
			ByStatus: []StatusCount{{Status: "Scheduled", Count: 15}},
		},
		FeedbackStats: FeedbackStats{
			AverageRatings: AverageRatings{Overall: 4.5},
			ByCategory:     []CategoryCount{{Category: "Positive", Count: 85}},
		},
	}
}

func TestSlicesMatchDashboard(t *testing.T) {
	svc := NewService(testSnapshot(), backend.NoLatency())
	ctx := context.Background()

	dash := svc.GetDashboard(ctx)
	if !dash.Success {
		t.Fatal("dashboard failed")
	}

	if got := svc.GetPatientStats(ctx); !reflect.DeepEqual(*got.Data, dash.Data.PatientStats) {
		t.Errorf("patient stats mismatch: %+v", got.Data)
	}
	if got := svc.GetAppointmentStats(ctx); !reflect.DeepEqual(*got.Data, dash.Data.AppointmentStats) {
		t.Errorf("appointment stats mismatch: %+v", got.Data)
	}
	if got := svc.GetFeedbackStats(ctx); !reflect.DeepEqual(*got.Data, dash.Data.FeedbackStats) {
		t.Errorf("feedback stats mismatch: %+v", got.Data)
	}
}

func TestFixtureIsReadOnly(t *testing.T) {
	svc := NewService(testSnapshot(), backend.NoLatency())
	ctx := context.Background()

	first := svc.GetPatientStats(ctx)
	first.Data.ByAge[0].Count = 999

	second := svc.GetPatientStats(ctx)
	if second.Data.ByAge[0].Count != 5 {
		t.Errorf("Expected 5, got %d", second.Data.ByAge[0].Count)
	}
}

func TestCancelledContext(t *testing.T) {
	svc := NewService(testSnapshot(), backend.NoLatency())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := svc.GetDashboard(ctx)
	if env.Success || env.Kind != backend.KindCancelled || env.Data != nil {
		t.Errorf("Expected cancelled envelope, got %+v", env)
	}
}
