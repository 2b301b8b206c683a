package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/medi-assist/internal/analytics"
	"github.com/hackgods/medi-assist/internal/appointment"
	"github.com/hackgods/medi-assist/internal/auth"
	"github.com/hackgods/medi-assist/internal/backend"
	"github.com/hackgods/medi-assist/internal/doctor"
	"github.com/hackgods/medi-assist/internal/feedback"
	"github.com/hackgods/medi-assist/internal/medication"
	"github.com/hackgods/medi-assist/internal/patient"
)

// Auth

func loginHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds auth.Credentials
		if !decodeJSON(w, r, &creds) {
			return
		}
		writeEnvelope(w, svc.Login(r.Context(), creds), http.StatusOK)
	}
}

func registerHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reg auth.Registration
		if !decodeJSON(w, r, &reg) {
			return
		}
		writeEnvelope(w, svc.Register(r.Context(), reg), http.StatusCreated)
	}
}

func logoutHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, svc.Logout(r.Context()), http.StatusOK)
	}
}

func refreshHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RefreshRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		writeEnvelope(w, svc.RefreshToken(r.Context(), req.RefreshToken), http.StatusOK)
	}
}

func profileHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, _ := bearerToken(r)
		writeEnvelope(w, svc.Profile(r.Context(), token), http.StatusOK)
	}
}

// Patients

func listPatientsHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := patient.FilterFromQuery(r.URL.Query())
		writeEnvelope(w, svc.GetAll(r.Context(), f), http.StatusOK)
	}
}

func getPatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, svc.GetByID(r.Context(), pathID(r, "id")), http.StatusOK)
	}
}

func createPatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in patient.Input
		if !decodeJSON(w, r, &in) {
			return
		}
		writeEnvelope(w, svc.Create(r.Context(), in), http.StatusCreated)
	}
}

func updatePatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch patient.Patch
		if !decodeJSON(w, r, &patch) {
			return
		}
		writeEnvelope(w, svc.Update(r.Context(), pathID(r, "id"), patch), http.StatusOK)
	}
}

func deletePatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, svc.Delete(r.Context(), pathID(r, "id")), http.StatusOK)
	}
}

// Appointments

func listAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := appointment.FilterFromQuery(r.URL.Query())
		writeEnvelope(w, svc.GetAll(r.Context(), f), http.StatusOK)
	}
}

func appointmentsByDateHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := appointment.Filter{Date: r.URL.Query().Get("date")}
		writeEnvelope(w, svc.GetAll(r.Context(), f), http.StatusOK)
	}
}

func appointmentsByPatientHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := appointment.Filter{PatientID: pathID(r, "id")}
		writeEnvelope(w, svc.GetAll(r.Context(), f), http.StatusOK)
	}
}

func appointmentsByDoctorHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := appointment.Filter{DoctorID: chi.URLParam(r, "id")}
		writeEnvelope(w, svc.GetAll(r.Context(), f), http.StatusOK)
	}
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, svc.GetByID(r.Context(), pathID(r, "id")), http.StatusOK)
	}
}

func createAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in appointment.Input
		if !decodeJSON(w, r, &in) {
			return
		}
		writeEnvelope(w, svc.Create(r.Context(), in), http.StatusCreated)
	}
}

func updateAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch appointment.Patch
		if !decodeJSON(w, r, &patch) {
			return
		}
		writeEnvelope(w, svc.Update(r.Context(), pathID(r, "id"), patch), http.StatusOK)
	}
}

// transitionAppointmentHandler backs PATCH; unlike PUT it enforces the lifecycle.
func transitionAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TransitionRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		status, ok := appointment.ParseStatus(req.Status)
		if !ok {
			writeFailure(w, http.StatusBadRequest, "Invalid status: "+req.Status)
			return
		}
		writeEnvelope(w, svc.Transition(r.Context(), pathID(r, "id"), status, req.Reason), http.StatusOK)
	}
}

// Feedback

func listFeedbackHandler(svc *feedback.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := feedback.FilterFromQuery(r.URL.Query())
		writeEnvelope(w, svc.GetAll(r.Context(), f), http.StatusOK)
	}
}

func feedbackByPatientHandler(svc *feedback.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := feedback.Filter{PatientID: pathID(r, "id")}
		writeEnvelope(w, svc.GetAll(r.Context(), f), http.StatusOK)
	}
}

func getFeedbackHandler(svc *feedback.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, svc.GetByID(r.Context(), pathID(r, "id")), http.StatusOK)
	}
}

func createFeedbackHandler(svc *feedback.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in feedback.Input
		if !decodeJSON(w, r, &in) {
			return
		}
		writeEnvelope(w, svc.Create(r.Context(), in), http.StatusCreated)
	}
}

func updateFeedbackStatusHandler(svc *feedback.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FeedbackStatusRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		writeEnvelope(w, svc.UpdateStatus(r.Context(), pathID(r, "id"), req.Status), http.StatusOK)
	}
}

// Doctors

func listDoctorsHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, svc.GetAll(r.Context()), http.StatusOK)
	}
}

func getDoctorHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, svc.GetByID(r.Context(), chi.URLParam(r, "id")), http.StatusOK)
	}
}

func doctorAvailabilityHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env := svc.GetAvailability(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("date"))
		writeEnvelope(w, env, http.StatusOK)
	}
}

// Analytics

func dashboardHandler(svc *analytics.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, svc.GetDashboard(r.Context()), http.StatusOK)
	}
}

func patientStatsHandler(svc *analytics.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, svc.GetPatientStats(r.Context()), http.StatusOK)
	}
}

func appointmentStatsHandler(svc *analytics.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, svc.GetAppointmentStats(r.Context()), http.StatusOK)
	}
}

func feedbackStatsHandler(svc *analytics.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, svc.GetFeedbackStats(r.Context()), http.StatusOK)
	}
}

// Medications

func listMedicationsHandler(svc *medication.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, svc.GetAll(r.Context(), r.URL.Query().Get("category")), http.StatusOK)
	}
}

func getMedicationHandler(svc *medication.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, svc.GetByID(r.Context(), pathID(r, "id")), http.StatusOK)
	}
}

func createMedicationHandler(svc *medication.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in medication.Input
		if !decodeJSON(w, r, &in) {
			return
		}
		writeEnvelope(w, svc.Create(r.Context(), in), http.StatusCreated)
	}
}

func markTakenHandler(svc *medication.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The body is optional.
		var req MarkTakenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeFailure(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		writeEnvelope(w, svc.MarkTaken(r.Context(), pathID(r, "id"), req.ScheduledTime), http.StatusCreated)
	}
}

func medicationLogHandler(svc *medication.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.URL.Query().Get("medicationId"), 10, 64)
		writeEnvelope(w, svc.Log(r.Context(), id), http.StatusOK)
	}
}

func todaysDosesHandler(svc *medication.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, svc.TodaysDoses(r.Context(), r.URL.Query().Get("date")), http.StatusOK)
	}
}

// StatusFor maps a failure kind to its HTTP status.
func StatusFor(kind backend.Kind) int {
	switch kind {
	case backend.KindNotFound:
		return http.StatusNotFound
	case backend.KindInvalid:
		return http.StatusBadRequest
	case backend.KindCancelled:
		return http.StatusRequestTimeout
	default:
		return http.StatusServiceUnavailable
	}
}

func writeEnvelope[T any](w http.ResponseWriter, env backend.Envelope[T], okStatus int) {
	if env.Success {
		writeJSON(w, okStatus, env)
		return
	}
	writeJSON(w, StatusFor(env.Kind), env)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, backend.Fail[any](backend.KindInvalid, message))
}

// decodeJSON writes a 400 envelope and returns false when the body is not
// valid JSON for v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// pathID parses a numeric path parameter. Anything unparsable becomes 0,
// which no record uses, so the lookup reports not found.
func pathID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
