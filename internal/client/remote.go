package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/medi-assist/internal/analytics"
	"github.com/hackgods/medi-assist/internal/appointment"
	"github.com/hackgods/medi-assist/internal/auth"
	"github.com/hackgods/medi-assist/internal/backend"
	"github.com/hackgods/medi-assist/internal/doctor"
	"github.com/hackgods/medi-assist/internal/feedback"
	"github.com/hackgods/medi-assist/internal/medication"
	"github.com/hackgods/medi-assist/internal/patient"
	"github.com/hackgods/medi-assist/internal/session"
)

// Remote sends every call to the /api/v1 surface. The bearer token comes from
// the session, and a 401 answer clears the session.
type Remote struct {
	baseURL string
	http    *http.Client
	session *session.Session
	log     zerolog.Logger
}

// NewRemote returns the remote API. sess may be nil for unauthenticated use.
func NewRemote(baseURL string, sess *session.Session, httpClient *http.Client, log zerolog.Logger) API {
	r := &Remote{baseURL: baseURL, http: httpClient, session: sess, log: log}
	return API{
		Patients:     remotePatients{r},
		Appointments: remoteAppointments{r},
		Feedback:     remoteFeedback{r},
		Doctors:      remoteDoctors{r},
		Analytics:    remoteAnalytics{r},
		Auth:         remoteAuth{r},
		Medications:  remoteMedications{r},
	}
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	token  string // overrides the session token when set
}

func call[T any](ctx context.Context, r *Remote, req request) backend.Envelope[T] {
	u := r.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return backend.Invalid[T]("Invalid request: " + err.Error())
		}
		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return backend.Invalid[T]("Invalid request: " + err.Error())
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	token := req.token
	if token == "" && r.session != nil {
		token, _ = r.session.Token(ctx)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return backend.Cancelled[T](ctxErr)
		}
		r.log.Warn().Err(err).Str("method", req.method).Str("path", req.path).Msg("api request failed")
		return backend.Unavailable[T]("Network error: " + err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && r.session != nil {
		if err := r.session.ClearAuth(ctx); err != nil {
			r.log.Warn().Err(err).Msg("clear session after 401 failed")
		}
	}

	var env backend.Envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		r.log.Warn().Err(err).Int("status", resp.StatusCode).Str("path", req.path).Msg("decode api response failed")
		return backend.Unavailable[T](fmt.Sprintf("Unexpected response (HTTP %d)", resp.StatusCode))
	}
	if !env.Success {
		env.Kind = kindFor(resp.StatusCode)
	}
	return env
}

// kindFor maps an HTTP status back to the failure kind the server started from.
func kindFor(status int) backend.Kind {
	switch status {
	case http.StatusNotFound:
		return backend.KindNotFound
	case http.StatusBadRequest, http.StatusUnauthorized:
		return backend.KindInvalid
	case http.StatusRequestTimeout:
		return backend.KindCancelled
	default:
		return backend.KindUnavailable
	}
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}

type remotePatients struct{ r *Remote }

func (p remotePatients) GetAll(ctx context.Context, f patient.Filter) backend.Envelope[[]patient.Patient] {
	return call[[]patient.Patient](ctx, p.r, request{method: http.MethodGet, path: "/patients", query: f.Query()})
}

func (p remotePatients) GetByID(ctx context.Context, id int64) backend.Envelope[*patient.Patient] {
	return call[*patient.Patient](ctx, p.r, request{method: http.MethodGet, path: idPath("/patients", id)})
}

func (p remotePatients) Create(ctx context.Context, in patient.Input) backend.Envelope[*patient.Patient] {
	return call[*patient.Patient](ctx, p.r, request{method: http.MethodPost, path: "/patients", body: in})
}

func (p remotePatients) Update(ctx context.Context, id int64, patch patient.Patch) backend.Envelope[*patient.Patient] {
	return call[*patient.Patient](ctx, p.r, request{method: http.MethodPut, path: idPath("/patients", id), body: patch})
}

func (p remotePatients) Delete(ctx context.Context, id int64) backend.Envelope[*patient.Patient] {
	return call[*patient.Patient](ctx, p.r, request{method: http.MethodDelete, path: idPath("/patients", id)})
}

type remoteAppointments struct{ r *Remote }

func (a remoteAppointments) GetAll(ctx context.Context, f appointment.Filter) backend.Envelope[[]appointment.Appointment] {
	return call[[]appointment.Appointment](ctx, a.r, request{method: http.MethodGet, path: "/appointments", query: f.Query()})
}

func (a remoteAppointments) GetByID(ctx context.Context, id int64) backend.Envelope[*appointment.Appointment] {
	return call[*appointment.Appointment](ctx, a.r, request{method: http.MethodGet, path: idPath("/appointments", id)})
}

func (a remoteAppointments) Create(ctx context.Context, in appointment.Input) backend.Envelope[*appointment.Appointment] {
	return call[*appointment.Appointment](ctx, a.r, request{method: http.MethodPost, path: "/appointments", body: in})
}

func (a remoteAppointments) Update(ctx context.Context, id int64, patch appointment.Patch) backend.Envelope[*appointment.Appointment] {
	return call[*appointment.Appointment](ctx, a.r, request{method: http.MethodPut, path: idPath("/appointments", id), body: patch})
}

func (a remoteAppointments) Transition(ctx context.Context, id int64, to appointment.Status, note string) backend.Envelope[*appointment.Appointment] {
	body := map[string]string{"status": string(to), "reason": note}
	return call[*appointment.Appointment](ctx, a.r, request{method: http.MethodPatch, path: idPath("/appointments", id), body: body})
}

type remoteFeedback struct{ r *Remote }

func (f remoteFeedback) GetAll(ctx context.Context, filter feedback.Filter) backend.Envelope[[]feedback.Feedback] {
	return call[[]feedback.Feedback](ctx, f.r, request{method: http.MethodGet, path: "/feedback", query: filter.Query()})
}

func (f remoteFeedback) GetByID(ctx context.Context, id int64) backend.Envelope[*feedback.Feedback] {
	return call[*feedback.Feedback](ctx, f.r, request{method: http.MethodGet, path: idPath("/feedback", id)})
}

func (f remoteFeedback) Create(ctx context.Context, in feedback.Input) backend.Envelope[*feedback.Feedback] {
	return call[*feedback.Feedback](ctx, f.r, request{method: http.MethodPost, path: "/feedback", body: in})
}

func (f remoteFeedback) UpdateStatus(ctx context.Context, id int64, status feedback.Status) backend.Envelope[*feedback.Feedback] {
	body := map[string]feedback.Status{"status": status}
	return call[*feedback.Feedback](ctx, f.r, request{method: http.MethodPatch, path: idPath("/feedback", id), body: body})
}

type remoteDoctors struct{ r *Remote }

func (d remoteDoctors) GetAll(ctx context.Context) backend.Envelope[[]doctor.Doctor] {
	return call[[]doctor.Doctor](ctx, d.r, request{method: http.MethodGet, path: "/doctors"})
}

func (d remoteDoctors) GetByID(ctx context.Context, id string) backend.Envelope[*doctor.Doctor] {
	return call[*doctor.Doctor](ctx, d.r, request{method: http.MethodGet, path: "/doctors/" + url.PathEscape(id)})
}

func (d remoteDoctors) GetAvailability(ctx context.Context, id, date string) backend.Envelope[*doctor.Availability] {
	return call[*doctor.Availability](ctx, d.r, request{
		method: http.MethodGet,
		path:   "/doctors/" + url.PathEscape(id) + "/availability",
		query:  url.Values{"date": {date}},
	})
}

type remoteAnalytics struct{ r *Remote }

func (a remoteAnalytics) GetDashboard(ctx context.Context) backend.Envelope[*analytics.Snapshot] {
	return call[*analytics.Snapshot](ctx, a.r, request{method: http.MethodGet, path: "/analytics/dashboard"})
}

func (a remoteAnalytics) GetPatientStats(ctx context.Context) backend.Envelope[*analytics.PatientStats] {
	return call[*analytics.PatientStats](ctx, a.r, request{method: http.MethodGet, path: "/analytics/patients"})
}

func (a remoteAnalytics) GetAppointmentStats(ctx context.Context) backend.Envelope[*analytics.AppointmentStats] {
	return call[*analytics.AppointmentStats](ctx, a.r, request{method: http.MethodGet, path: "/analytics/appointments"})
}

func (a remoteAnalytics) GetFeedbackStats(ctx context.Context) backend.Envelope[*analytics.FeedbackStats] {
	return call[*analytics.FeedbackStats](ctx, a.r, request{method: http.MethodGet, path: "/analytics/feedback"})
}

type remoteAuth struct{ r *Remote }

func (a remoteAuth) Login(ctx context.Context, creds auth.Credentials) backend.Envelope[*auth.Session] {
	return call[*auth.Session](ctx, a.r, request{method: http.MethodPost, path: "/auth/login", body: creds})
}

func (a remoteAuth) Register(ctx context.Context, reg auth.Registration) backend.Envelope[*auth.Session] {
	return call[*auth.Session](ctx, a.r, request{method: http.MethodPost, path: "/auth/register", body: reg})
}

func (a remoteAuth) Logout(ctx context.Context) backend.Envelope[any] {
	return call[any](ctx, a.r, request{method: http.MethodPost, path: "/auth/logout"})
}

func (a remoteAuth) RefreshToken(ctx context.Context, refreshToken string) backend.Envelope[*auth.Tokens] {
	body := map[string]string{"refreshToken": refreshToken}
	return call[*auth.Tokens](ctx, a.r, request{method: http.MethodPost, path: "/auth/refresh", body: body})
}

func (a remoteAuth) Profile(ctx context.Context, accessToken string) backend.Envelope[*auth.User] {
	return call[*auth.User](ctx, a.r, request{method: http.MethodGet, path: "/auth/profile", token: accessToken})
}

type remoteMedications struct{ r *Remote }

func (m remoteMedications) GetAll(ctx context.Context, category string) backend.Envelope[[]medication.Medication] {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	return call[[]medication.Medication](ctx, m.r, request{method: http.MethodGet, path: "/medications", query: q})
}

func (m remoteMedications) GetByID(ctx context.Context, id int64) backend.Envelope[*medication.Medication] {
	return call[*medication.Medication](ctx, m.r, request{method: http.MethodGet, path: idPath("/medications", id)})
}

func (m remoteMedications) Create(ctx context.Context, in medication.Input) backend.Envelope[*medication.Medication] {
	return call[*medication.Medication](ctx, m.r, request{method: http.MethodPost, path: "/medications", body: in})
}

func (m remoteMedications) MarkTaken(ctx context.Context, id int64, scheduled *time.Time) backend.Envelope[*medication.Intake] {
	body := map[string]*time.Time{"scheduledTime": scheduled}
	return call[*medication.Intake](ctx, m.r, request{method: http.MethodPost, path: idPath("/medications", id) + "/taken", body: body})
}

func (m remoteMedications) Log(ctx context.Context, medicationID int64) backend.Envelope[[]medication.LogEntry] {
	q := url.Values{}
	if medicationID != 0 {
		q.Set("medicationId", strconv.FormatInt(medicationID, 10))
	}
	return call[[]medication.LogEntry](ctx, m.r, request{method: http.MethodGet, path: "/medications/log", query: q})
}

func (m remoteMedications) TodaysDoses(ctx context.Context, date string) backend.Envelope[[]medication.Dose] {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	return call[[]medication.Dose](ctx, m.r, request{method: http.MethodGet, path: "/medications/doses/today", query: q})
}
