package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/medi-assist/internal/backend"
)

func newTestService() *Service {
	tm := NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	return NewService(tm, backend.NoLatency(), zerolog.Nop())
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		creds    Credentials
		success  bool
		role     string
		userID   string
		userName string
		message  string
	}{
		{"demo patient", Credentials{"demo@patient.com", "demo123"}, true, RolePatient, "demo-patient-123", "John Smith", "Patient login successful"},
		{"demo doctor", Credentials{"demo@doctor.com", "demo123"}, true, RoleDoctor, "demo-doctor-123", "Dr. Sarah Johnson", "Doctor login successful"},
		{"demo email wrong password", Credentials{"demo@doctor.com", "nope"}, true, RoleAdministrator, "1", "Dr. Admin", "Login successful"},
		{"anyone else", Credentials{"x@x.com", "pw"}, true, RoleAdministrator, "1", "Dr. Admin", "Login successful"},
		{"empty password", Credentials{"x@x.com", ""}, false, "", "", "", "Invalid credentials"},
		{"empty email", Credentials{"", "demo123"}, false, "", "", "", "Invalid credentials"},
	}

	svc := newTestService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := svc.Login(context.Background(), tt.creds)
			if env.Success != tt.success {
				t.Fatalf("Expected success=%v, got %v", tt.success, env.Success)
			}
			if env.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, env.Message)
			}
			if !tt.success {
				if env.Data != nil || env.Kind != backend.KindInvalid {
					t.Errorf("Expected invalid with nil data, got %+v", env)
				}
				return
			}
			u := env.Data.User
			if u.Role != tt.role || u.ID != tt.userID || u.Name != tt.userName {
				t.Errorf("Expected %s/%s/%s, got %s/%s/%s", tt.userID, tt.userName, tt.role, u.ID, u.Name, u.Role)
			}
			if u.Email != tt.creds.Email {
				t.Errorf("Expected email %s, got %s", tt.creds.Email, u.Email)
			}
			if env.Data.Token == "" || env.Data.RefreshToken == "" {
				t.Error("Expected both tokens")
			}
		})
	}
}

func TestLoginTokenCarriesUser(t *testing.T) {
	svc := newTestService()
	env := svc.Login(context.Background(), Credentials{"demo@doctor.com", "demo123"})

	profile := svc.Profile(context.Background(), env.Data.Token)
	if !profile.Success {
		t.Fatalf("profile failed: %s", profile.Message)
	}
	if *profile.Data != env.Data.User {
		t.Errorf("Expected %+v, got %+v", env.Data.User, *profile.Data)
	}

	if bad := svc.Profile(context.Background(), env.Data.RefreshToken); bad.Success {
		t.Error("refresh token must not be accepted as an access token")
	}
}

func TestRegisterDefaultsRole(t *testing.T) {
	svc := newTestService()

	env := svc.Register(context.Background(), Registration{Name: "Ayanda", Email: "a@clinic.co.za", Password: "secret"})
	if !env.Success {
		t.Fatalf("register failed: %s", env.Message)
	}
	if env.Data.User.Role != RoleStaff {
		t.Errorf("Expected role staff, got %s", env.Data.User.Role)
	}
	if env.Data.User.ID == "" || env.Data.User.Name != "Ayanda" {
		t.Errorf("Unexpected user %+v", env.Data.User)
	}

	doctor := svc.Register(context.Background(), Registration{Name: "B", Role: RoleDoctor, Specialization: "Neurology"})
	if doctor.Data.User.Role != RoleDoctor || doctor.Data.User.Specialization != "Neurology" {
		t.Errorf("Expected doctor with specialization, got %+v", doctor.Data.User)
	}
	if doctor.Data.User.ID == env.Data.User.ID {
		t.Error("registered ids must differ")
	}
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	env := newTestService().Logout(context.Background())
	if !env.Success || env.Message != "Logged out successfully" {
		t.Errorf("Unexpected envelope %+v", env)
	}
}

func TestRefreshToken(t *testing.T) {
	svc := newTestService()
	login := svc.Login(context.Background(), Credentials{"demo@patient.com", "demo123"})

	env := svc.RefreshToken(context.Background(), login.Data.RefreshToken)
	if !env.Success {
		t.Fatalf("refresh failed: %s", env.Message)
	}
	user, err := svc.Tokens().ValidateAccessToken(env.Data.Token)
	if err != nil {
		t.Fatalf("fresh token invalid: %v", err)
	}
	if user.ID != "demo-patient-123" {
		t.Errorf("Expected identity to carry over, got %s", user.ID)
	}
	if env.Data.Token == login.Data.Token {
		t.Error("Expected a fresh token")
	}

	garbage := svc.RefreshToken(context.Background(), "not-a-token")
	if !garbage.Success || garbage.Data.Token == "" {
		t.Errorf("refresh must always succeed, got %+v", garbage)
	}
}

func TestTokenExpiry(t *testing.T) {
	tm := NewTokenManager("s", time.Minute, time.Hour)
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tm.now = func() time.Time { return issued }

	pair, err := tm.Issue(User{ID: "u1", Role: RoleStaff})
	if err != nil {
		t.Fatal(err)
	}

	tm.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := tm.ValidateAccessToken(pair.Token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Expected ErrTokenExpired, got %v", err)
	}
	if _, err := tm.ValidateRefreshToken(pair.RefreshToken); err != nil {
		t.Errorf("refresh token should still be valid, got %v", err)
	}
}

func TestTokenSignedWithOtherSecret(t *testing.T) {
	a := NewTokenManager("a", time.Hour, time.Hour)
	b := NewTokenManager("b", time.Hour, time.Hour)

	pair, _ := a.Issue(User{ID: "u1"})
	if _, err := b.ValidateAccessToken(pair.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Expected ErrTokenInvalid, got %v", err)
	}
}
