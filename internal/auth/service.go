package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/medi-assist/internal/backend"
	"github.com/hackgods/medi-assist/internal/metrics"
)

// Service is a stand-in for a real identity provider. It never checks a
// password beyond "non-empty" and keeps no server-side state.
type Service struct {
	tokens  *TokenManager
	latency *backend.Latency
	log     zerolog.Logger
}

func NewService(tokens *TokenManager, latency *backend.Latency, log zerolog.Logger) *Service {
	return &Service{
		tokens:  tokens,
		latency: latency,
		log:     log.With().Str("resource", "auth").Logger(),
	}
}

func (s *Service) Tokens() *TokenManager {
	return s.tokens
}

func (s *Service) Login(ctx context.Context, creds Credentials) backend.Envelope[*Session] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Session](err)
	}

	if creds.Email == "" || creds.Password == "" {
		return backend.Invalid[*Session]("Invalid credentials")
	}

	user, message := administrator, "Login successful"
	if demo, ok := demoAccounts[creds.Email]; ok && demo.password == creds.Password {
		user, message = demo.user, demo.message
	}
	user.Email = creds.Email

	sess, ok := s.session(user)
	if !ok {
		return backend.Unavailable[*Session]("Failed to issue token")
	}

	metrics.RecordLogin(user.Role)
	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("login")

	return backend.OK(sess, message)
}

// Register always succeeds and echoes the submitted profile with a new id.
func (s *Service) Register(ctx context.Context, reg Registration) backend.Envelope[*Session] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Session](err)
	}

	user := User{
		ID:             uuid.NewString(),
		Email:          reg.Email,
		Name:           reg.Name,
		Role:           reg.Role,
		Department:     reg.Department,
		Phone:          reg.Phone,
		Specialization: reg.Specialization,
	}
	if user.Role == "" {
		user.Role = RoleStaff
	}

	sess, ok := s.session(user)
	if !ok {
		return backend.Unavailable[*Session]("Failed to issue token")
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("registered")

	return backend.OK(sess, "Registration successful")
}

func (s *Service) Logout(ctx context.Context) backend.Envelope[any] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[any](err)
	}
	return backend.OK[any](nil, "Logged out successfully")
}

// RefreshToken always issues a fresh pair. The identity in a valid refresh
// token is carried over; anything else gets a new staff identity.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) backend.Envelope[*Tokens] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*Tokens](err)
	}

	user, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.log.Debug().Err(err).Msg("refresh token not reusable, issuing for a new identity")
		user = &User{ID: uuid.NewString(), Role: RoleStaff}
	}

	pair, err := s.tokens.Issue(*user)
	if err != nil {
		s.log.Error().Err(err).Msg("issue tokens failed")
		return backend.Unavailable[*Tokens]("Failed to issue token")
	}
	return backend.OK(&pair, "")
}

// Profile decodes the user carried by an access token.
func (s *Service) Profile(ctx context.Context, accessToken string) backend.Envelope[*User] {
	if err := s.latency.Wait(ctx); err != nil {
		return backend.Cancelled[*User](err)
	}

	user, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return backend.Invalid[*User]("Invalid token: " + err.Error())
	}
	return backend.OK(user, "")
}

func (s *Service) session(u User) (*Session, bool) {
	pair, err := s.tokens.Issue(u)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", u.ID).Msg("issue tokens failed")
		return nil, false
	}
	return &Session{User: u, Token: pair.Token, RefreshToken: pair.RefreshToken}, true
}
