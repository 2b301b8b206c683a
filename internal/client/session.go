package client

import (
	"context"

	"github.com/hackgods/medi-assist/internal/auth"
	"github.com/hackgods/medi-assist/internal/backend"
	"github.com/hackgods/medi-assist/internal/session"
)

// SignIn logs in and, on success, persists the token and user.
func SignIn(ctx context.Context, api API, sess *session.Session, creds auth.Credentials) backend.Envelope[*auth.Session] {
	return persist(ctx, sess, api.Auth.Login(ctx, creds))
}

// SignUp registers and signs in as the new user.
func SignUp(ctx context.Context, api API, sess *session.Session, reg auth.Registration) backend.Envelope[*auth.Session] {
	return persist(ctx, sess, api.Auth.Register(ctx, reg))
}

// SignOut clears the session even when the logout call fails.
func SignOut(ctx context.Context, api API, sess *session.Session) backend.Envelope[any] {
	env := api.Auth.Logout(ctx)
	if err := sess.ClearAuth(ctx); err != nil {
		return backend.Unavailable[any]("Failed to clear session: " + err.Error())
	}
	return env
}

// Restore returns the user of a persisted session, or nil when signed out.
func Restore(ctx context.Context, sess *session.Session) (*auth.User, error) {
	ok, err := sess.IsAuthenticated(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return sess.CurrentUser(ctx)
}

func persist(ctx context.Context, sess *session.Session, env backend.Envelope[*auth.Session]) backend.Envelope[*auth.Session] {
	if !env.Success || env.Data == nil {
		return env
	}
	if err := sess.SetAuth(ctx, env.Data.User, env.Data.Token); err != nil {
		return backend.Unavailable[*auth.Session]("Failed to save session: " + err.Error())
	}
	return env
}
