// Package session persists the signed-in user between runs of a client, as
// two string keys: the bearer token and the JSON-encoded user.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hackgods/medi-assist/internal/auth"
)

const (
	TokenKey = "mediAssistToken"
	UserKey  = "mediAssistUser"
)

// Store is a flat string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

type Session struct {
	store Store
}

func New(store Store) *Session {
	return &Session{store: store}
}

func (s *Session) SetAuth(ctx context.Context, user auth.User, token string) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.store.Set(ctx, TokenKey, token); err != nil {
		return err
	}
	return s.store.Set(ctx, UserKey, string(raw))
}

// Token returns the stored bearer token, or "" when signed out.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, _, err := s.store.Get(ctx, TokenKey)
	return token, err
}

func (s *Session) IsAuthenticated(ctx context.Context) (bool, error) {
	token, err := s.Token(ctx)
	return token != "", err
}

// CurrentUser decodes the stored user. A missing or unreadable value yields
// nil without an error.
func (s *Session) CurrentUser(ctx context.Context) (*auth.User, error) {
	raw, ok, err := s.store.Get(ctx, UserKey)
	if err != nil || !ok {
		return nil, err
	}

	var u auth.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, nil
	}
	return &u, nil
}

func (s *Session) ClearAuth(ctx context.Context) error {
	return s.store.Delete(ctx, TokenKey, UserKey)
}
