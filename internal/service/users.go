package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/metrics"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/validate"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	User      model.UserSummary `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// CreateUser validates req and registers a user. The password is stored
// under the configured scheme.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (sum *model.UserSummary, err error) {
	ctx, span := start(ctx, "CreateUser")
	defer func() { end(span, err) }()

	req.normalize()
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	stored, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.store.CreateUser(ctx, &model.User{
		Username: req.Username,
		Password: stored,
		Email:    req.Email,
	})
	if model.IsConflict(err) {
		metrics.ObserveRegistration("conflict")
	}
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("user.id", u.ID))
	metrics.ObserveRegistration("created")

	summary := u.Summary()
	return &summary, nil
}

// ListUsers returns every user without credentials.
func (s *Service) ListUsers(ctx context.Context) ([]model.UserSummary, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out, nil
}

// Login checks credentials and issues a token. Unknown users and wrong
// passwords both yield model.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req LoginRequest) (res *LoginResult, err error) {
	ctx, span := start(ctx, "Login")
	defer func() { end(span, err) }()

	req.normalize()
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	u, err := s.store.GetUserByUsername(ctx, req.Username)
	if model.IsNotFound(err) {
		metrics.ObserveLogin("failure")
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.passwords.Verify(u.Password, req.Password) {
		metrics.ObserveLogin("failure")
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return nil, err
	}
	metrics.ObserveLogin("success")

	return &LoginResult{
		User:      u.Summary(),
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// Authenticate validates a bearer token and checks that its user still
// exists and that it has not been revoked.
func (s *Service) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, model.ErrUnauthorized
	}
	// Tokens outlive a wiped store when the secret comes from the environment.
	if _, err := s.store.GetUser(ctx, claims.UserID); err != nil {
		if model.IsNotFound(err) {
			return nil, model.ErrUnauthorized
		}
		return nil, err
	}
	revoked, err := s.store.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, model.ErrUnauthorized
	}
	return claims, nil
}

// Logout revokes the token described by claims.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return model.ErrUnauthorized
	}
	// Revoked ids are kept only until the token would have expired anyway.
	if err := s.store.RevokeToken(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	return nil
}
