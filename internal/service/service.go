// Package service runs each request through validation and then the store
// or query engine. Handlers talk to a Service, never to the store directly.
package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/query"
	"github.com/erazemk/najdeno/internal/store"
)

var tracer = otel.Tracer("github.com/erazemk/najdeno/internal/service")

// Service holds the application's dependencies.
type Service struct {
	store     store.Store
	engine    *query.Engine
	passwords *auth.Passwords
	tokens    *auth.Issuer
}

// New creates a Service. tokens signs and verifies login tokens.
func New(st store.Store, engine *query.Engine, passwords *auth.Passwords, tokens *auth.Issuer) *Service {
	return &Service{
		store:     st,
		engine:    engine,
		passwords: passwords,
		tokens:    tokens,
	}
}

// Ping checks that the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// RecentDays returns the default recency window.
func (s *Service) RecentDays() int {
	return s.engine.RecentDays()
}

// start opens a span for a service operation.
func start(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "service."+name)
}

// end records err on span, if any, and ends it.
func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
