// Package api provides factory implementations for dependency injection
package api

import (
	"context"
	"log/slog"
)

// ServerStarter runs the API server until its context is cancelled.
type ServerStarter interface {
	StartServer(ctx context.Context, registry FamilyRegistry, history DetectionHistory, config ServerConfig, logger *slog.Logger) error
}

// ServerFactory creates server starters.
type ServerFactory interface {
	CreateServerStarter() ServerStarter
}

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct{}

// StartServer starts the API server with the given configuration
func (s *DefaultServerStarter) StartServer(
	ctx context.Context,
	registry FamilyRegistry,
	history DetectionHistory,
	config ServerConfig,
	logger *slog.Logger,
) error {
	return StartServer(ctx, registry, history, config, logger)
}
