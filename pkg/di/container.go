// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/tagdecode/pkg/api" //nolint:depguard
	"github.com/ssargent/tagdecode/pkg/family"
	"github.com/ssargent/tagdecode/pkg/storage"
)

// RegistryLoader loads a family registry from a definitions file.
type RegistryLoader func(path string) (*family.Registry, error)

// HistoryOpener opens the detection history stored under path.
type HistoryOpener func(path string) (*storage.DetectionStore, error)

// Container holds all the dependencies for the application
type Container struct {
	serverFactory  api.ServerFactory
	registryLoader RegistryLoader
	historyOpener  HistoryOpener
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		serverFactory:  api.NewServerFactory(),
		registryLoader: family.LoadRegistry,
		historyOpener:  storage.NewDetectionStore,
	}
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}

// GetRegistryLoader returns the family registry loader
func (c *Container) GetRegistryLoader() RegistryLoader {
	return c.registryLoader
}

// SetRegistryLoader allows overriding the registry loader (for testing)
func (c *Container) SetRegistryLoader(loader RegistryLoader) {
	c.registryLoader = loader
}

// GetHistoryOpener returns the detection history opener
func (c *Container) GetHistoryOpener() HistoryOpener {
	return c.historyOpener
}

// SetHistoryOpener allows overriding the detection history opener (for testing)
func (c *Container) SetHistoryOpener(opener HistoryOpener) {
	c.historyOpener = opener
}
