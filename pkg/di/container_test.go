package di

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/ssargent/tagdecode/pkg/api"
	"github.com/ssargent/tagdecode/pkg/family"
	"github.com/ssargent/tagdecode/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFactory struct{}

func (stubFactory) CreateServerStarter() api.ServerStarter { return nil }

func TestNewContainer_Defaults(t *testing.T) {
	c := NewContainer()

	assert.NotNil(t, c.GetServerFactory())
	assert.NotNil(t, c.GetServerFactory().CreateServerStarter())

	dir := t.TempDir()
	store, err := c.GetHistoryOpener()(filepath.Join(dir, "history"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	fam := &family.Family{Name: "tiny", Bits: 2, Codes: family.Codes{0b1010}}
	path := filepath.Join(dir, "families.yaml")
	require.NoError(t, family.SaveFile(path, []*family.Family{fam}))

	reg, err := c.GetRegistryLoader()(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"tiny"}, reg.Names())
}

func TestContainer_Overrides(t *testing.T) {
	c := NewContainer()

	c.SetServerFactory(stubFactory{})
	assert.Nil(t, c.GetServerFactory().CreateServerStarter())

	loaded := family.NewRegistry()
	c.SetRegistryLoader(func(string) (*family.Registry, error) { return loaded, nil })
	reg, err := c.GetRegistryLoader()("ignored")
	require.NoError(t, err)
	assert.Same(t, loaded, reg)

	opened := false
	c.SetHistoryOpener(func(string) (*storage.DetectionStore, error) {
		opened = true
		return nil, nil
	})
	_, err = c.GetHistoryOpener()("ignored")
	require.NoError(t, err)
	assert.True(t, opened)
}

var _ api.ServerStarter = (*api.DefaultServerStarter)(nil)

func TestDefaultServerStarter_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	starter := NewContainer().GetServerFactory().CreateServerStarter()
	err := starter.StartServer(ctx, family.NewRegistry(), nil, api.ServerConfig{Bind: "127.0.0.1", Port: 0}, slog.New(slog.DiscardHandler))
	assert.NoError(t, err)
}
