package storage

import (
	"path/filepath"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/ssargent/tagdecode/pkg/codec"
	"github.com/ssargent/tagdecode/pkg/quickdecode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *DetectionStore {
	t.Helper()
	s, err := NewDetectionStore(filepath.Join(t.TempDir(), "history"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDetectionStore_CreateAndRead(t *testing.T) {
	s := openTestStore(t)

	d := &Detection{
		Family:   "tag25h9",
		Observed: 0x1abcd,
		Entry:    quickdecode.Entry{Code: 0x1abcf, ID: 7, Hamming: 1, Rotation: 2},
		Source:   "cli",
	}
	id, err := s.Create(d)
	require.NoError(t, err)
	assert.Equal(t, id.String(), d.ID)
	assert.True(t, d.Found)
	assert.False(t, d.CreatedAt.IsZero())

	got, err := s.Read(id)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, d.Family, got.Family)
	assert.Equal(t, d.Observed, got.Observed)
	assert.Equal(t, d.Entry, got.Entry)
	assert.True(t, got.Found)
	assert.True(t, d.CreatedAt.Equal(got.CreatedAt))
}

func TestDetectionStore_Miss(t *testing.T) {
	s := openTestStore(t)

	d := &Detection{Family: "tag25h9", Observed: 0, Entry: quickdecode.NoMatch}
	id, err := s.Create(d)
	require.NoError(t, err)

	got, err := s.Read(id)
	require.NoError(t, err)
	assert.False(t, got.Found)
	assert.Equal(t, quickdecode.NoMatchID, got.Entry.ID)
}

func TestDetectionStore_ReadNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Read(ksuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDetectionStore_ListAndDelete(t *testing.T) {
	s := openTestStore(t)

	ids := map[string]bool{}
	for i := 0; i < 5; i++ {
		id, err := s.Create(&Detection{Family: "f", Observed: uint64(i), Entry: quickdecode.NoMatch})
		require.NoError(t, err)
		ids[id.String()] = true
	}

	all, err := s.List(0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	for _, d := range all {
		assert.True(t, ids[d.ID])
	}

	some, err := s.List(2)
	require.NoError(t, err)
	assert.Len(t, some, 2)

	id, err := ksuid.Parse(all[0].ID)
	require.NoError(t, err)
	require.NoError(t, s.Delete(id))

	_, err = s.Read(id)
	assert.ErrorIs(t, err, ErrNotFound)

	rest, err := s.List(0)
	require.NoError(t, err)
	assert.Len(t, rest, 4)

	assert.ErrorIs(t, s.Delete(id), ErrNotFound)

	byFamily, err := s.ListByFamily("f", 0)
	require.NoError(t, err)
	assert.Len(t, byFamily, 4)
}

func TestDetectionStore_ListByFamily(t *testing.T) {
	s := openTestStore(t)

	for i, name := range []string{"a", "ab", "a", "b", "a"} {
		_, err := s.Create(&Detection{Family: name, Observed: uint64(i), Entry: quickdecode.NoMatch})
		require.NoError(t, err)
	}

	got, err := s.ListByFamily("a", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, d := range got {
		assert.Equal(t, "a", d.Family)
	}

	got, err = s.ListByFamily("ab", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(1), got[0].Observed)

	got, err = s.ListByFamily("a", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.ListByFamily("missing", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDetectionStore_CorruptValue(t *testing.T) {
	s := openTestStore(t)

	id, err := s.Create(&Detection{Family: "f", Entry: quickdecode.Entry{ID: 1}})
	require.NoError(t, err)

	data, closer, err := s.db.Get(detectionKey(id))
	require.NoError(t, err)
	damaged := append([]byte{}, data...)
	require.NoError(t, closer.Close())
	damaged[len(damaged)-2] ^= 0x20
	require.NoError(t, s.db.Set(detectionKey(id), damaged, nil))

	_, err = s.Read(id)
	assert.ErrorIs(t, err, codec.ErrCorrupt)

	_, err = s.List(0)
	assert.ErrorIs(t, err, codec.ErrCorrupt)
}

func TestDetectionStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	s, err := NewDetectionStore(path)
	require.NoError(t, err)
	id, err := s.Create(&Detection{Family: "f", Entry: quickdecode.Entry{ID: 3}})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewDetectionStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Read(id)
	require.NoError(t, err)
	assert.Equal(t, uint16(3), got.Entry.ID)
}
