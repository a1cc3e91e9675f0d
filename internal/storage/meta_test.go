package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLayout = Layout{PageSize: PageSize, PtrSize: PtrSize, KeySize: 10, ValueSize: 10}

func TestLoadOrCreateMeta(t *testing.T) {
	path := MetaPath(filepath.Join(t.TempDir(), "nodes.db"))

	m, created, err := LoadOrCreateMeta(path, testLayout)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, uuid.Nil, m.StoreID)
	assert.Equal(t, testLayout, m.Layout)

	again, created, err := LoadOrCreateMeta(path, testLayout)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, m, again)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ptr_size": 8`)
	assert.Contains(t, string(data), m.StoreID.String())
}

func TestLoadOrCreateMeta_LayoutMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.db"+MetaFileSuffix)

	_, _, err := LoadOrCreateMeta(path, testLayout)
	require.NoError(t, err)

	other := testLayout
	other.PtrSize = 4
	_, _, err = LoadOrCreateMeta(path, other)
	assert.ErrorIs(t, err, ErrLayoutMismatch)
}

func TestLoadMeta_Missing(t *testing.T) {
	path := MetaPath(filepath.Join(t.TempDir(), "nodes.db"))

	_, err := LoadMeta(path, testLayout)
	assert.ErrorIs(t, err, ErrStoreNotFound)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	created, _, err := LoadOrCreateMeta(path, testLayout)
	require.NoError(t, err)
	loaded, err := LoadMeta(path, testLayout)
	require.NoError(t, err)
	assert.Equal(t, created, loaded)
}

func TestLoadOrCreateMeta_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad"+MetaFileSuffix)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), FileMode0644))

	_, _, err := LoadOrCreateMeta(path, testLayout)
	assert.Error(t, err)
}
