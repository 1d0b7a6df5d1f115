package tokencache_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelwatch/postnl/internal/tokencache"
	"github.com/parcelwatch/postnl/pkg/postnl"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	token := &postnl.Token{
		Access:  "access-1",
		ID:      "id-1",
		Expires: time.Now().Add(time.Hour).Truncate(time.Second),
	}
	require.NoError(t, tokencache.Save(path, token))

	loaded, err := tokencache.Load(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, token.Access, loaded.Access)
	assert.Equal(t, token.ID, loaded.ID)
	assert.True(t, token.Expires.Equal(loaded.Expires))
}

func TestSave_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "token.json")

	require.NoError(t, tokencache.Save(path, &postnl.Token{Access: "a"}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSave_OwnerOnlyPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, tokencache.Save(path, &postnl.Token{Access: "a"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoad_MissingFile(t *testing.T) {
	token, err := tokencache.Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := tokencache.Load(path)
	assert.Error(t, err)
}
