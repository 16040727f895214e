package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStore_SaveList(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := NewDiskStore(fs, "/assets")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "a-1.png", []byte("x")))
	require.NoError(t, s.Save(ctx, "b-2.gif", []byte("y")))
	require.NoError(t, fs.Mkdir("/assets/sub", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/assets/.gitkeep", nil, 0o644))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a-1.png", "b-2.gif"}, names)

	// no sobrescribe
	assert.Error(t, s.Save(ctx, "a-1.png", []byte("z")))
	data, err := afero.ReadFile(fs, "/assets/a-1.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestDiskStore_RechazaRutas(t *testing.T) {
	s, err := NewDiskStore(afero.NewMemMapFs(), "/assets")
	require.NoError(t, err)
	for _, name := range []string{"", "../fuera.png", "sub/a.png", ".oculto"} {
		assert.Error(t, s.Save(context.Background(), name, []byte("x")), name)
	}
}

func TestDiskStore_Disco(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	s, err := NewDiskStore(nil, dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), "foto.png", []byte("png")))

	data, err := os.ReadFile(filepath.Join(dir, "foto.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}
