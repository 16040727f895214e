// Package storage guarda las imágenes subidas en un directorio servido como estático.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/Maiar0/inventory-web-backend/internal/application/ports"
)

var _ ports.AssetStore = (*DiskStore)(nil)

// DiskStore implementa ports.AssetStore sobre un afero.Fs (disco en producción, memoria en tests).
type DiskStore struct {
	fs  afero.Fs
	dir string
}

// NewDiskStore crea el directorio si no existe.
func NewDiskStore(fs afero.Fs, dir string) (*DiskStore, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dir == "" {
		return nil, fmt.Errorf("storage: directorio vacío")
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: creando %s: %w", dir, err)
	}
	return &DiskStore{fs: fs, dir: dir}, nil
}

// Dir ruta del directorio de assets.
func (s *DiskStore) Dir() string { return s.dir }

func (s *DiskStore) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("storage: nombre inválido %q", name)
	}
	path := filepath.Join(s.dir, name)
	// O_EXCL: no se sobrescribe un asset existente
	f, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("storage: creando %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(path)
		return fmt.Errorf("storage: escribiendo %s: %w", name, err)
	}
	return f.Close()
}

func (s *DiskStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("storage: leyendo %s: %w", s.dir, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, e.Name())
	}
	return out, nil
}
