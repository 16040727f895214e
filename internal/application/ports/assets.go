package ports

import "context"

// AssetStore almacén de imágenes subidas.
type AssetStore interface {
	Save(ctx context.Context, name string, data []byte) error
	List(ctx context.Context) ([]string, error)
}
