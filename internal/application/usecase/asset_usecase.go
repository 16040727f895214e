package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Maiar0/inventory-web-backend/internal/application/dto"
	"github.com/Maiar0/inventory-web-backend/internal/application/ports"
	"github.com/Maiar0/inventory-web-backend/internal/domain"
)

// DefaultMaxAssetBytes límite de subida si no se configura otro (5 MiB).
const DefaultMaxAssetBytes = 5 * 1024 * 1024

// AssetPublicPrefix ruta pública bajo la que se sirven las imágenes.
const AssetPublicPrefix = "/images/"

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// AssetUseCase sube y lista imágenes de producto.
type AssetUseCase struct {
	store    ports.AssetStore
	maxBytes int64
	now      func() time.Time
}

// NewAssetUseCase construye el caso de uso. maxBytes <= 0 usa DefaultMaxAssetBytes.
func NewAssetUseCase(store ports.AssetStore, maxBytes int64) *AssetUseCase {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxAssetBytes
	}
	return &AssetUseCase{store: store, maxBytes: maxBytes, now: time.Now}
}

// Upload valida el contenido (no la extensión declarada) y guarda como <base>-<unixmilli><ext>.
func (uc *AssetUseCase) Upload(ctx context.Context, originalName string, data []byte) (*dto.AssetResponse, error) {
	if len(data) == 0 {
		return nil, domain.NewValidationError("asset", "archivo vacío")
	}
	if int64(len(data)) > uc.maxBytes {
		return nil, domain.NewValidationError("asset", fmt.Sprintf("supera el máximo de %d bytes", uc.maxBytes))
	}
	mt := mimetype.Detect(data)
	ext, ok := "", false
	for mime, e := range allowedImageTypes {
		if mt.Is(mime) {
			ext, ok = e, true
			break
		}
	}
	if !ok {
		return nil, domain.NewValidationError("asset", "solo se aceptan imágenes JPEG, PNG o GIF (recibido "+mt.String()+")")
	}

	name := fmt.Sprintf("%s-%d%s", baseName(originalName), uc.now().UnixMilli(), ext)
	if err := uc.store.Save(ctx, name, data); err != nil {
		return nil, err
	}
	return &dto.AssetResponse{Name: name, ImageURL: AssetPublicPrefix + name}, nil
}

// List devuelve las imágenes almacenadas en orden alfabético.
func (uc *AssetUseCase) List(ctx context.Context) ([]dto.AssetResponse, error) {
	names, err := uc.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	out := make([]dto.AssetResponse, 0, len(names))
	for _, n := range names {
		out = append(out, dto.AssetResponse{Name: n, ImageURL: AssetPublicPrefix + n})
	}
	return out, nil
}

// baseName deja solo letras, dígitos, '-' y '_' del nombre sin extensión.
func baseName(original string) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "asset"
	}
	return b.String()
}
