package dto

// AssetResponse imagen almacenada y su URL pública.
type AssetResponse struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}
