package dto

// NavItemResponse entrada del menú.
type NavItemResponse struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// NavResponse menú según el rol del usuario.
type NavResponse struct {
	Role  string            `json:"role"`
	Items []NavItemResponse `json:"items"`
}
