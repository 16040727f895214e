package entity

// NavItem entrada del menú de navegación.
type NavItem struct {
	Label string
	Path  string
}
