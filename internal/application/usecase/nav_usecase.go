package usecase

import (
	"context"

	"github.com/Maiar0/inventory-web-backend/internal/application/dto"
	"github.com/Maiar0/inventory-web-backend/internal/domain"
	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
	"github.com/Maiar0/inventory-web-backend/internal/domain/repository"
)

var (
	userNav = []entity.NavItem{
		{Label: "Inventory", Path: "/inventory"},
		{Label: "Reports", Path: "/reports"},
	}
	adminNav = append(append([]entity.NavItem{}, userNav...),
		entity.NavItem{Label: "Users", Path: "/users"},
		entity.NavItem{Label: "Settings", Path: "/settings"},
	)
)

// NavUseCase arma el menú según el rol guardado del usuario.
type NavUseCase struct {
	users repository.UserRepository
}

// NewNavUseCase construye el caso de uso.
func NewNavUseCase(users repository.UserRepository) *NavUseCase {
	return &NavUseCase{users: users}
}

// ForUser devuelve el menú del usuario. El rol se lee de la base, no del token.
func (uc *NavUseCase) ForUser(ctx context.Context, userID string) (*dto.NavResponse, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	items := NavFor(user.Role)
	out := &dto.NavResponse{Role: string(user.Role), Items: make([]dto.NavItemResponse, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, dto.NavItemResponse{Label: it.Label, Path: it.Path})
	}
	return out, nil
}

// NavFor menú estático por rol.
func NavFor(role entity.Role) []entity.NavItem {
	switch role {
	case entity.RoleRoot, entity.RoleAdmin:
		return adminNav
	case entity.RoleUser:
		return userNav
	}
	return nil
}
