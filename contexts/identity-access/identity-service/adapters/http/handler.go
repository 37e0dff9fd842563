package httpadapter

import (
	"context"
	"log/slog"

	"phonedeck/contexts/identity-access/identity-service/application"
	"phonedeck/contexts/identity-access/identity-service/ports"
	httptransport "phonedeck/contexts/identity-access/identity-service/transport/http"
)

// Handler maps HTTP DTOs to application calls.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) RegisterHandler(ctx context.Context, request httptransport.RegisterUserRequest) (httptransport.RegisterUserResponse, error) {
	user, err := h.Service.Register(ctx, request.Email, request.Name, request.Role)
	if err != nil {
		return httptransport.RegisterUserResponse{}, err
	}
	return httptransport.RegisterUserResponse{
		Acknowledged: true,
		Email:        user.Email,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
	}, nil
}

func (h Handler) RoleFlagsHandler(ctx context.Context, email string) (httptransport.RoleFlagsResponse, error) {
	flags, err := h.Service.RoleFlags(ctx, email)
	if err != nil {
		return httptransport.RoleFlagsResponse{}, err
	}
	return httptransport.RoleFlagsResponse{
		Email:    flags.Email,
		IsBuyer:  flags.IsBuyer,
		IsSeller: flags.IsSeller,
		Verified: flags.Verified,
	}, nil
}

func (h Handler) AdminFlagHandler(ctx context.Context, email string) (httptransport.AdminFlagResponse, error) {
	isAdmin, err := h.Service.IsAdmin(ctx, email)
	if err != nil {
		return httptransport.AdminFlagResponse{}, err
	}
	return httptransport.AdminFlagResponse{IsAdmin: isAdmin}, nil
}

func (h Handler) CompleteBuyerSignupHandler(ctx context.Context, email string) (httptransport.UserDTO, error) {
	user, err := h.Service.CompleteBuyerSignup(ctx, email)
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return userDTO(user), nil
}

func (h Handler) GrantAdminHandler(ctx context.Context, email string) (httptransport.UserDTO, error) {
	user, err := h.Service.GrantAdmin(ctx, email)
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return userDTO(user), nil
}

func (h Handler) VerifySellerHandler(ctx context.Context, email string) (httptransport.UserDTO, error) {
	user, err := h.Service.VerifySeller(ctx, email)
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return userDTO(user), nil
}

func (h Handler) ListSellersHandler(ctx context.Context) (httptransport.ListSellersResponse, error) {
	sellers, err := h.Service.ListSellers(ctx)
	if err != nil {
		return httptransport.ListSellersResponse{}, err
	}
	items := make([]httptransport.UserDTO, 0, len(sellers))
	for _, seller := range sellers {
		items = append(items, userDTO(seller))
	}
	return httptransport.ListSellersResponse{Sellers: items}, nil
}

func (h Handler) DeleteSellerHandler(ctx context.Context, email string) error {
	return h.Service.DeleteSeller(ctx, email)
}

func userDTO(user ports.User) httptransport.UserDTO {
	return httptransport.UserDTO{
		Email:    user.Email,
		Name:     user.Name,
		Role:     user.Role,
		Status:   user.Status,
		Verified: user.Verified,
	}
}
