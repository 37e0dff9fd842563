package httptransport

import "time"

type RegisterUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

type RegisterUserResponse struct {
	Acknowledged bool      `json:"acknowledged"`
	Email        string    `json:"email,omitempty"`
	Role         string    `json:"role,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	Message      string    `json:"message,omitempty"`
}

type RoleFlagsResponse struct {
	Email    string `json:"email"`
	IsBuyer  bool   `json:"isBuyer"`
	IsSeller bool   `json:"isSeller"`
	Verified bool   `json:"verified"`
}

type AdminFlagResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

type UserDTO struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Verified bool   `json:"verified"`
}

type ListSellersResponse struct {
	Sellers []UserDTO `json:"sellers"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
