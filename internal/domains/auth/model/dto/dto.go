package dto

import (
	"time"

	userModel "inap/internal/domains/user/model"
	userDto "inap/internal/domains/user/model/dto"
	"inap/shared/constant"
)

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// ToUserRequest registers every self-service account as a customer.
func (r *RegisterRequest) ToUserRequest() userDto.CreateUserRequest {
	return userDto.CreateUserRequest{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     constant.RoleCustomer,
	}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login" json:"last_login" validate:"required"`
}

type LoginResponse struct {
	User userDto.UserResponse `json:"user"`
}

func (l *LoginResponse) FromModel(user userModel.User) {
	l.User.FromModel(user)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password" json:"password" validate:"required"`
}
