package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type UserDTO struct {
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	SeksiName   string    `json:"seksi_name,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserDTO   `json:"user"`
}

type SessionResponse struct {
	User      UserDTO   `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ListUsersResponse struct {
	Items []UserDTO `json:"items"`
}

type UserResponse struct {
	User UserDTO `json:"user"`
}

type CreateUserRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	Role        string `json:"role" validate:"required"`
	SeksiName   string `json:"seksi_name" validate:"max=120"`
	PhoneNumber string `json:"phone_number" validate:"required,max=32"`
}

type UpdateUserRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Email       string  `json:"email" validate:"required,email,max=255"`
	Role        string  `json:"role" validate:"required"`
	SeksiName   string  `json:"seksi_name" validate:"max=120"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32"`
	Password    string  `json:"password" validate:"omitempty,min=6,max=72"`
}

type DeleteUserResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
