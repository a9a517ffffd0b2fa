package httpadapter

import (
	"context"
	"log/slog"

	application "rutanagenda/contexts/identity-access/user-service/application"
	"rutanagenda/contexts/identity-access/user-service/application/commands"
	"rutanagenda/contexts/identity-access/user-service/application/queries"
	"rutanagenda/contexts/identity-access/user-service/domain/entities"
	domainerrors "rutanagenda/contexts/identity-access/user-service/domain/errors"
	httptransport "rutanagenda/contexts/identity-access/user-service/transport/http"
)

type Handler struct {
	Authenticate     commands.AuthenticateUseCase
	CreateUser       commands.CreateUserUseCase
	UpdateUser       commands.UpdateUserUseCase
	DeleteUser       commands.DeleteUserUseCase
	ListUsers        queries.ListUsersUseCase
	GetUser          queries.GetUserUseCase
	ListSectionHeads queries.ListSectionHeadsUseCase
	Logger           *slog.Logger
}

// LoginHandler godoc
// @Summary Log in
// @Description Verifies credentials and opens a session. The token is also set as an HttpOnly cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body httptransport.LoginRequest true "Credentials"
// @Success 200 {object} httptransport.LoginResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /api/auth/login [post]
func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (httptransport.UserDTO, error) {
	if err := requestValidator.Struct(req); err != nil {
		return httptransport.UserDTO{}, domainerrors.ErrInvalidCredentialsInput
	}
	user, err := h.Authenticate.Execute(ctx, commands.AuthenticateCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return MapUser(user), nil
}

// ListUsersHandler godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httptransport.ListUsersResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/users [get]
func (h Handler) ListUsersHandler(ctx context.Context, actor entities.Actor) (httptransport.ListUsersResponse, error) {
	items, err := h.ListUsers.Execute(ctx, actor)
	if err != nil {
		return httptransport.ListUsersResponse{}, err
	}
	return httptransport.ListUsersResponse{Items: mapUsers(items)}, nil
}

// ListSectionHeadsHandler godoc
// @Summary List section heads
// @Description Users with role kepala_seksi ordered by name, used for delegation.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httptransport.ListUsersResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/users/kasi [get]
func (h Handler) ListSectionHeadsHandler(ctx context.Context, actor entities.Actor) (httptransport.ListUsersResponse, error) {
	items, err := h.ListSectionHeads.Execute(ctx, actor)
	if err != nil {
		return httptransport.ListUsersResponse{}, err
	}
	return httptransport.ListUsersResponse{Items: mapUsers(items)}, nil
}

// GetUserHandler godoc
// @Summary Get user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "User ID"
// @Success 200 {object} httptransport.UserResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/users/{user_id} [get]
func (h Handler) GetUserHandler(ctx context.Context, actor entities.Actor, userID string) (httptransport.UserResponse, error) {
	item, err := h.GetUser.Execute(ctx, actor, userID)
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return httptransport.UserResponse{User: MapUser(item)}, nil
}

// CreateUserHandler godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.CreateUserRequest true "New user"
// @Success 201 {object} httptransport.UserResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/users [post]
func (h Handler) CreateUserHandler(ctx context.Context, actor entities.Actor, req httptransport.CreateUserRequest) (httptransport.UserResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	if err := validateRequest(req); err != nil {
		logger.Info("create user request rejected",
			"event", "http_create_user_invalid",
			"module", "identity-access/user-service",
			"layer", "transport",
			"error", err.Error(),
		)
		return httptransport.UserResponse{}, err
	}
	item, err := h.CreateUser.Execute(ctx, commands.CreateUserCommand{
		Actor:       actor,
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		SeksiName:   req.SeksiName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return httptransport.UserResponse{User: MapUser(item)}, nil
}

// UpdateUserHandler godoc
// @Summary Update user
// @Description Password is optional; when empty the stored password is kept.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "User ID"
// @Param request body httptransport.UpdateUserRequest true "User fields"
// @Success 200 {object} httptransport.UserResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/users/{user_id} [put]
func (h Handler) UpdateUserHandler(
	ctx context.Context,
	actor entities.Actor,
	userID string,
	req httptransport.UpdateUserRequest,
) (httptransport.UserResponse, error) {
	if err := validateRequest(req); err != nil {
		return httptransport.UserResponse{}, err
	}
	item, err := h.UpdateUser.Execute(ctx, commands.UpdateUserCommand{
		Actor:       actor,
		UserID:      userID,
		Name:        req.Name,
		Email:       req.Email,
		Role:        req.Role,
		SeksiName:   req.SeksiName,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return httptransport.UserResponse{User: MapUser(item)}, nil
}

// DeleteUserHandler godoc
// @Summary Delete user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "User ID"
// @Success 200 {object} httptransport.DeleteUserResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/users/{user_id} [delete]
func (h Handler) DeleteUserHandler(ctx context.Context, actor entities.Actor, userID string) (httptransport.DeleteUserResponse, error) {
	if err := h.DeleteUser.Execute(ctx, commands.DeleteUserCommand{
		Actor:  actor,
		UserID: userID,
	}); err != nil {
		return httptransport.DeleteUserResponse{}, err
	}
	return httptransport.DeleteUserResponse{
		Success: true,
		Message: "User berhasil dihapus",
	}, nil
}

func MapUser(item entities.User) httptransport.UserDTO {
	return httptransport.UserDTO{
		UserID:      item.UserID,
		Name:        item.Name,
		Email:       item.Email,
		Role:        string(item.Role),
		SeksiName:   item.SeksiName,
		PhoneNumber: item.PhoneNumber,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func mapUsers(items []entities.User) []httptransport.UserDTO {
	result := make([]httptransport.UserDTO, 0, len(items))
	for _, item := range items {
		result = append(result, MapUser(item))
	}
	return result
}
