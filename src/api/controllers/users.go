package controllers

import (
	"context"

	"stocksim/src/schemas"
	"stocksim/src/services"
)

type UsersControllerI interface {
	Register(ctx context.Context, req *schemas.RegisterRequest) (*schemas.AuthResponse, error)
	Login(ctx context.Context, req *schemas.LoginRequest) (*schemas.AuthResponse, error)
}

type UsersController struct {
	AuthService services.AuthServiceI
}

func NewUsersController(authService services.AuthServiceI) *UsersController {
	return &UsersController{AuthService: authService}
}

func (c *UsersController) Register(ctx context.Context, req *schemas.RegisterRequest) (*schemas.AuthResponse, error) {
	return c.AuthService.Register(ctx, req.Email, req.Password, req.Name)
}

func (c *UsersController) Login(ctx context.Context, req *schemas.LoginRequest) (*schemas.AuthResponse, error) {
	return c.AuthService.Login(ctx, req.Email, req.Password)
}
