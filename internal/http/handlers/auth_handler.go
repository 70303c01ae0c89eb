package handlers

import (
	"errors"

	"github.com/flaskinni/inni/internal/http/dto"
	"github.com/flaskinni/inni/internal/middleware"
	"github.com/flaskinni/inni/internal/repositories"
	"github.com/flaskinni/inni/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	identity *services.IdentityService
	log      *zap.Logger
}

func NewAuthHandler(identity *services.IdentityService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{identity: identity, log: log}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.Email == "" || len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "email and a password of at least 8 characters are required"})
	}

	user, err := h.identity.Register(c.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if errors.Is(err, services.ErrInvalidEmail) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "a valid email address is required"})
	}
	if errors.Is(err, repositories.ErrDuplicateIdentity) {
		// Deliberately vague so the endpoint cannot confirm whether an
		// account exists.
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: "this email may already be registered"})
	}
	if err != nil {
		h.log.Error("registration failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "registration failed"})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: user})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	token, user, err := h.identity.Login(c.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrAccountDisabled) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid credentials"})
	}
	if err != nil {
		h.log.Error("login failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "login failed"})
	}
	return c.JSON(dto.LoginResponse{Token: token, User: user})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	err := h.identity.Logout(c.Context(), p, middleware.GetTokenJTI(c), middleware.GetTokenExpiry(c))
	if err != nil {
		h.log.Error("logout failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "logout failed"})
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if len(req.NewPassword) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "new password must be at least 8 characters"})
	}

	p := middleware.GetPrincipal(c)
	err := h.identity.ChangePassword(c.Context(), p.ID, req.OldPassword, req.NewPassword)
	if errors.Is(err, services.ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid credentials"})
	}
	if err != nil {
		h.log.Error("password change failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "password change failed"})
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
