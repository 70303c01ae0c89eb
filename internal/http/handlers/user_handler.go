package handlers

import (
	"context"
	"errors"

	"github.com/flaskinni/inni/internal/http/dto"
	"github.com/flaskinni/inni/internal/middleware"
	"github.com/flaskinni/inni/internal/models"
	"github.com/flaskinni/inni/internal/rbac"
	"github.com/flaskinni/inni/internal/repositories"
	"github.com/flaskinni/inni/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserHandler struct {
	users    repositories.UserStore
	identity *services.IdentityService
	log      *zap.Logger
}

func NewUserHandler(users repositories.UserStore, identity *services.IdentityService, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, identity: identity, log: log}
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	p := middleware.GetPrincipal(c)
	user, err := h.users.GetByID(c.Context(), p.ID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "user not found"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{
		"user":  user,
		"roles": p.Roles.Names(),
	}})
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	p := middleware.GetPrincipal(c)
	user, err := h.users.UpdateProfile(c.Context(), p.ID, repositories.ProfileUpdate{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		Address:       req.Address,
		About:         req.About,
		Image:         req.Image,
		PublicProfile: req.PublicProfile,
	})
	if err != nil {
		h.log.Error("profile update failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "profile update failed"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: user})
}

// GetProfile is public but honors the public_profile toggle: hidden
// profiles 404 for everyone except the owner and admins.
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}

	user, err := h.users.GetByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "profile not found"})
	}

	p := middleware.GetPrincipal(c)
	if !user.PublicProfile && user.ID != p.ID && !rbac.RequireAll(p, models.RoleAdmin) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "profile not found"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.NewPublicProfile(user)})
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context(), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		h.log.Error("user list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "user list failed"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: users})
}

func (h *UserHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.users.ListRoles(c.Context())
	if err != nil {
		h.log.Error("role list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "role list failed"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: roles})
}

func (h *UserHandler) GrantRole(c *fiber.Ctx) error {
	return h.changeRole(c, h.identity.GrantRole)
}

func (h *UserHandler) RevokeRole(c *fiber.Ctx) error {
	return h.changeRole(c, h.identity.RevokeRole)
}

func (h *UserHandler) changeRole(c *fiber.Ctx, op func(ctx context.Context, actor rbac.Principal, userID uuid.UUID, roleName string) error) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}
	var req dto.RoleChangeRequest
	if err := c.BodyParser(&req); err != nil || req.Role == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "role is required"})
	}

	err = op(c.Context(), middleware.GetPrincipal(c), id, req.Role)
	switch {
	case errors.Is(err, rbac.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "not authorized"})
	case errors.Is(err, repositories.ErrRoleNotFound):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: "role does not exist"})
	case err != nil:
		h.log.Error("role change failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "role change failed"})
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}
	var req dto.SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	p := middleware.GetPrincipal(c)
	err = h.identity.SetActive(c.Context(), p, id, req.Active)
	if errors.Is(err, rbac.ErrPermissionDenied) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "not authorized"})
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "user not found"})
	}
	if err != nil {
		h.log.Error("set active failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "set active failed"})
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
