package handlers

import (
	"errors"

	"github.com/flaskinni/inni/internal/http/dto"
	"github.com/flaskinni/inni/internal/middleware"
	"github.com/flaskinni/inni/internal/rbac"
	"github.com/flaskinni/inni/internal/repositories"
	"github.com/flaskinni/inni/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PostHandler struct {
	posts *services.PostService
	log   *zap.Logger
}

func NewPostHandler(posts *services.PostService, log *zap.Logger) *PostHandler {
	return &PostHandler{posts: posts, log: log}
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	var in services.PostInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	post, err := h.posts.Create(c.Context(), middleware.GetPrincipal(c), in)
	if errors.Is(err, rbac.ErrPermissionDenied) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "not authorized"})
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: post})
}

func (h *PostHandler) List(c *fiber.Ctx) error {
	list, err := h.posts.List(
		c.Context(),
		middleware.GetPrincipal(c),
		c.Query("status"),
		c.QueryInt("limit", 20),
		c.QueryInt("offset", 0),
	)
	if err != nil {
		h.log.Error("post list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "post list failed"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: list})
}

func (h *PostHandler) GetBySlug(c *fiber.Ctx) error {
	post, err := h.posts.GetBySlug(c.Context(), middleware.GetPrincipal(c), c.Params("slug"))
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "post not found"})
	}
	if err != nil {
		h.log.Error("post lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "post lookup failed"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: post})
}

func (h *PostHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid post id"})
	}
	var in services.PostInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	post, err := h.posts.Update(c.Context(), middleware.GetPrincipal(c), id, in)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "post not found"})
	case errors.Is(err, rbac.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "not authorized"})
	case err != nil:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: post})
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid post id"})
	}

	err = h.posts.Delete(c.Context(), middleware.GetPrincipal(c), id)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "post not found"})
	case errors.Is(err, rbac.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "not authorized"})
	case err != nil:
		h.log.Error("post delete failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "post delete failed"})
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
