package handlers

import (
	"github.com/flaskinni/inni/internal/http/dto"
	"github.com/flaskinni/inni/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BuzzHandler serves the admin panel's event feeds. Routes are gated
// on the admin role by the router.
type BuzzHandler struct {
	buzz *services.BuzzService
	log  *zap.Logger
}

func NewBuzzHandler(buzz *services.BuzzService, log *zap.Logger) *BuzzHandler {
	return &BuzzHandler{buzz: buzz, log: log}
}

func (h *BuzzHandler) Recent(c *fiber.Ctx) error {
	entries, err := h.buzz.Recent(c.Context(), c.QueryInt("limit", 50))
	if err != nil {
		h.log.Error("buzz query failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: "event feed unavailable"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.NewBuzzEntries(entries)})
}

func (h *BuzzHandler) ByType(c *fiber.Ctx) error {
	entries, err := h.buzz.ByType(c.Context(), c.Params("type"), c.QueryInt("limit", 50))
	if err != nil {
		h.log.Error("buzz query failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: "event feed unavailable"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.NewBuzzEntries(entries)})
}

func (h *BuzzHandler) ByActor(c *fiber.Ctx) error {
	actorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid actor id"})
	}
	entries, err := h.buzz.ByActor(c.Context(), actorID, c.QueryInt("limit", 50))
	if err != nil {
		h.log.Error("buzz query failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: "event feed unavailable"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.NewBuzzEntries(entries)})
}
