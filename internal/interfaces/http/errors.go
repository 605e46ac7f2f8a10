package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fulfillment-api/internal/application/dto"
	"github.com/jhoicas/fulfillment-api/internal/domain"
)

// domainError mapea los errores de dominio a respuestas HTTP. Los desajustes
// de escaneo (WrongBin, NotInBin, AlreadyFulfilled) NO pasan por aquí: son
// resultados normales del flujo del operario y responden 200 con su outcome.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrInvalidTransition):
		// Error de integración del caller, no un caso de reintento del operario.
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "operación fuera del estado válido de la sesión"})
	case errors.Is(err, domain.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sesión de picking no encontrada"})
	case errors.Is(err, domain.ErrSessionExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SESSION_EXISTS", Message: "ya existe una sesión para la orden"})
	case errors.Is(err, domain.ErrIssueNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "ISSUE_NOT_FOUND", Message: "incidencia no encontrada o ya resuelta"})
	case errors.Is(err, domain.ErrBinFrozen):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BIN_FROZEN", Message: "la ubicación está congelada"})
	case errors.Is(err, domain.ErrBinNotCandidate):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "BIN_NOT_CANDIDATE", Message: "la ubicación no está entre las candidatas"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
