package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/netxel/inventario-api/internal/application/dto"
	"github.com/netxel/inventario-api/internal/domain"
)

// errorBody mapea un error de dominio a (status, código, mensaje).
// Los errores no reconocidos se reportan como INTERNAL sin filtrar detalles.
func errorBody(err error) (int, dto.ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
	case errors.Is(err, domain.ErrTrackingRequired):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "TRACKING_REQUIRED", Message: "número de guía requerido para envíos no locales"}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente para la salida"}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado"}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual"}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "sin permisos sobre el recurso"}
	case errors.Is(err, domain.ErrNoStoreSelected):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "NO_STORE_SELECTED", Message: "no hay tienda seleccionada"}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	}
}

// respondError responde el error mapeado como JSON.
func respondError(c *fiber.Ctx, err error) error {
	status, body := errorBody(err)
	return c.Status(status).JSON(body)
}
