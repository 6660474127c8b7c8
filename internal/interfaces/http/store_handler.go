package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/netxel/inventario-api/internal/application/dto"
	"github.com/netxel/inventario-api/internal/application/store"
	"github.com/netxel/inventario-api/internal/domain"
	"github.com/netxel/inventario-api/internal/domain/entity"
)

// StoreHandler maneja las peticiones HTTP de tiendas (protegido).
type StoreHandler struct {
	uc *store.UseCase
}

// NewStoreHandler construye el handler.
func NewStoreHandler(uc *store.UseCase) *StoreHandler {
	return &StoreHandler{uc: uc}
}

func toStoreResponse(s *entity.Store) dto.StoreResponse {
	return dto.StoreResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		Name:        s.Name,
		Description: s.Description,
		Address:     s.Address,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// Create godoc
// @Summary      Crear tienda
// @Tags         stores
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStoreRequest  true  "Datos de la tienda"
// @Success      201   {object}  dto.StoreResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stores [post]
func (h *StoreHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStoreRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	s, err := h.uc.Create(c.Context(), GetUserID(c), in.Name, in.Description, in.Address)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStoreResponse(s))
}

// List godoc
// @Summary      Listar tiendas del usuario
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StoreResponse
// @Router       /api/stores [get]
func (h *StoreHandler) List(c *fiber.Ctx) error {
	stores, err := h.uc.List(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StoreResponse, 0, len(stores))
	for _, s := range stores {
		out = append(out, toStoreResponse(s))
	}
	return c.JSON(out)
}

// Current godoc
// @Summary      Tienda actual de la sesión
// @Description  Revalida la selección guardada; con una sola tienda se auto-selecciona.
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CurrentStoreResponse
// @Router       /api/stores/current [get]
func (h *StoreHandler) Current(c *fiber.Ctx) error {
	s, err := h.uc.Current(c.Context(), GetUserID(c))
	if err != nil {
		// Sin selección no es un error HTTP: el cliente muestra el selector.
		if errors.Is(err, domain.ErrNoStoreSelected) {
			return c.JSON(dto.CurrentStoreResponse{Selected: false})
		}
		return respondError(c, err)
	}
	resp := toStoreResponse(s)
	return c.JSON(dto.CurrentStoreResponse{Selected: true, Store: &resp})
}

// GetByID godoc
// @Summary      Obtener tienda por ID
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tienda"
// @Success      200  {object}  dto.StoreResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{id} [get]
func (h *StoreHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.uc.Get(GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStoreResponse(s))
}

// Update godoc
// @Summary      Actualizar tienda
// @Tags         stores
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tienda"
// @Param        body  body  dto.UpdateStoreRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.StoreResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stores/{id} [put]
func (h *StoreHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStoreRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	s, err := h.uc.Update(c.Context(), GetUserID(c), c.Params("id"), in.Name, in.Description, in.Address)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStoreResponse(s))
}

// Delete godoc
// @Summary      Eliminar tienda
// @Tags         stores
// @Security     Bearer
// @Param        id  path  string  true  "ID de la tienda"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{id} [delete]
func (h *StoreHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Select godoc
// @Summary      Seleccionar tienda actual
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la tienda"
// @Success      200  {object}  dto.StoreResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{id}/select [post]
func (h *StoreHandler) Select(c *fiber.Ctx) error {
	s, err := h.uc.Select(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStoreResponse(s))
}
