package http

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/netxel/inventario-api/internal/application/dto"
	"github.com/netxel/inventario-api/internal/application/inventory"
	"github.com/netxel/inventario-api/internal/application/product"
	"github.com/netxel/inventario-api/internal/application/store"
	"github.com/netxel/inventario-api/internal/domain/entity"
	"github.com/netxel/inventario-api/internal/domain/repository"
	"github.com/netxel/inventario-api/internal/infrastructure/pdf"
)

// InventoryHandler maneja el libro de movimientos: registro, listado, parche de
// estado, estadísticas, transportadoras y lista de empaque.
type InventoryHandler struct {
	registerUC *inventory.RegisterMovementUseCase
	queryUC    *inventory.MovementQueryUseCase
	productUC  *product.UseCase
	storeUC    *store.UseCase
	pdfGen     *pdf.MarotoPDFGenerator
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	registerUC *inventory.RegisterMovementUseCase,
	queryUC *inventory.MovementQueryUseCase,
	productUC *product.UseCase,
	storeUC *store.UseCase,
	pdfGen *pdf.MarotoPDFGenerator,
) *InventoryHandler {
	return &InventoryHandler{
		registerUC: registerUC,
		queryUC:    queryUC,
		productUC:  productUC,
		storeUC:    storeUC,
		pdfGen:     pdfGen,
	}
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:              m.ID,
		ProductID:       m.ProductID,
		StoreID:         m.StoreID,
		UserID:          m.UserID,
		Type:            m.Type,
		Quantity:        m.Quantity,
		Notes:           m.Notes,
		ReferenceNumber: m.ReferenceNumber,
		Source:          m.Source,
		PreviousStock:   m.PreviousStock,
		NewStock:        m.NewStock,
		TrackingNumber:  m.TrackingNumber,
		CarrierID:       m.CarrierID,
		IsPending:       m.IsPending,
		IsSingleUnit:    m.IsSingleUnit,
		IsLocal:         m.IsLocal,
		HasPackingList:  m.HasPackingList,
		CreatedAt:       m.CreatedAt,
	}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Entrada/salida/devolución; transaccional: stock y libro en la misma tx.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.registerUC.RegisterMovementFromRequest(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// RegisterBatch godoc
// @Summary      Registrar carrito de movimientos
// @Description  Cada línea en su propia transacción; una línea fallida no revierte las demás.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterBatchRequest  true  "Carrito"
// @Success      200   {object}  dto.BatchResponse
// @Router       /api/inventory/movements/batch [post]
func (h *InventoryHandler) RegisterBatch(c *fiber.Ctx) error {
	var in dto.RegisterBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "lines no puede estar vacío"})
	}

	results := h.registerUC.RegisterBatchFromRequest(c.Context(), GetUserID(c), in)
	out := dto.BatchResponse{Lines: make([]dto.BatchResultLine, 0, len(results))}
	for _, r := range results {
		line := dto.BatchResultLine{Index: r.Index}
		if r.Err != nil {
			_, body := errorBody(r.Err)
			line.Error = &body
			out.Failed++
		} else {
			resp := toMovementResponse(r.Movement)
			line.Movement = &resp
			out.Committed++
		}
		out.Lines = append(out.Lines, line)
	}
	return c.JSON(out)
}

// movementFilterFromQuery arma el filtro del listado desde los query params.
func movementFilterFromQuery(c *fiber.Ctx) (repository.MovementFilter, error) {
	var f repository.MovementFilter
	f.Type = c.Query("type")
	f.ProductID = c.Query("product_id")
	f.CarrierID = c.Query("carrier_id")

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, fmt.Errorf("from inválido: %w", err)
		}
		f.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, fmt.Errorf("to inválido: %w", err)
		}
		f.To = &t
	}
	if raw := c.Query("is_pending"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, fmt.Errorf("is_pending inválido: %w", err)
		}
		f.IsPending = &b
	}
	if raw := c.Query("has_packing_list"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, fmt.Errorf("has_packing_list inválido: %w", err)
		}
		f.HasPackingList = &b
	}
	return f, nil
}

// List godoc
// @Summary      Listar movimientos de una tienda
// @Description  Página del libro (created_at DESC) con nombres resueltos y total filtrado.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        store_id          query  string  true   "ID de la tienda"
// @Param        type              query  string  false  "entrada | salida | devolucion"
// @Param        product_id        query  string  false  "Filtrar por producto"
// @Param        carrier_id        query  string  false  "Filtrar por transportadora"
// @Param        is_pending        query  bool    false  "Solo pendientes"
// @Param        has_packing_list  query  bool    false  "Solo con lista de empaque"
// @Param        from              query  string  false  "Desde (RFC3339)"
// @Param        to                query  string  false  "Hasta (RFC3339)"
// @Param        limit             query  int     false  "Límite"   default(20)
// @Param        offset            query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	storeID := c.Query("store_id")
	if storeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "store_id es requerido"})
	}
	f, err := movementFilterFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	movements, total, err := h.queryUC.List(GetUserID(c), storeID, f, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.MovementWithNamesResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, dto.MovementWithNamesResponse{
			MovementResponse: toMovementResponse(&m.InventoryMovement),
			ProductName:      m.ProductName,
			CarrierName:      m.CarrierName,
		})
	}
	return c.JSON(dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	})
}

// GetByID godoc
// @Summary      Obtener movimiento por ID
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	mov, err := h.queryUC.GetMovement(GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementResponse(mov))
}

// UpdateStatus godoc
// @Summary      Actualizar estado de envío de un movimiento
// @Description  Solo guía, transportadora, pendiente y notas; cantidad y snapshots son inmutables.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento"
// @Param        body  body  dto.UpdateMovementStatusRequest  true  "Campos a parchear"
// @Success      200   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [patch]
func (h *InventoryHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateMovementStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.queryUC.UpdateStatus(GetUserID(c), c.Params("id"), repository.MovementStatusPatch{
		TrackingNumber: in.TrackingNumber,
		CarrierID:      in.CarrierID,
		IsPending:      in.IsPending,
		Notes:          in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementResponse(mov))
}

// Stats godoc
// @Summary      Estadísticas de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  true   "ID de la tienda"
// @Param        days      query  int     false  "Ventana en días"  default(30)
// @Success      200  {object}  dto.MovementStatsResponse
// @Router       /api/inventory/stats [get]
func (h *InventoryHandler) Stats(c *fiber.Ctx) error {
	storeID := c.Query("store_id")
	if storeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "store_id es requerido"})
	}
	stats, err := h.queryUC.Stats(GetUserID(c), storeID, c.QueryInt("days", 30))
	if err != nil {
		return respondError(c, err)
	}
	byDay := make(map[string]dto.DayStats, len(stats.ByDay))
	for day, dc := range stats.ByDay {
		byDay[day] = dto.DayStats{Entries: dc.Entries, Exits: dc.Exits, Returns: dc.Returns}
	}
	return c.JSON(dto.MovementStatsResponse{
		TotalMovements: stats.TotalMovements,
		Entries:        stats.Entries,
		Exits:          stats.Exits,
		Returns:        stats.Returns,
		TotalQuantity:  stats.TotalQuantity,
		ByDay:          byDay,
	})
}

// Carriers godoc
// @Summary      Transportadoras activas
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CarrierResponse
// @Router       /api/inventory/carriers [get]
func (h *InventoryHandler) Carriers(c *fiber.Ctx) error {
	carriers, err := h.queryUC.Carriers()
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CarrierResponse, 0, len(carriers))
	for _, cr := range carriers {
		out = append(out, dto.CarrierResponse{ID: cr.ID, Name: cr.Name, Code: cr.Code})
	}
	return c.JSON(out)
}

// PackingList godoc
// @Summary      Lista de empaque PDF de una salida
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id}/packing-list [get]
func (h *InventoryHandler) PackingList(c *fiber.Ctx) error {
	userID := GetUserID(c)
	mov, err := h.queryUC.GetMovement(userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if mov.Type != entity.MovementTypeSalida {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "la lista de empaque solo aplica a salidas"})
	}
	prod, err := h.productUC.Get(userID, mov.ProductID)
	if err != nil {
		return respondError(c, err)
	}
	st, err := h.storeUC.Get(userID, mov.StoreID)
	if err != nil {
		return respondError(c, err)
	}

	carrierName := ""
	if mov.CarrierID != nil && *mov.CarrierID != "" {
		carriers, err := h.queryUC.Carriers()
		if err == nil {
			for _, cr := range carriers {
				if cr.ID == *mov.CarrierID {
					carrierName = cr.Name
					break
				}
			}
		}
	}

	doc, err := h.pdfGen.GeneratePackingList(mov, prod, st, carrierName)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="empaque-%s.pdf"`, mov.ID))
	return c.Send(doc)
}
