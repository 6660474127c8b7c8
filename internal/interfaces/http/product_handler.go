package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/netxel/inventario-api/internal/application/dto"
	"github.com/netxel/inventario-api/internal/application/product"
	"github.com/netxel/inventario-api/internal/domain/entity"
	"github.com/netxel/inventario-api/internal/infrastructure/pdf"
	pkgbarcode "github.com/netxel/inventario-api/pkg/barcode"
)

// ProductHandler maneja las peticiones HTTP de productos (protegido).
type ProductHandler struct {
	uc     *product.UseCase
	pdfGen *pdf.MarotoPDFGenerator
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *product.UseCase, pdfGen *pdf.MarotoPDFGenerator) *ProductHandler {
	return &ProductHandler{uc: uc, pdfGen: pdfGen}
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:        p.ID,
		StoreID:   p.StoreID,
		Name:      p.Name,
		Category:  p.Category,
		UnitCost:  p.UnitCost,
		SalePrice: p.SalePrice,
		Stock:     p.Stock,
		ImageURL:  p.ImageURL,
		Barcode:   p.Barcode,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProductResponse(p))
}

// List godoc
// @Summary      Listar o buscar productos de una tienda
// @Description  Con q busca por nombre/categoría, insensible a mayúsculas y acentos,
// @Description  sobre los primeros 500 productos de la tienda (más recientes primero).
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  true   "ID de la tienda"
// @Param        q         query  string  false  "Texto de búsqueda"
// @Param        limit     query  int     false  "Límite"   default(20)
// @Param        offset    query  int     false  "Offset"   default(0)
// @Success      200       {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	storeID := c.Query("store_id")
	if storeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "store_id es requerido"})
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

	var (
		products []*entity.Product
		err      error
	)
	if q := c.Query("q"); q != "" {
		products, err = h.uc.Search(c.Context(), GetUserID(c), storeID, q)
	} else {
		products, err = h.uc.List(c.Context(), GetUserID(c), storeID, limit, offset)
	}
	if err != nil {
		return respondError(c, err)
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p))
	}
	return c.JSON(dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	})
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.uc.Get(GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toProductResponse(p))
}

// GetByBarcode godoc
// @Summary      Obtener producto por código de barras (escáner)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código de barras"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/barcode/{code} [get]
func (h *ProductHandler) GetByBarcode(c *fiber.Ctx) error {
	p, err := h.uc.GetByBarcode(GetUserID(c), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toProductResponse(p))
}

// Update godoc
// @Summary      Actualizar producto
// @Description  El stock no es editable aquí: solo cambia vía movimientos.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.Update(GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toProductResponse(p))
}

// Delete godoc
// @Summary      Eliminar producto
// @Description  Sus movimientos quedan en el libro con el nombre centinela.
// @Tags         products
// @Security     Bearer
// @Param        id  path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkImport godoc
// @Summary      Importación masiva de productos
// @Description  Filas independientes: reporta resultado por fila (fallo parcial estructurado).
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkImportRequest  true  "Filas a importar"
// @Success      200   {object}  dto.BulkImportResponse
// @Router       /api/products/bulk [post]
func (h *ProductHandler) BulkImport(c *fiber.Ctx) error {
	var in dto.BulkImportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "lines no puede estar vacío"})
	}

	results := h.uc.BulkImport(c.Context(), GetUserID(c), in.Lines)
	out := dto.BulkImportResponse{Lines: make([]dto.BulkImportResultLine, 0, len(results))}
	for _, r := range results {
		line := dto.BulkImportResultLine{Index: r.Index}
		if r.Err != nil {
			_, body := errorBody(r.Err)
			line.Error = &body
			out.Failed++
		} else {
			resp := toProductResponse(r.Product)
			line.Product = &resp
			out.Created++
		}
		out.Lines = append(out.Lines, line)
	}
	return c.JSON(out)
}

// BarcodePNG godoc
// @Summary      Imagen PNG del código de barras del producto
// @Tags         products
// @Security     Bearer
// @Produce      png
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/barcode.png [get]
func (h *ProductHandler) BarcodePNG(c *fiber.Ctx) error {
	p, err := h.uc.Get(GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	img, err := pkgbarcode.RenderPNG(p.Barcode, 300, 100)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(img)
}

// Label godoc
// @Summary      Etiqueta PDF imprimible del producto
// @Tags         products
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/label [get]
func (h *ProductHandler) Label(c *fiber.Ctx) error {
	p, err := h.uc.Get(GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	doc, err := h.pdfGen.GenerateProductLabel(p)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="etiqueta-%s.pdf"`, p.Barcode))
	return c.Send(doc)
}
