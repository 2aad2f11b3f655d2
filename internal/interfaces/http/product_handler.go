package http

import (
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/catalog"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
)

// maxImageBytes límite de tamaño de la imagen adjunta (5 MB).
const maxImageBytes = 5 << 20

// ProductHandler maneja las peticiones HTTP del catálogo (protegido).
type ProductHandler struct {
	uc *catalog.UseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.UseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto
// @Description  Acepta JSON o multipart/form-data (campo "image" para la foto).
// @Description  Si quantity > 0 se genera una orden de compra interna y el
// @Description  dashboard del mes acumula según ?mode (admin_management|sales).
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Param        mode  query  string  false  "Modo contable del ingreso inicial"  Enums(admin_management, sales)
// @Param        body  body   dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if isMultipart(c) {
		parsed, err := parseCreateProductForm(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
		}
		in = *parsed
	} else if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	mode, err := domain.ParseAccountingMode(c.Query("mode"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_MODE", Message: "mode debe ser admin_management o sales"})
	}
	out, err := h.uc.Create(c.Context(), in, GetUserID(c), mode)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
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
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Description  keyword busca en nombre y descripción, insensible a tildes.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        keyword  query  string  false  "Búsqueda por texto"
// @Param        limit    query  int     false  "Límite"   default(20)
// @Param        offset   query  int     false  "Offset"   default(0)
// @Success      200      {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}
	out, err := h.uc.List(c.Context(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Acepta JSON o multipart/form-data. Un aumento de quantity se
// @Description  registra como recepción (orden de compra interna); una
// @Description  disminución solo corrige el stock.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Param        id    path   string  true   "ID del producto"
// @Param        mode  query  string  false  "Modo contable del aumento de stock"  Enums(admin_management, sales)
// @Param        body  body   dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateProductRequest
	if isMultipart(c) {
		parsed, err := parseUpdateProductForm(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
		}
		in = *parsed
	} else if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	mode, err := domain.ParseAccountingMode(c.Query("mode"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_MODE", Message: "mode debe ser admin_management o sales"})
	}
	out, err := h.uc.Update(c.Context(), id, in, GetUserID(c), mode)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AdjustQuantity godoc
// @Summary      Ajustar stock de un producto
// @Description  Delta positivo = recepción (orden interna + acumulado del mes
// @Description  según mode); delta negativo = corrección sin efecto contable.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.AdjustQuantityRequest  true  "delta y mode"
// @Success      200   {object}  dto.ProductResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/quantity [patch]
func (h *ProductHandler) AdjustQuantity(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.AdjustQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AdjustQuantity(c.Context(), id, in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Description  Solo con stock en cero (400 si quedan unidades). No revierte
// @Description  acumulados del dashboard; la imagen asociada se descarta del
// @Description  media store.
// @Tags         products
// @Security     Bearer
// @Param        id  path  string  true  "ID del producto"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkImport godoc
// @Summary      Importación masiva de productos
// @Description  Procesa cada fila de forma independiente; las filas inválidas
// @Description  se reportan en errors sin frenar el resto.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkImportRequest  true  "Filas a importar"
// @Success      200   {object}  dto.BulkImportResult
// @Router       /api/products/bulk [post]
func (h *ProductHandler) BulkImport(c *fiber.Ctx) error {
	var in dto.BulkImportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.BulkImport(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// isMultipart reporta si la petición trae un formulario multipart.
func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// parseCreateProductForm lee los campos del formulario multipart de creación.
func parseCreateProductForm(c *fiber.Ctx) (*dto.CreateProductRequest, error) {
	in := &dto.CreateProductRequest{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		CategoryID:  c.FormValue("category_id"),
	}
	var err error
	if in.Price, err = formDecimal(c, "price"); err != nil {
		return nil, err
	}
	if in.PayPrice, err = formDecimal(c, "payprice"); err != nil {
		return nil, err
	}
	if v := c.FormValue("quantity"); v != "" {
		if in.Quantity, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "quantity inválido")
		}
	}
	if v := c.FormValue("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "active inválido")
		}
		in.Active = &active
	}
	if in.Image, err = formImage(c); err != nil {
		return nil, err
	}
	return in, nil
}

// parseUpdateProductForm lee el formulario multipart de actualización. Solo los
// campos presentes en el form se marcan para actualizar.
func parseUpdateProductForm(c *fiber.Ctx) (*dto.UpdateProductRequest, error) {
	in := &dto.UpdateProductRequest{}
	if v := c.FormValue("name"); v != "" {
		in.Name = &v
	}
	if v := c.FormValue("description"); v != "" {
		in.Description = &v
	}
	if v := c.FormValue("category_id"); v != "" {
		in.CategoryID = &v
	}
	if v := c.FormValue("price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "price inválido")
		}
		in.Price = &d
	}
	if v := c.FormValue("payprice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "payprice inválido")
		}
		in.PayPrice = &d
	}
	if v := c.FormValue("quantity"); v != "" {
		q, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "quantity inválido")
		}
		in.Quantity = &q
	}
	if v := c.FormValue("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "active inválido")
		}
		in.Active = &active
	}
	var err error
	if in.Image, err = formImage(c); err != nil {
		return nil, err
	}
	return in, nil
}

func formDecimal(c *fiber.Ctx, field string) (decimal.Decimal, error) {
	v := c.FormValue(field)
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fiber.NewError(fiber.StatusBadRequest, field+" inválido")
	}
	return d, nil
}

// formImage extrae el archivo "image" del formulario, si viene.
func formImage(c *fiber.Ctx) (*dto.MediaPayload, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		// Sin archivo adjunto.
		return nil, nil
	}
	if fh.Size > maxImageBytes {
		return nil, fiber.NewError(fiber.StatusBadRequest, "la imagen supera el tamaño máximo de 5MB")
	}
	data, err := readMultipartFile(fh)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "no se pudo leer la imagen")
	}
	return &dto.MediaPayload{Data: data, Filename: fh.Filename}, nil
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
