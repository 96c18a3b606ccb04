package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stockops"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// OperationHandler maneja el ciclo de vida de las operaciones de stock:
// alta, confirmación, validación, cancelación, comentarios y comprobante.
type OperationHandler struct {
	create    *stockops.CreateUseCase
	lifecycle *stockops.LifecycleUseCase
	query     *stockops.QueryUseCase
	slip      *stockops.SlipUseCase
}

// NewOperationHandler construye el handler.
func NewOperationHandler(
	create *stockops.CreateUseCase,
	lifecycle *stockops.LifecycleUseCase,
	query *stockops.QueryUseCase,
	slip *stockops.SlipUseCase,
) *OperationHandler {
	return &OperationHandler{create: create, lifecycle: lifecycle, query: query, slip: slip}
}

// CreateReception godoc
// @Summary      Crear recepción (SUPPLY u ORDER)
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceptionRequest  true  "Recepción con sus líneas"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/operations/receptions [post]
func (h *OperationHandler) CreateReception(c *fiber.Ctx) error {
	var in dto.CreateReceptionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	op, err := h.create.CreateReception(c.Context(), stockops.CreateReceptionInput{
		Subtype:     in.Subtype,
		WarehouseID: in.WarehouseID,
		OrderID:     in.OrderID,
		Lines:       dto.ToLineInputs(in.Lines),
	}, GetUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToOperationResponse(op))
}

// CreateTransfer godoc
// @Summary      Crear traslado entre bodegas
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Traslado con sus líneas"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/operations/transfers [post]
func (h *OperationHandler) CreateTransfer(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	op, err := h.create.CreateTransfer(c.Context(), stockops.CreateTransferInput{
		SourceWarehouseID: in.SourceWarehouseID,
		TargetWarehouseID: in.TargetWarehouseID,
		Lines:             dto.ToLineInputs(in.Lines),
	}, GetUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToOperationResponse(op))
}

// CreatePurchase godoc
// @Summary      Crear compra a proveedor
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "Compra con sus líneas"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/operations/purchases [post]
func (h *OperationHandler) CreatePurchase(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	op, err := h.create.CreatePurchase(c.Context(), stockops.CreatePurchaseInput{
		WarehouseID: in.WarehouseID,
		Lines:       dto.ToLineInputs(in.Lines),
	}, GetUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToOperationResponse(op))
}

// GetByID godoc
// @Summary      Detalle de una operación
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la operación"
// @Success      200  {object}  dto.OperationDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/{id} [get]
func (h *OperationHandler) GetByID(c *fiber.Ctx) error {
	detail, err := h.query.GetOperation(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToOperationDetailResponse(detail))
}

// List godoc
// @Summary      Listar operaciones
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        kind          query  string  false  "RECEPTION, TRANSFER o PURCHASE"
// @Param        status        query  string  false  "Estado de la operación"
// @Param        warehouse_id  query  string  false  "Bodega (propia, origen o destino)"
// @Param        limit         query  int     false  "Límite"   default(50)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.OperationResponse
// @Router       /api/operations [get]
func (h *OperationHandler) List(c *fiber.Ctx) error {
	filter := repository.OperationFilter{
		Kind:        c.Query("kind"),
		Status:      c.Query("status"),
		WarehouseID: c.Query("warehouse_id"),
	}
	ops, err := h.query.ListOperations(filter, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.OperationResponse, 0, len(ops))
	for _, op := range ops {
		out = append(out, dto.ToOperationResponse(op))
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar un traslado (recogida en bodega origen)
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del traslado"
// @Param        body  body  dto.ReconcileRequest  true  "Ediciones de reconciliación"
// @Success      200   {object}  dto.OperationDetailResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/confirm [post]
func (h *OperationHandler) Confirm(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ReconcileRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.lifecycle.Confirm(c.Context(), id, dto.ToEdits(in.Edits), GetUserID(c)); err != nil {
		return writeDomainError(c, err)
	}
	return h.respondDetail(c, id)
}

// Validate godoc
// @Summary      Validar una operación (reconciliación final)
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la operación"
// @Param        body  body  dto.ReconcileRequest  true  "Ediciones de reconciliación"
// @Success      200   {object}  dto.OperationDetailResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/validate [post]
func (h *OperationHandler) Validate(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ReconcileRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.lifecycle.Validate(c.Context(), id, dto.ToEdits(in.Edits), GetUserID(c)); err != nil {
		return writeDomainError(c, err)
	}
	return h.respondDetail(c, id)
}

// Cancel godoc
// @Summary      Cancelar una operación
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la operación"
// @Success      200  {object}  dto.OperationDetailResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/cancel [post]
func (h *OperationHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.lifecycle.Cancel(c.Context(), id, GetUserID(c)); err != nil {
		return writeDomainError(c, err)
	}
	return h.respondDetail(c, id)
}

// AddComment godoc
// @Summary      Comentar una operación
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la operación"
// @Param        body  body  dto.CommentRequest  true  "Comentario"
// @Success      201   {object}  dto.CommentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/comments [post]
func (h *OperationHandler) AddComment(c *fiber.Ctx) error {
	var in dto.CommentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	comment, err := h.create.AddComment(c.Context(), c.Params("id"), in.Body, GetUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CommentResponse{
		ID:        comment.ID,
		Body:      comment.Body,
		CreatedBy: comment.CreatedBy,
		CreatedAt: comment.CreatedAt,
	})
}

// Slip godoc
// @Summary      Descargar el comprobante PDF de una operación
// @Tags         operations
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la operación"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/slip [get]
func (h *OperationHandler) Slip(c *fiber.Ctx) error {
	doc, err := h.slip.Generate(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="comprobante.pdf"`)
	return c.Send(doc)
}

// Movements godoc
// @Summary      Movimientos generados por una operación
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la operación"
// @Param        limit   query  int     false  "Límite"   default(50)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/movements [get]
func (h *OperationHandler) Movements(c *fiber.Ctx) error {
	movs, err := h.query.OperationMovements(c.Params("id"), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.ToMovementResponse(m))
	}
	return c.JSON(out)
}

// respondDetail devuelve el detalle fresco después de una transición.
func (h *OperationHandler) respondDetail(c *fiber.Ctx, id string) error {
	detail, err := h.query.GetOperation(id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToOperationDetailResponse(detail))
}
