package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stockops"
)

// StockHandler expone las lecturas de stock (snapshots, ítems, movimientos)
// y los ajustes manuales por conteo físico.
type StockHandler struct {
	query      *stockops.QueryUseCase
	adjustment *stockops.AdjustmentUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(query *stockops.QueryUseCase, adjustment *stockops.AdjustmentUseCase) *StockHandler {
	return &StockHandler{query: query, adjustment: adjustment}
}

// VariantSnapshot godoc
// @Summary      Contadores de stock de una variante
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la variante"
// @Success      200  {object}  dto.SnapshotResponse
// @Router       /api/stock/variants/{id} [get]
func (h *StockHandler) VariantSnapshot(c *fiber.Ctx) error {
	snap, err := h.query.GetVariantSnapshot(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToSnapshotResponse(snap))
}

// ProductSnapshot godoc
// @Summary      Contadores de stock agregados de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.SnapshotResponse
// @Router       /api/stock/products/{id} [get]
func (h *StockHandler) ProductSnapshot(c *fiber.Ctx) error {
	snap, err := h.query.GetProductSnapshot(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToSnapshotResponse(snap))
}

// ItemHistory godoc
// @Summary      Ítem físico con su historial de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del ítem"
// @Param        limit   query  int     false  "Límite"   default(50)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.ItemHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id} [get]
func (h *StockHandler) ItemHistory(c *fiber.Ctx) error {
	item, movs, err := h.query.ItemHistory(c.Params("id"), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := dto.ItemHistoryResponse{Item: dto.ToItemResponse(item)}
	for _, m := range movs {
		out.Movements = append(out.Movements, dto.ToMovementResponse(m))
	}
	return c.JSON(out)
}

// RegisterDiscovered godoc
// @Summary      Registrar unidades descubiertas en un conteo físico
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DiscoveredRequest  true  "Variante, bodega y cantidad hallada"
// @Success      201   {array}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/discovered [post]
func (h *StockHandler) RegisterDiscovered(c *fiber.Ctx) error {
	var in dto.DiscoveredRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items, err := h.adjustment.RegisterDiscovered(c.Context(), stockops.DiscoveredInput{
		VariantID:   in.VariantID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
	}, GetUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ToItemResponse(it))
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ConfirmDiscovered godoc
// @Summary      Confirmar un ítem descubierto como disponible
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/discovered/{id}/confirm [post]
func (h *StockHandler) ConfirmDiscovered(c *fiber.Ctx) error {
	if err := h.adjustment.ConfirmDiscovered(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
