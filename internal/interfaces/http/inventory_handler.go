package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nexus-ledger/internal/application/dto"
	"github.com/jhoicas/nexus-ledger/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de movimientos, posiciones y reposición (protegido).
type InventoryHandler struct {
	uc            *inventory.RegisterMovementUseCase
	queries       *inventory.StockQueryUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	uc *inventory.RegisterMovementUseCase,
	queries *inventory.StockQueryUseCase,
	replenishment *inventory.ReplenishmentUseCase,
) *InventoryHandler {
	return &InventoryHandler{uc: uc, queries: queries, replenishment: replenishment}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "type, product_id, quantity, bodegas según el tipo"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.RegisterMovementFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements GET /api/inventory/movements?product_id=&warehouse_id=&from=&to=&limit=&offset=
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	limit, offset := page(c)
	list, err := h.queries.MovementHistory(c.UserContext(), inventory.MovementQuery{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		From:        from,
		To:          to,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": list,
		"page":  dto.PageResponse{Limit: limit, Offset: offset},
	})
}

// GetMovement GET /api/inventory/movements/:id
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	out, err := h.queries.GetMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListPositions GET /api/inventory/positions?product_id=&warehouse_id=
// Con ambos filtros devuelve la posición puntual (vacía si nunca recibió mercancía).
func (h *InventoryHandler) ListPositions(c *fiber.Ctx) error {
	productID, warehouseID := c.Query("product_id"), c.Query("warehouse_id")
	if productID != "" && warehouseID != "" {
		pos, err := h.queries.GetPosition(c.UserContext(), productID, warehouseID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(pos)
	}
	list, err := h.queries.ListPositions(c.UserContext(), productID, warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "positions": list})
}

// Reserve POST /api/inventory/reservations
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	pos, err := h.uc.Reserve(c.UserContext(), in.ProductID, in.WarehouseID, in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(pos)
}

// Release POST /api/inventory/reservations/release
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	pos, err := h.uc.Release(c.UserContext(), in.ProductID, in.WarehouseID, in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(pos)
}

// GetReplenishmentList godoc
// @Summary      Alertas de stock bajo
// @Description  Posiciones con disponible por debajo del nivel mínimo, con la cantidad sugerida de pedido.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega. Vacío = todas."
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
