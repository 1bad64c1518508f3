package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nexus-ledger/internal/application/dto"
	"github.com/jhoicas/nexus-ledger/internal/application/finance"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
)

// PartnerHandler maneja proveedores y clientes (protegido). No hay borrado: se desactivan.
type PartnerHandler struct {
	uc *finance.PartnerUseCase
}

// NewPartnerHandler construye el handler.
func NewPartnerHandler(uc *finance.PartnerUseCase) *PartnerHandler {
	return &PartnerHandler{uc: uc}
}

func vendorInput(in dto.VendorRequest) finance.VendorInput {
	return finance.VendorInput{
		Name:              in.Name,
		ContactPerson:     in.ContactPerson,
		Phone:             in.Phone,
		Address:           in.Address,
		TaxID:             in.TaxID,
		PaymentTerms:      entity.PaymentTerms(in.PaymentTerms),
		CashPercentage:    in.CashPercentage,
		CommissionPerUnit: in.CommissionPerUnit,
		CreditLimit:       in.CreditLimit,
	}
}

func clientInput(in dto.ClientRequest) finance.ClientInput {
	return finance.ClientInput{
		Name:                 in.Name,
		ContactPerson:        in.ContactPerson,
		Phone:                in.Phone,
		GPSLocation:          in.GPSLocation,
		Category:             in.Category,
		CollectionPeriodDays: in.CollectionPeriodDays,
		CreditLimit:          in.CreditLimit,
		IsActive:             in.IsActive,
	}
}

// CreateVendor POST /api/vendors
func (h *PartnerHandler) CreateVendor(c *fiber.Ctx) error {
	var in dto.VendorRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	v, err := h.uc.CreateVendor(c.UserContext(), vendorInput(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(v)
}

// UpdateVendor PUT /api/vendors/:id (el saldo solo cambia vía transacciones)
func (h *PartnerHandler) UpdateVendor(c *fiber.Ctx) error {
	var in dto.VendorRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	v, err := h.uc.UpdateVendor(c.UserContext(), c.Params("id"), vendorInput(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(v)
}

// GetVendor GET /api/vendors/:id
func (h *PartnerHandler) GetVendor(c *fiber.Ctx) error {
	v, err := h.uc.GetVendor(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(v)
}

// ListVendors GET /api/vendors?limit=20&offset=0
func (h *PartnerHandler) ListVendors(c *fiber.Ctx) error {
	limit, offset := page(c)
	list, err := h.uc.ListVendors(c.UserContext(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": list, "page": dto.PageResponse{Limit: limit, Offset: offset}})
}

// CreateClient POST /api/clients
func (h *PartnerHandler) CreateClient(c *fiber.Ctx) error {
	var in dto.ClientRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	cl, err := h.uc.CreateClient(c.UserContext(), clientInput(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cl)
}

// UpdateClient PUT /api/clients/:id
func (h *PartnerHandler) UpdateClient(c *fiber.Ctx) error {
	var in dto.ClientRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	cl, err := h.uc.UpdateClient(c.UserContext(), c.Params("id"), clientInput(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cl)
}

// GetClient GET /api/clients/:id
func (h *PartnerHandler) GetClient(c *fiber.Ctx) error {
	cl, err := h.uc.GetClient(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cl)
}

// ListClients GET /api/clients?limit=20&offset=0
func (h *PartnerHandler) ListClients(c *fiber.Ctx) error {
	limit, offset := page(c)
	list, err := h.uc.ListClients(c.UserContext(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": list, "page": dto.PageResponse{Limit: limit, Offset: offset}})
}
