package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nexus-ledger/internal/application/dto"
	"github.com/jhoicas/nexus-ledger/internal/application/finance"
	"github.com/jhoicas/nexus-ledger/internal/domain"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
)

// FinancialHandler saldos de proveedores y clientes, cartera y estados de cuenta (protegido).
// Las rutas por cuenta se registran una vez por tipo de entidad.
type FinancialHandler struct {
	tracker  *finance.BalanceTracker
	analyzer *finance.AgingAnalyzer
	renderer finance.StatementRenderer
}

// NewFinancialHandler construye el handler. renderer puede ser nil si no se expone el PDF.
func NewFinancialHandler(tracker *finance.BalanceTracker, analyzer *finance.AgingAnalyzer, renderer finance.StatementRenderer) *FinancialHandler {
	return &FinancialHandler{tracker: tracker, analyzer: analyzer, renderer: renderer}
}

func toPostingResponse(res *finance.PostingResult) dto.PostingResponse {
	out := dto.PostingResponse{
		Transaction:         res.Transaction,
		NewBalance:          res.NewBalance,
		CreditLimitExceeded: res.CreditLimitExceeded,
		AppliedInvoiceID:    res.AppliedInvoiceID,
		InvoiceSettled:      res.InvoiceSettled,
	}
	if res.Transaction.IsInvoice() && res.Transaction.EntityType == entity.EntityTypeVendor {
		cash := res.CashPayment
		out.CashPayment = &cash
	}
	if res.AppliedInvoiceID != "" {
		outstanding := res.InvoiceOutstanding
		out.InvoiceOutstanding = &outstanding
	}
	return out
}

// PostInvoice POST /api/{vendors|clients}/:id/invoices
func (h *FinancialHandler) PostInvoice(entityType entity.EntityType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.InvoiceRequest
		if err := bindAndValidate(c, &in); err != nil {
			return writeError(c, err)
		}
		res, err := h.tracker.PostInvoice(c.UserContext(), finance.InvoiceRequest{
			EntityType:     entityType,
			EntityID:       c.Params("id"),
			Amount:         in.Amount,
			ReferenceDocID: in.ReferenceDocID,
			DueDate:        in.DueDate,
			Notes:          in.Notes,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(toPostingResponse(res))
	}
}

// PostPayment POST /api/{vendors|clients}/:id/payments
func (h *FinancialHandler) PostPayment(entityType entity.EntityType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.PaymentRequest
		if err := bindAndValidate(c, &in); err != nil {
			return writeError(c, err)
		}
		res, err := h.tracker.PostPayment(c.UserContext(), finance.SettlementRequest{
			EntityType:     entityType,
			EntityID:       c.Params("id"),
			Type:           entity.TransactionTypePayment,
			Amount:         in.Amount,
			ReferenceDocID: in.ReferenceDocID,
			Notes:          in.Notes,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(toPostingResponse(res))
	}
}

// PostNote POST /api/{vendors|clients}/:id/notes (RETURN, CREDIT_NOTE, DEBIT_NOTE)
func (h *FinancialHandler) PostNote(entityType entity.EntityType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.NoteRequest
		if err := bindAndValidate(c, &in); err != nil {
			return writeError(c, err)
		}
		res, err := h.tracker.PostNote(c.UserContext(), finance.SettlementRequest{
			EntityType:     entityType,
			EntityID:       c.Params("id"),
			Type:           entity.TransactionType(in.Type),
			Amount:         in.Amount,
			ReferenceDocID: in.ReferenceDocID,
			Notes:          in.Notes,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(toPostingResponse(res))
	}
}

// Statement GET /api/{vendors|clients}/:id/statement?from=&to=
func (h *FinancialHandler) Statement(entityType entity.EntityType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := dateRange(c)
		if err != nil {
			return writeError(c, err)
		}
		list, err := h.tracker.Statement(c.UserContext(), entityType, c.Params("id"), from, to)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"total": len(list), "transactions": list})
	}
}

// StatementPDF GET /api/{vendors|clients}/:id/statement/pdf?from=&to=
func (h *FinancialHandler) StatementPDF(entityType entity.EntityType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if h.renderer == nil {
			return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "PDF no disponible"})
		}
		from, to, err := dateRange(c)
		if err != nil {
			return writeError(c, err)
		}
		id := c.Params("id")
		pdf, err := h.tracker.StatementPDF(c.UserContext(), h.renderer, entityType, id, from, to)
		if err != nil {
			return writeError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="estado-cuenta-%s.pdf"`, id))
		return c.Send(pdf)
	}
}

// VerifyBalance GET /api/{vendors|clients}/:id/balance-check
func (h *FinancialHandler) VerifyBalance(entityType entity.EntityType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		check, err := h.tracker.VerifyBalance(c.UserContext(), entityType, c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(dto.BalanceCheckResponse{
			Stored:     check.Stored,
			Replayed:   check.Replayed,
			LastAfter:  check.LastAfter,
			Consistent: check.Consistent,
		})
	}
}

// Commission GET /api/vendors/:id/commission?units_sold=N
func (h *FinancialHandler) Commission(c *fiber.Ctx) error {
	units := c.QueryInt("units_sold", -1)
	if units < 0 {
		return writeError(c, fmt.Errorf("units_sold requerido: %w", domain.ErrInvalidInput))
	}
	amount, err := h.tracker.SalesLinkedCommission(c.UserContext(), c.Params("id"), int64(units))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"vendor_id": c.Params("id"), "units_sold": units, "commission": amount})
}

// CreditCheck GET /api/clients/:id/credit-check?amount=X
func (h *FinancialHandler) CreditCheck(c *fiber.Ctx) error {
	amount, err := decimalQuery(c, "amount")
	if err != nil {
		return writeError(c, err)
	}
	exceeded, err := h.tracker.CheckCreditLimit(c.UserContext(), c.Params("id"), amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CreditCheckResponse{ClientID: c.Params("id"), Amount: amount, Exceeded: exceeded})
}

// ValidateOrder POST /api/clients/:id/validate-order
func (h *FinancialHandler) ValidateOrder(c *fiber.Ctx) error {
	var in dto.OrderRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	v, err := h.tracker.ValidateOrder(c.UserContext(), c.Params("id"), in.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OrderValidationResponse{Approved: v.Approved, Reason: v.Reason, RequiresApproval: v.RequiresApproval})
}

// ListTransactions GET /api/finance/transactions?entity_type=&entity_id=&type=&from=&to=
func (h *FinancialHandler) ListTransactions(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	filter := repository.TransactionFilter{
		EntityType: entity.EntityType(c.Query("entity_type")),
		EntityID:   c.Query("entity_id"),
		Type:       entity.TransactionType(c.Query("type")),
		From:       from,
		To:         to,
	}
	if filter.EntityType != "" && !filter.EntityType.IsValid() {
		return badRequest(c, "VALIDATION", "entity_type debe ser VENDOR o CLIENT")
	}
	if filter.Type != "" && !filter.Type.IsValid() {
		return badRequest(c, "VALIDATION", "type inválido")
	}
	list, err := h.tracker.ListTransactions(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "transactions": list})
}

// Alerts GET /api/finance/alerts
// Facturas de cliente vencidas, de la más atrasada a la menos atrasada.
func (h *FinancialHandler) Alerts(c *fiber.Ctx) error {
	alerts, err := h.analyzer.Alerts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(alerts), "alerts": alerts})
}

// AgingReport GET /api/finance/aging
func (h *FinancialHandler) AgingReport(c *fiber.Ctx) error {
	buckets, err := h.analyzer.AgingReport(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"buckets": buckets, "total": buckets.Total()})
}

// Summary GET /api/finance/summary
//
// Respuesta: FinancialSummaryResponse (total_payables, total_receivables, net_position,
// overdue_count, overdue_amount). Las fechas se calculan en el servidor.
func (h *FinancialHandler) Summary(c *fiber.Ctx) error {
	s, err := h.analyzer.Summary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FinancialSummaryResponse{
		TotalPayables:    s.TotalPayables,
		TotalReceivables: s.TotalReceivables,
		NetPosition:      s.NetPosition,
		OverdueCount:     s.OverdueCount,
		OverdueAmount:    s.OverdueAmount,
	})
}
