package finance

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/nexus-ledger/internal/domain"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/finance"
	"github.com/jhoicas/nexus-ledger/internal/domain/inventory"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
	"github.com/jhoicas/nexus-ledger/pkg/keylock"
	"github.com/jhoicas/nexus-ledger/pkg/logger"
)

// BalanceTracker mantiene el saldo corriente de proveedores y clientes.
// Cada operación crea exactamente una FinancialTransaction cuyo BalanceAfter es el saldo guardado en la cuenta.
type BalanceTracker struct {
	txRunner TxRunner
	locks    *keylock.Locker
	log      *logger.Logger
	now      func() time.Time
}

// NewBalanceTracker construye el tracker. locks debe ser el mismo Locker que usa el registro de movimientos.
func NewBalanceTracker(txRunner TxRunner, locks *keylock.Locker, log *logger.Logger) *BalanceTracker {
	if log == nil {
		log = logger.Nop()
	}
	return &BalanceTracker{
		txRunner: txRunner,
		locks:    locks,
		log:      log.Component("balance_tracker"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (t *BalanceTracker) WithClock(now func() time.Time) *BalanceTracker {
	t.now = now
	return t
}

// InvoiceRequest solicitud de factura contra una cuenta.
type InvoiceRequest struct {
	EntityType     entity.EntityType
	EntityID       string
	Amount         decimal.Decimal
	ReferenceDocID string
	DueDate        *time.Time // solo clientes; por defecto fecha + días de cobro
	Notes          string
}

// SettlementRequest pago, devolución o nota contra una cuenta.
// Si ReferenceDocID es el ID de una factura abierta de la misma cuenta, se aplica a esa factura.
type SettlementRequest struct {
	EntityType     entity.EntityType
	EntityID       string
	Type           entity.TransactionType
	Amount         decimal.Decimal
	ReferenceDocID string
	Notes          string
}

// PostingResult resultado de una operación del tracker.
type PostingResult struct {
	Transaction         *entity.FinancialTransaction
	NewBalance          decimal.Decimal
	CashPayment         decimal.Decimal
	CreditLimitExceeded bool
	// Factura a la que se aplicó un pago y lo que queda pendiente de ella.
	AppliedInvoiceID   string
	InvoiceOutstanding decimal.Decimal
	InvoiceSettled     bool
}

func accountLock(entityType entity.EntityType, id string) string {
	return keylock.AccountKey(string(entityType), id)
}

// PostInvoice registra una factura aplicando la política de pago de la cuenta.
func (t *BalanceTracker) PostInvoice(ctx context.Context, req InvoiceRequest) (*PostingResult, error) {
	if req.EntityID == "" {
		return nil, domain.ErrInvalidInput
	}
	unlock := t.locks.Lock(accountLock(req.EntityType, req.EntityID))
	defer unlock()

	var res *PostingResult
	err := t.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		res, err = t.PostInvoiceInTx(tx, req, t.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// PostInvoiceInTx igual que PostInvoice pero dentro de la transacción del llamador.
// El llamador es responsable de tener el lock de la cuenta.
func (t *BalanceTracker) PostInvoiceInTx(tx repository.Tx, req InvoiceRequest, at time.Time) (*PostingResult, error) {
	amount := inventory.RoundMoney(req.Amount)
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	acc, err := loadAccount(tx, req.EntityType, req.EntityID)
	if err != nil {
		return nil, err
	}
	// Los proveedores no manejan vencimiento; su saldo se liquida con pagos.
	if acc.vendor != nil && req.DueDate != nil {
		return nil, domain.ErrInvalidInput
	}

	cash := decimal.Zero
	delta := amount
	var due *time.Time
	if acc.vendor != nil {
		split := finance.SplitVendorInvoice(acc.vendor, amount)
		cash, delta = split.CashPayment, split.BalanceDelta
	} else {
		d := finance.DueDateFrom(at, acc.client.CollectionPeriodDays)
		if req.DueDate != nil {
			d = *req.DueDate
		}
		due = &d
	}

	exceeded := acc.exceedsLimit(delta)
	newBalance := acc.balance().Add(delta)
	txn := &entity.FinancialTransaction{
		ID:              uuid.New().String(),
		EntityType:      acc.entityType,
		EntityID:        acc.id(),
		EntityName:      acc.name(),
		TransactionDate: at,
		Type:            entity.TransactionTypeInvoice,
		Amount:          amount,
		CashPayment:     cash,
		BalanceAfter:    newBalance,
		ReferenceDocID:  req.ReferenceDocID,
		DueDate:         due,
		Notes:           req.Notes,
	}
	// contado: la factura nace liquidada
	if cash.Equal(amount) {
		paid := at
		txn.PaidDate = &paid
	}
	if err := tx.Transactions().Create(txn); err != nil {
		return nil, err
	}
	if err := acc.setBalance(tx, newBalance, at); err != nil {
		return nil, err
	}
	if exceeded {
		t.log.Warn().Str("entity_id", acc.id()).Str("balance", newBalance.String()).Msg("límite de crédito excedido")
	}
	return &PostingResult{
		Transaction:         txn,
		NewBalance:          newBalance,
		CashPayment:         cash,
		CreditLimitExceeded: exceeded,
	}, nil
}

// PostPayment registra un pago. Siempre permitido: el saldo puede quedar negativo (saldo a favor).
func (t *BalanceTracker) PostPayment(ctx context.Context, req SettlementRequest) (*PostingResult, error) {
	req.Type = entity.TransactionTypePayment
	return t.post(ctx, req)
}

// PostNote registra RETURN, CREDIT_NOTE (restan del saldo) o DEBIT_NOTE (suma al saldo).
func (t *BalanceTracker) PostNote(ctx context.Context, req SettlementRequest) (*PostingResult, error) {
	switch req.Type {
	case entity.TransactionTypeReturn, entity.TransactionTypeCreditNote, entity.TransactionTypeDebitNote:
	default:
		return nil, domain.ErrInvalidInput
	}
	return t.post(ctx, req)
}

func (t *BalanceTracker) post(ctx context.Context, req SettlementRequest) (*PostingResult, error) {
	if req.EntityID == "" {
		return nil, domain.ErrInvalidInput
	}
	unlock := t.locks.Lock(accountLock(req.EntityType, req.EntityID))
	defer unlock()

	var res *PostingResult
	err := t.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		res, err = t.postInTx(tx, req, t.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (t *BalanceTracker) postInTx(tx repository.Tx, req SettlementRequest, at time.Time) (*PostingResult, error) {
	amount := inventory.RoundMoney(req.Amount)
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	acc, err := loadAccount(tx, req.EntityType, req.EntityID)
	if err != nil {
		return nil, err
	}

	txn := &entity.FinancialTransaction{
		ID:              uuid.New().String(),
		EntityType:      acc.entityType,
		EntityID:        acc.id(),
		EntityName:      acc.name(),
		TransactionDate: at,
		Type:            req.Type,
		Amount:          amount,
		ReferenceDocID:  req.ReferenceDocID,
		Notes:           req.Notes,
	}
	newBalance := acc.balance().Add(finance.SignedDelta(txn))
	txn.BalanceAfter = newBalance
	if err := tx.Transactions().Create(txn); err != nil {
		return nil, err
	}
	if err := acc.setBalance(tx, newBalance, at); err != nil {
		return nil, err
	}

	res := &PostingResult{Transaction: txn, NewBalance: newBalance}
	if req.Type.IsSettlement() && req.ReferenceDocID != "" {
		if err := t.applyToInvoice(tx, txn, res, at); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// applyToInvoice descuenta la liquidación de la factura referenciada y la marca pagada al quedar en cero.
func (t *BalanceTracker) applyToInvoice(tx repository.Tx, settlement *entity.FinancialTransaction, res *PostingResult, at time.Time) error {
	inv, err := tx.Transactions().GetByID(settlement.ReferenceDocID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil // referencia a un documento externo
		}
		return err
	}
	if !inv.IsInvoice() || inv.IsPaid() || inv.EntityID != settlement.EntityID || inv.EntityType != settlement.EntityType {
		return nil
	}
	history, err := tx.Transactions().List(repository.TransactionFilter{
		EntityType: inv.EntityType,
		EntityID:   inv.EntityID,
	})
	if err != nil {
		return err
	}
	outstanding := finance.Outstanding(inv, history)
	res.AppliedInvoiceID = inv.ID
	res.InvoiceOutstanding = outstanding
	if outstanding.IsZero() {
		if err := tx.Transactions().MarkPaid(inv.ID, at); err != nil {
			return err
		}
		res.InvoiceSettled = true
	}
	return nil
}

// CheckCreditLimit true (bloqueante) cuando saldo actual + monto propuesto supera el límite del cliente.
func (t *BalanceTracker) CheckCreditLimit(ctx context.Context, clientID string, amount decimal.Decimal) (bool, error) {
	var exceeded bool
	err := t.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		exceeded, err = t.CheckCreditLimitInTx(tx, clientID, amount)
		return err
	})
	return exceeded, err
}

// CheckCreditLimitInTx igual que CheckCreditLimit dentro de la transacción del llamador.
func (t *BalanceTracker) CheckCreditLimitInTx(tx repository.Tx, clientID string, amount decimal.Decimal) (bool, error) {
	acc, err := loadAccount(tx, entity.EntityTypeClient, clientID)
	if err != nil {
		return false, err
	}
	return acc.exceedsLimit(amount), nil
}

// OrderValidation resultado de ValidateOrder.
type OrderValidation struct {
	Approved         bool
	Reason           string
	RequiresApproval bool
}

// ValidateOrder valida un pedido de cliente: primero límite de crédito, luego facturas vencidas.
func (t *BalanceTracker) ValidateOrder(ctx context.Context, clientID string, amount decimal.Decimal) (*OrderValidation, error) {
	var out *OrderValidation
	err := t.txRunner.Run(ctx, func(tx repository.Tx) error {
		acc, err := loadAccount(tx, entity.EntityTypeClient, clientID)
		if err != nil {
			return err
		}
		if acc.exceedsLimit(amount) {
			out = &OrderValidation{
				Reason:           "excede el límite de crédito: " + acc.client.CreditLimit.StringFixed(2),
				RequiresApproval: true,
			}
			return nil
		}
		overdue, err := overdueInvoices(tx, clientID, t.now())
		if err != nil {
			return err
		}
		if len(overdue) > 0 {
			out = &OrderValidation{Reason: "el cliente tiene pagos vencidos", RequiresApproval: true}
			return nil
		}
		out = &OrderValidation{Approved: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Statement estado de cuenta: todas las transacciones de la cuenta, opcionalmente por rango,
// ordenadas por fecha descendente.
func (t *BalanceTracker) Statement(ctx context.Context, entityType entity.EntityType, entityID string, from, to *time.Time) ([]*entity.FinancialTransaction, error) {
	var out []*entity.FinancialTransaction
	err := t.txRunner.Run(ctx, func(tx repository.Tx) error {
		if _, err := loadAccount(tx, entityType, entityID); err != nil {
			return err
		}
		var err error
		out, err = tx.Transactions().List(repository.TransactionFilter{
			EntityType: entityType, EntityID: entityID, From: from, To: to,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	sortDescending(out)
	return out, nil
}

// ListTransactions listado general con filtros, ordenado por fecha descendente.
func (t *BalanceTracker) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]*entity.FinancialTransaction, error) {
	var out []*entity.FinancialTransaction
	err := t.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.Transactions().List(filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	sortDescending(out)
	return out, nil
}

// BalanceCheck comparación entre el saldo guardado y el recalculado desde el historial.
type BalanceCheck struct {
	Stored     decimal.Decimal
	Replayed   decimal.Decimal
	LastAfter  decimal.Decimal
	Consistent bool
}

// VerifyBalance recalcula el saldo desde cero y lo compara con el guardado y con el último BalanceAfter.
func (t *BalanceTracker) VerifyBalance(ctx context.Context, entityType entity.EntityType, entityID string) (*BalanceCheck, error) {
	var out *BalanceCheck
	err := t.txRunner.Run(ctx, func(tx repository.Tx) error {
		acc, err := loadAccount(tx, entityType, entityID)
		if err != nil {
			return err
		}
		history, err := tx.Transactions().List(repository.TransactionFilter{EntityType: entityType, EntityID: entityID})
		if err != nil {
			return err
		}
		replayed := finance.Replay(history)
		last := decimal.Zero
		if len(history) > 0 {
			last = history[len(history)-1].BalanceAfter
		}
		out = &BalanceCheck{
			Stored:     acc.balance(),
			Replayed:   replayed,
			LastAfter:  last,
			Consistent: replayed.Equal(acc.balance()) && last.Equal(acc.balance()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !out.Consistent {
		t.log.Error().Str("entity_id", entityID).Str("stored", out.Stored.String()).
			Str("replayed", out.Replayed.String()).Msg("saldo inconsistente con el historial")
	}
	return out, nil
}

// SalesLinkedCommission pago ligado a ventas de un proveedor HYBRID_SALES_LINKED.
func (t *BalanceTracker) SalesLinkedCommission(ctx context.Context, vendorID string, unitsSold int64) (decimal.Decimal, error) {
	var out decimal.Decimal
	err := t.txRunner.Run(ctx, func(tx repository.Tx) error {
		acc, err := loadAccount(tx, entity.EntityTypeVendor, vendorID)
		if err != nil {
			return err
		}
		out = finance.SalesLinkedCommission(acc.vendor, unitsSold)
		return nil
	})
	return out, err
}

func sortDescending(list []*entity.FinancialTransaction) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].TransactionDate.After(list[j].TransactionDate)
	})
}
