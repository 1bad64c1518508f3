package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/nexus-ledger/internal/application/finance"
	"github.com/jhoicas/nexus-ledger/internal/domain"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/inventory"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
	"github.com/jhoicas/nexus-ledger/pkg/keylock"
	"github.com/jhoicas/nexus-ledger/pkg/logger"
)

// RegisterMovementUseCase registra movimientos de inventario de forma transaccional
// (IN, OUT, TRANSFER, ADJUSTMENT, CONSUMPTION). Bloquea por clave las posiciones y cuentas
// involucradas y aplica todo en una sola transacción del store: o se aplica completo o nada.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	locks    *keylock.Locker
	accounts AccountPoster
	log      *logger.Logger
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	locks *keylock.Locker,
	accounts AccountPoster,
	log *logger.Logger,
) *RegisterMovementUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		locks:    locks,
		accounts: accounts,
		log:      log.Component("movements"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *RegisterMovementUseCase) WithClock(now func() time.Time) *RegisterMovementUseCase {
	uc.now = now
	return uc
}

// MovementInputDTO entrada para registrar un movimiento de inventario.
//   - IN: ProductID, ToWarehouseID (o WarehouseID), Quantity, UnitCost, ReferenceDocID; VendorID opcional.
//   - OUT: FromWarehouseID (o WarehouseID), Quantity; ClientID y UnitPrice opcionales.
//   - TRANSFER: FromWarehouseID, ToWarehouseID distintos, Quantity.
//   - ADJUSTMENT: WarehouseID, CountedQuantity.
//   - CONSUMPTION: FromWarehouseID (o WarehouseID), DepartmentID, Quantity.
type MovementInputDTO struct {
	Actor              string
	Type               entity.MovementType
	ProductID          string
	Quantity           int64
	UnitCost           *decimal.Decimal
	UnitPrice          *decimal.Decimal
	WarehouseID        string
	FromWarehouseID    string
	ToWarehouseID      string
	ReferenceDocID     string
	VendorID           string
	ClientID           string
	DepartmentID       string
	CountedQuantity    *int64
	EnforceCreditLimit bool
}

// MovementResult posiciones actualizadas, registro emitido y, si aplica, la transacción financiera.
type MovementResult struct {
	Movement            *entity.MovementRecord
	Positions           []*entity.StockPosition
	Transaction         *entity.FinancialTransaction
	NewBalance          *decimal.Decimal
	CashPayment         *decimal.Decimal
	BudgetExceeded      bool
	DepartmentSpend     *decimal.Decimal // consumo acumulado del mes incluyendo este movimiento
	CreditLimitExceeded bool
}

func (r *MovementResult) attach(p *finance.PostingResult) {
	r.Transaction = p.Transaction
	balance := p.NewBalance
	r.NewBalance = &balance
	if p.Transaction.EntityType == entity.EntityTypeVendor {
		cash := p.CashPayment
		r.CashPayment = &cash
	}
	r.CreditLimitExceeded = r.CreditLimitExceeded || p.CreditLimitExceeded
}

// normalize resuelve el atajo WarehouseID según el tipo.
func (in *MovementInputDTO) normalize() {
	switch in.Type {
	case entity.MovementTypeIN, entity.MovementTypeADJUSTMENT:
		if in.ToWarehouseID == "" {
			in.ToWarehouseID = in.WarehouseID
		}
		if in.Type == entity.MovementTypeADJUSTMENT && in.ToWarehouseID == "" {
			in.ToWarehouseID = in.FromWarehouseID
		}
	case entity.MovementTypeOUT, entity.MovementTypeCONSUMPTION:
		if in.FromWarehouseID == "" {
			in.FromWarehouseID = in.WarehouseID
		}
	}
}

func (in *MovementInputDTO) validate() error {
	if in.ProductID == "" || !in.Type.IsValid() {
		return domain.ErrInvalidInput
	}
	switch in.Type {
	case entity.MovementTypeIN:
		if in.ToWarehouseID == "" || in.Quantity <= 0 || in.ReferenceDocID == "" {
			return domain.ErrInvalidInput
		}
		if in.UnitCost == nil || in.UnitCost.IsNegative() {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeOUT:
		if in.FromWarehouseID == "" || in.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
		if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeTRANSFER:
		if in.FromWarehouseID == "" || in.ToWarehouseID == "" || in.FromWarehouseID == in.ToWarehouseID || in.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeADJUSTMENT:
		if in.ToWarehouseID == "" || in.CountedQuantity == nil || *in.CountedQuantity < 0 {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeCONSUMPTION:
		if in.FromWarehouseID == "" || in.DepartmentID == "" || in.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

func (in *MovementInputDTO) lockKeys() []string {
	keys := []string{}
	for _, wh := range []string{in.FromWarehouseID, in.ToWarehouseID} {
		if wh != "" {
			keys = append(keys, keylock.StockKey(in.ProductID, wh))
		}
	}
	if in.Type == entity.MovementTypeIN && in.VendorID != "" {
		keys = append(keys, keylock.AccountKey(string(entity.EntityTypeVendor), in.VendorID))
	}
	if in.Type == entity.MovementTypeOUT && in.ClientID != "" {
		keys = append(keys, keylock.AccountKey(string(entity.EntityTypeClient), in.ClientID))
	}
	if in.Type == entity.MovementTypeCONSUMPTION {
		keys = append(keys, keylock.DepartmentKey(in.DepartmentID))
	}
	return keys
}

// movementRefs entidades resueltas antes de cualquier mutación.
type movementRefs struct {
	product    *entity.Product
	vendor     *entity.Vendor
	client     *entity.Client
	department *entity.Department
}

// RegisterMovement valida, bloquea las claves involucradas y aplica el movimiento en una transacción.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*MovementResult, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	unlock := uc.locks.Lock(input.lockKeys()...)
	defer unlock()

	now := uc.now()
	var res *MovementResult
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		refs, err := uc.resolve(tx, input)
		if err != nil {
			return err
		}
		ledger := NewStockLedger(tx.Stock(), now)
		mov := &entity.MovementRecord{
			ID:             uuid.New().String(),
			Timestamp:      now,
			Type:           input.Type,
			ProductID:      input.ProductID,
			Quantity:       input.Quantity,
			ReferenceDocID: input.ReferenceDocID,
			Actor:          input.Actor,
		}

		switch input.Type {
		case entity.MovementTypeIN:
			res, err = uc.doIN(tx, ledger, refs, input, mov)
		case entity.MovementTypeOUT:
			res, err = uc.doOUT(tx, ledger, refs, input, mov)
		case entity.MovementTypeTRANSFER:
			res, err = uc.doTRANSFER(ledger, input, mov)
		case entity.MovementTypeADJUSTMENT:
			res, err = uc.doADJUSTMENT(ledger, input, mov)
		case entity.MovementTypeCONSUMPTION:
			res, err = uc.doCONSUMPTION(tx, ledger, refs, input, mov)
		}
		if err != nil {
			return err
		}
		if res.Movement == nil {
			return nil
		}
		return tx.Movements().Create(mov)
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("type", string(input.Type)).Str("product_id", input.ProductID).Msg("movimiento rechazado")
		return nil, err
	}
	if res.Movement == nil {
		uc.log.Info().Str("type", string(input.Type)).Str("product_id", input.ProductID).Msg("conteo sin diferencia, no se registra movimiento")
		return res, nil
	}

	uc.log.Info().
		Str("movement_id", res.Movement.ID).
		Str("type", string(res.Movement.Type)).
		Str("product_id", res.Movement.ProductID).
		Int64("quantity", res.Movement.Quantity).
		Str("actor", res.Movement.Actor).
		Msg("movimiento registrado")
	return res, nil
}

// resolve valida que producto, bodegas y contrapartes existan.
func (uc *RegisterMovementUseCase) resolve(tx repository.Tx, input MovementInputDTO) (*movementRefs, error) {
	product, err := tx.Products().GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	refs := &movementRefs{product: product}

	for _, whID := range []string{input.FromWarehouseID, input.ToWarehouseID} {
		if whID == "" {
			continue
		}
		wh, err := tx.Warehouses().GetByID(whID)
		if err != nil {
			return nil, err
		}
		if !wh.IsActive {
			return nil, fmt.Errorf("bodega %s inactiva: %w", wh.ID, domain.ErrInvalidInput)
		}
	}

	if input.Type == entity.MovementTypeIN && input.VendorID != "" {
		if refs.vendor, err = tx.Vendors().GetByID(input.VendorID); err != nil {
			return nil, entityNotFound(err)
		}
	}
	if input.Type == entity.MovementTypeOUT && input.ClientID != "" {
		if refs.client, err = tx.Clients().GetByID(input.ClientID); err != nil {
			return nil, entityNotFound(err)
		}
	}
	if input.Type == entity.MovementTypeCONSUMPTION {
		if refs.department, err = tx.Departments().GetByID(input.DepartmentID); err != nil {
			return nil, err
		}
	}
	return refs, nil
}

func entityNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrEntityNotFound
	}
	return err
}

// doIN suma a destino, recalcula el costo promedio y factura al proveedor si lo hay.
func (uc *RegisterMovementUseCase) doIN(
	tx repository.Tx,
	ledger *StockLedger,
	refs *movementRefs,
	input MovementInputDTO,
	mov *entity.MovementRecord,
) (*MovementResult, error) {
	unitCost := *input.UnitCost
	pos, err := ledger.Receive(input.ProductID, input.ToWarehouseID, input.Quantity, unitCost)
	if err != nil {
		return nil, err
	}
	mov.ToWarehouseID = input.ToWarehouseID
	mov.UnitCost = unitCost
	mov.TotalCost = inventory.ExtendedCost(input.Quantity, unitCost)
	mov.VendorID = input.VendorID

	res := &MovementResult{Movement: mov, Positions: []*entity.StockPosition{pos}}
	if refs.vendor != nil && mov.TotalCost.IsPositive() {
		posting, err := uc.accounts.PostInvoiceInTx(tx, finance.InvoiceRequest{
			EntityType:     entity.EntityTypeVendor,
			EntityID:       refs.vendor.ID,
			Amount:         mov.TotalCost,
			ReferenceDocID: mov.ID,
			Notes:          fmt.Sprintf("Compra: %s - Cant: %d @ %s", refs.product.Name, input.Quantity, unitCost.StringFixed(2)),
		}, mov.Timestamp)
		if err != nil {
			return nil, err
		}
		res.attach(posting)
	}
	return res, nil
}

// doOUT descuenta del disponible al costo promedio vigente y factura al cliente si lo hay.
func (uc *RegisterMovementUseCase) doOUT(
	tx repository.Tx,
	ledger *StockLedger,
	refs *movementRefs,
	input MovementInputDTO,
	mov *entity.MovementRecord,
) (*MovementResult, error) {
	unitPrice := refs.product.Price
	if input.UnitPrice != nil {
		unitPrice = *input.UnitPrice
	}
	saleAmount := inventory.ExtendedCost(input.Quantity, unitPrice)

	exceeded := false
	if refs.client != nil && saleAmount.IsPositive() {
		var err error
		if exceeded, err = uc.accounts.CheckCreditLimitInTx(tx, refs.client.ID, saleAmount); err != nil {
			return nil, err
		}
		if exceeded && input.EnforceCreditLimit {
			return nil, domain.ErrCreditLimitExceeded
		}
	}

	pos, err := ledger.Issue(input.ProductID, input.FromWarehouseID, input.Quantity)
	if err != nil {
		return nil, err
	}
	mov.FromWarehouseID = input.FromWarehouseID
	mov.UnitCost = inventory.RoundMoney(pos.AverageCost)
	mov.TotalCost = inventory.ExtendedCost(input.Quantity, pos.AverageCost)
	mov.UnitPrice = unitPrice
	mov.ClientID = input.ClientID

	res := &MovementResult{Movement: mov, Positions: []*entity.StockPosition{pos}, CreditLimitExceeded: exceeded}
	if refs.client != nil && saleAmount.IsPositive() {
		posting, err := uc.accounts.PostInvoiceInTx(tx, finance.InvoiceRequest{
			EntityType:     entity.EntityTypeClient,
			EntityID:       refs.client.ID,
			Amount:         saleAmount,
			ReferenceDocID: mov.ID,
			Notes:          fmt.Sprintf("Venta: %s - Cant: %d @ %s", refs.product.Name, input.Quantity, unitPrice.StringFixed(2)),
		}, mov.Timestamp)
		if err != nil {
			return nil, err
		}
		res.attach(posting)
	}
	return res, nil
}

// doTRANSFER resta de origen y suma en destino en la misma transacción.
func (uc *RegisterMovementUseCase) doTRANSFER(ledger *StockLedger, input MovementInputDTO, mov *entity.MovementRecord) (*MovementResult, error) {
	src, dst, err := ledger.Transfer(input.ProductID, input.FromWarehouseID, input.ToWarehouseID, input.Quantity)
	if err != nil {
		return nil, err
	}
	mov.FromWarehouseID = input.FromWarehouseID
	mov.ToWarehouseID = input.ToWarehouseID
	mov.UnitCost = inventory.RoundMoney(src.AverageCost)
	mov.TotalCost = inventory.ExtendedCost(input.Quantity, src.AverageCost)
	return &MovementResult{Movement: mov, Positions: []*entity.StockPosition{src, dst}}, nil
}

// doADJUSTMENT fija el conteo físico y registra la diferencia con signo para auditoría.
// Un conteo igual a las existencias no emite registro: Movement queda en nil.
func (uc *RegisterMovementUseCase) doADJUSTMENT(ledger *StockLedger, input MovementInputDTO, mov *entity.MovementRecord) (*MovementResult, error) {
	counted := *input.CountedQuantity
	pos, delta, err := ledger.Reconcile(input.ProductID, input.ToWarehouseID, counted)
	if err != nil {
		return nil, err
	}
	if delta == 0 {
		return &MovementResult{Positions: []*entity.StockPosition{pos}}, nil
	}
	abs := delta
	if abs < 0 {
		abs = -abs
	}
	mov.ToWarehouseID = input.ToWarehouseID
	mov.Quantity = abs
	mov.Delta = delta
	mov.CountedQuantity = &counted
	mov.UnitCost = inventory.RoundMoney(pos.AverageCost)
	mov.TotalCost = inventory.ExtendedCost(abs, pos.AverageCost)
	return &MovementResult{Movement: mov, Positions: []*entity.StockPosition{pos}}, nil
}

// doCONSUMPTION salida interna hacia un departamento. El exceso de presupuesto
// del mes no bloquea: se informa en BudgetExceeded.
func (uc *RegisterMovementUseCase) doCONSUMPTION(
	tx repository.Tx,
	ledger *StockLedger,
	refs *movementRefs,
	input MovementInputDTO,
	mov *entity.MovementRecord,
) (*MovementResult, error) {
	if !refs.product.Type.IsConsumable() {
		return nil, domain.ErrResaleNotConsumable
	}
	pos, err := ledger.Issue(input.ProductID, input.FromWarehouseID, input.Quantity)
	if err != nil {
		return nil, err
	}
	mov.FromWarehouseID = input.FromWarehouseID
	mov.DepartmentID = refs.department.ID
	mov.UnitCost = inventory.RoundMoney(pos.AverageCost)
	mov.TotalCost = inventory.ExtendedCost(input.Quantity, pos.AverageCost)

	spent, err := monthToDateConsumption(tx, refs.department.ID, mov.Timestamp)
	if err != nil {
		return nil, err
	}
	spent = spent.Add(mov.TotalCost)
	exceeded := refs.department.BudgetCap.IsPositive() && spent.GreaterThan(refs.department.BudgetCap)
	if exceeded {
		uc.log.Warn().
			Str("department_id", refs.department.ID).
			Str("spent", spent.StringFixed(2)).
			Str("budget_cap", refs.department.BudgetCap.StringFixed(2)).
			Msg("presupuesto del departamento excedido")
	}
	return &MovementResult{
		Movement:        mov,
		Positions:       []*entity.StockPosition{pos},
		BudgetExceeded:  exceeded,
		DepartmentSpend: &spent,
	}, nil
}

// monthToDateConsumption costo consumido por el departamento desde el inicio del mes (UTC) de at.
func monthToDateConsumption(tx repository.Tx, departmentID string, at time.Time) (decimal.Decimal, error) {
	u := at.UTC()
	start := time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	movs, err := tx.Movements().ListByDepartment(departmentID, &start, &u)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, m := range movs {
		if m.Type == entity.MovementTypeCONSUMPTION {
			total = total.Add(m.TotalCost)
		}
	}
	return total, nil
}

// Reserve aparta unidades del disponible de una posición.
func (uc *RegisterMovementUseCase) Reserve(ctx context.Context, productID, warehouseID string, qty int64) (*entity.StockPosition, error) {
	return uc.adjustReservation(ctx, productID, warehouseID, qty)
}

// Release libera unidades reservadas.
func (uc *RegisterMovementUseCase) Release(ctx context.Context, productID, warehouseID string, qty int64) (*entity.StockPosition, error) {
	return uc.adjustReservation(ctx, productID, warehouseID, -qty)
}

func (uc *RegisterMovementUseCase) adjustReservation(ctx context.Context, productID, warehouseID string, delta int64) (*entity.StockPosition, error) {
	if productID == "" || warehouseID == "" || delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	unlock := uc.locks.Lock(keylock.StockKey(productID, warehouseID))
	defer unlock()

	var out *entity.StockPosition
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		if _, err := tx.Products().GetByID(productID); err != nil {
			return err
		}
		if _, err := tx.Warehouses().GetByID(warehouseID); err != nil {
			return err
		}
		ledger := NewStockLedger(tx.Stock(), uc.now())
		if delta > 0 {
			available, err := ledger.Available(productID, warehouseID)
			if err != nil {
				return err
			}
			if delta > available {
				return domain.ErrInsufficientStock
			}
		}
		var err error
		out, err = ledger.ApplyDelta(productID, warehouseID, 0, delta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
