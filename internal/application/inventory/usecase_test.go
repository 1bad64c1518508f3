package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nexus-ledger/internal/application/dto"
	"github.com/jhoicas/nexus-ledger/internal/application/finance"
	"github.com/jhoicas/nexus-ledger/internal/application/inventory"
	"github.com/jhoicas/nexus-ledger/internal/application/usecase"
	"github.com/jhoicas/nexus-ledger/internal/domain"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/infrastructure/kvstore"
	"github.com/jhoicas/nexus-ledger/pkg/keylock"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func i64(v int64) *int64 { return &v }

var day0 = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store       *kvstore.Store
	movements   *inventory.RegisterMovementUseCase
	queries     *inventory.StockQueryUseCase
	tracker     *finance.BalanceTracker
	partners    *finance.PartnerUseCase
	products    *usecase.ProductUseCase
	warehouses  *usecase.WarehouseUseCase
	departments *usecase.DepartmentUseCase
	clock       time.Time
	mu          sync.Mutex
}

func newFixture() *fixture {
	f := &fixture{store: kvstore.New(nil, nil), clock: day0}
	locks := keylock.New()
	now := func() time.Time {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.clock
	}
	f.tracker = finance.NewBalanceTracker(f.store, locks, nil).WithClock(now)
	f.partners = finance.NewPartnerUseCase(f.store, locks)
	f.movements = inventory.NewRegisterMovementUseCase(f.store, locks, f.tracker, nil).WithClock(now)
	f.queries = inventory.NewStockQueryUseCase(f.store)
	f.products = usecase.NewProductUseCase(f.store)
	f.warehouses = usecase.NewWarehouseUseCase(f.store)
	f.departments = usecase.NewDepartmentUseCase(f.store)
	return f
}

func (f *fixture) advance(dur time.Duration) {
	f.mu.Lock()
	f.clock = f.clock.Add(dur)
	f.mu.Unlock()
}

func (f *fixture) product(t *testing.T, sku string, typ entity.ProductType, price string) string {
	t.Helper()
	p, err := f.products.Create(context.Background(), dto.CreateProductRequest{
		SKU: sku, Name: "Producto " + sku, Type: string(typ), MinReorderLevel: 10, Price: d(price),
	})
	require.NoError(t, err)
	return p.ID
}

func (f *fixture) warehouse(t *testing.T, name string) string {
	t.Helper()
	w, err := f.warehouses.Create(context.Background(), dto.CreateWarehouseRequest{Name: name})
	require.NoError(t, err)
	return w.ID
}

func (f *fixture) receive(t *testing.T, productID, warehouseID string, qty int64, cost string) *inventory.MovementResult {
	t.Helper()
	res, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Actor: "tester", Type: entity.MovementTypeIN, ProductID: productID, WarehouseID: warehouseID,
		Quantity: qty, UnitCost: dp(cost), ReferenceDocID: "OC-" + cost,
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) position(t *testing.T, productID, warehouseID string) *dto.StockPositionResponse {
	t.Helper()
	pos, err := f.queries.GetPosition(context.Background(), productID, warehouseID)
	require.NoError(t, err)
	return pos
}

// ─── Entradas y costo promedio ─────────────────────────────────────────────

func TestRegisterMovement_EntradasRecalculanCostoPromedio(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "20")
	w := f.warehouse(t, "Principal")

	f.receive(t, p, w, 100, "10.00")
	res := f.receive(t, p, w, 50, "16.00")

	require.Len(t, res.Positions, 1)
	assert.Equal(t, int64(150), res.Positions[0].QuantityOnHand)
	assert.True(t, res.Positions[0].AverageCost.Equal(d("12.00")), "got %s", res.Positions[0].AverageCost)
	assert.True(t, res.Movement.TotalCost.Equal(d("800")))
	assert.Equal(t, "tester", res.Movement.Actor)
	assert.Nil(t, res.Transaction, "sin proveedor no se genera factura")

	pos := f.position(t, p, w)
	assert.True(t, pos.TotalValue.Equal(d("1800")))
}

func TestRegisterMovement_EntradaSinReferenciaEsInvalida(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "20")
	w := f.warehouse(t, "Principal")

	_, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeIN, ProductID: p, WarehouseID: w, Quantity: 5, UnitCost: dp("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeIN, ProductID: p, WarehouseID: w, Quantity: 0, UnitCost: dp("1"), ReferenceDocID: "OC",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_ProductoYBodegaInexistentes(t *testing.T) {
	f := newFixture()
	w := f.warehouse(t, "Principal")
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "20")

	_, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeIN, ProductID: "nope", WarehouseID: w, Quantity: 1, UnitCost: dp("1"), ReferenceDocID: "OC",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeIN, ProductID: p, WarehouseID: "nope", Quantity: 1, UnitCost: dp("1"), ReferenceDocID: "OC",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterMovement_BodegaInactivaRechaza(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "20")
	w := f.warehouse(t, "Cerrada")
	inactive := false
	_, err := f.warehouses.Update(context.Background(), w, dto.UpdateWarehouseRequest{IsActive: &inactive})
	require.NoError(t, err)

	_, err = f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeIN, ProductID: p, WarehouseID: w, Quantity: 1, UnitCost: dp("1"), ReferenceDocID: "OC",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Salidas ───────────────────────────────────────────────────────────────

func TestRegisterMovement_SalidaSinDisponibleNoMuta(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "20")
	w := f.warehouse(t, "Principal")
	f.receive(t, p, w, 100, "10.00")

	_, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeOUT, ProductID: p, WarehouseID: w, Quantity: 120,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	pos := f.position(t, p, w)
	assert.Equal(t, int64(100), pos.QuantityOnHand)
	history, err := f.queries.MovementHistory(context.Background(), inventory.MovementQuery{ProductID: p})
	require.NoError(t, err)
	assert.Len(t, history, 1, "el movimiento rechazado no queda en el ledger")
}

func TestRegisterMovement_SalidaRespetaReservas(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "20")
	w := f.warehouse(t, "Principal")
	f.receive(t, p, w, 10, "5")

	_, err := f.movements.Reserve(context.Background(), p, w, 8)
	require.NoError(t, err)

	_, err = f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeOUT, ProductID: p, WarehouseID: w, Quantity: 3,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	res, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeOUT, ProductID: p, WarehouseID: w, Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), res.Positions[0].QuantityOnHand)
	assert.Zero(t, res.Positions[0].Available())
	assert.True(t, res.Positions[0].AverageCost.Equal(d("5")), "la salida no altera el costo promedio")
}

func TestRegisterMovement_SalidaFacturaAlCliente(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "25")
	w := f.warehouse(t, "Principal")
	f.receive(t, p, w, 10, "10")
	c, err := f.partners.CreateClient(context.Background(), finance.ClientInput{
		Name: "Tienda", CollectionPeriodDays: 30, CreditLimit: d("1000"),
	})
	require.NoError(t, err)

	res, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeOUT, ProductID: p, WarehouseID: w, Quantity: 4, ClientID: c.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Transaction)
	assert.True(t, res.Transaction.Amount.Equal(d("100")), "precio por defecto del producto")
	assert.Equal(t, res.Movement.ID, res.Transaction.ReferenceDocID)
	assert.True(t, res.NewBalance.Equal(d("100")))
	assert.Nil(t, res.CashPayment)
	assert.True(t, res.Movement.TotalCost.Equal(d("40")), "costo de la salida al promedio")
	require.NotNil(t, res.Transaction.DueDate)
	assert.Equal(t, time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC), *res.Transaction.DueDate)
}

func TestRegisterMovement_LimiteDeCreditoObligatorioNoMuta(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "25")
	w := f.warehouse(t, "Principal")
	f.receive(t, p, w, 10, "10")
	c, err := f.partners.CreateClient(context.Background(), finance.ClientInput{
		Name: "Tienda", CollectionPeriodDays: 30, CreditLimit: d("50"),
	})
	require.NoError(t, err)

	_, err = f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeOUT, ProductID: p, WarehouseID: w, Quantity: 4, ClientID: c.ID,
		EnforceCreditLimit: true,
	})
	assert.ErrorIs(t, err, domain.ErrCreditLimitExceeded)
	assert.Equal(t, int64(10), f.position(t, p, w).QuantityOnHand)
	stored, err := f.partners.GetClient(context.Background(), c.ID)
	require.NoError(t, err)
	assert.True(t, stored.CurrentBalance.IsZero())

	// sin obligatoriedad la venta procede y solo se informa
	res, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeOUT, ProductID: p, WarehouseID: w, Quantity: 4, ClientID: c.ID,
	})
	require.NoError(t, err)
	assert.True(t, res.CreditLimitExceeded)
	assert.True(t, res.NewBalance.Equal(d("100")))
}

func TestRegisterMovement_ClienteInexistente(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "25")
	w := f.warehouse(t, "Principal")
	f.receive(t, p, w, 10, "10")

	_, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeOUT, ProductID: p, WarehouseID: w, Quantity: 1, ClientID: "nope",
	})
	assert.ErrorIs(t, err, domain.ErrEntityNotFound)
	assert.Equal(t, int64(10), f.position(t, p, w).QuantityOnHand)
}

// ─── Entradas con proveedor ────────────────────────────────────────────────

func TestRegisterMovement_EntradaFacturaAlProveedorHibrido(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "25")
	w := f.warehouse(t, "Principal")
	v, err := f.partners.CreateVendor(context.Background(), finance.VendorInput{
		Name: "Distribuidora", PaymentTerms: entity.PaymentTermsHybrid, CashPercentage: d("30"),
	})
	require.NoError(t, err)

	res, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeIN, ProductID: p, WarehouseID: w, Quantity: 500, UnitCost: dp("10"),
		ReferenceDocID: "FAC-77", VendorID: v.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Transaction)
	assert.True(t, res.Transaction.Amount.Equal(d("5000")))
	assert.True(t, res.CashPayment.Equal(d("1500")))
	assert.True(t, res.NewBalance.Equal(d("3500")))
	assert.Equal(t, v.ID, res.Movement.VendorID)
}

func TestRegisterMovement_EntradaCostoCeroNoFactura(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "25")
	w := f.warehouse(t, "Principal")
	v, err := f.partners.CreateVendor(context.Background(), finance.VendorInput{
		Name: "Donante", PaymentTerms: entity.PaymentTermsCredit,
	})
	require.NoError(t, err)

	res, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeIN, ProductID: p, WarehouseID: w, Quantity: 5, UnitCost: dp("0"),
		ReferenceDocID: "DON-1", VendorID: v.ID,
	})
	require.NoError(t, err)
	assert.Nil(t, res.Transaction)
}

// ─── Traslados ─────────────────────────────────────────────────────────────

func TestRegisterMovement_TrasladoMezclaCostoEnDestino(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "25")
	a := f.warehouse(t, "A")
	b := f.warehouse(t, "B")
	f.receive(t, p, a, 100, "10")
	f.receive(t, p, b, 100, "20")

	res, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeTRANSFER, ProductID: p, FromWarehouseID: a, ToWarehouseID: b, Quantity: 100,
	})
	require.NoError(t, err)
	require.Len(t, res.Positions, 2)

	src, dst := f.position(t, p, a), f.position(t, p, b)
	assert.Zero(t, src.QuantityOnHand)
	assert.True(t, src.AverageCost.Equal(d("10")))
	assert.Equal(t, int64(200), dst.QuantityOnHand)
	assert.True(t, dst.AverageCost.Equal(d("15")), "got %s", dst.AverageCost)
}

func TestRegisterMovement_CostoPromedioConCostosDesiguales(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "25")
	a := f.warehouse(t, "A")
	b := f.warehouse(t, "B")
	f.receive(t, p, a, 3, "1.00")
	f.receive(t, p, a, 3, "1.01")
	f.receive(t, p, a, 1, "1.01")
	f.receive(t, p, b, 3, "1.00")
	f.receive(t, p, b, 4, "1.01")

	// 7.04 / 7 = 1.005714... en ambas bodegas
	for _, w := range []string{a, b} {
		pos := f.position(t, p, w)
		assert.True(t, pos.AverageCost.Equal(d("1.01")), "got %s", pos.AverageCost)
		assert.True(t, pos.TotalValue.Equal(d("7.04")), "got %s", pos.TotalValue)
	}
}

func TestRegisterMovement_TrasladoInsuficienteEsAtomico(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "25")
	a := f.warehouse(t, "A")
	b := f.warehouse(t, "B")
	f.receive(t, p, a, 5, "10")

	_, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeTRANSFER, ProductID: p, FromWarehouseID: a, ToWarehouseID: b, Quantity: 6,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), f.position(t, p, a).QuantityOnHand)
	assert.Zero(t, f.position(t, p, b).QuantityOnHand)

	_, err = f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeTRANSFER, ProductID: p, FromWarehouseID: a, ToWarehouseID: a, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Ajustes ───────────────────────────────────────────────────────────────

func TestRegisterMovement_AjusteRegistraDiferencia(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "25")
	w := f.warehouse(t, "Principal")
	f.receive(t, p, w, 50, "4")

	res, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeADJUSTMENT, ProductID: p, WarehouseID: w, CountedQuantity: i64(47),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-3), res.Movement.Delta)
	assert.Equal(t, int64(3), res.Movement.Quantity)
	assert.Equal(t, w, res.Movement.ToWarehouseID)
	assert.True(t, res.Movement.TotalCost.Equal(d("12")))
	assert.Equal(t, int64(47), f.position(t, p, w).QuantityOnHand)

	_, err = f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeADJUSTMENT, ProductID: p, WarehouseID: w, CountedQuantity: i64(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_AjusteSinDiferenciaNoRegistra(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "25")
	w := f.warehouse(t, "Principal")
	f.receive(t, p, w, 50, "4")

	res, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeADJUSTMENT, ProductID: p, WarehouseID: w, CountedQuantity: i64(50),
	})
	require.NoError(t, err)
	assert.Nil(t, res.Movement)
	require.Len(t, res.Positions, 1)
	assert.Equal(t, int64(50), res.Positions[0].QuantityOnHand)

	history, err := f.queries.MovementHistory(context.Background(), inventory.MovementQuery{ProductID: p})
	require.NoError(t, err)
	require.Len(t, history, 1, "solo la entrada inicial")
	assert.Equal(t, entity.MovementTypeIN, history[0].Type)
	assert.True(t, f.position(t, p, w).TotalValue.Equal(d("200")))
}

func TestRegisterMovement_AjusteRecortaReservas(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "25")
	w := f.warehouse(t, "Principal")
	f.receive(t, p, w, 10, "4")
	_, err := f.movements.Reserve(context.Background(), p, w, 8)
	require.NoError(t, err)

	_, err = f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeADJUSTMENT, ProductID: p, WarehouseID: w, CountedQuantity: i64(5),
	})
	require.NoError(t, err)
	pos := f.position(t, p, w)
	assert.Equal(t, int64(5), pos.QuantityOnHand)
	assert.Equal(t, int64(5), pos.QuantityReserved)
	assert.Zero(t, pos.Available)
}

// ─── Consumo interno ───────────────────────────────────────────────────────

func TestRegisterMovement_ConsumoDeReventaRechazado(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "25")
	w := f.warehouse(t, "Principal")
	f.receive(t, p, w, 10, "4")
	dep, err := f.departments.Create(context.Background(), dto.CreateDepartmentRequest{Name: "Cocina", CostCenterCode: "CC-1"})
	require.NoError(t, err)

	_, err = f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeCONSUMPTION, ProductID: p, WarehouseID: w, Quantity: 2, DepartmentID: dep.ID,
	})
	assert.ErrorIs(t, err, domain.ErrResaleNotConsumable)
	assert.Equal(t, int64(10), f.position(t, p, w).QuantityOnHand)
}

func TestRegisterMovement_ConsumoAcumulaPresupuestoMensual(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-C", entity.ProductTypeConsumable, "0")
	w := f.warehouse(t, "Principal")
	f.receive(t, p, w, 100, "10")
	dep, err := f.departments.Create(context.Background(), dto.CreateDepartmentRequest{
		Name: "Cocina", CostCenterCode: "CC-1", BudgetCap: d("150"),
	})
	require.NoError(t, err)

	consume := func(qty int64) *inventory.MovementResult {
		res, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
			Type: entity.MovementTypeCONSUMPTION, ProductID: p, WarehouseID: w, Quantity: qty, DepartmentID: dep.ID,
		})
		require.NoError(t, err)
		return res
	}

	first := consume(10)
	assert.False(t, first.BudgetExceeded)
	assert.True(t, first.DepartmentSpend.Equal(d("100")))

	f.advance(time.Hour)
	second := consume(6)
	assert.True(t, second.BudgetExceeded, "el exceso no bloquea, solo se informa")
	assert.True(t, second.DepartmentSpend.Equal(d("160")))
	assert.Equal(t, int64(84), f.position(t, p, w).QuantityOnHand)

	// un mes nuevo reinicia el acumulado
	f.advance(31 * 24 * time.Hour)
	third := consume(1)
	assert.False(t, third.BudgetExceeded)
	assert.True(t, third.DepartmentSpend.Equal(d("10")))
}

// ─── Reservas ──────────────────────────────────────────────────────────────

func TestReserveRelease(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "25")
	w := f.warehouse(t, "Principal")
	f.receive(t, p, w, 10, "4")

	pos, err := f.movements.Reserve(context.Background(), p, w, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos.Available())

	_, err = f.movements.Reserve(context.Background(), p, w, 5)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = f.movements.Release(context.Background(), p, w, 7)
	assert.ErrorIs(t, err, domain.ErrNegativeStock)

	pos, err = f.movements.Release(context.Background(), p, w, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(10), pos.Available())
}

// ─── Concurrencia ──────────────────────────────────────────────────────────

func TestRegisterMovement_SalidasConcurrentesNuncaSobregiran(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "25")
	w := f.warehouse(t, "Principal")
	f.receive(t, p, w, 50, "4")

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, rejected := 0, 0
	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
				Type: entity.MovementTypeOUT, ProductID: p, WarehouseID: w, Quantity: 1,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, ok)
	assert.Equal(t, 30, rejected)
	assert.Zero(t, f.position(t, p, w).QuantityOnHand)
}

// ─── Adaptador HTTP ────────────────────────────────────────────────────────

func TestRegisterMovementFromRequest(t *testing.T) {
	f := newFixture()
	p := f.product(t, "SKU-A", entity.ProductTypeResale, "25")
	w := f.warehouse(t, "Principal")

	out, err := f.movements.RegisterMovementFromRequest(context.Background(), "operador-1", dto.RegisterMovementRequest{
		Type: "IN", ProductID: p, WarehouseID: w, Quantity: 3, UnitCost: dp("2.50"), ReferenceDocID: "OC-9",
	})
	require.NoError(t, err)
	assert.Equal(t, "operador-1", out.Movement.Actor)
	assert.Equal(t, entity.MovementTypeIN, out.Movement.Type)
	assert.True(t, out.Movement.TotalCost.Equal(d("7.50")))
}
