package finance_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nexus-ledger/internal/application/finance"
	"github.com/jhoicas/nexus-ledger/internal/domain"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/infrastructure/kvstore"
	"github.com/jhoicas/nexus-ledger/pkg/keylock"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var day0 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store    *kvstore.Store
	tracker  *finance.BalanceTracker
	analyzer *finance.AgingAnalyzer
	partners *finance.PartnerUseCase
	clock    time.Time
}

func newFixture() *fixture {
	f := &fixture{store: kvstore.New(nil, nil), clock: day0}
	locks := keylock.New()
	now := func() time.Time { return f.clock }
	f.tracker = finance.NewBalanceTracker(f.store, locks, nil).WithClock(now)
	f.analyzer = finance.NewAgingAnalyzer(f.store).WithClock(now)
	f.partners = finance.NewPartnerUseCase(f.store, locks)
	return f
}

func (f *fixture) vendor(t *testing.T, terms entity.PaymentTerms, cashPct string) *entity.Vendor {
	t.Helper()
	v, err := f.partners.CreateVendor(context.Background(), finance.VendorInput{
		Name: "Proveedor " + string(terms), PaymentTerms: terms, CashPercentage: d(cashPct),
	})
	require.NoError(t, err)
	return v
}

func (f *fixture) client(t *testing.T, name string, period int, limit string) *entity.Client {
	t.Helper()
	c, err := f.partners.CreateClient(context.Background(), finance.ClientInput{
		Name: name, CollectionPeriodDays: period, CreditLimit: d(limit),
	})
	require.NoError(t, err)
	return c
}

// ─── Política de pago de proveedores ───────────────────────────────────────

func TestPostInvoice_ProveedorContado(t *testing.T) {
	f := newFixture()
	v := f.vendor(t, entity.PaymentTermsCash, "0")

	res, err := f.tracker.PostInvoice(context.Background(), finance.InvoiceRequest{
		EntityType: entity.EntityTypeVendor, EntityID: v.ID, Amount: d("5000"), ReferenceDocID: "OC-1",
	})
	require.NoError(t, err)
	assert.True(t, res.NewBalance.IsZero())
	assert.True(t, res.CashPayment.Equal(d("5000")))
	assert.True(t, res.Transaction.IsPaid(), "una factura de contado nace liquidada")
	assert.Nil(t, res.Transaction.DueDate)

	stored, err := f.partners.GetVendor(context.Background(), v.ID)
	require.NoError(t, err)
	assert.True(t, stored.CurrentBalance.IsZero())
}

func TestPostInvoice_ProveedorHibrido(t *testing.T) {
	f := newFixture()
	v := f.vendor(t, entity.PaymentTermsHybrid, "30")

	res, err := f.tracker.PostInvoice(context.Background(), finance.InvoiceRequest{
		EntityType: entity.EntityTypeVendor, EntityID: v.ID, Amount: d("5000"),
	})
	require.NoError(t, err)
	assert.True(t, res.CashPayment.Equal(d("1500")))
	assert.True(t, res.NewBalance.Equal(d("3500")))
	assert.True(t, res.Transaction.BalanceAfter.Equal(d("3500")))
	assert.True(t, res.Transaction.Amount.Equal(d("5000")))
	assert.False(t, res.Transaction.IsPaid())
}

func TestPostInvoice_ProveedorCredito(t *testing.T) {
	f := newFixture()
	v := f.vendor(t, entity.PaymentTermsCredit, "0")
	ctx := context.Background()

	_, err := f.tracker.PostInvoice(ctx, finance.InvoiceRequest{EntityType: entity.EntityTypeVendor, EntityID: v.ID, Amount: d("1200")})
	require.NoError(t, err)
	res, err := f.tracker.PostPayment(ctx, finance.SettlementRequest{EntityType: entity.EntityTypeVendor, EntityID: v.ID, Amount: d("200")})
	require.NoError(t, err)
	assert.True(t, res.NewBalance.Equal(d("1000")))
	assert.Equal(t, entity.TransactionTypePayment, res.Transaction.Type)
}

// ─── Clientes ──────────────────────────────────────────────────────────────

func TestPostInvoice_ClienteFijaVencimiento(t *testing.T) {
	f := newFixture()
	c := f.client(t, "Tienda Norte", 15, "100000")

	res, err := f.tracker.PostInvoice(context.Background(), finance.InvoiceRequest{
		EntityType: entity.EntityTypeClient, EntityID: c.ID, Amount: d("800"),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Transaction.DueDate)
	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), *res.Transaction.DueDate)
	assert.True(t, res.NewBalance.Equal(d("800")))
	assert.True(t, res.CashPayment.IsZero())
}

func TestPostPayment_SaldoNegativoPermitido(t *testing.T) {
	f := newFixture()
	c := f.client(t, "Tienda", 30, "1000")

	res, err := f.tracker.PostPayment(context.Background(), finance.SettlementRequest{
		EntityType: entity.EntityTypeClient, EntityID: c.ID, Amount: d("250"),
	})
	require.NoError(t, err)
	assert.True(t, res.NewBalance.Equal(d("-250")))
}

func TestPostPayment_Parcial(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.client(t, "Tienda", 30, "5000")
	inv, err := f.tracker.PostInvoice(ctx, finance.InvoiceRequest{EntityType: entity.EntityTypeClient, EntityID: c.ID, Amount: d("1000")})
	require.NoError(t, err)

	first, err := f.tracker.PostPayment(ctx, finance.SettlementRequest{
		EntityType: entity.EntityTypeClient, EntityID: c.ID, Amount: d("400"), ReferenceDocID: inv.Transaction.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, inv.Transaction.ID, first.AppliedInvoiceID)
	assert.True(t, first.InvoiceOutstanding.Equal(d("600")))
	assert.False(t, first.InvoiceSettled)

	second, err := f.tracker.PostNote(ctx, finance.SettlementRequest{
		EntityType: entity.EntityTypeClient, EntityID: c.ID, Type: entity.TransactionTypeCreditNote,
		Amount: d("600"), ReferenceDocID: inv.Transaction.ID,
	})
	require.NoError(t, err)
	assert.True(t, second.InvoiceSettled)
	assert.True(t, second.NewBalance.IsZero())

	stmt, err := f.tracker.Statement(ctx, entity.EntityTypeClient, c.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, stmt, 3)
	for _, tx := range stmt {
		if tx.ID == inv.Transaction.ID {
			assert.True(t, tx.IsPaid())
		}
	}
}

func TestPostNote_TipoInvalido(t *testing.T) {
	f := newFixture()
	c := f.client(t, "Tienda", 30, "5000")
	_, err := f.tracker.PostNote(context.Background(), finance.SettlementRequest{
		EntityType: entity.EntityTypeClient, EntityID: c.ID, Type: entity.TransactionTypeInvoice, Amount: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPostInvoice_EntidadInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.tracker.PostInvoice(context.Background(), finance.InvoiceRequest{
		EntityType: entity.EntityTypeClient, EntityID: "no-existe", Amount: d("10"),
	})
	assert.ErrorIs(t, err, domain.ErrEntityNotFound)

	_, err = f.tracker.PostPayment(context.Background(), finance.SettlementRequest{
		EntityType: entity.EntityTypeVendor, EntityID: "no-existe", Amount: d("10"),
	})
	assert.ErrorIs(t, err, domain.ErrEntityNotFound)
}

func TestPostInvoice_MontoNoPositivo(t *testing.T) {
	f := newFixture()
	c := f.client(t, "Tienda", 30, "5000")
	_, err := f.tracker.PostInvoice(context.Background(), finance.InvoiceRequest{
		EntityType: entity.EntityTypeClient, EntityID: c.ID, Amount: d("0"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPostPayment_MontoQueRedondeaACero(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.client(t, "Tienda", 30, "5000")

	_, err := f.tracker.PostPayment(ctx, finance.SettlementRequest{
		EntityType: entity.EntityTypeClient, EntityID: c.ID, Amount: d("0.004"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.tracker.PostInvoice(ctx, finance.InvoiceRequest{
		EntityType: entity.EntityTypeClient, EntityID: c.ID, Amount: d("0.005"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "0.005 redondea al par: 0.00")

	stmt, err := f.tracker.Statement(ctx, entity.EntityTypeClient, c.ID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, stmt, "no se registran transacciones de 0.00")

	res, err := f.tracker.PostPayment(ctx, finance.SettlementRequest{
		EntityType: entity.EntityTypeClient, EntityID: c.ID, Amount: d("0.006"),
	})
	require.NoError(t, err)
	assert.True(t, res.Transaction.Amount.Equal(d("0.01")))
}

func TestPostInvoice_ProveedorRechazaVencimiento(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	v := f.vendor(t, entity.PaymentTermsCredit, "0")
	due := day0.AddDate(0, 0, 15)

	_, err := f.tracker.PostInvoice(ctx, finance.InvoiceRequest{
		EntityType: entity.EntityTypeVendor, EntityID: v.ID, Amount: d("100"), DueDate: &due,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stored, err := f.partners.GetVendor(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, stored.CurrentBalance.IsZero())
}

// ─── Límite de crédito y validación de pedidos ─────────────────────────────

func TestCheckCreditLimit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.client(t, "Tienda", 30, "1000")
	_, err := f.tracker.PostInvoice(ctx, finance.InvoiceRequest{EntityType: entity.EntityTypeClient, EntityID: c.ID, Amount: d("800")})
	require.NoError(t, err)

	blocked, err := f.tracker.CheckCreditLimit(ctx, c.ID, d("200"))
	require.NoError(t, err)
	assert.False(t, blocked)

	blocked, err = f.tracker.CheckCreditLimit(ctx, c.ID, d("200.01"))
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestValidateOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.client(t, "Tienda", 10, "1000")

	ok, err := f.tracker.ValidateOrder(ctx, c.ID, d("500"))
	require.NoError(t, err)
	assert.True(t, ok.Approved)

	over, err := f.tracker.ValidateOrder(ctx, c.ID, d("1500"))
	require.NoError(t, err)
	assert.False(t, over.Approved)
	assert.True(t, over.RequiresApproval)
	assert.Contains(t, over.Reason, "1000.00")

	_, err = f.tracker.PostInvoice(ctx, finance.InvoiceRequest{EntityType: entity.EntityTypeClient, EntityID: c.ID, Amount: d("100")})
	require.NoError(t, err)
	f.clock = day0.AddDate(0, 0, 12)
	late, err := f.tracker.ValidateOrder(ctx, c.ID, d("10"))
	require.NoError(t, err)
	assert.False(t, late.Approved)
	assert.True(t, late.RequiresApproval)
}

// ─── Replay ────────────────────────────────────────────────────────────────

func TestVerifyBalance_ReplayReproduceSaldo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	v := f.vendor(t, entity.PaymentTermsHybrid, "25")

	steps := []func() error{
		func() error {
			_, err := f.tracker.PostInvoice(ctx, finance.InvoiceRequest{EntityType: entity.EntityTypeVendor, EntityID: v.ID, Amount: d("999.99")})
			return err
		},
		func() error {
			_, err := f.tracker.PostPayment(ctx, finance.SettlementRequest{EntityType: entity.EntityTypeVendor, EntityID: v.ID, Amount: d("100")})
			return err
		},
		func() error {
			_, err := f.tracker.PostNote(ctx, finance.SettlementRequest{EntityType: entity.EntityTypeVendor, EntityID: v.ID, Type: entity.TransactionTypeDebitNote, Amount: d("40.50")})
			return err
		},
		func() error {
			_, err := f.tracker.PostNote(ctx, finance.SettlementRequest{EntityType: entity.EntityTypeVendor, EntityID: v.ID, Type: entity.TransactionTypeReturn, Amount: d("12.25")})
			return err
		},
	}
	for i, step := range steps {
		f.clock = day0.Add(time.Duration(i) * time.Hour)
		require.NoError(t, step())
	}

	check, err := f.tracker.VerifyBalance(ctx, entity.EntityTypeVendor, v.ID)
	require.NoError(t, err)
	assert.True(t, check.Consistent)
	// 999.99 * 0.25 = 250.00 en efectivo -> 749.99 - 100 + 40.50 - 12.25
	assert.True(t, check.Stored.Equal(d("678.24")), "stored=%s", check.Stored)
}

func TestStatement_OrdenDescendenteYRango(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.client(t, "Tienda", 30, "10000")
	for i := 0; i < 3; i++ {
		f.clock = day0.AddDate(0, 0, i)
		_, err := f.tracker.PostInvoice(ctx, finance.InvoiceRequest{EntityType: entity.EntityTypeClient, EntityID: c.ID, Amount: d("10")})
		require.NoError(t, err)
	}

	all, err := f.tracker.Statement(ctx, entity.EntityTypeClient, c.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].TransactionDate.After(all[1].TransactionDate))
	assert.True(t, all[1].TransactionDate.After(all[2].TransactionDate))

	from := day0.AddDate(0, 0, 1)
	ranged, err := f.tracker.Statement(ctx, entity.EntityTypeClient, c.ID, &from, nil)
	require.NoError(t, err)
	assert.Len(t, ranged, 2)
}

func TestSalesLinkedCommission(t *testing.T) {
	f := newFixture()
	v, err := f.partners.CreateVendor(context.Background(), finance.VendorInput{
		Name: "Distribuidor", PaymentTerms: entity.PaymentTermsHybrid, CashPercentage: d("10"), CommissionPerUnit: d("1.25"),
	})
	require.NoError(t, err)
	amount, err := f.tracker.SalesLinkedCommission(context.Background(), v.ID, 8)
	require.NoError(t, err)
	assert.True(t, amount.Equal(d("10")))
}
