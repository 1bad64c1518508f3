package finance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/nexus-ledger/internal/domain"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
	"github.com/jhoicas/nexus-ledger/pkg/keylock"
)

// PartnerUseCase alta y mantenimiento de proveedores y clientes.
// El saldo nunca se edita aquí: solo el BalanceTracker lo modifica.
type PartnerUseCase struct {
	txRunner TxRunner
	locks    *keylock.Locker
	now      func() time.Time
}

// NewPartnerUseCase construye el caso de uso.
func NewPartnerUseCase(txRunner TxRunner, locks *keylock.Locker) *PartnerUseCase {
	return &PartnerUseCase{txRunner: txRunner, locks: locks, now: func() time.Time { return time.Now().UTC() }}
}

// VendorInput campos editables de un proveedor.
type VendorInput struct {
	Name              string
	ContactPerson     string
	Phone             string
	Address           string
	TaxID             string
	PaymentTerms      entity.PaymentTerms
	CashPercentage    decimal.Decimal
	CommissionPerUnit decimal.Decimal
	CreditLimit       *decimal.Decimal
}

func (in VendorInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || !in.PaymentTerms.IsValid() {
		return domain.ErrInvalidInput
	}
	if in.CashPercentage.IsNegative() || in.CashPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return domain.ErrInvalidInput
	}
	if in.CommissionPerUnit.IsNegative() || (in.CreditLimit != nil && in.CreditLimit.IsNegative()) {
		return domain.ErrInvalidInput
	}
	return nil
}

func (in VendorInput) applyTo(v *entity.Vendor) {
	v.Name = strings.TrimSpace(in.Name)
	v.ContactPerson = in.ContactPerson
	v.Phone = in.Phone
	v.Address = in.Address
	v.TaxID = in.TaxID
	v.PaymentTerms = in.PaymentTerms
	v.CashPercentage = in.CashPercentage
	v.CommissionPerUnit = in.CommissionPerUnit
	v.CreditLimit = in.CreditLimit
}

// CreateVendor crea un proveedor con saldo cero.
func (uc *PartnerUseCase) CreateVendor(ctx context.Context, in VendorInput) (*entity.Vendor, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := uc.now()
	v := &entity.Vendor{ID: uuid.New().String(), CurrentBalance: decimal.Zero, CreatedAt: now, UpdatedAt: now}
	in.applyTo(v)
	if err := uc.txRunner.Run(ctx, func(tx repository.Tx) error { return tx.Vendors().Create(v) }); err != nil {
		return nil, err
	}
	return v, nil
}

// UpdateVendor actualiza los campos editables; el saldo se conserva.
func (uc *PartnerUseCase) UpdateVendor(ctx context.Context, id string, in VendorInput) (*entity.Vendor, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	unlock := uc.locks.Lock(accountLock(entity.EntityTypeVendor, id))
	defer unlock()

	var out *entity.Vendor
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		v, err := tx.Vendors().GetByID(id)
		if err != nil {
			return notFoundAsEntity(err)
		}
		in.applyTo(v)
		v.UpdatedAt = uc.now()
		out = v
		return tx.Vendors().Update(v)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetVendor obtiene un proveedor por ID.
func (uc *PartnerUseCase) GetVendor(ctx context.Context, id string) (*entity.Vendor, error) {
	var out *entity.Vendor
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		v, err := tx.Vendors().GetByID(id)
		out = v
		return notFoundAsEntity(err)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListVendors lista proveedores con paginación.
func (uc *PartnerUseCase) ListVendors(ctx context.Context, limit, offset int) ([]*entity.Vendor, error) {
	var out []*entity.Vendor
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.Vendors().List(limit, offset)
		return err
	})
	return out, err
}

// ClientInput campos editables de un cliente.
type ClientInput struct {
	Name                 string
	ContactPerson        string
	Phone                string
	GPSLocation          string
	Category             string
	CollectionPeriodDays int
	CreditLimit          decimal.Decimal
	IsActive             *bool
}

func (in ClientInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || in.CollectionPeriodDays < 0 || in.CreditLimit.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

func (in ClientInput) applyTo(c *entity.Client) {
	c.Name = strings.TrimSpace(in.Name)
	c.ContactPerson = in.ContactPerson
	c.Phone = in.Phone
	c.GPSLocation = in.GPSLocation
	c.Category = in.Category
	c.CollectionPeriodDays = in.CollectionPeriodDays
	c.CreditLimit = in.CreditLimit
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
}

// CreateClient crea un cliente activo con saldo cero.
func (uc *PartnerUseCase) CreateClient(ctx context.Context, in ClientInput) (*entity.Client, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.Client{ID: uuid.New().String(), IsActive: true, CurrentBalance: decimal.Zero, CreatedAt: now, UpdatedAt: now}
	in.applyTo(c)
	if err := uc.txRunner.Run(ctx, func(tx repository.Tx) error { return tx.Clients().Create(c) }); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateClient actualiza los campos editables; el saldo se conserva.
func (uc *PartnerUseCase) UpdateClient(ctx context.Context, id string, in ClientInput) (*entity.Client, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	unlock := uc.locks.Lock(accountLock(entity.EntityTypeClient, id))
	defer unlock()

	var out *entity.Client
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		c, err := tx.Clients().GetByID(id)
		if err != nil {
			return notFoundAsEntity(err)
		}
		in.applyTo(c)
		c.UpdatedAt = uc.now()
		out = c
		return tx.Clients().Update(c)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetClient obtiene un cliente por ID.
func (uc *PartnerUseCase) GetClient(ctx context.Context, id string) (*entity.Client, error) {
	var out *entity.Client
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		c, err := tx.Clients().GetByID(id)
		out = c
		return notFoundAsEntity(err)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListClients lista clientes con paginación.
func (uc *PartnerUseCase) ListClients(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	var out []*entity.Client
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.Clients().List(limit, offset)
		return err
	})
	return out, err
}
