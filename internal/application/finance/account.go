package finance

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/nexus-ledger/internal/domain"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/finance"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
)

// account vista común de proveedor o cliente para el tracker.
type account struct {
	entityType entity.EntityType
	vendor     *entity.Vendor
	client     *entity.Client
}

func loadAccount(tx repository.Tx, entityType entity.EntityType, id string) (*account, error) {
	switch entityType {
	case entity.EntityTypeVendor:
		v, err := tx.Vendors().GetByID(id)
		if err != nil {
			return nil, notFoundAsEntity(err)
		}
		return &account{entityType: entityType, vendor: v}, nil
	case entity.EntityTypeClient:
		c, err := tx.Clients().GetByID(id)
		if err != nil {
			return nil, notFoundAsEntity(err)
		}
		return &account{entityType: entityType, client: c}, nil
	}
	return nil, domain.ErrInvalidInput
}

func notFoundAsEntity(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrEntityNotFound
	}
	return err
}

func (a *account) id() string {
	if a.vendor != nil {
		return a.vendor.ID
	}
	return a.client.ID
}

func (a *account) name() string {
	if a.vendor != nil {
		return a.vendor.Name
	}
	return a.client.Name
}

func (a *account) balance() decimal.Decimal {
	if a.vendor != nil {
		return a.vendor.CurrentBalance
	}
	return a.client.CurrentBalance
}

// creditLimit nil cuando la cuenta no tiene límite (proveedores sin límite configurado).
func (a *account) creditLimit() *decimal.Decimal {
	if a.vendor != nil {
		return a.vendor.CreditLimit
	}
	limit := a.client.CreditLimit
	return &limit
}

func (a *account) exceedsLimit(proposed decimal.Decimal) bool {
	limit := a.creditLimit()
	if limit == nil {
		return false
	}
	return finance.ExceedsCreditLimit(a.balance(), proposed, *limit)
}

// setBalance persiste el nuevo saldo junto con la transacción que lo produjo.
func (a *account) setBalance(tx repository.Tx, balance decimal.Decimal, at time.Time) error {
	if a.vendor != nil {
		a.vendor.CurrentBalance = balance
		a.vendor.UpdatedAt = at
		return tx.Vendors().Update(a.vendor)
	}
	a.client.CurrentBalance = balance
	a.client.UpdatedAt = at
	return tx.Clients().Update(a.client)
}
