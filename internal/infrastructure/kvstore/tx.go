package kvstore

import (
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
)

var _ repository.Tx = (*tx)(nil)

type stagedView interface {
	dirty() bool
	apply()
	collectionName() string
}

// tx transacción preparada sobre el Store. No es segura para uso concurrente;
// cada llamada a Run crea la suya.
type tx struct {
	store *Store

	products     *view[entity.Product]
	warehouses   *view[entity.Warehouse]
	departments  *view[entity.Department]
	stock        *view[entity.StockPosition]
	movements    *view[entity.MovementRecord]
	vendors      *view[entity.Vendor]
	clients      *view[entity.Client]
	transactions *view[entity.FinancialTransaction]
}

func (s *Store) begin() *tx {
	return &tx{
		store:        s,
		products:     newView(&s.mu, s.products),
		warehouses:   newView(&s.mu, s.warehouses),
		departments:  newView(&s.mu, s.departments),
		stock:        newView(&s.mu, s.stock),
		movements:    newView(&s.mu, s.movements),
		vendors:      newView(&s.mu, s.vendors),
		clients:      newView(&s.mu, s.clients),
		transactions: newView(&s.mu, s.transactions),
	}
}

func (t *tx) views() []stagedView {
	return []stagedView{
		t.products, t.warehouses, t.departments, t.stock,
		t.movements, t.vendors, t.clients, t.transactions,
	}
}

// commit aplica lo preparado y devuelve las colecciones que cambiaron.
func (t *tx) commit() []persisted {
	byName := make(map[string]persisted)
	for _, c := range t.store.collections() {
		byName[c.name()] = c
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	var dirty []persisted
	for _, v := range t.views() {
		if !v.dirty() {
			continue
		}
		v.apply()
		dirty = append(dirty, byName[v.collectionName()])
	}
	return dirty
}

func (t *tx) Products() repository.ProductRepository       { return &productRepo{v: t.products} }
func (t *tx) Warehouses() repository.WarehouseRepository   { return &warehouseRepo{v: t.warehouses} }
func (t *tx) Departments() repository.DepartmentRepository { return &departmentRepo{v: t.departments} }
func (t *tx) Stock() repository.StockRepository             { return &stockRepo{v: t.stock} }
func (t *tx) Movements() repository.MovementRepository     { return &movementRepo{v: t.movements} }
func (t *tx) Vendors() repository.VendorRepository         { return &vendorRepo{v: t.vendors} }
func (t *tx) Clients() repository.ClientRepository         { return &clientRepo{v: t.clients} }
func (t *tx) Transactions() repository.FinancialTransactionRepository {
	return &transactionRepo{v: t.transactions}
}
