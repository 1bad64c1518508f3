package kvstore

import (
	"time"

	"github.com/jhoicas/nexus-ledger/internal/domain"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
)

var (
	_ repository.StockRepository                = (*stockRepo)(nil)
	_ repository.MovementRepository             = (*movementRepo)(nil)
	_ repository.VendorRepository               = (*vendorRepo)(nil)
	_ repository.ClientRepository               = (*clientRepo)(nil)
	_ repository.FinancialTransactionRepository = (*transactionRepo)(nil)
)

func inRange(ts time.Time, from, to *time.Time) bool {
	if from != nil && ts.Before(*from) {
		return false
	}
	if to != nil && ts.After(*to) {
		return false
	}
	return true
}

type stockRepo struct{ v *view[entity.StockPosition] }

func (r *stockRepo) Get(productID, warehouseID string) (*entity.StockPosition, error) {
	if pos, ok := r.v.get(stockKey(productID, warehouseID)); ok {
		return pos, nil
	}
	return &entity.StockPosition{ProductID: productID, WarehouseID: warehouseID}, nil
}

func (r *stockRepo) Upsert(pos *entity.StockPosition) error {
	if pos.QuantityOnHand < 0 || pos.QuantityReserved < 0 || pos.QuantityReserved > pos.QuantityOnHand {
		return domain.ErrNegativeStock
	}
	r.v.set(pos)
	return nil
}

func (r *stockRepo) List() ([]*entity.StockPosition, error) { return r.v.all(), nil }

func (r *stockRepo) ListByWarehouse(warehouseID string) ([]*entity.StockPosition, error) {
	return r.filter(func(p *entity.StockPosition) bool { return p.WarehouseID == warehouseID }), nil
}

func (r *stockRepo) ListByProduct(productID string) ([]*entity.StockPosition, error) {
	return r.filter(func(p *entity.StockPosition) bool { return p.ProductID == productID }), nil
}

func (r *stockRepo) filter(keep func(*entity.StockPosition) bool) []*entity.StockPosition {
	out := []*entity.StockPosition{}
	for _, p := range r.v.all() {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

type movementRepo struct{ v *view[entity.MovementRecord] }

func (r *movementRepo) Create(m *entity.MovementRecord) error { return create(r.v, m) }

func (r *movementRepo) GetByID(id string) (*entity.MovementRecord, error) { return getByID(r.v, id) }

func (r *movementRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	out := r.filter(from, to, func(m *entity.MovementRecord) bool {
		return m.FromWarehouseID == warehouseID || m.ToWarehouseID == warehouseID
	})
	return paginate(out, limit, offset), nil
}

func (r *movementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	out := r.filter(from, to, func(m *entity.MovementRecord) bool { return m.ProductID == productID })
	return paginate(out, limit, offset), nil
}

func (r *movementRepo) ListByDepartment(departmentID string, from, to *time.Time) ([]*entity.MovementRecord, error) {
	return r.filter(from, to, func(m *entity.MovementRecord) bool { return m.DepartmentID == departmentID }), nil
}

func (r *movementRepo) filter(from, to *time.Time, keep func(*entity.MovementRecord) bool) []*entity.MovementRecord {
	out := []*entity.MovementRecord{}
	for _, m := range r.v.all() {
		if keep(m) && inRange(m.Timestamp, from, to) {
			out = append(out, m)
		}
	}
	return out
}

type vendorRepo struct{ v *view[entity.Vendor] }

func (r *vendorRepo) Create(v *entity.Vendor) error            { return create(r.v, v) }
func (r *vendorRepo) GetByID(id string) (*entity.Vendor, error) { return getByID(r.v, id) }
func (r *vendorRepo) Update(v *entity.Vendor) error            { return update(r.v, v) }

func (r *vendorRepo) List(limit, offset int) ([]*entity.Vendor, error) {
	return paginate(r.v.all(), limit, offset), nil
}

type clientRepo struct{ v *view[entity.Client] }

func (r *clientRepo) Create(c *entity.Client) error            { return create(r.v, c) }
func (r *clientRepo) GetByID(id string) (*entity.Client, error) { return getByID(r.v, id) }
func (r *clientRepo) Update(c *entity.Client) error            { return update(r.v, c) }

func (r *clientRepo) List(limit, offset int) ([]*entity.Client, error) {
	return paginate(r.v.all(), limit, offset), nil
}

type transactionRepo struct{ v *view[entity.FinancialTransaction] }

func (r *transactionRepo) Create(t *entity.FinancialTransaction) error { return create(r.v, t) }

func (r *transactionRepo) GetByID(id string) (*entity.FinancialTransaction, error) {
	return getByID(r.v, id)
}

// MarkPaid fija PaidDate una sola vez; una segunda llamada es ErrConflict.
func (r *transactionRepo) MarkPaid(id string, paidAt time.Time) error {
	t, ok := r.v.get(id)
	if !ok {
		return domain.ErrNotFound
	}
	if t.PaidDate != nil {
		return domain.ErrConflict
	}
	paid := paidAt
	t.PaidDate = &paid
	r.v.set(t)
	return nil
}

func (r *transactionRepo) List(filter repository.TransactionFilter) ([]*entity.FinancialTransaction, error) {
	out := []*entity.FinancialTransaction{}
	for _, t := range r.v.all() {
		if filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}
