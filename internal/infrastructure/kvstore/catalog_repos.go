package kvstore

import (
	"fmt"
	"strings"

	"github.com/jhoicas/nexus-ledger/internal/domain"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository    = (*productRepo)(nil)
	_ repository.WarehouseRepository  = (*warehouseRepo)(nil)
	_ repository.DepartmentRepository = (*departmentRepo)(nil)
)

// create inserta un registro nuevo; ErrDuplicate si la clave ya existe.
func create[T any](v *view[T], rec *T) error {
	if _, exists := v.get(v.base.keyOf(rec)); exists {
		return fmt.Errorf("%s %s: %w", v.base.key, v.base.keyOf(rec), domain.ErrDuplicate)
	}
	v.set(rec)
	return nil
}

// update reemplaza un registro existente; ErrNotFound si no existe.
func update[T any](v *view[T], rec *T) error {
	if _, exists := v.get(v.base.keyOf(rec)); !exists {
		return domain.ErrNotFound
	}
	v.set(rec)
	return nil
}

func getByID[T any](v *view[T], id string) (*T, error) {
	rec, ok := v.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

type productRepo struct{ v *view[entity.Product] }

func (r *productRepo) Create(p *entity.Product) error {
	if _, err := r.GetBySKU(p.SKU); p.SKU != "" && err == nil {
		return fmt.Errorf("sku %s: %w", p.SKU, domain.ErrDuplicate)
	}
	return create(r.v, p)
}

func (r *productRepo) GetByID(id string) (*entity.Product, error) { return getByID(r.v, id) }

func (r *productRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.v.all() {
		if strings.EqualFold(p.SKU, sku) {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *productRepo) Update(p *entity.Product) error { return update(r.v, p) }

func (r *productRepo) List(limit, offset int) ([]*entity.Product, error) {
	return paginate(r.v.all(), limit, offset), nil
}

func (r *productRepo) Delete(id string) error {
	if _, ok := r.v.get(id); !ok {
		return domain.ErrNotFound
	}
	r.v.del(id)
	return nil
}

type warehouseRepo struct{ v *view[entity.Warehouse] }

func (r *warehouseRepo) Create(w *entity.Warehouse) error            { return create(r.v, w) }
func (r *warehouseRepo) GetByID(id string) (*entity.Warehouse, error) { return getByID(r.v, id) }
func (r *warehouseRepo) Update(w *entity.Warehouse) error            { return update(r.v, w) }

func (r *warehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	return paginate(r.v.all(), limit, offset), nil
}

func (r *warehouseRepo) Delete(id string) error {
	if _, ok := r.v.get(id); !ok {
		return domain.ErrNotFound
	}
	r.v.del(id)
	return nil
}

type departmentRepo struct{ v *view[entity.Department] }

func (r *departmentRepo) Create(d *entity.Department) error            { return create(r.v, d) }
func (r *departmentRepo) GetByID(id string) (*entity.Department, error) { return getByID(r.v, id) }
func (r *departmentRepo) Update(d *entity.Department) error            { return update(r.v, d) }

func (r *departmentRepo) List(limit, offset int) ([]*entity.Department, error) {
	return paginate(r.v.all(), limit, offset), nil
}
