// Package kvstore es el store explícito del motor: colecciones en memoria, transacciones
// con escrituras preparadas (staging) y volcado de las colecciones modificadas al colaborador
// de persistencia después de cada commit.
package kvstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
	"github.com/jhoicas/nexus-ledger/pkg/logger"
)

// Claves de las colecciones persistidas.
const (
	KeyProducts              = "products"
	KeyWarehouses            = "warehouses"
	KeyDepartments           = "departments"
	KeyStockPositions        = "stock_positions"
	KeyMovements             = "movements"
	KeyVendors               = "vendors"
	KeyClients               = "clients"
	KeyFinancialTransactions = "financial_transactions"
)

type persisted interface {
	name() string
	load(data []byte) error
	snapshot() ([]byte, error)
}

// Store dueño único del estado en memoria. Se construye al iniciar el proceso (Open)
// y cada transacción confirmada se vuelca al CollectionStore inyectado.
type Store struct {
	mu      sync.RWMutex
	flushMu sync.Mutex
	persist repository.CollectionStore
	log     *logger.Logger

	products     *collection[entity.Product]
	warehouses   *collection[entity.Warehouse]
	departments  *collection[entity.Department]
	stock        *collection[entity.StockPosition]
	movements    *collection[entity.MovementRecord]
	vendors      *collection[entity.Vendor]
	clients      *collection[entity.Client]
	transactions *collection[entity.FinancialTransaction]
}

// stockKey clave interna de una posición (producto + bodega).
func stockKey(productID, warehouseID string) string {
	return productID + "@" + warehouseID
}

// New construye un store vacío. Si persist es nil se usa un MemoryCollectionStore.
func New(persist repository.CollectionStore, log *logger.Logger) *Store {
	if persist == nil {
		persist = NewMemoryCollectionStore()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		persist:      persist,
		log:          log.Component("kvstore"),
		products:     newCollection(KeyProducts, func(p *entity.Product) string { return p.ID }),
		warehouses:   newCollection(KeyWarehouses, func(w *entity.Warehouse) string { return w.ID }),
		departments:  newCollection(KeyDepartments, func(d *entity.Department) string { return d.ID }),
		stock:        newCollection(KeyStockPositions, func(s *entity.StockPosition) string { return stockKey(s.ProductID, s.WarehouseID) }),
		movements:    newCollection(KeyMovements, func(m *entity.MovementRecord) string { return m.ID }),
		vendors:      newCollection(KeyVendors, func(v *entity.Vendor) string { return v.ID }),
		clients:      newCollection(KeyClients, func(c *entity.Client) string { return c.ID }),
		transactions: newCollection(KeyFinancialTransactions, func(t *entity.FinancialTransaction) string { return t.ID }),
	}
}

// Open construye el store y carga todas las colecciones desde el colaborador de persistencia.
func Open(ctx context.Context, persist repository.CollectionStore, log *logger.Logger) (*Store, error) {
	s := New(persist, log)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) collections() []persisted {
	return []persisted{
		s.products, s.warehouses, s.departments, s.stock,
		s.movements, s.vendors, s.clients, s.transactions,
	}
}

// Load reemplaza el estado en memoria con lo persistido. Las claves ausentes quedan vacías.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.collections() {
		data, found, err := s.persist.Load(ctx, c.name())
		if err != nil {
			return fmt.Errorf("load %s: %w", c.name(), err)
		}
		if !found || len(data) == 0 {
			continue
		}
		if err := c.load(data); err != nil {
			return err
		}
		s.log.Debug().Str("key", c.name()).Int("bytes", len(data)).Msg("colección cargada")
	}
	return nil
}

// Run ejecuta fn con repositorios atados a una transacción preparada.
// Si fn devuelve error lo preparado se descarta y nada cambia; si no, se aplica
// todo bajo el lock de escritura y luego se vuelcan las colecciones modificadas.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	t := s.begin()
	if err := fn(t); err != nil {
		return err
	}
	dirty := t.commit()
	if len(dirty) == 0 {
		return nil
	}
	s.flush(ctx, dirty)
	return nil
}

// flush guarda las colecciones modificadas. Un fallo de persistencia no revierte el commit
// en memoria: se registra y el siguiente flush de la colección reescribe el estado completo.
func (s *Store) flush(ctx context.Context, dirty []persisted) {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	for _, c := range dirty {
		s.mu.RLock()
		data, err := c.snapshot()
		s.mu.RUnlock()
		if err != nil {
			s.log.Error().Err(err).Str("key", c.name()).Msg("no se pudo serializar la colección")
			continue
		}
		if err := s.persist.Save(ctx, c.name(), data); err != nil {
			s.log.Error().Err(err).Str("key", c.name()).Msg("no se pudo persistir la colección")
			continue
		}
		s.log.Debug().Str("key", c.name()).Int("bytes", len(data)).Msg("colección guardada")
	}
}

// Flush vuelca todas las colecciones (cierre ordenado del proceso).
func (s *Store) Flush(ctx context.Context) {
	s.flush(ctx, s.collections())
}
