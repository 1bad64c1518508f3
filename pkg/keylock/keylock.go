// Package keylock serializa escrituras por clave lógica dentro del proceso.
// Cumple el papel del SELECT ... FOR UPDATE por fila: dos operaciones sobre la misma
// clave (producto+bodega, tipo+entidad) nunca se intercalan; claves distintas avanzan en paralelo.
package keylock

import (
	"sort"
	"sync"
)

// Locker mantiene un mutex por clave con conteo de referencias; las entradas sin uso se eliminan.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New construye un Locker vacío.
func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Lock adquiere todas las claves indicadas y devuelve la función que las libera.
// Las claves se ordenan y deduplican para que dos llamadas con conjuntos solapados no se bloqueen mutuamente.
func (l *Locker) Lock(keys ...string) (unlock func()) {
	ordered := normalize(keys)
	acquired := make([]*entry, 0, len(ordered))
	for _, k := range ordered {
		e := l.ref(k)
		e.mu.Lock()
		acquired = append(acquired, e)
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(acquired) - 1; i >= 0; i-- {
				acquired[i].mu.Unlock()
				l.unref(ordered[i])
			}
		})
	}
}

func (l *Locker) ref(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.locks[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// size devuelve el número de claves con referencias vivas.
func (l *Locker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// StockKey clave de bloqueo para una posición de stock.
func StockKey(productID, warehouseID string) string {
	return "stock:" + productID + "@" + warehouseID
}

// AccountKey clave de bloqueo para la cuenta de un proveedor o cliente.
func AccountKey(entityType, entityID string) string {
	return "account:" + entityType + ":" + entityID
}

// DepartmentKey clave de bloqueo para el presupuesto acumulado de un departamento.
func DepartmentKey(departmentID string) string {
	return "department:" + departmentID
}
