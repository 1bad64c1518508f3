package kvstore

import (
	"encoding/json"
	"fmt"
	"sync"
)

// collection colección en memoria de registros de un tipo, con orden de inserción estable.
type collection[T any] struct {
	key   string
	keyOf func(*T) string
	items map[string]*T
	order []string
}

func newCollection[T any](key string, keyOf func(*T) string) *collection[T] {
	return &collection[T]{key: key, keyOf: keyOf, items: make(map[string]*T)}
}

func (c *collection[T]) name() string { return c.key }

func (c *collection[T]) put(v *T) {
	k := c.keyOf(v)
	if _, ok := c.items[k]; !ok {
		c.order = append(c.order, k)
	}
	c.items[k] = v
}

func (c *collection[T]) remove(k string) {
	if _, ok := c.items[k]; !ok {
		return
	}
	delete(c.items, k)
	for i, existing := range c.order {
		if existing == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// load reemplaza el contenido con el arreglo JSON persistido.
func (c *collection[T]) load(data []byte) error {
	var list []*T
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("decode %s: %w", c.key, err)
	}
	c.items = make(map[string]*T, len(list))
	c.order = c.order[:0]
	for _, v := range list {
		if v != nil {
			c.put(v)
		}
	}
	return nil
}

// snapshot serializa la colección completa como arreglo JSON en orden de inserción.
func (c *collection[T]) snapshot() ([]byte, error) {
	list := make([]*T, 0, len(c.order))
	for _, k := range c.order {
		list = append(list, c.items[k])
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.key, err)
	}
	return data, nil
}

// view vista transaccional de una colección: lee primero lo escrito en la tx y luego lo confirmado.
type view[T any] struct {
	mu      *sync.RWMutex
	base    *collection[T]
	writes  map[string]*T
	deletes map[string]struct{}
	added   []string
}

func newView[T any](mu *sync.RWMutex, base *collection[T]) *view[T] {
	return &view[T]{mu: mu, base: base, writes: make(map[string]*T), deletes: make(map[string]struct{})}
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func (v *view[T]) get(k string) (*T, bool) {
	if _, gone := v.deletes[k]; gone {
		return nil, false
	}
	if w, ok := v.writes[k]; ok {
		return clone(w), true
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	b, ok := v.base.items[k]
	if !ok {
		return nil, false
	}
	return clone(b), true
}

func (v *view[T]) set(rec *T) {
	k := v.base.keyOf(rec)
	if _, ok := v.writes[k]; !ok {
		if _, exists := v.get(k); !exists {
			v.added = append(v.added, k)
		}
	}
	delete(v.deletes, k)
	v.writes[k] = clone(rec)
}

func (v *view[T]) del(k string) {
	delete(v.writes, k)
	v.deletes[k] = struct{}{}
}

// all devuelve todos los registros visibles en la tx, en orden de inserción.
func (v *view[T]) all() []*T {
	v.mu.RLock()
	out := make([]*T, 0, len(v.base.order)+len(v.added))
	seen := make(map[string]struct{}, len(v.base.order))
	for _, k := range v.base.order {
		seen[k] = struct{}{}
		if _, gone := v.deletes[k]; gone {
			continue
		}
		if w, ok := v.writes[k]; ok {
			out = append(out, clone(w))
			continue
		}
		out = append(out, clone(v.base.items[k]))
	}
	v.mu.RUnlock()
	for _, k := range v.added {
		if _, ok := seen[k]; ok {
			continue
		}
		if w, ok := v.writes[k]; ok {
			out = append(out, clone(w))
		}
	}
	return out
}

func (v *view[T]) dirty() bool { return len(v.writes) > 0 || len(v.deletes) > 0 }

// apply vuelca lo escrito en la colección base. El llamador tiene el lock de escritura.
func (v *view[T]) apply() {
	for k := range v.deletes {
		v.base.remove(k)
	}
	// los nuevos registros conservan el orden en que se escribieron
	for _, k := range v.added {
		if w, ok := v.writes[k]; ok {
			v.base.put(w)
			delete(v.writes, k)
		}
	}
	for _, w := range v.writes {
		v.base.put(w)
	}
}

func (v *view[T]) collectionName() string { return v.base.key }

// paginate aplica limit/offset; limit <= 0 devuelve todo desde offset.
func paginate[T any](list []*T, limit, offset int) []*T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []*T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
