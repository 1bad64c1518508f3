// Package redis implementa el colaborador de persistencia sobre Redis: una clave por colección.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
	"github.com/jhoicas/nexus-ledger/pkg/config"
)

var _ repository.CollectionStore = (*CollectionStore)(nil)

// CollectionStore guarda cada colección como un string JSON bajo keyPrefix+clave.
type CollectionStore struct {
	client    *goredis.Client
	keyPrefix string
}

// NewClient crea el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return client, nil
}

// NewCollectionStore construye el store con un cliente existente.
func NewCollectionStore(client *goredis.Client, keyPrefix string) *CollectionStore {
	return &CollectionStore{client: client, keyPrefix: keyPrefix}
}

func (s *CollectionStore) key(name string) string {
	return s.keyPrefix + name
}

// Load lee la colección; found=false cuando la clave no existe (redis.Nil).
func (s *CollectionStore) Load(ctx context.Context, name string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", name, err)
	}
	return data, true, nil
}

// Save reemplaza la colección completa (sin TTL).
func (s *CollectionStore) Save(ctx context.Context, name string, data []byte) error {
	if err := s.client.Set(ctx, s.key(name), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", name, err)
	}
	return nil
}

// Close cierra el cliente subyacente.
func (s *CollectionStore) Close() error {
	return s.client.Close()
}
