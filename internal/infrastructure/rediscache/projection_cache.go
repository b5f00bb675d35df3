// Package rediscache implementa la caché de proyecciones de stock sobre
// Redis. Best-effort: cualquier fallo de la caché se registra y se sigue; la
// fuente de verdad es siempre PostgreSQL.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-ledger/internal/application/ledger"
	"github.com/jhoicas/almacen-ledger/pkg/config"
	"github.com/jhoicas/almacen-ledger/pkg/logger"
)

const (
	keyNamespace = "almacen"
	stockPrefix  = "stock"
)

var _ ledger.ProjectionCache = (*ProjectionCache)(nil)

// ProjectionCache caché de stock por producto con TTL.
type ProjectionCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// New conecta a Redis y verifica la conexión.
func New(ctx context.Context, cfg config.RedisConfig, ttl time.Duration, log *logger.Logger) (*ProjectionCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &ProjectionCache{client: client, ttl: ttl, log: log}, nil
}

func stockKey(productID string) string {
	return fmt.Sprintf("%s:%s:%s", keyNamespace, stockPrefix, productID)
}

// GetStock lee la proyección cacheada del producto. Un fallo de Redis se trata
// como miss.
func (c *ProjectionCache) GetStock(ctx context.Context, productID string) (map[string]decimal.Decimal, bool) {
	raw, err := c.client.Get(ctx, stockKey(productID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("product_id", productID).Msg("fallo leyendo caché de stock")
		}
		return nil, false
	}
	var stock map[string]decimal.Decimal
	if err := json.Unmarshal([]byte(raw), &stock); err != nil {
		c.log.Warn().Err(err).Str("product_id", productID).Msg("payload de caché corrupto; se descarta")
		c.InvalidateProduct(ctx, productID)
		return nil, false
	}
	return stock, true
}

// SetStock escribe la proyección con TTL.
func (c *ProjectionCache) SetStock(ctx context.Context, productID string, stock map[string]decimal.Decimal) {
	payload, err := json.Marshal(stock)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, stockKey(productID), payload, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("product_id", productID).Msg("fallo escribiendo caché de stock")
	}
}

// InvalidateProduct borra la proyección del producto.
func (c *ProjectionCache) InvalidateProduct(ctx context.Context, productID string) {
	if err := c.client.Del(ctx, stockKey(productID)).Err(); err != nil {
		c.log.Warn().Err(err).Str("product_id", productID).Msg("fallo invalidando caché de stock")
	}
}

// Close cierra la conexión.
func (c *ProjectionCache) Close() error {
	return c.client.Close()
}

// NopCache implementación no-op para entornos sin Redis.
type NopCache struct{}

var _ ledger.ProjectionCache = NopCache{}

// GetStock siempre responde miss.
func (NopCache) GetStock(context.Context, string) (map[string]decimal.Decimal, bool) {
	return nil, false
}

// SetStock descarta la escritura.
func (NopCache) SetStock(context.Context, string, map[string]decimal.Decimal) {}

// InvalidateProduct no hace nada.
func (NopCache) InvalidateProduct(context.Context, string) {}
