// Package rediscache implementa el caché de saldos derivados sobre Redis.
// El saldo cacheado nunca se muta a mano: cada movimiento nuevo invalida
// la clave y la próxima lectura recalcula contra el libro. Un fallo de
// Redis degrada a recálculo, nunca a error del caller.
package rediscache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	appinventory "github.com/hidrosur/comercial-api/internal/application/inventory"
	"github.com/hidrosur/comercial-api/pkg/config"
)

var _ appinventory.BalanceCache = (*BalanceCache)(nil)

const balanceTTL = 5 * time.Minute

// NewClient crea y verifica el cliente Redis a partir de la configuración.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opt.Password = cfg.Password
	}
	opt.DB = cfg.DB

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// BalanceCache caché de saldos por producto con TTL corto.
type BalanceCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewBalanceCache construye el caché sobre un cliente Redis ya conectado.
func NewBalanceCache(client *redis.Client, log zerolog.Logger) *BalanceCache {
	return &BalanceCache{client: client, log: log}
}

func balanceKey(productID string) string {
	return "balance:" + productID
}

// Get devuelve el saldo cacheado de un producto, si existe.
func (c *BalanceCache) Get(ctx context.Context, productID string) (decimal.Decimal, bool) {
	val, err := c.client.Get(ctx, balanceKey(productID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("product_id", productID).Msg("lectura de caché falló")
		}
		return decimal.Zero, false
	}
	balance, err := decimal.NewFromString(val)
	if err != nil {
		// Valor corrupto: descartar y recalcular
		c.client.Del(ctx, balanceKey(productID))
		return decimal.Zero, false
	}
	return balance, true
}

// Set guarda el saldo recalculado de un producto.
func (c *BalanceCache) Set(ctx context.Context, productID string, balance decimal.Decimal) {
	if err := c.client.Set(ctx, balanceKey(productID), balance.String(), balanceTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("product_id", productID).Msg("escritura de caché falló")
	}
}

// Invalidate borra las claves de los productos afectados por un
// movimiento nuevo.
func (c *BalanceCache) Invalidate(ctx context.Context, productIDs ...string) {
	if len(productIDs) == 0 {
		return
	}
	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = balanceKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Strs("product_ids", productIDs).Msg("invalidación de caché falló")
	}
}
