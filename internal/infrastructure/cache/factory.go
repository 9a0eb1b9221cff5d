package cache

import (
	"go.uber.org/zap"

	"github.com/shopadmin/backend/internal/infrastructure/config"
)

// NewSessionStore picks the session store implementation from config:
// Redis when enabled and reachable, otherwise the in-memory store.
// Falling back keeps a dev setup working without a Redis instance; in
// production the connection error is the operator's signal.
func NewSessionStore(cfg config.RedisConfig, logger *zap.Logger) SessionStore {
	if !cfg.Enabled {
		logger.Info("Using in-memory import session store")
		return NewInMemorySessionStore()
	}

	store, err := NewRedisSessionStore(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory import session store",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return NewInMemorySessionStore()
	}

	logger.Info("Using Redis import session store", zap.String("addr", cfg.Addr()))
	return store
}
