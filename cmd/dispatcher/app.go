package main

import (
	"context"
	"fmt"

	"lead-dispatcher/internal/common/config"
	"lead-dispatcher/internal/common/database"
	"lead-dispatcher/internal/common/logger"
	"lead-dispatcher/internal/common/observability"
	"lead-dispatcher/internal/dedup"
	"lead-dispatcher/internal/notify"
	"lead-dispatcher/internal/routing"
	endofcallreport "lead-dispatcher/internal/webhooks/end-of-call-report"
)

// app holds the wired pipeline and the resources that need closing.
type app struct {
	config  *endofcallreport.Config
	service *endofcallreport.Service
	handler *endofcallreport.Handler
	redis   *database.RedisClient
	obs     *observability.Observability
}

func newApp(ctx context.Context, cfg *config.Config, log logger.Logger, obs *observability.Observability) (*app, error) {
	table, err := routing.NewTable(cfg.Routing)
	if err != nil {
		return nil, err
	}

	dispatcher, err := notify.NewFromConfig(ctx, cfg.Notifications, log)
	if err != nil {
		return nil, err
	}

	a := &app{obs: obs}

	var guard *dedup.Guard
	if cfg.Dedup.Enabled && cfg.Database.Redis.Address != "" {
		a.redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		if err := a.redis.Ping(ctx); err != nil {
			log.Warn("redis unavailable at startup, duplicate checks will fail open", map[string]interface{}{
				"error": err,
			})
		}
		guard = dedup.NewGuard(a.redis.GetClient(), config.GetDuration(cfg.Dedup.TTL), cfg.Dedup.KeyPrefix)
	}

	a.config = endofcallreport.FromAppConfig(cfg)
	if err := a.config.Validate(); err != nil {
		a.Close()
		return nil, err
	}

	a.service = endofcallreport.NewService(endofcallreport.ServiceDependencies{
		Logger:        log,
		Routing:       table,
		Notifier:      dispatcher,
		Guard:         guard,
		Observability: obs,
	}, a.config)
	a.handler = endofcallreport.NewHandler(a.service, a.config, log)

	log.Info("pipeline ready", map[string]interface{}{
		"provider":         dispatcher.Provider(),
		"routedAssistants": table.Len(),
		"dedup":            guard != nil,
	})
	return a, nil
}

// ready reports whether backing services answer.
func (a *app) ready(ctx context.Context) error {
	if a.redis == nil {
		return nil
	}
	return a.redis.Ping(ctx)
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
