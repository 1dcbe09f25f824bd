// Package app wires configuration into storage, services and sessions for both servers.
package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"panchayat-portal/internal/core/auth"
	"panchayat-portal/internal/core/cache"
	"panchayat-portal/internal/core/config"
	"panchayat-portal/internal/core/database"
	"panchayat-portal/internal/feature/application"
	"panchayat-portal/internal/feature/user"
	"panchayat-portal/internal/repo"
	"panchayat-portal/internal/transport/http/router"
)

type App struct {
	Cfg    *config.Config
	Log    *zap.Logger
	Stores *repo.Stores
	Cache  *cache.Cache // nil when redis.addr is empty
	Deps   router.Deps
}

func DBOpts(cfg *config.Config) database.Opts {
	return database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Database:           cfg.DB.Database,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		ConnectTimeoutSec:  cfg.DB.ConnectTimeoutSec,
		LogLevel:           cfg.DB.LogLevel,
	}
}

// Build connects storage (and redis when configured) and assembles the services.
func Build(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	st, err := repo.Open(ctx, DBOpts(cfg), cfg.DB.AutoMigrate, l)
	if err != nil {
		return nil, err
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	a := &App{Cfg: cfg, Log: l, Stores: st}

	var store cache.Store
	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := c.Ping(pctx)
		cancel()
		if err != nil {
			// the listing still works from storage
			l.Warn("redis unavailable, cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = c.Close()
		} else {
			a.Cache, store = c, c
			l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		}
	}

	sessions := &auth.Sessions{
		JWT: &auth.JWTer{
			Secret: []byte(cfg.JWT.Secret),
			Issuer: cfg.JWT.Issuer,
			TTL:    cfg.SessionTTL(),
		},
		Cookie:   cfg.Session.CookieName,
		Domain:   cfg.Session.Domain,
		Secure:   cfg.Session.Secure,
		SameSite: auth.ParseSameSite(cfg.Session.SameSite),
	}

	a.Deps = router.Deps{
		Log:      l,
		Cfg:      cfg,
		Sessions: sessions,
		Users: user.NewService(st.Users, user.Options{
			ActivateOnRegister: cfg.Auth.ActivateOnRegister,
			SelfRegisterRoles:  cfg.Auth.SelfRegisterRoles,
		}, l.Named("user")),
		Apps:  application.NewService(st.Applications, store, cfg.CacheTTL(), l.Named("application")),
		Ready: st.Ping,
	}
	return a, nil
}

// SeedAdmin creates the configured bootstrap admin when it does not exist yet.
func (a *App) SeedAdmin(ctx context.Context) error {
	s := a.Cfg.Seed
	created, err := a.Deps.Users.EnsureAdmin(ctx, user.Seed{
		Username: s.Username,
		UserID:   s.UserID,
		Email:    s.Email,
		MobileNo: s.MobileNo,
		Password: s.Password,
	})
	if err != nil {
		return err
	}
	if created {
		a.Log.Info("admin account created", zap.String("email", s.Email))
	}
	return nil
}

func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	errs = append(errs, a.Stores.Close(ctx))
	return errors.Join(errs...)
}
