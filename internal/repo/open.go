package repo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"panchayat-portal/internal/core/database"
	"panchayat-portal/internal/domain"
)

// Stores bundles the repositories of one storage backend with its lifecycle.
type Stores struct {
	Users        domain.UserRepository
	Applications domain.ApplicationRepository
	Ping         func(ctx context.Context) error
	Close        func(ctx context.Context) error
}

// Open connects the backend named by o.Driver once and builds its repositories.
func Open(ctx context.Context, o database.Opts, migrate bool, l *zap.Logger) (*Stores, error) {
	if o.Driver == "mongodb" {
		mc := database.NewMongoConnector(o)
		db, err := mc.Connect(ctx)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := EnsureMongoIndexes(ctx, db); err != nil {
				_ = mc.Close(ctx)
				return nil, err
			}
		}
		return &Stores{
			Users:        NewMongoUserRepo(db),
			Applications: NewMongoApplicationRepo(db),
			Ping:         func(ctx context.Context) error { return db.Client().Ping(ctx, readpref.Primary()) },
			Close:        mc.Close,
		}, nil
	}

	conn := database.NewConnector(o, l)
	db, err := conn.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := db.WithContext(ctx).AutoMigrate(&domain.User{}, &domain.Application{}); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	return &Stores{
		Users:        NewUserRepo(db),
		Applications: NewApplicationRepo(db),
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		Close: func(context.Context) error { return conn.Close() },
	}, nil
}
