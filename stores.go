package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"example.com/gameshop/internal/config"
	domcart "example.com/gameshop/internal/domain/cart"
	domorder "example.com/gameshop/internal/domain/order"
	"example.com/gameshop/internal/infra/cache"
	"example.com/gameshop/internal/infra/persistence/memory"
	"example.com/gameshop/internal/infra/persistence/migrations"
	"example.com/gameshop/internal/infra/persistence/mongo"
	"example.com/gameshop/internal/infra/persistence/mysql"
	"example.com/gameshop/internal/infra/persistence/postgres"
	"example.com/gameshop/internal/logging"
)

type stores struct {
	carts   domcart.Storage
	orders  domorder.Repository
	closers []func()
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStores connects the order repository first, since a MySQL cart store
// shares its connection pool.
func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	logger := logging.FromContext(ctx)
	st := &stores{}

	var mysqlDB *sql.DB
	switch cfg.Orders.Driver {
	case "memory":
		st.orders = memory.NewOrderRepository()
	case "mysql":
		db, err := mysql.Open(cfg.Orders.DSN)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = db.Close() })
		if err := pingWithTimeout(ctx, db.PingContext); err != nil {
			st.Close()
			return nil, fmt.Errorf("mysql ping: %w", err)
		}
		if cfg.Orders.Migrate {
			if err := migrations.Up(db, migrations.MySQL); err != nil {
				st.Close()
				return nil, err
			}
		}
		mysqlDB = db
		st.orders = mysql.NewOrderRepository(db)
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Orders.DSN)
		if err != nil {
			return nil, fmt.Errorf("pg connect: %w", err)
		}
		st.closers = append(st.closers, pool.Close)
		if err := pingWithTimeout(ctx, pool.Ping); err != nil {
			st.Close()
			return nil, fmt.Errorf("pg ping: %w", err)
		}
		if cfg.Orders.Migrate {
			db := stdlib.OpenDBFromPool(pool)
			err := migrations.Up(db, migrations.Postgres)
			_ = db.Close()
			if err != nil {
				st.Close()
				return nil, err
			}
		}
		st.orders = postgres.NewOrderRepository(pool)
	case "mongo":
		client, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.Orders.DSN))
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		st.closers = append(st.closers, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(shutdownCtx)
		})
		repo := mongo.NewOrderRepository(client, cfg.Orders.MongoDatabase)
		if err := pingWithTimeout(ctx, repo.Ping); err != nil {
			st.Close()
			return nil, fmt.Errorf("mongo ping: %w", err)
		}
		st.orders = repo
	default:
		return nil, fmt.Errorf("unknown orders driver %q", cfg.Orders.Driver)
	}

	switch cfg.Cart.Store {
	case "memory":
		st.carts = memory.NewCartStorage()
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		st.closers = append(st.closers, func() { _ = client.Close() })
		store := cache.NewRedisCartStorage(client, cfg.Cart.TTL)
		if err := pingWithTimeout(ctx, store.Ping); err != nil {
			// Cart reads fail open, so keep serving.
			logger.Warn("redis_unreachable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		st.carts = store
	case "mysql":
		if mysqlDB == nil {
			st.Close()
			return nil, fmt.Errorf("cart.store=mysql requires orders.driver=mysql")
		}
		st.carts = mysql.NewCartRepository(mysqlDB)
	default:
		st.Close()
		return nil, fmt.Errorf("unknown cart store %q", cfg.Cart.Store)
	}

	return st, nil
}

func pingWithTimeout(ctx context.Context, ping func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return ping(ctx)
}
