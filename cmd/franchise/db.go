package main

import (
	"context"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/creditpath/franchise-sdk/pkg/configuration"
)

// openPool builds a pgx pool with the shopspring decimal codec registered
// on every connection, so NUMERIC columns scan straight into
// decimal.Decimal.
func openPool(ctx context.Context, conf *configuration.Configuration) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(conf.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
