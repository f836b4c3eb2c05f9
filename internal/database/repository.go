package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"whalewatch/internal/config"
	"whalewatch/internal/model"
)

// Repository defines the standard interface for database operations.
type Repository interface {
	Append(ctx context.Context, trade model.ClassifiedTrade) error
}

// PostgresRepository mirrors qualifying trades into Postgres. It is an
// optional sink next to the CSV trade log; its failures are contained the
// same way.
type PostgresRepository struct {
	Pool *pgxpool.Pool
}

// NewPostgresRepository connects to Postgres using the given configuration.
func NewPostgresRepository(ctx context.Context, cfg config.DatabaseConfig) (*PostgresRepository, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return &PostgresRepository{Pool: pool}, nil
}

// Migrate creates the trades table if it does not exist.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	const createTableSQL = `
	CREATE TABLE IF NOT EXISTS trades (
		id BIGSERIAL PRIMARY KEY,
		event_time BIGINT NOT NULL,
		symbol VARCHAR(20) NOT NULL,
		agg_trade_id BIGINT NOT NULL,
		price NUMERIC(30, 10) NOT NULL,
		quantity NUMERIC(30, 10) NOT NULL,
		notional NUMERIC(30, 10) NOT NULL,
		direction VARCHAR(4) NOT NULL,
		tier VARCHAR(10) NOT NULL,
		trade_time BIGINT NOT NULL,
		is_buyer_maker BOOLEAN NOT NULL
	);`
	_, err := r.Pool.Exec(ctx, createTableSQL)
	return err
}

// Append inserts one classified trade. Numeric values are passed in their
// decimal text form so no driver-level decimal adapter is needed.
func (r *PostgresRepository) Append(ctx context.Context, trade model.ClassifiedTrade) error {
	const insertSQL = `
	INSERT INTO trades (event_time, symbol, agg_trade_id, price, quantity, notional, direction, tier, trade_time, is_buyer_maker)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.Pool.Exec(ctx, insertSQL,
		trade.Event.EventTime,
		trade.Symbol,
		trade.Event.AggTradeID,
		trade.Event.Price.String(),
		trade.Event.Quantity.String(),
		trade.Notional.String(),
		string(trade.Direction),
		trade.Tier.String(),
		trade.Event.TradeTime,
		trade.Event.IsBuyerMaker,
	)
	return err
}

// Close releases the connection pool.
func (r *PostgresRepository) Close() {
	r.Pool.Close()
}
