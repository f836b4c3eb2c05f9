package database

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"whalewatch/internal/model"
)

var (
	pool *pgxpool.Pool
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	// Define the PostgreSQL container request
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpassword",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}

	// Create and start the PostgreSQL container
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			log.Fatalf("could not stop postgres container: %s", err)
		}
	}()

	// Get the container's mapped port and host
	host, err := pgContainer.Host(ctx)
	if err != nil {
		log.Fatalf("could not get container host: %s", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatalf("could not get mapped port: %s", err)
	}

	// Create the database connection string
	connStr := "postgres://testuser:testpassword@" + host + ":" + port.Port() + "/testdb"

	// Create a new connection pool
	pool, err = pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("could not connect to database: %s", err)
	}
	defer pool.Close()

	// Run the tests
	code := m.Run()

	os.Exit(code)
}

func TestPostgresRepository_MigrateAndAppend(t *testing.T) {
	ctx := context.Background()
	repo := &PostgresRepository{Pool: pool}

	require.NoError(t, repo.Migrate(ctx))
	// Migrate must be safe to run again.
	require.NoError(t, repo.Migrate(ctx))

	trade := model.ClassifiedTrade{
		Symbol: "BTCUSDT",
		Event: model.TradeEvent{
			EventTime:    1000,
			AggTradeID:   55,
			Price:        decimal.RequireFromString("30000.00"),
			Quantity:     decimal.RequireFromString("2.0"),
			PriceText:    "30000.00",
			QuantityText: "2.0",
			TradeTime:    1000,
			IsBuyerMaker: false,
		},
		Notional:  decimal.NewFromInt(60000),
		Direction: model.Buy,
		Tier:      model.TierNotable,
	}

	require.NoError(t, repo.Append(ctx, trade))

	var (
		symbol       string
		aggTradeID   int64
		notional     string
		direction    string
		tier         string
		isBuyerMaker bool
	)
	err := pool.QueryRow(ctx,
		"SELECT symbol, agg_trade_id, notional::text, direction, tier, is_buyer_maker FROM trades WHERE agg_trade_id = 55").
		Scan(&symbol, &aggTradeID, &notional, &direction, &tier, &isBuyerMaker)
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", symbol)
	assert.Equal(t, int64(55), aggTradeID)
	assert.True(t, decimal.RequireFromString(notional).Equal(decimal.NewFromInt(60000)))
	assert.Equal(t, "BUY", direction)
	assert.Equal(t, "NOTABLE", tier)
	assert.False(t, isBuyerMaker)
}
