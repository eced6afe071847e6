package dbkeeper

import (
	"context"
	"fmt"
	"time"

	"github.com/drstein77/plantcart/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Log interface {
	Info(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// DBKeeper reads the product catalog from Postgres.
type DBKeeper struct {
	pool *pgxpool.Pool
	log  Log
}

// NewDBKeeper connects to dsn and applies the migrations in migrationsDir.
func NewDBKeeper(ctx context.Context, dsn func() string, migrationsDir string, log Log) (*DBKeeper, error) {
	addr := dsn()
	if addr == "" {
		return nil, fmt.Errorf("database dsn is empty")
	}

	config, err := pgxpool.ParseConfig(addr)
	if err != nil {
		log.Error("Unable to parse database DSN", zap.Error(err))
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		log.Error("Unable to connect to database", zap.Error(err))
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := migrateUp(addr, migrationsDir, log); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("Connected!")

	return &DBKeeper{
		pool: pool,
		log:  log,
	}, nil
}

// GetProducts returns the catalog rows for ids in the order the ids were given.
// Unknown ids are skipped.
func (kp *DBKeeper) GetProducts(ctx context.Context, ids []string) ([]models.Product, error) {
	// Checking database connection
	if kp.pool == nil {
		return nil, fmt.Errorf("database connection pool is nil")
	}

	query := `
		SELECT id::text, name, description, price::float8
		FROM products
		WHERE id::text = ANY($1)
		ORDER BY array_position($1::text[], id::text)
	`

	rows, err := kp.pool.Query(ctx, query, ids)
	if err != nil {
		kp.log.Error("Failed to execute query", zap.Error(err))
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0, len(ids))
	for rows.Next() {
		var product models.Product
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
		)
		if err != nil {
			kp.log.Error("Failed to scan row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		products = append(products, product)
	}

	// Checking for errors during iteration
	if rows.Err() != nil {
		kp.log.Error("Error occurred during rows iteration", zap.Error(rows.Err()))
		return nil, fmt.Errorf("error during rows iteration: %w", rows.Err())
	}

	kp.log.Info("Successfully retrieved products", zap.Int("count", len(products)))
	return products, nil
}

func (kp *DBKeeper) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := kp.pool.Ping(ctx); err != nil {
		kp.log.Error("Database ping failed", zap.Error(err))
		return false
	}

	return true
}

func (kp *DBKeeper) Close() bool {
	if kp.pool != nil {
		kp.pool.Close()
		kp.log.Info("Database connection pool closed")
		return true
	}
	kp.log.Info("Attempted to close a nil database connection pool")
	return false
}
