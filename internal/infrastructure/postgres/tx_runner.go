package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/almacen-api/internal/application/stockops"
)

// Ensure TxRunner implements stockops.TxRunner.
var _ stockops.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos del motor atados a la
// tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos stockops.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := stockops.TxRepos{
		Operations: NewOperationRepository(tx),
		Items:      NewItemRepository(tx),
		Snapshots:  NewSnapshotRepository(tx),
		Locations:  NewLocationRepository(tx),
		Movements:  NewMovementRepository(tx),
		Products:   NewProductRepository(tx),
		Warehouses: NewWarehouseRepository(tx),
		Orders:     NewOrderRepository(tx),
		Refs:       NewReferenceProvider(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
