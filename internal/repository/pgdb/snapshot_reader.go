package pgdb

import (
	"context"

	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/DRSN-tech/cocktail-search/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

// SnapshotReader выполняет все чтения запроса в одной read-only транзакции REPEATABLE READ,
// поэтому параллельный upsert загрузчика не виден посреди запроса.
type SnapshotReader struct {
	db transaction.Transactional
}

func NewSnapshotReader(db transaction.Transactional) *SnapshotReader {
	return &SnapshotReader{db: db}
}

// ReadSnapshot открывает транзакцию, выполняет fn и освобождает соединение на любом пути выхода.
func (r *SnapshotReader) ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	}, r.db)
	if err != nil {
		return e.Storage(whereami.WhereAmI(), err)
	}

	defer func() {
		if tx.IsActive() {
			// Контекст вызывающего может быть уже отменён, соединение всё равно нужно вернуть в пул
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	pgTx, ok := tx.Transaction().(pgx.Tx)
	if !ok {
		return e.Wrap(whereami.WhereAmI(), e.ErrInternalServerError)
	}

	if err = fn(tr.WithTx(ctx, pgTx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Storage(whereami.WhereAmI(), err)
	}

	return nil
}
