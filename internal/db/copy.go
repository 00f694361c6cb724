package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Copier is anything that speaks COPY: a Pool or a pgx.Tx.
type Copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// CopyFrom bulk-inserts rows into a table using PostgreSQL COPY protocol.
func CopyFrom(ctx context.Context, pool Copier, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	n, err := pool.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, eris.Wrapf(err, "db: COPY INTO %s", table)
	}

	return n, nil
}

// CopyBatched splits rows into batches of batchSize and COPYs each one,
// logging progress between batches. A batchSize <= 0 copies everything at once.
func CopyBatched(ctx context.Context, pool Copier, table string, columns []string, rows [][]any, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = len(rows)
	}

	var total int64
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		n, err := CopyFrom(ctx, pool, table, columns, rows[start:end])
		if err != nil {
			return total, eris.Wrapf(err, "db: batch %d-%d", start, end)
		}
		total += n
		zap.L().Debug("db: copied batch",
			zap.String("table", table),
			zap.Int64("rows", total),
			zap.Int("of", len(rows)),
		)
	}
	return total, nil
}
