package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	n, err := CopyFrom(context.TODO(), nil, "compensation_data", []string{"a", "b"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"compensation_data"}, []string{"a", "b"}).WillReturnResult(3)

	rows := [][]any{{1, "x"}, {2, "y"}, {3, "z"}}
	n, err := CopyFrom(context.Background(), mock, "compensation_data", []string{"a", "b"}, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"compensation_data"}, []string{"a"}).WillReturnError(fmt.Errorf("copy failed"))

	_, err = CopyFrom(context.Background(), mock, "compensation_data", []string{"a"}, [][]any{{1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO compensation_data")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyBatched(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"a"}
	mock.ExpectCopyFrom(pgx.Identifier{"compensation_data"}, cols).WillReturnResult(2)
	mock.ExpectCopyFrom(pgx.Identifier{"compensation_data"}, cols).WillReturnResult(2)
	mock.ExpectCopyFrom(pgx.Identifier{"compensation_data"}, cols).WillReturnResult(1)

	rows := [][]any{{1}, {2}, {3}, {4}, {5}}
	n, err := CopyBatched(context.Background(), mock, "compensation_data", cols, rows, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyBatched_StopsOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"a"}
	mock.ExpectCopyFrom(pgx.Identifier{"compensation_data"}, cols).WillReturnResult(2)
	mock.ExpectCopyFrom(pgx.Identifier{"compensation_data"}, cols).WillReturnError(fmt.Errorf("disk full"))

	rows := [][]any{{1}, {2}, {3}, {4}, {5}}
	n, err := CopyBatched(context.Background(), mock, "compensation_data", cols, rows, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch 2-4")
	assert.Equal(t, int64(2), n)
}
