package pgxutil

import (
	"database/sql"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToPgxTxOptions(t *testing.T) {
	assert.Equal(t, pgx.TxOptions{}, ToPgxTxOptions(nil))

	got := ToPgxTxOptions(&sql.TxOptions{Isolation: sql.LevelReadCommitted})
	assert.Equal(t, pgx.ReadCommitted, got.IsoLevel)
	assert.Equal(t, pgx.ReadWrite, got.AccessMode)

	got = ToPgxTxOptions(&sql.TxOptions{Isolation: sql.LevelSnapshot, ReadOnly: true})
	assert.Equal(t, pgx.RepeatableRead, got.IsoLevel)
	assert.Equal(t, pgx.ReadOnly, got.AccessMode)

	got = ToPgxTxOptions(&sql.TxOptions{Isolation: sql.LevelDefault})
	assert.Equal(t, pgx.TxIsoLevel(""), got.IsoLevel)
}
