package db

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/russross/meddler"
	"github.com/stretchr/testify/require"
)

type meddlerRow struct {
	ID       int64           `meddler:"id,pk"`
	TxHash   common.Hash     `meddler:"tx_hash,hash"`
	Parent   *common.Hash    `meddler:"parent,hash"`
	Contract common.Address  `meddler:"contract,address"`
	Owner    *common.Address `meddler:"owner,address"`
}

func TestMeddlerConverters(t *testing.T) {
	db, _ := newTestSQLite(t, "WAL")

	_, err := db.Exec(`CREATE TABLE records (
		id       INTEGER PRIMARY KEY,
		tx_hash  TEXT,
		parent   TEXT,
		contract TEXT,
		owner    TEXT
	)`)
	require.NoError(t, err)

	parent := common.HexToHash("0xbeef")
	in := &meddlerRow{
		TxHash:   common.HexToHash("0x1234"),
		Parent:   &parent,
		Contract: common.HexToAddress("0x00000000000000000000000000000000000000aa"),
	}
	require.NoError(t, meddler.SQLite.Insert(db, "records", in))
	require.NotZero(t, in.ID)

	var out meddlerRow
	require.NoError(t, meddler.SQLite.Load(db, "records", &out, in.ID))
	require.Equal(t, in.TxHash, out.TxHash)
	require.Equal(t, parent, *out.Parent)
	require.Equal(t, in.Contract, out.Contract)
	require.Nil(t, out.Owner)

	var stored string
	require.NoError(t, db.Get(&stored, `SELECT contract FROM records WHERE id = ?`, in.ID))
	require.Equal(t, in.Contract.Hex(), stored)
}

func TestMeddlerPreWriteRejectsOtherTypes(t *testing.T) {
	_, err := HashMeddler{}.PreWrite("0x1234")
	require.Error(t, err)

	_, err = AddressMeddler{}.PreWrite(42)
	require.Error(t, err)
}
