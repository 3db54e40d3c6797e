package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
	dbm "github.com/tendermint/tm-db"

	"github.com/tendermint/auctiond/internal/test/factory"
	"github.com/tendermint/auctiond/libs/log"
	"github.com/tendermint/auctiond/types"
)

const genesisBalance = 1000

func newTestApp(t *testing.T, db dbm.DB, keys ...factory.Key) *Application {
	t.Helper()
	app, err := NewApplication(db, WithLogger(log.TestingLogger()))
	require.NoError(t, err)
	app.InitChain(abci.RequestInitChain{
		ChainId:       factory.ChainID,
		Time:          time.Unix(0, 0),
		AppStateBytes: factory.GenesisBytes(types.DefaultParams(), genesisBalance, keys...),
	})
	return app
}

// block executes txs as one block at height with the given unix time and
// returns the delivery results and the new app hash.
func block(t *testing.T, app *Application, height, unix int64, txs ...[]byte) ([]abci.ResponseDeliverTx, []byte) {
	t.Helper()
	app.BeginBlock(abci.RequestBeginBlock{Header: tmproto.Header{
		ChainID: factory.ChainID,
		Height:  height,
		Time:    time.Unix(unix, 0),
	}})
	results := make([]abci.ResponseDeliverTx, len(txs))
	for i, tx := range txs {
		results[i] = app.DeliverTx(abci.RequestDeliverTx{Tx: tx})
	}
	app.EndBlock(abci.RequestEndBlock{Height: height})
	return results, app.Commit().Data
}

func requireOK(t *testing.T, results []abci.ResponseDeliverTx) {
	t.Helper()
	for i, res := range results {
		require.Equal(t, types.CodeTypeOK, res.Code, "tx %d: %s", i, res.Log)
	}
}

func requireCode(t *testing.T, want *types.Error, code uint32, log string) {
	t.Helper()
	require.Equal(t, want.Code(), code, "want %s, got %q", want.Name(), log)
}
