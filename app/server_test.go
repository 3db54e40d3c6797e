package app

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	abcicli "github.com/tendermint/tendermint/abci/client"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
	dbm "github.com/tendermint/tm-db"

	"github.com/tendermint/auctiond/internal/test/factory"
	"github.com/tendermint/auctiond/libs/log"
	"github.com/tendermint/auctiond/types"
)

func TestSocketServer(t *testing.T) {
	s := newScenario()
	app, err := NewApplication(dbm.NewMemDB())
	require.NoError(t, err)

	addr := fmt.Sprintf("unix://%s", filepath.Join(t.TempDir(), "abci.sock"))
	logger := log.ServiceLogger(log.TestingLogger())

	srv, err := server.NewServer(addr, "socket", app)
	require.NoError(t, err)
	srv.SetLogger(logger.With("module", "abci-server"))
	require.NoError(t, srv.Start())
	t.Cleanup(func() {
		if err := srv.Stop(); err != nil {
			t.Error(err)
		}
	})

	client, err := abcicli.NewClient(addr, "socket", true)
	require.NoError(t, err)
	client.SetLogger(logger.With("module", "abci-client"))
	require.NoError(t, client.Start())
	t.Cleanup(func() {
		if err := client.Stop(); err != nil {
			t.Error(err)
		}
	})

	_, err = client.InitChainSync(abci.RequestInitChain{
		ChainId:       factory.ChainID,
		AppStateBytes: factory.GenesisBytes(types.DefaultParams(), genesisBalance, s.keys()...),
	})
	require.NoError(t, err)

	checked, err := client.CheckTxSync(abci.RequestCheckTx{Tx: s.initialize()})
	require.NoError(t, err)
	require.Equal(t, types.CodeTypeOK, checked.Code, checked.Log)

	_, err = client.BeginBlockSync(abci.RequestBeginBlock{Header: tmproto.Header{
		ChainID: factory.ChainID,
		Height:  1,
		Time:    time.Unix(150, 0),
	}})
	require.NoError(t, err)
	for _, tx := range [][]byte{s.initialize(), s.bid(s.alice, types.Address{}, 120)} {
		res, err := client.DeliverTxSync(abci.RequestDeliverTx{Tx: tx})
		require.NoError(t, err)
		require.Equal(t, types.CodeTypeOK, res.Code, res.Log)
	}
	_, err = client.EndBlockSync(abci.RequestEndBlock{Height: 1})
	require.NoError(t, err)
	commit, err := client.CommitSync()
	require.NoError(t, err)
	require.NotEmpty(t, commit.Data)

	info, err := client.InfoSync(abci.RequestInfo{})
	require.NoError(t, err)
	require.EqualValues(t, 1, info.LastBlockHeight)
	require.Equal(t, commit.Data, info.LastBlockAppHash)

	res, err := client.QuerySync(abci.RequestQuery{Path: QueryAuction, Data: []byte(s.auction.String())})
	require.NoError(t, err)
	require.Equal(t, types.CodeTypeOK, res.Code, res.Log)
	require.Contains(t, string(res.Value), `"highest_bid":"120"`)
}
