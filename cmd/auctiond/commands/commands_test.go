package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abcicli "github.com/tendermint/tendermint/abci/client"
	abci "github.com/tendermint/tendermint/abci/types"
	dbm "github.com/tendermint/tm-db"

	"github.com/tendermint/auctiond/app"
	cfg "github.com/tendermint/auctiond/config"
	"github.com/tendermint/auctiond/internal/access"
	"github.com/tendermint/auctiond/internal/test/factory"
	"github.com/tendermint/auctiond/libs/cli"
	"github.com/tendermint/auctiond/libs/log"
	"github.com/tendermint/auctiond/types"
)

// runCmd executes a fresh root command against home and returns its stdout.
func runCmd(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	config = cfg.DefaultConfig()

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	exec := cli.PrepareBaseCmd(root, "AUCTIOND", home)
	exec.Exit = func(int) {}
	exec.SetArgs(args)
	err := exec.Execute()
	return out.String(), err
}

func TestRootConfigSources(t *testing.T) {
	authority := factory.NewKey("authority").Address.String()
	derive := []string{"derive", authority, "1"}

	t.Run("defaults", func(t *testing.T) {
		_, err := runCmd(t, t.TempDir(), derive...)
		require.NoError(t, err)
		assert.Equal(t, cfg.DefaultLogLevel, config.LogLevel)
	})

	t.Run("flag", func(t *testing.T) {
		_, err := runCmd(t, t.TempDir(), append(derive, "--log_level=error")...)
		require.NoError(t, err)
		assert.Equal(t, "error", config.LogLevel)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("AUCTIOND_LOG_LEVEL", "debug")
		_, err := runCmd(t, t.TempDir(), derive...)
		require.NoError(t, err)
		assert.Equal(t, "debug", config.LogLevel)
	})

	t.Run("config file", func(t *testing.T) {
		home := t.TempDir()
		require.NoError(t, cfg.EnsureRoot(home))
		conf := cfg.DefaultConfig()
		conf.LogLevel = "warn"
		conf.ABCI.ListenAddress = "tcp://127.0.0.1:1"
		require.NoError(t, cfg.WriteConfigFile(home, conf))

		_, err := runCmd(t, home, derive...)
		require.NoError(t, err)
		assert.Equal(t, "warn", config.LogLevel)
		assert.Equal(t, "tcp://127.0.0.1:1", config.ABCI.ListenAddress)
		assert.Equal(t, home, config.RootDir)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := runCmd(t, t.TempDir(), append(derive, "--log_format=xml")...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error in config file")
	})
}

func TestVersion(t *testing.T) {
	out, err := runCmd(t, t.TempDir(), "version", "--verbose")
	require.NoError(t, err)

	var v struct {
		AppProtocol uint64 `json:"app_protocol"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.EqualValues(t, 1, v.AppProtocol)
}

func TestInitFiles(t *testing.T) {
	home := t.TempDir()
	funded := factory.NewKey("funded").Address

	_, err := runCmd(t, home, "init",
		"--minimum_balance", "7",
		"--account", fmt.Sprintf("%s=500", funded))
	require.NoError(t, err)

	conf, err := cfg.LoadConfigFile(cfg.ConfigFile(home))
	require.NoError(t, err)
	assert.Equal(t, cfg.DefaultConfig().ABCI, conf.ABCI)

	bz, err := os.ReadFile(filepath.Join(home, "config", "genesis.json"))
	require.NoError(t, err)
	gs, err := types.GenesisStateFromJSON(bz)
	require.NoError(t, err)
	assert.EqualValues(t, 7, gs.Params.MinimumBalance)
	assert.Equal(t, []types.GenesisAccount{{Address: funded, Balance: 500}}, gs.Accounts)

	// a second run keeps the existing genesis
	_, err = runCmd(t, home, "init", "--minimum_balance", "9")
	require.NoError(t, err)
	again, err := os.ReadFile(filepath.Join(home, "config", "genesis.json"))
	require.NoError(t, err)
	assert.Equal(t, bz, again)
}

func TestInitFilesRejectsBadAccounts(t *testing.T) {
	funded := factory.NewKey("funded").Address
	for _, account := range []string{
		"nobalance",
		"notanaddress=1",
		funded.String() + "=-1",
		types.AuctionProgramID.String() + "=1",
	} {
		_, err := runCmd(t, t.TempDir(), "init", "--account", account)
		assert.Error(t, err, account)
	}
}

func TestDerive(t *testing.T) {
	authority := factory.NewKey("authority").Address
	out, err := runCmd(t, t.TempDir(), "derive", authority.String(), "42")
	require.NoError(t, err)

	var view app.DeriveView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	auction, bump, err := access.DeriveAuction(authority, 42)
	require.NoError(t, err)
	escrow, _, err := access.DeriveEscrow(auction)
	require.NoError(t, err)
	assert.Equal(t, auction, view.Auction)
	assert.Equal(t, bump, view.Bump)
	assert.Equal(t, escrow, view.Escrow)

	_, err = runCmd(t, t.TempDir(), "derive", authority.String(), "x")
	require.Error(t, err)
}

func TestInspect(t *testing.T) {
	home := t.TempDir()
	key := factory.NewKey("inspected")

	// seed a goleveldb database with a committed genesis
	conf := cfg.DefaultConfig().SetRoot(home)
	require.NoError(t, cfg.EnsureRoot(home))
	db, err := cfg.DefaultDBProvider(cfg.AppDBName, conf)
	require.NoError(t, err)
	application, err := app.NewApplication(db)
	require.NoError(t, err)
	application.InitChain(abci.RequestInitChain{
		ChainId:       factory.ChainID,
		Time:          time.Unix(10, 0),
		AppStateBytes: factory.GenesisBytes(types.DefaultParams(), 1000, key),
	})
	application.Commit()
	require.NoError(t, db.Close())

	out, err := runCmd(t, home, "inspect", "account", key.Address.String())
	require.NoError(t, err)
	var account app.AccountView
	require.NoError(t, json.Unmarshal([]byte(out), &account))
	assert.EqualValues(t, 1000, account.Balance)
	assert.Equal(t, types.SystemProgramID, account.Owner)

	out, err = runCmd(t, home, "inspect", "state")
	require.NoError(t, err)
	var state app.State
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.EqualValues(t, 1, state.Height)
	assert.Equal(t, factory.ChainID, state.ChainID)

	_, err = runCmd(t, home, "inspect", "auction", key.Address.String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("code %d", types.ErrInvalidAccount.Code()))
}

func TestRunNode(t *testing.T) {
	defer leaktest.Check(t)()

	conf := cfg.TestConfig().SetRoot(t.TempDir())
	conf.ABCI.ListenAddress = fmt.Sprintf("unix://%s", filepath.Join(t.TempDir(), "abci.sock"))
	memdb := func(string, *cfg.Config) (dbm.DB, error) { return dbm.NewMemDB(), nil }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- runNode(ctx, conf, log.NewNopLogger(), memdb) }()

	var client abcicli.Client
	require.Eventually(t, func() bool {
		c, err := abcicli.NewClient(conf.ABCI.ListenAddress, cfg.TransportSocket, true)
		if err != nil || c.Start() != nil {
			return false
		}
		client = c
		return true
	}, 5*time.Second, 50*time.Millisecond)
	defer func() { _ = client.Stop() }()

	info, err := client.InfoSync(abci.RequestInfo{})
	require.NoError(t, err)
	assert.Equal(t, app.AppName, info.Data)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runNode did not return after cancel")
	}
}

func TestListenMetricsLimit(t *testing.T) {
	conf := cfg.TestInstrumentationConfig()
	conf.PrometheusListenAddr = "127.0.0.1:0"
	conf.MaxOpenConnections = 1

	ln, err := listenMetrics(conf)
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	conf.PrometheusListenAddr = "not-an-address"
	_, err = listenMetrics(conf)
	require.Error(t, err)
}
