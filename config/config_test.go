package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	assert := assert.New(t)

	// set up some defaults
	cfg := DefaultConfig()
	assert.NotNil(cfg.ABCI)
	assert.NotNil(cfg.Instrumentation)

	// check the root dir stuff...
	cfg.SetRoot("/foo")
	cfg.Genesis = "bar"
	cfg.DBPath = "/opt/data"

	assert.Equal("/foo/bar", cfg.GenesisFile())
	assert.Equal("/opt/data", cfg.DBDir())
	assert.Equal("/foo/config/config.toml", ConfigFile(cfg.RootDir))
}

func TestConfigValidateBasic(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.ValidateBasic())

	cfg.ABCI.Transport = "http"
	err := cfg.ValidateBasic()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[abci]")
}

func TestBaseConfigValidateBasic(t *testing.T) {
	testCases := map[string]struct {
		modify  func(*BaseConfig)
		wantErr bool
	}{
		"defaults":        {func(*BaseConfig) {}, false},
		"json format":     {func(c *BaseConfig) { c.LogFormat = "json" }, false},
		"text format":     {func(c *BaseConfig) { c.LogFormat = "text" }, false},
		"unknown format":  {func(c *BaseConfig) { c.LogFormat = "invalid" }, true},
		"upper level":     {func(c *BaseConfig) { c.LogLevel = "ERROR" }, false},
		"unknown level":   {func(c *BaseConfig) { c.LogLevel = "loud" }, true},
		"missing backend": {func(c *BaseConfig) { c.DBBackend = "" }, true},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			cfg := TestBaseConfig()
			tc.modify(&cfg)
			if tc.wantErr {
				assert.Error(t, cfg.ValidateBasic())
			} else {
				assert.NoError(t, cfg.ValidateBasic())
			}
		})
	}
}

func TestABCIConfigValidateBasic(t *testing.T) {
	cfg := TestABCIConfig()
	assert.NoError(t, cfg.ValidateBasic())

	cfg.Transport = TransportGRPC
	assert.NoError(t, cfg.ValidateBasic())

	cfg.ListenAddress = ""
	assert.Error(t, cfg.ValidateBasic())
}

func TestInstrumentationConfigValidateBasic(t *testing.T) {
	cfg := TestInstrumentationConfig()
	assert.NoError(t, cfg.ValidateBasic())

	cfg.Prometheus = true
	cfg.PrometheusListenAddr = ""
	assert.Error(t, cfg.ValidateBasic())

	cfg.Prometheus = false
	assert.NoError(t, cfg.ValidateBasic())

	cfg.MaxOpenConnections = -1
	assert.Error(t, cfg.ValidateBasic())
	cfg.MaxOpenConnections = 0

	cfg.Namespace = ""
	assert.Error(t, cfg.ValidateBasic())
}

func TestDefaultDBProvider(t *testing.T) {
	cfg := TestConfig().SetRoot(t.TempDir())

	db, err := DefaultDBProvider(AppDBName, cfg)
	require.NoError(t, err)
	require.NoError(t, db.Set([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	cfg.DBBackend = "nosuchdb"
	_, err = DefaultDBProvider(AppDBName, cfg)
	require.Error(t, err)
}
