package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tendermint/auctiond/libs/log"
)

const (
	// TransportSocket serves ABCI over a raw socket.
	TransportSocket = "socket"
	// TransportGRPC serves ABCI over gRPC.
	TransportGRPC = "grpc"
)

// NOTE: the struct tags below double as the keys of config.toml and the
// flag names bound through viper. Keep them in sync with cmd/auctiond.
var (
	DefaultAuctiondDir = ".auctiond"
	defaultConfigDir   = "config"
	defaultDataDir     = "data"

	defaultConfigFileName  = "config.toml"
	defaultGenesisJSONName = "genesis.json"

	defaultConfigFilePath  = filepath.Join(defaultConfigDir, defaultConfigFileName)
	defaultGenesisJSONPath = filepath.Join(defaultConfigDir, defaultGenesisJSONName)
)

// Config defines the top level configuration for an auctiond process.
type Config struct {
	// Top level options use an anonymous struct
	BaseConfig `mapstructure:",squash"`

	// Options for services
	ABCI            *ABCIConfig            `mapstructure:"abci" toml:"abci"`
	Instrumentation *InstrumentationConfig `mapstructure:"instrumentation" toml:"instrumentation"`
}

// DefaultConfig returns a default configuration for an auctiond process.
func DefaultConfig() *Config {
	return &Config{
		BaseConfig:      DefaultBaseConfig(),
		ABCI:            DefaultABCIConfig(),
		Instrumentation: DefaultInstrumentationConfig(),
	}
}

// TestConfig returns a configuration that can be used for testing.
func TestConfig() *Config {
	return &Config{
		BaseConfig:      TestBaseConfig(),
		ABCI:            TestABCIConfig(),
		Instrumentation: TestInstrumentationConfig(),
	}
}

// SetRoot sets the RootDir for all Config structs.
func (cfg *Config) SetRoot(root string) *Config {
	cfg.BaseConfig.RootDir = root
	return cfg
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *Config) ValidateBasic() error {
	if err := cfg.BaseConfig.ValidateBasic(); err != nil {
		return err
	}
	if err := cfg.ABCI.ValidateBasic(); err != nil {
		return fmt.Errorf("error in [abci] section: %w", err)
	}
	if err := cfg.Instrumentation.ValidateBasic(); err != nil {
		return fmt.Errorf("error in [instrumentation] section: %w", err)
	}
	return nil
}

//-----------------------------------------------------------------------------
// BaseConfig

// BaseConfig defines the base configuration for an auctiond process.
type BaseConfig struct {
	// The root directory for all data.
	// This should be set in viper so it can unmarshal into this struct
	RootDir string `mapstructure:"home" toml:"-"`

	// A custom human readable name for this process
	Moniker string `mapstructure:"moniker" toml:"moniker"`

	// Database backend: goleveldb | memdb | cleveldb | boltdb | rocksdb | badgerdb
	// Only goleveldb and memdb are compiled in without build tags.
	DBBackend string `mapstructure:"db_backend" toml:"db_backend"`

	// Database directory
	DBPath string `mapstructure:"db_dir" toml:"db_dir"`

	// Output level for logging: debug | info | warn | error
	LogLevel string `mapstructure:"log_level" toml:"log_level"`

	// Output format: 'plain' (text) or 'json'
	LogFormat string `mapstructure:"log_format" toml:"log_format"`

	// Path to the JSON file holding the genesis app state written by init
	Genesis string `mapstructure:"genesis_file" toml:"genesis_file"`
}

// DefaultBaseConfig returns a default base configuration.
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		Moniker:   defaultMoniker,
		DBBackend: "goleveldb",
		DBPath:    defaultDataDir,
		LogLevel:  DefaultLogLevel,
		LogFormat: log.LogFormatPlain,
		Genesis:   defaultGenesisJSONPath,
	}
}

// TestBaseConfig returns a base configuration for testing.
func TestBaseConfig() BaseConfig {
	cfg := DefaultBaseConfig()
	cfg.Moniker = "auctiond_test"
	cfg.DBBackend = "memdb"
	cfg.LogLevel = log.LogLevelDebug
	return cfg
}

// GenesisFile returns the full path to the genesis.json file
func (cfg BaseConfig) GenesisFile() string {
	return rootify(cfg.Genesis, cfg.RootDir)
}

// DBDir returns the full path to the database directory
func (cfg BaseConfig) DBDir() string {
	return rootify(cfg.DBPath, cfg.RootDir)
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg BaseConfig) ValidateBasic() error {
	switch strings.ToLower(cfg.LogFormat) {
	case log.LogFormatPlain, log.LogFormatText, log.LogFormatJSON:
	default:
		return errors.New("unknown log_format (must be 'plain', 'text' or 'json')")
	}
	switch strings.ToLower(cfg.LogLevel) {
	case log.LogLevelDebug, log.LogLevelInfo, log.LogLevelWarn, log.LogLevelError:
	default:
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	if cfg.DBBackend == "" {
		return errors.New("db_backend can't be empty")
	}
	return nil
}

// DefaultLogLevel is the level used when none is configured.
const DefaultLogLevel = log.LogLevelInfo

//-----------------------------------------------------------------------------
// ABCIConfig

// ABCIConfig defines how the application is exposed to the consensus engine.
type ABCIConfig struct {
	// TCP or UNIX socket address the ABCI server listens on
	ListenAddress string `mapstructure:"laddr" toml:"laddr"`

	// Mechanism to serve ABCI: socket | grpc
	Transport string `mapstructure:"transport" toml:"transport"`
}

// DefaultABCIConfig returns a default ABCI server configuration.
func DefaultABCIConfig() *ABCIConfig {
	return &ABCIConfig{
		ListenAddress: "tcp://127.0.0.1:26658",
		Transport:     TransportSocket,
	}
}

// TestABCIConfig returns an ABCI configuration for testing.
func TestABCIConfig() *ABCIConfig {
	cfg := DefaultABCIConfig()
	cfg.ListenAddress = "tcp://127.0.0.1:36658"
	return cfg
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *ABCIConfig) ValidateBasic() error {
	if cfg.ListenAddress == "" {
		return errors.New("laddr can't be empty")
	}
	switch cfg.Transport {
	case TransportSocket, TransportGRPC:
	default:
		return fmt.Errorf("unknown transport %q (must be 'socket' or 'grpc')", cfg.Transport)
	}
	return nil
}

//-----------------------------------------------------------------------------
// InstrumentationConfig

// InstrumentationConfig defines the configuration for metrics reporting.
type InstrumentationConfig struct {
	// When true, Prometheus metrics are served under /metrics on
	// PrometheusListenAddr.
	Prometheus bool `mapstructure:"prometheus" toml:"prometheus"`

	// Address to listen for Prometheus collector(s) connections.
	PrometheusListenAddr string `mapstructure:"prometheus_listen_addr" toml:"prometheus_listen_addr"`

	// Maximum number of simultaneous connections.
	// 0 - unlimited.
	MaxOpenConnections int `mapstructure:"max_open_connections" toml:"max_open_connections"`

	// Instrumentation namespace.
	Namespace string `mapstructure:"namespace" toml:"namespace"`
}

// DefaultInstrumentationConfig returns a default configuration for metrics
// reporting.
func DefaultInstrumentationConfig() *InstrumentationConfig {
	return &InstrumentationConfig{
		Prometheus:           false,
		PrometheusListenAddr: ":26661",
		MaxOpenConnections:   3,
		Namespace:            "auctiond",
	}
}

// TestInstrumentationConfig returns a default configuration for metrics
// reporting.
func TestInstrumentationConfig() *InstrumentationConfig {
	return DefaultInstrumentationConfig()
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *InstrumentationConfig) ValidateBasic() error {
	if cfg.Prometheus && cfg.PrometheusListenAddr == "" {
		return errors.New("prometheus_listen_addr can't be empty when prometheus is enabled")
	}
	if cfg.MaxOpenConnections < 0 {
		return errors.New("max_open_connections can't be negative")
	}
	if cfg.Namespace == "" {
		return errors.New("namespace can't be empty")
	}
	return nil
}

//-----------------------------------------------------------------------------
// Utils

// helper function to make config creation independent of root dir
func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

//-----------------------------------------------------------------------------
// Moniker

var defaultMoniker = getDefaultMoniker()

// getDefaultMoniker returns a default moniker, which is the host name. If runtime
// fails to get the host name, "anonymous" will be returned.
func getDefaultMoniker() string {
	moniker, err := os.Hostname()
	if err != nil {
		moniker = "anonymous"
	}
	return moniker
}
