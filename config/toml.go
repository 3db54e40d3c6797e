package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/creachadair/atomicfile"
)

// defaultDirPerm is the default permissions used when creating directories.
const defaultDirPerm = 0700

const configHeader = `# This is a TOML config file for auctiond.
# For more information, see https://github.com/toml-lang/toml

# NOTE: Any path below can be absolute (e.g. "/var/auctiond/data") or
# relative to the home directory (e.g. "data"). The home directory is
# "$HOME/.auctiond" by default, but could be changed via $AUCTIOND_HOME env
# variable or --home cmd flag.

`

// EnsureRoot creates the root, config, and data directories if they don't exist.
func EnsureRoot(rootDir string) error {
	for _, dir := range []string{
		rootDir,
		filepath.Join(rootDir, defaultConfigDir),
		filepath.Join(rootDir, defaultDataDir),
	} {
		if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
			return fmt.Errorf("could not create directory %v: %w", dir, err)
		}
	}
	return nil
}

// ConfigFile returns the path of config.toml under rootDir.
func ConfigFile(rootDir string) string {
	return filepath.Join(rootDir, defaultConfigFilePath)
}

// WriteConfigFile encodes config as TOML and writes it to
// $rootDir/config/config.toml.
func WriteConfigFile(rootDir string, config *Config) error {
	return config.WriteTo(ConfigFile(rootDir))
}

// WriteTo writes the config to the exact file specified by path.
func (cfg *Config) WriteTo(path string) error {
	var buffer bytes.Buffer
	buffer.WriteString(configHeader)

	if err := toml.NewEncoder(&buffer).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return WriteFileAtomic(path, buffer.Bytes(), 0644)
}

// WriteDefaultConfigFileIfNone writes the default config unless one exists.
func WriteDefaultConfigFileIfNone(rootDir string) error {
	if _, err := os.Stat(ConfigFile(rootDir)); os.IsNotExist(err) {
		return WriteConfigFile(rootDir, DefaultConfig())
	}
	return nil
}

// LoadConfigFile decodes a config.toml on top of the defaults. Keys missing
// from the file keep their default values.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config keys in %s: %v", path, undecoded)
	}
	return cfg, nil
}

/****** these are for test settings ***********/

// ResetTestRoot creates a fresh temporary root holding a test config.
func ResetTestRoot(testName string) (*Config, error) {
	rootDir, err := os.MkdirTemp("", fmt.Sprintf("%s_", testName))
	if err != nil {
		return nil, err
	}
	if err := EnsureRoot(rootDir); err != nil {
		return nil, err
	}

	cfg := TestConfig().SetRoot(rootDir)
	cfg.Instrumentation.Namespace = testName
	if err := WriteConfigFile(rootDir, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteFileAtomic replaces filePath with contents so readers never observe a
// partially written file.
func WriteFileAtomic(filePath string, contents []byte, mode os.FileMode) error {
	if _, err := atomicfile.WriteAll(filePath, bytes.NewReader(contents), mode); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
