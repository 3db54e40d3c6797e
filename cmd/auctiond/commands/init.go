package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfg "github.com/tendermint/auctiond/config"
	"github.com/tendermint/auctiond/types"
)

// NewInitFilesCmd returns the command that initializes a fresh home
// directory.
func NewInitFilesCmd() *cobra.Command {
	var (
		minimumBalance uint64
		accounts       []string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize config.toml and the genesis app state",
		Long: `Writes $home/config/config.toml and the app state to embed as
app_state in the consensus engine's genesis.json. Existing files are kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gs, err := genesisState(minimumBalance, accounts)
			if err != nil {
				return err
			}
			return initFiles(gs)
		},
	}
	cmd.Flags().Uint64Var(&minimumBalance, "minimum_balance", types.DefaultParams().MinimumBalance,
		"balance a funding wallet must keep after a deposit")
	cmd.Flags().StringSliceVar(&accounts, "account", nil,
		"genesis wallet as <address>=<balance>, may be repeated")
	return cmd
}

func initFiles(gs *types.GenesisState) error {
	if err := cfg.EnsureRoot(config.RootDir); err != nil {
		return err
	}

	configFile := cfg.ConfigFile(config.RootDir)
	if _, err := os.Stat(configFile); err == nil {
		logger.Info("Found config file", "path", configFile)
	} else {
		if err := cfg.WriteConfigFile(config.RootDir, config); err != nil {
			return err
		}
		logger.Info("Generated config file", "path", configFile)
	}

	genFile := config.GenesisFile()
	if _, err := os.Stat(genFile); err == nil {
		logger.Info("Found genesis file", "path", genFile)
		return nil
	}
	bz, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		return err
	}
	if err := cfg.WriteFileAtomic(genFile, bz, 0644); err != nil {
		return fmt.Errorf("failed to write genesis file: %w", err)
	}
	logger.Info("Generated genesis file", "path", genFile, "accounts", len(gs.Accounts))
	return nil
}

func genesisState(minimumBalance uint64, accounts []string) (*types.GenesisState, error) {
	gs := types.DefaultGenesisState()
	gs.Params.MinimumBalance = minimumBalance
	for _, entry := range accounts {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("account %q: expected <address>=<balance>", entry)
		}
		addr, err := types.ParseAddress(parts[0])
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", entry, err)
		}
		balance, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", entry, err)
		}
		gs.Accounts = append(gs.Accounts, types.GenesisAccount{Address: addr, Balance: balance})
	}
	if err := gs.ValidateBasic(); err != nil {
		return nil, err
	}
	return gs, nil
}
