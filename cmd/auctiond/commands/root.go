package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cfg "github.com/tendermint/auctiond/config"
	"github.com/tendermint/auctiond/libs/log"
)

var (
	config = cfg.DefaultConfig()
	logger = log.MustNewDefaultLogger(log.LogFormatPlain, cfg.DefaultLogLevel)
)

func registerFlagsRootCmd(cmd *cobra.Command) {
	cmd.PersistentFlags().String("log_level", config.LogLevel, "log level (debug|info|warn|error)")
	cmd.PersistentFlags().String("log_format", config.LogFormat, "log format (plain|json)")
}

// ParseConfig retrieves the default environment configuration,
// sets up the auctiond root and ensures that the config is valid.
func ParseConfig() (*cfg.Config, error) {
	conf := cfg.DefaultConfig()
	if err := viper.Unmarshal(conf); err != nil {
		return nil, err
	}
	conf.SetRoot(conf.RootDir)
	if err := conf.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("error in config file: %w", err)
	}
	return conf, nil
}

// NewRootCmd returns the root command with every subcommand attached.
// Subcommands read the config and logger set up by its PersistentPreRunE.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auctiond",
		Short: "English auction program served as an ABCI application",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			if cmd.Name() == versionCmdName {
				return nil
			}
			config, err = ParseConfig()
			if err != nil {
				return err
			}
			logger, err = log.NewDefaultLogger(config.LogFormat, config.LogLevel)
			if err != nil {
				return err
			}
			logger = logger.With("module", "main")
			return nil
		},
	}
	registerFlagsRootCmd(cmd)
	cmd.AddCommand(
		NewInitFilesCmd(),
		NewRunNodeCmd(),
		NewInspectCmd(),
		NewDeriveCmd(),
		NewVersionCmd(),
	)
	return cmd
}
