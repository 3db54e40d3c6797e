package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	tmversion "github.com/tendermint/tendermint/version"

	"github.com/tendermint/auctiond/version"
)

const versionCmdName = "version"

// NewVersionCmd returns the command printing version info.
func NewVersionCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   versionCmdName,
		Short: "Show version info",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				fmt.Fprintln(cmd.OutOrStdout(), version.Version)
				return nil
			}
			values, err := json.MarshalIndent(struct {
				Auctiond    string `json:"auctiond"`
				ABCI        string `json:"abci"`
				AppProtocol uint64 `json:"app_protocol"`
			}{
				Auctiond:    version.Version,
				ABCI:        tmversion.ABCIVersion,
				AppProtocol: version.AppProtocol,
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(values))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show protocol and library versions")
	return cmd
}
