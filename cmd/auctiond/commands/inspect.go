package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	abci "github.com/tendermint/tendermint/abci/types"
	dbm "github.com/tendermint/tm-db"

	"github.com/tendermint/auctiond/app"
	cfg "github.com/tendermint/auctiond/config"
	"github.com/tendermint/auctiond/types"
)

// NewInspectCmd returns the command that reads committed state straight from
// the database. The database must not be in use by a running process.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print committed auctions and accounts from the local database",
	}
	cmd.AddCommand(
		newInspectQueryCmd("auction", app.QueryAuction, "Print an auction record with its escrow and item"),
		newInspectQueryCmd("account", app.QueryAccount, "Print a raw account"),
		&cobra.Command{
			Use:   "state",
			Short: "Print the last committed app state",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApplication(func(application *app.Application) error {
					return printJSON(cmd.OutOrStdout(), application.LastState())
				})
			},
		},
	)
	return cmd
}

func newInspectQueryCmd(use, path, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <address>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApplication(func(application *app.Application) error {
				return query(cmd.OutOrStdout(), application, path, args[0])
			})
		},
	}
}

func withApplication(fn func(*app.Application) error) error {
	db, err := cfg.DefaultDBProvider(cfg.AppDBName, config)
	if err != nil {
		return err
	}
	defer db.Close()

	application, err := app.NewApplication(db, app.WithLogger(logger.With("module", "app")))
	if err != nil {
		return err
	}
	return fn(application)
}

// NewDeriveCmd returns the command printing the program derived addresses of
// an auction.
func NewDeriveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "derive <authority> <nonce>",
		Short: "Print the auction, escrow and item addresses for an authority and nonce",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.NewApplication(dbm.NewMemDB())
			if err != nil {
				return err
			}
			return query(cmd.OutOrStdout(), application, app.QueryDerive, args[0]+"/"+args[1])
		},
	}
}

func query(w io.Writer, application *app.Application, path, data string) error {
	res := application.Query(abci.RequestQuery{Path: path, Data: []byte(data)})
	if res.Code != types.CodeTypeOK {
		return fmt.Errorf("query %s failed with code %d: %s", path, res.Code, res.Log)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, res.Value, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}

func printJSON(w io.Writer, v interface{}) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(bz))
	return err
}
