package main

import (
	"os"
	"path/filepath"

	"github.com/tendermint/auctiond/cmd/auctiond/commands"
	cfg "github.com/tendermint/auctiond/config"
	"github.com/tendermint/auctiond/libs/cli"
)

func main() {
	cmd := cli.PrepareBaseCmd(commands.NewRootCmd(), "AUCTIOND", os.ExpandEnv(filepath.Join("$HOME", cfg.DefaultAuctiondDir)))
	_ = cmd.Execute()
}
