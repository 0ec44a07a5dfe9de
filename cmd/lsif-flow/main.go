package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin"
)

const version = "0.1.0"

func main() {
	if err := realMain(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func realMain(args []string) error {
	app := kingpin.New("lsif-flow", "LSIF indexer for SemanticDB workspaces.").Version(version)
	app.HelpFlag.Short('h')

	indexFlags := registerIndexCommand(app)
	verifyFlags := registerVerifyCommand(app)

	command, err := app.Parse(args)
	if err != nil {
		return err
	}

	switch command {
	case indexCommandName:
		return runIndex(indexFlags)
	case verifyCommandName:
		return runVerify(verifyFlags, os.Stdout)
	}

	return nil
}
