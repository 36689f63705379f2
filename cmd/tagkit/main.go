package main

import (
	"os"

	tkerrors "github.com/vango-dev/tagkit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		tkerrors.PrintError(err)
		os.Exit(1)
	}
}
