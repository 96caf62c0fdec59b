package main

import (
	"os"

	"github.com/ByLCY/inkcard/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
