package main

import (
	"os"

	"github.com/cvptools/cvpctl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
