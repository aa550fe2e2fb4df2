package main

import (
	"os"

	"github.com/clightning4j/reckless/internal/infrastructure/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
